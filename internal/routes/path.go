package routes

import (
	"regexp"
	"strings"
)

var paramRe = regexp.MustCompile(`\[([A-Za-z_$][A-Za-z0-9_$]*)\]`)

// SplitName strips the extension and at most one marker suffix from a file
// name. The lazy marker is checked before the loader marker.
func SplitName(name string, conv Convention) (stem string, lazy, loader, ok bool) {
	ext, ok := conv.extension(name)
	if !ok {
		return "", false, false, false
	}
	stem = strings.TrimSuffix(name, ext)

	switch {
	case strings.HasSuffix(stem, LazySuffix) && len(stem) > len(LazySuffix):
		return strings.TrimSuffix(stem, LazySuffix), true, false, true
	case strings.HasSuffix(stem, LoaderSuffix) && len(stem) > len(LoaderSuffix):
		return strings.TrimSuffix(stem, LoaderSuffix), false, true, true
	}
	return stem, false, false, true
}

// IsReserved reports whether a stem is one of the special basenames that add
// no path segment of their own.
func IsReserved(stem string) bool {
	switch stem {
	case IndexName, LayoutName, ErrorName, CatchAllName:
		return true
	}
	return false
}

// DerivePath maps a file stem and its parent's logical path to the file's
// logical path.
//
//	index, _layout, _error, _any -> parent
//	[id]                         -> parent/:id
//	a.b                          -> parent/a/b
func DerivePath(stem, parent string) string {
	if IsReserved(stem) {
		return CleanPath(parent)
	}
	return JoinPath(parent, segmentOf(stem))
}

// DeriveDirPath maps a directory name to its logical path under parent.
// Route groups follow the convention's group policy.
func DeriveDirPath(name, parent string, conv Convention) string {
	if inner, ok := groupName(name); ok {
		if conv.Groups == GroupUnwrap {
			return CleanPath(parent)
		}
		return JoinPath(parent, segmentOf(inner))
	}
	return JoinPath(parent, segmentOf(name))
}

// CatchAllPath returns the wildcard path below parent.
func CatchAllPath(parent string) string {
	return JoinPath(parent, "*")
}

func segmentOf(stem string) string {
	seg := paramRe.ReplaceAllString(stem, ":$1")
	return strings.ReplaceAll(seg, ".", "/")
}

func groupName(name string) (string, bool) {
	if len(name) > 2 && strings.HasPrefix(name, "(") && strings.HasSuffix(name, ")") {
		return name[1 : len(name)-1], true
	}
	return "", false
}

// JoinPath joins a logical parent path with a relative segment.
func JoinPath(parent, seg string) string {
	return CleanPath(parent + "/" + seg)
}

// CleanPath normalises a logical path: a single leading slash, no repeated
// separators and no trailing slash unless the path is the root.
func CleanPath(p string) string {
	parts := strings.Split(p, "/")
	kept := parts[:0]
	for _, part := range parts {
		if part != "" {
			kept = append(kept, part)
		}
	}
	return "/" + strings.Join(kept, "/")
}

// ParentPath returns the logical parent of p, or "" for the root.
func ParentPath(p string) string {
	p = CleanPath(p)
	if p == "/" {
		return ""
	}
	i := strings.LastIndex(p, "/")
	if i == 0 {
		return "/"
	}
	return p[:i]
}

// IsWithin reports whether p equals base or lies below it.
func IsWithin(p, base string) bool {
	p, base = CleanPath(p), CleanPath(base)
	if base == "/" || p == base {
		return true
	}
	return strings.HasPrefix(p, base+"/")
}
