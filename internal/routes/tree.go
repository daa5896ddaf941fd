package routes

import (
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar"

	routeerrors "github.com/conneroisu/routegen/internal/errors"
)

// Node is one entry of the intermediate route tree. A directory node only
// carries Path, File and Children; a file node carries everything else.
type Node struct {
	Path   string
	File   string
	Dir    bool
	Role   Role
	Lazy   bool
	Symbol string
	// ImportPath is the module specifier the artifact imports the file by.
	ImportPath string

	Children []*Node
}

// Builder walks a routes directory and produces its Node tree.
type Builder struct {
	conv         Convention
	importPrefix string
	skip         map[string]bool
}

// NewBuilder creates a tree builder. importPrefix is prepended to every
// file's extension-less relative path to form its import specifier.
func NewBuilder(conv Convention, importPrefix string) *Builder {
	if importPrefix == "" {
		importPrefix = "."
	}
	return &Builder{
		conv:         conv,
		importPrefix: strings.TrimSuffix(importPrefix, "/"),
		skip:         make(map[string]bool),
	}
}

// Skip excludes exact slash-separated paths, relative to the routes
// directory, from the walk.
func (b *Builder) Skip(rel ...string) *Builder {
	for _, r := range rel {
		b.skip[path.Clean(r)] = true
	}
	return b
}

// Build reads fsys from its root and returns the nodes below basePath.
// Entries are visited in lexical order, except that the catch-all file is
// moved first or last according to the convention.
func (b *Builder) Build(fsys fs.FS, basePath string) ([]*Node, error) {
	return b.buildDir(fsys, ".", CleanPath(basePath))
}

func (b *Builder) buildDir(fsys fs.FS, dir, parentPath string) ([]*Node, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, routeerrors.NewIOError(routeerrors.ErrCodeReadFailed,
			"reading routes directory", err).WithFile(dir)
	}
	b.orderEntries(entries)

	var nodes []*Node
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		rel := name
		if dir != "." {
			rel = dir + "/" + name
		}
		if b.ignored(rel) {
			continue
		}

		if entry.IsDir() {
			dirPath := DeriveDirPath(name, parentPath, b.conv)
			children, err := b.buildDir(fsys, rel, dirPath)
			if err != nil {
				return nil, err
			}
			if len(children) == 0 {
				continue
			}
			nodes = append(nodes, &Node{Path: dirPath, File: rel, Dir: true, Children: children})
			continue
		}

		node, err := b.fileNode(rel, name, parentPath)
		if err != nil {
			return nil, err
		}
		if node != nil {
			nodes = append(nodes, node)
		}
	}
	return nodes, nil
}

func (b *Builder) fileNode(rel, name, parentPath string) (*Node, error) {
	stem, lazy, loader, ok := SplitName(name, b.conv)
	if !ok {
		return nil, nil
	}

	if lower := strings.ToLower(stem); (lower == IndexName || lower == "_index") && stem != IndexName {
		return nil, routeerrors.NewConventionError(routeerrors.ErrCodeIndexName,
			fmt.Sprintf("index files must be named %q", IndexName)).WithFile(rel)
	}

	node := &Node{File: rel, Lazy: lazy}
	switch {
	case loader:
		node.Role = RoleLoader
	case stem == IndexName:
		node.Role = RoleIndex
	case stem == LayoutName:
		node.Role = RoleLayout
	case stem == ErrorName:
		node.Role = RoleError
	case stem == CatchAllName:
		node.Role = RoleCatchAll
	default:
		node.Role = RolePage
	}

	switch {
	case lazy && node.Role == RoleLayout:
		return nil, routeerrors.NewConventionError(routeerrors.ErrCodeLazyLayout,
			"layouts cannot be lazy").WithFile(rel)
	case lazy && node.Role == RoleError:
		return nil, routeerrors.NewConventionError(routeerrors.ErrCodeLazyError,
			"error boundaries cannot be lazy").WithFile(rel)
	case loader && stem == CatchAllName:
		return nil, routeerrors.NewConventionError(routeerrors.ErrCodeCatchAllLoader,
			"catch-all routes cannot own a loader").WithFile(rel)
	}

	if node.Role == RoleCatchAll {
		node.Path = CatchAllPath(parentPath)
	} else {
		node.Path = DerivePath(stem, parentPath)
	}
	node.Symbol = Identifier(rel, node.Role, b.conv)
	node.ImportPath = b.importPath(rel)
	return node, nil
}

func (b *Builder) importPath(rel string) string {
	if ext, ok := b.conv.extension(rel); ok {
		rel = strings.TrimSuffix(rel, ext)
	}
	return b.importPrefix + "/" + rel
}

func (b *Builder) ignored(rel string) bool {
	if b.skip[rel] {
		return true
	}
	base := path.Base(rel)
	for _, pattern := range b.conv.Ignore {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
		if ok, _ := doublestar.Match(pattern, base); ok {
			return true
		}
	}
	return false
}

// orderEntries keeps fs.ReadDir's lexical order and moves catch-all files to
// the configured end.
func (b *Builder) orderEntries(entries []fs.DirEntry) {
	rank := func(e fs.DirEntry) int {
		if e.IsDir() {
			return 0
		}
		stem, _, _, ok := SplitName(e.Name(), b.conv)
		if !ok || stem != CatchAllName {
			return 0
		}
		if b.conv.CatchAllOrder == CatchAllFirst {
			return -1
		}
		return 1
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return rank(entries[i]) < rank(entries[j])
	})
}
