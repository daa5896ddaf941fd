package routes

import (
	"path"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Role is the part a file plays in its route record.
type Role int

const (
	RolePage Role = iota
	RoleIndex
	RoleLayout
	RoleError
	RoleLoader
	RoleCatchAll
)

func (r Role) String() string {
	switch r {
	case RolePage:
		return "page"
	case RoleIndex:
		return "index"
	case RoleLayout:
		return "layout"
	case RoleError:
		return "error"
	case RoleLoader:
		return "loader"
	case RoleCatchAll:
		return "catch-all"
	default:
		return "unknown"
	}
}

// Identifier derives the symbol a file is imported under from its path
// relative to the routes directory.
//
// The extension and marker suffixes are dropped, dynamic-segment brackets
// are unwrapped, and the remaining words are joined in camel case. Loader
// symbols start lower-case and end in "Loader"; error boundaries end in
// "Boundary". A leading digit gets an underscore prefix.
func Identifier(relPath string, role Role, conv Convention) string {
	rel := strings.TrimPrefix(path.Clean(strings.ReplaceAll(relPath, "\\", "/")), "./")
	dir, name := path.Split(rel)
	if stem, _, _, ok := SplitName(name, conv); ok {
		name = stem
	}

	id := camelWords(paramRe.ReplaceAllString(dir+name, "$1"))
	if id == "" {
		id = "Route"
	}

	switch role {
	case RoleLoader:
		id = lowerFirst(id) + "Loader"
	case RoleError:
		id += "Boundary"
	}
	return safeIdent(id)
}

// MountSymbol derives the import symbol for a sub-router mounted at
// mountPath, e.g. "/docs/v2" becomes "DocsV2Routes".
func MountSymbol(mountPath string) string {
	id := camelWords(strings.ReplaceAll(mountPath, ":", ""))
	if id == "" {
		id = "Root"
	}
	return safeIdent(id + "Routes")
}

func camelWords(s string) string {
	words := strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	// Casers keep state between calls so each derivation gets its own.
	title := cases.Title(language.Und, cases.NoLower)

	var b strings.Builder
	for _, w := range words {
		b.WriteString(title.String(w))
	}
	return b.String()
}

func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}

func safeIdent(id string) string {
	if id != "" && unicode.IsDigit(rune(id[0])) {
		return "_" + id
	}
	return id
}
