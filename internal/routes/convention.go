// Package routes turns a directory of page modules into a nested route table.
//
// The pipeline is split the same way the files are:
//
//   - path.go derives logical route paths from file and folder names
//   - ident.go derives code identifiers from relative file paths
//   - tree.go walks an fs.FS and builds the intermediate Node tree
//   - merge.go folds the Node tree into Records keyed by logical path
//   - order.go sorts sibling Records so first-match routing picks the most
//     specific route
//
// Nothing in this package touches the real filesystem directly; callers hand
// in an fs.FS so tests can run against fstest.MapFS.
package routes

import (
	"fmt"
	"strings"
)

// Reserved file stems and markers.
const (
	IndexName    = "index"
	LayoutName   = "_layout"
	ErrorName    = "_error"
	CatchAllName = "_any"

	LazySuffix   = ".lazy_"
	LoaderSuffix = ".loader_"
)

// GroupPolicy controls how parenthesised directories such as "(auth)" map to
// route paths.
type GroupPolicy string

const (
	// GroupUnwrap splices the group's children into the parent path.
	GroupUnwrap GroupPolicy = "unwrap"
	// GroupSegment gives the group directory its own path segment.
	GroupSegment GroupPolicy = "segment"
)

// CatchAllOrder decides where the catch-all file lands among its siblings
// before the sibling orderer runs.
type CatchAllOrder string

const (
	CatchAllFirst CatchAllOrder = "first"
	CatchAllLast  CatchAllOrder = "last"
)

// Convention describes one version of the file naming rules.
type Convention struct {
	Version       int
	Groups        GroupPolicy
	CatchAllOrder CatchAllOrder
	// Extensions lists the recognised page module extensions, dot included.
	Extensions []string
	// Ignore holds doublestar globs, relative to the routes directory, for
	// files that are never routes.
	Ignore []string
}

var (
	defaultExtensions = []string{".jsx", ".tsx", ".js", ".ts"}
	defaultIgnore     = []string{"**/*.test.*", "**/*.spec.*"}
)

// ConventionFor returns the preset for a convention version.
//
// Version 1 unwraps route groups and sorts the catch-all file last. Version 2
// gives every directory a segment and sorts the catch-all file first.
func ConventionFor(version int) (Convention, error) {
	switch version {
	case 1:
		return Convention{
			Version:       1,
			Groups:        GroupUnwrap,
			CatchAllOrder: CatchAllLast,
			Extensions:    append([]string(nil), defaultExtensions...),
			Ignore:        append([]string(nil), defaultIgnore...),
		}, nil
	case 2:
		return Convention{
			Version:       2,
			Groups:        GroupSegment,
			CatchAllOrder: CatchAllFirst,
			Extensions:    append([]string(nil), defaultExtensions...),
			Ignore:        append([]string(nil), defaultIgnore...),
		}, nil
	default:
		return Convention{}, fmt.Errorf("unsupported convention version %d", version)
	}
}

// DefaultConvention returns the version 2 preset.
func DefaultConvention() Convention {
	conv, _ := ConventionFor(2)
	return conv
}

// Validate checks the convention for unknown policy values.
func (c Convention) Validate() error {
	switch c.Groups {
	case GroupUnwrap, GroupSegment:
	default:
		return fmt.Errorf("unknown group policy %q", c.Groups)
	}
	switch c.CatchAllOrder {
	case CatchAllFirst, CatchAllLast:
	default:
		return fmt.Errorf("unknown catch-all order %q", c.CatchAllOrder)
	}
	if len(c.Extensions) == 0 {
		return fmt.Errorf("no page module extensions configured")
	}
	for _, ext := range c.Extensions {
		if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
			return fmt.Errorf("extension %q must start with a dot", ext)
		}
	}
	return nil
}

// extension returns the longest configured extension that name ends with.
func (c Convention) extension(name string) (string, bool) {
	best := ""
	for _, ext := range c.Extensions {
		if strings.HasSuffix(name, ext) && len(name) > len(ext) && len(ext) > len(best) {
			best = ext
		}
	}
	return best, best != ""
}

// IsRouteFile reports whether name carries one of the page module extensions.
func (c Convention) IsRouteFile(name string) bool {
	_, ok := c.extension(name)
	return ok
}
