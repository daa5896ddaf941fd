//go:build property
// +build property

package routes

import (
	"testing"
	"testing/fstest"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

var propertyFiles = []string{
	"_layout.jsx",
	"index.jsx",
	"about.jsx",
	"login.lazy_.jsx",
	"_any.jsx",
	"[id].jsx",
	"users/_layout.jsx",
	"users/index.jsx",
	"users/[id].jsx",
	"users/[id]/edit.lazy_.jsx",
	"users/_error.jsx",
	"users.loader_.js",
	"docs/_any.jsx",
	"docs/intro.jsx",
	"(auth)/login.jsx",
	"(auth)/_layout.jsx",
	"blog.[slug].jsx",
}

func filesFrom(mask []bool) fstest.MapFS {
	fsys := fstest.MapFS{}
	for i, keep := range mask {
		if keep && i < len(propertyFiles) {
			fsys[propertyFiles[i]] = &fstest.MapFile{Data: []byte("x")}
		}
	}
	return fsys
}

// TestRouteTableProperties checks structural invariants of compiled tables.
func TestRouteTableProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)
	maskGen := gen.SliceOfN(len(propertyFiles), gen.Bool())

	properties.Property("compilation is deterministic", prop.ForAll(
		func(mask []bool, version int) bool {
			conv, _ := ConventionFor(version)
			opts := Options{Convention: conv, BasePath: "/", ImportPrefix: "."}

			first, err1 := Compile(filesFrom(mask), opts)
			second, err2 := Compile(filesFrom(mask), opts)
			if (err1 == nil) != (err2 == nil) {
				return false
			}

			var a, b []string
			Walk(first, "/", func(r *Record, at string, _ int) { a = append(a, at) })
			Walk(second, "/", func(r *Record, at string, _ int) { b = append(b, at) })
			if len(a) != len(b) {
				return false
			}
			for i := range a {
				if a[i] != b[i] {
					return false
				}
			}
			return true
		},
		maskGen,
		gen.IntRange(1, 2),
	))

	properties.Property("no path-only leaves and siblings stay ordered", prop.ForAll(
		func(mask []bool, version int) bool {
			conv, _ := ConventionFor(version)
			table, err := Compile(filesFrom(mask), Options{Convention: conv, BasePath: "/", ImportPrefix: "."})
			if err != nil {
				return true
			}
			return checkLevel(table, "/")
		},
		maskGen,
		gen.IntRange(1, 2),
	))

	properties.Property("every layout appears on exactly one record", prop.ForAll(
		func(mask []bool) bool {
			table, err := Compile(filesFrom(mask), Options{Convention: DefaultConvention(), BasePath: "/", ImportPrefix: "."})
			if err != nil {
				return true
			}
			seen := map[string]int{}
			Walk(table, "/", func(r *Record, _ string, _ int) {
				if r.Layout != nil {
					seen[r.Layout.File]++
				}
			})
			for _, n := range seen {
				if n != 1 {
					return false
				}
			}
			return true
		},
		maskGen,
	))

	properties.TestingRun(t)
}

func checkLevel(records []*Record, parent string) bool {
	last := -1
	for _, r := range records {
		if r.PathOnly() && len(r.Children) == 0 {
			return false
		}
		if !r.Index && (r.Path == "" || r.Path[0] != '/') {
			return false
		}
		rank := specificity(parent, r)
		if rank < last {
			return false
		}
		last = rank

		at := parent
		if r.Path != "" {
			at = r.Path
		}
		if !checkLevel(r.Children, at) {
			return false
		}
	}
	return true
}
