package routes

import (
	"fmt"
	"sort"

	routeerrors "github.com/conneroisu/routegen/internal/errors"
)

// MergeOptions configures one Merge run.
type MergeOptions struct {
	// BasePath is the logical path of the traversal root. Sub-router tables
	// use their mount path here so every emitted path is absolute.
	BasePath string
	// Mounts are injected after all files have been processed.
	Mounts []Mount
}

type attachment struct {
	child *Record
	from  string
	// promote turns a page into its target's index child when the two share
	// a path.
	promote bool
}

type merger struct {
	base    *Record
	records map[string]*Record
	pending []attachment
	// pages maps every path a page or mount renders at to the file that
	// claimed it.
	pages   map[string]string
	symbols map[string]string
}

// Merge folds a Node tree into the final route table.
//
// Records are keyed by logical path, so a directory, its layout, its error
// boundary and its loader all land on one record. Parent links are resolved
// only after every node and mount has been seen: each record attaches to the
// nearest record strictly above it, and each page attaches to the nearest
// record at or above its own path. Path-only records are then collapsed into
// their single child or dropped when empty.
func Merge(nodes []*Node, opts MergeOptions) ([]*Record, error) {
	basePath := CleanPath(opts.BasePath)
	m := &merger{
		base:    &Record{Path: basePath},
		records: make(map[string]*Record),
		pages:   make(map[string]string),
		symbols: make(map[string]string),
	}
	m.records[basePath] = m.base

	if err := m.process(nodes); err != nil {
		return nil, err
	}
	for _, mt := range opts.Mounts {
		if err := m.mount(mt); err != nil {
			return nil, err
		}
	}
	m.resolve()
	for _, rec := range m.records {
		adopt(rec)
	}

	kept := m.base.Children[:0]
	for _, child := range m.base.Children {
		if c := collapse(child); c != nil {
			kept = append(kept, c)
		}
	}
	m.base.Children = kept

	if m.base.PathOnly() {
		return m.base.Children, nil
	}
	return []*Record{m.base}, nil
}

func (m *merger) process(nodes []*Node) error {
	for _, n := range nodes {
		if n.Dir {
			m.ensure(n.Path)
			if err := m.process(n.Children); err != nil {
				return err
			}
			continue
		}

		mod := &Module{Symbol: n.Symbol, ImportPath: n.ImportPath, File: n.File, Lazy: n.Lazy}

		switch n.Role {
		case RoleLayout, RoleError, RoleLoader:
			rec := m.ensure(n.Path)
			slot := m.slot(rec, n.Role)
			if *slot != nil {
				return duplicateRoute(n, (*slot).File)
			}
			if err := m.claimSymbol(mod.Symbol, mod.ImportPath, n.File); err != nil {
				return err
			}
			*slot = mod

		default:
			if err := m.claimPage(n); err != nil {
				return err
			}
			if err := m.claimSymbol(mod.Symbol, mod.ImportPath, n.File); err != nil {
				return err
			}
			child := &Record{Path: n.Path, Page: mod}
			if n.Role == RoleIndex {
				child = &Record{Index: true, Page: mod}
			}
			m.pending = append(m.pending, attachment{
				child:   child,
				from:    n.Path,
				promote: n.Role == RolePage,
			})
		}
	}
	return nil
}

func (m *merger) slot(rec *Record, role Role) **Module {
	switch role {
	case RoleLayout:
		return &rec.Layout
	case RoleError:
		return &rec.ErrorBoundary
	default:
		return &rec.Loader
	}
}

// ensure returns the record at p, creating and queueing it when missing.
func (m *merger) ensure(p string) *Record {
	if rec, ok := m.records[p]; ok {
		return rec
	}
	rec := &Record{Path: p}
	m.records[p] = rec
	m.pending = append(m.pending, attachment{child: rec, from: ParentPath(p)})
	return rec
}

func (m *merger) claimPage(n *Node) error {
	if prev, ok := m.pages[n.Path]; ok {
		return duplicateRoute(n, prev)
	}
	m.pages[n.Path] = n.File
	return nil
}

func (m *merger) claimSymbol(symbol, importPath, file string) error {
	if prev, ok := m.symbols[symbol]; ok && prev != importPath {
		return routeerrors.NewCollisionError(routeerrors.ErrCodeIdentifierCollision,
			fmt.Sprintf("identifier %s is derived from both %s and %s", symbol, prev, importPath)).
			WithFile(file).
			WithContext("symbol", symbol)
	}
	m.symbols[symbol] = importPath
	return nil
}

func (m *merger) mount(mt Mount) error {
	p := CleanPath(mt.Path)
	mt.Path = p

	for _, claimed := range m.claimedPaths() {
		if IsWithin(claimed, p) {
			return routeerrors.NewCollisionError(routeerrors.ErrCodeMountCollision,
				fmt.Sprintf("mount %q overlaps route %s", mt.Name, claimed)).
				WithPath(p)
		}
	}
	if err := m.claimSymbol(mt.Symbol, mt.ImportPath, mt.ImportPath); err != nil {
		return err
	}

	rec := &Record{Path: p, Mount: &mt}
	m.records[p] = rec
	m.pages[p] = mt.ImportPath
	m.pending = append(m.pending, attachment{child: rec, from: ParentPath(p)})
	return nil
}

// claimedPaths lists every path held by a record or page, sorted so that
// collision reports are stable.
func (m *merger) claimedPaths() []string {
	seen := make(map[string]struct{}, len(m.records)+len(m.pages))
	for p := range m.records {
		seen[p] = struct{}{}
	}
	for p := range m.pages {
		seen[p] = struct{}{}
	}
	paths := make([]string, 0, len(seen))
	for p := range seen {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

func (m *merger) resolve() {
	for _, a := range m.pending {
		target := m.nearest(a.from, a.child)
		if a.promote && target.Path == a.child.Path {
			a.child.Path = ""
			a.child.Index = true
		}
		target.Children = append(target.Children, a.child)
	}
	m.pending = nil
}

// adopt puts a page on the same route as the loader and error boundary that
// share its path. A record without a layout has no element of its own, so a
// lone index page takes its place; when the record has other children the
// loader moves down to the index page instead.
func adopt(r *Record) {
	if r.Layout != nil || r.Page != nil || r.Mount != nil {
		return
	}
	if r.Loader == nil && r.ErrorBoundary == nil {
		return
	}
	idx := indexPage(r)
	if idx == nil {
		return
	}
	if len(r.Children) == 1 {
		r.Page = idx.Page
		r.Children = nil
		return
	}
	if r.Loader != nil {
		idx.Loader, r.Loader = r.Loader, nil
	}
}

func indexPage(r *Record) *Record {
	for _, c := range r.Children {
		if c.Index && c.Page != nil && c.Loader == nil && c.ErrorBoundary == nil && len(c.Children) == 0 {
			return c
		}
	}
	return nil
}

// nearest walks up from p and returns the first record other than self.
func (m *merger) nearest(p string, self *Record) *Record {
	for ; p != ""; p = ParentPath(p) {
		if rec, ok := m.records[p]; ok && rec != self {
			return rec
		}
		if p == m.base.Path {
			break
		}
	}
	return m.base
}

// collapse replaces a path-only record by its single child and drops it when
// it has none. An index child promoted this way takes over the path.
func collapse(r *Record) *Record {
	kept := r.Children[:0]
	for _, child := range r.Children {
		if c := collapse(child); c != nil {
			kept = append(kept, c)
		}
	}
	r.Children = kept

	if !r.PathOnly() {
		return r
	}
	switch len(r.Children) {
	case 0:
		return nil
	case 1:
		child := r.Children[0]
		if child.Index {
			child.Index = false
			child.Path = r.Path
		}
		return child
	}
	return r
}

func duplicateRoute(n *Node, prev string) error {
	return routeerrors.NewCollisionError(routeerrors.ErrCodeDuplicateRoute,
		fmt.Sprintf("%s route at %s is also defined by %s", n.Role, n.Path, prev)).
		WithFile(n.File).
		WithPath(n.Path)
}
