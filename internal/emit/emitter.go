package emit

import (
	"strings"

	"github.com/conneroisu/routegen/internal/routes"
)

// Header is the first line of every generated artifact.
const Header = "// Code generated by routegen. DO NOT EDIT."

// Options configures the module specifiers framework imports come from.
type Options struct {
	// UIModule provides lazy().
	UIModule string
	// RouterModule provides Navigate and useRoutes.
	RouterModule string
	// Source is an optional description of where the table came from,
	// written below the header.
	Source string
}

// Emitter turns a route table into artifact source.
type Emitter struct {
	opts Options
}

// New creates an emitter, filling in the react and react-router-dom
// defaults for unset modules.
func New(opts Options) *Emitter {
	if opts.UIModule == "" {
		opts.UIModule = "react"
	}
	if opts.RouterModule == "" {
		opts.RouterModule = "react-router-dom"
	}
	return &Emitter{opts: opts}
}

// Emit renders the table. The output depends only on the table, so an
// unchanged tree yields byte-identical source.
func (e *Emitter) Emit(table []*routes.Record) []byte {
	imports := NewImportSet()

	arr := make(Array, 0, len(table))
	for _, r := range table {
		arr = append(arr, e.record(r, imports))
	}

	var b strings.Builder
	b.WriteString(Header + "\n")
	if e.opts.Source != "" {
		b.WriteString("// Source: " + e.opts.Source + "\n")
	}
	b.WriteString("\n")
	if imp := imports.Render(); imp != "" {
		b.WriteString(imp)
		b.WriteString("\n")
	}
	b.WriteString("const routes = " + render(arr, 0) + ";\n\n")
	b.WriteString("export default routes;\n")
	return []byte(b.String())
}

// record lowers one Record, keeping the key order
// index, path, element, errorElement, loader, handle, lazy, children.
func (e *Emitter) record(r *routes.Record, imports *ImportSet) Object {
	var obj Object
	if r.Index {
		obj = append(obj, Field{Key: "index", Value: Bool(true)})
	}
	if r.Path != "" {
		obj = append(obj, Field{Key: "path", Value: Str(r.Path)})
	}

	var layoutNS string
	switch {
	case r.Layout != nil:
		layoutNS = imports.Namespace(r.Layout.Symbol, r.Layout.ImportPath)
		obj = append(obj, Field{Key: "element", Value: Element{Tag: layoutNS + ".default"}})
	case r.Page != nil && r.Page.Lazy:
		local := imports.Lazy(r.Page.Symbol, r.Page.ImportPath, e.opts.UIModule)
		obj = append(obj, Field{Key: "element", Value: Element{Tag: local}})
	case r.Page != nil:
		local := imports.Default(r.Page.Symbol, r.Page.ImportPath)
		obj = append(obj, Field{Key: "element", Value: Element{Tag: local}})
	}

	if r.ErrorBoundary != nil {
		local := imports.Default(r.ErrorBoundary.Symbol, r.ErrorBoundary.ImportPath)
		obj = append(obj, Field{Key: "errorElement", Value: Element{Tag: local}})
	}
	if r.Loader != nil {
		local := imports.Default(r.Loader.Symbol, r.Loader.ImportPath)
		obj = append(obj, Field{Key: "loader", Value: Ref(local)})
	}
	if layoutNS != "" {
		obj = append(obj, Field{Key: "handle", Value: Ref(layoutNS + ".handle")})
	}

	switch {
	case r.Mount != nil:
		obj = append(obj, Field{Key: "children", Value: e.mountChildren(r.Mount, imports)})
	case len(r.Children) > 0:
		children := make(Array, 0, len(r.Children))
		for _, c := range r.Children {
			children = append(children, e.record(c, imports))
		}
		obj = append(obj, Field{Key: "children", Value: children})
	}
	return obj
}

// mountChildren lowers a sub-router mount. Eager mounts splice the imported
// table in; lazy mounts redirect the index to the default route and load the
// sub-router module on first match below the mount path. A route's lazy()
// cannot add children, so the loaded table is rendered as descendant routes
// through useRoutes.
func (e *Emitter) mountChildren(m *routes.Mount, imports *ImportSet) Value {
	if m.Lazy {
		redirect := e.redirect(m.DefaultRoute, imports)
		imports.Named("useRoutes", e.opts.RouterModule)
		return Array{
			redirect,
			Object{
				{Key: "path", Value: Str(routes.CatchAllPath(m.Path))},
				{Key: "lazy", Value: DynamicImport{
					Module: m.ImportPath,
					Then:   "({ Component: () => useRoutes(mod.default) })",
				}},
			},
		}
	}

	local := imports.Default(m.Symbol, m.ImportPath)
	if m.DefaultRoute == "" {
		return Ref(local)
	}
	return Array{e.redirect(m.DefaultRoute, imports), Spread(local)}
}

func (e *Emitter) redirect(to string, imports *ImportSet) Object {
	imports.Named("Navigate", e.opts.RouterModule)
	return Object{
		{Key: "index", Value: Bool(true)},
		{Key: "element", Value: Element{Tag: "Navigate", Props: []Prop{
			{Name: "to", Value: Str(to)},
			{Name: "replace"},
		}}},
	}
}
