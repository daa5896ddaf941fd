package emit

import (
	"sort"
	"strings"
)

type moduleImports struct {
	module      string
	defaultName string
	namespace   string
	named       []string
}

type lazyDecl struct {
	local  string
	module string
}

// ImportSet collects the imports of one artifact. It is scoped to a single
// Emit call; nothing is shared between artifacts.
type ImportSet struct {
	modules map[string]*moduleImports
	order   []string
	lazy    []lazyDecl
	lazyBy  map[string]string
}

// NewImportSet creates an empty import set.
func NewImportSet() *ImportSet {
	return &ImportSet{
		modules: make(map[string]*moduleImports),
		lazyBy:  make(map[string]string),
	}
}

func (s *ImportSet) module(module string) *moduleImports {
	if m, ok := s.modules[module]; ok {
		return m
	}
	m := &moduleImports{module: module}
	s.modules[module] = m
	s.order = append(s.order, module)
	return m
}

// Default binds the module's default export and returns the local name. A
// module imported twice keeps its first name.
func (s *ImportSet) Default(local, module string) string {
	m := s.module(module)
	if m.defaultName == "" {
		m.defaultName = local
	}
	return m.defaultName
}

// Namespace binds the whole module under local and returns the name in use.
func (s *ImportSet) Namespace(local, module string) string {
	m := s.module(module)
	if m.namespace == "" {
		m.namespace = local
	}
	return m.namespace
}

// Named adds a named import.
func (s *ImportSet) Named(name, module string) {
	m := s.module(module)
	for _, n := range m.named {
		if n == name {
			return
		}
	}
	m.named = append(m.named, name)
}

// Lazy declares a lazily loaded component and returns its local name.
func (s *ImportSet) Lazy(local, module, uiModule string) string {
	if existing, ok := s.lazyBy[module]; ok {
		return existing
	}
	s.Named("lazy", uiModule)
	s.lazyBy[module] = local
	s.lazy = append(s.lazy, lazyDecl{local: local, module: module})
	return local
}

// Len returns the number of distinct modules referenced.
func (s *ImportSet) Len() int {
	return len(s.order) + len(s.lazy)
}

// Render writes the import statements followed by the lazy declarations.
// Modules with named imports come first; otherwise first use decides order.
func (s *ImportSet) Render() string {
	order := append([]string(nil), s.order...)
	sort.SliceStable(order, func(i, j int) bool {
		return len(s.modules[order[i]].named) > 0 && len(s.modules[order[j]].named) == 0
	})

	var b strings.Builder
	for _, module := range order {
		b.WriteString(s.modules[module].statement())
		b.WriteByte('\n')
	}

	if len(s.lazy) > 0 {
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		for _, d := range s.lazy {
			b.WriteString("const " + d.local + " = lazy(" + render(DynamicImport{Module: d.module}, 0) + ");\n")
		}
	}
	return b.String()
}

func (m *moduleImports) statement() string {
	var clauses []string
	if m.defaultName != "" {
		clauses = append(clauses, m.defaultName)
	}
	if m.namespace != "" {
		clauses = append(clauses, "* as "+m.namespace)
	}
	if len(m.named) > 0 {
		clauses = append(clauses, "{ "+strings.Join(m.named, ", ")+" }")
	}
	return "import " + strings.Join(clauses, ", ") + " from " + quote(m.module) + ";"
}
