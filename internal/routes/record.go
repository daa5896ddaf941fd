package routes

// Module is one imported file bound to a record attribute.
type Module struct {
	Symbol     string
	ImportPath string
	File       string
	Lazy       bool
}

// Mount binds a separately generated route table under a path.
type Mount struct {
	Name         string
	Path         string
	ImportPath   string
	Symbol       string
	Lazy         bool
	DefaultRoute string
}

// Record is one entry of the final route table. Index records carry no
// Path; every other record carries an absolute logical path.
type Record struct {
	Path  string
	Index bool

	Layout        *Module
	Page          *Module
	ErrorBoundary *Module
	Loader        *Module
	Mount         *Mount

	Children []*Record
}

// PathOnly reports whether the record exists only to carry a path.
func (r *Record) PathOnly() bool {
	return !r.Index &&
		r.Layout == nil &&
		r.Page == nil &&
		r.ErrorBoundary == nil &&
		r.Loader == nil &&
		r.Mount == nil
}

// Walk visits every record depth-first, passing the logical path it renders
// at. Index records render at their parent's path.
func Walk(records []*Record, base string, fn func(r *Record, at string, depth int)) {
	walk(records, CleanPath(base), 0, fn)
}

func walk(records []*Record, parent string, depth int, fn func(*Record, string, int)) {
	for _, r := range records {
		at := parent
		if r.Path != "" {
			at = r.Path
		}
		fn(r, at, depth)
		walk(r.Children, at, depth+1, fn)
	}
}

// Count returns the number of records in the table.
func Count(records []*Record) int {
	n := 0
	Walk(records, "/", func(*Record, string, int) { n++ })
	return n
}
