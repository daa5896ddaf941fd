package routes

import "io/fs"

// Options configures Compile.
type Options struct {
	Convention   Convention
	BasePath     string
	ImportPrefix string
	Mounts       []Mount
	// Skip lists paths relative to the routes directory that are never
	// routes, such as an artifact generated inside it.
	Skip []string
}

// Compile builds, merges and orders the route table for one routes
// directory.
func Compile(fsys fs.FS, opts Options) ([]*Record, error) {
	nodes, err := NewBuilder(opts.Convention, opts.ImportPrefix).Skip(opts.Skip...).Build(fsys, opts.BasePath)
	if err != nil {
		return nil, err
	}

	table, err := Merge(nodes, MergeOptions{BasePath: opts.BasePath, Mounts: opts.Mounts})
	if err != nil {
		return nil, err
	}

	Sort(table, opts.BasePath)
	return table, nil
}
