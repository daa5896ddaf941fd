// Package build runs the route pipeline for every configured root and writes
// the resulting artifacts.
//
// A root is one routes directory with its own artifact: the main routes
// directory, plus one per sub-router that is generated locally. Each root is
// compiled independently; regenerations of the same root are serialised and
// different roots run concurrently.
package build

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/conneroisu/routegen/internal/config"
	"github.com/conneroisu/routegen/internal/emit"
	routeerrors "github.com/conneroisu/routegen/internal/errors"
	"github.com/conneroisu/routegen/internal/logging"
	"github.com/conneroisu/routegen/internal/routes"
)

// MainRoot is the name of the root built from routes_dir.
const MainRoot = "main"

// Root is one routes directory and the artifact generated from it.
type Root struct {
	Name         string
	Dir          string
	Output       string
	BasePath     string
	ImportPrefix string
	// Source is the routes directory as configured, recorded in the
	// artifact header.
	Source string
	Mounts []routes.Mount
}

// Result describes one generation of one root.
type Result struct {
	Root     string
	Output   string
	Routes   int
	Written  bool
	Digest   uint64
	Duration time.Duration
	Error    error
}

// Callback is called when a generation completes
type Callback func(result Result)

// Generator owns the roots of one configuration.
type Generator struct {
	roots    []Root
	conv     routes.Convention
	emitOpts emit.Options
	logger   logging.Logger
	metrics  *Metrics
	digests  *DigestCache
	locks    map[string]*sync.Mutex

	callbacks []Callback
	cbMutex   sync.RWMutex

	// openFS is swapped in tests.
	openFS func(dir string) fs.FS
}

// NewGenerator creates a generator for every root described by cfg.
func NewGenerator(cfg *config.Config, logger logging.Logger) *Generator {
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	roots := RootsFromConfig(cfg)
	locks := make(map[string]*sync.Mutex, len(roots))
	for _, r := range roots {
		locks[r.Name] = &sync.Mutex{}
	}

	return &Generator{
		roots: roots,
		conv:  cfg.RouteConvention(),
		emitOpts: emit.Options{
			UIModule:     cfg.Emit.UIModule,
			RouterModule: cfg.Emit.RouterModule,
		},
		logger:  logger.WithComponent("generator"),
		metrics: NewMetrics(),
		digests: NewDigestCache(),
		locks:   locks,
		openFS:  func(dir string) fs.FS { return os.DirFS(dir) },
	}
}

// RootsFromConfig lists the main root followed by every sub-router that has
// its own routes directory. Eager sub-router tables are spliced into the main
// table and carry absolute paths under their mount; lazy ones are rooted at
// "/".
func RootsFromConfig(cfg *config.Config) []Root {
	main := Root{
		Name:     MainRoot,
		Dir:      cfg.RoutesPath(),
		Output:   cfg.OutputPath(),
		BasePath: "/",
		Source:   filepath.ToSlash(cfg.RoutesDir),
		Mounts:   cfg.Mounts(),
	}
	main.ImportPrefix = importPrefix(cfg.ImportPrefix, main.Dir, main.Output)
	roots := []Root{main}

	for _, sr := range cfg.SubRouters {
		if sr.Dir == "" {
			continue
		}
		r := Root{
			Name:     sr.Name,
			Dir:      filepath.Join(cfg.Root, sr.Dir),
			Output:   filepath.Join(cfg.Root, sr.Output),
			BasePath: sr.MountPath,
			Source:   filepath.ToSlash(sr.Dir),
		}
		// Lazy tables render as descendant routes, which match the path
		// remaining below the mount.
		if sr.Lazy {
			r.BasePath = "/"
		}
		r.ImportPrefix = importPrefix("", r.Dir, r.Output)
		roots = append(roots, r)
	}
	return roots
}

// importPrefix returns the specifier prefix that reaches dir from the
// artifact's directory.
func importPrefix(configured, dir, output string) string {
	if configured != "" {
		return configured
	}
	rel, err := filepath.Rel(filepath.Dir(output), dir)
	if err != nil {
		return "."
	}
	rel = filepath.ToSlash(rel)
	if rel == "." || strings.HasPrefix(rel, "../") || rel == ".." {
		return rel
	}
	return "./" + rel
}

// Roots returns the configured roots.
func (g *Generator) Roots() []Root {
	return append([]Root(nil), g.roots...)
}

// Metrics returns the generation metrics
func (g *Generator) Metrics() MetricsSnapshot {
	return g.metrics.Snapshot()
}

// AddCallback registers a callback invoked after every generation
func (g *Generator) AddCallback(cb Callback) {
	g.cbMutex.Lock()
	defer g.cbMutex.Unlock()
	g.callbacks = append(g.callbacks, cb)
}

func (g *Generator) root(name string) (Root, error) {
	for _, r := range g.roots {
		if r.Name == name {
			return r, nil
		}
	}
	return Root{}, routeerrors.NewInternalError(routeerrors.ErrCodeInternalError,
		fmt.Sprintf("unknown root %q", name), nil)
}

// Routes compiles a root and returns its ordered route table without
// writing anything.
func (g *Generator) Routes(name string) ([]*routes.Record, error) {
	r, err := g.root(name)
	if err != nil {
		return nil, err
	}
	return g.compile(r)
}

// Render compiles a root and returns the artifact source without writing it.
func (g *Generator) Render(name string) ([]byte, error) {
	r, err := g.root(name)
	if err != nil {
		return nil, err
	}
	table, err := g.compile(r)
	if err != nil {
		return nil, err
	}
	return g.emitter(r).Emit(table), nil
}

func (g *Generator) compile(r Root) ([]*routes.Record, error) {
	if info, err := os.Stat(r.Dir); err != nil || !info.IsDir() {
		if err == nil {
			err = fmt.Errorf("not a directory")
		}
		return nil, routeerrors.NewIOError(routeerrors.ErrCodeReadFailed,
			"routes directory is not readable", err).WithFile(r.Dir)
	}

	var skip []string
	if rel, err := filepath.Rel(r.Dir, r.Output); err == nil && !strings.HasPrefix(rel, "..") {
		skip = append(skip, filepath.ToSlash(rel))
	}

	return routes.Compile(g.openFS(r.Dir), routes.Options{
		Convention:   g.conv,
		BasePath:     r.BasePath,
		ImportPrefix: r.ImportPrefix,
		Mounts:       r.Mounts,
		Skip:         skip,
	})
}

func (g *Generator) emitter(r Root) *emit.Emitter {
	opts := g.emitOpts
	opts.Source = r.Source
	return emit.New(opts)
}

// Generate runs scan, merge, order, emit and write for one root. Concurrent
// calls for the same root run one after the other.
func (g *Generator) Generate(ctx context.Context, name string) (Result, error) {
	r, err := g.root(name)
	if err != nil {
		return Result{Root: name, Error: err}, err
	}

	lock := g.locks[name]
	lock.Lock()
	defer lock.Unlock()

	if err := ctx.Err(); err != nil {
		return Result{Root: name, Output: r.Output, Error: err}, err
	}

	start := time.Now()
	op := logging.StartOperation(g.logger.With("root", name), "generate")

	result := Result{Root: name, Output: r.Output}
	table, err := g.compile(r)
	if err == nil {
		src := g.emitter(r).Emit(table)
		result.Routes = routes.Count(table)
		result.Digest = Digest(src)
		result.Written, err = g.digests.WriteIfChanged(r.Output, src)
	}
	result.Duration = time.Since(start)
	result.Error = err

	if err != nil {
		op.EndWithError(ctx, err)
	} else {
		op.End(ctx, "routes", result.Routes, "written", result.Written, "output", r.Output)
	}
	g.finish(result)
	return result, err
}

// GenerateAll regenerates every root concurrently. Results are returned in
// root order; the error is the first failure encountered.
func (g *Generator) GenerateAll(ctx context.Context) ([]Result, error) {
	names := make([]string, len(g.roots))
	for i, r := range g.roots {
		names[i] = r.Name
	}
	return g.generateMany(ctx, names)
}

func (g *Generator) generateMany(ctx context.Context, names []string) ([]Result, error) {
	results := make([]Result, len(names))

	var eg errgroup.Group
	eg.SetLimit(runtime.GOMAXPROCS(0))
	for i, name := range names {
		eg.Go(func() error {
			res, err := g.Generate(ctx, name)
			results[i] = res
			return err
		})
	}
	return results, eg.Wait()
}

// HandleChange regenerates the roots whose routes directory contains path.
// Changes to generated artifacts themselves are ignored.
func (g *Generator) HandleChange(ctx context.Context, path string) ([]Result, error) {
	return g.HandleChanges(ctx, path)
}

// HandleChanges regenerates every root that contains at least one of paths,
// each root once.
func (g *Generator) HandleChanges(ctx context.Context, paths ...string) ([]Result, error) {
	outputs := make(map[string]bool, len(g.roots))
	dirs := make(map[string]string, len(g.roots))
	for _, r := range g.roots {
		if out, err := filepath.Abs(r.Output); err == nil {
			outputs[out] = true
		}
		if dir, err := filepath.Abs(r.Dir); err == nil {
			dirs[r.Name] = dir
		}
	}

	hit := make(map[string]bool, len(g.roots))
	for _, path := range paths {
		abs, err := filepath.Abs(path)
		if err != nil {
			return nil, routeerrors.NewIOError(routeerrors.ErrCodeInvalidPath, "resolving changed path", err).
				WithFile(path)
		}
		if outputs[abs] {
			continue
		}
		for name, dir := range dirs {
			if within(dir, abs) {
				hit[name] = true
			}
		}
	}

	var affected []string
	for _, r := range g.roots {
		if hit[r.Name] {
			affected = append(affected, r.Name)
		}
	}
	if len(affected) == 0 {
		return nil, nil
	}

	g.logger.Debug(ctx, "Regenerating after change", "changes", len(paths), "roots", affected)
	return g.generateMany(ctx, affected)
}

func within(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func (g *Generator) finish(result Result) {
	g.metrics.Record(result)

	g.cbMutex.RLock()
	callbacks := append([]Callback(nil), g.callbacks...)
	g.cbMutex.RUnlock()

	for _, cb := range callbacks {
		cb(result)
	}
}
