package plugin

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/conneroisu/routegen/internal/build"
	"github.com/conneroisu/routegen/internal/logging"
	"github.com/conneroisu/routegen/internal/version"
)

// RoutesPlugin runs route generation inside the build lifecycle: a full
// generation on build start and a scoped regeneration per change batch.
type RoutesPlugin struct {
	generator *build.Generator
	logger    logging.Logger
}

// NewRoutesPlugin wraps g.
func NewRoutesPlugin(g *build.Generator, logger logging.Logger) *RoutesPlugin {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &RoutesPlugin{generator: g, logger: logger.WithComponent("routes-plugin")}
}

func (p *RoutesPlugin) Name() string    { return "routes" }
func (p *RoutesPlugin) Version() string { return version.GetShortVersion() }
func (p *RoutesPlugin) Description() string {
	return "Generates react-router route tables from routes directories"
}

func (p *RoutesPlugin) Shutdown(ctx context.Context) error { return nil }

// BuildStart generates every root.
func (p *RoutesPlugin) BuildStart(ctx context.Context) error {
	results, err := p.generator.GenerateAll(ctx)
	for _, r := range results {
		if r.Error == nil {
			p.logger.Info(ctx, "Generated routes", "root", r.Root, "routes", r.Routes, "written", r.Written)
		}
	}
	return err
}

// WatchPatterns matches everything below each routes directory.
func (p *RoutesPlugin) WatchPatterns() []string {
	roots := p.generator.Roots()
	patterns := make([]string, 0, len(roots))
	for _, r := range roots {
		dir := r.Dir
		if abs, err := filepath.Abs(dir); err == nil {
			dir = abs
		}
		patterns = append(patterns, strings.TrimSuffix(filepath.ToSlash(dir), "/")+"/**")
	}
	return patterns
}

// HandleFileChange regenerates the roots that contain the changed path.
func (p *RoutesPlugin) HandleFileChange(ctx context.Context, event FileChangeEvent) error {
	return p.HandleFileChanges(ctx, []FileChangeEvent{event})
}

// HandleFileChanges regenerates each root touched by the batch once.
func (p *RoutesPlugin) HandleFileChanges(ctx context.Context, events []FileChangeEvent) error {
	paths := make([]string, len(events))
	for i, event := range events {
		paths[i] = event.Path
	}

	results, err := p.generator.HandleChanges(ctx, paths...)
	for _, r := range results {
		if r.Error == nil && r.Written {
			p.logger.Info(ctx, "Regenerated routes", "root", r.Root, "changes", len(paths), "duration", r.Duration)
		}
	}
	return err
}
