package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/conneroisu/routegen/internal/build"
	"github.com/conneroisu/routegen/internal/config"
	"github.com/conneroisu/routegen/internal/logging"
	"github.com/conneroisu/routegen/internal/plugin"
	"github.com/conneroisu/routegen/internal/watcher"
)

var watchCmd = &cobra.Command{
	Use:     "watch",
	Aliases: []string{"w"},
	Short:   "Regenerate route tables whenever route files change",
	Long: `Watch generates every route table once, then watches each routes directory
and regenerates only the tables whose directory changed. Errors are logged and
the previous module is kept until the next successful generation.

Examples:
  routegen watch                  # Watch with the configured debounce
  routegen watch --verbose        # Log every changed file`,
	RunE: runWatch,
}

var watchVerbose bool

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().BoolVarP(&watchVerbose, "verbose", "v", false, "Log every changed file")
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadRuntime(cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return watch(ctx, cfg, logger)
}

func watch(ctx context.Context, cfg *config.Config, logger logging.Logger) error {
	reportWarnings(ctx, cfg, logger)

	g := build.NewGenerator(cfg, logger)
	manager := plugin.NewManager(logger)
	if err := manager.Register(plugin.NewRoutesPlugin(g, logger)); err != nil {
		return err
	}
	defer manager.Shutdown(context.Background())

	fw, err := newRouteWatcher(cfg, g, logger)
	if err != nil {
		return err
	}
	defer fw.Stop()

	fw.AddHandler(func(ctx context.Context, events []watcher.ChangeEvent) error {
		logger.Info(ctx, "Route files changed", "count", len(events))
		if watchVerbose {
			for _, event := range events {
				logger.Info(ctx, "Changed", "type", event.Type.String(), "path", event.Path)
			}
		}
		// failures are logged by the manager; the next change retries
		_ = manager.FilesChanged(ctx, pluginEvents(events))
		return nil
	})

	if err := manager.BuildStart(ctx); err != nil {
		logger.Error(ctx, err, "Initial generation failed, waiting for changes")
	}

	if err := fw.Start(ctx); err != nil {
		return fmt.Errorf("failed to start file watcher: %w", err)
	}
	logger.Info(ctx, "Watching for changes", "directories", len(fw.WatchList()), "debounce", cfg.Watch.Debounce)

	<-ctx.Done()
	logger.Info(context.Background(), "Stopping file watcher")
	return nil
}

func newRouteWatcher(cfg *config.Config, g *build.Generator, logger logging.Logger) (*watcher.FileWatcher, error) {
	fw, err := watcher.NewFileWatcher(cfg.Watch.Debounce, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	conv := cfg.RouteConvention()
	var outputs []string
	for _, r := range g.Roots() {
		outputs = append(outputs, r.Output)
	}

	fw.AddFilter(watcher.NoHiddenFilter)
	fw.AddFilter(watcher.RouteFileFilter(conv.IsRouteFile))
	fw.AddFilter(watcher.IgnoreFilter(conv.Ignore))
	fw.AddFilter(watcher.ExcludePathsFilter(outputs...))

	watched := 0
	for _, r := range g.Roots() {
		if err := fw.AddRecursive(r.Dir); err != nil {
			logger.Warn(context.Background(), err, "Failed to watch routes directory", "root", r.Name, "dir", r.Dir)
			continue
		}
		watched++
	}
	if watched == 0 {
		fw.Stop()
		return nil, fmt.Errorf("no routes directory could be watched")
	}
	return fw, nil
}

// pluginEvents converts a debounced batch to absolute slash paths, the form
// plugin watch patterns are written in.
func pluginEvents(events []watcher.ChangeEvent) []plugin.FileChangeEvent {
	out := make([]plugin.FileChangeEvent, 0, len(events))
	for _, event := range events {
		path := event.Path
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
		out = append(out, plugin.FileChangeEvent{
			Path:      filepath.ToSlash(path),
			Type:      changeType(event.Type),
			Timestamp: event.ModTime,
		})
	}
	return out
}

func changeType(t watcher.EventType) plugin.FileChangeType {
	switch t {
	case watcher.EventTypeCreated:
		return plugin.FileChangeTypeCreate
	case watcher.EventTypeDeleted:
		return plugin.FileChangeTypeDelete
	case watcher.EventTypeRenamed:
		return plugin.FileChangeTypeRename
	default:
		return plugin.FileChangeTypeModify
	}
}
