package plugin

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/bmatcuk/doublestar"

	"github.com/conneroisu/routegen/internal/logging"
)

// Manager manages the lifecycle of plugins
type Manager struct {
	plugins        map[string]Plugin
	order          []string
	buildPlugins   []BuildPlugin
	watcherPlugins []WatcherPlugin
	started        bool
	logger         logging.Logger
	mu             sync.RWMutex
}

// NewManager creates a new plugin manager
func NewManager(logger logging.Logger) *Manager {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Manager{
		plugins: make(map[string]Plugin),
		logger:  logger.WithComponent("plugins"),
	}
}

// Register adds a plugin. Names must be unique.
func (m *Manager) Register(p Plugin) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	name := p.Name()
	if _, exists := m.plugins[name]; exists {
		return fmt.Errorf("plugin %s already registered", name)
	}

	m.plugins[name] = p
	m.order = append(m.order, name)

	if bp, ok := p.(BuildPlugin); ok {
		m.buildPlugins = append(m.buildPlugins, bp)
	}
	if wp, ok := p.(WatcherPlugin); ok {
		m.watcherPlugins = append(m.watcherPlugins, wp)
	}
	return nil
}

// Get retrieves a plugin by name
func (m *Manager) Get(name string) (Plugin, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.plugins[name]
	if !ok {
		return nil, fmt.Errorf("plugin %s not found", name)
	}
	return p, nil
}

// List returns the registered plugins sorted by name
func (m *Manager) List() []Info {
	m.mu.RLock()
	defer m.mu.RUnlock()

	infos := make([]Info, 0, len(m.plugins))
	for _, p := range m.plugins {
		info := Info{Name: p.Name(), Version: p.Version(), Description: p.Description()}
		if _, ok := p.(BuildPlugin); ok {
			info.Interfaces = append(info.Interfaces, "build")
		}
		if _, ok := p.(WatcherPlugin); ok {
			info.Interfaces = append(info.Interfaces, "watcher")
		}
		infos = append(infos, info)
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos
}

// BuildStart runs every build plugin in registration order. It fires once;
// later calls are no-ops. The first error stops the chain.
func (m *Manager) BuildStart(ctx context.Context) error {
	m.mu.Lock()
	if m.started {
		m.mu.Unlock()
		return nil
	}
	m.started = true
	plugins := append([]BuildPlugin(nil), m.buildPlugins...)
	m.mu.Unlock()

	for _, p := range plugins {
		if err := p.BuildStart(ctx); err != nil {
			return fmt.Errorf("plugin %s build start: %w", p.Name(), err)
		}
	}
	return nil
}

// FileChanged delivers a single event. See FilesChanged.
func (m *Manager) FileChanged(ctx context.Context, event FileChangeEvent) error {
	return m.FilesChanged(ctx, []FileChangeEvent{event})
}

// FilesChanged delivers a batch of events to every watcher plugin whose
// patterns match at least one of them. Batch plugins get their matching
// events in one call, others one call per event. All matching plugins run;
// their errors are logged and the first is returned.
func (m *Manager) FilesChanged(ctx context.Context, events []FileChangeEvent) error {
	m.mu.RLock()
	plugins := append([]WatcherPlugin(nil), m.watcherPlugins...)
	m.mu.RUnlock()

	var first error
	fail := func(p WatcherPlugin, err error, fields ...interface{}) {
		m.logger.Error(ctx, err, "Plugin failed to handle file change",
			append([]interface{}{"plugin", p.Name()}, fields...)...)
		if first == nil {
			first = fmt.Errorf("plugin %s: %w", p.Name(), err)
		}
	}

	for _, p := range plugins {
		patterns := p.WatchPatterns()
		var matched []FileChangeEvent
		for _, event := range events {
			if matchesAny(patterns, event.Path) {
				matched = append(matched, event)
			}
		}
		if len(matched) == 0 {
			continue
		}

		if bp, ok := p.(BatchWatcherPlugin); ok {
			if err := bp.HandleFileChanges(ctx, matched); err != nil {
				fail(p, err, "changes", len(matched))
			}
			continue
		}
		for _, event := range matched {
			if err := p.HandleFileChange(ctx, event); err != nil {
				fail(p, err, "path", event.Path)
			}
		}
	}
	return first
}

// WatchPatterns returns the union of every watcher plugin's patterns.
func (m *Manager) WatchPatterns() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	seen := make(map[string]bool)
	var patterns []string
	for _, p := range m.watcherPlugins {
		for _, pattern := range p.WatchPatterns() {
			if !seen[pattern] {
				seen[pattern] = true
				patterns = append(patterns, pattern)
			}
		}
	}
	return patterns
}

// Shutdown shuts plugins down in reverse registration order.
func (m *Manager) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var first error
	for i := len(m.order) - 1; i >= 0; i-- {
		name := m.order[i]
		if err := m.plugins[name].Shutdown(ctx); err != nil {
			m.logger.Warn(ctx, err, "Plugin shutdown failed", "plugin", name)
			if first == nil {
				first = err
			}
		}
	}
	return first
}

func matchesAny(patterns []string, path string) bool {
	if len(patterns) == 0 {
		return true
	}
	for _, pattern := range patterns {
		if ok, _ := doublestar.Match(pattern, path); ok {
			return true
		}
	}
	return false
}
