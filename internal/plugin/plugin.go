// Package plugin hosts the build lifecycle that route generation runs in.
//
// A host such as the CLI, or a bundler integration, registers plugins with a
// Manager and drives them: build start fires once per session, file changes
// fire per debounced batch. Plugins opt into a phase by implementing
// BuildPlugin or WatcherPlugin.
package plugin

import (
	"context"
	"time"
)

// Plugin represents a routegen plugin
type Plugin interface {
	// Name returns the unique name of the plugin
	Name() string

	// Version returns the version of the plugin
	Version() string

	// Description returns a description of what the plugin does
	Description() string

	// Shutdown releases anything the plugin holds
	Shutdown(ctx context.Context) error
}

// BuildPlugin is notified when a build session starts.
type BuildPlugin interface {
	Plugin

	// BuildStart is called once before any file change is delivered
	BuildStart(ctx context.Context) error
}

// WatcherPlugin is notified about file changes.
type WatcherPlugin interface {
	Plugin

	// WatchPatterns returns the doublestar patterns the plugin is interested in
	WatchPatterns() []string

	// HandleFileChange is called when a watched file changes
	HandleFileChange(ctx context.Context, event FileChangeEvent) error
}

// BatchWatcherPlugin receives all matching changes of one debounced batch
// in a single call.
type BatchWatcherPlugin interface {
	WatcherPlugin

	HandleFileChanges(ctx context.Context, events []FileChangeEvent) error
}

// FileChangeEvent represents a file system change event
type FileChangeEvent struct {
	Path      string         `json:"path"`
	Type      FileChangeType `json:"type"`
	Timestamp time.Time      `json:"timestamp"`
}

// FileChangeType represents the type of file change
type FileChangeType string

const (
	FileChangeTypeCreate FileChangeType = "create"
	FileChangeTypeModify FileChangeType = "modify"
	FileChangeTypeDelete FileChangeType = "delete"
	FileChangeTypeRename FileChangeType = "rename"
)

// Info describes a registered plugin.
type Info struct {
	Name        string   `json:"name"`
	Version     string   `json:"version"`
	Description string   `json:"description"`
	Interfaces  []string `json:"interfaces"`
}
