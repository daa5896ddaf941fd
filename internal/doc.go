// Package internal contains the implementation packages of routegen.
//
// # Package Organization
//
//   - routes: naming convention, route tree builder, merge engine and ordering
//   - emit: renders a route table as a react-router-dom JavaScript module
//   - build: runs the pipeline per routes directory and writes artifacts
//   - plugin: build lifecycle host that drives route generation
//   - watcher: debounced recursive file watching
//   - config: Viper-backed configuration, validation and the init wizard
//   - errors: typed route errors and the error handler
//   - logging: structured logging over log/slog
//   - version: build information
//   - testutils: temporary route projects for tests
//
// # Pipeline
//
// A generation reads a routes directory into a Node tree (routes.Builder),
// merges it into Records (routes.Merge), orders siblings by specificity
// (routes.Sort), renders the module (emit.Emitter) and writes it atomically
// only when its digest changed (build.DigestCache).
package internal
