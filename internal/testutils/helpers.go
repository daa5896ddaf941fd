// Package testutils builds throwaway route projects for tests.
package testutils

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/conneroisu/routegen/internal/config"
)

// RouteComponent is the content written into route files.
const RouteComponent = "export default function Route() {\n  return null;\n}\n"

// CreateTempProject returns a default configuration rooted in a fresh
// temporary directory, with files created below its routes directory.
func CreateTempProject(t *testing.T, files ...string) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Root = t.TempDir()
	require.NoError(t, os.MkdirAll(cfg.RoutesPath(), 0o755))
	WriteRouteFiles(t, cfg.RoutesPath(), files...)
	return cfg
}

// WriteRouteFiles creates slash-separated files below dir, making parent
// directories as needed.
func WriteRouteFiles(t *testing.T, dir string, files ...string) {
	t.Helper()
	for _, f := range files {
		path := filepath.Join(dir, filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(RouteComponent), 0o644))
	}
}

// AddSubRouter registers a locally generated sub-router under mountPath and
// creates its files.
func AddSubRouter(t *testing.T, cfg *config.Config, name, mountPath string, files ...string) config.SubRouterConfig {
	t.Helper()
	sr := config.SubRouterConfig{
		Name:       name,
		MountPath:  mountPath,
		ImportPath: "./" + name + "/routes.gen",
		Dir:        filepath.Join("src", name, "routes"),
		Output:     filepath.Join("src", name, "routes.gen.jsx"),
	}
	cfg.SubRouters = append(cfg.SubRouters, sr)
	WriteRouteFiles(t, filepath.Join(cfg.Root, sr.Dir), files...)
	return sr
}

// ReadArtifact returns the generated module at path as a string.
func ReadArtifact(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

// WaitForFileChange waits until the file at path is modified after
// originalModTime.
func WaitForFileChange(t *testing.T, path string, originalModTime time.Time, timeout time.Duration) {
	t.Helper()
	deadline := time.Now().Add(timeout)

	for time.Now().Before(deadline) {
		info, err := os.Stat(path)
		if err == nil && info.ModTime().After(originalModTime) {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}

	t.Fatalf("File %s was not modified within %v", path, timeout)
}
