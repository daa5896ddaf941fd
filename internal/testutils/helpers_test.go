package testutils

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTempProject(t *testing.T) {
	cfg := CreateTempProject(t, "index.jsx", "users/[id].jsx")

	assert.DirExists(t, cfg.RoutesPath())
	assert.FileExists(t, filepath.Join(cfg.RoutesPath(), "index.jsx"))
	assert.FileExists(t, filepath.Join(cfg.RoutesPath(), "users", "[id].jsx"))
}

func TestAddSubRouter(t *testing.T) {
	cfg := CreateTempProject(t)
	sr := AddSubRouter(t, cfg, "docs", "/docs", "intro.jsx")

	require.Len(t, cfg.SubRouters, 1)
	assert.Equal(t, "./docs/routes.gen", sr.ImportPath)
	assert.FileExists(t, filepath.Join(cfg.Root, sr.Dir, "intro.jsx"))
}

func TestWaitForFileChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "routes.gen.jsx")
	require.NoError(t, os.WriteFile(path, []byte("a"), 0o644))

	past := time.Now().Add(-time.Minute)
	require.NoError(t, os.Chtimes(path, past, past))

	go func() {
		time.Sleep(20 * time.Millisecond)
		_ = os.WriteFile(path, []byte("b"), 0o644)
	}()

	WaitForFileChange(t, path, past, time.Second)
	assert.Equal(t, "b", ReadArtifact(t, path))
}
