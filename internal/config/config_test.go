package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	routeerrors "github.com/conneroisu/routegen/internal/errors"
	"github.com/conneroisu/routegen/internal/routes"
)

func newViper(t *testing.T, values map[string]interface{}) *viper.Viper {
	t.Helper()
	v := viper.New()
	SetDefaults(v)
	for k, val := range values {
		v.Set(k, val)
	}
	return v
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := LoadFrom(newViper(t, nil))
	require.NoError(t, err)

	assert.Equal(t, ".", cfg.Root)
	assert.Equal(t, DefaultRoutesDir, cfg.RoutesDir)
	assert.Equal(t, DefaultOutput, cfg.Output)
	assert.Equal(t, 2, cfg.Convention.Version)
	assert.Equal(t, "segment", cfg.Convention.Groups)
	assert.Equal(t, "first", cfg.Convention.CatchAllOrder)
	assert.Equal(t, []string{".jsx", ".tsx", ".js", ".ts"}, cfg.Extensions)
	assert.Equal(t, "react", cfg.Emit.UIModule)
	assert.Equal(t, "react-router-dom", cfg.Emit.RouterModule)
	assert.Equal(t, DefaultDebounce, cfg.Watch.Debounce)
	assert.Equal(t, filepath.Join("src", "routes"), cfg.RoutesPath())
}

func TestLoadGlobalViper(t *testing.T) {
	viper.Reset()
	defer viper.Reset()
	viper.Set("routes_dir", "app/routes")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "app/routes", cfg.RoutesDir)
}

func TestLoadConventionPresets(t *testing.T) {
	cfg, err := LoadFrom(newViper(t, map[string]interface{}{"convention.version": 1}))
	require.NoError(t, err)
	conv := cfg.RouteConvention()
	assert.Equal(t, routes.GroupUnwrap, conv.Groups)
	assert.Equal(t, routes.CatchAllLast, conv.CatchAllOrder)

	cfg, err = LoadFrom(newViper(t, map[string]interface{}{
		"convention.version": 1,
		"convention.groups":  "segment",
	}))
	require.NoError(t, err)
	conv = cfg.RouteConvention()
	assert.Equal(t, routes.GroupSegment, conv.Groups)
	assert.Equal(t, routes.CatchAllLast, conv.CatchAllOrder)
}

func TestLoadFromYAMLFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, ".routegen.yml")
	content := `routes_dir: web/routes
output: web/routes.gen.jsx
watch:
  debounce: 500ms
sub_routers:
  - mount_path: /docs/
    import_path: ./docs/routes.gen
    dir: web/docs
    output: web/docs/routes.gen.jsx
  - name: admin
    mount_path: /admin
    import_path: "@acme/admin"
    lazy: true
    default_route: dashboard
`
	require.NoError(t, os.WriteFile(file, []byte(content), 0o644))

	v := viper.New()
	SetDefaults(v)
	v.SetConfigFile(file)
	require.NoError(t, v.ReadInConfig())

	cfg, err := LoadFrom(v)
	require.NoError(t, err)

	assert.Equal(t, 500*time.Millisecond, cfg.Watch.Debounce)
	require.Len(t, cfg.SubRouters, 2)
	assert.Equal(t, "/docs", cfg.SubRouters[0].MountPath)
	assert.Equal(t, "docs", cfg.SubRouters[0].Name)
	assert.Equal(t, "/admin/dashboard", cfg.SubRouters[1].DefaultRoute)

	mounts := cfg.Mounts()
	require.Len(t, mounts, 2)
	assert.Equal(t, "DocsRoutes", mounts[0].Symbol)
	assert.Equal(t, "AdminRoutes", mounts[1].Symbol)
	assert.True(t, mounts[1].Lazy)
}

func TestLoadValidation(t *testing.T) {
	testCases := []struct {
		name   string
		values map[string]interface{}
		code   string
	}{
		{
			name:   "path traversal",
			values: map[string]interface{}{"routes_dir": "../outside"},
			code:   routeerrors.ErrCodeInvalidPath,
		},
		{
			name:   "dangerous output",
			values: map[string]interface{}{"output": "routes;rm.jsx"},
			code:   routeerrors.ErrCodeInvalidPath,
		},
		{
			name:   "unknown version",
			values: map[string]interface{}{"convention.version": 9},
			code:   routeerrors.ErrCodeConfigInvalid,
		},
		{
			name:   "unknown group policy",
			values: map[string]interface{}{"convention.groups": "flatten"},
			code:   routeerrors.ErrCodeConfigInvalid,
		},
		{
			name:   "bad log format",
			values: map[string]interface{}{"log.format": "xml"},
			code:   routeerrors.ErrCodeConfigInvalid,
		},
		{
			name: "lazy mount without default",
			values: map[string]interface{}{"sub_routers": []map[string]interface{}{
				{"mount_path": "/docs", "import_path": "./docs", "lazy": true},
			}},
			code: routeerrors.ErrCodeMountNoDefault,
		},
		{
			name: "lazy mount with root default",
			values: map[string]interface{}{"sub_routers": []map[string]interface{}{
				{"mount_path": "/docs", "import_path": "./docs", "lazy": true, "default_route": "/"},
			}},
			code: routeerrors.ErrCodeMountNoDefault,
		},
		{
			name: "duplicate normalized mount",
			values: map[string]interface{}{"sub_routers": []map[string]interface{}{
				{"name": "a", "mount_path": "/docs", "import_path": "./a"},
				{"name": "b", "mount_path": "//docs/", "import_path": "./b"},
			}},
			code: routeerrors.ErrCodeDuplicateMount,
		},
		{
			name: "duplicate module",
			values: map[string]interface{}{"sub_routers": []map[string]interface{}{
				{"mount_path": "/a", "import_path": "./shared"},
				{"mount_path": "/b", "import_path": "./shared"},
			}},
			code: routeerrors.ErrCodeDuplicateModule,
		},
		{
			name: "relative mount path",
			values: map[string]interface{}{"sub_routers": []map[string]interface{}{
				{"mount_path": "docs", "import_path": "./docs"},
			}},
			code: routeerrors.ErrCodeConfigInvalid,
		},
		{
			name: "root mount",
			values: map[string]interface{}{"sub_routers": []map[string]interface{}{
				{"name": "all", "mount_path": "/", "import_path": "./all"},
			}},
			code: routeerrors.ErrCodeMountCollision,
		},
		{
			name: "sub-router dir without output",
			values: map[string]interface{}{"sub_routers": []map[string]interface{}{
				{"mount_path": "/docs", "import_path": "./docs", "dir": "docs"},
			}},
			code: routeerrors.ErrCodeInvalidPath,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := LoadFrom(newViper(t, tc.values))
			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.True(t, routeerrors.HasCode(err, tc.code), "got %v", err)
			assert.True(t, strings.HasPrefix(err.Error(), "invalid configuration"))
		})
	}
}

func TestLoadDecodeError(t *testing.T) {
	_, err := LoadFrom(newViper(t, map[string]interface{}{"convention.version": "latest"}))
	require.Error(t, err)
	assert.True(t, routeerrors.IsConfig(err))
}

func TestValidatePath(t *testing.T) {
	assert.NoError(t, validatePath("src/routes"))
	assert.NoError(t, validatePath("src/(marketing)/routes"))
	assert.NoError(t, validatePath("app/..routes"))
	assert.Error(t, validatePath(""))
	assert.Error(t, validatePath("a/../../b"))
	assert.Error(t, validatePath("a|b"))
}

func TestValidateWithDetails(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "src", "routes"), 0o755))

	cfg := Default()
	cfg.Root = root
	result := ValidateWithDetails(cfg)
	assert.False(t, result.HasWarnings(), result.String())

	cfg.Output = "src/routes/routes.gen.js"
	cfg.RoutesDir = "src/routes"
	result = ValidateWithDetails(cfg)
	require.Len(t, result.Warnings, 2)
	assert.Contains(t, result.String(), "inside the routes directory")
	assert.Contains(t, result.String(), "routes.gen.jsx")

	cfg = Default()
	cfg.Root = root
	cfg.RoutesDir = "missing"
	result = ValidateWithDetails(cfg)
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, "routes_dir", result.Warnings[0].Field)
}

func TestWizard(t *testing.T) {
	in := strings.NewReader("app/routes\n\n\n1\n\n")
	var out strings.Builder

	w := NewWizard(in, &out)
	cfg, err := w.Run()
	require.NoError(t, err)

	assert.Equal(t, "app/routes", cfg.RoutesDir)
	assert.Equal(t, DefaultOutput, cfg.Output)
	assert.Equal(t, 1, cfg.Convention.Version)
	assert.Equal(t, "unwrap", cfg.Convention.Groups)
	assert.Equal(t, "last", cfg.Convention.CatchAllOrder)
	assert.Contains(t, out.String(), "Routes directory [src/routes]")

	file := filepath.Join(t.TempDir(), ".routegen.yml")
	require.NoError(t, w.WriteConfigFile(file, false))
	assert.Error(t, w.WriteConfigFile(file, false))

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	var decoded map[string]interface{}
	require.NoError(t, yaml.Unmarshal(data, &decoded))
	assert.Equal(t, "app/routes", decoded["routes_dir"])
}

func TestWizardRejectsOutOfRangeVersion(t *testing.T) {
	in := strings.NewReader("\n\n\n7\n2\n\n")
	var out strings.Builder

	cfg, err := NewWizard(in, &out).Run()
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Convention.Version)
	assert.Contains(t, out.String(), "between 1 and 2")
}
