// Package config loads routegen settings through Viper from a .routegen.yml
// file, ROUTEGEN_ environment variables and command-line flags.
//
// Loading applies the convention preset for the configured version, fills in
// defaults, normalises sub-router mount paths and validates everything before
// any artifact is generated.
package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	routeerrors "github.com/conneroisu/routegen/internal/errors"
	"github.com/conneroisu/routegen/internal/routes"
)

type Config struct {
	Root         string            `mapstructure:"root" yaml:"root"`
	RoutesDir    string            `mapstructure:"routes_dir" yaml:"routes_dir"`
	Output       string            `mapstructure:"output" yaml:"output"`
	ImportPrefix string            `mapstructure:"import_prefix" yaml:"import_prefix"`
	Extensions   []string          `mapstructure:"extensions" yaml:"extensions"`
	Ignore       []string          `mapstructure:"ignore" yaml:"ignore"`
	Convention   ConventionConfig  `mapstructure:"convention" yaml:"convention"`
	Emit         EmitConfig        `mapstructure:"emit" yaml:"emit"`
	SubRouters   []SubRouterConfig `mapstructure:"sub_routers" yaml:"sub_routers"`
	Watch        WatchConfig       `mapstructure:"watch" yaml:"watch"`
	Log          LogConfig         `mapstructure:"log" yaml:"log"`
}

type ConventionConfig struct {
	Version       int    `mapstructure:"version" yaml:"version"`
	Groups        string `mapstructure:"groups" yaml:"groups"`
	CatchAllOrder string `mapstructure:"catch_all_order" yaml:"catch_all_order"`
}

type EmitConfig struct {
	UIModule     string `mapstructure:"ui_module" yaml:"ui_module"`
	RouterModule string `mapstructure:"router_module" yaml:"router_module"`
}

// SubRouterConfig mounts a separately generated route table under MountPath.
// When Dir is set the sub-router's own artifact is generated into Output.
type SubRouterConfig struct {
	Name         string `mapstructure:"name" yaml:"name"`
	MountPath    string `mapstructure:"mount_path" yaml:"mount_path"`
	ImportPath   string `mapstructure:"import_path" yaml:"import_path"`
	Dir          string `mapstructure:"dir" yaml:"dir"`
	Output       string `mapstructure:"output" yaml:"output"`
	Lazy         bool   `mapstructure:"lazy" yaml:"lazy"`
	DefaultRoute string `mapstructure:"default_route" yaml:"default_route"`
}

type WatchConfig struct {
	Debounce time.Duration `mapstructure:"debounce" yaml:"debounce"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

const (
	DefaultRoutesDir = "src/routes"
	DefaultOutput    = "src/routes.gen.jsx"
	DefaultDebounce  = 300 * time.Millisecond
)

// SetDefaults registers default values on v so that flags and environment
// variables bound to the same keys can override them.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("root", ".")
	v.SetDefault("routes_dir", DefaultRoutesDir)
	v.SetDefault("output", DefaultOutput)
	v.SetDefault("convention.version", 2)
	v.SetDefault("emit.ui_module", "react")
	v.SetDefault("emit.router_module", "react-router-dom")
	v.SetDefault("watch.debounce", DefaultDebounce)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// Load reads the configuration from the global Viper instance.
func Load() (*Config, error) {
	return LoadFrom(viper.GetViper())
}

// LoadFrom reads, completes and validates the configuration held by v.
func LoadFrom(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, routeerrors.NewConfigError(routeerrors.ErrCodeConfigInvalid,
			fmt.Sprintf("decoding configuration: %v", err))
	}

	cfg.applyDefaults()
	cfg.normalize()

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Default returns a validated configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	cfg.normalize()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Root == "" {
		c.Root = "."
	}
	if c.RoutesDir == "" {
		c.RoutesDir = DefaultRoutesDir
	}
	if c.Output == "" {
		c.Output = DefaultOutput
	}
	if c.Convention.Version == 0 {
		c.Convention.Version = 2
	}
	if preset, err := routes.ConventionFor(c.Convention.Version); err == nil {
		if len(c.Extensions) == 0 {
			c.Extensions = preset.Extensions
		}
		if len(c.Ignore) == 0 {
			c.Ignore = preset.Ignore
		}
		if c.Convention.Groups == "" {
			c.Convention.Groups = string(preset.Groups)
		}
		if c.Convention.CatchAllOrder == "" {
			c.Convention.CatchAllOrder = string(preset.CatchAllOrder)
		}
	}
	if c.Emit.UIModule == "" {
		c.Emit.UIModule = "react"
	}
	if c.Emit.RouterModule == "" {
		c.Emit.RouterModule = "react-router-dom"
	}
	if c.Watch.Debounce <= 0 {
		c.Watch.Debounce = DefaultDebounce
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// normalize cleans sub-router paths and derives missing names. The raw mount
// path is kept when it is not absolute so validation can reject it.
func (c *Config) normalize() {
	for i := range c.SubRouters {
		sr := &c.SubRouters[i]
		if strings.HasPrefix(sr.MountPath, "/") {
			sr.MountPath = routes.CleanPath(sr.MountPath)
		}
		if sr.Name == "" {
			sr.Name = strings.ReplaceAll(strings.Trim(sr.MountPath, "/"), "/", "-")
		}
		if sr.DefaultRoute != "" {
			if strings.HasPrefix(sr.DefaultRoute, "/") {
				sr.DefaultRoute = routes.CleanPath(sr.DefaultRoute)
			} else {
				sr.DefaultRoute = routes.JoinPath(sr.MountPath, sr.DefaultRoute)
			}
		}
	}
}

// RoutesPath returns the main routes directory on disk.
func (c *Config) RoutesPath() string {
	return filepath.Join(c.Root, c.RoutesDir)
}

// OutputPath returns the main artifact path on disk.
func (c *Config) OutputPath() string {
	return filepath.Join(c.Root, c.Output)
}

// RouteConvention returns the naming convention with explicit keys applied
// over the version preset.
func (c *Config) RouteConvention() routes.Convention {
	conv, err := routes.ConventionFor(c.Convention.Version)
	if err != nil {
		conv = routes.DefaultConvention()
	}
	if c.Convention.Groups != "" {
		conv.Groups = routes.GroupPolicy(c.Convention.Groups)
	}
	if c.Convention.CatchAllOrder != "" {
		conv.CatchAllOrder = routes.CatchAllOrder(c.Convention.CatchAllOrder)
	}
	if len(c.Extensions) > 0 {
		conv.Extensions = append([]string(nil), c.Extensions...)
	}
	if len(c.Ignore) > 0 {
		conv.Ignore = append([]string(nil), c.Ignore...)
	}
	return conv
}

// Mounts converts the sub-router list into route mounts for the main root.
func (c *Config) Mounts() []routes.Mount {
	mounts := make([]routes.Mount, 0, len(c.SubRouters))
	for _, sr := range c.SubRouters {
		mounts = append(mounts, routes.Mount{
			Name:         sr.Name,
			Path:         sr.MountPath,
			ImportPath:   sr.ImportPath,
			Symbol:       routes.MountSymbol(sr.MountPath),
			Lazy:         sr.Lazy,
			DefaultRoute: sr.DefaultRoute,
		})
	}
	return mounts
}

// validateConfig validates configuration values for security and correctness
func validateConfig(cfg *Config) error {
	if err := validatePath(cfg.RoutesDir); err != nil {
		return pathError("routes_dir", err)
	}
	if err := validatePath(cfg.Output); err != nil {
		return pathError("output", err)
	}

	if _, err := routes.ConventionFor(cfg.Convention.Version); err != nil {
		return routeerrors.NewConfigError(routeerrors.ErrCodeConfigInvalid, err.Error())
	}
	if err := cfg.RouteConvention().Validate(); err != nil {
		return routeerrors.NewConfigError(routeerrors.ErrCodeConfigInvalid, "convention: "+err.Error())
	}

	switch cfg.Log.Format {
	case "text", "json":
	default:
		return routeerrors.NewConfigError(routeerrors.ErrCodeConfigInvalid,
			fmt.Sprintf("log format %q must be text or json", cfg.Log.Format))
	}

	return validateSubRouters(cfg.SubRouters)
}

func validateSubRouters(subRouters []SubRouterConfig) error {
	mounts := make(map[string]string)
	modules := make(map[string]string)
	names := make(map[string]string)

	for _, sr := range subRouters {
		if !strings.HasPrefix(sr.MountPath, "/") {
			return routeerrors.NewConfigError(routeerrors.ErrCodeConfigInvalid,
				fmt.Sprintf("sub-router %q: mount_path %q must be absolute", sr.Name, sr.MountPath))
		}
		if sr.MountPath == "/" {
			return routeerrors.NewCollisionError(routeerrors.ErrCodeMountCollision,
				fmt.Sprintf("sub-router %q cannot be mounted at the root", sr.Name)).WithPath("/")
		}
		if prev, ok := mounts[sr.MountPath]; ok {
			return routeerrors.NewCollisionError(routeerrors.ErrCodeDuplicateMount,
				fmt.Sprintf("sub-routers %q and %q share mount path %s", prev, sr.Name, sr.MountPath)).
				WithPath(sr.MountPath)
		}
		mounts[sr.MountPath] = sr.Name

		if sr.ImportPath == "" {
			return routeerrors.NewConfigError(routeerrors.ErrCodeConfigInvalid,
				fmt.Sprintf("sub-router %q: import_path is required", sr.Name))
		}
		if prev, ok := modules[sr.ImportPath]; ok {
			return routeerrors.NewCollisionError(routeerrors.ErrCodeDuplicateModule,
				fmt.Sprintf("sub-routers %q and %q import the same module %s", prev, sr.Name, sr.ImportPath))
		}
		modules[sr.ImportPath] = sr.Name

		if _, ok := names[sr.Name]; ok {
			return routeerrors.NewCollisionError(routeerrors.ErrCodeDuplicateModule,
				fmt.Sprintf("sub-router name %q is declared twice", sr.Name))
		}
		names[sr.Name] = sr.MountPath

		if sr.Lazy && (sr.DefaultRoute == "" || sr.DefaultRoute == "/") {
			return routeerrors.NewConfigError(routeerrors.ErrCodeMountNoDefault,
				fmt.Sprintf("lazy sub-router %q needs a non-root default_route", sr.Name)).
				WithPath(sr.MountPath)
		}

		if sr.Dir != "" {
			if err := validatePath(sr.Dir); err != nil {
				return pathError("sub_routers."+sr.Name+".dir", err)
			}
			if err := validatePath(sr.Output); err != nil {
				return pathError("sub_routers."+sr.Name+".output", err)
			}
		}
	}
	return nil
}

func pathError(key string, err error) error {
	return routeerrors.NewConfigError(routeerrors.ErrCodeInvalidPath,
		fmt.Sprintf("%s: %v", key, err))
}

// validatePath validates a file path for security
func validatePath(path string) error {
	if path == "" {
		return fmt.Errorf("empty path")
	}

	cleanPath := filepath.Clean(path)

	for _, part := range strings.Split(filepath.ToSlash(cleanPath), "/") {
		if part == ".." {
			return fmt.Errorf("path contains traversal: %s", path)
		}
	}

	dangerousChars := []string{";", "&", "|", "$", "`", "<", ">", "\"", "'"}
	for _, char := range dangerousChars {
		if strings.Contains(cleanPath, char) {
			return fmt.Errorf("path contains dangerous character: %s", char)
		}
	}

	return nil
}
