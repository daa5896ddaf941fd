package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/conneroisu/routegen/internal/config"
	routeerrors "github.com/conneroisu/routegen/internal/errors"
	"github.com/conneroisu/routegen/internal/logging"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "routegen",
	Short: "Compile a routes directory into a react-router route table",
	Long: `routegen turns a directory of route files into a JavaScript module that
exports a react-router-dom route table.

File conventions:
  index.jsx           index route of the enclosing directory
  _layout.jsx         layout wrapping its siblings and subdirectories
  _error.jsx          error boundary of the enclosing route
  _any.jsx            catch-all route (path "*")
  [id].jsx            dynamic segment (":id")
  name.lazy_.jsx      page loaded with React.lazy
  name.loader_.js     data loader for "name"

Quick Start:
  routegen init                   Write a .routegen.yml
  routegen generate               Generate every route table once
  routegen watch                  Regenerate on every change
  routegen list                   Print the merged route table`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is .routegen.yml, can also use ROUTEGEN_CONFIG_FILE env var)")
	flags.String("root", ".", "project root that every configured path is relative to")
	flags.String("routes-dir", config.DefaultRoutesDir, "routes directory")
	flags.String("out", config.DefaultOutput, "generated route module")
	flags.StringP("log-level", "l", "info", "log level (debug, info, warn, error)")
	flags.String("log-format", "text", "log format (text, json)")

	AddFlagValidation(rootCmd.PersistentFlags(), "log-level", ValidateLogLevel)
	AddFlagValidation(rootCmd.PersistentFlags(), "log-format", func(v string) error {
		return ValidateChoice("log format", v, []string{"text", "json"})
	})

	bindings := map[string]string{
		"root":       "root",
		"routes-dir": "routes_dir",
		"out":        "output",
		"log-level":  "log.level",
		"log-format": "log.format",
	}
	for flag, key := range bindings {
		_ = viper.BindPFlag(key, flags.Lookup(flag))
	}
}

// initConfig selects the config file: --config, then ROUTEGEN_CONFIG_FILE,
// then .routegen.yml in the working directory. Environment variables with
// the ROUTEGEN_ prefix override file values.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if envConfigFile := os.Getenv("ROUTEGEN_CONFIG_FILE"); envConfigFile != "" {
		viper.SetConfigFile(envConfigFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".routegen")
	}

	viper.SetEnvPrefix("ROUTEGEN")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	config.SetDefaults(viper.GetViper())

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadRuntime loads the configuration and builds the logger every command
// uses.
func loadRuntime(stderr io.Writer) (*config.Config, logging.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, nil, routeerrors.NewConfigError(routeerrors.ErrCodeConfigInvalid, err.Error())
	}

	logger := logging.NewLogger(&logging.LoggerConfig{
		Level:     level,
		Format:    cfg.Log.Format,
		Output:    stderr,
		Component: "routegen",
	})
	return cfg, logger, nil
}
