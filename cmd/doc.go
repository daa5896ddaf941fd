// Package cmd provides the routegen command-line interface.
//
// Configuration is read through Viper with this precedence, highest first:
//
//  1. Command-line flags (--routes-dir, --out, --log-level, ...)
//  2. ROUTEGEN_ environment variables, with dots replaced by underscores
//     (ROUTEGEN_ROUTES_DIR, ROUTEGEN_LOG_LEVEL, ...)
//  3. The config file: --config, then ROUTEGEN_CONFIG_FILE, then .routegen.yml
//  4. Built-in defaults
//
// # Available Commands
//
//   - generate: compile every routes directory and write its module
//   - watch: generate, then regenerate affected modules on change
//   - list: print the merged route table as a table, JSON or YAML
//   - init: write a .routegen.yml
//   - version: print build information
package cmd
