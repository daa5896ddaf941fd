package config

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Wizard asks for the handful of settings a new project needs and writes
// them as a .routegen.yml file.
type Wizard struct {
	reader *bufio.Reader
	out    io.Writer
	config *Config
}

// NewWizard creates a wizard reading answers from in and prompting on out.
func NewWizard(in io.Reader, out io.Writer) *Wizard {
	return &Wizard{
		reader: bufio.NewReader(in),
		out:    out,
		config: Default(),
	}
}

// Run executes the interactive configuration wizard
func (w *Wizard) Run() (*Config, error) {
	fmt.Fprintln(w.out, "routegen configuration")
	fmt.Fprintln(w.out)

	w.config.RoutesDir = w.askString("Routes directory", w.config.RoutesDir)
	w.config.Output = w.askString("Generated routes module", w.config.Output)
	w.config.ImportPrefix = w.askString("Import prefix for route files (blank to derive)", w.config.ImportPrefix)

	version, err := w.askInt("Convention version", w.config.Convention.Version, 1, 2)
	if err != nil {
		return nil, err
	}
	groups := "segment"
	if version == 1 {
		groups = "unwrap"
	}
	w.config.Convention.Version = version
	w.config.Convention.CatchAllOrder = ""
	w.config.Convention.Groups = w.askChoice("Route group directories", []string{"unwrap", "segment"}, groups)

	w.config.applyDefaults()
	w.config.normalize()
	if err := validateConfig(w.config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return w.config, nil
}

// WriteConfigFile writes the configuration to a YAML file. An existing file
// is only replaced when overwrite is set.
func (w *Wizard) WriteConfigFile(filename string, overwrite bool) error {
	if _, err := os.Stat(filename); err == nil && !overwrite {
		return fmt.Errorf("configuration file %s already exists", filename)
	}

	content, err := Marshal(w.config)
	if err != nil {
		return err
	}
	if err := os.WriteFile(filename, content, 0o644); err != nil {
		return fmt.Errorf("failed to write configuration file: %w", err)
	}
	return nil
}

// Marshal renders cfg as .routegen.yml content.
func Marshal(cfg *Config) ([]byte, error) {
	body, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("encoding configuration: %w", err)
	}
	return append([]byte("# routegen configuration\n"), body...), nil
}

func (w *Wizard) askString(prompt, defaultValue string) string {
	if defaultValue != "" {
		fmt.Fprintf(w.out, "%s [%s]: ", prompt, defaultValue)
	} else {
		fmt.Fprintf(w.out, "%s: ", prompt)
	}

	input, err := w.reader.ReadString('\n')
	input = strings.TrimSpace(input)
	if input == "" || (err != nil && err != io.EOF) {
		return defaultValue
	}
	return input
}

func (w *Wizard) askInt(prompt string, defaultValue, min, max int) (int, error) {
	for {
		fmt.Fprintf(w.out, "%s [%d]: ", prompt, defaultValue)

		input, err := w.reader.ReadString('\n')
		input = strings.TrimSpace(input)
		if input == "" {
			return defaultValue, nil
		}

		value, convErr := strconv.Atoi(input)
		if convErr == nil && value >= min && value <= max {
			return value, nil
		}
		if err != nil {
			return 0, fmt.Errorf("%s: expected a number between %d and %d", prompt, min, max)
		}
		fmt.Fprintf(w.out, "Please enter a number between %d and %d.\n", min, max)
	}
}

func (w *Wizard) askChoice(prompt string, choices []string, defaultValue string) string {
	for {
		fmt.Fprintf(w.out, "%s [%s] (options: %s): ", prompt, defaultValue, strings.Join(choices, ", "))

		input, err := w.reader.ReadString('\n')
		input = strings.TrimSpace(input)
		if input == "" {
			return defaultValue
		}

		for _, choice := range choices {
			if strings.EqualFold(input, choice) {
				return choice
			}
		}
		if err != nil {
			return defaultValue
		}
		fmt.Fprintf(w.out, "Please select from: %s\n", strings.Join(choices, ", "))
	}
}
