package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/conneroisu/routegen/internal/logging"
)

// OutputFlags provides consistent output flags across commands
type OutputFlags struct {
	Format  string
	Verbose bool
	Quiet   bool
}

// AddOutputFlags adds --output, --verbose and --quiet to cmd. formats lists
// the accepted --output values; the first one is the default.
func AddOutputFlags(cmd *cobra.Command, formats ...string) *OutputFlags {
	flags := &OutputFlags{}
	if len(formats) == 0 {
		formats = []string{"table", "json", "yaml"}
	}

	cmd.Flags().StringVarP(&flags.Format, "output", "o", formats[0],
		fmt.Sprintf("Output format (%s)", strings.Join(formats, "|")))
	cmd.Flags().BoolVarP(&flags.Verbose, "verbose", "v", false, "Enable verbose output")
	cmd.Flags().BoolVarP(&flags.Quiet, "quiet", "q", false, "Suppress output")

	AddFlagValidation(cmd.Flags(), "output", func(v string) error {
		return ValidateChoice("output format", v, formats)
	})
	return flags
}

// Validate validates flag combinations
func (f *OutputFlags) Validate() error {
	if f.Quiet && f.Verbose {
		return fmt.Errorf("cannot specify both --quiet and --verbose")
	}
	return nil
}

// AddFlagValidation wraps a flag so invalid values are rejected while the
// command line is parsed.
func AddFlagValidation(flags *pflag.FlagSet, flagName string, validator func(string) error) {
	flag := flags.Lookup(flagName)
	if flag == nil {
		return
	}
	flag.Value = &validatingValue{Value: flag.Value, validator: validator}
}

type validatingValue struct {
	pflag.Value
	validator func(string) error
}

func (v *validatingValue) Set(val string) error {
	if v.validator != nil {
		if err := v.validator(val); err != nil {
			return err
		}
	}
	return v.Value.Set(val)
}

// ValidateChoice rejects values outside choices, case-insensitively.
func ValidateChoice(what, value string, choices []string) error {
	for _, c := range choices {
		if strings.EqualFold(value, c) {
			return nil
		}
	}
	return fmt.Errorf("invalid %s %q, must be one of: %s", what, value, strings.Join(choices, ", "))
}

// ValidateLogLevel accepts the levels logging.ParseLevel understands.
func ValidateLogLevel(level string) error {
	_, err := logging.ParseLevel(level)
	return err
}
