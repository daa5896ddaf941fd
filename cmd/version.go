package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/conneroisu/routegen/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Long: `Display the routegen version. With --verbose the commit, build time, Go
version and platform are shown as well.

Examples:
  routegen version                # Short version
  routegen version --verbose      # Detailed build information
  routegen version -o json        # Build information as JSON`,
	RunE: runVersion,
}

var versionFlags *OutputFlags

func init() {
	rootCmd.AddCommand(versionCmd)

	versionFlags = AddOutputFlags(versionCmd, "text", "json", "yaml")
}

func runVersion(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	info := version.Get()

	switch strings.ToLower(versionFlags.Format) {
	case "json":
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(info)
	case "yaml":
		encoder := yaml.NewEncoder(out)
		defer encoder.Close()
		return encoder.Encode(info)
	}

	if versionFlags.Verbose {
		fmt.Fprintln(out, info.String())
		return nil
	}
	fmt.Fprintf(out, "routegen %s\n", version.GetShortVersion())
	return nil
}
