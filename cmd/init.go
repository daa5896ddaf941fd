package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/conneroisu/routegen/internal/config"
)

var initCmd = &cobra.Command{
	Use:     "init",
	Aliases: []string{"i"},
	Short:   "Write a .routegen.yml configuration",
	Long: `Init writes a .routegen.yml in the current directory. By default it asks for
the routes directory, the generated module and the naming convention.

Examples:
  routegen init                   # Interactive setup
  routegen init --yes             # Write the defaults without asking
  routegen init --force           # Replace an existing .routegen.yml`,
	RunE: runInit,
}

var (
	initYes   bool
	initForce bool
	initFile  string
)

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().BoolVarP(&initYes, "yes", "y", false, "Accept every default without prompting")
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "Overwrite an existing configuration file")
	initCmd.Flags().StringVar(&initFile, "file", ".routegen.yml", "Configuration file to write")
}

func runInit(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	if initYes {
		if _, err := os.Stat(initFile); err == nil && !initForce {
			return fmt.Errorf("configuration file %s already exists (use --force to replace it)", initFile)
		}
		content, err := config.Marshal(config.Default())
		if err != nil {
			return err
		}
		if err := os.WriteFile(initFile, content, 0o644); err != nil {
			return fmt.Errorf("failed to write configuration file: %w", err)
		}
		fmt.Fprintf(out, "Wrote %s\n", initFile)
		return nil
	}

	wizard := config.NewWizard(cmd.InOrStdin(), out)
	if _, err := wizard.Run(); err != nil {
		return err
	}
	if err := wizard.WriteConfigFile(initFile, initForce); err != nil {
		return err
	}
	fmt.Fprintf(out, "\nWrote %s\n", initFile)
	return nil
}
