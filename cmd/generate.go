package cmd

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/conneroisu/routegen/internal/build"
	"github.com/conneroisu/routegen/internal/config"
	routeerrors "github.com/conneroisu/routegen/internal/errors"
	"github.com/conneroisu/routegen/internal/logging"
)

var generateCmd = &cobra.Command{
	Use:     "generate",
	Aliases: []string{"gen", "g"},
	Short:   "Generate every route table once",
	Long: `Generate compiles the main routes directory and every sub-router that has its
own directory, then writes each route module. A module whose content did not
change is left untouched.

Examples:
  routegen generate               # Write every route module
  routegen generate --dry-run     # Compile and report without writing
  routegen generate --stdout      # Print the generated modules instead`,
	RunE: runGenerate,
}

var (
	generateDryRun bool
	generateStdout bool
)

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().BoolVar(&generateDryRun, "dry-run", false, "Compile every root without writing")
	generateCmd.Flags().BoolVar(&generateStdout, "stdout", false, "Print generated modules to stdout instead of writing them")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadRuntime(cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return generate(ctx, cfg, logger, cmd.OutOrStdout())
}

func generate(ctx context.Context, cfg *config.Config, logger logging.Logger, out io.Writer) error {
	reportWarnings(ctx, cfg, logger)

	g := build.NewGenerator(cfg, logger)
	handler := routeerrors.NewErrorHandler(logger)

	if generateDryRun || generateStdout {
		var failed error
		for _, root := range g.Roots() {
			src, err := g.Render(root.Name)
			if err != nil {
				handler.Handle(ctx, err)
				if failed == nil {
					failed = err
				}
				continue
			}
			if generateStdout {
				if len(g.Roots()) > 1 {
					fmt.Fprintf(out, "// ==> %s\n", root.Output)
				}
				_, _ = out.Write(src)
				continue
			}
			fmt.Fprintf(out, "%s: %d bytes (dry run, not written)\n", root.Output, len(src))
		}
		return failed
	}

	results, err := g.GenerateAll(ctx)
	for _, r := range results {
		switch {
		case r.Error != nil:
			handler.Handle(ctx, r.Error)
		case r.Written:
			fmt.Fprintf(out, "%s: %d routes written\n", r.Output, r.Routes)
		default:
			fmt.Fprintf(out, "%s: %d routes unchanged\n", r.Output, r.Routes)
		}
	}
	if err != nil {
		return fmt.Errorf("route generation failed: %w", err)
	}
	return nil
}

func reportWarnings(ctx context.Context, cfg *config.Config, logger logging.Logger) {
	result := config.ValidateWithDetails(cfg)
	for _, w := range result.Warnings {
		logger.Warn(ctx, nil, w.Message, "field", w.Field)
	}
}
