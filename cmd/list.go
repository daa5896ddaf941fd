package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/conneroisu/routegen/internal/build"
	"github.com/conneroisu/routegen/internal/routes"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls", "l"},
	Short:   "Print the merged route table",
	Long: `List compiles a routes directory and prints the merged, ordered route table
without writing anything.

Examples:
  routegen list                   # Table of the main routes directory
  routegen list -o json           # Same table as JSON
  routegen list --router docs     # Table of the "docs" sub-router`,
	RunE: runList,
}

var (
	listFlags  *OutputFlags
	listRouter string
)

func init() {
	rootCmd.AddCommand(listCmd)

	listFlags = AddOutputFlags(listCmd, "table", "json", "yaml")
	listCmd.Flags().StringVar(&listRouter, "router", build.MainRoot, "Route table to list (main or a sub-router name)")
}

// RouteRow is one record of the listed table.
type RouteRow struct {
	Path   string `json:"path" yaml:"path"`
	Index  bool   `json:"index,omitempty" yaml:"index,omitempty"`
	Depth  int    `json:"depth" yaml:"depth"`
	Layout string `json:"layout,omitempty" yaml:"layout,omitempty"`
	Page   string `json:"page,omitempty" yaml:"page,omitempty"`
	Error  string `json:"error,omitempty" yaml:"error,omitempty"`
	Loader string `json:"loader,omitempty" yaml:"loader,omitempty"`
	Mount  string `json:"mount,omitempty" yaml:"mount,omitempty"`
	Lazy   bool   `json:"lazy,omitempty" yaml:"lazy,omitempty"`
}

func runList(cmd *cobra.Command, args []string) error {
	if err := listFlags.Validate(); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}

	cfg, logger, err := loadRuntime(cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	g := build.NewGenerator(cfg, logger)
	table, err := g.Routes(listRouter)
	if err != nil {
		return err
	}

	base := "/"
	for _, r := range g.Roots() {
		if r.Name == listRouter {
			base = r.BasePath
		}
	}

	rows := routeRows(table, base)
	out := cmd.OutOrStdout()

	switch strings.ToLower(listFlags.Format) {
	case "json":
		return outputRowsJSON(out, rows)
	case "yaml":
		return outputRowsYAML(out, rows)
	default:
		return outputRowsTable(out, rows, listFlags.Verbose, listFlags.Quiet)
	}
}

func routeRows(table []*routes.Record, base string) []RouteRow {
	var rows []RouteRow
	routes.Walk(table, base, func(r *routes.Record, at string, depth int) {
		row := RouteRow{Path: at, Index: r.Index, Depth: depth}
		if r.Layout != nil {
			row.Layout = r.Layout.File
		}
		if r.Page != nil {
			row.Page = r.Page.File
			row.Lazy = r.Page.Lazy
		}
		if r.ErrorBoundary != nil {
			row.Error = r.ErrorBoundary.File
		}
		if r.Loader != nil {
			row.Loader = r.Loader.File
		}
		if r.Mount != nil {
			row.Mount = r.Mount.ImportPath
			row.Lazy = r.Mount.Lazy
		}
		rows = append(rows, row)
	})
	return rows
}

func outputRowsJSON(out io.Writer, rows []RouteRow) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(rows)
}

func outputRowsYAML(out io.Writer, rows []RouteRow) error {
	encoder := yaml.NewEncoder(out)
	defer encoder.Close()
	return encoder.Encode(rows)
}

func outputRowsTable(out io.Writer, rows []RouteRow, verbose, quiet bool) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	if quiet {
		for _, row := range rows {
			fmt.Fprintln(w, row.Path)
		}
		return w.Flush()
	}

	header := "PATH\tKIND\tMODULE"
	if verbose {
		header += "\tERROR\tLOADER"
	}
	fmt.Fprintln(w, header)

	for _, row := range rows {
		line := fmt.Sprintf("%s%s\t%s\t%s", strings.Repeat("  ", row.Depth), row.Path, rowKind(row), rowModule(row))
		if verbose {
			line += fmt.Sprintf("\t%s\t%s", row.Error, row.Loader)
		}
		fmt.Fprintln(w, line)
	}

	fmt.Fprintf(w, "\nTotal: %d routes\n", len(rows))
	return w.Flush()
}

func rowKind(row RouteRow) string {
	var kind string
	switch {
	case row.Mount != "":
		kind = "mount"
	case row.Index:
		kind = "index"
	case row.Layout != "":
		kind = "layout"
	case row.Page != "":
		kind = "page"
	default:
		kind = "-"
	}
	if row.Lazy {
		kind += " (lazy)"
	}
	return kind
}

func rowModule(row RouteRow) string {
	for _, m := range []string{row.Mount, row.Layout, row.Page} {
		if m != "" {
			return m
		}
	}
	return "-"
}
