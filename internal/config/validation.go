package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ValidationIssue is a non-fatal configuration finding with suggestions.
type ValidationIssue struct {
	Field       string
	Value       interface{}
	Message     string
	Suggestions []string
}

func (vi *ValidationIssue) Error() string {
	return fmt.Sprintf("validation warning in %s: %s", vi.Field, vi.Message)
}

// ValidationResult holds the findings of ValidateWithDetails.
type ValidationResult struct {
	Warnings []ValidationIssue
}

// HasWarnings returns true if there are any validation warnings
func (vr *ValidationResult) HasWarnings() bool {
	return len(vr.Warnings) > 0
}

// String returns a formatted list of all warnings
func (vr *ValidationResult) String() string {
	var builder strings.Builder
	for _, w := range vr.Warnings {
		builder.WriteString(fmt.Sprintf("  - %s: %s\n", w.Field, w.Message))
		for _, suggestion := range w.Suggestions {
			builder.WriteString(fmt.Sprintf("    hint: %s\n", suggestion))
		}
	}
	return builder.String()
}

// ValidateWithDetails inspects an already valid configuration against the
// filesystem and reports setups that work but are likely mistakes.
func ValidateWithDetails(cfg *Config) *ValidationResult {
	result := &ValidationResult{}

	checkRoutesDir(result, "routes_dir", cfg.RoutesPath())
	checkOutput(result, "output", cfg.RoutesPath(), cfg.OutputPath())

	for _, sr := range cfg.SubRouters {
		field := "sub_routers." + sr.Name
		if sr.Dir == "" {
			continue
		}
		dir := filepath.Join(cfg.Root, sr.Dir)
		checkRoutesDir(result, field+".dir", dir)
		checkOutput(result, field+".output", dir, filepath.Join(cfg.Root, sr.Output))

		if !sr.Lazy && sr.ImportPath != "" && !strings.HasPrefix(sr.ImportPath, ".") {
			result.Warnings = append(result.Warnings, ValidationIssue{
				Field:   field + ".import_path",
				Value:   sr.ImportPath,
				Message: "sub-router is generated locally but imported as a package",
				Suggestions: []string{
					"Use a relative import such as ./" + filepath.ToSlash(sr.Output),
				},
			})
		}
	}

	return result
}

func checkRoutesDir(result *ValidationResult, field, dir string) {
	info, err := os.Stat(dir)
	switch {
	case err != nil:
		result.Warnings = append(result.Warnings, ValidationIssue{
			Field:       field,
			Value:       dir,
			Message:     "routes directory does not exist",
			Suggestions: []string{"Create it with: mkdir -p " + dir},
		})
	case !info.IsDir():
		result.Warnings = append(result.Warnings, ValidationIssue{
			Field:   field,
			Value:   dir,
			Message: "routes path is not a directory",
		})
	}
}

func checkOutput(result *ValidationResult, field, routesDir, output string) {
	if rel, err := filepath.Rel(routesDir, output); err == nil && !strings.HasPrefix(rel, "..") {
		result.Warnings = append(result.Warnings, ValidationIssue{
			Field:   field,
			Value:   output,
			Message: "artifact is written inside the routes directory",
			Suggestions: []string{
				"Move the output next to the routes directory so it is not scanned as a page",
			},
		})
	}

	switch filepath.Ext(output) {
	case ".jsx", ".tsx":
	default:
		result.Warnings = append(result.Warnings, ValidationIssue{
			Field:       field,
			Value:       output,
			Message:     "artifact contains JSX but its extension is not .jsx or .tsx",
			Suggestions: []string{"Rename the output to " + strings.TrimSuffix(output, filepath.Ext(output)) + ".jsx"},
		})
	}
}
