package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/byakoron/internal/rules"
)

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	*RootOptions
	Strict bool // treat warnings as failures
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid       bool               `json:"valid"`
	Rules       int                `json:"rules"`
	Diagnostics []rules.Diagnostic `json:"diagnostics,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate <rules-file>",
		Short: "Check a rule document",
		Long: `Check a YAML or CUE rule document.

Runs three passes and reports every finding:
  schema     the document against the rule document JSON Schema
  compile    entries the loader would skip or drop
  ordering   rules shadowed by an earlier, shorter literal, and duplicates

Schema and compile errors fail validation. Ordering findings are warnings
unless --strict is set.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "treat warnings as failures")

	return cmd
}

func runValidate(opts *ValidateOptions, path string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	schemaDiags, err := rules.ValidateDocument(path)
	if err != nil {
		code := loadErrorCode(err)
		_ = formatter.Error(code, err.Error(), nil)
		// Unreadable documents are command-level errors (exit code 2)
		return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, err.Error()))
	}
	formatter.VerboseLog("Schema: %d finding(s)", len(schemaDiags))

	table, loadDiags, err := rules.LoadFile(path)
	if err != nil {
		code := loadErrorCode(err)
		_ = formatter.Error(code, err.Error(), nil)
		return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, err.Error()))
	}
	formatter.VerboseLog("Compile: %d finding(s), %d rule(s) kept", len(loadDiags), table.Len())

	orderDiags := rules.Validate(table)
	formatter.VerboseLog("Ordering: %d finding(s)", len(orderDiags))

	var diags []rules.Diagnostic
	diags = append(diags, schemaDiags...)
	diags = append(diags, loadDiags...)
	diags = append(diags, orderDiags...)

	failed := rules.HasErrors(diags) || (opts.Strict && len(diags) > 0)
	result := ValidationResult{
		Valid:       !failed,
		Rules:       table.Len(),
		Diagnostics: diags,
	}

	if failed {
		if opts.Format == "json" {
			if err := formatter.Failure(diags[0].Code, diags[0].Message, result); err != nil {
				return err
			}
		} else {
			printDiagnostics(formatter, "✗ Validation failed", diags)
		}
		// Validation failures = exit code 1
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d finding(s)", len(diags)))
	}

	if opts.Format == "json" {
		return formatter.Success(result)
	}
	if len(diags) > 0 {
		printDiagnostics(formatter, fmt.Sprintf("✓ Rules valid (%d rule(s), %d warning(s))", result.Rules, len(diags)), diags)
		return nil
	}
	fmt.Fprintf(formatter.Writer, "✓ Rules valid (%d rule(s))\n", result.Rules)
	return nil
}
