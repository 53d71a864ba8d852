package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/byakoron/internal/rules"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	Output string // output file path
}

// CompilationResult summarizes a compiled rule table.
type CompilationResult struct {
	Rules       int                `json:"rules"`
	Elision     string             `json:"elision"`
	Digest      string             `json:"digest"`
	Output      string             `json:"output,omitempty"`
	Diagnostics []rules.Diagnostic `json:"diagnostics,omitempty"`
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile <rules-file>",
		Short: "Compile a rule document to canonical JSON",
		Long: `Compile a YAML or CUE rule document to canonical JSON.

The canonical form is what the table digest is computed over, so two
documents that compile to the same JSON share a digest. Without --output
the JSON is written to stdout; with --output a summary is printed instead.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors - we handle our own error output
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file path")

	return cmd
}

func runCompile(opts *CompileOptions, path string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	table, diags, err := rules.LoadFile(path)
	if err != nil {
		return outputCompileError(formatter, loadErrorCode(err), err.Error())
	}
	formatter.VerboseLog("Loaded %d rule(s) from %s", table.Len(), path)

	if rules.HasErrors(diags) {
		_ = formatter.Failure(ErrCodeRulesInvalid, fmt.Sprintf("%d diagnostic(s)", len(diags)), CompilationResult{Diagnostics: diags})
		if opts.Format != "json" {
			printDiagnostics(formatter, "✗ Compilation failed", diags)
		}
		return NewExitError(ExitFailure, fmt.Sprintf("compilation failed with %d diagnostic(s)", len(diags)))
	}
	for _, d := range diags {
		formatter.VerboseLog("%s", d.Error())
	}

	data, err := table.MarshalJSON()
	if err != nil {
		return outputCompileError(formatter, ErrCodeGeneric, fmt.Sprintf("encoding table: %v", err))
	}

	result := CompilationResult{
		Rules:       table.Len(),
		Elision:     table.Elision(),
		Digest:      table.Digest(),
		Output:      opts.Output,
		Diagnostics: diags,
	}

	if opts.Output != "" {
		if err := os.WriteFile(opts.Output, append(data, '\n'), 0644); err != nil {
			return outputCompileError(formatter, ErrCodeWriteFailed, fmt.Sprintf("writing output file: %v", err))
		}
		if opts.Format == "json" {
			return formatter.Success(result)
		}
		fmt.Fprintf(formatter.Writer, "✓ Compiled %d rule(s) to %s\n", result.Rules, opts.Output)
		fmt.Fprintf(formatter.Writer, "  digest: %s\n", result.Digest)
		return nil
	}

	// Without --output the canonical document itself is the output in
	// both formats.
	fmt.Fprintln(formatter.Writer, string(data))
	formatter.VerboseLog("digest: %s", result.Digest)
	return nil
}

// outputCompileError outputs a single compile error.
func outputCompileError(formatter *OutputFormatter, code, message string) error {
	_ = formatter.Error(code, message, nil)
	// Unreadable input is a command-level error (exit code 2)
	return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message))
}

// loadErrorCode maps a rules.LoadError to a CLI error code.
func loadErrorCode(err error) string {
	var le *rules.LoadError
	if errors.As(err, &le) {
		if le.Code == rules.ErrDocumentRead {
			return ErrCodeNotFound
		}
		return le.Code
	}
	return ErrCodeGeneric
}

// printDiagnostics writes a header and one block per diagnostic.
func printDiagnostics(formatter *OutputFormatter, header string, diags []rules.Diagnostic) {
	fmt.Fprintln(formatter.Writer, header)
	fmt.Fprintln(formatter.Writer)
	for _, d := range diags {
		if d.Index >= 0 {
			fmt.Fprintf(formatter.Writer, "rules[%d]\n", d.Index)
		}
		fmt.Fprintf(formatter.Writer, "  %s (%s): %s\n\n", d.Code, d.Severity, d.Message)
	}
}
