package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/byakoron/internal/engine"
	"github.com/roach88/byakoron/internal/rules"
)

// RulesOptions holds flags for the rules command.
type RulesOptions struct {
	*RootOptions
	Prefix  string
	Reverse bool
}

// RuleListing is the JSON payload of the rules command.
type RuleListing struct {
	Digest  string               `json:"digest"`
	Elision string               `json:"elision,omitempty"`
	Rules   []rules.Rule         `json:"rules,omitempty"`
	Reverse []engine.ReverseRule `json:"reverse,omitempty"`
}

// NewRulesCommand creates the rules command.
func NewRulesCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RulesOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List the active rule table",
		Long: `List the rule table selected by --rules (or the built-in table).

Rules are shown in scan order. With --reverse the derived reverse table is
listed instead, longest pattern first.

Examples:
  byakoron rules --prefix kh
  byakoron rules --reverse --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRules(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Prefix, "prefix", "", "only list rules whose pattern starts with this text")
	cmd.Flags().BoolVar(&opts.Reverse, "reverse", false, "list the reverse table")

	return cmd
}

func runRules(opts *RulesOptions, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	table, err := opts.loadTable()
	if err != nil {
		return err
	}

	listing := RuleListing{Digest: table.Digest()}
	if opts.Reverse {
		for _, r := range engine.BuildReverse(table) {
			if strings.HasPrefix(r.Find, opts.Prefix) {
				listing.Reverse = append(listing.Reverse, r)
			}
		}
	} else {
		listing.Elision = table.Elision()
		for _, r := range table.Rules() {
			if strings.HasPrefix(r.Find, opts.Prefix) {
				listing.Rules = append(listing.Rules, r)
			}
		}
	}

	if opts.Format == "json" {
		return formatter.Success(listing)
	}

	if opts.Reverse {
		rows := make([][]string, 0, len(listing.Reverse))
		for i, r := range listing.Reverse {
			rows = append(rows, []string{strconv.Itoa(i), escapeCell(r.Find), escapeCell(r.Replace)})
		}
		formatter.Table([]string{"#", "FIND", "REPLACE"}, rows)
		fmt.Fprintf(formatter.Writer, "%d reverse rule(s)\n", len(rows))
		return nil
	}

	rows := make([][]string, 0, len(listing.Rules))
	for i, r := range listing.Rules {
		rows = append(rows, []string{strconv.Itoa(i), escapeCell(r.Find), escapeCell(r.Replace), contextSummary(r)})
	}
	formatter.Table([]string{"#", "FIND", "REPLACE", "CONTEXT"}, rows)
	fmt.Fprintf(formatter.Writer, "%d rule(s), digest %s\n", len(rows), listing.Digest)
	return nil
}

// contextSummary renders a rule's conditional replacements, e.g.
// "prefix:!consonant => আ".
func contextSummary(r rules.Rule) string {
	if len(r.Context) == 0 {
		return "-"
	}
	parts := make([]string, 0, len(r.Context))
	for _, c := range r.Context {
		conds := make([]string, 0, len(c.Conditions))
		for _, cond := range c.Conditions {
			conds = append(conds, cond.String())
		}
		parts = append(parts, strings.Join(conds, " & ")+" => "+c.Replace)
	}
	return strings.ReplaceAll(strings.Join(parts, "; "), "|", "/")
}
