package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/byakoron/internal/translit"
)

// ConvertOptions holds flags for the convert command.
type ConvertOptions struct {
	*RootOptions
	Mode     string
	Database string
	Session  string
	NFC      bool
}

// ConvertResult is the JSON payload of the convert command.
type ConvertResult struct {
	Mode    string            `json:"mode"`
	Digest  string            `json:"digest"`
	Session string            `json:"session,omitempty"`
	Results []translit.Result `json:"results"`
}

// NewConvertCommand creates the convert command.
func NewConvertCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ConvertOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "convert [text...]",
		Short: "Transliterate text",
		Long: `Transliterate text in the selected mode.

Arguments are joined with spaces and converted as one text. Without
arguments each line of standard input is converted separately.

Modes:
  avro, forward    romanized Bengali to Bengali script
  orva, reverse    Bengali script to romanized Bengali
  banglish         not implemented (text is returned unchanged)
  lishbang         not implemented (text is returned unchanged)

Examples:
  byakoron convert ami bhalo achi
  byakoron convert --mode orva "আমার সোনার বাংলা"
  echo "amar sonar bangla" | byakoron convert --db ./journal.db`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(opts, args, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Mode, "mode", "m", "avro", "conversion mode")
	cmd.Flags().StringVar(&opts.Database, "db", "", "journal conversions to this SQLite database")
	cmd.Flags().StringVar(&opts.Session, "session", "", "journal session to resume (default: new session)")
	cmd.Flags().BoolVar(&opts.NFC, "nfc", false, "normalize reverse-mode input to NFC")

	return cmd
}

func runConvert(opts *ConvertOptions, args []string, cmd *cobra.Command) error {
	ctx := context.Background()
	formatter := opts.formatter(cmd)

	modeID, err := opts.modeFlag(cmd, opts.Mode)
	if err != nil {
		_ = formatter.Error(ErrCodeInvalidMode, err.Error(), nil)
		return err
	}

	table, err := opts.loadTable()
	if err != nil {
		return err
	}
	tr := translit.New(table, opts.translitOptions(opts.NFC)...)

	inputs, err := convertInputs(args, cmd)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read input", err)
	}

	dbPath := opts.Database
	if dbPath == "" {
		dbPath = opts.Settings().Journal
	}
	var j *journal
	if dbPath != "" {
		j, err = openJournal(ctx, dbPath, opts.Session, modeID, tr.Digest)
		if err != nil {
			return err
		}
		defer j.Close()
		formatter.VerboseLog("Journaling to %s (session %s)", dbPath, j.recorder.Session().ID)
	}

	result := ConvertResult{
		Mode:    modeID,
		Digest:  tr.Digest(),
		Results: make([]translit.Result, 0, len(inputs)),
	}
	if j != nil {
		result.Session = j.recorder.Session().ID
	}

	for _, in := range inputs {
		res := tr.TransliterateID(in, modeID)
		result.Results = append(result.Results, res)

		if !res.OK() {
			formatter.Warn("%s", res.Diagnostic)
			continue
		}
		if j != nil {
			if err := j.recorder.Record(ctx, res.Mode.String(), in, res.Text); err != nil {
				return WrapExitError(ExitCommandError, fmt.Sprintf("%s: failed to journal conversion", ErrCodeJournalFailed), err)
			}
		}
	}

	if opts.Format == "json" {
		return formatter.Success(result)
	}
	for _, res := range result.Results {
		fmt.Fprintln(formatter.Writer, res.Text)
	}
	return nil
}

// convertInputs returns the texts to convert: the joined arguments, or
// every line of stdin.
func convertInputs(args []string, cmd *cobra.Command) ([]string, error) {
	if len(args) > 0 {
		return []string{strings.Join(args, " ")}, nil
	}

	var lines []string
	scanner := bufio.NewScanner(cmd.InOrStdin())
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}
