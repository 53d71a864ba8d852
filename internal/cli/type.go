package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"unicode"

	"github.com/spf13/cobra"

	"github.com/roach88/byakoron/internal/compose"
	"github.com/roach88/byakoron/internal/rules"
	"github.com/roach88/byakoron/internal/translit"
)

// TypeOptions holds flags for the type command.
type TypeOptions struct {
	*RootOptions
	Mode     string
	Database string
	Session  string
	Watch    bool
}

// TypeResult is the JSON payload of the type command.
type TypeResult struct {
	Text    string `json:"text"`
	Session string `json:"session,omitempty"`
}

// NewTypeCommand creates the type command.
func NewTypeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TypeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "type",
		Short: "Feed keystrokes through the composer",
		Long: `Read standard input as a stream of keystrokes and print the resulting text.

Letters, digits and punctuation are buffered into a word. A space commits
the word, a newline commits and starts a new line, and backspace (0x08 or
0x7f) deletes one character. Any other key is passed through and drops the
pending word unconverted. The pending word is committed at end of input.

With --watch the rule file given by --rules is reloaded when it changes.

Examples:
  printf 'ami bhalo achi\n' | byakoron type
  byakoron type --db ./journal.db --rules ./my-rules.yaml --watch`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runType(opts, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Mode, "mode", "m", "avro", "conversion mode")
	cmd.Flags().StringVar(&opts.Database, "db", "", "journal committed words to this SQLite database")
	cmd.Flags().StringVar(&opts.Session, "session", "", "journal session to resume (default: new session)")
	cmd.Flags().BoolVar(&opts.Watch, "watch", false, "reload the rule file when it changes")

	return cmd
}

func runType(opts *TypeOptions, cmd *cobra.Command) error {
	ctx := context.Background()
	formatter := opts.formatter(cmd)
	logger := opts.Logger()

	modeID, err := opts.modeFlag(cmd, opts.Mode)
	if err != nil {
		_ = formatter.Error(ErrCodeInvalidMode, err.Error(), nil)
		return err
	}

	holder, stop, err := opts.converter()
	if err != nil {
		return err
	}
	defer stop()

	composerOpts := []compose.Option{compose.WithMode(modeID), compose.WithLogger(logger)}

	dbPath := opts.Database
	if dbPath == "" {
		dbPath = opts.Settings().Journal
	}
	var j *journal
	if dbPath != "" {
		digest := func() string { return holder.Load().Digest() }
		j, err = openJournal(ctx, dbPath, opts.Session, modeID, digest)
		if err != nil {
			return err
		}
		defer j.Close()
		composerOpts = append(composerOpts, compose.WithJournal(j.recorder))
	}

	composer := compose.New(holder, composerOpts...)
	var doc compose.Document

	reader := bufio.NewReader(cmd.InOrStdin())
	for {
		r, _, err := reader.ReadRune()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to read keystrokes", err)
		}
		for _, a := range keyActions(r) {
			doc.Apply(composer.Handle(ctx, a)...)
		}
	}
	doc.Apply(composer.Handle(ctx, compose.Commit())...)

	result := TypeResult{Text: doc.String()}
	if j != nil {
		result.Session = j.recorder.Session().ID
	}
	if opts.Format == "json" {
		return formatter.Success(result)
	}
	fmt.Fprint(formatter.Writer, result.Text)
	return nil
}

// converter builds the transliterator holder. With --watch it follows the
// rule file; stop releases the watcher.
func (opts *TypeOptions) converter() (*translit.Holder, func(), error) {
	trOpts := opts.translitOptions(false)

	if !opts.Watch {
		table, err := opts.loadTable()
		if err != nil {
			return nil, nil, err
		}
		return translit.NewHolder(table, trOpts...), func() {}, nil
	}

	path := opts.Settings().Rules
	if path == "" {
		return nil, nil, NewExitError(ExitCommandError, "--watch requires a rule file (--rules or the rules config key)")
	}
	w, err := rules.NewWatcher(path, opts.Logger())
	if err != nil {
		return nil, nil, WrapExitError(ExitCommandError, fmt.Sprintf("%s: failed to load rules", ErrCodeNotFound), err)
	}
	holder := translit.NewHolder(w.Table(), trOpts...)
	w.OnChange(holder.Swap)
	if err := w.Start(); err != nil {
		w.Close()
		return nil, nil, WrapExitError(ExitCommandError, "failed to watch rule file", err)
	}

	done := make(chan struct{})
	go func() {
		for {
			select {
			case err := <-w.Errors():
				opts.Logger().Warn("rule reload failed", "path", path, "error", err)
			case <-done:
				return
			}
		}
	}()

	return holder, func() {
		close(done)
		w.Close()
	}, nil
}

// keyActions maps one input rune to composer actions.
func keyActions(r rune) []compose.Action {
	switch {
	case r == ' ':
		return []compose.Action{compose.Space()}
	case r == '\n':
		return []compose.Action{compose.Commit(), compose.Other("\n")}
	case r == '\r':
		return nil
	case r == '\b' || r == 0x7f:
		return []compose.Action{compose.Backspace()}
	case r < unicode.MaxASCII && unicode.IsPrint(r):
		return []compose.Action{compose.Char(r)}
	default:
		return []compose.Action{compose.Other(string(r))}
	}
}
