package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/byakoron/internal/store"
	"github.com/roach88/byakoron/internal/translit"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	Database string
	Session  string // optional - specific session only
	NFC      bool
}

// Drift is one journaled conversion whose replay differs.
type Drift struct {
	Seq      int64  `json:"seq"`
	Mode     string `json:"mode"`
	Input    string `json:"input"`
	Recorded string `json:"recorded"`
	Replayed string `json:"replayed"`
}

// ReplaySessionResult holds the replay result for a single session.
type ReplaySessionResult struct {
	Session     string  `json:"session"`
	Conversions int     `json:"conversions"`
	TableDigest string  `json:"table_digest"`
	SameTable   bool    `json:"same_table"`
	Drift       []Drift `json:"drift,omitempty"`
}

// ReplayResult holds the overall replay result.
type ReplayResult struct {
	Sessions      []ReplaySessionResult `json:"sessions"`
	TotalSessions int                   `json:"total_sessions"`
	Digest        string                `json:"digest"`
	NoDrift       bool                  `json:"no_drift"`
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Re-run journaled conversions and report drift",
		Long: `Re-run every journaled conversion with the current rule table and
report conversions whose output has changed.

Use it after editing a rule file to see which recorded words it affects.

Exit codes:
  0 - Every conversion replays identically
  1 - At least one conversion drifted
  2 - Command error (database not found, unknown session, etc.)

Examples:
  byakoron replay --db ./journal.db
  byakoron replay --db ./journal.db --session 0192f4c1-... --rules ./new.yaml
  byakoron replay --db ./journal.db --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.Session, "session", "", "replay specific session only")
	cmd.Flags().BoolVar(&opts.NFC, "nfc", false, "normalize reverse-mode input to NFC")

	return cmd
}

func runReplay(opts *ReplayOptions, cmd *cobra.Command) error {
	ctx := context.Background()

	table, err := opts.loadTable()
	if err != nil {
		return err
	}
	tr := translit.New(table, opts.translitOptions(opts.NFC)...)

	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	// Get sessions to process
	var sessionIDs []string
	if opts.Session != "" {
		if _, err := st.ReadSession(ctx, opts.Session); err != nil {
			if errors.Is(err, store.ErrSessionNotFound) {
				return NewExitError(ExitCommandError, fmt.Sprintf("session not found: %s", opts.Session))
			}
			return WrapExitError(ExitCommandError, "failed to read session", err)
		}
		sessionIDs = []string{opts.Session}
	} else {
		summaries, err := st.ListSessions(ctx)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to list sessions", err)
		}
		for _, s := range summaries {
			sessionIDs = append(sessionIDs, s.ID)
		}
	}

	result := ReplayResult{
		Sessions:      make([]ReplaySessionResult, 0, len(sessionIDs)),
		TotalSessions: len(sessionIDs),
		Digest:        tr.Digest(),
		NoDrift:       true,
	}

	if len(sessionIDs) == 0 {
		if opts.Format == "json" {
			return outputReplayJSON(cmd, result)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "No sessions found in database.")
		return nil
	}

	for _, id := range sessionIDs {
		sessResult, err := replaySession(ctx, st, tr, id)
		if err != nil {
			return WrapExitError(ExitCommandError, fmt.Sprintf("failed to replay session %s", id), err)
		}
		result.Sessions = append(result.Sessions, sessResult)
		if len(sessResult.Drift) > 0 {
			result.NoDrift = false
		}
	}

	if opts.Format == "json" {
		return outputReplayJSON(cmd, result)
	}
	return outputReplayText(cmd, result, opts.Verbose)
}

// replaySession re-runs every conversion of one session.
func replaySession(ctx context.Context, st *store.Store, tr *translit.Transliterator, sessionID string) (ReplaySessionResult, error) {
	sess, err := st.ReadSession(ctx, sessionID)
	if err != nil {
		return ReplaySessionResult{}, err
	}
	convs, err := st.ReadConversions(ctx, sessionID)
	if err != nil {
		return ReplaySessionResult{}, err
	}

	result := ReplaySessionResult{
		Session:     sessionID,
		Conversions: len(convs),
		TableDigest: sess.TableDigest,
		SameTable:   sess.TableDigest == tr.Digest(),
	}
	for _, c := range convs {
		res := tr.TransliterateID(c.Input, c.Mode)
		if res.Text != c.Output {
			result.Drift = append(result.Drift, Drift{
				Seq:      c.Seq,
				Mode:     c.Mode,
				Input:    c.Input,
				Recorded: c.Output,
				Replayed: res.Text,
			})
		}
	}
	return result, nil
}

// outputReplayJSON outputs the replay result as JSON.
func outputReplayJSON(cmd *cobra.Command, result ReplayResult) error {
	response := CLIResponse{
		Status: "ok",
		Data:   result,
	}

	if !result.NoDrift {
		response.Status = "error"
		response.Error = &CLIError{
			Code:    ErrCodeDrift,
			Message: "replay drift detected",
		}
	}

	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(response); err != nil {
		return err
	}

	if !result.NoDrift {
		// Drift = exit code 1
		return NewExitError(ExitFailure, "replay drift detected")
	}
	return nil
}

// outputReplayText outputs the replay result as text.
func outputReplayText(cmd *cobra.Command, result ReplayResult, verbose bool) error {
	w := cmd.OutOrStdout()

	fmt.Fprintf(w, "Replay Summary: %d session(s)\n", result.TotalSessions)
	fmt.Fprintln(w)

	for _, sess := range result.Sessions {
		status := "✓"
		if len(sess.Drift) > 0 {
			status = "✗"
		}

		fmt.Fprintf(w, "%s Session: %s\n", status, sess.Session)
		fmt.Fprintf(w, "  Conversions: %d\n", sess.Conversions)
		if verbose || !sess.SameTable {
			fmt.Fprintf(w, "  Recorded table: %s (current: %v)\n", shortDigest(sess.TableDigest), sess.SameTable)
		}

		for _, d := range sess.Drift {
			fmt.Fprintf(w, "  seq %d [%s] %q: %q -> %q\n", d.Seq, d.Mode, d.Input, d.Recorded, d.Replayed)
		}
		fmt.Fprintln(w)
	}

	if result.NoDrift {
		fmt.Fprintln(w, "✓ All conversions replay identically")
		return nil
	}

	fmt.Fprintln(w, "✗ Replay drift detected")
	// Drift = exit code 1
	return NewExitError(ExitFailure, "replay drift detected")
}

func shortDigest(d string) string {
	if len(d) > 12 {
		return d[:12]
	}
	return d
}
