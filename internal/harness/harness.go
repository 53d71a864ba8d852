package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/roach88/byakoron/internal/engine"
	"github.com/roach88/byakoron/internal/rules"
	"github.com/roach88/byakoron/internal/store"
	"github.com/roach88/byakoron/internal/testutil"
	"github.com/roach88/byakoron/internal/translit"
)

// Harness is the test execution engine for one scenario.
type Harness struct {
	store    *store.Store
	tr       *translit.Transliterator
	recorder *store.Recorder
	logger   *slog.Logger
}

// Option configures Run.
type Option func(*runConfig)

type runConfig struct {
	logger *slog.Logger
}

// WithLogger routes per-case logging to logger. Logs are discarded by default.
func WithLogger(logger *slog.Logger) Option {
	return func(c *runConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Run executes a test scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database for isolation.
// Execution flow:
//  1. Load the rule table (scenario rules or the built-in table)
//  2. Open an in-memory journal and start a session
//  3. Convert each case, journaling clean conversions
//  4. Read the journal back into the result
//
// A returned error means the scenario could not run at all; case failures
// are reported through Result.Pass and Result.Errors.
func Run(scenario *Scenario, opts ...Option) (*Result, error) {
	cfg := runConfig{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(&cfg)
	}

	table, err := loadTable(scenario)
	if err != nil {
		return nil, err
	}

	trOpts := []translit.Option{translit.WithLogger(cfg.logger)}
	if scenario.NFC {
		trOpts = append(trOpts, translit.WithNFC())
	}
	tr := translit.New(table, trOpts...)

	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	ctx := context.Background()
	sess := store.Session{
		ID:            scenario.Name,
		Mode:          Case{}.ModeID(scenario),
		TableDigest:   tr.Digest(),
		EngineVersion: engine.Version,
	}
	rec, err := st.NewRecorder(ctx, sess, nil, testutil.NewSequenceGenerator(scenario.Name))
	if err != nil {
		return nil, fmt.Errorf("failed to start session: %w", err)
	}

	h := &Harness{
		store:    st,
		tr:       tr,
		recorder: rec,
		logger:   cfg.logger,
	}

	result := NewResult()
	result.Digest = tr.Digest()
	for i, c := range scenario.Cases {
		if err := h.runCase(ctx, scenario, i, c, result); err != nil {
			return nil, fmt.Errorf("case %d: %w", i, err)
		}
	}

	if err := h.readJournal(ctx, sess.ID, result); err != nil {
		return nil, err
	}
	return result, nil
}

func loadTable(scenario *Scenario) (*rules.Table, error) {
	if scenario.Rules == "" {
		return rules.Default(), nil
	}
	table, diags, err := rules.LoadFile(scenario.Rules)
	if err != nil {
		return nil, fmt.Errorf("failed to load rules: %w", err)
	}
	if rules.HasErrors(diags) {
		return nil, fmt.Errorf("rules %s: %d diagnostics, first: %s", scenario.Rules, len(diags), diags[0].Error())
	}
	return table, nil
}

// runCase converts one case, journals it and records the outcome.
func (h *Harness) runCase(ctx context.Context, scenario *Scenario, index int, c Case, result *Result) error {
	modeID := c.ModeID(scenario)
	res := h.tr.TransliterateID(c.Input, modeID)

	cr := CaseResult{
		Index:      index,
		Name:       c.Name,
		Mode:       modeID,
		Input:      c.Input,
		Expect:     *c.Expect,
		Actual:     res.Text,
		Diagnostic: res.Diagnostic,
	}

	var problems []string
	if res.Text != *c.Expect {
		problems = append(problems, fmt.Sprintf("expected %q, got %q", *c.Expect, res.Text))
	}
	switch {
	case c.Diagnostic == "" && !res.OK():
		problems = append(problems, fmt.Sprintf("unexpected diagnostic: %s", res.Diagnostic))
	case c.Diagnostic != "" && !strings.Contains(res.Diagnostic, c.Diagnostic):
		problems = append(problems, fmt.Sprintf("expected diagnostic containing %q, got %q", c.Diagnostic, res.Diagnostic))
	}
	cr.Pass = len(problems) == 0
	result.AddCase(cr)

	if !cr.Pass {
		result.AddError(fmt.Sprintf("%s: %s", caseLabel(index, c), strings.Join(problems, "; ")))
	}

	if res.OK() {
		if err := h.recorder.Record(ctx, res.Mode.String(), c.Input, res.Text); err != nil {
			return fmt.Errorf("failed to journal conversion: %w", err)
		}
	}

	h.logger.Info("case completed",
		"case", index,
		"mode", modeID,
		"pass", cr.Pass,
	)
	return nil
}

func (h *Harness) readJournal(ctx context.Context, sessionID string, result *Result) error {
	convs, err := h.store.ReadConversions(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("failed to read journal: %w", err)
	}
	for _, c := range convs {
		result.Journal = append(result.Journal, JournalEntry{
			Seq:    c.Seq,
			Mode:   c.Mode,
			Input:  c.Input,
			Output: c.Output,
		})
	}
	return nil
}

func caseLabel(index int, c Case) string {
	if c.Name != "" {
		return fmt.Sprintf("cases[%d] (%s)", index, c.Name)
	}
	return fmt.Sprintf("cases[%d] %q", index, c.Input)
}
