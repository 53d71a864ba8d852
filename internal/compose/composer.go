package compose

import (
	"context"
	"log/slog"
	"sync"
	"unicode/utf8"

	"github.com/roach88/byakoron/internal/translit"
)

// ActionKind classifies a keyboard action.
type ActionKind int

const (
	ActionChar      ActionKind = iota // a character key
	ActionSpace                       // the space bar
	ActionCommit                      // convert the pending word without a space
	ActionBackspace                   // delete one character
	ActionOther                       // newline, emoji, cursor moves and the rest
)

func (k ActionKind) String() string {
	switch k {
	case ActionChar:
		return "char"
	case ActionSpace:
		return "space"
	case ActionCommit:
		return "commit"
	case ActionBackspace:
		return "backspace"
	case ActionOther:
		return "other"
	default:
		return "unknown"
	}
}

// Action is one keyboard event. Char is set for ActionChar; Text is what an
// ActionOther inserts, if anything.
type Action struct {
	Kind ActionKind
	Char rune
	Text string
}

// Char returns a character action.
func Char(r rune) Action { return Action{Kind: ActionChar, Char: r} }

// Space returns a space action.
func Space() Action { return Action{Kind: ActionSpace} }

// Commit returns a commit action.
func Commit() Action { return Action{Kind: ActionCommit} }

// Backspace returns a backspace action.
func Backspace() Action { return Action{Kind: ActionBackspace} }

// Other returns an action that inserts text and abandons the pending word.
func Other(text string) Action { return Action{Kind: ActionOther, Text: text} }

// Edit deletes Delete runes before the cursor, then inserts Insert.
type Edit struct {
	Delete int    `json:"delete,omitempty"`
	Insert string `json:"insert,omitempty"`
}

// Converter is the transliteration surface the composer needs. Both
// *translit.Transliterator and *translit.Holder satisfy it.
type Converter interface {
	TransliterateID(text, id string) translit.Result
}

// Journal records committed words.
type Journal interface {
	Record(ctx context.Context, mode, input, output string) error
}

// Composer is safe for concurrent use, though actions from one keyboard
// are expected to arrive in order.
type Composer struct {
	mu      sync.Mutex
	conv    Converter
	mode    string
	pending []rune
	journal Journal
	logger  *slog.Logger
}

// Option configures a Composer.
type Option func(*Composer)

// WithMode sets the mode identifier used on commit. The default is "avro".
func WithMode(id string) Option {
	return func(c *Composer) { c.mode = id }
}

// WithJournal records every non-empty commit.
func WithJournal(j Journal) Option {
	return func(c *Composer) { c.journal = j }
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Composer) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New returns a composer converting with conv.
func New(conv Converter, opts ...Option) *Composer {
	c := &Composer{
		conv:   conv,
		mode:   "avro",
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Pending returns the word typed since the last commit.
func (c *Composer) Pending() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return string(c.pending)
}

// Handle applies one action and returns the edits the host should perform,
// in order.
func (c *Composer) Handle(ctx context.Context, a Action) []Edit {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch a.Kind {
	case ActionChar:
		c.pending = append(c.pending, a.Char)
		return []Edit{{Insert: string(a.Char)}}

	case ActionSpace:
		edits := c.commitLocked(ctx)
		return append(edits, Edit{Insert: " "})

	case ActionCommit:
		return c.commitLocked(ctx)

	case ActionBackspace:
		if len(c.pending) > 0 {
			c.pending = c.pending[:len(c.pending)-1]
		}
		return []Edit{{Delete: 1}}

	default:
		c.pending = c.pending[:0]
		if a.Text == "" {
			return nil
		}
		return []Edit{{Insert: a.Text}}
	}
}

// commitLocked replaces the pending word with its conversion.
func (c *Composer) commitLocked(ctx context.Context) []Edit {
	if len(c.pending) == 0 {
		return nil
	}
	input := string(c.pending)
	c.pending = c.pending[:0]

	res := c.conv.TransliterateID(input, c.mode)
	if res.Diagnostic != "" {
		c.logger.Debug("commit", "input", input, "diagnostic", res.Diagnostic)
	}

	if c.journal != nil {
		if err := c.journal.Record(ctx, res.Mode.String(), input, res.Text); err != nil {
			c.logger.Warn("journal commit failed", "error", err)
		}
	}

	return []Edit{{Delete: utf8.RuneCountInString(input), Insert: res.Text}}
}
