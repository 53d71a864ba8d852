package translit

import (
	"fmt"
	"log/slog"
	"sync"

	lru "github.com/hashicorp/golang-lru"
	"golang.org/x/text/unicode/norm"

	"github.com/roach88/byakoron/internal/engine"
	"github.com/roach88/byakoron/internal/rules"
)

// Result is the outcome of one conversion.
type Result struct {
	Text       string `json:"text"`
	Mode       Mode   `json:"mode"`
	Diagnostic string `json:"diagnostic,omitempty"`
}

// OK reports whether the text was actually converted.
func (r Result) OK() bool {
	return r.Diagnostic == ""
}

// Transliterator converts text with one rule table. It is safe for
// concurrent use.
type Transliterator struct {
	table   *rules.Table
	digest  string
	forward *engine.Forward

	reverseOnce sync.Once
	reverse     *engine.Reverse

	logger *slog.Logger
	cache  *lru.Cache
	nfc    bool
}

// Option configures a Transliterator.
type Option func(*Transliterator)

// WithLogger sets the logger for diagnostics. The default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(t *Transliterator) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// WithCache memoizes up to size recent results. A size of zero or less
// disables the cache.
func WithCache(size int) Option {
	return func(t *Transliterator) {
		if size <= 0 {
			t.cache = nil
			return
		}
		c, err := lru.New(size)
		if err != nil {
			return
		}
		t.cache = c
	}
}

// WithNFC normalizes reverse-mode input to NFC first. Precomposed letters
// such as U+09DC decompose under NFC, which matches how the table spells
// them.
func WithNFC() Option {
	return func(t *Transliterator) {
		t.nfc = true
	}
}

// New compiles a transliterator for table. The reverse table is built on
// first reverse-mode use.
func New(table *rules.Table, opts ...Option) *Transliterator {
	t := &Transliterator{
		table:   table,
		digest:  table.Digest(),
		forward: engine.NewForward(table),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Table returns the rule table behind t.
func (t *Transliterator) Table() *rules.Table {
	return t.table
}

// Digest returns the digest of the rule table behind t.
func (t *Transliterator) Digest() string {
	return t.digest
}

// ReverseEngine returns the reverse engine, building it on first use.
func (t *Transliterator) ReverseEngine() *engine.Reverse {
	t.reverseOnce.Do(func() {
		t.reverse = engine.NewReverse(t.table)
		t.logger.Debug("reverse table built", "rules", len(t.reverse.Rules()))
	})
	return t.reverse
}

// TransliterateID resolves id and converts text. Unknown identifiers return
// text unchanged with an "unsupported mode" diagnostic.
func (t *Transliterator) TransliterateID(text, id string) Result {
	mode, ok := ParseMode(id)
	if !ok {
		diag := fmt.Sprintf("unsupported mode %q", id)
		t.logger.Warn("transliterate", "mode", id, "diagnostic", diag)
		return Result{Text: text, Mode: ModeUnknown, Diagnostic: diag}
	}
	return t.Transliterate(text, mode)
}

// Transliterate converts text in the given mode.
func (t *Transliterator) Transliterate(text string, mode Mode) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			t.logger.Error("transliterate panic", "mode", mode.String(), "panic", r)
			res = Result{Text: text, Mode: mode, Diagnostic: fmt.Sprintf("internal error: %v", r)}
		}
	}()

	switch mode {
	case ModeForward, ModeReverse:
		return t.convert(text, mode)
	case ModeBanglish, ModeLishbang:
		diag := fmt.Sprintf("mode %q is not implemented", mode.String())
		t.logger.Warn("transliterate", "mode", mode.String(), "diagnostic", diag)
		return Result{Text: text, Mode: mode, Diagnostic: diag}
	default:
		diag := fmt.Sprintf("unsupported mode %q", mode.String())
		t.logger.Warn("transliterate", "mode", mode.String(), "diagnostic", diag)
		return Result{Text: text, Mode: mode, Diagnostic: diag}
	}
}

func (t *Transliterator) convert(text string, mode Mode) Result {
	key := mode.String() + "\x00" + text
	if t.cache != nil {
		if v, ok := t.cache.Get(key); ok {
			return v.(Result)
		}
	}

	var out string
	switch mode {
	case ModeForward:
		out = t.forward.Convert(engine.Normalize(text))
	case ModeReverse:
		in := text
		if t.nfc {
			in = norm.NFC.String(in)
		}
		var stats engine.Stats
		out, stats = t.ReverseEngine().ConvertStats(in)
		if stats.Truncated {
			t.logger.Warn("reverse scan truncated", "iterations", stats.Iterations, "ceiling", stats.Ceiling)
		}
	}

	res := Result{Text: out, Mode: mode}
	if t.cache != nil {
		t.cache.Add(key, res)
	}
	return res
}
