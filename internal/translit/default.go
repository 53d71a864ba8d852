package translit

import (
	"sync"
	"sync/atomic"

	"github.com/roach88/byakoron/internal/rules"
)

var (
	defaultOnce sync.Once
	defaultT    *Transliterator
)

// Default returns a transliterator over the built-in table.
func Default() *Transliterator {
	defaultOnce.Do(func() {
		defaultT = New(rules.Default())
	})
	return defaultT
}

// Transliterate converts text with the built-in table. It never fails:
// unknown and unimplemented modes return text unchanged.
func Transliterate(text, modeID string) string {
	return Default().TransliterateID(text, modeID).Text
}

// Holder serves the current transliterator and lets a new table be swapped
// in while conversions are running. Calls in flight keep the transliterator
// they started with.
type Holder struct {
	current atomic.Pointer[Transliterator]
	opts    []Option
}

// NewHolder builds a transliterator for table with opts. The same options
// are applied to every table passed to Swap.
func NewHolder(table *rules.Table, opts ...Option) *Holder {
	h := &Holder{opts: opts}
	h.current.Store(New(table, opts...))
	return h
}

// Load returns the current transliterator.
func (h *Holder) Load() *Transliterator {
	return h.current.Load()
}

// Swap replaces the current table. It has the signature of a rules.Watcher
// change callback.
func (h *Holder) Swap(table *rules.Table) {
	h.current.Store(New(table, h.opts...))
}

// TransliterateID converts text with the current transliterator.
func (h *Holder) TransliterateID(text, id string) Result {
	return h.Load().TransliterateID(text, id)
}
