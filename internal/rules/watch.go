package rules

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long the watcher waits after the last write before
// reloading, so editors that write in several steps trigger one reload.
const DefaultDebounce = 100 * time.Millisecond

// Watcher keeps the table loaded from a rule file current. Every reload
// publishes a new table; tables handed out earlier are never modified.
type Watcher struct {
	path     string
	debounce time.Duration
	logger   *slog.Logger
	current  atomic.Pointer[Table]

	mu       sync.Mutex
	onChange []func(*Table)

	watcher *fsnotify.Watcher
	ctx     context.Context
	cancel  context.CancelFunc
	errChan chan error
}

// NewWatcher loads path and returns a watcher serving that table. Call
// Start to begin following changes.
func NewWatcher(path string, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{
		path:     path,
		debounce: DefaultDebounce,
		logger:   logger,
		ctx:      ctx,
		cancel:   cancel,
		errChan:  make(chan error, 1),
	}
	if err := w.Reload(); err != nil {
		cancel()
		return nil, err
	}
	return w, nil
}

// Table returns the most recently loaded table.
func (w *Watcher) Table() *Table {
	return w.current.Load()
}

// OnChange registers a callback invoked with each newly loaded table.
func (w *Watcher) OnChange(cb func(*Table)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChange = append(w.onChange, cb)
}

// Errors returns a channel for reload failures. A failed reload keeps the
// previous table in service.
func (w *Watcher) Errors() <-chan error {
	return w.errChan
}

// Start watches the directory holding the rule file. Watching the directory
// rather than the file survives editors that replace the file on save.
func (w *Watcher) Start() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(w.path)); err != nil {
		watcher.Close()
		return fmt.Errorf("watch directory: %w", err)
	}
	w.watcher = watcher

	go w.watchLoop()
	return nil
}

func (w *Watcher) watchLoop() {
	var timer *time.Timer
	base := filepath.Base(w.path)

	for {
		select {
		case <-w.ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != base {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.debounce, func() {
				if w.ctx.Err() != nil {
					return
				}
				if err := w.Reload(); err != nil {
					w.report(err)
				}
			})

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.report(err)
		}
	}
}

// Reload reads the rule file now and publishes the result.
func (w *Watcher) Reload() error {
	table, diags, err := LoadFile(w.path)
	if err != nil {
		w.logger.Warn("rule table reload failed", "path", w.path, "error", err)
		return err
	}
	for _, d := range diags {
		w.logger.Warn("rule entry", "path", w.path, "code", d.Code, "index", d.Index, "message", d.Message)
	}

	old := w.current.Swap(table)
	if old != nil {
		w.logger.Info("rule table reloaded", "path", w.path, "rules", table.Len(), "digest", table.Digest()[:12])
	}

	w.mu.Lock()
	callbacks := append(([]func(*Table))(nil), w.onChange...)
	w.mu.Unlock()
	for _, cb := range callbacks {
		cb(table)
	}
	return nil
}

func (w *Watcher) report(err error) {
	select {
	case w.errChan <- err:
	default:
	}
}

// Close stops watching. The last loaded table stays available.
func (w *Watcher) Close() error {
	w.cancel()
	if w.watcher != nil {
		return w.watcher.Close()
	}
	return nil
}
