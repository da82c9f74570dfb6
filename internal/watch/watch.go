// Package watch calls back when a single file changes on disk.
//
// The parent directory is watched rather than the file itself, so editors
// that save by renaming a temp file over the original are still seen.
// Bursts of events are coalesced into one callback.
package watch

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// DefaultDebounce is how long a file must be quiet before OnChange runs.
const DefaultDebounce = 100 * time.Millisecond

var errAlreadyStarted = errors.New("watcher already started")

// Watcher watches one file.
type Watcher struct {
	path     string
	onChange func()
	log      zerolog.Logger
	debounce time.Duration

	mu      sync.Mutex
	fsw     *fsnotify.Watcher
	timer   *time.Timer
	done    chan struct{}
	started bool
}

// New returns a Watcher that calls onChange after path is written, created
// or renamed into place.
func New(path string, onChange func(), log zerolog.Logger) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", path, err)
	}

	return &Watcher{
		path:     abs,
		onChange: onChange,
		log:      log,
		debounce: DefaultDebounce,
		done:     make(chan struct{}),
	}, nil
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string { return w.path }

// Start begins watching. It returns once the watch is registered; events are
// handled in the background until ctx is done or Close is called.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.started {
		return errAlreadyStarted
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}

	err = fsw.Add(filepath.Dir(w.path))
	if err != nil {
		_ = fsw.Close()

		return fmt.Errorf("watching %s: %w", filepath.Dir(w.path), err)
	}

	w.fsw = fsw
	w.started = true

	go w.loop(ctx)

	return nil
}

// Close stops watching. Pending callbacks are dropped.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.started {
		return nil
	}

	w.started = false

	if w.timer != nil {
		w.timer.Stop()
	}

	close(w.done)

	return w.fsw.Close()
}

func (w *Watcher) loop(ctx context.Context) {
	events, errs := w.fsw.Events, w.fsw.Errors

	for {
		select {
		case <-ctx.Done():
			_ = w.Close()

			return
		case <-w.done:
			return
		case ev, ok := <-events:
			if !ok {
				return
			}

			if filepath.Clean(ev.Name) != w.path {
				continue
			}

			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}

			w.log.Debug().Str("path", w.path).Str("op", ev.Op.String()).Msg("file changed")
			w.schedule()
		case err, ok := <-errs:
			if !ok {
				return
			}

			w.log.Warn().Err(err).Str("path", w.path).Msg("watch error")
		}
	}
}

func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.started {
		return
	}

	if w.timer != nil {
		w.timer.Stop()
	}

	w.timer = time.AfterFunc(w.debounce, w.onChange)
}
