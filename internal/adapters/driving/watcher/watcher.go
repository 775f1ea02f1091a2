// Package watcher triggers vocabulary reloads when the source tree changes.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/vocab-validator/internal/core/domain"
	"github.com/custodia-labs/vocab-validator/internal/core/ports/driving"
	"github.com/custodia-labs/vocab-validator/internal/logger"
)

// Ensure Watcher implements the interface.
var _ driving.Watcher = (*Watcher)(nil)

// Options tune when reloads run.
type Options struct {
	// Recursive watches every subdirectory, including ones created later.
	Recursive bool

	// Debounce is the quiet period after the last event before a reload.
	Debounce time.Duration

	// MinInterval is the minimum time between reload starts. Zero disables throttling.
	MinInterval time.Duration
}

// minBusyRetry is the shortest wait before retrying a reload that found
// the reload lock taken.
const minBusyRetry = 250 * time.Millisecond

// Watcher observes a vocabulary root with fsnotify and asks a Reloader to
// rebuild the dataset. It never touches the store itself.
//
// Events are collapsed into a one-slot pending channel, so any number of
// events that arrive while a reload runs cause exactly one follow-up reload.
type Watcher struct {
	root     string
	reloader driving.Reloader
	opts     Options
	limiter  *rate.Limiter

	mu      sync.Mutex
	running bool
	closed  bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	fsw     *fsnotify.Watcher
	pending chan struct{}

	reloads atomic.Int64
}

// New creates a watcher for root.
func New(root string, reloader driving.Reloader, opts Options) *Watcher {
	limit := rate.Inf
	if opts.MinInterval > 0 {
		limit = rate.Every(opts.MinInterval)
	}
	return &Watcher{
		root:     root,
		reloader: reloader,
		opts:     opts,
		limiter:  rate.NewLimiter(limit, 1),
		pending:  make(chan struct{}, 1),
	}
}

// Start sets up the fsnotify watches and returns. Events are handled in
// background goroutines until Stop is called or ctx is done.
// A stopped watcher cannot be restarted.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return domain.ErrWatcherClosed
	}
	if w.running {
		return nil // Already running
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating file watcher: %w", err)
	}
	w.fsw = fsw

	if err := w.addTree(w.root); err != nil {
		fsw.Close()
		return err
	}

	runCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.running = true

	w.wg.Add(2)
	go w.eventLoop(runCtx)
	go w.reloadLoop(runCtx)

	logger.Debug("Watching %s (recursive=%t)", w.root, w.opts.Recursive)
	return nil
}

// Stop ends watching and waits for an in-flight reload to finish.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.closed = true
		w.mu.Unlock()
		return nil
	}
	w.running = false
	w.closed = true
	w.cancel()
	w.mu.Unlock()

	w.wg.Wait()
	return w.fsw.Close()
}

// Reloads returns how many reloads the watcher has triggered.
func (w *Watcher) Reloads() int64 {
	return w.reloads.Load()
}

// addTree watches dir and, when recursive, every non-hidden directory below it.
func (w *Watcher) addTree(dir string) error {
	if !w.opts.Recursive {
		if err := w.fsw.Add(dir); err != nil {
			return fmt.Errorf("watching %s: %w", dir, err)
		}
		return nil
	}

	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != w.root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			return fmt.Errorf("watching %s: %w", path, err)
		}
		return nil
	})
}

func (w *Watcher) eventLoop(ctx context.Context) {
	defer w.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			logger.Warn("File watcher error: %v", err)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !qualifies(event) || w.isHidden(event.Name) {
		return
	}

	if event.Has(fsnotify.Create) && w.opts.Recursive {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.addTree(event.Name); err != nil {
				logger.Warn("Failed to watch new directory %s: %v", event.Name, err)
			}
		}
	}

	logger.Debug("Vocabulary change detected: %s", event)
	w.request()
}

// request queues a reload unless one is already pending.
func (w *Watcher) request() {
	select {
	case w.pending <- struct{}{}:
	default:
	}
}

func (w *Watcher) reloadLoop(ctx context.Context) {
	defer w.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.pending:
		}

		if !w.debounce(ctx) {
			return
		}
		if err := w.limiter.Wait(ctx); err != nil {
			return
		}

		w.reloads.Add(1)
		// An in-flight reload is never cancelled; Stop waits for it.
		err := w.reloader.Reload(context.WithoutCancel(ctx))
		switch {
		case err == nil:
		case errors.Is(err, domain.ErrReloadInProgress):
			logger.Debug("Reload already in progress, retrying in %s", w.busyRetry())
			if !sleep(ctx, w.busyRetry()) {
				return
			}
			w.request()
		default:
			logger.Error("Vocabulary reload failed, keeping the active dataset: %v", err)
		}
	}
}

// busyRetry is how long to wait before retrying when another caller holds
// the reload lock. It is never shorter than minBusyRetry.
func (w *Watcher) busyRetry() time.Duration {
	return max(w.opts.Debounce, minBusyRetry)
}

// sleep waits for d. Returns false when ctx is done first.
func sleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

// debounce waits until no event arrived for the quiet period.
// Returns false when ctx is done.
func (w *Watcher) debounce(ctx context.Context) bool {
	if w.opts.Debounce <= 0 {
		return ctx.Err() == nil
	}

	timer := time.NewTimer(w.opts.Debounce)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return false
		case <-w.pending:
			timer.Reset(w.opts.Debounce)
		case <-timer.C:
			return true
		}
	}
}

// isHidden reports whether any path element below the root starts with a dot.
func (w *Watcher) isHidden(path string) bool {
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		return false
	}
	for _, part := range strings.Split(rel, string(filepath.Separator)) {
		if strings.HasPrefix(part, ".") && part != "." && part != ".." {
			return true
		}
	}
	return false
}

// qualifies drops attribute-only changes.
func qualifies(event fsnotify.Event) bool {
	return event.Has(fsnotify.Create) || event.Has(fsnotify.Write) ||
		event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)
}
