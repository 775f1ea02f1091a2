package services

import (
	"context"
	"sync"

	"github.com/custodia-labs/vocab-validator/internal/core/ports/driving"
	"github.com/custodia-labs/vocab-validator/internal/logger"
)

// Initializer performs the first vocabulary load in the background and
// starts the watcher only after that load commits.
type Initializer struct {
	reloader driving.Reloader
	watcher  driving.Watcher

	mu      sync.Mutex
	running bool
	done    chan struct{}
	err     error
}

// NewInitializer creates an initializer. watcher may be nil to disable change detection.
func NewInitializer(reloader driving.Reloader, watcher driving.Watcher) *Initializer {
	return &Initializer{
		reloader: reloader,
		watcher:  watcher,
	}
}

// Start kicks off the initial load and returns immediately.
// The returned channel is closed once the load finished and, on success,
// the watcher is running. Calling Start again returns the same channel.
func (i *Initializer) Start(ctx context.Context) <-chan struct{} {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.running {
		return i.done
	}
	i.running = true
	i.done = make(chan struct{})

	go func() {
		defer close(i.done)
		err := i.run(ctx)
		i.mu.Lock()
		i.err = err
		i.mu.Unlock()
	}()
	return i.done
}

// Err returns the error of the initial load or watcher start, if any.
// It is only meaningful after the channel returned by Start is closed.
func (i *Initializer) Err() error {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.err
}

// Stop shuts the watcher down.
func (i *Initializer) Stop() error {
	if i.watcher == nil {
		return nil
	}
	return i.watcher.Stop()
}

func (i *Initializer) run(ctx context.Context) error {
	if err := i.reloader.Reload(ctx); err != nil {
		return err
	}
	if i.watcher == nil {
		return nil
	}

	logger.Info("Starting vocabulary watcher")
	if err := i.watcher.Start(ctx); err != nil {
		logger.Error("Failed to start vocabulary watcher: %v", err)
		return err
	}
	return nil
}
