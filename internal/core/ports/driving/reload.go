package driving

import "context"

// Reloader rebuilds the whole vocabulary dataset and swaps it in.
type Reloader interface {
	// Reload runs one complete build-then-swap cycle.
	// On failure the active dataset is left untouched.
	Reload(ctx context.Context) error
}

// Watcher observes the vocabulary source tree and requests reloads.
type Watcher interface {
	// Start begins watching. It returns once watching is set up.
	Start(ctx context.Context) error

	// Stop ends watching and waits for an in-flight reload.
	Stop() error
}
