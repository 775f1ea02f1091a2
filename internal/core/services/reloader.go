package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/custodia-labs/vocab-validator/internal/core/domain"
	"github.com/custodia-labs/vocab-validator/internal/core/ports/driving"
	"github.com/custodia-labs/vocab-validator/internal/logger"
)

// Ensure VocabularyReloader implements the interface.
var _ driving.Reloader = (*VocabularyReloader)(nil)

// ReloadStatus describes the outcome of the most recent reload.
type ReloadStatus struct {
	Generation  string
	CodeSystems int
	Records     int
	StartedAt   time.Time
	EndedAt     time.Time
	Success     bool
	Error       string
}

// VocabularyReloader runs build-then-swap cycles against a VocabularyStore.
// The source root is fixed at construction and reused by every reload.
type VocabularyReloader struct {
	store   *VocabularyStore
	builder *DatasetBuilder
	root    string

	mu   sync.RWMutex
	last *ReloadStatus
}

// NewVocabularyReloader creates a reloader for the given source root.
func NewVocabularyReloader(store *VocabularyStore, builder *DatasetBuilder, root string) *VocabularyReloader {
	return &VocabularyReloader{
		store:   store,
		builder: builder,
		root:    root,
	}
}

// Reload builds a new dataset from the source root and publishes it.
// Returns ErrReloadInProgress when another reload holds the store's lock.
// Any build failure leaves the active dataset untouched.
func (r *VocabularyReloader) Reload(ctx context.Context) error {
	handle, err := r.store.BeginReload()
	if err != nil {
		return err
	}
	defer r.store.Abort(handle) // no-op after a successful CommitSwap

	status := &ReloadStatus{StartedAt: time.Now()}
	defer r.setStatus(status)

	logger.Info("Loading vocabularies at %s", r.root)

	dataset, err := r.builder.Build(ctx, r.root)
	if err != nil {
		return r.fail(status, fmt.Errorf("build dataset: %w", err))
	}
	if err := r.store.Build(handle, dataset); err != nil {
		return r.fail(status, fmt.Errorf("stage dataset: %w", err))
	}
	if err := r.store.CommitSwap(handle); err != nil {
		return r.fail(status, fmt.Errorf("swap dataset: %w", err))
	}

	status.EndedAt = time.Now()
	status.Success = true
	status.Generation = dataset.Generation
	status.CodeSystems = len(dataset.Definitions)
	status.Records = dataset.RecordCount()

	logger.Info("Activated vocabulary generation %s (%d code systems, %d records) in %s",
		status.Generation, status.CodeSystems, status.Records, status.EndedAt.Sub(status.StartedAt))
	return nil
}

// Status returns the outcome of the most recent reload, or nil if none has run.
func (r *VocabularyReloader) Status() *ReloadStatus {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.last == nil {
		return nil
	}
	s := *r.last
	return &s
}

func (r *VocabularyReloader) fail(status *ReloadStatus, err error) error {
	status.EndedAt = time.Now()
	status.Error = err.Error()
	logger.Error("Failed to load vocabulary directory %s: %v", r.root, err)
	return err
}

func (r *VocabularyReloader) setStatus(status *ReloadStatus) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.last = status
}

// IsReloadInProgress reports whether err came from a concurrent reload.
func IsReloadInProgress(err error) bool {
	return errors.Is(err, domain.ErrReloadInProgress)
}
