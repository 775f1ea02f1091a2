package services

import (
	"slices"
	"sync"
	"sync/atomic"

	"github.com/custodia-labs/vocab-validator/internal/core/domain"
)

// VocabularyStore owns the active and inactive dataset slots.
//
// Readers load the active slot once per query and never lock. The reload
// path stages a complete dataset in the inactive slot and publishes it with
// a single atomic pointer store, so a reader sees either the old or the new
// generation, never a mix.
type VocabularyStore struct {
	active   atomic.Pointer[domain.VocabularyDataset]
	inactive *domain.VocabularyDataset // guarded by reloadMu

	reloadMu sync.Mutex
}

// ReloadHandle grants the exclusive right to stage and publish one dataset.
// A handle is finished by exactly one CommitSwap or Abort.
type ReloadHandle struct {
	store    *VocabularyStore
	finished bool
	staged   bool
}

// NewVocabularyStore creates a store whose active slot holds an empty dataset.
func NewVocabularyStore() *VocabularyStore {
	s := &VocabularyStore{}
	s.active.Store(domain.NewVocabularyDataset(""))
	return s
}

// Active returns the current dataset snapshot. It is never nil.
func (s *VocabularyStore) Active() *domain.VocabularyDataset {
	return s.active.Load()
}

// Generation returns the generation ID of the active dataset.
func (s *VocabularyStore) Generation() string {
	return s.active.Load().Generation
}

// Query returns the records for a code in the active dataset.
// Returns an empty slice if the code system or code is absent.
func (s *VocabularyStore) Query(codeSystemID, code string) []domain.CodeModel {
	def := s.active.Load().Definition(codeSystemID)
	return cloneRecords(def.ByCode(code))
}

// QueryByDisplayName returns the records with a display name in the active dataset.
// Returns an empty slice if the code system or display name is absent.
func (s *VocabularyStore) QueryByDisplayName(codeSystemID, displayName string) []domain.CodeModel {
	def := s.active.Load().Definition(codeSystemID)
	return cloneRecords(def.ByDisplayName(displayName))
}

// IsLoaded reports whether the active dataset contains a code system.
func (s *VocabularyStore) IsLoaded(codeSystemID string) bool {
	return s.active.Load().Definition(codeSystemID) != nil
}

// BeginReload acquires the reload lock.
// Returns ErrReloadInProgress if another reload holds it.
func (s *VocabularyStore) BeginReload() (*ReloadHandle, error) {
	if !s.reloadMu.TryLock() {
		return nil, domain.ErrReloadInProgress
	}
	return &ReloadHandle{store: s}, nil
}

// Build stages a fully constructed dataset in the inactive slot.
// It may be called more than once before CommitSwap; the last call wins.
func (s *VocabularyStore) Build(h *ReloadHandle, dataset *domain.VocabularyDataset) error {
	if err := s.checkHandle(h); err != nil {
		return err
	}
	if dataset == nil {
		return domain.ErrEmptyDataset
	}
	s.inactive = dataset
	h.staged = true
	return nil
}

// CommitSwap publishes the staged dataset and releases the reload lock.
// The previously active dataset becomes the inactive one.
func (s *VocabularyStore) CommitSwap(h *ReloadHandle) error {
	if err := s.checkHandle(h); err != nil {
		return err
	}
	if !h.staged {
		return domain.ErrEmptyDataset
	}

	previous := s.active.Swap(s.inactive)
	s.inactive = previous

	h.finished = true
	s.reloadMu.Unlock()
	return nil
}

// Abort releases the reload lock without publishing anything.
// Calling Abort on a finished handle is a no-op.
func (s *VocabularyStore) Abort(h *ReloadHandle) {
	if s.checkHandle(h) != nil {
		return
	}
	h.finished = true
	s.reloadMu.Unlock()
}

func (s *VocabularyStore) checkHandle(h *ReloadHandle) error {
	if h == nil || h.store != s || h.finished {
		return domain.ErrInvalidHandle
	}
	return nil
}

func cloneRecords(records []domain.CodeModel) []domain.CodeModel {
	if len(records) == 0 {
		return []domain.CodeModel{}
	}
	return slices.Clone(records)
}
