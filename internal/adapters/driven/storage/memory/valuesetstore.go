package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/vocab-validator/internal/core/domain"
	"github.com/custodia-labs/vocab-validator/internal/core/ports/driven"
)

// Ensure ValueSetStore implements the interface.
var _ driven.ValueSetStore = (*ValueSetStore)(nil)

// ValueSetStore is an in-memory implementation of driven.ValueSetStore.
// Concepts are indexed by OID and then by uppercase code.
type ValueSetStore struct {
	mu        sync.RWMutex
	valuesets map[string]map[string]domain.ValueSetConcept
}

// NewValueSetStore creates a new in-memory value set store.
func NewValueSetStore() *ValueSetStore {
	return &ValueSetStore{
		valuesets: make(map[string]map[string]domain.ValueSetConcept),
	}
}

// ValuesetOIDsExist returns true if at least one of the OIDs is loaded.
func (s *ValueSetStore) ValuesetOIDsExist(_ context.Context, oids []string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, oid := range oids {
		if _, ok := s.valuesets[oid]; ok {
			return true, nil
		}
	}
	return false, nil
}

// CodeExistsInValueset returns true if the code belongs to any of the value sets.
func (s *ValueSetStore) CodeExistsInValueset(_ context.Context, code string, oids []string) (bool, error) {
	key := domain.NormalizeKey(code)
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, oid := range oids {
		if _, ok := s.valuesets[oid][key]; ok {
			return true, nil
		}
	}
	return false, nil
}

// ReplaceAll swaps in a new set of concepts.
func (s *ValueSetStore) ReplaceAll(_ context.Context, concepts []domain.ValueSetConcept) error {
	next := make(map[string]map[string]domain.ValueSetConcept)
	for _, c := range concepts {
		codes, ok := next[c.ValuesetOID]
		if !ok {
			codes = make(map[string]domain.ValueSetConcept)
			next[c.ValuesetOID] = codes
		}
		c.Code = domain.NormalizeKey(c.Code)
		codes[c.Code] = c
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.valuesets = next
	return nil
}

// CountValuesets returns the number of loaded value sets.
func (s *ValueSetStore) CountValuesets(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.valuesets), nil
}

// Add inserts concepts without removing existing ones.
func (s *ValueSetStore) Add(concepts ...domain.ValueSetConcept) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range concepts {
		codes, ok := s.valuesets[c.ValuesetOID]
		if !ok {
			codes = make(map[string]domain.ValueSetConcept)
			s.valuesets[c.ValuesetOID] = codes
		}
		c.Code = domain.NormalizeKey(c.Code)
		codes[c.Code] = c
	}
}
