package validators

import (
	"fmt"
	"sort"
	"sync"

	"github.com/custodia-labs/vocab-validator/internal/core/domain"
	"github.com/custodia-labs/vocab-validator/internal/core/ports/driven"
	"github.com/custodia-labs/vocab-validator/internal/core/ports/driving"
)

// Registry maps configured validator names to implementations.
type Registry struct {
	mu         sync.RWMutex
	validators map[string]NodeValidator
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{validators: make(map[string]NodeValidator)}
}

// NewDefaultRegistry registers the built-in validators. engine may be nil,
// in which case CodeSystemCodeValidator is not available.
func NewDefaultRegistry(repo driven.ValueSetRepository, engine driving.ValidationEngine) *Registry {
	r := NewRegistry()
	r.Register(NewValuesetCodeValidator(repo))
	r.Register(NewUnitValidator(repo))
	r.Register(NewLanguageCodeValidator(repo))
	if engine != nil {
		r.Register(NewCodeSystemCodeValidator(engine))
	}
	return r
}

// Register adds a validator under its own name, replacing any previous one.
func (r *Registry) Register(v NodeValidator) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.validators[v.Name()] = v
}

// Get returns the validator for name.
func (r *Registry) Get(name string) (NodeValidator, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.validators[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownValidator, name)
	}
	return v, nil
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.validators))
	for name := range r.validators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
