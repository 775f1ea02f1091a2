package loaders

import (
	"sort"
	"sync"

	"github.com/custodia-labs/vocab-validator/internal/core/ports/driven"
	"github.com/custodia-labs/vocab-validator/internal/loaders/icd10"
	"github.com/custodia-labs/vocab-validator/internal/loaders/icd9"
	"github.com/custodia-labs/vocab-validator/internal/loaders/loinc"
	"github.com/custodia-labs/vocab-validator/internal/loaders/rxnorm"
	"github.com/custodia-labs/vocab-validator/internal/loaders/snomed"
)

// Ensure Registry implements the interface.
var _ driven.LoaderRegistry = (*Registry)(nil)

// Directory names of the built-in loaders.
const (
	DirSNOMEDCT = "SNOMED-CT"
	DirLOINC    = "LOINC"
	DirRxNorm   = "RXNORM"
	DirICD9CMDX = "ICD9CM_DX"
	DirICD9CMSG = "ICD9CM_SG"
	DirICD10CM  = "ICD10CM"
	DirICD10PCS = "ICD10PCS"
)

// Registry maps source directory names to loader factories.
// Directory names match exactly; the lookup is a pure map access.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]driven.LoaderFactory
}

// NewRegistry creates an empty loader registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]driven.LoaderFactory),
	}
}

// NewDefaultRegistry creates a registry with every built-in loader.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(DirSNOMEDCT, func() driven.Loader { return snomed.New() })
	r.Register(DirLOINC, func() driven.Loader { return loinc.New() })
	r.Register(DirRxNorm, func() driven.Loader { return rxnorm.New() })
	r.Register(DirICD9CMDX, func() driven.Loader { return icd9.NewDiagnosis() })
	r.Register(DirICD9CMSG, func() driven.Loader { return icd9.NewProcedure() })
	r.Register(DirICD10CM, func() driven.Loader { return icd10.NewCM() })
	r.Register(DirICD10PCS, func() driven.Loader { return icd10.NewPCS() })
	return r
}

// Register adds a loader factory for a directory name.
// Registering the same name again replaces the previous factory.
func (r *Registry) Register(directoryName string, factory driven.LoaderFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[directoryName] = factory
}

// Resolve returns a new loader for the directory name.
func (r *Registry) Resolve(directoryName string) (driven.Loader, bool) {
	r.mu.RLock()
	factory, ok := r.factories[directoryName]
	r.mu.RUnlock()
	if !ok || factory == nil {
		return nil, false
	}
	return factory(), true
}

// Has returns true if a loader is registered for the directory name.
func (r *Registry) Has(directoryName string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.factories[directoryName]
	return ok
}

// Names returns all registered directory names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
