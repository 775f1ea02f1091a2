package services

import (
	"sort"
	"strings"

	"github.com/custodia-labs/vocab-validator/internal/core/domain"
	"github.com/custodia-labs/vocab-validator/internal/core/ports/driving"
)

// Ensure ValidationEngine implements the interface.
var _ driving.ValidationEngine = (*ValidationEngine)(nil)

// ValidationEngine answers code and display name queries against the
// active dataset of a VocabularyStore. It holds no mutable state.
type ValidationEngine struct {
	store   *VocabularyStore
	aliases domain.CodeSystemAliases
}

// NewValidationEngine creates an engine. A nil alias table uses the defaults.
func NewValidationEngine(store *VocabularyStore, aliases domain.CodeSystemAliases) *ValidationEngine {
	if aliases == nil {
		aliases = domain.DefaultCodeSystemAliases()
	}
	return &ValidationEngine{store: store, aliases: aliases}
}

// IsCodeSystemLoaded reports whether the code system is in the active dataset.
func (e *ValidationEngine) IsCodeSystemLoaded(codeSystemID string) bool {
	return e.store.IsLoaded(codeSystemID)
}

// ValidateCode returns true if at least one record exists for code.
func (e *ValidationEngine) ValidateCode(codeSystemID, code string) bool {
	return len(e.store.Query(codeSystemID, code)) > 0
}

// ValidateDisplayName returns true if at least one record has displayName.
func (e *ValidationEngine) ValidateDisplayName(codeSystemID, displayName string) bool {
	return len(e.store.QueryByDisplayName(codeSystemID, displayName)) > 0
}

// ValidateDisplayNameForCode compares displayName with the loaded display
// name of code. Only the first record for the code is considered.
func (e *ValidationEngine) ValidateDisplayNameForCode(
	codeSystemID, displayName, code string,
) (*domain.DisplayNameValidationResult, bool) {
	records := e.store.Query(codeSystemID, code)
	if len(records) == 0 {
		return nil, false
	}

	first := records[0]
	return &domain.DisplayNameValidationResult{
		Code:                   code,
		ActualDisplayName:      first.DisplayName,
		AnticipatedDisplayName: displayName,
		Result:                 strings.EqualFold(first.DisplayName, displayName),
	}, true
}

// ValidateCodeByCodeSystemName resolves the alias then calls ValidateCode.
func (e *ValidationEngine) ValidateCodeByCodeSystemName(codeSystemName, code string) bool {
	id, ok := e.aliases.Resolve(codeSystemName)
	if !ok {
		return false
	}
	return e.ValidateCode(id, code)
}

// ValidateDisplayNameByCodeSystemName resolves the alias then calls ValidateDisplayName.
func (e *ValidationEngine) ValidateDisplayNameByCodeSystemName(codeSystemName, displayName string) bool {
	id, ok := e.aliases.Resolve(codeSystemName)
	if !ok {
		return false
	}
	return e.ValidateDisplayName(id, displayName)
}

// ValidateDisplayNameForCodeByCodeSystemName resolves the alias then calls ValidateDisplayNameForCode.
func (e *ValidationEngine) ValidateDisplayNameForCodeByCodeSystemName(
	codeSystemName, displayName, code string,
) (*domain.DisplayNameValidationResult, bool) {
	id, ok := e.aliases.Resolve(codeSystemName)
	if !ok {
		return nil, false
	}
	return e.ValidateDisplayNameForCode(id, displayName, code)
}

// ResolveCodeSystem maps an alias to its internal ID.
func (e *ValidationEngine) ResolveCodeSystem(codeSystemName string) (string, bool) {
	return e.aliases.Resolve(codeSystemName)
}

// Lookup returns every record for a code in the active dataset.
func (e *ValidationEngine) Lookup(codeSystemID, code string) []domain.CodeModel {
	return e.store.Query(codeSystemID, code)
}

// LoadedCodeSystems returns the sorted code system IDs of the active dataset.
func (e *ValidationEngine) LoadedCodeSystems() []string {
	ids := e.store.Active().CodeSystems()
	sort.Strings(ids)
	return ids
}
