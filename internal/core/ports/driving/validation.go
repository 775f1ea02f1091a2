package driving

import "github.com/custodia-labs/vocab-validator/internal/core/domain"

// ValidationEngine answers code and display name questions against the
// active vocabulary dataset. All comparisons are case-insensitive and an
// unknown code system yields a negative or absent result, never an error.
type ValidationEngine interface {
	IsCodeSystemLoaded(codeSystemID string) bool
	ValidateCode(codeSystemID, code string) bool
	ValidateDisplayName(codeSystemID, displayName string) bool
	// ValidateDisplayNameForCode compares the first record found for code.
	// The second return value is false when the code is absent.
	ValidateDisplayNameForCode(codeSystemID, displayName, code string) (*domain.DisplayNameValidationResult, bool)

	// ByCodeSystemName variants resolve a human-facing alias first.
	ValidateCodeByCodeSystemName(codeSystemName, code string) bool
	ValidateDisplayNameByCodeSystemName(codeSystemName, displayName string) bool
	ValidateDisplayNameForCodeByCodeSystemName(codeSystemName, displayName, code string) (*domain.DisplayNameValidationResult, bool)

	// ResolveCodeSystem maps an alias to its internal code system ID.
	ResolveCodeSystem(codeSystemName string) (string, bool)

	// LoadedCodeSystems lists the code systems of the active dataset.
	LoadedCodeSystems() []string
}
