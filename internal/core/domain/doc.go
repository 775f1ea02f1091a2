// Package domain defines the core business entities for the vocabulary validator.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - CodeModel: One normalized vocabulary entry
//   - VocabularyModelDefinition: The indexed table for one code system
//   - VocabularyDataset: One complete generation of all code systems
//   - ConfiguredValidator: A validator definition taken from configuration
//   - VocabularyValidationResult: A severity-graded diagnostic for a document node
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
