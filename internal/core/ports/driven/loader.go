package driven

import (
	"context"

	"github.com/custodia-labs/vocab-validator/internal/core/domain"
)

// Loader parses the files of one vendor layout (fixed-width, delimited,
// hierarchical) into a single code system table.
type Loader interface {
	// CodeSystem returns the code system identifier this loader produces.
	CodeSystem() string

	// Load parses every file and returns the normalized table.
	// Codes in the returned records must be uppercase.
	Load(ctx context.Context, files []string) (*domain.VocabularyModelDefinition, error)
}

// LoaderFactory creates a fresh Loader for one build.
type LoaderFactory func() Loader

// LoaderRegistry maps source directory names to loaders.
type LoaderRegistry interface {
	// Register adds a loader factory for a directory name.
	Register(directoryName string, factory LoaderFactory)

	// Resolve returns a loader for the directory name.
	// The second return value is false when no loader is registered.
	Resolve(directoryName string) (Loader, bool)

	// Names returns all registered directory names.
	Names() []string
}
