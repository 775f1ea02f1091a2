package driven

import (
	"context"

	"github.com/custodia-labs/vocab-validator/internal/core/domain"
)

// ValueSetRepository answers value set questions for node validators.
// Backing storage is an adapter concern.
type ValueSetRepository interface {
	// ValuesetOIDsExist returns true if at least one of the OIDs is loaded.
	ValuesetOIDsExist(ctx context.Context, oids []string) (bool, error)

	// CodeExistsInValueset returns true if the code belongs to any of the value sets.
	// The code is compared case-insensitively.
	CodeExistsInValueset(ctx context.Context, code string, oids []string) (bool, error)
}

// ValueSetStore is a ValueSetRepository that can be repopulated.
type ValueSetStore interface {
	ValueSetRepository

	// ReplaceAll atomically replaces every loaded concept.
	ReplaceAll(ctx context.Context, concepts []domain.ValueSetConcept) error

	// CountValuesets returns the number of distinct value sets loaded.
	CountValuesets(ctx context.Context) (int, error)
}
