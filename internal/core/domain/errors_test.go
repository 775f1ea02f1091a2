package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestErrors_Existence tests that all error variables exist and are not nil
func TestErrors_Existence(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrNotFound", ErrNotFound},
		{"ErrInvalidInput", ErrInvalidInput},
		{"ErrUnsupportedType", ErrUnsupportedType},
		{"ErrNotDirectory", ErrNotDirectory},
		{"ErrReloadInProgress", ErrReloadInProgress},
		{"ErrInvalidHandle", ErrInvalidHandle},
		{"ErrEmptyDataset", ErrEmptyDataset},
		{"ErrLoaderFailed", ErrLoaderFailed},
		{"ErrUnknownValidator", ErrUnknownValidator},
		{"ErrInvalidExpression", ErrInvalidExpression},
		{"ErrWatcherClosed", ErrWatcherClosed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, tt.err)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

func TestErrors_Wrapping(t *testing.T) {
	wrapped := fmt.Errorf("load ICD10CM: %w", ErrLoaderFailed)

	assert.True(t, errors.Is(wrapped, ErrLoaderFailed))
	assert.False(t, errors.Is(wrapped, ErrReloadInProgress))
	assert.Contains(t, wrapped.Error(), "loader failed")
}
