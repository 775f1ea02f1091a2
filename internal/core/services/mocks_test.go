package services

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/vocab-validator/internal/core/domain"
	"github.com/custodia-labs/vocab-validator/internal/core/ports/driven"
)

// --- Mock implementations for vocabulary testing ---

// mockLoader reads files of "CODE|Display name" lines.
type mockLoader struct {
	codeSystem string
	err        error
	calls      *atomic.Int32
	block      chan struct{}
}

func (l *mockLoader) CodeSystem() string { return l.codeSystem }

func (l *mockLoader) Load(ctx context.Context, files []string) (*domain.VocabularyModelDefinition, error) {
	if l.calls != nil {
		l.calls.Add(1)
	}
	if l.block != nil {
		select {
		case <-l.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if l.err != nil {
		return nil, l.err
	}

	var records []domain.CodeModel
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		for _, line := range strings.Split(string(data), "\n") {
			if line == "" {
				continue
			}
			code, display, _ := strings.Cut(line, "|")
			records = append(records, domain.NewCodeModel(l.codeSystem, code, display))
		}
	}
	return domain.NewVocabularyModelDefinition(l.codeSystem, records), nil
}

// mockLoaderRegistry implements driven.LoaderRegistry for testing.
type mockLoaderRegistry struct {
	mu        sync.RWMutex
	factories map[string]driven.LoaderFactory
}

func newMockLoaderRegistry() *mockLoaderRegistry {
	return &mockLoaderRegistry{factories: make(map[string]driven.LoaderFactory)}
}

func (r *mockLoaderRegistry) Register(name string, factory driven.LoaderFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = factory
}

func (r *mockLoaderRegistry) Resolve(name string) (driven.Loader, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.factories[name]
	if !ok {
		return nil, false
	}
	return f(), true
}

func (r *mockLoaderRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.factories))
	for n := range r.factories {
		names = append(names, n)
	}
	return names
}

// registerMock registers a mockLoader for dir producing codeSystem.
func (r *mockLoaderRegistry) registerMock(dir, codeSystem string) {
	r.Register(dir, func() driven.Loader { return &mockLoader{codeSystem: codeSystem} })
}

// writeSource creates root/dir/name with content.
func writeSource(t *testing.T, root, dir, name, content string) {
	t.Helper()
	path := filepath.Join(root, dir)
	require.NoError(t, os.MkdirAll(path, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(path, name), []byte(content), 0o600))
}

// datasetWith builds a dataset holding one code system.
func datasetWith(generation, codeSystem string, records ...domain.CodeModel) *domain.VocabularyDataset {
	ds := domain.NewVocabularyDataset(generation)
	ds.Definitions[domain.NormalizeKey(codeSystem)] = domain.NewVocabularyModelDefinition(codeSystem, records)
	return ds
}
