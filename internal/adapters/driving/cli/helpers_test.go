package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/vocab-validator/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/vocab-validator/internal/core/domain"
	"github.com/custodia-labs/vocab-validator/internal/core/services"
	"github.com/custodia-labs/vocab-validator/internal/loaders/valueset"
)

// stagingReloader publishes a fixed dataset on every reload.
type stagingReloader struct {
	store   *services.VocabularyStore
	dataset *domain.VocabularyDataset
	err     error
	calls   int
}

func (r *stagingReloader) Reload(context.Context) error {
	r.calls++
	if r.err != nil {
		return r.err
	}
	h, err := r.store.BeginReload()
	if err != nil {
		return err
	}
	if err := r.store.Build(h, r.dataset); err != nil {
		return err
	}
	return r.store.CommitSwap(h)
}

// statusReloader adds the last reload outcome to stagingReloader.
type statusReloader struct {
	*stagingReloader
}

func (r statusReloader) Status() *services.ReloadStatus {
	started := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	return &services.ReloadStatus{
		Generation:  r.dataset.Generation,
		CodeSystems: len(r.dataset.Definitions),
		Records:     r.dataset.RecordCount(),
		StartedAt:   started,
		EndedAt:     started.Add(1500 * time.Millisecond),
		Success:     true,
	}
}

type mockImporter struct {
	dirs  []string
	stats valueset.Stats
	err   error
}

func (m *mockImporter) Import(_ context.Context, dir string) (valueset.Stats, error) {
	m.dirs = append(m.dirs, dir)
	return m.stats, m.err
}

var errImport = errors.New("import failed")

type testServices struct {
	reloader *stagingReloader
	importer *mockImporter
	repo     *memory.ValueSetStore
}

// setupTestServices installs an in-memory service graph with a small
// SNOMED CT and LOINC vocabulary. The previous graph is restored on cleanup.
func setupTestServices(t *testing.T) *testServices {
	t.Helper()

	oldSettings, oldEngine, oldReloader := settings, validationEngine, vocabReloader
	oldWatcher, oldValueSets, oldImporter := vocabWatcher, valueSets, importer
	oldClose := closeServices
	t.Cleanup(func() {
		settings, validationEngine, vocabReloader = oldSettings, oldEngine, oldReloader
		vocabWatcher, valueSets, importer = oldWatcher, oldValueSets, oldImporter
		closeServices = oldClose
	})

	ds := domain.NewVocabularyDataset("test-generation")
	ds.Definitions[domain.CodeSystemSNOMEDCT] = domain.NewVocabularyModelDefinition(domain.CodeSystemSNOMEDCT, []domain.CodeModel{
		domain.NewCodeModel(domain.CodeSystemSNOMEDCT, "55607006", "Problem"),
		domain.NewCodeModel(domain.CodeSystemSNOMEDCT, "404684003", "Clinical finding"),
	})
	ds.Definitions[domain.CodeSystemLOINC] = domain.NewVocabularyModelDefinition(domain.CodeSystemLOINC, []domain.CodeModel{
		domain.NewCodeModel(domain.CodeSystemLOINC, "8480-6", "Systolic blood pressure"),
	})

	store := services.NewVocabularyStore()
	ts := &testServices{
		reloader: &stagingReloader{store: store, dataset: ds},
		importer: &mockImporter{stats: valueset.Stats{Files: 1, Concepts: 2, Valuesets: 1}},
		repo:     memory.NewValueSetStore(),
	}

	settings = domain.DefaultSettings()
	settings.VocabularyDirectory = t.TempDir()
	validationEngine = services.NewValidationEngine(store, nil)
	vocabReloader = ts.reloader
	vocabWatcher = nil
	valueSets = ts.repo
	importer = ts.importer
	return ts
}

// execute runs the root command with args and returns its output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(new(bytes.Buffer))
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return buf.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}
