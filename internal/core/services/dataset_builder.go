package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/vocab-validator/internal/core/domain"
	"github.com/custodia-labs/vocab-validator/internal/core/ports/driven"
	"github.com/custodia-labs/vocab-validator/internal/logger"
)

// DatasetBuilder turns a source tree of root/<codeSystemDir>/<vendor files>
// into a complete VocabularyDataset.
type DatasetBuilder struct {
	registry driven.LoaderRegistry

	// maxParallel bounds concurrent loaders; zero means unbounded.
	maxParallel int
}

// NewDatasetBuilder creates a builder that resolves loaders from registry.
func NewDatasetBuilder(registry driven.LoaderRegistry) *DatasetBuilder {
	return &DatasetBuilder{
		registry:    registry,
		maxParallel: 4,
	}
}

// loadJob is one resolved subdirectory awaiting its loader.
type loadJob struct {
	dirName string
	loader  driven.Loader
	files   []string
}

// Build loads every resolvable subdirectory of root.
// Hidden, empty and unresolved subdirectories are skipped. A root that is a
// file returns ErrNotDirectory. Any loader failure fails the whole build.
// Subdirectories whose loaders share a code system are merged into one
// definition.
func (b *DatasetBuilder) Build(ctx context.Context, root string) (*domain.VocabularyDataset, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat vocabulary root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s: %w", root, domain.ErrNotDirectory)
	}

	jobs, err := b.planJobs(root)
	if err != nil {
		return nil, err
	}

	defs := make([]*domain.VocabularyModelDefinition, len(jobs))

	g, gctx := errgroup.WithContext(ctx)
	if b.maxParallel > 0 {
		g.SetLimit(b.maxParallel)
	}
	for i, job := range jobs {
		i, job := i, job
		g.Go(func() error {
			started := time.Now()
			logger.Info("Loading files in %s (%d files)", job.dirName, len(job.files))

			def, err := job.loader.Load(gctx, job.files)
			if err != nil {
				return fmt.Errorf("%w: %s: %w", domain.ErrLoaderFailed, job.dirName, err)
			}
			if def == nil {
				return fmt.Errorf("%w: %s: loader returned no definition", domain.ErrLoaderFailed, job.dirName)
			}
			defs[i] = def

			logger.Debug("Loaded %d records from %s in %s", def.Len(), job.dirName, time.Since(started))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	dataset := domain.NewVocabularyDataset(uuid.New().String())
	for i, job := range jobs {
		key := domain.NormalizeKey(job.loader.CodeSystem())
		existing, ok := dataset.Definitions[key]
		if !ok {
			dataset.Definitions[key] = defs[i]
			continue
		}
		// Directories sharing a code system are merged in directory order.
		logger.Debug("Merging %s into code system %s", job.dirName, key)
		records := make([]domain.CodeModel, 0, len(existing.Records)+len(defs[i].Records))
		records = append(records, existing.Records...)
		records = append(records, defs[i].Records...)
		dataset.Definitions[key] = domain.NewVocabularyModelDefinition(key, records)
	}

	dataset.LoadedAt = time.Now()
	return dataset, nil
}

// planJobs resolves each immediate subdirectory of root to a loader.
func (b *DatasetBuilder) planJobs(root string) ([]loadJob, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("read vocabulary root: %w", err)
	}

	var jobs []loadJob
	for _, entry := range entries {
		name := entry.Name()
		if !entry.IsDir() || isHidden(name) {
			continue
		}

		loader, ok := b.registry.Resolve(name)
		if !ok {
			logger.Warn("No loader registered for directory %s, skipping", name)
			continue
		}

		files, err := listFiles(filepath.Join(root, name))
		if err != nil {
			return nil, err
		}
		if len(files) == 0 {
			logger.Debug("Directory %s is empty, skipping", name)
			continue
		}

		jobs = append(jobs, loadJob{dirName: name, loader: loader, files: files})
	}
	return jobs, nil
}

// listFiles returns the regular, non-hidden files directly inside dir, sorted by name.
func listFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", dir, err)
	}

	var files []string
	for _, entry := range entries {
		if !entry.Type().IsRegular() || isHidden(entry.Name()) {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(files)
	return files, nil
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}
