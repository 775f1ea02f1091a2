// Package cli provides the command line interface for the vocabulary validator.
package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/vocab-validator/internal/adapters/driven/config/file"
	"github.com/custodia-labs/vocab-validator/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/vocab-validator/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/vocab-validator/internal/adapters/driving/watcher"
	"github.com/custodia-labs/vocab-validator/internal/core/domain"
	"github.com/custodia-labs/vocab-validator/internal/core/ports/driven"
	"github.com/custodia-labs/vocab-validator/internal/core/ports/driving"
	"github.com/custodia-labs/vocab-validator/internal/core/services"
	"github.com/custodia-labs/vocab-validator/internal/loaders"
	"github.com/custodia-labs/vocab-validator/internal/loaders/valueset"
	"github.com/custodia-labs/vocab-validator/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// skipServices marks commands that run without the service graph.
const skipServices = "skip-services"

var (
	verbose     bool
	configPath  string
	vocabDirArg string
	storageArg  string
)

// valueSetImporter loads a value set directory into the value set store.
type valueSetImporter interface {
	Import(ctx context.Context, dir string) (valueset.Stats, error)
}

// Services used by commands. Tests replace them with mocks; when they are
// nil the root command builds them from configuration.
var (
	configStore      driven.ConfigStore
	settings         domain.Settings
	validationEngine driving.ValidationEngine
	vocabReloader    driving.Reloader
	vocabWatcher     driving.Watcher
	valueSets        driven.ValueSetRepository
	importer         valueSetImporter
	closeServices    func() error
)

var rootCmd = &cobra.Command{
	Use:   "vocab-validator",
	Short: "Validate clinical codes and documents against vocabularies",
	Long: `vocab-validator loads clinical code systems (SNOMED CT, LOINC, RxNorm,
ICD-9-CM, ICD-10-CM/PCS) from a vendor directory tree and answers code and
display name queries against them. Value sets are imported from tab-delimited
exports and used to validate coded nodes in XML documents.`,
	SilenceUsage:       true,
	PersistentPreRunE:  setupServices,
	PersistentPostRunE: teardownServices,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.vocab-validator/config.toml)")
	rootCmd.PersistentFlags().StringVar(&vocabDirArg, "vocabulary-dir", "", "vocabulary root directory (overrides vocabulary.directory)")
	rootCmd.PersistentFlags().StringVar(&storageArg, "storage", "", "value set storage driver: memory, sqlite or postgres")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func setupServices(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)
	if _, skip := cmd.Annotations[skipServices]; skip || validationEngine != nil {
		return nil
	}

	loaded, err := loadSettings()
	if err != nil {
		return err
	}
	return buildServices(loaded)
}

func teardownServices(_ *cobra.Command, _ []string) error {
	if closeServices == nil {
		return nil
	}
	err := closeServices()
	closeServices = nil
	return err
}

func loadSettings() (domain.Settings, error) {
	var (
		store *file.ConfigStore
		err   error
	)
	if configPath != "" {
		store, err = file.NewConfigStoreAt(configPath)
	} else {
		store, err = file.NewConfigStore("")
	}
	if err != nil {
		return domain.Settings{}, fmt.Errorf("failed to open config: %w", err)
	}

	s, err := file.LoadSettings(store)
	if err != nil {
		return domain.Settings{}, fmt.Errorf("invalid config %s: %w", store.Path(), err)
	}
	if vocabDirArg != "" {
		s.VocabularyDirectory = vocabDirArg
	}
	if storageArg != "" {
		s.Storage.Driver = domain.StorageDriver(storageArg)
		if err := s.Validate(); err != nil {
			return domain.Settings{}, err
		}
	}

	logger.SetVerbose(verbose || s.Log.Verbose)
	logger.SetFormat(s.Log.Format)
	logger.Debug("Using config %s", store.Path())
	configStore = store
	return s, nil
}

// buildServices wires the store, engine, reloader, watcher and value set
// repository from settings.
func buildServices(s domain.Settings) error {
	repo, closer, err := openValueSetStore(s.Storage)
	if err != nil {
		return err
	}

	store := services.NewVocabularyStore()
	builder := services.NewDatasetBuilder(loaders.NewDefaultRegistry())
	reloader := services.NewVocabularyReloader(store, builder, s.VocabularyDirectory)

	settings = s
	validationEngine = services.NewValidationEngine(store, nil)
	vocabReloader = reloader
	valueSets = repo
	importer = valueset.NewImporter(repo)
	vocabWatcher = nil
	if s.Watcher.Enabled && s.VocabularyDirectory != "" {
		vocabWatcher = watcher.New(s.VocabularyDirectory, reloader, watcher.Options{
			Recursive:   s.Recursive,
			Debounce:    s.Watcher.Debounce,
			MinInterval: s.Watcher.MinInterval,
		})
	}
	closeServices = closer
	return nil
}

func openValueSetStore(cfg domain.StorageSettings) (driven.ValueSetStore, func() error, error) {
	switch cfg.Driver {
	case domain.StorageMemory:
		return memory.NewValueSetStore(), nil, nil
	case domain.StorageSQLite:
		store, err := sqlite.NewStore(cfg.DataDir)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open value set database: %w", err)
		}
		logger.Debug("Value set database at %s", store.Path())
		return store, store.Close, nil
	case domain.StoragePostgres:
		store, err := sqlite.Open(sqlite.DriverPostgres, cfg.DSN)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open value set database: %w", err)
		}
		return store, store.Close, nil
	default:
		return nil, nil, fmt.Errorf("%w: storage driver %q", domain.ErrUnsupportedType, cfg.Driver)
	}
}

// loadVocabulary runs one synchronous reload so query commands see data.
func loadVocabulary(ctx context.Context) error {
	if vocabReloader == nil {
		return errors.New("vocabulary reloader not configured")
	}
	if settings.VocabularyDirectory == "" {
		return fmt.Errorf("%w: no vocabulary directory configured (set vocabulary.directory or --vocabulary-dir)",
			domain.ErrInvalidInput)
	}
	if err := vocabReloader.Reload(ctx); err != nil {
		return fmt.Errorf("failed to load vocabulary: %w", err)
	}
	return nil
}

// importValueSets loads dir into the value set store. An empty dir is a no-op.
func importValueSets(ctx context.Context, cmd *cobra.Command, dir string) error {
	if dir == "" {
		return nil
	}
	if importer == nil {
		return errors.New("value set importer not configured")
	}
	stats, err := importer.Import(ctx, dir)
	if err != nil {
		return fmt.Errorf("failed to import value sets: %w", err)
	}
	cmd.Printf("Imported %d value sets (%d concepts from %d files)\n", stats.Valuesets, stats.Concepts, stats.Files)
	return nil
}
