package file

import (
	"fmt"
	"strconv"
	"time"

	"github.com/custodia-labs/vocab-validator/internal/core/domain"
	"github.com/custodia-labs/vocab-validator/internal/core/ports/driven"
)

// Configuration keys read by LoadSettings.
const (
	KeyVocabularyDirectory = "vocabulary.directory"
	KeyVocabularyRecursive = "vocabulary.recursive"
	KeyValuesetDirectory   = "valuesets.directory"
	KeyValidatorsFile      = "validators.file"
	KeyStorageDriver       = "storage.driver"
	KeyStorageDSN          = "storage.dsn"
	KeyStorageDataDir      = "storage.data_dir"
	KeyWatcherEnabled      = "watcher.enabled"
	KeyWatcherDebounce     = "watcher.debounce"
	KeyWatcherMinInterval  = "watcher.min_interval"
	KeyLogVerbose          = "log.verbose"
	KeyLogFormat           = "log.format"
)

// Keys lists every key LoadSettings reads, in display order.
var Keys = []string{
	KeyVocabularyDirectory,
	KeyVocabularyRecursive,
	KeyValuesetDirectory,
	KeyValidatorsFile,
	KeyStorageDriver,
	KeyStorageDSN,
	KeyStorageDataDir,
	KeyWatcherEnabled,
	KeyWatcherDebounce,
	KeyWatcherMinInterval,
	KeyLogVerbose,
	KeyLogFormat,
}

// ParseValue converts a raw command line value into the type stored for key.
func ParseValue(key, raw string) (any, error) {
	switch key {
	case KeyVocabularyRecursive, KeyWatcherEnabled, KeyLogVerbose:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %s must be true or false", domain.ErrInvalidInput, key)
		}
		return b, nil
	case KeyWatcherDebounce, KeyWatcherMinInterval:
		if _, err := time.ParseDuration(raw); err != nil {
			return nil, fmt.Errorf("%w: %s must be a duration such as 2s", domain.ErrInvalidInput, key)
		}
		return raw, nil
	}
	for _, k := range Keys {
		if k == key {
			return raw, nil
		}
	}
	return nil, fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
}

// LoadSettings builds settings from the store on top of domain.DefaultSettings.
// Keys absent from the store keep their defaults.
func LoadSettings(store driven.ConfigStore) (domain.Settings, error) {
	s := domain.DefaultSettings()

	setString := func(key string, dst *string) {
		if _, ok := store.Get(key); ok {
			*dst = store.GetString(key)
		}
	}
	setBool := func(key string, dst *bool) {
		if _, ok := store.Get(key); ok {
			*dst = store.GetBool(key)
		}
	}

	setString(KeyVocabularyDirectory, &s.VocabularyDirectory)
	setBool(KeyVocabularyRecursive, &s.Recursive)
	setString(KeyValuesetDirectory, &s.ValuesetDirectory)
	setString(KeyValidatorsFile, &s.ValidatorsFile)

	if _, ok := store.Get(KeyStorageDriver); ok {
		s.Storage.Driver = domain.StorageDriver(store.GetString(KeyStorageDriver))
	}
	setString(KeyStorageDSN, &s.Storage.DSN)
	setString(KeyStorageDataDir, &s.Storage.DataDir)

	setBool(KeyWatcherEnabled, &s.Watcher.Enabled)
	if _, ok := store.Get(KeyWatcherDebounce); ok {
		s.Watcher.Debounce = store.GetDuration(KeyWatcherDebounce)
	}
	if _, ok := store.Get(KeyWatcherMinInterval); ok {
		s.Watcher.MinInterval = store.GetDuration(KeyWatcherMinInterval)
	}

	setBool(KeyLogVerbose, &s.Log.Verbose)
	setString(KeyLogFormat, &s.Log.Format)

	if err := s.Validate(); err != nil {
		return domain.Settings{}, err
	}
	return s, nil
}
