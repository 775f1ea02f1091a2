package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown loader, validator or storage type.
	ErrUnsupportedType = errors.New("unsupported type")

	// Reload Errors.

	// ErrNotDirectory indicates the vocabulary source path is a file.
	// This is a configuration error and fails the reload attempt.
	ErrNotDirectory = errors.New("source path is a file and not a directory")

	// ErrReloadInProgress indicates another reload holds the reload lock.
	ErrReloadInProgress = errors.New("reload in progress")

	// ErrInvalidHandle indicates a reload handle that was already committed,
	// aborted, or issued by a different store.
	ErrInvalidHandle = errors.New("invalid reload handle")

	// ErrEmptyDataset indicates an attempt to stage a nil dataset.
	ErrEmptyDataset = errors.New("dataset is nil")

	// ErrLoaderFailed indicates a vendor loader could not parse its files.
	// The current reload is aborted and the active dataset keeps serving.
	ErrLoaderFailed = errors.New("loader failed")

	// Validation Errors.

	// ErrUnknownValidator indicates a configured validator name with no implementation.
	ErrUnknownValidator = errors.New("unknown validator")

	// ErrInvalidExpression indicates a malformed node selection or attribute path.
	ErrInvalidExpression = errors.New("invalid path expression")

	// ErrWatcherClosed indicates the directory watcher has been stopped.
	ErrWatcherClosed = errors.New("watcher closed")
)
