// Package services contains the core application services.
//
// Services implement the driving ports and orchestrate the driven ports:
//
//   - VocabularyStore: Two-slot dataset holder with atomic swap
//   - DatasetBuilder: Runs loaders over the vocabulary source tree
//   - VocabularyReloader: One build-then-swap cycle per call
//   - Initializer: Initial background load, then watcher start
//   - ValidationEngine: Code and display name queries
package services
