// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - Loader: Parses one vendor file layout into a code system table
//   - LoaderRegistry: Resolves a source directory name to its Loader
//   - ValueSetRepository: Value set existence and containment checks
//   - ValueSetStore: Replaces the loaded value sets
//   - ConfigStore: Application configuration
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, loader, or validator package
package driven
