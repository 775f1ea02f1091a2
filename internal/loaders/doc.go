// Package loaders provides implementations of the Loader interface for
// vendor terminology distributions. Each loader understands exactly one
// file layout and normalizes its rows into uppercase-coded CodeModel
// records for a single code system.
//
// Loaders are registered with the Registry at startup under the name of
// the source subdirectory they read (for example "SNOMED-CT" or "ICD10CM").
package loaders
