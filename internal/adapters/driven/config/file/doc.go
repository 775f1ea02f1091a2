// Package file provides file-based configuration adapters.
//
// Adapters:
//   - ConfigStore: TOML-based application configuration (driven.ConfigStore)
//   - LoadSettings: turns a ConfigStore into domain.Settings
//   - LoadValidatorConfig: reads the TOML node validator definitions
package file
