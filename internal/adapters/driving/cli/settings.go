package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/vocab-validator/internal/adapters/driven/config/file"
	"github.com/custodia-labs/vocab-validator/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:         "settings",
	Short:       "Show the effective settings",
	Annotations: map[string]string{skipServices: "true"},
	Args:        cobra.NoArgs,
	RunE:        runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Change a setting in the config file",
	Long: `Writes one setting to the config file. Boolean settings take true or false;
watcher.debounce and watcher.min_interval take durations such as 2s or 500ms.

Keys:
  vocabulary.directory   vocabulary.recursive   valuesets.directory
  validators.file        storage.driver         storage.dsn
  storage.data_dir       watcher.enabled        watcher.debounce
  watcher.min_interval   log.verbose            log.format`,
	Annotations: map[string]string{skipServices: "true"},
	Args:        cobra.ExactArgs(2),
	RunE:        runSettingsSet,
}

func init() {
	settingsCmd.AddCommand(settingsSetCmd)
	rootCmd.AddCommand(settingsCmd)
}

// ensureConfig loads the config store and settings unless already present.
func ensureConfig() error {
	if configStore != nil {
		return nil
	}
	s, err := loadSettings()
	if err != nil {
		return err
	}
	settings = s
	return nil
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if err := ensureConfig(); err != nil {
		return err
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Printf("Config file: %s\n", configStore.Path())
	cmd.Println()

	cmd.Println("[Vocabulary]")
	cmd.Printf("  Directory: %s\n", orNotSet(settings.VocabularyDirectory))
	cmd.Printf("  Recursive: %s\n", yesNo(settings.Recursive))
	cmd.Printf("  Value sets: %s\n", orNotSet(settings.ValuesetDirectory))
	cmd.Printf("  Validators: %s\n", orNotSet(settings.ValidatorsFile))
	cmd.Println()

	cmd.Println("[Storage]")
	cmd.Printf("  Driver: %s\n", settings.Storage.Driver)
	switch settings.Storage.Driver {
	case domain.StorageSQLite:
		cmd.Printf("  Data directory: %s\n", orNotSet(settings.Storage.DataDir))
	case domain.StoragePostgres:
		cmd.Println("  DSN: (set)")
	}
	cmd.Println()

	cmd.Println("[Watcher]")
	if settings.Watcher.Enabled {
		cmd.Printf("  Enabled: yes\n")
		cmd.Printf("  Debounce: %s\n", settings.Watcher.Debounce)
		cmd.Printf("  Min interval: %s\n", settings.Watcher.MinInterval)
	} else {
		cmd.Printf("  Enabled: no\n")
	}
	cmd.Println()

	cmd.Println("[Log]")
	cmd.Printf("  Verbose: %s\n", yesNo(settings.Log.Verbose))
	cmd.Printf("  Format: %s\n", settings.Log.Format)
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if err := ensureConfig(); err != nil {
		return err
	}

	key, raw := args[0], args[1]
	value, err := file.ParseValue(key, raw)
	if err != nil {
		return err
	}
	if err := configStore.Set(key, value); err != nil {
		return fmt.Errorf("failed to save setting: %w", err)
	}

	updated, err := file.LoadSettings(configStore)
	if err != nil {
		cmd.Printf("Warning: %v\n", err)
		return nil
	}
	settings = updated
	cmd.Printf("%s = %v\n", key, value)
	return nil
}

func orNotSet(s string) string {
	if s == "" {
		return "(not set)"
	}
	return s
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
