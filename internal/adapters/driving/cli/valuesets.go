package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/vocab-validator/internal/core/domain"
)

var importValueSetsCmd = &cobra.Command{
	Use:   "import-valuesets [directory]",
	Short: "Import value set exports into the value set store",
	Long: `Reads every tab-delimited value set export in the directory and replaces
the contents of the value set store. Files need a header row with at least
ValueSetOID and Code columns.

Defaults to valuesets.directory when no directory is given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runImportValueSets,
}

func init() {
	rootCmd.AddCommand(importValueSetsCmd)
}

func runImportValueSets(cmd *cobra.Command, args []string) error {
	if importer == nil {
		return errors.New("value set importer not configured")
	}

	dir := settings.ValuesetDirectory
	if len(args) > 0 {
		dir = args[0]
	}
	if dir == "" {
		return fmt.Errorf("%w: no value set directory (set valuesets.directory or pass one)", domain.ErrInvalidInput)
	}

	return importValueSets(context.Background(), cmd, dir)
}
