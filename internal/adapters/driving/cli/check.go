package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/vocab-validator/internal/core/domain"
)

var checkDisplayCode string

var checkCodeCmd = &cobra.Command{
	Use:   "check-code [code-system] [code]",
	Short: "Check that a code exists in a code system",
	Long: `Loads the vocabulary directory and checks that the code exists.
The code system may be given as its identifier (SNOMEDCT, LOINC, RXNORM,
ICD9CM_DX, ICD9CM_SG, ICD10CM, ICD10PCS), an OID or a common name.
Codes are compared case-insensitively.`,
	Args: cobra.ExactArgs(2),
	RunE: runCheckCode,
}

var checkDisplayCmd = &cobra.Command{
	Use:   "check-display [code-system] [display-name]",
	Short: "Check that a display name exists in a code system",
	Long: `Loads the vocabulary directory and checks that some code carries the
display name. With --code the display name is compared with the display name
of that code instead.`,
	Args: cobra.ExactArgs(2),
	RunE: runCheckDisplay,
}

var codeSystemsCmd = &cobra.Command{
	Use:   "code-systems",
	Short: "List the loaded code systems",
	Args:  cobra.NoArgs,
	RunE:  runCodeSystems,
}

func init() {
	checkDisplayCmd.Flags().StringVar(&checkDisplayCode, "code", "", "compare against the display name of this code")
	rootCmd.AddCommand(checkCodeCmd)
	rootCmd.AddCommand(checkDisplayCmd)
	rootCmd.AddCommand(codeSystemsCmd)
}

// resolveLoaded loads the vocabulary and resolves a code system name.
func resolveLoaded(ctx context.Context, name string) (string, error) {
	if validationEngine == nil {
		return "", errors.New("validation engine not configured")
	}
	if err := loadVocabulary(ctx); err != nil {
		return "", err
	}
	id, ok := validationEngine.ResolveCodeSystem(name)
	if !ok {
		return "", fmt.Errorf("%w: unknown code system %q", domain.ErrNotFound, name)
	}
	if !validationEngine.IsCodeSystemLoaded(id) {
		return "", fmt.Errorf("%w: code system %s is not loaded", domain.ErrNotFound, id)
	}
	return id, nil
}

func runCheckCode(cmd *cobra.Command, args []string) error {
	id, err := resolveLoaded(context.Background(), args[0])
	if err != nil {
		return err
	}
	code := args[1]

	if !validationEngine.ValidateCode(id, code) {
		return fmt.Errorf("%w: code %s not in %s", domain.ErrNotFound, code, id)
	}

	cmd.Printf("%s %s: valid\n", id, domain.NormalizeKey(code))
	if check, ok := validationEngine.ValidateDisplayNameForCode(id, "", code); ok && check.ActualDisplayName != "" {
		cmd.Printf("  Display: %s\n", check.ActualDisplayName)
	}
	return nil
}

func runCheckDisplay(cmd *cobra.Command, args []string) error {
	id, err := resolveLoaded(context.Background(), args[0])
	if err != nil {
		return err
	}
	displayName := args[1]

	if checkDisplayCode == "" {
		if !validationEngine.ValidateDisplayName(id, displayName) {
			return fmt.Errorf("%w: display name %q not in %s", domain.ErrNotFound, displayName, id)
		}
		cmd.Printf("%s: display name %q is valid\n", id, displayName)
		return nil
	}

	check, ok := validationEngine.ValidateDisplayNameForCode(id, displayName, checkDisplayCode)
	if !ok {
		return fmt.Errorf("%w: code %s not in %s", domain.ErrNotFound, checkDisplayCode, id)
	}
	if !check.Result {
		return fmt.Errorf("display name %q does not match %q for %s %s",
			check.AnticipatedDisplayName, check.ActualDisplayName, id, domain.NormalizeKey(checkDisplayCode))
	}
	cmd.Printf("%s %s: display name %q matches\n", id, domain.NormalizeKey(checkDisplayCode), displayName)
	return nil
}

func runCodeSystems(cmd *cobra.Command, _ []string) error {
	if validationEngine == nil {
		return errors.New("validation engine not configured")
	}
	if err := loadVocabulary(context.Background()); err != nil {
		return err
	}

	ids := validationEngine.LoadedCodeSystems()
	if len(ids) == 0 {
		cmd.Println("No code systems loaded.")
		return nil
	}
	cmd.Println("Loaded code systems:")
	for _, id := range ids {
		cmd.Printf("  %s\n", id)
	}
	return nil
}
