package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/vocab-validator/internal/adapters/driven/config/file"
	"github.com/custodia-labs/vocab-validator/internal/core/domain"
	"github.com/custodia-labs/vocab-validator/internal/validators"
)

var (
	validateConfig      string
	validateJSON        bool
	validateMinSeverity string
	validateSkipVocab   bool
)

var validateCmd = &cobra.Command{
	Use:   "validate [document...]",
	Short: "Validate XML documents against value sets and vocabularies",
	Long: `Applies the configured node expressions to each document and runs the named
validators on every selected node. Value sets are imported from
valuesets.directory first and the vocabulary directory is loaded unless
--skip-vocabulary is given.

Exits with an error when any document has ERROR level results.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().StringVar(&validateConfig, "validators", "", "validator definition file (overrides validators.file)")
	validateCmd.Flags().BoolVar(&validateJSON, "json", false, "output results as JSON")
	validateCmd.Flags().StringVar(&validateMinSeverity, "min-severity", string(domain.SeverityInfo), "lowest severity to print")
	validateCmd.Flags().BoolVar(&validateSkipVocab, "skip-vocabulary", false, "do not load the vocabulary directory")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	if valueSets == nil {
		return errors.New("value set repository not configured")
	}
	minSeverity, err := domain.ParseSeverity(validateMinSeverity)
	if err != nil {
		return err
	}

	path := validateConfig
	if path == "" {
		path = settings.ValidatorsFile
	}
	if path == "" {
		return fmt.Errorf("%w: no validator definitions (set validators.file or --validators)", domain.ErrInvalidInput)
	}
	cfg, err := file.LoadValidatorConfig(path)
	if err != nil {
		return err
	}

	ctx := context.Background()
	if err := importValueSets(ctx, cmd, settings.ValuesetDirectory); err != nil {
		return err
	}
	if !validateSkipVocab && settings.VocabularyDirectory != "" {
		if err := loadVocabulary(ctx); err != nil {
			return err
		}
	}

	registry := validators.NewDefaultRegistry(valueSets, validationEngine)
	documents, err := validators.NewDocumentValidator(registry, cfg.Namespaces, cfg.Expressions)
	if err != nil {
		return err
	}

	failed := 0
	for _, doc := range args {
		report, err := validateFile(ctx, documents, doc)
		if err != nil {
			return err
		}
		if report.HasErrors() {
			failed++
		}
		if err := outputReport(cmd, doc, report, minSeverity); err != nil {
			return err
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d documents have errors", failed, len(args))
	}
	return nil
}

func validateFile(ctx context.Context, documents *validators.DocumentValidator, path string) (*validators.Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open document: %w", err)
	}
	defer f.Close()

	report, err := documents.Validate(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return report, nil
}

type reportJSON struct {
	Document string                              `json:"document"`
	Counts   map[domain.Severity]int             `json:"counts"`
	Results  []domain.VocabularyValidationResult `json:"results"`
}

func outputReport(cmd *cobra.Command, doc string, report *validators.Report, minSeverity domain.Severity) error {
	results := report.AtLeast(minSeverity)

	if validateJSON {
		data, err := json.MarshalIndent(reportJSON{Document: doc, Counts: report.Counts, Results: results}, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal results: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Printf("%s:\n", doc)
	if len(results) == 0 {
		cmd.Println("  No findings.")
	}
	for _, r := range results {
		cmd.Printf("  [%s] %s\n", r.Level, r.Message)
		cmd.Printf("      at %s\n", r.Result.XPath)
	}
	cmd.Printf("  %d evaluations", report.Nodes)
	for _, sev := range domain.Severities {
		if n := report.Counts[sev]; n > 0 {
			cmd.Printf(", %d %s", n, sev)
		}
	}
	cmd.Println()
	return nil
}
