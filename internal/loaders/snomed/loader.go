// Package snomed loads SNOMED CT RF2 description snapshot files.
package snomed

import (
	"context"
	"strings"

	"github.com/custodia-labs/vocab-validator/internal/core/domain"
	"github.com/custodia-labs/vocab-validator/internal/core/ports/driven"
	"github.com/custodia-labs/vocab-validator/internal/loaders/textscan"
	"github.com/custodia-labs/vocab-validator/internal/logger"
)

// Ensure Loader implements the interface.
var _ driven.Loader = (*Loader)(nil)

// RF2 description columns.
const (
	colID = iota
	colEffectiveTime
	colActive
	colModuleID
	colConceptID
	colLanguageCode
	colTypeID
	colTerm
	colCaseSignificance
	columnCount
)

// Loader reads tab-delimited RF2 description files. Every active
// description row becomes a record keyed by its concept ID, so a concept
// usually has several records (fully specified name first when the file
// lists it first).
type Loader struct{}

// New creates a SNOMED CT loader.
func New() *Loader {
	return &Loader{}
}

// CodeSystem returns the code system identifier.
func (l *Loader) CodeSystem() string {
	return domain.CodeSystemSNOMEDCT
}

// Load parses the description files.
func (l *Loader) Load(ctx context.Context, files []string) (*domain.VocabularyModelDefinition, error) {
	var records []domain.CodeModel
	for _, path := range files {
		skipped := 0
		err := textscan.Lines(ctx, path, func(_ int, line string) error {
			if line == "" {
				return nil
			}
			fields := strings.Split(line, "\t")
			if len(fields) < columnCount-1 {
				skipped++
				return nil
			}
			if fields[colID] == "id" || fields[colActive] != "1" {
				return nil
			}
			records = append(records, domain.NewCodeModel(domain.CodeSystemSNOMEDCT, fields[colConceptID], fields[colTerm]))
			return nil
		})
		if err != nil {
			return nil, err
		}
		if skipped > 0 {
			logger.Debug("Skipped %d short rows in %s", skipped, path)
		}
	}
	return domain.NewVocabularyModelDefinition(domain.CodeSystemSNOMEDCT, records), nil
}
