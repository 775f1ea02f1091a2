// Package rxnorm loads the RxNorm concept names file RXNCONSO.RRF.
package rxnorm

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/vocab-validator/internal/core/domain"
	"github.com/custodia-labs/vocab-validator/internal/core/ports/driven"
	"github.com/custodia-labs/vocab-validator/internal/loaders/textscan"
	"github.com/custodia-labs/vocab-validator/internal/logger"
)

// Ensure Loader implements the interface.
var _ driven.Loader = (*Loader)(nil)

// ConsoFile is the only RRF file read from the directory.
const ConsoFile = "RXNCONSO.RRF"

// RXNCONSO field positions.
const (
	fieldRXCUI = 0
	fieldSTR   = 14
)

// Loader reads pipe-delimited RXNCONSO rows.
type Loader struct{}

// New creates an RxNorm loader.
func New() *Loader {
	return &Loader{}
}

// CodeSystem returns the code system identifier.
func (l *Loader) CodeSystem() string {
	return domain.CodeSystemRxNorm
}

// Load parses RXNCONSO.RRF. Other files in the directory are ignored.
func (l *Loader) Load(ctx context.Context, files []string) (*domain.VocabularyModelDefinition, error) {
	var records []domain.CodeModel
	for _, path := range files {
		if !strings.EqualFold(filepath.Base(path), ConsoFile) {
			logger.Debug("Ignoring %s, not %s", path, ConsoFile)
			continue
		}
		err := textscan.Lines(ctx, path, func(_ int, line string) error {
			fields := strings.Split(line, "|")
			if len(fields) <= fieldSTR || fields[fieldRXCUI] == "" {
				return nil
			}
			records = append(records, domain.NewCodeModel(domain.CodeSystemRxNorm, fields[fieldRXCUI], fields[fieldSTR]))
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return domain.NewVocabularyModelDefinition(domain.CodeSystemRxNorm, records), nil
}
