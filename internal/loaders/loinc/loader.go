// Package loinc loads the LOINC table distributed as Loinc.csv.
package loinc

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/custodia-labs/vocab-validator/internal/core/domain"
	"github.com/custodia-labs/vocab-validator/internal/core/ports/driven"
)

// Ensure Loader implements the interface.
var _ driven.Loader = (*Loader)(nil)

// Column names read from the header row.
const (
	ColumnCode           = "LOINC_NUM"
	ColumnLongCommonName = "LONG_COMMON_NAME"
	ColumnComponent      = "COMPONENT"
)

// ErrMissingColumn is returned when the header lacks LOINC_NUM.
var ErrMissingColumn = errors.New("loinc: LOINC_NUM column not found")

// Loader reads quoted CSV files with a header row.
type Loader struct{}

// New creates a LOINC loader.
func New() *Loader {
	return &Loader{}
}

// CodeSystem returns the code system identifier.
func (l *Loader) CodeSystem() string {
	return domain.CodeSystemLOINC
}

// Load parses every CSV file. The display name is LONG_COMMON_NAME, or
// COMPONENT when the long name is blank.
func (l *Loader) Load(ctx context.Context, files []string) (*domain.VocabularyModelDefinition, error) {
	var records []domain.CodeModel
	for _, path := range files {
		rows, err := loadFile(ctx, path)
		if err != nil {
			return nil, err
		}
		records = append(records, rows...)
	}
	return domain.NewVocabularyModelDefinition(domain.CodeSystemLOINC, records), nil
}

func loadFile(ctx context.Context, path string) ([]domain.CodeModel, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.ReuseRecord = true

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header of %s: %w", path, err)
	}
	codeIdx, longIdx, componentIdx := columnIndexes(header)
	if codeIdx < 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrMissingColumn)
	}

	var records []domain.CodeModel
	for n := 0; ; n++ {
		if n%10000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}

		code := field(row, codeIdx)
		if code == "" {
			continue
		}
		display := field(row, longIdx)
		if display == "" {
			display = field(row, componentIdx)
		}
		records = append(records, domain.NewCodeModel(domain.CodeSystemLOINC, code, display))
	}
	return records, nil
}

func columnIndexes(header []string) (code, long, component int) {
	code, long, component = -1, -1, -1
	for i, name := range header {
		switch strings.ToUpper(strings.TrimSpace(strings.TrimPrefix(name, "\uFEFF"))) {
		case ColumnCode:
			code = i
		case ColumnLongCommonName:
			long = i
		case ColumnComponent:
			component = i
		}
	}
	return code, long, component
}

func field(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
