// Package icd10 loads the CMS ICD-10-CM and ICD-10-PCS order files.
package icd10

import (
	"context"
	"strings"

	"github.com/custodia-labs/vocab-validator/internal/core/domain"
	"github.com/custodia-labs/vocab-validator/internal/core/ports/driven"
	"github.com/custodia-labs/vocab-validator/internal/loaders/textscan"
)

// Ensure Loader implements the interface.
var _ driven.Loader = (*Loader)(nil)

// Order file column offsets.
const (
	orderStart  = 0
	orderEnd    = 5
	codeStart   = 6
	codeEnd     = 13
	headerFlag  = 14
	shortStart  = 16
	shortEnd    = 76
	longStart   = 77
	minRowWidth = codeEnd
)

// Loader reads fixed-width order files. Header rows (flag 0) are loaded
// as well; they are valid category codes.
type Loader struct {
	codeSystem string
	dotted     bool
}

// NewCM creates a loader for ICD-10-CM. Codes get a decimal after the third character.
func NewCM() *Loader {
	return &Loader{codeSystem: domain.CodeSystemICD10CM, dotted: true}
}

// NewPCS creates a loader for ICD-10-PCS. Codes are kept as-is.
func NewPCS() *Loader {
	return &Loader{codeSystem: domain.CodeSystemICD10PCS}
}

// CodeSystem returns the code system identifier.
func (l *Loader) CodeSystem() string {
	return l.codeSystem
}

// Load parses every order file.
func (l *Loader) Load(ctx context.Context, files []string) (*domain.VocabularyModelDefinition, error) {
	var records []domain.CodeModel
	for _, path := range files {
		err := textscan.Lines(ctx, path, func(_ int, line string) error {
			row, ok := ParseRow(line)
			if !ok {
				return nil
			}
			code := row.Code
			if l.dotted {
				code = FormatCMCode(code)
			}
			records = append(records, domain.NewCodeModel(l.codeSystem, code, row.DisplayName()))
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return domain.NewVocabularyModelDefinition(l.codeSystem, records), nil
}

// Row is one parsed order file line.
type Row struct {
	Order            string
	Code             string
	Billable         bool
	ShortDescription string
	LongDescription  string
}

// DisplayName returns the long description, or the short one when the long is blank.
func (r Row) DisplayName() string {
	if r.LongDescription != "" {
		return r.LongDescription
	}
	return r.ShortDescription
}

// ParseRow splits an order file line into its columns.
func ParseRow(line string) (Row, bool) {
	if len(strings.TrimRight(line, " ")) < minRowWidth {
		return Row{}, false
	}
	row := Row{
		Order:            textscan.Slice(line, orderStart, orderEnd),
		Code:             textscan.Slice(line, codeStart, codeEnd),
		Billable:         textscan.Slice(line, headerFlag, headerFlag+1) == "1",
		ShortDescription: textscan.Slice(line, shortStart, shortEnd),
		LongDescription:  textscan.Slice(line, longStart, -1),
	}
	if row.Code == "" {
		return Row{}, false
	}
	return row, true
}

// FormatCMCode inserts the decimal after the third character.
func FormatCMCode(code string) string {
	if len(code) <= 3 || strings.Contains(code, ".") {
		return code
	}
	return code[:3] + "." + code[3:]
}
