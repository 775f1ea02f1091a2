// Package icd9 loads the ICD-9-CM diagnosis and procedure tables.
//
// Both distributions are fixed-width text files where each line holds an
// undotted code token followed by its description, for example
//
//	0010    Cholera due to vibrio cholerae
//
// The loader restores the decimal point that the files omit.
package icd9

import (
	"context"
	"strings"

	"github.com/custodia-labs/vocab-validator/internal/core/domain"
	"github.com/custodia-labs/vocab-validator/internal/core/ports/driven"
	"github.com/custodia-labs/vocab-validator/internal/loaders/textscan"
)

// Ensure Loader implements the interface.
var _ driven.Loader = (*Loader)(nil)

// Loader reads one ICD-9-CM table.
type Loader struct {
	codeSystem string
	format     func(code string) string
}

// NewDiagnosis creates a loader for ICD-9-CM diagnosis codes.
func NewDiagnosis() *Loader {
	return &Loader{codeSystem: domain.CodeSystemICD9CMDX, format: FormatDiagnosisCode}
}

// NewProcedure creates a loader for ICD-9-CM procedure codes.
func NewProcedure() *Loader {
	return &Loader{codeSystem: domain.CodeSystemICD9CMSG, format: FormatProcedureCode}
}

// CodeSystem returns the code system identifier.
func (l *Loader) CodeSystem() string {
	return l.codeSystem
}

// Load parses every file.
func (l *Loader) Load(ctx context.Context, files []string) (*domain.VocabularyModelDefinition, error) {
	var records []domain.CodeModel
	for _, path := range files {
		err := textscan.Lines(ctx, path, func(_ int, line string) error {
			code, description, ok := splitLine(line)
			if !ok {
				return nil
			}
			records = append(records, domain.NewCodeModel(l.codeSystem, l.format(code), description))
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return domain.NewVocabularyModelDefinition(l.codeSystem, records), nil
}

func splitLine(line string) (code, description string, ok bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return "", "", false
	}
	code, description, _ = strings.Cut(line, " ")
	return code, strings.TrimSpace(description), true
}

// FormatDiagnosisCode inserts the decimal after the third character, or
// after the fourth for E codes. Codes too short for a decimal are returned as-is.
func FormatDiagnosisCode(code string) string {
	at := 3
	if strings.HasPrefix(strings.ToUpper(code), "E") {
		at = 4
	}
	return insertDecimal(code, at)
}

// FormatProcedureCode inserts the decimal after the second character.
func FormatProcedureCode(code string) string {
	return insertDecimal(code, 2)
}

func insertDecimal(code string, at int) string {
	if len(code) <= at || strings.Contains(code, ".") {
		return code
	}
	return code[:at] + "." + code[at:]
}
