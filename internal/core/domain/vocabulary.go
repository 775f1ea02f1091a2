package domain

import (
	"strings"
	"time"
)

// NormalizeKey returns the lookup form of a code, display name or code system ID.
// All vocabulary comparisons are case-insensitive.
func NormalizeKey(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// CodeModel is one normalized vocabulary entry.
// Values are fixed at construction; the code is always uppercase.
type CodeModel struct {
	// CodeSystem is the internal code system identifier (e.g., "ICD10CM").
	CodeSystem string

	// Code is the uppercase code.
	Code string

	// DisplayName is the human-readable name. Empty when the vendor file has none.
	DisplayName string
}

// NewCodeModel creates a CodeModel with normalized code system and code.
func NewCodeModel(codeSystem, code, displayName string) CodeModel {
	return CodeModel{
		CodeSystem:  NormalizeKey(codeSystem),
		Code:        NormalizeKey(code),
		DisplayName: strings.TrimSpace(displayName),
	}
}

// VocabularyModelDefinition holds every record of one code system and the
// indexes used to query them. It is built once and never mutated afterwards.
type VocabularyModelDefinition struct {
	// CodeSystemID identifies the code system (uppercase).
	CodeSystemID string

	// Records are the entries in load order.
	Records []CodeModel

	byCode        map[string][]CodeModel
	byDisplayName map[string][]CodeModel
}

// NewVocabularyModelDefinition indexes records for a code system.
// Codes are not required to be unique; duplicates are kept in load order.
func NewVocabularyModelDefinition(codeSystemID string, records []CodeModel) *VocabularyModelDefinition {
	def := &VocabularyModelDefinition{
		CodeSystemID:  NormalizeKey(codeSystemID),
		Records:       make([]CodeModel, len(records)),
		byCode:        make(map[string][]CodeModel, len(records)),
		byDisplayName: make(map[string][]CodeModel, len(records)),
	}
	copy(def.Records, records)

	for _, rec := range def.Records {
		code := NormalizeKey(rec.Code)
		def.byCode[code] = append(def.byCode[code], rec)
		if rec.DisplayName != "" {
			name := NormalizeKey(rec.DisplayName)
			def.byDisplayName[name] = append(def.byDisplayName[name], rec)
		}
	}
	return def
}

// ByCode returns the records for a code. The returned slice must not be modified.
func (d *VocabularyModelDefinition) ByCode(code string) []CodeModel {
	if d == nil {
		return nil
	}
	return d.byCode[NormalizeKey(code)]
}

// ByDisplayName returns the records with the given display name.
// The returned slice must not be modified.
func (d *VocabularyModelDefinition) ByDisplayName(displayName string) []CodeModel {
	if d == nil {
		return nil
	}
	return d.byDisplayName[NormalizeKey(displayName)]
}

// Len returns the number of records.
func (d *VocabularyModelDefinition) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Records)
}

// VocabularyDataset is one complete, consistent generation of every loaded code system.
type VocabularyDataset struct {
	// Generation uniquely identifies the build that produced this dataset.
	Generation string

	// LoadedAt is when the build finished.
	LoadedAt time.Time

	// Definitions maps uppercase code system ID to its table.
	Definitions map[string]*VocabularyModelDefinition
}

// NewVocabularyDataset creates an empty dataset for a generation.
func NewVocabularyDataset(generation string) *VocabularyDataset {
	return &VocabularyDataset{
		Generation:  generation,
		Definitions: make(map[string]*VocabularyModelDefinition),
	}
}

// Definition returns the table for a code system, or nil if it is not loaded.
func (d *VocabularyDataset) Definition(codeSystemID string) *VocabularyModelDefinition {
	if d == nil {
		return nil
	}
	return d.Definitions[NormalizeKey(codeSystemID)]
}

// CodeSystems returns the loaded code system IDs.
func (d *VocabularyDataset) CodeSystems() []string {
	if d == nil {
		return nil
	}
	ids := make([]string, 0, len(d.Definitions))
	for id := range d.Definitions {
		ids = append(ids, id)
	}
	return ids
}

// RecordCount returns the total number of records across all code systems.
func (d *VocabularyDataset) RecordCount() int {
	if d == nil {
		return 0
	}
	total := 0
	for _, def := range d.Definitions {
		total += def.Len()
	}
	return total
}
