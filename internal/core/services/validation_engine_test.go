package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/vocab-validator/internal/core/domain"
)

func newLoadedEngine(t *testing.T) *ValidationEngine {
	t.Helper()
	root := t.TempDir()
	writeSource(t, root, "ICD10", "file1.txt", "A00|Cholera\nA01|Typhoid fever\nA01|Paratyphoid fever\nZ99|\n")

	reloader, store := newTestReloader(t, root)
	require.NoError(t, reloader.Reload(context.Background()))
	return NewValidationEngine(store, nil)
}

func TestValidationEngine_EndToEnd(t *testing.T) {
	engine := newLoadedEngine(t)

	assert.True(t, engine.IsCodeSystemLoaded("ICD10CM"))
	assert.True(t, engine.ValidateCode("ICD10CM", "A00"))
	assert.True(t, engine.ValidateDisplayName("ICD10CM", "Cholera"))

	result, ok := engine.ValidateDisplayNameForCode("ICD10CM", "Cholera", "A00")
	require.True(t, ok)
	assert.True(t, result.Result)
	assert.Equal(t, "A00", result.Code)
	assert.Equal(t, "Cholera", result.ActualDisplayName)
	assert.Equal(t, "Cholera", result.AnticipatedDisplayName)
}

func TestValidationEngine_CaseInsensitive(t *testing.T) {
	engine := newLoadedEngine(t)

	assert.True(t, engine.IsCodeSystemLoaded("icd10cm"))
	assert.True(t, engine.ValidateCode("icd10cm", "a00"))
	assert.True(t, engine.ValidateDisplayName("ICD10CM", "CHOLERA"))

	result, ok := engine.ValidateDisplayNameForCode("ICD10CM", "cholera", "a00")
	require.True(t, ok)
	assert.True(t, result.Result)
}

func TestValidationEngine_UnknownCodeSystemIsNegative(t *testing.T) {
	engine := newLoadedEngine(t)

	assert.False(t, engine.IsCodeSystemLoaded("FOO"))
	assert.False(t, engine.ValidateCode("FOO", "A00"))
	assert.False(t, engine.ValidateDisplayName("FOO", "Cholera"))

	result, ok := engine.ValidateDisplayNameForCode("FOO", "Cholera", "A00")
	assert.False(t, ok)
	assert.Nil(t, result)
}

func TestValidationEngine_UnknownCode(t *testing.T) {
	engine := newLoadedEngine(t)

	assert.False(t, engine.ValidateCode("ICD10CM", "X99"))
	_, ok := engine.ValidateDisplayNameForCode("ICD10CM", "Cholera", "X99")
	assert.False(t, ok)
}

func TestValidationEngine_DisplayNameMismatch(t *testing.T) {
	engine := newLoadedEngine(t)

	result, ok := engine.ValidateDisplayNameForCode("ICD10CM", "Plague", "A00")
	require.True(t, ok)
	assert.False(t, result.Result)
	assert.Equal(t, "Cholera", result.ActualDisplayName)
	assert.Equal(t, "Plague", result.AnticipatedDisplayName)
}

func TestValidationEngine_FirstRecordWins(t *testing.T) {
	engine := newLoadedEngine(t)

	first, ok := engine.ValidateDisplayNameForCode("ICD10CM", "Typhoid fever", "A01")
	require.True(t, ok)
	assert.True(t, first.Result)

	second, ok := engine.ValidateDisplayNameForCode("ICD10CM", "Paratyphoid fever", "A01")
	require.True(t, ok)
	assert.False(t, second.Result, "only the first record for a code is compared")
	assert.Len(t, engine.Lookup("ICD10CM", "A01"), 2)
}

func TestValidationEngine_EmptyDisplayNameForCode(t *testing.T) {
	engine := newLoadedEngine(t)

	tests := []struct {
		name        string
		displayName string
		code        string
		want        bool
	}{
		{"empty matches empty", "", "Z99", true},
		{"name against empty", "Anything", "Z99", false},
		{"empty against name", "", "A00", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, ok := engine.ValidateDisplayNameForCode("ICD10CM", tt.displayName, tt.code)
			require.True(t, ok)
			assert.Equal(t, tt.want, result.Result)
		})
	}

	assert.False(t, engine.ValidateDisplayName("ICD10CM", ""), "empty display names are not indexed")
}

func TestValidationEngine_ByCodeSystemName(t *testing.T) {
	engine := newLoadedEngine(t)

	assert.True(t, engine.ValidateCodeByCodeSystemName("ICD-10-CM", "A00"))
	assert.True(t, engine.ValidateCodeByCodeSystemName("2.16.840.1.113883.6.90", "A00"))
	assert.True(t, engine.ValidateDisplayNameByCodeSystemName("http://hl7.org/fhir/sid/icd-10-cm", "cholera"))

	result, ok := engine.ValidateDisplayNameForCodeByCodeSystemName("icd10", "Cholera", "A00")
	require.True(t, ok)
	assert.True(t, result.Result)

	assert.False(t, engine.ValidateCodeByCodeSystemName("unknown system", "A00"))
	assert.False(t, engine.ValidateDisplayNameByCodeSystemName("unknown system", "Cholera"))
	_, ok = engine.ValidateDisplayNameForCodeByCodeSystemName("unknown system", "Cholera", "A00")
	assert.False(t, ok)
}

func TestValidationEngine_CustomAliases(t *testing.T) {
	store := NewVocabularyStore()
	commit(t, store, datasetWith("g", "LOINC", domain.NewCodeModel("LOINC", "2345-7", "Glucose")))

	engine := NewValidationEngine(store, domain.CodeSystemAliases{"LABS": "LOINC"})

	id, ok := engine.ResolveCodeSystem("labs")
	require.True(t, ok)
	assert.Equal(t, "LOINC", id)
	assert.True(t, engine.ValidateCodeByCodeSystemName("Labs", "2345-7"))
	assert.False(t, engine.ValidateCodeByCodeSystemName("http://loinc.org", "2345-7"))
}

func TestValidationEngine_LoadedCodeSystems(t *testing.T) {
	store := NewVocabularyStore()
	ds := domain.NewVocabularyDataset("g")
	for _, cs := range []string{"SNOMEDCT", "ICD10CM", "LOINC"} {
		ds.Definitions[cs] = domain.NewVocabularyModelDefinition(cs, nil)
	}
	commit(t, store, ds)

	engine := NewValidationEngine(store, nil)
	assert.Equal(t, []string{"ICD10CM", "LOINC", "SNOMEDCT"}, engine.LoadedCodeSystems())
}

func TestValidationEngine_BeforeFirstLoad(t *testing.T) {
	engine := NewValidationEngine(NewVocabularyStore(), nil)

	assert.False(t, engine.ValidateCode("ICD10CM", "A00"))
	assert.Empty(t, engine.LoadedCodeSystems())
}

func TestValidationEngine_DirectoryNamedCodeSystem(t *testing.T) {
	root := t.TempDir()
	writeSource(t, root, "ICD10", "file1.txt", "A00|Cholera\n")

	registry := newMockLoaderRegistry()
	registry.registerMock("ICD10", "ICD10")
	store := NewVocabularyStore()
	require.NoError(t, NewVocabularyReloader(store, NewDatasetBuilder(registry), root).Reload(context.Background()))

	engine := NewValidationEngine(store, nil)
	assert.True(t, engine.ValidateCode("ICD10", "a00"))

	result, ok := engine.ValidateDisplayNameForCode("ICD10", "Cholera", "A00")
	require.True(t, ok)
	assert.True(t, result.Result)
}
