package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeSystemAliases_Resolve(t *testing.T) {
	aliases := DefaultCodeSystemAliases()

	tests := []struct {
		alias    string
		expected string
	}{
		{"SNOMED-CT", CodeSystemSNOMEDCT},
		{"snomedct", CodeSystemSNOMEDCT},
		{"2.16.840.1.113883.6.96", CodeSystemSNOMEDCT},
		{"http://loinc.org", CodeSystemLOINC},
		{"rxnorm", CodeSystemRxNorm},
		{"ICD10", CodeSystemICD10CM},
		{"2.16.840.1.113883.6.4", CodeSystemICD10PCS},
		{"icd9cm_sg", CodeSystemICD9CMSG},
	}

	for _, tt := range tests {
		t.Run(tt.alias, func(t *testing.T) {
			id, ok := aliases.Resolve(tt.alias)
			assert.True(t, ok)
			assert.Equal(t, tt.expected, id)
		})
	}

	t.Run("unknown alias", func(t *testing.T) {
		id, ok := aliases.Resolve("CPT")
		assert.False(t, ok)
		assert.Empty(t, id)
	})
}
