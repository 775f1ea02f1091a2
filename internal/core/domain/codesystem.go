package domain

// Internal code system identifiers. Each matches the CodeSystem() of a built-in loader.
const (
	CodeSystemSNOMEDCT = "SNOMEDCT"
	CodeSystemLOINC    = "LOINC"
	CodeSystemRxNorm   = "RXNORM"
	CodeSystemICD9CMDX = "ICD9CM_DX"
	CodeSystemICD9CMSG = "ICD9CM_SG"
	CodeSystemICD10CM  = "ICD10CM"
	CodeSystemICD10PCS = "ICD10PCS"
)

// CodeSystemAliases maps human-facing names, OIDs and FHIR system URIs
// (uppercased) to internal code system identifiers.
type CodeSystemAliases map[string]string

// DefaultCodeSystemAliases returns the built-in alias table.
func DefaultCodeSystemAliases() CodeSystemAliases {
	aliases := CodeSystemAliases{}
	add := func(id string, names ...string) {
		aliases[NormalizeKey(id)] = id
		for _, n := range names {
			aliases[NormalizeKey(n)] = id
		}
	}

	add(CodeSystemSNOMEDCT, "SNOMED-CT", "SNOMED CT", "SNOMED", "2.16.840.1.113883.6.96", "http://snomed.info/sct")
	add(CodeSystemLOINC, "2.16.840.1.113883.6.1", "http://loinc.org")
	add(CodeSystemRxNorm, "RxNorm", "2.16.840.1.113883.6.88", "http://www.nlm.nih.gov/research/umls/rxnorm")
	add(CodeSystemICD9CMDX, "ICD9CM", "ICD-9-CM", "ICD9CM_DX", "2.16.840.1.113883.6.103")
	add(CodeSystemICD9CMSG, "ICD-9-CM Procedures", "2.16.840.1.113883.6.104")
	add(CodeSystemICD10CM, "ICD-10-CM", "ICD10", "2.16.840.1.113883.6.90", "http://hl7.org/fhir/sid/icd-10-cm")
	add(CodeSystemICD10PCS, "ICD-10-PCS", "2.16.840.1.113883.6.4", "http://www.cms.gov/Medicare/Coding/ICD10")

	return aliases
}

// Resolve returns the internal code system ID for an alias.
// The second return value is false when the alias is unknown.
func (a CodeSystemAliases) Resolve(alias string) (string, bool) {
	id, ok := a[NormalizeKey(alias)]
	return id, ok
}
