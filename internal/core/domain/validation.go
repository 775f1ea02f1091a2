package domain

import (
	"fmt"
	"strings"
)

// Severity classifies the importance of a validation finding.
type Severity string

const (
	// SeverityError marks a finding that makes the document invalid.
	SeverityError Severity = "ERROR"
	// SeverityWarning marks a potential problem that should be reviewed.
	SeverityWarning Severity = "WARNING"
	// SeverityShould marks a deviation from a SHOULD conformance statement.
	SeverityShould Severity = "SHOULD"
	// SeverityMay marks a deviation from a MAY conformance statement.
	SeverityMay Severity = "MAY"
	// SeverityInfo marks informational feedback.
	SeverityInfo Severity = "INFO"
)

// Severities lists every severity from most to least important.
var Severities = []Severity{SeverityError, SeverityWarning, SeverityShould, SeverityMay, SeverityInfo}

// ParseSeverity converts a configured severity name (case-insensitive).
func ParseSeverity(s string) (Severity, error) {
	sev := Severity(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range Severities {
		if sev == known {
			return sev, nil
		}
	}
	return "", fmt.Errorf("%w: unknown severity %q", ErrInvalidInput, s)
}

// Rank orders severities; lower is more important. Unknown severities rank last.
func (s Severity) Rank() int {
	for i, known := range Severities {
		if s == known {
			return i
		}
	}
	return len(Severities)
}

// ConfiguredValidator is a validator definition taken from external configuration.
type ConfiguredValidator struct {
	// Name selects the NodeValidator implementation.
	Name string

	// AllowedValuesetOIDs are the value sets a node value may belong to.
	// Multiple OIDs are a union.
	AllowedValuesetOIDs []string

	// Severity is the level reported when a value is not found.
	Severity Severity
}

// AllowedValuesetOIDsString returns the OIDs in their configured comma-separated form.
func (c ConfiguredValidator) AllowedValuesetOIDsString() string {
	return strings.Join(c.AllowedValuesetOIDs, ",")
}

// ParseValuesetOIDs splits a comma-separated OID list, dropping blanks and duplicates
// while keeping the configured order.
func ParseValuesetOIDs(s string) []string {
	parts := strings.Split(s, ",")
	seen := make(map[string]bool, len(parts))
	oids := make([]string, 0, len(parts))
	for _, p := range parts {
		oid := strings.TrimSpace(p)
		if oid == "" || seen[oid] {
			continue
		}
		seen[oid] = true
		oids = append(oids, oid)
	}
	return oids
}

// ConfiguredExpression pairs a node selection expression with the validators
// applied to every node it selects.
type ConfiguredExpression struct {
	// XPath selects the document nodes to validate.
	XPath string

	// Validators run against each selected node.
	Validators []ConfiguredValidator
}

// NodeValidationResult records what a validator observed on one document node.
type NodeValidationResult struct {
	// XPath locates the validated node in the document.
	XPath string

	// Position is the node's document order, used to sort the report.
	Position int

	// RequestedCode is the normalized code read from the node.
	RequestedCode string

	// RequestedUnit is the normalized unit read from the node.
	RequestedUnit string

	// RequestedCodeSystem is the code system read from the node, if any.
	RequestedCodeSystem string

	// RequestedDisplayName is the display name read from the node, if any.
	RequestedDisplayName string

	// ConfiguredValuesets is the comma-separated list of allowed value set OIDs.
	ConfiguredValuesets string

	// Found is true when the value was found in the configured value sets.
	Found bool

	// ValuesetsLoaded is true when at least one configured value set exists.
	ValuesetsLoaded bool
}

// VocabularyValidationResult is one severity-graded diagnostic.
type VocabularyValidationResult struct {
	Result  NodeValidationResult
	Level   Severity
	Message string
}

// String returns a human-readable representation of the result.
func (r VocabularyValidationResult) String() string {
	return fmt.Sprintf("%s: %s at %s", r.Level, r.Message, r.Result.XPath)
}

// DisplayNameValidationResult compares an expected display name with the loaded one.
type DisplayNameValidationResult struct {
	Code                   string
	ActualDisplayName      string
	AnticipatedDisplayName string
	Result                 bool
}

// ValueSetConcept is one code belonging to an externally defined value set.
type ValueSetConcept struct {
	ValuesetOID    string `db:"valueset_oid"`
	ValuesetName   string `db:"valueset_name"`
	Code           string `db:"code"`
	DisplayName    string `db:"display_name"`
	CodeSystem     string `db:"code_system"`
	CodeSystemName string `db:"code_system_name"`
}
