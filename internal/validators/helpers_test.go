package validators

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/antchfx/xmlquery"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/vocab-validator/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/vocab-validator/internal/core/domain"
)

const (
	oidProblem  = "2.16.840.1.113883.3.88.12.3221.7.4"
	oidUnits    = "2.16.840.1.113883.1.11.12839"
	oidLanguage = "2.16.840.1.113883.1.11.11526"
	oidMissing  = "1.2.3.4.5.missing"
)

func newTestRepo() *memory.ValueSetStore {
	repo := memory.NewValueSetStore()
	repo.Add(
		domain.ValueSetConcept{ValuesetOID: oidProblem, Code: "55607006", DisplayName: "Problem"},
		domain.ValueSetConcept{ValuesetOID: oidProblem, Code: "404684003", DisplayName: "Finding"},
		domain.ValueSetConcept{ValuesetOID: oidUnits, Code: "mg"},
		domain.ValueSetConcept{ValuesetOID: oidUnits, Code: "mm[Hg]"},
		domain.ValueSetConcept{ValuesetOID: oidLanguage, Code: "en"},
		domain.ValueSetConcept{ValuesetOID: oidLanguage, Code: "fr"},
	)
	return repo
}

// element parses doc and returns the first element matching expr.
func element(t *testing.T, doc, expr string) *xmlquery.Node {
	t.Helper()
	root, err := xmlquery.Parse(strings.NewReader(doc))
	require.NoError(t, err)
	node := xmlquery.FindOne(root, expr)
	require.NotNil(t, node, "no node for %s", expr)
	return node
}

func configured(name string, severity domain.Severity, oids ...string) domain.ConfiguredValidator {
	return domain.ConfiguredValidator{Name: name, AllowedValuesetOIDs: oids, Severity: severity}
}

// failingRepo returns err from every call.
type failingRepo struct {
	err error
}

func (r failingRepo) ValuesetOIDsExist(context.Context, []string) (bool, error) {
	return false, r.err
}

func (r failingRepo) CodeExistsInValueset(context.Context, string, []string) (bool, error) {
	return false, r.err
}

var errRepo = errors.New("repository unavailable")

// mockEngine is a minimal ValidationEngine over a fixed code table.
type mockEngine struct {
	aliases  map[string]string
	loaded   map[string]bool
	displays map[string]map[string]string // codeSystem -> CODE -> display
}

func newMockEngine() *mockEngine {
	return &mockEngine{
		aliases: map[string]string{
			"2.16.840.1.113883.6.96": domain.CodeSystemSNOMEDCT,
			"2.16.840.1.113883.6.1":  domain.CodeSystemLOINC,
			"2.16.840.1.113883.6.88": domain.CodeSystemRxNorm,
		},
		loaded: map[string]bool{domain.CodeSystemSNOMEDCT: true, domain.CodeSystemLOINC: true},
		displays: map[string]map[string]string{
			domain.CodeSystemSNOMEDCT: {"55607006": "Problem", "404684003": "Clinical finding"},
			domain.CodeSystemLOINC:    {"8480-6": ""},
		},
	}
}

func (m *mockEngine) IsCodeSystemLoaded(id string) bool { return m.loaded[id] }

func (m *mockEngine) ValidateCode(id, code string) bool {
	_, ok := m.displays[id][strings.ToUpper(code)]
	return ok
}

func (m *mockEngine) ValidateDisplayName(id, displayName string) bool {
	for _, d := range m.displays[id] {
		if d != "" && strings.EqualFold(d, displayName) {
			return true
		}
	}
	return false
}

func (m *mockEngine) ValidateDisplayNameForCode(id, displayName, code string) (*domain.DisplayNameValidationResult, bool) {
	actual, ok := m.displays[id][strings.ToUpper(code)]
	if !ok {
		return nil, false
	}
	return &domain.DisplayNameValidationResult{
		Code:                   code,
		ActualDisplayName:      actual,
		AnticipatedDisplayName: displayName,
		Result:                 strings.EqualFold(actual, displayName),
	}, true
}

func (m *mockEngine) ValidateCodeByCodeSystemName(name, code string) bool {
	id, ok := m.ResolveCodeSystem(name)
	return ok && m.ValidateCode(id, code)
}

func (m *mockEngine) ValidateDisplayNameByCodeSystemName(name, displayName string) bool {
	id, ok := m.ResolveCodeSystem(name)
	return ok && m.ValidateDisplayName(id, displayName)
}

func (m *mockEngine) ValidateDisplayNameForCodeByCodeSystemName(name, displayName, code string) (*domain.DisplayNameValidationResult, bool) {
	id, ok := m.ResolveCodeSystem(name)
	if !ok {
		return nil, false
	}
	return m.ValidateDisplayNameForCode(id, displayName, code)
}

func (m *mockEngine) ResolveCodeSystem(name string) (string, bool) {
	id, ok := m.aliases[name]
	return id, ok
}

func (m *mockEngine) LoadedCodeSystems() []string {
	var ids []string
	for id := range m.loaded {
		ids = append(ids, id)
	}
	return ids
}
