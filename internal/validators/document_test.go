package validators

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/vocab-validator/internal/core/domain"
)

const cdaDocument = `<?xml version="1.0" encoding="UTF-8"?>
<ClinicalDocument xmlns="urn:hl7-org:v3">
  <languageCode code="en-US"/>
  <component>
    <section>
      <code code="55607006" codeSystem="2.16.840.1.113883.6.96"/>
      <value unit="{beats}/min"/>
    </section>
    <section>
      <code code="bogus" codeSystem="2.16.840.1.113883.6.96"/>
      <value unit="mg"/>
    </section>
  </component>
</ClinicalDocument>`

var cdaNamespaces = map[string]string{"cda": "urn:hl7-org:v3"}

func TestDocumentValidator_Validate(t *testing.T) {
	registry := NewDefaultRegistry(newTestRepo(), newMockEngine())
	dv, err := NewDocumentValidator(registry, cdaNamespaces, []domain.ConfiguredExpression{
		{
			XPath: "//cda:section/cda:code",
			Validators: []domain.ConfiguredValidator{
				configured("ValuesetCodeValidator", domain.SeverityError, oidProblem),
				configured("CodeSystemCodeValidator", domain.SeverityWarning),
			},
		},
		{
			XPath:      "//cda:value/@unit",
			Validators: []domain.ConfiguredValidator{configured("UnitValidator", domain.SeverityError, oidUnits)},
		},
		{
			XPath:      "/cda:ClinicalDocument/cda:languageCode",
			Validators: []domain.ConfiguredValidator{configured("LanguageCodeValidator", domain.SeverityError, oidLanguage)},
		},
	})
	require.NoError(t, err)

	report, err := dv.Validate(context.Background(), strings.NewReader(cdaDocument))
	require.NoError(t, err)

	require.Len(t, report.Results, 3)
	assert.Equal(t, 7, report.Nodes)

	unit := report.Results[0]
	assert.Equal(t, domain.SeverityShould, unit.Level)
	assert.Equal(t, "{BEATS}/MIN", unit.Result.RequestedUnit)
	assert.Equal(t, "/ClinicalDocument[1]/component[1]/section[1]/value[1]", unit.Result.XPath)

	code := report.Results[1]
	assert.Equal(t, domain.SeverityError, code.Level)
	assert.Equal(t, "BOGUS", code.Result.RequestedCode)
	assert.Equal(t, "/ClinicalDocument[1]/component[1]/section[2]/code[1]", code.Result.XPath)

	system := report.Results[2]
	assert.Equal(t, domain.SeverityWarning, system.Level)
	assert.Equal(t, code.Result.Position, system.Result.Position)
	assert.Less(t, unit.Result.Position, code.Result.Position)

	assert.Equal(t, 1, report.Counts[domain.SeverityError])
	assert.True(t, report.HasErrors())
}

func TestDocumentValidator_DefaultSeverity(t *testing.T) {
	dv, err := NewDocumentValidator(NewDefaultRegistry(newTestRepo(), nil), nil, []domain.ConfiguredExpression{{
		XPath:      "//code",
		Validators: []domain.ConfiguredValidator{{Name: "ValuesetCodeValidator", AllowedValuesetOIDs: []string{oidProblem}}},
	}})
	require.NoError(t, err)

	report, err := dv.Validate(context.Background(), strings.NewReader(`<doc><code code="nope"/></doc>`))

	require.NoError(t, err)
	require.Len(t, report.Results, 1)
	assert.Equal(t, domain.SeverityError, report.Results[0].Level)
}

func TestNewDocumentValidator_MalformedExpression(t *testing.T) {
	_, err := NewDocumentValidator(NewRegistry(), nil, []domain.ConfiguredExpression{{XPath: "//code[@"}})

	assert.ErrorIs(t, err, domain.ErrInvalidExpression)
}

func TestNewDocumentValidator_UnknownValidator(t *testing.T) {
	_, err := NewDocumentValidator(NewRegistry(), nil, []domain.ConfiguredExpression{{
		XPath:      "//code",
		Validators: []domain.ConfiguredValidator{{Name: "Missing"}},
	}})

	assert.ErrorIs(t, err, domain.ErrUnknownValidator)
}

func TestDocumentValidator_MalformedDocument(t *testing.T) {
	dv, err := NewDocumentValidator(NewRegistry(), nil, nil)
	require.NoError(t, err)

	_, err = dv.Validate(context.Background(), strings.NewReader(`<doc><unclosed></doc>`))

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDocumentValidator_RepositoryErrorAborts(t *testing.T) {
	dv, err := NewDocumentValidator(NewDefaultRegistry(failingRepo{err: errRepo}, nil), nil, []domain.ConfiguredExpression{{
		XPath:      "//code",
		Validators: []domain.ConfiguredValidator{configured("ValuesetCodeValidator", domain.SeverityError, oidProblem)},
	}})
	require.NoError(t, err)

	_, err = dv.Validate(context.Background(), strings.NewReader(`<doc><code code="x"/></doc>`))

	assert.ErrorIs(t, err, errRepo)
}

func TestDocumentValidator_CancelledContext(t *testing.T) {
	dv, err := NewDocumentValidator(NewDefaultRegistry(newTestRepo(), nil), nil, []domain.ConfiguredExpression{{
		XPath:      "//code",
		Validators: []domain.ConfiguredValidator{configured("ValuesetCodeValidator", domain.SeverityError, oidProblem)},
	}})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = dv.Validate(ctx, strings.NewReader(`<doc><code code="x"/></doc>`))

	assert.ErrorIs(t, err, context.Canceled)
}

func TestBuildXPath_Prefixed(t *testing.T) {
	node := element(t, `<a:root xmlns:a="urn:a"><a:item/><a:item><a:leaf/></a:item></a:root>`, "//*[local-name()='leaf']")

	assert.Equal(t, "/a:root[1]/a:item[2]/a:leaf[1]", BuildXPath(node))
}
