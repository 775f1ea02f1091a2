package validators

import (
	"context"
	"fmt"
	"strings"

	"github.com/antchfx/xmlquery"

	"github.com/custodia-labs/vocab-validator/internal/core/domain"
	"github.com/custodia-labs/vocab-validator/internal/core/ports/driving"
)

// CodeSystemCodeValidator checks @code against the loaded vocabulary of the
// code system named by @codeSystem, and @displayName when present.
//
// An unknown or unloaded code system is reported at INFO; an unknown code at
// the configured severity; a display name mismatch at WARNING.
type CodeSystemCodeValidator struct {
	engine driving.ValidationEngine
}

// NewCodeSystemCodeValidator creates a validator backed by the validation engine.
func NewCodeSystemCodeValidator(engine driving.ValidationEngine) *CodeSystemCodeValidator {
	return &CodeSystemCodeValidator{engine: engine}
}

// Name returns the configured validator name.
func (v *CodeSystemCodeValidator) Name() string { return "CodeSystemCodeValidator" }

// Validate checks the node's code and display name.
func (v *CodeSystemCodeValidator) Validate(
	_ context.Context, cfg domain.ConfiguredValidator, node *xmlquery.Node, position int,
) ([]domain.VocabularyValidationResult, error) {
	code, err := extractAttribute(node, AttrCode)
	if err != nil {
		return nil, err
	}
	codeSystem, err := extractAttribute(node, AttrCodeSystem)
	if err != nil {
		return nil, err
	}
	displayName, err := extractAttribute(node, AttrDisplayName)
	if err != nil {
		return nil, err
	}

	result := newNodeResult(cfg, node, position)
	result.RequestedCode = strings.ToUpper(code)
	result.RequestedCodeSystem = codeSystem
	result.RequestedDisplayName = displayName

	id, ok := v.engine.ResolveCodeSystem(codeSystem)
	if !ok || !v.engine.IsCodeSystemLoaded(id) {
		return []domain.VocabularyValidationResult{{
			Result:  result,
			Level:   domain.SeverityInfo,
			Message: fmt.Sprintf("Code system '%s' is not loaded, code '%s' was not checked", codeSystem, result.RequestedCode),
		}}, nil
	}
	result.ValuesetsLoaded = true

	if !v.engine.ValidateCode(id, code) {
		return []domain.VocabularyValidationResult{{
			Result:  result,
			Level:   cfg.Severity,
			Message: fmt.Sprintf("Code '%s' does not exist in code system %s", result.RequestedCode, id),
		}}, nil
	}
	result.Found = true

	if strings.TrimSpace(displayName) == "" {
		return nil, nil
	}
	check, ok := v.engine.ValidateDisplayNameForCode(id, displayName, code)
	if !ok || check.Result {
		return nil, nil
	}
	return []domain.VocabularyValidationResult{{
		Result: result,
		Level:  domain.SeverityWarning,
		Message: fmt.Sprintf("Display name '%s' does not match '%s' for code '%s' in code system %s",
			check.AnticipatedDisplayName, check.ActualDisplayName, result.RequestedCode, id),
	}}, nil
}
