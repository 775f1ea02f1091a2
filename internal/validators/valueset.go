package validators

import (
	"context"
	"fmt"
	"strings"

	"github.com/antchfx/xmlquery"

	"github.com/custodia-labs/vocab-validator/internal/core/domain"
	"github.com/custodia-labs/vocab-validator/internal/core/ports/driven"
)

// valuesetRule describes one attribute kind checked against value sets.
// Everything else about the check is shared by runValuesetCheck.
type valuesetRule struct {
	attribute string

	// lookup turns the uppercased attribute value into the value tested for containment.
	lookup func(requested string) string

	// record stores the requested value on the node result.
	record func(r *domain.NodeValidationResult, requested string)

	// miss builds the level and message for a value not found.
	miss func(cfg domain.ConfiguredValidator, r domain.NodeValidationResult, requested, lookedUp string) (domain.Severity, string)
}

func runValuesetCheck(
	ctx context.Context,
	repo driven.ValueSetRepository,
	rule valuesetRule,
	cfg domain.ConfiguredValidator,
	node *xmlquery.Node,
	position int,
) ([]domain.VocabularyValidationResult, error) {
	raw, err := extractAttribute(node, rule.attribute)
	if err != nil {
		return nil, err
	}
	requested := strings.ToUpper(raw)

	result := newNodeResult(cfg, node, position)
	rule.record(&result, requested)

	loaded, err := repo.ValuesetOIDsExist(ctx, cfg.AllowedValuesetOIDs)
	if err != nil {
		return nil, fmt.Errorf("checking value sets %s: %w", result.ConfiguredValuesets, err)
	}
	if !loaded {
		return []domain.VocabularyValidationResult{valuesetNotLoaded(result)}, nil
	}
	result.ValuesetsLoaded = true

	lookedUp := requested
	if rule.lookup != nil {
		lookedUp = rule.lookup(requested)
	}
	found, err := repo.CodeExistsInValueset(ctx, lookedUp, cfg.AllowedValuesetOIDs)
	if err != nil {
		return nil, fmt.Errorf("checking value set membership: %w", err)
	}
	if found {
		return nil, nil
	}

	level, message := rule.miss(cfg, result, requested, lookedUp)
	return []domain.VocabularyValidationResult{{Result: result, Level: level, Message: message}}, nil
}

// ValuesetCodeValidator checks a node's @code against the configured value sets.
type ValuesetCodeValidator struct {
	repo driven.ValueSetRepository
	rule valuesetRule
}

// NewValuesetCodeValidator creates a code validator.
func NewValuesetCodeValidator(repo driven.ValueSetRepository) *ValuesetCodeValidator {
	return newValuesetCodeValidator(repo, AttrCode)
}

func newValuesetCodeValidator(repo driven.ValueSetRepository, attribute string) *ValuesetCodeValidator {
	return &ValuesetCodeValidator{
		repo: repo,
		rule: valuesetRule{
			attribute: attribute,
			record: func(r *domain.NodeValidationResult, requested string) {
				r.RequestedCode = requested
			},
			miss: func(cfg domain.ConfiguredValidator, r domain.NodeValidationResult, requested, _ string) (domain.Severity, string) {
				return cfg.Severity, fmt.Sprintf("Code '%s' does not exist in the value set (%s)", requested, r.ConfiguredValuesets)
			},
		},
	}
}

// Name returns the configured validator name.
func (v *ValuesetCodeValidator) Name() string { return "ValuesetCodeValidator" }

// Validate checks the node's code.
func (v *ValuesetCodeValidator) Validate(
	ctx context.Context, cfg domain.ConfiguredValidator, node *xmlquery.Node, position int,
) ([]domain.VocabularyValidationResult, error) {
	return runValuesetCheck(ctx, v.repo, v.rule, cfg, node, position)
}

// UnitValidator checks a node's @unit against the configured value sets.
// Annotated units (containing '{') that are not found always report SHOULD.
type UnitValidator struct {
	repo driven.ValueSetRepository
	rule valuesetRule
}

// NewUnitValidator creates a unit validator.
func NewUnitValidator(repo driven.ValueSetRepository) *UnitValidator {
	return &UnitValidator{
		repo: repo,
		rule: valuesetRule{
			attribute: AttrUnit,
			record: func(r *domain.NodeValidationResult, requested string) {
				r.RequestedUnit = requested
			},
			miss: func(cfg domain.ConfiguredValidator, r domain.NodeValidationResult, requested, _ string) (domain.Severity, string) {
				level := cfg.Severity
				if strings.Contains(requested, "{") {
					level = domain.SeverityShould
				}
				return level, fmt.Sprintf("Unit '%s' does not exist in the value set (%s)", requested, r.ConfiguredValuesets)
			},
		},
	}
}

// Name returns the configured validator name.
func (v *UnitValidator) Name() string { return "UnitValidator" }

// Validate checks the node's unit.
func (v *UnitValidator) Validate(
	ctx context.Context, cfg domain.ConfiguredValidator, node *xmlquery.Node, position int,
) ([]domain.VocabularyValidationResult, error) {
	return runValuesetCheck(ctx, v.repo, v.rule, cfg, node, position)
}

// LanguageCodeValidator checks a node's @code as a language tag. The region
// suffix is dropped before lookup, so "en-US" is looked up as "EN".
type LanguageCodeValidator struct {
	repo driven.ValueSetRepository
	rule valuesetRule
}

// NewLanguageCodeValidator creates a language code validator.
func NewLanguageCodeValidator(repo driven.ValueSetRepository) *LanguageCodeValidator {
	return &LanguageCodeValidator{
		repo: repo,
		rule: valuesetRule{
			attribute: AttrCode,
			lookup:    StripRegion,
			record: func(r *domain.NodeValidationResult, requested string) {
				r.RequestedCode = requested
			},
			miss: func(cfg domain.ConfiguredValidator, r domain.NodeValidationResult, requested, lookedUp string) (domain.Severity, string) {
				return cfg.Severity, fmt.Sprintf("Code '%s' (from '%s') does not exist in the value set (%s)",
					lookedUp, requested, r.ConfiguredValuesets)
			},
		},
	}
}

// Name returns the configured validator name.
func (v *LanguageCodeValidator) Name() string { return "LanguageCodeValidator" }

// Validate checks the node's language code.
func (v *LanguageCodeValidator) Validate(
	ctx context.Context, cfg domain.ConfiguredValidator, node *xmlquery.Node, position int,
) ([]domain.VocabularyValidationResult, error) {
	return runValuesetCheck(ctx, v.repo, v.rule, cfg, node, position)
}

// StripRegion returns a language tag without anything from the first '-'.
func StripRegion(code string) string {
	base, _, _ := strings.Cut(code, "-")
	return base
}
