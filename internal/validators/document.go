package validators

import (
	"context"
	"fmt"
	"io"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"

	"github.com/custodia-labs/vocab-validator/internal/core/domain"
	"github.com/custodia-labs/vocab-validator/internal/logger"
)

type compiledExpression struct {
	source     string
	expr       *xpath.Expr
	validators []boundValidator
}

type boundValidator struct {
	config    domain.ConfiguredValidator
	validator NodeValidator
}

// DocumentValidator applies configured expressions and validators to XML documents.
// It is safe for concurrent use once constructed.
type DocumentValidator struct {
	expressions []compiledExpression
}

// NewDocumentValidator compiles every expression and resolves every validator
// name up front, so configuration mistakes surface before any document is read.
func NewDocumentValidator(
	registry *Registry,
	namespaces map[string]string,
	expressions []domain.ConfiguredExpression,
) (*DocumentValidator, error) {
	compiled := make([]compiledExpression, 0, len(expressions))
	for _, e := range expressions {
		expr, err := xpath.CompileWithNS(e.XPath, namespaces)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", domain.ErrInvalidExpression, e.XPath, err)
		}

		ce := compiledExpression{source: e.XPath, expr: expr}
		for _, cfg := range e.Validators {
			v, err := registry.Get(cfg.Name)
			if err != nil {
				return nil, fmt.Errorf("expression %s: %w", e.XPath, err)
			}
			if cfg.Severity == "" {
				cfg.Severity = domain.SeverityError
			}
			ce.validators = append(ce.validators, boundValidator{config: cfg, validator: v})
		}
		compiled = append(compiled, ce)
	}
	return &DocumentValidator{expressions: compiled}, nil
}

// Validate parses the document and runs every configured validator on every
// selected node. A validator error aborts the run.
func (d *DocumentValidator) Validate(ctx context.Context, r io.Reader) (*Report, error) {
	doc, err := xmlquery.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("%w: parse document: %w", domain.ErrInvalidInput, err)
	}
	positions := documentOrder(doc)

	var (
		results []domain.VocabularyValidationResult
		nodes   int
	)
	for _, ce := range d.expressions {
		selected := xmlquery.QuerySelectorAll(doc, ce.expr)
		logger.Debug("Expression %s selected %d nodes", ce.source, len(selected))

		for _, node := range selected {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if node.Type == xmlquery.AttributeNode {
				node = node.Parent
			}
			position := positions[node]
			for _, bv := range ce.validators {
				found, err := bv.validator.Validate(ctx, bv.config, node, position)
				if err != nil {
					return nil, fmt.Errorf("%s at %s: %w", bv.config.Name, BuildXPath(node), err)
				}
				nodes++
				results = append(results, found...)
			}
		}
	}

	report := NewReport(results, nodes)
	logger.Debug("Document validation produced %d results over %d evaluations", len(report.Results), nodes)
	return report, nil
}

// documentOrder numbers every element in pre-order starting at 1.
func documentOrder(doc *xmlquery.Node) map[*xmlquery.Node]int {
	positions := make(map[*xmlquery.Node]int)
	next := 1
	var walk func(n *xmlquery.Node)
	walk = func(n *xmlquery.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != xmlquery.ElementNode {
				continue
			}
			positions[c] = next
			next++
			walk(c)
		}
	}
	walk(doc)
	return positions
}
