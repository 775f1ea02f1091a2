package validators

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"

	"github.com/custodia-labs/vocab-validator/internal/core/domain"
)

// NodeValidator validates one document node.
type NodeValidator interface {
	// Name returns the name used in validator configuration.
	Name() string

	// Validate checks node and returns zero or more results.
	// position is the node's document order. An error means the validator
	// could not run at all (for example a malformed attribute path).
	Validate(ctx context.Context, cfg domain.ConfiguredValidator, node *xmlquery.Node, position int) ([]domain.VocabularyValidationResult, error)
}

// Attribute paths read by the built-in validators.
const (
	AttrCode        = "@code"
	AttrUnit        = "@unit"
	AttrCodeSystem  = "@codeSystem"
	AttrDisplayName = "@displayName"
)

var attributeExprs sync.Map // path -> *xpath.Expr

// extractAttribute evaluates path against node and returns its string value.
// A missing attribute yields "". A malformed path returns ErrInvalidExpression.
func extractAttribute(node *xmlquery.Node, path string) (string, error) {
	expr, err := compileAttribute(path)
	if err != nil {
		return "", err
	}
	value, _ := expr.Evaluate(xmlquery.CreateXPathNavigator(node)).(string)
	return value, nil
}

func compileAttribute(path string) (*xpath.Expr, error) {
	if cached, ok := attributeExprs.Load(path); ok {
		return cached.(*xpath.Expr), nil
	}
	expr, err := xpath.Compile("string(" + path + ")")
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrInvalidExpression, path, err)
	}
	attributeExprs.Store(path, expr)
	return expr, nil
}

// BuildXPath returns an absolute, indexed path to node, such as
// /ClinicalDocument[1]/component[1]/section[2]. Attribute nodes resolve
// to their owning element.
func BuildXPath(node *xmlquery.Node) string {
	if node == nil {
		return ""
	}
	if node.Type == xmlquery.AttributeNode {
		node = node.Parent
	}

	var segments []string
	for n := node; n != nil && n.Type == xmlquery.ElementNode; n = n.Parent {
		segments = append(segments, elementName(n)+"["+strconv.Itoa(siblingIndex(n))+"]")
	}

	var b strings.Builder
	for i := len(segments) - 1; i >= 0; i-- {
		b.WriteString("/")
		b.WriteString(segments[i])
	}
	return b.String()
}

func elementName(n *xmlquery.Node) string {
	if n.Prefix != "" {
		return n.Prefix + ":" + n.Data
	}
	return n.Data
}

// siblingIndex is the 1-based position of n among same-named siblings.
func siblingIndex(n *xmlquery.Node) int {
	index := 1
	for s := n.PrevSibling; s != nil; s = s.PrevSibling {
		if s.Type == xmlquery.ElementNode && s.Data == n.Data && s.NamespaceURI == n.NamespaceURI {
			index++
		}
	}
	return index
}

// newNodeResult starts the observation record shared by every validator.
func newNodeResult(cfg domain.ConfiguredValidator, node *xmlquery.Node, position int) domain.NodeValidationResult {
	return domain.NodeValidationResult{
		XPath:               BuildXPath(node),
		Position:            position,
		ConfiguredValuesets: cfg.AllowedValuesetOIDsString(),
	}
}

// valuesetNotLoaded is the terminal result when none of the configured
// value sets exist. It means the node could not be evaluated.
func valuesetNotLoaded(result domain.NodeValidationResult) domain.VocabularyValidationResult {
	return domain.VocabularyValidationResult{
		Result:  result,
		Level:   domain.SeverityWarning,
		Message: fmt.Sprintf("Value set(s) %s not loaded, node could not be validated", result.ConfiguredValuesets),
	}
}
