package file

import (
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/vocab-validator/internal/core/domain"
)

// ValidatorConfig is the decoded node validator definition file.
type ValidatorConfig struct {
	// Namespaces maps XPath prefixes to namespace URIs.
	Namespaces map[string]string

	// Expressions select nodes and name the validators applied to them.
	Expressions []domain.ConfiguredExpression
}

// validatorFile mirrors the TOML layout:
//
//	[namespaces]
//	v3 = "urn:hl7-org:v3"
//
//	[[expression]]
//	xpath = "//v3:code"
//
//	  [[expression.validator]]
//	  name = "ValuesetCodeValidator"
//	  allowed_valueset_oids = "2.16.840.1.113883.3.88.12.3221.7.4"
//	  severity = "SHOULD"
type validatorFile struct {
	Namespaces map[string]string `toml:"namespaces"`
	Expression []struct {
		XPath     string `toml:"xpath"`
		Validator []struct {
			Name                string `toml:"name"`
			AllowedValuesetOIDs string `toml:"allowed_valueset_oids"`
			Severity            string `toml:"severity"`
		} `toml:"validator"`
	} `toml:"expression"`
}

// LoadValidatorConfig reads and checks a validator definition file.
// A validator without a severity reports at ERROR.
func LoadValidatorConfig(path string) (*ValidatorConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading validator config: %w", err)
	}
	cfg, err := ParseValidatorConfig(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// ParseValidatorConfig decodes validator definitions from TOML.
func ParseValidatorConfig(data []byte) (*ValidatorConfig, error) {
	var raw validatorFile
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}

	cfg := &ValidatorConfig{Namespaces: raw.Namespaces}
	if cfg.Namespaces == nil {
		cfg.Namespaces = map[string]string{}
	}

	for i, e := range raw.Expression {
		xpath := strings.TrimSpace(e.XPath)
		if xpath == "" {
			return nil, fmt.Errorf("%w: expression %d has no xpath", domain.ErrInvalidInput, i+1)
		}

		expr := domain.ConfiguredExpression{XPath: xpath}
		for j, v := range e.Validator {
			name := strings.TrimSpace(v.Name)
			if name == "" {
				return nil, fmt.Errorf("%w: expression %d validator %d has no name", domain.ErrInvalidInput, i+1, j+1)
			}

			severity := domain.SeverityError
			if strings.TrimSpace(v.Severity) != "" {
				parsed, err := domain.ParseSeverity(v.Severity)
				if err != nil {
					return nil, fmt.Errorf("expression %d validator %s: %w", i+1, name, err)
				}
				severity = parsed
			}

			expr.Validators = append(expr.Validators, domain.ConfiguredValidator{
				Name:                name,
				AllowedValuesetOIDs: domain.ParseValuesetOIDs(v.AllowedValuesetOIDs),
				Severity:            severity,
			})
		}
		cfg.Expressions = append(cfg.Expressions, expr)
	}
	return cfg, nil
}
