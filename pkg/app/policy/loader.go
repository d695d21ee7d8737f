package policy

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// Document is the on-disk shape of a policy file.
type Document struct {
	Policies []Rule `mapstructure:"policies"`
}

// LoadFile reads and validates a YAML policy document. Any malformed
// entry fails the whole load; callers keep their previous rule set.
func LoadFile(path string) ([]Rule, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read policy file %s: %w", path, err)
	}

	var doc Document
	if err := v.Unmarshal(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode policy file %s: %w", path, err)
	}

	if err := ValidateSet(doc.Policies); err != nil {
		return nil, err
	}

	return doc.Policies, nil
}

// RuleFromMap decodes a single rule from loosely typed settings, as
// received on the management API.
func RuleFromMap(settings map[string]any) (Rule, error) {
	var rule Rule
	if err := mapstructure.Decode(settings, &rule); err != nil {
		return Rule{}, fmt.Errorf("failed to decode rule: %w", err)
	}
	if err := rule.Validate(); err != nil {
		return Rule{}, err
	}
	return rule, nil
}
