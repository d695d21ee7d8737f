package policy

import (
	"errors"
	"fmt"

	"github.com/PromptWall/promptwall/pkg/domain/firewall"
	"github.com/PromptWall/promptwall/pkg/domain/threat"
)

var (
	ErrEmptyName        = errors.New("rule name is required")
	ErrInvalidAction    = errors.New("invalid rule action")
	ErrInvalidSeverity  = errors.New("invalid rule severity")
	ErrInvalidThreshold = errors.New("rule threshold must be between 0.0 and 1.0")
	ErrDuplicateName    = errors.New("duplicate rule name")
)

// ValidationError pinpoints the rule that made a load fail.
type ValidationError struct {
	Rule string
	Err  error
}

func (e *ValidationError) Error() string {
	if e.Rule == "" {
		return fmt.Sprintf("invalid rule: %v", e.Err)
	}
	return fmt.Sprintf("invalid rule %q: %v", e.Rule, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// Conditions narrows a rule beyond score and severity. Categories is
// any-of: a detection carrying at least one listed category satisfies it.
type Conditions struct {
	Categories []string `mapstructure:"categories" json:"categories,omitempty"`
}

// Rule maps classification conditions to an action. Threshold is a
// 0-1 fraction compared against score/100; Severity is the minimum
// tier. Both predicates must hold, which can leave some combinations
// unreachable - that is a policy-authoring concern, not engine logic.
type Rule struct {
	Name        string          `mapstructure:"name" json:"name"`
	Enabled     bool            `mapstructure:"enabled" json:"enabled"`
	Action      firewall.Action `mapstructure:"action" json:"action"`
	Severity    threat.Severity `mapstructure:"severity" json:"severity"`
	Threshold   float64         `mapstructure:"threshold" json:"threshold"`
	Description string          `mapstructure:"description" json:"description,omitempty"`
	Conditions  Conditions      `mapstructure:"conditions" json:"conditions,omitempty"`
}

func (r *Rule) Validate() error {
	if r.Name == "" {
		return &ValidationError{Err: ErrEmptyName}
	}
	if !r.Action.IsValid() {
		return &ValidationError{Rule: r.Name, Err: fmt.Errorf("%w: %q", ErrInvalidAction, r.Action)}
	}
	if !r.Severity.IsValid() {
		return &ValidationError{Rule: r.Name, Err: fmt.Errorf("%w: %q", ErrInvalidSeverity, r.Severity)}
	}
	if r.Threshold < 0 || r.Threshold > 1 {
		return &ValidationError{Rule: r.Name, Err: fmt.Errorf("%w: got %v", ErrInvalidThreshold, r.Threshold)}
	}
	return nil
}

// Matches evaluates the rule against a detection.
func (r *Rule) Matches(detection *threat.Detection) bool {
	if !r.Enabled {
		return false
	}
	if detection.Score/100 < r.Threshold {
		return false
	}
	if !detection.Severity.AtLeast(r.Severity) {
		return false
	}
	if len(r.Conditions.Categories) > 0 {
		any := false
		for _, required := range r.Conditions.Categories {
			if detection.HasCategory(threat.Category(required)) {
				any = true
				break
			}
		}
		if !any {
			return false
		}
	}
	return true
}

func (r *Rule) toMatch(detection *threat.Detection) *firewall.Match {
	reason := r.Description
	if reason == "" {
		reason = fmt.Sprintf("matched policy: %s", r.Name)
	}
	return &firewall.Match{
		RuleName: r.Name,
		Action:   r.Action,
		Severity: r.Severity,
		Reason:   reason,
		Metadata: map[string]any{
			"threshold":       r.Threshold,
			"detection_score": detection.Score,
		},
	}
}

// ValidateSet validates every rule and rejects duplicate names so a
// partial document can never be activated.
func ValidateSet(rules []Rule) error {
	seen := make(map[string]bool, len(rules))
	for i := range rules {
		if err := rules[i].Validate(); err != nil {
			return err
		}
		if seen[rules[i].Name] {
			return &ValidationError{Rule: rules[i].Name, Err: ErrDuplicateName}
		}
		seen[rules[i].Name] = true
	}
	return nil
}

// DefaultRules is the built-in policy set, evaluated first-match-wins
// in this order.
func DefaultRules() []Rule {
	return []Rule{
		{
			Name:        "block_critical_threats",
			Enabled:     true,
			Action:      firewall.ActionBlock,
			Severity:    threat.SeverityCritical,
			Threshold:   0.85,
			Description: "Block critical threats immediately",
		},
		{
			Name:        "sanitize_high_threats",
			Enabled:     true,
			Action:      firewall.ActionSanitize,
			Severity:    threat.SeverityHigh,
			Threshold:   0.65,
			Description: "Sanitize high-severity prompts",
		},
		{
			Name:        "log_medium_threats",
			Enabled:     true,
			Action:      firewall.ActionLog,
			Severity:    threat.SeverityMedium,
			Threshold:   0.40,
			Description: "Log medium-severity prompts",
		},
		{
			Name:        "allow_safe_prompts",
			Enabled:     true,
			Action:      firewall.ActionAllow,
			Severity:    threat.SeveritySafe,
			Threshold:   0.0,
			Description: "Allow safe prompts",
		},
	}
}
