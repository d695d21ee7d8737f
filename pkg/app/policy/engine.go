package policy

import (
	"sync"

	"github.com/PromptWall/promptwall/pkg/domain/firewall"
	"github.com/PromptWall/promptwall/pkg/domain/threat"
	"github.com/sirupsen/logrus"
)

// Engine holds the ordered active rule set and evaluates detections
// against it first-match-wins. The set is replaced atomically: concurrent
// Evaluate calls see either the old set in full or the new one.
type Engine struct {
	mu     sync.RWMutex
	rules  []Rule
	logger logrus.FieldLogger
}

// NewEngine starts with the built-in default rules.
func NewEngine(logger logrus.FieldLogger) *Engine {
	return &Engine{
		rules:  DefaultRules(),
		logger: logger,
	}
}

// Evaluate returns the first matching rule's decision, or a synthetic
// default allow when nothing matches.
func (e *Engine) Evaluate(detection *threat.Detection) *firewall.Match {
	e.mu.RLock()
	rules := e.rules
	e.mu.RUnlock()

	for i := range rules {
		if rules[i].Matches(detection) {
			return rules[i].toMatch(detection)
		}
	}

	return &firewall.Match{
		RuleName: firewall.DefaultRuleName,
		Action:   firewall.ActionAllow,
		Severity: threat.SeveritySafe,
		Reason:   "no policy matched",
	}
}

// Load replaces the active rule set wholesale. A validation failure
// rejects the entire document and keeps the previous set active.
func (e *Engine) Load(rules []Rule) error {
	if err := ValidateSet(rules); err != nil {
		return err
	}

	next := make([]Rule, len(rules))
	copy(next, rules)

	e.mu.Lock()
	e.rules = next
	e.mu.Unlock()

	e.logger.WithField("rules", len(next)).Info("policy set activated")
	return nil
}

// Add appends one rule to the active set.
func (e *Engine) Add(rule Rule) error {
	if err := rule.Validate(); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	for i := range e.rules {
		if e.rules[i].Name == rule.Name {
			return &ValidationError{Rule: rule.Name, Err: ErrDuplicateName}
		}
	}

	next := make([]Rule, len(e.rules), len(e.rules)+1)
	copy(next, e.rules)
	e.rules = append(next, rule)
	return nil
}

// Remove drops the named rule, reporting whether it existed.
func (e *Engine) Remove(name string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	next := make([]Rule, 0, len(e.rules))
	for i := range e.rules {
		if e.rules[i].Name != name {
			next = append(next, e.rules[i])
		}
	}
	removed := len(next) < len(e.rules)
	if removed {
		e.rules = next
	}
	return removed
}

// Rules returns a snapshot of the active set in evaluation order.
func (e *Engine) Rules() []Rule {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make([]Rule, len(e.rules))
	copy(out, e.rules)
	return out
}
