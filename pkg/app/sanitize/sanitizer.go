// Package sanitize rewrites prompts to neutralize adversarial phrasing,
// redact sensitive identifiers, and strip injection syntax. Rules run in
// a fixed order so later families only ever see text, never the
// placeholders earlier families produced, and the whole transform is
// idempotent.
package sanitize

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PromptWall/promptwall/pkg/pii"
)

type rewriteRule struct {
	pattern     *regexp.Regexp
	replacement string
	label       string
}

var instructionRules = []rewriteRule{
	{regexp.MustCompile(`(?i)ignore\s+(all\s+)?(previous|prior|above)\s+instructions?`), "[INSTRUCTION_REMOVED]", "instruction override"},
	{regexp.MustCompile(`(?i)disregard\s+(all\s+)?(previous|prior|above)`), "[INSTRUCTION_REMOVED]", "instruction override"},
	{regexp.MustCompile(`(?i)forget\s+(everything|all|what)`), "[INSTRUCTION_REMOVED]", "instruction override"},
	{regexp.MustCompile(`(?i)new\s+instructions?:`), "[INSTRUCTION_REMOVED]", "instruction override"},
	{regexp.MustCompile(`(?i)system\s+prompt:`), "[SYSTEM_REMOVED]", "system prompt reference"},
	{regexp.MustCompile(`(?i)you\s+are\s+now\s+`), "[ROLE_REMOVED] ", "role override"},
	{regexp.MustCompile(`(?i)roleplay\s+as`), "[ROLEPLAY_REMOVED]", "role override"},
	{regexp.MustCompile(`(?i)pretend\s+(you\s+are|to\s+be)`), "[PRETEND_REMOVED]", "role override"},
	{regexp.MustCompile(`(?i)DAN\s+mode`), "[MODE_REMOVED]", "jailbreak mode"},
	{regexp.MustCompile(`(?i)developer\s+mode`), "[MODE_REMOVED]", "jailbreak mode"},
}

var injectionRules = []rewriteRule{
	{regexp.MustCompile(`(?i)';?\s*(DROP|DELETE|INSERT|UPDATE|SELECT)\s+`), "[SQL_REMOVED] ", "sql statement"},
	{regexp.MustCompile(`(?i)(OR|AND)\s+1\s*=\s*1`), "[SQL_REMOVED]", "sql tautology"},
	{regexp.MustCompile(`--\s*$`), "", "sql comment"},
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// Options toggle the rule families for a single call.
type Options struct {
	Instructions  bool
	SensitiveData bool
	Injection     bool
}

func DefaultOptions() Options {
	return Options{Instructions: true, SensitiveData: true, Injection: true}
}

// Sanitizer applies the ordered rewrite families. It is stateless and
// safe for concurrent use.
type Sanitizer struct {
	sensitiveRules []rewriteRule
}

func NewSanitizer() *Sanitizer {
	rules := make([]rewriteRule, 0, len(pii.Patterns))
	for _, p := range pii.Patterns {
		rules = append(rules, rewriteRule{
			pattern:     p.Regex,
			replacement: p.Placeholder,
			label:       string(p.Entity),
		})
	}
	return &Sanitizer{sensitiveRules: rules}
}

// Sanitize rewrites prompt with all families enabled.
func (s *Sanitizer) Sanitize(prompt string) (string, []string) {
	return s.SanitizeWithOptions(prompt, DefaultOptions())
}

// SanitizeWithOptions rewrites prompt under the given toggles. One
// change entry is appended per rule that actually matched; re-running
// the transform on its own output yields the same string and no changes.
func (s *Sanitizer) SanitizeWithOptions(prompt string, opts Options) (string, []string) {
	sanitized := prompt
	var changes []string

	if opts.Instructions {
		sanitized, changes = applyRules(sanitized, instructionRules, "neutralized", changes)
	}
	if opts.SensitiveData {
		sanitized, changes = applyRules(sanitized, s.sensitiveRules, "redacted", changes)
	}
	if opts.Injection {
		sanitized, changes = applyRules(sanitized, injectionRules, "removed", changes)
	}

	sanitized = strings.TrimSpace(whitespaceRun.ReplaceAllString(sanitized, " "))
	return sanitized, changes
}

func applyRules(text string, rules []rewriteRule, verb string, changes []string) (string, []string) {
	for _, rule := range rules {
		if !rule.pattern.MatchString(text) {
			continue
		}
		text = rule.pattern.ReplaceAllString(text, rule.replacement)
		changes = append(changes, fmt.Sprintf("%s %s", verb, rule.label))
	}
	return text, changes
}
