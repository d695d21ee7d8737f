// Package pii provides sensitive-data entity types and their detection
// patterns, shared by the sanitizer and anything that needs to ask
// "does this text carry identifiers".
package pii

import "regexp"

// Entity represents a type of sensitive data that can be detected.
type Entity string

const (
	SSN          Entity = "ssn"
	CreditCard   Entity = "credit_card"
	Email        Entity = "email"
	PhoneNumber  Entity = "phone_number"
	APIKey       Entity = "api_key"
	GenericToken Entity = "generic_token"
)

// Pattern couples an entity with one compiled expression and the
// placeholder it is rewritten to. Entities may contribute more than one
// pattern; order matters because earlier patterns must consume text
// before broader ones (the generic token pattern is deliberately last).
type Pattern struct {
	Entity      Entity
	Regex       *regexp.Regexp
	Placeholder string
}

var Patterns = []Pattern{
	{SSN, regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`), "[SSN_REDACTED]"},
	{SSN, regexp.MustCompile(`\b\d{9}\b`), "[SSN_REDACTED]"},
	{CreditCard, regexp.MustCompile(`\b\d{4}[\s-]?\d{4}[\s-]?\d{4}[\s-]?\d{4}\b`), "[CARD_REDACTED]"},
	{Email, regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`), "[EMAIL_REDACTED]"},
	{PhoneNumber, regexp.MustCompile(`\b\d{3}[-.]?\d{3}[-.]?\d{4}\b`), "[PHONE_REDACTED]"},
	{PhoneNumber, regexp.MustCompile(`\(\d{3}\)\s*\d{3}[-.]?\d{4}`), "[PHONE_REDACTED]"},
	{APIKey, regexp.MustCompile(`sk-[a-zA-Z0-9]{32,}`), "[API_KEY_REDACTED]"},
	{GenericToken, regexp.MustCompile(`[a-zA-Z0-9_-]{32,}`), "[TOKEN_REDACTED]"},
}

// Contains reports whether text matches any known entity pattern.
func Contains(text string) bool {
	for _, p := range Patterns {
		if p.Regex.MatchString(text) {
			return true
		}
	}
	return false
}

// Types returns the distinct entities present in text, in pattern order.
func Types(text string) []Entity {
	var found []Entity
	seen := make(map[Entity]bool)
	for _, p := range Patterns {
		if seen[p.Entity] || !p.Regex.MatchString(text) {
			continue
		}
		seen[p.Entity] = true
		found = append(found, p.Entity)
	}
	return found
}
