package firewall

import (
	"time"

	"github.com/PromptWall/promptwall/pkg/domain/threat"
)

// Action is the decision a policy rule maps a detection to.
type Action string

const (
	ActionAllow    Action = "allow"
	ActionBlock    Action = "block"
	ActionSanitize Action = "sanitize"
	ActionLog      Action = "log"
	ActionAlert    Action = "alert"
)

func (a Action) IsValid() bool {
	switch a {
	case ActionAllow, ActionBlock, ActionSanitize, ActionLog, ActionAlert:
		return true
	}
	return false
}

// Request is one prompt submitted for inspection. It is owned by the
// orchestrator for the duration of a single check.
type Request struct {
	Prompt    string    `json:"prompt"`
	UserID    string    `json:"user_id,omitempty"`
	SessionID string    `json:"session_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Match identifies the policy rule that decided a request. DefaultRuleName
// marks the synthetic allow returned when no rule matched.
type Match struct {
	RuleName string         `json:"policy_name"`
	Action   Action         `json:"action"`
	Severity threat.Severity `json:"severity"`
	Reason   string         `json:"reason"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

const DefaultRuleName = "default_allow"

// Verdict is the firewall decision for one request. Allowed is false iff
// Action is block; SanitizedPrompt is non-empty iff Action is sanitize.
// Once handed to the ledger it is read-only history.
type Verdict struct {
	Action          Action            `json:"action"`
	Allowed         bool              `json:"allowed"`
	OriginalPrompt  string            `json:"original_prompt"`
	SanitizedPrompt string            `json:"sanitized_prompt,omitempty"`
	Score           float64           `json:"threat_score"`
	Severity        threat.Severity   `json:"threat_level"`
	Detection       *threat.Detection `json:"detection,omitempty"`
	Match           *Match            `json:"policy_match,omitempty"`
	Message         string            `json:"message"`
	Timestamp       time.Time         `json:"timestamp"`
	ProcessingMs    float64           `json:"processing_time_ms"`
}
