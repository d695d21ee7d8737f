package audit

import (
	"context"
	"time"

	"github.com/PromptWall/promptwall/pkg/domain/firewall"
	"github.com/PromptWall/promptwall/pkg/domain/threat"
	"github.com/google/uuid"
)

// Record is one firewall decision flattened for append-only storage.
// Records are never updated; Clear is the only way they go away.
type Record struct {
	ID           uuid.UUID       `json:"request_id" gorm:"type:uuid;primaryKey"`
	Timestamp    time.Time       `json:"timestamp" gorm:"index"`
	UserID       string          `json:"user_id,omitempty"`
	SessionID    string          `json:"session_id,omitempty"`
	Prompt       string          `json:"prompt"`
	Action       firewall.Action `json:"action"`
	Allowed      bool            `json:"allowed"`
	Score        float64         `json:"threat_score"`
	Severity     threat.Severity `json:"threat_level" gorm:"index"`
	RuleName     string          `json:"policy_matched,omitempty"`
	Sanitized    bool            `json:"sanitized"`
	Confidence   float64         `json:"confidence"`
	Categories   string          `json:"categories,omitempty"`
	ProcessingMs float64         `json:"processing_time_ms"`
}

func (Record) TableName() string {
	return "audit_records"
}

// Flagged reports whether the record belongs in the threat tail.
func (r Record) Flagged() bool {
	return r.Severity.Flagged()
}

// Stats are the ledger's running counters plus rates derived on read.
// Counters only grow until an explicit reset; blocked+sanitized+allowed
// may be less than total when log/alert actions were recorded.
type Stats struct {
	TotalRequests   int64   `json:"total_requests"`
	Blocked         int64   `json:"blocked"`
	Sanitized       int64   `json:"sanitized"`
	Allowed         int64   `json:"allowed"`
	ThreatsDetected int64   `json:"threats_detected"`
	BlockRate       float64 `json:"block_rate"`
	SanitizeRate    float64 `json:"sanitize_rate"`
	ThreatRate      float64 `json:"threat_rate"`
}

// Repository is the append-only record sink the ledger writes through.
// Tail queries return up to limit records in arrival order, oldest first.
type Repository interface {
	Append(ctx context.Context, record *Record) error
	Tail(ctx context.Context, limit int) ([]Record, error)
	TailFlagged(ctx context.Context, limit int) ([]Record, error)
	Clear(ctx context.Context) error
}
