package firewall

import (
	"context"
)

// Client talks to an external classification service. Implementations
// must treat any failure as retryable by the caller's fallback, never
// as a request-fatal condition.
type Client interface {
	ScoreThreat(ctx context.Context, content Content, credentials Credentials) (*ScoreResponse, error)
}

type Content struct {
	Input []string `json:"input"`
}

func (c *Content) AddInput(input string) {
	c.Input = append(c.Input, input)
}

type Credentials struct {
	BaseURL string
	Token   string
}

// ScoreResponse is the external scorer's verdict for one prompt.
// RiskScore and Confidence are on a 0-1 scale.
type ScoreResponse struct {
	RiskScore  float64        `json:"risk_score"`
	Confidence float64        `json:"confidence"`
	Categories []string       `json:"categories"`
	Details    map[string]any `json:"details,omitempty"`
}
