package detection

import (
	"context"
	"fmt"
	"time"

	"github.com/PromptWall/promptwall/pkg/domain/threat"
	infraFirewall "github.com/PromptWall/promptwall/pkg/infra/firewall"
)

const RemoteStrategyName = "remote"

const defaultRemoteTimeout = 5 * time.Second

// RemoteStrategy delegates scoring to an external classification service.
// The service reports on a 0-1 scale; scores are rescaled to 0-100 and
// bucketed with the coarser 0.3/0.5/0.7/0.9 breakpoints the service is
// calibrated against.
type RemoteStrategy struct {
	client      infraFirewall.Client
	credentials infraFirewall.Credentials
	threshold   float64
	timeout     time.Duration
}

func NewRemoteStrategy(
	client infraFirewall.Client,
	credentials infraFirewall.Credentials,
	threshold float64,
	timeout time.Duration,
) *RemoteStrategy {
	if threshold <= 0 {
		threshold = 0.5
	}
	if timeout <= 0 {
		timeout = defaultRemoteTimeout
	}
	return &RemoteStrategy{
		client:      client,
		credentials: credentials,
		threshold:   threshold,
		timeout:     timeout,
	}
}

func (s *RemoteStrategy) Name() string { return RemoteStrategyName }

func (s *RemoteStrategy) Score(ctx context.Context, prompt string) (*threat.Detection, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	content := infraFirewall.Content{}
	content.AddInput(prompt)

	resp, err := s.client.ScoreThreat(ctx, content, s.credentials)
	if err != nil {
		return nil, fmt.Errorf("remote scoring failed: %w", err)
	}

	risk := resp.RiskScore
	if risk < 0 {
		risk = 0
	}
	if risk > 1 {
		risk = 1
	}

	var severity threat.Severity
	switch {
	case risk >= 0.9:
		severity = threat.SeverityCritical
	case risk >= 0.7:
		severity = threat.SeverityHigh
	case risk >= 0.5:
		severity = threat.SeverityMedium
	case risk >= 0.3:
		severity = threat.SeverityLow
	default:
		severity = threat.SeveritySafe
	}

	categories := make([]threat.Category, 0, len(resp.Categories))
	for _, c := range resp.Categories {
		categories = append(categories, threat.Category(c))
	}

	details := resp.Details
	if details == nil {
		details = map[string]any{}
	}
	details["method"] = RemoteStrategyName

	return &threat.Detection{
		Score:      risk * 100,
		Severity:   severity,
		Flagged:    risk >= s.threshold,
		Categories: categories,
		Confidence: resp.Confidence,
		Details:    details,
	}, nil
}
