package firewall

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	domain "github.com/PromptWall/promptwall/pkg/domain/firewall"
	"github.com/PromptWall/promptwall/pkg/domain/threat"
	"github.com/PromptWall/promptwall/pkg/infra/prometheus"
	"github.com/sirupsen/logrus"
)

// ErrEmptyPrompt rejects a single malformed request; it is the only
// error Check ever returns.
var ErrEmptyPrompt = errors.New("prompt is required")

type Detector interface {
	Detect(ctx context.Context, prompt string) *threat.Detection
}

type PolicyEvaluator interface {
	Evaluate(detection *threat.Detection) *domain.Match
}

type Sanitizer interface {
	Sanitize(prompt string) (string, []string)
}

// Ledger receives every verdict for audit. Recording is best-effort
// from the orchestrator's point of view.
type Ledger interface {
	Record(ctx context.Context, req *domain.Request, verdict *domain.Verdict) string
}

// Service composes detection, policy evaluation and sanitization into
// one check cycle. It holds no per-request state.
type Service struct {
	detector  Detector
	policies  PolicyEvaluator
	sanitizer Sanitizer
	ledger    Ledger
	logger    logrus.FieldLogger
}

func NewService(
	detector Detector,
	policies PolicyEvaluator,
	sanitizer Sanitizer,
	ledger Ledger,
	logger logrus.FieldLogger,
) *Service {
	return &Service{
		detector:  detector,
		policies:  policies,
		sanitizer: sanitizer,
		ledger:    ledger,
		logger:    logger,
	}
}

// Check classifies the prompt, evaluates policy, applies the selected
// action and records the verdict before returning it.
func (s *Service) Check(ctx context.Context, req domain.Request) (*domain.Verdict, error) {
	if strings.TrimSpace(req.Prompt) == "" {
		return nil, ErrEmptyPrompt
	}
	if req.Timestamp.IsZero() {
		req.Timestamp = time.Now().UTC()
	}

	start := time.Now()

	detection := s.detector.Detect(ctx, req.Prompt)
	match := s.policies.Evaluate(detection)
	verdict := s.executeAction(&req, detection, match)

	verdict.ProcessingMs = float64(time.Since(start).Microseconds()) / 1000

	prometheus.DecisionTotal.WithLabelValues(string(verdict.Action)).Inc()
	prometheus.DecisionLatency.WithLabelValues(string(verdict.Action)).Observe(verdict.ProcessingMs)
	if detection.Severity.Flagged() {
		prometheus.ThreatsDetected.WithLabelValues(string(detection.Severity)).Inc()
	}

	s.ledger.Record(ctx, &req, verdict)

	return verdict, nil
}

func (s *Service) executeAction(
	req *domain.Request,
	detection *threat.Detection,
	match *domain.Match,
) *domain.Verdict {
	verdict := &domain.Verdict{
		Action:         match.Action,
		Allowed:        match.Action != domain.ActionBlock,
		OriginalPrompt: req.Prompt,
		Score:          detection.Score,
		Severity:       detection.Severity,
		Detection:      detection,
		Match:          match,
		Timestamp:      time.Now().UTC(),
	}

	switch match.Action {
	case domain.ActionBlock:
		verdict.Message = "Request blocked due to security policy"
	case domain.ActionSanitize:
		sanitized, changes := s.sanitizer.Sanitize(req.Prompt)
		verdict.SanitizedPrompt = sanitized
		verdict.Message = fmt.Sprintf("Prompt sanitized: %d changes made", len(changes))
	default:
		// allow, log and alert all pass the prompt through untouched;
		// log/alert differ only in downstream side effects.
		verdict.Message = "Request allowed"
	}

	return verdict
}
