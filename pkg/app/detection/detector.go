package detection

import (
	"context"

	"github.com/PromptWall/promptwall/pkg/domain/threat"
	"github.com/sirupsen/logrus"
)

// Detector runs the configured strategy and falls back to the lexical
// one when it fails. Callers never see a scoring error; Detect always
// produces a detection.
type Detector struct {
	strategy Strategy
	fallback Strategy
	logger   logrus.FieldLogger
}

// NewDetector builds a detector around the given strategy. A nil
// strategy selects the lexical classifier outright.
func NewDetector(strategy Strategy, logger logrus.FieldLogger) *Detector {
	fallback := NewLexicalStrategy()
	if strategy == nil {
		strategy = fallback
	}
	return &Detector{
		strategy: strategy,
		fallback: fallback,
		logger:   logger,
	}
}

func (d *Detector) Detect(ctx context.Context, prompt string) *threat.Detection {
	detection, err := d.strategy.Score(ctx, prompt)
	if err == nil {
		return detection
	}

	if d.strategy.Name() != d.fallback.Name() {
		d.logger.WithError(err).
			WithField("strategy", d.strategy.Name()).
			Debug("strategy failed, falling back to lexical detection")
	}

	// The lexical strategy never errors.
	detection, _ = d.fallback.Score(ctx, prompt)
	return detection
}
