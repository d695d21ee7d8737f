package detection

import (
	"context"
	"math"
	"strings"

	"github.com/PromptWall/promptwall/pkg/domain/threat"
)

const (
	LexicalStrategyName = "lexical"

	// perMatchWeight is the score contribution of each phrase hit.
	perMatchWeight = 20

	// lexicalConfidence is fixed and deliberately lower than what a
	// model-backed strategy would report.
	lexicalConfidence = 0.7
)

// maliciousPhrases are matched as substrings against the lowercased prompt.
var maliciousPhrases = []string{
	"ignore previous instructions",
	"ignore all previous",
	"disregard",
	"forget everything",
	"new instructions",
	"system prompt",
	"you are now",
	"roleplay as",
	"jailbreak",
	"dan mode",
	"developer mode",
}

// LexicalStrategy is the built-in phrase-counting classifier. It never
// fails and serves as the fallback for every other strategy.
type LexicalStrategy struct{}

func NewLexicalStrategy() *LexicalStrategy {
	return &LexicalStrategy{}
}

func (s *LexicalStrategy) Name() string { return LexicalStrategyName }

func (s *LexicalStrategy) Score(_ context.Context, prompt string) (*threat.Detection, error) {
	lower := strings.ToLower(prompt)

	matches := 0
	for _, phrase := range maliciousPhrases {
		if strings.Contains(lower, phrase) {
			matches++
		}
	}

	score := math.Min(float64(matches*perMatchWeight), 100)

	var categories []threat.Category
	if strings.Contains(lower, "ignore") || strings.Contains(lower, "disregard") {
		categories = append(categories, threat.CategoryPromptInjection)
	}
	if strings.Contains(lower, "roleplay") || strings.Contains(lower, "you are now") {
		categories = append(categories, threat.CategoryJailbreak)
	}
	if strings.Contains(lower, "system") {
		categories = append(categories, threat.CategorySystemManipulation)
	}

	return &threat.Detection{
		Score:      score,
		Severity:   threat.SeverityFromScore(score),
		Flagged:    score >= 40,
		Categories: categories,
		Confidence: lexicalConfidence,
		Details: map[string]any{
			"matches": matches,
			"method":  "pattern_matching",
		},
	}, nil
}
