package response

import (
	"github.com/PromptWall/promptwall/pkg/domain/firewall"
)

type CheckPromptResponse struct {
	Action          string  `json:"action"`
	Allowed         bool    `json:"allowed"`
	ThreatScore     float64 `json:"threat_score"`
	ThreatLevel     string  `json:"threat_level"`
	Message         string  `json:"message"`
	SanitizedPrompt string  `json:"sanitized_prompt,omitempty"`
	ProcessingMs    float64 `json:"processing_time_ms"`
}

func NewCheckPromptResponse(verdict *firewall.Verdict) CheckPromptResponse {
	return CheckPromptResponse{
		Action:          string(verdict.Action),
		Allowed:         verdict.Allowed,
		ThreatScore:     verdict.Score,
		ThreatLevel:     string(verdict.Severity),
		Message:         verdict.Message,
		SanitizedPrompt: verdict.SanitizedPrompt,
		ProcessingMs:    verdict.ProcessingMs,
	}
}

type BatchCheckResult struct {
	Prompt      string  `json:"prompt"`
	Action      string  `json:"action"`
	Allowed     bool    `json:"allowed"`
	ThreatScore float64 `json:"threat_score"`
	ThreatLevel string  `json:"threat_level"`
}

type BatchCheckResponse struct {
	Total   int                `json:"total"`
	Allowed int                `json:"allowed"`
	Blocked int                `json:"blocked"`
	Results []BatchCheckResult `json:"results"`
}
