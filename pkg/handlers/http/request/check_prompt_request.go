package request

import "fmt"

type CheckPromptRequest struct {
	Prompt    string `json:"prompt"`
	UserID    string `json:"user_id,omitempty"`
	SessionID string `json:"session_id,omitempty"`
}

func (r *CheckPromptRequest) Validate() error {
	if r.Prompt == "" {
		return fmt.Errorf("prompt is required")
	}
	return nil
}

type BatchCheckRequest struct {
	Prompts []string `json:"prompts"`
}

func (r *BatchCheckRequest) Validate() error {
	if len(r.Prompts) == 0 {
		return fmt.Errorf("prompts is required")
	}
	return nil
}
