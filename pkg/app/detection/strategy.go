package detection

import (
	"context"

	"github.com/PromptWall/promptwall/pkg/domain/threat"
)

// Strategy scores a prompt for adversarial intent. Implementations must
// accept empty and arbitrarily long input.
type Strategy interface {
	Name() string
	Score(ctx context.Context, prompt string) (*threat.Detection, error)
}
