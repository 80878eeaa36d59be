package insight

import (
	"context"
	"errors"
)

// ErrLLMDisabled is returned by a client that has no provider configured
var ErrLLMDisabled = errors.New("llm: no provider configured")

// LLMClient completes a single-turn chat: a system instruction plus one user prompt
type LLMClient interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
	// Model names the model used, for cache keys and logs.
	Model() string
}
