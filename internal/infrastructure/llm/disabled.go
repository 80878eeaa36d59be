package llm

import (
	"context"

	"github.com/hyperflow/backend/internal/domain/insight"
)

// DisabledClient always fails, which makes every analysis serve its fallback
type DisabledClient struct{}

func (DisabledClient) Complete(context.Context, string, string) (string, error) {
	return "", insight.ErrLLMDisabled
}

func (DisabledClient) Model() string { return "disabled" }
