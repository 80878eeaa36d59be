package llm

import (
	"context"
	"fmt"

	"github.com/hyperflow/backend/internal/domain/insight"
	"github.com/hyperflow/backend/internal/infrastructure/config"
	"github.com/hyperflow/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// Provider names accepted in llm.provider
const (
	ProviderOpenAI   = "openai"
	ProviderGemini   = "gemini"
	ProviderDisabled = "disabled"
)

// New builds the configured provider, instrumented, and cached when a store
// and a positive TTL are given. The disabled client is never cached.
func New(ctx context.Context, cfg config.LLMConfig, store CompletionStore, metrics *telemetry.Metrics, logger *zap.Logger) (insight.LLMClient, error) {
	var client insight.LLMClient
	switch cfg.Provider {
	case ProviderOpenAI:
		client = NewOpenAIClient(OpenAIConfig{
			APIKey:      cfg.APIKey,
			BaseURL:     cfg.BaseURL,
			Model:       cfg.Model,
			Timeout:     cfg.Timeout,
			MaxRetries:  cfg.MaxRetries,
			Temperature: cfg.Temperature,
			MaxTokens:   cfg.MaxTokens,
		}, logger)
	case ProviderGemini:
		gc, err := NewGeminiClient(ctx, cfg.APIKey, cfg.Model, cfg.Temperature, cfg.MaxTokens, logger)
		if err != nil {
			return nil, err
		}
		client = gc
	case ProviderDisabled, "":
		logger.Info("LLM provider disabled, assistant endpoints serve fallbacks")
		return DisabledClient{}, nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}

	client = NewInstrumentedClient(client, cfg.Provider, metrics, logger)
	if store != nil && cfg.CacheTTL > 0 {
		client = NewCachedClient(client, store, cfg.CacheTTL, metrics, logger)
	}
	logger.Info("LLM client configured",
		zap.String("provider", cfg.Provider),
		zap.String("model", client.Model()),
		zap.Duration("cache_ttl", cfg.CacheTTL),
	)
	return client, nil
}
