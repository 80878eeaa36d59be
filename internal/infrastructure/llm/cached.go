package llm

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/hyperflow/backend/internal/domain/insight"
	"github.com/hyperflow/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// CompletionStore is the subset of cache.RedisStore / cache.MemoryStore used
// to memoize completions.
type CompletionStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

// CachedClient memoizes completions by sha256(model, system, prompt). Cache
// failures are logged and fall through to the provider.
type CachedClient struct {
	next    insight.LLMClient
	store   CompletionStore
	ttl     time.Duration
	metrics *telemetry.Metrics
	logger  *zap.Logger
}

// NewCachedClient wraps next
func NewCachedClient(next insight.LLMClient, store CompletionStore, ttl time.Duration, metrics *telemetry.Metrics, logger *zap.Logger) *CachedClient {
	return &CachedClient{next: next, store: store, ttl: ttl, metrics: metrics, logger: logger.Named("llm.cache")}
}

// Model returns the wrapped model name
func (c *CachedClient) Model() string {
	return c.next.Model()
}

// Complete serves from cache or asks the provider and stores the answer
func (c *CachedClient) Complete(ctx context.Context, system, prompt string) (string, error) {
	key := CacheKey(c.next.Model(), system, prompt)

	cached, ok, err := c.store.Get(ctx, key)
	if err != nil {
		c.logger.Warn("Completion cache read failed", zap.Error(err))
	}
	c.metrics.ObserveCacheLookup(ok)
	if ok {
		return cached, nil
	}

	text, err := c.next.Complete(ctx, system, prompt)
	if err != nil {
		return "", err
	}
	if err := c.store.Set(ctx, key, text, c.ttl); err != nil {
		c.logger.Warn("Completion cache write failed", zap.Error(err))
	}
	return text, nil
}

// CacheKey hashes the inputs that determine a completion
func CacheKey(model, system, prompt string) string {
	h := sha256.New()
	for _, part := range []string{model, system, prompt} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	return "llm:completion:" + hex.EncodeToString(h.Sum(nil))
}
