package event

import (
	"context"
	"time"

	"github.com/hyperflow/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// IdempotencyStore remembers processed keys for a while
type IdempotencyStore interface {
	// MarkProcessed records key and reports whether it was new
	MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error)
}

// KeyFunc derives the deduplication key of an event
type KeyFunc func(event shared.DomainEvent) string

// ByEventID deduplicates redeliveries of the same event
func ByEventID(event shared.DomainEvent) string {
	return "event:" + event.EventID().String()
}

// ByAggregate deduplicates every event of one type per aggregate, e.g. one
// income booking per paid invoice.
func ByAggregate(event shared.DomainEvent) string {
	return event.EventType() + ":" + event.AggregateID().String()
}

// IdempotentHandler wraps an EventHandler so each key is handled once
type IdempotentHandler struct {
	handler shared.EventHandler
	store   IdempotencyStore
	key     KeyFunc
	ttl     time.Duration
	logger  *zap.Logger
}

// IdempotentHandlerOption configures an IdempotentHandler
type IdempotentHandlerOption func(*IdempotentHandler)

// WithKeyFunc overrides the default ByEventID key
func WithKeyFunc(fn KeyFunc) IdempotentHandlerOption {
	return func(h *IdempotentHandler) { h.key = fn }
}

// WithTTL sets how long a key is remembered
func WithTTL(ttl time.Duration) IdempotentHandlerOption {
	return func(h *IdempotentHandler) { h.ttl = ttl }
}

// NewIdempotentHandler creates a new idempotent handler wrapper
func NewIdempotentHandler(handler shared.EventHandler, store IdempotencyStore, logger *zap.Logger, opts ...IdempotentHandlerOption) *IdempotentHandler {
	h := &IdempotentHandler{
		handler: handler,
		store:   store,
		key:     ByEventID,
		ttl:     24 * time.Hour,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// EventTypes returns the wrapped handler's event types
func (h *IdempotentHandler) EventTypes() []string {
	return h.handler.EventTypes()
}

// Handle runs the wrapped handler unless the key was already processed.
// Store failures fall through to processing: a duplicate is cheaper than a
// dropped event, and handlers keep their own durable checks.
func (h *IdempotentHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	key := h.key(event)

	isNew, err := h.store.MarkProcessed(ctx, key, h.ttl)
	if err != nil {
		h.logger.Warn("idempotency check failed, processing anyway",
			zap.String("key", key),
			zap.String("event_type", event.EventType()),
			zap.Error(err),
		)
	} else if !isNew {
		h.logger.Debug("duplicate event skipped",
			zap.String("key", key),
			zap.String("event_type", event.EventType()),
		)
		return nil
	}

	return h.handler.Handle(ctx, event)
}

var _ shared.EventHandler = (*IdempotentHandler)(nil)
