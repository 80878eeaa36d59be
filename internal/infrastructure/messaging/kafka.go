// Package messaging forwards domain events to a Kafka topic so other
// services can react to invoices, tasks and leave decisions.
package messaging

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hyperflow/backend/internal/domain/shared"
	"github.com/hyperflow/backend/internal/infrastructure/config"
	"github.com/hyperflow/backend/internal/infrastructure/event"
	"github.com/hyperflow/backend/internal/infrastructure/telemetry"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageWriter is satisfied by *kafka.Writer
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// NewKafkaWriter creates a writer for the configured topic
func NewKafkaWriter(cfg config.KafkaConfig) *kafka.Writer {
	batchTimeout := cfg.BatchTimeout
	if batchTimeout <= 0 {
		batchTimeout = 100 * time.Millisecond
	}
	return &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		BatchTimeout:           batchTimeout,
		AllowAutoTopicCreation: true,
	}
}

type pending struct {
	eventType string
	msg       kafka.Message
}

// EventForwarder subscribes to every domain event and writes its envelope
// to Kafka from a background goroutine. Messages are keyed by aggregate id
// so one aggregate's events stay ordered within a partition. When the buffer
// is full new events are dropped and logged.
type EventForwarder struct {
	writer  MessageWriter
	queue   chan pending
	metrics *telemetry.Metrics
	logger  *zap.Logger

	mu        sync.RWMutex
	closed    bool
	wg        sync.WaitGroup
	startOnce sync.Once
	stopOnce  sync.Once
	cancel    context.CancelFunc
}

// NewEventForwarder creates a forwarder with the given buffer size
func NewEventForwarder(writer MessageWriter, bufferSize int, metrics *telemetry.Metrics, logger *zap.Logger) *EventForwarder {
	if bufferSize <= 0 {
		bufferSize = 1024
	}
	return &EventForwarder{
		writer:  writer,
		queue:   make(chan pending, bufferSize),
		metrics: metrics,
		logger:  logger.Named("kafka_forwarder"),
	}
}

// EventTypes is empty: the forwarder receives all events
func (f *EventForwarder) EventTypes() []string {
	return nil
}

// Handle enqueues the event. It never blocks the publisher.
func (f *EventForwarder) Handle(_ context.Context, evt shared.DomainEvent) error {
	value, err := event.Encode(evt)
	if err != nil {
		return fmt.Errorf("encode %s: %w", evt.EventType(), err)
	}
	p := pending{
		eventType: evt.EventType(),
		msg: kafka.Message{
			Key:   []byte(evt.AggregateID().String()),
			Value: value,
			Headers: []kafka.Header{
				{Key: "event_type", Value: []byte(evt.EventType())},
				{Key: "tenant_id", Value: []byte(evt.TenantID().String())},
			},
			Time: evt.OccurredAt(),
		},
	}

	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.closed {
		return fmt.Errorf("kafka forwarder closed, dropped %s %s", evt.EventType(), evt.EventID())
	}

	select {
	case f.queue <- p:
		return nil
	default:
		f.metrics.ObserveEventForwarded(evt.EventType(), fmt.Errorf("buffer full"))
		return fmt.Errorf("kafka forward buffer full, dropped %s %s", evt.EventType(), evt.EventID())
	}
}

// Start launches the writer goroutine
func (f *EventForwarder) Start(ctx context.Context) {
	f.startOnce.Do(func() {
		ctx, f.cancel = context.WithCancel(ctx)
		f.wg.Add(1)
		go f.run(ctx)
		f.logger.Info("Event forwarder started", zap.Int("buffer", cap(f.queue)))
	})
}

// Close drains queued events, stops the goroutine and closes the writer
func (f *EventForwarder) Close() error {
	var err error
	f.stopOnce.Do(func() {
		f.mu.Lock()
		f.closed = true
		close(f.queue)
		f.mu.Unlock()

		f.wg.Wait()
		if f.cancel != nil {
			f.cancel()
		}
		err = f.writer.Close()
	})
	return err
}

func (f *EventForwarder) run(ctx context.Context) {
	defer f.wg.Done()
	for p := range f.queue {
		writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
		err := f.writer.WriteMessages(writeCtx, p.msg)
		cancel()

		f.metrics.ObserveEventForwarded(p.eventType, err)
		if err != nil {
			f.logger.Error("Failed to forward event",
				zap.String("event_type", p.eventType),
				zap.Error(err),
			)
		}
	}
}

var _ shared.EventHandler = (*EventForwarder)(nil)
