package audit

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/Meet5113/greencart-backend/internal/pkg/config"
	"github.com/Meet5113/greencart-backend/internal/pkg/errs"
	"github.com/Meet5113/greencart-backend/internal/usecase/shared"

	"github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaSink publishes audit envelopes through a buffered inbox drained by a
// single goroutine. Record never blocks: when the inbox is full the event is
// dropped and logged.
type KafkaSink struct {
	w        messageWriter
	producer string
	logger   *slog.Logger

	mu     sync.RWMutex
	closed bool
	inbox  chan kafka.Message
	done   chan struct{}
}

func NewKafkaSink(cfg config.AuditConfig, producer string, logger *slog.Logger) *KafkaSink {
	w := &kafka.Writer{
		Addr:         kafka.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		Async:        true,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				logger.Error("audit publish failed", "messages", len(messages), "error", err)
			}
		},
	}
	return newKafkaSink(w, cfg.BufferSize, producer, logger)
}

func newKafkaSink(w messageWriter, buf int, producer string, logger *slog.Logger) *KafkaSink {
	return &KafkaSink{
		w:        w,
		producer: producer,
		logger:   logger,
		inbox:    make(chan kafka.Message, buf),
		done:     make(chan struct{}),
	}
}

func (s *KafkaSink) Start() {
	go func() {
		defer close(s.done)
		for m := range s.inbox {
			if err := s.w.WriteMessages(context.Background(), m); err != nil {
				s.logger.Error("audit publish failed", "key", string(m.Key), "error", err)
			}
		}
		if err := s.w.Close(); err != nil {
			s.logger.Error("audit writer close failed", "error", err)
		}
	}()
}

func (s *KafkaSink) Record(ctx context.Context, event shared.AuditEvent) {
	env := NewEnvelope(s.producer, event)
	value, err := json.Marshal(env)
	if err != nil {
		s.logger.ErrorContext(ctx, "audit event not serializable", "event_type", env.EventType, "error", err)
		return
	}
	msg := kafka.Message{
		Key:   env.partitionKey(),
		Value: value,
		Time:  env.OccurredAt,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(env.EventType)},
		},
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		s.logger.WarnContext(ctx, "audit sink closed, event dropped", "event_type", env.EventType)
		return
	}
	select {
	case s.inbox <- msg:
	default:
		s.logger.WarnContext(ctx, "audit inbox full, event dropped", "event_type", env.EventType)
	}
}

// Close stops accepting events and waits for the inbox to be flushed.
// Start must have been called.
func (s *KafkaSink) Close(ctx context.Context) error {
	s.mu.Lock()
	if !s.closed {
		s.closed = true
		close(s.inbox)
	}
	s.mu.Unlock()

	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return errs.Wrap(ctx.Err(), "audit sink did not drain before shutdown")
	}
}
