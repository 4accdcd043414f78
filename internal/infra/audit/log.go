package audit

import (
	"context"
	"log/slog"

	"github.com/Meet5113/greencart-backend/internal/usecase/shared"
)

// LogSink writes the audit envelope to the application log.
type LogSink struct {
	producer string
	logger   *slog.Logger
}

func NewLogSink(producer string, logger *slog.Logger) *LogSink {
	return &LogSink{producer: producer, logger: logger}
}

func (s *LogSink) Record(ctx context.Context, event shared.AuditEvent) {
	env := NewEnvelope(s.producer, event)
	s.logger.InfoContext(ctx, "audit event",
		"event_id", env.EventID,
		"event_type", env.EventType,
		"occurred_at", env.OccurredAt,
		"producer", env.Producer,
		slog.Group("payload",
			"entity_type", env.Payload.EntityType,
			"entity_id", env.Payload.EntityID,
			"actor_id", env.Payload.ActorID,
			"metadata", env.Payload.Metadata,
		),
	)
}
