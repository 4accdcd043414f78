package audit

import (
	"time"

	"github.com/Meet5113/greencart-backend/internal/usecase/shared"

	"github.com/google/uuid"
)

// Envelope is the wire shape shared by every sink.
type Envelope struct {
	EventID    uuid.UUID `json:"event_id"`
	EventType  string    `json:"event_type"`
	OccurredAt time.Time `json:"occurred_at"`
	Producer   string    `json:"producer"`
	Payload    Payload   `json:"payload"`
}

type Payload struct {
	EntityType string         `json:"entity_type"`
	EntityID   *uuid.UUID     `json:"entity_id,omitempty"`
	ActorID    *uuid.UUID     `json:"actor_id,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

func NewEnvelope(producer string, e shared.AuditEvent) Envelope {
	occurredAt := e.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now()
	}
	return Envelope{
		EventID:    uuid.New(),
		EventType:  e.Action,
		OccurredAt: occurredAt.UTC(),
		Producer:   producer,
		Payload: Payload{
			EntityType: string(e.EntityType),
			EntityID:   e.EntityID,
			ActorID:    e.ActorID,
			Metadata:   e.Metadata,
		},
	}
}

// partitionKey keeps events of one entity on one partition.
func (e Envelope) partitionKey() []byte {
	if e.Payload.EntityID != nil {
		return []byte(e.Payload.EntityID.String())
	}
	return []byte(e.Payload.EntityType)
}
