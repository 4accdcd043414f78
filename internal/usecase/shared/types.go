package shared

import (
	"time"

	"github.com/google/uuid"
)

type AuditEntityType string

const (
	AuditEntityOrder        AuditEntityType = "order"
	AuditEntitySubscription AuditEntityType = "subscription"
	AuditEntitySystem       AuditEntityType = "system"
)

const (
	AuditActionOrderPlaced              = "order.placed"
	AuditActionOrderStatusChange        = "order.status_change"
	AuditActionSubscriptionCreated      = "subscription.created"
	AuditActionSubscriptionStatusChange = "subscription.status_change"
	AuditActionSubscriptionRun          = "subscription.run"
)

type AuditEvent struct {
	Action     string
	EntityType AuditEntityType
	EntityID   *uuid.UUID
	ActorID    *uuid.UUID
	Metadata   map[string]any
	OccurredAt time.Time
}
