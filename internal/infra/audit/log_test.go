//go:build unit

package audit_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/Meet5113/greencart-backend/internal/infra/audit"
	"github.com/Meet5113/greencart-backend/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogSink_WritesEnvelope(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	subID, actorID := uuid.New(), uuid.New()

	audit.NewLogSink("greencart-backend", logger).Record(context.Background(), shared.AuditEvent{
		Action:     shared.AuditActionSubscriptionStatusChange,
		EntityType: shared.AuditEntitySubscription,
		EntityID:   &subID,
		ActorID:    &actorID,
		Metadata:   map[string]any{"from": "active", "to": "paused"},
		OccurredAt: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC),
	})

	var line struct {
		Msg       string `json:"msg"`
		EventType string `json:"event_type"`
		Producer  string `json:"producer"`
		Payload   struct {
			EntityType string            `json:"entity_type"`
			EntityID   string            `json:"entity_id"`
			ActorID    string            `json:"actor_id"`
			Metadata   map[string]string `json:"metadata"`
		} `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))

	assert.Equal(t, "audit event", line.Msg)
	assert.Equal(t, shared.AuditActionSubscriptionStatusChange, line.EventType)
	assert.Equal(t, "greencart-backend", line.Producer)
	assert.Equal(t, "subscription", line.Payload.EntityType)
	assert.Equal(t, subID.String(), line.Payload.EntityID)
	assert.Equal(t, actorID.String(), line.Payload.ActorID)
	assert.Equal(t, map[string]string{"from": "active", "to": "paused"}, line.Payload.Metadata)
}
