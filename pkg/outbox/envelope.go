package outbox

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/skburgers/backend/pkg/enums"
)

// ActorRef identifies who produced the event.
type ActorRef struct {
	SessionID string          `json:"sessionId,omitempty"`
	DriverID  *uuid.UUID      `json:"driverId,omitempty"`
	Role      enums.ActorRole `json:"role,omitempty"`
}

// PayloadEnvelope is the stable payload structure stored in outbox_events.
type PayloadEnvelope struct {
	Version    int             `json:"version"`
	EventID    string          `json:"eventId"`
	OccurredAt time.Time       `json:"occurredAt"`
	Actor      *ActorRef       `json:"actor,omitempty"`
	Data       json.RawMessage `json:"data"`
}
