package middleware

import (
	"context"

	"github.com/google/uuid"

	"github.com/skburgers/backend/pkg/enums"
	"github.com/skburgers/backend/pkg/outbox"
)

type contextKey string

const (
	ctxSessionID contextKey = "session_id"
	ctxRole      contextKey = "actor_role"
	ctxDriverID  contextKey = "driver_id"
)

func SessionIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxSessionID).(string); ok {
		return v
	}
	return ""
}

func RoleFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxRole).(string); ok {
		return v
	}
	return ""
}

func DriverIDFromContext(ctx context.Context) *uuid.UUID {
	if ctx == nil {
		return nil
	}
	if v, ok := ctx.Value(ctxDriverID).(uuid.UUID); ok {
		return &v
	}
	return nil
}

// ActorFromContext assembles the event actor from the authenticated session.
func ActorFromContext(ctx context.Context) outbox.ActorRef {
	return outbox.ActorRef{
		SessionID: SessionIDFromContext(ctx),
		DriverID:  DriverIDFromContext(ctx),
		Role:      enums.ActorRole(RoleFromContext(ctx)),
	}
}
