package ctxutil

import (
	"context"

	"github.com/google/uuid"
)

type actorKey struct{}

// Actor is the authenticated caller as resolved by the auth middleware:
// identity, display name, role, and the single org the role binds them to.
type Actor struct {
	UserID   uuid.UUID
	Name     string
	Role     string
	ClientID *uuid.UUID
	AgencyID *uuid.UUID
}

func WithActor(ctx context.Context, a *Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, a)
}

func GetActor(ctx context.Context) *Actor {
	if a, ok := ctx.Value(actorKey{}).(*Actor); ok {
		return a
	}
	return nil
}
