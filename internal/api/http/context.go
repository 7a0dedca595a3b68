package http

import (
	"context"

	"appliance-rental-backend/internal/domain"
)

type contextKey int

const (
	actorKey contextKey = iota
	tokenKey
)

func withActor(ctx context.Context, actor domain.Actor, token string) context.Context {
	ctx = context.WithValue(ctx, actorKey, actor)
	return context.WithValue(ctx, tokenKey, token)
}

// ActorFromContext returns the authenticated caller, or the zero Actor on
// public routes.
func ActorFromContext(ctx context.Context) domain.Actor {
	actor, _ := ctx.Value(actorKey).(domain.Actor)
	return actor
}

func tokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey).(string)
	return token
}
