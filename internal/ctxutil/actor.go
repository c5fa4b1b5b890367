// Package ctxutil carries the acting staff member through a request.
// It imports nothing from the module so any layer can depend on it.
package ctxutil

import (
	"context"
	"strings"
)

type actorKey struct{}

// WithActorID tags ctx with the staff id performing the operation.
// A blank id leaves ctx untouched.
func WithActorID(ctx context.Context, actorID string) context.Context {
	actorID = strings.TrimSpace(actorID)
	if actorID == "" {
		return ctx
	}
	return context.WithValue(ctx, actorKey{}, actorID)
}

// ActorFromContext returns the staff id on ctx, or "" for anonymous calls.
func ActorFromContext(ctx context.Context) string {
	id, _ := ctx.Value(actorKey{}).(string)
	return id
}

// ResolveActor prefers an explicit id from a request over the one on ctx.
func ResolveActor(ctx context.Context, explicit string) string {
	if explicit = strings.TrimSpace(explicit); explicit != "" {
		return explicit
	}
	return ActorFromContext(ctx)
}
