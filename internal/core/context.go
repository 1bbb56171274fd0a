package core

import "context"

type contextKey string

const ctxKeyActor contextKey = "actor"

// Actor identifies who triggered a change. It is attached to published
// events and log lines.
type Actor struct {
	SessionID string
	IPAddress string
	UserAgent string
}

// ContextWithActor attaches a to ctx.
func ContextWithActor(ctx context.Context, a Actor) context.Context {
	return context.WithValue(ctx, ctxKeyActor, a)
}

// ActorFromContext returns the actor stored in ctx, or the zero Actor.
func ActorFromContext(ctx context.Context) Actor {
	if a, ok := ctx.Value(ctxKeyActor).(Actor); ok {
		return a
	}
	return Actor{}
}
