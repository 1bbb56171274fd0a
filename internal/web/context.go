package web

import (
	"context"

	"github.com/JonMunkholm/OrderTrack/internal/core"
)

type sessionKey struct{}

func contextWithSession(ctx context.Context, sess *core.Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, sess)
}

// sessionFrom returns the request's session. Outside withSession it hands
// back a throwaway viewer session so handlers never see nil.
func sessionFrom(ctx context.Context) *core.Session {
	if sess, ok := ctx.Value(sessionKey{}).(*core.Session); ok {
		return sess
	}
	return core.NewSession("")
}
