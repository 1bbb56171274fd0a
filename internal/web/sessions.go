package web

import (
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/JonMunkholm/OrderTrack/internal/core"
	"github.com/JonMunkholm/OrderTrack/internal/logging"
)

// sessionStore keeps dashboard sessions in memory, keyed by cookie value.
// Sessions idle for longer than ttl are dropped.
type sessionStore struct {
	mu       sync.Mutex
	sessions map[string]*sessionEntry
	ttl      time.Duration
	create   func(id string) *core.Session
	now      func() time.Time
}

type sessionEntry struct {
	sess     *core.Session
	lastSeen time.Time
}

func newSessionStore(ttl time.Duration, create func(id string) *core.Session) *sessionStore {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	if create == nil {
		create = core.NewSession
	}
	return &sessionStore{
		sessions: make(map[string]*sessionEntry),
		ttl:      ttl,
		create:   create,
		now:      time.Now,
	}
}

// get returns the live session for id and refreshes its idle timer.
func (st *sessionStore) get(id string) (*core.Session, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()

	e, ok := st.sessions[id]
	if !ok {
		return nil, false
	}
	now := st.now()
	if now.Sub(e.lastSeen) > st.ttl {
		delete(st.sessions, id)
		return nil, false
	}
	e.lastSeen = now
	return e.sess, true
}

// start creates a session with a fresh id, sweeping expired ones first.
func (st *sessionStore) start() *core.Session {
	st.mu.Lock()
	defer st.mu.Unlock()

	now := st.now()
	for id, e := range st.sessions {
		if now.Sub(e.lastSeen) > st.ttl {
			delete(st.sessions, id)
		}
	}

	sess := st.create(uuid.NewString())
	st.sessions[sess.ID] = &sessionEntry{sess: sess, lastSeen: now}
	return sess
}

func (st *sessionStore) len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

// withSession attaches the caller's session, starting one (and setting the
// cookie) when the request carries none or an expired one.
func (s *Server) withSession(next http.Handler) http.Handler {
	name := s.cfg.Session.CookieName
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var sess *core.Session
		if c, err := r.Cookie(name); err == nil {
			sess, _ = s.sessions.get(c.Value)
		}
		if sess == nil {
			sess = s.sessions.start()
			http.SetCookie(w, &http.Cookie{
				Name:     name,
				Value:    sess.ID,
				Path:     "/",
				MaxAge:   int(s.sessions.ttl.Seconds()),
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}

		ctx := contextWithSession(r.Context(), sess)
		ctx = core.ContextWithActor(ctx, core.Actor{
			SessionID: sess.ID,
			IPAddress: clientIP(r),
			UserAgent: r.UserAgent(),
		})
		ctx = logging.ContextWith(ctx, "session_id", sess.ID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// clientIP strips the port from RemoteAddr, which TrustedRealIP has
// already resolved.
func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
