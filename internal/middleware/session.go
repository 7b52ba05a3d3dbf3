package middleware

import (
	"context"
	"net/http"

	"go.mongodb.org/mongo-driver/v2/bson"

	"prayerchain/internal/auth"
	"prayerchain/internal/data"
	"prayerchain/internal/logger"
)

// SessionCookie is the name of the session cookie carrying the JWT.
const SessionCookie = "session"

// AgentLoader is the slice of the agents store the session middleware
// needs.
type AgentLoader interface {
	FindByID(ctx context.Context, id bson.ObjectID) (*data.Agent, error)
}

type agentContextKey struct{}

// AgentFromContext extracts the authenticated agent from the context, if
// present.
func AgentFromContext(ctx context.Context) (*data.Agent, bool) {
	v := ctx.Value(agentContextKey{})
	if v == nil {
		return nil, false
	}
	a, ok := v.(*data.Agent)
	return a, ok
}

// Session verifies the session cookie and, when valid, loads the agent
// document and attaches it to the request context. Requests without a
// valid session pass through without an agent; RequireAgent decides
// whether that is fatal. Loading the document here scopes every downstream
// lookup to the session agent's own partner list.
func Session(jwtMgr *auth.JWTManager, agents AgentLoader, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookie)
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := jwtMgr.VerifyToken(cookie.Value)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			id, err := claims.AgentObjectID()
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			agent, err := agents.FindByID(r.Context(), id)
			if err != nil {
				if err != data.ErrNotFound {
					log.Error("session agent load failed", "err", err)
				}
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), agentContextKey{}, agent)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAgent rejects requests that reach it without an authenticated
// agent in the context.
func RequireAgent(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := AgentFromContext(r.Context()); !ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"messages":{"info":["Login first"]}}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}
