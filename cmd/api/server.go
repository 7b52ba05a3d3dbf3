package main

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"

	"prayerchain/internal/auth"
	"prayerchain/internal/data"
	"prayerchain/internal/logger"
)

// agentsStore is the slice of data.AgentsStore the handlers use. Tests
// swap in an in-memory fake.
type agentsStore interface {
	Create(ctx context.Context, email, password, name string) (*data.Agent, error)
	FindByID(ctx context.Context, id bson.ObjectID) (*data.Agent, error)
	FindByEmail(ctx context.Context, email string) (*data.Agent, error)
	Save(ctx context.Context, agent *data.Agent) (*data.Agent, error)
	Delete(ctx context.Context, id bson.ObjectID) error
}

// resetFlow is the slice of reset.Flow the handlers use.
type resetFlow interface {
	Request(ctx context.Context, email string) (*data.Agent, error)
	Consume(ctx context.Context, token, password, confirm string) (*data.Agent, error)
	Peek(ctx context.Context, token string) error
}

// Server holds the handler dependencies: the agents store, the password
// reset flow, the session token manager and the logger.
type Server struct {
	agents agentsStore
	flow   resetFlow
	jwt    *auth.JWTManager
	log    *logger.Logger
	secure bool // mark session cookies Secure (production)
}

// newServer returns a ready-to-use Server wired with its collaborators.
func newServer(agents agentsStore, flow resetFlow, jwtMgr *auth.JWTManager, log *logger.Logger, secure bool) *Server {
	return &Server{agents: agents, flow: flow, jwt: jwtMgr, log: log, secure: secure}
}
