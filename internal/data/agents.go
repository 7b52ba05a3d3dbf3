package data

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"prayerchain/internal/auth"
)

// AgentsStore performs agent document operations. Sub-entities never have
// their own persistence path; every write replaces the whole document.
type AgentsStore struct {
	coll *mongo.Collection
}

// NewAgentsStore returns an AgentsStore using the provided collection.
func NewAgentsStore(coll *mongo.Collection) *AgentsStore {
	return &AgentsStore{coll: coll}
}

// Create validates and inserts a new agent document. Every violated field
// is reported in one pass. A duplicate email caught by the unique index is
// reported with the same message as the in-memory check.
func (s *AgentsStore) Create(ctx context.Context, email, password, name string) (*Agent, error) {
	agent := NewAgent(email, password, name)
	if err := agent.Validate(); err != nil {
		return nil, err
	}
	if err := agent.finalizePassword(); err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	result, err := s.coll.InsertOne(ctx, agent)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			ve := NewValidationError()
			ve.Add("email", msgEmailTaken)
			return nil, ve
		}
		return nil, err
	}

	agent.ID = result.InsertedID.(bson.ObjectID)
	return agent, nil
}

// Save validates the whole aggregate and replaces the stored document.
// All-or-nothing: a validation failure writes nothing and the previously
// persisted state is unchanged. A pending plaintext password is hashed
// here and only here.
func (s *AgentsStore) Save(ctx context.Context, agent *Agent) (*Agent, error) {
	if err := agent.Validate(); err != nil {
		return nil, err
	}
	if err := agent.finalizePassword(); err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	agent.UpdatedAt = time.Now()

	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": agent.ID}, agent)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			ve := NewValidationError()
			ve.Add("email", msgEmailTaken)
			return nil, ve
		}
		return nil, err
	}
	return agent, nil
}

// FindByID finds an agent by ObjectID.
func (s *AgentsStore) FindByID(ctx context.Context, id bson.ObjectID) (*Agent, error) {
	return s.findOne(ctx, bson.M{"_id": id})
}

// FindByEmail finds an agent by normalized email.
func (s *AgentsStore) FindByEmail(ctx context.Context, email string) (*Agent, error) {
	return s.findOne(ctx, bson.M{"email": email})
}

// FindByResetToken finds the agent holding the given reset token. Expiry
// is not checked here; the reset flow compares against the clock lazily.
func (s *AgentsStore) FindByResetToken(ctx context.Context, token string) (*Agent, error) {
	return s.findOne(ctx, bson.M{"reset_password_token": token})
}

func (s *AgentsStore) findOne(ctx context.Context, filter bson.M) (*Agent, error) {
	var agent Agent
	err := s.coll.FindOne(ctx, filter).Decode(&agent)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &agent, nil
}

// Delete removes an agent document and, with it, the entire partner tree.
func (s *AgentsStore) Delete(ctx context.Context, id bson.ObjectID) error {
	result, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// finalizePassword hashes a pending plaintext into the stored hash. A save
// with no pending change leaves Password untouched.
func (a *Agent) finalizePassword() error {
	if !a.passwordDirty {
		return nil
	}
	hash, err := auth.HashPassword(a.pendingPassword)
	if err != nil {
		return err
	}
	a.Password = hash
	a.pendingPassword = ""
	a.passwordDirty = false
	return nil
}
