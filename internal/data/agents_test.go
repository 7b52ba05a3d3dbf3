package data

import (
	"context"
	"os"
	"testing"
	"time"

	"prayerchain/internal/db"
)

func setupDB(t *testing.T) *db.Client {
	uri := os.Getenv("MONGODB_URI")
	if uri == "" {
		t.Skip("MONGODB_URI not set; skipping integration test")
	}

	ctx := context.Background()
	c, err := db.New(ctx, uri)
	if err != nil {
		t.Fatalf("db.New failed: %v", err)
	}

	// ensure a clean collection in case previous runs left data
	_ = c.AgentsCollection().Drop(ctx)
	if err := c.CreateIndexes(ctx); err != nil {
		t.Fatalf("CreateIndexes failed: %v", err)
	}

	return c
}

func uniqueEmail(prefix string) string {
	return time.Now().UTC().Format("20060102-150405.000000") + "-" + prefix + "@example.com"
}

func TestAgentsCreateAndFind(t *testing.T) {
	c := setupDB(t)
	defer func() { _ = c.Close(context.Background()) }()

	agents := NewAgentsStore(c.AgentsCollection())
	ctx := context.Background()
	email := uniqueEmail("create")

	agent, err := agents.Create(ctx, email, "secret", "Some Guy")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if agent.Email != email {
		t.Fatalf("expected email %s got %s", email, agent.Email)
	}
	if agent.Password == "secret" || agent.Password == "" {
		t.Fatalf("password should be stored hashed, got %q", agent.Password)
	}

	got, err := agents.FindByEmail(ctx, email)
	if err != nil {
		t.Fatalf("FindByEmail failed: %v", err)
	}
	if got.ID != agent.ID {
		t.Fatalf("FindByEmail returned wrong agent: %s", got.ID.Hex())
	}

	got, err = agents.FindByID(ctx, agent.ID)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if got.Email != email {
		t.Fatalf("FindByID returned wrong email: %s", got.Email)
	}
}

// the unique index is the storage-layer backstop behind the in-memory
// uniqueness check
func TestAgentsCreate_DuplicateEmail(t *testing.T) {
	c := setupDB(t)
	defer func() { _ = c.Close(context.Background()) }()

	agents := NewAgentsStore(c.AgentsCollection())
	ctx := context.Background()
	email := uniqueEmail("dup")

	if _, err := agents.Create(ctx, email, "secret", ""); err != nil {
		t.Fatalf("first Create failed: %v", err)
	}

	_, err := agents.Create(ctx, email, "secret", "")
	ve, ok := AsValidation(err)
	if !ok {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if ve.Fields["email"] != "That email is taken" {
		t.Fatalf("unexpected message: %q", ve.Fields["email"])
	}
}

// a rejected save writes nothing: the persisted partner list stays as it
// was before the request
func TestAgentsSave_AllOrNothing(t *testing.T) {
	c := setupDB(t)
	defer func() { _ = c.Close(context.Background()) }()

	agents := NewAgentsStore(c.AgentsCollection())
	ctx := context.Background()

	agent, err := agents.Create(ctx, uniqueEmail("aon"), "secret", "")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	work := agent.Clone()
	work.AddPartner(NewPartner("Horst", "h@example.com"))
	agent, err = agents.Save(ctx, work)
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if len(agent.Partners) != 1 {
		t.Fatalf("expected 1 partner, got %d", len(agent.Partners))
	}

	work = agent.Clone()
	work.AddPartner(NewPartner("Horst2", "h@example.com"))
	if _, err := agents.Save(ctx, work); err == nil {
		t.Fatal("duplicate partner email should not save")
	}

	persisted, err := agents.FindByID(ctx, agent.ID)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if len(persisted.Partners) != 1 {
		t.Fatalf("failed save leaked partial state: %d partners", len(persisted.Partners))
	}
}

// the hash is recomputed if and only if the plaintext changed
func TestAgentsSave_PasswordRehashOnlyWhenChanged(t *testing.T) {
	c := setupDB(t)
	defer func() { _ = c.Close(context.Background()) }()

	agents := NewAgentsStore(c.AgentsCollection())
	ctx := context.Background()

	agent, err := agents.Create(ctx, uniqueEmail("hash"), "secret", "")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	hash := agent.Password

	work := agent.Clone()
	work.Name = "Renamed"
	agent, err = agents.Save(ctx, work)
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if agent.Password != hash {
		t.Fatal("hash changed on an unrelated edit")
	}

	persisted, _ := agents.FindByID(ctx, agent.ID)
	if persisted.Password != hash {
		t.Fatal("persisted hash changed on an unrelated edit")
	}

	work = agent.Clone()
	work.SetPassword("newsecret")
	agent, err = agents.Save(ctx, work)
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if agent.Password == hash {
		t.Fatal("hash should change when the password changed")
	}
}

func TestAgentsFindByResetToken(t *testing.T) {
	c := setupDB(t)
	defer func() { _ = c.Close(context.Background()) }()

	agents := NewAgentsStore(c.AgentsCollection())
	ctx := context.Background()

	agent, err := agents.Create(ctx, uniqueEmail("token"), "secret", "")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if _, err := agents.FindByResetToken(ctx, "no-such-token"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	work := agent.Clone()
	expires := time.Now().Add(time.Hour)
	work.ResetPasswordToken = "the-token"
	work.ResetPasswordExpires = &expires
	if _, err := agents.Save(ctx, work); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := agents.FindByResetToken(ctx, "the-token")
	if err != nil {
		t.Fatalf("FindByResetToken failed: %v", err)
	}
	if got.ID != agent.ID {
		t.Fatalf("FindByResetToken returned wrong agent")
	}
}

func TestAgentsDelete(t *testing.T) {
	c := setupDB(t)
	defer func() { _ = c.Close(context.Background()) }()

	agents := NewAgentsStore(c.AgentsCollection())
	ctx := context.Background()

	agent, err := agents.Create(ctx, uniqueEmail("del"), "secret", "")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := agents.Delete(ctx, agent.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := agents.FindByID(ctx, agent.ID); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := agents.Delete(ctx, agent.ID); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}
