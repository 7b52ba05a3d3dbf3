package db

import (
	"context"
	"os"
	"testing"
)

func TestConnectAndIndexes(t *testing.T) {
	uri := os.Getenv("MONGODB_URI")
	if uri == "" {
		t.Skip("MONGODB_URI not set; skipping integration test")
	}

	ctx := context.Background()
	c, err := New(ctx, uri)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer func() { _ = c.Close(ctx) }()

	if err := c.CreateIndexes(ctx); err != nil {
		t.Fatalf("CreateIndexes failed: %v", err)
	}
	// index creation is idempotent
	if err := c.CreateIndexes(ctx); err != nil {
		t.Fatalf("second CreateIndexes failed: %v", err)
	}

	if c.AgentsCollection().Name() != "agents" {
		t.Fatalf("unexpected collection name: %s", c.AgentsCollection().Name())
	}
}
