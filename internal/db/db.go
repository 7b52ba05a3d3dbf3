// Package db manages the MongoDB connection and collections.
package db

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

// Client wraps mongo.Client and exposes the collections used by the
// service.
type Client struct {
	client *mongo.Client
	db     *mongo.Database
}

// New connects to MongoDB, pings it, and returns a Client.
func New(ctx context.Context, mongoURI string) (*Client, error) {
	opts := options.Client().
		ApplyURI(mongoURI).
		SetConnectTimeout(10 * time.Second)

	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	return &Client{
		client: client,
		db:     client.Database("prayer_chain"),
	}, nil
}

// AgentsCollection returns the agents collection. Each document holds one
// agent and its full partner tree.
func (c *Client) AgentsCollection() *mongo.Collection {
	return c.db.Collection("agents")
}

// Close disconnects from MongoDB.
func (c *Client) Close(ctx context.Context) error {
	return c.client.Disconnect(ctx)
}

// CreateIndexes creates the indexes the service relies on. The unique
// email index is the race-safe backstop behind the in-memory uniqueness
// check: two concurrent registrations with the same address cannot both
// land.
func (c *Client) CreateIndexes(ctx context.Context) error {
	agentIndexes := []mongo.IndexModel{
		{
			Keys:    map[string]int{"email": 1},
			Options: options.Index().SetUnique(true),
		},
		{
			// reset-token lookups during the password reset flow
			Keys:    map[string]int{"reset_password_token": 1},
			Options: options.Index().SetSparse(true),
		},
	}

	_, err := c.AgentsCollection().Indexes().CreateMany(ctx, agentIndexes)
	if err != nil {
		return fmt.Errorf("failed to create agent indexes: %w", err)
	}
	return nil
}
