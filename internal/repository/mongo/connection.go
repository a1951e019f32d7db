// Package mongo stores users and posts as MongoDB documents.
package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	usersCollection    = "users"
	postsCollection    = "posts"
	countersCollection = "counters"
)

type Connection struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewConnection connects to uri, selects database name and ensures indexes.
// Friend updates use multi-document transactions, so the server must be
// a replica set member.
func NewConnection(ctx context.Context, uri, name string) (*Connection, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	c := &Connection{client: client, db: client.Database(name)}

	if err := c.Ping(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	if err := c.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return c, nil
}

func (c *Connection) ensureIndexes(ctx context.Context) error {
	_, err := c.db.Collection(usersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create users index: %w", err)
	}

	_, err = c.db.Collection(postsCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "seq", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "userId", Value: 1}, {Key: "seq", Value: 1}},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create posts indexes: %w", err)
	}

	return nil
}

func (c *Connection) Ping(ctx context.Context) error {
	return c.client.Ping(ctx, nil)
}

func (c *Connection) Close(ctx context.Context) error {
	return c.client.Disconnect(ctx)
}

// Database exposes the selected database.
func (c *Connection) Database() *mongo.Database {
	return c.db
}
