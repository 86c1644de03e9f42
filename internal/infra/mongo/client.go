// Package mongo wraps the official MongoDB driver with the connection
// lifecycle the rest of the service needs: connect with a ping-gated
// timeout, hand back a ready *mongo.Database, disconnect cleanly on
// shutdown.
package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Client bundles the driver client with the database the service
// operates against.
type Client struct {
	Raw      *mongo.Client
	Database *mongo.Database
}

// NewClient connects to uri and verifies the connection with a ping
// before returning, so a bad connection string fails fast at startup
// rather than on the first query.
func NewClient(ctx context.Context, uri, dbName string) (*Client, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	pingCtx, pingCancel := context.WithTimeout(ctx, 5*time.Second)
	defer pingCancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	log.Info().Str("database", dbName).Msg("Connected to MongoDB")

	return &Client{
		Raw:      client,
		Database: client.Database(dbName),
	}, nil
}

// Close disconnects the underlying client.
func (c *Client) Close(ctx context.Context) error {
	if c == nil || c.Raw == nil {
		return nil
	}
	return c.Raw.Disconnect(ctx)
}
