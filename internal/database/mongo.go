// Package database opens the connections the service depends on: MongoDB for
// the catalog and MySQL for accounts.
package database

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

// ErrMissingMongoURI indicates that no connection string was configured.
var ErrMissingMongoURI = errors.New("database: missing MongoDB URI")

// OpenMongo connects to MongoDB and returns the client and the named
// database. The caller owns the client and must Disconnect it.
func OpenMongo(ctx context.Context, uri, name string) (*mongo.Client, *mongo.Database, error) {
	if uri == "" {
		return nil, nil, ErrMissingMongoURI
	}
	serverAPI := options.ServerAPI(options.ServerAPIVersion1)
	opts := options.Client().
		ApplyURI(uri).
		SetServerAPIOptions(serverAPI).
		SetTimeout(10 * time.Second)
	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, nil, errors.Wrap(err, "database: connect")
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, nil, errors.Wrap(err, "database: ping")
	}
	return client, client.Database(name), nil
}
