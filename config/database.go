package config

import (
	"context"
	"log"
	"time"

	"github.com/Laisky/errors/v2"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const defaultConnectTimeout = 30 * time.Second

var db *mongo.Database

var (
	connectMongo = func(ctx context.Context, opts *options.ClientOptions) (*mongo.Client, error) {
		return mongo.Connect(ctx, opts)
	}
	pingMongo = func(ctx context.Context, cli *mongo.Client) error {
		return cli.Ping(ctx, readpref.Primary())
	}
)

// InitDatabase connects to MongoDB using configuration values and pings the primary,
// so that a bad connection string fails at boot instead of on the first request.
func InitDatabase(ctx context.Context) (*mongo.Database, error) {
	if db != nil {
		return db, nil
	}

	c := Get()
	ctx, cancel := context.WithTimeout(ctx, defaultConnectTimeout)
	defer cancel()

	clientOpts := options.Client().
		ApplyURI(c.MongoURL).
		SetConnectTimeout(defaultConnectTimeout).
		SetServerSelectionTimeout(defaultConnectTimeout).
		SetRetryReads(true).
		SetRetryWrites(true).
		SetMaxPoolSize(100).
		SetMaxConnIdleTime(5 * time.Minute)

	cli, err := connectMongo(ctx, clientOpts)
	if err != nil {
		return nil, errors.Wrap(err, "connect mongo")
	}
	if err := pingMongo(ctx, cli); err != nil {
		_ = cli.Disconnect(context.Background())
		return nil, errors.Wrap(err, "ping mongo")
	}

	log.Printf("connected to mongo, database %q", c.MongoDB)
	db = cli.Database(c.MongoDB)
	return db, nil
}

// DB provides access to the initialized database handle.
func DB() *mongo.Database {
	if db == nil {
		log.Fatal("database not initialized, call InitDatabase first")
	}
	return db
}

// CloseDatabase disconnects the shared client, bounded by ctx.
func CloseDatabase(ctx context.Context) error {
	if db == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	err := db.Client().Disconnect(ctx)
	db = nil
	return err
}
