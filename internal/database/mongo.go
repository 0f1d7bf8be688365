package database

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"
)

const defaultMongoDatabase = "pos"

type MongoDriver struct {
	// DBName is used when the connection string does not name a database.
	DBName string

	client *mongo.Client
	db     *mongo.Database
}

func (md *MongoDriver) Connect(ctx context.Context, dsn string) error {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(dsn))
	if err != nil {
		return fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return fmt.Errorf("failed to ping MongoDB: %w", err)
	}
	md.client = client
	md.db = client.Database(resolveDatabaseName(dsn, md.DBName))
	return nil
}

func resolveDatabaseName(dsn, fallback string) string {
	if cs, err := connstring.Parse(dsn); err == nil && cs.Database != "" {
		return cs.Database
	}
	if fallback != "" {
		return fallback
	}
	return defaultMongoDatabase
}

func (md *MongoDriver) Close() error {
	if md.client == nil {
		return nil
	}
	return md.client.Disconnect(context.Background())
}

// Database exposes the connected database to the query layer.
func (md *MongoDriver) Database() *mongo.Database {
	return md.db
}

func (md *MongoDriver) Ping(ctx context.Context) error {
	return md.client.Ping(ctx, nil)
}

func (md *MongoDriver) Reset(ctx context.Context, collections []string) error {
	for _, name := range collections {
		if err := md.db.Collection(name).Drop(ctx); err != nil {
			return fmt.Errorf("failed to drop %s: %w", name, err)
		}
	}
	return nil
}

func (md *MongoDriver) InsertDocuments(ctx context.Context, collection string, docs []interface{}) error {
	if len(docs) == 0 {
		return nil
	}
	_, err := md.db.Collection(collection).InsertMany(ctx, docs, options.InsertMany().SetOrdered(false))
	if err != nil {
		return fmt.Errorf("failed to insert into %s: %w", collection, err)
	}
	return nil
}
