package database

import (
	"context"
	"fmt"
)

// DatabaseDriver is a bulk destination for generated collections.
type DatabaseDriver interface {
	Connect(ctx context.Context, dsn string) error
	Close() error
	// Reset drops the named collections (or tables) and recreates whatever
	// the backend needs before documents can be written.
	Reset(ctx context.Context, collections []string) error
	InsertDocuments(ctx context.Context, collection string, docs []interface{}) error
}

// NewDriver returns an unconnected driver for the given backend name.
func NewDriver(kind, mongoDatabase string) (DatabaseDriver, error) {
	switch kind {
	case "mongo", "mongodb":
		return &MongoDriver{DBName: mongoDatabase}, nil
	case "postgres", "postgresql":
		return &PostgresDriver{}, nil
	case "mysql":
		return &MySQLDriver{}, nil
	}
	return nil, fmt.Errorf("unsupported database type: %s", kind)
}
