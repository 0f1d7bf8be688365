package database

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// PostgresDriver stores each collection as a single-column jsonb table.
type PostgresDriver struct {
	conn *pgx.Conn
}

func (pd *PostgresDriver) Connect(ctx context.Context, dsn string) error {
	conn, err := pgx.Connect(ctx, dsn)
	if err != nil {
		return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	pd.conn = conn
	return nil
}

func (pd *PostgresDriver) Close() error {
	if pd.conn == nil {
		return nil
	}
	return pd.conn.Close(context.Background())
}

func (pd *PostgresDriver) Reset(ctx context.Context, collections []string) error {
	for _, name := range collections {
		table := pgx.Identifier{name}.Sanitize()
		if _, err := pd.conn.Exec(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s CASCADE", table)); err != nil {
			return err
		}
		if _, err := pd.conn.Exec(ctx, GetDocumentTableSchema(table)); err != nil {
			return err
		}
	}
	return nil
}

func (pd *PostgresDriver) InsertDocuments(ctx context.Context, collection string, docs []interface{}) error {
	rows, err := jsonRows(docs)
	if err != nil {
		return err
	}
	_, err = pd.conn.CopyFrom(
		ctx,
		pgx.Identifier{collection},
		[]string{"doc"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return fmt.Errorf("failed to copy into %s: %w", collection, err)
	}
	return nil
}

func GetDocumentTableSchema(table string) string {
	return fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id BIGSERIAL PRIMARY KEY,
			doc JSONB NOT NULL
		);
	`, table)
}

func jsonRows(docs []interface{}) ([][]interface{}, error) {
	rows := make([][]interface{}, len(docs))
	for i, doc := range docs {
		b, err := json.Marshal(doc)
		if err != nil {
			return nil, err
		}
		rows[i] = []interface{}{b}
	}
	return rows, nil
}
