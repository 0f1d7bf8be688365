package database

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/go-sql-driver/mysql"
)

// MySQLDriver stores each collection as a table with a JSON column.
type MySQLDriver struct {
	db *sql.DB
}

func (md *MySQLDriver) Connect(ctx context.Context, dsn string) error {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return err
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return fmt.Errorf("failed to connect to MySQL: %w", err)
	}
	md.db = db
	return nil
}

func (md *MySQLDriver) Close() error {
	if md.db == nil {
		return nil
	}
	return md.db.Close()
}

func (md *MySQLDriver) Reset(ctx context.Context, collections []string) error {
	for _, name := range collections {
		if _, err := md.db.ExecContext(ctx, fmt.Sprintf("DROP TABLE IF EXISTS `%s`", name)); err != nil {
			return err
		}
		stmt := fmt.Sprintf("CREATE TABLE IF NOT EXISTS `%s` (id BIGINT AUTO_INCREMENT PRIMARY KEY, doc JSON NOT NULL)", name)
		if _, err := md.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func (md *MySQLDriver) InsertDocuments(ctx context.Context, collection string, docs []interface{}) error {
	if len(docs) == 0 {
		return nil
	}
	query, args, err := buildJSONInsert(collection, docs)
	if err != nil {
		return err
	}

	tx, err := md.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to insert into %s: %w", collection, err)
	}
	return tx.Commit()
}

// buildJSONInsert renders one multi-row INSERT for the batch.
func buildJSONInsert(collection string, docs []interface{}) (string, []interface{}, error) {
	rows, err := jsonRows(docs)
	if err != nil {
		return "", nil, err
	}
	builder := sq.Insert(fmt.Sprintf("`%s`", collection)).Columns("doc")
	for _, row := range rows {
		builder = builder.Values(string(row[0].([]byte)))
	}
	return builder.ToSql()
}
