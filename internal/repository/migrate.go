package repository

import (
	"context"
	"fmt"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS parse_record (
		id            TEXT PRIMARY KEY,
		source_path   TEXT NOT NULL,
		content_hash  TEXT NOT NULL,
		status        TEXT NOT NULL,
		email         TEXT,
		skills        TEXT,
		education     TEXT,
		experience    TEXT,
		method        TEXT,
		error_message TEXT,
		created_at    TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS parse_record_content_hash_idx ON parse_record (content_hash)`,
	`CREATE INDEX IF NOT EXISTS parse_record_created_at_idx ON parse_record (created_at)`,
}

func migrate(ctx context.Context, db *DB) error {
	for i, stmt := range schema {
		if _, err := db.SQL.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("schema statement %d: %w", i, err)
		}
	}
	return nil
}
