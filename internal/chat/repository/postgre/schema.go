package postgre

import (
	"context"
	"fmt"

	"telegram-ai-relay/internal/chat/repository"
)

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		user_id    BIGINT PRIMARY KEY,
		created_at BIGINT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS projects (
		id         SERIAL PRIMARY KEY,
		name       VARCHAR(100) NOT NULL,
		context    TEXT NOT NULL DEFAULT '',
		created_at BIGINT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS user_projects (
		user_id    BIGINT NOT NULL REFERENCES users(user_id),
		project_id INTEGER NOT NULL REFERENCES projects(id),
		is_current BOOLEAN NOT NULL DEFAULT FALSE,
		PRIMARY KEY (user_id, project_id)
	)`,
	`CREATE TABLE IF NOT EXISTS conversations (
		id         SERIAL PRIMARY KEY,
		user_id    BIGINT NOT NULL REFERENCES users(user_id),
		project_id INTEGER REFERENCES projects(id),
		role       VARCHAR(20) NOT NULL,
		content    TEXT NOT NULL,
		created_at BIGINT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_conversations_user_project ON conversations(user_id, project_id)`,
	`CREATE TABLE IF NOT EXISTS project_files (
		id         SERIAL PRIMARY KEY,
		project_id INTEGER NOT NULL REFERENCES projects(id),
		filename   VARCHAR(255) NOT NULL,
		content    BYTEA,
		mime_type  VARCHAR(100) NOT NULL DEFAULT '',
		created_at BIGINT NOT NULL
	)`,
}

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		user_id    INTEGER PRIMARY KEY,
		created_at INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS projects (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		name       TEXT NOT NULL,
		context    TEXT NOT NULL DEFAULT '',
		created_at INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS user_projects (
		user_id    INTEGER NOT NULL REFERENCES users(user_id),
		project_id INTEGER NOT NULL REFERENCES projects(id),
		is_current INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (user_id, project_id)
	)`,
	`CREATE TABLE IF NOT EXISTS conversations (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id    INTEGER NOT NULL REFERENCES users(user_id),
		project_id INTEGER REFERENCES projects(id),
		role       TEXT NOT NULL,
		content    TEXT NOT NULL,
		created_at INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_conversations_user_project ON conversations(user_id, project_id)`,
	`CREATE TABLE IF NOT EXISTS project_files (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		project_id INTEGER NOT NULL REFERENCES projects(id),
		filename   TEXT NOT NULL,
		content    BLOB,
		mime_type  TEXT NOT NULL DEFAULT '',
		created_at INTEGER NOT NULL
	)`,
}

// Migrate creates every table and index if missing.
func (r *implRepository) Migrate(ctx context.Context) error {
	stmts := postgresSchema
	if r.dialect == DialectSQLite {
		stmts = sqliteSchema
	}
	for _, stmt := range stmts {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			r.l.Errorf(ctx, "%s: %v", r.dsn("Migrate"), err)
			return fmt.Errorf("%w: %v", repository.ErrFailedToMigrate, err)
		}
	}
	return nil
}
