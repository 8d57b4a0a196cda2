package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            TEXT PRIMARY KEY,
		name          TEXT NOT NULL,
		email         TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		role          TEXT NOT NULL,
		created_at    TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS events (
		id                TEXT PRIMARY KEY,
		name              TEXT NOT NULL,
		date              TEXT NOT NULL,
		total_tickets     INT NOT NULL,
		tickets_available INT NOT NULL CHECK (tickets_available >= 0),
		created_at        TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS attendees (
		id          BIGSERIAL PRIMARY KEY,
		event_id    TEXT NOT NULL REFERENCES events (id),
		user_id     TEXT NOT NULL,
		ticket_code TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS bookings (
		id          TEXT PRIMARY KEY,
		user_id     TEXT NOT NULL,
		event_id    TEXT NOT NULL REFERENCES events (id),
		ticket_code TEXT NOT NULL UNIQUE,
		validated   BOOLEAN NOT NULL DEFAULT FALSE,
		created_at  TIMESTAMPTZ NOT NULL
	)`,
}

// Migrate creates the schema if it does not exist yet. Statements are
// idempotent, so running at every startup is safe.
func Migrate(ctx context.Context, db *pgxpool.Pool) error {
	for _, stmt := range schema {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}
