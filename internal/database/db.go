package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	// Postgres driver registration.
	_ "github.com/lib/pq"
)

// DB wraps the sql connection pool.
type DB struct {
	*sql.DB
}

// New opens a Postgres connection pool and verifies connectivity.
func New(databaseURL string) (*DB, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{DB: db}, nil
}

// Migrate creates the schema if it does not exist yet.
func (d *DB) Migrate(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			provider_id TEXT UNIQUE,
			name TEXT,
			time_zone_id TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS habits (
			id SERIAL PRIMARY KEY,
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			title VARCHAR(80) NOT NULL,
			description VARCHAR(1000),
			habit_type SMALLINT NOT NULL,
			completion_mode SMALLINT NOT NULL,
			days_of_week_mask SMALLINT NOT NULL CHECK (days_of_week_mask BETWEEN 1 AND 127),
			target_value INTEGER NOT NULL CHECK (target_value BETWEEN 1 AND 1000),
			target_unit VARCHAR(32),
			deadline_date DATE,
			created_at_utc TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_habits_user ON habits(user_id)`,
		`CREATE TABLE IF NOT EXISTS checkins (
			id BIGSERIAL PRIMARY KEY,
			habit_id INTEGER NOT NULL REFERENCES habits(id) ON DELETE CASCADE,
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			local_date DATE NOT NULL,
			actual_value INTEGER NOT NULL,
			target_value_snapshot INTEGER NOT NULL,
			completion_mode_snapshot SMALLINT NOT NULL,
			habit_type_snapshot SMALLINT NOT NULL,
			is_planned BOOLEAN NOT NULL,
			created_at_utc TIMESTAMPTZ NOT NULL,
			UNIQUE (habit_id, local_date)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_checkins_user_date ON checkins(user_id, local_date)`,
		`CREATE TABLE IF NOT EXISTS notifications (
			id BIGSERIAL PRIMARY KEY,
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			habit_id INTEGER NOT NULL REFERENCES habits(id) ON DELETE CASCADE,
			local_date DATE NOT NULL,
			notification_type SMALLINT NOT NULL,
			content TEXT NOT NULL,
			created_at_utc TIMESTAMPTZ NOT NULL,
			UNIQUE (habit_id, local_date, notification_type)
		)`,
		`CREATE TABLE IF NOT EXISTS cors_config (
			config_key TEXT PRIMARY KEY,
			allowed_origins TEXT NOT NULL,
			allow_credentials BOOLEAN NOT NULL DEFAULT false,
			max_age INTEGER NOT NULL DEFAULT 300,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS ratelimit_config (
			config_key TEXT PRIMARY KEY,
			rate TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
	}

	for _, stmt := range statements {
		if _, err := d.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to run migration: %w", err)
		}
	}
	return nil
}
