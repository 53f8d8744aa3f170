// internal/common/database/migrations.go
// Schema for parties, profiles, preferences, matches, quota counters and messages

package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS parties (
		id BIGSERIAL PRIMARY KEY,
		email VARCHAR(255) UNIQUE,
		phone VARCHAR(20),
		display_name VARCHAR(100) NOT NULL DEFAULT '',
		is_premium BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,

	// Profiles are versioned; the highest version is the active snapshot
	`CREATE TABLE IF NOT EXISTS profiles (
		party_id BIGINT NOT NULL REFERENCES parties(id),
		version INTEGER NOT NULL,
		birth_date DATE,
		city VARCHAR(100) NOT NULL DEFAULT '',
		state VARCHAR(50) NOT NULL DEFAULT '',
		country VARCHAR(50) NOT NULL DEFAULT '',
		latitude DOUBLE PRECISION,
		longitude DOUBLE PRECISION,
		education VARCHAR(30) NOT NULL DEFAULT '',
		religion VARCHAR(30) NOT NULL DEFAULT '',
		smoking VARCHAR(20) NOT NULL DEFAULT '',
		drinking VARCHAR(20) NOT NULL DEFAULT '',
		exercise VARCHAR(20) NOT NULL DEFAULT '',
		children_timeline VARCHAR(20) NOT NULL DEFAULT '',
		desired_children VARCHAR(20) NOT NULL DEFAULT '',
		parenting_philosophy VARCHAR(30) NOT NULL DEFAULT '',
		relationship_timeline VARCHAR(30) NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (party_id, version)
	)`,

	`CREATE TABLE IF NOT EXISTS preferences (
		party_id BIGINT PRIMARY KEY REFERENCES parties(id),
		min_age INTEGER NOT NULL DEFAULT 0,
		max_age INTEGER NOT NULL DEFAULT 0,
		max_distance_miles INTEGER NOT NULL DEFAULT 50,
		willing_to_relocate BOOLEAN NOT NULL DEFAULT FALSE,
		age_importance VARCHAR(30) NOT NULL DEFAULT 'important',
		location_importance VARCHAR(30) NOT NULL DEFAULT 'important',
		religion_importance VARCHAR(30) NOT NULL DEFAULT 'important',
		education_importance VARCHAR(30) NOT NULL DEFAULT 'somewhat_important',
		children_timeline_importance VARCHAR(30) NOT NULL DEFAULT 'very_important',
		children_count_importance VARCHAR(30) NOT NULL DEFAULT 'important',
		parenting_importance VARCHAR(30) NOT NULL DEFAULT 'important',
		relationship_timeline_importance VARCHAR(30) NOT NULL DEFAULT 'very_important',
		updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,

	`CREATE TABLE IF NOT EXISTS matches (
		id BIGSERIAL PRIMARY KEY,
		sender_id BIGINT NOT NULL REFERENCES parties(id),
		receiver_id BIGINT NOT NULL REFERENCES parties(id),
		status VARCHAR(20) NOT NULL DEFAULT 'pending',
		compatibility_score DOUBLE PRECISION NOT NULL,
		compatibility_breakdown JSONB,
		sender_liked_at TIMESTAMPTZ NOT NULL,
		receiver_responded_at TIMESTAMPTZ,
		matched_at TIMESTAMPTZ,
		expires_at TIMESTAMPTZ NOT NULL,
		blocked_by BIGINT,
		unmatched_by BIGINT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		CONSTRAINT matches_distinct_parties CHECK (sender_id <> receiver_id)
	)`,

	// At most one active match per unordered pair
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_matches_active_pair
		ON matches (LEAST(sender_id, receiver_id), GREATEST(sender_id, receiver_id))
		WHERE status IN ('pending', 'matched')`,

	`CREATE INDEX IF NOT EXISTS idx_matches_pending_expiry
		ON matches (expires_at) WHERE status = 'pending'`,
	`CREATE INDEX IF NOT EXISTS idx_matches_sender ON matches(sender_id)`,
	`CREATE INDEX IF NOT EXISTS idx_matches_receiver ON matches(receiver_id)`,

	`CREATE TABLE IF NOT EXISTS quota_counters (
		party_id BIGINT PRIMARY KEY REFERENCES parties(id),
		reset_date DATE NOT NULL,
		matches_sent INTEGER NOT NULL DEFAULT 0,
		messages_sent INTEGER NOT NULL DEFAULT 0,
		version BIGINT NOT NULL DEFAULT 1,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,

	`CREATE TABLE IF NOT EXISTS messages (
		id BIGSERIAL PRIMARY KEY,
		match_id BIGINT NOT NULL REFERENCES matches(id),
		sender_id BIGINT NOT NULL REFERENCES parties(id),
		content TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_messages_match ON messages(match_id, created_at DESC)`,
}

// RunMigrations applies the schema. Statements are idempotent.
func RunMigrations(ctx context.Context, db *sqlx.DB) error {
	for i, migration := range migrations {
		if _, err := db.ExecContext(ctx, migration); err != nil {
			if !strings.Contains(err.Error(), "already exists") {
				return fmt.Errorf("migration %d failed: %w", i+1, err)
			}
		}
	}
	return nil
}
