package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

func Migrate(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS snapshots (
			profile TEXT PRIMARY KEY,
			version INTEGER NOT NULL,
			total_points INTEGER NOT NULL,
			last_rollover_day TEXT NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS task_states (
			profile TEXT NOT NULL,
			task_id TEXT NOT NULL,
			tier TEXT NOT NULL DEFAULT 'unselected',
			PRIMARY KEY (profile, task_id),
			FOREIGN KEY(profile) REFERENCES snapshots(profile) ON DELETE CASCADE
		);`,
		// One row per task per day; the latest selection of a day replaces earlier ones.
		`CREATE TABLE IF NOT EXISTS task_history (
			profile TEXT NOT NULL,
			task_id TEXT NOT NULL,
			day TEXT NOT NULL,
			tier TEXT NOT NULL,
			PRIMARY KEY (profile, task_id, day),
			FOREIGN KEY(profile, task_id) REFERENCES task_states(profile, task_id) ON DELETE CASCADE
		);`,
		`CREATE TABLE IF NOT EXISTS points_history (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			profile TEXT NOT NULL,
			day TEXT NOT NULL,
			total_points INTEGER NOT NULL,
			reason TEXT NOT NULL,
			FOREIGN KEY(profile) REFERENCES snapshots(profile) ON DELETE CASCADE
		);`,
		`CREATE INDEX IF NOT EXISTS idx_points_history_profile_id ON points_history(profile, id);`,
	}

	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	// Columns added after the first release.
	alterStmts := []string{
		`ALTER TABLE snapshots ADD COLUMN writer TEXT;`,
	}
	for _, stmt := range alterStmts {
		_, err := db.ExecContext(ctx, stmt)
		if err != nil && !strings.Contains(err.Error(), "duplicate column") {
			return fmt.Errorf("migrate alter: %w", err)
		}
	}

	return nil
}
