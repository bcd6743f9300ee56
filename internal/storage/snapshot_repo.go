package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

type SnapshotRepo struct {
	q querier
}

func NewSnapshotRepo(q querier) *SnapshotRepo {
	return &SnapshotRepo{q: q}
}

func (r *SnapshotRepo) Get(ctx context.Context, profile string) (*SnapshotRow, error) {
	row := r.q.QueryRowContext(ctx, `
		SELECT profile, version, total_points, last_rollover_day, updated_at, writer
		FROM snapshots
		WHERE profile = ?
	`, profile)

	var s SnapshotRow
	if err := row.Scan(&s.Profile, &s.Version, &s.TotalPoints, &s.LastRolloverDay, &s.UpdatedAt, &s.Writer); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("snapshot get: %w", err)
	}
	return &s, nil
}

func (r *SnapshotRepo) Upsert(ctx context.Context, s SnapshotRow) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO snapshots (profile, version, total_points, last_rollover_day, updated_at, writer)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(profile) DO UPDATE SET
			version = excluded.version,
			total_points = excluded.total_points,
			last_rollover_day = excluded.last_rollover_day,
			updated_at = excluded.updated_at,
			writer = excluded.writer
	`, s.Profile, s.Version, s.TotalPoints, s.LastRolloverDay, s.UpdatedAt, s.Writer)
	if err != nil {
		return fmt.Errorf("snapshot upsert: %w", err)
	}
	return nil
}

// Delete removes profile's snapshot; dependent rows cascade.
func (r *SnapshotRepo) Delete(ctx context.Context, profile string) error {
	if _, err := r.q.ExecContext(ctx, `DELETE FROM snapshots WHERE profile = ?`, profile); err != nil {
		return fmt.Errorf("snapshot delete: %w", err)
	}
	return nil
}

// Profiles lists every profile with a stored snapshot.
func (r *SnapshotRepo) Profiles(ctx context.Context) ([]string, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT profile FROM snapshots ORDER BY profile ASC`)
	if err != nil {
		return nil, fmt.Errorf("snapshot profiles: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("snapshot profile scan: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("snapshot profiles rows: %w", err)
	}
	return out, nil
}
