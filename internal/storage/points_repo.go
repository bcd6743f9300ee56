package storage

import (
	"context"
	"fmt"
)

type PointsRepo struct {
	q querier
}

func NewPointsRepo(q querier) *PointsRepo {
	return &PointsRepo{q: q}
}

func (r *PointsRepo) Insert(ctx context.Context, profile string, p PointsRow) (int64, error) {
	res, err := r.q.ExecContext(ctx, `
		INSERT INTO points_history (profile, day, total_points, reason)
		VALUES (?, ?, ?, ?)
	`, profile, p.Day, p.TotalPoints, p.Reason)
	if err != nil {
		return 0, fmt.Errorf("points insert: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("points last insert id: %w", err)
	}
	return id, nil
}

// List returns profile's records in insertion order.
func (r *PointsRepo) List(ctx context.Context, profile string) ([]PointsRow, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT id, day, total_points, reason
		FROM points_history
		WHERE profile = ?
		ORDER BY id ASC
	`, profile)
	if err != nil {
		return nil, fmt.Errorf("points list: %w", err)
	}
	defer rows.Close()

	var out []PointsRow
	for rows.Next() {
		var p PointsRow
		if err := rows.Scan(&p.ID, &p.Day, &p.TotalPoints, &p.Reason); err != nil {
			return nil, fmt.Errorf("points scan: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("points rows: %w", err)
	}
	return out, nil
}

func (r *PointsRepo) DeleteAll(ctx context.Context, profile string) error {
	if _, err := r.q.ExecContext(ctx, `DELETE FROM points_history WHERE profile = ?`, profile); err != nil {
		return fmt.Errorf("points delete: %w", err)
	}
	return nil
}
