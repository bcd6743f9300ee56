package storage

import (
	"context"
	"fmt"
)

// TaskStateRepo stores the current tier and the selection history of each task.
type TaskStateRepo struct {
	q querier
}

func NewTaskStateRepo(q querier) *TaskStateRepo {
	return &TaskStateRepo{q: q}
}

func (r *TaskStateRepo) List(ctx context.Context, profile string) ([]TaskStateRow, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT task_id, tier
		FROM task_states
		WHERE profile = ?
		ORDER BY task_id ASC
	`, profile)
	if err != nil {
		return nil, fmt.Errorf("task state list: %w", err)
	}
	defer rows.Close()

	var out []TaskStateRow
	for rows.Next() {
		var ts TaskStateRow
		if err := rows.Scan(&ts.TaskID, &ts.Tier); err != nil {
			return nil, fmt.Errorf("task state scan: %w", err)
		}
		out = append(out, ts)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("task state rows: %w", err)
	}
	return out, nil
}

func (r *TaskStateRepo) Insert(ctx context.Context, profile string, ts TaskStateRow) error {
	_, err := r.q.ExecContext(ctx, `INSERT INTO task_states (profile, task_id, tier) VALUES (?, ?, ?)`, profile, ts.TaskID, ts.Tier)
	if err != nil {
		return fmt.Errorf("task state insert: %w", err)
	}
	return nil
}

// DeleteAll removes every task state of profile along with its history.
func (r *TaskStateRepo) DeleteAll(ctx context.Context, profile string) error {
	if _, err := r.q.ExecContext(ctx, `DELETE FROM task_history WHERE profile = ?`, profile); err != nil {
		return fmt.Errorf("task history delete: %w", err)
	}
	if _, err := r.q.ExecContext(ctx, `DELETE FROM task_states WHERE profile = ?`, profile); err != nil {
		return fmt.Errorf("task state delete: %w", err)
	}
	return nil
}

func (r *TaskStateRepo) ListHistory(ctx context.Context, profile string) ([]HistoryRow, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT task_id, day, tier
		FROM task_history
		WHERE profile = ?
		ORDER BY task_id ASC, day ASC
	`, profile)
	if err != nil {
		return nil, fmt.Errorf("task history list: %w", err)
	}
	defer rows.Close()

	var out []HistoryRow
	for rows.Next() {
		h, err := scanHistoryRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("task history rows: %w", err)
	}
	return out, nil
}

func (r *TaskStateRepo) InsertHistory(ctx context.Context, profile string, h HistoryRow) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO task_history (profile, task_id, day, tier) VALUES (?, ?, ?, ?)
		ON CONFLICT(profile, task_id, day) DO UPDATE SET tier = excluded.tier
	`, profile, h.TaskID, h.Day, h.Tier)
	if err != nil {
		return fmt.Errorf("task history insert: %w", err)
	}
	return nil
}

func scanHistoryRow(row scanner) (*HistoryRow, error) {
	var h HistoryRow
	if err := row.Scan(&h.TaskID, &h.Day, &h.Tier); err != nil {
		return nil, fmt.Errorf("task history scan: %w", err)
	}
	return &h, nil
}
