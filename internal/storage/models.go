package storage

import (
	"database/sql"
	"time"
)

// SnapshotRow is the scalar part of a profile's snapshot.
type SnapshotRow struct {
	Profile         string
	Version         int
	TotalPoints     int
	LastRolloverDay string
	UpdatedAt       time.Time
	Writer          sql.NullString
}

type TaskStateRow struct {
	TaskID string
	Tier   string
}

type HistoryRow struct {
	TaskID string
	Day    string
	Tier   string
}

type PointsRow struct {
	ID          int64
	Day         string
	TotalPoints int
	Reason      string
}
