package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Giantpizzahead/life-coach-x/internal/engine"
	"github.com/Giantpizzahead/life-coach-x/internal/gateway"
)

// Gateway persists snapshots in SQLite. It is the "local" storage backend.
type Gateway struct {
	db  *sql.DB
	now func() time.Time
}

// NewGateway wraps an open, migrated database.
func NewGateway(db *sql.DB) *Gateway {
	return &Gateway{db: db, now: time.Now}
}

// OpenGateway opens the database at path and returns a gateway over it.
func OpenGateway(ctx context.Context, path string) (*Gateway, error) {
	db, err := Open(ctx, path)
	if err != nil {
		return nil, err
	}
	return NewGateway(db), nil
}

func (g *Gateway) Backend() string { return "local" }

// DB exposes the underlying database.
func (g *Gateway) DB() *sql.DB { return g.db }

func (g *Gateway) Load(ctx context.Context, profile string) (*engine.Snapshot, error) {
	row, err := NewSnapshotRepo(g.db).Get(ctx, profile)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, nil
	}
	states, err := NewTaskStateRepo(g.db).List(ctx, profile)
	if err != nil {
		return nil, err
	}
	history, err := NewTaskStateRepo(g.db).ListHistory(ctx, profile)
	if err != nil {
		return nil, err
	}
	points, err := NewPointsRepo(g.db).List(ctx, profile)
	if err != nil {
		return nil, err
	}
	return assemble(row, states, history, points)
}

func assemble(row *SnapshotRow, states []TaskStateRow, history []HistoryRow, points []PointsRow) (*engine.Snapshot, error) {
	doc := gateway.Document{
		Version:         row.Version,
		TotalPoints:     row.TotalPoints,
		LastRolloverDay: row.LastRolloverDay,
		Tasks:           make(map[string]gateway.TaskDocument, len(states)),
		UpdatedAt:       row.UpdatedAt,
		Writer:          row.Writer.String,
	}
	for _, ts := range states {
		doc.Tasks[ts.TaskID] = gateway.TaskDocument{CompletionTier: ts.Tier}
	}
	for _, h := range history {
		td, ok := doc.Tasks[h.TaskID]
		if !ok {
			return nil, fmt.Errorf("%w: history for unknown task %q", gateway.ErrCorruptSnapshot, h.TaskID)
		}
		td.History = append(td.History, gateway.HistoryDocument{Date: h.Day, Tier: h.Tier})
		doc.Tasks[h.TaskID] = td
	}
	for _, p := range points {
		doc.PointsHistory = append(doc.PointsHistory, gateway.PointsDocument{Day: p.Day, TotalPoints: p.TotalPoints, Reason: p.Reason})
	}
	return doc.Snapshot()
}

// Save replaces profile's stored snapshot with s in one transaction.
func (g *Gateway) Save(ctx context.Context, profile string, s *engine.Snapshot) error {
	doc := gateway.ToDocument(s, g.now())
	return WithTx(ctx, g.db, func(tx *sql.Tx) error {
		if err := NewSnapshotRepo(tx).Upsert(ctx, SnapshotRow{
			Profile:         profile,
			Version:         doc.Version,
			TotalPoints:     doc.TotalPoints,
			LastRolloverDay: doc.LastRolloverDay,
			UpdatedAt:       doc.UpdatedAt,
			Writer:          sql.NullString{String: doc.Writer, Valid: doc.Writer != ""},
		}); err != nil {
			return err
		}

		tasks := NewTaskStateRepo(tx)
		if err := tasks.DeleteAll(ctx, profile); err != nil {
			return err
		}
		for _, id := range s.TaskIDs() {
			td := doc.Tasks[id]
			if err := tasks.Insert(ctx, profile, TaskStateRow{TaskID: id, Tier: td.CompletionTier}); err != nil {
				return err
			}
			for _, h := range td.History {
				if err := tasks.InsertHistory(ctx, profile, HistoryRow{TaskID: id, Day: h.Date, Tier: h.Tier}); err != nil {
					return err
				}
			}
		}

		points := NewPointsRepo(tx)
		if err := points.DeleteAll(ctx, profile); err != nil {
			return err
		}
		for _, p := range doc.PointsHistory {
			if _, err := points.Insert(ctx, profile, PointsRow{Day: p.Day, TotalPoints: p.TotalPoints, Reason: p.Reason}); err != nil {
				return err
			}
		}
		return nil
	})
}

func (g *Gateway) Clear(ctx context.Context, profile string) error {
	return WithTx(ctx, g.db, func(tx *sql.Tx) error {
		if err := NewTaskStateRepo(tx).DeleteAll(ctx, profile); err != nil {
			return err
		}
		if err := NewPointsRepo(tx).DeleteAll(ctx, profile); err != nil {
			return err
		}
		return NewSnapshotRepo(tx).Delete(ctx, profile)
	})
}

func (g *Gateway) Close() error {
	return g.db.Close()
}
