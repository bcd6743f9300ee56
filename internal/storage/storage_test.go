package storage

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/Giantpizzahead/life-coach-x/internal/engine"
	"github.com/Giantpizzahead/life-coach-x/internal/gateway"
)

func newTestGateway(t *testing.T) *Gateway {
	t.Helper()
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "nested", "test.db")
	g, err := OpenGateway(ctx, path)
	if err != nil {
		t.Fatalf("open gateway: %v", err)
	}
	t.Cleanup(func() { _ = g.Close() })
	return g
}

var day0 = engine.Day{Year: 2024, Month: time.January, Day: 3}

func testCatalog() *engine.Catalog {
	return engine.NewCatalog(nil, []engine.Task{
		{ID: "water", Points: engine.PointValues{None: -10, Full: 20}, Recurrence: engine.Daily()},
		{ID: "trash", Points: engine.PointValues{None: -5, Full: 5, Minimum: engine.Offered(0)}, Recurrence: engine.Weekly(3)},
	})
}

func playedSnapshot() *engine.Snapshot {
	cat := testCatalog()
	s := engine.NewSnapshot(cat, engine.DefaultStartingPoints, day0)
	s = engine.ApplyTierSelection(s, cat, "water", engine.TierNone, day0)
	s = engine.ApplyTierSelection(s, cat, "water", engine.TierFull, day0)
	s = engine.ApplyTierSelection(s, cat, "trash", engine.TierMinimum, day0)
	s = engine.Rollover(s, cat)
	s = engine.ApplyTierSelection(s, cat, "water", engine.TierNone, day0.AddDays(1))
	return engine.ApplyManualAdjustment(s, 25, day0.AddDays(1))
}

func TestLoadMissingProfile(t *testing.T) {
	g := newTestGateway(t)
	s, err := g.Load(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if s != nil {
		t.Fatalf("load missing profile = %+v, want nil", s)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	g := newTestGateway(t)
	want := playedSnapshot()

	if err := g.Save(ctx, "alice", want); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := g.Load(ctx, "alice")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !engine.Equal(want, got) {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, want)
	}
	if got.TotalPoints != 1045 {
		t.Fatalf("TotalPoints=%d, want 1045", got.TotalPoints)
	}
	if n := len(got.Tasks["water"].History); n != 2 {
		t.Fatalf("water history len=%d, want 2", n)
	}
}

func TestSaveReplacesPreviousRows(t *testing.T) {
	ctx := context.Background()
	g := newTestGateway(t)

	if err := g.Save(ctx, "alice", playedSnapshot()); err != nil {
		t.Fatalf("save: %v", err)
	}
	fresh := engine.NewSnapshot(testCatalog(), 500, day0)
	if err := g.Save(ctx, "alice", fresh); err != nil {
		t.Fatalf("save again: %v", err)
	}
	got, err := g.Load(ctx, "alice")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !engine.Equal(fresh, got) {
		t.Fatalf("stale rows survived: %+v", got)
	}
}

func TestProfilesAreIsolated(t *testing.T) {
	ctx := context.Background()
	g := newTestGateway(t)

	if err := g.Save(ctx, "alice", playedSnapshot()); err != nil {
		t.Fatalf("save alice: %v", err)
	}
	if err := g.Save(ctx, "bob", engine.NewSnapshot(testCatalog(), 10, day0)); err != nil {
		t.Fatalf("save bob: %v", err)
	}
	if err := g.Clear(ctx, "bob"); err != nil {
		t.Fatalf("clear bob: %v", err)
	}

	profiles, err := NewSnapshotRepo(g.DB()).Profiles(ctx)
	if err != nil {
		t.Fatalf("profiles: %v", err)
	}
	if len(profiles) != 1 || profiles[0] != "alice" {
		t.Fatalf("profiles=%v, want [alice]", profiles)
	}
	got, err := g.Load(ctx, "alice")
	if err != nil || got == nil {
		t.Fatalf("load alice: %v, %v", got, err)
	}
}

func TestLoadRejectsCorruptRows(t *testing.T) {
	ctx := context.Background()
	g := newTestGateway(t)
	if err := g.Save(ctx, "alice", playedSnapshot()); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := g.DB().ExecContext(ctx, `UPDATE task_states SET tier = 'legendary' WHERE task_id = 'water'`); err != nil {
		t.Fatalf("corrupt row: %v", err)
	}
	_, err := g.Load(ctx, "alice")
	if !errors.Is(err, gateway.ErrCorruptSnapshot) {
		t.Fatalf("load err=%v, want ErrCorruptSnapshot", err)
	}
}

func TestMigrateIsIdempotent(t *testing.T) {
	g := newTestGateway(t)
	if err := Migrate(context.Background(), g.DB()); err != nil {
		t.Fatalf("second migrate: %v", err)
	}
}

func TestWithTxRollsBack(t *testing.T) {
	ctx := context.Background()
	g := newTestGateway(t)
	boom := errors.New("boom")

	err := WithTx(ctx, g.DB(), func(tx *sql.Tx) error {
		if err := NewSnapshotRepo(tx).Upsert(ctx, SnapshotRow{Profile: "ghost", Version: 1, LastRolloverDay: "2024-01-03", UpdatedAt: time.Now()}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("WithTx err=%v, want boom", err)
	}
	row, err := NewSnapshotRepo(g.DB()).Get(ctx, "ghost")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if row != nil {
		t.Fatalf("row survived rollback: %+v", row)
	}
}

func TestResolveDBPath(t *testing.T) {
	if got := ResolveDBPath("/tmp/x.db", "/home/u/.lcx"); got != "/tmp/x.db" {
		t.Fatalf("ResolveDBPath(configured)=%q", got)
	}
	if got := ResolveDBPath("", "/home/u/.lcx"); got != filepath.Join("/home/u/.lcx", "lcx.db") {
		t.Fatalf("ResolveDBPath(default)=%q", got)
	}
}
