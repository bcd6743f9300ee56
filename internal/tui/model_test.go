package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Giantpizzahead/life-coach-x/internal/clock"
	"github.com/Giantpizzahead/life-coach-x/internal/engine"
	"github.com/Giantpizzahead/life-coach-x/internal/gateway"
	"github.com/Giantpizzahead/life-coach-x/internal/tracker"
)

func newTestModel(t *testing.T) (boardModel, *tracker.Service) {
	t.Helper()
	cat := engine.NewCatalog([]engine.Section{{Name: "Health", Order: 1}}, []engine.Task{
		{ID: "water", Name: "Water", Section: "Health", Description: "- [ ] morning\n- [ ] noon", Points: engine.PointValues{None: -10, Full: 20}, Recurrence: engine.Daily()},
		{ID: "run", Name: "Run", Section: "Health", Points: engine.PointValues{None: -5, Full: 10, Bonus: engine.Offered(15)}, Recurrence: engine.Daily()},
	})
	now := time.Date(2024, time.January, 3, 12, 0, 0, 0, time.UTC)
	mem := gateway.NewMemory()
	t.Cleanup(func() { _ = mem.Close() })
	svc := tracker.NewService(mem, tracker.Options{
		Profile:        "alice",
		Catalog:        cat,
		Calendar:       engine.Calendar{RolloverHour: 6, Location: time.UTC},
		StartingPoints: 1000,
		Clock:          clock.Func(func() time.Time { return now }),
	})
	return newBoardModel(context.Background(), svc), svc
}

// step feeds msg to m and runs any command it returns, feeding the result back
// until the model settles.
func step(t *testing.T, m boardModel, msg tea.Msg) boardModel {
	t.Helper()
	for msg != nil {
		next, cmd := m.Update(msg)
		m = next.(boardModel)
		if cmd == nil {
			break
		}
		msg = cmd()
	}
	return m
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestBoardLoadsAndRenders(t *testing.T) {
	m, _ := newTestModel(t)
	m = step(t, m, m.Init()())

	if m.status == nil {
		t.Fatalf("status not loaded: %v", m.err)
	}
	view := m.View()
	for _, want := range []string{"$10.00", "Water", "Run", "morning", "0/2"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q:\n%s", want, view)
		}
	}
}

func TestBoardSetsTiers(t *testing.T) {
	m, svc := newTestModel(t)
	m = step(t, m, m.Init()())

	m = step(t, m, key("f"))
	m = step(t, m, key("j"))
	m = step(t, m, key("b"))

	snap, err := svc.Open(context.Background())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if got := snap.Tasks["water"].Tier; got != engine.TierFull {
		t.Fatalf("water tier=%s, want full", got)
	}
	if got := snap.Tasks["run"].Tier; got != engine.TierBonus {
		t.Fatalf("run tier=%s, want bonus", got)
	}
	if m.status.Preview != 35 {
		t.Fatalf("preview=%d, want 35", m.status.Preview)
	}
}

func TestBoardRejectsUnofferedTier(t *testing.T) {
	m, svc := newTestModel(t)
	m = step(t, m, m.Init()())

	m = step(t, m, key("m"))
	if !strings.Contains(m.lastLog, "has no minimum tier") {
		t.Fatalf("lastLog=%q", m.lastLog)
	}
	snap, _ := svc.Open(context.Background())
	if got := snap.Tasks["water"].Tier; got != engine.TierUnselected {
		t.Fatalf("water tier=%s, want unselected", got)
	}
}

func TestBoardAdjusts(t *testing.T) {
	m, _ := newTestModel(t)
	m = step(t, m, m.Init()())

	m = step(t, m, key("A"))
	if got := m.status.Snapshot.TotalPoints; got != 900 {
		t.Fatalf("TotalPoints=%d, want 900", got)
	}
	if !strings.Contains(m.lastLog, "-$1.00") {
		t.Fatalf("lastLog=%q", m.lastLog)
	}
}

func TestBoardQuits(t *testing.T) {
	m, _ := newTestModel(t)
	_, cmd := m.Update(key("q"))
	if cmd == nil {
		t.Fatalf("q returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("q did not quit")
	}
}

func TestProgressBar(t *testing.T) {
	if got := progressBar(1, 2, 4); got != "[##--]" {
		t.Fatalf("progressBar=%q", got)
	}
	if got := progressBar(5, 0, 4); got != "[####]" {
		t.Fatalf("progressBar(empty)=%q", got)
	}
}
