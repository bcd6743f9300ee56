package ui

import (
	"testing"

	"github.com/Giantpizzahead/life-coach-x/internal/engine"
)

func TestFormatHP(t *testing.T) {
	cases := map[int]string{
		0:     "$0.00",
		5:     "$0.05",
		1020:  "$10.20",
		-10:   "-$0.10",
		-1234: "-$12.34",
	}
	for in, want := range cases {
		if got := FormatHP(in); got != want {
			t.Fatalf("FormatHP(%d)=%q, want %q", in, got, want)
		}
	}
	if got := FormatDelta(20); got != "+$0.20" {
		t.Fatalf("FormatDelta(20)=%q", got)
	}
	if got := FormatDelta(-20); got != "-$0.20" {
		t.Fatalf("FormatDelta(-20)=%q", got)
	}
}

func TestTierValues(t *testing.T) {
	task := &engine.Task{ID: "water", Points: engine.PointValues{None: -10, Full: 20, Bonus: engine.Offered(0)}}
	want := "none -$0.10 · full +$0.20 · bonus $0.00"
	if got := TierValues(task); got != want {
		t.Fatalf("TierValues=%q, want %q", got, want)
	}
}

func TestTierIcon(t *testing.T) {
	if TierIcon(engine.TierUnselected) != IconPending || TierIcon(engine.TierFull) != IconDone {
		t.Fatalf("unexpected tier icons")
	}
}
