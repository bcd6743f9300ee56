package engine

import (
	"testing"
	"time"
)

// 2024-01-03 is a Wednesday.
var day0 = Day{Year: 2024, Month: time.January, Day: 3}

func waterCatalog() *Catalog {
	return NewCatalog(
		[]Section{{Name: "Health", Order: 1}},
		[]Task{{
			ID:         "water",
			Name:       "Drink water",
			Section:    "Health",
			Points:     PointValues{None: -10, Full: 20},
			Recurrence: Daily(),
		}},
	)
}

func mixedCatalog() *Catalog {
	return NewCatalog(
		[]Section{{Name: "Health", Order: 1}, {Name: "Home", Order: 2}},
		[]Task{
			{
				ID:         "run",
				Section:    "Health",
				Points:     PointValues{None: -50, Minimum: Offered(10), Full: 40, Bonus: Offered(80)},
				Recurrence: Daily(),
			},
			{
				ID:         "trash",
				Section:    "Home",
				Points:     PointValues{None: -30, Full: 15},
				Recurrence: Weekly(int(time.Wednesday)),
			},
			{
				ID:         "rent",
				Section:    "Home",
				Points:     PointValues{None: -500, Full: 0},
				Recurrence: Monthly(1, 15),
			},
		},
	)
}

func TestPointsForUnselectedIsZero(t *testing.T) {
	cat := mixedCatalog()
	for i := range cat.Tasks {
		if got := PointsFor(&cat.Tasks[i], TierUnselected); got != 0 {
			t.Fatalf("PointsFor(%s, unselected)=%d, want 0", cat.Tasks[i].ID, got)
		}
	}
}

func TestPointsForTiers(t *testing.T) {
	cat := mixedCatalog()
	run := cat.Task("run")
	trash := cat.Task("trash")

	cases := []struct {
		task *Task
		tier Tier
		want int
	}{
		{run, TierNone, -50},
		{run, TierMinimum, 10},
		{run, TierFull, 40},
		{run, TierBonus, 80},
		{trash, TierMinimum, 0},
		{trash, TierBonus, 0},
		{trash, TierFull, 15},
	}
	for _, tc := range cases {
		if got := PointsFor(tc.task, tc.tier); got != tc.want {
			t.Fatalf("PointsFor(%s, %s)=%d, want %d", tc.task.ID, tc.tier, got, tc.want)
		}
	}
	if TierOffered(trash, TierBonus) {
		t.Fatalf("trash should not offer bonus")
	}
	if got := len(OfferedTiers(run)); got != 4 {
		t.Fatalf("OfferedTiers(run)=%d, want 4", got)
	}
}

func TestOfferedZeroDiffersFromNotOffered(t *testing.T) {
	task := &Task{ID: "x", Points: PointValues{Minimum: Offered(0)}, Recurrence: Daily()}
	if !TierOffered(task, TierMinimum) {
		t.Fatalf("Offered(0) must be offered")
	}
	if TierOffered(task, TierBonus) {
		t.Fatalf("zero value must be not offered")
	}
}

func TestIsDue(t *testing.T) {
	cat := mixedCatalog()
	wed := day0
	thu := day0.AddDays(1)
	first := Day{Year: 2024, Month: time.February, Day: 1}

	if !IsDue(cat.Task("run"), thu) {
		t.Fatalf("daily task must always be due")
	}
	if !IsDue(cat.Task("trash"), wed) {
		t.Fatalf("weekly task must be due on wednesday")
	}
	if IsDue(cat.Task("trash"), thu) {
		t.Fatalf("weekly task must not be due on thursday")
	}
	if !IsDue(cat.Task("rent"), first) || IsDue(cat.Task("rent"), wed) {
		t.Fatalf("monthly task due on the 1st and 15th only")
	}
}

func TestDailyDeltaIgnoresTasksNotDue(t *testing.T) {
	cat := mixedCatalog()
	thu := day0.AddDays(1)
	s := NewSnapshot(cat, 1000, thu)
	s = ApplyTierSelection(s, cat, "run", TierFull, thu)

	before := DailyDelta(s, cat, thu)
	s2 := ApplyTierSelection(s, cat, "trash", TierFull, thu)
	if got := DailyDelta(s2, cat, thu); got != before {
		t.Fatalf("changing a non-due task changed delta: %d -> %d", before, got)
	}
	if before != 40 {
		t.Fatalf("DailyDelta=%d, want 40", before)
	}
}

func TestDailyDeltaCountsUnselectedAsNone(t *testing.T) {
	cat := mixedCatalog()
	s := NewSnapshot(cat, 0, day0)
	// Wednesday: run and trash due, both unaddressed.
	if got := DailyDelta(s, cat, day0); got != -80 {
		t.Fatalf("DailyDelta=%d, want -80", got)
	}
}

func TestBreakdownFlagsStaleTier(t *testing.T) {
	cat := mixedCatalog()
	s := NewSnapshot(cat, 0, day0)
	ts := s.Tasks["trash"]
	ts.Tier = TierBonus
	s.Tasks["trash"] = ts

	var found bool
	for _, line := range Breakdown(s, cat, day0) {
		if line.Task.ID != "trash" {
			continue
		}
		found = true
		if !line.Stale || line.Points != 0 {
			t.Fatalf("trash line=%+v, want stale with 0 points", line)
		}
	}
	if !found {
		t.Fatalf("trash missing from breakdown")
	}
}

func TestInvalidTierScoresZeroAndIsFlagged(t *testing.T) {
	cat := waterCatalog()
	water := cat.Task("water")
	if got := PointsFor(water, Tier("great")); got != 0 {
		t.Fatalf("PointsFor(great)=%d, want 0", got)
	}
	if TierOffered(water, Tier("great")) {
		t.Fatalf("TierOffered(great)=true, want false")
	}

	s := NewSnapshot(cat, 0, day0)
	ts := s.Tasks["water"]
	ts.Tier = Tier("great")
	s.Tasks["water"] = ts
	lines := Breakdown(s, cat, day0)
	if len(lines) != 1 || !lines[0].Stale || lines[0].Points != 0 {
		t.Fatalf("lines=%+v, want one stale line with 0 points", lines)
	}
}

func TestSelectThenRolloverScenario(t *testing.T) {
	cat := waterCatalog()
	cal := Calendar{RolloverHour: 6, Location: time.UTC}
	s := NewSnapshot(cat, 1000, day0)

	s = ApplyTierSelection(s, cat, "water", TierFull, day0)
	if s.TotalPoints != 1000 {
		t.Fatalf("selection changed points: %d", s.TotalPoints)
	}
	if s.Tasks["water"].Tier != TierFull {
		t.Fatalf("tier=%s, want full", s.Tasks["water"].Tier)
	}

	now := time.Date(2024, time.January, 4, 7, 0, 0, 0, time.UTC)
	if !IsRolloverDue(s, cal, now) {
		t.Fatalf("expected rollover due at day1 boundary")
	}
	s = Rollover(s, cat)
	if s.TotalPoints != 1020 {
		t.Fatalf("TotalPoints=%d, want 1020", s.TotalPoints)
	}
	if s.Tasks["water"].Tier != TierUnselected {
		t.Fatalf("tier not reset: %s", s.Tasks["water"].Tier)
	}
	if s.LastRolloverDay != day0.AddDays(1) {
		t.Fatalf("LastRolloverDay=%s, want %s", s.LastRolloverDay, day0.AddDays(1))
	}
	if len(s.Tasks["water"].History) != 1 {
		t.Fatalf("history must survive rollover")
	}
	last := s.PointsHistory[len(s.PointsHistory)-1]
	if last.Day != day0 || last.TotalPoints != 1020 || last.Reason != ReasonDailyReset {
		t.Fatalf("points record=%+v", last)
	}
	if IsRolloverDue(s, cal, now) {
		t.Fatalf("rollover must not be due again for the same now")
	}
}

func TestOfflineDaysEachScoreNone(t *testing.T) {
	cat := waterCatalog()
	cal := Calendar{RolloverHour: 6, Location: time.UTC}
	s := NewSnapshot(cat, 1000, day0)
	now := time.Date(2024, time.January, 5, 12, 0, 0, 0, time.UTC)

	s1 := Rollover(s, cat)
	if s1.TotalPoints != 990 || s1.LastRolloverDay != day0.AddDays(1) {
		t.Fatalf("first rollover: points=%d day=%s", s1.TotalPoints, s1.LastRolloverDay)
	}
	s2 := Rollover(s1, cat)
	if s2.TotalPoints != 980 || s2.LastRolloverDay != day0.AddDays(2) {
		t.Fatalf("second rollover: points=%d day=%s", s2.TotalPoints, s2.LastRolloverDay)
	}
	if IsRolloverDue(s2, cal, now) {
		t.Fatalf("caught up snapshot must not be due")
	}

	caught, n := CatchUp(s, cat, cal, now)
	if n != 2 || caught.TotalPoints != 980 {
		t.Fatalf("CatchUp n=%d points=%d, want 2 and 980", n, caught.TotalPoints)
	}
}

func TestWeeklyTaskNeverScoresOffDay(t *testing.T) {
	cat := mixedCatalog()
	thu := day0.AddDays(1)
	s := NewSnapshot(cat, 0, thu)
	s = ApplyTierSelection(s, cat, "trash", TierFull, thu)
	s = ApplyTierSelection(s, cat, "run", TierFull, thu)

	out := Rollover(s, cat)
	if out.TotalPoints != 40 {
		t.Fatalf("TotalPoints=%d, want 40 (trash not due thursday)", out.TotalPoints)
	}
}

func TestRepeatedSelectionCollapsesHistory(t *testing.T) {
	cat := mixedCatalog()
	s := NewSnapshot(cat, 0, day0)
	s = ApplyTierSelection(s, cat, "run", TierMinimum, day0)
	s = ApplyTierSelection(s, cat, "run", TierBonus, day0)
	s = ApplyTierSelection(s, cat, "run", TierFull, day0)

	h := s.Tasks["run"].History
	if len(h) != 1 {
		t.Fatalf("history len=%d, want 1", len(h))
	}
	if h[0].Tier != TierFull {
		t.Fatalf("history tier=%s, want full (last writer wins)", h[0].Tier)
	}

	s = ApplyTierSelection(s, cat, "run", TierNone, day0.AddDays(-2))
	h = s.Tasks["run"].History
	if len(h) != 2 || !h[0].Day.Before(h[1].Day) {
		t.Fatalf("history not ordered by day: %+v", h)
	}
	if tier, ok := s.Tasks["run"].TierOn(day0); !ok || tier != TierFull {
		t.Fatalf("TierOn(day0)=%s,%v", tier, ok)
	}
}

func TestSelectionDoesNotMutateInput(t *testing.T) {
	cat := mixedCatalog()
	s := NewSnapshot(cat, 0, day0)
	s = ApplyTierSelection(s, cat, "run", TierMinimum, day0)
	before := s.Clone()

	_ = ApplyTierSelection(s, cat, "run", TierFull, day0)
	_ = Rollover(s, cat)
	if !Equal(s, before) {
		t.Fatalf("input snapshot was mutated")
	}
}

func TestUnknownTaskSelectionIsNoop(t *testing.T) {
	cat := waterCatalog()
	s := NewSnapshot(cat, 1000, day0)
	out := ApplyTierSelection(s, cat, "ghost", TierFull, day0)
	if !Equal(s, out) {
		t.Fatalf("unknown task selection changed snapshot")
	}
	if _, ok := out.Tasks["ghost"]; ok {
		t.Fatalf("unknown task state created")
	}
}

func TestManualAdjustment(t *testing.T) {
	cat := waterCatalog()
	s := NewSnapshot(cat, 1000, day0)
	s = ApplyManualAdjustment(s, -250, day0)
	if s.TotalPoints != 750 {
		t.Fatalf("TotalPoints=%d, want 750", s.TotalPoints)
	}
	rec := s.PointsHistory[0]
	if rec.Reason != ReasonManualAdjustment || rec.TotalPoints != 750 || rec.Day != day0 {
		t.Fatalf("record=%+v", rec)
	}
	if s.LastRolloverDay != day0 {
		t.Fatalf("adjustment moved LastRolloverDay")
	}
}

func TestReconcileKeepsUnknownAndAddsMissing(t *testing.T) {
	cat := mixedCatalog()
	s := NewSnapshot(waterCatalog(), 0, day0)
	out := Reconcile(s, cat)
	for _, id := range []string{"run", "trash", "rent", "water"} {
		if _, ok := out.Tasks[id]; !ok {
			t.Fatalf("missing state for %s", id)
		}
	}
	if _, ok := s.Tasks["run"]; ok {
		t.Fatalf("Reconcile mutated its input")
	}
	// water is no longer in the catalog and must not score.
	ws := out.Tasks["water"]
	ws.Tier = TierFull
	out.Tasks["water"] = ws
	if got := DailyDelta(out, cat, day0); got != -80 {
		t.Fatalf("DailyDelta=%d, want -80", got)
	}
}

func TestCheckSelection(t *testing.T) {
	cat := mixedCatalog()
	if err := CheckSelection(cat, "run", TierBonus); err != nil {
		t.Fatalf("CheckSelection(run, bonus): %v", err)
	}
	err := CheckSelection(cat, "trash", TierMinimum)
	if _, ok := err.(TierNotOfferedError); !ok {
		t.Fatalf("err=%v, want TierNotOfferedError", err)
	}
	if err := CheckSelection(cat, "ghost", TierFull); err == nil {
		t.Fatalf("expected unknown task error")
	}
}

func TestParseTier(t *testing.T) {
	for in, want := range map[string]Tier{"F": TierFull, " min ": TierMinimum, "bonus": TierBonus, "n": TierNone, "u": TierUnselected} {
		got, err := ParseTier(in)
		if err != nil || got != want {
			t.Fatalf("ParseTier(%q)=%s,%v want %s", in, got, err, want)
		}
	}
	if _, err := ParseTier("maybe"); err == nil {
		t.Fatalf("expected error for unknown tier")
	}
}
