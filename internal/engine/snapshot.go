package engine

import (
	"maps"
	"slices"
)

// SchemaVersion is the snapshot version written by this build.
const SchemaVersion = 1

// DefaultStartingPoints is the HP a fresh snapshot starts with ($10.00).
const DefaultStartingPoints = 1000

const (
	ReasonDailyReset       = "daily reset"
	ReasonManualAdjustment = "manual adjustment"
)

type HistoryEntry struct {
	Day  Day
	Tier Tier
}

// TaskState is the mutable per-task part of a snapshot.
type TaskState struct {
	Tier Tier
	// History is ordered by day with at most one entry per day.
	History []HistoryEntry
}

func (ts TaskState) clone() TaskState {
	return TaskState{Tier: ts.Tier, History: slices.Clone(ts.History)}
}

// TierOn returns the tier recorded for day, if any.
func (ts TaskState) TierOn(day Day) (Tier, bool) {
	i, found := slices.BinarySearchFunc(ts.History, day, func(e HistoryEntry, d Day) int {
		return e.Day.Compare(d)
	})
	if !found {
		return "", false
	}
	return ts.History[i].Tier, true
}

type PointsRecord struct {
	Day         Day
	TotalPoints int
	Reason      string
}

// Snapshot is the entire persisted application state.
type Snapshot struct {
	Version     int
	TotalPoints int
	Tasks       map[string]TaskState
	// LastRolloverDay is the day whose completions are not yet folded into
	// TotalPoints; every earlier day is.
	LastRolloverDay Day
	PointsHistory   []PointsRecord
}

// NewSnapshot returns the first-run snapshot for catalog.
func NewSnapshot(catalog *Catalog, startingPoints int, today Day) *Snapshot {
	s := &Snapshot{
		Version:         SchemaVersion,
		TotalPoints:     startingPoints,
		Tasks:           make(map[string]TaskState, len(catalog.Tasks)),
		LastRolloverDay: today,
	}
	for _, t := range catalog.Tasks {
		s.Tasks[t.ID] = TaskState{Tier: TierUnselected}
	}
	return s
}

// Clone returns a deep copy of s.
func (s *Snapshot) Clone() *Snapshot {
	if s == nil {
		return nil
	}
	out := &Snapshot{
		Version:         s.Version,
		TotalPoints:     s.TotalPoints,
		Tasks:           make(map[string]TaskState, len(s.Tasks)),
		LastRolloverDay: s.LastRolloverDay,
		PointsHistory:   slices.Clone(s.PointsHistory),
	}
	for id, ts := range s.Tasks {
		out.Tasks[id] = ts.clone()
	}
	return out
}

// TaskIDs returns the task ids held by s in sorted order.
func (s *Snapshot) TaskIDs() []string {
	return slices.Sorted(maps.Keys(s.Tasks))
}

// Reconcile gives every catalog task a state. States for ids the catalog no longer
// has are kept as they are; scoring ignores them.
func Reconcile(s *Snapshot, catalog *Catalog) *Snapshot {
	out := s.Clone()
	if out.Tasks == nil {
		out.Tasks = map[string]TaskState{}
	}
	for _, t := range catalog.Tasks {
		ts, ok := out.Tasks[t.ID]
		if !ok {
			out.Tasks[t.ID] = TaskState{Tier: TierUnselected}
			continue
		}
		if !ts.Tier.IsValid() {
			ts.Tier = TierUnselected
			out.Tasks[t.ID] = ts
		}
	}
	return out
}

// Equal reports whether a and b hold the same state.
func Equal(a, b *Snapshot) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Version != b.Version || a.TotalPoints != b.TotalPoints || a.LastRolloverDay != b.LastRolloverDay {
		return false
	}
	if !slices.Equal(a.PointsHistory, b.PointsHistory) || len(a.Tasks) != len(b.Tasks) {
		return false
	}
	for id, ta := range a.Tasks {
		tb, ok := b.Tasks[id]
		if !ok || ta.Tier != tb.Tier || !slices.Equal(ta.History, tb.History) {
			return false
		}
	}
	return true
}
