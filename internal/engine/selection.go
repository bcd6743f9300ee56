package engine

import "slices"

// ApplyTierSelection sets the tier of taskID and records it in the task's history
// for today, replacing any earlier record for that day. Ids missing from the catalog
// and invalid tiers leave the snapshot unchanged. Points are not touched; they are committed at
// rollover.
func ApplyTierSelection(s *Snapshot, catalog *Catalog, taskID string, tier Tier, today Day) *Snapshot {
	if catalog.Task(taskID) == nil || !tier.IsValid() {
		return s
	}
	out := s.Clone()
	ts := out.Tasks[taskID]
	ts.Tier = tier
	ts.History = upsertHistory(ts.History, HistoryEntry{Day: today, Tier: tier})
	out.Tasks[taskID] = ts
	return out
}

func upsertHistory(history []HistoryEntry, e HistoryEntry) []HistoryEntry {
	i, found := slices.BinarySearchFunc(history, e.Day, func(h HistoryEntry, d Day) int {
		return h.Day.Compare(d)
	})
	if found {
		history[i] = e
		return history
	}
	return slices.Insert(history, i, e)
}

// ApplyManualAdjustment adds delta to TotalPoints and records it for today.
func ApplyManualAdjustment(s *Snapshot, delta int, today Day) *Snapshot {
	out := s.Clone()
	out.TotalPoints += delta
	out.PointsHistory = append(out.PointsHistory, PointsRecord{
		Day:         today,
		TotalPoints: out.TotalPoints,
		Reason:      ReasonManualAdjustment,
	})
	return out
}
