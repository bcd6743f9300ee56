package engine

// PointsFor returns the signed delta task yields at tier. A tier the task does not
// offer scores zero; use TierOffered to tell that apart from a real zero.
func PointsFor(task *Task, tier Tier) int {
	switch tier {
	case TierUnselected:
		return 0
	case TierNone:
		return task.Points.None
	case TierMinimum:
		return task.Points.Minimum.Or(0)
	case TierFull:
		return task.Points.Full
	case TierBonus:
		return task.Points.Bonus.Or(0)
	default:
		// Not one of the five tiers. Breakdown flags it as Stale.
		return 0
	}
}

// TierOffered reports whether task can be completed at tier.
func TierOffered(task *Task, tier Tier) bool {
	switch tier {
	case TierUnselected, TierNone, TierFull:
		return true
	case TierMinimum:
		return task.Points.Minimum.Offered
	case TierBonus:
		return task.Points.Bonus.Offered
	default:
		// Invalid tiers are never offered.
		return false
	}
}

// OfferedTiers returns the tiers a user can pick for task, excluding Unselected.
func OfferedTiers(task *Task) []Tier {
	out := make([]Tier, 0, 4)
	for _, t := range Tiers {
		if t != TierUnselected && TierOffered(task, t) {
			out = append(out, t)
		}
	}
	return out
}

// effectiveTier is the tier a due task is scored at: an unaddressed task counts
// as not done.
func effectiveTier(tier Tier) Tier {
	if tier == TierUnselected {
		return TierNone
	}
	return tier
}

// BreakdownLine is one due task's contribution to a day's delta.
type BreakdownLine struct {
	Task   *Task
	Stored Tier
	Scored Tier
	Points int
	// Stale is set when the stored tier is not offered by the task, which happens
	// when the catalog changed after the selection was made, or is not a valid tier.
	Stale bool
}

// Breakdown lists the contribution of every task due on day, in catalog order.
func Breakdown(s *Snapshot, catalog *Catalog, day Day) []BreakdownLine {
	var out []BreakdownLine
	for i := range catalog.Tasks {
		task := &catalog.Tasks[i]
		if !IsDue(task, day) {
			continue
		}
		stored := TierUnselected
		if ts, ok := s.Tasks[task.ID]; ok {
			stored = ts.Tier
		}
		scored := effectiveTier(stored)
		out = append(out, BreakdownLine{
			Task:   task,
			Stored: stored,
			Scored: scored,
			Points: PointsFor(task, scored),
			Stale:  !TierOffered(task, scored),
		})
	}
	return out
}

// DailyDelta is the sum of points over tasks due on day. Tasks that are not due
// never contribute, whatever tier they hold.
func DailyDelta(s *Snapshot, catalog *Catalog, day Day) int {
	total := 0
	for _, line := range Breakdown(s, catalog, day) {
		total += line.Points
	}
	return total
}
