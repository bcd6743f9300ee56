package engine

import "time"

// IsRolloverDue reports whether the effective day of now is past LastRolloverDay.
func IsRolloverDue(s *Snapshot, cal Calendar, now time.Time) bool {
	return cal.EffectiveDay(now).After(s.LastRolloverDay)
}

// Rollover closes out LastRolloverDay: its delta is folded into TotalPoints, every
// tier goes back to Unselected and LastRolloverDay advances by exactly one day.
// Callers must check IsRolloverDue first; Rollover does not.
func Rollover(s *Snapshot, catalog *Catalog) *Snapshot {
	closing := s.LastRolloverDay
	out := s.Clone()
	out.TotalPoints += DailyDelta(s, catalog, closing)
	out.PointsHistory = append(out.PointsHistory, PointsRecord{
		Day:         closing,
		TotalPoints: out.TotalPoints,
		Reason:      ReasonDailyReset,
	})
	for id, ts := range out.Tasks {
		ts.Tier = TierUnselected
		out.Tasks[id] = ts
	}
	out.LastRolloverDay = closing.AddDays(1)
	return out
}

// CatchUp applies Rollover until it is no longer due and returns the result with
// the number of days closed. Days the app was never opened score every due task
// as not done.
func CatchUp(s *Snapshot, catalog *Catalog, cal Calendar, now time.Time) (*Snapshot, int) {
	out := s
	n := 0
	for IsRolloverDue(out, cal, now) {
		out = Rollover(out, catalog)
		n++
	}
	return out, n
}
