package tracker

import (
	"context"
	"fmt"
	"time"

	"github.com/Giantpizzahead/life-coach-x/internal/catalog"
	"github.com/Giantpizzahead/life-coach-x/internal/engine"
	"github.com/Giantpizzahead/life-coach-x/internal/gateway"
)

// Select sets the tier of a task for today. Unknown tasks and tiers the task
// does not offer are rejected.
func (s *Service) Select(ctx context.Context, taskID string, tier engine.Tier) (*engine.Snapshot, error) {
	if err := engine.CheckSelection(s.catalog, taskID, tier); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.current(ctx)
	if err != nil {
		return nil, err
	}
	snap = engine.ApplyTierSelection(snap, s.catalog, taskID, tier, s.Today())
	if err := s.save(ctx, snap); err != nil {
		return nil, err
	}
	s.rec.Selection(string(tier))
	s.log.Debug().Str("task", taskID).Str("tier", string(tier)).Msg("tier selected")
	return snap, nil
}

// Adjust adds delta to the running total right away.
func (s *Service) Adjust(ctx context.Context, delta int) (*engine.Snapshot, error) {
	if delta == 0 {
		return nil, fmt.Errorf("adjust: delta must be non-zero")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.current(ctx)
	if err != nil {
		return nil, err
	}
	snap = engine.ApplyManualAdjustment(snap, delta, s.Today())
	if err := s.save(ctx, snap); err != nil {
		return nil, err
	}
	s.rec.Adjustment(s.profile)
	s.log.Info().Int("delta", delta).Int("total", snap.TotalPoints).Msg("manual adjustment")
	return snap, nil
}

// Rollover closes every day that has ended and reports how many it closed.
func (s *Service) Rollover(ctx context.Context) (*engine.Snapshot, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, created, err := s.load(ctx)
	if err != nil {
		return nil, 0, err
	}
	before := snap.Clone()
	snap, n := s.catchUp(snap)
	if created || !engine.Equal(before, snap) {
		if err := s.save(ctx, snap); err != nil {
			return nil, 0, err
		}
	}
	return snap, n, nil
}

// Replace stores snap as the profile's state, last write wins.
func (s *Service) Replace(ctx context.Context, snap *engine.Snapshot) (*engine.Snapshot, error) {
	if snap == nil {
		return nil, fmt.Errorf("replace: nil snapshot")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	out := engine.Reconcile(snap, s.catalog)
	out, _ = s.catchUp(out)
	if err := s.save(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Clear deletes the profile's stored state. The next operation starts over.
func (s *Service) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.gw.Clear(ctx, s.profile); err != nil {
		return fmt.Errorf("clear snapshot: %w", err)
	}
	s.log.Warn().Msg("snapshot cleared")
	s.notify(nil)
	return nil
}

// Group is the due tasks of one section with their contribution to the open day.
type Group struct {
	Section engine.Section
	Lines   []engine.BreakdownLine
}

// Status is a read-only view of the profile.
type Status struct {
	Snapshot *engine.Snapshot
	// OpenDay is the day selections currently count toward.
	OpenDay engine.Day
	Today   engine.Day
	Groups  []Group
	// Preview is the delta the open day would commit if it closed now.
	Preview      int
	RolloverDue  bool
	NextRollover time.Time
}

// Status reports the stored state without rolling over or saving.
func (s *Service) Status(ctx context.Context) (*Status, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, _, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	now := s.clock.Now()
	open := snap.LastRolloverDay
	lines := engine.Breakdown(snap, s.catalog, open)
	st := &Status{
		Snapshot:     snap,
		OpenDay:      open,
		Today:        s.cal.EffectiveDay(now),
		RolloverDue:  engine.IsRolloverDue(snap, s.cal, now),
		NextRollover: s.cal.NextBoundary(now),
	}
	byTask := make(map[string]engine.BreakdownLine, len(lines))
	for _, l := range lines {
		st.Preview += l.Points
		byTask[l.Task.ID] = l
	}
	for _, g := range catalog.BySection(s.catalog, func(t *engine.Task) bool { return engine.IsDue(t, open) }) {
		grp := Group{Section: g.Section}
		for _, t := range g.Tasks {
			grp.Lines = append(grp.Lines, byTask[t.ID])
		}
		st.Groups = append(st.Groups, grp)
	}
	return st, nil
}

// History returns the points history, oldest first.
func (s *Service) History(ctx context.Context) ([]engine.PointsRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, _, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return snap.PointsHistory, nil
}

// Watch forwards snapshot writes made by other processes to the observers. It
// blocks until ctx ends and returns gateway.ErrNotSubscribable when the gateway
// cannot push updates.
func (s *Service) Watch(ctx context.Context) error {
	sub, ok := s.gw.(gateway.Subscriber)
	if !ok {
		return gateway.ErrNotSubscribable
	}
	updates, err := sub.Subscribe(ctx, s.profile)
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	for u := range updates {
		if u.Writer == gateway.WriterID {
			continue
		}
		s.log.Debug().Str("writer", u.Writer).Msg("snapshot changed elsewhere")
		if u.Snapshot == nil {
			s.notify(nil)
			continue
		}
		s.notify(engine.Reconcile(u.Snapshot, s.catalog))
	}
	return ctx.Err()
}
