// Package tracker runs engine operations against a persisted snapshot. Every
// mutation is load, apply, save; the engine itself never does I/O.
package tracker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/Giantpizzahead/life-coach-x/internal/clock"
	"github.com/Giantpizzahead/life-coach-x/internal/engine"
	"github.com/Giantpizzahead/life-coach-x/internal/gateway"
	"github.com/Giantpizzahead/life-coach-x/internal/metrics"
)

// Options configures a Service. Zero fields take defaults.
type Options struct {
	Profile        string
	Catalog        *engine.Catalog
	// Calendar's RolloverHour is used as given; 0 is a midnight rollover. A nil
	// Location means time.Local.
	Calendar       engine.Calendar
	StartingPoints int
	Clock          clock.Clock
	Logger         zerolog.Logger
	Metrics        *metrics.Recorder
}

// Observer is called after every change with the new snapshot, or nil once the
// profile has been cleared.
type Observer func(s *engine.Snapshot)

type Service struct {
	mu sync.Mutex
	gw gateway.Gateway

	profile  string
	catalog  *engine.Catalog
	cal      engine.Calendar
	starting int
	clock    clock.Clock
	log      zerolog.Logger
	rec      *metrics.Recorder

	obsMu     sync.RWMutex
	observers map[int]Observer
	nextObs   int
}

func NewService(gw gateway.Gateway, opts Options) *Service {
	if opts.Profile == "" {
		opts.Profile = "default-user"
	}
	if opts.Catalog == nil {
		opts.Catalog = engine.NewCatalog(nil, nil)
	}
	if opts.Calendar.Location == nil {
		opts.Calendar.Location = time.Local
	}
	if opts.Clock == nil {
		opts.Clock = clock.RealClock{}
	}
	return &Service{
		gw:        gw,
		profile:   opts.Profile,
		catalog:   opts.Catalog,
		cal:       opts.Calendar,
		starting:  opts.StartingPoints,
		clock:     opts.Clock,
		log:       opts.Logger.With().Str("component", "tracker").Str("profile", opts.Profile).Logger(),
		rec:       opts.Metrics,
		observers: map[int]Observer{},
	}
}

func (s *Service) Profile() string           { return s.profile }
func (s *Service) Catalog() *engine.Catalog  { return s.catalog }
func (s *Service) Calendar() engine.Calendar { return s.cal }
func (s *Service) Gateway() gateway.Gateway  { return s.gw }

// Today is the effective day at the current time.
func (s *Service) Today() engine.Day {
	return s.cal.EffectiveDay(s.clock.Now())
}

// OnChange registers fn and returns a function that unregisters it.
func (s *Service) OnChange(fn Observer) func() {
	s.obsMu.Lock()
	id := s.nextObs
	s.nextObs++
	s.observers[id] = fn
	s.obsMu.Unlock()
	return func() {
		s.obsMu.Lock()
		delete(s.observers, id)
		s.obsMu.Unlock()
	}
}

func (s *Service) notify(snap *engine.Snapshot) {
	s.obsMu.RLock()
	defer s.obsMu.RUnlock()
	for _, fn := range s.observers {
		fn(snap.Clone())
	}
}

// load returns the stored snapshot reconciled against the catalog, or a fresh
// one. created reports whether nothing was stored.
func (s *Service) load(ctx context.Context) (snap *engine.Snapshot, created bool, err error) {
	stored, err := s.gw.Load(ctx, s.profile)
	if err != nil {
		return nil, false, fmt.Errorf("load snapshot: %w", err)
	}
	if stored == nil {
		s.log.Info().Int("starting_points", s.starting).Msg("creating snapshot")
		return engine.NewSnapshot(s.catalog, s.starting, s.Today()), true, nil
	}
	return engine.Reconcile(stored, s.catalog), false, nil
}

func (s *Service) save(ctx context.Context, snap *engine.Snapshot) error {
	if err := s.gw.Save(ctx, s.profile, snap); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	s.rec.TotalPoints(s.profile, snap.TotalPoints)
	s.notify(snap)
	return nil
}

// catchUp closes every day that has ended.
func (s *Service) catchUp(snap *engine.Snapshot) (*engine.Snapshot, int) {
	if !engine.IsRolloverDue(snap, s.cal, s.clock.Now()) {
		return snap, 0
	}
	// Only the first closed day can hold selections; later days start Unselected.
	for _, line := range engine.Breakdown(snap, s.catalog, snap.LastRolloverDay) {
		if line.Stale {
			msg := "stored tier is not offered by the task; scoring it as zero"
			if !line.Stored.IsValid() {
				msg = "stored tier is invalid; scoring it as zero"
			}
			s.log.Warn().
				Str("task", line.Task.ID).
				Str("tier", string(line.Stored)).
				Str("day", snap.LastRolloverDay.String()).
				Msg(msg)
		}
	}
	from := snap.TotalPoints
	out, n := engine.CatchUp(snap, s.catalog, s.cal, s.clock.Now())
	s.log.Info().
		Int("days", n).
		Int("from", from).
		Int("to", out.TotalPoints).
		Str("open_day", out.LastRolloverDay.String()).
		Msg("rolled over")
	s.rec.Rollovers(s.profile, n)
	return out, n
}

// current loads, reconciles and catches up, saving when any of that changed the
// stored state. Callers hold s.mu.
func (s *Service) current(ctx context.Context) (*engine.Snapshot, error) {
	snap, created, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	before := snap.Clone()
	snap, _ = s.catchUp(snap)
	if created || !engine.Equal(before, snap) {
		if err := s.save(ctx, snap); err != nil {
			return nil, err
		}
	}
	return snap, nil
}

// Open brings the profile's snapshot up to date and returns it.
func (s *Service) Open(ctx context.Context) (*engine.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current(ctx)
}
