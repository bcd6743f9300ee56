package gateway

import (
	"context"
	"time"

	"github.com/Giantpizzahead/life-coach-x/internal/engine"
	"github.com/Giantpizzahead/life-coach-x/internal/metrics"
)

// Instrumented records latency and failures of every call to inner.
type Instrumented struct {
	inner   Gateway
	rec     *metrics.Recorder
	backend string
}

func NewInstrumented(inner Gateway, rec *metrics.Recorder) *Instrumented {
	return &Instrumented{inner: inner, rec: rec, backend: BackendName(inner)}
}

func (g *Instrumented) Backend() string { return g.backend }

func (g *Instrumented) observe(op string, start time.Time, err error) {
	g.rec.ObserveGateway(g.backend, op, time.Since(start), err)
}

func (g *Instrumented) Load(ctx context.Context, profile string) (*engine.Snapshot, error) {
	start := time.Now()
	s, err := g.inner.Load(ctx, profile)
	g.observe("load", start, err)
	return s, err
}

func (g *Instrumented) Save(ctx context.Context, profile string, s *engine.Snapshot) error {
	start := time.Now()
	err := g.inner.Save(ctx, profile, s)
	g.observe("save", start, err)
	return err
}

func (g *Instrumented) Clear(ctx context.Context, profile string) error {
	start := time.Now()
	err := g.inner.Clear(ctx, profile)
	g.observe("clear", start, err)
	return err
}

func (g *Instrumented) Subscribe(ctx context.Context, profile string) (<-chan Update, error) {
	sub, ok := g.inner.(Subscriber)
	if !ok {
		return nil, ErrNotSubscribable
	}
	start := time.Now()
	ch, err := sub.Subscribe(ctx, profile)
	g.observe("subscribe", start, err)
	return ch, err
}

func (g *Instrumented) Close() error { return g.inner.Close() }
