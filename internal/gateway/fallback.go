package gateway

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/Giantpizzahead/life-coach-x/internal/engine"
)

// Fallback prefers primary and falls back to secondary when primary fails.
// A corrupt primary document is reported, not papered over.
type Fallback struct {
	primary   Gateway
	secondary Gateway
	log       zerolog.Logger
}

func NewFallback(primary, secondary Gateway, log zerolog.Logger) *Fallback {
	return &Fallback{primary: primary, secondary: secondary, log: log}
}

func (f *Fallback) Backend() string { return BackendName(f.primary) }

func (f *Fallback) degrade(op, profile string, err error) bool {
	if err == nil || errors.Is(err, ErrCorruptSnapshot) || errors.Is(err, context.Canceled) {
		return false
	}
	f.log.Warn().Err(err).
		Str("op", op).
		Str("profile", profile).
		Str("primary", BackendName(f.primary)).
		Str("fallback", BackendName(f.secondary)).
		Msg("primary storage unavailable, using fallback")
	return true
}

func (f *Fallback) Load(ctx context.Context, profile string) (*engine.Snapshot, error) {
	s, err := f.primary.Load(ctx, profile)
	if f.degrade("load", profile, err) {
		return f.secondary.Load(ctx, profile)
	}
	return s, err
}

func (f *Fallback) Save(ctx context.Context, profile string, s *engine.Snapshot) error {
	err := f.primary.Save(ctx, profile, s)
	if f.degrade("save", profile, err) {
		return f.secondary.Save(ctx, profile, s)
	}
	return err
}

func (f *Fallback) Clear(ctx context.Context, profile string) error {
	err := f.primary.Clear(ctx, profile)
	if f.degrade("clear", profile, err) {
		return f.secondary.Clear(ctx, profile)
	}
	return err
}

func (f *Fallback) Subscribe(ctx context.Context, profile string) (<-chan Update, error) {
	if sub, ok := f.primary.(Subscriber); ok {
		return sub.Subscribe(ctx, profile)
	}
	return nil, ErrNotSubscribable
}

func (f *Fallback) Close() error {
	return errors.Join(f.primary.Close(), f.secondary.Close())
}
