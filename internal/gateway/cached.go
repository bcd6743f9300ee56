package gateway

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/Giantpizzahead/life-coach-x/internal/engine"
)

// Cached keeps recently used snapshots in an LRU in front of another gateway.
type Cached struct {
	inner Gateway
	cache *lru.Cache[string, *engine.Snapshot]
}

// NewCached wraps inner with an LRU of size entries.
func NewCached(inner Gateway, size int) (*Cached, error) {
	cache, err := lru.New[string, *engine.Snapshot](size)
	if err != nil {
		return nil, fmt.Errorf("snapshot cache: %w", err)
	}
	return &Cached{inner: inner, cache: cache}, nil
}

func (c *Cached) Backend() string { return BackendName(c.inner) }

func (c *Cached) Load(ctx context.Context, profile string) (*engine.Snapshot, error) {
	if s, ok := c.cache.Get(profile); ok {
		return s.Clone(), nil
	}
	s, err := c.inner.Load(ctx, profile)
	if err != nil || s == nil {
		return s, err
	}
	c.cache.Add(profile, s.Clone())
	return s, nil
}

func (c *Cached) Save(ctx context.Context, profile string, s *engine.Snapshot) error {
	if err := c.inner.Save(ctx, profile, s); err != nil {
		c.cache.Remove(profile)
		return err
	}
	c.cache.Add(profile, s.Clone())
	return nil
}

func (c *Cached) Clear(ctx context.Context, profile string) error {
	c.cache.Remove(profile)
	return c.inner.Clear(ctx, profile)
}

// Subscribe forwards inner's updates, refreshing the cache with each one.
func (c *Cached) Subscribe(ctx context.Context, profile string) (<-chan Update, error) {
	sub, ok := c.inner.(Subscriber)
	if !ok {
		return nil, ErrNotSubscribable
	}
	in, err := sub.Subscribe(ctx, profile)
	if err != nil {
		return nil, err
	}
	out := make(chan Update)
	go func() {
		defer close(out)
		for u := range in {
			if u.Snapshot != nil {
				c.cache.Add(u.Profile, u.Snapshot.Clone())
			} else {
				c.cache.Remove(u.Profile)
			}
			select {
			case out <- u:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

func (c *Cached) Close() error {
	c.cache.Purge()
	return c.inner.Close()
}
