// Package gateway defines how snapshots are persisted and how persistence
// backends are composed.
package gateway

import (
	"context"
	"errors"
	"time"

	"github.com/Giantpizzahead/life-coach-x/internal/engine"
)

// ErrCorruptSnapshot reports a stored document that cannot be decoded into a
// valid snapshot.
var ErrCorruptSnapshot = errors.New("corrupt snapshot")

// ErrNotSubscribable is returned by decorators whose inner gateway cannot push updates.
var ErrNotSubscribable = errors.New("gateway does not support subscriptions")

// Gateway loads and stores one snapshot per profile.
type Gateway interface {
	// Load returns nil, nil when no snapshot exists for profile.
	Load(ctx context.Context, profile string) (*engine.Snapshot, error)
	Save(ctx context.Context, profile string, s *engine.Snapshot) error
	Clear(ctx context.Context, profile string) error
	Close() error
}

// Update announces a snapshot written by some process.
type Update struct {
	Profile   string
	Writer    string
	UpdatedAt time.Time
	Snapshot  *engine.Snapshot
}

// Subscriber is implemented by gateways that can push snapshot changes made
// elsewhere. The channel closes when ctx ends or the subscription fails.
type Subscriber interface {
	Subscribe(ctx context.Context, profile string) (<-chan Update, error)
}

// Named is implemented by gateways that report a backend label for logs and metrics.
type Named interface {
	Backend() string
}

// BackendName returns g's backend label, or "unknown".
func BackendName(g Gateway) string {
	if n, ok := g.(Named); ok {
		return n.Backend()
	}
	return "unknown"
}
