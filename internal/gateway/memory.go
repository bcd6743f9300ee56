package gateway

import (
	"context"
	"sync"
	"time"

	"github.com/Giantpizzahead/life-coach-x/internal/engine"
)

// Memory keeps snapshots in process. It backs the "memory" storage backend and tests.
type Memory struct {
	mu     sync.Mutex
	docs   map[string]*engine.Snapshot
	subs   map[string][]chan Update
	closed bool
}

func NewMemory() *Memory {
	return &Memory{docs: map[string]*engine.Snapshot{}, subs: map[string][]chan Update{}}
}

func (m *Memory) Backend() string { return "memory" }

func (m *Memory) Load(_ context.Context, profile string) (*engine.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.docs[profile].Clone(), nil
}

func (m *Memory) Save(_ context.Context, profile string, s *engine.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[profile] = s.Clone()
	m.publish(Update{Profile: profile, Writer: WriterID, UpdatedAt: time.Now().UTC(), Snapshot: s.Clone()})
	return nil
}

func (m *Memory) Clear(_ context.Context, profile string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.docs, profile)
	m.publish(Update{Profile: profile, Writer: WriterID, UpdatedAt: time.Now().UTC()})
	return nil
}

// Subscribe delivers every later Save and Clear for profile. A clear arrives with
// a nil Snapshot. Slow readers miss updates
// rather than blocking writers.
func (m *Memory) Subscribe(ctx context.Context, profile string) (<-chan Update, error) {
	ch := make(chan Update, 8)
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		close(ch)
		return ch, nil
	}
	m.subs[profile] = append(m.subs[profile], ch)
	m.mu.Unlock()

	go func() {
		<-ctx.Done()
		m.unsubscribe(profile, ch)
	}()
	return ch, nil
}

func (m *Memory) unsubscribe(profile string, ch chan Update) {
	m.mu.Lock()
	defer m.mu.Unlock()
	subs := m.subs[profile]
	for i, c := range subs {
		if c == ch {
			m.subs[profile] = append(subs[:i], subs[i+1:]...)
			close(ch)
			return
		}
	}
}

func (m *Memory) publish(u Update) {
	for _, ch := range m.subs[u.Profile] {
		select {
		case ch <- u:
		default:
		}
	}
}

func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil
	}
	m.closed = true
	for profile, subs := range m.subs {
		for _, ch := range subs {
			close(ch)
		}
		delete(m.subs, profile)
	}
	return nil
}
