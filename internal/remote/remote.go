// Package remote stores snapshots in Redis so several devices can share one profile.
package remote

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gomodule/redigo/redis"
	"github.com/rs/zerolog"

	"github.com/Giantpizzahead/life-coach-x/internal/engine"
	"github.com/Giantpizzahead/life-coach-x/internal/gateway"
)

// Options configures the Redis connection.
type Options struct {
	Addr        string
	Password    string
	DB          int
	KeyPrefix   string
	DialTimeout time.Duration
}

// Gateway keeps each profile's snapshot under "<prefix>:users:<profile>" and
// announces every write on "<prefix>:users:<profile>:updates".
type Gateway struct {
	pool   *redis.Pool
	prefix string
	log    zerolog.Logger
	now    func() time.Time
}

// New returns a gateway with a lazily dialing connection pool.
func New(opts Options, log zerolog.Logger) *Gateway {
	prefix := opts.KeyPrefix
	if prefix == "" {
		prefix = "lcx"
	}
	dialOpts := []redis.DialOption{
		redis.DialDatabase(opts.DB),
		redis.DialConnectTimeout(opts.DialTimeout),
	}
	if opts.Password != "" {
		dialOpts = append(dialOpts, redis.DialPassword(opts.Password))
	}
	pool := &redis.Pool{
		MaxIdle:     4,
		IdleTimeout: 5 * time.Minute,
		DialContext: func(ctx context.Context) (redis.Conn, error) {
			return redis.DialContext(ctx, "tcp", opts.Addr, dialOpts...)
		},
		TestOnBorrow: func(c redis.Conn, t time.Time) error {
			if time.Since(t) < time.Minute {
				return nil
			}
			_, err := c.Do("PING")
			return err
		},
	}
	return &Gateway{pool: pool, prefix: prefix, log: log, now: time.Now}
}

func (g *Gateway) Backend() string { return "remote" }

func (g *Gateway) key(profile string) string {
	return fmt.Sprintf("%s:users:%s", g.prefix, profile)
}

func (g *Gateway) channel(profile string) string {
	return g.key(profile) + ":updates"
}

// Ping checks that the server is reachable.
func (g *Gateway) Ping(ctx context.Context) error {
	conn, err := g.pool.GetContext(ctx)
	if err != nil {
		return fmt.Errorf("redis connect: %w", err)
	}
	defer conn.Close()
	if _, err := redis.DoContext(conn, ctx, "PING"); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

func (g *Gateway) Load(ctx context.Context, profile string) (*engine.Snapshot, error) {
	conn, err := g.pool.GetContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("redis connect: %w", err)
	}
	defer conn.Close()

	data, err := redis.Bytes(redis.DoContext(conn, ctx, "GET", g.key(profile)))
	if errors.Is(err, redis.ErrNil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}
	s, _, err := gateway.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("profile %q: %w", profile, err)
	}
	return s, nil
}

// Save writes the snapshot and publishes it in one MULTI block.
func (g *Gateway) Save(ctx context.Context, profile string, s *engine.Snapshot) error {
	data, err := gateway.Encode(s, g.now())
	if err != nil {
		return err
	}
	return g.exec(ctx, "save",
		[]any{"SET", g.key(profile), data},
		[]any{"PUBLISH", g.channel(profile), data},
	)
}

// Clear deletes the snapshot and publishes an empty message.
func (g *Gateway) Clear(ctx context.Context, profile string) error {
	return g.exec(ctx, "clear",
		[]any{"DEL", g.key(profile)},
		[]any{"PUBLISH", g.channel(profile), ""},
	)
}

func (g *Gateway) exec(ctx context.Context, op string, cmds ...[]any) error {
	conn, err := g.pool.GetContext(ctx)
	if err != nil {
		return fmt.Errorf("redis connect: %w", err)
	}
	defer conn.Close()

	if err := conn.Send("MULTI"); err != nil {
		return fmt.Errorf("redis %s: %w", op, err)
	}
	for _, cmd := range cmds {
		if err := conn.Send(cmd[0].(string), cmd[1:]...); err != nil {
			return fmt.Errorf("redis %s: %w", op, err)
		}
	}
	if _, err := redis.Values(redis.DoContext(conn, ctx, "EXEC")); err != nil {
		return fmt.Errorf("redis %s: %w", op, err)
	}
	return nil
}

func (g *Gateway) Close() error {
	return g.pool.Close()
}
