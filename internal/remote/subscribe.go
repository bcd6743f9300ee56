package remote

import (
	"context"
	"fmt"

	"github.com/gomodule/redigo/redis"

	"github.com/Giantpizzahead/life-coach-x/internal/gateway"
)

// Subscribe streams writes to profile made by any process, this one included.
// An update with a nil Snapshot means the profile was cleared.
func (g *Gateway) Subscribe(ctx context.Context, profile string) (<-chan gateway.Update, error) {
	conn, err := g.pool.GetContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("redis connect: %w", err)
	}
	psc := redis.PubSubConn{Conn: conn}
	channel := g.channel(profile)
	if err := psc.Subscribe(channel); err != nil {
		_ = psc.Close()
		return nil, fmt.Errorf("redis subscribe: %w", err)
	}
	// Wait for the confirmation so that writes made after Subscribe returns are seen.
	switch v := psc.ReceiveContext(ctx).(type) {
	case redis.Subscription:
	case error:
		_ = psc.Close()
		return nil, fmt.Errorf("redis subscribe: %w", v)
	}

	out := make(chan gateway.Update)
	go func() {
		defer close(out)
		defer psc.Close()
		for {
			switch v := psc.ReceiveContext(ctx).(type) {
			case redis.Message:
				u, ok := g.decodeUpdate(profile, v.Data)
				if !ok {
					continue
				}
				select {
				case out <- u:
				case <-ctx.Done():
					return
				}
			case redis.Subscription:
				if v.Count == 0 {
					return
				}
			case error:
				if ctx.Err() == nil {
					g.log.Warn().Err(v).Str("channel", channel).Msg("snapshot subscription ended")
				}
				return
			}
		}
	}()
	return out, nil
}

func (g *Gateway) decodeUpdate(profile string, data []byte) (gateway.Update, bool) {
	if len(data) == 0 {
		return gateway.Update{Profile: profile}, true
	}
	s, doc, err := gateway.Decode(data)
	if err != nil {
		g.log.Warn().Err(err).Str("profile", profile).Msg("ignoring undecodable snapshot update")
		return gateway.Update{}, false
	}
	return gateway.Update{Profile: profile, Writer: doc.Writer, UpdatedAt: doc.UpdatedAt, Snapshot: s}, true
}
