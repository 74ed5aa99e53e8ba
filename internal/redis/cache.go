package redis

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// LayoutEventsChannel carries layout_updated notifications between instances.
const LayoutEventsChannel = "layout_events"

// LayoutEvent is published whenever a layout is replaced or deleted.
type LayoutEvent struct {
	Type     string `json:"type"`
	Name     string `json:"name"`
	Checksum string `json:"checksum,omitempty"`
}

// LayoutCache keeps rendered layout views so repeat reads skip decoding.
type LayoutCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewLayoutCache(rdb *redis.Client, ttl time.Duration) *LayoutCache {
	return &LayoutCache{rdb: rdb, ttl: ttl}
}

func viewKey(name, checksum string) string {
	return "layout:" + name + ":" + checksum + ":view"
}

func currentKey(name string) string {
	return "layout:" + name + ":current"
}

// GetView returns the cached view of the current version of name.
func (c *LayoutCache) GetView(ctx context.Context, name string) ([]byte, bool) {
	checksum, err := c.rdb.Get(ctx, currentKey(name)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("[CACHE] get current %s: %v", name, err)
		}
		return nil, false
	}
	data, err := c.rdb.Get(ctx, viewKey(name, checksum)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("[CACHE] get view %s@%s: %v", name, checksum, err)
		}
		return nil, false
	}
	return data, true
}

// SetView stores the view for one checksum and marks it current.
func (c *LayoutCache) SetView(ctx context.Context, name, checksum string, view []byte) error {
	pipe := c.rdb.TxPipeline()
	pipe.SetEx(ctx, viewKey(name, checksum), view, c.ttl)
	pipe.SetEx(ctx, currentKey(name), checksum, c.ttl)
	_, err := pipe.Exec(ctx)
	return err
}

// Invalidate drops the current marker; stale views expire on their own.
func (c *LayoutCache) Invalidate(ctx context.Context, name string) error {
	return c.rdb.Del(ctx, currentKey(name)).Err()
}

// Publish sends ev to every instance subscribed to layout events.
func (c *LayoutCache) Publish(ctx context.Context, ev LayoutEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return c.rdb.Publish(ctx, LayoutEventsChannel, data).Err()
}

// Subscribe relays layout events until ctx is cancelled.
func (c *LayoutCache) Subscribe(ctx context.Context) <-chan LayoutEvent {
	out := make(chan LayoutEvent, 16)
	pubsub := c.rdb.Subscribe(ctx, LayoutEventsChannel)
	go func() {
		defer close(out)
		defer pubsub.Close()
		log.Println("[CACHE] layout_events subscriber started")
		ch := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var ev LayoutEvent
				if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
					log.Printf("[CACHE] invalid layout event payload: %v", err)
					continue
				}
				select {
				case out <- ev:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out
}
