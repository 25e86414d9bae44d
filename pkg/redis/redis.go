// Package redis serves rxform definition documents from a Redis string key,
// reloading on keyspace notifications.
//
// The server must publish keyspace events for string commands:
//
//	CONFIG SET notify-keyspace-events K$
package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// writeEvents are the keyspace events that replace a string value.
var writeEvents = map[string]bool{
	"set":       true,
	"setex":     true,
	"psetex":    true,
	"setnx":     true,
	"mset":      true,
	"rename_to": true,
}

// Source emits the document stored under one key.
type Source struct {
	client *redis.Client
	key    string
	db     int
}

// Option configures a Source.
type Option func(*Source)

// WithDB sets the database index the key lives in. Default: 0.
func WithDB(db int) Option {
	return func(s *Source) {
		s.db = db
	}
}

// New returns a Source for key.
func New(client *redis.Client, key string, opts ...Option) *Source {
	s := &Source{client: client, key: key}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Channel is the keyspace channel the source subscribes to.
func (s *Source) Channel() string {
	return fmt.Sprintf("__keyspace@%d__:%s", s.db, s.key)
}

// Watch implements rxform.Watcher. The stored document, if any, is emitted
// first.
func (s *Source) Watch(ctx context.Context) (<-chan []byte, error) {
	sub := s.client.Subscribe(ctx, s.Channel())
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close() //nolint:errcheck // already failing
		return nil, fmt.Errorf("subscribe %s: %w", s.Channel(), err)
	}

	out := make(chan []byte)
	go func() {
		defer close(out)
		defer sub.Close() //nolint:errcheck // best effort on shutdown

		if !s.forward(ctx, out) {
			return
		}

		msgs := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				if !writeEvents[msg.Payload] {
					continue
				}
				if !s.forward(ctx, out) {
					return
				}
			}
		}
	}()
	return out, nil
}

// forward reads the key and sends it on out. It reports false once ctx is
// done. Read failures, redis.Nil included, are skipped.
func (s *Source) forward(ctx context.Context, out chan<- []byte) bool {
	doc, err := s.client.Get(ctx, s.key).Bytes()
	if err != nil {
		return ctx.Err() == nil
	}
	select {
	case out <- doc:
		return true
	case <-ctx.Done():
		return false
	}
}
