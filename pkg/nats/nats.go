// Package nats serves rxform definition documents from a NATS JetStream
// key-value bucket.
package nats

import (
	"context"
	"fmt"

	"github.com/nats-io/nats.go/jetstream"
)

// Source emits the document stored under one KV key every time a new
// revision is put. Deletes and purges are skipped so the registry keeps the
// last document it accepted.
type Source struct {
	kv  jetstream.KeyValue
	key string
}

// New returns a Source for key in kv.
func New(kv jetstream.KeyValue, key string) *Source {
	return &Source{kv: kv, key: key}
}

// Watch implements rxform.Watcher. The latest revision, if any, is emitted
// first.
func (s *Source) Watch(ctx context.Context) (<-chan []byte, error) {
	w, err := s.kv.Watch(ctx, s.key)
	if err != nil {
		return nil, fmt.Errorf("watch %s: %w", s.key, err)
	}

	out := make(chan []byte)
	go func() {
		defer close(out)
		defer w.Stop() //nolint:errcheck // best effort on shutdown

		for {
			select {
			case <-ctx.Done():
				return
			case entry, ok := <-w.Updates():
				if !ok {
					return
				}
				doc, ok := document(entry)
				if !ok {
					continue
				}
				select {
				case out <- doc:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

// document reports the payload of an entry that carries a document. A nil
// entry marks the end of the initial values.
func document(entry jetstream.KeyValueEntry) ([]byte, bool) {
	if entry == nil {
		return nil, false
	}
	switch entry.Operation() {
	case jetstream.KeyValueDelete, jetstream.KeyValuePurge:
		return nil, false
	}
	return entry.Value(), true
}
