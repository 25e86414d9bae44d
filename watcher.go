package rxform

import "context"

// Watcher observes a source of definition documents. Watch returns a channel
// that first emits the current document, then every change. The channel is
// closed when ctx is canceled or the source fails for good.
type Watcher interface {
	Watch(ctx context.Context) (<-chan []byte, error)
}
