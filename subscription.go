package rxform

import "sync"

// broadcaster fans form value snapshots out to subscribers. A subscriber that
// falls behind its buffer loses its oldest snapshots, never the newest.
type broadcaster struct {
	buffer int

	mu     sync.Mutex
	subs   map[int]chan FormValues
	next   int
	closed bool
}

func newBroadcaster(buffer int) *broadcaster {
	return &broadcaster{
		buffer: buffer,
		subs:   make(map[int]chan FormValues),
	}
}

// subscribe returns a channel of snapshots and the function that cancels the
// subscription. The channel is closed on cancel or teardown.
func (b *broadcaster) subscribe() (<-chan FormValues, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan FormValues, b.buffer)
	if b.closed {
		close(ch)
		return ch, func() {}
	}

	id := b.next
	b.next++
	b.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if sub, ok := b.subs[id]; ok {
				delete(b.subs, id)
				close(sub)
			}
		})
	}
}

func (b *broadcaster) publish(v FormValues) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	for _, ch := range b.subs {
		snap := v.clone()
		select {
		case ch <- snap:
			continue
		default:
		}
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- snap:
		default:
		}
	}
}

func (b *broadcaster) close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
}
