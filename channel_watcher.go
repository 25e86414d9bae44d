package rxform

import (
	"bytes"
	"context"
)

// ChannelWatcher serves definition documents pushed on a channel.
type ChannelWatcher struct {
	ch     <-chan []byte
	direct bool
}

// NewChannelWatcher forwards definition documents from ch until ctx is
// canceled. Blank documents and repeats of the last forwarded document are
// dropped so a noisy source does not trigger reloads.
func NewChannelWatcher(ch <-chan []byte) *ChannelWatcher {
	return &ChannelWatcher{ch: ch}
}

// NewSyncChannelWatcher hands ch to the registry unfiltered. Pair it with
// Registry.SyncMode.
func NewSyncChannelWatcher(ch <-chan []byte) *ChannelWatcher {
	return &ChannelWatcher{ch: ch, direct: true}
}

// Watch returns the document channel.
func (w *ChannelWatcher) Watch(ctx context.Context) (<-chan []byte, error) {
	if w.direct {
		return w.ch, nil
	}

	out := make(chan []byte)
	go w.forward(ctx, out)
	return out, nil
}

func (w *ChannelWatcher) forward(ctx context.Context, out chan<- []byte) {
	defer close(out)

	var last []byte
	for {
		select {
		case <-ctx.Done():
			return
		case doc, ok := <-w.ch:
			if !ok {
				return
			}
			if !w.changed(last, doc) {
				continue
			}
			last = doc
			select {
			case out <- doc:
			case <-ctx.Done():
				return
			}
		}
	}
}

func (*ChannelWatcher) changed(last, doc []byte) bool {
	if len(bytes.TrimSpace(doc)) == 0 {
		return false
	}
	return last == nil || !bytes.Equal(last, doc)
}
