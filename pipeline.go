package rxform

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/zoobzio/clockz"
)

// inputBuffer is the capacity of the channel between DOM listeners and the
// pipeline loop.
const inputBuffer = 64

// pipelineInput is either a raw input event or a submit trigger.
type pipelineInput struct {
	event  Event
	submit bool
}

// pendingDelta is a normalized delta waiting for its field to go quiet.
type pendingDelta struct {
	delta Delta
	due   time.Time
	seq   uint64
}

// pipeline merges the events of every bound input into one ordered stream and
// gates each field through debounce then throttle before delivering it.
// All state below is owned by the loop goroutine, or guarded by mu in sync mode.
type pipeline struct {
	clock    clockz.Clock
	debounce time.Duration
	throttle time.Duration
	syncMode bool

	normalizer normalizer
	current    func(field string) Value
	deliver    func(ctx context.Context, d Delta)
	submit     func(ctx context.Context)
	received   func(ctx context.Context, field string)
	rejected   func(ctx context.Context, field string, err error)

	inputs   chan pipelineInput
	pending  map[string]*pendingDelta
	lastEmit map[string]time.Time
	seq      uint64
	timer    clockz.Timer

	// sync mode only
	mu sync.Mutex
}

func newPipeline(cfg config) *pipeline {
	p := &pipeline{
		clock:      cfg.clock,
		debounce:   cfg.debounce,
		throttle:   cfg.throttle,
		syncMode:   cfg.syncMode,
		normalizer: newNormalizer(cfg.sanitize),
		inputs:     make(chan pipelineInput, inputBuffer),
		pending:    make(map[string]*pendingDelta),
		lastEmit:   make(map[string]time.Time),
	}
	if p.syncMode {
		p.debounce = 0
		p.throttle = 0
	}
	return p
}

// dispatch hands an input to the pipeline. It never blocks past teardown.
func (p *pipeline) dispatch(ctx context.Context, in pipelineInput) {
	if ctx.Err() != nil {
		return
	}
	if p.syncMode {
		p.mu.Lock()
		defer p.mu.Unlock()
		if ctx.Err() != nil {
			return
		}
		p.handle(ctx, in)
		return
	}
	select {
	case p.inputs <- in:
	case <-ctx.Done():
	}
}

// run is the loop goroutine of a mounted form.
func (p *pipeline) run(ctx context.Context, done chan<- struct{}) {
	defer close(done)
	defer p.stopTimer()

	for {
		var timerC <-chan time.Time
		if p.timer != nil && len(p.pending) > 0 {
			timerC = p.timer.C()
		}

		select {
		case <-ctx.Done():
			return

		case in := <-p.inputs:
			if ctx.Err() != nil {
				return
			}
			p.handle(ctx, in)

		case <-timerC:
			p.timer = nil
			now := p.clock.Now()
			p.flushDue(ctx, now)
			p.rearm(now)
		}
	}
}

func (p *pipeline) handle(ctx context.Context, in pipelineInput) {
	if in.submit {
		p.flushAll(ctx)
		p.stopTimer()
		p.submit(ctx)
		return
	}

	// Reported once the event is queued or rejected.
	field := elementName(in.event.Target)
	defer p.received(ctx, field)

	delta, err := p.normalizer.normalize(in.event, p.latest)
	if err != nil {
		p.rejected(ctx, field, err)
		return
	}

	now := p.clock.Now()
	p.seq++
	p.pending[delta.Field] = &pendingDelta{
		delta: delta,
		due:   now.Add(p.debounce),
		seq:   p.seq,
	}
	p.flushDue(ctx, now)
	p.rearm(now)
}

// latest returns the newest value known for a field: a pending delta if one
// is waiting, otherwise the stored value.
func (p *pipeline) latest(field string) Value {
	if pd, ok := p.pending[field]; ok {
		return pd.delta.State.Value
	}
	return p.current(field)
}

// flushDue delivers every pending delta whose debounce expired, oldest first.
// A field inside its throttle window is held until the window closes.
func (p *pipeline) flushDue(ctx context.Context, now time.Time) {
	due := make([]*pendingDelta, 0, len(p.pending))
	for _, pd := range p.pending {
		if !pd.due.After(now) {
			due = append(due, pd)
		}
	}
	sortPending(due)

	for _, pd := range due {
		if ctx.Err() != nil {
			return
		}
		field := pd.delta.Field
		if p.throttle > 0 {
			if last, ok := p.lastEmit[field]; ok && now.Sub(last) < p.throttle {
				pd.due = last.Add(p.throttle)
				continue
			}
		}
		delete(p.pending, field)
		p.lastEmit[field] = now
		p.deliver(ctx, pd.delta)
	}
}

// flushAll delivers every pending delta regardless of its timers.
func (p *pipeline) flushAll(ctx context.Context) {
	all := make([]*pendingDelta, 0, len(p.pending))
	for _, pd := range p.pending {
		all = append(all, pd)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].seq < all[j].seq })

	now := p.clock.Now()
	for _, pd := range all {
		if ctx.Err() != nil {
			return
		}
		delete(p.pending, pd.delta.Field)
		p.lastEmit[pd.delta.Field] = now
		p.deliver(ctx, pd.delta)
	}
}

// rearm points the timer at the earliest pending deadline.
func (p *pipeline) rearm(now time.Time) {
	var next time.Time
	found := false
	for _, pd := range p.pending {
		if !found || pd.due.Before(next) {
			next = pd.due
			found = true
		}
	}
	if !found {
		p.stopTimer()
		return
	}

	d := next.Sub(now)
	if d < 0 {
		d = 0
	}
	p.stopTimer()
	p.timer = p.clock.NewTimer(d)
}

// stopTimer discards the timer. A fired timer is never reset: a fake clock
// drops one-shot timers once they fire.
func (p *pipeline) stopTimer() {
	if p.timer == nil {
		return
	}
	if !p.timer.Stop() {
		select {
		case <-p.timer.C():
		default:
		}
	}
	p.timer = nil
}

func sortPending(pds []*pendingDelta) {
	sort.Slice(pds, func(i, j int) bool {
		if pds[i].due.Equal(pds[j].due) {
			return pds[i].seq < pds[j].seq
		}
		return pds[i].due.Before(pds[j].due)
	})
}
