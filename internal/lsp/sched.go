package lsp

import (
	"context"
	"sync"
	"time"
)

// debouncer coalesces analysis requests. Every schedule starts a new
// generation and cancels the run of the previous one; a run checks
// stale(gen) between documents and stops once it is superseded.
type debouncer struct {
	delay time.Duration

	mu      sync.Mutex
	base    context.Context
	gen     uint64
	timer   *time.Timer
	pending func()
	cancel  context.CancelFunc
}

func newDebouncer(delay time.Duration) *debouncer {
	return &debouncer{delay: delay, base: context.Background()}
}

func (d *debouncer) setBase(ctx context.Context) {
	d.mu.Lock()
	d.base = ctx
	d.mu.Unlock()
}

// schedule arms run to fire after the delay with a fresh generation.
func (d *debouncer) schedule(run func(ctx context.Context, gen uint64)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.gen++
	gen := d.gen
	d.stopLocked()
	fire := func() {
		d.mu.Lock()
		if d.gen != gen || d.pending == nil {
			d.mu.Unlock()
			return
		}
		d.pending = nil
		ctx, cancel := context.WithCancel(d.base)
		d.cancel = cancel
		d.mu.Unlock()
		defer cancel()
		run(ctx, gen)
	}
	d.pending = fire
	d.timer = time.AfterFunc(d.delay, fire)
}

// flush runs the pending request now, on the calling goroutine.
func (d *debouncer) flush() {
	d.mu.Lock()
	fire := d.pending
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.mu.Unlock()
	if fire != nil {
		fire()
	}
}

func (d *debouncer) stale(gen uint64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return gen != d.gen
}

// stop drops the pending request and cancels a running one.
func (d *debouncer) stop() {
	d.mu.Lock()
	d.stopLocked()
	d.pending = nil
	d.mu.Unlock()
}

func (d *debouncer) stopLocked() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
}
