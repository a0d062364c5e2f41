package trace

import (
	"io"
	"sync"
)

// RingTracer keeps the newest events in memory; the CLI dumps them to
// stderr when a command fails.
type RingTracer struct {
	mu    sync.Mutex
	buf   []Event
	next  int // slot overwritten by the next event once buf is full
	limit int
	level Level
}

func NewRingTracer(capacity int, level Level) *RingTracer {
	if capacity <= 0 {
		capacity = 4096
	}
	return &RingTracer{buf: make([]Event, 0, capacity), limit: capacity, level: level}
}

func (t *RingTracer) Emit(ev *Event) {
	if !t.level.Records(ev.Scope) {
		return
	}
	stored := *ev
	if stored.Seq == 0 {
		stored.Seq = nextSeq()
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.buf) < t.limit {
		t.buf = append(t.buf, stored)
		return
	}
	t.buf[t.next] = stored
	t.next = (t.next + 1) % t.limit
}

// Snapshot copies the stored events, oldest first.
func (t *RingTracer) Snapshot() []Event {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Event, 0, len(t.buf))
	out = append(out, t.buf[t.next:]...)
	return append(out, t.buf[:t.next]...)
}

// Dump writes the snapshot to w.
func (t *RingTracer) Dump(w io.Writer, format Format) error {
	for _, ev := range t.Snapshot() {
		if _, err := w.Write(FormatEvent(&ev, format)); err != nil {
			return err
		}
	}
	return nil
}

func (t *RingTracer) Flush() error  { return nil }
func (t *RingTracer) Close() error  { return nil }
func (t *RingTracer) Level() Level  { return t.level }
func (t *RingTracer) Enabled() bool { return t.level > LevelOff }
