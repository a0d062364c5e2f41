package trace

import (
	"bytes"
	"runtime"
	"strconv"
	"sync/atomic"
	"time"
)

var (
	seqCounter  atomic.Uint64
	spanCounter atomic.Uint64
)

func nextSeq() uint64 { return seqCounter.Add(1) }

// goroutineID parses the "goroutine N [...]" header of runtime.Stack.
// Rules run on errgroup workers, so it tells their spans apart.
func goroutineID() uint64 {
	var buf [64]byte
	head := buf[:runtime.Stack(buf[:], false)]
	head, ok := bytes.CutPrefix(head, []byte("goroutine "))
	if !ok {
		return 0
	}
	if sp := bytes.IndexByte(head, ' '); sp >= 0 {
		head = head[:sp]
	}
	gid, err := strconv.ParseUint(string(head), 10, 64)
	if err != nil {
		return 0
	}
	return gid
}

// Span is one begin/end pair. The zero-id span of a disabled tracer
// accepts every call and emits nothing.
type Span struct {
	tracer  Tracer
	begin   Event
	started time.Time
	extra   map[string]string
}

// Begin opens a span and emits its begin event. parent is 0 for roots.
func Begin(t Tracer, scope Scope, name string, parent uint64) *Span {
	if t == nil || !t.Enabled() || !t.Level().Records(scope) {
		return &Span{tracer: Nop}
	}
	now := time.Now()
	s := &Span{
		tracer: t,
		begin: Event{
			Time:     now,
			Kind:     KindSpanBegin,
			Scope:    scope,
			SpanID:   spanCounter.Add(1),
			ParentID: parent,
			GID:      goroutineID(),
			Name:     name,
		},
		started: now,
	}
	ev := s.begin
	ev.Seq = nextSeq()
	t.Emit(&ev)
	return s
}

// End emits the end event with detail and the collected extras.
func (s *Span) End(detail string) time.Duration {
	if s == nil || s.tracer == nil || !s.tracer.Enabled() {
		return 0
	}
	elapsed := time.Since(s.started)
	ev := s.begin
	ev.Time = time.Now()
	ev.Seq = nextSeq()
	ev.Kind = KindSpanEnd
	ev.Detail = detail
	ev.Extra = s.extra
	s.tracer.Emit(&ev)
	return elapsed
}

// WithExtra records key=value on the end event.
func (s *Span) WithExtra(key, value string) *Span {
	if s == nil || s.tracer == nil || !s.tracer.Enabled() {
		return s
	}
	if s.extra == nil {
		s.extra = make(map[string]string, 2)
	}
	s.extra[key] = value
	return s
}

func (s *Span) ID() uint64 {
	if s == nil {
		return 0
	}
	return s.begin.SpanID
}

// Point emits an instant event under parent.
func Point(t Tracer, scope Scope, name, detail string, parent uint64) {
	if t == nil || !t.Enabled() || !t.Level().Records(scope) {
		return
	}
	t.Emit(&Event{
		Time:     time.Now(),
		Seq:      nextSeq(),
		Kind:     KindPoint,
		Scope:    scope,
		ParentID: parent,
		GID:      goroutineID(),
		Name:     name,
		Detail:   detail,
	})
}
