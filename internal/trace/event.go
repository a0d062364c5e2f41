package trace

import "time"

// Kind tells span boundaries from instant events.
type Kind uint8

const (
	KindSpanBegin Kind = iota + 1
	KindSpanEnd
	KindPoint
)

var kindNames = [...]string{KindSpanBegin: "begin", KindSpanEnd: "end", KindPoint: "point"}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "unknown"
}

// Scope is how much of the run an event covers; smaller is coarser.
type Scope uint8

const (
	ScopeDriver Scope = iota + 1 // whole run
	ScopePass                    // load, analyze, fix, verify
	ScopeFile                    // one source file
	ScopeRule                    // one rule over one tree
)

var scopeNames = [...]string{ScopeDriver: "driver", ScopePass: "pass", ScopeFile: "file", ScopeRule: "rule"}

func (s Scope) String() string {
	if int(s) < len(scopeNames) && scopeNames[s] != "" {
		return scopeNames[s]
	}
	return "unknown"
}

// Event is one record as tracers store and print it.
type Event struct {
	Time  time.Time
	Seq   uint64
	Kind  Kind
	Scope Scope
	// SpanID is shared by a span's begin and end; ParentID is 0 at a root.
	SpanID, ParentID uint64
	GID              uint64
	// Name is e.g. "analyze", "file:src/A.cs" or "rule:TRV1001".
	Name   string
	Detail string
	Extra  map[string]string
}
