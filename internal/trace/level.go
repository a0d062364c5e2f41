package trace

import (
	"fmt"
	"strings"
)

// Level controls tracing verbosity.
type Level uint8

const (
	LevelOff    Level = iota
	LevelError        // nothing is streamed; the ring is dumped on failure
	LevelPhase        // driver + pass boundaries
	LevelDetail       // + files
	LevelDebug        // + rules
)

var levelNames = [...]string{"off", "error", "phase", "detail", "debug"}

func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "unknown"
}

// ParseLevel accepts the level names case-insensitively.
func ParseLevel(s string) (Level, error) {
	for i, name := range levelNames {
		if strings.EqualFold(s, name) {
			return Level(i), nil
		}
	}
	return LevelOff, fmt.Errorf("invalid trace level: %q (expected: %s)", s, strings.Join(levelNames[:], "|"))
}

// finest is the most detailed scope streamed at l; 0 streams nothing.
func (l Level) finest() Scope {
	switch l {
	case LevelPhase:
		return ScopePass
	case LevelDetail:
		return ScopeFile
	case LevelDebug:
		return ScopeRule
	}
	return 0
}

// Streams reports whether events of scope are written out at this level.
func (l Level) Streams(scope Scope) bool {
	return scope <= l.finest()
}

// Records reports whether a ring at this level keeps events of scope.
// LevelError streams nothing but still remembers files and coarser.
func (l Level) Records(scope Scope) bool {
	if l == LevelError {
		return scope <= ScopeFile
	}
	return l.Streams(scope)
}
