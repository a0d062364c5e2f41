package source

import "fmt"

// Span is the byte range [Start, End) of one file.
type Span struct {
	File  FileID
	Start uint32
	End   uint32
}

func (s Span) String() string { return fmt.Sprintf("%d:%d-%d", s.File, s.Start, s.End) }

func (s Span) Empty() bool { return s.End <= s.Start }

func (s Span) Len() uint32 {
	if s.Empty() {
		return 0
	}
	return s.End - s.Start
}

// Contains is false for End itself, so an empty span contains nothing.
func (s Span) Contains(off uint32) bool {
	return off >= s.Start && off < s.End
}

// Overlaps reports a shared byte, so an empty span overlaps nothing and
// spans of different files never overlap.
func (s Span) Overlaps(other Span) bool {
	if s.File != other.File || s.Empty() || other.Empty() {
		return false
	}
	return other.Start < s.End && s.Start < other.End
}

// Cover grows s to include other. Spans of another file are ignored.
func (s Span) Cover(other Span) Span {
	if other.File == s.File {
		s.Start = min(s.Start, other.Start)
		s.End = max(s.End, other.End)
	}
	return s
}
