package trace

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Format represents the output format for trace events.
type Format uint8

const (
	FormatAuto   Format = iota // by output file extension, text otherwise
	FormatText                 // one human-readable line per event
	FormatNDJSON               // one JSON object per line
)

// ParseFormat accepts auto|text|ndjson; "json" is an alias for ndjson.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "auto":
		return FormatAuto, nil
	case "text":
		return FormatText, nil
	case "ndjson", "json":
		return FormatNDJSON, nil
	}
	return FormatAuto, fmt.Errorf("invalid trace format: %q (expected: auto|text|ndjson)", s)
}

// FormatEvent renders ev as one line, terminator included.
func FormatEvent(ev *Event, format Format) []byte {
	if format == FormatNDJSON {
		return appendJSON(nil, ev)
	}
	return appendText(nil, ev)
}

type wireEvent struct {
	Time     string            `json:"time"`
	Seq      uint64            `json:"seq"`
	Kind     string            `json:"kind"`
	Scope    string            `json:"scope"`
	SpanID   uint64            `json:"span_id,omitempty"`
	ParentID uint64            `json:"parent_id,omitempty"`
	GID      uint64            `json:"gid,omitempty"`
	Name     string            `json:"name"`
	Detail   string            `json:"detail,omitempty"`
	Extra    map[string]string `json:"extra,omitempty"`
}

const wireTime = "2006-01-02T15:04:05.000000Z07:00"

func appendJSON(dst []byte, ev *Event) []byte {
	data, err := json.Marshal(wireEvent{
		Time:     ev.Time.Format(wireTime),
		Seq:      ev.Seq,
		Kind:     ev.Kind.String(),
		Scope:    ev.Scope.String(),
		SpanID:   ev.SpanID,
		ParentID: ev.ParentID,
		GID:      ev.GID,
		Name:     ev.Name,
		Detail:   ev.Detail,
		Extra:    ev.Extra,
	})
	if err != nil {
		return fmt.Appendf(dst, "{\"seq\":%d,\"name\":%q,\"error\":%q}\n", ev.Seq, ev.Name, err.Error())
	}
	return append(append(dst, data...), '\n')
}

var kindMarks = map[Kind]string{KindSpanBegin: "→ ", KindSpanEnd: "← ", KindPoint: "• "}

// appendText writes "15:04:05.000 scope  → name (detail) {k=v}". Child
// spans are indented by two spaces.
func appendText(dst []byte, ev *Event) []byte {
	dst = ev.Time.AppendFormat(dst, "15:04:05.000")
	dst = fmt.Appendf(dst, " %-6s ", ev.Scope)
	if ev.ParentID != 0 {
		dst = append(dst, "  "...)
	}
	dst = append(dst, kindMarks[ev.Kind]...)
	dst = append(dst, ev.Name...)
	if ev.Detail != "" {
		dst = fmt.Appendf(dst, " (%s)", ev.Detail)
	}
	for i, k := range slices.Sorted(maps.Keys(ev.Extra)) {
		sep := ", "
		if i == 0 {
			sep = " {"
		}
		dst = fmt.Appendf(dst, "%s%s=%s", sep, k, ev.Extra[k])
	}
	if len(ev.Extra) > 0 {
		dst = append(dst, '}')
	}
	return append(dst, '\n')
}
