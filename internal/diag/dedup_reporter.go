package diag

import "trivet/internal/source"

// DedupReporter forwards a diagnostic only the first time its code, span
// and message are seen. Parser recovery can resync on the same token more
// than once and would otherwise repeat itself.
type DedupReporter struct {
	next       Reporter
	seen       map[dedupKey]struct{}
	suppressed int
}

type dedupKey struct {
	code Code
	span source.Span
	msg  string
}

func NewDedupReporter(next Reporter) *DedupReporter {
	return &DedupReporter{next: next, seen: make(map[dedupKey]struct{})}
}

func (r *DedupReporter) Report(code Code, sev Severity, primary source.Span, msg string, notes []Note, fixes []*Fix) {
	key := dedupKey{code: code, span: primary, msg: msg}
	if _, dup := r.seen[key]; dup {
		r.suppressed++
		return
	}
	r.seen[key] = struct{}{}
	if r.next != nil {
		r.next.Report(code, sev, primary, msg, notes, fixes)
	}
}

// Suppressed counts the repeats that were dropped.
func (r *DedupReporter) Suppressed() int { return r.suppressed }
