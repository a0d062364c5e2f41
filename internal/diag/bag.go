package diag

import (
	"cmp"
	"slices"
)

// Bag collects diagnostics up to a limit.
type Bag struct {
	items []Diagnostic
	max   int // 0 - без лимита
}

// NewBag makes a bag holding at most limit diagnostics; limit <= 0 means
// no limit.
func NewBag(limit int) *Bag {
	hint := 16
	if limit > 0 && limit < 256 {
		hint = limit
	}
	return &Bag{items: make([]Diagnostic, 0, hint), max: max(limit, 0)}
}

// Add reports false once the bag is full.
func (b *Bag) Add(d Diagnostic) bool {
	if b.max != 0 && len(b.items) >= b.max {
		return false
	}
	b.items = append(b.items, d)
	return true
}

func (b *Bag) Len() int { return len(b.items) }

// Items exposes the backing slice; callers must not modify it.
func (b *Bag) Items() []Diagnostic { return b.items }

// AtLeast reports whether any diagnostic is sev or worse.
func (b *Bag) AtLeast(sev Severity) bool {
	return slices.ContainsFunc(b.items, func(d Diagnostic) bool { return d.Severity >= sev })
}

func (b *Bag) HasErrors() bool { return b.AtLeast(SevError) }

// Merge appends other, raising the limit so nothing from other is lost.
func (b *Bag) Merge(other *Bag) {
	if other == nil {
		return
	}
	b.items = append(b.items, other.items...)
	if b.max != 0 {
		b.max = max(b.max, len(b.items))
	}
}

// Sort puts the bag in output order, see SortDiagnostics.
func (b *Bag) Sort() { SortDiagnostics(b.items) }

// SortDiagnostics orders by file, start, end, then severity (worst first),
// code and message, so output is stable across runs.
func SortDiagnostics(items []Diagnostic) {
	slices.SortStableFunc(items, func(a, b Diagnostic) int {
		return cmp.Or(
			cmp.Compare(a.Primary.File, b.Primary.File),
			cmp.Compare(a.Primary.Start, b.Primary.Start),
			cmp.Compare(a.Primary.End, b.Primary.End),
			cmp.Compare(b.Severity, a.Severity),
			cmp.Compare(a.Code, b.Code),
			cmp.Compare(a.Message, b.Message),
		)
	})
}
