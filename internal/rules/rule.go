// Package rules holds the rule table: each rule is data (a node selector plus
// a blank-line policy or an alignment group builder) evaluated by the shared
// engine in internal/analysis.
package rules

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"trivet/internal/align"
	"trivet/internal/ast"
	"trivet/internal/blankline"
	"trivet/internal/diag"
)

// ErrUnknownRule is returned when configuration names a rule that does not exist.
var ErrUnknownRule = errors.New("rules: unknown rule")

type Kind uint8

const (
	KindBlankLine Kind = iota
	KindAlignment
)

func (k Kind) String() string {
	if k == KindAlignment {
		return "alignment"
	}
	return "blank-line"
}

// Rule: одна запись таблицы. Для KindBlankLine заданы Select и Policy,
// для KindAlignment - Groups.
type Rule struct {
	Code     diag.Code
	Name     string
	Subject  string // "logging call", "'?' and ':'" - подставляется в сообщения
	Severity diag.Severity
	Kind     Kind
	Enabled  bool

	Select func(tree *ast.Tree) []ast.StmtID
	Policy blankline.Policy
	Groups func(tree *ast.Tree) []align.Group
}

// ID returns the stable identifier, e.g. TRV1001.
func (r *Rule) ID() string { return r.Code.ID() }

// Options configure a table. Rule references accept either the ID or the name.
type Options struct {
	Logging LoggingConfig
	// Enable, when non-empty, switches every other rule off.
	Enable   []string
	Disable  []string
	Severity map[string]string
}

// Table is an ordered, immutable rule set. Order is the catalog order and
// decides which rule owns a gap two rules both complain about.
type Table struct {
	rules   []Rule
	logging *Logging
}

// NewTable builds the shipped catalog configured by opts. Extra rules go
// after the catalog, so a shipped rule keeps a gap both complain about;
// opts can name them like shipped ones.
func NewTable(opts Options, extra ...Rule) (*Table, error) {
	logging, err := NewLogging(opts.Logging)
	if err != nil {
		return nil, err
	}
	t := &Table{rules: catalog(logging), logging: logging}
	for _, r := range extra {
		if _, err := t.find(r.ID()); err == nil {
			return nil, fmt.Errorf("rules: %s is already in the table", r.ID())
		}
		if _, err := t.find(r.Name); r.Name != "" && err == nil {
			return nil, fmt.Errorf("rules: name %q is already in the table", r.Name)
		}
		t.rules = append(t.rules, r)
	}

	if len(opts.Enable) > 0 {
		for i := range t.rules {
			t.rules[i].Enabled = false
		}
		for _, ref := range opts.Enable {
			r, err := t.find(ref)
			if err != nil {
				return nil, err
			}
			r.Enabled = true
		}
	}
	for _, ref := range opts.Disable {
		r, err := t.find(ref)
		if err != nil {
			return nil, err
		}
		r.Enabled = false
	}
	for _, ref := range sortedKeys(opts.Severity) {
		r, err := t.find(ref)
		if err != nil {
			return nil, err
		}
		sev, err := diag.ParseSeverity(opts.Severity[ref])
		if err != nil {
			return nil, fmt.Errorf("rules: severity of %s: %w", ref, err)
		}
		r.Severity = sev
	}
	return t, nil
}

func (t *Table) find(ref string) (*Rule, error) {
	ref = strings.TrimSpace(ref)
	for i := range t.rules {
		r := &t.rules[i]
		if strings.EqualFold(r.ID(), ref) || strings.EqualFold(r.Name, ref) {
			return r, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownRule, ref)
}

// Lookup finds a rule by ID or name.
func (t *Table) Lookup(ref string) (Rule, bool) {
	r, err := t.find(ref)
	if err != nil {
		return Rule{}, false
	}
	return *r, true
}

// All returns every rule in catalog order, enabled or not.
func (t *Table) All() []Rule { return slices.Clone(t.rules) }

// Active returns the enabled rules in catalog order.
func (t *Table) Active() []Rule {
	out := make([]Rule, 0, len(t.rules))
	for _, r := range t.rules {
		if r.Enabled {
			out = append(out, r)
		}
	}
	return out
}

// Logging exposes the logger recognition the table was built with.
func (t *Table) Logging() *Logging { return t.logging }

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
