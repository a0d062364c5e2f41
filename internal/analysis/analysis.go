// Package analysis runs a rule table over one syntax tree and turns the
// engine's verdicts into diagnostics with attached fixes.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"trivet/internal/align"
	"trivet/internal/ast"
	"trivet/internal/blankline"
	"trivet/internal/diag"
	"trivet/internal/fix"
	"trivet/internal/plan"
	"trivet/internal/position"
	"trivet/internal/rewrite"
	"trivet/internal/rules"
	"trivet/internal/trace"
)

// Options tune a run.
type Options struct {
	// DeferFixes attaches fixes as thunks; edits are built only when a fix
	// is about to be applied.
	DeferFixes bool
}

// finding is one diagnostic before merging. token is the token whose trivia
// the fix edits; two findings on the same token and kind describe the same
// defect and only the first (in table order) survives. plans are what the
// fix rewrites; collided marks a fix dropped because two of them name one
// token.
type finding struct {
	d        diag.Diagnostic
	token    ast.TokenID
	kind     plan.Kind
	plans    []plan.EditPlan
	collided bool
}

// Run evaluates every active rule of table over tree. Rules run
// concurrently; results are merged in table order and sorted. A cancelled
// context yields ctx.Err() and no diagnostics.
func Run(ctx context.Context, tree *ast.Tree, table *rules.Table, opts Options) ([]diag.Diagnostic, error) {
	found, err := collect(ctx, tree, table, opts)
	if err != nil {
		return nil, err
	}
	out := make([]diag.Diagnostic, 0, len(found))
	for _, f := range found {
		out = append(out, f.d)
	}
	diag.SortDiagnostics(out)
	return out, nil
}

// Batch is a whole tree fixed in one rewrite.
type Batch struct {
	// Diagnostics of the analysed tree, sorted.
	Diagnostics []diag.Diagnostic
	// Result is the rewritten tree; nil when nothing was fixable.
	Result *rewrite.Result
	// Applied counts the fixes in Result.
	Applied int
	// Skipped keeps the diagnostics whose fix collided with another one on
	// the same token; they are left for the next pass.
	Skipped []diag.Diagnostic
}

// FixAll analyses tree and applies every fix in one rewrite.Apply. Fixes
// are taken in table order; a fix naming a token an earlier fix already
// rewrites is skipped and its diagnostic kept.
func FixAll(ctx context.Context, tree *ast.Tree, table *rules.Table) (*Batch, error) {
	found, err := collect(ctx, tree, table, Options{})
	if err != nil {
		return nil, err
	}
	b := &Batch{Diagnostics: make([]diag.Diagnostic, 0, len(found))}
	var plans []plan.EditPlan
	// group fixes are shared by the findings of one group
	taken := make(map[string]struct{})
	for _, f := range found {
		b.Diagnostics = append(b.Diagnostics, f.d)
		if f.collided {
			b.Skipped = append(b.Skipped, f.d)
			continue
		}
		if len(f.plans) == 0 || len(f.d.Fixes) == 0 {
			continue
		}
		id := f.d.Fixes[0].ID
		if _, dup := taken[id]; dup {
			continue
		}
		merged, err := rewrite.Merge(plans, f.plans)
		if errors.Is(err, rewrite.ErrPlanCollision) {
			b.Skipped = append(b.Skipped, f.d)
			continue
		}
		taken[id] = struct{}{}
		plans = merged
		b.Applied++
	}
	diag.SortDiagnostics(b.Diagnostics)
	diag.SortDiagnostics(b.Skipped)
	if len(plans) == 0 {
		return b, nil
	}
	if b.Result, err = rewrite.Apply(tree, plans); err != nil {
		return nil, fmt.Errorf("analysis: fix all: %w", err)
	}
	return b, nil
}

// collect runs the active rules and merges their findings in table order.
func collect(ctx context.Context, tree *ast.Tree, table *rules.Table, opts Options) ([]finding, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if tree == nil || table == nil {
		return nil, errors.New("analysis: nil tree or table")
	}
	active := table.Active()
	results := make([][]finding, len(active))
	tracer := trace.FromContext(ctx)
	parent := trace.ParentID(ctx)

	g, gctx := errgroup.WithContext(ctx)
	for i := range active {
		r := &active[i]
		g.Go(func() error {
			span := trace.Begin(tracer, trace.ScopeRule, "rule:"+r.ID(), parent)
			found, err := runRule(gctx, tree, r, opts)
			span.WithExtra("diagnostics", strconv.Itoa(len(found))).End("")
			results[i] = found
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	type key struct {
		tok  ast.TokenID
		kind plan.Kind
	}
	seen := make(map[key]struct{})
	var out []finding
	for _, found := range results {
		for _, f := range found {
			k := key{f.token, f.kind}
			if _, dup := seen[k]; dup {
				continue
			}
			seen[k] = struct{}{}
			out = append(out, f)
		}
	}
	return out, nil
}

func runRule(ctx context.Context, tree *ast.Tree, r *rules.Rule, opts Options) ([]finding, error) {
	switch r.Kind {
	case rules.KindBlankLine:
		return blankLines(ctx, tree, r, opts)
	case rules.KindAlignment:
		return alignment(ctx, tree, r, opts)
	}
	return nil, fmt.Errorf("analysis: rule %s has unknown kind %d", r.ID(), r.Kind)
}

func blankLines(ctx context.Context, tree *ast.Tree, r *rules.Rule, opts Options) ([]finding, error) {
	if r.Select == nil {
		return nil, nil
	}
	var out []finding
	for _, id := range r.Select(tree) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		s := tree.Stmt(id)
		if s == nil || s.Kind == ast.StmtUnknown {
			continue
		}
		bctx, ok := blankline.NewContext(tree, id)
		if !ok {
			continue
		}
		v := blankline.Evaluate(tree, bctx, r.Policy)
		if v.NeedsBlankBefore {
			out = append(out, blankFinding(tree, r, opts, s.First, s.First, plan.BlankLineMissing, v.BlankBefore,
				fmt.Sprintf("missing blank line before %s", r.Subject)))
		}
		if v.HasExtraBefore {
			out = append(out, blankFinding(tree, r, opts, s.First, s.First, plan.BlankLineExtra, v.BlankBefore,
				fmt.Sprintf("unexpected blank line before %s", r.Subject)))
		}
		if v.NeedsBlankAfter {
			out = append(out, blankFinding(tree, r, opts, s.Last, bctx.After, plan.BlankLineMissing, v.BlankAfter,
				fmt.Sprintf("missing blank line after %s", r.Subject)))
		}
		if v.HasExtraAfter {
			out = append(out, blankFinding(tree, r, opts, s.Last, bctx.After, plan.BlankLineExtra, v.BlankAfter,
				fmt.Sprintf("unexpected blank line after %s", r.Subject)))
		}
	}
	return out, nil
}

// blankFinding: primary is the statement token next to the gap, target is
// the later token of the gap whose leading trivia the fix rewrites.
func blankFinding(tree *ast.Tree, r *rules.Rule, opts Options, primary, target ast.TokenID, kind plan.Kind, actual int, msg string) finding {
	v := plan.Violation{Kind: kind, Token: target, Side: plan.Leading, Actual: actual}
	title := "insert blank line"
	if kind == plan.BlankLineMissing {
		v.Required = 1
	} else {
		title = "remove blank line"
	}
	d := diag.New(r.Severity, r.Code, tree.Token(primary).Span, msg)
	f := finding{token: target, kind: kind}
	if ep, err := plan.Plan(tree, v); err == nil {
		f.plans = []plan.EditPlan{ep}
	}
	d.Fixes, f.collided = buildFix(tree, fixID(tree, r, primary), title, f.plans, opts)
	f.d = d
	return f
}

func alignment(ctx context.Context, tree *ast.Tree, r *rules.Rule, opts Options) ([]finding, error) {
	if r.Groups == nil {
		return nil, nil
	}
	groups := r.Groups(tree)
	for i := range groups {
		groups[i].Rule = r.ID()
	}
	var out []finding
	for _, res := range align.AnalyzeNested(tree, groups) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out = append(out, groupFindings(tree, r, res, opts)...)
	}
	return out, nil
}

// groupFindings reports every misaligned anchor of one group. All of them
// share one fix that moves the whole group, so applying any one of them
// realigns the group in a single pass.
func groupFindings(tree *ast.Tree, r *rules.Rule, res align.Result, opts Options) []finding {
	var bad []align.Verdict
	for _, v := range res.Verdicts {
		if !v.Ok() {
			bad = append(bad, v)
		}
	}
	if len(bad) == 0 {
		return nil
	}
	ref, hasRef := referenceToken(res.Group)
	var plans []plan.EditPlan
	for _, v := range bad {
		pv := plan.Violation{Kind: plan.ColumnMismatch, Token: v.Anchor, Side: plan.Leading, Required: v.Target, Actual: v.Actual}
		if hasRef {
			pv.Reference = ref
		}
		if ep, err := plan.Plan(tree, pv); err == nil {
			plans = append(plans, ep)
		}
	}
	title := fmt.Sprintf("align to column %d", bad[0].Target+1)
	if len(plans) > 1 {
		title = fmt.Sprintf("align %d %s", len(plans), plural(r.Subject))
	}
	id := fixID(tree, r, bad[0].Anchor)

	out := make([]finding, 0, len(bad))
	for _, v := range bad {
		tok := tree.Token(v.Anchor)
		d := diag.New(r.Severity, r.Code, tok.Span, fmt.Sprintf("%s '%s' is at column %d, expected column %d",
			r.Subject, tok.Text, v.Actual+1, v.Target+1))
		if hasRef && ref != v.Anchor {
			d = d.WithNote(tree.Token(ref).Span, "alignment reference")
		}
		f := finding{token: v.Anchor, kind: plan.ColumnMismatch, plans: plans}
		d.Fixes, f.collided = buildFix(tree, id, title, plans, opts)
		f.d = d
		out = append(out, f)
	}
	return out
}

func plural(subject string) string {
	if strings.HasSuffix(subject, "s") {
		return subject
	}
	return subject + "s"
}

func referenceToken(g align.Group) (ast.TokenID, bool) {
	switch g.Reference.Kind {
	case align.RefFirstAnchor:
		if len(g.Anchors) > 0 {
			return g.Anchors[0], true
		}
	case align.RefToken:
		return g.Reference.Token, g.Reference.Token.IsValid()
	}
	return ast.NoTokenID, false
}

// fixID: "<code>-<line>-<column>" of the primary token, 1-based.
func fixID(tree *ast.Tree, r *rules.Rule, at ast.TokenID) string {
	pos := position.Of(tree, at)
	return fmt.Sprintf("%s-%d-%d", r.ID(), pos.Line+1, pos.Column+1)
}

// buildFix wraps plans as one fix. No plans (the planner could not express
// the violation) means no fix; plans naming one token twice collide and the
// fix is skipped. Either way the diagnostic is kept.
func buildFix(tree *ast.Tree, id, title string, plans []plan.EditPlan, opts Options) (fixes []*diag.Fix, collided bool) {
	if len(plans) == 0 {
		return nil, false
	}
	if _, err := rewrite.Merge(nil, plans); err != nil {
		return nil, true
	}
	build := func(diag.FixBuildContext) ([]diag.TextEdit, error) {
		return rewrite.Edits(tree, plans)
	}
	if opts.DeferFixes {
		return []*diag.Fix{fix.Lazy(title, build, fix.WithID(id), fix.Preferred())}, false
	}
	edits, err := build(diag.FixBuildContext{})
	if err != nil {
		return nil, false
	}
	return []*diag.Fix{fix.TriviaEdits(title, edits, fix.WithID(id), fix.Preferred())}, false
}
