package rewrite_test

import (
	"errors"
	"testing"

	"trivet/internal/align"
	"trivet/internal/plan"
	"trivet/internal/rewrite"
	"trivet/internal/testkit"
)

func TestApplyInsertsOneBlankLine(t *testing.T) {
	src := "Log.Debug();\nif (x) { }\n"
	p := testkit.ParseSource("a.cs", src)
	ifTok := testkit.FindToken(p.Tree, "if", 0)
	ep, err := plan.Plan(p.Tree, plan.Violation{Kind: plan.BlankLineMissing, Token: ifTok, Required: 1})
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	res, err := rewrite.Apply(p.Tree, []plan.EditPlan{ep})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if got, want := res.Text(), "Log.Debug();\n\nif (x) { }\n"; got != want {
		t.Fatalf("text = %q, want %q", got, want)
	}
	if len(res.Edits) != 1 || res.Edits[0].NewText != "\n" || res.Edits[0].OldText != "" {
		t.Fatalf("edits = %+v", res.Edits)
	}
	if res.SyntaxErrors != 0 {
		t.Fatalf("rewritten text does not parse cleanly")
	}
	if err := testkit.CheckTreeInvariants(res.Tree); err != nil {
		t.Fatalf("invariants: %v", err)
	}

	// повторный план на результате ничего не меняет
	again := testkit.FindToken(res.Tree, "if", 0)
	if _, err := plan.Plan(res.Tree, plan.Violation{Kind: plan.BlankLineMissing, Token: again, Required: 1}); !errors.Is(err, plan.ErrNoop) {
		t.Fatalf("second plan: err = %v, want ErrNoop", err)
	}
}

func TestApplyRealignsChainInOnePass(t *testing.T) {
	src := "obj\n    .Foo() // keep\n     .Bar()\n   .Baz();\n"
	p := testkit.ParseSource("c.cs", src)
	groups := align.Chains(p.Tree)
	if len(groups) != 1 {
		t.Fatalf("groups = %d", len(groups))
	}
	var plans []plan.EditPlan
	for _, v := range align.Analyze(p.Tree, groups[0]) {
		if v.Ok() {
			continue
		}
		ep, err := plan.Plan(p.Tree, plan.Violation{Kind: plan.ColumnMismatch, Token: v.Anchor, Required: v.Target, Actual: v.Actual})
		if err != nil {
			t.Fatalf("plan: %v", err)
		}
		plans = append(plans, ep)
	}
	if len(plans) != 2 {
		t.Fatalf("plans = %d, want 2", len(plans))
	}
	res, err := rewrite.Apply(p.Tree, plans)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	want := "obj\n    .Foo() // keep\n    .Bar()\n    .Baz();\n"
	if res.Text() != want {
		t.Fatalf("text = %q, want %q", res.Text(), want)
	}
	for _, v := range align.Analyze(res.Tree, align.Chains(res.Tree)[0]) {
		if !v.Ok() {
			t.Fatalf("anchor %d still %s after fix", v.Anchor, v.Status)
		}
	}
}

func TestApplyRejectsCollision(t *testing.T) {
	p := testkit.ParseSource("x.cs", "a();\nb();\n")
	b := testkit.FindToken(p.Tree, "b", 0)
	ep, err := plan.Plan(p.Tree, plan.Violation{Kind: plan.BlankLineMissing, Token: b, Required: 1})
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	if _, err := rewrite.Apply(p.Tree, []plan.EditPlan{ep, ep}); !errors.Is(err, rewrite.ErrPlanCollision) {
		t.Fatalf("err = %v, want ErrPlanCollision", err)
	}
}

func TestMergeKeepsPlansOnCollision(t *testing.T) {
	p := testkit.ParseSource("x.cs", "a();\nb();\nc();\n")
	var eps []plan.EditPlan
	for _, name := range []string{"b", "c"} {
		ep, err := plan.Plan(p.Tree, plan.Violation{Kind: plan.BlankLineMissing, Token: testkit.FindToken(p.Tree, name, 0), Required: 1})
		if err != nil {
			t.Fatalf("plan %s: %v", name, err)
		}
		eps = append(eps, ep)
	}
	merged, err := rewrite.Merge(nil, eps[:1])
	if err != nil || len(merged) != 1 {
		t.Fatalf("merge b: %v, %d plans", err, len(merged))
	}
	if again, err := rewrite.Merge(merged, eps); !errors.Is(err, rewrite.ErrPlanCollision) || len(again) != 1 {
		t.Fatalf("merge b,c over b: %v, %d plans; want collision and 1 plan", err, len(again))
	}
	if _, err := rewrite.Merge(nil, []plan.EditPlan{eps[1], eps[1]}); !errors.Is(err, rewrite.ErrPlanCollision) {
		t.Fatalf("duplicate inside more: %v", err)
	}
	merged, err = rewrite.Merge(merged, eps[1:])
	if err != nil || len(merged) != 2 {
		t.Fatalf("merge c: %v, %d plans", err, len(merged))
	}
	res, err := rewrite.Apply(p.Tree, merged)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if got, want := res.Text(), "a();\n\nb();\n\nc();\n"; got != want {
		t.Fatalf("text = %q, want %q", got, want)
	}
}

func TestUnplannedTextIsUntouched(t *testing.T) {
	src := "/* header */\r\n#region R\r\nvar s = @\"a\r\n\r\nb\";\r\nfoo();\r\nbar(); // tail\r\n#endregion\r\n"
	p := testkit.ParseSource("m.cs", src)
	bar := testkit.FindToken(p.Tree, "bar", 0)
	ep, err := plan.Plan(p.Tree, plan.Violation{Kind: plan.BlankLineMissing, Token: bar, Required: 1})
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	res, err := rewrite.Apply(p.Tree, []plan.EditPlan{ep})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	want := "/* header */\r\n#region R\r\nvar s = @\"a\r\n\r\nb\";\r\nfoo();\r\n\r\nbar(); // tail\r\n#endregion\r\n"
	if res.Text() != want {
		t.Fatalf("text = %q, want %q", res.Text(), want)
	}
}

func TestSpliceRejectsStaleEdit(t *testing.T) {
	p := testkit.ParseSource("s.cs", "a();\n  b();\n")
	b := testkit.FindToken(p.Tree, "b", 0)
	ep, _ := plan.Plan(p.Tree, plan.Violation{Kind: plan.ColumnMismatch, Token: b, Required: 0})
	edits, err := rewrite.Edits(p.Tree, []plan.EditPlan{ep})
	if err != nil {
		t.Fatalf("edits: %v", err)
	}
	if _, err := rewrite.Splice([]byte("a();\n\tb();\n"), edits); err == nil {
		t.Fatalf("splice over changed content must fail")
	}
}
