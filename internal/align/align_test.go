package align_test

import (
	"testing"

	"trivet/internal/align"
	"trivet/internal/testkit"
)

func statuses(vs []align.Verdict) []align.Status {
	out := make([]align.Status, 0, len(vs))
	for _, v := range vs {
		out = append(out, v.Status)
	}
	return out
}

func equalStatuses(a, b []align.Status) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Оператор ровно под первым символом операнда допустим.
func TestBooleanOperatorUnderOperandIsAccepted(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		want   align.Status
		target int
	}{
		{"under operand", "if (alpha\n    && beta)\n{\n}\n", align.Match, 4},
		{"one left of operand", "if (alpha\n   && beta)\n{\n}\n", align.Match, 3},
		{"too far right", "if (alpha\n     && beta)\n{\n}\n", align.TooFarRight, 4},
		{"too far left", "if (alpha\n  && beta)\n{\n}\n", align.TooFarLeft, 3},
		{"same line", "if (alpha && beta)\n{\n}\n", align.SameLine, 10},
	}
	for _, tt := range tests {
		p := testkit.ParseSource("b.cs", tt.src)
		groups := align.BooleanOperators(p.Tree)
		if len(groups) != 1 {
			t.Fatalf("%s: groups = %d, want 1", tt.name, len(groups))
		}
		vs := align.Analyze(p.Tree, groups[0])
		if len(vs) != 1 {
			t.Fatalf("%s: verdicts = %d, want 1", tt.name, len(vs))
		}
		if vs[0].Status != tt.want || vs[0].Target != tt.target {
			t.Errorf("%s: status %s target %d, want %s target %d", tt.name, vs[0].Status, vs[0].Target, tt.want, tt.target)
		}
		if vs[0].Expected != 3 {
			t.Errorf("%s: expected column %d, want 3", tt.name, vs[0].Expected)
		}
	}
}

func TestChainUsesFirstCallAsReference(t *testing.T) {
	src := "obj\n    .Foo()\n     .Bar()\n   .Baz();\n"
	p := testkit.ParseSource("c.cs", src)
	groups := align.Chains(p.Tree)
	if len(groups) != 1 {
		t.Fatalf("groups = %d, want 1", len(groups))
	}
	if n := len(groups[0].Anchors); n != 3 {
		t.Fatalf("anchors = %d, want 3", n)
	}
	vs := align.Analyze(p.Tree, groups[0])
	want := []align.Status{align.TooFarRight, align.TooFarLeft}
	if got := statuses(vs); !equalStatuses(got, want) {
		t.Fatalf("statuses = %v, want %v", got, want)
	}
	for _, v := range vs {
		if v.Expected != 4 || v.Target != 4 {
			t.Errorf("anchor %d: expected %d target %d, want 4/4", v.Anchor, v.Expected, v.Target)
		}
	}
	if vs[0].Delta != 1 || vs[1].Delta != -1 {
		t.Errorf("deltas = %d, %d", vs[0].Delta, vs[1].Delta)
	}
}

func TestChainSkipsPropertyPrefixAndSameLineLinks(t *testing.T) {
	src := "var r = this.items.Where(x => x)\n                  .Select(x => x).ToList();\n"
	p := testkit.ParseSource("c.cs", src)
	groups := align.Chains(p.Tree)
	if len(groups) != 1 {
		t.Fatalf("groups = %d, want 1", len(groups))
	}
	// .Where, .Select, .ToList - '.items' стоит до первого вызова
	if n := len(groups[0].Anchors); n != 3 {
		t.Fatalf("anchors = %d, want 3", n)
	}
	want := []align.Status{align.Match, align.SameLine}
	if got := statuses(align.Analyze(p.Tree, groups[0])); !equalStatuses(got, want) {
		t.Fatalf("statuses = %v, want %v", got, want)
	}
}

func TestTernaryAgainstCondition(t *testing.T) {
	src := "var k = cond\n        ? a\n          : b;\n"
	p := testkit.ParseSource("t.cs", src)
	groups := align.Ternaries(p.Tree)
	if len(groups) != 1 {
		t.Fatalf("groups = %d, want 1", len(groups))
	}
	want := []align.Status{align.Match, align.TooFarRight}
	if got := statuses(align.Analyze(p.Tree, groups[0])); !equalStatuses(got, want) {
		t.Fatalf("statuses = %v, want %v", got, want)
	}
}

func TestInitializerBracesAgainstLineHead(t *testing.T) {
	src := "    var o = new Options\n      {\n        A = 1,\n    };\n"
	p := testkit.ParseSource("i.cs", src)
	groups := align.Initializers(p.Tree)
	if len(groups) != 1 {
		t.Fatalf("groups = %d, want 1", len(groups))
	}
	vs := align.Analyze(p.Tree, groups[0])
	want := []align.Status{align.TooFarRight, align.Match}
	if got := statuses(vs); !equalStatuses(got, want) {
		t.Fatalf("statuses = %v, want %v", got, want)
	}
	if vs[0].Expected != 4 {
		t.Fatalf("expected column %d, want 4", vs[0].Expected)
	}
}

func TestNestedGroupsInnermostFirst(t *testing.T) {
	src := "var o = new Outer\n{\n    Inner = new Inner\n    {\n        A = 1,\n    },\n};\n"
	p := testkit.ParseSource("n.cs", src)
	groups := align.Initializers(p.Tree)
	if len(groups) != 2 {
		t.Fatalf("groups = %d, want 2", len(groups))
	}
	res := align.AnalyzeNested(p.Tree, groups)
	if res[0].Group.Depth <= res[1].Group.Depth {
		t.Fatalf("depths %d, %d: innermost must come first", res[0].Group.Depth, res[1].Group.Depth)
	}
	for _, r := range res {
		for _, v := range r.Verdicts {
			if !v.Ok() {
				t.Errorf("depth %d anchor %d: %s", r.Group.Depth, v.Anchor, v.Status)
			}
		}
	}
	if got := res[0].Verdicts[0].Expected; got != 4 {
		t.Fatalf("inner reference column = %d, want 4", got)
	}
}
