package parser_test

import (
	"strings"
	"testing"

	"trivet/internal/ast"
	"trivet/internal/testkit"
	"trivet/internal/token"
)

const sample = `using System;
using Serilog;

namespace Demo.App
{
    public sealed class Worker : IWorker
    {
        private readonly ILogger _logger;

        public int Count { get; private set; } = 0;

        public Worker(ILogger logger) => _logger = logger;

        public async Task<int> RunAsync(IEnumerable<int> items, CancellationToken ct)
        {
            var total = 0;
            foreach (var item in items)
            {
                if (item > 0
                    && item < 100
                    || item == -1)
                {
                    total += item;
                }
            }

            var result = items
                .Where(x => x > 0)
                .Select(x => x * 2)
                .ToList();
            var kind = total > 10
                ? "big"
                : "small";
            var options = new Options
            {
                Name = "w",
                Retries = 3,
            };

            switch (kind)
            {
                case "big":
                    _logger.Information("big");
                    break;
                case "small":
                case "tiny":
                    return 0;
                default:
                    break;
            }

            try
            {
                await Task.Delay(10, ct);
            }
            catch (OperationCanceledException) when (ct.IsCancellationRequested)
            {
                throw;
            }
            finally
            {
                Count++;
            }

            return total;
        }
    }
}
`

func TestParseRoundTripAndInvariants(t *testing.T) {
	inputs := []string{
		sample,
		"",
		"\n\n",
		"// only a comment\n",
		"x = 1;\r\ny = x >> 2;\r\n",
		"List<List<int>> nested = null;\nvar s = $\"{a} and {b:N2}\";\n",
		"var z = @\"line1\nline2\";\nvar r = \"\"\"\n  raw\n  \"\"\";\n",
		"#region R\nclass A { }\n#endregion\n",
		"var t = x is string s ? s : null;\n",
		"var q = value switch { > 0 => 1, _ => 0 };\n",
		"record Point(int X, int Y);\nenum Color { Red, Green }\n",
		"namespace Flat;\nclass B { void M() { int[] a = { 1, 2 }; } }\n",
	}
	for i, src := range inputs {
		p := testkit.ParseSource("t.cs", src)
		if err := testkit.CheckTreeInvariants(p.Tree); err != nil {
			t.Fatalf("input %d: %v", i, err)
		}
		if p.Bag.HasErrors() {
			t.Errorf("input %d: unexpected diagnostics: %+v", i, p.Bag.Items())
		}
	}
}

func TestTruncatedInputTerminates(t *testing.T) {
	for n := 0; n <= len(sample); n += 7 {
		src := sample[:n]
		p := testkit.ParseSource("trunc.cs", src)
		if err := testkit.CheckLossless(p.Tree); err != nil {
			t.Fatalf("prefix %d: %v", n, err)
		}
	}
}

func TestGarbageStaysLossless(t *testing.T) {
	inputs := []string{
		"}}}))]]",
		"if (",
		"class { void",
		"var x = new ;",
		"switch (x) { foo; case 1: }",
		"a ? b",
		"\x00\x01 # weird",
	}
	for _, src := range inputs {
		p := testkit.ParseSource("bad.cs", src)
		if err := testkit.CheckTreeInvariants(p.Tree); err != nil {
			t.Fatalf("%q: %v", src, err)
		}
	}
}

func TestSwitchSections(t *testing.T) {
	p := testkit.ParseSource("t.cs", sample)
	switches := testkit.FindStmts(p.Tree, ast.StmtSwitch)
	if len(switches) != 1 {
		t.Fatalf("switch count = %d, want 1", len(switches))
	}
	sw := p.Tree.Stmt(switches[0])
	if len(sw.Bodies) != 3 {
		t.Fatalf("sections = %d, want 3", len(sw.Bodies))
	}
	wantLabels := []int{1, 2, 1}
	wantItems := []int{2, 1, 1}
	for i, lid := range sw.Bodies {
		l := p.Tree.List(lid)
		if l.Kind != ast.ListSwitchSection {
			t.Fatalf("section %d kind = %s", i, l.Kind)
		}
		if len(l.Labels) != wantLabels[i] {
			t.Errorf("section %d labels = %d, want %d", i, len(l.Labels), wantLabels[i])
		}
		if len(l.Items) != wantItems[i] {
			t.Errorf("section %d items = %d, want %d", i, len(l.Items), wantItems[i])
		}
		if got := p.Tree.Token(l.Open).Kind; got != token.Colon {
			t.Errorf("section %d open = %s, want ':'", i, got)
		}
		if l.Owner != switches[0] {
			t.Errorf("section %d owner = %d, want %d", i, l.Owner, switches[0])
		}
	}
	if got := p.Tree.Token(p.Tree.List(sw.Bodies[0]).Close).Kind; got != token.KwCase {
		t.Errorf("first section close = %s, want case", got)
	}
	if got := p.Tree.Token(p.Tree.List(sw.Bodies[2]).Close).Kind; got != token.RBrace {
		t.Errorf("last section close = %s, want '}'", got)
	}
}

func TestMemberChain(t *testing.T) {
	p := testkit.ParseSource("t.cs", "var result = items\n    .Where(x => x > 0)\n    .Select(x => x * 2)\n    .ToList();\n")
	members := testkit.FindExprs(p.Tree, ast.ExprMember)
	if len(members) != 3 {
		t.Fatalf("members = %d, want 3", len(members))
	}
	var names []string
	for _, id := range members {
		e := p.Tree.Expr(id)
		if p.Tree.Token(e.Op).Kind != token.Dot {
			t.Fatalf("member op = %s", p.Tree.Token(e.Op).Kind)
		}
		names = append(names, p.Tree.Token(e.Name).Text)
	}
	if got := strings.Join(names, ","); got != "Where,Select,ToList" {
		t.Fatalf("member names = %s", got)
	}
	decls := testkit.FindStmts(p.Tree, ast.StmtLocalDecl)
	if len(decls) != 1 || !p.Tree.Stmt(decls[0]).Expr.IsValid() {
		t.Fatalf("want one local declaration with initializer, got %v", decls)
	}
}

func TestConditionalShape(t *testing.T) {
	p := testkit.ParseSource("t.cs", "var kind = total > 10\n    ? \"big\"\n    : \"small\";\n")
	conds := testkit.FindExprs(p.Tree, ast.ExprConditional)
	if len(conds) != 1 {
		t.Fatalf("conditionals = %d, want 1", len(conds))
	}
	c := p.Tree.Expr(conds[0])
	if p.Tree.Token(c.Op).Kind != token.Question || p.Tree.Token(c.Op2).Kind != token.Colon {
		t.Fatalf("ops = %s %s", p.Tree.Token(c.Op).Kind, p.Tree.Token(c.Op2).Kind)
	}
	if got := p.Tree.Token(p.Tree.Expr(c.Left).First).Text; got != "total" {
		t.Fatalf("condition starts with %q, want total", got)
	}
}

func TestNewWithInitializer(t *testing.T) {
	p := testkit.ParseSource("t.cs", "var options = new Options\n{\n    Name = \"w\",\n    Retries = 3,\n};\n")
	news := testkit.FindExprs(p.Tree, ast.ExprNew)
	if len(news) != 1 {
		t.Fatalf("new exprs = %d, want 1", len(news))
	}
	n := p.Tree.Expr(news[0])
	if p.Tree.Token(n.Name).Text != "Options" {
		t.Fatalf("type token = %q", p.Tree.Token(n.Name).Text)
	}
	init := p.Tree.Expr(n.Init)
	if init == nil || init.Kind != ast.ExprInitializer {
		t.Fatalf("missing initializer")
	}
	if len(init.Args) != 2 {
		t.Fatalf("initializer elements = %d, want 2", len(init.Args))
	}
	if p.Tree.Token(init.Op).Kind != token.LBrace || p.Tree.Token(init.Op2).Kind != token.RBrace {
		t.Fatalf("initializer braces not recorded")
	}
}

func TestBooleanOperatorsAndShift(t *testing.T) {
	p := testkit.ParseSource("t.cs", "if (a\n    && b\n    || c)\n{\n}\nx = y >> 2;\n")
	var ops []string
	for _, id := range testkit.FindExprs(p.Tree, ast.ExprBinary) {
		ops = append(ops, p.Tree.Token(p.Tree.Expr(id).Op).Text)
	}
	if got := strings.Join(ops, " "); got != "&& || >" {
		t.Fatalf("binary ops = %q", got)
	}
	ifs := testkit.FindStmts(p.Tree, ast.StmtIf)
	if len(ifs) != 1 {
		t.Fatalf("ifs = %d", len(ifs))
	}
	cond := p.Tree.Expr(p.Tree.Stmt(ifs[0]).Expr)
	if p.Tree.Token(cond.Op).Kind != token.OrOr {
		t.Fatalf("top operator = %s, want ||", p.Tree.Token(cond.Op).Kind)
	}
}

func TestDeclarationVersusExpression(t *testing.T) {
	tests := []struct {
		src  string
		want ast.StmtKind
	}{
		{"List<int> xs = new();", ast.StmtLocalDecl},
		{"List<List<int>> xs;", ast.StmtLocalDecl},
		{"var (a, b) = pair;", ast.StmtLocalDecl},
		{"Foo<int>(x);", ast.StmtExpr},
		{"a = b < c;", ast.StmtExpr},
		{"Console.WriteLine(x);", ast.StmtExpr},
		{"int Add(int a, int b) => a + b;", ast.StmtLocalFunc},
		{"using var stream = Open();", ast.StmtLocalDecl},
		{"await foo;", ast.StmtExpr},
		{"yield return 1;", ast.StmtYield},
		{"done: return;", ast.StmtLabeled},
	}
	for _, tt := range tests {
		p := testkit.ParseSource("t.cs", tt.src)
		root := p.Tree.List(p.Tree.Root)
		if len(root.Items) != 1 {
			t.Fatalf("%q: top-level items = %d, want 1", tt.src, len(root.Items))
		}
		if got := p.Tree.Stmt(root.Items[0]).Kind; got != tt.want {
			t.Errorf("%q: kind = %s, want %s", tt.src, got, tt.want)
		}
		if p.Bag.HasErrors() {
			t.Errorf("%q: unexpected diagnostics %+v", tt.src, p.Bag.Items())
		}
	}
}

func TestListStructure(t *testing.T) {
	p := testkit.ParseSource("t.cs", sample)
	tree := p.Tree
	root := tree.List(tree.Root)
	if root.Kind != ast.ListTopLevel || len(root.Items) != 3 {
		t.Fatalf("root = %s with %d items", root.Kind, len(root.Items))
	}
	if tree.Stmt(root.Items[2]).Kind != ast.StmtNamespace {
		t.Fatalf("third item = %s", tree.Stmt(root.Items[2]).Kind)
	}
	if root.Close != tree.EOF() {
		t.Fatalf("root close = %d, want EOF %d", root.Close, tree.EOF())
	}
	returns := testkit.FindStmts(tree, ast.StmtReturn)
	if len(returns) != 2 {
		t.Fatalf("returns = %d, want 2", len(returns))
	}
	last := tree.Stmt(returns[1])
	l := tree.List(last.List)
	if l.Kind != ast.ListBlock || last.Index != len(l.Items)-1 {
		t.Fatalf("last return is item %d of %s list (%d items)", last.Index, l.Kind, len(l.Items))
	}
	if prev := tree.Stmt(tree.Sibling(returns[1], -1)); prev.Kind != ast.StmtTry {
		t.Fatalf("statement before return = %s, want Try", prev.Kind)
	}
	members := testkit.FindStmts(tree, ast.StmtMember)
	if len(members) != 4 {
		t.Fatalf("members = %d, want 4", len(members))
	}
}
