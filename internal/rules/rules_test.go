package rules_test

import (
	"errors"
	"testing"

	"trivet/internal/ast"
	"trivet/internal/diag"
	"trivet/internal/rules"
	"trivet/internal/testkit"
)

func TestTableConfiguration(t *testing.T) {
	tbl, err := rules.NewTable(rules.Options{
		Disable:  []string{"ternary-alignment"},
		Severity: map[string]string{"TRV1002": "error"},
	})
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}
	if got := len(tbl.All()); got != 9 {
		t.Fatalf("catalog has %d rules, want 9", got)
	}
	if got := len(tbl.Active()); got != 8 {
		t.Fatalf("active = %d, want 8", got)
	}
	r, ok := tbl.Lookup("trv1002")
	if !ok || r.Severity != diag.SevError {
		t.Fatalf("TRV1002 lookup = %+v, %v", r, ok)
	}
	if r, _ := tbl.Lookup("TRV2002"); r.Enabled {
		t.Fatalf("TRV2002 must be disabled")
	}

	only, err := rules.NewTable(rules.Options{Enable: []string{"TRV1001"}})
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}
	if act := only.Active(); len(act) != 1 || act[0].Code != diag.RuleLogCallBlankLines {
		t.Fatalf("enable list ignored: %+v", act)
	}

	if _, err := rules.NewTable(rules.Options{Disable: []string{"no-such-rule"}}); !errors.Is(err, rules.ErrUnknownRule) {
		t.Fatalf("err = %v, want ErrUnknownRule", err)
	}
	if _, err := rules.NewTable(rules.Options{Severity: map[string]string{"TRV1001": "loud"}}); err == nil {
		t.Fatalf("bad severity accepted")
	}
}

func TestExtraRulesFollowCatalog(t *testing.T) {
	extra := rules.Rule{Code: diag.Code(2901), Name: "statement-alignment", Kind: rules.KindAlignment, Enabled: true}
	tbl, err := rules.NewTable(rules.Options{Severity: map[string]string{"statement-alignment": "info"}}, extra)
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}
	all := tbl.All()
	if len(all) != 10 || all[9].ID() != "TRV2901" || all[9].Severity != diag.SevInfo {
		t.Fatalf("extra rule = %+v", all[len(all)-1])
	}
	if _, err := rules.NewTable(rules.Options{Disable: []string{"TRV2901"}}, extra); err != nil {
		t.Fatalf("disable extra rule: %v", err)
	}

	clash := extra
	clash.Code = diag.RuleChainAlignment
	if _, err := rules.NewTable(rules.Options{}, clash); err == nil {
		t.Fatalf("extra rule reusing TRV2001 accepted")
	}
	clash = extra
	clash.Name = "chain-alignment"
	if _, err := rules.NewTable(rules.Options{}, clash); err == nil {
		t.Fatalf("extra rule reusing a catalog name accepted")
	}
}

func TestCatalogOrderIsStable(t *testing.T) {
	tbl, _ := rules.NewTable(rules.Options{})
	var prev diag.Code
	for _, r := range tbl.All() {
		if r.Code <= prev {
			t.Fatalf("%s listed after %s", r.ID(), prev.ID())
		}
		prev = r.Code
		if r.Kind == rules.KindBlankLine && r.Select == nil || r.Kind == rules.KindAlignment && r.Groups == nil {
			t.Fatalf("%s has no selector", r.ID())
		}
	}
}

func TestMatchPath(t *testing.T) {
	l, err := rules.NewLogging(rules.LoggingConfig{
		Patterns: []string{`^Diagnostics\.Trace\.Write(Line)?$`},
	})
	if err != nil {
		t.Fatalf("NewLogging: %v", err)
	}
	tests := []struct {
		path []string
		want bool
	}{
		{[]string{"Log", "Debug"}, true},
		{[]string{"_logger", "LogInformation"}, true},
		{[]string{"this", "_logger", "LogError"}, true},
		{[]string{"Serilog", "Log", "Information"}, true},
		{[]string{"Microsoft", "Extensions", "Logging", "LoggerExtensions", "LogDebug"}, true},
		{[]string{"Log", "Flush"}, false},
		{[]string{"Console", "WriteLine"}, false},
		{[]string{"Debug"}, false},
		{[]string{"Diagnostics", "Trace", "WriteLine"}, true},
		{[]string{"SerilogX", "Info"}, false},
	}
	for _, tt := range tests {
		if got := l.MatchPath(tt.path); got != tt.want {
			t.Errorf("MatchPath(%v) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestLoggingConfigOverrides(t *testing.T) {
	l, err := rules.NewLogging(rules.LoggingConfig{Receivers: []string{"@audit"}, Methods: []string{"*"}})
	if err != nil {
		t.Fatalf("NewLogging: %v", err)
	}
	if !l.MatchPath([]string{"audit", "Record"}) {
		t.Fatalf("custom receiver with any method must match")
	}
	if l.MatchPath([]string{"Log", "Record"}) {
		t.Fatalf("default receivers must be replaced by the configured list")
	}
	if _, err := rules.NewLogging(rules.LoggingConfig{Patterns: []string{"("}}); err == nil {
		t.Fatalf("broken pattern accepted")
	}
}

func TestIsLogCallOnTree(t *testing.T) {
	src := "Log.Debug();\nawait _logger.LogInformation(\"x\");\nx = Log.Create();\nConsole.WriteLine();\n_logger?.LogWarning(\"w\");\n"
	p := testkit.ParseSource("l.cs", src)
	l, _ := rules.NewLogging(rules.LoggingConfig{})
	want := []bool{true, true, false, false, true}
	items := p.Tree.List(p.Tree.Root).Items
	if len(items) != len(want) {
		t.Fatalf("parsed %d statements, want %d", len(items), len(want))
	}
	for i, id := range items {
		if got := l.IsLogCall(p.Tree, id); got != want[i] {
			t.Errorf("statement %d (%s): IsLogCall = %v, want %v", i, p.Tree.Stmt(id).Kind, got, want[i])
		}
	}
}

func TestSelectorsFollowSourceOrder(t *testing.T) {
	src := "void M()\n{\n    if (a) { return; }\n    while (b) { }\n    return;\n}\n"
	p := testkit.ParseSource("s.cs", src)
	tbl, _ := rules.NewTable(rules.Options{})
	ctl, _ := tbl.Lookup("control-blank-lines")
	got := ctl.Select(p.Tree)
	if len(got) != 2 || p.Tree.Stmt(got[0]).Kind != ast.StmtIf || p.Tree.Stmt(got[1]).Kind != ast.StmtWhile {
		t.Fatalf("control statements = %v", got)
	}
	ret, _ := tbl.Lookup("TRV1002")
	if n := len(ret.Select(p.Tree)); n != 2 {
		t.Fatalf("returns selected = %d, want 2", n)
	}
	open, _ := tbl.Lookup("TRV1004")
	for _, id := range open.Select(p.Tree) {
		if p.Tree.Stmt(id).Index != 0 {
			t.Fatalf("block-open selected a non-first statement")
		}
	}
}
