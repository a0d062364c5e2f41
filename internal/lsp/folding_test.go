package lsp

import (
	"strings"
	"testing"

	"trivet/internal/testkit"
)

func TestFoldingRanges(t *testing.T) {
	src := strings.Join([]string{
		"using System;",                  // 0
		"using System.Linq;",             // 1
		"namespace Demo",                 // 2
		"{",                              // 3
		"    #region Members",            // 4
		"    class C",                    // 5
		"    {",                          // 6
		"        /* one",                 // 7
		"           two */",              // 8
		"        void M()",               // 9
		"        {",                      // 10
		"            var s = \"\\u03c0\";", // 11
		"        }",                      // 12
		"    }",                          // 13
		"    #endregion",                 // 14
		"}",                              // 15
		"",
	}, "\n")
	p := testkit.ParseSource("demo.cs", src)
	ranges := buildFoldingRanges(p.Tree)

	want := []foldingRange{
		{StartLine: 0, EndLine: 1, Kind: "imports"},
		{StartLine: 3, EndLine: 14},
		{StartLine: 4, EndLine: 14, Kind: "region"},
		{StartLine: 6, EndLine: 12},
		{StartLine: 7, EndLine: 8, Kind: "comment"},
		{StartLine: 10, EndLine: 11},
	}
	for _, w := range want {
		if !hasFoldingRange(ranges, w) {
			t.Errorf("missing folding range %+v in %+v", w, ranges)
		}
	}
}

func TestFoldingSkipsSingleLineBraces(t *testing.T) {
	p := testkit.ParseSource("one.cs", "if (x) { y(); }\nif (z)\n{\n}\n")
	if ranges := buildFoldingRanges(p.Tree); len(ranges) != 0 {
		t.Fatalf("expected no ranges, got %+v", ranges)
	}
}

func hasFoldingRange(ranges []foldingRange, want foldingRange) bool {
	for _, rng := range ranges {
		if rng == want {
			return true
		}
	}
	return false
}
