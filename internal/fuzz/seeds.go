package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

// maxSeedBytes caps file seeds; the fuzzer mutates small inputs better.
const maxSeedBytes = 64 << 10

// snippets cover every shipped rule, the exemptions and the trivia shapes
// the planner has to keep (comments, directives, CRLF, verbatim strings).
var snippets = []string{
	"",
	"Log.Debug();\nif (x) { }\n",
	"var ok = alpha\n      && beta;\n",
	"var ok = alpha\n       && beta;\n",
	"obj\n    .Foo()\n     .Bar()\n   .Baz();\n",
	"switch (k)\n{\n    case 1:\n        Log.Debug();\n        break;\n}\n",
	"void M()\n{\n\n    x();\n    return;\n\n}\n",
	"var r = cond\n    ? a\n      : b;\n",
	"var p = new Point\n    {\n        X = 1,\n      };\n",
	"x();\n// why\nLog.Info(\"a\");\ny();\n",
	"x();\r\nLog.Warn();\r\n#if DEBUG\r\ny();\r\n#endif\r\n",
	"var s = @\"line one\nline two\";\nLog.Error(s);\nreturn s;\n",
	"namespace N\n{\n    class C\n    {\n        void M()\n        {\n            _logger.LogInformation(\"x\");\n            foreach (var i in xs) { }\n        }\n    }\n}\n",
	"if (a) {\n",
	"Log.Debug(\n",
	"\t\tLog.Debug();\n\t\tthrow new E();\n",
}

func addCorpusSeeds(f *testing.F) {
	for _, s := range snippets {
		f.Add([]byte(s))
	}
	for _, src := range fileSeeds(f) {
		f.Add(src)
	}
}

// fileSeeds reads the whole-file samples under testdata/seeds.
func fileSeeds(f *testing.F) [][]byte {
	f.Helper()
	seeds := os.DirFS(filepath.Join("testdata", "seeds"))
	names, err := fs.Glob(seeds, "*.cs")
	if err != nil {
		f.Fatalf("seed glob: %v", err)
	}
	var out [][]byte
	for _, name := range names {
		src, err := fs.ReadFile(seeds, name)
		if err != nil {
			f.Fatalf("seed %s: %v", name, err)
		}
		out = append(out, src[:min(len(src), maxSeedBytes)])
	}
	return out
}
