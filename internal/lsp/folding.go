package lsp

import (
	"cmp"
	"slices"
	"strings"

	"trivet/internal/ast"
	"trivet/internal/source"
	"trivet/internal/token"
)

func (s *Server) handleFoldingRange(msg *rpcMessage) error {
	var params foldingRangeParams
	if err := decodeParams(msg, &params); err != nil {
		return s.conn.fail(msg.ID, codeInvalidParams, "invalid params")
	}
	snap := s.snapshotFor(params.TextDocument.URI)
	if snap == nil || snap.tree == nil {
		return s.conn.reply(msg.ID, []foldingRange{})
	}
	return s.conn.reply(msg.ID, buildFoldingRanges(snap.tree))
}

// buildFoldingRanges folds brace pairs, #region blocks, runs of using
// directives and multi-line comments.
func buildFoldingRanges(tree *ast.Tree) []foldingRange {
	if tree == nil || tree.File == nil {
		return nil
	}
	file := tree.File
	ranges := make([]foldingRange, 0, 8)
	braces := make([]int, 0, 8) // lines of open braces
	regions := make([]int, 0, 2)

	for i := range tree.Tokens {
		tok := &tree.Tokens[i]
		for _, tv := range tok.Leading {
			switch tv.Kind {
			case token.TriviaDirective:
				if tv.Directive == nil {
					continue
				}
				switch strings.ToLower(tv.Directive.Name) {
				case "region":
					regions = append(regions, lineForOffset(file, tv.Span.Start))
				case "endregion":
					if len(regions) == 0 {
						continue
					}
					start := regions[len(regions)-1]
					regions = regions[:len(regions)-1]
					if end := lineForOffset(file, tv.Span.Start); end > start {
						ranges = append(ranges, foldingRange{StartLine: start, EndLine: end, Kind: "region"})
					}
				}
			case token.TriviaBlockComment, token.TriviaDocComment:
				ranges = appendCommentRange(ranges, file, tv.Span)
			}
		}
		switch tok.Kind {
		case token.LBrace:
			braces = append(braces, lineForOffset(file, tok.Span.Start))
		case token.RBrace:
			if len(braces) == 0 {
				continue
			}
			open := braces[len(braces)-1]
			braces = braces[:len(braces)-1]
			// the closing line stays visible
			endLine := lineForOffset(file, tok.Span.Start) - 1
			if open >= endLine {
				continue
			}
			ranges = append(ranges, foldingRange{StartLine: open, EndLine: endLine})
		}
	}
	ranges = append(ranges, usingRanges(tree)...)
	slices.SortFunc(ranges, func(a, b foldingRange) int {
		return cmp.Or(cmp.Compare(a.StartLine, b.StartLine), cmp.Compare(a.EndLine, b.EndLine))
	})
	return ranges
}

func appendCommentRange(ranges []foldingRange, file *source.File, span source.Span) []foldingRange {
	start := lineForOffset(file, span.Start)
	end := lineForOffset(file, spanLastOffset(span))
	if end <= start {
		return ranges
	}
	return append(ranges, foldingRange{StartLine: start, EndLine: end, Kind: "comment"})
}

// usingRanges folds each run of two or more using directives of a list.
func usingRanges(tree *ast.Tree) []foldingRange {
	var out []foldingRange
	tree.ForEachList(func(_ ast.ListID, l *ast.List) {
		if l.Kind != ast.ListTopLevel && l.Kind != ast.ListNamespace {
			return
		}
		runStart, runEnd := -1, -1
		flush := func() {
			if runStart >= 0 && runEnd > runStart {
				out = append(out, foldingRange{StartLine: runStart, EndLine: runEnd, Kind: "imports"})
			}
			runStart, runEnd = -1, -1
		}
		for _, id := range l.Items {
			s := tree.Stmt(id)
			if s == nil || s.Kind != ast.StmtUsingDirective {
				flush()
				continue
			}
			span := tree.StmtSpan(id)
			if runStart < 0 {
				runStart = lineForOffset(tree.File, span.Start)
			}
			runEnd = lineForOffset(tree.File, spanLastOffset(span))
		}
		flush()
	})
	return out
}

func lineForOffset(file *source.File, offset uint32) int {
	return filePosition(file, offset).Line
}

func spanLastOffset(span source.Span) uint32 {
	if span.End > span.Start {
		return span.End - 1
	}
	return span.End
}
