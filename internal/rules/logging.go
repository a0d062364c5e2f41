package rules

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/dlclark/regexp2"
	"golang.org/x/text/unicode/norm"

	"trivet/internal/ast"
)

// LoggingConfig names what counts as a logging call. Empty fields fall back
// to the defaults; Methods = ["*"] accepts any method name.
type LoggingConfig struct {
	Receivers  []string `toml:"receivers" yaml:"receivers"`
	Namespaces []string `toml:"namespaces" yaml:"namespaces"`
	Methods    []string `toml:"methods" yaml:"methods"`
	// Patterns are .NET-syntax regular expressions matched against the
	// dotted callee path, e.g. `^Diagnostics\.Trace\.Write(Line)?$`.
	Patterns []string `toml:"patterns" yaml:"patterns"`
}

// DefaultLoggingConfig returns the built-in recognition lists.
func DefaultLoggingConfig() LoggingConfig {
	return LoggingConfig{
		Receivers:  []string{"Log", "Logger", "_log", "_logger", "log", "logger"},
		Namespaces: []string{"log4net", "Serilog", "Microsoft.Extensions.Logging", "NLog"},
		Methods: []string{
			"Trace", "Debug", "Info", "Information", "Warn", "Warning", "Error", "Fatal", "Critical", "Verbose",
			"TraceFormat", "DebugFormat", "InfoFormat", "WarnFormat", "ErrorFormat", "FatalFormat",
			"Log", "LogTrace", "LogDebug", "LogInformation", "LogWarning", "LogError", "LogCritical",
			"Write",
		},
	}
}

const patternTimeout = 50 * time.Millisecond

// Logging is the compiled, immutable form of LoggingConfig.
type Logging struct {
	receivers  map[string]struct{}
	namespaces []string
	methods    map[string]struct{} // nil - любой метод
	patterns   []*regexp2.Regexp
}

// NewLogging compiles cfg. Names are NFC-normalised so that configuration
// and source agree on composed characters.
func NewLogging(cfg LoggingConfig) (*Logging, error) {
	def := DefaultLoggingConfig()
	if len(cfg.Receivers) == 0 {
		cfg.Receivers = def.Receivers
	}
	if len(cfg.Namespaces) == 0 {
		cfg.Namespaces = def.Namespaces
	}
	if len(cfg.Methods) == 0 {
		cfg.Methods = def.Methods
	}

	l := &Logging{receivers: nameSet(cfg.Receivers)}
	for _, ns := range cfg.Namespaces {
		if ns = normName(ns); ns != "" {
			l.namespaces = append(l.namespaces, ns)
		}
	}
	if !slices.Contains(cfg.Methods, "*") {
		l.methods = nameSet(cfg.Methods)
	}
	for _, p := range cfg.Patterns {
		re, err := regexp2.Compile(norm.NFC.String(p), regexp2.None)
		if err != nil {
			return nil, fmt.Errorf("rules: logging pattern %q: %w", p, err)
		}
		re.MatchTimeout = patternTimeout
		l.patterns = append(l.patterns, re)
	}
	return l, nil
}

func nameSet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		if n = normName(n); n != "" {
			set[n] = struct{}{}
		}
	}
	return set
}

// normName: NFC, без пробелов по краям и без префикса verbatim-идентификатора '@'.
func normName(s string) string {
	return strings.TrimPrefix(norm.NFC.String(strings.TrimSpace(s)), "@")
}

// MatchPath reports whether a dotted callee path (receiver parts + method)
// is a logging call.
func (l *Logging) MatchPath(path []string) bool {
	if len(path) == 0 {
		return false
	}
	full := strings.Join(path, ".")
	for _, re := range l.patterns {
		// таймаут трактуем как несовпадение
		if ok, err := re.MatchString(full); err == nil && ok {
			return true
		}
	}
	if len(path) < 2 {
		return false
	}
	if l.methods != nil {
		if _, ok := l.methods[path[len(path)-1]]; !ok {
			return false
		}
	}
	recv := path[:len(path)-1]
	if _, ok := l.receivers[recv[len(recv)-1]]; ok {
		return true
	}
	prefix := strings.Join(recv, ".")
	for _, ns := range l.namespaces {
		if prefix == ns || strings.HasPrefix(prefix, ns+".") {
			return true
		}
	}
	return false
}

// IsLogCall reports whether statement id is a bare (optionally awaited)
// logging call such as `_logger.LogInformation("x");`.
func (l *Logging) IsLogCall(tree *ast.Tree, id ast.StmtID) bool {
	s := tree.Stmt(id)
	if s == nil || s.Kind != ast.StmtExpr {
		return false
	}
	path, ok := CalleePath(tree, s.Expr)
	return ok && l.MatchPath(path)
}

// CalleePath returns the dotted member path of the callee of a call
// expression, looking through a leading await. ok is false when the callee
// is not a plain name or member chain.
func CalleePath(tree *ast.Tree, id ast.ExprID) (path []string, ok bool) {
	e := tree.Expr(id)
	if e != nil && e.Kind == ast.ExprUnary && tree.Token(e.Op).Text == "await" {
		e = tree.Expr(e.Left)
	}
	if e == nil || e.Kind != ast.ExprCall {
		return nil, false
	}
	for cur := tree.Expr(e.Left); cur != nil; {
		switch cur.Kind {
		case ast.ExprIdent:
			path = append(path, normName(tree.Token(cur.First).Text))
			slices.Reverse(path)
			return path, true
		case ast.ExprMember:
			if !cur.Name.IsValid() {
				return nil, false
			}
			path = append(path, normName(tree.Token(cur.Name).Text))
			cur = tree.Expr(cur.Left)
		default:
			return nil, false
		}
	}
	return nil, false
}
