package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"trivet/internal/version"
)

// exitError carries a process exit code without a message: the command
// already printed what went wrong (diagnostics, skipped fixes).
type exitError struct {
	code int
}

func (e *exitError) Error() string { return fmt.Sprintf("exit status %d", e.code) }

var errFindings = &exitError{code: 1}

// newRootCmd builds the command tree; tests build a fresh one per run.
// finish releases tracing and profiling and must run after Execute, also
// when the command failed.
func newRootCmd() (root *cobra.Command, finish func(failed bool)) {
	root = &cobra.Command{
		Use:           "trivet",
		Short:         "Blank-line and alignment linter for C#",
		Long:          `trivet checks blank lines around statements and the alignment of wrapped operators in C# sources, and fixes them without touching anything else`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newCheckCmd())
	root.AddCommand(newFixCmd())
	root.AddCommand(newTokenizeCmd())
	root.AddCommand(newTreeCmd())
	root.AddCommand(newRulesCmd())
	root.AddCommand(newVersionCmd())
	root.AddCommand(newLSPCmd())

	// Глобальные флаги
	pf := root.PersistentFlags()
	pf.String("config", "", "config file (default: trivet.toml searched upward)")
	pf.String("color", "auto", "colorize output (auto|on|off)")
	pf.String("trace", "", "trace output file (- for stderr)")
	pf.String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	pf.String("trace-mode", "ring", "trace storage (stream|ring|both)")
	pf.String("trace-format", "auto", "trace format (auto|text|ndjson)")
	pf.Int("trace-ring-size", 4096, "ring buffer capacity in events")
	pf.String("cpu-profile", "", "write a CPU profile to file")
	pf.String("mem-profile", "", "write a heap profile to file")
	pf.String("runtime-trace", "", "write a Go runtime trace to file")

	var cleanups []func(failed bool)
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		profCleanup, err := setupProfiling(cmd)
		if err != nil {
			return err
		}
		cleanups = append(cleanups, profCleanup)
		traceCleanup, err := setupTracing(cmd)
		if err != nil {
			return err
		}
		cleanups = append(cleanups, traceCleanup)
		return nil
	}
	finish = func(failed bool) {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i](failed)
		}
		cleanups = nil
	}
	return root, finish
}

// main runs the root command. Findings exit 1 quietly, other errors are
// printed first.
func main() {
	root, finish := newRootCmd()
	err := root.Execute()
	var exit *exitError
	finish(err != nil && !errors.As(err, &exit))
	if err == nil {
		return
	}
	if exit != nil {
		os.Exit(exit.code)
	}
	fmt.Fprintf(os.Stderr, "trivet: %v\n", err)
	os.Exit(2)
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
