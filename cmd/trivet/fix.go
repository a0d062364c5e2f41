package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"trivet/internal/diag"
	"trivet/internal/diagfmt"
	"trivet/internal/diff"
	"trivet/internal/driver"
	"trivet/internal/fix"
)

func newFixCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fix [flags] [file.cs|directory]...",
		Short: "Apply blank-line and alignment fixes",
		Long: `Fix applies the fixes of reported violations and re-checks until nothing is left.
With a single file the first fix is applied unless --all is given; directories default to --all.`,
		RunE: runFix,
	}
	f := cmd.Flags()
	f.Bool("all", false, "apply all fixes until the files settle")
	f.Bool("once", false, "apply the first available fix per file")
	f.String("id", "", "apply the fix with a specific identifier (single file)")
	f.Bool("diff", false, "print a unified diff instead of writing files")
	f.Int("max-passes", 0, "bound on re-analysis passes (0 = config value)")
	f.Bool("no-verify", false, "skip the independent syntax check of fixed files")
	f.String("ui", "auto", "progress UI (auto|on|off)")
	return cmd
}

type fixFlags struct {
	all, once, diff, noVerify bool
	id, ui                    string
	maxPasses                 int
}

func readFixFlags(cmd *cobra.Command) (fixFlags, error) {
	f := cmd.Flags()
	var errs []error
	boolean := func(name string) bool {
		v, err := f.GetBool(name)
		errs = append(errs, err)
		return v
	}
	str := func(name string) string {
		v, err := f.GetString(name)
		errs = append(errs, err)
		return v
	}
	fl := fixFlags{
		all:      boolean("all"),
		once:     boolean("once"),
		diff:     boolean("diff"),
		noVerify: boolean("no-verify"),
		id:       str("id"),
		ui:       str("ui"),
	}
	passes, err := f.GetInt("max-passes")
	fl.maxPasses = passes
	if err := errors.Join(append(errs, err)...); err != nil {
		return fl, err
	}
	switch {
	case fl.id != "" && (fl.all || fl.once):
		return fl, errors.New("--id cannot be combined with --all or --once")
	case fl.all && fl.once:
		return fl, errors.New("--all and --once are mutually exclusive")
	}
	return fl, nil
}

// applyMode picks the engine mode. A bare directory means --all; --id
// addresses a fix inside one file only, since ids are per file.
func (fl fixFlags) applyMode(paths []string) (fix.ApplyMode, error) {
	anyDir := false
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return 0, fmt.Errorf("fix: %w", err)
		}
		anyDir = anyDir || info.IsDir()
	}
	switch {
	case fl.id != "" && (anyDir || len(paths) > 1):
		return 0, errors.New("fix: --id can only be used with a single file")
	case fl.id != "":
		return fix.ApplyModeID, nil
	case fl.all, !fl.once && anyDir:
		return fix.ApplyModeAll, nil
	}
	return fix.ApplyModeOnce, nil
}

func runFix(cmd *cobra.Command, args []string) error {
	fl, err := readFixFlags(cmd)
	if err != nil {
		return err
	}
	mode, err := readUIMode(fl.ui)
	if err != nil {
		return err
	}
	paths := defaultPaths(args)
	applyMode, err := fl.applyMode(paths)
	if err != nil {
		return err
	}

	st, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	color, err := useColor(cmd, outFile(cmd))
	if err != nil {
		return err
	}
	maxPasses := fl.maxPasses
	if maxPasses <= 0 {
		maxPasses = st.cfg.Fix.MaxPasses
	}
	files, err := driver.Discover(paths, st.filter)
	if err != nil {
		return err
	}
	opts := driver.FixOptions{
		Table:     st.table,
		Filter:    st.filter,
		Mode:      applyMode,
		TargetID:  fl.id,
		MaxPasses: maxPasses,
		Verify:    st.cfg.Fix.Verify && !fl.noVerify,
		Write:     !fl.diff,
	}

	var res *driver.FixResult
	if shouldUseTUI(mode, os.Stderr, len(files)) {
		res, err = runWithUI(cmd.ErrOrStderr(), "fix", files, func(sink driver.ProgressSink) (*driver.FixResult, error) {
			o := opts
			o.Sink = sink
			return driver.Fix(cmd.Context(), files, o)
		})
	} else {
		res, err = driver.Fix(cmd.Context(), files, opts)
	}
	if err != nil && (res == nil || res.LoopResult == nil) {
		return fmt.Errorf("fix failed: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(res.LoadErrors) > 0 {
		bag := diag.NewBag(0)
		for _, d := range res.LoadErrors {
			bag.Add(d)
		}
		diagfmt.Short(cmd.ErrOrStderr(), bag, res.FileSet, diagfmt.PathModeAuto)
	}
	if fl.diff {
		for _, change := range res.Files {
			if err := diff.Unified(out, change.Path, change.Before, change.After, diff.Options{Context: diff.DefaultContext, Color: color}); err != nil {
				return err
			}
		}
		return finishFix(res, err)
	}
	if _, werr := io.WriteString(out, fixReport(res.LoopResult)); werr != nil {
		return werr
	}
	return finishFix(res, err)
}

// finishFix maps the outcome to the exit status: leftover load errors or
// a run that did not settle are failures.
func finishFix(res *driver.FixResult, runErr error) error {
	if runErr != nil {
		return fmt.Errorf("fix failed: %w", runErr)
	}
	if len(res.LoadErrors) > 0 {
		return errFindings
	}
	return nil
}

func fixReport(res *fix.LoopResult) string {
	var b strings.Builder
	if len(res.Applied) == 0 {
		b.WriteString("No applicable fixes found.\n")
	} else {
		fmt.Fprintf(&b, "Applied %d fix(es) in %d pass(es):\n", len(res.Applied), res.Passes)
		for _, a := range res.Applied {
			fmt.Fprintf(&b, "  %s [%s] %s (%d edits, %s)\n",
				a.Title, a.ID, orElse(a.PrimaryPath, "(unknown location)"), a.EditCount, a.Applicability)
		}
	}
	if len(res.Files) > 0 {
		b.WriteString("Updated files:\n")
		for _, ch := range res.Files {
			fmt.Fprintf(&b, "  %s (%d edits)\n", ch.Path, ch.EditCount)
		}
	}
	if len(res.Skipped) > 0 {
		b.WriteString("Skipped fixes:\n")
		for _, sk := range res.Skipped {
			b.WriteString("  ")
			if sk.Title != "" {
				b.WriteString(sk.Title + " ")
			}
			fmt.Fprintf(&b, "[%s]: %s\n", orElse(sk.ID, "(unnamed)"), sk.Reason)
		}
	}
	if !res.Converged && len(res.Applied) > 0 {
		fmt.Fprintf(&b, "Stopped after %d pass(es); run fix again to continue.\n", res.Passes)
	}
	return b.String()
}

func orElse(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
