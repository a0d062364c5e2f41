package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"trivet/internal/diag"
	"trivet/internal/diagfmt"
	"trivet/internal/driver"
	"trivet/internal/observ"
	"trivet/internal/rules"
	"trivet/internal/version"
)

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [flags] [file.cs|directory]...",
		Short: "Report blank-line and alignment violations",
		Long:  `Check analyses the given C# files, or every matching file under the given directories, and reports rule violations. Exit status is 1 when anything was reported.`,
		RunE:  runCheck,
	}
	f := cmd.Flags()
	f.String("format", "pretty", "output format (pretty|short|json|sarif)")
	f.Int("max-diagnostics", 0, "maximum diagnostics per file (0 = unlimited)")
	f.Int("jobs", 0, "max parallel workers (0 = GOMAXPROCS)")
	f.Bool("no-cache", false, "ignore and do not update the result cache")
	f.String("ui", "auto", "progress UI (auto|on|off)")
	f.Bool("timings", false, "print per-phase timings to stderr")
	f.String("path-mode", "auto", "paths in output (auto|absolute|relative|basename)")
	f.Bool("with-notes", false, "include diagnostic notes")
	f.Bool("suggest", false, "include fix suggestions")
	f.Bool("preview", false, "include a preview of each fix")
	return cmd
}

type checkFlags struct {
	format         string
	maxDiagnostics int
	jobs           int
	noCache        bool
	ui             uiMode
	timings        bool
	pathMode       diagfmt.PathMode
	withNotes      bool
	suggest        bool
	preview        bool
}

func readCheckFlags(cmd *cobra.Command) (checkFlags, error) {
	var (
		fl  checkFlags
		err error
	)
	f := cmd.Flags()
	if fl.format, err = f.GetString("format"); err != nil {
		return fl, fmt.Errorf("failed to get format flag: %w", err)
	}
	fl.format = strings.ToLower(fl.format)
	switch fl.format {
	case "pretty", "short", "json", "sarif":
	default:
		return fl, fmt.Errorf("unknown format: %s", fl.format)
	}
	if fl.maxDiagnostics, err = f.GetInt("max-diagnostics"); err != nil {
		return fl, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	if fl.jobs, err = f.GetInt("jobs"); err != nil {
		return fl, fmt.Errorf("failed to get jobs flag: %w", err)
	}
	if fl.noCache, err = f.GetBool("no-cache"); err != nil {
		return fl, fmt.Errorf("failed to get no-cache flag: %w", err)
	}
	uiValue, err := f.GetString("ui")
	if err != nil {
		return fl, fmt.Errorf("failed to get ui flag: %w", err)
	}
	if fl.ui, err = readUIMode(uiValue); err != nil {
		return fl, err
	}
	if fl.timings, err = f.GetBool("timings"); err != nil {
		return fl, fmt.Errorf("failed to get timings flag: %w", err)
	}
	pathMode, err := f.GetString("path-mode")
	if err != nil {
		return fl, fmt.Errorf("failed to get path-mode flag: %w", err)
	}
	if fl.pathMode, err = diagfmt.ParsePathMode(pathMode); err != nil {
		return fl, err
	}
	if fl.withNotes, err = f.GetBool("with-notes"); err != nil {
		return fl, fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	if fl.suggest, err = f.GetBool("suggest"); err != nil {
		return fl, fmt.Errorf("failed to get suggest flag: %w", err)
	}
	if fl.preview, err = f.GetBool("preview"); err != nil {
		return fl, fmt.Errorf("failed to get preview flag: %w", err)
	}
	return fl, nil
}

// runCheck executes "check": it analyses every discovered file, prints the
// diagnostics in the chosen format and fails with errFindings when any
// warning or error was reported.
func runCheck(cmd *cobra.Command, args []string) error {
	fl, err := readCheckFlags(cmd)
	if err != nil {
		return err
	}
	st, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	cache, fingerprint, err := st.openCache(fl.noCache)
	if err != nil {
		return err
	}
	color, err := useColor(cmd, outFile(cmd))
	if err != nil {
		return err
	}

	files, err := driver.Discover(defaultPaths(args), st.filter)
	if err != nil {
		return err
	}
	opts := driver.Options{
		Table:          st.table,
		Filter:         st.filter,
		Jobs:           fl.jobs,
		MaxDiagnostics: fl.maxDiagnostics,
		Cache:          cache,
		Fingerprint:    fingerprint,
		Timings:        fl.timings,
	}

	var result *driver.Result
	if shouldUseTUI(fl.ui, os.Stderr, len(files)) {
		result, err = runWithUI(cmd.ErrOrStderr(), "check", files, func(sink driver.ProgressSink) (*driver.Result, error) {
			o := opts
			o.Sink = sink
			return driver.Check(cmd.Context(), files, o)
		})
	} else {
		result, err = driver.Check(cmd.Context(), files, opts)
	}
	if err != nil {
		return fmt.Errorf("check failed: %w", err)
	}

	bag := diag.NewBag(0)
	for _, fr := range result.Files {
		bag.Merge(fr.Bag)
	}
	bag.Sort()

	out := cmd.OutOrStdout()
	showFixes := fl.suggest || fl.preview
	switch fl.format {
	case "pretty":
		diagfmt.Pretty(out, bag, result.FileSet, diagfmt.PrettyOpts{
			Color:       color,
			Context:     2,
			PathMode:    fl.pathMode,
			ShowNotes:   fl.withNotes,
			ShowFixes:   showFixes,
			ShowPreview: fl.preview,
		})
		printSummary(out, result, bag)
	case "short":
		diagfmt.Short(out, bag, result.FileSet, fl.pathMode)
	case "json":
		err = diagfmt.JSON(out, bag, result.FileSet, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         fl.pathMode,
			IncludeNotes:     fl.withNotes,
			IncludeFixes:     showFixes,
			IncludePreviews:  fl.preview,
		})
	case "sarif":
		err = diagfmt.Sarif(out, bag, result.FileSet, diagfmt.SarifRunMeta{
			ToolName:       "trivet",
			ToolVersion:    version.Version,
			InvocationArgs: os.Args,
			Rules:          sarifRules(st.table),
			PathMode:       fl.pathMode,
		})
	}
	if err != nil {
		return fmt.Errorf("failed to format diagnostics: %w", err)
	}

	if fl.timings {
		printTimings(cmd.ErrOrStderr(), result)
	}
	if bag.AtLeast(diag.SevWarning) {
		return errFindings
	}
	return nil
}

func printSummary(out io.Writer, result *driver.Result, bag *diag.Bag) {
	cached := 0
	for _, fr := range result.Files {
		if fr.Cached {
			cached++
		}
	}
	fmt.Fprintf(out, "%d file(s) checked", len(result.Files))
	if cached > 0 {
		fmt.Fprintf(out, " (%d cached)", cached)
	}
	switch n := bag.Len(); n {
	case 0:
		fmt.Fprintln(out, ", no problems")
	default:
		fmt.Fprintf(out, ", %d problem(s)\n", n)
	}
}

func printTimings(out io.Writer, result *driver.Result) {
	var reports []observ.Report
	for _, fr := range result.Files {
		if fr.Timing != nil {
			reports = append(reports, *fr.Timing)
		}
	}
	if len(reports) == 0 {
		return
	}
	fmt.Fprint(out, observ.Merge(reports...).String())
}

func sarifRules(table *rules.Table) []diagfmt.SarifRule {
	all := table.All()
	out := make([]diagfmt.SarifRule, 0, len(all))
	for _, r := range all {
		out = append(out, diagfmt.SarifRule{
			ID:          r.ID(),
			Name:        r.Name,
			Description: ruleDescription(r),
			Level:       diagfmt.SarifLevel(r.Severity),
			Enabled:     r.Enabled,
		})
	}
	return out
}

func ruleDescription(r rules.Rule) string {
	if r.Kind == rules.KindAlignment {
		return "wrapped " + r.Subject + " are aligned"
	}
	return "blank lines around " + r.Subject
}
