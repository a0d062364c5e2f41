package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"trivet/internal/diagfmt"
	"trivet/internal/driver"
)

func newTokenizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tokenize [flags] file.cs",
		Short: "Dump the tokens of a C# file with their trivia",
		Long:  `Tokenize prints every token of a file together with the leading and trailing trivia attached to it`,
		Args:  cobra.ExactArgs(1),
		RunE:  runTokenize,
	}
	cmd.Flags().String("format", "pretty", "output format (pretty|json)")
	cmd.Flags().Int("max-diagnostics", 100, "maximum number of lexer diagnostics to show")
	return cmd
}

func runTokenize(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	format, err := flags.GetString("format")
	if err != nil {
		return err
	}
	if format != "pretty" && format != "json" {
		return fmt.Errorf("unknown format: %s", format)
	}
	limit, err := flags.GetInt("max-diagnostics")
	if err != nil {
		return err
	}

	in, err := driver.Inspect(args[0], limit)
	if err != nil {
		return fmt.Errorf("tokenization failed: %w", err)
	}
	tokens := in.Tokens()
	if err := reportInspection(cmd, in, 2); err != nil {
		return err
	}
	if format == "json" {
		return diagfmt.FormatTokensJSON(cmd.OutOrStdout(), tokens)
	}
	return diagfmt.FormatTokensPretty(cmd.OutOrStdout(), tokens, in.FileSet)
}

// reportInspection prints lexer and parser diagnostics to stderr, keeping
// stdout for the dump itself.
func reportInspection(cmd *cobra.Command, in *driver.Inspection, excerpt int8) error {
	if in.Bag.Len() == 0 {
		return nil
	}
	color, err := useColor(cmd, os.Stderr)
	if err != nil {
		return err
	}
	diagfmt.Pretty(cmd.ErrOrStderr(), in.Bag, in.FileSet, diagfmt.PrettyOpts{Color: color, Context: excerpt})
	return nil
}
