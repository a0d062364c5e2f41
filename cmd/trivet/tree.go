package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"trivet/internal/diagfmt"
	"trivet/internal/driver"
)

func newTreeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tree [flags] file.cs",
		Short: "Print the statement tree of a C# file",
		Long:  `Tree parses a file and prints its statement lists, statements and, with --exprs, expressions with their source ranges`,
		Args:  cobra.ExactArgs(1),
		RunE:  runTree,
	}
	cmd.Flags().Bool("exprs", false, "include expressions")
	return cmd
}

func runTree(cmd *cobra.Command, args []string) error {
	withExprs, err := cmd.Flags().GetBool("exprs")
	if err != nil {
		return err
	}
	in, err := driver.Inspect(args[0], 100)
	if err != nil {
		return fmt.Errorf("failed to load file: %w", err)
	}
	tree := in.Tree()
	if err := reportInspection(cmd, in, 1); err != nil {
		return err
	}
	return diagfmt.FormatTreePretty(cmd.OutOrStdout(), tree, in.FileSet, withExprs)
}
