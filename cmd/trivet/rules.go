package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newRulesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List the rule table and what the config enables",
		Args:  cobra.NoArgs,
		RunE:  runRules,
	}
	cmd.Flags().String("format", "pretty", "output format (pretty|json)")
	return cmd
}

type ruleRow struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Kind        string `json:"kind"`
	Severity    string `json:"severity"`
	Enabled     bool   `json:"enabled"`
	Description string `json:"description"`
}

func runRules(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	st, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	var rows []ruleRow
	for _, r := range st.table.All() {
		rows = append(rows, ruleRow{
			ID:          r.ID(),
			Name:        r.Name,
			Kind:        r.Kind.String(),
			Severity:    r.Severity.Label(),
			Enabled:     r.Enabled,
			Description: ruleDescription(r),
		})
	}

	out := cmd.OutOrStdout()
	switch format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	case "pretty":
	default:
		return fmt.Errorf("unknown format: %s", format)
	}

	if _, err := useColor(cmd, outFile(cmd)); err != nil {
		return err
	}
	off := color.New(color.Faint)
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tKIND\tSEVERITY\tSTATE")
	for _, r := range rows {
		state := "on"
		if !r.Enabled {
			state = off.Sprint("off")
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", r.ID, r.Name, r.Kind, r.Severity, state)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if st.cfg.Path != "" {
		fmt.Fprintf(out, "\nconfig: %s\n", st.cfg.Path)
	}
	return nil
}
