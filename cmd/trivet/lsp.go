package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"trivet/internal/config"
	"trivet/internal/lsp"
	"trivet/internal/rules"
)

func newLSPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lsp",
		Short: "Run the trivet language server over stdio",
		Long:  `lsp publishes diagnostics for open C# documents and offers their fixes as code actions`,
		Args:  cobra.NoArgs,
		RunE:  runLSP,
	}
	cmd.Flags().Duration("debounce", 300*time.Millisecond, "delay between the last edit and re-analysis")
	cmd.Flags().Int("max-diagnostics", 100, "maximum diagnostics published per document")
	return cmd
}

func runLSP(cmd *cobra.Command, _ []string) error {
	debounce, err := cmd.Flags().GetDuration("debounce")
	if err != nil {
		return fmt.Errorf("failed to get debounce flag: %w", err)
	}
	maxDiagnostics, err := cmd.Flags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	configPath, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return fmt.Errorf("failed to get config flag: %w", err)
	}

	opts := lsp.ServerOptions{
		Debounce:       debounce,
		MaxDiagnostics: maxDiagnostics,
		Log:            cmd.ErrOrStderr(),
	}
	// an explicit --config wins over discovery from the workspace root
	if configPath != "" {
		opts.LoadWorkspace = func(string) (*lsp.Workspace, error) {
			cfg, err := config.Load(configPath, "")
			if err != nil {
				return nil, err
			}
			table, err := rules.NewTable(cfg.RuleOptions())
			if err != nil {
				return nil, err
			}
			return &lsp.Workspace{Table: table, Include: cfg.Files.Include}, nil
		}
	}
	server := lsp.NewServer(cmd.InOrStdin(), cmd.OutOrStdout(), opts)
	if err := server.Run(cmd.Context()); err != nil {
		if errors.Is(err, lsp.ErrExit) {
			return nil
		}
		if errors.Is(err, lsp.ErrExitWithoutShutdown) {
			return fmt.Errorf("lsp exit without shutdown")
		}
		return err
	}
	return nil
}
