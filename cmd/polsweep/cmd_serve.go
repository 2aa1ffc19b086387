package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/opdyn/polsweep/internal/config"
	"github.com/opdyn/polsweep/internal/logging"
	"github.com/opdyn/polsweep/internal/mcp"
	"github.com/opdyn/polsweep/internal/store"
)

func newMCPServerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp-serve",
		Short: "Serve stored results over MCP on stdio",
		Long: `Start a Model Context Protocol server on stdio exposing the
result table to agent tooling.

Tools:
  polsweep_query     filtered condition listing
  polsweep_summary   counts and polarizing shares
  polsweep_classify  classify a raw polarization series

The server runs until stdin closes or an interrupt is received.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			root, _ := cmd.Flags().GetString("root")

			cfg, err := config.Load(root)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid config: %w", err)
			}

			logger := logging.NewLogger(cfg.Logging.Level, os.Stderr)

			rs, err := store.NewResultStore(root)
			if err != nil {
				return fmt.Errorf("opening result store: %w", err)
			}
			defer rs.Close()

			server := mcp.NewServer(&mcp.Config{
				Name:       "polsweep",
				Version:    version,
				Store:      rs,
				Thresholds: cfg.Classifier,
			})
			logger.Info("starting MCP server", "transport", "stdio")
			return server.Run(context.Background())
		},
	}
	return cmd
}
