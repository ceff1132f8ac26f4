// README: charter CLI; chat REPL, direct tool calls and data seeding.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"charterdesk/internal/config"
	"charterdesk/internal/infra"
)

// cli carries state shared by all subcommands.
type cli struct {
	configPath string
	verbose    bool

	cfg    config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:   "charter",
		Short: "Charter concierge command line",
		Long: `charter talks to the charter concierge without the HTTP API.

Use "charter chat" for an interactive session, "charter tool" to call a
single domain tool, and "charter seed" to load reference data into
Postgres and Redis.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			path := c.configPath
			if path == "" {
				path = os.Getenv("CHARTER_CONFIG")
			}
			cfg, err := config.LoadFile(path)
			if err != nil {
				return err
			}
			if c.verbose {
				cfg.Log.Level = "debug"
			}
			logger, err := infra.NewLogger(cfg.Log.Level)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			c.cfg, c.logger = cfg, logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if c.logger != nil {
				_ = c.logger.Sync()
			}
		},
	}
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "Config file (default: $CHARTER_CONFIG)")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(newChatCmd(c))
	root.AddCommand(newToolCmd(c))
	root.AddCommand(newSeedCmd(c))
	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
