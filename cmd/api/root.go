package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/voltalia/goom-relay/config"
	"github.com/voltalia/goom-relay/pkg/logger"
)

var rootCmd = &cobra.Command{
	Use:   "goom-relay",
	Short: "Relay Airtable signed-contract notifications to the Goom gateway",
	Long: `goom-relay receives Airtable webhook notifications, keeps the records whose
subscription contract is signed, and forwards each customer e-mail to the Goom
project webhook as a validate_quote action.

Without a subcommand it starts the HTTP server.`,
	SilenceUsage: true,
	RunE:         runServe,
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	addServeFlags(rootCmd)

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(forwardCmd)
}

// setup loads configuration and installs the global logger.
func setup() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	err = logger.Initialize(logger.Config{
		Level:       cfg.Logging.Level,
		LogDir:      cfg.Logging.Dir,
		Environment: cfg.Server.AppEnv,
		ServiceName: cfg.Observability.ServiceName,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return cfg, nil
}
