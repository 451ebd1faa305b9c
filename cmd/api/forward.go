package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/voltalia/goom-relay/internal/services"
	"github.com/voltalia/goom-relay/pkg/goom"
	"github.com/voltalia/goom-relay/pkg/httpclient"
	"github.com/voltalia/goom-relay/pkg/logger"
)

var forwardCmd = &cobra.Command{
	Use:   "forward <email>",
	Short: "Send one validate_quote call to the Goom gateway and print the result",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := setup()
		if err != nil {
			return err
		}
		defer logger.Sync()

		if timeoutMs, _ := cmd.Flags().GetInt("timeout"); timeoutMs > 0 {
			cfg.Goom.TimeoutMs = timeoutMs
		}
		if !cfg.GoomConfigured() {
			logger.Warn("GOOM_GATEWAY_TOKEN not configured: the gateway will likely refuse the call")
		}

		service := services.NewWebhookService(goom.NewClient(cfg.Goom, httpclient.NewStandardClient(0)))
		result := service.ForwardEmail(cmd.Context(), args[0])

		out, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode result: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))

		if !result.Success {
			return fmt.Errorf("forward failed: %s", result.Error)
		}
		return nil
	},
}

func init() {
	forwardCmd.Flags().Int("timeout", 0, "forward timeout in milliseconds (overrides GOOM_TIMEOUT)")
}
