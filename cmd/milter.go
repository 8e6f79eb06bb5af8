package cmd

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/zpam/nbfilter/pkg/config"
	"github.com/zpam/nbfilter/pkg/milter"
)

var (
	milterNetwork string
	milterAddress string
	milterDebug   bool
)

var milterCmd = &cobra.Command{
	Use:   "milter",
	Short: "Start milter server for Postfix/Sendmail integration",
	Long: `Train a model from the configured corpus, then classify incoming mail over
the milter protocol. Messages get X-NB-Status and X-NB-Probability headers and
spam is rejected with 550 when milter.reject_spam is set.

Example usage:
  nbfilter milter --config /etc/nbfilter/config.yaml
  nbfilter milter --network tcp --address 127.0.0.1:7358

For Postfix integration, add to main.cf:
  smtpd_milters = inet:127.0.0.1:7358
  non_smtpd_milters = inet:127.0.0.1:7358
  milter_default_action = accept`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(configFile)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		if cmd.Flags().Changed("network") {
			cfg.Milter.Network = milterNetwork
		}
		if cmd.Flags().Changed("address") {
			cfg.Milter.Address = milterAddress
		}
		if milterDebug {
			cfg.Logging.Level = "debug"
		}
		cfg.Milter.Enabled = true

		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}

		s, err := newSession(cfg)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		model, err := s.train(ctx, cfg.Corpus.TrainingFile, cfg.Corpus.SpamDir, cfg.Corpus.HamDir)
		if err != nil {
			return err
		}

		server, err := milter.NewServer(&cfg.Milter, s.pipeline.Normalizer(), model, s.logger)
		if err != nil {
			return fmt.Errorf("failed to create milter server: %w", err)
		}

		listener, err := server.Listen()
		if err != nil {
			return err
		}
		defer listener.Close()

		fmt.Printf("📬 nbfilter milter starting on %s://%s\n", cfg.Milter.Network, cfg.Milter.Address)
		if cfg.Milter.RejectSpam {
			fmt.Printf("🚫 Spam is rejected with 550\n")
		} else {
			fmt.Printf("🏷️  Spam is tagged with %sStatus\n", cfg.Milter.HeaderPrefix)
		}
		fmt.Printf("🚀 Press Ctrl+C to stop\n\n")

		err = server.Serve(ctx, listener)
		if errors.Is(err, context.Canceled) {
			fmt.Printf("\n✅ Milter server stopped gracefully (%d sessions)\n", server.Stats().MilterCount)
			return nil
		}
		return err
	},
}

func init() {
	milterCmd.Flags().StringVarP(&milterNetwork, "network", "n", "", "Network type (tcp or unix)")
	milterCmd.Flags().StringVarP(&milterAddress, "address", "a", "", "Bind address (e.g., 127.0.0.1:7358 or /tmp/nbfilter.sock)")
	milterCmd.Flags().BoolVarP(&milterDebug, "debug", "d", false, "Enable debug logging")
}
