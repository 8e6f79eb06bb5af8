package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/zpam/nbfilter/pkg/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management",
	Long:  `Generate and check nbfilter configuration files`,
}

var configGenCmd = &cobra.Command{
	Use:   "generate [config-file]",
	Short: "Generate default configuration file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath := "config.yaml"
		if len(args) > 0 {
			configPath = args[0]
		}

		if _, err := os.Stat(configPath); err == nil {
			overwrite, _ := cmd.Flags().GetBool("force")
			if !overwrite {
				return fmt.Errorf("config file already exists: %s (use --force to overwrite)", configPath)
			}
		}

		if err := config.DefaultConfig().SaveConfig(configPath); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}

		fmt.Printf("✅ Configuration file generated: %s\n", configPath)
		fmt.Printf("📝 Set corpus.training_file and labels.spam_value for your data\n")
		fmt.Printf("🚀 Use 'nbfilter classify --config %s' to use the configuration\n", configPath)
		return nil
	},
}

var configValidateCmd = &cobra.Command{
	Use:   "validate [config-file]",
	Short: "Validate configuration file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath := args[0]

		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			return fmt.Errorf("❌ Configuration validation failed: %w", err)
		}

		fmt.Printf("✅ Configuration is valid: %s\n", configPath)

		if warnings := configWarnings(cfg); len(warnings) > 0 {
			fmt.Printf("\n⚠️  Warnings:\n")
			for _, warning := range warnings {
				fmt.Printf("  - %s\n", warning)
			}
		}

		fmt.Printf("\n📊 Configuration Summary:\n")
		fmt.Printf("  Training file: %s\n", orNone(cfg.Corpus.TrainingFile))
		fmt.Printf("  Spam label value: %d\n", cfg.Labels.SpamValue)
		fmt.Printf("  Encoding: %s\n", cfg.Corpus.Encoding)
		fmt.Printf("  Stemmer: %s, min token length %d\n", cfg.Text.Stemmer, cfg.Text.MinTokenLength)
		fmt.Printf("  Workers: %d, training shards: %d\n", cfg.Performance.Workers, cfg.Performance.TrainShards)
		fmt.Printf("  Output backend: %s\n", cfg.Output.Backend)
		if cfg.Milter.Enabled {
			fmt.Printf("  Milter: %s://%s\n", cfg.Milter.Network, cfg.Milter.Address)
		}
		return nil
	},
}

// configWarnings reports settings that are valid but probably unintended
func configWarnings(cfg *config.Config) []string {
	var warnings []string

	if cfg.Corpus.TrainingFile == "" && cfg.Corpus.SpamDir == "" && cfg.Corpus.HamDir == "" {
		warnings = append(warnings, "No training data configured; commands will ask for it")
	}
	if (cfg.Corpus.SpamDir == "") != (cfg.Corpus.HamDir == "") {
		warnings = append(warnings, "Only one of spam_dir and ham_dir is set; training needs both classes")
	}
	if cfg.Text.MinTokenLength > 4 {
		warnings = append(warnings, "min_token_length above 4 drops many ordinary words")
	}
	if cfg.Performance.Workers > 64 {
		warnings = append(warnings, "High worker count might not improve throughput")
	}
	if cfg.Milter.Enabled && cfg.Milter.RejectSpam && !cfg.Milter.AddHeaders {
		warnings = append(warnings, "Milter rejects spam without tagging ham; consider add_headers")
	}

	return warnings
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}

func init() {
	configCmd.AddCommand(configGenCmd)
	configCmd.AddCommand(configValidateCmd)

	configGenCmd.Flags().Bool("force", false, "Overwrite existing config file")
}
