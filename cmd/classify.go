package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/zpam/nbfilter/pkg/filter"
	"github.com/zpam/nbfilter/pkg/output"
	"github.com/zpam/nbfilter/pkg/profiler"
)

var (
	classifyTrain   string
	classifyInput   string
	classifySpamDir string
	classifyHamDir  string
	classifySpamOut string
	classifyHamOut  string
	classifyBackend string
)

var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Train on labeled data and sort new messages",
	Long: `Train a naive Bayes model on a labeled corpus, classify every message of the
input, and write the spam and not-spam messages to the configured output.

Training data is a CSV of text,label rows (--train) and/or directories of
.eml files (--spam-dir, --ham-dir). The input is a CSV file or a directory of
.eml files. Paths that are neither given nor configured are asked for on stdin.

Example usage:
  nbfilter classify --train emails.csv --input new_emails.csv
  nbfilter classify --spam-dir corpus/spam --ham-dir corpus/ham --input inbox/
  nbfilter classify --train emails.csv --input new.csv --backend redis`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.Close()

		cfg := s.cfg
		if classifySpamOut != "" {
			cfg.Output.SpamFile = classifySpamOut
		}
		if classifyHamOut != "" {
			cfg.Output.HamFile = classifyHamOut
		}
		if classifyBackend != "" {
			cfg.Output.Backend = classifyBackend
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}

		trainPath, spamDir, hamDir := trainingSources(s, classifyTrain, classifySpamDir, classifyHamDir)
		if trainPath == "" && spamDir == "" && hamDir == "" {
			if trainPath, err = s.ask("", "Path to the labeled training data"); err != nil {
				return err
			}
		}
		inputPath, err := s.ask(classifyInput, "Path to the messages to classify")
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		fmt.Printf("🔍 nbfilter classification\n")
		fmt.Printf("═══════════════════════════════════════\n")
		start := time.Now()

		model, err := s.train(ctx, trainPath, spamDir, hamDir)
		if err != nil {
			return err
		}

		records, err := s.loadInput(inputPath, false)
		if err != nil {
			return err
		}
		fmt.Printf("📧 Classifying %d messages with %d workers...\n", len(records), cfg.Performance.Workers)

		results, err := s.pipeline.ClassifyAll(ctx, model, records)
		if err != nil {
			return fmt.Errorf("classification interrupted: %w", err)
		}
		spam, ham := filter.Partition(results)

		sink, err := output.NewSink(ctx, cfg.Output, s.logger)
		if err != nil {
			return fmt.Errorf("failed to open output: %w", err)
		}
		defer sink.Close()

		timer := phaseProfiler.Start(profiler.PhaseOutput)
		err = sink.Write(ctx, spam, ham)
		timer.Stop()
		if err != nil {
			return err
		}

		summary := filter.Summarize(results)
		duration := time.Since(start)

		fmt.Printf("\n🎉 Classification Complete!\n")
		fmt.Printf("📊 Total messages: %d\n", summary.Total)
		fmt.Printf("🚫 Spam: %d\n", summary.Spam)
		fmt.Printf("✅ Ham: %d\n", summary.Ham)
		if summary.Failed > 0 {
			fmt.Printf("⚠️  Failed: %d\n", summary.Failed)
		}
		fmt.Printf("⏱️  Time taken: %v\n", duration)
		if cfg.Output.Backend == "redis" {
			fmt.Printf("💾 Results stored under %s:{spam,ham}\n", cfg.Output.Redis.KeyPrefix)
		} else {
			fmt.Printf("💾 Spam written to: %s\n", cfg.Output.SpamFile)
			fmt.Printf("💾 Ham written to: %s\n", cfg.Output.HamFile)
		}

		return nil
	},
}

// trainingSources merges flags with the corpus config section
func trainingSources(s *session, trainPath, spamDir, hamDir string) (string, string, string) {
	if trainPath == "" && spamDir == "" && hamDir == "" {
		return s.cfg.Corpus.TrainingFile, s.cfg.Corpus.SpamDir, s.cfg.Corpus.HamDir
	}
	return trainPath, spamDir, hamDir
}

func init() {
	classifyCmd.Flags().StringVarP(&classifyTrain, "train", "t", "", "Labeled training CSV")
	classifyCmd.Flags().StringVarP(&classifyInput, "input", "i", "", "CSV file or directory of messages to classify")
	classifyCmd.Flags().StringVar(&classifySpamDir, "spam-dir", "", "Directory of spam messages for training")
	classifyCmd.Flags().StringVar(&classifyHamDir, "ham-dir", "", "Directory of ham messages for training")
	classifyCmd.Flags().StringVar(&classifySpamOut, "spam-out", "", "Spam output file (overrides config)")
	classifyCmd.Flags().StringVar(&classifyHamOut, "ham-out", "", "Ham output file (overrides config)")
	classifyCmd.Flags().StringVarP(&classifyBackend, "backend", "b", "", "Output backend: file or redis (overrides config)")
}
