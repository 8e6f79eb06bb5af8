package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/zpam/nbfilter/pkg/filter"
)

var (
	evaluateTrain   string
	evaluateTest    string
	evaluateSpamDir string
	evaluateHamDir  string
	evaluateJSON    bool
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Measure accuracy on a labeled test set",
	Long: `Train on one labeled corpus and report accuracy, precision, recall and F1
on another labeled CSV file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.Close()
		s.quiet = evaluateJSON

		trainPath, spamDir, hamDir := trainingSources(s, evaluateTrain, evaluateSpamDir, evaluateHamDir)
		if trainPath == "" && spamDir == "" && hamDir == "" {
			if trainPath, err = s.ask("", "Path to the labeled training data"); err != nil {
				return err
			}
		}
		testPath, err := s.ask(evaluateTest, "Path to the labeled test data")
		if err != nil {
			return err
		}

		ctx := context.Background()
		model, err := s.train(ctx, trainPath, spamDir, hamDir)
		if err != nil {
			return err
		}

		records, err := s.loadInput(testPath, true)
		if err != nil {
			return err
		}

		results, err := s.pipeline.ClassifyAll(ctx, model, records)
		if err != nil {
			return err
		}
		metrics := filter.Evaluate(results)

		if evaluateJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(struct {
				filter.Metrics
				Accuracy  float64 `json:"accuracy"`
				Precision float64 `json:"precision"`
				Recall    float64 `json:"recall"`
				F1        float64 `json:"f1"`
			}{metrics, metrics.Accuracy(), metrics.Precision(), metrics.Recall(), metrics.F1()})
		}

		fmt.Println()
		metrics.Print(os.Stdout)
		return nil
	},
}

func init() {
	evaluateCmd.Flags().StringVarP(&evaluateTrain, "train", "t", "", "Labeled training CSV")
	evaluateCmd.Flags().StringVar(&evaluateTest, "test", "", "Labeled test CSV")
	evaluateCmd.Flags().StringVar(&evaluateSpamDir, "spam-dir", "", "Directory of spam messages for training")
	evaluateCmd.Flags().StringVar(&evaluateHamDir, "ham-dir", "", "Directory of ham messages for training")
	evaluateCmd.Flags().BoolVar(&evaluateJSON, "json", false, "Print metrics as JSON")
}
