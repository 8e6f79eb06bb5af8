package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/zpam/nbfilter/pkg/learning"
)

var (
	statsTrain   string
	statsSpamDir string
	statsHamDir  string
	statsTop     int
	statsWords   []string
	statsJSON    bool
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show statistics of a trained model",
	Long: `Train a model and print its document counts, vocabulary, priors and the
tokens most indicative of each class. --word looks up individual words after
normalization.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.Close()
		s.quiet = statsJSON

		trainPath, spamDir, hamDir := trainingSources(s, statsTrain, statsSpamDir, statsHamDir)
		if trainPath == "" && spamDir == "" && hamDir == "" {
			if trainPath, err = s.ask("", "Path to the labeled training data"); err != nil {
				return err
			}
		}

		model, err := s.train(context.Background(), trainPath, spamDir, hamDir)
		if err != nil {
			return err
		}

		var words []*learning.TokenStats
		for _, word := range statsWords {
			for _, token := range s.pipeline.Normalizer().Normalize(word) {
				if st := model.TokenStats(token); st != nil {
					words = append(words, st)
				} else {
					words = append(words, &learning.TokenStats{Token: token})
				}
			}
		}

		if statsJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(struct {
				Info    *learning.ModelInfo    `json:"model"`
				TopSpam []*learning.TokenStats `json:"top_spam"`
				TopHam  []*learning.TokenStats `json:"top_ham"`
				Lookups []*learning.TokenStats `json:"words,omitempty"`
			}{
				Info:    model.Info(),
				TopSpam: model.TopTokens(learning.Spam, statsTop, 1),
				TopHam:  model.TopTokens(learning.NotSpam, statsTop, 1),
				Lookups: words,
			})
		}

		fmt.Println()
		model.PrintStats(os.Stdout, statsTop)

		if len(words) > 0 {
			fmt.Printf("🔎 Word Lookup:\n")
			for _, st := range words {
				if st.SpamCount == 0 && st.NotSpamCount == 0 {
					fmt.Printf("  %-15s not in vocabulary\n", st.Token)
					continue
				}
				fmt.Printf("  %-15s spam %d, ham %d, P(spam)=%.6f P(ham)=%.6f, spamminess %.3f\n",
					st.Token, st.SpamCount, st.NotSpamCount, st.SpamProb, st.NotSpamProb, st.Spamminess)
			}
		}

		return nil
	},
}

func init() {
	statsCmd.Flags().StringVarP(&statsTrain, "train", "t", "", "Labeled training CSV")
	statsCmd.Flags().StringVar(&statsSpamDir, "spam-dir", "", "Directory of spam messages for training")
	statsCmd.Flags().StringVar(&statsHamDir, "ham-dir", "", "Directory of ham messages for training")
	statsCmd.Flags().IntVarP(&statsTop, "top", "n", 10, "Number of top tokens per class")
	statsCmd.Flags().StringSliceVarP(&statsWords, "word", "w", nil, "Words to look up (repeatable)")
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "Print statistics as JSON")
}
