package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/zpam/nbfilter/pkg/config"
	"github.com/zpam/nbfilter/pkg/corpus"
	"github.com/zpam/nbfilter/pkg/filter"
	"github.com/zpam/nbfilter/pkg/learning"
	"github.com/zpam/nbfilter/pkg/profiler"
)

var (
	benchmarkTrain   string
	benchmarkInput   string
	benchmarkRuns    int
	benchmarkWorkers []int
)

var benchmarkCmd = &cobra.Command{
	Use:   "benchmark",
	Short: "Measure classification throughput",
	Long: `Train once, then classify the input repeatedly with different worker counts
and report per-message latency and throughput for each.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if benchmarkRuns < 1 {
			return fmt.Errorf("runs must be greater than 0")
		}

		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.Close()

		trainPath, spamDir, hamDir := trainingSources(s, benchmarkTrain, "", "")
		if trainPath == "" && spamDir == "" && hamDir == "" {
			if trainPath, err = s.ask("", "Path to the labeled training data"); err != nil {
				return err
			}
		}

		ctx := context.Background()
		model, err := s.train(ctx, trainPath, spamDir, hamDir)
		if err != nil {
			return err
		}

		inputPath := benchmarkInput
		if inputPath == "" {
			inputPath = trainPath
		}
		records, err := s.loadInput(inputPath, false)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			return fmt.Errorf("no messages found in %s", inputPath)
		}

		fmt.Printf("\n🚀 nbfilter Classification Benchmark\n")
		fmt.Printf("📧 Messages: %d\n", len(records))
		fmt.Printf("🔄 Runs per setting: %d\n\n", benchmarkRuns)
		fmt.Printf("%8s %12s %10s %10s %10s %12s\n", "Workers", "Total", "Avg", "P95", "Max", "Msgs/sec")
		fmt.Printf("────────────────────────────────────────────────────────────────────\n")

		for _, workers := range benchmarkWorkers {
			result, err := runBenchmark(ctx, s.cfg, model, records, workers, benchmarkRuns)
			if err != nil {
				return err
			}
			fmt.Printf("%8d %12s %10s %10s %10s %12.0f\n",
				workers,
				result.Total.Round(time.Microsecond),
				result.Document.Average.Round(time.Microsecond),
				result.Document.P95.Round(time.Microsecond),
				result.Document.Max.Round(time.Microsecond),
				result.PerSecond)
		}

		return nil
	},
}

// BenchmarkResult contains throughput for one worker count
type BenchmarkResult struct {
	Workers   int
	Messages  int
	Total     time.Duration
	PerSecond float64
	Document  profiler.Stats
}

func runBenchmark(ctx context.Context, base *config.Config, model *learning.Model, records []corpus.Record, workers, runs int) (*BenchmarkResult, error) {
	cfg := *base
	cfg.Performance.Workers = workers

	prof := profiler.New()
	pipeline, err := filter.New(&cfg, nil, filter.WithProfiler(prof))
	if err != nil {
		return nil, err
	}

	start := time.Now()
	for i := 0; i < runs; i++ {
		if _, err := pipeline.ClassifyAll(ctx, model, records); err != nil {
			return nil, err
		}
	}
	total := time.Since(start)

	messages := len(records) * runs
	return &BenchmarkResult{
		Workers:   workers,
		Messages:  messages,
		Total:     total,
		PerSecond: float64(messages) / total.Seconds(),
		Document:  prof.Stats(profiler.PhaseDocument),
	}, nil
}

func init() {
	benchmarkCmd.Flags().StringVarP(&benchmarkTrain, "train", "t", "", "Labeled training CSV")
	benchmarkCmd.Flags().StringVarP(&benchmarkInput, "input", "i", "", "Messages to classify (defaults to the training data)")
	benchmarkCmd.Flags().IntVarP(&benchmarkRuns, "runs", "r", 3, "Classification runs per worker count")
	benchmarkCmd.Flags().IntSliceVarP(&benchmarkWorkers, "workers", "w", []int{1, 4, 8}, "Worker counts to compare")
}
