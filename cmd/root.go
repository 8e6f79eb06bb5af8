package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/zpam/nbfilter/pkg/profiler"
)

var (
	configFile  string
	showProfile bool

	// phaseProfiler collects timings for --profile; nil when disabled
	phaseProfiler *profiler.Profiler
)

var rootCmd = &cobra.Command{
	Use:   "nbfilter",
	Short: "nbfilter - naive Bayes spam filter",
	Long: `nbfilter trains a naive Bayes model on labeled messages and sorts new
messages into spam and not-spam.

It reads CSV corpora or directories of .eml files, writes results to text files
or Redis, and can classify live mail as a Postfix/Sendmail milter.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if showProfile {
			phaseProfiler = profiler.New()
		}
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if phaseProfiler != nil {
			fmt.Println()
			phaseProfiler.Report(os.Stdout)
		}
	},
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("nbfilter - naive Bayes spam filter")
		fmt.Println("Use 'nbfilter --help' for usage information")
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().BoolVar(&showProfile, "profile", false, "Print phase timings when done")

	rootCmd.AddCommand(classifyCmd)
	rootCmd.AddCommand(evaluateCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(milterCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(benchmarkCmd)
}
