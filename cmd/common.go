package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/zpam/nbfilter/pkg/config"
	"github.com/zpam/nbfilter/pkg/corpus"
	"github.com/zpam/nbfilter/pkg/filter"
	"github.com/zpam/nbfilter/pkg/learning"
	"github.com/zpam/nbfilter/pkg/logging"
	"github.com/zpam/nbfilter/pkg/profiler"
)

// stdin is where missing paths are read from
var stdin io.Reader = os.Stdin

// session holds what the corpus commands share
type session struct {
	cfg      *config.Config
	logger   *slog.Logger
	closer   io.Closer
	pipeline *filter.Pipeline
	prompt   *bufio.Reader

	// quiet suppresses progress output for machine-readable commands
	quiet bool
}

func openSession() (*session, error) {
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return newSession(cfg)
}

func newSession(cfg *config.Config) (*session, error) {
	logger, closer, err := logging.New(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logging: %w", err)
	}

	pipeline, err := filter.New(cfg, logger, filter.WithProfiler(phaseProfiler))
	if err != nil {
		closer.Close()
		return nil, fmt.Errorf("failed to build pipeline: %w", err)
	}

	return &session{
		cfg:      cfg,
		logger:   logger,
		closer:   closer,
		pipeline: pipeline,
		prompt:   bufio.NewReader(stdin),
	}, nil
}

func (s *session) Close() error {
	return s.closer.Close()
}

// csvOptions maps the corpus config section onto reader options
func (s *session) csvOptions(requireLabel bool) corpus.CSVOptions {
	opts := corpus.CSVOptions{
		Encoding:     s.cfg.Corpus.Encoding,
		Delimiter:    ',',
		HasHeader:    s.cfg.Corpus.HasHeader,
		TextColumn:   s.cfg.Corpus.TextColumn,
		LabelColumn:  s.cfg.Corpus.LabelColumn,
		Labels:       learning.LabelScheme{SpamValue: s.cfg.Labels.SpamValue},
		RequireLabel: requireLabel,
	}
	if r := []rune(s.cfg.Corpus.Delimiter); len(r) == 1 {
		opts.Delimiter = r[0]
	}
	return opts
}

// loadTraining reads labeled records from a CSV file and the spam and ham
// mail directories, whichever are given
func (s *session) loadTraining(csvPath, spamDir, hamDir string) ([]corpus.Record, error) {
	if csvPath == "" && spamDir == "" && hamDir == "" {
		return nil, fmt.Errorf("no training data: set a training file or spam/ham directories")
	}
	defer phaseProfiler.Start(profiler.PhaseLoad).Stop()

	var records []corpus.Record
	if csvPath != "" {
		result, err := corpus.ReadCSVFile(csvPath, s.csvOptions(true))
		if err != nil {
			return nil, fmt.Errorf("failed to read training data: %w", err)
		}
		s.reportSkipped(csvPath, result)
		records = append(records, result.Records...)
	}

	for _, dir := range []struct {
		path  string
		label learning.Label
	}{
		{spamDir, learning.Spam},
		{hamDir, learning.NotSpam},
	} {
		if dir.path == "" {
			continue
		}
		result, err := corpus.ReadMailDir(dir.path, dir.label, true)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s messages: %w", dir.label, err)
		}
		s.reportSkipped(dir.path, result)
		records = append(records, result.Records...)
	}

	return records, nil
}

// loadInput reads the records to classify from a CSV file or a directory of
// messages
func (s *session) loadInput(path string, requireLabel bool) ([]corpus.Record, error) {
	defer phaseProfiler.Start(profiler.PhaseLoad).Stop()

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input: %w", err)
	}

	var result *corpus.Result
	if info.IsDir() {
		result, err = corpus.ReadMailDir(path, learning.NotSpam, false)
	} else {
		result, err = corpus.ReadCSVFile(path, s.csvOptions(requireLabel))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}

	s.reportSkipped(path, result)
	return result.Records, nil
}

// train loads the training data and trains a model
func (s *session) train(ctx context.Context, csvPath, spamDir, hamDir string) (*learning.Model, error) {
	records, err := s.loadTraining(csvPath, spamDir, hamDir)
	if err != nil {
		return nil, err
	}
	s.progressf("📚 Training on %d labeled messages...\n", len(records))

	model, err := s.pipeline.Train(ctx, records)
	if err != nil {
		return nil, err
	}
	s.progressf("✅ Model trained: %d spam, %d ham\n",
		model.Documents(learning.Spam), model.Documents(learning.NotSpam))
	return model, nil
}

func (s *session) reportSkipped(source string, result *corpus.Result) {
	for _, err := range result.Skipped {
		s.logger.Warn("skipping malformed record", "source", source, "error", err)
	}
	if len(result.Skipped) > 0 {
		s.progressf("⚠️  Skipped %d malformed records in %s\n", len(result.Skipped), source)
	}
}

func (s *session) progressf(format string, args ...interface{}) {
	if !s.quiet {
		fmt.Printf(format, args...)
	}
}

// ask returns value, or prompts on stdin for it when empty
func (s *session) ask(value, question string) (string, error) {
	if value != "" {
		return value, nil
	}
	return promptLine(s.prompt, question)
}

func promptLine(r *bufio.Reader, question string) (string, error) {
	fmt.Printf("%s: ", question)
	line, err := r.ReadString('\n')
	line = strings.TrimSpace(line)
	if line == "" {
		if err != nil && err != io.EOF {
			return "", fmt.Errorf("failed to read answer: %w", err)
		}
		return "", fmt.Errorf("no answer given for %q", question)
	}
	return line, nil
}
