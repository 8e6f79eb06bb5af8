// Package filter wires normalization, training and classification into a
// batch pipeline over corpus records.
package filter

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/zpam/nbfilter/pkg/config"
	"github.com/zpam/nbfilter/pkg/corpus"
	"github.com/zpam/nbfilter/pkg/learning"
	"github.com/zpam/nbfilter/pkg/logging"
	"github.com/zpam/nbfilter/pkg/normalize"
	"github.com/zpam/nbfilter/pkg/profiler"
)

// Result is the outcome of classifying one record
type Result struct {
	Record          corpus.Record
	Label           learning.Label
	Scores          learning.Scores
	SpamProbability float64
	Tokens          int
	Err             error
}

// IsSpam reports a successful spam prediction
func (r Result) IsSpam() bool {
	return r.Err == nil && r.Label == learning.Spam
}

// FilterResults contains the totals of a classification run
type FilterResults struct {
	Total  int
	Spam   int
	Ham    int
	Failed int
}

// Pipeline classifies corpus records with a naive Bayes model
type Pipeline struct {
	config     *config.Config
	normalizer *normalize.Normalizer
	logger     *slog.Logger
	profiler   *profiler.Profiler
}

// Option configures a Pipeline
type Option func(*Pipeline)

// WithProfiler records phase timings into p
func WithProfiler(p *profiler.Profiler) Option {
	return func(pl *Pipeline) {
		pl.profiler = p
	}
}

// New creates a pipeline from cfg. A nil logger discards diagnostics.
func New(cfg *config.Config, logger *slog.Logger, opts ...Option) (*Pipeline, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if logger == nil {
		logger = logging.Discard()
	}

	normalizer, err := NewNormalizer(cfg.Text)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		config:     cfg,
		normalizer: normalizer,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// NewNormalizer builds the normalizer described by the text config section
func NewNormalizer(cfg config.TextConfig) (*normalize.Normalizer, error) {
	var words []string
	if cfg.StopwordsFile != "" {
		loaded, err := corpus.LoadStopwordsFile(cfg.StopwordsFile)
		if err != nil {
			return nil, err
		}
		words = loaded
	}

	stemmer, err := normalize.NewStemmer(cfg.Stemmer)
	if err != nil {
		return nil, err
	}

	return normalize.New(
		normalize.WithStopwords(normalize.NewStopwordFilter(words, cfg.BuiltinStopwords)),
		normalize.WithStemmer(stemmer),
		normalize.WithMinTokenLength(cfg.MinTokenLength),
	), nil
}

// Normalizer returns the normalizer shared by training and classification
func (p *Pipeline) Normalizer() *normalize.Normalizer {
	return p.normalizer
}

// Tokenize normalizes every record in order
func (p *Pipeline) Tokenize(records []corpus.Record) []learning.TokenizedDocument {
	defer p.profiler.Start(profiler.PhaseTokenize).Stop()

	docs := make([]learning.TokenizedDocument, 0, len(records))
	for _, rec := range records {
		docs = append(docs, learning.TokenizedDocument{
			ID:      rec.ID,
			Tokens:  p.normalizer.Normalize(rec.Text),
			Label:   rec.Label,
			Labeled: rec.Labeled,
		})
	}
	return docs
}

// Train tokenizes the labeled records and trains a model. Unlabeled records
// are logged and left out.
func (p *Pipeline) Train(ctx context.Context, records []corpus.Record) (*learning.Model, error) {
	labeled := make([]corpus.Record, 0, len(records))
	for _, rec := range records {
		if !rec.Labeled {
			p.logger.Warn("skipping unlabeled training record", "id", rec.ID, "line", rec.Line)
			continue
		}
		labeled = append(labeled, rec)
	}

	docs := p.Tokenize(labeled)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	timer := p.profiler.Start(profiler.PhaseTrain)
	model, err := learning.Train(docs, learning.TrainOptions{Shards: p.config.Performance.TrainShards})
	elapsed := timer.Stop()
	if err != nil {
		return nil, fmt.Errorf("failed to train model: %w", err)
	}

	p.logger.Info("model trained",
		"documents", len(docs),
		"spam_documents", model.Documents(learning.Spam),
		"ham_documents", model.Documents(learning.NotSpam),
		"vocabulary", model.Info().VocabularySize,
		"shards", p.config.Performance.TrainShards,
		"elapsed", elapsed)
	return model, nil
}

// ClassifyAll classifies records with a pool of workers. Results keep the
// input order. A failure in one record is reported in that Result's Err and
// does not stop the others. When ctx is cancelled no further records are
// dispatched; those records carry ctx.Err() and it is also returned.
func (p *Pipeline) ClassifyAll(ctx context.Context, model *learning.Model, records []corpus.Record) ([]Result, error) {
	defer p.profiler.Start(profiler.PhaseClassify).Stop()

	classifier := learning.NewClassifier(model)
	results := make([]Result, len(records))
	if len(records) == 0 {
		return results, nil
	}

	workers := p.config.Performance.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > len(records) {
		workers = len(records)
	}

	var failed int32
	jobs := make(chan int)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				results[idx] = p.classifyOne(classifier, records[idx])
				if results[idx].Err != nil {
					atomic.AddInt32(&failed, 1)
					p.logger.Warn("failed to classify record",
						"id", records[idx].ID, "error", results[idx].Err)
				}
			}
		}()
	}

	dispatched := 0
dispatch:
	for ; dispatched < len(records); dispatched++ {
		if ctx.Err() != nil {
			break
		}
		select {
		case <-ctx.Done():
			break dispatch
		case jobs <- dispatched:
		}
	}
	close(jobs)
	wg.Wait()

	if dispatched < len(records) {
		for i := dispatched; i < len(records); i++ {
			results[i] = Result{Record: records[i], Err: ctx.Err()}
		}
		return results, ctx.Err()
	}

	p.logger.Debug("classification finished",
		"records", len(records), "failed", atomic.LoadInt32(&failed), "workers", workers)
	return results, nil
}

func (p *Pipeline) classifyOne(classifier *learning.Classifier, rec corpus.Record) (result Result) {
	start := time.Now()
	result.Record = rec

	defer func() {
		if r := recover(); r != nil {
			result.Err = fmt.Errorf("panic while classifying %s: %v", rec.ID, r)
		}
		p.profiler.Record(profiler.PhaseDocument, time.Since(start))
	}()

	tokens := p.normalizer.Normalize(rec.Text)
	scores := classifier.Score(tokens)

	result.Tokens = len(tokens)
	result.Scores = scores
	result.Label = scores.Label()
	result.SpamProbability = scores.SpamProbability()
	return result
}

// Partition splits successful results into predicted spam and not-spam,
// preserving order
func Partition(results []Result) (spam, ham []Result) {
	for _, r := range results {
		if r.Err != nil {
			continue
		}
		if r.Label == learning.Spam {
			spam = append(spam, r)
		} else {
			ham = append(ham, r)
		}
	}
	return spam, ham
}

// Summarize counts the outcome of a run
func Summarize(results []Result) *FilterResults {
	summary := &FilterResults{Total: len(results)}
	for _, r := range results {
		switch {
		case r.Err != nil:
			summary.Failed++
		case r.Label == learning.Spam:
			summary.Spam++
		default:
			summary.Ham++
		}
	}
	return summary
}
