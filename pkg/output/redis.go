package output

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/zpam/nbfilter/pkg/config"
	"github.com/zpam/nbfilter/pkg/filter"
	"github.com/zpam/nbfilter/pkg/logging"
)

// pushBatch bounds the arguments of a single RPUSH
const pushBatch = 500

// Entry is the JSON stored per message in the Redis lists
type Entry struct {
	ID              string  `json:"id"`
	Line            int     `json:"line,omitempty"`
	Text            string  `json:"text"`
	Label           string  `json:"label"`
	SpamProbability float64 `json:"spam_probability"`
}

// RedisSink replaces <prefix>:spam and <prefix>:ham with the results of a
// run and records counts in the <prefix>:summary hash
type RedisSink struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	logger *slog.Logger
}

// NewRedisSink connects to Redis and checks the connection
func NewRedisSink(ctx context.Context, cfg config.RedisOutputConfig, logger *slog.Logger) (*RedisSink, error) {
	if logger == nil {
		logger = logging.Discard()
	}

	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid Redis URL: %w", err)
	}
	opt.DB = cfg.DatabaseNum

	var ttl time.Duration
	if cfg.TTL != "" {
		ttl, err = time.ParseDuration(cfg.TTL)
		if err != nil {
			return nil, fmt.Errorf("invalid Redis TTL %q: %w", cfg.TTL, err)
		}
	}

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("Redis connection failed: %w", err)
	}

	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = "nbfilter:results"
	}

	return &RedisSink{client: client, prefix: prefix, ttl: ttl, logger: logger}, nil
}

// Key returns the full key for a suffix such as "spam"
func (s *RedisSink) Key(suffix string) string {
	return s.prefix + ":" + suffix
}

// Write stores the results in one pipeline
func (s *RedisSink) Write(ctx context.Context, spam, ham []filter.Result) error {
	pipe := s.client.TxPipeline()

	for _, class := range []struct {
		key     string
		results []filter.Result
	}{
		{s.Key("spam"), spam},
		{s.Key("ham"), ham},
	} {
		pipe.Del(ctx, class.key)
		values := make([]interface{}, 0, pushBatch)
		for _, r := range class.results {
			data, err := json.Marshal(newEntry(r))
			if err != nil {
				return fmt.Errorf("failed to encode result %s: %w", r.Record.ID, err)
			}
			values = append(values, data)
			if len(values) == pushBatch {
				pipe.RPush(ctx, class.key, values...)
				values = make([]interface{}, 0, pushBatch)
			}
		}
		if len(values) > 0 {
			pipe.RPush(ctx, class.key, values...)
		}
		if s.ttl > 0 {
			pipe.Expire(ctx, class.key, s.ttl)
		}
	}

	summary := s.Key("summary")
	pipe.HSet(ctx, summary,
		"spam", len(spam),
		"ham", len(ham),
		"updated_at", time.Now().Unix())
	if s.ttl > 0 {
		pipe.Expire(ctx, summary, s.ttl)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to store results: %w", err)
	}

	s.logger.Info("results stored in Redis", "prefix", s.prefix, "spam", len(spam), "ham", len(ham))
	return nil
}

// Close closes the Redis connection
func (s *RedisSink) Close() error {
	return s.client.Close()
}

func newEntry(r filter.Result) Entry {
	return Entry{
		ID:              r.Record.ID,
		Line:            r.Record.Line,
		Text:            r.Record.Text,
		Label:           r.Label.String(),
		SpamProbability: r.SpamProbability,
	}
}
