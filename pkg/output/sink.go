// Package output stores classification results.
package output

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/zpam/nbfilter/pkg/config"
	"github.com/zpam/nbfilter/pkg/filter"
)

// Sink receives the partitioned results of a run
type Sink interface {
	Write(ctx context.Context, spam, ham []filter.Result) error
	Close() error
}

// NewSink creates the sink selected by cfg.Backend
func NewSink(ctx context.Context, cfg config.OutputConfig, logger *slog.Logger) (Sink, error) {
	switch cfg.Backend {
	case "", "file":
		return NewFileSink(cfg.SpamFile, cfg.HamFile), nil
	case "redis":
		return NewRedisSink(ctx, cfg.Redis, logger)
	default:
		return nil, fmt.Errorf("unknown output backend: %s", cfg.Backend)
	}
}

var lineBreaks = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

// flatten keeps one message per output line
func flatten(text string) string {
	return lineBreaks.Replace(text)
}
