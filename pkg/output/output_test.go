package output

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/zpam/nbfilter/pkg/config"
	"github.com/zpam/nbfilter/pkg/corpus"
	"github.com/zpam/nbfilter/pkg/filter"
	"github.com/zpam/nbfilter/pkg/learning"
)

func results() (spam, ham []filter.Result) {
	spam = []filter.Result{
		{Record: corpus.Record{ID: "row 1", Line: 2, Text: "Free money\nnow"}, Label: learning.Spam, SpamProbability: 0.99},
		{Record: corpus.Record{ID: "row 3", Line: 4, Text: "Win a prize"}, Label: learning.Spam, SpamProbability: 0.9},
	}
	ham = []filter.Result{
		{Record: corpus.Record{ID: "row 2", Line: 3, Text: "Lunch at noon?\r\nBring notes"}, Label: learning.NotSpam, SpamProbability: 0.01},
	}
	return spam, ham
}

func TestFileSink(t *testing.T) {
	dir := t.TempDir()
	sink := NewFileSink(filepath.Join(dir, "out", "spam.txt"), filepath.Join(dir, "out", "ham.txt"))
	defer sink.Close()

	spam, ham := results()
	if err := sink.Write(context.Background(), spam, ham); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	tests := []struct {
		path     string
		expected string
	}{
		{sink.SpamPath, "Free money now\nWin a prize\n"},
		{sink.HamPath, "Lunch at noon? Bring notes\n"},
	}
	for _, tt := range tests {
		data, err := os.ReadFile(tt.path)
		if err != nil {
			t.Fatalf("failed to read %s: %v", tt.path, err)
		}
		if string(data) != tt.expected {
			t.Errorf("%s = %q, expected %q", tt.path, data, tt.expected)
		}
	}

	// A second run replaces the previous contents
	if err := sink.Write(context.Background(), nil, nil); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if data, _ := os.ReadFile(sink.SpamPath); len(data) != 0 {
		t.Errorf("spam file not truncated: %q", data)
	}
}

func TestNewSink(t *testing.T) {
	cfg := config.DefaultConfig().Output
	sink, err := NewSink(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("NewSink failed: %v", err)
	}
	if _, ok := sink.(*FileSink); !ok {
		t.Errorf("expected *FileSink, got %T", sink)
	}

	cfg.Backend = "kafka"
	if _, err := NewSink(context.Background(), cfg, nil); err == nil {
		t.Error("expected error for unknown backend")
	}

	cfg.Backend = "redis"
	cfg.Redis.TTL = "soon"
	if _, err := NewSink(context.Background(), cfg, nil); err == nil {
		t.Error("expected error for invalid TTL")
	}
}

func TestRedisSink(t *testing.T) {
	if !isRedisAvailable() {
		t.Skip("Redis not available, skipping test")
	}

	ctx := context.Background()
	cfg := config.RedisOutputConfig{
		RedisURL:    "redis://localhost:6379",
		KeyPrefix:   fmt.Sprintf("nbfilter:test:%d", time.Now().UnixNano()),
		DatabaseNum: 1,
		TTL:         "1m",
	}

	sink, err := NewRedisSink(ctx, cfg, nil)
	if err != nil {
		t.Fatalf("NewRedisSink failed: %v", err)
	}
	defer sink.Close()
	defer sink.client.Del(ctx, sink.Key("spam"), sink.Key("ham"), sink.Key("summary"))

	spam, ham := results()
	if err := sink.Write(ctx, spam, ham); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	stored, err := sink.client.LRange(ctx, sink.Key("spam"), 0, -1).Result()
	if err != nil {
		t.Fatalf("LRange failed: %v", err)
	}
	if len(stored) != 2 {
		t.Fatalf("expected 2 spam entries, got %d", len(stored))
	}

	var entry Entry
	if err := json.Unmarshal([]byte(stored[0]), &entry); err != nil {
		t.Fatalf("invalid entry JSON: %v", err)
	}
	if entry.ID != "row 1" || entry.Label != "spam" || entry.Text != "Free money\nnow" {
		t.Errorf("unexpected entry: %+v", entry)
	}

	summary, err := sink.client.HGetAll(ctx, sink.Key("summary")).Result()
	if err != nil {
		t.Fatalf("HGetAll failed: %v", err)
	}
	if summary["spam"] != "2" || summary["ham"] != "1" {
		t.Errorf("unexpected summary: %v", summary)
	}

	if ttl := sink.client.TTL(ctx, sink.Key("ham")).Val(); ttl <= 0 {
		t.Errorf("expected TTL on ham list, got %v", ttl)
	}

	// Writing again replaces the lists
	if err := sink.Write(ctx, spam[:1], nil); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if n := sink.client.LLen(ctx, sink.Key("spam")).Val(); n != 1 {
		t.Errorf("expected 1 spam entry after rewrite, got %d", n)
	}
}

// Helper function to check if Redis is available
func isRedisAvailable() bool {
	client := redis.NewClient(&redis.Options{
		Addr: "localhost:6379",
		DB:   1,
	})
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	return client.Ping(ctx).Err() == nil
}
