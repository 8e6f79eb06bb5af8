package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfigValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}

	if cfg.Labels.SpamValue != 1 {
		t.Errorf("Expected spam value 1, got %d", cfg.Labels.SpamValue)
	}
	if cfg.Output.SpamFile != "list_of_spam_emails.txt" {
		t.Errorf("unexpected default spam file: %s", cfg.Output.SpamFile)
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nbfilter.yaml")

	data := `
corpus:
  training_file: data/spam.csv
  encoding: latin1
  label_column: label
labels:
  spam_value: 0
text:
  builtin_stopwords: true
performance:
  workers: 8
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Corpus.TrainingFile != "data/spam.csv" {
		t.Errorf("training_file = %s", cfg.Corpus.TrainingFile)
	}
	if cfg.Corpus.Encoding != "latin1" {
		t.Errorf("encoding = %s", cfg.Corpus.Encoding)
	}
	if cfg.Labels.SpamValue != 0 {
		t.Errorf("spam_value = %d", cfg.Labels.SpamValue)
	}
	if !cfg.Text.BuiltinStopwords {
		t.Error("builtin_stopwords not loaded")
	}
	if cfg.Performance.Workers != 8 {
		t.Errorf("workers = %d", cfg.Performance.Workers)
	}

	// Untouched sections keep defaults
	if cfg.Corpus.TextColumn != "text" {
		t.Errorf("text_column default lost: %s", cfg.Corpus.TextColumn)
	}
	if cfg.Text.Stemmer != "english" {
		t.Errorf("stemmer default lost: %s", cfg.Text.Stemmer)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Expected error for missing config file")
	}
}

func TestLoadConfigEmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig(\"\") failed: %v", err)
	}
	if cfg.Performance.Workers != DefaultConfig().Performance.Workers {
		t.Error("empty path should return defaults")
	}
}

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.Output.Backend = "redis"
	cfg.Output.Redis.KeyPrefix = "test:results"
	if err := cfg.SaveConfig(path); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if loaded.Output.Backend != "redis" || loaded.Output.Redis.KeyPrefix != "test:results" {
		t.Errorf("round trip lost output settings: %+v", loaded.Output)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"Bad spam value", func(c *Config) { c.Labels.SpamValue = 2 }},
		{"Bad encoding", func(c *Config) { c.Corpus.Encoding = "ebcdic" }},
		{"Bad delimiter", func(c *Config) { c.Corpus.Delimiter = ";;" }},
		{"Bad stemmer", func(c *Config) { c.Text.Stemmer = "lancaster" }},
		{"Zero token length", func(c *Config) { c.Text.MinTokenLength = 0 }},
		{"Zero workers", func(c *Config) { c.Performance.Workers = 0 }},
		{"Zero shards", func(c *Config) { c.Performance.TrainShards = 0 }},
		{"Unknown backend", func(c *Config) { c.Output.Backend = "s3" }},
		{"Missing spam file", func(c *Config) { c.Output.SpamFile = "" }},
		{"Bad log level", func(c *Config) { c.Logging.Level = "verbose" }},
		{"Bad log format", func(c *Config) { c.Logging.Format = "xml" }},
		{"Bad milter network", func(c *Config) {
			c.Milter.Enabled = true
			c.Milter.Network = "udp"
		}},
		{"Empty milter address", func(c *Config) {
			c.Milter.Enabled = true
			c.Milter.Address = ""
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Expected validation error")
			}
		})
	}
}
