package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents nbfilter configuration
type Config struct {
	// Training corpus location and format
	Corpus CorpusConfig `yaml:"corpus"`

	// Which input integer means spam
	Labels LabelsConfig `yaml:"labels"`

	// Tokenization settings
	Text TextConfig `yaml:"text"`

	// Performance settings
	Performance PerformanceConfig `yaml:"performance"`

	// Where classification results go
	Output OutputConfig `yaml:"output"`

	// Logging settings
	Logging LoggingConfig `yaml:"logging"`

	// Milter server settings
	Milter MilterConfig `yaml:"milter"`
}

// CorpusConfig describes the labeled training data and delimited input files
type CorpusConfig struct {
	TrainingFile string `yaml:"training_file"` // CSV of text,label rows
	SpamDir      string `yaml:"spam_dir"`      // directory of spam .eml files
	HamDir       string `yaml:"ham_dir"`       // directory of ham .eml files

	Encoding    string `yaml:"encoding"` // utf-8, latin1, windows-1252
	HasHeader   bool   `yaml:"has_header"`
	TextColumn  string `yaml:"text_column"`
	LabelColumn string `yaml:"label_column"`
	Delimiter   string `yaml:"delimiter"`
}

// LabelsConfig fixes the label polarity of input data
type LabelsConfig struct {
	SpamValue int `yaml:"spam_value"` // 0 or 1
}

// TextConfig contains normalization settings
type TextConfig struct {
	StopwordsFile    string `yaml:"stopwords_file"`
	BuiltinStopwords bool   `yaml:"builtin_stopwords"`
	Stemmer          string `yaml:"stemmer"` // english, none
	MinTokenLength   int    `yaml:"min_token_length"`
}

// PerformanceConfig contains performance tuning
type PerformanceConfig struct {
	Workers     int `yaml:"workers"`      // classification goroutines
	TrainShards int `yaml:"train_shards"` // parallel tally shards
}

// OutputConfig selects the result sink
type OutputConfig struct {
	// Backend selection: "file" or "redis"
	Backend string `yaml:"backend"`

	SpamFile string `yaml:"spam_file"`
	HamFile  string `yaml:"ham_file"`

	Redis RedisOutputConfig `yaml:"redis"`
}

// RedisOutputConfig contains Redis sink settings
type RedisOutputConfig struct {
	RedisURL    string `yaml:"redis_url"`
	KeyPrefix   string `yaml:"key_prefix"`
	DatabaseNum int    `yaml:"database_num"`
	TTL         string `yaml:"ttl"` // Duration string like "24h", empty = no expiry
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	File   string `yaml:"file"`   // log file path, empty = stderr
	Format string `yaml:"format"` // json, text
}

// MilterConfig contains milter server settings
type MilterConfig struct {
	Enabled bool `yaml:"enabled"`

	// Network and address for milter socket
	Network string `yaml:"network"` // "tcp" or "unix"
	Address string `yaml:"address"` // "127.0.0.1:7358" or "/tmp/nbfilter.sock"

	ReadTimeoutMs           int `yaml:"read_timeout_ms"`
	WriteTimeoutMs          int `yaml:"write_timeout_ms"`
	GracefulShutdownTimeout int `yaml:"graceful_shutdown_timeout_ms"`

	// Header modifications
	AddHeaders   bool   `yaml:"add_headers"`
	HeaderPrefix string `yaml:"header_prefix"`

	// Reject spam with 550 instead of only tagging it
	RejectSpam    bool   `yaml:"reject_spam"`
	RejectMessage string `yaml:"reject_message"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Corpus: CorpusConfig{
			Encoding:    "utf-8",
			HasHeader:   true,
			TextColumn:  "text",
			LabelColumn: "spam",
			Delimiter:   ",",
		},
		Labels: LabelsConfig{
			SpamValue: 1,
		},
		Text: TextConfig{
			StopwordsFile:    "",
			BuiltinStopwords: false,
			Stemmer:          "english",
			MinTokenLength:   2,
		},
		Performance: PerformanceConfig{
			Workers:     4,
			TrainShards: 1,
		},
		Output: OutputConfig{
			Backend:  "file",
			SpamFile: "list_of_spam_emails.txt",
			HamFile:  "list_of_ham_emails.txt",
			Redis: RedisOutputConfig{
				RedisURL:    "redis://localhost:6379",
				KeyPrefix:   "nbfilter:results",
				DatabaseNum: 0,
				TTL:         "",
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			File:   "",
			Format: "text",
		},
		Milter: MilterConfig{
			Enabled:                 false,
			Network:                 "tcp",
			Address:                 "127.0.0.1:7358",
			ReadTimeoutMs:           10000,
			WriteTimeoutMs:          10000,
			GracefulShutdownTimeout: 30000,
			AddHeaders:              true,
			HeaderPrefix:            "X-NB-",
			RejectSpam:              false,
			RejectMessage:           "",
		},
	}
}

// LoadConfig loads configuration from file
func LoadConfig(configPath string) (*Config, error) {
	// Start with defaults
	config := DefaultConfig()

	// If no config file specified, return defaults
	if configPath == "" {
		return config, nil
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return config, nil
}

// SaveConfig saves configuration to file
func (c *Config) SaveConfig(configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Labels.SpamValue != 0 && c.Labels.SpamValue != 1 {
		return fmt.Errorf("labels.spam_value must be 0 or 1")
	}

	if !contains([]string{"utf-8", "utf8", "latin1", "iso-8859-1", "windows-1252"}, c.Corpus.Encoding) {
		return fmt.Errorf("unsupported corpus encoding: %s", c.Corpus.Encoding)
	}

	if len([]rune(c.Corpus.Delimiter)) != 1 {
		return fmt.Errorf("corpus delimiter must be a single character")
	}

	if c.Corpus.HasHeader && (c.Corpus.TextColumn == "" || c.Corpus.LabelColumn == "") {
		return fmt.Errorf("text_column and label_column are required when has_header is set")
	}

	if !contains([]string{"english", "none"}, c.Text.Stemmer) {
		return fmt.Errorf("unknown stemmer: %s", c.Text.Stemmer)
	}

	if c.Text.MinTokenLength < 1 {
		return fmt.Errorf("min_token_length must be >= 1")
	}

	if c.Performance.Workers < 1 {
		return fmt.Errorf("workers must be >= 1")
	}

	if c.Performance.TrainShards < 1 {
		return fmt.Errorf("train_shards must be >= 1")
	}

	switch c.Output.Backend {
	case "file":
		if c.Output.SpamFile == "" || c.Output.HamFile == "" {
			return fmt.Errorf("spam_file and ham_file are required for the file backend")
		}
	case "redis":
		if c.Output.Redis.RedisURL == "" {
			return fmt.Errorf("redis_url is required for the redis backend")
		}
	default:
		return fmt.Errorf("unknown output backend: %s", c.Output.Backend)
	}

	if !contains([]string{"debug", "info", "warn", "error"}, c.Logging.Level) {
		return fmt.Errorf("invalid logging level: %s", c.Logging.Level)
	}

	if !contains([]string{"text", "json"}, c.Logging.Format) {
		return fmt.Errorf("invalid logging format: %s", c.Logging.Format)
	}

	if c.Milter.Enabled {
		if c.Milter.Network != "tcp" && c.Milter.Network != "unix" {
			return fmt.Errorf("milter network must be 'tcp' or 'unix'")
		}

		if c.Milter.Address == "" {
			return fmt.Errorf("milter address cannot be empty when enabled")
		}

		if c.Milter.ReadTimeoutMs < 1000 {
			return fmt.Errorf("milter read_timeout_ms must be >= 1000")
		}

		if c.Milter.WriteTimeoutMs < 1000 {
			return fmt.Errorf("milter write_timeout_ms must be >= 1000")
		}
	}

	return nil
}

func contains(values []string, v string) bool {
	for _, value := range values {
		if value == v {
			return true
		}
	}
	return false
}
