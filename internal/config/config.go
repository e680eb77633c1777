// Package config defines service configuration structures and loading hooks.
package config

import (
	"fmt"
	"runtime"
	"time"
)

// Classifier providers.
const (
	ClassifierKeyword = "keyword"
	ClassifierOpenAI  = "openai"
)

// Embedding providers.
const (
	EmbeddingNone    = "none"
	EmbeddingVectors = "vectors"
	EmbeddingOpenAI  = "openai"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// AdvicePath and QuotesPath locate the CSV catalogs. Missing files fall
	// back to the built-in test dataset.
	AdvicePath string `koanf:"advice_path"`
	QuotesPath string `koanf:"quotes_path"`

	// WorkerCount sets the number of classifier workers shared by all requests.
	WorkerCount int `koanf:"worker_count"`

	// QueueSize bounds classification jobs waiting for a worker.
	QueueSize int `koanf:"queue_size"`

	// ClassifyConcurrency bounds in-flight classifications per extraction.
	ClassifyConcurrency int `koanf:"classify_concurrency"`

	// SimilarityConcurrency bounds parallel similarity calls per match.
	SimilarityConcurrency int `koanf:"similarity_concurrency"`

	// RandomSeed seeds advice and quote picks; 0 seeds from the clock.
	RandomSeed int64 `koanf:"random_seed"`

	// DefaultDueDays resolves mini-goals without a date when planning.
	DefaultDueDays int `koanf:"default_due_days"`

	Classifier ClassifierConfig `koanf:"classifier"`
	Embedding  EmbeddingConfig  `koanf:"embedding"`
}

// ClassifierConfig selects and configures the label classifier.
type ClassifierConfig struct {
	Provider  string   `koanf:"provider"`
	Model     string   `koanf:"model"`
	APIKey    string   `koanf:"api_key"`
	BaseURL   string   `koanf:"base_url"`
	TimeoutMS int      `koanf:"timeout_ms"`
	Labels    []string `koanf:"labels"`
}

// Timeout is the per-clause classification timeout.
func (c ClassifierConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutMS) * time.Millisecond
}

// EmbeddingConfig selects and configures the word-similarity capability.
type EmbeddingConfig struct {
	Provider    string `koanf:"provider"`
	VectorsPath string `koanf:"vectors_path"`
	Model       string `koanf:"model"`
	APIKey      string `koanf:"api_key"`
	BaseURL     string `koanf:"base_url"`
	CacheTTLSec int    `koanf:"cache_ttl_sec"`
}

// CacheTTL is how long fetched word vectors are memoized.
func (e EmbeddingConfig) CacheTTL() time.Duration {
	return time.Duration(e.CacheTTLSec) * time.Second
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:              "info",
		LogFormat:             "text",
		Addr:                  ":9080",
		AdvicePath:            "data/advice.csv",
		QuotesPath:            "data/quotes.csv",
		WorkerCount:           runtime.NumCPU() * 4,
		QueueSize:             1024,
		ClassifyConcurrency:   8,
		SimilarityConcurrency: runtime.NumCPU(),
		DefaultDueDays:        7,
		Classifier: ClassifierConfig{
			Provider:  ClassifierKeyword,
			TimeoutMS: 10_000,
		},
		Embedding: EmbeddingConfig{
			Provider:    EmbeddingNone,
			CacheTTLSec: 3600,
		},
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.DefaultDueDays <= 0:
		return fmt.Errorf("%w: default_due_days must be positive", ErrInvalidConfig)
	case c.Classifier.TimeoutMS <= 0:
		return fmt.Errorf("%w: classifier.timeout_ms must be positive", ErrInvalidConfig)
	}

	switch c.Classifier.Provider {
	case ClassifierKeyword:
	case ClassifierOpenAI:
		if c.Classifier.APIKey == "" {
			return fmt.Errorf("%w: classifier.api_key is required for openai", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown classifier provider %q", ErrInvalidConfig, c.Classifier.Provider)
	}

	switch c.Embedding.Provider {
	case EmbeddingNone:
	case EmbeddingVectors:
		if c.Embedding.VectorsPath == "" {
			return fmt.Errorf("%w: embedding.vectors_path is required for vectors", ErrInvalidConfig)
		}
	case EmbeddingOpenAI:
		if c.Embedding.APIKey == "" {
			return fmt.Errorf("%w: embedding.api_key is required for openai", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown embedding provider %q", ErrInvalidConfig, c.Embedding.Provider)
	}
	return nil
}
