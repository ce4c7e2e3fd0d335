package configfx

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	BackendAPI   = "api"
	BackendLocal = "local"
)

// Config holds the application configuration
type Config struct {
	ServiceName string `yaml:"service_name"`
	ListenAddr  string `yaml:"listen_addr"`
	MetricsAddr string `yaml:"metrics_addr"` // empty serves /metrics on ListenAddr
	LogLevel    string `yaml:"log_level"`
	OTLPEnabled bool   `yaml:"otlp_enabled"`

	// Backend selects how models run: "api" calls inference servers,
	// "local" uses deterministic in-process models.
	Backend        string        `yaml:"backend"`
	InferenceToken string        `yaml:"inference_token"`
	HTTPTimeout    time.Duration `yaml:"http_timeout"`

	SentenceURL       string `yaml:"sentence_url"`
	SentenceModel     string `yaml:"sentence_model"`
	SentenceDimension int    `yaml:"sentence_dimension"`

	TokenModelURL     string `yaml:"token_model_url"`
	BertModel         string `yaml:"bert_model"`
	BertHiddenSize    int    `yaml:"bert_hidden_size"`
	BertVocabPath     string `yaml:"bert_vocab_path"`
	MaxSequenceLength int    `yaml:"max_sequence_length"`

	Workers   int     `yaml:"workers"` // 0 picks a size from the CPU count
	QueueSize int     `yaml:"queue_size"`
	RateLimit float64 `yaml:"rate_limit"` // requests per second, 0 disables
	RateBurst int     `yaml:"rate_burst"`

	DBPath string `yaml:"db_path"` // empty keeps history in memory
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		ServiceName:       "textsim",
		ListenAddr:        ":8000",
		LogLevel:          "info",
		Backend:           BackendAPI,
		HTTPTimeout:       30 * time.Second,
		SentenceURL:       "http://localhost:8001/encode",
		SentenceModel:     "sentence-transformers/all-MiniLM-L6-v2",
		SentenceDimension: 384,
		TokenModelURL:     "http://localhost:8001/forward",
		BertModel:         "google/bert_uncased_L-4_H-512_A-8",
		BertHiddenSize:    512,
		MaxSequenceLength: 512,
		QueueSize:         64,
		RateBurst:         10,
	}
}

// Load applies, in order, defaults, the YAML file at path (if any), a .env
// file in the working directory and TEXTSIM_* environment variables.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	_ = godotenv.Load()

	cfg.ServiceName = getEnv("TEXTSIM_SERVICE_NAME", cfg.ServiceName)
	cfg.ListenAddr = getEnv("TEXTSIM_LISTEN_ADDR", cfg.ListenAddr)
	cfg.MetricsAddr = getEnv("TEXTSIM_METRICS_ADDR", cfg.MetricsAddr)
	cfg.LogLevel = getEnv("TEXTSIM_LOG_LEVEL", cfg.LogLevel)
	cfg.OTLPEnabled = getEnvBool("TEXTSIM_OTLP_ENABLED", cfg.OTLPEnabled)
	cfg.Backend = getEnv("TEXTSIM_BACKEND", cfg.Backend)
	cfg.InferenceToken = getEnv("TEXTSIM_INFERENCE_TOKEN", cfg.InferenceToken)
	cfg.HTTPTimeout = getEnvDuration("TEXTSIM_HTTP_TIMEOUT", cfg.HTTPTimeout)
	cfg.SentenceURL = getEnv("TEXTSIM_SENTENCE_URL", cfg.SentenceURL)
	cfg.SentenceModel = getEnv("TEXTSIM_SENTENCE_MODEL", cfg.SentenceModel)
	cfg.SentenceDimension = getEnvInt("TEXTSIM_SENTENCE_DIMENSION", cfg.SentenceDimension)
	cfg.TokenModelURL = getEnv("TEXTSIM_TOKEN_MODEL_URL", cfg.TokenModelURL)
	cfg.BertModel = getEnv("TEXTSIM_BERT_MODEL", cfg.BertModel)
	cfg.BertHiddenSize = getEnvInt("TEXTSIM_BERT_HIDDEN_SIZE", cfg.BertHiddenSize)
	cfg.BertVocabPath = getEnv("TEXTSIM_BERT_VOCAB", cfg.BertVocabPath)
	cfg.MaxSequenceLength = getEnvInt("TEXTSIM_MAX_SEQUENCE_LENGTH", cfg.MaxSequenceLength)
	cfg.Workers = getEnvInt("TEXTSIM_WORKERS", cfg.Workers)
	cfg.QueueSize = getEnvInt("TEXTSIM_QUEUE_SIZE", cfg.QueueSize)
	cfg.RateLimit = getEnvFloat("TEXTSIM_RATE_LIMIT", cfg.RateLimit)
	cfg.RateBurst = getEnvInt("TEXTSIM_RATE_BURST", cfg.RateBurst)
	cfg.DBPath = getEnv("TEXTSIM_DB", cfg.DBPath)

	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	switch c.Backend {
	case BackendAPI:
		if c.SentenceURL == "" {
			errs = append(errs, errors.New("sentence_url is required for the api backend"))
		}
		if c.TokenModelURL == "" {
			errs = append(errs, errors.New("token_model_url is required for the api backend"))
		}
		if c.BertVocabPath == "" {
			errs = append(errs, errors.New("bert_vocab_path is required for the api backend"))
		}
	case BackendLocal:
	default:
		errs = append(errs, fmt.Errorf("unknown backend %q (supported: api, local)", c.Backend))
	}
	if c.SentenceDimension <= 0 {
		errs = append(errs, errors.New("sentence_dimension must be positive"))
	}
	if c.BertHiddenSize <= 0 {
		errs = append(errs, errors.New("bert_hidden_size must be positive"))
	}
	if c.MaxSequenceLength < 2 {
		errs = append(errs, errors.New("max_sequence_length must leave room for [CLS] and [SEP]"))
	}
	if c.Workers < 0 || c.QueueSize < 0 {
		errs = append(errs, errors.New("workers and queue_size must not be negative"))
	}
	if c.RateLimit < 0 {
		errs = append(errs, errors.New("rate_limit must not be negative"))
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, fmt.Errorf("unknown log level %q", c.LogLevel))
	}
	return errors.Join(errs...)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
