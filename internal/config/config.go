package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Server
	Port int
	Env  string

	// CORS
	AllowedOrigins []string

	// Database URLs
	PostgresURL   string
	ClickHouseURL string
	RedisURL      string

	// Vector index (Qdrant)
	QdrantURL        string
	QdrantCollection string
	VectorSize       int

	// Providers
	AnthropicAPIKey string
	AnthropicModel  string
	OpenAIAPIKey    string
	EmbeddingModel  string

	// Pipeline
	RetrievalLimit      int
	RetrievalThreshold  float64
	FreshnessWindow     time.Duration
	BatchInterCallDelay time.Duration
	EmbeddingTimeout    time.Duration
	RetrievalTimeout    time.Duration
	ReasoningTimeout    time.Duration

	// Ingest worker pool
	WorkerCount   int
	QueueSize     int
	BatchSize     int
	FlushInterval time.Duration
}

// Load loads configuration from environment variables.
// It returns an error if critical configuration is missing.
func Load() (*Config, error) {
	cfg := &Config{
		Port: getEnvInt("PORT", 8080),
		Env:  getEnv("ENV", "development"),

		QdrantCollection: getEnv("QDRANT_COLLECTION", "game_performances"),
		VectorSize:       getEnvInt("VECTOR_SIZE", 3072),

		AnthropicModel: getEnv("ANTHROPIC_MODEL", "claude-sonnet-4-5-20250929"),
		EmbeddingModel: getEnv("EMBEDDING_MODEL", "text-embedding-3-large"),

		RetrievalLimit:      getEnvInt("RETRIEVAL_LIMIT", 10),
		RetrievalThreshold:  getEnvFloat("RETRIEVAL_THRESHOLD", 0.7),
		FreshnessWindow:     getEnvDuration("FRESHNESS_WINDOW", 24*time.Hour),
		BatchInterCallDelay: getEnvDuration("BATCH_INTER_CALL_DELAY", 500*time.Millisecond),
		EmbeddingTimeout:    getEnvDuration("EMBEDDING_TIMEOUT", 10*time.Second),
		RetrievalTimeout:    getEnvDuration("RETRIEVAL_TIMEOUT", 10*time.Second),
		ReasoningTimeout:    getEnvDuration("REASONING_TIMEOUT", 60*time.Second),

		WorkerCount:   getEnvInt("WORKER_COUNT", 4),
		QueueSize:     getEnvInt("QUEUE_SIZE", 5000),
		BatchSize:     getEnvInt("BATCH_SIZE", 200),
		FlushInterval: getEnvDuration("FLUSH_INTERVAL", 2*time.Second),
	}

	// CORS
	origins := getEnv("ALLOWED_ORIGINS", "http://localhost:3000")
	rawOrigins := strings.Split(origins, ",")
	for _, o := range rawOrigins {
		if trimmed := strings.TrimSpace(o); trimmed != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, trimmed)
		}
	}

	// Critical configuration - fail if missing
	var err error
	if cfg.PostgresURL, err = getEnvRequired("POSTGRES_URL"); err != nil {
		return nil, err
	}
	if cfg.ClickHouseURL, err = getEnvRequired("CLICKHOUSE_URL"); err != nil {
		return nil, err
	}
	if cfg.RedisURL, err = getEnvRequired("REDIS_URL"); err != nil {
		return nil, err
	}
	if cfg.QdrantURL, err = getEnvRequired("QDRANT_URL"); err != nil {
		return nil, err
	}
	if cfg.AnthropicAPIKey, err = getEnvRequired("ANTHROPIC_API_KEY"); err != nil {
		return nil, err
	}
	if cfg.OpenAIAPIKey, err = getEnvRequired("OPENAI_API_KEY"); err != nil {
		return nil, err
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvRequired(key string) (string, error) {
	if value := os.Getenv(key); value != "" {
		return value, nil
	}
	return "", fmt.Errorf("missing required environment variable: %s", key)
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
