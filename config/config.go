package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	ServerHost string
	ServerPort string

	// Database configuration
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Redis configuration (optional; caching and rate limiting are
	// disabled when Redis is not configured)
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	RedisURL      string
	RedisEnabled  bool

	// OpenAI-compatible provider configuration
	OpenAIAPIKey       string
	OpenAIBaseURL      string
	ChatModel          string
	EmbeddingModel     string
	EmbeddingDimension int

	// Vision configuration
	VisionMaxTokens   int
	VisionTemperature float64

	// Generation configuration
	RAGMaxTokens   int
	RAGTemperature float64
	SearchLimit    int

	// Startup corpus configuration
	LoadStartupData bool
	CorpusZipPath   string
	CorpusDir       string
	CorpusS3Bucket  string
	CorpusS3Prefix  string

	// Rate limiting
	RateLimitRequests int
	RateLimitWindow   int // seconds
}

// LoadConfig creates a new Config instance from environment variables,
// falling back to *_FILE secrets for sensitive values
func LoadConfig() (*Config, error) {
	cfg := &Config{
		ServerHost: getEnv("SERVER_HOST", "0.0.0.0"),
		ServerPort: getEnv("SERVER_PORT", "8080"),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnvOrSecret("DB_USER", "postgres"),
		DBPassword: getEnvOrSecret("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "whatsfordinner"),
		DBSSLMode:  getEnv("DB_SSL_MODE", "disable"),

		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnvOrSecret("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),
		RedisURL:      getEnv("REDIS_URL", ""),
		RedisEnabled:  getEnvBool("REDIS_ENABLED", true),

		OpenAIAPIKey:       getEnvOrSecret("OPENAI_API_KEY", ""),
		OpenAIBaseURL:      getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		ChatModel:          getEnv("OPENAI_CHAT_MODEL", "gpt-4o"),
		EmbeddingModel:     getEnv("OPENAI_EMBEDDING_MODEL", "text-embedding-3-small"),
		EmbeddingDimension: getEnvInt("EMBEDDING_DIMENSIONS", 1536),

		VisionMaxTokens:   getEnvInt("VISION_MAX_TOKENS", 500),
		VisionTemperature: getEnvFloat("VISION_TEMPERATURE", 0.3),

		RAGMaxTokens:   getEnvInt("RAG_MAX_TOKENS", 1000),
		RAGTemperature: getEnvFloat("RAG_TEMPERATURE", 0.7),
		SearchLimit:    getEnvInt("RECOMMENDATION_SEARCH_LIMIT", 3),

		LoadStartupData: getEnvBool("LOAD_STARTUP_DATA", true),
		CorpusZipPath:   getEnv("CORPUS_ZIP_PATH", "data.zip"),
		CorpusDir:       getEnv("CORPUS_DIR", "data/recipes"),
		CorpusS3Bucket:  getEnv("CORPUS_S3_BUCKET", ""),
		CorpusS3Prefix:  getEnv("CORPUS_S3_PREFIX", "recipes/"),

		RateLimitRequests: getEnvInt("RATE_LIMIT_REQUESTS", 30),
		RateLimitWindow:   getEnvInt("RATE_LIMIT_WINDOW_SECONDS", 60),
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// DSN returns the postgres connection string
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}

// RedisAddr returns the redis host:port address
func (c *Config) RedisAddr() string {
	return c.RedisHost + ":" + c.RedisPort
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// getEnvOrSecret reads KEY, then KEY_FILE (Docker secrets), then the fallback
func getEnvOrSecret(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	if path := os.Getenv(key + "_FILE"); path != "" {
		if data, err := os.ReadFile(path); err == nil {
			if v := strings.TrimSpace(string(data)); v != "" {
				return v
			}
		}
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
