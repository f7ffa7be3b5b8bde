package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// DefaultAllowedLanguages are the primary repository languages accepted for ingestion
// when ALLOWED_LANGUAGES is not set. They mirror the file extensions the default tree
// filter keeps.
var DefaultAllowedLanguages = []string{
	"Python", "JavaScript", "TypeScript", "Java", "Scala", "C", "C++",
	"Go", "Ruby", "Rust", "PHP",
}

var defaultLLMBaseURLs = map[string]string{
	"llamacpp": "http://localhost:8080",
	"openai":   "https://api.openai.com/v1",
	"deepseek": "https://api.deepseek.com",
}

// Config holds all configuration for the application.
type Config struct {
	APIPort            string
	DBPath             string
	LogLevel           slog.Level
	LogFormat          string
	CORSAllowedOrigins []string

	GitHubAPIURL string
	GitHubRawURL string
	GitHubToken  string

	LLMProvider    string
	LLMBaseURL     string
	LLMAPIKey      string
	LLMModelName   string
	LLMTemperature float32
	LLMTopP        float32
	LLMMaxTokens   int

	// Truncate-and-retry budget shared by file and folder summarization.
	CharacterLimit int
	MaxRetries     int
	ReducePerRetry int

	QueueMaxSize       int
	RateLimitThreshold int
	AllowedLanguages   []string
	FilterPolicyPath   string

	// Summary search index. Disabled when QdrantURL is empty.
	QdrantURL          string
	QdrantCollection   string
	QdrantVectorSize   int
	EmbeddingBaseURL   string
	EmbeddingModelName string
}

// SearchEnabled reports whether the summary search index is configured.
func (c *Config) SearchEnabled() bool {
	return c.QdrantURL != ""
}

// Load reads configuration from environment variables and returns a Config struct.
// It applies defaults for optional fields and validates required fields.
// If a .env file exists in the current directory or one of its parents, it will be loaded automatically.
// Environment variables already set take precedence over .env file values.
func Load() (*Config, error) {
	_ = godotenv.Load()

	wd, err := os.Getwd()
	if err == nil {
		dir := wd
		for i := 0; i < 5; i++ {
			envPath := filepath.Join(dir, ".env")
			if _, err := os.Stat(envPath); err == nil {
				_ = godotenv.Load(envPath)
				break
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break
			}
			dir = parent
		}
	}

	cfg := &Config{
		APIPort:            getEnv("API_PORT", "9000"),
		DBPath:             getEnv("DB_PATH", "./data/openrepowiki.db"),
		LogFormat:          getEnv("LOG_FORMAT", "text"),
		CORSAllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000,https://openrepowiki.xyz")),
		GitHubAPIURL:       strings.TrimRight(getEnv("GITHUB_API_URL", "https://api.github.com"), "/"),
		GitHubRawURL:       strings.TrimRight(getEnv("GITHUB_RAW_URL", "https://raw.githubusercontent.com"), "/"),
		GitHubToken:        getEnv("GITHUB_TOKEN", ""),
		LLMProvider:        strings.ToLower(getEnv("LLM_PROVIDER", "llamacpp")),
		LLMAPIKey:          getEnv("LLM_API_KEY", "dummy-key"),
		LLMModelName:       getEnv("LLM_MODEL", ""),
		AllowedLanguages:   splitList(getEnv("ALLOWED_LANGUAGES", strings.Join(DefaultAllowedLanguages, ","))),
		FilterPolicyPath:   getEnv("FILTER_POLICY_PATH", ""),
		QdrantURL:          getEnv("QDRANT_URL", ""),
		QdrantCollection:   getEnv("QDRANT_COLLECTION", "summaries"),
		EmbeddingBaseURL:   getEnv("EMBEDDING_BASE_URL", "http://localhost:8081"),
		EmbeddingModelName: getEnv("EMBEDDING_MODEL_NAME", "granite-embedding-278m-multilingual"),
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(getEnv("LOG_LEVEL", "info"))); err != nil {
		return nil, fmt.Errorf("LOG_LEVEL is invalid: %w", err)
	}
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return nil, fmt.Errorf("LOG_FORMAT must be text or json, got %q", cfg.LogFormat)
	}

	defaultBaseURL, ok := defaultLLMBaseURLs[cfg.LLMProvider]
	if !ok {
		return nil, fmt.Errorf("LLM_PROVIDER %q is not supported (llamacpp, openai, deepseek)", cfg.LLMProvider)
	}
	cfg.LLMBaseURL = getEnv("LLM_BASE_URL", defaultBaseURL)
	if cfg.LLMModelName == "" {
		return nil, fmt.Errorf("LLM_MODEL is required")
	}

	temperature, err := getFloat("LLM_TEMPERATURE", 1.0)
	if err != nil {
		return nil, err
	}
	if temperature < 0 || temperature > 2 {
		return nil, fmt.Errorf("LLM_TEMPERATURE must be between 0.0 and 2.0")
	}
	cfg.LLMTemperature = temperature

	topP, err := getFloat("LLM_TOP_P", 0.95)
	if err != nil {
		return nil, err
	}
	if topP < 0 || topP > 1 {
		return nil, fmt.Errorf("LLM_TOP_P must be between 0.0 and 1.0")
	}
	cfg.LLMTopP = topP

	ints := []struct {
		key  string
		def  int
		min  int
		dest *int
	}{
		{"LLM_MAX_TOKENS", 8192, 1, &cfg.LLMMaxTokens},
		{"TOKEN_PROCESSING_CHARACTER_LIMIT", 250000, 1, &cfg.CharacterLimit},
		{"TOKEN_PROCESSING_MAX_RETRIES", 3, 1, &cfg.MaxRetries},
		{"TOKEN_PROCESSING_REDUCE_CHAR_PER_RETRY", 50000, 0, &cfg.ReducePerRetry},
		{"QUEUE_MAX_SIZE", 25, 1, &cfg.QueueMaxSize},
		{"RATE_LIMIT_THRESHOLD", 500, 0, &cfg.RateLimitThreshold},
	}
	for _, v := range ints {
		n, err := getInt(v.key, v.def)
		if err != nil {
			return nil, err
		}
		if n < v.min {
			return nil, fmt.Errorf("%s must be at least %d", v.key, v.min)
		}
		*v.dest = n
	}
	if cfg.CharacterLimit < cfg.ReducePerRetry {
		return nil, fmt.Errorf("TOKEN_PROCESSING_CHARACTER_LIMIT should be greater than TOKEN_PROCESSING_REDUCE_CHAR_PER_RETRY")
	}

	// The vector size must match the output of the embeddings model, so there is no default.
	if cfg.SearchEnabled() {
		vectorSizeStr := getEnv("QDRANT_VECTOR_SIZE", "")
		if vectorSizeStr == "" {
			return nil, fmt.Errorf("QDRANT_VECTOR_SIZE is required when QDRANT_URL is set")
		}
		vectorSize, err := strconv.Atoi(vectorSizeStr)
		if err != nil {
			return nil, fmt.Errorf("QDRANT_VECTOR_SIZE must be a valid integer: %w", err)
		}
		if vectorSize <= 0 {
			return nil, fmt.Errorf("QDRANT_VECTOR_SIZE must be greater than 0")
		}
		cfg.QdrantVectorSize = vectorSize
	}

	dataDir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	return cfg, nil
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) (int, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid integer: %w", key, err)
	}
	return n, nil
}

func getFloat(key string, defaultValue float32) (float32, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue, nil
	}
	f, err := strconv.ParseFloat(raw, 32)
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid number: %w", key, err)
	}
	return float32(f), nil
}

// splitList splits a comma-separated value, dropping empty items.
func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
