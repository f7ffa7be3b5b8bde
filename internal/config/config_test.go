package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

// setEnv sets an environment variable, ignoring errors (for test setup)
func setEnv(key, value string) {
	_ = os.Setenv(key, value)
}

// unsetEnv unsets an environment variable, ignoring errors (for test cleanup)
func unsetEnv(key string) {
	_ = os.Unsetenv(key)
}

var envVars = []string{
	"API_PORT", "DB_PATH", "LOG_LEVEL", "LOG_FORMAT", "CORS_ALLOWED_ORIGINS",
	"GITHUB_API_URL", "GITHUB_RAW_URL", "GITHUB_TOKEN",
	"LLM_PROVIDER", "LLM_BASE_URL", "LLM_API_KEY", "LLM_MODEL",
	"LLM_TEMPERATURE", "LLM_TOP_P", "LLM_MAX_TOKENS",
	"TOKEN_PROCESSING_CHARACTER_LIMIT", "TOKEN_PROCESSING_MAX_RETRIES", "TOKEN_PROCESSING_REDUCE_CHAR_PER_RETRY",
	"QUEUE_MAX_SIZE", "RATE_LIMIT_THRESHOLD", "ALLOWED_LANGUAGES", "FILTER_POLICY_PATH",
	"QDRANT_URL", "QDRANT_COLLECTION", "QDRANT_VECTOR_SIZE",
	"EMBEDDING_BASE_URL", "EMBEDDING_MODEL_NAME",
}

// isolateEnv clears every config variable for the duration of the test and
// moves into a temp directory so no .env file is picked up.
func isolateEnv(t *testing.T) {
	t.Helper()

	originalEnv := make(map[string]string)
	for _, key := range envVars {
		originalEnv[key] = os.Getenv(key)
		unsetEnv(key)
	}
	originalWd, _ := os.Getwd()
	_ = os.Chdir(t.TempDir())

	t.Cleanup(func() {
		_ = os.Chdir(originalWd)
		for key, value := range originalEnv {
			if value != "" {
				setEnv(key, value)
			} else {
				unsetEnv(key)
			}
		}
	})
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		setupEnv    func(*testing.T)
		wantErr     bool
		checkConfig func(*Config) bool
	}{
		{
			name: "default values for optional fields",
			setupEnv: func(t *testing.T) {
				setEnv("LLM_MODEL", "deepseek-chat")
			},
			checkConfig: func(cfg *Config) bool {
				return cfg.APIPort == "9000" &&
					cfg.DBPath == "./data/openrepowiki.db" &&
					cfg.LogLevel == slog.LevelInfo &&
					cfg.LogFormat == "text" &&
					cfg.GitHubAPIURL == "https://api.github.com" &&
					cfg.GitHubRawURL == "https://raw.githubusercontent.com" &&
					cfg.LLMProvider == "llamacpp" &&
					cfg.LLMBaseURL == "http://localhost:8080" &&
					cfg.LLMTemperature == 1.0 &&
					cfg.LLMTopP == 0.95 &&
					cfg.LLMMaxTokens == 8192 &&
					cfg.CharacterLimit == 250000 &&
					cfg.MaxRetries == 3 &&
					cfg.ReducePerRetry == 50000 &&
					cfg.QueueMaxSize == 25 &&
					cfg.RateLimitThreshold == 500 &&
					slices.Contains(cfg.AllowedLanguages, "Go") &&
					!cfg.SearchEnabled()
			},
		},
		{
			name:     "missing LLM_MODEL",
			setupEnv: func(t *testing.T) {},
			wantErr:  true,
		},
		{
			name: "custom values",
			setupEnv: func(t *testing.T) {
				setEnv("LLM_MODEL", "gpt-4o-mini")
				setEnv("LLM_PROVIDER", "OpenAI")
				setEnv("LOG_LEVEL", "debug")
				setEnv("LOG_FORMAT", "json")
				setEnv("GITHUB_API_URL", "http://github.local/")
				setEnv("TOKEN_PROCESSING_CHARACTER_LIMIT", "1000")
				setEnv("TOKEN_PROCESSING_REDUCE_CHAR_PER_RETRY", "100")
				setEnv("TOKEN_PROCESSING_MAX_RETRIES", "5")
				setEnv("ALLOWED_LANGUAGES", " Go, Rust ,,")
				setEnv("DB_PATH", filepath.Join(t.TempDir(), "custom", "db.db"))
			},
			checkConfig: func(cfg *Config) bool {
				return cfg.LLMProvider == "openai" &&
					cfg.LLMBaseURL == "https://api.openai.com/v1" &&
					cfg.LogLevel == slog.LevelDebug &&
					cfg.LogFormat == "json" &&
					cfg.GitHubAPIURL == "http://github.local" &&
					cfg.CharacterLimit == 1000 &&
					cfg.ReducePerRetry == 100 &&
					cfg.MaxRetries == 5 &&
					slices.Equal(cfg.AllowedLanguages, []string{"Go", "Rust"}) &&
					filepath.Base(cfg.DBPath) == "db.db"
			},
		},
		{
			name: "unsupported provider",
			setupEnv: func(t *testing.T) {
				setEnv("LLM_MODEL", "m")
				setEnv("LLM_PROVIDER", "anthropic")
			},
			wantErr: true,
		},
		{
			name: "invalid log level",
			setupEnv: func(t *testing.T) {
				setEnv("LLM_MODEL", "m")
				setEnv("LOG_LEVEL", "verbose")
			},
			wantErr: true,
		},
		{
			name: "invalid log format",
			setupEnv: func(t *testing.T) {
				setEnv("LLM_MODEL", "m")
				setEnv("LOG_FORMAT", "xml")
			},
			wantErr: true,
		},
		{
			name: "zero max retries",
			setupEnv: func(t *testing.T) {
				setEnv("LLM_MODEL", "m")
				setEnv("TOKEN_PROCESSING_MAX_RETRIES", "0")
			},
			wantErr: true,
		},
		{
			name: "reduction larger than limit",
			setupEnv: func(t *testing.T) {
				setEnv("LLM_MODEL", "m")
				setEnv("TOKEN_PROCESSING_CHARACTER_LIMIT", "100")
				setEnv("TOKEN_PROCESSING_REDUCE_CHAR_PER_RETRY", "200")
			},
			wantErr: true,
		},
		{
			name: "invalid queue size",
			setupEnv: func(t *testing.T) {
				setEnv("LLM_MODEL", "m")
				setEnv("QUEUE_MAX_SIZE", "many")
			},
			wantErr: true,
		},
		{
			name: "temperature out of range",
			setupEnv: func(t *testing.T) {
				setEnv("LLM_MODEL", "m")
				setEnv("LLM_TEMPERATURE", "2.5")
			},
			wantErr: true,
		},
		{
			name: "search enabled",
			setupEnv: func(t *testing.T) {
				setEnv("LLM_MODEL", "m")
				setEnv("QDRANT_URL", "http://localhost:6334")
				setEnv("QDRANT_VECTOR_SIZE", "768")
			},
			checkConfig: func(cfg *Config) bool {
				return cfg.SearchEnabled() &&
					cfg.QdrantVectorSize == 768 &&
					cfg.QdrantCollection == "summaries" &&
					cfg.EmbeddingModelName == "granite-embedding-278m-multilingual"
			},
		},
		{
			name: "search enabled without vector size",
			setupEnv: func(t *testing.T) {
				setEnv("LLM_MODEL", "m")
				setEnv("QDRANT_URL", "http://localhost:6334")
			},
			wantErr: true,
		},
		{
			name: "zero QDRANT_VECTOR_SIZE",
			setupEnv: func(t *testing.T) {
				setEnv("LLM_MODEL", "m")
				setEnv("QDRANT_URL", "http://localhost:6334")
				setEnv("QDRANT_VECTOR_SIZE", "0")
			},
			wantErr: true,
		},
		{
			name: "vector size ignored when search disabled",
			setupEnv: func(t *testing.T) {
				setEnv("LLM_MODEL", "m")
				setEnv("QDRANT_VECTOR_SIZE", "invalid")
			},
			checkConfig: func(cfg *Config) bool {
				return !cfg.SearchEnabled() && cfg.QdrantVectorSize == 0
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolateEnv(t)
			tt.setupEnv(t)

			cfg, err := Load()

			if tt.wantErr {
				if err == nil {
					t.Errorf("Load() expected error, got nil")
				}
				return
			}

			if err != nil {
				t.Errorf("Load() unexpected error: %v", err)
				return
			}

			if cfg == nil {
				t.Fatal("Load() returned nil config")
			}

			if tt.checkConfig != nil && !tt.checkConfig(cfg) {
				t.Errorf("Load() config validation failed: %+v", cfg)
			}
		})
	}
}

func TestLoad_CreatesDataDirectory(t *testing.T) {
	isolateEnv(t)

	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test", "db.db")

	setEnv("LLM_MODEL", "m")
	setEnv("DB_PATH", dbPath)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	dir := filepath.Dir(dbPath)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		t.Errorf("Load() should create data directory: %v", err)
	}

	if cfg.DBPath != dbPath {
		t.Errorf("Load() DBPath = %v, want %v", cfg.DBPath, dbPath)
	}
}

func TestGetEnv(t *testing.T) {
	originalValue := os.Getenv("TEST_ENV_VAR")
	defer func() {
		if originalValue != "" {
			setEnv("TEST_ENV_VAR", originalValue)
		} else {
			unsetEnv("TEST_ENV_VAR")
		}
	}()

	tests := []struct {
		name         string
		setupEnv     func()
		key          string
		defaultValue string
		want         string
	}{
		{
			name: "env var set",
			setupEnv: func() {
				setEnv("TEST_ENV_VAR", "set-value")
			},
			key:          "TEST_ENV_VAR",
			defaultValue: "default",
			want:         "set-value",
		},
		{
			name: "env var not set",
			setupEnv: func() {
				unsetEnv("TEST_ENV_VAR")
			},
			key:          "TEST_ENV_VAR",
			defaultValue: "default",
			want:         "default",
		},
		{
			name: "empty env var uses default",
			setupEnv: func() {
				setEnv("TEST_ENV_VAR", "")
			},
			key:          "TEST_ENV_VAR",
			defaultValue: "default",
			want:         "default",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupEnv()
			got := getEnv(tt.key, tt.defaultValue)
			if got != tt.want {
				t.Errorf("getEnv(%q, %q) = %q, want %q", tt.key, tt.defaultValue, got, tt.want)
			}
		})
	}
}

func TestSplitList(t *testing.T) {
	tests := []struct {
		raw  string
		want []string
	}{
		{"", nil},
		{"Go", []string{"Go"}},
		{"Go, C++ ,", []string{"Go", "C++"}},
	}
	for _, tt := range tests {
		if got := splitList(tt.raw); !slices.Equal(got, tt.want) {
			t.Errorf("splitList(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}
