package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	Redis    RedisConfig
	OpenAI   OpenAIConfig
	LLMProxy LLMProxyConfig
	Fetch    FetchConfig
	Pipeline PipelineConfig
	Cache    CacheConfig
	OTEL     OTELConfig
	Log      LogConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host           string
	Port           int
	AllowedOrigins []string

	// CompletionRateLimit caps completion proxy requests per client per minute.
	CompletionRateLimit int
	MaxBatchURLs        int
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

// OpenAIConfig holds OpenAI configuration
type OpenAIConfig struct {
	APIKey         string
	Model          string
	BaseURL        string
	Timeout        time.Duration
	RateLimitRPM   int
	RateLimitBurst int
}

// LLMProxyConfig holds the settings of the completion proxy endpoint the
// pipeline posts prompts to.
type LLMProxyConfig struct {
	// Provider selects the completion backend: "proxy", "openai" or "none".
	Provider string
	Endpoint string
	Timeout  time.Duration
}

// FetchConfig holds recipe page fetch configuration
type FetchConfig struct {
	Timeout      time.Duration
	UserAgent    string
	MaxBodyBytes int64
}

// PipelineConfig holds the extraction tuning parameters.
type PipelineConfig struct {
	MinConfidence       int     `yaml:"min_confidence"`
	MinVerification     int     `yaml:"min_verification"`
	WarnVerification    int     `yaml:"warn_verification"`
	StrongWarnBelow     int     `yaml:"strong_warn_below"`
	MinRegexIngredients int     `yaml:"min_regex_ingredients"`
	MinStrategyLines    int     `yaml:"min_strategy_lines"`
	MaxSectionGap       int     `yaml:"max_section_gap"`
	MaxCorpusChars      int     `yaml:"max_corpus_chars"`
	MaxConcurrency      int     `yaml:"max_concurrency"`
	BatchAcceptRate     float64 `yaml:"batch_accept_rate"`
	LLMFallbackEnabled  bool    `yaml:"llm_fallback_enabled"`
	VocabularyPath      string  `yaml:"vocabulary_path"`
}

// CacheConfig holds parse result cache configuration
type CacheConfig struct {
	Capacity int           `yaml:"capacity"`
	RedisTTL time.Duration `yaml:"redis_ttl"`

	// WarmURLs are parsed at startup, then every WarmInterval when it is
	// positive.
	WarmURLs     []string      `yaml:"warm_urls"`
	WarmInterval time.Duration `yaml:"warm_interval"`
}

// OTELConfig holds OpenTelemetry configuration
type OTELConfig struct {
	ServiceName    string
	ServiceVersion string
	Endpoint       string
	Enabled        bool
}

// LogConfig holds logging configuration
type LogConfig struct {
	Env   string
	Level string
}

// overlay is the subset of Config that may be overridden from a YAML file.
type overlay struct {
	Pipeline *PipelineConfig `yaml:"pipeline"`
	Cache    *CacheConfig    `yaml:"cache"`
}

// Load loads configuration from environment variables. When
// RECIPE_CONFIG_FILE is set, its pipeline and cache blocks override the
// environment values.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnvAsInt("SERVER_PORT", 8080),

			AllowedOrigins:      getEnvAsSlice("ALLOWED_ORIGINS", []string{"*"}),
			CompletionRateLimit: getEnvAsInt("COMPLETION_RATE_LIMIT", 30),
			MaxBatchURLs:        getEnvAsInt("MAX_BATCH_URLS", 20),
		},
		Redis: RedisConfig{
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvAsInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		OpenAI: OpenAIConfig{
			APIKey:         getEnv("OPENAI_API_KEY", ""),
			Model:          getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			BaseURL:        getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			Timeout:        getEnvAsDuration("OPENAI_TIMEOUT", 30*time.Second),
			RateLimitRPM:   getEnvAsInt("OPENAI_RATE_LIMIT_RPM", 60),
			RateLimitBurst: getEnvAsInt("OPENAI_RATE_LIMIT_BURST", 5),
		},
		LLMProxy: LLMProxyConfig{
			Provider: getEnv("LLM_PROVIDER", "proxy"),
			Endpoint: getEnv("LLM_PROXY_ENDPOINT", "http://localhost:8080/api/llm/complete"),
			Timeout:  getEnvAsDuration("LLM_PROXY_TIMEOUT", 45*time.Second),
		},
		Fetch: FetchConfig{
			Timeout:      getEnvAsDuration("FETCH_TIMEOUT", 30*time.Second),
			UserAgent:    getEnv("FETCH_USER_AGENT", "Mozilla/5.0 (compatible; grocerylist-recipe-parser/1.0)"),
			MaxBodyBytes: int64(getEnvAsInt("FETCH_MAX_BODY_BYTES", 5<<20)),
		},
		Pipeline: PipelineConfig{
			MinConfidence:       getEnvAsInt("PIPELINE_MIN_CONFIDENCE", 70),
			MinVerification:     getEnvAsInt("PIPELINE_MIN_VERIFICATION", 30),
			WarnVerification:    getEnvAsInt("PIPELINE_WARN_VERIFICATION", 80),
			StrongWarnBelow:     getEnvAsInt("PIPELINE_STRONG_WARN_VERIFICATION", 60),
			MinRegexIngredients: getEnvAsInt("PIPELINE_MIN_REGEX_INGREDIENTS", 3),
			MinStrategyLines:    getEnvAsInt("PIPELINE_MIN_STRATEGY_LINES", 2),
			MaxSectionGap:       getEnvAsInt("PIPELINE_MAX_SECTION_GAP", 40),
			MaxCorpusChars:      getEnvAsInt("PIPELINE_MAX_CORPUS_CHARS", 50000),
			MaxConcurrency:      getEnvAsInt("PIPELINE_MAX_CONCURRENCY", 0),
			BatchAcceptRate:     getEnvAsFloat("PIPELINE_BATCH_ACCEPT_RATE", 0.5),
			LLMFallbackEnabled:  getEnvAsBool("PIPELINE_LLM_FALLBACK", true),
			VocabularyPath:      getEnv("INGREDIENT_VOCAB_CONFIG", ""),
		},
		Cache: CacheConfig{
			Capacity: getEnvAsInt("CACHE_CAPACITY", 50),
			RedisTTL: getEnvAsDuration("CACHE_REDIS_TTL", 24*time.Hour),

			WarmURLs:     getEnvAsSlice("CACHE_WARM_URLS", nil),
			WarmInterval: getEnvAsDuration("CACHE_WARM_INTERVAL", 0),
		},
		OTEL: OTELConfig{
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "grocerylist-recipe-parser"),
			ServiceVersion: getEnv("OTEL_SERVICE_VERSION", "1.0.0"),
			Endpoint:       getEnv("OTEL_ENDPOINT", ""),
			Enabled:        getEnvAsBool("OTEL_ENABLED", false),
		},
		Log: LogConfig{
			Env:   getEnv("APP_ENV", "development"),
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	if path := os.Getenv("RECIPE_CONFIG_FILE"); path != "" {
		if err := cfg.applyOverlay(path); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

func (c *Config) applyOverlay(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	// Decode on top of the current values so omitted keys keep their defaults.
	ov := overlay{Pipeline: &c.Pipeline, Cache: &c.Cache}
	if err := yaml.Unmarshal(data, &ov); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	return nil
}

// RedisAddr returns the Redis address
func (c *RedisConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
