package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	OTel      OTelConfig
	LLM       LLMConfig
	Pipeline  PipelineConfig
	Publisher PublisherConfig
	Env       string
	Port      string
	NodeID    int64
}

type OTelConfig struct {
	Endpoint       string
	Headers        string
	ServiceName    string
	ServiceVersion string
}

type LLMConfig struct {
	APIKey         string
	BaseURL        string
	Model          string
	Temperature    float64
	TimeoutSeconds int
	SiteURL        string // Optional: attribution headers for OpenRouter
	SiteName       string
}

type PipelineConfig struct {
	RequirementsMaxTokens int
	FieldsMaxTokens       int
	FieldsParallelism     int // 1 synthesizes entities strictly in order
}

type PublisherConfig struct {
	RedisURL    string
	RedisStream string
}

type ServiceType string

const (
	ServiceTypeServer ServiceType = "server"
	ServiceTypeCLI    ServiceType = "cli"
)

// Load loads configuration from environment variables.
// In development, it loads from service-specific .env files:
//   - .env.server for the API server
//   - .env.cli for the command line tool
//
// Falls back to .env if service-specific file doesn't exist.
func Load(serviceType ServiceType) (Config, error) {
	if getEnv("SPECFORGE_ENV", "development") == "development" {
		envFile := fmt.Sprintf(".env.%s", serviceType)
		if err := godotenv.Load(envFile); err != nil {
			_ = godotenv.Load(".env")
		}
	}

	cfg := Config{
		Env:    getEnv("SPECFORGE_ENV", "development"),
		Port:   getEnv("PORT", "3001"),
		NodeID: int64(getEnvInt("SNOWFLAKE_NODE_ID", 1)),
		OTel: OTelConfig{
			Endpoint:       getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
			Headers:        getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""),
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "specforge"),
			ServiceVersion: getEnv("OTEL_SERVICE_VERSION", "dev"),
		},
		LLM: LLMConfig{
			APIKey:         getEnv("LLM_API_KEY", ""),
			BaseURL:        getEnv("LLM_BASE_URL", "https://openrouter.ai/api/v1"),
			Model:          getEnv("LLM_MODEL", "anthropic/claude-3.5-sonnet"),
			Temperature:    getEnvFloat("LLM_TEMPERATURE", 0.3),
			TimeoutSeconds: getEnvInt("LLM_TIMEOUT_SECONDS", 30),
			SiteURL:        getEnv("LLM_SITE_URL", "http://localhost:5173"),
			SiteName:       getEnv("LLM_SITE_NAME", "Mini AI App Builder Portal"),
		},
		Pipeline: PipelineConfig{
			RequirementsMaxTokens: getEnvInt("LLM_REQUIREMENTS_MAX_TOKENS", 500),
			FieldsMaxTokens:       getEnvInt("LLM_FIELDS_MAX_TOKENS", 400),
			FieldsParallelism:     getEnvInt("PIPELINE_FIELDS_PARALLELISM", 1),
		},
		Publisher: PublisherConfig{
			RedisURL:    getEnv("REDIS_URL", ""),
			RedisStream: getEnv("REDIS_STREAM", "specforge_projects"),
		},
	}

	if cfg.NodeID < 0 || cfg.NodeID > 1023 {
		return Config{}, fmt.Errorf("SNOWFLAKE_NODE_ID must be between 0 and 1023, got %d", cfg.NodeID)
	}

	if cfg.Pipeline.FieldsParallelism < 1 {
		return Config{}, fmt.Errorf("PIPELINE_FIELDS_PARALLELISM must be at least 1, got %d", cfg.Pipeline.FieldsParallelism)
	}

	if cfg.LLM.Temperature < 0 || cfg.LLM.Temperature > 2 {
		return Config{}, fmt.Errorf("LLM_TEMPERATURE must be between 0 and 2, got %v", cfg.LLM.Temperature)
	}

	return cfg, nil
}

func (c Config) IsProduction() bool {
	return c.Env == "production"
}

func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

func (c OTelConfig) Enabled() bool {
	return c.Endpoint != ""
}

// Enabled reports whether the model gateway can be used. Without a key the
// pipeline runs entirely on the fallback engine.
func (c LLMConfig) Enabled() bool {
	return c.APIKey != ""
}

func (c PublisherConfig) Enabled() bool {
	return c.RedisURL != "" && c.RedisStream != ""
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return fallback
}
