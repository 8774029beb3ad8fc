package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// PricingInfo holds cost details per token for a specific model.
type PricingInfo struct {
	InputPerToken  float64 `mapstructure:"input_per_token"`
	OutputPerToken float64 `mapstructure:"output_per_token"`
}

type Config struct {
	Log struct {
		Level string `mapstructure:"level"`
	} `mapstructure:"log"`

	Database struct {
		// Driver is "postgres" or "sqlite".
		Driver string `mapstructure:"driver"`
		DSN    string `mapstructure:"dsn"`
	} `mapstructure:"database"`

	Server struct {
		Addr      string `mapstructure:"addr"`
		SecretKey string `mapstructure:"secret_key"`
		// SessionTTL bounds the lifetime of issued session tokens.
		SessionTTL time.Duration `mapstructure:"session_ttl"`
	} `mapstructure:"server"`

	YouTube struct {
		APIKey  string        `mapstructure:"api_key"`
		BaseURL string        `mapstructure:"base_url"` // override for tests and proxies
		Timeout time.Duration `mapstructure:"timeout"`
		// RequestsPerSecond paces Data API calls; 0 disables pacing.
		RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	} `mapstructure:"youtube"`

	Categorization struct {
		Provider        string        `mapstructure:"provider"` // "openai" or "gemini"
		Model           string        `mapstructure:"model"`
		BaseURL         string        `mapstructure:"base_url"` // OpenAI-compatible endpoint
		OpenaiApiKey    string        `mapstructure:"openai_api_key"`
		GoogleApiKey    string        `mapstructure:"google_api_key"`
		PromptTemplate  string        `mapstructure:"prompt_template"` // optional system prompt file
		PageSize        int           `mapstructure:"page_size"`
		Concurrency     int           `mapstructure:"concurrency"`
		ClassifyTimeout time.Duration `mapstructure:"classify_timeout"`
	} `mapstructure:"categorization"`

	// Pricing: map[provider][model] = struct{input_per_token, output_per_token}
	Pricing map[string]map[string]PricingInfo `mapstructure:"pricing"`
}

// Defaults applied before the config file and environment are read.
const (
	DefaultProvider      = "openai"
	DefaultModel         = "llama3-8b-8192"
	DefaultBaseURL       = "https://api.groq.com/openai/v1"
	DefaultPageSize      = 10
	DefaultCallTimeout   = 10 * time.Second
	DefaultServerAddr    = "localhost:8080"
	DefaultSessionTTL    = 24 * time.Hour
	DefaultDatabaseDrv   = "sqlite"
	DefaultDatabaseDSN   = "tubesort.db"
	DefaultYouTubeRPS    = 5
	defaultConfigName    = "config"
	defaultDotEnvFile    = ".env"
	environmentKeyPrefix = "TUBESORT"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("database.driver", DefaultDatabaseDrv)
	v.SetDefault("database.dsn", DefaultDatabaseDSN)
	v.SetDefault("server.addr", DefaultServerAddr)
	v.SetDefault("server.session_ttl", DefaultSessionTTL)
	v.SetDefault("youtube.timeout", DefaultCallTimeout)
	v.SetDefault("youtube.requests_per_second", DefaultYouTubeRPS)
	v.SetDefault("categorization.provider", DefaultProvider)
	v.SetDefault("categorization.model", DefaultModel)
	v.SetDefault("categorization.base_url", DefaultBaseURL)
	v.SetDefault("categorization.page_size", DefaultPageSize)
	v.SetDefault("categorization.concurrency", 1)
	v.SetDefault("categorization.classify_timeout", DefaultCallTimeout)
}

// LoadConfig reads config.yaml from the working directory (optional), a .env
// file (optional) and the environment. Environment variables win.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(defaultDotEnvFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("error reading %s: %w", defaultDotEnvFile, err)
	}

	v := viper.New()
	v.SetConfigName(defaultConfigName)
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	setDefaults(v)

	// TUBESORT_CATEGORIZATION_MODEL -> categorization.model
	v.SetEnvPrefix(environmentKeyPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Well-known variable names used by the hosted deployment. The prefixed
	// name still wins when both are set.
	bindEnvAliases(v, "youtube.api_key", "YOUTUBE_API_KEY")
	bindEnvAliases(v, "categorization.openai_api_key", "GROQ_API_KEY", "OPENAI_API_KEY")
	bindEnvAliases(v, "categorization.google_api_key", "GEMINI_API_KEY")
	bindEnvAliases(v, "database.dsn", "DATABASE_URL")
	bindEnvAliases(v, "server.secret_key", "SECRET_KEY")

	if err := v.ReadInConfig(); err != nil {
		// It's okay if the config file doesn't exist; defaults and env vars still apply.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error decoding config: %w", err)
	}
	return &cfg, nil
}

// bindEnvAliases binds key to TUBESORT_<KEY> followed by aliases. An explicit
// BindEnv replaces the AutomaticEnv lookup for that key, so the prefixed name
// has to be listed again.
func bindEnvAliases(v *viper.Viper, key string, aliases ...string) {
	prefixed := environmentKeyPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
	v.BindEnv(append([]string{key, prefixed}, aliases...)...)
}
