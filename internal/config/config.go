package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/nulzo/llm-translate/internal/provider"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig                   `mapstructure:"server"`
	Log       LogConfig                      `mapstructure:"log"`
	RateLimit RateLimitConfig                `mapstructure:"rate_limit"`
	Telemetry TelemetryConfig                `mapstructure:"telemetry"`
	Store     StoreConfig                    `mapstructure:"store"`
	Redis     RedisConfig                    `mapstructure:"redis"`
	HTTP      HTTPConfig                     `mapstructure:"http"`
	Defaults  DefaultsConfig                 `mapstructure:"defaults"`
	Providers map[provider.ID]ProviderConfig `mapstructure:"providers"`
}

type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Env            string   `mapstructure:"env"`
	APIKeys        []string `mapstructure:"api_keys"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
	File   string `mapstructure:"file"`
}

type RateLimitConfig struct {
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

type TelemetryConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	ServiceName string  `mapstructure:"service_name"`
	SampleRatio float64 `mapstructure:"sample_ratio"`
}

type StoreConfig struct {
	Driver string `mapstructure:"driver"` // memory, sqlite, redis
	DSN    string `mapstructure:"dsn"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Key      string `mapstructure:"key"`
}

// HTTPConfig controls the outbound client. A zero timeout means none.
type HTTPConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

// DefaultsConfig seeds the settings store on first start.
type DefaultsConfig struct {
	Provider       string `mapstructure:"provider"`
	TargetLanguage string `mapstructure:"target_language"`
	AutoTranslate  bool   `mapstructure:"auto_translate"`
}

// ProviderConfig carries deployment overrides and seed credentials for one provider.
type ProviderConfig struct {
	Endpoint     string `mapstructure:"endpoint"`
	DefaultModel string `mapstructure:"default_model"`
	APIKey       string `mapstructure:"api_key"`
	BaseURL      string `mapstructure:"base_url"`
	Model        string `mapstructure:"model"`
}

// Credentials returns the seed credentials declared in the config file.
func (c *Config) Credentials() provider.CredentialSet {
	out := make(provider.CredentialSet, len(c.Providers))
	for id, p := range c.Providers {
		if p.APIKey == "" && p.BaseURL == "" && p.Model == "" {
			continue
		}
		out[id] = provider.Credentials{APIKey: p.APIKey, BaseURL: p.BaseURL, Model: p.Model}
	}
	return out
}

// ProviderOptions converts the per-provider overrides into registry options.
func (c *Config) ProviderOptions() map[provider.ID]provider.Options {
	out := make(map[provider.ID]provider.Options, len(c.Providers))
	for id, p := range c.Providers {
		out[id] = provider.Options{Endpoint: p.Endpoint, DefaultModel: p.DefaultModel}
	}
	return out
}

// LoadConfig reads configuration from file or environment variables.
// path may be empty, in which case the usual search paths are used.
func LoadConfig(path string) (*Config, error) {
	// Load .env file if present
	_ = godotenv.Load()

	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("$HOME/.llm-translate")
	}

	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	if cfg.Providers == nil {
		cfg.Providers = make(map[provider.ID]ProviderConfig)
	}
	for id, p := range cfg.Providers {
		if !id.Valid() {
			return nil, fmt.Errorf("config: unknown provider %q", id)
		}
		p.APIKey = resolveSecret(v, p.APIKey)
		cfg.Providers[id] = p
	}
	cfg.Redis.Password = resolveSecret(v, cfg.Redis.Password)
	for i, k := range cfg.Server.APIKeys {
		cfg.Server.APIKeys[i] = resolveSecret(v, k)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.env", "development")
	v.SetDefault("server.allowed_origins", []string{"chrome-extension://*"})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.color", true)
	v.SetDefault("rate_limit.requests_per_second", 10.0)
	v.SetDefault("rate_limit.burst", 20)
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.service_name", "llm-translate")
	v.SetDefault("telemetry.sample_ratio", 1.0)
	v.SetDefault("store.driver", "memory")
	v.SetDefault("store.dsn", "llm-translate.db")
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.key", "llm-translate:settings")
	v.SetDefault("http.timeout", 0)
	v.SetDefault("defaults.provider", string(provider.Ollama))
	v.SetDefault("defaults.target_language", "ja")
	v.SetDefault("defaults.auto_translate", true)
}

func (c *Config) validate() error {
	switch c.Store.Driver {
	case "memory", "sqlite", "redis":
	default:
		return fmt.Errorf("config: unknown store driver %q", c.Store.Driver)
	}
	if !provider.ID(c.Defaults.Provider).Valid() {
		return fmt.Errorf("config: unknown default provider %q", c.Defaults.Provider)
	}
	if c.HTTP.Timeout < 0 {
		return fmt.Errorf("config: http.timeout must not be negative")
	}
	return nil
}

// resolveSecret expands "ENV:NAME" references.
func resolveSecret(v *viper.Viper, value string) string {
	if !strings.HasPrefix(value, "ENV:") {
		return value
	}
	envVar := strings.TrimPrefix(value, "ENV:")
	// Check process environment first (explicit override)
	val := os.Getenv(envVar)
	if val == "" {
		val = v.GetString(envVar)
	}
	return val
}
