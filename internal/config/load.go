package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the runtime configuration of the backend and CLI.
type Config struct {
	AI      AIConfig      `mapstructure:"ai"`
	Retry   RetryConfig   `mapstructure:"retry"`
	Server  ServerConfig  `mapstructure:"server"`
	Log     LogConfig     `mapstructure:"log"`
	Tracing TracingConfig `mapstructure:"tracing"`
}

type AIConfig struct {
	Provider          string  `mapstructure:"provider"` // gemini, openai, anthropic; empty infers from model
	Model             string  `mapstructure:"model"`
	BaseURL           string  `mapstructure:"base_url"`
	APIKey            string  `mapstructure:"api_key"`
	Temperature       float64 `mapstructure:"temperature"`
	MaxOutputTokens   int     `mapstructure:"max_output_tokens"`
	RequestsPerMinute int     `mapstructure:"requests_per_minute"`
	WebSearch         bool    `mapstructure:"web_search"`
}

type RetryConfig struct {
	MaxAttempts int           `mapstructure:"max_attempts"`
	BaseDelay   time.Duration `mapstructure:"base_delay"`
}

type ServerConfig struct {
	Host        string   `mapstructure:"host"`
	Port        int      `mapstructure:"port"`
	WebDir      string   `mapstructure:"web_dir"`
	CORSOrigins []string `mapstructure:"cors_origins"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type TracingConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// Addr is host:port for the HTTP listener.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// apiKeyFallbacks are read in order when ai.api_key is unset.
var apiKeyFallbacks = []string{"API_KEY", "GEMINI_API_KEY"}

// Load reads config.yaml from path when given, otherwise from ./config and
// the app config dir. A missing file is not an error. FRXAI_* environment
// variables override file values (ai.api_key is FRXAI_AI_API_KEY).
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		if dir, err := AppConfigDir(); err == nil {
			v.AddConfigPath(dir)
		}
	}

	v.SetEnvPrefix("FRXAI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if strings.TrimSpace(cfg.AI.APIKey) == "" {
		for _, name := range apiKeyFallbacks {
			if value := strings.TrimSpace(os.Getenv(name)); value != "" {
				cfg.AI.APIKey = value
				break
			}
		}
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	// Empty provider and model let the generator infer the provider and pick
	// its default model.
	v.SetDefault("ai.provider", "")
	v.SetDefault("ai.model", "")
	v.SetDefault("ai.base_url", "")
	v.SetDefault("ai.api_key", "")
	v.SetDefault("ai.temperature", 0.1)
	v.SetDefault("ai.max_output_tokens", 0)
	v.SetDefault("ai.requests_per_minute", 30)
	v.SetDefault("ai.web_search", true)

	v.SetDefault("retry.max_attempts", 3)
	v.SetDefault("retry.base_delay", 1500*time.Millisecond)

	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.web_dir", "")
	v.SetDefault("server.cors_origins", []string{"*"})

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("tracing.enabled", false)
}
