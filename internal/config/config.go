package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	// DefaultTemperature is the sampling temperature sent with chat requests.
	DefaultTemperature = 0.7

	// DefaultMaxTokens bounds the length of a chat reply.
	DefaultMaxTokens = 500

	// DefaultChatTimeout bounds a single completion call.
	DefaultChatTimeout = 30 * time.Second
)

// Config holds all configuration for familyhub.
type Config struct {
	Chat    ChatConfig    `mapstructure:"chat"`
	Claude  ClaudeConfig  `mapstructure:"claude"`
	Seed    SeedConfig    `mapstructure:"seed"`
	Logging LoggingConfig `mapstructure:"logging"`
	API     APIConfig     `mapstructure:"api"`
}

// APIConfig holds HTTP API server settings.
type APIConfig struct {
	ListenAddr string `mapstructure:"listen_addr"`
}

// ChatConfig holds the chat assistant settings. Provider "claude" takes its
// credential and model from ClaudeConfig.
type ChatConfig struct {
	Provider         string        `mapstructure:"provider"`
	APIKey           string        `mapstructure:"api_key"`
	BaseURL          string        `mapstructure:"base_url"`
	Model            string        `mapstructure:"model"`
	Temperature      float64       `mapstructure:"temperature"`
	MaxTokens        int           `mapstructure:"max_tokens"`
	Timeout          time.Duration `mapstructure:"timeout"`
	FamilyName       string        `mapstructure:"family_name"`
	UpcomingEvents   int           `mapstructure:"upcoming_events"`
	StoryTokenBudget int           `mapstructure:"story_token_budget"`
}

// String returns a safe representation of ChatConfig with the API key masked.
func (c ChatConfig) String() string {
	return fmt.Sprintf("ChatConfig{Provider:%s, APIKey:%s, Model:%s, Timeout:%s}",
		c.Provider, maskAPIKey(c.APIKey), c.Model, c.Timeout)
}

// ClaudeConfig holds Anthropic Claude API settings.
type ClaudeConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

// String returns a safe representation of ClaudeConfig with the API key masked.
func (c ClaudeConfig) String() string {
	return fmt.Sprintf("ClaudeConfig{APIKey:%s, Model:%s}", maskAPIKey(c.APIKey), c.Model)
}

// maskAPIKey shows first 4 + last 4 chars, replacing the middle with asterisks.
func maskAPIKey(key string) string {
	const visible = 4
	if key == "" {
		return "<unset>"
	}
	if len(key) <= visible*2 {
		return "***"
	}
	return key[:visible] + "****" + key[len(key)-visible:]
}

// SeedConfig selects the dataset loaded at startup. An empty Path uses the
// dataset compiled into the binary.
type SeedConfig struct {
	Path string `mapstructure:"path"`
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

var logLevels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// SlogLevel maps Level to a slog level. Unknown values fall back to info;
// Validate rejects them.
func (l LoggingConfig) SlogLevel() slog.Level {
	if lvl, ok := logLevels[strings.ToLower(l.Level)]; ok {
		return lvl
	}
	return slog.LevelInfo
}

// Load reads configuration from file and environment variables.
// configFile, when non-empty, replaces the default search path.
func Load(configFile string) (*Config, error) {
	v := viper.New()

	v.SetDefault("chat.provider", "mistral")
	v.SetDefault("chat.api_key", "")
	v.SetDefault("chat.base_url", "")
	v.SetDefault("chat.model", "") // provider default
	v.SetDefault("chat.temperature", DefaultTemperature)
	v.SetDefault("chat.max_tokens", DefaultMaxTokens)
	v.SetDefault("chat.timeout", DefaultChatTimeout)
	v.SetDefault("chat.family_name", "SAAJ")
	v.SetDefault("chat.upcoming_events", 5)
	v.SetDefault("chat.story_token_budget", 0)

	v.SetDefault("claude.api_key", "")
	v.SetDefault("claude.model", "claude-haiku-4-5-20251001")

	v.SetDefault("seed.path", "")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")

	v.SetDefault("api.listen_addr", ":8080")

	// Config file
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(filepath.Join(homeDir(), ".familyhub"))
		v.AddConfigPath(".")
	}

	// Environment variables
	v.SetEnvPrefix("FAMILYHUB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Credentials are also read from the providers' conventional variables.
	_ = v.BindEnv("chat.api_key", "FAMILYHUB_CHAT_API_KEY", "MISTRAL_API_KEY")
	_ = v.BindEnv("claude.api_key", "FAMILYHUB_CLAUDE_API_KEY", "ANTHROPIC_API_KEY")
	_ = v.BindEnv("chat.provider", "FAMILYHUB_CHAT_PROVIDER")
	_ = v.BindEnv("chat.base_url", "FAMILYHUB_CHAT_BASE_URL")
	_ = v.BindEnv("seed.path", "FAMILYHUB_SEED_PATH")
	_ = v.BindEnv("api.listen_addr", "FAMILYHUB_API_LISTEN_ADDR")
	_ = v.BindEnv("logging.level", "FAMILYHUB_LOGGING_LEVEL")
	_ = v.BindEnv("logging.format", "FAMILYHUB_LOGGING_FORMAT")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || configFile != "" {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		// No config file: defaults + env vars.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// Validate checks that required configuration fields are set and consistent.
// A missing chat credential is not an error; chat then runs in fallback mode.
func (c *Config) Validate() error {
	switch c.Chat.Provider {
	case "mistral", "openai", "claude":
	default:
		return fmt.Errorf("chat.provider must be one of mistral, openai, claude (got %q)", c.Chat.Provider)
	}
	if c.Chat.Temperature < 0 || c.Chat.Temperature > 2 {
		return fmt.Errorf("chat.temperature must be between 0 and 2")
	}
	if c.Chat.MaxTokens <= 0 {
		return fmt.Errorf("chat.max_tokens must be greater than 0")
	}
	if c.Chat.Timeout <= 0 {
		return fmt.Errorf("chat.timeout must be greater than 0")
	}
	if c.Chat.UpcomingEvents < 0 {
		return fmt.Errorf("chat.upcoming_events must be >= 0")
	}
	if c.Chat.StoryTokenBudget < 0 {
		return fmt.Errorf("chat.story_token_budget must be >= 0")
	}
	if c.API.ListenAddr == "" {
		return fmt.Errorf("api.listen_addr must not be empty")
	}
	if _, ok := logLevels[strings.ToLower(c.Logging.Level)]; !ok {
		return fmt.Errorf("logging.level must be one of debug, info, warn, error (got %q)", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("logging.format must be text or json (got %q)", c.Logging.Format)
	}
	return nil
}

// ChatAPIKey returns the credential for the configured provider.
func (c *Config) ChatAPIKey() string {
	if c.Chat.Provider == "claude" {
		return c.Claude.APIKey
	}
	return c.Chat.APIKey
}

// ChatModel returns the model for the configured provider. Empty means the
// provider's default.
func (c *Config) ChatModel() string {
	if c.Chat.Provider == "claude" {
		return c.Claude.Model
	}
	return c.Chat.Model
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
