// Package config loads application configuration from a YAML file and
// environment variables.
package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	internal "github.com/loanworks-dev/lpchat/lpchat"
)

// Config stores all configuration of the application.
// The values are read by viper from a config file or environment variables.
type Config struct {
	App        AppConfig        `mapstructure:"app"`
	Completion CompletionConfig `mapstructure:"completion"`
	Retrieval  RetrievalConfig  `mapstructure:"retrieval"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Chat       ChatConfig       `mapstructure:"chat"`
	Retention  RetentionConfig  `mapstructure:"retention"`
	Log        LogConfig        `mapstructure:"log"`
}

// AppConfig identifies this deployment in the message log.
type AppConfig struct {
	Name string `mapstructure:"name"`
}

// CompletionConfig stores Azure OpenAI connection details. Endpoint and key
// are environment-supplied in any real deployment.
type CompletionConfig struct {
	Endpoint   string `mapstructure:"endpoint"`
	APIKey     string `mapstructure:"api_key"`
	Deployment string `mapstructure:"deployment"`
	APIVersion string `mapstructure:"api_version"`
}

// RetrievalConfig stores the ChromaDB search service location.
type RetrievalConfig struct {
	Host       string `mapstructure:"host"` // includes scheme, e.g. http://localhost
	Port       int    `mapstructure:"port"`
	Collection string `mapstructure:"collection"`
	Results    int    `mapstructure:"results"` // hits per query
}

// DatabaseConfig stores the embedded libsql database location.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// ChatConfig stores conversation/session tuning.
type ChatConfig struct {
	HistoryWindow int     `mapstructure:"history_window"` // turns kept in memory
	Temperature   float32 `mapstructure:"temperature"`
	MaxTokens     int     `mapstructure:"max_tokens"`
}

// RetentionConfig stores the message-log retention policy.
type RetentionConfig struct {
	MaxAge       time.Duration `mapstructure:"max_age"`
	Interval     time.Duration `mapstructure:"interval"`
	ErrorBackoff time.Duration `mapstructure:"error_backoff"`
}

// LogConfig stores operational logging settings. Diagnostics never reach the
// console; it is reserved for conversational I/O.
type LogConfig struct {
	Path  string `mapstructure:"path"`
	Level string `mapstructure:"level"`
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath(filepath.Join("etc", internal.DefaultAppName))
		v.AddConfigPath(internal.DefaultConfigPath)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetDefault("app.name", internal.DefaultAppName)

	v.SetDefault("completion.endpoint", "")
	v.SetDefault("completion.api_key", "")
	v.SetDefault("completion.deployment", "")
	v.SetDefault("completion.api_version", "2024-02-15-preview")

	v.SetDefault("retrieval.host", "http://localhost")
	v.SetDefault("retrieval.port", 8000)
	v.SetDefault("retrieval.collection", "loandocuments")
	v.SetDefault("retrieval.results", 3)

	v.SetDefault("database.path", internal.DefaultDatabasePath)

	v.SetDefault("chat.history_window", 20)
	v.SetDefault("chat.temperature", 0.7)
	v.SetDefault("chat.max_tokens", 800)

	v.SetDefault("retention.max_age", 7*24*time.Hour)
	v.SetDefault("retention.interval", 24*time.Hour)
	v.SetDefault("retention.error_backoff", time.Hour)

	v.SetDefault("log.path", internal.DefaultLogPath)
	v.SetDefault("log.level", "info")

	v.SetEnvPrefix(strings.ToUpper(internal.DefaultAppName))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Secrets keep the env names the deployment already uses.
	bindEnvs := map[string]string{
		"completion.endpoint":   "AZURE_OPENAI_ENDPOINT",
		"completion.api_key":    "AZURE_OPENAI_KEY",
		"completion.deployment": "AZURE_OPENAI_DEPLOYMENT_NAME",
		"retrieval.host":        "CHROMA_SERVICE_HOST",
		"retrieval.port":        "CHROMA_SERVICE_PORT",
	}
	for key, env := range bindEnvs {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("bind %s: %w", env, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		// Running on pure defaults/env is fine; a malformed file is not.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return &cfg, nil
}
