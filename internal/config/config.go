package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/viper"
)

// Config 起動時に一度だけ読み込む設定
type Config struct {
	// 未設定は正常な状態（分析機能のみ無効）
	GeminiAPIKey  string `mapstructure:"gemini_api_key"`
	GeminiModel   string `mapstructure:"gemini_model"`
	GeminiBaseURL string `mapstructure:"gemini_base_url"`

	Port      string `mapstructure:"port"`
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`

	MaxUploadBytes int64   `mapstructure:"max_upload_bytes"`
	RateLimitRPS   float64 `mapstructure:"rate_limit_rps"`
	RateLimitBurst int     `mapstructure:"rate_limit_burst"`

	// 0 の場合はタイムアウトを設定しない（トランスポートのデフォルトに任せる）
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

type CredentialStatus string

const (
	CredentialPresent CredentialStatus = "present"
	CredentialAbsent  CredentialStatus = "absent"
)

func (c *Config) CredentialStatus() CredentialStatus {
	if c.GeminiAPIKey == "" {
		return CredentialAbsent
	}
	return CredentialPresent
}

// Options 読み込み元。空文字列のファイルは読まない
type Options struct {
	// dotenv形式（ローカル開発用）。存在しなければ無視
	EnvFile string
	// yaml等。指定した場合は存在しなければエラー
	ConfigFile string
}

func DefaultOptions() Options {
	return Options{
		EnvFile:    ".env",
		ConfigFile: os.Getenv("CONFIG_FILE"),
	}
}

var defaults = map[string]any{
	"gemini_api_key":   "",
	"gemini_model":     "gemini-2.5-flash",
	"gemini_base_url":  "",
	"port":             "8080",
	"log_level":        "info",
	"log_format":       "text",
	"max_upload_bytes": 10 * 1024 * 1024,
	"rate_limit_rps":   0,
	"rate_limit_burst": 1,
	"request_timeout":  "0s",
}

// Load 優先順位: 環境変数 > .env > 設定ファイル > デフォルト
func Load(opts Options) (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %q: %w", opts.ConfigFile, err)
		}
	}

	if opts.EnvFile != "" {
		if err := mergeEnvFile(v, opts.EnvFile); err != nil {
			return nil, err
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	if config.CredentialStatus() == CredentialAbsent {
		slog.Warn("GEMINI_API_KEY is not configured; AI analysis will be unavailable")
	}

	return &config, nil
}

func mergeEnvFile(v *viper.Viper, path string) error {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	envViper := viper.New()
	envViper.SetConfigFile(path)
	envViper.SetConfigType("env")
	if err := envViper.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read env file %q: %w", path, err)
	}

	if err := v.MergeConfigMap(envViper.AllSettings()); err != nil {
		return fmt.Errorf("failed to merge env file %q: %w", path, err)
	}
	return nil
}

func (c *Config) validate() error {
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("max_upload_bytes must be positive, got %d", c.MaxUploadBytes)
	}
	if c.RateLimitRPS < 0 {
		return fmt.Errorf("rate_limit_rps must not be negative, got %v", c.RateLimitRPS)
	}
	if c.RateLimitRPS > 0 && c.RateLimitBurst < 1 {
		return fmt.Errorf("rate_limit_burst must be at least 1, got %d", c.RateLimitBurst)
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("request_timeout must not be negative, got %s", c.RequestTimeout)
	}
	if c.Port == "" {
		return fmt.Errorf("port must not be empty")
	}
	return nil
}
