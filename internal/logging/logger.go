package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Config ログ設定（config パッケージの値をそのまま渡す）
type Config struct {
	Level  string
	Format string
}

// NewLogger level: debug|info|warn|error（不明な値は info）、format: json|text
func NewLogger(cfg Config, w io.Writer) *slog.Logger {
	if w == nil {
		w = os.Stdout
	}

	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}

	var h slog.Handler = slog.NewTextHandler(w, opts)
	if strings.EqualFold(cfg.Format, "json") {
		h = slog.NewJSONHandler(w, opts)
	}
	return slog.New(h)
}

// Setup デフォルトロガーを差し替える。log.Printf の出力も slog 経由になる
func Setup(cfg Config) *slog.Logger {
	logger := NewLogger(cfg, os.Stdout)
	slog.SetDefault(logger)
	return logger
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
