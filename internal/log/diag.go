package log

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/grove-dev/grove/internal/config"
)

// NewDiagnostic builds the diagnostic logger. Output goes to a rotating file
// because stdout belongs to the player; an empty cfg.File discards everything.
// The returned close func flushes and closes the file.
func NewDiagnostic(projectDir string, cfg config.LogConfig) (*slog.Logger, func() error) {
	if cfg.File == "" {
		return slog.New(slog.DiscardHandler), func() error { return nil }
	}

	path := config.Resolve(projectDir, cfg.File)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return slog.New(slog.DiscardHandler), func() error { return nil }
	}

	file := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
	}
	handler := slog.NewTextHandler(file, &slog.HandlerOptions{Level: ParseLevel(cfg.Level)})
	return slog.New(handler), file.Close
}

// ParseLevel converts a level name to a slog.Level, defaulting to INFO.
func ParseLevel(level string) slog.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARNING", "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
