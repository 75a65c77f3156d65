// Package logging builds the application zerolog logger writing JSON to a rotating file
// and, optionally, human-readable lines to the console.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Config struct {
	Dir        string
	Level      string
	Console    bool
	MaxSizeMB  int
	MaxBackups int
	// Console output goes here instead of stderr when set.
	Out io.Writer
}

type Logger struct {
	zerolog.Logger
	file *lumberjack.Logger
}

func ParseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

func New(cfg Config) (*Logger, error) {
	var writers []io.Writer
	var file *lumberjack.Logger
	if cfg.Dir != "" {
		if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
			return nil, fmt.Errorf("make log dir: %w", err)
		}
		file = &lumberjack.Logger{
			Filename:   filepath.Join(cfg.Dir, "localtranslate.log"),
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			Compress:   true,
		}
		writers = append(writers, file)
	}
	if cfg.Console {
		out := cfg.Out
		if out == nil {
			out = os.Stderr
		}
		writers = append(writers, zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05"})
	}
	if len(writers) == 0 {
		writers = append(writers, io.Discard)
	}

	zl := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(ParseLevel(cfg.Level)).
		With().
		Timestamp().
		Str("app", "localtranslate").
		Logger()
	return &Logger{Logger: zl, file: file}, nil
}

// Component returns a child logger tagged with name.
func (l *Logger) Component(name string) zerolog.Logger {
	return l.With().Str("component", name).Logger()
}

func (l *Logger) Close() error {
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}
