// Package logging builds the application's slog logger writing to a size-rotated file.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// AppTag is attached to every record
const AppTag = "YTD"

// Options configure the logger
type Options struct {
	File       string // rotating log file, empty disables the file
	Level      string // debug, info, warn or error
	MaxSizeKB  int
	MaxBackups int
	Stderr     bool // mirror records to stderr
}

// New returns a logger and a closer for the rotating file
func New(opts Options) (*slog.Logger, io.Closer, error) {
	var writers []io.Writer
	var closer io.Closer = nopCloser{}

	if opts.File != "" {
		if dir := filepath.Dir(opts.File); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, nil, fmt.Errorf("create log dir: %w", err)
			}
		}
		rotator := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    megabytes(opts.MaxSizeKB),
			MaxBackups: opts.MaxBackups,
		}
		writers = append(writers, rotator)
		closer = rotator
	}
	if opts.Stderr {
		writers = append(writers, os.Stderr)
	}
	if len(writers) == 0 {
		writers = append(writers, io.Discard)
	}

	handler := slog.NewTextHandler(io.MultiWriter(writers...), &slog.HandlerOptions{
		Level: ParseLevel(opts.Level),
	})
	return slog.New(handler).With("app", AppTag), closer, nil
}

// ParseLevel maps a level name onto slog levels, defaulting to info
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
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

// Banner logs the startup header: version, platform and directories
func Banner(logger *slog.Logger, name, version string) {
	wd, _ := os.Getwd()
	exe, _ := os.Executable()
	logger.Info("======================================")
	logger.Info("starting", "name", name, "version", version)
	logger.Info("platform", "os", runtime.GOOS, "arch", runtime.GOARCH, "go", runtime.Version())
	logger.Info("directories", "working", wd, "executable", filepath.Dir(exe))
	logger.Info("======================================")
}

// megabytes converts a KiB budget into lumberjack's MB unit, at least 1
func megabytes(kb int) int {
	mb := (kb + 1023) / 1024
	if mb < 1 {
		return 1
	}
	return mb
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
