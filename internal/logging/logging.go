package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	serviceName          = "frxai"
	defaultRetentionDays = 7
)

const (
	envLogLevel  = "FRXAI_LOG_LEVEL"
	envLogFormat = "FRXAI_LOG_FORMAT"
)

// DailyWriter writes logs into frxai-YYYYMMDD.log files and prunes files
// older than the retention window.
type DailyWriter struct {
	dir           string
	prefix        string
	retentionDays int
	mu            sync.Mutex
	currentDate   string
	file          *os.File
}

// NewDailyWriter creates a daily rotating writer in dir.
func NewDailyWriter(dir string, retentionDays int) (*DailyWriter, error) {
	if retentionDays <= 0 {
		retentionDays = defaultRetentionDays
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	w := &DailyWriter{
		dir:           dir,
		prefix:        serviceName,
		retentionDays: retentionDays,
	}
	if err := w.rotateIfNeeded(time.Now()); err != nil {
		return nil, err
	}
	return w, nil
}

// Write implements io.Writer.
func (w *DailyWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.rotateIfNeeded(time.Now()); err != nil {
		return 0, err
	}
	return w.file.Write(p)
}

// Path returns the file currently written to.
func (w *DailyWriter) Path() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.file == nil {
		return ""
	}
	return w.file.Name()
}

// Close closes the underlying file.
func (w *DailyWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.file == nil {
		return nil
	}
	err := w.file.Close()
	w.file = nil
	return err
}

func (w *DailyWriter) rotateIfNeeded(now time.Time) error {
	date := now.Format("20060102")
	if date == w.currentDate && w.file != nil {
		return nil
	}
	if w.file != nil {
		_ = w.file.Close()
	}
	w.currentDate = date
	path := filepath.Join(w.dir, fmt.Sprintf("%s-%s.log", w.prefix, date))
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	w.file = file
	w.prune(now)
	return nil
}

func (w *DailyWriter) prune(now time.Time) {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return
	}
	cutoff := now.AddDate(0, 0, -w.retentionDays)
	prefix := w.prefix + "-"
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, ".log") {
			continue
		}
		date, err := time.Parse("20060102", strings.TrimSuffix(strings.TrimPrefix(name, prefix), ".log"))
		if err != nil {
			continue
		}
		if date.Before(cutoff) {
			_ = os.Remove(filepath.Join(w.dir, name))
		}
	}
}

// Config selects where and how the process logs.
type Config struct {
	// Dir enables the daily log file. Empty logs to Console only.
	Dir string
	// Level is debug, info, warn, error or a numeric slog level.
	Level string
	// Format is text (default) or json.
	Format        string
	RetentionDays int
	// Console defaults to stderr.
	Console io.Writer
}

// New builds the process logger, tagged with service=frxai, and installs it
// as the slog default. FRXAI_LOG_LEVEL and FRXAI_LOG_FORMAT override the
// configured level and format. The returned closer releases the log file.
func New(cfg Config) (*slog.Logger, io.Closer, error) {
	console := cfg.Console
	if console == nil {
		console = os.Stderr
	}

	var out io.Writer = console
	var closer io.Closer = nopCloser{}
	if strings.TrimSpace(cfg.Dir) != "" {
		writer, err := NewDailyWriter(cfg.Dir, cfg.RetentionDays)
		if err != nil {
			return nil, nil, fmt.Errorf("open log dir: %w", err)
		}
		out = io.MultiWriter(console, writer)
		closer = writer
	}

	level := resolveLevel(cfg.Level)
	logger := slog.New(newHandler(out, level, resolveFormat(cfg.Format))).With("service", serviceName)
	slog.SetDefault(logger)
	return logger, closer, nil
}

// ParseLevel accepts level names or integers.
func ParseLevel(value string) (slog.Level, bool) {
	value = strings.ToLower(strings.TrimSpace(value))
	switch value {
	case "debug":
		return slog.LevelDebug, true
	case "info", "":
		return slog.LevelInfo, value != ""
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	}
	if i, err := strconv.Atoi(value); err == nil {
		return slog.Level(i), true
	}
	return slog.LevelInfo, false
}

func resolveLevel(configured string) slog.Level {
	if level, ok := ParseLevel(os.Getenv(envLogLevel)); ok {
		return level
	}
	level, _ := ParseLevel(configured)
	return level
}

func resolveFormat(configured string) string {
	if env := strings.ToLower(strings.TrimSpace(os.Getenv(envLogFormat))); env != "" {
		return env
	}
	return strings.ToLower(strings.TrimSpace(configured))
}

func newHandler(w io.Writer, level slog.Level, format string) slog.Handler {
	options := &slog.HandlerOptions{Level: level}
	if format == "json" {
		return slog.NewJSONHandler(w, options)
	}
	return slog.NewTextHandler(w, options)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
