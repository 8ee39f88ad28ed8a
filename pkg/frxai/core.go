package frxai

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"
	_ "modernc.org/sqlite"
)

const (
	defaultTemperature float32 = 0.1
	tracerName                 = "frxai"
)

// Options controls Core initialization.
type Options struct {
	DBPath string
	Logger *slog.Logger
	// Generator is the remote model. Analysis and news return UNAVAILABLE
	// when it is nil; settings keep working.
	Generator Generator
	// Retry defaults to DefaultRetryPolicy when nil. A non-nil policy is used
	// as given, so a zero BaseDelay means no wait between attempts.
	Retry *RetryPolicy
	// Temperature defaults to 0.1 when zero or negative.
	Temperature      float32
	DisableWebSearch bool
	// Registry receives the core metrics and must not be shared by two Cores.
	// A private registry is created when nil.
	Registry *prometheus.Registry
	Tracer   trace.Tracer
}

// Core provides the chart analysis and news pipeline plus settings storage.
type Core struct {
	db          *sql.DB
	logger      *slog.Logger
	gen         Generator
	retry       RetryPolicy
	temperature float32
	webSearch   bool
	news        singleflight.Group
	metrics     *metrics
	tracer      trace.Tracer
	dbPath      string
}

// Open initializes a Core with storage only.
func Open(dbPath string) (*Core, error) {
	return OpenWithOptions(Options{DBPath: dbPath})
}

// OpenWithOptions initializes a Core using the provided options.
func OpenWithOptions(opts Options) (*Core, error) {
	if opts.DBPath == "" {
		return nil, errors.New("db path is required")
	}
	cleanPath := filepath.Clean(opts.DBPath)
	if err := os.MkdirAll(filepath.Dir(cleanPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	db, err := sql.Open("sqlite", cleanPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// SQLite performs best with a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		logger.Warn("pragma busy_timeout failed", "err", err)
	}

	if err := initDatabase(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init database: %w", err)
	}

	retry := DefaultRetryPolicy()
	if opts.Retry != nil {
		retry = opts.Retry.normalized()
	}

	temperature := opts.Temperature
	if temperature <= 0 {
		temperature = defaultTemperature
	}
	registry := opts.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	tracer := opts.Tracer
	if tracer == nil {
		tracer = otel.Tracer(tracerName)
	}

	return &Core{
		db:          db,
		logger:      logger,
		gen:         opts.Generator,
		retry:       retry,
		temperature: temperature,
		webSearch:   !opts.DisableWebSearch,
		metrics:     newMetrics(registry),
		tracer:      tracer,
		dbPath:      cleanPath,
	}, nil
}

// Close releases database resources.
func (c *Core) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}

// DBPath returns the underlying database path.
func (c *Core) DBPath() string {
	return c.dbPath
}

// Logger returns the core logger.
func (c *Core) Logger() *slog.Logger {
	return c.logger
}

// Registry returns the registry holding the core metrics.
func (c *Core) Registry() *prometheus.Registry {
	return c.metrics.registry
}

// HasGenerator reports whether remote analysis is configured.
func (c *Core) HasGenerator() bool {
	return c.gen != nil
}

func defaultInt(v int, fallback int) int {
	if v <= 0 {
		return fallback
	}
	return v
}
