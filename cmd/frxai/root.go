package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"frxai/internal/config"
	"frxai/internal/logging"
	"frxai/internal/tracing"
	"frxai/pkg/frxai"
)

// cli holds state shared by the subcommands of one invocation.
type cli struct {
	configFile string
	dataDir    string
	envFile    string
	verbose    bool

	cfg *config.Config
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:   "frxai",
		Short: "AI chart analysis and market news backend",
		Long: `frxai reads trading chart screenshots with a generative model and returns
a structured technical and fundamental analysis, plus a sentiment-tagged
news feed for the detected asset.

Example usage:
  frxai serve --port 8000           # HTTP backend for the web front-end
  frxai analyze chart.png --lang id # analyze one screenshot
  frxai news GBP/USD                # latest news for an asset
  frxai settings --theme dark       # show or change stored preferences`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.init()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&c.configFile, "config", "", "config file (default: ./config/config.yaml or the app config dir)")
	flags.StringVar(&c.dataDir, "data-dir", "", "directory for the settings database and logs")
	flags.StringVar(&c.envFile, "env-file", ".env", "dotenv file loaded before configuration")
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(
		newServeCmd(c),
		newAnalyzeCmd(c),
		newNewsCmd(c),
		newSettingsCmd(c),
		newVersionCmd(),
	)
	return root
}

// init loads the dotenv file, then the config. A missing dotenv file is
// not an error; variables already set in the environment win.
func (c *cli) init() error {
	if c.envFile != "" {
		if err := godotenv.Load(c.envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("load %s: %w", c.envFile, err)
		}
	}
	if c.dataDir != "" {
		config.SetRuntimeDataDir(c.dataDir)
	}
	cfg, err := config.Load(c.configFile)
	if err != nil {
		return err
	}
	if c.verbose {
		cfg.Log.Level = "debug"
	}
	c.cfg = cfg
	return nil
}

// session is everything a command needs to reach the core.
type session struct {
	core     *frxai.Core
	logger   *slog.Logger
	closers  []io.Closer
	shutdown tracing.ShutdownFunc
}

// open builds the logger, tracing and core. fileLogs adds the daily log
// file in the data dir; one-shot commands only log to stderr.
func (c *cli) open(ctx context.Context, fileLogs bool) (*session, error) {
	logCfg := logging.Config{Level: c.cfg.Log.Level, Format: c.cfg.Log.Format}
	if fileLogs {
		logDir, err := config.GetLogDir()
		if err != nil {
			return nil, fmt.Errorf("resolve log dir: %w", err)
		}
		logCfg.Dir = logDir
	}
	baseLogger, logCloser, err := logging.New(logCfg)
	if err != nil {
		return nil, err
	}
	logger := slog.New(tracing.NewLogHandler(baseLogger.Handler()))
	slog.SetDefault(logger)
	sess := &session{logger: logger, closers: []io.Closer{logCloser}}

	sess.shutdown, err = tracing.Setup(ctx, tracing.Config{Enabled: c.cfg.Tracing.Enabled, ServiceVersion: version})
	if err != nil {
		sess.Close()
		return nil, fmt.Errorf("setup tracing: %w", err)
	}

	gen, err := c.generator(ctx, logger)
	if err != nil {
		sess.Close()
		return nil, err
	}

	dbPath, err := config.GetDBPath()
	if err != nil {
		sess.Close()
		return nil, fmt.Errorf("resolve db path: %w", err)
	}
	core, err := frxai.OpenWithOptions(frxai.Options{
		DBPath:    dbPath,
		Logger:    logger,
		Generator: gen,
		Retry: &frxai.RetryPolicy{
			MaxAttempts: c.cfg.Retry.MaxAttempts,
			BaseDelay:   c.cfg.Retry.BaseDelay,
		},
		Temperature:      float32(c.cfg.AI.Temperature),
		DisableWebSearch: !c.cfg.AI.WebSearch,
	})
	if err != nil {
		sess.Close()
		return nil, fmt.Errorf("open core: %w", err)
	}
	sess.core = core
	sess.closers = append(sess.closers, core)
	logger.Debug("core ready", "db_path", dbPath, "generator", gen != nil)
	return sess, nil
}

// generator returns nil without an API key so settings commands keep
// working; analysis then reports the service as unavailable.
func (c *cli) generator(ctx context.Context, logger *slog.Logger) (frxai.Generator, error) {
	if c.cfg.AI.APIKey == "" {
		logger.Warn("no ai api key configured; analysis and news are unavailable")
		return nil, nil
	}
	gen, err := frxai.NewGenerator(ctx, frxai.GeneratorConfig{
		Provider:          frxai.Provider(c.cfg.AI.Provider),
		APIKey:            c.cfg.AI.APIKey,
		BaseURL:           c.cfg.AI.BaseURL,
		Model:             c.cfg.AI.Model,
		MaxOutputTokens:   c.cfg.AI.MaxOutputTokens,
		RequestsPerMinute: c.cfg.AI.RequestsPerMinute,
		Logger:            logger,
	})
	if err != nil {
		return nil, fmt.Errorf("create ai generator: %w", err)
	}
	return gen, nil
}

// Close releases resources in reverse order of acquisition.
func (sess *session) Close() {
	if sess.shutdown != nil {
		if err := sess.shutdown(context.Background()); err != nil {
			sess.logger.Error("failed to flush traces", "err", err)
		}
	}
	for i := len(sess.closers) - 1; i >= 0; i-- {
		if err := sess.closers[i].Close(); err != nil {
			sess.logger.Error("failed to close resource", "err", err)
		}
	}
}

// commandLanguage prefers the --lang flag, then the stored setting, then
// the process locale.
func commandLanguage(ctx context.Context, core *frxai.Core, flagValue string) (frxai.Language, error) {
	if flagValue != "" {
		lang, ok := frxai.ParseLanguage(flagValue)
		if !ok {
			return "", fmt.Errorf("unknown language %q (use en or id)", flagValue)
		}
		return lang, nil
	}
	return core.LoadSettings(ctx, processLocale()).Language, nil
}

func processLocale() string {
	for _, name := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		if value := os.Getenv(name); value != "" {
			return localeFromPOSIX(value)
		}
	}
	return ""
}

// localeFromPOSIX turns id_ID.UTF-8 into id-ID.
func localeFromPOSIX(value string) string {
	for i, r := range value {
		if r == '.' || r == '@' {
			value = value[:i]
			break
		}
	}
	out := []rune(value)
	for i, r := range out {
		if r == '_' {
			out[i] = '-'
		}
	}
	return string(out)
}
