package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"frxai/internal/api"
)

var getppid = os.Getppid
var sleep = time.Sleep

const parentWatchEnv = "FRXAI_PARENT_WATCH"

type serveOptions struct {
	host   string
	port   int
	webDir string
}

func newServeCmd(c *cli) *cobra.Command {
	opts := &serveOptions{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP backend for the web front-end",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if !flags.Changed("host") {
				opts.host = c.cfg.Server.Host
			}
			if !flags.Changed("port") {
				opts.port = c.cfg.Server.Port
			}
			if !flags.Changed("web-dir") {
				opts.webDir = c.cfg.Server.WebDir
			}
			return c.serve(cmd.Context(), *opts)
		},
	}
	cmd.Flags().StringVar(&opts.host, "host", "127.0.0.1", "host to bind the server to")
	cmd.Flags().IntVar(&opts.port, "port", 8000, "port to run the server on")
	cmd.Flags().StringVar(&opts.webDir, "web-dir", "", "directory for SPA static files (optional)")
	return cmd
}

func (c *cli) serve(ctx context.Context, opts serveOptions) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	sess, err := c.open(ctx, true)
	if err != nil {
		return err
	}
	defer sess.Close()
	logger := sess.logger

	if os.Getenv(parentWatchEnv) == "1" {
		go watchParent(logger)
	}

	handler := api.NewRouter(sess.core, api.Options{
		AllowedOrigins: c.cfg.Server.CORSOrigins,
		Version:        version,
	})
	if resolvedWebDir := resolveWebDir(opts.webDir); resolvedWebDir != "" {
		logger.Info("serving SPA", "web_dir", resolvedWebDir)
		handler = api.WithSPA(handler, resolvedWebDir)
	}
	handler = middleware.Compress(5)(handler)

	listener, err := net.Listen("tcp", net.JoinHostPort(opts.host, strconv.Itoa(opts.port)))
	if err != nil {
		return err
	}
	server := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		// Analysis waits on the model with retries.
		WriteTimeout: 180 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("server starting", "addr", listener.Addr().String(), "version", version)
	serveErr := make(chan error, 1)
	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			logger.Error("server error", "err", err)
			return err
		}
	case <-ctx.Done():
	}

	logger.Info("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "err", err)
		return err
	}
	return nil
}

// watchParent exits when the launching desktop shell goes away.
func watchParent(logger *slog.Logger) {
	for {
		sleep(1 * time.Second)
		if getppid() == 1 {
			logger.Info("parent process exited; shutting down")
			exit(0)
		}
	}
}

func resolveWebDir(input string) string {
	if input != "" {
		if dirExists(input) {
			return input
		}
		return ""
	}

	candidates := []string{"web", "static", "../web"}
	for _, candidate := range candidates {
		if dirExists(candidate) {
			return candidate
		}
	}
	if exe, err := os.Executable(); err == nil {
		base := filepath.Dir(exe)
		for _, candidate := range candidates {
			path := filepath.Join(base, candidate)
			if dirExists(path) {
				return path
			}
		}
	}
	return ""
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}
