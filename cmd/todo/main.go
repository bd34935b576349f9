package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"

	"todos/internal/config"
	"todos/internal/httpapi"
	"todos/internal/logging"
	"todos/internal/storage"
	"todos/internal/todo"
	"todos/internal/ui"
)

// Version is set via ldflags at build time.
var Version = "dev"

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "todo: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("todo", flag.ContinueOnError)
	configPath := fs.String("config", config.ResolveConfigPath(), "path to config.toml")
	dbPath := fs.String("db", "", "override the database path from the config")
	serveAddr := fs.String("serve", "", "serve the JSON API on this address instead of starting the TUI")
	logLevel := fs.String("log-level", "", "override the log level (debug, info, warn, error)")
	reset := fs.Bool("reset", false, "forget stored tasks so the next start uses the seed list")
	showVersion := fs.Bool("version", false, "print version and exit")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	if *showVersion {
		fmt.Println("todo", Version)
		return nil
	}

	firstLaunch := false
	if _, err := os.Stat(*configPath); err != nil {
		firstLaunch = errors.Is(err, os.ErrNotExist)
	}
	cfg, err := config.LoadOrCreate(*configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}

	logger, closeLog, err := newLogger(cfg, *serveAddr != "")
	if err != nil {
		return err
	}
	defer closeLog.Close()
	if firstLaunch {
		logger.Info("wrote default config", "path", *configPath)
	}

	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer store.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *reset {
		if err := store.Delete(ctx, cfg.StorageKey); err != nil {
			return fmt.Errorf("reset tasks: %w", err)
		}
		logger.Info("stored tasks cleared", "key", cfg.StorageKey)
		fmt.Println("stored tasks cleared")
		return nil
	}

	app, err := todo.New(ctx, store,
		todo.WithKey(cfg.StorageKey),
		todo.WithFilter(todo.Filter(cfg.DefaultFilter)),
		todo.WithLogger(logger),
	)
	if err != nil {
		return fmt.Errorf("load tasks: %w", err)
	}

	if *serveAddr != "" {
		return serve(ctx, *serveAddr, app, logger)
	}
	if err := ui.Run(ctx, app, cfg, logger); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}

// newLogger logs to stderr when serving and to the log file otherwise,
// since the TUI draws on the terminal.
func newLogger(cfg config.Config, serving bool) (*log.Logger, io.Closer, error) {
	if serving {
		return logging.New(os.Stderr, cfg.LogLevel), io.NopCloser(nil), nil
	}
	logger, closer, err := logging.OpenFile(cfg.LogPath, cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	return logger, closer, nil
}

func serve(ctx context.Context, addr string, app *todo.App, logger *log.Logger) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      httpapi.NewHandler(app, logger).Routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("serving", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
