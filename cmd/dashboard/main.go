// The dashboard serves the catalog store as an interactive search view.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aluiziolira/go-book-catalog/config"
	"github.com/aluiziolira/go-book-catalog/dashboard"
	"github.com/aluiziolira/go-book-catalog/store"
	"github.com/joho/godotenv"
)

func main() {
	// A missing .env file is fine; environment variables still apply.
	_ = godotenv.Load()

	defaultCfg := config.DefaultConfig()
	addrDefault := defaultCfg.ListenAddr
	if value, ok := config.EnvString("DASHBOARD_ADDR"); ok {
		addrDefault = value
	}
	catalogDefault := defaultCfg.CatalogFile
	if value, ok := config.EnvString("CATALOG_FILE"); ok {
		catalogDefault = value
	}

	addr := flag.String("addr", addrDefault, "HTTP listen address")
	catalogFile := flag.String("catalog", catalogDefault, "Catalog store file path")
	verbose := flag.Bool("v", false, "Enable verbose logging")
	flag.Parse()

	logger, level := newLogger(*verbose)
	slog.SetDefault(logger)
	slog.SetLogLoggerLevel(level.Level())

	cfg := defaultCfg
	cfg.ListenAddr = *addr
	cfg.CatalogFile = *catalogFile
	cfg.Verbose = *verbose

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.Any("error", err))
		os.Exit(1)
	}

	loader := store.NewLoader(cfg.CatalogFile)
	if books, _, err := loader.Load(); err != nil {
		// Not fatal: the dashboard serves an empty catalog with a
		// visible error until a crawl produces the store file.
		slog.Warn("catalog not available yet", slog.Any("error", err))
	} else {
		slog.Info("catalog loaded", slog.Int("records", len(books)))
	}

	server, err := dashboard.NewServer(cfg, loader)
	if err != nil {
		slog.Error("initialising dashboard", slog.Any("error", err))
		os.Exit(1)
	}

	httpServer := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("dashboard listening", slog.String("addr", cfg.ListenAddr), slog.String("catalog", cfg.CatalogFile))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("dashboard server failed", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("dashboard shutdown failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func newLogger(verbose bool) (*slog.Logger, *slog.LevelVar) {
	level := &slog.LevelVar{}
	if verbose {
		level.Set(slog.LevelDebug)
	} else {
		level.Set(slog.LevelInfo)
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if isTerminal(os.Stdout) {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return slog.New(handler), level
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
