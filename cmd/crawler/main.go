// The crawler walks the paginated book listing, extracts one record per
// detail page, and writes the catalog store consumed by the dashboard.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/aluiziolira/go-book-catalog/config"
	"github.com/aluiziolira/go-book-catalog/crawler"
	"github.com/aluiziolira/go-book-catalog/models"
	"github.com/aluiziolira/go-book-catalog/pipeline"
	"github.com/aluiziolira/go-book-catalog/store"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// A missing .env file is fine; environment variables still apply.
	_ = godotenv.Load()

	defaultCfg := config.DefaultConfig()
	pagesDefault := defaultCfg.MaxPages
	if value, ok, err := config.EnvInt("CATALOG_PAGES"); err != nil {
		fmt.Fprintf(os.Stderr, "invalid CATALOG_PAGES: %v\n", err)
		os.Exit(1)
	} else if ok {
		pagesDefault = value
	}
	parallelDefault := defaultCfg.Parallelism
	if value, ok, err := config.EnvInt("CATALOG_PARALLEL"); err != nil {
		fmt.Fprintf(os.Stderr, "invalid CATALOG_PARALLEL: %v\n", err)
		os.Exit(1)
	} else if ok {
		parallelDefault = value
	}
	catalogDefault := defaultCfg.CatalogFile
	if value, ok := config.EnvString("CATALOG_FILE"); ok {
		catalogDefault = value
	}
	metricsDefault := defaultCfg.MetricsAddr
	if value, ok := config.EnvString("CATALOG_METRICS_ADDR"); ok {
		metricsDefault = value
	}

	maxPages := flag.Int("pages", pagesDefault, "Maximum listing pages to crawl")
	parallelism := flag.Int("parallel", parallelDefault, "Number of concurrent requests")
	delayMs := flag.Int("delay", 0, "Delay between requests (milliseconds)")
	randomDelayMs := flag.Int("random-delay", 0, "Random jitter added to delay (milliseconds)")
	maxRetries := flag.Int("max-retries", defaultCfg.MaxRetries, "Maximum retry attempts per URL")
	retryBackoffMs := flag.Int("retry-backoff", 200, "Initial retry backoff (milliseconds)")
	retryBackoffMaxMs := flag.Int("retry-backoff-max", 2000, "Maximum retry backoff (milliseconds)")
	respectRobots := flag.Bool("respect-robots", false, "Respect robots.txt directives")
	catalogFile := flag.String("catalog", catalogDefault, "Catalog store file path")
	csvFile := flag.String("csv", defaultCfg.CSVFile, "CSV export file path (csv and dual formats)")
	exportFormat := flag.String("format", defaultCfg.ExportFormat, "Output format: json, csv, or dual")
	verbose := flag.Bool("v", false, "Enable verbose logging")
	baseURL := flag.String("base-url", defaultCfg.BaseURL, "Base URL to crawl")
	metricsAddr := flag.String("metrics-addr", metricsDefault, "Prometheus metrics listen address (e.g. :9090)")

	flag.Parse()

	logger, level := newLogger(*verbose)
	slog.SetDefault(logger)
	slog.SetLogLoggerLevel(level.Level())

	cfg := defaultCfg
	cfg.BaseURL = *baseURL
	cfg.MaxPages = *maxPages
	cfg.Parallelism = *parallelism
	cfg.Delay = time.Duration(*delayMs) * time.Millisecond
	cfg.RandomDelay = time.Duration(*randomDelayMs) * time.Millisecond
	cfg.MaxRetries = *maxRetries
	cfg.RetryBackoff = time.Duration(*retryBackoffMs) * time.Millisecond
	cfg.RetryBackoffMax = time.Duration(*retryBackoffMaxMs) * time.Millisecond
	cfg.RespectRobotsTxt = *respectRobots
	cfg.CatalogFile = *catalogFile
	cfg.CSVFile = *csvFile
	cfg.ExportFormat = strings.ToLower(*exportFormat)
	cfg.Verbose = *verbose
	cfg.MetricsAddr = *metricsAddr

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.Any("error", err))
		os.Exit(1)
	}

	slog.Info("starting crawl",
		slog.String("base_url", cfg.BaseURL),
		slog.Int("pages", cfg.MaxPages),
		slog.Int("workers", cfg.Parallelism),
		slog.String("catalog", cfg.CatalogFile),
	)

	c, err := crawler.New(cfg)
	if err != nil {
		slog.Error("initialising crawler", slog.Any("error", err))
		os.Exit(1)
	}

	writer, err := createWriter(cfg)
	if err != nil {
		slog.Error("creating writer", slog.Any("error", err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		slog.Info("shutdown signal received, waiting for in-flight work to finish")
	}()

	var metricsServer *http.Server
	if cfg.MetricsAddr != "" && c.Metrics != nil {
		metricsServer = &http.Server{
			Addr:    cfg.MetricsAddr,
			Handler: promhttp.HandlerFor(c.Metrics.Registry, promhttp.HandlerOpts{}),
		}
		go func() {
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("metrics server failed", slog.Any("error", err))
			}
		}()
		slog.Info("metrics server enabled", slog.String("addr", cfg.MetricsAddr))
	}

	p := pipeline.NewPipeline(ctx, writer, cfg)
	p.Start(cfg.Parallelism)
	if cfg.Verbose {
		p.StartMetricsReporting(10 * time.Second)
	}

	startTime := time.Now()
	result, err := c.Run(ctx, p)
	if err != nil {
		slog.Error("crawl failed", slog.Any("error", err))
		os.Exit(1)
	}

	if err := p.Close(); err != nil {
		slog.Error("pipeline shutdown failed", slog.Any("error", err))
		os.Exit(1)
	}

	if err := writer.Close(); err != nil {
		slog.Error("close writer", slog.Any("error", err))
		os.Exit(1)
	}

	if err := writer.Validate(); err != nil {
		slog.Error("output validation failed", slog.Any("error", err))
		os.Exit(1)
	}

	if metricsServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			slog.Error("metrics server shutdown failed", slog.Any("error", err))
		}
		cancel()
	}

	snapshot := p.GetMetrics()
	duration := time.Since(startTime)
	totalItems := int64(0)
	if processed, ok := snapshot["processed_books"].(int64); ok {
		totalItems = processed
	}
	itemsPerSec := 0.0
	if duration.Seconds() > 0 {
		itemsPerSec = float64(totalItems) / duration.Seconds()
	}

	printSummary(result, duration, itemsPerSec, cfg.CatalogFile, snapshot)
}

func createWriter(cfg *config.Config) (pipeline.OutputWriter, error) {
	switch cfg.ExportFormat {
	case "json":
		return store.NewCatalogWriter(cfg.CatalogFile)
	case "csv":
		return store.NewCSVWriter(cfg.CSVFile)
	case "dual":
		return store.NewDualWriter(cfg.CatalogFile, cfg.CSVFile)
	default:
		return nil, fmt.Errorf("unsupported format: %s", cfg.ExportFormat)
	}
}

func printSummary(result *models.CrawlResult, duration time.Duration, itemsPerSec float64, catalogFile string, snapshot map[string]interface{}) {
	separator := "--------------------------------------------------"
	fmt.Println("\n" + separator)
	fmt.Println("Crawl complete")

	totalItems := int64(0)
	if processed, ok := snapshot["processed_books"].(int64); ok {
		totalItems = processed
	}

	fmt.Printf("  Total records: %d\n", totalItems)
	successRate := 0.0
	if result.RequestCount > 0 {
		successRate = float64(result.RequestCount-result.ErrorCount) / float64(result.RequestCount) * 100
	}
	fmt.Printf("  Success rate:  %.2f%%\n", successRate)
	fmt.Printf("  Errors:        %d\n", result.ErrorCount)
	fmt.Printf("  Retries:       %d\n", result.RetryCount)
	fmt.Printf("  Failed URLs:   %d\n", len(result.FailedURLs))
	if len(result.ErrorsByType) > 0 {
		fmt.Printf("  Error types:   %v\n", result.ErrorsByType)
	}
	if valErrors, ok := snapshot["validation_errors"].(map[string]int); ok && len(valErrors) > 0 {
		fmt.Printf("  Validation:    %v\n", valErrors)
	}
	fmt.Printf("  Duration:      %v\n", duration)
	fmt.Printf("  Items/sec:     %.2f\n", itemsPerSec)
	fmt.Printf("  Catalog file:  %s\n", catalogFile)
	fmt.Println(separator)
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
