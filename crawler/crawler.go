// Package crawler traverses the paginated catalog listing, follows each book
// entry to its detail page, and streams one record per detail page into the
// pipeline.
package crawler

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/aluiziolira/go-book-catalog/config"
	"github.com/aluiziolira/go-book-catalog/models"
	"github.com/aluiziolira/go-book-catalog/pipeline"
	"github.com/gocolly/colly/v2"
)

// Crawler wraps the colly collector and retry logic for the demo target.
type Crawler struct {
	cfg       *config.Config
	collector *colly.Collector
	retry     *retryManager
	Metrics   *Metrics

	requestCount int64
	pageCount    int64
	errorCount   int64

	mu           sync.Mutex
	failedURLs   []string
	errorsByType map[string]int

	handlersOnce sync.Once
}

// New builds a crawler instance configured from cfg.
func New(cfg *config.Config) (*Crawler, error) {
	parsed, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if parsed.Host == "" {
		return nil, fmt.Errorf("base url must include a host")
	}

	collector := colly.NewCollector(
		colly.Async(true),
		colly.AllowedDomains(parsed.Host),
		colly.UserAgent(cfg.UserAgent),
	)

	collector.SetRequestTimeout(cfg.Timeout)
	collector.IgnoreRobotsTxt = !cfg.RespectRobotsTxt
	collector.WithTransport(&http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   cfg.Timeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        100,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	})

	if err := collector.Limit(&colly.LimitRule{
		DomainGlob:  "*",
		Parallelism: cfg.Parallelism,
		Delay:       cfg.Delay,
		RandomDelay: cfg.RandomDelay,
	}); err != nil {
		return nil, fmt.Errorf("configure rate limits: %w", err)
	}

	c := &Crawler{
		cfg:          cfg,
		collector:    collector,
		errorsByType: make(map[string]int),
		Metrics:      NewMetrics(),
	}
	c.retry = newRetryManager(collector, cfg, c.Metrics)
	return c, nil
}

// Run starts the crawl and streams records through the pipeline. It returns
// once every scheduled fetch has finished or the context is cancelled and
// in-flight work has drained.
func (c *Crawler) Run(ctx context.Context, p *pipeline.Pipeline) (*models.CrawlResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	c.retry.SetContext(ctx)
	c.configureHandlers(ctx, p)

	start := time.Now()
	done := make(chan struct{})
	defer close(done)

	go func() {
		select {
		case <-ctx.Done():
			c.collector.Wait()
			c.retry.Stop()
		case <-done:
		}
	}()

	if err := c.collector.Visit(c.cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("initial visit: %w", err)
	}

	c.collector.Wait()
	c.retry.Stop()

	result := &models.CrawlResult{
		StartTime:    start,
		EndTime:      time.Now(),
		ErrorCount:   int(atomic.LoadInt64(&c.errorCount)),
		FailedURLs:   c.snapshotFailedURLs(),
		ErrorsByType: c.snapshotErrors(),
		RetryCount:   c.retry.TotalRetries(),
		RequestCount: int(atomic.LoadInt64(&c.requestCount)),
		PageCount:    int(atomic.LoadInt64(&c.pageCount)),
	}

	if snapshot := p.GetMetrics(); snapshot != nil {
		if processed, ok := snapshot["processed_books"].(int64); ok {
			result.TotalCount = int(processed)
		}
	}

	return result, nil
}

func (c *Crawler) configureHandlers(ctx context.Context, p *pipeline.Pipeline) {
	c.handlersOnce.Do(func() {
		c.collector.OnRequest(func(r *colly.Request) {
			r.Ctx.Put("start", time.Now())
			current := atomic.AddInt64(&c.requestCount, 1)
			if c.Metrics != nil {
				c.Metrics.IncRequest("started")
			}
			if current%50 == 0 {
				slog.Debug("crawl request progress",
					slog.Int64("requests", current),
					slog.Int64("listing_pages", atomic.LoadInt64(&c.pageCount)),
					slog.String("url", r.URL.String()),
				)
			}
		})

		c.collector.OnResponse(func(r *colly.Response) {
			if r.StatusCode >= http.StatusBadRequest {
				slog.Error("non-200 response",
					slog.Int("status", r.StatusCode),
					slog.String("url", r.Request.URL.String()),
				)
			}
			if c.Metrics != nil {
				if start, ok := r.Request.Ctx.GetAny("start").(time.Time); ok {
					c.Metrics.ObserveDuration(time.Since(start))
				}
			}
		})

		c.collector.OnError(func(r *colly.Response, err error) {
			atomic.AddInt64(&c.errorCount, 1)
			statusCode := 0
			if r != nil {
				statusCode = r.StatusCode
			}
			category := string(classifyFetch(err, statusCode))

			c.mu.Lock()
			c.errorsByType[category]++
			c.mu.Unlock()

			url := ""
			if r != nil && r.Request != nil && r.Request.URL != nil {
				url = r.Request.URL.String()
			}
			slog.Error("request error",
				slog.String("url", url),
				slog.String("category", category),
				slog.Any("error", err),
			)
			if c.Metrics != nil {
				c.Metrics.IncError(category)
			}

			if !c.retry.Schedule(url) {
				c.mu.Lock()
				c.failedURLs = append(c.failedURLs, url)
				c.mu.Unlock()
			}
		})

		// Listing pages: follow every book entry to its detail page.
		c.collector.OnHTML("article.product_pod h3 a", func(e *colly.HTMLElement) {
			if ctx.Err() != nil {
				return
			}
			href := e.Attr("href")
			if href == "" {
				return
			}
			c.collector.Visit(e.Request.AbsoluteURL(href))
		})

		// Listing pages: pagination is link-driven; MaxPages bounds the
		// walk so a cyclic next link cannot loop forever.
		c.collector.OnHTML("li.next a", func(e *colly.HTMLElement) {
			currentPage := atomic.AddInt64(&c.pageCount, 1)
			if currentPage >= int64(c.cfg.MaxPages) {
				return
			}
			if ctx.Err() != nil {
				return
			}
			link := e.Attr("href")
			c.collector.Visit(e.Request.AbsoluteURL(link))
		})

		// Detail pages: one record per page.
		c.collector.OnHTML("article.product_page", func(e *colly.HTMLElement) {
			book := extractBook(e)
			if book == nil {
				return
			}
			if c.Metrics != nil {
				c.Metrics.IncItems()
			}
			if err := p.Process(book); err != nil && err != pipeline.ErrPipelineClosed {
				slog.Error("pipeline process error", slog.Any("error", err))
			}
		})
	})
}

func (c *Crawler) snapshotFailedURLs() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.failedURLs))
	copy(out, c.failedURLs)
	return out
}

func (c *Crawler) snapshotErrors() map[string]int {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]int, len(c.errorsByType))
	for k, v := range c.errorsByType {
		out[k] = v
	}
	return out
}
