// Package dashboard serves the catalog store as an interactive HTML view and
// a JSON API. Each request recomputes filter, sort, pagination, and
// statistics over the cached catalog table.
package dashboard

import (
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/aluiziolira/go-book-catalog/config"
	"github.com/aluiziolira/go-book-catalog/models"
	"github.com/aluiziolira/go-book-catalog/store"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

//go:embed templates/index.html.tmpl
var templateFS embed.FS

// Server holds the dashboard's HTTP surface.
type Server struct {
	cfg     *config.Config
	loader  *store.Loader
	metrics *Metrics
	engine  *gin.Engine
}

// NewServer wires routes, middleware, and the embedded template.
func NewServer(cfg *config.Config, loader *store.Loader) (*Server, error) {
	if !cfg.Verbose {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		cfg:     cfg,
		loader:  loader,
		metrics: NewMetrics(),
	}

	tmpl, err := template.ParseFS(templateFS, "templates/index.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	engine := gin.New()
	engine.Use(s.observe(), gin.Recovery())
	engine.SetHTMLTemplate(tmpl)

	engine.GET("/", s.handleIndex)
	engine.GET("/health", s.handleHealth)
	engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.metrics.Registry, promhttp.HandlerOpts{})))

	api := engine.Group("/api/v1")
	api.GET("/books", s.handleBooks)
	api.GET("/stats", s.handleStats)

	s.engine = engine
	return s, nil
}

// Handler exposes the router for an http.Server.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Collectors exposes the server's metrics, mainly for tests.
func (s *Server) Collectors() *Metrics {
	return s.metrics
}

// loadCatalog reads the cached catalog table. The error message it returns
// alongside an empty table is what gets surfaced to the user.
func (s *Server) loadCatalog() ([]models.Book, string) {
	books, reloaded, err := s.loader.Load()
	if err != nil {
		slog.Warn("catalog unavailable", slog.String("path", s.loader.Path()), slog.Any("error", err))
		return nil, fmt.Sprintf("Catalog %s is missing or unreadable. Run the crawler first.", s.loader.Path())
	}
	if reloaded {
		s.metrics.CatalogReloads.Inc()
		slog.Info("catalog loaded", slog.String("path", s.loader.Path()), slog.Int("records", len(books)))
	}
	s.metrics.SetCatalogSize(len(books))
	return books, ""
}

func (s *Server) observe() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		status := c.Writer.Status()
		duration := time.Since(start)
		s.metrics.ObserveRequest(path, strconv.Itoa(status), duration)
		slog.Debug("http request",
			slog.String("method", c.Request.Method),
			slog.String("path", path),
			slog.Int("status", status),
			slog.Duration("duration", duration),
		)
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
