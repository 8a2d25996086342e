// Package server exposes the ingestion service, documentation library and
// push channel over HTTP and WebSocket, and serves the embedded dashboard.
package server

import (
	"context"
	"embed"
	"errors"
	"io/fs"
	"log"
	"net/http"
	"time"

	"github.com/atikulmunna/agentlog/internal/aggregator"
	"github.com/atikulmunna/agentlog/internal/docs"
	"github.com/atikulmunna/agentlog/internal/hub"
	"github.com/atikulmunna/agentlog/internal/ingest"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

//go:embed all:web
var webFS embed.FS

// Options configures the HTTP surface.
type Options struct {
	Port       string
	CORSOrigin string
	AccessLog  bool
	StatsDir   string

	// TrustedProxies lists the proxies whose X-Forwarded-For is believed.
	// Empty means client addresses come from the TCP peer only.
	TrustedProxies []string
}

// Server holds the Gin engine and dependencies for the dashboard backend.
type Server struct {
	engine     *gin.Engine
	ingest     *ingest.Service
	docs       *docs.Library
	hub        *hub.Hub
	aggregator *aggregator.Aggregator
	opts       Options
	upgrader   websocket.Upgrader
	startTime  time.Time
	now        func() time.Time
}

// New creates the dashboard server.
func New(svc *ingest.Service, lib *docs.Library, h *hub.Hub, agg *aggregator.Aggregator, opts Options) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	if err := engine.SetTrustedProxies(opts.TrustedProxies); err != nil {
		log.Printf("server: invalid trusted proxies %v, trusting none: %v", opts.TrustedProxies, err)
		_ = engine.SetTrustedProxies(nil)
	}
	if opts.AccessLog {
		engine.Use(accessLog())
	}
	engine.Use(securityHeaders(), cors(opts.CORSOrigin))

	// Disable automatic redirects that cause 301 issues.
	engine.RedirectTrailingSlash = false
	engine.RedirectFixedPath = false

	s := &Server{
		engine:     engine,
		ingest:     svc,
		docs:       lib,
		hub:        h,
		aggregator: agg,
		opts:       opts,
		upgrader:   newUpgrader(opts.CORSOrigin),
		startTime:  time.Now(),
		now:        time.Now,
	}

	s.setupRoutes()
	return s
}

// Handler exposes the engine, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// serveEmbedded reads a file from the embedded FS and writes it with the given content type.
func serveEmbedded(webContent fs.FS, name string, contentType string) gin.HandlerFunc {
	// Pre-read the file at startup so we don't read on every request.
	data, err := fs.ReadFile(webContent, name)
	return func(c *gin.Context) {
		if err != nil {
			c.String(http.StatusNotFound, "file not found: %s", name)
			return
		}
		c.Data(http.StatusOK, contentType, data)
	}
}

func (s *Server) setupRoutes() {
	webContent, _ := fs.Sub(webFS, "web")

	// Dashboard.
	s.engine.GET("/", serveEmbedded(webContent, "index.html", "text/html; charset=utf-8"))
	s.engine.GET("/style.css", serveEmbedded(webContent, "style.css", "text/css; charset=utf-8"))
	s.engine.GET("/app.js", serveEmbedded(webContent, "app.js", "application/javascript; charset=utf-8"))

	api := s.engine.Group("/api")
	api.GET("/health", s.handleHealth)
	api.GET("/stats", s.handleStats)
	api.POST("/log-entry", s.handleLogEntry)
	api.GET("/log-entries", s.handleLogEntries)
	api.GET("/docs/:filename", s.handleDoc)
	api.POST("/route", s.handleRoute)

	// WebSocket.
	s.engine.GET("/ws", s.handleWebSocket)
}

// Start serves on the configured port until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              ":" + s.opts.Port,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		log.Printf("[INFO] shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}
