// Package server is the reference implementation of the focus session API:
// categories, session lifecycle, listings, stats and a WebSocket channel that
// announces every session change.
package server

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/andromeda/focus/internal/models"
	"github.com/andromeda/focus/store"
)

const categoryCacheSize = 128

// DefaultCategories are created the first time categories are listed.
var DefaultCategories = []models.Category{
	{Name: "Work", Color: "#FF6B35"},
	{Name: "Study", Color: "#4CAF50"},
	{Name: "Exercise", Color: "#2196F3"},
	{Name: "Reading", Color: "#9C27B0"},
	{Name: "Meditation", Color: "#FF9800"},
}

// Server serves the session API.
type Server struct {
	db       store.DB
	router   *gin.Engine
	hub      *Hub
	metrics  *Metrics
	names    *lru.Cache[int64, string]
	logger   *slog.Logger
	registry *prometheus.Registry
	now      func() time.Time
	token    string
}

// Option configures a Server.
type Option func(*Server)

// WithToken requires every request to carry token as a bearer credential.
func WithToken(token string) Option {
	return func(s *Server) {
		s.token = token
	}
}

// WithLogger sets the request logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock replaces the clock used for session timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		s.now = now
	}
}

// New returns a server backed by db.
func New(db store.DB, opts ...Option) (*Server, error) {
	names, err := lru.New[int64, string](categoryCacheSize)
	if err != nil {
		return nil, err
	}

	s := &Server{
		db:       db,
		names:    names,
		logger:   slog.Default(),
		now:      time.Now,
		registry: prometheus.NewRegistry(),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.metrics = MustNewMetrics(s.registry)
	s.hub = NewHub(s.logger, func(n int) {
		s.metrics.pushClients.Set(float64(n))
	})

	gin.SetMode(gin.ReleaseMode)

	s.router = gin.New()
	s.router.Use(gin.Recovery(), s.requestLogger())
	s.routes()

	return s, nil
}

func (s *Server) routes() {
	s.router.GET("/metrics", gin.WrapH(
		promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}),
	))

	authorized := s.router.Group("/", s.authenticate())

	authorized.GET("/ws/focus/", gin.WrapH(s.hub))

	api := authorized.Group("/focus/api")
	{
		api.GET("/categories/", s.handleCategories)
		api.GET("/sessions/", s.handleSessions)
		api.POST("/sessions/start/", s.handleStart)
		api.POST("/sessions/:id/pause/", s.handleStatus(models.StatusPaused, "paused"))
		api.POST("/sessions/:id/resume/", s.handleStatus(models.StatusOngoing, "resumed"))
		api.POST("/sessions/:id/complete/", s.handleComplete)
		api.GET("/stats/", s.handleStats)
	}
}

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Hub returns the push hub.
func (s *Server) Hub() *Hub {
	return s.hub
}

// Close disconnects every push client.
func (s *Server) Close() {
	s.hub.Close()
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		status := c.Writer.Status()

		s.metrics.requestDuration.WithLabelValues(
			c.Request.Method,
			route,
			strconv.Itoa(status),
		).Observe(time.Since(start).Seconds())

		s.logger.Debug(
			"request served",
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", status),
			slog.Duration("elapsed", time.Since(start)),
		)
	}
}

// authenticate accepts the token from the Authorization header or, for
// WebSocket clients that cannot set headers, the token query parameter.
func (s *Server) authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.token == "" {
			c.Next()
			return
		}

		got := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		if got == "" {
			got = c.Query("token")
		}

		if got != s.token {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "unauthorized",
			})

			return
		}

		c.Next()
	}
}
