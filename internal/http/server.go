package http

import (
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/example/campusreports/backend/internal/metrics"
	"github.com/example/campusreports/backend/internal/service"
)

// Server wraps the gin engine and collaborators needed to handle API requests.
type Server struct {
	Engine     *gin.Engine
	categories *service.CategoryService
	reports    *service.ReportService
	updates    *service.UpdateService

	logger      *slog.Logger
	metrics     *metrics.Metrics
	gatherer    prometheus.Gatherer
	limiter     *ipRateLimiter
	corsOrigins []string
	now         func() time.Time
}

// Option configures a Server.
type Option func(*Server)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMetrics records request latencies into m and serves gatherer on /metrics.
func WithMetrics(m *metrics.Metrics, gatherer prometheus.Gatherer) Option {
	return func(s *Server) {
		s.metrics = m
		s.gatherer = gatherer
	}
}

// WithRateLimit allows each client IP max requests per window on /api.
func WithRateLimit(max int, window time.Duration) Option {
	return func(s *Server) {
		if max > 0 && window > 0 {
			s.limiter = newIPRateLimiter(max, window)
		}
	}
}

// WithCORSOrigins sets the allowed browser origins. Defaults to any origin.
func WithCORSOrigins(origins ...string) Option {
	return func(s *Server) {
		s.corsOrigins = origins
	}
}

// NewServer constructs a new API server and registers routes.
func NewServer(categories *service.CategoryService, reports *service.ReportService, updates *service.UpdateService, opts ...Option) *Server {
	srv := &Server{
		Engine:      gin.New(),
		categories:  categories,
		reports:     reports,
		updates:     updates,
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		corsOrigins: []string{"*"},
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(srv)
	}
	useJSONFieldNames()
	srv.registerRoutes()
	return srv
}

// Handler returns the engine wrapped with CORS handling.
func (s *Server) Handler() http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins: s.corsOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", requestIDHeader},
		ExposedHeaders: []string{requestIDHeader},
		MaxAge:         300,
	})(s.Engine)
}

func (s *Server) registerRoutes() {
	s.Engine.Use(recovery(s.logger), requestID(), requestLogger(s.logger, s.metrics))
	s.Engine.NoRoute(s.notFound)

	if s.gatherer != nil {
		s.Engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})))
	}

	api := s.Engine.Group("/api")
	if s.limiter != nil {
		api.Use(s.limiter.middleware())
	}
	api.GET("/health", s.health)

	categories := api.Group("/categories")
	categories.POST("", s.createCategory)
	categories.GET("", s.listCategories)
	categories.GET("/:id", s.getCategory)
	categories.PUT("/:id", s.updateCategory)
	categories.DELETE("/:id", s.deleteCategory)

	reports := api.Group("/reports")
	reports.POST("", s.createReport)
	reports.GET("", s.listReports)
	reports.GET("/:id", s.getReport)
	reports.PATCH("/:id/status", s.updateReportStatus)
	reports.POST("/:id/updates", s.createReportUpdate)
	reports.GET("/:id/updates", s.listReportUpdates)
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"message":   "API is running",
		"timestamp": s.now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) notFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, envelope{Success: false, Message: "route " + c.Request.URL.Path + " not found"})
}
