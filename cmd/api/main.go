package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/example/campusreports/backend/internal/config"
	"github.com/example/campusreports/backend/internal/db"
	httpserver "github.com/example/campusreports/backend/internal/http"
	"github.com/example/campusreports/backend/internal/logger"
	"github.com/example/campusreports/backend/internal/metrics"
	"github.com/example/campusreports/backend/internal/mq"
	"github.com/example/campusreports/backend/internal/repository"
	"github.com/example/campusreports/backend/internal/service"
	"github.com/example/campusreports/backend/internal/worker"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.LogLevel, cfg.LogFormat, os.Stdout)
	slog.SetDefault(log)

	database, err := db.New(cfg.DatabaseURL, db.Options{
		MaxOpenConns: cfg.DBMaxOpenConns,
		MaxIdleConns: cfg.DBMaxIdleConns,
		LogLevel:     cfg.DBLogLevel,
	}, log)
	if err != nil {
		log.Error("connect database", "error", err)
		os.Exit(1)
	}
	if cfg.DBAutoMigrate {
		if err := db.Migrate(database); err != nil {
			log.Error("auto migrate", "error", err)
			os.Exit(1)
		}
	}

	m := metrics.New(prometheus.DefaultRegisterer)
	opts := []service.Option{service.WithLogger(log), service.WithMetrics(m)}

	publisher, err := mq.NewRabbitPublisher(cfg.MQURL, cfg.MQReportExchange, log)
	if err != nil {
		log.Warn("rabbitmq unavailable, continuing without events", "error", err)
	} else {
		opts = append(opts, service.WithPublisher(publisher))
	}

	store := repository.NewGormStore(database)
	apiServer := httpserver.NewServer(
		service.NewCategoryService(store, opts...),
		service.NewReportService(store, opts...),
		service.NewUpdateService(store, opts...),
		httpserver.WithLogger(log),
		httpserver.WithMetrics(m, prometheus.DefaultGatherer),
		httpserver.WithRateLimit(cfg.RateLimitMaxRequests, cfg.RateLimitWindow),
		httpserver.WithCORSOrigins(strings.Split(cfg.CORSOrigin, ",")...),
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if cfg.EventWorkerEnabled {
		go runWorker(ctx, cfg, log, m)
	}

	srv := &http.Server{
		Addr:    cfg.HTTPPort,
		Handler: apiServer.Handler(),
	}

	go func() {
		log.Info("HTTP server listening", "addr", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			cancel()
		}
	}()

	<-ctx.Done()
	log.Info("shutdown initiated")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown error", "error", err)
	}

	if publisher != nil {
		if err := publisher.Close(); err != nil {
			log.Warn("close publisher", "error", err)
		}
	}
	if sqlDB, err := database.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Info("bye")
}

func runWorker(ctx context.Context, cfg config.Config, log *slog.Logger, m *metrics.Metrics) {
	consumer, err := mq.NewRabbitConsumer(cfg.MQURL, cfg.MQReportExchange, cfg.MQReportQueue, "report.*", log)
	if err != nil {
		log.Warn("event worker disabled, rabbitmq unavailable", "error", err)
		return
	}
	w := worker.NewEventWorker(consumer, worker.WithLogger(log), worker.WithMetrics(m))
	if err := w.Run(ctx); err != nil {
		log.Error("event worker stopped", "error", err)
	}
}

func init() {
	if mode := os.Getenv("GIN_MODE"); mode == "" {
		gin.SetMode(gin.ReleaseMode)
	}
}
