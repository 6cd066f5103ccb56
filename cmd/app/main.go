package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"shorturl-go/internal/config"
	"shorturl-go/internal/flash"
	"shorturl-go/internal/handler"
	"shorturl-go/internal/i18n"
	"shorturl-go/internal/repository"
	"shorturl-go/internal/scheduler"
	"shorturl-go/internal/server"
	"shorturl-go/internal/service"
	"shorturl-go/internal/shortcode"
	"shorturl-go/pkg/logging"
	"shorturl-go/web"
)

func main() {
	configPath := flag.String("config", "", "path to config.yaml (default: ./config.yaml)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logging.InitLogger(cfg.Log); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logging.Sync()
	logger := logging.Logger
	logger.Info("Application started", zap.String("db_driver", cfg.DB.Driver))

	db, err := repository.InitDB(cfg.DB, logger, logging.AtomicLevel)
	if err != nil {
		logger.Fatal("Failed to connect database", zap.Error(err))
	}
	defer func() {
		if err := repository.Close(db); err != nil {
			logger.Warn("Database close failed", zap.Error(err))
		}
	}()
	repo := repository.NewShortenedURLRepository(db)

	var flashStore flash.Store = flash.NewMemoryStore()
	if cfg.Redis.Addr != "" {
		pool := repository.NewRedisPool(cfg.Redis, logger)
		defer func() {
			if err := pool.Close(); err != nil {
				logger.Warn("Redis pool close failed", zap.Error(err))
			}
		}()
		flashStore = flash.NewRedisStore(pool, logger)
	} else {
		logger.Info("redis.addr is empty, keeping flash messages in memory")
	}

	catalog, err := i18n.Load(cfg.I18n.DefaultLanguage)
	if err != nil {
		logger.Fatal("Failed to load translations", zap.Error(err))
	}

	tmpl, err := web.Templates()
	if err != nil {
		logger.Fatal("Failed to parse templates", zap.Error(err))
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	gen, err := shortcode.NewGenerator()
	if err != nil {
		logger.Fatal("Failed to init code generator", zap.Error(err))
	}
	svc := service.NewShortenerService(repo, gen, service.Options{
		MaxAttempts:   cfg.Shortener.MaxAttempts,
		RetryInterval: cfg.Shortener.RetryInterval,
	}, service.NewMetrics(registry), logger)

	gin.SetMode(gin.ReleaseMode)
	h := server.NewHandler(server.Deps{
		Shortener:  svc,
		FlashStore: flashStore,
		Catalog:    catalog,
		Templates:  tmpl,
		Health:     map[string]handler.Pinger{"database": repo, "flash": flashStore},
		Registry:   registry,
		BaseURL:    cfg.Server.BaseURL,
		Logger:     logger,
	})

	cronJobs, err := scheduler.New(cfg.Cron.LogRotation, logger)
	if err != nil {
		logger.Fatal("Failed to schedule cron job", zap.Error(err))
	}
	cronJobs.Start()
	defer cronJobs.Stop()

	startServer(server.NewServer(cfg.Server.Addr, h), logger)
}

func startServer(srv *http.Server, logger *zap.Logger) {
	go func() {
		logger.Info("Server is running on " + srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}
	logger.Info("Server exiting")
}
