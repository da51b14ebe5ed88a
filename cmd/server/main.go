package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/findash/backend/internal/application/pipeline"
	"github.com/findash/backend/internal/infrastructure/cache"
	"github.com/findash/backend/internal/infrastructure/config"
	"github.com/findash/backend/internal/infrastructure/logger"
	"github.com/findash/backend/internal/interfaces/http/handler"
	"github.com/findash/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	svc := pipeline.NewService(
		cfg.Data.Dir,
		pipeline.Window{Start: cfg.Analysis.WindowStart, End: cfg.Analysis.WindowEnd},
		cfg.Data.Source,
		log,
	)

	var snapshots *cache.SnapshotCache
	if cfg.Cache.Enabled {
		snapshots = cache.NewSnapshotCache(
			cache.WithTTL(cfg.Cache.TTL),
			cache.WithLogger(log),
		)
	}

	dashboard := handler.NewDashboardHandler(svc, snapshots, log)
	engine := router.New(dashboard, log)

	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      engine,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	go func() {
		log.Info("Server starting",
			zap.String("addr", srv.Addr),
			zap.String("data_dir", cfg.Data.Dir),
			zap.Bool("cache_enabled", cfg.Cache.Enabled),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
