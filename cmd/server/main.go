// cmd/server/main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"

	"github.com/expeditionrm/revenue-studio/internal/api"
	"github.com/expeditionrm/revenue-studio/internal/cache"
	"github.com/expeditionrm/revenue-studio/internal/config"
	"github.com/expeditionrm/revenue-studio/internal/pipeline"
	"github.com/expeditionrm/revenue-studio/internal/service"
	"github.com/expeditionrm/revenue-studio/internal/snapshot"
	"github.com/expeditionrm/revenue-studio/pkg/logger"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	logger.SetLevel(cfg.App.LogLevel)
	if cfg.App.LogFile != "" {
		logger.EnableFileOutput(cfg.App.LogFile)
	}
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	analysisDate, err := config.ParseAnalysisDate(cfg.App.AnalysisDate)
	if err != nil {
		log.Fatalf("Invalid ANALYSIS_DATE: %v", err)
	}

	// Initialize cache
	dashboardCache, err := cache.NewDashboardCache(cfg.Cache)
	if err != nil {
		log.Fatalf("Failed to connect to redis: %v", err)
	}

	// Initialize services over the snapshot tables
	params := pipeline.ParamsFromPolicy(cfg.Policy)
	store := snapshot.NewStore(cfg.App.DataDir, cfg.App.OutputDir)
	revenue := service.NewRevenueService(pipeline.NewRunner(store, params), dashboardCache, params.Impact)

	if err := revenue.Refresh(context.Background(), analysisDate); err != nil {
		log.Fatalf("Failed to build analytics view: %v", err)
	}

	// Optional scheduled re-run over refreshed snapshot files
	var scheduler *cron.Cron
	if cfg.Server.RefreshCron != "" {
		scheduler = cron.New()
		if _, err := scheduler.AddFunc(cfg.Server.RefreshCron, func() {
			if err := revenue.Refresh(context.Background(), analysisDate); err != nil {
				logger.Log.Error().Err(err).Msg("Scheduled refresh failed")
			}
		}); err != nil {
			log.Fatalf("Invalid SERVER_REFRESH_CRON: %v", err)
		}
		scheduler.Start()
		logger.Log.Info().Str("schedule", cfg.Server.RefreshCron).Msg("Refresh schedule active")
	}

	// Initialize HTTP server
	router := api.NewRouter(revenue, cfg.Server.AllowedOrigins)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Log.Info().
			Str("port", cfg.Server.Port).
			Str("analysis_date", analysisDate.Format("2006-01-02")).
			Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down server...")

	if scheduler != nil {
		scheduler.Stop()
	}

	// The context is used to inform the server it has 5 seconds to finish
	// the request it is currently handling
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
}
