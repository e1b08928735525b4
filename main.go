package main

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"pulse/config"
	"pulse/database"
	"pulse/handlers"
	"pulse/logger"
	"pulse/middleware"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		l := logger.Get()
		l.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if err := logger.Init(cfg.Log); err != nil {
		l := logger.Get()
		l.Fatal().Err(err).Msg("Invalid log configuration")
	}
	log := logger.With("main")

	ctx, cancel := context.WithTimeout(context.Background(),
		time.Duration(cfg.Database.ConnTimeoutSecs)*time.Second)
	defer cancel()

	db, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(), middleware.Metrics())

	r.GET("/health", handlers.HealthCheck)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.POST("/logs", handlers.CreateLog(db))
	r.GET("/logs", handlers.SearchLogs(db))
	r.GET("/logs/errors", handlers.ErrorLogs(db))
	r.GET("/logs/slow", handlers.HighDurationLogs(db))
	r.GET("/logs/range", handlers.LogsByDateRange(db))
	r.GET("/logs/:id", handlers.GetLog(db))
	r.PUT("/logs/:id", handlers.UpdateLog(db))
	r.DELETE("/logs/:id", handlers.DeleteLog(db))
	r.POST("/logs/cleanup", handlers.CleanupLogs(db))

	r.GET("/organizations/overview", handlers.OrganizationsOverview(db))
	r.GET("/organizations/logs", handlers.LogsByOrganizationName(db))
	r.GET("/organizations/:id/logs", handlers.LogsByOrganization(db))
	r.GET("/organizations/:id/statistics", handlers.OrganizationStatistics(db))
	r.GET("/organizations/:id/services", handlers.OrganizationServices(db))

	r.GET("/services/recent", handlers.RecentServices(db))
	r.GET("/services/:name/logs", handlers.LogsByService(db))
	r.GET("/services/:name/statistics", handlers.ServiceStatistics(db))

	r.GET("/statistics", handlers.GlobalStatistics(db))

	log.Info().Str("port", cfg.Server.Port).Msg("Server starting")
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.Fatal().Err(err).Msg("Server stopped")
	}
}
