package main

import (
	"fmt"
	"os"
	"time"

	"smartcity-service/internal/auth"
	"smartcity-service/internal/config"
	"smartcity-service/internal/db"
	httphandler "smartcity-service/internal/http"
	"smartcity-service/internal/http/middleware"
	"smartcity-service/internal/logger"
	"smartcity-service/internal/metrics"
	"smartcity-service/internal/repository"
	"smartcity-service/internal/service"
	"smartcity-service/internal/vision"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	appLogger := logger.New(cfg.Environment)
	metrics.RegisterDefault()

	database, err := db.New(cfg, appLogger)
	if err != nil {
		appLogger.Fatal().Err(err).Msg("failed to connect database")
	}

	deviceRepo := repository.NewDeviceRepository(database)
	wasteRepo := repository.NewWasteRepository(database)
	statsRepo := repository.NewStatsRepository(database)

	visionClient := vision.NewClient(
		cfg.Vision.Endpoint,
		cfg.Vision.APIKey,
		time.Duration(cfg.Vision.TimeoutSeconds)*time.Second,
		appLogger,
	)

	sensorService := service.NewSensorService(deviceRepo, appLogger)
	dispatchService := service.NewDispatchService(wasteRepo, cfg.Dispatch, appLogger)
	routeService := service.NewRouteService(wasteRepo, cfg.Routes, appLogger)
	analyticsService := service.NewAnalyticsService(wasteRepo, statsRepo, cfg.Predictions, appLogger)
	analysisService := service.NewAnalysisService(wasteRepo, visionClient, appLogger)

	tokenParser := auth.NewParser(cfg.Auth.AccessSecret)

	handler := httphandler.NewHandler(
		sensorService,
		dispatchService,
		routeService,
		analyticsService,
		analysisService,
		appLogger,
	)
	authMiddleware := middleware.Auth(tokenParser)
	router := httphandler.NewRouter(handler, authMiddleware, cfg.Environment)

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	appLogger.Info().Str("addr", addr).Msg("starting smartcity service")

	if err := router.Run(addr); err != nil {
		appLogger.Error().Err(err).Msg("failed to start server")
		os.Exit(1)
	}
}
