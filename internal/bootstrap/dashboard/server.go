package dashboard

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "cashflow-sentinel/docs" // Swagger docs
	"cashflow-sentinel/internal/api/rest"
	"cashflow-sentinel/internal/config"
	"cashflow-sentinel/internal/detection"
	"cashflow-sentinel/internal/logger"
)

// StartDashboardService запускает REST API дашборда
func StartDashboardService() {
	cfg := config.Load()
	log := logger.New().With().Str("service", serviceName).Logger()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Инициализация зависимостей
	deps, err := InitializeDependencies(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize dependencies")
	}
	defer deps.Close()

	// Без Kafka воркера нет, пакетную детекцию запускает сам дашборд
	var scheduler *detection.Scheduler
	if deps.KafkaProducer == nil {
		scheduler = detection.NewScheduler(deps.Orchestrator, cfg.Detection.Interval, log)
		go scheduler.Start(ctx)
	}

	// Настройка REST API
	handlers := rest.NewHandlers(deps.TransactionService, deps.Orchestrator, deps.Alerts, deps.Repo, deps.Retrieval, deps.Tools)
	router := rest.SetupRouter(handlers)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.DashboardPort),
		Handler: router,
	}

	go func() {
		log.Info().Int("port", cfg.Server.DashboardPort).Msg("Dashboard service starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")
	if scheduler != nil {
		scheduler.Stop()
	}
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
