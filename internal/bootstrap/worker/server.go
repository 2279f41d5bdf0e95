package worker

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cashflow-sentinel/internal/api/rest"
	"cashflow-sentinel/internal/config"
	"cashflow-sentinel/internal/detection"
	"cashflow-sentinel/internal/logger"

	"github.com/gin-gonic/gin"
)

// StartAnomalyWorker запускает Kafka consumer, планировщик детекции и служебный HTTP
func StartAnomalyWorker() {
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

	// Запуск Kafka consumer в отдельной горутине
	if deps.KafkaConsumer != nil {
		go func() {
			log.Info().Msg("Starting Kafka consumer...")
			if err := deps.KafkaConsumer.Start(ctx); err != nil {
				log.Error().Err(err).Msg("Kafka consumer stopped")
				cancel()
			}
		}()
	}

	scheduler := detection.NewScheduler(deps.Orchestrator, cfg.Detection.Interval, log)
	go scheduler.Start(ctx)

	// Настройка REST API
	router := gin.New()
	router.Use(rest.CORSMiddleware())
	router.Use(gin.Logger(), gin.Recovery())

	var stats alertStats
	if deps.Redis != nil {
		stats = deps.Redis
	}
	SetupRoutes(router, deps.Orchestrator, stats)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.WorkerPort),
		Handler: router,
	}

	go func() {
		log.Info().Int("port", cfg.Server.WorkerPort).Msg("Anomaly worker starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case <-ctx.Done():
	}

	log.Info().Msg("Shutting down services...")
	scheduler.Stop()
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Services exited")
}
