package worker

import (
	"context"
	"errors"

	"cashflow-sentinel/internal/bootstrap"
	"cashflow-sentinel/internal/config"
	"cashflow-sentinel/internal/kafka"
	"cashflow-sentinel/internal/services"

	"github.com/rs/zerolog"
)

const serviceName = "anomaly-worker"

// Dependencies содержит все зависимости для anomaly worker
type Dependencies struct {
	*bootstrap.Core
	Processor     *services.EventProcessor
	KafkaConsumer kafka.Consumer
}

// InitializeDependencies инициализирует все зависимости для anomaly worker
func InitializeDependencies(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Dependencies, error) {
	core, err := bootstrap.NewCore(ctx, cfg, serviceName, log)
	if err != nil {
		return nil, err
	}
	deps := &Dependencies{Core: core}

	// Обработчик Kafka событий: векторная синхронизация и проверка бизнеса
	deps.Processor = services.NewEventProcessor(core.Repo, core.TransactionMemory, core.Orchestrator, serviceName, log)

	if cfg.Kafka.Enabled {
		log.Info().Strs("brokers", cfg.Kafka.Brokers).Msg("Connecting to Kafka...")
		consumer, err := kafka.NewConsumer(cfg, serviceName, deps.Processor.Handle)
		if err != nil {
			core.Close()
			return nil, err
		}
		log.Info().Msg("Kafka consumer connected successfully")
		deps.KafkaConsumer = consumer
	}

	return deps, nil
}

// Close закрывает все соединения
func (d *Dependencies) Close() error {
	var errs []error
	if d.KafkaConsumer != nil {
		errs = append(errs, d.KafkaConsumer.Close())
	}
	errs = append(errs, d.Core.Close())
	return errors.Join(errs...)
}
