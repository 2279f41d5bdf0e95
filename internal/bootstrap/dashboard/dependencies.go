package dashboard

import (
	"context"
	"errors"

	"cashflow-sentinel/internal/bootstrap"
	"cashflow-sentinel/internal/config"
	"cashflow-sentinel/internal/kafka"
	"cashflow-sentinel/internal/retrieval"
	"cashflow-sentinel/internal/services"
	"cashflow-sentinel/internal/tools"

	"github.com/rs/zerolog"
)

const serviceName = "dashboard-service"

// Dependencies содержит все зависимости для dashboard service
type Dependencies struct {
	*bootstrap.Core
	KafkaProducer      kafka.Producer
	TransactionService *services.TransactionServiceImpl
	Retrieval          *retrieval.Service
	Tools              *tools.Registry
}

// InitializeDependencies инициализирует все зависимости для dashboard service
func InitializeDependencies(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Dependencies, error) {
	core, err := bootstrap.NewCore(ctx, cfg, serviceName, log)
	if err != nil {
		return nil, err
	}
	deps := &Dependencies{Core: core}

	opts := []services.Option{
		services.WithVectorIndex(core.TransactionMemory),
		services.WithTrigger(core.Trigger),
		services.WithSyncTimeout(cfg.Vector.SyncTimeout),
	}

	// С Kafka индексацию и детекцию делает воркер
	if cfg.Kafka.Enabled {
		log.Info().Strs("brokers", cfg.Kafka.Brokers).Msg("Connecting to Kafka...")
		producer, err := kafka.NewProducer(cfg)
		if err != nil {
			log.Warn().Err(err).Msg("Kafka unavailable, falling back to in-process sync")
		} else {
			log.Info().Msg("Kafka producer connected successfully")
			deps.KafkaProducer = producer
			opts = append(opts, services.WithProducer(producer))
		}
	}

	deps.TransactionService = services.NewTransactionService(core.Repo, serviceName, log, opts...)
	deps.Retrieval = retrieval.NewService(core.TransactionMemory, core.ChatMemory)
	deps.Tools = tools.NewRegistry(
		tools.NewSearchTransactions(deps.Retrieval, log),
		tools.NewCheckAnomalies(core.Alerts, log),
		tools.NewSaveTransaction(deps.TransactionService, log),
	)

	return deps, nil
}

// Close дожидается фоновой синхронизации и закрывает соединения
func (d *Dependencies) Close() error {
	if d.TransactionService != nil {
		d.TransactionService.Wait()
	}
	var errs []error
	if d.KafkaProducer != nil {
		errs = append(errs, d.KafkaProducer.Close())
	}
	errs = append(errs, d.Core.Close())
	return errors.Join(errs...)
}
