// Package bootstrap собирает общие зависимости сервисов дашборда и воркера
package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"cashflow-sentinel/internal/alerts"
	"cashflow-sentinel/internal/config"
	"cashflow-sentinel/internal/detection"
	"cashflow-sentinel/internal/embedding"
	"cashflow-sentinel/internal/enrichment"
	"cashflow-sentinel/internal/llm"
	"cashflow-sentinel/internal/redis"
	"cashflow-sentinel/internal/storage"
	"cashflow-sentinel/internal/storage/mysql"
	"cashflow-sentinel/internal/storage/sqlite"
	"cashflow-sentinel/internal/vectorstore"
	"cashflow-sentinel/internal/vectorstore/qdrant"
	vecsqlite "cashflow-sentinel/internal/vectorstore/sqlite"

	"github.com/rs/zerolog"
)

// Core зависимости, нужные обоим процессам. Redis может быть nil
type Core struct {
	Config            *config.Config
	Log               zerolog.Logger
	Repo              storage.Repository
	VectorIndex       vectorstore.Index
	Embedder          embedding.Provider
	LLM               llm.Provider
	Redis             *redis.Client
	TransactionMemory *vectorstore.TransactionMemory
	ChatMemory        *vectorstore.ChatMemory
	Alerts            *alerts.Manager
	Orchestrator      *detection.Orchestrator
	Trigger           *detection.Trigger
}

// NewCore инициализирует хранилище, векторный индекс, провайдеры и детекцию
func NewCore(ctx context.Context, cfg *config.Config, service string, log zerolog.Logger) (*Core, error) {
	c := &Core{Config: cfg, Log: log}

	repo, err := OpenStorage(cfg)
	if err != nil {
		return nil, err
	}
	c.Repo = repo

	if c.VectorIndex, err = OpenVectorIndex(cfg); err != nil {
		c.Close()
		return nil, err
	}

	if c.Embedder, err = embedding.NewProvider(ctx, cfg.Embedding, cfg.Vector.Dimension); err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to create embedding provider: %w", err)
	}
	if c.LLM, err = llm.NewProvider(ctx, cfg.LLM); err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to create llm provider: %w", err)
	}

	if cfg.Redis.Enabled {
		log.Info().Msg("Connecting to Redis...")
		client, err := redis.NewClient(cfg)
		if err != nil {
			log.Warn().Err(err).Msg("Redis unavailable, detection runs without locks and alert stats")
		} else {
			log.Info().Msg("Redis connection established")
			c.Redis = client
		}
	}

	dim := c.Embedder.Dimension()
	c.TransactionMemory = vectorstore.NewTransactionMemory(
		vectorstore.NewCollection(c.VectorIndex, vectorstore.Schema{Name: cfg.Vector.TransactionCollection, Dimension: dim}),
		c.Embedder)
	c.ChatMemory = vectorstore.NewChatMemory(
		vectorstore.NewCollection(c.VectorIndex, vectorstore.Schema{Name: cfg.Vector.ChatCollection, Dimension: dim}),
		c.Embedder)

	alertOpts := []alerts.Option{alerts.WithDedupWindow(cfg.Detection.DedupWindow)}
	var detectOpts []detection.Option
	if c.Redis != nil {
		alertOpts = append(alertOpts, alerts.WithStats(c.Redis))
		detectOpts = append(detectOpts, detection.WithLocker(c.Redis))
	}
	c.Alerts = alerts.NewManager(repo, service, log, alertOpts...)

	enricher := enrichment.NewEnricher(c.LLM, service, log)
	c.Orchestrator, err = detection.NewOrchestrator(repo, enricher, c.Alerts, cfg.Detection, service, log, detectOpts...)
	if err != nil {
		c.Close()
		return nil, err
	}
	c.Trigger = detection.NewTrigger(c.Orchestrator, cfg.Detection.TriggerTimeout, log)

	return c, nil
}

// OpenStorage открывает хранилище по STORAGE_DRIVER
func OpenStorage(cfg *config.Config) (storage.Repository, error) {
	switch cfg.Storage.Driver {
	case "", "sqlite":
		conn, err := sqlite.NewConnection(cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to SQLite: %w", err)
		}
		return sqlite.NewRepository(conn), nil
	case "mysql":
		db, err := mysql.NewConnection(cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to MySQL: %w", err)
		}
		return mysql.NewRepository(db), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

// OpenVectorIndex открывает векторный бэкенд по VECTOR_BACKEND
func OpenVectorIndex(cfg *config.Config) (vectorstore.Index, error) {
	switch cfg.Vector.Backend {
	case "", "sqlite":
		idx, err := vecsqlite.Open(cfg.Vector.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open vector index: %w", err)
		}
		return idx, nil
	case "qdrant":
		idx, err := qdrant.NewIndex(cfg.Qdrant.Host, cfg.Qdrant.Port)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to Qdrant: %w", err)
		}
		return idx, nil
	default:
		return nil, fmt.Errorf("unknown vector backend %q", cfg.Vector.Backend)
	}
}

// Close закрывает все соединения
func (c *Core) Close() error {
	var errs []error
	if c.Redis != nil {
		errs = append(errs, c.Redis.Close())
	}
	if c.VectorIndex != nil {
		errs = append(errs, c.VectorIndex.Close())
	}
	if c.Repo != nil {
		errs = append(errs, c.Repo.Close())
	}
	return errors.Join(errs...)
}
