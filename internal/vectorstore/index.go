// Package vectorstore хранит эмбеддинги транзакций и реплик чата с фильтром по владельцу.
//
// Index это бэкенд (Qdrant или SQLite), Collection поверх него гарантирует,
// что коллекция существует перед каждой операцией.
package vectorstore

import (
	"context"
	"errors"

	"cashflow-sentinel/internal/models"
)

const (
	DefaultTransactionCollection = "transactions_v2"
	DefaultChatCollection        = "chat_history_v2"
	DefaultDimension             = 768
)

var (
	ErrDimensionMismatch = errors.New("vectorstore: vector dimension does not match collection")
	ErrCollectionMissing = errors.New("vectorstore: collection does not exist")
)

// Schema описывает коллекцию. Метрика всегда L2
type Schema struct {
	Name      string
	Dimension int
}

// Index бэкенд векторного хранилища.
// Search возвращает ближайшие по L2, Query последние по timestamp (новые первыми)
type Index interface {
	HasCollection(ctx context.Context, name string) (bool, error)
	CreateCollection(ctx context.Context, schema Schema) error
	Upsert(ctx context.Context, collection string, records []models.VectorRecord) error
	Delete(ctx context.Context, collection string, ids []string) error
	Search(ctx context.Context, collection, ownerID string, vector []float32, limit int) ([]models.MemoryHit, error)
	Query(ctx context.Context, collection, ownerID string, limit int) ([]models.MemoryHit, error)
	Close() error
}

// Embedder переводит текст в вектор. embedding.Provider удовлетворяет интерфейсу
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}
