package vectorstore

import (
	"context"
	"fmt"
	"sync"

	"cashflow-sentinel/internal/models"
)

// Collection одна коллекция со своей схемой. Каждая операция начинается с ensure,
// поэтому коллекция пересоздается, если хранилище сбросили извне
type Collection struct {
	index  Index
	schema Schema
	mu     sync.Mutex
}

func NewCollection(index Index, schema Schema) *Collection {
	if schema.Dimension <= 0 {
		schema.Dimension = DefaultDimension
	}
	return &Collection{index: index, schema: schema}
}

func (c *Collection) Schema() Schema {
	return c.schema
}

func (c *Collection) ensure(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	exists, err := c.index.HasCollection(ctx, c.schema.Name)
	if err != nil {
		return fmt.Errorf("check collection %s: %w", c.schema.Name, err)
	}
	if exists {
		return nil
	}
	if err := c.index.CreateCollection(ctx, c.schema); err != nil {
		return fmt.Errorf("create collection %s: %w", c.schema.Name, err)
	}
	return nil
}

func (c *Collection) checkDim(v []float32) error {
	if len(v) != c.schema.Dimension {
		return fmt.Errorf("%w: got %d, want %d", ErrDimensionMismatch, len(v), c.schema.Dimension)
	}
	return nil
}

// Upsert заменяет записи с теми же ID
func (c *Collection) Upsert(ctx context.Context, records ...models.VectorRecord) error {
	if len(records) == 0 {
		return nil
	}
	for _, r := range records {
		if err := c.checkDim(r.Vector); err != nil {
			return err
		}
	}
	if err := c.ensure(ctx); err != nil {
		return err
	}
	return c.index.Upsert(ctx, c.schema.Name, records)
}

// Delete удаление отсутствующего ID не считается ошибкой
func (c *Collection) Delete(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	if err := c.ensure(ctx); err != nil {
		return err
	}
	return c.index.Delete(ctx, c.schema.Name, ids)
}

// Search возвращает до limit записей владельца, ближайших к vector
func (c *Collection) Search(ctx context.Context, ownerID string, vector []float32, limit int) ([]models.MemoryHit, error) {
	if err := c.checkDim(vector); err != nil {
		return nil, err
	}
	if err := c.ensure(ctx); err != nil {
		return nil, err
	}
	if limit <= 0 {
		return []models.MemoryHit{}, nil
	}
	return c.index.Search(ctx, c.schema.Name, ownerID, vector, limit)
}

// ListChronological возвращает последние limit записей владельца по возрастанию времени
func (c *Collection) ListChronological(ctx context.Context, ownerID string, limit int) ([]models.MemoryHit, error) {
	if err := c.ensure(ctx); err != nil {
		return nil, err
	}
	if limit <= 0 {
		return []models.MemoryHit{}, nil
	}
	hits, err := c.index.Query(ctx, c.schema.Name, ownerID, limit)
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(hits)-1; i < j; i, j = i+1, j-1 {
		hits[i], hits[j] = hits[j], hits[i]
	}
	return hits, nil
}
