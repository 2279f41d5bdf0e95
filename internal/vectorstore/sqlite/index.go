// Package sqlite точный векторный поиск перебором поверх BLOB в SQLite.
// Все векторы держатся в памяти, для десятков тысяч записей этого достаточно
package sqlite

import (
	"container/heap"
	"context"
	"database/sql"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"

	"cashflow-sentinel/internal/models"
	"cashflow-sentinel/internal/vectorstore"
)

type Index struct {
	db *sql.DB

	mu          sync.RWMutex
	collections map[string]int // имя -> размерность
	records     map[string]map[string]models.VectorRecord
}

var _ vectorstore.Index = (*Index)(nil)

// NewIndex создает таблицы при необходимости и загружает векторы в память
func NewIndex(db *sql.DB) (*Index, error) {
	idx := &Index{
		db:          db,
		collections: make(map[string]int),
		records:     make(map[string]map[string]models.VectorRecord),
	}
	if err := idx.migrate(); err != nil {
		return nil, fmt.Errorf("vector index migrate: %w", err)
	}
	if err := idx.loadAll(); err != nil {
		return nil, fmt.Errorf("vector index load: %w", err)
	}
	return idx, nil
}

func (i *Index) migrate() error {
	_, err := i.db.Exec(`
		CREATE TABLE IF NOT EXISTS vector_collections (
			name       TEXT PRIMARY KEY,
			dimensions INTEGER NOT NULL
		);
		CREATE TABLE IF NOT EXISTS vector_records (
			collection TEXT NOT NULL,
			id         TEXT NOT NULL,
			owner_id   TEXT NOT NULL,
			embedding  BLOB NOT NULL,
			dimensions INTEGER NOT NULL,
			text       TEXT NOT NULL DEFAULT '',
			metadata   TEXT NOT NULL DEFAULT '',
			role       TEXT NOT NULL DEFAULT '',
			timestamp  INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (collection, id)
		);
		CREATE INDEX IF NOT EXISTS idx_vector_records_owner ON vector_records(collection, owner_id, timestamp);
	`)
	return err
}

func (i *Index) loadAll() error {
	rows, err := i.db.Query("SELECT name, dimensions FROM vector_collections")
	if err != nil {
		return err
	}
	for rows.Next() {
		var name string
		var dims int
		if err := rows.Scan(&name, &dims); err != nil {
			rows.Close()
			return err
		}
		i.collections[name] = dims
		i.records[name] = make(map[string]models.VectorRecord)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	rows, err = i.db.Query(`SELECT collection, id, owner_id, embedding, dimensions, text, metadata, role, timestamp FROM vector_records`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			coll string
			rec  models.VectorRecord
			blob []byte
			dims int
			role string
		)
		if err := rows.Scan(&coll, &rec.ID, &rec.OwnerID, &blob, &dims, &rec.Text, &rec.Metadata, &role, &rec.Timestamp); err != nil {
			return err
		}
		rec.Vector = blobToFloat32(blob, dims)
		rec.Role = models.ChatRole(role)
		if _, ok := i.records[coll]; !ok {
			continue
		}
		i.records[coll][rec.ID] = rec
	}
	return rows.Err()
}

// HasCollection сверяет кэш с vector_collections: коллекцию могли удалить
// или создать через другое соединение с тем же файлом
func (i *Index) HasCollection(ctx context.Context, name string) (bool, error) {
	var dims int
	err := i.db.QueryRowContext(ctx, `SELECT dimensions FROM vector_collections WHERE name = ?`, name).Scan(&dims)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return false, err
	}
	exists := err == nil

	i.mu.Lock()
	defer i.mu.Unlock()

	_, cached := i.collections[name]
	switch {
	case !exists && cached:
		delete(i.collections, name)
		delete(i.records, name)
	case exists && !cached:
		if err := i.loadCollection(ctx, name, dims); err != nil {
			return false, err
		}
	}
	return exists, nil
}

// loadCollection читает записи одной коллекции в кэш. Вызывается под i.mu
func (i *Index) loadCollection(ctx context.Context, name string, dims int) error {
	rows, err := i.db.QueryContext(ctx,
		`SELECT id, owner_id, embedding, dimensions, text, metadata, role, timestamp FROM vector_records WHERE collection = ?`, name)
	if err != nil {
		return err
	}
	defer rows.Close()

	recs := make(map[string]models.VectorRecord)
	for rows.Next() {
		var (
			rec   models.VectorRecord
			blob  []byte
			rdims int
			role  string
		)
		if err := rows.Scan(&rec.ID, &rec.OwnerID, &blob, &rdims, &rec.Text, &rec.Metadata, &role, &rec.Timestamp); err != nil {
			return err
		}
		rec.Vector = blobToFloat32(blob, rdims)
		rec.Role = models.ChatRole(role)
		recs[rec.ID] = rec
	}
	if err := rows.Err(); err != nil {
		return err
	}
	i.collections[name] = dims
	i.records[name] = recs
	return nil
}

func (i *Index) CreateCollection(ctx context.Context, schema vectorstore.Schema) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	_, err := i.db.ExecContext(ctx,
		`INSERT INTO vector_collections (name, dimensions) VALUES (?, ?) ON CONFLICT(name) DO NOTHING`,
		schema.Name, schema.Dimension)
	if err != nil {
		return err
	}
	if _, ok := i.collections[schema.Name]; !ok {
		i.collections[schema.Name] = schema.Dimension
		i.records[schema.Name] = make(map[string]models.VectorRecord)
	}
	return nil
}

// DropCollection удаляет коллекцию вместе с записями
func (i *Index) DropCollection(ctx context.Context, name string) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	tx, err := i.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM vector_records WHERE collection = ?`, name); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM vector_collections WHERE name = ?`, name); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	delete(i.collections, name)
	delete(i.records, name)
	return nil
}

func (i *Index) Upsert(ctx context.Context, collection string, records []models.VectorRecord) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	dims, ok := i.collections[collection]
	if !ok {
		return fmt.Errorf("%w: %s", vectorstore.ErrCollectionMissing, collection)
	}
	for _, r := range records {
		if len(r.Vector) != dims {
			return fmt.Errorf("%w: got %d, want %d", vectorstore.ErrDimensionMismatch, len(r.Vector), dims)
		}
	}

	tx, err := i.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, r := range records {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO vector_records (collection, id, owner_id, embedding, dimensions, text, metadata, role, timestamp)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(collection, id) DO UPDATE SET
				owner_id=excluded.owner_id, embedding=excluded.embedding, dimensions=excluded.dimensions,
				text=excluded.text, metadata=excluded.metadata, role=excluded.role, timestamp=excluded.timestamp
		`, collection, r.ID, r.OwnerID, float32ToBlob(r.Vector), len(r.Vector), r.Text, r.Metadata, string(r.Role), r.Timestamp)
		if err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	for _, r := range records {
		r.Vector = append([]float32(nil), r.Vector...)
		i.records[collection][r.ID] = r
	}
	return nil
}

func (i *Index) Delete(ctx context.Context, collection string, ids []string) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	if _, ok := i.collections[collection]; !ok {
		return fmt.Errorf("%w: %s", vectorstore.ErrCollectionMissing, collection)
	}
	for _, id := range ids {
		if _, err := i.db.ExecContext(ctx, `DELETE FROM vector_records WHERE collection = ? AND id = ?`, collection, id); err != nil {
			return err
		}
		delete(i.records[collection], id)
	}
	return nil
}

// Search перебирает записи владельца и держит K ближайших в куче
func (i *Index) Search(_ context.Context, collection, ownerID string, vector []float32, limit int) ([]models.MemoryHit, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()

	recs, ok := i.records[collection]
	if !ok {
		return nil, fmt.Errorf("%w: %s", vectorstore.ErrCollectionMissing, collection)
	}

	h := &maxHeap{}
	for _, r := range recs {
		if r.OwnerID != ownerID || len(r.Vector) != len(vector) {
			continue
		}
		c := candidate{rec: r, dist: l2(vector, r.Vector)}
		if h.Len() < limit {
			heap.Push(h, c)
		} else if c.closerThan((*h)[0]) {
			(*h)[0] = c
			heap.Fix(h, 0)
		}
	}

	hits := make([]models.MemoryHit, h.Len())
	for n := len(hits) - 1; n >= 0; n-- {
		c := heap.Pop(h).(candidate)
		hits[n] = toHit(c.rec, float32(c.dist))
	}
	return hits, nil
}

func (i *Index) Query(_ context.Context, collection, ownerID string, limit int) ([]models.MemoryHit, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()

	recs, ok := i.records[collection]
	if !ok {
		return nil, fmt.Errorf("%w: %s", vectorstore.ErrCollectionMissing, collection)
	}

	owned := make([]models.VectorRecord, 0)
	for _, r := range recs {
		if r.OwnerID == ownerID {
			owned = append(owned, r)
		}
	}
	sort.Slice(owned, func(a, b int) bool {
		if owned[a].Timestamp != owned[b].Timestamp {
			return owned[a].Timestamp > owned[b].Timestamp
		}
		return owned[a].ID > owned[b].ID
	})
	if len(owned) > limit {
		owned = owned[:limit]
	}

	hits := make([]models.MemoryHit, len(owned))
	for n, r := range owned {
		hits[n] = toHit(r, 0)
	}
	return hits, nil
}

func (i *Index) Close() error {
	return i.db.Close()
}

func toHit(r models.VectorRecord, dist float32) models.MemoryHit {
	return models.MemoryHit{
		ID:        r.ID,
		OwnerID:   r.OwnerID,
		Text:      r.Text,
		Metadata:  r.Metadata,
		Role:      r.Role,
		Timestamp: r.Timestamp,
		Distance:  dist,
	}
}

type candidate struct {
	rec  models.VectorRecord
	dist float64
}

// closerThan при равной дистанции порядок задает ID, чтобы выдача не зависела от обхода map
func (c candidate) closerThan(o candidate) bool {
	if c.dist != o.dist {
		return c.dist < o.dist
	}
	return c.rec.ID < o.rec.ID
}

// maxHeap в корне самый дальний из K лучших
type maxHeap []candidate

func (h maxHeap) Len() int           { return len(h) }
func (h maxHeap) Less(i, j int) bool { return h[j].closerThan(h[i]) }
func (h maxHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *maxHeap) Push(x any)        { *h = append(*h, x.(candidate)) }
func (h *maxHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

func l2(a, b []float32) float64 {
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return math.Sqrt(sum)
}

func float32ToBlob(v []float32) []byte {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

func blobToFloat32(b []byte, dims int) []float32 {
	v := make([]float32, dims)
	for i := 0; i < dims && i*4+4 <= len(b); i++ {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return v
}
