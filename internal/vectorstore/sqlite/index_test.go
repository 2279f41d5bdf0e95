package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"cashflow-sentinel/internal/models"
	"cashflow-sentinel/internal/vectorstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestIndex(t *testing.T, path string) *Index {
	idx, err := Open(path)
	require.NoError(t, err)
	return idx
}

func TestIndex_CollectionLifecycle(t *testing.T) {
	idx := openTestIndex(t, filepath.Join(t.TempDir(), "vec.db"))
	defer idx.Close()
	ctx := context.Background()

	ok, err := idx.HasCollection(ctx, "c")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, idx.CreateCollection(ctx, vectorstore.Schema{Name: "c", Dimension: 2}))
	require.NoError(t, idx.CreateCollection(ctx, vectorstore.Schema{Name: "c", Dimension: 2}))
	ok, _ = idx.HasCollection(ctx, "c")
	assert.True(t, ok)

	require.NoError(t, idx.DropCollection(ctx, "c"))
	ok, _ = idx.HasCollection(ctx, "c")
	assert.False(t, ok)

	err = idx.Upsert(ctx, "c", []models.VectorRecord{{ID: "x", Vector: []float32{1, 2}}})
	assert.ErrorIs(t, err, vectorstore.ErrCollectionMissing)
}

func TestIndex_SearchOrdersByDistance(t *testing.T) {
	idx := openTestIndex(t, filepath.Join(t.TempDir(), "vec.db"))
	defer idx.Close()
	ctx := context.Background()
	require.NoError(t, idx.CreateCollection(ctx, vectorstore.Schema{Name: "c", Dimension: 2}))

	require.NoError(t, idx.Upsert(ctx, "c", []models.VectorRecord{
		{ID: "far", OwnerID: "u1", Vector: []float32{10, 10}, Text: "far"},
		{ID: "near", OwnerID: "u1", Vector: []float32{1, 0}, Text: "near"},
		{ID: "mid", OwnerID: "u1", Vector: []float32{3, 4}, Text: "mid"},
		{ID: "other", OwnerID: "u2", Vector: []float32{0, 0}, Text: "other"},
	}))

	hits, err := idx.Search(ctx, "c", "u1", []float32{0, 0}, 2)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "near", hits[0].ID)
	assert.InDelta(t, 1.0, hits[0].Distance, 1e-6)
	assert.Equal(t, "mid", hits[1].ID)
	assert.InDelta(t, 5.0, hits[1].Distance, 1e-6)

	hits, err = idx.Search(ctx, "c", "nobody", []float32{0, 0}, 5)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestIndex_UpsertReplacesAndPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vec.db")
	idx := openTestIndex(t, path)
	ctx := context.Background()
	require.NoError(t, idx.CreateCollection(ctx, vectorstore.Schema{Name: "c", Dimension: 3}))

	require.NoError(t, idx.Upsert(ctx, "c", []models.VectorRecord{{ID: "a", OwnerID: "u", Vector: []float32{1, 1, 1}, Text: "v1"}}))
	require.NoError(t, idx.Upsert(ctx, "c", []models.VectorRecord{{ID: "a", OwnerID: "u", Vector: []float32{2, 2, 2}, Text: "v2", Timestamp: 7}}))
	require.NoError(t, idx.Close())

	reopened := openTestIndex(t, path)
	defer reopened.Close()

	hits, err := reopened.Query(ctx, "c", "u", 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "v2", hits[0].Text)
	assert.Equal(t, int64(7), hits[0].Timestamp)

	found, err := reopened.Search(ctx, "c", "u", []float32{2, 2, 2}, 1)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.InDelta(t, 0.0, found[0].Distance, 1e-6)
}

func TestIndex_DeleteAndQueryOrder(t *testing.T) {
	idx := openTestIndex(t, filepath.Join(t.TempDir(), "vec.db"))
	defer idx.Close()
	ctx := context.Background()
	require.NoError(t, idx.CreateCollection(ctx, vectorstore.Schema{Name: "c", Dimension: 1}))

	require.NoError(t, idx.Upsert(ctx, "c", []models.VectorRecord{
		{ID: "t1", OwnerID: "u", Vector: []float32{1}, Timestamp: 100},
		{ID: "t3", OwnerID: "u", Vector: []float32{3}, Timestamp: 300},
		{ID: "t2", OwnerID: "u", Vector: []float32{2}, Timestamp: 200},
	}))

	hits, err := idx.Query(ctx, "c", "u", 2)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "t3", hits[0].ID)
	assert.Equal(t, "t2", hits[1].ID)

	require.NoError(t, idx.Delete(ctx, "c", []string{"t3", "missing"}))
	hits, err = idx.Query(ctx, "c", "u", 10)
	require.NoError(t, err)
	assert.Len(t, hits, 2)
}

func TestBlobRoundTrip(t *testing.T) {
	v := []float32{0.5, -1.25, 3}
	assert.Equal(t, v, blobToFloat32(float32ToBlob(v), len(v)))
}

func TestIndex_HasCollectionSeesExternalReset(t *testing.T) {
	idx := openTestIndex(t, filepath.Join(t.TempDir(), "vec.db"))
	defer idx.Close()
	ctx := context.Background()

	require.NoError(t, idx.CreateCollection(ctx, vectorstore.Schema{Name: "c", Dimension: 2}))
	require.NoError(t, idx.Upsert(ctx, "c", []models.VectorRecord{{ID: "x", OwnerID: "u", Vector: []float32{1, 2}}}))

	// Сброс через то же соединение в обход Index
	_, err := idx.db.ExecContext(ctx, `DELETE FROM vector_records WHERE collection = 'c'`)
	require.NoError(t, err)
	_, err = idx.db.ExecContext(ctx, `DELETE FROM vector_collections WHERE name = 'c'`)
	require.NoError(t, err)

	ok, err := idx.HasCollection(ctx, "c")
	require.NoError(t, err)
	assert.False(t, ok)

	err = idx.Upsert(ctx, "c", []models.VectorRecord{{ID: "y", OwnerID: "u", Vector: []float32{1, 2}}})
	assert.ErrorIs(t, err, vectorstore.ErrCollectionMissing)

	// Collection пересоздает коллекцию и продолжает работу
	coll := vectorstore.NewCollection(idx, vectorstore.Schema{Name: "c", Dimension: 2})
	require.NoError(t, coll.Upsert(ctx, models.VectorRecord{ID: "y", OwnerID: "u", Vector: []float32{1, 2}}))
	hits, err := coll.Search(ctx, "u", []float32{1, 2}, 5)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "y", hits[0].ID)
}

func TestIndex_HasCollectionLoadsForeignCollection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vec.db")
	a := openTestIndex(t, path)
	defer a.Close()
	b := openTestIndex(t, path)
	defer b.Close()
	ctx := context.Background()

	require.NoError(t, a.CreateCollection(ctx, vectorstore.Schema{Name: "c", Dimension: 2}))
	require.NoError(t, a.Upsert(ctx, "c", []models.VectorRecord{{ID: "x", OwnerID: "u", Vector: []float32{1, 2}}}))

	ok, err := b.HasCollection(ctx, "c")
	require.NoError(t, err)
	assert.True(t, ok)

	hits, err := b.Search(ctx, "c", "u", []float32{1, 2}, 5)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "x", hits[0].ID)
}
