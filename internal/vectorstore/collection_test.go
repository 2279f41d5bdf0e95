package vectorstore_test

import (
	"context"
	"errors"
	"hash/fnv"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	embeddingmocks "cashflow-sentinel/internal/embedding/mocks"
	"cashflow-sentinel/internal/models"
	"cashflow-sentinel/internal/vectorstore"
	vecsqlite "cashflow-sentinel/internal/vectorstore/sqlite"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testDim = 64

// hashEmbedder раскладывает слова текста по корзинам, одинаковые тексты дают одинаковый вектор
type hashEmbedder struct {
	fail bool
}

func (e hashEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	if e.fail {
		return nil, errors.New("embedding quota exceeded")
	}
	v := make([]float32, testDim)
	for _, w := range strings.Fields(strings.ToLower(text)) {
		h := fnv.New32a()
		h.Write([]byte(w))
		v[h.Sum32()%testDim]++
	}
	return v, nil
}

func newIndex(t *testing.T) *vecsqlite.Index {
	idx, err := vecsqlite.Open(filepath.Join(t.TempDir(), "vectors.db"))
	require.NoError(t, err)
	t.Cleanup(func() { idx.Close() })
	return idx
}

func TestCollection_EnsureRecreatesAfterReset(t *testing.T) {
	idx := newIndex(t)
	coll := vectorstore.NewCollection(idx, vectorstore.Schema{Name: "transactions_v2", Dimension: 2})
	ctx := context.Background()

	require.NoError(t, coll.Upsert(ctx, models.VectorRecord{ID: "a", OwnerID: "u", Vector: []float32{1, 0}}))
	require.NoError(t, idx.DropCollection(ctx, "transactions_v2"))

	hits, err := coll.Search(ctx, "u", []float32{1, 0}, 5)
	require.NoError(t, err)
	assert.Empty(t, hits)

	require.NoError(t, coll.Upsert(ctx, models.VectorRecord{ID: "b", OwnerID: "u", Vector: []float32{0, 1}}))
	hits, err = coll.Search(ctx, "u", []float32{0, 1}, 5)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "b", hits[0].ID)
}

func TestCollection_ConcurrentFirstUse(t *testing.T) {
	idx := newIndex(t)
	coll := vectorstore.NewCollection(idx, vectorstore.Schema{Name: "c", Dimension: 1})
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for n := 0; n < 8; n++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			errs <- coll.Upsert(ctx, models.VectorRecord{ID: string(rune('a' + n)), OwnerID: "u", Vector: []float32{float32(n)}})
		}(n)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	hits, err := coll.ListChronological(ctx, "u", 100)
	require.NoError(t, err)
	assert.Len(t, hits, 8)
}

func TestCollection_DimensionMismatch(t *testing.T) {
	coll := vectorstore.NewCollection(newIndex(t), vectorstore.Schema{Name: "c", Dimension: 4})
	ctx := context.Background()

	err := coll.Upsert(ctx, models.VectorRecord{ID: "a", Vector: []float32{1}})
	assert.ErrorIs(t, err, vectorstore.ErrDimensionMismatch)

	_, err = coll.Search(ctx, "u", []float32{1, 2}, 3)
	assert.ErrorIs(t, err, vectorstore.ErrDimensionMismatch)
}

func TestCollection_LimitZero(t *testing.T) {
	coll := vectorstore.NewCollection(newIndex(t), vectorstore.Schema{Name: "c", Dimension: 1})
	hits, err := coll.Search(context.Background(), "u", []float32{1}, 0)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestTransactionMemory_RoundTripAndOwnerIsolation(t *testing.T) {
	idx := newIndex(t)
	coll := vectorstore.NewCollection(idx, vectorstore.Schema{Name: vectorstore.DefaultTransactionCollection, Dimension: testDim})
	mem := vectorstore.NewTransactionMemory(coll, hashEmbedder{})
	ctx := context.Background()

	tx := models.Transaction{
		ID:          "tx-42",
		Date:        time.Date(2024, 2, 14, 0, 0, 0, 0, time.UTC),
		Amount:      decimal.NewFromInt(750000),
		Type:        models.TransactionOut,
		Category:    "Sewa",
		Description: "Bayar sewa ruko",
	}
	require.NoError(t, mem.Index(ctx, "alice", tx))
	require.NoError(t, mem.Index(ctx, "bob", models.Transaction{
		ID: "tx-bob", Date: tx.Date, Amount: decimal.NewFromInt(1), Type: models.TransactionIn, Description: "Bayar sewa ruko",
	}))

	hits, err := mem.Search(ctx, "alice", vectorstore.TransactionText(tx), 1)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "tx-42", hits[0].ID)
	assert.Equal(t, "2024-02-14 - Bayar sewa ruko - 750000 - Sewa - out", hits[0].Text)
	assert.InDelta(t, 0.0, hits[0].Distance, 1e-6)
	assert.JSONEq(t, `{"amount":750000,"date":"2024-02-14T00:00:00Z","category":"Sewa","type":"out","description":"Bayar sewa ruko"}`, hits[0].Metadata)

	hits, err = mem.Search(ctx, "bob", "sewa", 10)
	require.NoError(t, err)
	for _, h := range hits {
		assert.Equal(t, "bob", h.OwnerID)
	}

	require.NoError(t, mem.Remove(ctx, "tx-42"))
	hits, err = mem.Search(ctx, "alice", "sewa", 10)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestTransactionMemory_EmbedFailure(t *testing.T) {
	coll := vectorstore.NewCollection(newIndex(t), vectorstore.Schema{Name: "c", Dimension: testDim})
	mem := vectorstore.NewTransactionMemory(coll, hashEmbedder{fail: true})

	err := mem.Index(context.Background(), "u", models.Transaction{ID: "x"})
	assert.Error(t, err)
}

func TestTransactionMemory_SearchEmbedError(t *testing.T) {
	coll := vectorstore.NewCollection(newIndex(t), vectorstore.Schema{Name: "c", Dimension: testDim})
	embedder := new(embeddingmocks.MockProvider)
	embedder.On("Embed", mock.Anything, "kopi").Return(nil, errors.New("rate limited"))
	mem := vectorstore.NewTransactionMemory(coll, embedder)

	hits, err := mem.Search(context.Background(), "u", "kopi", 5)
	assert.Error(t, err)
	assert.Nil(t, hits)
	embedder.AssertExpectations(t)
}

func TestChatMemory_HistoryIsChronological(t *testing.T) {
	coll := vectorstore.NewCollection(newIndex(t), vectorstore.Schema{Name: vectorstore.DefaultChatCollection, Dimension: testDim})
	mem := vectorstore.NewChatMemory(coll, hashEmbedder{})
	ctx := context.Background()

	messages := []string{"halo", "berapa pengeluaran bulan ini", "total 5 juta", "terima kasih"}
	for n, msg := range messages {
		role := models.RoleUser
		if n%2 == 1 {
			role = models.RoleAssistant
		}
		_, err := mem.Append(ctx, "alice", role, msg)
		require.NoError(t, err)
		time.Sleep(2 * time.Millisecond)
	}
	_, err := mem.Append(ctx, "bob", models.RoleUser, "rahasia bob")
	require.NoError(t, err)

	turns, err := mem.History(ctx, "alice", 3)
	require.NoError(t, err)
	require.Len(t, turns, 3)
	assert.Equal(t, "berapa pengeluaran bulan ini", turns[0].Content)
	assert.Equal(t, "terima kasih", turns[2].Content)
	assert.Equal(t, models.RoleAssistant, turns[0].Role)
	assert.True(t, turns[0].Timestamp.Before(turns[2].Timestamp))

	relevant, err := mem.Relevant(ctx, "alice", "pengeluaran bulan ini", 1)
	require.NoError(t, err)
	require.Len(t, relevant, 1)
	assert.Equal(t, "berapa pengeluaran bulan ini", relevant[0].Text)

	_, err = mem.Append(ctx, "alice", models.RoleUser, "   ")
	assert.Error(t, err)
}
