package retrieval

import (
	"context"
	"hash/fnv"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"cashflow-sentinel/internal/models"
	"cashflow-sentinel/internal/vectorstore"
	vecsqlite "cashflow-sentinel/internal/vectorstore/sqlite"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const dim = 64

type wordEmbedder struct{}

func (wordEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	v := make([]float32, dim)
	for _, w := range strings.Fields(strings.ToLower(text)) {
		h := fnv.New32a()
		h.Write([]byte(w))
		v[h.Sum32()%dim]++
	}
	return v, nil
}

func newService(t *testing.T) (*Service, *vectorstore.TransactionMemory) {
	idx, err := vecsqlite.Open(filepath.Join(t.TempDir(), "vectors.db"))
	require.NoError(t, err)
	t.Cleanup(func() { idx.Close() })

	txMem := vectorstore.NewTransactionMemory(
		vectorstore.NewCollection(idx, vectorstore.Schema{Name: vectorstore.DefaultTransactionCollection, Dimension: dim}),
		wordEmbedder{})
	chatMem := vectorstore.NewChatMemory(
		vectorstore.NewCollection(idx, vectorstore.Schema{Name: vectorstore.DefaultChatCollection, Dimension: dim}),
		wordEmbedder{})
	return NewService(txMem, chatMem), txMem
}

func TestService_SearchTransactions(t *testing.T) {
	svc, txMem := newService(t)
	ctx := context.Background()
	date := time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC)

	for i, desc := range []string{"Gaji karyawan", "Beli kopi susu", "Sewa ruko", "Beli kopi bubuk", "Listrik bulanan", "Bensin motor", "Pulsa"} {
		require.NoError(t, txMem.Index(ctx, "alice", models.Transaction{
			ID: string(rune('a' + i)), Date: date, Amount: decimal.NewFromInt(int64(1000 * (i + 1))),
			Type: models.TransactionOut, Category: "Operasional", Description: desc,
		}))
	}

	hits, err := svc.SearchTransactions(ctx, "alice", "kopi", 0)
	require.NoError(t, err)
	assert.Len(t, hits, DefaultSearchLimit)
	assert.Contains(t, hits[0].Text, "kopi")

	hits, err = svc.SearchTransactions(ctx, "bob", "kopi", 3)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestService_ChatFlow(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, err := svc.Remember(ctx, "alice", models.RoleUser, "berapa omzet minggu ini")
	require.NoError(t, err)
	time.Sleep(2 * time.Millisecond)
	_, err = svc.Remember(ctx, "alice", models.RoleAssistant, "omzet minggu ini Rp 12 juta")
	require.NoError(t, err)

	history, err := svc.History(ctx, "alice", 0)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, models.RoleUser, history[0].Role)
	assert.Equal(t, models.RoleAssistant, history[1].Role)

	turns, err := svc.RelevantTurns(ctx, "alice", "omzet", 0)
	require.NoError(t, err)
	assert.Len(t, turns, 2)

	turns, err = svc.RelevantTurns(ctx, "mallory", "omzet", 5)
	require.NoError(t, err)
	assert.Empty(t, turns)
}
