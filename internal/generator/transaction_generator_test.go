package generator

import (
	"context"
	"errors"
	"testing"
	"time"

	"cashflow-sentinel/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTransactionGenerator(t *testing.T) {
	gen := NewTransactionGenerator(0)
	require.NotNil(t, gen)
	assert.NotNil(t, gen.rand)
}

func TestTransactionGenerator_Normal(t *testing.T) {
	gen := NewTransactionGenerator(1)

	for i := 0; i < 50; i++ {
		tx := gen.GenerateTransaction("biz-1", gen.now(), ProfileNormal)
		require.NotNil(t, tx)

		assert.NotEmpty(t, tx.ID)
		assert.Equal(t, "biz-1", tx.BusinessID)
		assert.True(t, tx.Type.Valid())
		assert.NotEmpty(t, tx.Category)
		assert.NotEmpty(t, tx.Description)
		assert.True(t, tx.Amount.IsPositive())
		assert.True(t, tx.Amount.LessThanOrEqual(decimal.NewFromInt(2000000)))
		// Суммы кратны тысяче
		assert.True(t, tx.Amount.Mod(decimal.NewFromInt(1000)).IsZero())
	}
}

func TestTransactionGenerator_Spike(t *testing.T) {
	gen := NewTransactionGenerator(2)

	tx := gen.GenerateTransaction("biz-1", gen.now(), ProfileSpike)
	assert.Equal(t, models.TransactionOut, tx.Type)
	assert.True(t, tx.Amount.GreaterThanOrEqual(decimal.NewFromInt(20000000)))
}

func TestTransactionGenerator_History(t *testing.T) {
	gen := NewTransactionGenerator(3)

	txs := gen.GenerateHistory("biz-1", 30, 2)
	require.Len(t, txs, 30)

	spikes := 0
	for i, tx := range txs {
		if tx.Amount.GreaterThanOrEqual(decimal.NewFromInt(20000000)) {
			spikes++
		}
		if i > 0 {
			assert.True(t, tx.Date.After(txs[i-1].Date))
		}
	}
	assert.Equal(t, 2, spikes)

	assert.Len(t, gen.GenerateHistory("biz-1", 3, 10), 3)
}

func TestTransactionGenerator_Deterministic(t *testing.T) {
	date := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	a := NewTransactionGenerator(42).GenerateTransaction("b", date, ProfileNormal)
	b := NewTransactionGenerator(42).GenerateTransaction("b", date, ProfileNormal)
	assert.Equal(t, a.Description, b.Description)
	assert.True(t, a.Amount.Equal(b.Amount))
}

type memStore struct {
	businesses []*models.Business
	txs        []*models.Transaction
	failAfter  int
}

func (m *memStore) SaveBusiness(_ context.Context, b *models.Business) error {
	m.businesses = append(m.businesses, b)
	return nil
}

func (m *memStore) SaveTransaction(_ context.Context, tx *models.Transaction) error {
	if m.failAfter > 0 && len(m.txs) >= m.failAfter {
		return errors.New("disk full")
	}
	m.txs = append(m.txs, tx)
	return nil
}

func TestTransactionGenerator_Seed(t *testing.T) {
	store := &memStore{}
	created, err := NewTransactionGenerator(5).Seed(context.Background(), store, 3, 20, 1)
	require.NoError(t, err)
	require.Len(t, created, 3)
	assert.Len(t, store.txs, 60)
	assert.NotEqual(t, created[0].UserID, created[1].UserID)

	failing := &memStore{failAfter: 5}
	created, err = NewTransactionGenerator(5).Seed(context.Background(), failing, 2, 10, 0)
	require.Error(t, err)
	assert.Empty(t, created)
}
