package detection

import (
	"testing"
	"time"

	"cashflow-sentinel/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeatureExtractor_Extract(t *testing.T) {
	fe, err := NewFeatureExtractor([]string{"amount", "Weekday", "category"})
	require.NoError(t, err)
	assert.Equal(t, []string{"amount", "weekday", "category"}, fe.Names())

	monday := time.Date(2024, 4, 1, 10, 0, 0, 0, time.UTC)
	txs := []models.Transaction{
		{Date: monday, Amount: decimal.NewFromInt(100), Type: models.TransactionIn, Category: "Penjualan"},
		{Date: monday, Amount: decimal.NewFromInt(40), Type: models.TransactionOut, Category: "Gaji"},
		{Date: monday.AddDate(0, 0, 1), Amount: decimal.NewFromInt(60), Type: models.TransactionIn, Category: "penjualan"},
		{Date: monday, Amount: decimal.NewFromInt(10), Type: models.TransactionOut, Category: "Listrik"},
	}

	points := fe.Extract(txs)
	require.Len(t, points, 4)
	assert.Equal(t, []float64{100, 1, 0.5}, points[0])
	assert.Equal(t, []float64{-40, 1, 0.25}, points[1])
	assert.Equal(t, []float64{60, 2, 0.5}, points[2])
}

func TestFeatureExtractor_DefaultsToAmount(t *testing.T) {
	fe, err := NewFeatureExtractor(nil)
	require.NoError(t, err)
	assert.Equal(t, []string{FeatureAmount}, fe.Names())
}
