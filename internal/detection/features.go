package detection

import (
	"errors"
	"fmt"
	"strings"

	"cashflow-sentinel/internal/models"
)

const (
	FeatureAmount   = "amount"
	FeatureWeekday  = "weekday"
	FeatureCategory = "category"
)

var ErrUnknownFeature = errors.New("unknown detection feature")

// featureFunc вычисляет один признак транзакции. Контекст пачки нужен частотным признакам
type featureFunc func(tx models.Transaction, batch *batchStats) float64

type batchStats struct {
	categoryFreq map[string]float64
}

func newBatchStats(txs []models.Transaction) *batchStats {
	counts := make(map[string]int, len(txs))
	for _, tx := range txs {
		counts[strings.ToLower(tx.Category)]++
	}
	freq := make(map[string]float64, len(counts))
	for k, c := range counts {
		freq[k] = float64(c) / float64(len(txs))
	}
	return &batchStats{categoryFreq: freq}
}

var featureRegistry = map[string]featureFunc{
	// Сумма со знаком: расход и доход одного размера не смешиваются
	FeatureAmount: func(tx models.Transaction, _ *batchStats) float64 {
		return tx.SignedAmount().InexactFloat64()
	},
	FeatureWeekday: func(tx models.Transaction, _ *batchStats) float64 {
		return float64(tx.Date.Weekday())
	},
	FeatureCategory: func(tx models.Transaction, b *batchStats) float64 {
		return b.categoryFreq[strings.ToLower(tx.Category)]
	},
}

// FeatureExtractor превращает транзакции в матрицу признаков для леса
type FeatureExtractor struct {
	names []string
	funcs []featureFunc
}

func NewFeatureExtractor(names []string) (*FeatureExtractor, error) {
	if len(names) == 0 {
		names = []string{FeatureAmount}
	}
	fe := &FeatureExtractor{}
	for _, n := range names {
		key := strings.ToLower(strings.TrimSpace(n))
		fn, ok := featureRegistry[key]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownFeature, n)
		}
		fe.names = append(fe.names, key)
		fe.funcs = append(fe.funcs, fn)
	}
	return fe, nil
}

func (fe *FeatureExtractor) Names() []string {
	return append([]string(nil), fe.names...)
}

func (fe *FeatureExtractor) Extract(txs []models.Transaction) [][]float64 {
	stats := newBatchStats(txs)
	points := make([][]float64, len(txs))
	for i, tx := range txs {
		row := make([]float64, len(fe.funcs))
		for j, fn := range fe.funcs {
			row[j] = fn(tx, stats)
		}
		points[i] = row
	}
	return points
}
