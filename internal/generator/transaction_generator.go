package generator

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"cashflow-sentinel/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Profile задает характер сгенерированной операции
type Profile string

const (
	ProfileNormal Profile = "normal"
	ProfileSpike  Profile = "spike"
)

type category struct {
	name         string
	kind         models.TransactionType
	descriptions []string
	min, max     int64
}

var categories = []category{
	{"Penjualan", models.TransactionIn, []string{"Penjualan harian", "Pesanan online", "Pembayaran pelanggan"}, 200000, 1500000},
	{"Bahan Baku", models.TransactionOut, []string{"Beli bahan baku", "Belanja pasar", "Stok gudang"}, 50000, 400000},
	{"Operasional", models.TransactionOut, []string{"Listrik", "Air PDAM", "Internet"}, 100000, 500000},
	{"Transportasi", models.TransactionOut, []string{"Bensin", "Ongkos kirim", "Parkir"}, 10000, 150000},
	{"Gaji", models.TransactionOut, []string{"Gaji karyawan", "Uang lembur"}, 500000, 2000000},
}

var spikeDescriptions = []string{"Transfer tidak dikenal", "Pembelian peralatan mendadak", "Penarikan tunai besar"}

type TransactionGenerator struct {
	rand *rand.Rand
	now  func() time.Time
}

// NewTransactionGenerator при seed == 0 берет зерно из времени
func NewTransactionGenerator(seed int64) *TransactionGenerator {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &TransactionGenerator{
		rand: rand.New(rand.NewSource(seed)),
		now:  time.Now,
	}
}

func (g *TransactionGenerator) GenerateBusiness(userID string) *models.Business {
	return &models.Business{
		ID:        uuid.NewString(),
		UserID:    userID,
		Name:      fmt.Sprintf("Toko %s", userID),
		CreatedAt: g.now(),
	}
}

// GenerateTransaction генерирует операцию бизнеса на дату date
func (g *TransactionGenerator) GenerateTransaction(businessID string, date time.Time, profile Profile) *models.Transaction {
	tx := &models.Transaction{
		ID:         uuid.NewString(),
		BusinessID: businessID,
		Date:       date,
		Status:     models.DefaultTransactionStatus,
	}

	switch profile {
	case ProfileSpike:
		g.generateSpike(tx)
	default:
		g.generateNormal(tx)
	}
	return tx
}

func (g *TransactionGenerator) generateNormal(tx *models.Transaction) {
	c := categories[g.rand.Intn(len(categories))]
	tx.Type = c.kind
	tx.Category = c.name
	tx.Description = c.descriptions[g.rand.Intn(len(c.descriptions))]
	tx.Amount = g.roundToThousand(c.min + g.rand.Int63n(c.max-c.min))
}

// generateSpike расход на порядок больше любого обычного
func (g *TransactionGenerator) generateSpike(tx *models.Transaction) {
	tx.Type = models.TransactionOut
	tx.Category = models.DefaultCategory
	tx.Description = spikeDescriptions[g.rand.Intn(len(spikeDescriptions))]
	tx.Amount = g.roundToThousand(20000000 + g.rand.Int63n(30000000))
}

// GenerateHistory генерирует count операций за последние count часов, spikes из них аномальные
func (g *TransactionGenerator) GenerateHistory(businessID string, count, spikes int) []*models.Transaction {
	if spikes > count {
		spikes = count
	}
	spikeAt := make(map[int]bool, spikes)
	for len(spikeAt) < spikes {
		spikeAt[g.rand.Intn(count)] = true
	}

	start := g.now().Add(-time.Duration(count) * time.Hour)
	txs := make([]*models.Transaction, 0, count)
	for i := 0; i < count; i++ {
		profile := ProfileNormal
		if spikeAt[i] {
			profile = ProfileSpike
		}
		txs = append(txs, g.GenerateTransaction(businessID, start.Add(time.Duration(i)*time.Hour), profile))
	}
	return txs
}

// roundToThousand округляет сумму до тысяч рупий
func (g *TransactionGenerator) roundToThousand(value int64) decimal.Decimal {
	return decimal.NewFromInt(value).Div(decimal.NewFromInt(1000)).Round(0).Mul(decimal.NewFromInt(1000))
}

// Store минимальное хранилище для наполнения демо-данными
type Store interface {
	SaveBusiness(ctx context.Context, b *models.Business) error
	SaveTransaction(ctx context.Context, tx *models.Transaction) error
}

// Seed создает businesses бизнесов по perBusiness операций, в каждом spikes аномалий
func (g *TransactionGenerator) Seed(ctx context.Context, store Store, businesses, perBusiness, spikes int) ([]models.Business, error) {
	created := make([]models.Business, 0, businesses)
	for i := 0; i < businesses; i++ {
		b := g.GenerateBusiness(fmt.Sprintf("demo-user-%d", i+1))
		if err := store.SaveBusiness(ctx, b); err != nil {
			return created, fmt.Errorf("failed to save business %s: %w", b.ID, err)
		}
		for _, tx := range g.GenerateHistory(b.ID, perBusiness, spikes) {
			if err := store.SaveTransaction(ctx, tx); err != nil {
				return created, fmt.Errorf("failed to save transaction %s: %w", tx.ID, err)
			}
		}
		created = append(created, *b)
	}
	return created, nil
}
