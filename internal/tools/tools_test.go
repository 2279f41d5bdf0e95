package tools

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"cashflow-sentinel/internal/alerts"
	"cashflow-sentinel/internal/models"
	"cashflow-sentinel/internal/services"
	"cashflow-sentinel/internal/services/mocks"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fakeSearcher struct {
	hits     []models.MemoryHit
	err      error
	gotLimit int
	gotOwner string
}

func (f *fakeSearcher) SearchTransactions(_ context.Context, ownerID, _ string, limit int) ([]models.MemoryHit, error) {
	f.gotOwner, f.gotLimit = ownerID, limit
	return f.hits, f.err
}

type fakeAlerts struct {
	list []models.Alert
	err  error
}

func (f fakeAlerts) Recent(context.Context, string, int) ([]models.Alert, error) {
	return f.list, f.err
}

func newRegistry(s TransactionSearcher, a AlertLister, c TransactionCreator) *Registry {
	log := zerolog.Nop()
	return NewRegistry(NewSearchTransactions(s, log), NewCheckAnomalies(a, log), NewSaveTransaction(c, log))
}

func TestRegistry_DefinitionsAndUnknown(t *testing.T) {
	r := newRegistry(&fakeSearcher{}, fakeAlerts{}, &mocks.MockTransactionService{})

	defs := r.Definitions()
	require.Len(t, defs, 3)
	assert.Equal(t, CheckAnomaliesName, defs[0].Name)
	assert.Equal(t, SaveTransactionName, defs[1].Name)
	assert.Equal(t, SearchTransactionsName, defs[2].Name)
	for _, d := range defs {
		assert.True(t, json.Valid(d.Parameters), d.Name)
	}

	_, err := r.Invoke(context.Background(), "transfer_funds", "alice", nil)
	assert.ErrorIs(t, err, ErrUnknownTool)
}

func TestSearchTransactions(t *testing.T) {
	s := &fakeSearcher{hits: []models.MemoryHit{{ID: "t1", Text: "2024-03-01 - Beli kopi - 15000 - Makanan - out"}}}
	r := newRegistry(s, fakeAlerts{}, &mocks.MockTransactionService{})

	out, err := r.Invoke(context.Background(), SearchTransactionsName, "alice", json.RawMessage(`{"query":"kopi"}`))
	require.NoError(t, err)
	assert.Equal(t, "alice", s.gotOwner)
	assert.Equal(t, defaultSearchLimit, s.gotLimit)

	var hits []models.MemoryHit
	require.NoError(t, json.Unmarshal([]byte(out), &hits))
	require.Len(t, hits, 1)
	assert.Equal(t, "t1", hits[0].ID)

	s.hits = nil
	out, err = r.Invoke(context.Background(), SearchTransactionsName, "alice", json.RawMessage(`{"query":"kopi","limit":2}`))
	require.NoError(t, err)
	assert.Equal(t, "[]", out)
	assert.Equal(t, 2, s.gotLimit)

	s.err = errors.New("index down")
	out, err = r.Invoke(context.Background(), SearchTransactionsName, "alice", json.RawMessage(`{"query":"kopi"}`))
	require.NoError(t, err)
	assert.Equal(t, "Error searching transactions.", out)

	_, err = r.Invoke(context.Background(), SearchTransactionsName, "alice", json.RawMessage(`{"limit":2}`))
	assert.ErrorIs(t, err, ErrInvalidArgs)
	_, err = r.Invoke(context.Background(), SearchTransactionsName, "alice", json.RawMessage(`not json`))
	assert.ErrorIs(t, err, ErrInvalidArgs)
}

func TestCheckAnomalies(t *testing.T) {
	ctx := context.Background()

	out, err := NewCheckAnomalies(fakeAlerts{err: alerts.ErrBusinessNotFound}, zerolog.Nop()).Invoke(ctx, "alice", nil)
	require.NoError(t, err)
	assert.Equal(t, "No business found for this user.", out)

	out, err = NewCheckAnomalies(fakeAlerts{}, zerolog.Nop()).Invoke(ctx, "alice", nil)
	require.NoError(t, err)
	assert.Equal(t, "No anomalies detected recently.", out)

	out, err = NewCheckAnomalies(fakeAlerts{err: errors.New("db closed")}, zerolog.Nop()).Invoke(ctx, "alice", nil)
	require.NoError(t, err)
	assert.Equal(t, "Error checking anomalies.", out)

	list := []models.Alert{{ID: "a1", Title: "Pengeluaran tidak wajar", Severity: models.SeverityHigh, Status: models.AlertNew}}
	out, err = NewCheckAnomalies(fakeAlerts{list: list}, zerolog.Nop()).Invoke(ctx, "alice", nil)
	require.NoError(t, err)
	var got []models.Alert
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "a1", got[0].ID)
}

func TestSaveTransaction(t *testing.T) {
	svc := &mocks.MockTransactionService{}
	tool := NewSaveTransaction(svc, zerolog.Nop())
	fixed := time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC)
	tool.now = func() time.Time { return fixed }

	svc.On("Create", mock.Anything, "alice", mock.MatchedBy(func(tx *models.Transaction) bool {
		return tx.Type == models.TransactionOut &&
			tx.Amount.Equal(decimal.NewFromInt(25000)) &&
			tx.Category == models.DefaultCategory &&
			tx.Status == models.DefaultTransactionStatus &&
			tx.Date.Equal(fixed)
	})).Return(&models.Transaction{
		ID: "tx-1", Amount: decimal.NewFromInt(25000), Type: models.TransactionOut, Description: "Bensin",
	}, nil).Once()

	out, err := tool.Invoke(context.Background(), "alice", json.RawMessage(`{"amount":25000,"type":"out","description":"Bensin"}`))
	require.NoError(t, err)
	assert.Equal(t, "Transaction saved successfully: Expense Rp25000 - Bensin", out)
	svc.AssertExpectations(t)
}

func TestSaveTransaction_Income(t *testing.T) {
	svc := &mocks.MockTransactionService{}
	svc.On("Create", mock.Anything, "alice", mock.Anything).
		Return(&models.Transaction{Amount: decimal.NewFromInt(1500000), Type: models.TransactionIn, Description: "Gaji"}, nil).Once()

	out, err := NewSaveTransaction(svc, zerolog.Nop()).Invoke(context.Background(), "alice",
		json.RawMessage(`{"amount":1500000,"type":"in","description":"Gaji","category":"Salary"}`))
	require.NoError(t, err)
	assert.Equal(t, "Transaction saved successfully: Income Rp1500000 - Gaji", out)
}

func TestSaveTransaction_Failures(t *testing.T) {
	ctx := context.Background()
	args := json.RawMessage(`{"amount":100,"type":"in","description":"Tip"}`)

	svc := &mocks.MockTransactionService{}
	svc.On("Create", mock.Anything, "nobody", mock.Anything).Return(nil, services.ErrBusinessNotFound).Once()
	svc.On("Create", mock.Anything, "alice", mock.Anything).Return(nil, errors.New("disk full")).Once()
	tool := NewSaveTransaction(svc, zerolog.Nop())

	out, err := tool.Invoke(ctx, "nobody", args)
	require.NoError(t, err)
	assert.Equal(t, "No business found. Cannot save transaction.", out)

	out, err = tool.Invoke(ctx, "alice", args)
	require.NoError(t, err)
	assert.Equal(t, "Error saving transaction.", out)

	for _, bad := range []string{
		`{"amount":100,"type":"sideways","description":"x"}`,
		`{"amount":-5,"type":"in","description":"x"}`,
		`{"amount":100,"type":"in"}`,
	} {
		_, err := tool.Invoke(ctx, "alice", json.RawMessage(bad))
		assert.ErrorIs(t, err, ErrInvalidArgs, bad)
	}
}
