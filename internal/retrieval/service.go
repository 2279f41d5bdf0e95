// Package retrieval тонкий слой семантического поиска по памяти транзакций и чата
package retrieval

import (
	"context"

	"cashflow-sentinel/internal/models"
)

const (
	DefaultSearchLimit  = 5
	DefaultContextTurns = 5
	DefaultHistoryLimit = 50
)

type TransactionSearcher interface {
	Search(ctx context.Context, ownerID, query string, limit int) ([]models.MemoryHit, error)
}

type ChatStore interface {
	Append(ctx context.Context, ownerID string, role models.ChatRole, content string) (*models.ChatTurn, error)
	Relevant(ctx context.Context, ownerID, message string, k int) ([]models.MemoryHit, error)
	History(ctx context.Context, ownerID string, limit int) ([]models.ChatTurn, error)
}

// Service не добавляет своего ранжирования, порядок задает индекс
type Service struct {
	transactions TransactionSearcher
	chat         ChatStore
}

func NewService(transactions TransactionSearcher, chat ChatStore) *Service {
	return &Service{transactions: transactions, chat: chat}
}

func (s *Service) SearchTransactions(ctx context.Context, ownerID, query string, limit int) ([]models.MemoryHit, error) {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	return s.transactions.Search(ctx, ownerID, query, limit)
}

func (s *Service) RelevantTurns(ctx context.Context, ownerID, message string, k int) ([]models.MemoryHit, error) {
	if k <= 0 {
		k = DefaultContextTurns
	}
	return s.chat.Relevant(ctx, ownerID, message, k)
}

func (s *Service) History(ctx context.Context, ownerID string, limit int) ([]models.ChatTurn, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return s.chat.History(ctx, ownerID, limit)
}

func (s *Service) Remember(ctx context.Context, ownerID string, role models.ChatRole, content string) (*models.ChatTurn, error) {
	return s.chat.Append(ctx, ownerID, role, content)
}
