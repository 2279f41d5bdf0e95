package vectorstore

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"cashflow-sentinel/internal/models"

	"github.com/google/uuid"
)

// TransactionMemory индексирует транзакции для семантического поиска
type TransactionMemory struct {
	coll     *Collection
	embedder Embedder
}

func NewTransactionMemory(coll *Collection, embedder Embedder) *TransactionMemory {
	return &TransactionMemory{coll: coll, embedder: embedder}
}

type transactionMetadata struct {
	Amount      json.Number            `json:"amount"`
	Date        string                 `json:"date"`
	Category    string                 `json:"category"`
	Type        models.TransactionType `json:"type"`
	Description string                 `json:"description"`
}

// TransactionText текст, по которому строится эмбеддинг транзакции
func TransactionText(tx models.Transaction) string {
	return fmt.Sprintf("%s - %s - %s - %s - %s",
		tx.Date.Format("2006-01-02"), tx.Description, tx.Amount.String(), tx.Category, tx.Type)
}

func (m *TransactionMemory) Index(ctx context.Context, ownerID string, tx models.Transaction) error {
	text := TransactionText(tx)
	vector, err := m.embedder.Embed(ctx, text)
	if err != nil {
		return fmt.Errorf("embed transaction %s: %w", tx.ID, err)
	}

	meta, err := json.Marshal(transactionMetadata{
		Amount:      json.Number(tx.Amount.String()),
		Date:        tx.Date.UTC().Format(time.RFC3339),
		Category:    tx.Category,
		Type:        tx.Type,
		Description: tx.Description,
	})
	if err != nil {
		return err
	}

	return m.coll.Upsert(ctx, models.VectorRecord{
		ID:        tx.ID,
		OwnerID:   ownerID,
		Vector:    vector,
		Text:      text,
		Metadata:  string(meta),
		Timestamp: tx.Date.UnixMilli(),
	})
}

func (m *TransactionMemory) Remove(ctx context.Context, txID string) error {
	return m.coll.Delete(ctx, txID)
}

func (m *TransactionMemory) Search(ctx context.Context, ownerID, query string, limit int) ([]models.MemoryHit, error) {
	vector, err := m.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	return m.coll.Search(ctx, ownerID, vector, limit)
}

// ChatMemory хранит реплики обеих сторон диалога
type ChatMemory struct {
	coll     *Collection
	embedder Embedder
	now      func() time.Time
}

func NewChatMemory(coll *Collection, embedder Embedder) *ChatMemory {
	return &ChatMemory{coll: coll, embedder: embedder, now: time.Now}
}

func (m *ChatMemory) Append(ctx context.Context, ownerID string, role models.ChatRole, content string) (*models.ChatTurn, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("empty chat content")
	}
	vector, err := m.embedder.Embed(ctx, content)
	if err != nil {
		return nil, fmt.Errorf("embed chat turn: %w", err)
	}

	ts := m.now()
	turn := &models.ChatTurn{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   content,
		Timestamp: ts,
	}
	err = m.coll.Upsert(ctx, models.VectorRecord{
		ID:        turn.ID,
		OwnerID:   ownerID,
		Vector:    vector,
		Text:      content,
		Role:      role,
		Timestamp: ts.UnixMilli(),
	})
	if err != nil {
		return nil, err
	}
	return turn, nil
}

func (m *ChatMemory) Relevant(ctx context.Context, ownerID, message string, k int) ([]models.MemoryHit, error) {
	vector, err := m.embedder.Embed(ctx, message)
	if err != nil {
		return nil, fmt.Errorf("embed message: %w", err)
	}
	return m.coll.Search(ctx, ownerID, vector, k)
}

// History последние limit реплик по возрастанию времени
func (m *ChatMemory) History(ctx context.Context, ownerID string, limit int) ([]models.ChatTurn, error) {
	hits, err := m.coll.ListChronological(ctx, ownerID, limit)
	if err != nil {
		return nil, err
	}
	turns := make([]models.ChatTurn, 0, len(hits))
	for _, h := range hits {
		turns = append(turns, models.ChatTurn{
			ID:        h.ID,
			Role:      h.Role,
			Content:   h.Text,
			Timestamp: time.UnixMilli(h.Timestamp),
		})
	}
	return turns, nil
}
