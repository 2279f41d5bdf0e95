package tools

import (
	"context"
	"encoding/json"
	"strings"

	"cashflow-sentinel/internal/logger"
	"cashflow-sentinel/internal/models"

	"github.com/rs/zerolog"
)

const (
	SearchTransactionsName = "search_transactions"
	defaultSearchLimit     = 5
	searchFailedText       = "Error searching transactions."
)

type TransactionSearcher interface {
	SearchTransactions(ctx context.Context, ownerID, query string, limit int) ([]models.MemoryHit, error)
}

type SearchTransactions struct {
	searcher TransactionSearcher
	log      zerolog.Logger
}

func NewSearchTransactions(searcher TransactionSearcher, log zerolog.Logger) *SearchTransactions {
	return &SearchTransactions{searcher: searcher, log: log}
}

func (t *SearchTransactions) Name() string { return SearchTransactionsName }

func (t *SearchTransactions) Description() string {
	return "Search for user transactions. Use this to answer questions about expenses, income, history, or specific transaction details."
}

func (t *SearchTransactions) Parameters() json.RawMessage {
	return json.RawMessage(`{"type":"object","properties":{` +
		`"query":{"type":"string","description":"The search query (e.g., 'food expenses', 'salary')"},` +
		`"limit":{"type":"integer","description":"Number of results to return (default 5)"}},` +
		`"required":["query"]}`)
}

type searchArgs struct {
	Query string `json:"query"`
	Limit int    `json:"limit"`
}

func (t *SearchTransactions) Invoke(ctx context.Context, ownerID string, args json.RawMessage) (string, error) {
	var in searchArgs
	if err := decodeArgs(args, &in); err != nil {
		return "", err
	}
	if strings.TrimSpace(in.Query) == "" {
		return "", ErrInvalidArgs
	}
	if in.Limit <= 0 {
		in.Limit = defaultSearchLimit
	}

	hits, err := t.searcher.SearchTransactions(ctx, ownerID, in.Query, in.Limit)
	if err != nil {
		t.log.Error().Err(err).Str("component", logger.ComponentLLM).Str("tool", t.Name()).Msg("Tool failed")
		return searchFailedText, nil
	}
	if hits == nil {
		hits = []models.MemoryHit{}
	}
	out, err := json.Marshal(hits)
	if err != nil {
		return searchFailedText, nil
	}
	return string(out), nil
}
