package enrichment

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"cashflow-sentinel/internal/models"

	"github.com/shopspring/decimal"
)

var ErrNoJSON = errors.New("enrichment: no JSON array in model output")

var (
	fencedBlock  = regexp.MustCompile("(?s)```(?:json|JSON)?[ \t]*\n?(.*?)```")
	bracketArray = regexp.MustCompile(`(?s)\[.*\]`)
)

// ExtractDrafts достает массив черновиков алертов из сырого ответа модели.
// Сначала пробуется блок кода, затем первый массив в квадратных скобках
func ExtractDrafts(raw string) ([]models.AlertDraft, error) {
	var candidates []string
	if m := fencedBlock.FindStringSubmatch(raw); m != nil {
		candidates = append(candidates, strings.TrimSpace(m[1]))
	}
	if m := bracketArray.FindString(raw); m != "" {
		candidates = append(candidates, m)
	}
	if len(candidates) == 0 {
		return nil, ErrNoJSON
	}

	var lastErr error
	for _, c := range candidates {
		drafts, err := parseDrafts(c)
		if err == nil {
			return drafts, nil
		}
		lastErr = err
	}
	return nil, lastErr
}

func parseDrafts(text string) ([]models.AlertDraft, error) {
	text = strings.TrimSpace(text)
	// Одиночный объект в блоке кода тоже принимаем
	if strings.HasPrefix(text, "{") {
		text = "[" + text + "]"
	}

	var raws []rawDraft
	if err := json.Unmarshal([]byte(text), &raws); err != nil {
		return nil, fmt.Errorf("parse drafts: %w", err)
	}

	drafts := make([]models.AlertDraft, 0, len(raws))
	for _, r := range raws {
		title := strings.TrimSpace(r.Title)
		if title == "" {
			continue
		}
		drafts = append(drafts, models.AlertDraft{
			Title:            title,
			Description:      strings.TrimSpace(r.Description),
			Severity:         models.ParseSeverity(r.Severity),
			Amount:           r.Amount.value,
			Recommendation:   strings.TrimSpace(r.Recommendation),
			Impact:           strings.TrimSpace(string(r.Impact)),
			SuggestedActions: r.SuggestedActions,
		})
	}
	return drafts, nil
}

type rawDraft struct {
	Title            string      `json:"title"`
	Description      string      `json:"description"`
	Severity         string      `json:"severity"`
	Recommendation   string      `json:"recommendation"`
	Impact           looseString `json:"impact"`
	SuggestedActions looseList   `json:"suggestedActions"`
	Amount           looseAmount `json:"amount"`
}

// looseString принимает строку, число или любой другой JSON как текст
type looseString string

func (s *looseString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*s = looseString(str)
		return nil
	}
	*s = looseString(data)
	return nil
}

// looseList принимает массив строк или одну строку
type looseList []string

func (l *looseList) UnmarshalJSON(data []byte) error {
	var items []looseString
	if err := json.Unmarshal(data, &items); err == nil {
		out := make([]string, 0, len(items))
		for _, it := range items {
			if v := strings.TrimSpace(string(it)); v != "" {
				out = append(out, v)
			}
		}
		*l = out
		return nil
	}

	var single looseString
	if err := single.UnmarshalJSON(data); err != nil {
		return err
	}
	if v := strings.TrimSpace(string(single)); v != "" {
		*l = []string{v}
	}
	return nil
}

// looseAmount принимает число или строку с числом. Нечитаемое значение игнорируется
type looseAmount struct {
	value *decimal.Decimal
}

func (a *looseAmount) UnmarshalJSON(data []byte) error {
	var s looseString
	if err := s.UnmarshalJSON(data); err != nil {
		return err
	}
	cleaned := strings.NewReplacer("Rp", "", "IDR", "", ",", "", " ", "").Replace(string(s))
	if cleaned == "" {
		return nil
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return nil
	}
	d = d.Abs()
	a.value = &d
	return nil
}
