// Package alerts сохраняет черновики аномалий как алерты и ведет их жизненный цикл
package alerts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cashflow-sentinel/internal/logger"
	"cashflow-sentinel/internal/models"
	"cashflow-sentinel/internal/storage"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const DefaultDedupWindow = 24 * time.Hour

var (
	ErrAlertNotFound     = errors.New("alert not found")
	ErrForbidden         = errors.New("alert belongs to another business")
	ErrInvalidStatus     = errors.New("invalid alert status")
	ErrInvalidTransition = errors.New("alert status cannot move backwards")
	ErrAlertFinalized    = errors.New("alert already resolved")
	ErrBusinessNotFound  = errors.New("business not found")
)

// StatsSink считает созданные алерты по важности
type StatsSink interface {
	IncrementAlertStats(ctx context.Context, severity models.Severity) error
}

type Repository interface {
	storage.AlertRepository
	storage.BusinessRepository
}

type Manager struct {
	repo        Repository
	dedupWindow time.Duration
	stats       StatsSink
	service     string
	log         zerolog.Logger
	now         func() time.Time
}

type Option func(*Manager)

func WithDedupWindow(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.dedupWindow = d
		}
	}
}

func WithStats(s StatsSink) Option {
	return func(m *Manager) { m.stats = s }
}

// WithClock подменяет часы, нужно тестам окна дедупликации
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

func NewManager(repo Repository, service string, log zerolog.Logger, opts ...Option) *Manager {
	m := &Manager{
		repo:        repo,
		dedupWindow: DefaultDedupWindow,
		service:     service,
		log:         log.With().Str("component", "alerts").Logger(),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Persist сохраняет черновики, пропуская заголовки, уже встречавшиеся у бизнеса в окне
func (m *Manager) Persist(ctx context.Context, businessID string, drafts []models.AlertDraft) (int, error) {
	created := 0
	for _, d := range drafts {
		title := strings.TrimSpace(d.Title)
		if title == "" {
			continue
		}

		now := m.now()
		existing, err := m.repo.FindRecentAlertByTitle(ctx, businessID, title, now.Add(-m.dedupWindow))
		if err != nil {
			return created, fmt.Errorf("dedup lookup: %w", err)
		}
		if existing != nil {
			logger.LogEvent(logger.EventAlertSuppressed, m.service, logger.ComponentAlerts, map[string]interface{}{
				"business_id": businessID,
				"title":       title,
				"existing_id": existing.ID,
			})
			continue
		}

		alert := &models.Alert{
			ID:               uuid.New().String(),
			BusinessID:       businessID,
			Title:            title,
			Description:      d.Description,
			Severity:         models.ParseSeverity(string(d.Severity)),
			Status:           models.AlertNew,
			Amount:           d.Amount,
			Recommendation:   d.Recommendation,
			Impact:           d.Impact,
			SuggestedActions: d.SuggestedActions,
			Date:             now,
			CreatedAt:        now,
			UpdatedAt:        now,
		}
		if alert.SuggestedActions == nil {
			alert.SuggestedActions = []string{}
		}
		if err := m.repo.CreateAlert(ctx, alert); err != nil {
			return created, fmt.Errorf("create alert: %w", err)
		}
		created++

		logger.LogEvent(logger.EventAlertCreated, m.service, logger.ComponentAlerts, map[string]interface{}{
			"business_id": businessID,
			"alert_id":    alert.ID,
			"severity":    string(alert.Severity),
		})
		if m.stats != nil {
			if err := m.stats.IncrementAlertStats(ctx, alert.Severity); err != nil {
				m.log.Warn().Err(err).Msg("failed to increment alert stats")
			}
		}
	}
	return created, nil
}

// Update применяет пользовательское изменение статуса и заметок
func (m *Manager) Update(ctx context.Context, userID, alertID string, upd models.AlertUpdate) (*models.Alert, error) {
	alert, err := m.repo.GetAlert(ctx, alertID)
	if err != nil {
		return nil, fmt.Errorf("get alert: %w", err)
	}
	if alert == nil {
		return nil, ErrAlertNotFound
	}

	business, err := m.repo.GetBusiness(ctx, alert.BusinessID)
	if err != nil {
		return nil, fmt.Errorf("get business: %w", err)
	}
	if business == nil || business.UserID != userID {
		return nil, ErrForbidden
	}

	if upd.Status != nil && !settable(*upd.Status) {
		return nil, ErrInvalidStatus
	}
	if alert.Status == models.AlertResolved && (upd.Status != nil || upd.UserNotes != nil) {
		return nil, ErrAlertFinalized
	}
	if upd.Status != nil && !CanTransitionTo(alert.Status, *upd.Status) {
		return nil, ErrInvalidTransition
	}

	from := alert.Status
	if upd.Status != nil {
		alert.Status = *upd.Status
	}
	if upd.UserNotes != nil {
		notes := *upd.UserNotes
		alert.UserNotes = &notes
	}
	alert.UpdatedAt = m.now()

	if err := m.repo.UpdateAlert(ctx, alert); err != nil {
		return nil, fmt.Errorf("update alert: %w", err)
	}

	logger.LogEvent(logger.EventAlertUpdated, m.service, logger.ComponentAlerts, map[string]interface{}{
		"alert_id": alert.ID,
		"from":     string(from),
		"to":       string(alert.Status),
	})
	return alert, nil
}

func (m *Manager) List(ctx context.Context, businessID string, limit int) ([]models.Alert, error) {
	if limit <= 0 {
		limit = 20
	}
	return m.repo.ListAlerts(ctx, businessID, limit)
}

// Recent находит бизнес пользователя и возвращает его последние алерты
func (m *Manager) Recent(ctx context.Context, userID string, limit int) ([]models.Alert, error) {
	business, err := m.repo.GetBusinessByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get business: %w", err)
	}
	if business == nil {
		return nil, ErrBusinessNotFound
	}
	return m.List(ctx, business.ID, limit)
}
