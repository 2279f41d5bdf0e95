package redis

import (
	"context"
	"fmt"

	"cashflow-sentinel/internal/models"

	redisv9 "github.com/redis/go-redis/v9"
)

var severities = []models.Severity{models.SeverityHigh, models.SeverityMedium, models.SeverityLow}

func statsKey(severity models.Severity) string {
	return fmt.Sprintf("alert_stats:%s", severity)
}

// IncrementAlertStats увеличивает счетчик созданных алертов по важности
func (c *Client) IncrementAlertStats(ctx context.Context, severity models.Severity) error {
	return c.rdb.Incr(ctx, statsKey(severity)).Err()
}

// GetAlertStats возвращает счетчики по всем уровням важности
func (c *Client) GetAlertStats(ctx context.Context) (map[models.Severity]int64, error) {
	pipe := c.rdb.Pipeline()
	cmds := make(map[models.Severity]*redisv9.StringCmd, len(severities))
	for _, s := range severities {
		cmds[s] = pipe.Get(ctx, statsKey(s))
	}
	if _, err := pipe.Exec(ctx); err != nil && err != redisv9.Nil {
		return nil, fmt.Errorf("failed to read alert stats: %w", err)
	}

	stats := make(map[models.Severity]int64, len(severities))
	for s, cmd := range cmds {
		n, err := cmd.Int64()
		if err == redisv9.Nil {
			n = 0
		} else if err != nil {
			return nil, fmt.Errorf("failed to parse alert stats: %w", err)
		}
		stats[s] = n
	}
	return stats, nil
}

// ResetAlertStats обнуляет счетчики
func (c *Client) ResetAlertStats(ctx context.Context) error {
	keys := make([]string, 0, len(severities))
	for _, s := range severities {
		keys = append(keys, statsKey(s))
	}
	return c.rdb.Del(ctx, keys...).Err()
}
