package sqlite

import (
	"context"
	"fmt"
	"strings"
	"time"
)

const (
	defaultRetries    = 5
	defaultRetryDelay = 50 * time.Millisecond
)

// isRetryableError проверяет, можно ли повторить операцию при данной ошибке
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	// SQLITE_BUSY (5) и SQLITE_LOCKED (6)
	return strings.Contains(errStr, "database is locked") ||
		strings.Contains(errStr, "SQLITE_BUSY") ||
		strings.Contains(errStr, "SQLITE_LOCKED")
}

// retryOperation выполняет операцию с повторными попытками при ошибках блокировки.
// Ожидание между попытками растет линейно и прерывается отменой контекста
func retryOperation(ctx context.Context, operation func() error, maxRetries int, delay time.Duration) error {
	var lastErr error
	for i := 0; i < maxRetries; i++ {
		err := operation()
		if err == nil {
			return nil
		}
		lastErr = err

		if !isRetryableError(err) {
			return err
		}

		if i < maxRetries-1 {
			select {
			case <-ctx.Done():
				return fmt.Errorf("retry aborted: %w", ctx.Err())
			case <-time.After(delay * time.Duration(i+1)):
			}
		}
	}

	return fmt.Errorf("operation failed after %d retries: %w", maxRetries, lastErr)
}

// exec выполняет запрос на запись с повторами
func (r *Repository) exec(ctx context.Context, query string, args ...interface{}) (int64, error) {
	var affected int64
	err := retryOperation(ctx, func() error {
		res, err := r.storage.DB.ExecContext(ctx, query, args...)
		if err != nil {
			return err
		}
		affected, err = res.RowsAffected()
		return err
	}, defaultRetries, defaultRetryDelay)
	return affected, err
}
