package sqlite

import (
	"context"
	"fmt"
)

// DeleteTransaction удаляет транзакцию. Отсутствующая запись не считается ошибкой
func (r *Repository) DeleteTransaction(ctx context.Context, id string) error {
	if _, err := r.exec(ctx, `DELETE FROM transactions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	return nil
}
