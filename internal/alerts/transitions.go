package alerts

import "cashflow-sentinel/internal/models"

// validTransitions разрешенные переходы статуса. resolved конечный
var validTransitions = map[models.AlertStatus][]models.AlertStatus{
	models.AlertNew:        {models.AlertInProgress, models.AlertResolved},
	models.AlertInProgress: {models.AlertResolved},
	models.AlertResolved:   {},
}

// CanTransitionTo проверяет, можно ли перевести алерт из current в target.
// Переход в то же состояние допустим для new и in_progress
func CanTransitionTo(current, target models.AlertStatus) bool {
	if current == target {
		return current != models.AlertResolved
	}
	allowed, ok := validTransitions[current]
	if !ok {
		return false
	}
	for _, s := range allowed {
		if s == target {
			return true
		}
	}
	return false
}

// settable статусы, которые пользователь может выставить
func settable(s models.AlertStatus) bool {
	return s == models.AlertInProgress || s == models.AlertResolved
}
