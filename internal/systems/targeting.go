package systems

import (
	"aether-server/internal/core/types"
	"aether-server/internal/domain"
)

// EntityProvider - поиск сущностей по ID, чтобы не зависеть от движка.
type EntityProvider interface {
	GetEntity(id types.EntityID) *domain.Entity
}

// ValidationResult - результат проверки цели.
type ValidationResult struct {
	Target  *domain.Entity
	Valid   bool
	Message string // причина отказа, если Valid == false
}

// ValidateInteraction проверяет, может ли actor дотянуться до цели.
//
// rangeLimit - максимум по метрике Чебышёва (1 - соседняя клетка,
// включая диагональ). needLOS - требовать прямую видимость (атаки и
// свитки - да, рычаг под ногами - нет).
func ValidateInteraction(actor *domain.Entity, targetID types.EntityID, rangeLimit int, needLOS bool, finder EntityProvider, f *domain.Floor) ValidationResult {
	target := finder.GetEntity(targetID)
	if target == nil {
		return ValidationResult{Valid: false, Message: "Цель не найдена."}
	}

	if target.Depth != actor.Depth {
		return ValidationResult{Valid: false, Message: "Цель слишком далеко."}
	}

	if actor.Pos.Chebyshev(target.Pos) > rangeLimit {
		return ValidationResult{Valid: false, Message: "Цель слишком далеко."}
	}

	if needLOS && actor.Pos != target.Pos && !HasLineOfSight(f, actor.Pos, target.Pos) {
		return ValidationResult{Valid: false, Message: "Вы не видите цель."}
	}

	return ValidationResult{Target: target, Valid: true}
}
