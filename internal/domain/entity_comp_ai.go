package domain

import "aether-server/internal/core/types"

// Alert переводит моба в режим охоты. Обратного пути нет:
// потерявший игрока из виду моб идет к последней известной позиции.
func (a *AIComponent) Alert() {
	a.State = AIStateHunt
}

// IsIdle - моб еще не заметил игрока.
func (a *AIComponent) IsIdle() bool {
	return a.State == AIStateIdle
}

// CalmDown возвращает моба в покой: вызывается, когда след игрока
// потерян (дошли до последней известной позиции, а там пусто).
func (a *AIComponent) CalmDown() {
	a.State = AIStateIdle
}

// TryEnrage взводит защелку ярости. Возвращает true только при первом
// вызове: повторные пересечения порога HP ярость не перезапускают.
func (a *AIComponent) TryEnrage() bool {
	if a.Enraged {
		return false
	}
	a.Enraged = true
	return true
}

// RecordSummon регистрирует призванного и заводит кулдаун способности.
func (a *AIComponent) RecordSummon(id types.EntityID, cooldown int) {
	a.Summons = append(a.Summons, id)
	a.Cooldown = cooldown
}

// TickCooldown убавляет кулдаун способности на ход.
func (a *AIComponent) TickCooldown() {
	if a.Cooldown > 0 {
		a.Cooldown--
	}
}

// PruneSummons выбрасывает мертвых из списка призванных и возвращает
// число живых. alive отвечает, жива ли сущность по ID.
func (a *AIComponent) PruneSummons(alive func(types.EntityID) bool) int {
	kept := a.Summons[:0]
	for _, id := range a.Summons {
		if alive(id) {
			kept = append(kept, id)
		}
	}
	a.Summons = kept
	return len(kept)
}
