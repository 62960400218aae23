package systems

import (
	"fmt"

	"aether-server/internal/domain"
)

// MovementResult - результат вычисления шага.
type MovementResult struct {
	NewX, NewY int
	HasMoved   bool
	BlockedBy  *domain.Entity // живой актер в целевой клетке (повод для атаки)
	IsWall     bool
	LockedDoor bool // уперлись в запертую дверь
	KeyID      int  // какой ключ её открывает
	OpensDoor  bool // шаг открывает закрытую дверь
}

// CalculateMove вычисляет исход шага, не меняя состояние мира.
// Запертая дверь отличается от стены: вызывающий решает, есть ли ключ.
func CalculateMove(e *domain.Entity, dx, dy int, f *domain.Floor) MovementResult {
	target := e.Pos.Shift(dx, dy)
	res := MovementResult{NewX: target.X, NewY: target.Y}

	if !f.InBounds(target.X, target.Y) {
		res.IsWall = true
		return res
	}

	tile := f.TileAt(target.X, target.Y)
	if tile == domain.TileDoorLocked {
		res.LockedDoor = true
		res.KeyID = f.DoorKeys[f.Index(target.X, target.Y)]
		return res
	}
	if !tile.Walkable() {
		res.IsWall = true
		return res
	}

	if blocker := f.ActorAt(target.X, target.Y); blocker != nil && blocker.ID != e.ID {
		res.BlockedBy = blocker
		return res
	}

	res.HasMoved = true
	res.OpensDoor = tile == domain.TileDoorClosed
	return res
}

// ApplyTileHazard применяет эффект клетки под сущностью: кислота и лава
// жгут каждый ход, пока в них стоишь, ловушка срабатывает один раз при
// входе и после этого остается видимой и безвредной. Урон идет через
// обычную митигацию, так что сопротивления от экипировки его режут.
func ApplyTileHazard(e *domain.Entity, f *domain.Floor) []string {
	if e.Stats == nil || e.Stats.IsDead {
		return nil
	}

	var msgs []string
	switch f.TileAt(e.Pos.X, e.Pos.Y) {
	case domain.TileAcid:
		dmg := e.Stats.MaxHP / 15
		if dmg < 1 {
			dmg = 1
		}
		dealt, died := e.Stats.TakeDamage(dmg, domain.ElementPoison)
		msgs = append(msgs, fmt.Sprintf("Кислота разъедает %s: %d урона.", e.Name, dealt))
		if died {
			msgs = append(msgs, markCorpse(e))
		}
	case domain.TileLava:
		dmg := e.Stats.MaxHP / 10
		if dmg < 2 {
			dmg = 2
		}
		dealt, died := e.Stats.TakeDamage(dmg, domain.ElementFire)
		msgs = append(msgs, fmt.Sprintf("Лава обжигает %s: %d урона.", e.Name, dealt))
		if died {
			msgs = append(msgs, markCorpse(e))
		}
	case domain.TileTrap:
		idx := f.Index(e.Pos.X, e.Pos.Y)
		if f.Sprung[idx] {
			return nil
		}
		if f.Sprung == nil {
			f.Sprung = make(map[int]bool)
		}
		f.Sprung[idx] = true
		dealt, died := e.Stats.TakeDamage(domain.TrapDamage, domain.ElementPhysical)
		msgs = append(msgs, fmt.Sprintf("Скрытая ловушка! %s получает %d урона.", e.Name, dealt))
		if died {
			msgs = append(msgs, markCorpse(e))
		}
	}
	return msgs
}
