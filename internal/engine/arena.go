package engine

import (
	"aether-server/internal/core/types"
	"aether-server/internal/domain"
)

// Arena владеет всеми сущностями забега. Слоты выстроены в порядке
// создания, и любой обход арены детерминированно следует этому порядку.
// Слот не переиспользуется до конца забега: Destroy гасит сущность и
// поднимает поколение, так что застрявшие у кого-то ID перестают
// резолвиться, вместо того чтобы молча указать на чужую сущность.
type Arena struct {
	shard uint8
	slots []arenaSlot
}

type arenaSlot struct {
	e   *domain.Entity
	gen uint16
}

func NewArena(shard uint8) *Arena {
	return &Arena{shard: shard}
}

// Spawn выделяет сущности слот, назначает ID и возвращает её же.
func (a *Arena) Spawn(e *domain.Entity) *domain.Entity {
	index := uint32(len(a.slots))
	gen := uint16(1) // поколение 0 зарезервировано под NilEntityID
	e.ID = types.PackEntityID(a.shard, e.Kind, gen, index)
	a.slots = append(a.slots, arenaSlot{e: e, gen: gen})
	return e
}

// Lookup возвращает живую сущность по ID. Чужое поколение - nil.
func (a *Arena) Lookup(id types.EntityID) *domain.Entity {
	idx := int(id.Index())
	if id.IsNil() || idx >= len(a.slots) {
		return nil
	}
	s := a.slots[idx]
	if s.e == nil || s.gen != id.Generation() {
		return nil
	}
	return s.e
}

// Destroy убирает сущность из мира насовсем. Индекс остается занятым,
// поколение растет. false - ID уже не резолвился.
func (a *Arena) Destroy(id types.EntityID) bool {
	idx := int(id.Index())
	if id.IsNil() || idx >= len(a.slots) {
		return false
	}
	s := &a.slots[idx]
	if s.e == nil || s.gen != id.Generation() {
		return false
	}
	s.e = nil
	s.gen++
	return true
}

// Each обходит занятые слоты в порядке создания. Возврат false
// обрывает обход.
func (a *Arena) Each(fn func(*domain.Entity) bool) {
	for i := range a.slots {
		if e := a.slots[i].e; e != nil {
			if !fn(e) {
				return
			}
		}
	}
}

// Query собирает сущности, несущие полный набор компонентов маски,
// в порядке создания.
func (a *Arena) Query(mask uint16) []*domain.Entity {
	var out []*domain.Entity
	for i := range a.slots {
		if e := a.slots[i].e; e != nil && e.Has(mask) {
			out = append(out, e)
		}
	}
	return out
}

// Len - сколько слотов когда-либо выдано, включая погашенные.
func (a *Arena) Len() int { return len(a.slots) }

// Live - сколько слотов занято сейчас.
func (a *Arena) Live() int {
	n := 0
	for i := range a.slots {
		if a.slots[i].e != nil {
			n++
		}
	}
	return n
}

// Generations снимает срез поколений для сейва: по нему погашенные
// слоты восстанавливаются пустыми, но с правильным счетчиком.
func (a *Arena) Generations() []uint16 {
	gens := make([]uint16, len(a.slots))
	for i := range a.slots {
		gens[i] = a.slots[i].gen
	}
	return gens
}

// RestoreArena пересобирает арену из сейва: gens задает поколения всех
// слотов, entities встают по индексу из собственного ID.
func RestoreArena(shard uint8, gens []uint16, entities []*domain.Entity) *Arena {
	a := &Arena{
		shard: shard,
		slots: make([]arenaSlot, len(gens)),
	}
	for i, g := range gens {
		a.slots[i].gen = g
	}
	for _, e := range entities {
		idx := int(e.ID.Index())
		if idx < len(a.slots) {
			a.slots[idx].e = e
		}
	}
	return a
}
