package domain

import "aether-server/internal/core/types"

// Битовая маска присутствия компонентов для запросов по сигнатуре.
const (
	CompRender uint16 = 1 << iota
	CompStats
	CompEnergy
	CompAI
	CompItem
	CompInventory
	CompEquipment
	CompStatuses
	CompVision
	CompMemory
	CompExperience
	CompReward
)

// Entity — игровая сущность. Закрытый набор компонентов: nil-поле
// означает отсутствие свойства. Состав фиксирован, чтобы итерация
// и сериализация оставались простыми и детерминированными.
type Entity struct {
	ID    types.EntityID   `json:"id"`
	Kind  types.EntityKind `json:"kind"`
	Name  string           `json:"name"`
	Pos   Position         `json:"pos"`
	Depth int              `json:"depth"` // этаж, на котором сущность находится

	Render     *RenderComponent     `json:"render,omitempty"`
	Stats      *StatsComponent      `json:"stats,omitempty"`
	Energy     *EnergyComponent     `json:"energy,omitempty"`
	AI         *AIComponent         `json:"ai,omitempty"`
	Item       *ItemComponent       `json:"item,omitempty"`
	Inventory  *InventoryComponent  `json:"inventory,omitempty"`
	Equipment  *EquipmentComponent  `json:"equipment,omitempty"`
	Statuses   *StatusesComponent   `json:"statuses,omitempty"`
	Vision     *VisionComponent     `json:"vision,omitempty"`
	Memory     *MemoryComponent     `json:"memory,omitempty"`
	Experience *ExperienceComponent `json:"experience,omitempty"`
	Reward     *RewardComponent     `json:"reward,omitempty"`
}

// Signature собирает маску присутствующих компонентов.
func (e *Entity) Signature() uint16 {
	var sig uint16
	if e.Render != nil {
		sig |= CompRender
	}
	if e.Stats != nil {
		sig |= CompStats
	}
	if e.Energy != nil {
		sig |= CompEnergy
	}
	if e.AI != nil {
		sig |= CompAI
	}
	if e.Item != nil {
		sig |= CompItem
	}
	if e.Inventory != nil {
		sig |= CompInventory
	}
	if e.Equipment != nil {
		sig |= CompEquipment
	}
	if e.Statuses != nil {
		sig |= CompStatuses
	}
	if e.Vision != nil {
		sig |= CompVision
	}
	if e.Memory != nil {
		sig |= CompMemory
	}
	if e.Experience != nil {
		sig |= CompExperience
	}
	if e.Reward != nil {
		sig |= CompReward
	}
	return sig
}

// Has проверяет наличие всех компонентов маски.
func (e *Entity) Has(mask uint16) bool {
	return e.Signature()&mask == mask
}

// Alive — сущность с характеристиками и не мертва.
func (e *Entity) Alive() bool {
	return e.Stats != nil && !e.Stats.IsDead
}
