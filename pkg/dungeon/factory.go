package dungeon

import (
	"aether-server/internal/core/types"
	"aether-server/internal/domain"
	"aether-server/internal/systems"
)

// CreatePlayer собирает сущность игрока со стартовым снаряжением:
// кинжал в руке, пара опознанных зелий в сумке. ID не назначается —
// его выдает арена.
func CreatePlayer(name string) *domain.Entity {
	if name == "" {
		name = "Hero"
	}

	p := &domain.Entity{
		Kind: types.KindPlayer,
		Name: name,
		Render: &domain.RenderComponent{
			Glyph: types.MakeGlyph(0x22D3EE, '@'),
			Order: 2,
		},
		Stats: &domain.StatsComponent{
			HP:           30,
			MaxHP:        30,
			MP:           12,
			MaxMP:        12,
			Attack:       6,
			Defense:      3,
			Accuracy:     6,
			Evasion:      5,
			CritChance:   10,
			Speed:        90,
			StatusResist: domain.PlayerStatusResist(),
		},
		Energy:     &domain.EnergyComponent{},
		Inventory:  domain.NewInventory(domain.InventoryWidth, domain.InventoryHeight),
		Equipment:  &domain.EquipmentComponent{},
		Vision:     &domain.VisionComponent{Radius: domain.VisionRadius, Dirty: true},
		Experience: &domain.ExperienceComponent{Level: 1},
	}

	dagger := RustyDagger.Spawn(domain.Position{}, 0).Item
	p.Equipment.Slots[domain.EquipWeapon] = dagger
	systems.RecomputeEquipBonuses(p.Stats, p.Equipment)

	potions := HealingPotion.Spawn(domain.Position{}, 0).Item
	potions.Quantity = 2
	potions.Identified = true
	p.Inventory.Add(potions)

	return p
}
