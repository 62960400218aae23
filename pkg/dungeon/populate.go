package dungeon

import (
	"github.com/sirupsen/logrus"

	"aether-server/internal/core/rng"
	"aether-server/internal/domain"
	"aether-server/pkg/logger"
)

// Бюджеты населения этажа.
const (
	monsterBudgetBase     = 6
	monsterBudgetPerDepth = 2
	spawnRollChance       = 0.03 // бросок на каждую проходимую клетку
)

// Populate заселяет этаж: мобы из потока spawn, лут и ключи из потока
// loot. Потоки независимы, так что навал мобов не сдвигает розыгрыш
// лута. Сущности возвращаются без ID — их выдает арена.
func Populate(f *domain.Floor, spawn, loot *rng.Stream) []*domain.Entity {
	out := rollMonsters(f, spawn)
	out = append(out, rollLoot(f, loot)...)

	logger.Log.WithFields(logrus.Fields{
		"component": "dungeon",
		"depth":     f.Depth,
		"entities":  len(out),
	}).Debug("Floor populated.")
	return out
}

// rollMonsters обходит клетки в порядке row-major и кидает на каждую
// проходимую бросок заселения, пока не выбран бюджет 6+2*глубина.
// Клетка входа неприкосновенна. Босс не из бюджета: он ставится первым
// и только на последнем этаже, внутри своего региона.
func rollMonsters(f *domain.Floor, spawn *rng.Stream) []*domain.Entity {
	var monsters []*domain.Entity
	used := make(map[int]bool)

	if f.Depth == domain.MaxFloors && f.BossGate != nil {
		if pos, ok := bossSpot(f, spawn); ok {
			monsters = append(monsters, SpawnBoss(f.Depth, pos, spawn))
			used[f.Index(pos.X, pos.Y)] = true
		} else {
			logger.Log.WithField("component", "dungeon").Warn("No free tile for the boss inside its gate.")
		}
	}

	budget := monsterBudgetBase + monsterBudgetPerDepth*f.Depth
	entranceIdx := f.Index(f.Entrance.X, f.Entrance.Y)
	altarIdx := -1
	if f.AltarPos != nil {
		altarIdx = f.Index(f.AltarPos.X, f.AltarPos.Y)
	}

	rolled := 0
	for idx, t := range f.Tiles {
		if rolled >= budget {
			break
		}
		if !t.Walkable() || used[idx] || idx == entranceIdx || idx == altarIdx {
			continue
		}
		if !spawn.Chance(spawnRollChance) {
			continue
		}
		tpl, err := pickMonster(f.Depth, spawn)
		if err != nil {
			continue
		}
		pos := domain.Position{X: idx % f.Width, Y: idx / f.Width}
		monsters = append(monsters, SpawnMonster(tpl, f.Depth, pos, spawn))
		used[idx] = true
		rolled++
	}
	return monsters
}

// pickMonster выбирает шаблон по весам; глубже открываются новые виды.
func pickMonster(depth int, spawn *rng.Stream) (MonsterTemplate, error) {
	weights := make([]int, len(MonsterTemplates))
	for i, t := range MonsterTemplates {
		if t.MinDepth <= depth {
			weights[i] = t.Weight
		}
	}
	return rng.PickWeighted(spawn, MonsterTemplates, weights)
}

// bossSpot ищет место стражу: чистый пол внутри региона, не алтарь.
func bossSpot(f *domain.Floor, spawn *rng.Stream) (domain.Position, bool) {
	gate := *f.BossGate
	var cells []domain.Position
	for y := gate.Y; y < gate.Y+gate.H; y++ {
		for x := gate.X; x < gate.X+gate.W; x++ {
			if f.TileAt(x, y) != domain.TileFloor {
				continue
			}
			cells = append(cells, domain.Position{X: x, Y: y})
		}
	}
	pos, err := rng.Pick(spawn, cells)
	if err != nil {
		return domain.Position{}, false
	}
	return pos, true
}

// rollLoot раскладывает лут: сперва обязательства генератора (ключи,
// Ядро), затем взвешенная россыпь по типу и шаблону.
func rollLoot(f *domain.Floor, loot *rng.Stream) []*domain.Entity {
	var items []*domain.Entity

	// Замки этажа ключуются его глубиной, позиции уже выбраны
	// генератором с проверкой достижимости.
	for _, spot := range f.KeySpots {
		items = append(items, NewKeyItem(f.Depth, spot, f.Depth))
	}
	if f.AltarPos != nil {
		items = append(items, NewAetherCore(*f.AltarPos, f.Depth))
	}

	spots := lootSpots(f)
	if len(spots) == 0 {
		return items
	}

	typeWeights := []int{3 + f.Depth, 2 + f.Depth, 6 + 2*f.Depth}
	count := loot.Range(3, 5) + f.Depth/2
	for i := 0; i < count; i++ {
		pos, err := rng.Pick(loot, spots)
		if err != nil {
			break
		}
		kind, err := loot.WeightedIndex(typeWeights)
		if err != nil {
			break
		}
		var list []ItemTemplate
		switch kind {
		case 0:
			list = WeaponTemplates
		case 1:
			list = ArmorTemplates
		default:
			list = ConsumableTemplates
		}
		tpl, err := pickItemTemplate(loot, list)
		if err != nil {
			break
		}
		items = append(items, tpl.Spawn(pos, f.Depth))
	}
	return items
}

func pickItemTemplate(loot *rng.Stream, list []ItemTemplate) (ItemTemplate, error) {
	weights := make([]int, len(list))
	for i, t := range list {
		weights[i] = t.Weight
	}
	return rng.PickWeighted(loot, list, weights)
}

// lootSpots — клетки, куда имеет смысл класть предмет: голый пол, не вход.
func lootSpots(f *domain.Floor) []domain.Position {
	entranceIdx := f.Index(f.Entrance.X, f.Entrance.Y)
	var spots []domain.Position
	for idx, t := range f.Tiles {
		if t != domain.TileFloor || idx == entranceIdx {
			continue
		}
		spots = append(spots, domain.Position{X: idx % f.Width, Y: idx / f.Width})
	}
	return spots
}
