package dungeon

import (
	"aether-server/internal/core/rng"
	"aether-server/internal/core/types"
	"aether-server/internal/domain"
)

// MonsterTemplate — заготовка моба: поведение и внешний вид фиксированы,
// характеристики бросаются на месте с поправкой на глубину.
// Сопротивления статусам приходят от архетипа, см. domain.BaseStatusResist.
type MonsterTemplate struct {
	Name      string
	Archetype domain.Archetype
	Glyph     types.Glyph
	MinDepth  int // с какого этажа встречается
	Weight    int
}

// --- МОБЫ ---

var Brute = MonsterTemplate{
	Name:      "Rockhide Brute",
	Archetype: domain.ArchetypeBrute,
	Glyph:     types.MakeGlyph(0xB45309, 'B'),
	MinDepth:  1,
	Weight:    6,
}

var Skirmisher = MonsterTemplate{
	Name:      "Gloom Skirmisher",
	Archetype: domain.ArchetypeSkirmisher,
	Glyph:     types.MakeGlyph(0x22C55E, 's'),
	MinDepth:  2,
	Weight:    4,
}

var Acolyte = MonsterTemplate{
	Name:      "Ashen Acolyte",
	Archetype: domain.ArchetypeRanged,
	Glyph:     types.MakeGlyph(0xF97316, 'a'),
	MinDepth:  3,
	Weight:    3,
}

var Conjurer = MonsterTemplate{
	Name:      "Hollow Conjurer",
	Archetype: domain.ArchetypeSummoner,
	Glyph:     types.MakeGlyph(0xA78BFA, 'C'),
	MinDepth:  4,
	Weight:    2,
}

var Sapper = MonsterTemplate{
	Name:      "Burrow Sapper",
	Archetype: domain.ArchetypeSapper,
	Glyph:     types.MakeGlyph(0xEAB308, 'p'),
	MinDepth:  5,
	Weight:    2,
}

var Warden = MonsterTemplate{
	Name:      "Warden of the Aether Core",
	Archetype: domain.ArchetypeBoss,
	Glyph:     types.MakeGlyph(0x66FFFF, 'W'),
	MinDepth:  domain.MaxFloors,
	Weight:    0, // в обычный навал не попадает
}

// MonsterTemplates — таблица обычных мобов в порядке взвешенного выбора.
// Босса здесь нет: его ставит генератор вручную на последнем этаже.
var MonsterTemplates = []MonsterTemplate{Brute, Skirmisher, Acolyte, Conjurer, Sapper}

// SpawnMonster бросает характеристики моба по глубине и собирает
// сущность. ID не назначается — его выдает арена при вселении на этаж.
func SpawnMonster(t MonsterTemplate, depth int, pos domain.Position, stream *rng.Stream) *domain.Entity {
	slow := 2 * depth
	if slow > 20 {
		slow = 20
	}

	hp := stream.Range(8, 18) + 2*depth
	mp := stream.Range(0, 6) + depth
	stats := &domain.StatsComponent{
		HP:         hp,
		MaxHP:      hp,
		MP:         mp,
		MaxMP:      mp,
		Attack:     stream.Range(4, 8) + depth,
		Defense:    stream.Range(1, 5) + depth/2,
		Evasion:    stream.Range(2, 6) + depth,
		Accuracy:   stream.Range(3, 7) + depth/2,
		CritChance: 10,
		Speed:      100 - slow,
	}
	if r := domain.BaseStatusResist(t.Archetype); len(r) > 0 {
		stats.StatusResist = r
	}

	return &domain.Entity{
		Kind:   types.KindMonster,
		Name:   t.Name,
		Pos:    pos,
		Depth:  depth,
		Render: &domain.RenderComponent{Glyph: t.Glyph, Order: 2},
		Stats:  stats,
		Energy: &domain.EnergyComponent{},
		AI:     &domain.AIComponent{Archetype: t.Archetype},
		Memory: &domain.MemoryComponent{},
		Reward: &domain.RewardComponent{XP: 5 + 2*depth},
	}
}

// SpawnBoss ставит стража Ядра: утроенное здоровье и тяжелая рука
// поверх обычных бросков.
func SpawnBoss(depth int, pos domain.Position, stream *rng.Stream) *domain.Entity {
	e := SpawnMonster(Warden, depth, pos, stream)
	e.Stats.HP = e.Stats.HP*3 + 20
	e.Stats.MaxHP = e.Stats.HP
	e.Stats.Attack += 4
	e.Stats.Defense += 2
	e.Stats.Accuracy += 2
	e.Reward.XP = 40 + 5*depth
	return e
}

// ItemTemplate — заготовка предмета. Item копируется в каждую сущность,
// сам шаблон остается неизменным.
type ItemTemplate struct {
	Name   string
	Glyph  types.Glyph
	Weight int
	Item   domain.ItemComponent
}

// Spawn собирает сущность-предмет на полу.
func (t ItemTemplate) Spawn(pos domain.Position, depth int) *domain.Entity {
	item := t.Item
	item.BaseName = t.Name
	item.Glyph = t.Glyph
	if item.Quantity == 0 {
		item.Quantity = 1
	}
	return &domain.Entity{
		Kind:   types.KindItem,
		Name:   t.Name,
		Pos:    pos,
		Depth:  depth,
		Render: &domain.RenderComponent{Glyph: t.Glyph, Order: 1},
		Item:   &item,
	}
}

// --- ОРУЖИЕ ---

var RustyDagger = ItemTemplate{
	Name:   "Rusty Dagger",
	Glyph:  types.MakeGlyph(0x9CA3AF, '/'),
	Weight: 5,
	Item: domain.ItemComponent{
		Slot:        domain.ItemSlotWeapon,
		Power:       2,
		Description: "Щербатый клинок, видавший лучшие века.",
	},
}

var IronSword = ItemTemplate{
	Name:   "Iron Sword",
	Glyph:  types.MakeGlyph(0xE8E8E8, '/'),
	Weight: 8,
	Item: domain.ItemComponent{
		Slot:        domain.ItemSlotWeapon,
		Power:       4,
		Description: "Простой и честный меч.",
	},
}

var GlacialShortsword = ItemTemplate{
	Name:   "Glacial Shortsword of Haste",
	Glyph:  types.MakeGlyph(0x67E8F9, '/'),
	Weight: 1,
	Item: domain.ItemComponent{
		Slot:        domain.ItemSlotWeapon,
		Power:       3,
		Element:     domain.ElementIce,
		Rider:       domain.StatusFreeze,
		RiderChance: 20,
		Description: "Лезвие изо льда, который не тает. Рука с ним легка.",
	},
}

// --- БРОНЯ ---

var TatteredRobe = ItemTemplate{
	Name:   "Tattered Robe",
	Glyph:  types.MakeGlyph(0xA16207, '['),
	Weight: 6,
	Item: domain.ItemComponent{
		Slot:        domain.ItemSlotArmor,
		Power:       1,
		Description: "Застиранная роба. Лучше, чем ничего.",
	},
}

var Chainmail = ItemTemplate{
	Name:   "Chainmail",
	Glyph:  types.MakeGlyph(0x9CA3AF, '['),
	Weight: 4,
	Item: domain.ItemComponent{
		Slot:        domain.ItemSlotArmor,
		Power:       3,
		Description: "Кольчуга двойного плетения.",
	},
}

var AethericAegis = ItemTemplate{
	Name:   "Aetheric Aegis",
	Glyph:  types.MakeGlyph(0x66FFFF, '['),
	Weight: 1,
	Item: domain.ItemComponent{
		Slot:  domain.ItemSlotArmor,
		Power: 4,
		Resist: [domain.NumElements]int{
			domain.ElementFire:   2,
			domain.ElementIce:    2,
			domain.ElementPoison: 2,
			domain.ElementShock:  2,
		},
		Description: "Панцирь, гудящий в такт Ядру.",
	},
}

// --- РАСХОДНИКИ ---

var HealingPotion = ItemTemplate{
	Name:   "Potion of Healing",
	Glyph:  types.MakeGlyph(0xEF4444, '!'),
	Weight: 8,
	Item: domain.ItemComponent{
		Stackable:   true,
		Consumable:  true,
		Effect:      domain.EffectHeal,
		EffectValue: 8,
		KindID:      "potion_heal",
		Description: "Густая красная жидкость.",
	},
}

var FireboltScroll = ItemTemplate{
	Name:   "Scroll of Firebolt",
	Glyph:  types.MakeGlyph(0xF97316, '?'),
	Weight: 4,
	Item: domain.ItemComponent{
		Stackable:   true,
		Consumable:  true,
		Effect:      domain.EffectFirebolt,
		EffectValue: 6,
		KindID:      "scroll_firebolt",
		Description: "Строки тлеют, но не сгорают.",
	},
}

var BlinkScroll = ItemTemplate{
	Name:   "Scroll of Blink",
	Glyph:  types.MakeGlyph(0x60A5FA, '?'),
	Weight: 4,
	Item: domain.ItemComponent{
		Stackable:   true,
		Consumable:  true,
		Effect:      domain.EffectBlink,
		EffectValue: 6,
		KindID:      "scroll_blink",
		Description: "Буквы расплываются, стоит к ним присмотреться.",
	},
}

var RevealScroll = ItemTemplate{
	Name:   "Scroll of Reveal",
	Glyph:  types.MakeGlyph(0xFCD34D, '?'),
	Weight: 3,
	Item: domain.ItemComponent{
		Stackable:   true,
		Consumable:  true,
		Effect:      domain.EffectReveal,
		KindID:      "scroll_reveal",
		Description: "Чернила пахнут сквозняком дальних коридоров.",
	},
}

var SilenceScroll = ItemTemplate{
	Name:   "Scroll of Silence",
	Glyph:  types.MakeGlyph(0xA78BFA, '?'),
	Weight: 2,
	Item: domain.ItemComponent{
		Stackable:   true,
		Consumable:  true,
		Effect:      domain.EffectSilence,
		EffectValue: 4,
		KindID:      "scroll_silence",
		Description: "Лист без единого знака.",
	},
}

// Таблицы лута по типам.
var (
	WeaponTemplates     = []ItemTemplate{RustyDagger, IronSword, GlacialShortsword}
	ArmorTemplates      = []ItemTemplate{TatteredRobe, Chainmail, AethericAegis}
	ConsumableTemplates = []ItemTemplate{HealingPotion, FireboltScroll, BlinkScroll, RevealScroll, SilenceScroll}
)

// NewKeyItem создает ключ от замка этажа keyID.
func NewKeyItem(keyID int, pos domain.Position, depth int) *domain.Entity {
	return ItemTemplate{
		Name:  "Tarnished Key",
		Glyph: types.MakeGlyph(0xC9A227, 'k'),
		Item: domain.ItemComponent{
			KeyID:       keyID,
			Description: "Потемневший ключ под стать здешним замкам.",
		},
	}.Spawn(pos, depth)
}

// NewAetherCore создает квестовый предмет победы.
func NewAetherCore(pos domain.Position, depth int) *domain.Entity {
	return ItemTemplate{
		Name:  "Aether Core",
		Glyph: types.MakeGlyph(0x66FFFF, '*'),
		Item: domain.ItemComponent{
			QuestItem:   true,
			Description: "Сердце пещер. Гудит и тянет вверх, к поверхности.",
		},
	}.Spawn(pos, depth)
}
