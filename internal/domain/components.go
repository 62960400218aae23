package domain

import "aether-server/internal/core/types"

// RenderComponent - внешний вид сущности для клиента.
type RenderComponent struct {
	Glyph types.Glyph `json:"glyph"`
	Order int         `json:"order"` // слой отрисовки: предметы ниже, актеры выше
}

// StatsComponent - характеристики и ресурсы.
// Производные поля (ArmorBonus, ResistBonus) пересчитываются системой
// экипировки при каждом изменении надетого.
type StatsComponent struct {
	HP    int `json:"hp"`
	MaxHP int `json:"maxHp"`
	MP    int `json:"mp"`
	MaxMP int `json:"maxMp"`

	Attack     int `json:"attack"`
	Defense    int `json:"defense"`
	Accuracy   int `json:"accuracy"`
	Evasion    int `json:"evasion"`
	CritChance int `json:"critChance"` // процент
	Speed      int `json:"speed"`      // восстановление энергии за ход

	// Плоские сопротивления по стихиям (вычитаются из урона).
	// Физическая митигация складывается из Defense + ArmorBonus + Resist.
	Resist      [NumElements]int `json:"resist"`
	ArmorBonus  int              `json:"armorBonus"`
	ResistBonus [NumElements]int `json:"resistBonus"`

	// Процентные сопротивления наложению статусов по стихии эффекта
	// (0..1): срезают длительность и стаки, полностью гасят только
	// при значении >= 1.
	StatusResist map[Element]float64 `json:"statusResist,omitempty"`

	IsDead bool `json:"isDead"`
}

// EnergyComponent - накопитель энергии хода. Сущность действует, пока
// запас не ниже ActionCost; скорость пополнения задает Stats.Speed.
type EnergyComponent struct {
	Current int `json:"current"`
}

// AIState - фаза поведения моба.
type AIState uint8

const (
	AIStateIdle AIState = iota
	AIStateHunt
)

// Archetype - семейство поведения моба.
type Archetype uint8

const (
	ArchetypeBrute Archetype = iota
	ArchetypeSkirmisher
	ArchetypeRanged
	ArchetypeSummoner
	ArchetypeSapper
	ArchetypeBoss

	NumArchetypes = 6
)

var archetypeNames = [NumArchetypes]string{
	"brute", "skirmisher", "ranged", "summoner", "sapper", "boss",
}

func (a Archetype) String() string {
	if int(a) >= NumArchetypes {
		return "unknown"
	}
	return archetypeNames[a]
}

// ParseArchetype возвращает архетип по имени из шаблонов.
func ParseArchetype(s string) (Archetype, bool) {
	for i, name := range archetypeNames {
		if name == s {
			return Archetype(i), true
		}
	}
	return ArchetypeBrute, false
}

// AIComponent - мозг моба: архетип, фаза и служебные счетчики.
type AIComponent struct {
	Archetype Archetype `json:"archetype"`
	State     AIState   `json:"state"`

	// Защелка ярости босса: взводится один раз при проходе HP вниз
	// через половину и не сбрасывается до конца боя.
	Enraged bool `json:"enraged,omitempty"`

	// Кулдаун активной способности в ходах: призыв у summoner,
	// ударная волна у босса.
	Cooldown int `json:"cooldown,omitempty"`
	// Живые призванные, для потолка призыва.
	Summons []types.EntityID `json:"summons,omitempty"`
}

// VisionComponent - настройки зрения.
type VisionComponent struct {
	Radius int `json:"radius"`

	// Кэш последнего расчета. Не сериализуется: после загрузки
	// видимость пересчитывается заново.
	Cached map[int]bool `json:"-"`
	Dirty  bool         `json:"-"`
}

// MemoryComponent - память моба о последней виденной позиции игрока.
type MemoryComponent struct {
	LastPlayerPos  *Position `json:"lastPlayerPos,omitempty"`
	LastPlayerTurn int       `json:"lastPlayerTurn,omitempty"`
}

// ExperienceComponent - уровень и накопленный опыт игрока.
type ExperienceComponent struct {
	Level int `json:"level"`
	XP    int `json:"xp"`
}

// Threshold возвращает порог опыта для следующего уровня.
func (x *ExperienceComponent) Threshold() int {
	return XPThresholdBase + x.Level*XPThresholdPerLevel
}

// RewardComponent - опыт, который сущность дает за убийство.
type RewardComponent struct {
	XP int `json:"xp"`
}
