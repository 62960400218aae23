package domain

// Геометрия этажа
const (
	MapWidth  = 48
	MapHeight = 32
	MaxFloors = 8
)

// Параметры восприятия
const (
	VisionRadius = 8
	AggroRadius  = 10
)

// Модель энергии планировщика: каждая сущность накапливает энергию со
// скоростью BaseEnergyGain * speedFactor за ход и действует, пока запас
// не опустится ниже ActionCost.
const (
	BaseEnergyGain    = 100
	ActionCost        = 100
	MaxActionsPerTurn = 2
)

// Сетка инвентаря игрока
const (
	InventoryWidth  = 5
	InventoryHeight = 4
)

// Журнал сообщений: сколько записей держим в памяти и сколько
// уходит в снапшот клиенту.
const (
	LogRetain       = 256
	LogSnapshotTail = 64
)

// Прогрессия игрока
const (
	XPThresholdBase     = 10
	XPThresholdPerLevel = 5
)

// Боевые константы
const (
	// Шанс попадания: clamp(HitChanceBase + HitChancePerPoint*(acc-eva)).
	HitChanceBase     = 60
	HitChancePerPoint = 5
	HitChanceMin      = 5
	HitChanceMax      = 95

	TrapDamage = 4

	// Ярость босса висит фактически до конца боя.
	EnrageDuration = 99
)

// Способности мобов
const (
	SummonCooldownTurns    = 6
	SummonCap              = 3
	ShockwaveCooldownTurns = 4
	ShockwaveRange         = 2
	BoltRange              = 6
)

// Эфир: врожденный болт стоит маны, мана капает раз в ход.
const (
	CastManaCost = 3
	ManaRegen    = 1
)
