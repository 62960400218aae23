package api

import (
	"encoding/json"

	"aether-server/internal/core/types"
)

// Пакет описывает контракт клиент-сервер. DTO намеренно отвязаны от
// доменных типов: протокол переживает рефакторинги ядра, а клиент
// не получает ничего сверх того, что его наблюдатель имеет право знать.

// --- СЕРВЕР -> КЛИЕНТ ---

// ServerResponse - снимок мира глазами наблюдателя после очередного
// хода. Сервер не шлет дельт: каждый снимок самодостаточен.
type ServerResponse struct {
	Type string `json:"type"` // UPDATE | GAME_OVER

	Turn  int    `json:"turn"`
	Depth int    `json:"depth"`
	Phase string `json:"phase"`

	// Status - исход забега: playing, won, lost.
	Status string `json:"status"`

	MyEntityID types.EntityID `json:"myEntityId,omitempty"`

	Grid     *GridMeta    `json:"grid,omitempty"`
	Map      []TileView   `json:"map,omitempty"`
	Entities []EntityView `json:"entities,omitempty"`
	Player   *PlayerView  `json:"player,omitempty"`
	Logs     []LogEntry   `json:"logs,omitempty"`
}

type GridMeta struct {
	Width  int `json:"w"`
	Height int `json:"h"`
}

// TileView - одна известная наблюдателю клетка. В снимок попадают
// только исследованные; у клеток вне поля зрения пригашен цвет.
type TileView struct {
	X int `json:"x"`
	Y int `json:"y"`

	Char  string `json:"char"`
	Color string `json:"color"` // #RRGGBB

	Walkable bool `json:"walkable"`
	Visible  bool `json:"visible"`
	Explored bool `json:"explored"`
}

// EntityView - видимая сущность. Точные статы чужих скрыты: наружу
// уходит только доля здоровья.
type EntityView struct {
	ID   types.EntityID `json:"id"`
	Kind string         `json:"kind"`
	Name string         `json:"name"`

	X int `json:"x"`
	Y int `json:"y"`

	Char  string `json:"char"`
	Color string `json:"color"`

	HPFraction float64 `json:"hpFraction,omitempty"`
	Dead       bool    `json:"dead,omitempty"`
}

// PlayerView - приватный блок наблюдателя: точные статы, инвентарь,
// экипировка, связка ключей. Имена неопознанных видов заменены
// случайными этикетками забега.
type PlayerView struct {
	Stats     StatsView    `json:"stats"`
	Inventory []ItemView   `json:"inventory"`
	InvWidth  int          `json:"invWidth"`
	InvHeight int          `json:"invHeight"`
	Equipment []EquipView  `json:"equipment"`
	Keys      []int        `json:"keys,omitempty"`
	Statuses  []StatusView `json:"statuses,omitempty"`
	HasCore   bool         `json:"hasCore,omitempty"`
}

type StatsView struct {
	HP    int `json:"hp"`
	MaxHP int `json:"maxHp"`
	MP    int `json:"mp"`
	MaxMP int `json:"maxMp"`

	Attack   int `json:"attack"`
	Defense  int `json:"defense"`
	Accuracy int `json:"accuracy"`
	Evasion  int `json:"evasion"`

	Level  int `json:"level"`
	XP     int `json:"xp"`
	XPNext int `json:"xpNext"`
}

// ItemView - предмет в инвентаре или в слоте экипировки.
type ItemView struct {
	Index int    `json:"index"`
	Name  string `json:"name"`

	Char  string `json:"char"`
	Color string `json:"color"`

	Qty        int    `json:"qty,omitempty"`
	Slot       string `json:"slot,omitempty"` // тип слота, если надевается
	Identified bool   `json:"identified"`

	Description string `json:"description,omitempty"`
}

type EquipView struct {
	Slot string    `json:"slot"`
	Item *ItemView `json:"item,omitempty"`
}

type StatusView struct {
	Kind     string `json:"kind"`
	Duration int    `json:"duration"`
	Stacks   int    `json:"stacks,omitempty"`
}

// LogEntry - строка повествовательной ленты. Seq сквозной на весь
// забег: по нему клиент склеивает инкрементальные снимки, а тесты
// сверяют воспроизводимость.
type LogEntry struct {
	Seq  uint64 `json:"seq"`
	Turn int    `json:"turn"`
	Text string `json:"text"`
	Kind string `json:"kind"` // INFO | COMBAT | ERROR | SYSTEM
}

// --- КЛИЕНТ -> СЕРВЕР ---

// ClientCommand - команда клиента: имя действия плюс сырой payload,
// который распаковывается по типу действия.
type ClientCommand struct {
	Token   string          `json:"token,omitempty"`
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// DirectionPayload - шаг или удар по направлению.
type DirectionPayload struct {
	Dx int `json:"dx"`
	Dy int `json:"dy"`
}

// TargetPayload - действие по конкретной сущности.
type TargetPayload struct {
	TargetID types.EntityID `json:"targetId"`
}

// ItemPayload - действие над слотом инвентаря. TargetID опционален:
// прицельные свитки требуют цель, остальное - нет.
type ItemPayload struct {
	Index    int            `json:"index"`
	TargetID types.EntityID `json:"targetId,omitempty"`
}

// SlotPayload - снятие экипировки по имени слота.
type SlotPayload struct {
	Slot string `json:"slot"`
}

// LoginPayload - рукопожатие при подключении.
type LoginPayload struct {
	Token string `json:"token,omitempty"`
}
