package domain

import (
	"strings"

	"aether-server/internal/core/types"
)

// ActionType - внутренний числовой идентификатор намерения.
type ActionType uint8

const (
	ActionUnknown ActionType = iota
	ActionInit
	ActionMove
	ActionAttack
	ActionWait
	ActionPickup
	ActionDrop
	ActionUse
	ActionEquip
	ActionUnequip
	ActionCast
	ActionInteract
	ActionDescend
	ActionAscend

	// UI-команды: читают состояние, ход не тратят и в машину фаз
	// не попадают.
	ActionInventory
	ActionEquipment
	ActionSheet
	ActionDebug
)

// Маппинг для конвертации JSON -> Domain
var actionStringToCmd = map[string]ActionType{
	"INIT":      ActionInit,
	"MOVE":      ActionMove,
	"ATTACK":    ActionAttack,
	"WAIT":      ActionWait,
	"PICKUP":    ActionPickup,
	"DROP":      ActionDrop,
	"USE":       ActionUse,
	"EQUIP":     ActionEquip,
	"UNEQUIP":   ActionUnequip,
	"CAST":      ActionCast,
	"INTERACT":  ActionInteract,
	"DESCEND":   ActionDescend,
	"ASCEND":    ActionAscend,
	"INVENTORY": ActionInventory,
	"EQUIPMENT": ActionEquipment,
	"SHEET":     ActionSheet,
	"DEBUG":     ActionDebug,
}

// Маппинг для логов Domain -> String
var actionCmdToString = func() map[ActionType]string {
	m := make(map[ActionType]string, len(actionStringToCmd))
	for s, a := range actionStringToCmd {
		m[a] = s
	}
	return m
}()

// ParseAction конвертирует строку из JSON в ActionType.
func ParseAction(s string) ActionType {
	// Нечувствительность к регистру для надежности
	if val, ok := actionStringToCmd[strings.ToUpper(s)]; ok {
		return val
	}
	return ActionUnknown
}

// String реализует интерфейс Stringer (для fmt.Printf)
func (a ActionType) String() string {
	if val, ok := actionCmdToString[a]; ok {
		return val
	}
	return "UNKNOWN"
}

// IsUIOnly - команда только читает состояние и не стоит хода.
func (a ActionType) IsUIOnly() bool {
	switch a {
	case ActionInventory, ActionEquipment, ActionSheet, ActionDebug, ActionInit:
		return true
	default:
		return false
	}
}

// ConsumesTurn - намерение, которое при успехе тратит ход игрока.
func (a ActionType) ConsumesTurn() bool {
	return a != ActionUnknown && !a.IsUIOnly()
}

// Action - разрешенное действие в очереди планировщика: намерение
// плюс его параметры. Мозг AI возвращает ровно одно такое за ход.
type Action struct {
	Type      ActionType     `json:"type"`
	Actor     types.EntityID `json:"actor"`
	DX        int            `json:"dx,omitempty"`
	DY        int            `json:"dy,omitempty"`
	Target    types.EntityID `json:"target,omitempty"`
	TargetPos *Position      `json:"targetPos,omitempty"`
	ItemIndex int            `json:"itemIndex,omitempty"`
	Slot      EquipSlot      `json:"slot,omitempty"`
}
