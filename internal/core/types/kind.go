package types

import "strings"

// EntityKind — вид сущности, зашиваемый в EntityID.
type EntityKind uint8

const (
	KindUnknown EntityKind = iota
	KindPlayer
	KindMonster
	KindItem
)

var kindToString = map[EntityKind]string{
	KindPlayer:  "PLAYER",
	KindMonster: "MONSTER",
	KindItem:    "ITEM",
}

var kindStringToKind = map[string]EntityKind{
	"PLAYER":  KindPlayer,
	"MONSTER": KindMonster,
	"ITEM":    KindItem,
}

// String — для логов и протокола.
func (k EntityKind) String() string {
	if val, ok := kindToString[k]; ok {
		return val
	}
	return "UNKNOWN"
}

// ParseEntityKind конвертирует строку в EntityKind (загрузка сейвов и шаблонов).
func ParseEntityKind(s string) EntityKind {
	upper := strings.ToUpper(s)
	if val, ok := kindStringToKind[upper]; ok {
		return val
	}
	return KindUnknown
}
