package domain

import "aether-server/internal/core/types"

// Tile — тип клетки этажа. Компактный enum: ширина/проходимость/прозрачность
// выводятся из таблицы, а не хранятся в каждой клетке.
type Tile uint8

const (
	TileWall Tile = iota
	TileFloor
	TileDoorClosed
	TileDoorOpen
	TileDoorLocked // ключ ищется через Floor.DoorKeys по индексу клетки
	TileStairsUp
	TileStairsDown
	TileAcid
	TileLava
	TileTrap // скрыта до срабатывания, см. Floor.Sprung
	TileCoreAltar
)

type tileInfo struct {
	name        string
	walkable    bool
	transparent bool
	glyph       types.Glyph
}

var tileTable = [...]tileInfo{
	TileWall:       {"wall", false, false, types.MakeGlyph(0x8A8A8A, '#')},
	TileFloor:      {"floor", true, true, types.MakeGlyph(0x5C5C5C, '.')},
	TileDoorClosed: {"closed door", true, false, types.MakeGlyph(0xB5651D, '+')},
	TileDoorOpen:   {"open door", true, true, types.MakeGlyph(0xB5651D, '\'')},
	TileDoorLocked: {"locked door", false, false, types.MakeGlyph(0xC9A227, '+')},
	TileStairsUp:   {"stairs up", true, true, types.MakeGlyph(0xE8E8E8, '<')},
	TileStairsDown: {"stairs down", true, true, types.MakeGlyph(0xE8E8E8, '>')},
	TileAcid:       {"acid pool", true, true, types.MakeGlyph(0x33CC33, '~')},
	TileLava:       {"lava pool", true, true, types.MakeGlyph(0xFF4500, '~')},
	TileTrap:       {"trap", true, true, types.MakeGlyph(0xCC3333, '^')},
	TileCoreAltar:  {"aether altar", true, true, types.MakeGlyph(0x66FFFF, '&')},
}

// Walkable сообщает, можно ли встать на клетку. Закрытая дверь проходима
// (шаг в нее открывает ее), запертая - нет, пока не открыта ключом.
func (t Tile) Walkable() bool {
	if int(t) >= len(tileTable) {
		return false
	}
	return tileTable[t].walkable
}

// Transparent сообщает, пропускает ли клетка взгляд. Закрытые и запертые
// двери непрозрачны.
func (t Tile) Transparent() bool {
	if int(t) >= len(tileTable) {
		return false
	}
	return tileTable[t].transparent
}

// Hazard сообщает, наносит ли клетка урон стоящему на ней.
func (t Tile) Hazard() bool {
	return t == TileAcid || t == TileLava || t == TileTrap
}

// Glyph возвращает символ клетки для рендера. Ловушка до срабатывания
// маскируется под пол на уровне снапшота, не здесь.
func (t Tile) Glyph() types.Glyph {
	if int(t) >= len(tileTable) {
		return tileTable[TileWall].glyph
	}
	return tileTable[t].glyph
}

func (t Tile) String() string {
	if int(t) >= len(tileTable) {
		return "unknown"
	}
	return tileTable[t].name
}
