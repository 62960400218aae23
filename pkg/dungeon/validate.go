package dungeon

import (
	"errors"
	"fmt"

	"aether-server/internal/domain"
)

// Пределы доли проходимых клеток: слишком тесный этаж вырождается в
// коридор, слишком открытый — в пустую арену.
const (
	minWalkableDensity = 0.28
	maxWalkableDensity = 0.72
)

// validateFloor прогоняет структурные проверки готового этажа. Любая
// ошибка означает негодную попытку: генератор строит этаж заново.
func validateFloor(f *domain.Floor) error {
	playable := 0
	for _, t := range f.Tiles {
		if passable(t) {
			playable++
		}
	}
	density := float64(playable) / float64(len(f.Tiles))
	if density < minWalkableDensity || density > maxWalkableDensity {
		return fmt.Errorf("walkable density %.2f outside [%.2f, %.2f]", density, minWalkableDensity, maxWalkableDensity)
	}

	// Одна компонента: заливка от входа должна накрыть все игровые
	// клетки. Запертые двери считаются проходимыми - их откроет ключ.
	reach := floodReach(f, f.Entrance, -1)
	reached := 0
	for _, ok := range reach {
		if ok {
			reached++
		}
	}
	if reached != playable {
		return fmt.Errorf("map splits into pockets: reached %d of %d playable tiles", reached, playable)
	}

	// Спуск (на последнем этаже - алтарь) достижим от входа.
	goal := f.StairsDown
	if f.AltarPos != nil {
		goal = *f.AltarPos
	}
	if !reach[f.Index(goal.X, goal.Y)] {
		return errors.New("stairs are not reachable from the entrance")
	}

	// Ключ добывается до своего замка.
	for doorIdx := range f.DoorKeys {
		masked := floodReach(f, f.Entrance, doorIdx)
		for _, spot := range f.KeySpots {
			if !masked[f.Index(spot.X, spot.Y)] {
				return errors.New("key is locked behind its own door")
			}
		}
	}

	// Ровно один спуск; на последнем этаже - ни одного, вместо него алтарь.
	downs, altars := 0, 0
	for _, t := range f.Tiles {
		switch t {
		case domain.TileStairsDown:
			downs++
		case domain.TileCoreAltar:
			altars++
		}
	}
	if f.Depth == domain.MaxFloors {
		if downs != 0 || altars != 1 {
			return fmt.Errorf("final floor carries %d stairs down and %d altars", downs, altars)
		}
	} else if downs != 1 {
		return fmt.Errorf("floor carries %d stairs down", downs)
	}
	return nil
}

// passable — игровая связность: все проходимое плюс запертые двери.
func passable(t domain.Tile) bool {
	return t.Walkable() || t == domain.TileDoorLocked
}

// floodReach — заливка от start по восьми направлениям (движение
// диагонали разрешает, значит и связность тоже). Запертые двери
// проходимы; клетка maskIdx считается сплошной стеной, -1 — без маски.
func floodReach(f *domain.Floor, start domain.Position, maskIdx int) []bool {
	reach := make([]bool, len(f.Tiles))
	if !f.InBounds(start.X, start.Y) {
		return reach
	}
	startIdx := f.Index(start.X, start.Y)
	if startIdx == maskIdx || !passable(f.Tiles[startIdx]) {
		return reach
	}

	reach[startIdx] = true
	queue := []int{startIdx}
	for len(queue) > 0 {
		idx := queue[0]
		queue = queue[1:]
		x, y := idx%f.Width, idx/f.Width
		for _, d := range domain.Directions8 {
			nx, ny := x+d.X, y+d.Y
			if !f.InBounds(nx, ny) {
				continue
			}
			nIdx := f.Index(nx, ny)
			if reach[nIdx] || nIdx == maskIdx || !passable(f.Tiles[nIdx]) {
				continue
			}
			reach[nIdx] = true
			queue = append(queue, nIdx)
		}
	}
	return reach
}
