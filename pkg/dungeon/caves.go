package dungeon

import (
	"aether-server/internal/core/rng"
	"aether-server/internal/domain"
)

// Параметры клеточного автомата.
const (
	caveFloorChance    = 0.55
	caveSmoothingSteps = 5
)

// carveCaves выращивает пещеру: случайная затравка, сглаживание
// клеточным автоматом, затем все кроме крупнейшей полости зарастает.
// false — полость выродилась, попытка не годится.
func carveCaves(f *domain.Floor, stream *rng.Stream) bool {
	// Затравка. Границы карты остаются стеной.
	for y := 1; y < f.Height-1; y++ {
		for x := 1; x < f.Width-1; x++ {
			if stream.Chance(caveFloorChance) {
				f.SetTile(x, y, domain.TileFloor)
			}
		}
	}

	for i := 0; i < caveSmoothingSteps; i++ {
		smoothCaves(f)
	}

	cavern := keepLargestCavern(f)
	if len(cavern) < 2 {
		return false
	}

	// Вход и спуск тянутся из выжившей полости; клетка входа
	// выбывает из кандидатов на спуск.
	i := stream.IntN(len(cavern))
	entrance := cavern[i]
	cavern[i] = cavern[len(cavern)-1]
	down, err := rng.Pick(stream, cavern[:len(cavern)-1])
	if err != nil {
		return false
	}

	f.SetTile(entrance.X, entrance.Y, domain.TileStairsUp)
	f.SetTile(down.X, down.Y, domain.TileStairsDown)
	f.Entrance = entrance
	f.StairsDown = down
	return true
}

// smoothCaves делает один шаг автомата: больше четырех стен из восьми
// соседей — клетка зарастает, меньше четырех — раскрывается, ровно
// четыре — остается как была.
func smoothCaves(f *domain.Floor) {
	next := make([]domain.Tile, len(f.Tiles))
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			idx := f.Index(x, y)
			if x == 0 || y == 0 || x == f.Width-1 || y == f.Height-1 {
				next[idx] = domain.TileWall
				continue
			}
			switch walls := countWallNeighbors(f, x, y); {
			case walls > 4:
				next[idx] = domain.TileWall
			case walls < 4:
				next[idx] = domain.TileFloor
			default:
				next[idx] = f.Tiles[idx]
			}
		}
	}
	f.Tiles = next
}

// countWallNeighbors считает стены среди восьми соседей; клетки за
// границей тоже стены.
func countWallNeighbors(f *domain.Floor, x, y int) int {
	count := 0
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			if f.TileAt(x+dx, y+dy) == domain.TileWall {
				count++
			}
		}
	}
	return count
}

// keepLargestCavern оставляет крупнейшую связную полость (соседство
// кардинальное) и возвращает ее клетки; остальной пол зарастает.
func keepLargestCavern(f *domain.Floor) []domain.Position {
	seen := make([]bool, len(f.Tiles))
	var best []domain.Position
	for y := 1; y < f.Height-1; y++ {
		for x := 1; x < f.Width-1; x++ {
			idx := f.Index(x, y)
			if seen[idx] || f.Tiles[idx] != domain.TileFloor {
				continue
			}
			comp := collectCavern(f, seen, domain.Position{X: x, Y: y})
			if len(comp) > len(best) {
				best = comp
			}
		}
	}

	keep := make(map[int]bool, len(best))
	for _, p := range best {
		keep[f.Index(p.X, p.Y)] = true
	}
	for idx := range f.Tiles {
		if f.Tiles[idx] == domain.TileFloor && !keep[idx] {
			f.Tiles[idx] = domain.TileWall
		}
	}
	return best
}

func collectCavern(f *domain.Floor, seen []bool, start domain.Position) []domain.Position {
	seen[f.Index(start.X, start.Y)] = true
	queue := []domain.Position{start}
	var comp []domain.Position
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		comp = append(comp, p)
		for _, d := range domain.Directions4 {
			n := p.Shift(d.X, d.Y)
			if !f.InBounds(n.X, n.Y) {
				continue
			}
			idx := f.Index(n.X, n.Y)
			if seen[idx] || f.Tiles[idx] != domain.TileFloor {
				continue
			}
			seen[idx] = true
			queue = append(queue, n)
		}
	}
	return comp
}
