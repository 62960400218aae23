package systems

import (
	"aether-server/internal/domain"
	"aether-server/pkg/logger"
	"github.com/sirupsen/logrus"
)

// Трансформации четырех квадрантов (север, юг, восток, запад):
// X = ox + col*m[0] + depth*m[1], Y = oy + col*m[2] + depth*m[3].
var quadrants = [4][4]int{
	{1, 0, 0, -1},
	{1, 0, 0, 1},
	{0, 1, 1, 0},
	{0, -1, 1, 0},
}

// ComputeVisibleTiles возвращает мапу индексов видимых клеток {index: true}.
//
// Алгоритм - симметричный shadowcasting по квадрантам: прозрачная клетка
// видна тогда и только тогда, когда видна её центральная линия, поэтому
// для пары проходимых клеток без препятствий между ними видимость взаимна.
// Результат кэшируется в VisionComponent до пометки Dirty.
func ComputeVisibleTiles(f *domain.Floor, pos domain.Position, vision *domain.VisionComponent) map[int]bool {
	if vision != nil && !vision.Dirty && vision.Cached != nil {
		return vision.Cached
	}

	fovLogger := logger.Log.WithFields(logrus.Fields{
		"component":    "fov_system",
		"observer_pos": pos,
	})

	radius := domain.VisionRadius
	if vision != nil {
		radius = vision.Radius
	}

	visible := make(map[int]bool)
	if radius <= 0 {
		fovLogger.Warn("FOV calculation skipped for blind observer (radius <= 0).")
		return visible
	}

	// Собственная клетка видна всегда.
	visible[f.Index(pos.X, pos.Y)] = true

	for q := 0; q < 4; q++ {
		sc := &fovScan{
			floor:   f,
			origin:  pos,
			radius:  radius,
			xx:      quadrants[q][0],
			xy:      quadrants[q][1],
			yx:      quadrants[q][2],
			yy:      quadrants[q][3],
			visible: visible,
		}
		sc.scan(1, slope{-1, 1}, slope{1, 1})
	}

	fovLogger.WithFields(logrus.Fields{
		"radius":        radius,
		"visible_tiles": len(visible),
	}).Debug("FOV calculation complete.")

	if vision != nil {
		vision.Cached = visible
		vision.Dirty = false
	}
	return visible
}

// slope - рациональный наклон col/depth. Сравнения только перемножением
// крест-накрест: float на краях секторов ломал бы симметрию.
// Знаменатель всегда положителен.
type slope struct{ num, den int }

type fovScan struct {
	floor          *domain.Floor
	origin         domain.Position
	radius         int
	xx, xy, yx, yy int
	visible        map[int]bool
}

// scan обходит ряд глубины depth внутри сектора [start, end) и рекурсивно
// порождает суженные сектора за препятствиями.
func (s *fovScan) scan(depth int, start, end slope) {
	if depth > s.radius {
		return
	}

	minCol := divFloor(2*depth*start.num+start.den, 2*start.den)
	maxCol := divCeil(2*depth*end.num-end.den, 2*end.den)

	const (
		prevNone = iota
		prevWall
		prevFloor
	)
	prev := prevNone

	for col := minCol; col <= maxCol; col++ {
		wall := s.isOpaque(depth, col)

		if wall || s.isSymmetric(depth, col, start, end) {
			s.reveal(depth, col)
		}
		if prev == prevWall && !wall {
			// Стена кончилась: сектор открывается от её дальнего края.
			start = slope{2*col - 1, 2 * depth}
		}
		if prev == prevFloor && wall {
			// Пустота уперлась в стену: остаток сектора уходит глубже.
			s.scan(depth+1, start, slope{2*col - 1, 2 * depth})
		}

		if wall {
			prev = prevWall
		} else {
			prev = prevFloor
		}
	}

	if prev == prevFloor {
		s.scan(depth+1, start, end)
	}
}

// isSymmetric - лежит ли центр клетки (depth, col) внутри сектора.
// Именно этот критерий дает взаимность видимости.
func (s *fovScan) isSymmetric(depth, col int, start, end slope) bool {
	return col*start.den >= depth*start.num && col*end.den <= depth*end.num
}

func (s *fovScan) transform(depth, col int) (int, int) {
	x := s.origin.X + col*s.xx + depth*s.xy
	y := s.origin.Y + col*s.yx + depth*s.yy
	return x, y
}

func (s *fovScan) isOpaque(depth, col int) bool {
	x, y := s.transform(depth, col)
	// Выход за границы непрозрачен.
	return !s.floor.IsTransparent(x, y)
}

func (s *fovScan) reveal(depth, col int) {
	if depth*depth+col*col > s.radius*s.radius {
		return
	}
	x, y := s.transform(depth, col)
	if !s.floor.InBounds(x, y) {
		return
	}
	s.visible[s.floor.Index(x, y)] = true
}

// divFloor - деление с округлением вниз (к минус бесконечности), den > 0.
func divFloor(num, den int) int {
	q := num / den
	if num%den != 0 && num < 0 {
		q--
	}
	return q
}

// divCeil - деление с округлением вверх, den > 0.
func divCeil(num, den int) int {
	q := num / den
	if num%den != 0 && num > 0 {
		q++
	}
	return q
}
