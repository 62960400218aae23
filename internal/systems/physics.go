package systems

import (
	"aether-server/internal/domain"
)

// HasLineOfSight проверяет прямую видимость между двумя точками по
// Брезенхэму (целочисленная арифметика). Крайние точки не считаются
// препятствием: стоя вплотную к стене, саму стену видно.
func HasLineOfSight(f *domain.Floor, p1, p2 domain.Position) bool {
	if p1 == p2 {
		return true
	}

	x0, y0 := p1.X, p1.Y
	x1, y1 := p2.X, p2.Y

	dx := x1 - x0
	if dx < 0 {
		dx = -dx
	}
	dy := y1 - y0
	if dy < 0 {
		dy = -dy
	}

	sx, sy := p1.DirectionTo(p2)
	errAcc := dx - dy

	for {
		isStart := x0 == p1.X && y0 == p1.Y
		isEnd := x0 == p2.X && y0 == p2.Y
		if !isStart && !isEnd && !f.IsTransparent(x0, y0) {
			return false
		}

		if x0 == x1 && y0 == y1 {
			break
		}

		e2 := errAcc * 2
		if e2 > -dy {
			errAcc -= dy
			x0 += sx
		}
		if e2 < dx {
			errAcc += dx
			y0 += sy
		}
	}

	return true
}
