package domain

// Directions8 — восемь направлений шага в фиксированном порядке
// (N, NE, E, SE, S, SW, W, NW). Порядок обхода определяет разрешение
// ничьих в AI и обязан быть одинаковым на каждом запуске.
var Directions8 = [8]Position{
	{0, -1}, {1, -1}, {1, 0}, {1, 1},
	{0, 1}, {-1, 1}, {-1, 0}, {-1, -1},
}

// Directions4 — кардинальные соседи в порядке E, W, S, N.
var Directions4 = [4]Position{
	{1, 0}, {-1, 0}, {0, 1}, {0, -1},
}

// Shift возвращает новую позицию со смещением, не меняя текущую.
func (p Position) Shift(dx, dy int) Position {
	return Position{X: p.X + dx, Y: p.Y + dy}
}

// Manhattan возвращает манхэттенское расстояние до другой точки.
// Им меряют дистанции мозги AI.
func (p Position) Manhattan(other Position) int {
	dx := p.X - other.X
	if dx < 0 {
		dx = -dx
	}
	dy := p.Y - other.Y
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}

// Chebyshev возвращает расстояние по королевской метрике (8 направлений).
func (p Position) Chebyshev(other Position) int {
	dx := p.X - other.X
	if dx < 0 {
		dx = -dx
	}
	dy := p.Y - other.Y
	if dy < 0 {
		dy = -dy
	}
	if dx > dy {
		return dx
	}
	return dy
}

// DistanceSquaredTo — квадрат евклидова расстояния для сравнений без корней.
func (p Position) DistanceSquaredTo(other Position) int {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return dx*dx + dy*dy
}

// IsAdjacent — true, если цель в соседней клетке (включая диагональ).
func (p Position) IsAdjacent(other Position) bool {
	return p != other && p.Chebyshev(other) <= 1
}

// DirectionTo возвращает единичный шаг (знаки смещения) в сторону цели.
func (p Position) DirectionTo(other Position) (int, int) {
	return sign(other.X - p.X), sign(other.Y - p.Y)
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
