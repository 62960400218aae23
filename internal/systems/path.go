package systems

import (
	"container/heap"

	"golang.org/x/sync/errgroup"

	"aether-server/internal/domain"
)

// Стоимости шага: кардинальный 2, диагональный 3 - целочисленное
// приближение 1:sqrt(2), при котором зигзаг не выгоднее прямой.
const (
	costCardinal = 2
	costDiagonal = 3
)

// CostFn добавляет к стоимости входа в клетку произвольный штраф
// (например, за опасные клетки). nil - без штрафов.
type CostFn func(x, y int) int

// FindPath ищет кратчайший путь A* по проходимым клеткам, 8 направлений.
// Возвращает последовательность шагов без старта, с целью включительно;
// nil - пути нет (это не ошибка: AI трактует отсутствие пути как повод
// подождать). При равной оценке побеждает раньше вставленный узел, так
// что маршрут одинаков от запуска к запуску.
func FindPath(f *domain.Floor, start, goal domain.Position, extra CostFn) []domain.Position {
	if start == goal {
		return nil
	}
	if !f.IsWalkable(goal.X, goal.Y) {
		return nil
	}

	open := &pathQueue{}
	heap.Init(open)

	gScore := make(map[int]int)
	cameFrom := make(map[int]int)
	closed := make(map[int]bool)

	startIdx := f.Index(start.X, start.Y)
	gScore[startIdx] = 0
	seq := 0
	heap.Push(open, &pathNode{pos: start, f: heuristic(start, goal), seq: seq})

	for open.Len() > 0 {
		cur := heap.Pop(open).(*pathNode)
		curIdx := f.Index(cur.pos.X, cur.pos.Y)
		if closed[curIdx] {
			continue
		}
		closed[curIdx] = true

		if cur.pos == goal {
			return reconstruct(f, cameFrom, start, goal)
		}

		for _, d := range domain.Directions8 {
			next := cur.pos.Shift(d.X, d.Y)
			if !f.IsWalkable(next.X, next.Y) {
				continue
			}
			nextIdx := f.Index(next.X, next.Y)
			if closed[nextIdx] {
				continue
			}

			step := costCardinal
			if d.X != 0 && d.Y != 0 {
				step = costDiagonal
			}
			if extra != nil {
				step += extra(next.X, next.Y)
			}

			g := gScore[curIdx] + step
			if known, ok := gScore[nextIdx]; ok && g >= known {
				continue
			}
			gScore[nextIdx] = g
			cameFrom[nextIdx] = curIdx
			seq++
			heap.Push(open, &pathNode{pos: next, f: g + heuristic(next, goal), seq: seq})
		}
	}

	return nil
}

// heuristic - точная октильная дистанция при стоимостях 2/3:
// 2*max(dx,dy) + min(dx,dy).
func heuristic(a, b domain.Position) int {
	dx := a.X - b.X
	if dx < 0 {
		dx = -dx
	}
	dy := a.Y - b.Y
	if dy < 0 {
		dy = -dy
	}
	if dx < dy {
		dx, dy = dy, dx
	}
	return costCardinal*dx + (costDiagonal-costCardinal)*dy
}

func reconstruct(f *domain.Floor, cameFrom map[int]int, start, goal domain.Position) []domain.Position {
	startIdx := f.Index(start.X, start.Y)
	var rev []domain.Position
	idx := f.Index(goal.X, goal.Y)
	for idx != startIdx {
		rev = append(rev, domain.Position{X: idx % f.Width, Y: idx / f.Width})
		idx = cameFrom[idx]
	}
	// Разворачиваем: путь копился от цели к старту.
	for i, j := 0, len(rev)-1; i < j; i, j = i+1, j-1 {
		rev[i], rev[j] = rev[j], rev[i]
	}
	return rev
}

// DistanceField - карта стоимостей Дейкстры от одной точки.
// Используется AI: спуск по полю ведет к источнику кратчайшим путем.
type DistanceField struct {
	Width, Height int
	Origin        domain.Position
	Dist          []int // -1 - недостижимо
}

// At возвращает стоимость клетки; вне карты - -1.
func (df *DistanceField) At(x, y int) int {
	if x < 0 || y < 0 || x >= df.Width || y >= df.Height {
		return -1
	}
	return df.Dist[y*df.Width+x]
}

// ComputeDistanceField строит поле дистанций от origin по проходимым
// клеткам (те же стоимости 2/3, что и у A*).
func ComputeDistanceField(f *domain.Floor, origin domain.Position) *DistanceField {
	df := &DistanceField{
		Width:  f.Width,
		Height: f.Height,
		Origin: origin,
		Dist:   make([]int, f.Width*f.Height),
	}
	for i := range df.Dist {
		df.Dist[i] = -1
	}
	if !f.InBounds(origin.X, origin.Y) {
		return df
	}

	open := &pathQueue{}
	heap.Init(open)
	seq := 0
	heap.Push(open, &pathNode{pos: origin, f: 0, seq: seq})
	df.Dist[f.Index(origin.X, origin.Y)] = 0

	for open.Len() > 0 {
		cur := heap.Pop(open).(*pathNode)
		curIdx := f.Index(cur.pos.X, cur.pos.Y)
		if cur.f > df.Dist[curIdx] {
			continue // устаревшая запись очереди
		}

		for _, d := range domain.Directions8 {
			next := cur.pos.Shift(d.X, d.Y)
			if !f.IsWalkable(next.X, next.Y) {
				continue
			}
			step := costCardinal
			if d.X != 0 && d.Y != 0 {
				step = costDiagonal
			}
			nextIdx := f.Index(next.X, next.Y)
			g := cur.f + step
			if df.Dist[nextIdx] != -1 && df.Dist[nextIdx] <= g {
				continue
			}
			df.Dist[nextIdx] = g
			seq++
			heap.Push(open, &pathNode{pos: next, f: g, seq: seq})
		}
	}

	return df
}

// ComputeDistanceFields строит несколько независимых полей параллельно.
// Каждое поле пишет только в свою ячейку результата, а Wait гарантирует,
// что фаза планировщика продолжится не раньше, чем все поля готовы.
func ComputeDistanceFields(f *domain.Floor, origins []domain.Position) []*DistanceField {
	fields := make([]*DistanceField, len(origins))
	var g errgroup.Group
	for i, origin := range origins {
		g.Go(func() error {
			fields[i] = ComputeDistanceField(f, origin)
			return nil
		})
	}
	// Ошибок воркеры не возвращают, Wait здесь - только барьер.
	_ = g.Wait()
	return fields
}

// --- Очередь с приоритетом ---

type pathNode struct {
	pos domain.Position
	f   int // оценка полной стоимости (для Дейкстры - сама стоимость)
	seq int // порядок вставки, разрешает ничьи детерминированно
}

type pathQueue []*pathNode

func (q pathQueue) Len() int { return len(q) }

func (q pathQueue) Less(i, j int) bool {
	if q[i].f != q[j].f {
		return q[i].f < q[j].f
	}
	return q[i].seq < q[j].seq
}

func (q pathQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
}

func (q *pathQueue) Push(x any) {
	*q = append(*q, x.(*pathNode))
}

func (q *pathQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return item
}
