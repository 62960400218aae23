package domain

import "errors"

// Index переводит координаты в индекс row-major массива.
func (f *Floor) Index(x, y int) int {
	return y*f.Width + x
}

// InBounds проверяет границы сетки.
func (f *Floor) InBounds(x, y int) bool {
	return x >= 0 && x < f.Width && y >= 0 && y < f.Height
}

// TileAt возвращает тайл клетки; за границами - стена.
func (f *Floor) TileAt(x, y int) Tile {
	if !f.InBounds(x, y) {
		return TileWall
	}
	return f.Tiles[f.Index(x, y)]
}

// SetTile меняет тайл клетки. За границами - тихий no-op.
func (f *Floor) SetTile(x, y int, t Tile) {
	if f.InBounds(x, y) {
		f.Tiles[f.Index(x, y)] = t
	}
}

// IsWalkable учитывает и тип тайла, и границы.
func (f *Floor) IsWalkable(x, y int) bool {
	return f.InBounds(x, y) && f.Tiles[f.Index(x, y)].Walkable()
}

// IsTransparent - прозрачность для расчета видимости.
func (f *Floor) IsTransparent(x, y int) bool {
	return f.InBounds(x, y) && f.Tiles[f.Index(x, y)].Transparent()
}

// MarkVisible перезаписывает слой видимости и вливает его в память
// исследования: explored |= visible, память никогда не очищается.
func (f *Floor) MarkVisible(visible map[int]bool) {
	for i := range f.Visible {
		f.Visible[i] = false
	}
	for idx := range visible {
		if idx < 0 || idx >= len(f.Visible) {
			continue
		}
		f.Visible[idx] = true
		f.Explored[idx] = true
	}
}

// --- Пространственный индекс ---

// GetEntitiesAt возвращает сущности в клетке.
func (f *Floor) GetEntitiesAt(x, y int) []*Entity {
	if !f.InBounds(x, y) {
		return nil
	}
	return f.SpatialHash[f.Index(x, y)]
}

// ActorAt возвращает живую сущность с характеристиками в клетке
// (игрок или монстр), nil если клетка свободна.
func (f *Floor) ActorAt(x, y int) *Entity {
	for _, e := range f.GetEntitiesAt(x, y) {
		if e.Stats != nil && !e.Stats.IsDead {
			return e
		}
	}
	return nil
}

// ItemsAt возвращает предметы, лежащие в клетке, в порядке добавления.
func (f *Floor) ItemsAt(x, y int) []*Entity {
	var items []*Entity
	for _, e := range f.GetEntitiesAt(x, y) {
		if e.Item != nil {
			items = append(items, e)
		}
	}
	return items
}

// AddEntity добавляет сущность в индекс по ее текущей позиции.
func (f *Floor) AddEntity(e *Entity) {
	idx := f.Index(e.Pos.X, e.Pos.Y)
	f.SpatialHash[idx] = append(f.SpatialHash[idx], e)
}

// RemoveEntity вынимает сущность из индекса. Порядок в ведре сохраняется:
// от него зависит, какой предмет поднимается первым.
func (f *Floor) RemoveEntity(e *Entity) {
	idx := f.Index(e.Pos.X, e.Pos.Y)
	bucket := f.SpatialHash[idx]
	for i, other := range bucket {
		if other.ID == e.ID {
			f.SpatialHash[idx] = append(bucket[:i], bucket[i+1:]...)
			return
		}
	}
}

// UpdateEntityPos перемещает сущность в индексе и в самой сущности.
func (f *Floor) UpdateEntityPos(e *Entity, newX, newY int) error {
	if !f.InBounds(newX, newY) {
		return errors.New("out of bounds")
	}
	f.RemoveEntity(e)
	e.Pos.X = newX
	e.Pos.Y = newY
	f.AddEntity(e)
	return nil
}

// RebuildIndex пересобирает пространственный индекс из списка сущностей
// (после загрузки сохранения).
func (f *Floor) RebuildIndex(entities []*Entity) {
	f.SpatialHash = make(map[int][]*Entity)
	if f.Visible == nil {
		f.Visible = make([]bool, f.Width*f.Height)
	}
	for _, e := range entities {
		if e == nil || e.Depth != f.Depth {
			continue
		}
		if e.Stats != nil && e.Stats.IsDead {
			continue
		}
		f.AddEntity(e)
	}
}
