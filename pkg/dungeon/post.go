package dungeon

import (
	"errors"

	"aether-server/internal/core/rng"
	"aether-server/internal/domain"
	"aether-server/internal/systems"
)

// Бюджеты наполнения.
const (
	hazardMinCount   = 3
	hazardDivisor    = 40 // опасных клеток - walkable/40, но не меньше hazardMinCount
	trapDivisor      = 30 // ловушек - walkable/30 + 1
	maxDoorsPerFloor = 6
)

// postProcess наносит на вырезанную сетку общий слой наполнения:
// критический путь, опасные клетки вне него, двери в сужениях, замок
// с ключом и алтарь Ядра на последнем этаже.
func postProcess(f *domain.Floor, rooms []domain.Rect, stream *rng.Stream) error {
	steps := systems.FindPath(f, f.Entrance, f.StairsDown, nil)
	if steps == nil {
		return errors.New("entrance and stairs are not connected")
	}
	critical := make(map[int]bool, len(steps)+1)
	f.CriticalPath = append(f.CriticalPath, f.Index(f.Entrance.X, f.Entrance.Y))
	critical[f.Index(f.Entrance.X, f.Entrance.Y)] = true
	for _, p := range steps {
		idx := f.Index(p.X, p.Y)
		critical[idx] = true
		f.CriticalPath = append(f.CriticalPath, idx)
	}

	placeHazards(f, critical, stream)
	placeDoors(f, stream)
	placeLockAndKey(f, stream)

	if f.Depth == domain.MaxFloors {
		placeCoreAltar(f, rooms)
	}
	return nil
}

// placeHazards рассыпает кислоту, лаву и ловушки по перетасованному
// полу. Критический путь неприкосновенен: гарантированный маршрут до
// спуска всегда безопасен.
func placeHazards(f *domain.Floor, critical map[int]bool, stream *rng.Stream) {
	walkable := 0
	var open []int
	for idx, t := range f.Tiles {
		if t.Walkable() {
			walkable++
		}
		// Кандидаты - только голый пол: лестницы не перекрываем.
		if t == domain.TileFloor && !critical[idx] {
			open = append(open, idx)
		}
	}
	stream.Shuffle(len(open), func(i, j int) { open[i], open[j] = open[j], open[i] })

	hazards := walkable / hazardDivisor
	if hazards < hazardMinCount {
		hazards = hazardMinCount
	}
	traps := walkable/trapDivisor + 1

	cursor := 0
	for ; hazards > 0 && cursor < len(open); cursor++ {
		if stream.IntN(2) == 0 {
			f.Tiles[open[cursor]] = domain.TileAcid
		} else {
			f.Tiles[open[cursor]] = domain.TileLava
		}
		hazards--
	}
	for ; traps > 0 && cursor < len(open); cursor++ {
		f.Tiles[open[cursor]] = domain.TileTrap
		traps--
	}
}

// placeDoors ставит закрытые двери в сужениях: клетка пола, зажатая
// двумя стенами поперек хода. Дверь к двери не лепится.
func placeDoors(f *domain.Floor, stream *rng.Stream) {
	var candidates []int
	for y := 1; y < f.Height-1; y++ {
		for x := 1; x < f.Width-1; x++ {
			if isChokepoint(f, x, y) {
				candidates = append(candidates, f.Index(x, y))
			}
		}
	}
	stream.Shuffle(len(candidates), func(i, j int) { candidates[i], candidates[j] = candidates[j], candidates[i] })

	placed := 0
	for _, idx := range candidates {
		if placed >= maxDoorsPerFloor {
			break
		}
		if hasDoorNeighbor(f, idx) {
			continue
		}
		f.Tiles[idx] = domain.TileDoorClosed
		placed++
	}
}

func isChokepoint(f *domain.Floor, x, y int) bool {
	if f.TileAt(x, y) != domain.TileFloor {
		return false
	}
	wallN := f.TileAt(x, y-1) == domain.TileWall
	wallS := f.TileAt(x, y+1) == domain.TileWall
	wallW := f.TileAt(x-1, y) == domain.TileWall
	wallE := f.TileAt(x+1, y) == domain.TileWall
	openN := f.TileAt(x, y-1).Walkable()
	openS := f.TileAt(x, y+1).Walkable()
	openW := f.TileAt(x-1, y).Walkable()
	openE := f.TileAt(x+1, y).Walkable()
	return (wallN && wallS && openW && openE) || (wallW && wallE && openN && openS)
}

func hasDoorNeighbor(f *domain.Floor, idx int) bool {
	x, y := idx%f.Width, idx/f.Width
	for _, d := range domain.Directions4 {
		switch f.TileAt(x+d.X, y+d.Y) {
		case domain.TileDoorClosed, domain.TileDoorLocked:
			return true
		}
	}
	return false
}

// placeLockAndKey запирает одну из дверей и выбирает клетку под ключ
// так, чтобы ключ был достижим от входа без прохода через свой же
// замок. Первый этаж остается без замков.
func placeLockAndKey(f *domain.Floor, stream *rng.Stream) {
	if f.Depth < 2 {
		return
	}

	var doors []int
	for idx, t := range f.Tiles {
		if t == domain.TileDoorClosed {
			doors = append(doors, idx)
		}
	}
	if len(doors) == 0 {
		return
	}
	doorIdx, err := rng.Pick(stream, doors)
	if err != nil {
		return
	}

	// Заливка от входа с замаскированной дверью: что осталось
	// достижимым, то годится под ключ.
	reach := floodReach(f, f.Entrance, doorIdx)
	entranceIdx := f.Index(f.Entrance.X, f.Entrance.Y)
	var spots []int
	for idx, ok := range reach {
		if ok && idx != entranceIdx && f.Tiles[idx] == domain.TileFloor {
			spots = append(spots, idx)
		}
	}
	spotIdx, err := rng.Pick(stream, spots)
	if err != nil {
		// Дверь запирает весь этаж целиком - оставляем ее незапертой.
		return
	}

	f.Tiles[doorIdx] = domain.TileDoorLocked
	f.DoorKeys[doorIdx] = f.Depth
	f.KeySpots = append(f.KeySpots, domain.Position{X: spotIdx % f.Width, Y: spotIdx / f.Width})
}

// placeCoreAltar превращает спуск последнего этажа в алтарь Ядра и
// очерчивает вокруг него регион босса.
func placeCoreAltar(f *domain.Floor, rooms []domain.Rect) {
	pos := f.StairsDown
	f.SetTile(pos.X, pos.Y, domain.TileCoreAltar)
	f.AltarPos = &pos

	gate := altarRegion(f, rooms, pos)
	f.BossGate = &gate
}

// altarRegion — комната BSP с алтарем либо, в пещерах, прямоугольник
// вокруг него, обрезанный границами карты.
func altarRegion(f *domain.Floor, rooms []domain.Rect, altar domain.Position) domain.Rect {
	for _, room := range rooms {
		if room.Contains(altar) {
			return room
		}
	}
	gate := domain.Rect{X: altar.X - 4, Y: altar.Y - 3, W: 9, H: 7}
	if gate.X < 1 {
		gate.X = 1
	}
	if gate.Y < 1 {
		gate.Y = 1
	}
	if gate.X+gate.W > f.Width-1 {
		gate.W = f.Width - 1 - gate.X
	}
	if gate.Y+gate.H > f.Height-1 {
		gate.H = f.Height - 1 - gate.Y
	}
	return gate
}
