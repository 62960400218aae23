package dungeon

import (
	"aether-server/internal/core/rng"
	"aether-server/internal/domain"
)

// Параметры BSP-нарезки.
const (
	bspMaxDepth = 4
	bspLeafMaxW = 14 // узел уже не режется
	bspLeafMaxH = 12
	roomSizeMin = 5
	roomSizeMax = 10
)

// bspNode — узел двоичного разбиения. Комната есть только у листьев.
type bspNode struct {
	area        domain.Rect
	left, right *bspNode
	room        *domain.Rect
}

// carveRooms нарезает этаж деревом комнат и коридоров.
// false — разбиение выродилось (меньше двух комнат), попытка не годится.
func carveRooms(f *domain.Floor, stream *rng.Stream) ([]domain.Rect, bool) {
	root := &bspNode{area: domain.Rect{X: 0, Y: 0, W: f.Width, H: f.Height}}
	splitNode(root, 0, stream)

	var rooms []domain.Rect
	placeRooms(root, f, stream, &rooms)
	if len(rooms) < 2 {
		return nil, false
	}
	connectSiblings(root, f, stream)

	// Спуск — в случайной комнате, вход — в самой дальней от него
	// по Манхэттену: игроку всегда есть что пройти.
	downRoom, err := rng.Pick(stream, rooms)
	if err != nil {
		return nil, false
	}
	down := downRoom.Center()
	up := farthestCenter(rooms, down)

	f.SetTile(up.X, up.Y, domain.TileStairsUp)
	f.SetTile(down.X, down.Y, domain.TileStairsDown)
	f.Entrance = up
	f.StairsDown = down
	return rooms, true
}

// splitNode режет узел вдоль длинной стороны (при квадрате — монетка).
// Разрез ложится в центральную полосу 35–65%, чтобы половины оставались
// пригодными под комнаты.
func splitNode(n *bspNode, depth int, stream *rng.Stream) {
	if depth >= bspMaxDepth || n.area.W <= bspLeafMaxW || n.area.H <= bspLeafMaxH {
		return
	}

	vertical := n.area.W > n.area.H
	if n.area.W == n.area.H {
		vertical = stream.IntN(2) == 0
	}

	if vertical {
		cut := stream.Range(n.area.W*35/100, n.area.W*65/100)
		n.left = &bspNode{area: domain.Rect{X: n.area.X, Y: n.area.Y, W: cut, H: n.area.H}}
		n.right = &bspNode{area: domain.Rect{X: n.area.X + cut, Y: n.area.Y, W: n.area.W - cut, H: n.area.H}}
	} else {
		cut := stream.Range(n.area.H*35/100, n.area.H*65/100)
		n.left = &bspNode{area: domain.Rect{X: n.area.X, Y: n.area.Y, W: n.area.W, H: cut}}
		n.right = &bspNode{area: domain.Rect{X: n.area.X, Y: n.area.Y + cut, W: n.area.W, H: n.area.H - cut}}
	}

	splitNode(n.left, depth+1, stream)
	splitNode(n.right, depth+1, stream)
}

// placeRooms ставит по комнате в каждый лист: размер 5–10, обрезанный
// интерьером листа с полем в одну клетку до его границы.
func placeRooms(n *bspNode, f *domain.Floor, stream *rng.Stream, rooms *[]domain.Rect) {
	if n.left != nil {
		placeRooms(n.left, f, stream, rooms)
		placeRooms(n.right, f, stream, rooms)
		return
	}

	w := stream.Range(roomSizeMin, roomSizeMax)
	if m := n.area.W - 2; w > m {
		w = m
	}
	h := stream.Range(roomSizeMin, roomSizeMax)
	if m := n.area.H - 2; h > m {
		h = m
	}
	if w < 2 || h < 2 {
		return // лист слишком тесный, комнату не ставим
	}

	x := stream.Range(n.area.X+1, n.area.X+n.area.W-w-1)
	y := stream.Range(n.area.Y+1, n.area.Y+n.area.H-h-1)
	room := domain.Rect{X: x, Y: y, W: w, H: h}
	n.room = &room
	*rooms = append(*rooms, room)
	carveRoom(f, room)
}

// connectSiblings сшивает дерево снизу вверх: каждая пара поддеревьев
// соединяется коридором между центрами их представительских комнат.
// При несовпадении осей локоть Г-образного коридора выбирает монетка.
func connectSiblings(n *bspNode, f *domain.Floor, stream *rng.Stream) {
	if n.left == nil {
		return
	}
	connectSiblings(n.left, f, stream)
	connectSiblings(n.right, f, stream)

	a := subtreeCenter(n.left)
	b := subtreeCenter(n.right)
	switch {
	case a.X == b.X:
		carveVCorridor(f, a.Y, b.Y, a.X)
	case a.Y == b.Y:
		carveHCorridor(f, a.X, b.X, a.Y)
	case stream.IntN(2) == 0:
		carveHCorridor(f, a.X, b.X, a.Y)
		carveVCorridor(f, a.Y, b.Y, b.X)
	default:
		carveVCorridor(f, a.Y, b.Y, a.X)
		carveHCorridor(f, a.X, b.X, b.Y)
	}
}

// subtreeCenter — точка подключения поддерева: комната листа либо
// представитель левой ветки.
func subtreeCenter(n *bspNode) domain.Position {
	if n.room != nil {
		return n.room.Center()
	}
	if n.left != nil {
		return subtreeCenter(n.left)
	}
	return n.area.Center()
}

// farthestCenter возвращает центр комнаты, самой дальней от from
// по Манхэттену. Ничья уходит первой комнате в порядке обхода.
func farthestCenter(rooms []domain.Rect, from domain.Position) domain.Position {
	best := rooms[0].Center()
	bestDist := -1
	for _, room := range rooms {
		c := room.Center()
		if d := c.Manhattan(from); d > bestDist {
			best = c
			bestDist = d
		}
	}
	return best
}

// carveRoom выбивает прямоугольник пола.
func carveRoom(f *domain.Floor, room domain.Rect) {
	for y := room.Y; y < room.Y+room.H; y++ {
		for x := room.X; x < room.X+room.W; x++ {
			f.SetTile(x, y, domain.TileFloor)
		}
	}
}

// carveHCorridor прокладывает горизонтальный коридор от x1 до x2.
func carveHCorridor(f *domain.Floor, x1, x2, y int) {
	if x2 < x1 {
		x1, x2 = x2, x1
	}
	for x := x1; x <= x2; x++ {
		f.SetTile(x, y, domain.TileFloor)
	}
}

// carveVCorridor прокладывает вертикальный коридор от y1 до y2.
func carveVCorridor(f *domain.Floor, y1, y2, x int) {
	if y2 < y1 {
		y1, y2 = y2, y1
	}
	for y := y1; y <= y2; y++ {
		f.SetTile(x, y, domain.TileFloor)
	}
}
