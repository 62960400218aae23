package domain

// Position — клетка на сетке этажа.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Rect — прямоугольная область (комнаты, регион босса).
type Rect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// Center возвращает центр области.
func (r Rect) Center() Position {
	return Position{X: r.X + r.W/2, Y: r.Y + r.H/2}
}

// Contains проверяет, лежит ли точка внутри области.
func (r Rect) Contains(p Position) bool {
	return p.X >= r.X && p.X < r.X+r.W && p.Y >= r.Y && p.Y < r.Y+r.H
}

// Intersect проверяет пересечение областей.
func (r Rect) Intersect(other Rect) bool {
	return !(other.X+other.W <= r.X ||
		other.X >= r.X+r.W ||
		other.Y+other.H <= r.Y ||
		other.Y >= r.Y+r.H)
}

// Floor — один уровень подземелья: сетка тайлов, память исследования
// и метаданные генерации. Этаж создается один раз и живет до конца забега.
type Floor struct {
	Depth  int    `json:"depth"` // номер этажа, 1..MaxFloors
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Tiles  []Tile `json:"tiles"` // row-major, Y*Width+X

	// Память тумана войны. Explored накапливается и сохраняется,
	// Visible пересчитывается каждый ход и после загрузки.
	Explored []bool `json:"explored"`
	Visible  []bool `json:"-"`

	// Метаданные генерации
	Algorithm    string       `json:"algorithm"`
	Attempts     int          `json:"attempts"`
	Entrance     Position     `json:"entrance"` // клетка лестницы вверх
	StairsDown   Position     `json:"stairsDown"`
	AltarPos     *Position    `json:"altarPos,omitempty"` // только этаж 8
	DoorKeys     map[int]int  `json:"doorKeys,omitempty"` // индекс запертой двери -> ID ключа
	KeySpots     []Position   `json:"keySpots,omitempty"`
	CriticalPath []int        `json:"criticalPath,omitempty"`
	BossGate     *Rect        `json:"bossGate,omitempty"`
	Sprung       map[int]bool `json:"sprung,omitempty"` // сработавшие ловушки

	// Пространственный индекс: индекс клетки -> сущности на ней.
	// Восстанавливается из арены при загрузке, не сериализуется.
	SpatialHash map[int][]*Entity `json:"-"`
}

// NewFloor создает пустой этаж (одни стены) заданного размера.
func NewFloor(depth, width, height int) *Floor {
	n := width * height
	return &Floor{
		Depth:       depth,
		Width:       width,
		Height:      height,
		Tiles:       make([]Tile, n),
		Explored:    make([]bool, n),
		Visible:     make([]bool, n),
		DoorKeys:    make(map[int]int),
		Sprung:      make(map[int]bool),
		SpatialHash: make(map[int][]*Entity),
	}
}
