package systems

import (
	"os"
	"testing"

	"aether-server/internal/core/types"
	"aether-server/internal/domain"
	"aether-server/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.InitQuiet()
	os.Exit(m.Run())
}

// newTestFloor создает этаж, целиком залитый полом. Стены тесты
// расставляют сами.
func newTestFloor(w, h int) *domain.Floor {
	f := domain.NewFloor(1, w, h)
	for i := range f.Tiles {
		f.Tiles[i] = domain.TileFloor
	}
	return f
}

var testIDSeq uint32

func nextTestID(kind types.EntityKind) types.EntityID {
	testIDSeq++
	return types.PackEntityID(0, kind, 0, testIDSeq)
}

// newTestActor ставит на этаж живого актера с усредненными статами.
func newTestActor(name string, x, y int, f *domain.Floor) *domain.Entity {
	e := &domain.Entity{
		ID:    nextTestID(types.KindMonster),
		Kind:  types.KindMonster,
		Name:  name,
		Pos:   domain.Position{X: x, Y: y},
		Depth: f.Depth,
		Stats: &domain.StatsComponent{
			HP: 20, MaxHP: 20,
			Attack: 5, Defense: 0,
			Accuracy: 5, Evasion: 5,
			Speed: 100,
		},
	}
	f.AddEntity(e)
	return e
}

// newTestMonster - актер с мозгом в режиме охоты.
func newTestMonster(name string, arch domain.Archetype, x, y int, f *domain.Floor) *domain.Entity {
	m := newTestActor(name, x, y, f)
	m.AI = &domain.AIComponent{Archetype: arch, State: domain.AIStateHunt}
	m.Memory = &domain.MemoryComponent{}
	return m
}

// newTestItemEntity кладет предмет на пол этажа.
func newTestItemEntity(name string, comp *domain.ItemComponent, x, y int, f *domain.Floor) *domain.Entity {
	e := &domain.Entity{
		ID:    nextTestID(types.KindItem),
		Kind:  types.KindItem,
		Name:  name,
		Pos:   domain.Position{X: x, Y: y},
		Depth: f.Depth,
		Item:  comp,
	}
	f.AddEntity(e)
	return e
}

// mapFinder - тривиальный EntityProvider для тестов.
type mapFinder map[types.EntityID]*domain.Entity

func (m mapFinder) GetEntity(id types.EntityID) *domain.Entity { return m[id] }
