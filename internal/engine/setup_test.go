package engine

import (
	"os"
	"strings"
	"testing"

	"aether-server/internal/core/rng"
	"aether-server/internal/core/types"
	"aether-server/internal/domain"
	"aether-server/internal/network"
	"aether-server/pkg/dungeon"
	"aether-server/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.InitQuiet()
	os.Exit(m.Run())
}

// carveFloor строит открытый этаж: пол внутри каменной рамки, лестница
// вверх на входе, лестница вниз в дальнем углу.
func carveFloor(depth, w, h int) *domain.Floor {
	f := domain.NewFloor(depth, w, h)
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			f.SetTile(x, y, domain.TileFloor)
		}
	}
	f.Entrance = domain.Position{X: 1, Y: 1}
	f.StairsDown = domain.Position{X: w - 2, Y: h - 2}
	f.SetTile(f.Entrance.X, f.Entrance.Y, domain.TileStairsUp)
	f.SetTile(f.StairsDown.X, f.StairsDown.Y, domain.TileStairsDown)
	return f
}

// newTestService собирает забег на ручном этаже вместо генератора:
// тестам важна предсказуемая геометрия. Герой настоящий, но с темпом
// 100, чтобы ход стоил ровно одно действие.
func newTestService(t *testing.T, seed int64) *GameService {
	t.Helper()

	root := rng.NewStream(seed, "root")
	s := &GameService{
		Cfg: Config{
			Seed:      seed,
			Algorithm: string(dungeon.AlgorithmRooms),
			HeroName:  "Тест",
		},
		Arena:       NewArena(0),
		Floors:      map[int]*domain.Floor{1: carveFloor(1, 12, 9)},
		Depth:       1,
		Root:        root,
		Combat:      root.Fork("combat"),
		AIStream:    root.Fork("ai"),
		Phase:       PhaseAwaitingInput,
		Turn:        1,
		Log:         &MessageLog{},
		Hub:         network.NewBroadcaster(),
		CommandChan: make(chan domain.Action, 64),
		identified:  make(map[string]bool),
		algo:        dungeon.AlgorithmRooms,
	}
	s.hiddenLabels = rollHiddenLabels(root.Fork("identify"))
	s.registerHandlers()

	player := dungeon.CreatePlayer("Тест")
	player.Stats.Speed = 100
	player.Depth = 1
	player.Pos = domain.Position{X: 4, Y: 4}
	player.Energy.Current = domain.ActionCost
	s.Arena.Spawn(player)
	s.Floors[1].AddEntity(player)
	s.PlayerID = player.ID
	return s
}

// placeDummy ставит безмозглую мишень: у нее есть статы, но нет AI,
// так что фаза ИИ её не трогает.
func placeDummy(s *GameService, name string, x, y int) *domain.Entity {
	e := &domain.Entity{
		Kind:  types.KindMonster,
		Name:  name,
		Pos:   domain.Position{X: x, Y: y},
		Depth: s.Depth,
		Stats: &domain.StatsComponent{
			HP: 10, MaxHP: 10,
			Attack: 1, Evasion: 2, Speed: 100,
		},
	}
	s.Arena.Spawn(e)
	s.Floors[s.Depth].AddEntity(e)
	return e
}

// submit подает намерение и валится, если оно отклонено.
func submit(t *testing.T, s *GameService, a domain.Action) {
	t.Helper()
	if err := s.SubmitIntent(a); err != nil {
		t.Fatalf("intent %s rejected: %v", a.Type, err)
	}
}

// lastLogText - текст последней записи журнала.
func lastLogText(s *GameService) string {
	tail := s.Log.Tail(1)
	if len(tail) == 0 {
		return ""
	}
	return tail[0].Text
}

// logContains - встречается ли подстрока в удержанной ленте.
func logContains(s *GameService, sub string) bool {
	for _, e := range s.Log.Entries() {
		if strings.Contains(e.Text, sub) {
			return true
		}
	}
	return false
}
