package engine

import (
	"bytes"
	"encoding/json"
	"testing"

	"aether-server/internal/domain"
	"aether-server/internal/infrastructure/storage"
)

// newRealService поднимает забег на настоящем генераторе: тестам реплея
// нужна полная труба, включая население этажа.
func newRealService(t *testing.T, seed int64) *GameService {
	t.Helper()
	cfg := NewConfig()
	cfg.Seed = seed
	cfg.HeroName = "Реплей"
	s, err := NewService(cfg)
	if err != nil {
		t.Fatalf("NewService(%d): %v", seed, err)
	}
	return s
}

// walkScript - фиксированный маршрут: шаги по сторонам света с
// передышками. Отказы (стены) допустимы: они бесплатны и обязаны
// повторяться от прогона к прогону так же, как успехи.
func walkScript(n int) []domain.Action {
	dirs := []struct{ dx, dy int }{
		{1, 0}, {0, 1}, {1, 1}, {-1, 0}, {0, -1}, {1, 0}, {0, 1}, {-1, -1},
	}
	out := make([]domain.Action, 0, n)
	for i := 0; i < n; i++ {
		if i%5 == 4 {
			out = append(out, domain.Action{Type: domain.ActionWait})
			continue
		}
		d := dirs[i%len(dirs)]
		out = append(out, domain.Action{Type: domain.ActionMove, DX: d.dx, DY: d.dy})
	}
	return out
}

func drive(s *GameService, script []domain.Action) {
	for _, a := range script {
		if s.Phase.Terminal() {
			return
		}
		_ = s.SubmitIntent(a)
	}
}

// assertSameRun сверяет два забега: счетчики, героя, потоки случайности
// и ленту журнала байт в байт.
func assertSameRun(t *testing.T, a, b *GameService) {
	t.Helper()

	if a.Turn != b.Turn {
		t.Errorf("turn: %d vs %d", a.Turn, b.Turn)
	}
	if a.Depth != b.Depth {
		t.Errorf("depth: %d vs %d", a.Depth, b.Depth)
	}
	if a.Phase != b.Phase {
		t.Errorf("phase: %s vs %s", a.Phase, b.Phase)
	}

	pa, pb := a.Player(), b.Player()
	if (pa == nil) != (pb == nil) {
		t.Fatalf("player presence differs: %v vs %v", pa != nil, pb != nil)
	}
	if pa != nil {
		if pa.Pos != pb.Pos {
			t.Errorf("player pos: (%d,%d) vs (%d,%d)", pa.Pos.X, pa.Pos.Y, pb.Pos.X, pb.Pos.Y)
		}
		if pa.Stats.HP != pb.Stats.HP || pa.Stats.MP != pb.Stats.MP {
			t.Errorf("player hp/mp: %d/%d vs %d/%d", pa.Stats.HP, pa.Stats.MP, pb.Stats.HP, pb.Stats.MP)
		}
		if pa.Energy.Current != pb.Energy.Current {
			t.Errorf("player energy: %d vs %d", pa.Energy.Current, pb.Energy.Current)
		}
	}

	for _, pair := range []struct {
		name string
		x, y json.Marshaler
	}{
		{"combat", a.Combat, b.Combat},
		{"ai", a.AIStream, b.AIStream},
	} {
		xb, err := pair.x.MarshalJSON()
		if err != nil {
			t.Fatal(err)
		}
		yb, err := pair.y.MarshalJSON()
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(xb, yb) {
			t.Errorf("%s stream state diverged", pair.name)
		}
	}

	la, lb := a.Log.Entries(), b.Log.Entries()
	if len(la) != len(lb) {
		t.Fatalf("log length: %d vs %d", len(la), len(lb))
	}
	for i := range la {
		if la[i] != lb[i] {
			t.Fatalf("log entry %d differs:\n  %+v\n  %+v", i, la[i], lb[i])
		}
	}
}

func TestSameSeedSameTranscript(t *testing.T) {
	script := walkScript(40)

	a := newRealService(t, 321)
	b := newRealService(t, 321)
	drive(a, script)
	drive(b, script)

	assertSameRun(t, a, b)
}

func TestDifferentSeedsDiverge(t *testing.T) {
	a := newRealService(t, 321)
	b := newRealService(t, 322)

	fa, fb := a.Floors[1], b.Floors[1]
	sameTiles := len(fa.Tiles) == len(fb.Tiles)
	if sameTiles {
		for i := range fa.Tiles {
			if fa.Tiles[i] != fb.Tiles[i] {
				sameTiles = false
				break
			}
		}
	}
	if sameTiles {
		t.Error("two different seeds generated identical first floors")
	}

	ca, err := a.Combat.MarshalJSON()
	if err != nil {
		t.Fatal(err)
	}
	cb, err := b.Combat.MarshalJSON()
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Equal(ca, cb) {
		t.Error("combat streams identical across different seeds")
	}
}

func TestSaveLoadReplayEquivalence(t *testing.T) {
	warmup := walkScript(8)
	tail := walkScript(25)

	a := newRealService(t, 321)
	drive(a, warmup)
	if a.Phase != PhaseAwaitingInput {
		t.Fatalf("phase after warmup = %s, want awaiting_input", a.Phase)
	}

	// Сейв через настоящий кодек, не мимо него
	snap, err := a.Snapshot()
	if err != nil {
		t.Fatal(err)
	}
	blob, err := storage.Encode(snap)
	if err != nil {
		t.Fatal(err)
	}
	decoded, err := storage.Decode(blob)
	if err != nil {
		t.Fatal(err)
	}
	b, err := RestoreService(decoded)
	if err != nil {
		t.Fatal(err)
	}

	if b.Turn != a.Turn || b.Depth != a.Depth {
		t.Fatalf("restored turn/depth = %d/%d, want %d/%d", b.Turn, b.Depth, a.Turn, a.Depth)
	}

	// Оба забега доигрывают один хвост и обязаны совпасть
	drive(a, tail)
	drive(b, tail)
	assertSameRun(t, a, b)
}

func TestRestoredHeroKeepsLoadout(t *testing.T) {
	a := newRealService(t, 321)
	drive(a, walkScript(5))

	snap, err := a.Snapshot()
	if err != nil {
		t.Fatal(err)
	}
	blob, err := storage.Encode(snap)
	if err != nil {
		t.Fatal(err)
	}
	decoded, err := storage.Decode(blob)
	if err != nil {
		t.Fatal(err)
	}
	b, err := RestoreService(decoded)
	if err != nil {
		t.Fatal(err)
	}

	pa, pb := a.Player(), b.Player()
	if pb == nil {
		t.Fatal("hero missing after restore")
	}
	if pb.Name != pa.Name {
		t.Errorf("hero name %q, want %q", pb.Name, pa.Name)
	}
	if len(pb.Inventory.Items) != len(pa.Inventory.Items) {
		t.Errorf("inventory size %d, want %d", len(pb.Inventory.Items), len(pa.Inventory.Items))
	}
	// Бонусы экипировки не хранятся в сейве, а пересчитываются
	if pb.Equipment.Weapon() == nil {
		t.Error("starting weapon lost in restore")
	}
	if pb.Stats.Attack != pa.Stats.Attack || pb.Stats.Defense != pa.Stats.Defense {
		t.Errorf("recomputed stats %d/%d, want %d/%d", pb.Stats.Attack, pb.Stats.Defense, pa.Stats.Attack, pa.Stats.Defense)
	}
}
