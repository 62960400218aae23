package systems

import (
	"testing"

	"aether-server/internal/core/rng"
	"aether-server/internal/core/types"
	"aether-server/internal/domain"
)

func newAIContext(f *domain.Floor, player *domain.Entity, seed uint64) *AIContext {
	return &AIContext{
		Floor:       f,
		Player:      player,
		Stream:      rng.NewStream(int64(seed), "ai"),
		Turn:        1,
		PlayerField: ComputeDistanceField(f, player.Pos),
	}
}

func newTestPlayer(x, y int, f *domain.Floor) *domain.Entity {
	p := newTestActor("hero", x, y, f)
	p.Kind = types.KindPlayer
	return p
}

// applyDecision прокручивает шаг моба, как это сделал бы движок.
func applyDecision(t *testing.T, f *domain.Floor, npc *domain.Entity, d Decision) {
	t.Helper()
	if d.Action.Type != domain.ActionMove {
		return
	}
	if err := f.UpdateEntityPos(npc, npc.Pos.X+d.Action.DX, npc.Pos.Y+d.Action.DY); err != nil {
		t.Fatalf("move failed: %v", err)
	}
}

func TestComputeNPCAction_BruteClosesInAndAttacks(t *testing.T) {
	f := newTestFloor(12, 12)
	player := newTestPlayer(8, 5, f)
	brute := newTestMonster("pit brute", domain.ArchetypeBrute, 2, 5, f)
	ctx := newAIContext(f, player, 1)

	attacked := false
	for turn := 0; turn < 20; turn++ {
		d := ComputeNPCAction(brute, ctx)
		if d.Action.Type == domain.ActionAttack {
			if d.Action.Target != player.ID {
				t.Fatalf("attack target = %v, want player", d.Action.Target)
			}
			attacked = true
			break
		}
		if d.Action.Type != domain.ActionMove {
			t.Fatalf("turn %d: brute neither moves nor attacks: %+v", turn, d)
		}
		before := ctx.PlayerField.At(brute.Pos.X, brute.Pos.Y)
		applyDecision(t, f, brute, d)
		after := ctx.PlayerField.At(brute.Pos.X, brute.Pos.Y)
		if after >= before {
			t.Fatalf("turn %d: brute did not descend the distance field: %d -> %d", turn, before, after)
		}
	}
	if !attacked {
		t.Fatal("brute never reached the player")
	}
}

func TestComputeNPCAction_FrozenSkipsTurn(t *testing.T) {
	f := newTestFloor(10, 10)
	player := newTestPlayer(5, 5, f)
	brute := newTestMonster("pit brute", domain.ArchetypeBrute, 4, 5, f)
	brute.Statuses = &domain.StatusesComponent{}
	brute.Statuses.Apply(domain.StatusFreeze, 2, 1, 0)

	d := ComputeNPCAction(brute, newAIContext(f, player, 1))
	if d.Action.Type != domain.ActionWait {
		t.Errorf("frozen npc must wait, got %v", d.Action.Type)
	}
}

func TestComputeNPCAction_DeadPlayerMeansWait(t *testing.T) {
	f := newTestFloor(10, 10)
	player := newTestPlayer(5, 5, f)
	player.Stats.IsDead = true
	brute := newTestMonster("pit brute", domain.ArchetypeBrute, 4, 5, f)

	d := ComputeNPCAction(brute, newAIContext(f, player, 1))
	if d.Action.Type != domain.ActionWait {
		t.Errorf("no live player, nothing to do: got %v", d.Action.Type)
	}
}

func TestComputeNPCAction_SkirmisherBands(t *testing.T) {
	t.Run("attacks at reach", func(t *testing.T) {
		f := newTestFloor(12, 12)
		player := newTestPlayer(5, 5, f)
		sk := newTestMonster("gutter blade", domain.ArchetypeSkirmisher, 7, 5, f)

		d := ComputeNPCAction(sk, newAIContext(f, player, 1))
		if d.Action.Type != domain.ActionAttack {
			t.Errorf("manhattan 2 is attack range, got %v", d.Action.Type)
		}
	})

	t.Run("retreats diagonally from point blank", func(t *testing.T) {
		f := newTestFloor(12, 12)
		player := newTestPlayer(5, 5, f)
		sk := newTestMonster("gutter blade", domain.ArchetypeSkirmisher, 6, 5, f)

		d := ComputeNPCAction(sk, newAIContext(f, player, 1))
		if d.Action.Type != domain.ActionMove {
			t.Fatalf("point blank should trigger a retreat, got %v", d.Action.Type)
		}
		if d.Action.DX != 1 || d.Action.DY != 1 {
			t.Errorf("retreat prefers the first diagonal: got (%d,%d), want (1,1)", d.Action.DX, d.Action.DY)
		}
	})

	t.Run("cornered skirmisher fights", func(t *testing.T) {
		f := newTestFloor(12, 12)
		// Угол (0,0): отступать некуда, игрок вплотную.
		f.SetTile(0, 1, domain.TileWall)
		f.SetTile(1, 1, domain.TileWall)
		player := newTestPlayer(1, 0, f)
		sk := newTestMonster("gutter blade", domain.ArchetypeSkirmisher, 0, 0, f)

		d := ComputeNPCAction(sk, newAIContext(f, player, 1))
		if d.Action.Type != domain.ActionAttack {
			t.Errorf("cornered at point blank it has to fight, got %v", d.Action.Type)
		}
	})

	t.Run("chases from afar", func(t *testing.T) {
		f := newTestFloor(12, 12)
		player := newTestPlayer(5, 5, f)
		sk := newTestMonster("gutter blade", domain.ArchetypeSkirmisher, 10, 5, f)

		d := ComputeNPCAction(sk, newAIContext(f, player, 1))
		if d.Action.Type != domain.ActionMove {
			t.Fatalf("manhattan 5 means chase, got %v", d.Action.Type)
		}
		if d.Action.DX != -1 {
			t.Errorf("chase step should close in: DX = %d", d.Action.DX)
		}
	})
}

func TestComputeNPCAction_RangedBehavior(t *testing.T) {
	t.Run("casts inside bolt range", func(t *testing.T) {
		f := newTestFloor(14, 14)
		player := newTestPlayer(5, 5, f)
		mage := newTestMonster("vein mage", domain.ArchetypeRanged, 9, 5, f)

		d := ComputeNPCAction(mage, newAIContext(f, player, 1))
		if d.Action.Type != domain.ActionCast {
			t.Fatalf("distance 4 with LOS means a bolt, got %v", d.Action.Type)
		}
		if d.Action.Target != player.ID {
			t.Error("bolt must target the player")
		}
	})

	t.Run("steps away from melee", func(t *testing.T) {
		f := newTestFloor(14, 14)
		player := newTestPlayer(5, 5, f)
		mage := newTestMonster("vein mage", domain.ArchetypeRanged, 6, 5, f)

		d := ComputeNPCAction(mage, newAIContext(f, player, 1))
		if d.Action.Type != domain.ActionMove {
			t.Fatalf("adjacent ranged should back off, got %v", d.Action.Type)
		}
		next := mage.Pos.Shift(d.Action.DX, d.Action.DY)
		if next.DistanceSquaredTo(player.Pos) <= mage.Pos.DistanceSquaredTo(player.Pos) {
			t.Error("the step must strictly increase the distance")
		}
	})

	t.Run("melees when pinned", func(t *testing.T) {
		f := newTestFloor(14, 14)
		f.SetTile(0, 1, domain.TileWall)
		f.SetTile(1, 1, domain.TileWall)
		player := newTestPlayer(1, 0, f)
		mage := newTestMonster("vein mage", domain.ArchetypeRanged, 0, 0, f)

		d := ComputeNPCAction(mage, newAIContext(f, player, 1))
		if d.Action.Type != domain.ActionAttack {
			t.Errorf("pinned ranged has to melee, got %v", d.Action.Type)
		}
	})

	t.Run("waits without line of sight", func(t *testing.T) {
		f := newTestFloor(14, 14)
		for y := 0; y < 14; y++ {
			f.SetTile(7, y, domain.TileWall)
		}
		player := newTestPlayer(5, 5, f)
		mage := newTestMonster("vein mage", domain.ArchetypeRanged, 9, 5, f)

		d := ComputeNPCAction(mage, newAIContext(f, player, 1))
		if d.Action.Type != domain.ActionWait {
			t.Errorf("no LOS means no shot and no blind chase, got %v", d.Action.Type)
		}
	})
}

func TestComputeNPCAction_Summoner(t *testing.T) {
	setup := func() (*domain.Floor, *domain.Entity, *domain.Entity, *AIContext) {
		f := newTestFloor(14, 14)
		player := newTestPlayer(5, 5, f)
		sm := newTestMonster("hollow caller", domain.ArchetypeSummoner, 9, 5, f)
		ctx := newAIContext(f, player, 1)
		ctx.Finder = mapFinder{}
		return f, player, sm, ctx
	}

	t.Run("summons at the first free spot", func(t *testing.T) {
		_, _, sm, ctx := setup()
		d := ComputeNPCAction(sm, ctx)
		if d.SummonPos == nil {
			t.Fatal("cooldown 0 and empty roster should trigger a summon")
		}
		want := sm.Pos.Shift(0, -1) // первый свободный сосед в порядке обхода
		if *d.SummonPos != want {
			t.Errorf("summon spot = %v, want %v", *d.SummonPos, want)
		}
		if d.Action.Type != domain.ActionWait {
			t.Error("the summon itself consumes the turn")
		}
	})

	t.Run("respects cooldown", func(t *testing.T) {
		_, _, sm, ctx := setup()
		sm.AI.Cooldown = 3
		if d := ComputeNPCAction(sm, ctx); d.SummonPos != nil {
			t.Error("summon must respect the cooldown")
		}
	})

	t.Run("respects the live cap", func(t *testing.T) {
		f, _, sm, ctx := setup()
		finder := mapFinder{}
		for i := 0; i < domain.SummonCap; i++ {
			pet := newTestMonster("shade", domain.ArchetypeSkirmisher, 1+i, 1, f)
			finder[pet.ID] = pet
			sm.AI.Summons = append(sm.AI.Summons, pet.ID)
		}
		ctx.Finder = finder
		if d := ComputeNPCAction(sm, ctx); d.SummonPos != nil {
			t.Error("summon cap reached, no new pets")
		}
	})

	t.Run("prunes dead pets from the roster", func(t *testing.T) {
		f, _, sm, ctx := setup()
		finder := mapFinder{}
		for i := 0; i < domain.SummonCap; i++ {
			pet := newTestMonster("shade", domain.ArchetypeSkirmisher, 1+i, 1, f)
			pet.Stats.IsDead = i > 0 // живым остается один
			finder[pet.ID] = pet
			sm.AI.Summons = append(sm.AI.Summons, pet.ID)
		}
		ctx.Finder = finder
		d := ComputeNPCAction(sm, ctx)
		if d.SummonPos == nil {
			t.Error("dead pets free up cap slots")
		}
		if len(sm.AI.Summons) != 1 {
			t.Errorf("roster should shrink to the single live pet, got %d", len(sm.AI.Summons))
		}
	})

	t.Run("silence gags the summon", func(t *testing.T) {
		_, _, sm, ctx := setup()
		sm.Statuses = &domain.StatusesComponent{}
		sm.Statuses.Apply(domain.StatusSilence, 3, 1, 0)
		if d := ComputeNPCAction(sm, ctx); d.SummonPos != nil {
			t.Error("silenced summoner cannot call")
		}
	})

	t.Run("drifts away when crowded", func(t *testing.T) {
		_, player, sm, ctx := setup()
		sm.AI.Cooldown = 5 // призыв вне игры, остается дрейф
		if err := ctx.Floor.UpdateEntityPos(sm, 7, 5); err != nil {
			t.Fatal(err)
		}
		d := ComputeNPCAction(sm, ctx)
		if d.Action.Type != domain.ActionMove {
			t.Fatalf("distSq 4 < 16 should push the summoner away, got %v", d.Action.Type)
		}
		next := sm.Pos.Shift(d.Action.DX, d.Action.DY)
		if next.DistanceSquaredTo(player.Pos) <= sm.Pos.DistanceSquaredTo(player.Pos) {
			t.Error("drift must increase the distance")
		}
	})
}

func TestComputeNPCAction_Sapper(t *testing.T) {
	t.Run("descends with cardinal steps only", func(t *testing.T) {
		f := newTestFloor(12, 12)
		player := newTestPlayer(5, 5, f)
		sp := newTestMonster("tunnel sapper", domain.ArchetypeSapper, 9, 8, f)
		ctx := newAIContext(f, player, 1)

		for turn := 0; turn < 24; turn++ {
			d := ComputeNPCAction(sp, ctx)
			if d.Action.Type == domain.ActionAttack {
				return // дошел и дерется
			}
			if d.Action.Type != domain.ActionMove {
				t.Fatalf("turn %d: expected a move, got %+v", turn, d)
			}
			if d.Action.DX != 0 && d.Action.DY != 0 {
				t.Fatalf("sapper stepped diagonally: (%d,%d)", d.Action.DX, d.Action.DY)
			}
			applyDecision(t, f, sp, d)
		}
		t.Fatal("sapper never reached the player")
	})

	t.Run("mines its tile when stuck", func(t *testing.T) {
		f := newTestFloor(12, 12)
		player := newTestPlayer(8, 5, f)
		sp := newTestMonster("tunnel sapper", domain.ArchetypeSapper, 2, 5, f)
		// Кардинальные выходы замурованы, диагональные открыты.
		f.SetTile(1, 5, domain.TileWall)
		f.SetTile(3, 5, domain.TileWall)
		f.SetTile(2, 4, domain.TileWall)
		f.SetTile(2, 6, domain.TileWall)

		d := ComputeNPCAction(sp, newAIContext(f, player, 1))
		if !d.ArmTrap {
			t.Fatalf("no cardinal descent available, expected ArmTrap, got %+v", d)
		}
		if d.Action.Type != domain.ActionWait {
			t.Error("mining consumes the turn in place")
		}
	})
}

func TestComputeNPCAction_Boss(t *testing.T) {
	t.Run("holds the gate", func(t *testing.T) {
		f := newTestFloor(16, 12)
		f.BossGate = &domain.Rect{X: 8, Y: 0, W: 8, H: 12}
		player := newTestPlayer(3, 5, f) // снаружи региона
		boss := newTestMonster("ancient warden", domain.ArchetypeBoss, 12, 5, f)

		d := ComputeNPCAction(boss, newAIContext(f, player, 1))
		if d.Action.Type != domain.ActionWait || d.Shockwave {
			t.Errorf("boss must not leave the gate region, got %+v", d)
		}
	})

	t.Run("unleashes the shockwave in range", func(t *testing.T) {
		f := newTestFloor(16, 12)
		f.BossGate = &domain.Rect{X: 8, Y: 0, W: 8, H: 12}
		player := newTestPlayer(10, 5, f) // внутри, Чебышев 2
		boss := newTestMonster("ancient warden", domain.ArchetypeBoss, 12, 5, f)

		d := ComputeNPCAction(boss, newAIContext(f, player, 1))
		if !d.Shockwave {
			t.Fatalf("player in range and cooldown 0: expected a shockwave, got %+v", d)
		}
	})

	t.Run("falls back to brute pattern on cooldown", func(t *testing.T) {
		f := newTestFloor(16, 12)
		f.BossGate = &domain.Rect{X: 8, Y: 0, W: 8, H: 12}
		player := newTestPlayer(11, 5, f) // вплотную
		boss := newTestMonster("ancient warden", domain.ArchetypeBoss, 12, 5, f)
		boss.AI.Cooldown = 2

		d := ComputeNPCAction(boss, newAIContext(f, player, 1))
		if d.Shockwave {
			t.Fatal("shockwave must respect the cooldown")
		}
		if d.Action.Type != domain.ActionAttack {
			t.Errorf("adjacent boss should attack, got %v", d.Action.Type)
		}
	})
}

func TestComputeNPCAction_IdleWander(t *testing.T) {
	f := newTestFloor(20, 8)
	player := newTestPlayer(17, 4, f)
	loafer := newTestMonster("pit brute", domain.ArchetypeBrute, 2, 4, f)
	loafer.AI.State = domain.AIStateIdle // игрок вне радиуса агрессии

	ctx := newAIContext(f, player, 99)
	for turn := 0; turn < 30; turn++ {
		d := ComputeNPCAction(loafer, ctx)
		switch d.Action.Type {
		case domain.ActionWait:
		case domain.ActionMove:
			next := loafer.Pos.Shift(d.Action.DX, d.Action.DY)
			if !freeAt(f, next) {
				t.Fatalf("turn %d: wander into a blocked tile %v", turn, next)
			}
		default:
			t.Fatalf("turn %d: idle npc must only wait or shuffle, got %v", turn, d.Action.Type)
		}
		if !loafer.AI.IsIdle() {
			t.Fatal("npc alerted without seeing the player")
		}
	}
}

func TestComputeNPCAction_MemoryChase(t *testing.T) {
	f := newTestFloor(14, 14)
	// Игрок заперт в глухой нише: из зала его не видно.
	player := newTestPlayer(12, 12, f)
	for _, d := range domain.Directions8 {
		f.SetTile(12+d.X, 12+d.Y, domain.TileWall)
	}

	brute := newTestMonster("pit brute", domain.ArchetypeBrute, 2, 2, f)
	last := domain.Position{X: 6, Y: 6}
	brute.Memory.LastPlayerPos = &last

	ctx := newAIContext(f, player, 1)
	for turn := 0; turn < 20; turn++ {
		d := ComputeNPCAction(brute, ctx)
		if brute.Pos == last {
			break
		}
		if d.Action.Type != domain.ActionMove {
			t.Fatalf("turn %d: expected a move toward the last seen spot, got %+v", turn, d)
		}
		applyDecision(t, f, brute, d)
	}

	if brute.Pos != last {
		t.Fatalf("brute stopped at %v, want %v", brute.Pos, last)
	}
	// Дошел, игрока нет: успокаивается и забывает след.
	d := ComputeNPCAction(brute, ctx)
	if d.Action.Type == domain.ActionAttack || d.Action.Type == domain.ActionCast {
		t.Errorf("nothing to fight at the stale spot, got %v", d.Action.Type)
	}
	if !brute.AI.IsIdle() {
		t.Error("reaching the stale trail must calm the npc down")
	}
	if brute.Memory.LastPlayerPos != nil {
		t.Error("the stale trail must be forgotten")
	}
}
