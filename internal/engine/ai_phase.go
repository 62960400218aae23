package engine

import (
	"fmt"

	"aether-server/internal/domain"
	"aether-server/internal/systems"
	"aether-server/pkg/dungeon"
)

// runAIPhase дает действие каждому мозгу текущего этажа, строго в
// порядке создания сущностей. Поле дистанций до героя считается один
// раз и разделяется всеми: герой в этой фазе не двигается.
func (s *GameService) runAIPhase() {
	player := s.Player()
	f := s.CurrentFloor()
	if player == nil || f == nil {
		return
	}

	var field *systems.DistanceField
	if player.Alive() {
		field = systems.ComputeDistanceField(f, player.Pos)
	}

	aiCtx := &systems.AIContext{
		Floor:       f,
		Player:      player,
		Stream:      s.AIStream,
		Finder:      s,
		Turn:        s.Turn,
		PlayerField: field,
	}

	for _, npc := range s.monstersOn(s.Depth) {
		if !npc.Alive() || npc.Energy == nil {
			continue
		}
		if npc.AI != nil {
			npc.AI.TickCooldown()
		}
		gainEnergy(npc)
		regenMana(npc)

		for acts := 0; npc.Alive() && player.Alive() &&
			npc.Energy.Current >= domain.ActionCost && acts < domain.MaxActionsPerTurn; acts++ {
			npc.Energy.Current -= domain.ActionCost
			decision := systems.ComputeNPCAction(npc, aiCtx)
			s.executeDecision(npc, decision, aiCtx)
		}
	}
}

// executeDecision исполняет решение мозга. Спецспособности решаются
// здесь, обычные намерения уходят в общий реестр обработчиков.
func (s *GameService) executeDecision(npc *domain.Entity, d systems.Decision, aiCtx *systems.AIContext) {
	switch {
	case d.SummonPos != nil:
		s.summonAt(npc, *d.SummonPos)
		return

	case d.ArmTrap:
		f := aiCtx.Floor
		f.SetTile(npc.Pos.X, npc.Pos.Y, domain.TileTrap)
		s.Log.Push(s.Turn, fmt.Sprintf("%s зарывается в пол, оставляя растяжку.", npc.Name), "COMBAT")
		return

	case d.Shockwave:
		targets := s.actorsWithin(npc, domain.ShockwaveRange)
		msgs := systems.ResolveShockwave(npc, targets, s.Combat)
		if npc.AI != nil {
			npc.AI.Cooldown = domain.ShockwaveCooldownTurns
		}
		s.pushAll(msgs, "COMBAT")
		return
	}

	s.executeNPCAction(npc, d.Action)
}

// executeNPCAction гоняет намерение моба через тот же реестр, что и
// намерения героя. Отказ - потерянное действие, в журнал не шумим.
func (s *GameService) executeNPCAction(npc *domain.Entity, a domain.Action) {
	a.Actor = npc.ID
	if err := s.execute(a, npc); err != nil {
		return
	}
	s.resolveQueued()
}

// summonAt ставит призванного скирмишера и записывает его за
// заклинателем: потолок призыва держится на этом списке.
func (s *GameService) summonAt(npc *domain.Entity, pos domain.Position) {
	mob := dungeon.SpawnMonster(dungeon.Skirmisher, npc.Depth, pos, s.AIStream)
	s.spawnOnFloor(mob)
	if npc.AI != nil {
		npc.AI.RecordSummon(mob.ID, domain.SummonCooldownTurns)
	}
	s.Log.Push(s.Turn, fmt.Sprintf("%s выдергивает из тени %s!", npc.Name, mob.Name), "COMBAT")
}

// actorsWithin - живые актеры в радиусе Чебышева от центра, не считая
// его самого, в порядке создания.
func (s *GameService) actorsWithin(center *domain.Entity, radius int) []*domain.Entity {
	var out []*domain.Entity
	for _, e := range s.actorsOn(center.Depth) {
		if e == center {
			continue
		}
		if e.Pos.Chebyshev(center.Pos) <= radius {
			out = append(out, e)
		}
	}
	return out
}

func (s *GameService) pushAll(msgs []string, kind string) {
	for _, m := range msgs {
		s.Log.Push(s.Turn, m, kind)
	}
}
