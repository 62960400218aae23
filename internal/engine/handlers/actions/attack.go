package actions

import (
	"aether-server/internal/domain"
	"aether-server/internal/engine/handlers"
	"aether-server/internal/systems"
)

// HandleAttack - удар в ближнем бою. Цель должна быть живой, в пределах
// досягаемости и на линии взгляда.
func HandleAttack(ctx handlers.Context, a domain.Action) (handlers.Result, error) {
	check := systems.ValidateInteraction(ctx.Actor, a.Target, attackReach(ctx.Actor), true, ctx.Finder, ctx.Floor)
	if !check.Valid {
		return handlers.Result{}, handlers.Reject("%s", check.Message)
	}
	if !check.Target.Alive() {
		return handlers.Result{}, handlers.Reject("Цель уже мертва.")
	}

	outcome := systems.ResolveAttack(ctx.Actor, check.Target, ctx.Combat)
	return handlers.Result{Msgs: outcome.Messages, Kind: "COMBAT"}, nil
}

// attackReach - дистанция удара. Копейщик колет через клетку,
// остальные бьют только вплотную.
func attackReach(actor *domain.Entity) int {
	if actor.AI != nil && actor.AI.Archetype == domain.ArchetypeSkirmisher {
		return 3
	}
	return 1
}
