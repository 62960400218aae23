package actions

import (
	"fmt"

	"aether-server/internal/domain"
	"aether-server/internal/engine/handlers"
	"aether-server/internal/systems"
)

// HandleCast - стихийный болт по цели в радиусе и на линии взгляда,
// ценой маны. Немота глушит заклинание: у игрока это бесплатный отказ,
// у моба - потерянное действие.
func HandleCast(ctx handlers.Context, a domain.Action) (handlers.Result, error) {
	if ctx.Actor.Statuses.Has(domain.StatusSilence) {
		if ctx.Actor == ctx.Player {
			return handlers.Result{}, handlers.Reject("Немота глушит заклинание.")
		}
		return handlers.Result{
			Msgs: []string{fmt.Sprintf("%s беззвучно открывает пасть.", ctx.Actor.Name)},
		}, nil
	}
	if ctx.Actor.Stats != nil && ctx.Actor.Stats.MP < domain.CastManaCost {
		if ctx.Actor == ctx.Player {
			return handlers.Result{}, handlers.Reject("Эфира не хватает.")
		}
		return handlers.EmptyResult()
	}

	check := systems.ValidateInteraction(ctx.Actor, a.Target, domain.BoltRange, true, ctx.Finder, ctx.Floor)
	if !check.Valid {
		return handlers.Result{}, handlers.Reject("%s", check.Message)
	}
	if !check.Target.Alive() {
		return handlers.Result{}, handlers.Reject("Цель уже мертва.")
	}

	ctx.Actor.Stats.MP -= domain.CastManaCost
	outcome := systems.ResolveBolt(ctx.Actor, check.Target, ctx.Combat)
	return handlers.Result{Msgs: outcome.Messages, Kind: "COMBAT"}, nil
}
