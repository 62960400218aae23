package actions

import (
	"aether-server/internal/domain"
	"aether-server/internal/engine/handlers"
	"aether-server/internal/systems"
)

// HandleUse применяет расходник из слота инвентаря. Прицельные свитки
// требуют живую цель в радиусе болта и на линии взгляда; отказ системы
// предметов бесплатен: расходник не тратится, ход не списывается.
func HandleUse(ctx handlers.Context, a domain.Action) (handlers.Result, error) {
	var target *domain.Entity
	if !a.Target.IsNil() {
		check := systems.ValidateInteraction(ctx.Actor, a.Target, domain.BoltRange, true, ctx.Finder, ctx.Floor)
		if !check.Valid {
			return handlers.Result{}, handlers.Reject("%s", check.Message)
		}
		target = check.Target
	}

	msgs, err := systems.UseItem(ctx.Actor, a.ItemIndex, target, &systems.UseContext{
		Floor:    ctx.Floor,
		Stream:   ctx.Combat,
		Identify: ctx.Identify,
	})
	if err != nil {
		return handlers.Result{}, handlers.Reject("%s", err.Error())
	}
	markVisionDirty(ctx.Actor)

	// Мерцание может выбросить прямо на ловушку.
	if ctx.Floor.TileAt(ctx.Actor.Pos.X, ctx.Actor.Pos.Y) == domain.TileTrap {
		msgs = append(msgs, systems.ApplyTileHazard(ctx.Actor, ctx.Floor)...)
	}
	return handlers.Result{Msgs: msgs}, nil
}
