package actions

import (
	"aether-server/internal/domain"
	"aether-server/internal/engine/handlers"
	"aether-server/internal/systems"
)

// HandlePickup поднимает предмет из-под ног. Из стопки берется тот,
// что лег раньше. Ключи уходят на связку, Ядро Эфира - в инвентарь
// как квестовый груз.
func HandlePickup(ctx handlers.Context, a domain.Action) (handlers.Result, error) {
	items := ctx.Floor.ItemsAt(ctx.Actor.Pos.X, ctx.Actor.Pos.Y)
	if len(items) == 0 {
		return handlers.Result{}, handlers.Reject("Здесь нечего подбирать.")
	}

	item := items[0]
	msg, err := systems.TryPickup(ctx.Actor, item, ctx.Floor)
	if err != nil {
		return handlers.Result{}, handlers.Reject("%s", err.Error())
	}
	ctx.Despawn(item)
	return handlers.Result{Msgs: []string{msg}}, nil
}
