package actions

import (
	"aether-server/internal/core/types"
	"aether-server/internal/domain"
	"aether-server/internal/engine/handlers"
	"aether-server/internal/systems"
)

// HandleDrop кладет предмет из слота инвентаря под ноги. Из стака
// отделяется одна единица.
func HandleDrop(ctx handlers.Context, a domain.Action) (handlers.Result, error) {
	item, msg, err := systems.TryDrop(ctx.Actor, a.ItemIndex)
	if err != nil {
		return handlers.Result{}, handlers.Reject("%s", err.Error())
	}

	ctx.Spawn(&domain.Entity{
		Kind:   types.KindItem,
		Name:   item.BaseName,
		Pos:    ctx.Actor.Pos,
		Depth:  ctx.Actor.Depth,
		Render: &domain.RenderComponent{Glyph: item.Glyph, Order: 1},
		Item:   item,
	})
	return handlers.Result{Msgs: []string{msg}}, nil
}
