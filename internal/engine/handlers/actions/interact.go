package actions

import (
	"aether-server/internal/domain"
	"aether-server/internal/engine/handlers"
)

// HandleInteract - универсальное "использовать то, на чем стою".
// Конкретное действие дописывается в очередь и исполняется в этой же
// фазе, ходом самого взаимодействия.
func HandleInteract(ctx handlers.Context, a domain.Action) (handlers.Result, error) {
	switch ctx.Floor.TileAt(ctx.Actor.Pos.X, ctx.Actor.Pos.Y) {
	case domain.TileStairsDown:
		ctx.Queue(domain.Action{Type: domain.ActionDescend, Actor: ctx.Actor.ID})
		return handlers.EmptyResult()
	case domain.TileStairsUp:
		ctx.Queue(domain.Action{Type: domain.ActionAscend, Actor: ctx.Actor.ID})
		return handlers.EmptyResult()
	case domain.TileCoreAltar:
		ctx.Queue(domain.Action{Type: domain.ActionPickup, Actor: ctx.Actor.ID})
		return handlers.EmptyResult()
	default:
		return handlers.Result{}, handlers.Reject("Здесь не с чем взаимодействовать.")
	}
}
