package actions

import (
	"aether-server/internal/domain"
	"aether-server/internal/engine/handlers"
	"aether-server/internal/systems"
)

// HandleMove - шаг на соседнюю клетку. Шаг в запертую дверь тратит
// ключ и ход; шаг во врага превращается в атаку через очередь; шаг в
// своего или в стену отклоняется бесплатно.
func HandleMove(ctx handlers.Context, a domain.Action) (handlers.Result, error) {
	actor := ctx.Actor
	move := systems.CalculateMove(actor, a.DX, a.DY, ctx.Floor)

	if move.LockedDoor {
		if actor.Inventory == nil || !actor.Inventory.ConsumeKey(move.KeyID) {
			return handlers.Result{}, handlers.Reject("Дверь заперта. Нужен ключ.")
		}
		// Замок снят насовсем: дверь остается открытой до конца забега.
		ctx.Floor.SetTile(move.NewX, move.NewY, domain.TileDoorOpen)
		delete(ctx.Floor.DoorKeys, ctx.Floor.Index(move.NewX, move.NewY))
		markVisionDirty(actor)
		return handlers.Result{Msgs: []string{"Ключ со скрипом проворачивается. Дверь открыта."}}, nil
	}

	if move.BlockedBy != nil {
		if actor.Kind != move.BlockedBy.Kind {
			ctx.Queue(domain.Action{
				Type:   domain.ActionAttack,
				Actor:  actor.ID,
				Target: move.BlockedBy.ID,
			})
			return handlers.EmptyResult()
		}
		return handlers.Result{}, handlers.Reject("Дорогу преграждает %s.", move.BlockedBy.Name)
	}

	if !move.HasMoved {
		return handlers.Result{}, handlers.Reject("Путь прегражден.")
	}

	var msgs []string
	if move.OpensDoor {
		ctx.Floor.SetTile(move.NewX, move.NewY, domain.TileDoorOpen)
		msgs = append(msgs, "Дверь распахивается.")
	}
	if err := ctx.Floor.UpdateEntityPos(actor, move.NewX, move.NewY); err != nil {
		return handlers.Result{}, err
	}
	markVisionDirty(actor)

	// Ловушки срабатывают на вход; кислота и лава жгут позже, в фазе
	// статусов, пока в них стоишь.
	if ctx.Floor.TileAt(move.NewX, move.NewY) == domain.TileTrap {
		msgs = append(msgs, systems.ApplyTileHazard(actor, ctx.Floor)...)
	}
	return handlers.Result{Msgs: msgs}, nil
}

func markVisionDirty(e *domain.Entity) {
	if e.Vision != nil {
		e.Vision.Dirty = true
	}
}
