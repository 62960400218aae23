package actions

import (
	"aether-server/internal/domain"
	"aether-server/internal/engine/handlers"
)

// HandleDescend - спуск по лестнице под ногами. Сам переход исполняет
// планировщик отдельной фазой, после проверки исхода хода.
func HandleDescend(ctx handlers.Context, a domain.Action) (handlers.Result, error) {
	if ctx.Floor.TileAt(ctx.Actor.Pos.X, ctx.Actor.Pos.Y) != domain.TileStairsDown {
		return handlers.Result{}, handlers.Reject("Здесь нет спуска.")
	}
	ctx.RequestTransition(+1)
	return handlers.Result{Msgs: []string{"Ступени уводят вниз, во тьму."}}, nil
}

// HandleAscend - подъем по лестнице под ногами. На первом этаже с
// Ядром Эфира в сумке подъем означает победу; без Ядра наверху делать
// нечего, и отказ не стоит хода.
func HandleAscend(ctx handlers.Context, a domain.Action) (handlers.Result, error) {
	if ctx.Floor.TileAt(ctx.Actor.Pos.X, ctx.Actor.Pos.Y) != domain.TileStairsUp {
		return handlers.Result{}, handlers.Reject("Здесь нет подъема.")
	}

	if ctx.Actor.Depth == 1 {
		if !carriesCore(ctx.Actor) {
			return handlers.Result{}, handlers.Reject("Наверх без Ядра Эфира хода нет.")
		}
		ctx.RequestWin()
		return handlers.Result{Msgs: []string{"Вы выносите Ядро Эфира к дневному свету!"}}, nil
	}

	ctx.RequestTransition(-1)
	return handlers.Result{Msgs: []string{"Вы поднимаетесь по истертым ступеням."}}, nil
}

func carriesCore(e *domain.Entity) bool {
	if e.Inventory == nil {
		return false
	}
	for _, it := range e.Inventory.Items {
		if it != nil && it.QuestItem {
			return true
		}
	}
	return false
}
