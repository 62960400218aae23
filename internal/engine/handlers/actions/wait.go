package actions

import (
	"aether-server/internal/domain"
	"aether-server/internal/engine/handlers"
)

// HandleWait - пропуск действия. Мобы пропускают молча.
func HandleWait(ctx handlers.Context, a domain.Action) (handlers.Result, error) {
	if ctx.Actor == ctx.Player {
		return handlers.Result{Msgs: []string{"Вы выжидаете."}}, nil
	}
	return handlers.EmptyResult()
}
