package actions

import (
	"aether-server/internal/domain"
	"aether-server/internal/engine/handlers"
	"aether-server/internal/systems"
)

// HandleEquip надевает предмет из слота инвентаря. Вытесненный предмет
// возвращается в сумку, бонусы пересчитываются внутри системы.
func HandleEquip(ctx handlers.Context, a domain.Action) (handlers.Result, error) {
	msg, err := systems.TryEquip(ctx.Actor, a.ItemIndex)
	if err != nil {
		return handlers.Result{}, handlers.Reject("%s", err.Error())
	}
	return handlers.Result{Msgs: []string{msg}}, nil
}

// HandleUnequip снимает предмет из слота экипировки в сумку.
func HandleUnequip(ctx handlers.Context, a domain.Action) (handlers.Result, error) {
	msg, err := systems.TryUnequip(ctx.Actor, a.Slot)
	if err != nil {
		return handlers.Result{}, handlers.Reject("%s", err.Error())
	}
	return handlers.Result{Msgs: []string{msg}}, nil
}
