package handlers

import (
	"encoding/json"
	"fmt"

	"aether-server/internal/domain"
	"aether-server/pkg/api"
)

// unpack распаковывает и валидирует типизированный payload команды.
func unpack[T api.Validator](raw json.RawMessage) (T, error) {
	var payload T
	if len(raw) == 0 {
		return payload, fmt.Errorf("payload is required")
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return payload, fmt.Errorf("invalid payload format: %w", err)
	}
	if err := payload.Validate(); err != nil {
		return payload, fmt.Errorf("validation failed: %w", err)
	}
	return payload, nil
}

// DecodeAction переводит внешнюю команду во внутреннее намерение.
// Это единственное место, где протокол встречается с доменом: дальше
// по ядру ходит только domain.Action.
func DecodeAction(cmd api.ClientCommand) (domain.Action, error) {
	t := domain.ParseAction(cmd.Action)

	switch t {
	case domain.ActionMove:
		p, err := unpack[api.DirectionPayload](cmd.Payload)
		if err != nil {
			return domain.Action{}, err
		}
		return domain.Action{Type: t, DX: p.Dx, DY: p.Dy}, nil

	case domain.ActionAttack:
		p, err := unpack[api.TargetPayload](cmd.Payload)
		if err != nil {
			return domain.Action{}, err
		}
		return domain.Action{Type: t, Target: p.TargetID}, nil

	case domain.ActionUse, domain.ActionCast:
		p, err := unpack[api.ItemPayload](cmd.Payload)
		if err != nil {
			return domain.Action{}, err
		}
		return domain.Action{Type: t, ItemIndex: p.Index, Target: p.TargetID}, nil

	case domain.ActionDrop, domain.ActionEquip:
		p, err := unpack[api.ItemPayload](cmd.Payload)
		if err != nil {
			return domain.Action{}, err
		}
		return domain.Action{Type: t, ItemIndex: p.Index}, nil

	case domain.ActionUnequip:
		p, err := unpack[api.SlotPayload](cmd.Payload)
		if err != nil {
			return domain.Action{}, err
		}
		slot, ok := domain.ParseEquipSlot(p.Slot)
		if !ok {
			return domain.Action{}, fmt.Errorf("unknown equip slot %q", p.Slot)
		}
		return domain.Action{Type: t, Slot: slot}, nil

	case domain.ActionWait, domain.ActionPickup, domain.ActionInteract,
		domain.ActionDescend, domain.ActionAscend:
		return domain.Action{Type: t}, nil

	case domain.ActionInit, domain.ActionInventory, domain.ActionEquipment,
		domain.ActionSheet, domain.ActionDebug:
		// UI-действия не несут payload и не доходят до планировщика.
		return domain.Action{Type: t}, nil

	default:
		return domain.Action{}, fmt.Errorf("unknown action %q", cmd.Action)
	}
}
