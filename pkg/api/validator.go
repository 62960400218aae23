package api

import "fmt"

// Validator - самопроверка payload до того, как он попадет в ядро.
// Валидация ловит мусор протокола, а не игровые запреты: "нельзя
// шагнуть в стену" решает симуляция, "dx=7" - уже сюда.
type Validator interface {
	Validate() error
}

func (p DirectionPayload) Validate() error {
	if p.Dx < -1 || p.Dx > 1 || p.Dy < -1 || p.Dy > 1 {
		return fmt.Errorf("direction out of range: (%d,%d)", p.Dx, p.Dy)
	}
	if p.Dx == 0 && p.Dy == 0 {
		return fmt.Errorf("direction is zero")
	}
	return nil
}

func (p TargetPayload) Validate() error {
	if p.TargetID.IsNil() {
		return fmt.Errorf("targetId is required")
	}
	return nil
}

func (p ItemPayload) Validate() error {
	if p.Index < 0 {
		return fmt.Errorf("item index is negative: %d", p.Index)
	}
	return nil
}

func (p SlotPayload) Validate() error {
	if p.Slot == "" {
		return fmt.Errorf("slot is required")
	}
	return nil
}

func (p LoginPayload) Validate() error { return nil }
