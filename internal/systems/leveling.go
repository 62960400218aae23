package systems

import (
	"fmt"

	"aether-server/internal/domain"
)

// GainXP начисляет опыт и прокручивает уровни, пока хватает на порог
// (излишек переносится). Каждый уровень: +4 maxHP, +2 maxMP, +1 атака,
// +1 защита и полное восстановление.
func GainXP(e *domain.Entity, amount int) []string {
	if e.Experience == nil || amount <= 0 {
		return nil
	}

	x := e.Experience
	x.XP += amount

	var msgs []string
	for x.XP >= x.Threshold() {
		x.XP -= x.Threshold()
		x.Level++

		if e.Stats != nil {
			e.Stats.MaxHP += 4
			e.Stats.MaxMP += 2
			e.Stats.Attack++
			e.Stats.Defense++
			e.Stats.FullRestore()
		}
		msgs = append(msgs, fmt.Sprintf("%s достигает уровня %d!", e.Name, x.Level))
	}
	return msgs
}
