package systems

import (
	"fmt"

	"aether-server/internal/domain"
)

// Русские формулировки для журнала (ключ - вид эффекта).
var statusAppliedVerb = map[domain.StatusKind]string{
	domain.StatusBleed:   "истекает кровью",
	domain.StatusBurn:    "горит",
	domain.StatusPoison:  "отравлен",
	domain.StatusFreeze:  "скован льдом",
	domain.StatusShock:   "бьется в разрядах",
	domain.StatusSlow:    "замедлен",
	domain.StatusHaste:   "ускоряется",
	domain.StatusSilence: "умолкает",
	domain.StatusEnrage:  "приходит в ярость",
}

var statusExpiredNoun = map[domain.StatusKind]string{
	domain.StatusBleed:   "кровотечение",
	domain.StatusBurn:    "пламя",
	domain.StatusPoison:  "яд",
	domain.StatusFreeze:  "лед",
	domain.StatusShock:   "разряды",
	domain.StatusSlow:    "тяжесть",
	domain.StatusHaste:   "ускорение",
	domain.StatusSilence: "немота",
	domain.StatusEnrage:  "ярость",
}

// ApplyStatus накладывает эффект на цель с учетом её сопротивления
// стихии эффекта. Возвращает (наложилось ли, строка журнала).
func ApplyStatus(target *domain.Entity, kind domain.StatusKind, duration, stacks int) (bool, string) {
	resist := 0.0
	if target.Stats != nil && target.Stats.StatusResist != nil {
		resist = target.Stats.StatusResist[domain.TemplateFor(kind).Element]
	}
	if target.Statuses == nil {
		target.Statuses = &domain.StatusesComponent{}
	}

	if !target.Statuses.Apply(kind, duration, stacks, resist) {
		return false, fmt.Sprintf("%s стряхивает эффект.", target.Name)
	}
	return true, fmt.Sprintf("%s %s.", target.Name, statusAppliedVerb[kind])
}

// TickStatuses - фаза тиков для одной сущности: сначала весь периодический
// урон (кровь/огонь/яд, потенция на стак), затем декремент длительностей
// и снятие истекшего. Порядок зафиксирован: эффект успевает тикнуть на
// последнем ходу своей жизни.
//
// Периодический урон идет через Drain, в обход плоской митигации:
// сопротивление цели уже срезало длительность и стаки при наложении.
func TickStatuses(e *domain.Entity) []string {
	if e.Statuses == nil || e.Stats == nil || e.Stats.IsDead {
		return nil
	}

	var msgs []string
	for i := range e.Statuses.Active {
		eff := &e.Statuses.Active[i]
		tmpl := domain.TemplateFor(eff.Kind)
		if !tmpl.DOT {
			continue
		}
		dmg := eff.Potency * eff.Stacks
		if dmg <= 0 {
			continue
		}
		dealt, died := e.Stats.Drain(dmg)
		msgs = append(msgs, fmt.Sprintf("%s: %s наносит %d урона.", e.Name, statusExpiredNoun[eff.Kind], dealt))
		if died {
			msgs = append(msgs, markCorpse(e))
			return msgs
		}
		msgs = append(msgs, CheckEnrage(e)...)
	}

	for _, expired := range e.Statuses.Decrement() {
		msgs = append(msgs, fmt.Sprintf("%s: %s отпускает.", e.Name, statusExpiredNoun[expired.Kind]))
	}
	return msgs
}
