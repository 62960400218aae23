package systems

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"aether-server/internal/core/rng"
	"aether-server/internal/core/types"
	"aether-server/internal/domain"
	"aether-server/pkg/logger"
)

// AttackOutcome - итог одной атаки для планировщика и журнала.
type AttackOutcome struct {
	Hit      bool
	Crit     bool
	Damage   int
	Died     bool
	Messages []string
}

// ResolveAttack разрешает ближнюю (или удлиненную, у скирмишера) атаку.
//
// Конвейер фиксированный: бросок точности -> базовый урон + оружие ->
// крит (до митигации) -> разброс -> плоская митигация по стихии в
// TakeDamage. Все броски идут из боевого потока, порядок бросков
// менять нельзя - он часть реплея.
func ResolveAttack(attacker, target *domain.Entity, stream *rng.Stream) AttackOutcome {
	combatLogger := logger.Log.WithFields(logrus.Fields{
		"component":     "combat_system",
		"attacker_id":   attacker.ID,
		"attacker_name": attacker.Name,
		"target_id":     target.ID,
		"target_name":   target.Name,
	})

	var out AttackOutcome

	if target.Stats == nil {
		combatLogger.Warn("Attack failed: target has no StatsComponent.")
		out.Messages = append(out.Messages, fmt.Sprintf("%s атакует %s, но это бесполезно.", attacker.Name, target.Name))
		return out
	}
	if target.Stats.IsDead {
		combatLogger.Info("Attack ineffective: target is already dead.")
		out.Messages = append(out.Messages, fmt.Sprintf("%s пинает труп %s.", attacker.Name, target.Name))
		return out
	}

	var weapon *domain.ItemComponent
	if attacker.Equipment != nil {
		weapon = attacker.Equipment.Weapon()
	}

	elem := domain.ElementPhysical
	if weapon != nil {
		elem = weapon.Element
	}

	// Бросок точности.
	if !rollHit(attacker, target, stream) {
		combatLogger.Debug("Attack missed.")
		out.Messages = append(out.Messages, fmt.Sprintf("%s промахивается по %s.", attacker.Name, target.Name))
		return out
	}
	out.Hit = true

	atk := effectiveAttack(attacker)
	lo := atk / 2
	if lo < 1 {
		lo = 1
	}
	raw := stream.Range(lo, atk)
	if weapon != nil {
		raw += weapon.Power
	}

	// Крит усиливает сырой урон до вычета защиты.
	crit := attacker.Stats != nil && stream.IntN(100) < attacker.Stats.CritChance
	if crit {
		raw = raw*3/2 + atk/4
		out.Crit = true
	}

	raw = int(float64(raw) * stream.Between(0.85, 1.15))
	if raw < 1 {
		raw = 1
	}

	hpBefore := target.Stats.HP
	dealt, died := target.Stats.TakeDamage(raw, elem)
	out.Damage = dealt
	out.Died = died

	combatLogger.WithFields(logrus.Fields{
		"element":      elem.String(),
		"raw_damage":   raw,
		"crit":         crit,
		"final_damage": dealt,
		"hp_before":    hpBefore,
		"hp_after":     target.Stats.HP,
		"target_died":  died,
	}).Info("Attack resolved.")

	msg := fmt.Sprintf("%s наносит %d урона по %s.", attacker.Name, dealt, target.Name)
	if crit {
		msg = fmt.Sprintf("Критический удар! %s наносит %d урона по %s.", attacker.Name, dealt, target.Name)
	}
	out.Messages = append(out.Messages, msg)

	// Он-хит статус оружия.
	if !died && weapon != nil && weapon.RiderChance > 0 && stream.IntN(100) < weapon.RiderChance {
		if _, m := ApplyStatus(target, weapon.Rider, 0, 1); m != "" {
			out.Messages = append(out.Messages, m)
		}
	}

	out.Messages = append(out.Messages, afterDamage(attacker, target, died)...)
	return out
}

// ResolveBolt - дальний огненный снаряд (маг-моб или свиток). Тот же
// конвейер, но без оружия: стихия огонь, шанс поджечь цель.
func ResolveBolt(attacker, target *domain.Entity, stream *rng.Stream) AttackOutcome {
	var out AttackOutcome

	if target.Stats == nil || target.Stats.IsDead {
		out.Messages = append(out.Messages, fmt.Sprintf("Снаряд %s уходит в пустоту.", attacker.Name))
		return out
	}

	if !rollHit(attacker, target, stream) {
		out.Messages = append(out.Messages, fmt.Sprintf("%s промахивается снарядом по %s.", attacker.Name, target.Name))
		return out
	}
	out.Hit = true

	atk := effectiveAttack(attacker)
	lo := atk / 2
	if lo < 1 {
		lo = 1
	}
	raw := int(float64(stream.Range(lo, atk)) * stream.Between(0.85, 1.15))
	if raw < 1 {
		raw = 1
	}

	dealt, died := target.Stats.TakeDamage(raw, domain.ElementFire)
	out.Damage = dealt
	out.Died = died
	out.Messages = append(out.Messages, fmt.Sprintf("Огненный снаряд %s обжигает %s: %d урона.", attacker.Name, target.Name, dealt))

	if !died && stream.IntN(100) < 25 {
		if _, m := ApplyStatus(target, domain.StatusBurn, 0, 1); m != "" {
			out.Messages = append(out.Messages, m)
		}
	}

	out.Messages = append(out.Messages, afterDamage(attacker, target, died)...)
	return out
}

// ResolveShockwave - волна босса: бьет всех актеров в радиусе без броска
// точности и вешает разряд.
func ResolveShockwave(boss *domain.Entity, targets []*domain.Entity, stream *rng.Stream) []string {
	msgs := []string{fmt.Sprintf("%s обрушивает ударную волну!", boss.Name)}

	atk := effectiveAttack(boss)
	lo := atk / 2
	if lo < 1 {
		lo = 1
	}

	for _, t := range targets {
		if t.Stats == nil || t.Stats.IsDead || t.ID == boss.ID {
			continue
		}
		raw := stream.Range(lo, atk)
		dealt, died := t.Stats.TakeDamage(raw, domain.ElementShock)
		msgs = append(msgs, fmt.Sprintf("Волна накрывает %s: %d урона.", t.Name, dealt))
		if !died {
			if _, m := ApplyStatus(t, domain.StatusShock, 0, 1); m != "" {
				msgs = append(msgs, m)
			}
		}
		msgs = append(msgs, afterDamage(boss, t, died)...)
	}
	return msgs
}

// rollHit - бросок точности: clamp(60 + 5*(acc - eva), 5, 95) процентов.
// Разряды на цели сбивают её уклонение.
func rollHit(attacker, target *domain.Entity, stream *rng.Stream) bool {
	acc := 0
	if attacker.Stats != nil {
		acc = attacker.Stats.Accuracy
	}
	eva := effectiveEvasion(target)

	chance := domain.HitChanceBase + domain.HitChancePerPoint*(acc-eva)
	if chance < domain.HitChanceMin {
		chance = domain.HitChanceMin
	}
	if chance > domain.HitChanceMax {
		chance = domain.HitChanceMax
	}
	return stream.IntN(100) < chance
}

// effectiveAttack учитывает ярость: +25% к атаке.
func effectiveAttack(e *domain.Entity) int {
	if e.Stats == nil {
		return 1
	}
	atk := e.Stats.Attack
	if e.Statuses.Has(domain.StatusEnrage) {
		atk += atk / 4
	}
	if atk < 1 {
		atk = 1
	}
	return atk
}

// effectiveEvasion учитывает разряды: -2 уклонения за стак шока.
func effectiveEvasion(e *domain.Entity) int {
	if e.Stats == nil {
		return 0
	}
	eva := e.Stats.Evasion
	if shock := e.Statuses.Find(domain.StatusShock); shock != nil {
		eva -= 2 * shock.Stacks
	}
	return eva
}

// afterDamage - общий хвост любого источника урона: проверка ярости
// босса, оформление трупа и начисление опыта убийце.
func afterDamage(attacker, target *domain.Entity, died bool) []string {
	var msgs []string
	if !died {
		msgs = append(msgs, CheckEnrage(target)...)
		return msgs
	}

	msgs = append(msgs, markCorpse(target))
	if attacker != nil && attacker.Experience != nil && target.Reward != nil {
		msgs = append(msgs, fmt.Sprintf("%s получает %d опыта.", attacker.Name, target.Reward.XP))
		msgs = append(msgs, GainXP(attacker, target.Reward.XP)...)
	}
	return msgs
}

// CheckEnrage взводит ярость босса при падении HP до половины и ниже.
// Защелка в AIComponent гарантирует ровно одно срабатывание за бой.
func CheckEnrage(e *domain.Entity) []string {
	if e.AI == nil || e.AI.Archetype != domain.ArchetypeBoss {
		return nil
	}
	if e.Stats == nil || e.Stats.IsDead || e.Stats.HP*2 > e.Stats.MaxHP {
		return nil
	}
	if !e.AI.TryEnrage() {
		return nil
	}
	if e.Statuses == nil {
		e.Statuses = &domain.StatusesComponent{}
	}
	// Ярость накладывается в обход сопротивлений: это внутренний триггер.
	e.Statuses.Apply(domain.StatusEnrage, domain.EnrageDuration, 1, 0)
	return []string{fmt.Sprintf("%s приходит в ярость!", e.Name)}
}

// markCorpse оформляет труп: серый глиф, слой предметов, успокоенный AI.
func markCorpse(e *domain.Entity) string {
	if e.Render != nil {
		e.Render.Glyph = types.MakeGlyph(0x807060, '%')
		e.Render.Order = 0
	}
	if e.AI != nil {
		e.AI.CalmDown()
	}
	return fmt.Sprintf("%s погибает.", e.Name)
}

// MarkCorpse оформляет труп вне боевого резолва: гибель в опасной
// клетке, административное убийство.
func MarkCorpse(e *domain.Entity) string { return markCorpse(e) }
