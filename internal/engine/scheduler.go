package engine

import (
	"errors"
	"fmt"

	"aether-server/internal/domain"
	"aether-server/internal/engine/handlers"
)

// Phase - состояние машины хода. Каждый полный цикл проходит фазы по
// порядку и ровно один раз наращивает счетчик ходов.
type Phase uint8

const (
	PhaseAwaitingInput Phase = iota
	PhaseResolvingActions
	PhaseRunningAI
	PhaseStatusTicks
	PhaseCheckWinLose
	PhaseFloorTransition
	PhaseWon
	PhaseLost
)

var phaseNames = [...]string{
	"awaiting_input",
	"resolving_actions",
	"running_ai",
	"status_ticks",
	"check_win_lose",
	"floor_transition",
	"won",
	"lost",
}

func (p Phase) String() string {
	if int(p) < len(phaseNames) {
		return phaseNames[p]
	}
	return "unknown"
}

// Terminal - забег завершен, намерения больше не принимаются.
func (p Phase) Terminal() bool { return p == PhaseWon || p == PhaseLost }

// SubmitIntent проводит намерение героя через цикл хода. Отказ
// (ErrInvalidIntent) бесплатен: состояние не тронуто, фаза осталась
// AwaitingInput. Успех тратит действие и прокручивает машину фаз либо
// до следующего ожидания ввода, либо до терминальной фазы.
func (s *GameService) SubmitIntent(a domain.Action) error {
	if s.Phase.Terminal() {
		return handlers.Reject("Забег окончен.")
	}
	if s.Phase != PhaseAwaitingInput {
		return fmt.Errorf("scheduler: intent submitted in phase %s", s.Phase)
	}
	if !a.Type.ConsumesTurn() {
		return handlers.Reject("Команда %s не является ходом.", a.Type)
	}

	player := s.Player()
	if player == nil || !player.Alive() {
		s.Phase = PhaseLost
		return handlers.Reject("Герой мертв.")
	}

	// Скованному льдом выбор не принадлежит: любое намерение
	// превращается в вынужденный пропуск.
	if player.Statuses.Has(domain.StatusFreeze) && a.Type != domain.ActionWait {
		s.Log.Push(s.Turn, "Лед не дает пошевелиться.", "INFO")
		a = domain.Action{Type: domain.ActionWait}
	}
	a.Actor = player.ID

	s.Phase = PhaseResolvingActions
	if err := s.execute(a, player); err != nil {
		s.Phase = PhaseAwaitingInput
		if errors.Is(err, handlers.ErrInvalidIntent) {
			s.Log.Push(s.Turn, err.Error(), "ERROR")
		}
		return err
	}
	player.Energy.Current -= domain.ActionCost
	s.playerActs++
	s.resolveQueued()

	// Ускоренный герой успевает второе действие в том же ходу.
	if s.playerActs < domain.MaxActionsPerTurn && player.Alive() &&
		s.pendingDelta == 0 && !s.winRequested &&
		player.Energy.Current >= domain.ActionCost {
		s.Phase = PhaseAwaitingInput
		return nil
	}

	s.runRestOfTurn()
	return nil
}

// execute прогоняет действие через реестр и публикует его строки.
func (s *GameService) execute(a domain.Action, actor *domain.Entity) error {
	h, ok := s.registry[a.Type]
	if !ok {
		return handlers.Reject("Действие %s не поддерживается.", a.Type)
	}
	res, err := h(s.handlerContext(actor), a)
	if err != nil {
		return err
	}
	kind := res.Kind
	if kind == "" {
		kind = "INFO"
	}
	for _, m := range res.Msgs {
		s.Log.Push(s.Turn, m, kind)
	}
	return nil
}

// resolveQueued вытягивает очередь доигровки: действия, дозаписанные
// обработчиками (встречный удар, дверной проем), исполняются в порядке
// постановки и не стоят дополнительной энергии.
func (s *GameService) resolveQueued() {
	for len(s.queue) > 0 {
		a := s.queue[0]
		s.queue = s.queue[1:]

		actor := s.Arena.Lookup(a.Actor)
		if actor == nil || !actor.Alive() {
			continue
		}
		if err := s.execute(a, actor); err != nil {
			if errors.Is(err, handlers.ErrInvalidIntent) && a.Actor == s.PlayerID {
				s.Log.Push(s.Turn, err.Error(), "ERROR")
			}
		}
	}
}

// runRestOfTurn прокручивает фазы от ИИ до закрытия хода. Если после
// закрытия герою не хватает энергии на действие, цикл повторяется без
// его участия.
func (s *GameService) runRestOfTurn() {
	for {
		s.Phase = PhaseRunningAI
		s.runAIPhase()

		s.Phase = PhaseStatusTicks
		s.tickStatusPhase()

		s.Phase = PhaseCheckWinLose
		if s.checkWinLose() {
			return
		}

		if s.pendingDelta != 0 {
			s.Phase = PhaseFloorTransition
			s.performTransition()
			if s.Phase.Terminal() {
				return
			}
		}

		s.endTurn()

		player := s.Player()
		if player == nil || player.Energy == nil {
			s.Phase = PhaseLost
			return
		}
		if player.Energy.Current >= domain.ActionCost {
			s.Phase = PhaseAwaitingInput
			return
		}
		s.Log.Push(s.Turn, "Тяжесть в ногах: ход проходит мимо.", "INFO")
	}
}

// endTurn закрывает цикл: счетчик хода, пополнение энергии и маны
// героя. Мобы пополняются в своей фазе.
func (s *GameService) endTurn() {
	s.Turn++
	s.playerActs = 0
	if player := s.Player(); player != nil && player.Energy != nil {
		gainEnergy(player)
		regenMana(player)
	}
}

// checkWinLose - терминальные исходы: гибель героя и вынесенное на
// поверхность Ядро. true - забег завершен.
func (s *GameService) checkWinLose() bool {
	player := s.Player()
	if player == nil || !player.Alive() {
		s.Phase = PhaseLost
		s.Log.Push(s.Turn, "Тьма смыкается над героем. Забег окончен.", "SYSTEM")
		return true
	}
	if s.winRequested {
		s.Phase = PhaseWon
		s.Log.Push(s.Turn, "Ядро Эфира вынесено из пещер. Победа!", "SYSTEM")
		return true
	}
	return false
}

// gainEnergy пополняет накопитель действием статусного темпа:
// ускорение и замедление перемножаются, банк ограничен двумя
// действиями.
func gainEnergy(e *domain.Entity) {
	gain := domain.BaseEnergyGain
	if e.Stats != nil && e.Stats.Speed > 0 {
		gain = e.Stats.Speed
	}
	gain = int(float64(gain) * e.Statuses.SpeedFactor())

	e.Energy.Current += gain
	if e.Energy.Current > 2*domain.ActionCost {
		e.Energy.Current = 2 * domain.ActionCost
	}
}

// regenMana - капля эфира раз в ход, до потолка.
func regenMana(e *domain.Entity) {
	if e.Stats == nil || e.Stats.MP >= e.Stats.MaxMP {
		return
	}
	e.Stats.MP += domain.ManaRegen
	if e.Stats.MP > e.Stats.MaxMP {
		e.Stats.MP = e.Stats.MaxMP
	}
}
