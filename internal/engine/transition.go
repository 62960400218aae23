package engine

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"aether-server/internal/domain"
	"aether-server/pkg/logger"
)

// performTransition переносит героя между этажами. Однажды построенный
// этаж живет до конца забега: подъем возвращает его ровно таким, каким
// он остался, вместе с населением и сработавшими ловушками.
func (s *GameService) performTransition() {
	delta := s.pendingDelta
	s.pendingDelta = 0

	player := s.Player()
	if player == nil {
		return
	}

	next := s.Depth + delta
	if next < 1 || next > domain.MaxFloors {
		return
	}

	if _, ok := s.Floors[next]; !ok {
		if err := s.materializeFloor(next); err != nil {
			// Генерация исчерпала попытки - забег продолжать не на чем.
			s.LastErr = fmt.Errorf("floor %d: %w", next, err)
			s.Log.Push(s.Turn, "Проход обрушивается. Дальше пути нет.", "ERROR")
			logger.Log.WithError(err).WithField("depth", next).Error("Floor generation failed")
			s.Phase = PhaseLost
			return
		}
	}

	oldFloor := s.Floors[s.Depth]
	newFloor := s.Floors[next]

	oldFloor.RemoveEntity(player)
	player.Depth = next
	if delta > 0 {
		// Спуск приводит к лестнице вверх нового этажа.
		player.Pos = newFloor.Entrance
	} else {
		// Подъем - к той лестнице вниз, с которой когда-то уходили.
		player.Pos = newFloor.StairsDown
	}
	newFloor.AddEntity(player)
	s.Depth = next

	if player.Vision != nil {
		player.Vision.Dirty = true
		player.Vision.Cached = nil
	}

	s.Log.Push(s.Turn, fmt.Sprintf("Этаж %d.", next), "SYSTEM")
	logger.Log.WithFields(logrus.Fields{
		"component": "engine",
		"depth":     next,
	}).Info("Floor transition")
}
