package engine

import (
	"aether-server/internal/domain"
	"aether-server/pkg/dungeon"
)

// buildInitialRun строит первый этаж и ставит героя на вход с полным
// накопителем: первый ход всегда его.
func (s *GameService) buildInitialRun() error {
	if err := s.materializeFloor(1); err != nil {
		return err
	}

	player := dungeon.CreatePlayer(s.Cfg.HeroName)
	player.Depth = 1

	f := s.Floors[1]
	player.Pos = f.Entrance
	s.Arena.Spawn(player)
	f.AddEntity(player)
	s.PlayerID = player.ID

	if player.Energy != nil {
		player.Energy.Current = domain.ActionCost
	}

	s.Log.Push(s.Turn, "Вы спускаетесь в Пещеры Эфира. Ядро ждет на восьмом этаже.", "SYSTEM")
	return nil
}
