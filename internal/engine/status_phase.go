package engine

import (
	"aether-server/internal/domain"
	"aether-server/internal/systems"
)

// tickStatusPhase закрывает ход статусами и средой: у каждого живого
// актера этажа тикают эффекты (урон, потом декремент, потом снятие),
// затем жгут непрерывные опасности под ногами. Порядок обхода -
// порядок создания сущностей.
func (s *GameService) tickStatusPhase() {
	f := s.CurrentFloor()
	if f == nil {
		return
	}

	for _, e := range s.actorsOn(s.Depth) {
		s.pushAll(systems.TickStatuses(e), "COMBAT")
		if !e.Alive() {
			continue
		}

		switch f.TileAt(e.Pos.X, e.Pos.Y) {
		case domain.TileAcid, domain.TileLava:
			s.pushAll(systems.ApplyTileHazard(e, f), "COMBAT")
		}
	}
}
