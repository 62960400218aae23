package engine

import (
	"aether-server/internal/domain"
	"aether-server/internal/systems"
	"aether-server/pkg/api"
)

// BuildSnapshot собирает снимок мира глазами героя: видимость свежая,
// карта - только исследованное, сущности - только в поле зрения.
// Чужие статы наружу не уходят, неопознанные виды зовутся этикетками.
func (s *GameService) BuildSnapshot() *api.ServerResponse {
	f := s.CurrentFloor()
	player := s.Player()

	resp := &api.ServerResponse{
		Type:       "UPDATE",
		Turn:       s.Turn,
		Depth:      s.Depth,
		Phase:      s.Phase.String(),
		Status:     s.status(),
		MyEntityID: s.PlayerID,
		Logs:       s.Log.Tail(domain.LogSnapshotTail),
	}
	if s.Phase.Terminal() {
		resp.Type = "GAME_OVER"
	}
	if f == nil {
		return resp
	}

	visible := map[int]bool{}
	if player != nil && player.Vision != nil && player.Alive() {
		visible = systems.ComputeVisibleTiles(f, player.Pos, player.Vision)
		f.MarkVisible(visible)
	}

	resp.Grid = &api.GridMeta{Width: f.Width, Height: f.Height}
	resp.Map = buildTileViews(f)
	resp.Entities = s.buildEntityViews(f, visible)
	if player != nil {
		resp.Player = s.buildPlayerView(player)
	}
	return resp
}

func (s *GameService) status() string {
	switch s.Phase {
	case PhaseWon:
		return "won"
	case PhaseLost:
		return "lost"
	default:
		return "playing"
	}
}

// buildTileViews - исследованная часть карты. Клетки вне поля зрения
// отдаются с пригашенным цветом: туман войны рисует сервер, чтобы
// клиенту не требовалось знать правила памяти.
func buildTileViews(f *domain.Floor) []api.TileView {
	views := make([]api.TileView, 0, len(f.Tiles))
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			idx := f.Index(x, y)
			if !f.Explored[idx] {
				continue
			}
			tile := f.Tiles[idx]
			// Несработавшая ловушка выглядит как пол
			if tile == domain.TileTrap && !f.Sprung[idx] {
				tile = domain.TileFloor
			}
			glyph := tile.Glyph()
			vis := f.Visible[idx]
			if !vis {
				glyph = glyph.Dim()
			}
			views = append(views, api.TileView{
				X:        x,
				Y:        y,
				Char:     string(glyph.Char()),
				Color:    glyph.HexColor(),
				Walkable: tile.Walkable(),
				Visible:  vis,
				Explored: true,
			})
		}
	}
	return views
}

// buildEntityViews - сущности в поле зрения, в порядке создания.
// Себя герой видит всегда, даже ослепнув в лаве на нуле здоровья.
func (s *GameService) buildEntityViews(f *domain.Floor, visible map[int]bool) []api.EntityView {
	var views []api.EntityView
	s.Arena.Each(func(e *domain.Entity) bool {
		if e.Depth != s.Depth || e.Render == nil {
			return true
		}
		if e.ID != s.PlayerID && !visible[f.Index(e.Pos.X, e.Pos.Y)] {
			return true
		}
		views = append(views, s.toEntityView(e))
		return true
	})
	return views
}

func (s *GameService) toEntityView(e *domain.Entity) api.EntityView {
	v := api.EntityView{
		ID:    e.ID,
		Kind:  e.Kind.String(),
		Name:  e.Name,
		X:     e.Pos.X,
		Y:     e.Pos.Y,
		Char:  string(e.Render.Glyph.Char()),
		Color: e.Render.Glyph.HexColor(),
	}
	if e.Item != nil {
		v.Name = s.hiddenName(e.Item.BaseName, e.Item.KindID, e.Item.Identified)
	}
	if e.Stats != nil {
		v.HPFraction = e.Stats.HPFraction()
		v.Dead = e.Stats.IsDead
	}
	return v
}

// buildPlayerView - приватный блок героя: точные статы, сумка с
// этикетками, экипировка, связка ключей, активные статусы.
func (s *GameService) buildPlayerView(player *domain.Entity) *api.PlayerView {
	view := &api.PlayerView{}

	if st := player.Stats; st != nil {
		view.Stats = api.StatsView{
			HP:       st.HP,
			MaxHP:    st.MaxHP,
			MP:       st.MP,
			MaxMP:    st.MaxMP,
			Attack:   st.Attack,
			Defense:  st.Defense + st.ArmorBonus,
			Accuracy: st.Accuracy,
			Evasion:  st.Evasion,
		}
	}
	if xp := player.Experience; xp != nil {
		view.Stats.Level = xp.Level
		view.Stats.XP = xp.XP
		view.Stats.XPNext = xp.Threshold()
	}

	if inv := player.Inventory; inv != nil {
		view.InvWidth = inv.Width
		view.InvHeight = inv.Height
		view.Inventory = make([]api.ItemView, 0, len(inv.Items))
		for i, it := range inv.Items {
			if it == nil {
				continue
			}
			iv := s.toItemView(i, it)
			view.Inventory = append(view.Inventory, iv)
			if it.QuestItem {
				view.HasCore = true
			}
		}
		view.Keys = append([]int(nil), inv.Keys...)
	}

	if eq := player.Equipment; eq != nil {
		for slot := domain.EquipSlot(0); slot < domain.NumEquipSlots; slot++ {
			ev := api.EquipView{Slot: slot.String()}
			if it := eq.Get(slot); it != nil {
				iv := s.toItemView(int(slot), it)
				ev.Item = &iv
			}
			view.Equipment = append(view.Equipment, ev)
		}
	}

	if st := player.Statuses; st != nil {
		for _, eff := range st.Active {
			view.Statuses = append(view.Statuses, api.StatusView{
				Kind:     eff.Kind.String(),
				Duration: eff.Duration,
				Stacks:   eff.Stacks,
			})
		}
	}
	return view
}

func (s *GameService) toItemView(index int, it *domain.ItemComponent) api.ItemView {
	identified := it.Identified || s.identified[it.KindID]
	view := api.ItemView{
		Index:      index,
		Name:       s.hiddenName(it.BaseName, it.KindID, it.Identified),
		Char:       string(it.Glyph.Char()),
		Color:      it.Glyph.HexColor(),
		Identified: it.KindID == "" || identified,
	}
	if it.Stackable && it.Quantity > 1 {
		view.Qty = it.Quantity
	}
	if it.Slot != domain.ItemSlotNone {
		view.Slot = itemSlotName(it.Slot)
	}
	if view.Identified {
		view.Description = it.Description
	}
	return view
}

func itemSlotName(slot domain.ItemSlot) string {
	switch slot {
	case domain.ItemSlotWeapon:
		return "weapon"
	case domain.ItemSlotArmor:
		return "armor"
	case domain.ItemSlotRing:
		return "ring"
	case domain.ItemSlotCharm:
		return "charm"
	default:
		return ""
	}
}
