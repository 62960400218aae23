package agent

import (
	"encoding/json"
	"log"

	"aether-server/internal/domain"
	"aether-server/internal/engine"
	"aether-server/internal/engine/handlers"
	"aether-server/internal/systems"
	"aether-server/pkg/api"
	"aether-server/pkg/utils"
)

// Bot - безголовый агент, играющий героем. Этот код является примером
// ВНЕШНЕГО клиента: он знает о мире ровно то, что пришло в снимке
// api.ServerResponse, и отвечает теми же командами, что и живой игрок.
//
// Жизненный цикл:
//  1. NewBot -> подписка в хабе на героя (новый живой клиент перехватит
//     управление: хаб закроет канал бота, и Run завершится).
//  2. Run -> в горутине: INIT, затем реакция на каждый снимок.
//  3. makeMove -> восстанавливает локальную карту из снимка, выбирает
//     цель и шлет одну команду. Симуляция lock-step: на команду придет
//     следующий снимок.
type Bot struct {
	Game  *engine.GameService
	Inbox chan api.ServerResponse

	turnSeen  int
	decisions int
}

// Столько решений бот может принять за один ход героя. Сверх лимита -
// принудительный WAIT, чтобы цепочка отказов не зациклила обмен.
const maxDecisionsPerTurn = 4

func NewBot(game *engine.GameService) *Bot {
	log.Printf("[BOT] Taking over hero %s", game.PlayerID)
	return &Bot{
		Game:  game,
		Inbox: game.Hub.Register(game.PlayerID),
	}
}

// Run запускает цикл жизни бота. Должен быть запущен в горутине.
func (b *Bot) Run() {
	defer b.Game.Hub.Unregister(b.Game.PlayerID, b.Inbox)

	// Триггер первого снимка
	b.send("INIT", nil)

	for state := range b.Inbox {
		if state.Status != "playing" {
			log.Printf("[BOT] Run is over: %s", state.Status)
			return
		}
		// Ход не наш - снимок чисто информационный
		if state.Phase != "awaiting_input" {
			continue
		}
		b.makeMove(state)
	}
	log.Printf("[BOT] Subscription closed, agent shut down")
}

// makeMove - мозг бота: одна команда на один снимок.
func (b *Bot) makeMove(state api.ServerResponse) {
	if state.Turn != b.turnSeen {
		b.turnSeen = state.Turn
		b.decisions = 0
	}
	b.decisions++
	if b.decisions > maxDecisionsPerTurn {
		b.send("WAIT", nil)
		return
	}

	me, monsters, items := b.splitEntities(state)
	if me == nil {
		b.send("WAIT", nil)
		return
	}

	// 1. Выживание: мало здоровья - пьем лечебное зелье, если опознали
	if state.Player != nil && state.Player.Stats.HP*3 < state.Player.Stats.MaxHP {
		if idx, ok := findPotion(state.Player.Inventory); ok {
			b.send("USE", api.ItemPayload{Index: idx})
			return
		}
	}

	// 2. Враг вплотную - бьем
	if target := adjacentMonster(me, monsters); target != nil {
		b.send("ATTACK", api.TargetPayload{TargetID: target.ID})
		return
	}

	// 3. Предмет под ногами - подбираем
	for _, it := range items {
		if it.X == me.X && it.Y == me.Y {
			b.send("PICKUP", nil)
			return
		}
	}

	// 4. Стоим на нужной лестнице - пользуемся
	local, costs := b.buildLocalFloor(state, monsters)
	tile := local.TileAt(me.X, me.Y)
	goingUp := state.Player != nil && state.Player.HasCore
	if goingUp && tile == domain.TileStairsUp {
		b.send("ASCEND", nil)
		return
	}
	if !goingUp && tile == domain.TileStairsDown {
		b.send("DESCEND", nil)
		return
	}

	// 5. Выбор дальней цели: видимые предметы, лестница, фронтир
	// разведки. Поля дистанций от кандидатов считаются параллельно,
	// побеждает ближайшая достижимая цель.
	myPos := domain.Position{X: me.X, Y: me.Y}
	goals := b.collectGoals(state, local, myPos, items, goingUp)
	if goal, ok := pickNearestGoal(local, myPos, goals); ok {
		if path := systems.FindPath(local, myPos, goal, costs); len(path) > 0 {
			b.send("MOVE", api.DirectionPayload{
				Dx: utils.Clamp(path[0].X-me.X, -1, 1),
				Dy: utils.Clamp(path[0].Y-me.Y, -1, 1),
			})
			return
		}
	}

	b.send("WAIT", nil)
}

// splitEntities раскладывает сущности снимка: сам герой, живые монстры,
// предметы на полу.
func (b *Bot) splitEntities(state api.ServerResponse) (me *api.EntityView, monsters, items []api.EntityView) {
	for i := range state.Entities {
		ev := state.Entities[i]
		switch {
		case ev.ID == state.MyEntityID:
			me = &state.Entities[i]
		case ev.Kind == "MONSTER" && !ev.Dead:
			monsters = append(monsters, ev)
		case ev.Kind == "ITEM":
			items = append(items, ev)
		}
	}
	return me, monsters, items
}

// buildLocalFloor восстанавливает карту из тайлов снимка. Все, чего бот
// не видел, считается стеной: путей в неизвестность не строим. Вторым
// значением - штрафы клеток для A*.
func (b *Bot) buildLocalFloor(state api.ServerResponse, monsters []api.EntityView) (*domain.Floor, systems.CostFn) {
	width, height := domain.MapWidth, domain.MapHeight
	if state.Grid != nil {
		width, height = state.Grid.Width, state.Grid.Height
	}
	local := domain.NewFloor(state.Depth, width, height)

	penalty := make(map[int]int)
	for _, tv := range state.Map {
		if !local.InBounds(tv.X, tv.Y) {
			continue
		}
		tile, extra := classifyTile(tv)
		local.SetTile(tv.X, tv.Y, tile)
		local.Explored[local.Index(tv.X, tv.Y)] = true
		if extra > 0 {
			penalty[local.Index(tv.X, tv.Y)] = extra
		}
	}

	// Живой монстр - не препятствие (упремся - ударим), но обходить
	// его дешевле, чем лезть напролом.
	for _, m := range monsters {
		if local.InBounds(m.X, m.Y) {
			penalty[local.Index(m.X, m.Y)] += 6
		}
	}

	return local, func(x, y int) int {
		return penalty[local.Index(x, y)]
	}
}

// classifyTile переводит символ снимка обратно в тайл и штраф входа.
func classifyTile(tv api.TileView) (domain.Tile, int) {
	if tv.Char == "" {
		return domain.TileWall, 0
	}
	switch tv.Char[0] {
	case '#':
		return domain.TileWall, 0
	case '.':
		return domain.TileFloor, 0
	case '+':
		if tv.Walkable {
			return domain.TileDoorClosed, 0
		}
		// Запертая дверь: для A* проходима с большим штрафом; шаг в
		// нее с ключом откроет замок, без ключа - бесплатный отказ.
		return domain.TileDoorClosed, 20
	case '\'':
		return domain.TileDoorOpen, 0
	case '<':
		return domain.TileStairsUp, 0
	case '>':
		return domain.TileStairsDown, 0
	case '~':
		return domain.TileAcid, 8
	case '^':
		return domain.TileTrap, 8
	case '&':
		return domain.TileCoreAltar, 0
	default:
		if tv.Walkable {
			return domain.TileFloor, 0
		}
		return domain.TileWall, 0
	}
}

// collectGoals собирает кандидатов дальней навигации.
func (b *Bot) collectGoals(state api.ServerResponse, local *domain.Floor, myPos domain.Position, items []api.EntityView, goingUp bool) []domain.Position {
	var goals []domain.Position

	for _, it := range items {
		goals = append(goals, domain.Position{X: it.X, Y: it.Y})
	}

	want := domain.TileStairsDown
	if goingUp {
		want = domain.TileStairsUp
	}
	for y := 0; y < local.Height; y++ {
		for x := 0; x < local.Width; x++ {
			if local.TileAt(x, y) == want {
				goals = append(goals, domain.Position{X: x, Y: y})
			}
		}
	}

	if frontier, ok := nearestFrontier(local, myPos); ok {
		goals = append(goals, frontier)
	}
	return goals
}

// pickNearestGoal выбирает из кандидатов ближайшую достижимую цель.
// Поле дистанций каждого кандидата считается в своей горутине.
func pickNearestGoal(local *domain.Floor, myPos domain.Position, goals []domain.Position) (domain.Position, bool) {
	if len(goals) == 0 {
		return domain.Position{}, false
	}

	fields := systems.ComputeDistanceFields(local, goals)
	best, bestDist := domain.Position{}, -1
	for i, df := range fields {
		d := df.At(myPos.X, myPos.Y)
		if d < 0 {
			continue // недостижима
		}
		if bestDist == -1 || d < bestDist {
			best, bestDist = goals[i], d
		}
	}
	return best, bestDist >= 0
}

// nearestFrontier ищет ближайшую исследованную проходимую клетку,
// граничащую с неисследованной: туда стоит идти ради разведки.
func nearestFrontier(local *domain.Floor, myPos domain.Position) (domain.Position, bool) {
	best, bestDist := domain.Position{}, -1
	for y := 0; y < local.Height; y++ {
		for x := 0; x < local.Width; x++ {
			idx := local.Index(x, y)
			if !local.Explored[idx] || !local.IsWalkable(x, y) {
				continue
			}
			edge := false
			for _, d := range domain.Directions8 {
				nx, ny := x+d.X, y+d.Y
				if local.InBounds(nx, ny) && !local.Explored[local.Index(nx, ny)] {
					edge = true
					break
				}
			}
			if !edge {
				continue
			}
			dist := utils.Manhattan(x, y, myPos.X, myPos.Y)
			if bestDist == -1 || dist < bestDist {
				best, bestDist = domain.Position{X: x, Y: y}, dist
			}
		}
	}
	return best, bestDist >= 0
}

// adjacentMonster возвращает живого монстра в соседней клетке (8
// направлений), nil если рядом чисто.
func adjacentMonster(me *api.EntityView, monsters []api.EntityView) *api.EntityView {
	for i := range monsters {
		m := &monsters[i]
		dx, dy := utils.Abs(m.X-me.X), utils.Abs(m.Y-me.Y)
		if dx <= 1 && dy <= 1 {
			return m
		}
	}
	return nil
}

// findPotion ищет в инвентаре лечебное зелье: опознанное - по имени,
// иначе любой неопознанный расходник-склянку (риск - тоже лечение).
func findPotion(inv []api.ItemView) (int, bool) {
	for _, it := range inv {
		if it.Identified && it.Name == "Potion of Healing" {
			return it.Index, true
		}
	}
	for _, it := range inv {
		if !it.Identified && it.Char == "!" {
			return it.Index, true
		}
	}
	return 0, false
}

// send упаковывает команду так же, как это делает сетевой клиент, и
// отдает ее движку.
func (b *Bot) send(action string, payload interface{}) {
	cmd := api.ClientCommand{Action: action}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			log.Printf("[BOT] Error marshalling payload: %v", err)
			return
		}
		cmd.Payload = raw
	}

	a, err := handlers.DecodeAction(cmd)
	if err != nil {
		log.Printf("[BOT] Bad command %s: %v", action, err)
		return
	}
	b.Game.Dispatch(a)
}
