package systems

import (
	"math"

	"github.com/sirupsen/logrus"

	"aether-server/internal/core/rng"
	"aether-server/internal/core/types"
	"aether-server/internal/domain"
	"aether-server/pkg/logger"
)

// AIContext - то, что мозг видит за ход: этаж, игрок, поток случайности
// фазы AI и заранее посчитанное поле дистанций до игрока.
type AIContext struct {
	Floor       *domain.Floor
	Player      *domain.Entity
	Stream      *rng.Stream
	Finder      EntityProvider
	Turn        int
	PlayerField *DistanceField
}

// Decision - ровно одно решение моба за ход. Обычные намерения идут через
// Action; способности без игрового аналога (призыв, мина, волна) помечены
// флагами и исполняются процессором фазы AI.
type Decision struct {
	Action    domain.Action
	SummonPos *domain.Position // summoner: поставить призванного сюда
	ArmTrap   bool             // sapper: заминировать свою клетку
	Shockwave bool             // boss: ударная волна вокруг себя
}

// ComputeNPCAction решает, что делает моб. Диспетчеризация по архетипу,
// общая часть - обнаружение игрока и память о нем.
func ComputeNPCAction(npc *domain.Entity, ctx *AIContext) Decision {
	if npc.AI == nil || npc.Stats == nil || npc.Stats.IsDead {
		return waitDecision(npc)
	}
	player := ctx.Player
	if player == nil || player.Stats == nil || player.Stats.IsDead {
		return waitDecision(npc)
	}
	// Скованный льдом пропускает ход.
	if npc.Statuses.Has(domain.StatusFreeze) {
		return waitDecision(npc)
	}

	visible := canSeePlayer(npc, ctx)
	if visible {
		npc.AI.Alert()
		if npc.Memory != nil {
			pos := player.Pos
			npc.Memory.LastPlayerPos = &pos
			npc.Memory.LastPlayerTurn = ctx.Turn
		}
	}

	if npc.AI.IsIdle() {
		return wander(npc, ctx)
	}

	var d Decision
	switch npc.AI.Archetype {
	case domain.ArchetypeBrute:
		d = bruteDecide(npc, ctx, visible)
	case domain.ArchetypeSkirmisher:
		d = skirmisherDecide(npc, ctx, visible)
	case domain.ArchetypeRanged:
		d = rangedDecide(npc, ctx, visible)
	case domain.ArchetypeSummoner:
		d = summonerDecide(npc, ctx, visible)
	case domain.ArchetypeSapper:
		d = sapperDecide(npc, ctx, visible)
	case domain.ArchetypeBoss:
		d = bossDecide(npc, ctx, visible)
	default:
		d = waitDecision(npc)
	}

	logger.Log.WithFields(logrus.Fields{
		"component": "ai_system",
		"npc":       npc.Name,
		"archetype": npc.AI.Archetype.String(),
		"action":    d.Action.Type.String(),
	}).Debug("NPC decision made.")
	return d
}

// --- Архетипы ---

// bruteDecide: напролом по полю дистанций, в упор - бьет.
func bruteDecide(npc *domain.Entity, ctx *AIContext, visible bool) Decision {
	if !visible {
		return memoryChase(npc, ctx)
	}
	if npc.Pos.IsAdjacent(ctx.Player.Pos) {
		return attackDecision(npc, ctx.Player)
	}
	if dx, dy, ok := chaseStep(npc, ctx, domain.Directions8[:]); ok {
		return moveDecision(npc, dx, dy)
	}
	return waitDecision(npc)
}

// skirmisherDecide держит дистанцию укола: бьет с манхэттена 2-3,
// отскакивает по диагонали ближе двух, догоняет дальше трех.
func skirmisherDecide(npc *domain.Entity, ctx *AIContext, visible bool) Decision {
	if !visible {
		return memoryChase(npc, ctx)
	}

	dist := npc.Pos.Manhattan(ctx.Player.Pos)
	switch {
	case dist >= 2 && dist <= 3:
		return attackDecision(npc, ctx.Player)
	case dist < 2:
		if dx, dy, ok := stepAway(npc, ctx, diagonalFirst); ok {
			return moveDecision(npc, dx, dy)
		}
		// Зажат в углу - дерется как умеет.
		if npc.Pos.IsAdjacent(ctx.Player.Pos) {
			return attackDecision(npc, ctx.Player)
		}
		return waitDecision(npc)
	default:
		if dx, dy, ok := chaseStep(npc, ctx, domain.Directions8[:]); ok {
			return moveDecision(npc, dx, dy)
		}
		return waitDecision(npc)
	}
}

// rangedDecide стреляет огнем в пределах прямой видимости, от упора
// отходит, без видимости ждет.
func rangedDecide(npc *domain.Entity, ctx *AIContext, visible bool) Decision {
	if !visible {
		return waitDecision(npc)
	}

	if npc.Pos.IsAdjacent(ctx.Player.Pos) {
		if dx, dy, ok := stepAway(npc, ctx, tableOrder); ok {
			return moveDecision(npc, dx, dy)
		}
		return attackDecision(npc, ctx.Player)
	}

	inRange := npc.Pos.DistanceSquaredTo(ctx.Player.Pos) <= domain.BoltRange*domain.BoltRange
	if inRange && npc.Stats.MP >= domain.CastManaCost {
		return castDecision(npc, ctx.Player)
	}
	if inRange {
		// Мана кончилась - пересидеть, пока накапает
		return waitDecision(npc)
	}

	if dx, dy, ok := chaseStep(npc, ctx, domain.Directions8[:]); ok {
		return moveDecision(npc, dx, dy)
	}
	return waitDecision(npc)
}

// summonerDecide призывает скирмишеров по кулдауну и дрейфует на
// дистанции около четырех клеток. Немота глушит призыв.
func summonerDecide(npc *domain.Entity, ctx *AIContext, visible bool) Decision {
	live := npc.AI.PruneSummons(func(id types.EntityID) bool {
		if ctx.Finder == nil {
			return false
		}
		e := ctx.Finder.GetEntity(id)
		return e != nil && e.Alive()
	})

	if visible && npc.AI.Cooldown == 0 && live < domain.SummonCap && !npc.Statuses.Has(domain.StatusSilence) {
		for _, d := range domain.Directions8 {
			spot := npc.Pos.Shift(d.X, d.Y)
			if freeAt(ctx.Floor, spot) {
				return Decision{
					Action:    domain.Action{Type: domain.ActionWait, Actor: npc.ID},
					SummonPos: &spot,
				}
			}
		}
	}

	if !visible {
		return memoryChase(npc, ctx)
	}

	d2 := npc.Pos.DistanceSquaredTo(ctx.Player.Pos)
	switch {
	case d2 < 16:
		if dx, dy, ok := stepAway(npc, ctx, tableOrder); ok {
			return moveDecision(npc, dx, dy)
		}
	case d2 > 25:
		if dx, dy, ok := chaseStep(npc, ctx, domain.Directions8[:]); ok {
			return moveDecision(npc, dx, dy)
		}
	}
	return waitDecision(npc)
}

// sapperDecide спускается по полю дистанций только кардинальными шагами;
// когда спуска нет - минирует свою клетку; в упор дерется.
func sapperDecide(npc *domain.Entity, ctx *AIContext, visible bool) Decision {
	if visible && npc.Pos.IsAdjacent(ctx.Player.Pos) {
		return attackDecision(npc, ctx.Player)
	}

	if dx, dy, ok := chaseStep(npc, ctx, domain.Directions4[:]); ok {
		return moveDecision(npc, dx, dy)
	}

	if ctx.Floor.TileAt(npc.Pos.X, npc.Pos.Y) == domain.TileFloor {
		return Decision{
			Action:  domain.Action{Type: domain.ActionWait, Actor: npc.ID},
			ArmTrap: true,
		}
	}
	return waitDecision(npc)
}

// bossDecide: паттерн брута плюс ударная волна в радиусе двух клеток.
// Пока игрок не вошел в регион босса, тот не покидает его.
func bossDecide(npc *domain.Entity, ctx *AIContext, visible bool) Decision {
	if gate := ctx.Floor.BossGate; gate != nil && !gate.Contains(ctx.Player.Pos) {
		return waitDecision(npc)
	}

	if visible && npc.Pos.Chebyshev(ctx.Player.Pos) <= domain.ShockwaveRange && npc.AI.Cooldown == 0 {
		return Decision{
			Action:    domain.Action{Type: domain.ActionWait, Actor: npc.ID},
			Shockwave: true,
		}
	}

	return bruteDecide(npc, ctx, visible)
}

// --- Общие ходы ---

func waitDecision(npc *domain.Entity) Decision {
	return Decision{Action: domain.Action{Type: domain.ActionWait, Actor: npc.ID}}
}

func moveDecision(npc *domain.Entity, dx, dy int) Decision {
	return Decision{Action: domain.Action{Type: domain.ActionMove, Actor: npc.ID, DX: dx, DY: dy}}
}

func attackDecision(npc, target *domain.Entity) Decision {
	return Decision{Action: domain.Action{Type: domain.ActionAttack, Actor: npc.ID, Target: target.ID}}
}

func castDecision(npc, target *domain.Entity) Decision {
	return Decision{Action: domain.Action{Type: domain.ActionCast, Actor: npc.ID, Target: target.ID}}
}

// canSeePlayer: прямая видимость и радиус агрессии.
func canSeePlayer(npc *domain.Entity, ctx *AIContext) bool {
	if npc.Pos.DistanceSquaredTo(ctx.Player.Pos) > domain.AggroRadius*domain.AggroRadius {
		return false
	}
	return HasLineOfSight(ctx.Floor, npc.Pos, ctx.Player.Pos)
}

// wander - праздный моб иногда переминается на случайную свободную клетку.
func wander(npc *domain.Entity, ctx *AIContext) Decision {
	if !ctx.Stream.Chance(0.3) {
		return waitDecision(npc)
	}
	d := domain.Directions8[ctx.Stream.IntN(8)]
	if freeAt(ctx.Floor, npc.Pos.Shift(d.X, d.Y)) {
		return moveDecision(npc, d.X, d.Y)
	}
	return waitDecision(npc)
}

// memoryChase ведет моба к последней виденной позиции игрока; дойдя до
// нее впустую, моб успокаивается.
func memoryChase(npc *domain.Entity, ctx *AIContext) Decision {
	if npc.Memory == nil || npc.Memory.LastPlayerPos == nil {
		npc.AI.CalmDown()
		return waitDecision(npc)
	}
	last := *npc.Memory.LastPlayerPos
	if npc.Pos == last {
		npc.AI.CalmDown()
		npc.Memory.LastPlayerPos = nil
		return waitDecision(npc)
	}
	path := FindPath(ctx.Floor, npc.Pos, last, nil)
	if len(path) == 0 {
		npc.AI.CalmDown()
		return waitDecision(npc)
	}
	if !freeAt(ctx.Floor, path[0]) {
		return waitDecision(npc)
	}
	return moveDecision(npc, path[0].X-npc.Pos.X, path[0].Y-npc.Pos.Y)
}

// chaseStep выбирает шаг со строгим уменьшением дистанции до игрока по
// полю Дейкстры. Ничьи решает порядок таблицы направлений. Без поля
// откатывается на A*.
func chaseStep(npc *domain.Entity, ctx *AIContext, dirs []domain.Position) (int, int, bool) {
	field := ctx.PlayerField
	if field == nil {
		path := FindPath(ctx.Floor, npc.Pos, ctx.Player.Pos, nil)
		if len(path) == 0 || !freeAt(ctx.Floor, path[0]) {
			return 0, 0, false
		}
		return path[0].X - npc.Pos.X, path[0].Y - npc.Pos.Y, true
	}

	best := field.At(npc.Pos.X, npc.Pos.Y)
	if best < 0 {
		best = math.MaxInt
	}
	var bestDir domain.Position
	found := false
	for _, d := range dirs {
		next := npc.Pos.Shift(d.X, d.Y)
		if !freeAt(ctx.Floor, next) {
			continue
		}
		dist := field.At(next.X, next.Y)
		if dist < 0 || dist >= best {
			continue
		}
		best = dist
		bestDir = d
		found = true
	}
	if !found {
		return 0, 0, false
	}
	return bestDir.X, bestDir.Y, true
}

type awayOrder uint8

const (
	tableOrder awayOrder = iota
	diagonalFirst
)

// stepAway отходит от игрока: выбирается первый свободный шаг, строго
// увеличивающий дистанцию. diagonalFirst сначала пробует диагонали.
func stepAway(npc *domain.Entity, ctx *AIContext, order awayOrder) (int, int, bool) {
	dirs := domain.Directions8[:]
	if order == diagonalFirst {
		dirs = []domain.Position{
			{X: 1, Y: 1}, {X: 1, Y: -1}, {X: -1, Y: 1}, {X: -1, Y: -1},
			{X: 0, Y: -1}, {X: 1, Y: 0}, {X: 0, Y: 1}, {X: -1, Y: 0},
		}
	}

	cur := npc.Pos.DistanceSquaredTo(ctx.Player.Pos)
	for _, d := range dirs {
		next := npc.Pos.Shift(d.X, d.Y)
		if !freeAt(ctx.Floor, next) {
			continue
		}
		if next.DistanceSquaredTo(ctx.Player.Pos) > cur {
			return d.X, d.Y, true
		}
	}
	return 0, 0, false
}

// freeAt - клетка проходима и не занята живым актером.
func freeAt(f *domain.Floor, p domain.Position) bool {
	if !f.IsWalkable(p.X, p.Y) {
		return false
	}
	return f.ActorAt(p.X, p.Y) == nil
}
