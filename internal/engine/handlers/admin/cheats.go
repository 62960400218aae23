package admin

import (
	"fmt"

	"aether-server/internal/domain"
	"aether-server/internal/engine/handlers"
	"aether-server/internal/systems"
	"aether-server/pkg/dungeon"
)

// Административные ручки. В боевом протоколе у них нет имени действия:
// доступ только через /debug HTTP-маршруты при включенных читах.
// Сообщения английские, как и прочая служебная речь сервера.

type TeleportPayload struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// HandleTeleport переносит героя в указанную проходимую клетку этажа.
func HandleTeleport(ctx handlers.Context, p TeleportPayload) (handlers.Result, error) {
	if !ctx.Floor.IsWalkable(p.X, p.Y) {
		return handlers.Result{}, handlers.Reject("cell (%d,%d) is not walkable", p.X, p.Y)
	}
	if err := ctx.Floor.UpdateEntityPos(ctx.Actor, p.X, p.Y); err != nil {
		return handlers.Result{}, err
	}
	if ctx.Actor.Vision != nil {
		ctx.Actor.Vision.Dirty = true
	}
	return handlers.Result{Msgs: []string{fmt.Sprintf("⚡ Teleported to (%d,%d).", p.X, p.Y)}}, nil
}

// HandleHeal полностью восстанавливает героя и снимает все статусы.
func HandleHeal(ctx handlers.Context) (handlers.Result, error) {
	if ctx.Actor.Stats == nil {
		return handlers.Result{}, handlers.Reject("actor has no stats")
	}
	ctx.Actor.Stats.FullRestore()
	if ctx.Actor.Statuses != nil {
		ctx.Actor.Statuses.Active = nil
	}
	return handlers.Result{Msgs: []string{"✨ Fully healed."}}, nil
}

// HandleReveal раскрывает весь этаж.
func HandleReveal(ctx handlers.Context) (handlers.Result, error) {
	for i := range ctx.Floor.Explored {
		ctx.Floor.Explored[i] = true
	}
	return handlers.Result{Msgs: []string{"👁 Floor revealed."}}, nil
}

type SpawnPayload struct {
	Template string `json:"template"` // точное имя шаблона моба
}

// HandleSpawn ставит моба из шаблона в первую свободную клетку рядом
// с героем. Броски статов идут из боевого потока: чит остается частью
// воспроизводимой последовательности.
func HandleSpawn(ctx handlers.Context, p SpawnPayload) (handlers.Result, error) {
	var tmpl *dungeon.MonsterTemplate
	for i := range dungeon.MonsterTemplates {
		if dungeon.MonsterTemplates[i].Name == p.Template {
			tmpl = &dungeon.MonsterTemplates[i]
			break
		}
	}
	if tmpl == nil {
		return handlers.Result{}, handlers.Reject("unknown monster template %q", p.Template)
	}

	for _, d := range domain.Directions8 {
		x, y := ctx.Actor.Pos.X+d.X, ctx.Actor.Pos.Y+d.Y
		if !ctx.Floor.IsWalkable(x, y) || ctx.Floor.ActorAt(x, y) != nil {
			continue
		}
		pos := domain.Position{X: x, Y: y}
		mob := dungeon.SpawnMonster(*tmpl, ctx.Actor.Depth, pos, ctx.Combat)
		ctx.Spawn(mob)
		return handlers.Result{Msgs: []string{fmt.Sprintf("💀 Spawned %s at (%d,%d).", mob.Name, x, y)}}, nil
	}
	return handlers.Result{}, handlers.Reject("no free cell around the hero")
}

type KillPayload struct {
	TargetID string `json:"targetId"`
}

// HandleKill мгновенно добивает цель по ID.
func HandleKill(ctx handlers.Context, target *domain.Entity) (handlers.Result, error) {
	if target == nil || target.Stats == nil {
		return handlers.Result{}, handlers.Reject("target not found")
	}
	if target.Stats.IsDead {
		return handlers.Result{}, handlers.Reject("target is already dead")
	}
	target.Stats.TakeDamage(target.Stats.MaxHP*100, domain.ElementPhysical)
	msg := systems.MarkCorpse(target)
	return handlers.Result{Msgs: []string{"🗡 Smited.", msg}}, nil
}
