package main

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"aether-server/internal/systems"
	"aether-server/pkg/api"
)

// Геометрия экрана: карта слева, панель справа, журнал снизу.
const (
	mapTop   = 2
	panelPad = 2
	logLines = 6
)

func (c *console) draw() {
	c.screen.Clear()
	snap := c.svc.BuildSnapshot()

	c.drawHeader(snap)
	if snap.Grid != nil {
		c.drawMap(snap)
		if c.overlay {
			c.drawOverlay(snap)
		}
		c.drawPanel(snap, snap.Grid.Width+panelPad)
		c.drawLog(snap, mapTop+snap.Grid.Height+1)
	}
	if snap.Type == "GAME_OVER" {
		c.drawBanner(snap)
	}
	c.screen.Show()
}

func (c *console) drawHeader(snap *api.ServerResponse) {
	head := fmt.Sprintf("Caverns of Aether | этаж %d | ход %d | %s", snap.Depth, snap.Turn, snap.Phase)
	if c.overlay {
		head += fmt.Sprintf(" | seed %d", c.svc.Cfg.Seed)
	}
	drawText(c.screen, 0, 0, tcell.StyleDefault.Foreground(tcell.ColorAqua), head)
	if c.status != "" {
		drawText(c.screen, 0, 1, tcell.StyleDefault.Foreground(tcell.ColorYellow), c.status)
	}
}

// drawMap кладет тайлы, поверх них сущности слоями: трупы, предметы,
// живые монстры, герой.
func (c *console) drawMap(snap *api.ServerResponse) {
	for _, tv := range snap.Map {
		st := tcell.StyleDefault.Foreground(tcell.GetColor(tv.Color))
		c.screen.SetContent(tv.X, mapTop+tv.Y, runeOf(tv.Char), nil, st)
	}

	c.drawEntities(snap, func(ev api.EntityView) bool { return ev.Kind == "MONSTER" && ev.Dead })
	c.drawEntities(snap, func(ev api.EntityView) bool { return ev.Kind == "ITEM" })
	c.drawEntities(snap, func(ev api.EntityView) bool { return ev.Kind == "MONSTER" && !ev.Dead })
	c.drawEntities(snap, func(ev api.EntityView) bool { return ev.ID == snap.MyEntityID })
}

func (c *console) drawEntities(snap *api.ServerResponse, keep func(api.EntityView) bool) {
	for _, ev := range snap.Entities {
		if !keep(ev) {
			continue
		}
		st := tcell.StyleDefault.Foreground(tcell.GetColor(ev.Color))
		c.screen.SetContent(ev.X, mapTop+ev.Y, runeOf(ev.Char), nil, st)
	}
}

// drawOverlay - отладочный слой F1: последняя цифра дистанции Дейкстры
// от героя на каждой достижимой клетке, критический путь генератора
// подсвечен желтым.
func (c *console) drawOverlay(snap *api.ServerResponse) {
	f := c.svc.CurrentFloor()
	player := c.svc.Player()
	if f == nil || player == nil {
		return
	}

	field := systems.ComputeDistanceField(f, player.Pos)
	dim := tcell.StyleDefault.Foreground(tcell.ColorGray)
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			d := field.At(x, y)
			if d < 0 || !f.Explored[f.Index(x, y)] {
				continue
			}
			c.screen.SetContent(x, mapTop+y, rune('0'+(d/2)%10), nil, dim)
		}
	}

	gold := tcell.StyleDefault.Foreground(tcell.ColorYellow)
	for _, idx := range f.CriticalPath {
		x, y := idx%f.Width, idx/f.Width
		c.screen.SetContent(x, mapTop+y, '*', nil, gold)
	}
}

func (c *console) drawPanel(snap *api.ServerResponse, left int) {
	white := tcell.StyleDefault
	gray := tcell.StyleDefault.Foreground(tcell.ColorGray)
	y := mapTop

	p := snap.Player
	if p == nil {
		drawText(c.screen, left, y, gray, "Герой пал.")
		return
	}

	drawText(c.screen, left, y, white.Bold(true), c.svc.Cfg.HeroName)
	y++
	drawText(c.screen, left, y, gray, fmt.Sprintf("Уровень %d  Опыт %d/%d", p.Stats.Level, p.Stats.XP, p.Stats.XPNext))
	y += 2

	drawBar(c.screen, left, y, "HP", p.Stats.HP, p.Stats.MaxHP, tcell.ColorRed)
	y++
	drawBar(c.screen, left, y, "MP", p.Stats.MP, p.Stats.MaxMP, tcell.ColorBlue)
	y += 2

	drawText(c.screen, left, y, white, fmt.Sprintf("АТК %-3d ЗЩТ %-3d", p.Stats.Attack, p.Stats.Defense))
	y++
	drawText(c.screen, left, y, white, fmt.Sprintf("ТЧН %-3d УКЛ %-3d", p.Stats.Accuracy, p.Stats.Evasion))
	y += 2

	for _, st := range p.Statuses {
		drawText(c.screen, left, y, tcell.StyleDefault.Foreground(tcell.ColorPurple),
			fmt.Sprintf("%s (%d)", st.Kind, st.Duration))
		y++
	}
	if len(p.Statuses) > 0 {
		y++
	}

	drawText(c.screen, left, y, gray, "— Экипировка —")
	y++
	for _, eq := range p.Equipment {
		line := fmt.Sprintf("%-10s -", eq.Slot)
		if eq.Item != nil {
			line = fmt.Sprintf("%-10s %s", eq.Slot, eq.Item.Name)
		}
		drawText(c.screen, left, y, white, line)
		y++
	}
	y++

	drawText(c.screen, left, y, gray, "— Сумка —")
	y++
	for i, it := range p.Inventory {
		qty := ""
		if it.Qty > 1 {
			qty = fmt.Sprintf(" x%d", it.Qty)
		}
		st := white
		if !it.Identified {
			st = gray
		}
		drawText(c.screen, left, y, st, fmt.Sprintf("%c) %s %s%s", 'a'+i, it.Char, it.Name, qty))
		y++
	}
	if len(p.Keys) > 0 {
		drawText(c.screen, left, y, tcell.StyleDefault.Foreground(tcell.ColorYellow),
			fmt.Sprintf("Ключи: %d", len(p.Keys)))
		y++
	}
	if p.HasCore {
		drawText(c.screen, left, y, tcell.StyleDefault.Foreground(tcell.ColorAqua), "Ядро Эфира при вас")
		y++
	}

	y += 2
	drawText(c.screen, left, y, gray, "hjkl/стрелки ход  . ждать  g взять")
	y++
	drawText(c.screen, left, y, gray, "u/d/e/x предметы  c болт  >/< лестницы")
	y++
	drawText(c.screen, left, y, gray, "F1 отладка  q выход")
}

func (c *console) drawLog(snap *api.ServerResponse, top int) {
	logs := snap.Logs
	if len(logs) > logLines {
		logs = logs[len(logs)-logLines:]
	}
	for i, entry := range logs {
		st := tcell.StyleDefault.Foreground(tcell.ColorSilver)
		switch entry.Kind {
		case "COMBAT":
			st = tcell.StyleDefault.Foreground(tcell.ColorOrange)
		case "ERROR":
			st = tcell.StyleDefault.Foreground(tcell.ColorRed)
		case "SYSTEM":
			st = tcell.StyleDefault.Foreground(tcell.ColorAqua)
		}
		drawText(c.screen, 0, top+i, st, entry.Text)
	}
}

// drawBanner - финальная плашка поверх карты.
func (c *console) drawBanner(snap *api.ServerResponse) {
	msg := "ЗАБЕГ ОКОНЧЕН"
	st := tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	if snap.Status == "won" {
		msg = "ЯДРО ВЫНЕСЕНО. ПОБЕДА!"
		st = tcell.StyleDefault.Foreground(tcell.ColorGreen).Bold(true)
	}
	w, h := c.screen.Size()
	x := (w - len([]rune(msg))) / 2
	drawText(c.screen, x, h/2, st, msg)
	drawText(c.screen, x, h/2+1, tcell.StyleDefault.Foreground(tcell.ColorGray), "q - выход")
}

func drawBar(s tcell.Screen, x, y int, label string, cur, max int, color tcell.Color) {
	const width = 14
	filled := 0
	if max > 0 {
		filled = cur * width / max
	}
	drawText(s, x, y, tcell.StyleDefault, fmt.Sprintf("%s %3d/%-3d ", label, cur, max))
	barX := x + len(label) + 9
	for i := 0; i < width; i++ {
		r := '░'
		if i < filled {
			r = '█'
		}
		s.SetContent(barX+i, y, r, nil, tcell.StyleDefault.Foreground(color))
	}
}

func drawText(s tcell.Screen, x, y int, style tcell.Style, text string) {
	for i, r := range []rune(text) {
		s.SetContent(x+i, y, r, nil, style)
	}
}

func runeOf(ch string) rune {
	if ch == "" {
		return ' '
	}
	return []rune(ch)[0]
}
