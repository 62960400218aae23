package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/gdamore/tcell/v2"

	"aether-server/internal/domain"
	"aether-server/internal/engine"
	"aether-server/pkg/logger"
)

// Локальная консоль: движок живет в том же процессе, без сети и без
// горутины цикла. Нажатие превращается в намерение, исполняется
// синхронно через SubmitIntent, экран перерисовывается из свежего
// снимка. Удобно для игры по ssh и для ручной проверки генераторов.

func init() {
	// stdout принадлежит tcell, логи туда нельзя
	logger.InitQuiet()
}

type console struct {
	screen tcell.Screen
	svc    *engine.GameService

	// pending - команда, ждущая выбора предмета или слота:
	// 'u' использовать, 'd' бросить, 'e' надеть, 'x' снять.
	pending rune
	status  string
	overlay bool // F1: поле дистанций и критический путь
}

func main() {
	cfg, err := engine.FromEnv()
	if err != nil {
		fmt.Fprintln(os.Stderr, "bad environment:", err)
		os.Exit(1)
	}

	var seed int64
	flag.Int64Var(&seed, "seed", 0, "Master seed of the run (0 for random)")
	flag.StringVar(&cfg.Algorithm, "gen", cfg.Algorithm, "Floor generator: rooms or caves")
	flag.StringVar(&cfg.HeroName, "hero", cfg.HeroName, "Hero name")
	flag.Parse()
	if seed != 0 {
		cfg.Seed = seed
	}

	svc, err := engine.NewService(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to create run:", err)
		os.Exit(1)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintln(os.Stderr, "terminal init:", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintln(os.Stderr, "terminal init:", err)
		os.Exit(1)
	}
	defer screen.Fini()

	c := &console{screen: screen, svc: svc}
	c.run()
}

func (c *console) run() {
	for {
		c.draw()
		ev := c.screen.PollEvent()
		switch ev := ev.(type) {
		case *tcell.EventResize:
			c.screen.Sync()
		case *tcell.EventKey:
			if !c.handleKey(ev) {
				return
			}
		}
	}
}

// handleKey переводит нажатие в намерение. false - выход.
func (c *console) handleKey(ev *tcell.EventKey) bool {
	if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
		return false
	}
	if ev.Key() == tcell.KeyF1 {
		c.overlay = !c.overlay
		return true
	}

	// В терминальной фазе принимается только выход
	if c.svc.Phase.Terminal() {
		return !(ev.Key() == tcell.KeyRune && ev.Rune() == 'q')
	}

	// Ждем выбора предмета или слота
	if c.pending != 0 {
		c.resolvePending(ev)
		return true
	}

	if dx, dy, ok := moveKey(ev); ok {
		c.act(domain.Action{Type: domain.ActionMove, DX: dx, DY: dy})
		return true
	}

	if ev.Key() != tcell.KeyRune {
		return true
	}
	switch ev.Rune() {
	case 'q':
		return false
	case '.':
		c.act(domain.Action{Type: domain.ActionWait})
	case 'g', ',':
		c.act(domain.Action{Type: domain.ActionPickup})
	case '>':
		c.act(domain.Action{Type: domain.ActionDescend})
	case '<':
		c.act(domain.Action{Type: domain.ActionAscend})
	case ' ':
		c.act(domain.Action{Type: domain.ActionInteract})
	case 'c':
		c.castNearest()
	case 'u':
		c.pending = 'u'
		c.status = "Использовать что? [буква предмета]"
	case 'd':
		c.pending = 'd'
		c.status = "Бросить что? [буква предмета]"
	case 'e':
		c.pending = 'e'
		c.status = "Надеть что? [буква предмета]"
	case 'x':
		c.pending = 'x'
		c.status = "Снять что? [w/a/l/r/c]"
	}
	return true
}

// moveKey - стрелки, vi-клавиши и диагонали y/b/n ('u' занята
// использованием предмета).
func moveKey(ev *tcell.EventKey) (int, int, bool) {
	switch ev.Key() {
	case tcell.KeyUp:
		return 0, -1, true
	case tcell.KeyDown:
		return 0, 1, true
	case tcell.KeyLeft:
		return -1, 0, true
	case tcell.KeyRight:
		return 1, 0, true
	}
	if ev.Key() != tcell.KeyRune {
		return 0, 0, false
	}
	switch ev.Rune() {
	case 'h':
		return -1, 0, true
	case 'j':
		return 0, 1, true
	case 'k':
		return 0, -1, true
	case 'l':
		return 1, 0, true
	case 'y':
		return -1, -1, true
	case 'b':
		return -1, 1, true
	case 'n':
		return 1, 1, true
	}
	return 0, 0, false
}

// resolvePending закрывает двухклавишную команду выбором цели.
func (c *console) resolvePending(ev *tcell.EventKey) {
	cmd := c.pending
	c.pending = 0
	c.status = ""
	if ev.Key() != tcell.KeyRune {
		return
	}
	r := ev.Rune()

	if cmd == 'x' {
		slots := map[rune]domain.EquipSlot{
			'w': domain.EquipWeapon,
			'a': domain.EquipArmor,
			'l': domain.EquipRingLeft,
			'r': domain.EquipRingRight,
			'c': domain.EquipCharm,
		}
		slot, ok := slots[r]
		if !ok {
			c.status = "Нет такого слота."
			return
		}
		c.act(domain.Action{Type: domain.ActionUnequip, Slot: slot})
		return
	}

	idx, ok := c.itemIndexByLetter(r)
	if !ok {
		c.status = "Нет такого предмета."
		return
	}
	switch cmd {
	case 'u':
		c.act(domain.Action{Type: domain.ActionUse, ItemIndex: idx})
	case 'd':
		c.act(domain.Action{Type: domain.ActionDrop, ItemIndex: idx})
	case 'e':
		c.act(domain.Action{Type: domain.ActionEquip, ItemIndex: idx})
	}
}

// itemIndexByLetter: буква в панели -> индекс слота сумки.
func (c *console) itemIndexByLetter(r rune) (int, bool) {
	snap := c.svc.BuildSnapshot()
	if snap.Player == nil {
		return 0, false
	}
	pos := int(r - 'a')
	if pos < 0 || pos >= len(snap.Player.Inventory) {
		return 0, false
	}
	return snap.Player.Inventory[pos].Index, true
}

// castNearest - врожденный болт по ближайшему видимому монстру.
func (c *console) castNearest() {
	snap := c.svc.BuildSnapshot()
	player := c.svc.Player()
	if player == nil {
		return
	}

	var target domain.Action
	found := false
	bestDist := 0
	for _, ev := range snap.Entities {
		if ev.Kind != "MONSTER" || ev.Dead {
			continue
		}
		d := chebyshev(ev.X-player.Pos.X, ev.Y-player.Pos.Y)
		if !found || d < bestDist {
			target = domain.Action{Type: domain.ActionCast, Target: ev.ID}
			bestDist = d
			found = true
		}
	}
	if !found {
		c.status = "Некого жечь."
		return
	}
	c.act(target)
}

func chebyshev(dx, dy int) int {
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	if dx > dy {
		return dx
	}
	return dy
}

// act проводит намерение через планировщик. Отказ уже лег в журнал
// строкой ERROR, дублировать его в статус не нужно.
func (c *console) act(a domain.Action) {
	if err := c.svc.SubmitIntent(a); err != nil {
		return
	}
	c.status = ""
}
