package systems

import (
	"fmt"

	"aether-server/internal/core/rng"
	"aether-server/internal/domain"
)

// --- PICKUP ---

// TryPickup перекладывает предмет с пола в инвентарь актера. Ключи
// уходят на связку, не занимая слот. Сущность предмета с этажа снимает
// вызывающий (ему же и гасить её в реестре).
func TryPickup(actor *domain.Entity, item *domain.Entity, f *domain.Floor) (string, error) {
	if actor.Inventory == nil {
		return "", fmt.Errorf("%s не может носить вещи", actor.Name)
	}
	if item.Item == nil {
		return "", fmt.Errorf("это не предмет")
	}

	if item.Item.KeyID != 0 {
		actor.Inventory.AddKey(item.Item.KeyID)
		f.RemoveEntity(item)
		return fmt.Sprintf("%s вешает %s на связку.", actor.Name, item.Name), nil
	}

	if !actor.Inventory.Add(item.Item) {
		return "", fmt.Errorf("рюкзак полон")
	}
	f.RemoveEntity(item)

	msg := fmt.Sprintf("%s подбирает %s.", actor.Name, item.Name)
	if item.Item.QuestItem {
		msg = fmt.Sprintf("%s забирает %s! Пора наверх.", actor.Name, item.Name)
	}
	return msg, nil
}

// --- DROP ---

// TryDrop вынимает слот целиком и отдает предмет вызывающему:
// сущность на полу создает движок, у которого есть фабрика ID.
func TryDrop(actor *domain.Entity, index int) (*domain.ItemComponent, string, error) {
	if actor.Inventory == nil {
		return nil, "", fmt.Errorf("нет инвентаря")
	}
	item := actor.Inventory.TakeSlot(index)
	if item == nil {
		return nil, "", fmt.Errorf("в слоте %d пусто", index)
	}

	msg := fmt.Sprintf("%s выбрасывает %s.", actor.Name, item.BaseName)
	if item.Stackable && item.Quantity > 1 {
		msg = fmt.Sprintf("%s выбрасывает %dx %s.", actor.Name, item.Quantity, item.BaseName)
	}
	return item, msg, nil
}

// --- EQUIP / UNEQUIP ---

// TryEquip надевает предмет из слота инвентаря. Кольца занимают левый
// палец, затем правый; вытесненная вещь возвращается в сетку (место
// гарантировано - слот только что освободился).
func TryEquip(actor *domain.Entity, index int) (string, error) {
	if actor.Inventory == nil || actor.Equipment == nil {
		return "", fmt.Errorf("%s не может носить экипировку", actor.Name)
	}

	item := actor.Inventory.At(index)
	if item == nil {
		return "", fmt.Errorf("в слоте %d пусто", index)
	}
	if item.Slot == domain.ItemSlotNone {
		return "", fmt.Errorf("%s нельзя надеть", item.BaseName)
	}

	slot, ok := actor.Equipment.SlotFor(item)
	if !ok {
		return "", fmt.Errorf("нет свободного слота для %s", item.BaseName)
	}

	actor.Inventory.TakeSlot(index)
	displaced := actor.Equipment.Set(slot, item)
	if displaced != nil {
		actor.Inventory.Add(displaced)
	}
	RecomputeEquipBonuses(actor.Stats, actor.Equipment)

	if displaced != nil {
		return fmt.Sprintf("%s снимает %s и берет %s.", actor.Name, displaced.BaseName, item.BaseName), nil
	}
	return fmt.Sprintf("%s экипирует %s.", actor.Name, item.BaseName), nil
}

// TryUnequip снимает предмет слота экипировки в инвентарь.
func TryUnequip(actor *domain.Entity, slot domain.EquipSlot) (string, error) {
	if actor.Inventory == nil || actor.Equipment == nil {
		return "", fmt.Errorf("нет слотов экипировки")
	}

	item := actor.Equipment.Unequip(slot)
	if item == nil {
		return "", fmt.Errorf("слот %s пуст", slot)
	}
	if !actor.Inventory.Add(item) {
		// Некуда класть - вещь остается надетой.
		actor.Equipment.Set(slot, item)
		return "", fmt.Errorf("рюкзак полон")
	}

	RecomputeEquipBonuses(actor.Stats, actor.Equipment)
	return fmt.Sprintf("%s снимает %s.", actor.Name, item.BaseName), nil
}

// RecomputeEquipBonuses пересобирает производные поля Stats из надетого:
// ArmorBonus - сумма брони, ResistBonus - сумма сопротивлений по стихиям.
// Вызывается после каждого изменения экипировки.
func RecomputeEquipBonuses(stats *domain.StatsComponent, eq *domain.EquipmentComponent) {
	if stats == nil || eq == nil {
		return
	}
	stats.ArmorBonus = 0
	stats.ResistBonus = [domain.NumElements]int{}
	for i := 0; i < domain.NumEquipSlots; i++ {
		item := eq.Slots[i]
		if item == nil {
			continue
		}
		if item.Slot == domain.ItemSlotArmor {
			stats.ArmorBonus += item.Power
		}
		for e := 0; e < domain.NumElements; e++ {
			stats.ResistBonus[e] += item.Resist[e]
		}
	}
}

// --- USE ---

// UseContext - окружение применения предмета: этаж, боевой поток и
// колбэк опознания вида (движок помечает вид опознанным на весь ран).
type UseContext struct {
	Floor    *domain.Floor
	Stream   *rng.Stream
	Identify func(kindID string)
}

// UseItem применяет расходник из слота инвентаря. Ошибка означает, что
// предмет не потрачен и ход не списан. Первое применение неопознанного
// вида открывает его истинное имя.
func UseItem(actor *domain.Entity, index int, target *domain.Entity, ctx *UseContext) ([]string, error) {
	if actor.Inventory == nil {
		return nil, fmt.Errorf("нет инвентаря")
	}
	item := actor.Inventory.At(index)
	if item == nil {
		return nil, fmt.Errorf("в слоте %d пусто", index)
	}
	if item.Effect == domain.EffectNone {
		return nil, fmt.Errorf("%s нельзя использовать", item.BaseName)
	}

	var msgs []string
	switch item.Effect {
	case domain.EffectHeal:
		if actor.Stats == nil {
			return nil, fmt.Errorf("некому лечиться")
		}
		healed := actor.Stats.Heal(item.EffectValue)
		if healed > 0 {
			msgs = append(msgs, fmt.Sprintf("%s восстанавливает %d здоровья.", actor.Name, healed))
		} else {
			msgs = append(msgs, "Ничего не происходит.")
		}

	case domain.EffectFirebolt:
		if target == nil {
			return nil, fmt.Errorf("нужна цель")
		}
		msgs = append(msgs, castFirebolt(actor, target, item.EffectValue, ctx.Stream)...)

	case domain.EffectBlink:
		pos, ok := blinkDestination(actor, ctx)
		if !ok {
			return nil, fmt.Errorf("пространство не поддается")
		}
		if err := ctx.Floor.UpdateEntityPos(actor, pos.X, pos.Y); err != nil {
			return nil, err
		}
		if actor.Vision != nil {
			actor.Vision.Dirty = true
		}
		msgs = append(msgs, fmt.Sprintf("%s исчезает и возникает в стороне.", actor.Name))

	case domain.EffectReveal:
		for i := range ctx.Floor.Explored {
			ctx.Floor.Explored[i] = true
		}
		msgs = append(msgs, "Карта этажа проявляется в сознании.")

	case domain.EffectSilence:
		if target == nil {
			return nil, fmt.Errorf("нужна цель")
		}
		_, m := ApplyStatus(target, domain.StatusSilence, item.EffectValue, 1)
		msgs = append(msgs, m)
	}

	// Успешное применение опознает вид на весь ран.
	if item.NeedsIdentify() {
		if ctx.Identify != nil {
			ctx.Identify(item.KindID)
		}
		item.Identified = true
		msgs = append(msgs, fmt.Sprintf("Это был %s!", item.BaseName))
	}

	if item.Consumable {
		actor.Inventory.RemoveAt(index)
	}
	return msgs, nil
}

// castFirebolt - свиток огненной стрелы: фиксированная база, огонь,
// шанс поджечь.
func castFirebolt(actor, target *domain.Entity, base int, stream *rng.Stream) []string {
	if target.Stats == nil || target.Stats.IsDead {
		return []string{"Огненная стрела уходит в пустоту."}
	}

	raw := stream.Range(base, base+4)
	dealt, died := target.Stats.TakeDamage(raw, domain.ElementFire)
	msgs := []string{fmt.Sprintf("Огненная стрела испепеляет %s: %d урона.", target.Name, dealt)}

	if !died && stream.IntN(100) < 50 {
		if _, m := ApplyStatus(target, domain.StatusBurn, 0, 1); m != "" {
			msgs = append(msgs, m)
		}
	}
	msgs = append(msgs, afterDamage(actor, target, died)...)
	return msgs
}

// blinkDestination выбирает случайную свободную клетку в радиусе шести.
// Кандидаты собираются в порядке обхода карты, выбор - из боевого потока.
func blinkDestination(actor *domain.Entity, ctx *UseContext) (domain.Position, bool) {
	const radiusSq = 36
	var candidates []domain.Position
	for y := 0; y < ctx.Floor.Height; y++ {
		for x := 0; x < ctx.Floor.Width; x++ {
			p := domain.Position{X: x, Y: y}
			if p == actor.Pos {
				continue
			}
			if actor.Pos.DistanceSquaredTo(p) > radiusSq {
				continue
			}
			if !freeAt(ctx.Floor, p) {
				continue
			}
			candidates = append(candidates, p)
		}
	}
	if len(candidates) == 0 {
		return domain.Position{}, false
	}
	pos, err := rng.Pick(ctx.Stream, candidates)
	if err != nil {
		return domain.Position{}, false
	}
	return pos, true
}
