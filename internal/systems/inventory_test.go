package systems

import (
	"strings"
	"testing"

	"aether-server/internal/core/rng"
	"aether-server/internal/domain"
)

func newCarrier(x, y int, f *domain.Floor) *domain.Entity {
	e := newTestActor("hero", x, y, f)
	e.Inventory = domain.NewInventory(3, 2)
	e.Equipment = &domain.EquipmentComponent{}
	return e
}

func TestTryPickup(t *testing.T) {
	f := newTestFloor(8, 8)
	hero := newCarrier(2, 2, f)
	potion := newTestItemEntity("murky potion", &domain.ItemComponent{
		BaseName: "healing potion", Stackable: true, Quantity: 1,
	}, 2, 2, f)

	msg, err := TryPickup(hero, potion, f)
	if err != nil {
		t.Fatalf("pickup failed: %v", err)
	}
	if !strings.Contains(msg, "подбирает") {
		t.Errorf("unexpected pickup line %q", msg)
	}
	if len(hero.Inventory.Items) != 1 {
		t.Errorf("inventory holds %d items, want 1", len(hero.Inventory.Items))
	}
	if len(f.ItemsAt(2, 2)) != 0 {
		t.Error("picked item must leave the floor index")
	}
}

func TestTryPickup_KeysGoToKeyring(t *testing.T) {
	f := newTestFloor(8, 8)
	hero := newCarrier(2, 2, f)
	key := newTestItemEntity("bronze key", &domain.ItemComponent{
		BaseName: "bronze key", KeyID: 7,
	}, 2, 2, f)

	msg, err := TryPickup(hero, key, f)
	if err != nil {
		t.Fatalf("key pickup failed: %v", err)
	}
	if !strings.Contains(msg, "связку") {
		t.Errorf("unexpected key line %q", msg)
	}
	if !hero.Inventory.HasKey(7) {
		t.Error("key must land on the keyring")
	}
	if len(hero.Inventory.Items) != 0 {
		t.Error("keys never occupy grid slots")
	}
}

func TestTryPickup_FullPack(t *testing.T) {
	f := newTestFloor(8, 8)
	hero := newCarrier(2, 2, f)
	for i := 0; i < hero.Inventory.Capacity(); i++ {
		if !hero.Inventory.Add(&domain.ItemComponent{BaseName: "pebble"}) {
			t.Fatal("setup: failed to fill the pack")
		}
	}
	brick := newTestItemEntity("brick", &domain.ItemComponent{BaseName: "brick"}, 2, 2, f)

	if _, err := TryPickup(hero, brick, f); err == nil {
		t.Fatal("expected a full pack error")
	}
	if len(f.ItemsAt(2, 2)) != 1 {
		t.Error("rejected item must stay on the floor")
	}
}

func TestTryPickup_QuestItemLine(t *testing.T) {
	f := newTestFloor(8, 8)
	hero := newCarrier(2, 2, f)
	core := newTestItemEntity("Aether Core", &domain.ItemComponent{
		BaseName: "Aether Core", QuestItem: true,
	}, 2, 2, f)

	msg, err := TryPickup(hero, core, f)
	if err != nil {
		t.Fatalf("quest pickup failed: %v", err)
	}
	if !strings.Contains(msg, "Пора наверх") {
		t.Errorf("quest pickup should nudge the player upward, got %q", msg)
	}
}

func TestTryDrop(t *testing.T) {
	f := newTestFloor(8, 8)
	hero := newCarrier(2, 2, f)
	hero.Inventory.Add(&domain.ItemComponent{BaseName: "torch", Stackable: true, Quantity: 3})

	item, msg, err := TryDrop(hero, 0)
	if err != nil {
		t.Fatalf("drop failed: %v", err)
	}
	if item == nil || item.Quantity != 3 {
		t.Error("drop hands back the whole stack")
	}
	if !strings.Contains(msg, "3x") {
		t.Errorf("stack drop line should mention the count, got %q", msg)
	}
	if len(hero.Inventory.Items) != 0 {
		t.Error("dropped slot must be freed")
	}

	if _, _, err := TryDrop(hero, 0); err == nil {
		t.Error("dropping from an empty slot must fail")
	}
}

func TestTryEquip_RecomputesBonuses(t *testing.T) {
	f := newTestFloor(8, 8)
	hero := newCarrier(2, 2, f)
	armor := &domain.ItemComponent{BaseName: "scale mail", Slot: domain.ItemSlotArmor, Power: 3}
	armor.Resist[domain.ElementFire] = 2
	hero.Inventory.Add(armor)

	if _, err := TryEquip(hero, 0); err != nil {
		t.Fatalf("equip failed: %v", err)
	}
	if hero.Equipment.Get(domain.EquipArmor) != armor {
		t.Fatal("armor must occupy the armor slot")
	}
	if hero.Stats.ArmorBonus != 3 {
		t.Errorf("ArmorBonus = %d, want 3", hero.Stats.ArmorBonus)
	}
	if hero.Stats.ResistBonus[domain.ElementFire] != 2 {
		t.Errorf("fire ResistBonus = %d, want 2", hero.Stats.ResistBonus[domain.ElementFire])
	}

	// Замена: старая броня возвращается в сетку, бонусы пересчитаны.
	better := &domain.ItemComponent{BaseName: "plate mail", Slot: domain.ItemSlotArmor, Power: 5}
	hero.Inventory.Add(better)
	msg, err := TryEquip(hero, 0)
	if err != nil {
		t.Fatalf("swap failed: %v", err)
	}
	if !strings.Contains(msg, "снимает") {
		t.Errorf("swap line should mention the displaced piece, got %q", msg)
	}
	if hero.Stats.ArmorBonus != 5 {
		t.Errorf("ArmorBonus after swap = %d, want 5", hero.Stats.ArmorBonus)
	}
	if hero.Stats.ResistBonus[domain.ElementFire] != 0 {
		t.Error("displaced resist bonus must be gone")
	}
	if len(hero.Inventory.Items) != 1 || hero.Inventory.At(0) != armor {
		t.Error("displaced armor must return to the grid")
	}
}

func TestTryEquip_RingsFillLeftThenRight(t *testing.T) {
	f := newTestFloor(8, 8)
	hero := newCarrier(2, 2, f)
	for _, name := range []string{"iron ring", "silver ring", "gold ring"} {
		hero.Inventory.Add(&domain.ItemComponent{BaseName: name, Slot: domain.ItemSlotRing})
	}

	if _, err := TryEquip(hero, 0); err != nil {
		t.Fatal(err)
	}
	if hero.Equipment.Get(domain.EquipRingLeft) == nil {
		t.Fatal("first ring goes to the left hand")
	}
	if _, err := TryEquip(hero, 0); err != nil {
		t.Fatal(err)
	}
	if hero.Equipment.Get(domain.EquipRingRight) == nil {
		t.Fatal("second ring goes to the right hand")
	}
	if _, err := TryEquip(hero, 0); err == nil {
		t.Error("the third ring has nowhere to go")
	}
}

func TestTryEquip_Unequippable(t *testing.T) {
	f := newTestFloor(8, 8)
	hero := newCarrier(2, 2, f)
	hero.Inventory.Add(&domain.ItemComponent{BaseName: "healing potion"})

	if _, err := TryEquip(hero, 0); err == nil {
		t.Error("potions are not wearable")
	}
}

func TestTryUnequip(t *testing.T) {
	f := newTestFloor(8, 8)
	hero := newCarrier(2, 2, f)
	armor := &domain.ItemComponent{BaseName: "scale mail", Slot: domain.ItemSlotArmor, Power: 3}
	hero.Inventory.Add(armor)
	if _, err := TryEquip(hero, 0); err != nil {
		t.Fatal(err)
	}

	if _, err := TryUnequip(hero, domain.EquipArmor); err != nil {
		t.Fatalf("unequip failed: %v", err)
	}
	if hero.Stats.ArmorBonus != 0 {
		t.Errorf("ArmorBonus = %d, want 0", hero.Stats.ArmorBonus)
	}
	if hero.Inventory.At(0) != armor {
		t.Error("unequipped armor must land in the grid")
	}
}

func TestTryUnequip_FullPackKeepsItemWorn(t *testing.T) {
	f := newTestFloor(8, 8)
	hero := newCarrier(2, 2, f)
	armor := &domain.ItemComponent{BaseName: "scale mail", Slot: domain.ItemSlotArmor, Power: 3}
	hero.Inventory.Add(armor)
	if _, err := TryEquip(hero, 0); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < hero.Inventory.Capacity(); i++ {
		hero.Inventory.Add(&domain.ItemComponent{BaseName: "pebble"})
	}

	if _, err := TryUnequip(hero, domain.EquipArmor); err == nil {
		t.Fatal("unequip into a full pack must fail")
	}
	if hero.Equipment.Get(domain.EquipArmor) != armor {
		t.Error("armor must stay worn after the failed unequip")
	}
	if hero.Stats.ArmorBonus != 3 {
		t.Error("bonuses must survive the failed unequip")
	}
}

func TestUseItem_HealConsumesAndIdentifies(t *testing.T) {
	f := newTestFloor(8, 8)
	hero := newCarrier(2, 2, f)
	hero.Stats.HP = 10
	hero.Inventory.Add(&domain.ItemComponent{
		BaseName: "healing potion", Stackable: true, Quantity: 2,
		Effect: domain.EffectHeal, EffectValue: 5, Consumable: true,
		KindID: "potion_heal",
	})

	var identified []string
	ctx := &UseContext{
		Floor:    f,
		Stream:   rng.NewStream(1, "combat"),
		Identify: func(kindID string) { identified = append(identified, kindID) },
	}

	msgs, err := UseItem(hero, 0, nil, ctx)
	if err != nil {
		t.Fatalf("use failed: %v", err)
	}
	if hero.Stats.HP != 15 {
		t.Errorf("HP = %d, want 15", hero.Stats.HP)
	}
	if len(identified) != 1 || identified[0] != "potion_heal" {
		t.Errorf("first use must identify the kind, got %v", identified)
	}
	found := false
	for _, m := range msgs {
		if strings.Contains(m, "Это был") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected an identification line, got %v", msgs)
	}

	left := hero.Inventory.At(0)
	if left == nil || left.Quantity != 1 {
		t.Fatal("one dose must be consumed from the stack")
	}
	if !left.Identified {
		t.Error("the rest of the stack is identified too")
	}

	// Второе применение уже не опознает.
	if _, err := UseItem(hero, 0, nil, ctx); err != nil {
		t.Fatal(err)
	}
	if len(identified) != 1 {
		t.Errorf("identify callback must fire once per kind, got %v", identified)
	}
	if hero.Inventory.At(0) != nil {
		t.Error("the stack must be fully consumed")
	}
}

func TestUseItem_ErrorsKeepTheItem(t *testing.T) {
	f := newTestFloor(8, 8)
	hero := newCarrier(2, 2, f)
	hero.Inventory.Add(&domain.ItemComponent{
		BaseName: "scroll of firebolt", Effect: domain.EffectFirebolt,
		EffectValue: 6, Consumable: true, KindID: "scroll_firebolt",
	})
	ctx := &UseContext{Floor: f, Stream: rng.NewStream(1, "combat")}

	// Без цели свиток не срабатывает и не тратится.
	if _, err := UseItem(hero, 0, nil, ctx); err == nil {
		t.Fatal("firebolt without a target must fail")
	}
	if hero.Inventory.At(0) == nil {
		t.Error("failed use must not consume the scroll")
	}
	if _, err := UseItem(hero, 3, nil, ctx); err == nil {
		t.Error("an empty slot must error out")
	}
}

func TestUseItem_FireboltDamages(t *testing.T) {
	f := newTestFloor(8, 8)
	hero := newCarrier(2, 2, f)
	hero.Inventory.Add(&domain.ItemComponent{
		BaseName: "scroll of firebolt", Effect: domain.EffectFirebolt,
		EffectValue: 6, Consumable: true,
	})
	rat := newTestMonster("cave rat", domain.ArchetypeBrute, 4, 2, f)
	rat.Stats.HP = 100
	rat.Stats.MaxHP = 100

	ctx := &UseContext{Floor: f, Stream: rng.NewStream(1, "combat")}
	if _, err := UseItem(hero, 0, rat, ctx); err != nil {
		t.Fatalf("firebolt failed: %v", err)
	}

	dealt := 100 - rat.Stats.HP
	if dealt < 6 || dealt > 10 {
		t.Errorf("firebolt damage %d outside [6,10]", dealt)
	}
	if hero.Inventory.At(0) != nil {
		t.Error("the scroll must be consumed")
	}
}

func TestUseItem_BlinkRelocates(t *testing.T) {
	f := newTestFloor(12, 12)
	hero := newCarrier(5, 5, f)
	hero.Vision = &domain.VisionComponent{Radius: 8}
	hero.Inventory.Add(&domain.ItemComponent{
		BaseName: "scroll of blinking", Effect: domain.EffectBlink, Consumable: true,
	})
	before := hero.Pos

	ctx := &UseContext{Floor: f, Stream: rng.NewStream(4, "combat")}
	if _, err := UseItem(hero, 0, nil, ctx); err != nil {
		t.Fatalf("blink failed: %v", err)
	}

	if hero.Pos == before {
		t.Fatal("blink must relocate the actor")
	}
	if before.DistanceSquaredTo(hero.Pos) > 36 {
		t.Errorf("blink range exceeded: %v -> %v", before, hero.Pos)
	}
	if !f.IsWalkable(hero.Pos.X, hero.Pos.Y) {
		t.Error("blink destination must be walkable")
	}
	if f.ActorAt(before.X, before.Y) != nil {
		t.Error("the old tile must be vacated in the spatial index")
	}
	if f.ActorAt(hero.Pos.X, hero.Pos.Y) != hero {
		t.Error("the new tile must hold the actor")
	}
	if !hero.Vision.Dirty {
		t.Error("blink must invalidate the vision cache")
	}
}

func TestUseItem_RevealMapsTheFloor(t *testing.T) {
	f := newTestFloor(10, 10)
	hero := newCarrier(5, 5, f)
	hero.Inventory.Add(&domain.ItemComponent{
		BaseName: "scroll of revelation", Effect: domain.EffectReveal, Consumable: true,
	})

	ctx := &UseContext{Floor: f, Stream: rng.NewStream(1, "combat")}
	if _, err := UseItem(hero, 0, nil, ctx); err != nil {
		t.Fatal(err)
	}
	for i, seen := range f.Explored {
		if !seen {
			t.Fatalf("tile %d left unexplored after the reveal", i)
		}
	}
}

func TestUseItem_SilenceTarget(t *testing.T) {
	f := newTestFloor(10, 10)
	hero := newCarrier(5, 5, f)
	hero.Inventory.Add(&domain.ItemComponent{
		BaseName: "scroll of silence", Effect: domain.EffectSilence,
		EffectValue: 4, Consumable: true,
	})
	caller := newTestMonster("hollow caller", domain.ArchetypeSummoner, 6, 5, f)

	ctx := &UseContext{Floor: f, Stream: rng.NewStream(1, "combat")}
	if _, err := UseItem(hero, 0, caller, ctx); err != nil {
		t.Fatal(err)
	}
	eff := caller.Statuses.Find(domain.StatusSilence)
	if eff == nil {
		t.Fatal("silence must land on the target")
	}
	if eff.Duration != 4 {
		t.Errorf("silence duration = %d, want 4", eff.Duration)
	}
}
