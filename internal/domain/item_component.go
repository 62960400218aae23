package domain

import "aether-server/internal/core/types"

// ItemSlot - в какой тип слота экипируется предмет.
type ItemSlot uint8

const (
	ItemSlotNone ItemSlot = iota // не экипируется
	ItemSlotWeapon
	ItemSlotArmor
	ItemSlotRing
	ItemSlotCharm
)

// EquipSlot - конкретный слот экипировки. Колец два: предмет со слотом
// ItemSlotRing занимает левый, если тот свободен, иначе правый.
type EquipSlot uint8

const (
	EquipWeapon EquipSlot = iota
	EquipArmor
	EquipRingLeft
	EquipRingRight
	EquipCharm

	NumEquipSlots = 5
)

var equipSlotNames = [NumEquipSlots]string{
	"weapon", "armor", "ring_left", "ring_right", "charm",
}

func (s EquipSlot) String() string {
	if int(s) >= NumEquipSlots {
		return "unknown"
	}
	return equipSlotNames[s]
}

// ParseEquipSlot возвращает слот по имени протокола.
func ParseEquipSlot(s string) (EquipSlot, bool) {
	for i, name := range equipSlotNames {
		if name == s {
			return EquipSlot(i), true
		}
	}
	return EquipWeapon, false
}

// EffectKind - действие расходуемого предмета.
type EffectKind uint8

const (
	EffectNone EffectKind = iota
	EffectHeal
	EffectFirebolt
	EffectBlink
	EffectReveal
	EffectSilence
)

// ItemComponent описывает предмет. На полу предмет живет как сущность
// с этим компонентом; в инвентаре и экипировке - как голые данные.
type ItemComponent struct {
	BaseName   string      `json:"baseName"` // истинное имя
	Glyph      types.Glyph `json:"glyph,omitempty"`
	Slot       ItemSlot    `json:"slot,omitempty"`
	Stackable  bool        `json:"stackable,omitempty"`
	Quantity   int         `json:"quantity"`
	Identified bool        `json:"identified,omitempty"`

	// Боевые свойства
	Power       int              `json:"power,omitempty"`   // урон оружия / защита брони
	Element     Element          `json:"element,omitempty"` // стихия оружия
	Rider       StatusKind       `json:"rider,omitempty"`   // статус при попадании
	RiderChance int              `json:"riderChance,omitempty"`
	Resist      [NumElements]int `json:"resist"` // бонус плоских сопротивлений

	// Расходники
	Effect      EffectKind `json:"effect,omitempty"`
	EffectValue int        `json:"effectValue,omitempty"`
	Consumable  bool       `json:"consumable,omitempty"`

	// Специальные
	KeyID     int    `json:"keyId,omitempty"` // ключи; 0 - не ключ
	QuestItem bool   `json:"questItem,omitempty"`
	KindID    string `json:"kindId,omitempty"` // ключ таблицы опознания; пусто - всегда опознан

	Description string `json:"description,omitempty"`
}

// NeedsIdentify - скрывается ли предмет за случайной этикеткой,
// пока его вид не опознан.
func (it *ItemComponent) NeedsIdentify() bool {
	return it.KindID != "" && !it.Identified
}

// InventoryComponent - инвентарь-сетка и связка ключей.
type InventoryComponent struct {
	Width  int              `json:"width"`
	Height int              `json:"height"`
	Items  []*ItemComponent `json:"items"`
	Keys   []int            `json:"keys,omitempty"`
}

// NewInventory создает пустой инвентарь заданной сетки.
func NewInventory(width, height int) *InventoryComponent {
	return &InventoryComponent{Width: width, Height: height}
}

// Capacity - число слотов сетки.
func (inv *InventoryComponent) Capacity() int {
	return inv.Width * inv.Height
}

// Add кладет предмет: сначала пытается дослать в стак с тем же именем
// и тем же состоянием опознания, затем занимает новый слот.
// false - инвентарь полон.
func (inv *InventoryComponent) Add(item *ItemComponent) bool {
	if item == nil {
		return false
	}
	if item.Stackable {
		for _, stored := range inv.Items {
			if stored.BaseName == item.BaseName && stored.Identified == item.Identified {
				stored.Quantity += item.Quantity
				return true
			}
		}
	}
	if len(inv.Items) >= inv.Capacity() {
		return false
	}
	inv.Items = append(inv.Items, item)
	return true
}

// At возвращает предмет слота или nil.
func (inv *InventoryComponent) At(i int) *ItemComponent {
	if i < 0 || i >= len(inv.Items) {
		return nil
	}
	return inv.Items[i]
}

// RemoveAt убирает одну единицу из слота: стак худеет, последняя
// единица освобождает слот. Возвращает убранный предмет.
func (inv *InventoryComponent) RemoveAt(i int) *ItemComponent {
	item := inv.At(i)
	if item == nil {
		return nil
	}
	if item.Stackable && item.Quantity > 1 {
		item.Quantity--
		taken := *item
		taken.Quantity = 1
		return &taken
	}
	inv.Items = append(inv.Items[:i], inv.Items[i+1:]...)
	return item
}

// TakeSlot вынимает весь слот целиком (для экипировки).
func (inv *InventoryComponent) TakeSlot(i int) *ItemComponent {
	item := inv.At(i)
	if item == nil {
		return nil
	}
	inv.Items = append(inv.Items[:i], inv.Items[i+1:]...)
	return item
}

// AddKey вешает ключ на связку, без дублей.
func (inv *InventoryComponent) AddKey(keyID int) {
	for _, k := range inv.Keys {
		if k == keyID {
			return
		}
	}
	inv.Keys = append(inv.Keys, keyID)
}

// HasKey - есть ли ключ на связке.
func (inv *InventoryComponent) HasKey(keyID int) bool {
	for _, k := range inv.Keys {
		if k == keyID {
			return true
		}
	}
	return false
}

// ConsumeKey снимает ключ со связки. Возвращает false, если ключа нет.
func (inv *InventoryComponent) ConsumeKey(keyID int) bool {
	for i, k := range inv.Keys {
		if k == keyID {
			inv.Keys = append(inv.Keys[:i], inv.Keys[i+1:]...)
			return true
		}
	}
	return false
}

// EquipmentComponent - пять слотов экипировки фиксированным массивом:
// порядок обхода стабилен и не зависит от карты.
type EquipmentComponent struct {
	Slots [NumEquipSlots]*ItemComponent `json:"slots"`
}

// Get возвращает предмет слота.
func (eq *EquipmentComponent) Get(slot EquipSlot) *ItemComponent {
	if int(slot) >= NumEquipSlots {
		return nil
	}
	return eq.Slots[slot]
}

// SlotFor подбирает слот экипировки под предмет. false - предмет
// не экипируется или оба кольца заняты.
func (eq *EquipmentComponent) SlotFor(item *ItemComponent) (EquipSlot, bool) {
	switch item.Slot {
	case ItemSlotWeapon:
		return EquipWeapon, true
	case ItemSlotArmor:
		return EquipArmor, true
	case ItemSlotCharm:
		return EquipCharm, true
	case ItemSlotRing:
		if eq.Slots[EquipRingLeft] == nil {
			return EquipRingLeft, true
		}
		if eq.Slots[EquipRingRight] == nil {
			return EquipRingRight, true
		}
		return EquipRingLeft, false
	default:
		return EquipWeapon, false
	}
}

// Set надевает предмет, возвращая вытесненный.
func (eq *EquipmentComponent) Set(slot EquipSlot, item *ItemComponent) *ItemComponent {
	if int(slot) >= NumEquipSlots {
		return nil
	}
	prev := eq.Slots[slot]
	eq.Slots[slot] = item
	return prev
}

// Unequip снимает предмет слота.
func (eq *EquipmentComponent) Unequip(slot EquipSlot) *ItemComponent {
	return eq.Set(slot, nil)
}

// Weapon - экипированное оружие, nil если рука пуста.
func (eq *EquipmentComponent) Weapon() *ItemComponent {
	return eq.Slots[EquipWeapon]
}
