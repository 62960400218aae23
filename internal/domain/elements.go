package domain

// Element — стихия урона. Физический урон митигируется защитой и броней,
// остальные - плоскими сопротивлениями по стихии.
type Element uint8

const (
	ElementPhysical Element = iota
	ElementFire
	ElementIce
	ElementPoison
	ElementShock

	NumElements = 5
)

var elementNames = [NumElements]string{
	"physical", "fire", "ice", "poison", "shock",
}

func (e Element) String() string {
	if int(e) >= NumElements {
		return "unknown"
	}
	return elementNames[e]
}
