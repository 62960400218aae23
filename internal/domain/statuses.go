package domain

// StatusKind — вид статус-эффекта.
type StatusKind uint8

const (
	StatusBleed StatusKind = iota
	StatusBurn
	StatusPoison
	StatusFreeze
	StatusShock
	StatusSlow
	StatusHaste
	StatusSilence
	StatusEnrage

	NumStatusKinds = 9
)

// StackPolicy — правило наложения повторного эффекта того же вида.
type StackPolicy uint8

const (
	// PolicyRefresh: длительность = max(старая, новая), стаки не растут.
	PolicyRefresh StackPolicy = iota
	// PolicyAdditive: стаки складываются без предела, каждый тикает.
	PolicyAdditive
	// PolicyCapped: стаки складываются до MaxStacks.
	PolicyCapped
)

// StatusDurationDefault — длительность эффекта, если не задана явно.
const StatusDurationDefault = 6

// StatusTemplate описывает вид эффекта: стихию, силу тика и правило стаков.
type StatusTemplate struct {
	Kind      StatusKind
	Element   Element
	Potency   int // урон за тик на стак; 0 - эффект без DOT
	Policy    StackPolicy
	MaxStacks int // только для PolicyCapped
	DOT       bool
}

var statusTemplates = [NumStatusKinds]StatusTemplate{
	StatusBleed:   {StatusBleed, ElementPhysical, 2, PolicyRefresh, 0, true},
	StatusBurn:    {StatusBurn, ElementFire, 3, PolicyRefresh, 0, true},
	StatusPoison:  {StatusPoison, ElementPoison, 2, PolicyAdditive, 0, true},
	StatusFreeze:  {StatusFreeze, ElementIce, 2, PolicyRefresh, 0, false},
	StatusShock:   {StatusShock, ElementShock, 2, PolicyCapped, 3, false},
	StatusSlow:    {StatusSlow, ElementPhysical, 0, PolicyRefresh, 0, false},
	StatusHaste:   {StatusHaste, ElementPhysical, 0, PolicyRefresh, 0, false},
	StatusSilence: {StatusSilence, ElementPhysical, 0, PolicyRefresh, 0, false},
	StatusEnrage:  {StatusEnrage, ElementPhysical, 0, PolicyRefresh, 0, false},
}

// TemplateFor возвращает шаблон вида.
func TemplateFor(kind StatusKind) StatusTemplate {
	if int(kind) >= NumStatusKinds {
		return statusTemplates[StatusBleed]
	}
	return statusTemplates[kind]
}

var statusNames = [NumStatusKinds]string{
	"bleed", "burn", "poison", "freeze", "shock", "slow", "haste", "silence", "enrage",
}

func (k StatusKind) String() string {
	if int(k) >= NumStatusKinds {
		return "unknown"
	}
	return statusNames[k]
}

// StatusEffect — активный эффект на сущности.
type StatusEffect struct {
	Kind     StatusKind `json:"kind"`
	Duration int        `json:"duration"`
	Stacks   int        `json:"stacks"`
	Potency  int        `json:"potency"` // урон за тик на один стак
}

// BaseStatusResist — врожденные сопротивления наложению статусов
// по архетипам. Ключ - стихия эффекта.
func BaseStatusResist(a Archetype) map[Element]float64 {
	switch a {
	case ArchetypeBrute:
		return map[Element]float64{ElementPhysical: 0.1}
	case ArchetypeSkirmisher:
		return map[Element]float64{ElementShock: 0.1}
	case ArchetypeRanged:
		return map[Element]float64{ElementFire: 0.05}
	case ArchetypeSummoner:
		return map[Element]float64{ElementPoison: 0.2}
	case ArchetypeSapper:
		return map[Element]float64{ElementPhysical: 0.05, ElementPoison: 0.1}
	case ArchetypeBoss:
		return map[Element]float64{ElementFire: 0.15, ElementIce: 0.15, ElementPoison: 0.15}
	default:
		return map[Element]float64{}
	}
}

// PlayerStatusResist — сопротивления игрока.
func PlayerStatusResist() map[Element]float64 {
	return map[Element]float64{ElementPhysical: 0.05}
}
