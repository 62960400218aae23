package domain

// StatusesComponent - активные эффекты сущности в порядке наложения.
// Порядок слайса фиксирован: он задает очередность тиков.
type StatusesComponent struct {
	Active []StatusEffect `json:"active,omitempty"`
}

// Find возвращает активный эффект вида или nil. Работает и на nil-компоненте:
// системам не приходится проверять наличие трекера перед чтением.
func (sc *StatusesComponent) Find(kind StatusKind) *StatusEffect {
	if sc == nil {
		return nil
	}
	for i := range sc.Active {
		if sc.Active[i].Kind == kind {
			return &sc.Active[i]
		}
	}
	return nil
}

// Has - есть ли активный эффект вида.
func (sc *StatusesComponent) Has(kind StatusKind) bool {
	return sc.Find(kind) != nil
}

// Apply накладывает эффект с учетом сопротивления и правила стаков.
// Сопротивление в долях (0..1) срезает длительность и стаки, но до
// нуля их не опускает; полное гашение только при resist >= 1.
// Возвращает false, если эффект полностью погашен.
func (sc *StatusesComponent) Apply(kind StatusKind, duration, stacks int, resist float64) bool {
	if resist >= 1.0 {
		return false
	}
	if resist < 0 {
		resist = 0
	}
	tmpl := TemplateFor(kind)
	if duration <= 0 {
		duration = StatusDurationDefault
	}
	if stacks <= 0 {
		stacks = 1
	}
	duration = int(float64(duration) * (1 - resist))
	if duration < 1 {
		duration = 1
	}
	stacks = int(float64(stacks) * (1 - resist))
	if stacks < 1 {
		stacks = 1
	}

	existing := sc.Find(kind)
	if existing == nil {
		if tmpl.Policy == PolicyCapped && stacks > tmpl.MaxStacks {
			stacks = tmpl.MaxStacks
		}
		if tmpl.Policy == PolicyRefresh {
			stacks = 1
		}
		sc.Active = append(sc.Active, StatusEffect{
			Kind:     kind,
			Duration: duration,
			Stacks:   stacks,
			Potency:  tmpl.Potency,
		})
		return true
	}

	switch tmpl.Policy {
	case PolicyRefresh:
		if duration > existing.Duration {
			existing.Duration = duration
		}
	case PolicyAdditive:
		existing.Stacks += stacks
		if duration > existing.Duration {
			existing.Duration = duration
		}
	case PolicyCapped:
		existing.Stacks += stacks
		if existing.Stacks > tmpl.MaxStacks {
			existing.Stacks = tmpl.MaxStacks
		}
		if duration > existing.Duration {
			existing.Duration = duration
		}
	}
	return true
}

// Decrement убавляет длительности и выбрасывает истекшие, возвращая их
// в порядке наложения.
func (sc *StatusesComponent) Decrement() []StatusEffect {
	if sc == nil {
		return nil
	}
	var expired []StatusEffect
	kept := sc.Active[:0]
	for _, eff := range sc.Active {
		eff.Duration--
		if eff.Duration <= 0 {
			expired = append(expired, eff)
			continue
		}
		kept = append(kept, eff)
	}
	sc.Active = kept
	return expired
}

// Remove снимает эффект вида досрочно.
func (sc *StatusesComponent) Remove(kind StatusKind) {
	kept := sc.Active[:0]
	for _, eff := range sc.Active {
		if eff.Kind != kind {
			kept = append(kept, eff)
		}
	}
	sc.Active = kept
}

// SpeedFactor возвращает множитель скорости от статусов: haste x1.5,
// slow x0.5, ярость x1.25, множители перемножаются.
func (sc *StatusesComponent) SpeedFactor() float64 {
	factor := 1.0
	if sc == nil {
		return factor
	}
	for i := range sc.Active {
		switch sc.Active[i].Kind {
		case StatusHaste:
			factor *= 1.5
		case StatusSlow:
			factor *= 0.5
		case StatusEnrage:
			factor *= 1.25
		}
	}
	return factor
}
