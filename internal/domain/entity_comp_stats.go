package domain

// MitigationFor возвращает плоскую митигацию урона по стихии.
// Физический урон дополнительно гасится защитой и броней.
func (s *StatsComponent) MitigationFor(elem Element) int {
	if int(elem) >= NumElements {
		return 0
	}
	mit := s.Resist[elem] + s.ResistBonus[elem]
	if elem == ElementPhysical {
		mit += s.Defense + s.ArmorBonus
	}
	return mit
}

// TakeDamage наносит урон с учетом митигации. Отрицательный итог
// прижимается к нулю: сопротивление никогда не лечит. Возвращает
// фактически снятые HP и флаг гибели.
func (s *StatsComponent) TakeDamage(amount int, elem Element) (int, bool) {
	if s.IsDead || amount <= 0 {
		return 0, false
	}
	dealt := amount - s.MitigationFor(elem)
	if dealt < 0 {
		dealt = 0
	}
	if dealt > s.HP {
		dealt = s.HP
	}
	s.HP -= dealt
	if s.HP <= 0 {
		s.HP = 0
		s.IsDead = true
		return dealt, true
	}
	return dealt, false
}

// Drain снимает HP напрямую, минуя митигацию. Так бьют тики
// кровотечения, ожога и яда: их уже срезало сопротивление при
// наложении.
func (s *StatsComponent) Drain(amount int) (int, bool) {
	if s.IsDead || amount <= 0 {
		return 0, false
	}
	if amount > s.HP {
		amount = s.HP
	}
	s.HP -= amount
	if s.HP <= 0 {
		s.HP = 0
		s.IsDead = true
		return amount, true
	}
	return amount, false
}

// Heal лечит до потолка. Мертвых не лечим.
func (s *StatsComponent) Heal(amount int) int {
	if s.IsDead || amount <= 0 {
		return 0
	}
	before := s.HP
	s.HP += amount
	if s.HP > s.MaxHP {
		s.HP = s.MaxHP
	}
	return s.HP - before
}

// FullRestore восстанавливает HP и MP до максимума (повышение уровня).
func (s *StatsComponent) FullRestore() {
	if s.IsDead {
		return
	}
	s.HP = s.MaxHP
	s.MP = s.MaxMP
}

// HPFraction возвращает долю здоровья 0..1 для снапшота клиенту.
func (s *StatsComponent) HPFraction() float64 {
	if s.MaxHP <= 0 {
		return 0
	}
	return float64(s.HP) / float64(s.MaxHP)
}
