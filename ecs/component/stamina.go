package component

// Stamina is the single resource pool of a combatant.
type Stamina struct {
	Current float64
	Max     float64
	// RegenDelay counts down the ticks left before regeneration resumes.
	RegenDelay int
	// Depleted is set at zero and cleared once the pool refills past the sprint threshold.
	Depleted bool
	// Spent marks an expenditure during the tick being built.
	Spent bool
}

// Spend removes amount from the pool, flooring at zero.
func (s *Stamina) Spend(amount float64) {
	if s == nil || amount <= 0 {
		return
	}
	s.Current -= amount
	if s.Current < 0 {
		s.Current = 0
	}
	s.Spent = true
}

func (s Stamina) Fraction() float64 {
	if s.Max <= 0 {
		return 0
	}
	return s.Current / s.Max
}
