package component

// Skills are the four 0-100 ratings that scale combat numbers.
type Skills struct {
	Strength    float64 `yaml:"strength"`
	Agility     float64 `yaml:"agility"`
	WeaponSkill float64 `yaml:"weapon_skill"`
	Endurance   float64 `yaml:"endurance"`
}

func clampSkill(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// Clamped returns the skills bounded to [0, 100].
func (s Skills) Clamped() Skills {
	return Skills{
		Strength:    clampSkill(s.Strength),
		Agility:     clampSkill(s.Agility),
		WeaponSkill: clampSkill(s.WeaponSkill),
		Endurance:   clampSkill(s.Endurance),
	}
}
