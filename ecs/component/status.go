package component

// StaggerLevel grades a forced interrupt. Heavy means dazed.
type StaggerLevel int

const (
	StaggerNone StaggerLevel = iota
	StaggerLight
	StaggerMedium
	StaggerHeavy
)

var staggerNames = [...]string{
	StaggerNone:   "none",
	StaggerLight:  "light",
	StaggerMedium: "medium",
	StaggerHeavy:  "heavy",
}

func (l StaggerLevel) String() string {
	if l < 0 || int(l) >= len(staggerNames) {
		return "unknown"
	}
	return staggerNames[l]
}

func ParseStaggerLevel(name string) (StaggerLevel, bool) {
	if name == "" {
		return StaggerNone, true
	}
	for i, n := range staggerNames {
		if n == name {
			return StaggerLevel(i), true
		}
	}
	return StaggerNone, false
}

// Stagger is the active stagger. Applied is the tick it was last set or refreshed.
type Stagger struct {
	Level     StaggerLevel
	Remaining int
	Applied   uint64
}

// Concussion is the buildup meter and the tick of the last concuss hit.
type Concussion struct {
	Meter   float64
	LastHit uint64
}

// Status holds the stacking effects on one combatant.
type Status struct {
	Bleed      int
	Stagger    Stagger
	Concuss    Concussion
	KnockedOut bool
	// Vulnerable is set by a guard break and consumed by the next landed hit.
	Vulnerable bool
	HitFlash   int
}

// Dazed reports a heavy stagger in effect.
func (s Status) Dazed() bool {
	return s.Stagger.Level == StaggerHeavy && s.Stagger.Remaining > 0
}
