package component

import "sort"

// WeaponClass tags a catalog entry; resolvers dispatch on it and on the
// capability flags below, never on a type hierarchy.
type WeaponClass int

const (
	ClassQuickMelee WeaponClass = iota
	ClassTool
	ClassMediumMelee
	ClassHeavyMelee
	ClassRanged
	ClassThrowable
)

var weaponClassNames = [...]string{
	ClassQuickMelee:  "quick_melee",
	ClassTool:        "tool",
	ClassMediumMelee: "medium_melee",
	ClassHeavyMelee:  "heavy_melee",
	ClassRanged:      "ranged",
	ClassThrowable:   "throwable",
}

func (c WeaponClass) String() string {
	if c < 0 || int(c) >= len(weaponClassNames) {
		return "unknown"
	}
	return weaponClassNames[c]
}

// ParseWeaponClass maps a catalog class name to its tag.
func ParseWeaponClass(name string) (WeaponClass, bool) {
	for i, n := range weaponClassNames {
		if n == name {
			return WeaponClass(i), true
		}
	}
	return 0, false
}

// HeavyAttack configures the charged variant of a weapon's swing.
type HeavyAttack struct {
	Enabled         bool
	ChargeTime      float64
	Multiplier      float64
	RecoveryPenalty float64
}

// ComboStep holds the bonuses applied to one hit of a chain. Step 0 is the opener.
type ComboStep struct {
	DamageBonus   float64
	RecoveryBonus float64
}

type Combo struct {
	Hits        int
	WindUpScale float64
	Steps       []ComboStep
}

// BlockStats describe one defensive setup (shield or weapon-only).
type BlockStats struct {
	Enabled      bool
	Arc          float64
	ParryWindow  float64
	ParryStagger float64
	StaminaCost  float64
}

type Effects struct {
	Bleed               bool
	Stagger             StaggerLevel
	StaggerThroughBlock bool
	ConcussBuildup      float64
	KnockoutChance      float64
}

// Movement holds speed multipliers per action phase.
type Movement struct {
	Idle     float64
	WindUp   float64
	Charging float64
	Swing    float64
	Recovery float64
	Blocking float64
}

// Weapon is an immutable catalog entry.
type Weapon struct {
	Name             string
	Class            WeaponClass
	Hands            int
	ShieldCompatible bool
	Reach            float64
	ThrustReachBonus float64
	Cone             float64
	WindUp           float64
	Swing            float64
	Recovery         float64
	DamageMin        float64
	DamageMax        float64
	AttackStamina    float64
	Heavy            HeavyAttack
	Combo            Combo
	ShieldBlock      BlockStats
	WeaponBlock      BlockStats
	Effects          Effects
	Movement         Movement
}

// TotalAttackTime is wind-up plus swing plus recovery, in seconds.
func (w *Weapon) TotalAttackTime() float64 {
	return w.WindUp + w.Swing + w.Recovery
}

// EffectiveReach includes the thrust bonus of reach weapons.
func (w *Weapon) EffectiveReach() float64 {
	return w.Reach + w.ThrustReachBonus
}

func (w *Weapon) HasHeavy() bool {
	return w.Heavy.Enabled
}

func (w *Weapon) ComboHits() int {
	if w.Combo.Hits < 1 {
		return 1
	}
	return w.Combo.Hits
}

// ComboStep returns the bonus row for hit index i of a chain.
func (w *Weapon) ComboStep(i int) ComboStep {
	if i < 0 || i >= len(w.Combo.Steps) {
		return ComboStep{}
	}
	return w.Combo.Steps[i]
}

func (w *Weapon) CausesBleed() bool {
	return w.Effects.Bleed
}

func (w *Weapon) Concusses() bool {
	return w.Effects.ConcussBuildup > 0 || w.Effects.KnockoutChance > 0
}

// BlockStats returns the setup-specific defensive stats. Quick melee weapons
// never block.
func (w *Weapon) BlockStats(shield bool) (BlockStats, bool) {
	if w == nil || w.Class == ClassQuickMelee {
		return BlockStats{}, false
	}
	if shield && w.ShieldCompatible && w.ShieldBlock.Enabled {
		return w.ShieldBlock, true
	}
	if w.WeaponBlock.Enabled {
		return w.WeaponBlock, true
	}
	return BlockStats{}, false
}

func (w *Weapon) CanBlock(shield bool) bool {
	_, ok := w.BlockStats(shield)
	return ok
}

// PhaseMovement returns the movement multiplier while in phase p.
func (w *Weapon) PhaseMovement(p Phase) float64 {
	switch p {
	case PhaseIdle:
		return w.Movement.Idle
	case PhaseWindUp:
		return w.Movement.WindUp
	case PhaseChargingHeavy:
		return w.Movement.Charging
	case PhaseSwing:
		return w.Movement.Swing
	case PhaseRecovery:
		return w.Movement.Recovery
	case PhaseBlocking:
		return w.Movement.Blocking
	case PhaseCuring:
		return w.Movement.Idle * 0.5
	}
	return 0
}

// Catalog is the loaded set of weapons addressed by name.
type Catalog struct {
	weapons map[string]*Weapon
}

func NewCatalog(weapons ...*Weapon) *Catalog {
	c := &Catalog{weapons: make(map[string]*Weapon, len(weapons))}
	for _, w := range weapons {
		if w == nil {
			continue
		}
		c.weapons[w.Name] = w
	}
	return c
}

func (c *Catalog) Lookup(name string) (*Weapon, bool) {
	if c == nil {
		return nil, false
	}
	w, ok := c.weapons[name]
	return w, ok
}

// Names returns the weapon names in sorted order.
func (c *Catalog) Names() []string {
	if c == nil {
		return nil
	}
	names := make([]string, 0, len(c.weapons))
	for n := range c.weapons {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.weapons)
}
