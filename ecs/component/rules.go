package component

import "math"

type ClashRules struct {
	Window   float64 `yaml:"window"`
	Pushback float64 `yaml:"pushback"`
	Recovery float64 `yaml:"recovery"`
	Stamina  float64 `yaml:"stamina"`
}

type GuardBreakRules struct {
	Stun             float64 `yaml:"stun"`
	DamageMultiplier float64 `yaml:"damage_multiplier"`
}

type StaminaRules struct {
	Base            float64 `yaml:"base"`
	PerEndurance    float64 `yaml:"per_endurance"`
	BlockDrain      float64 `yaml:"block_drain"`
	SprintDrain     float64 `yaml:"sprint_drain"`
	RegenPerSecond  float64 `yaml:"regen_per_second"`
	RegenDelay      float64 `yaml:"regen_delay"`
	SprintThreshold float64 `yaml:"sprint_threshold"`
	AttackCosts     bool    `yaml:"attack_costs"`
}

type StatusRules struct {
	BleedPerStack    float64 `yaml:"bleed_per_stack"`
	LightStagger     float64 `yaml:"light_stagger"`
	MediumStagger    float64 `yaml:"medium_stagger"`
	HeavyStagger     float64 `yaml:"heavy_stagger"`
	HeavyLock        float64 `yaml:"heavy_lock"`
	DazedMoveScale   float64 `yaml:"dazed_move_scale"`
	ConcussDecay     float64 `yaml:"concuss_decay"`
	ConcussThreshold float64 `yaml:"concuss_threshold"`
	Knockout         float64 `yaml:"knockout"`
	CureTime         float64 `yaml:"cure_time"`
	HitFlash         float64 `yaml:"hit_flash"`
}

type MovementRules struct {
	Speed       float64 `yaml:"speed"`
	SprintScale float64 `yaml:"sprint_scale"`
}

type FlankRules struct {
	FrontMax         float64 `yaml:"front_max"`
	SideMax          float64 `yaml:"side_max"`
	SideMultiplier   float64 `yaml:"side_multiplier"`
	BehindMultiplier float64 `yaml:"behind_multiplier"`
}

type AIRules struct {
	Perception     float64 `yaml:"perception"`
	EngageMargin   float64 `yaml:"engage_margin"`
	RangeTolerance float64 `yaml:"range_tolerance"`
	QueueGap       float64 `yaml:"queue_gap"`
	SlotTolerance  float64 `yaml:"slot_tolerance"`
	PursueDistance float64 `yaml:"pursue_distance"`
	Panic          float64 `yaml:"panic"`
	Memory         float64 `yaml:"memory"`
	SprintDistance float64 `yaml:"sprint_distance"`
}

// Rules are the engine-wide tunables. Durations are seconds; per-tick drains
// are per tick.
type Rules struct {
	TickRate    float64         `yaml:"tick_rate"`
	HitStun     float64         `yaml:"hit_stun"`
	ComboWindow float64         `yaml:"combo_window"`
	Clash       ClashRules      `yaml:"clash"`
	GuardBreak  GuardBreakRules `yaml:"guard_break"`
	Stamina     StaminaRules    `yaml:"stamina"`
	Status      StatusRules     `yaml:"status"`
	Movement    MovementRules   `yaml:"movement"`
	Flank       FlankRules      `yaml:"flank"`
	AI          AIRules         `yaml:"ai"`
}

func DefaultRules() Rules {
	return Rules{
		TickRate:    20,
		HitStun:     0.3,
		ComboWindow: 0.4,
		Clash: ClashRules{
			Window:   0.1,
			Pushback: 0.3,
			Recovery: 0.3,
			Stamina:  10,
		},
		GuardBreak: GuardBreakRules{Stun: 0.8, DamageMultiplier: 2},
		Stamina: StaminaRules{
			Base:            100,
			PerEndurance:    0.5,
			BlockDrain:      2,
			SprintDrain:     2,
			RegenPerSecond:  5,
			RegenDelay:      0.8,
			SprintThreshold: 20,
		},
		Status: StatusRules{
			BleedPerStack:    2,
			LightStagger:     0.15,
			MediumStagger:    0.25,
			HeavyStagger:     3.0,
			HeavyLock:        0.25,
			DazedMoveScale:   0.5,
			ConcussDecay:     10,
			ConcussThreshold: 100,
			Knockout:         4 * 60 * 60,
			CureTime:         3,
			HitFlash:         0.2,
		},
		Movement: MovementRules{Speed: 3, SprintScale: 1.6},
		Flank: FlankRules{
			FrontMax:         45,
			SideMax:          135,
			SideMultiplier:   1.25,
			BehindMultiplier: 1.5,
		},
		AI: AIRules{
			Perception:     15,
			EngageMargin:   0.3,
			RangeTolerance: 0.15,
			QueueGap:       1.0,
			SlotTolerance:  0.6,
			PursueDistance: 4,
			Panic:          1.5,
			Memory:         5,
			SprintDistance: 4,
		},
	}
}

// Ticks converts seconds to a whole tick count. Any positive duration lasts
// at least one tick.
func (r Rules) Ticks(seconds float64) int {
	if seconds <= 0 {
		return 0
	}
	n := int(math.Round(seconds * r.TickRate))
	if n < 1 {
		n = 1
	}
	return n
}

// WholeTicks reports whether seconds lands exactly on a tick boundary.
func (r Rules) WholeTicks(seconds float64) bool {
	n := seconds * r.TickRate
	return math.Abs(n-math.Round(n)) < 1e-6
}

func (r Rules) Seconds(ticks int) float64 {
	if r.TickRate <= 0 {
		return 0
	}
	return float64(ticks) / r.TickRate
}

// Dt is the length of one tick in seconds.
func (r Rules) Dt() float64 {
	if r.TickRate <= 0 {
		return 0
	}
	return 1 / r.TickRate
}

// ClassifyFlank maps the angle between the target's facing and the direction
// to its attacker onto a flank.
func (r Rules) ClassifyFlank(degrees float64) Flank {
	switch {
	case degrees <= r.Flank.FrontMax:
		return FlankFront
	case degrees <= r.Flank.SideMax:
		return FlankSide
	}
	return FlankBehind
}

func (r Rules) FlankMultiplier(f Flank) float64 {
	switch f {
	case FlankSide:
		return r.Flank.SideMultiplier
	case FlankBehind:
		return r.Flank.BehindMultiplier
	}
	return 1
}

// StaggerTicks returns the status duration of a stagger level.
func (r Rules) StaggerTicks(l StaggerLevel) int {
	switch l {
	case StaggerLight:
		return r.Ticks(r.Status.LightStagger)
	case StaggerMedium:
		return r.Ticks(r.Status.MediumStagger)
	case StaggerHeavy:
		return r.Ticks(r.Status.HeavyStagger)
	}
	return 0
}

// StaggerLockTicks returns how long a stagger level holds the phase.
func (r Rules) StaggerLockTicks(l StaggerLevel) int {
	if l == StaggerHeavy {
		return r.Ticks(r.Status.HeavyLock)
	}
	return r.StaggerTicks(l)
}
