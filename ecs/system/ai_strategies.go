package system

import "github.com/milk9111/skirmish/ecs/component"

// StrategyKey selects the per-weapon-class decision function.
type StrategyKey string

const (
	StrategyQuickMelee       StrategyKey = "quick_melee"
	StrategyShieldedMedium   StrategyKey = "shielded_medium"
	StrategyUnshieldedMedium StrategyKey = "unshielded_medium"
	StrategyHeavyMelee       StrategyKey = "heavy_melee"
	StrategyRanged           StrategyKey = "ranged"
)

// Baseline is what a weapon strategy wants before difficulty and personality
// are applied.
type Baseline struct {
	// Range is the preferred distance to the target.
	Range float64
	// Engage attacks whenever the target is in reach.
	Engage bool
	// Guard raises a block against incoming wind-ups.
	Guard bool
	// Parry tries to time blocks into parries.
	Parry bool
	// Heavy is the share of attacks charged into heavies.
	Heavy  float64
	Danger bool
	Panic  bool
	Sprint bool
}

// Strategy is a pure decision function over the perceived state.
type Strategy func(v View) Baseline

var strategies = map[StrategyKey]Strategy{
	StrategyQuickMelee:       quickMeleeStrategy,
	StrategyShieldedMedium:   shieldedMediumStrategy,
	StrategyUnshieldedMedium: unshieldedMediumStrategy,
	StrategyHeavyMelee:       heavyMeleeStrategy,
	StrategyRanged:           rangedStrategy,
}

// KeyFor maps a combatant's loadout onto its strategy key.
func KeyFor(c *component.Combatant) (StrategyKey, bool) {
	if c.Weapon == nil {
		return "", false
	}
	switch c.Weapon.Class {
	case component.ClassQuickMelee:
		return StrategyQuickMelee, true
	case component.ClassTool, component.ClassMediumMelee:
		if !c.Weapon.CanBlock(c.Shield) {
			return StrategyQuickMelee, true
		}
		if c.Shield && c.Weapon.ShieldCompatible {
			return StrategyShieldedMedium, true
		}
		return StrategyUnshieldedMedium, true
	case component.ClassHeavyMelee:
		return StrategyHeavyMelee, true
	case component.ClassRanged, component.ClassThrowable:
		return StrategyRanged, true
	}
	return "", false
}

// StrategyFor returns the decision function for a combatant.
func StrategyFor(c *component.Combatant) (Strategy, bool) {
	key, ok := KeyFor(c)
	if !ok {
		return nil, false
	}
	s, ok := strategies[key]
	return s, ok
}

// Quick weapons fight inside the enemy's reach and never block.
func quickMeleeStrategy(v View) Baseline {
	return Baseline{
		Range:  v.Reach * 0.7,
		Engage: true,
		Sprint: true,
	}
}

func shieldedMediumStrategy(v View) Baseline {
	return Baseline{
		Range:  v.Reach * 0.9,
		Engage: true,
		Guard:  true,
		Parry:  true,
		Sprint: true,
	}
}

// Without a shield the weapon's narrower arc makes parries the main defense.
func unshieldedMediumStrategy(v View) Baseline {
	return Baseline{
		Range:  v.Reach * 0.9,
		Engage: true,
		Guard:  v.Target != nil && v.Target.Weapon != nil && v.Target.Weapon.Class == component.ClassHeavyMelee,
		Parry:  true,
		Sprint: true,
	}
}

// Heavy weapons hold at the edge of reach; being closed on is dangerous.
func heavyMeleeStrategy(v View) Baseline {
	b := Baseline{
		Range:  v.Reach * 0.95,
		Engage: true,
		Guard:  true,
		Heavy:  0.35,
	}
	if v.Distance < v.Reach*0.5 {
		b.Danger = true
	}
	return b
}

// Ranged fighters keep as far away as their reach allows and panic once an
// enemy is within its own striking distance. With cover to fall back on they
// give ground instead.
func rangedStrategy(v View) Baseline {
	b := Baseline{
		Range:  v.Reach * 0.85,
		Engage: true,
		Danger: true,
	}
	if v.Target != nil && v.Target.Weapon != nil && v.Distance <= v.Target.Weapon.EffectiveReach()+0.5 {
		b.Engage = false
		b.Panic = !v.Terrain.Cover
	}
	return b
}
