package system

import (
	"github.com/milk9111/skirmish/common"
	"github.com/milk9111/skirmish/ecs/component"
)

// DamageScale is the strength multiplier on outgoing damage.
func DamageScale(s component.Skills) float64 {
	return 1 + s.Strength/100*0.5
}

// RecoveryScale shortens recovery with agility.
func RecoveryScale(s component.Skills) float64 {
	return 1 - s.Agility/100*0.3
}

func ParryWindowScale(s component.Skills) float64 {
	return 1 + s.WeaponSkill/100*1.0
}

// BlockCostScale reduces blocked-hit stamina cost with endurance, by up to a quarter.
func BlockCostScale(s component.Skills) float64 {
	return 1 - s.Endurance/100*0.25
}

func MaxStamina(r component.Rules, s component.Skills) float64 {
	return r.Stamina.Base + s.Endurance*r.Stamina.PerEndurance
}

// ParryTicks is the parry window of a block setup in ticks.
func ParryTicks(r component.Rules, stats component.BlockStats, s component.Skills) int {
	return r.Ticks(stats.ParryWindow * ParryWindowScale(s))
}

// RecoveryTicks is the recovery of the given swing: agility, combo step and
// heavy penalty included.
func RecoveryTicks(r component.Rules, w *component.Weapon, s component.Skills, combo int, heavy bool) int {
	secs := w.Recovery * RecoveryScale(s) * (1 + w.ComboStep(combo).RecoveryBonus)
	if heavy {
		secs += w.Heavy.RecoveryPenalty
	}
	if secs <= 0 {
		return 1
	}
	return r.Ticks(secs)
}

// WindUpTicks is the wind-up of a fresh attack or of a chained combo hit.
func WindUpTicks(r component.Rules, w *component.Weapon, combo bool) int {
	secs := w.WindUp
	if combo && w.Combo.WindUpScale > 0 {
		secs *= w.Combo.WindUpScale
	}
	n := r.Ticks(secs)
	if n < 1 {
		n = 1
	}
	return n
}

// StrikeDamage rolls the raw damage of a landed swing before vulnerability.
func StrikeDamage(rng common.Rand, r component.Rules, attacker *component.Combatant, flank component.Flank) float64 {
	w := attacker.Weapon
	dmg := common.Between(rng, w.DamageMin, w.DamageMax)
	dmg *= DamageScale(attacker.Skills)
	dmg *= 1 + w.ComboStep(attacker.Action.Combo).DamageBonus
	if attacker.Action.Heavy && w.Heavy.Multiplier > 0 {
		dmg *= w.Heavy.Multiplier
	}
	return dmg * r.FlankMultiplier(flank)
}

// InReach reports whether a's weapon would connect with b from their current
// positions and a's facing.
func InReach(a, b *component.Combatant) bool {
	if a.Weapon == nil {
		return false
	}
	if a.Pos.Distance(b.Pos) > a.Weapon.EffectiveReach() {
		return false
	}
	return common.InCone(a.Pos, a.Facing, b.Pos, a.Weapon.Cone)
}
