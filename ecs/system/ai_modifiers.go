package system

import (
	"github.com/milk9111/skirmish/common"
	"github.com/milk9111/skirmish/ecs/component"
)

// applyPersonality biases a strategy's baseline. Aggression pulls the
// preferred range in and feeds the heavy-attack share; timid fighters never
// commit to heavies.
func applyPersonality(b Baseline, v View, p component.Personality) Baseline {
	b.Range *= 1 - (p.Aggression-0.5)*0.3
	if limit := v.Reach * 0.95; b.Range > limit {
		b.Range = limit
	}
	if p.Aggression < 0.25 {
		b.Heavy = 0
	} else {
		b.Heavy = common.Clamp(b.Heavy*(0.5+p.Aggression), 0, 1)
	}
	if p.BlockFrequency <= 0 {
		b.Guard = false
	}
	return b
}

// reactionTicks draws the delay before the NPC acts on what it sees.
func reactionTicks(rng common.Rand, r component.Rules, d component.Difficulty) int {
	return r.Ticks(d.ReactionDelay + common.Between(rng, 0, d.ReactionJitter))
}

// parryPlan decides how to answer one observed wind-up.
func parryPlan(rng common.Rand, b Baseline, prof *component.AIProfile) component.ParryPlan {
	if b.Parry && common.Chance(rng, prof.Difficulty.ParryAttemptRate) {
		if common.Chance(rng, prof.Difficulty.ParrySuccessRate) {
			return component.ParryTimed
		}
		return component.ParryEarly
	}
	if b.Guard && common.Chance(rng, prof.Personality.BlockFrequency) {
		return component.ParryEarly
	}
	return component.ParryNone
}

// wantsRetreat applies the personality's health and stamina thresholds. An
// NPC already retreating holds until its stamina is back above the threshold
// with a margin.
func wantsRetreat(self *component.Combatant, p component.Personality, retreating bool) bool {
	if self.HealthFraction() < p.RetreatHealth {
		return true
	}
	if p.RetreatStamina <= 0 {
		return false
	}
	limit := p.RetreatStamina
	if retreating {
		limit += 0.25
	}
	return self.Stamina.Fraction() < limit
}
