package system

import (
	"github.com/milk9111/skirmish/ecs"
	"github.com/milk9111/skirmish/ecs/component"
	"go.uber.org/zap"
)

// MutationSystem applies the tick's buffered cross-combatant effects to the
// next snapshot. Requests are applied per target in a fixed order: clash,
// parried, blocked, hit; within a kind the earliest initiated attack first,
// then the lowest source id. Phase overrides follow
// dead > knocked out > guard broken > staggered > clash recovery > hit stun.
type MutationSystem struct{}

func NewMutationSystem() *MutationSystem { return &MutationSystem{} }

func (s *MutationSystem) Update(t *ecs.Tick) {
	consumed := make(map[Entity]bool)
	for _, m := range t.Mutations.Sorted() {
		prev, ok := t.Prev.Get(m.Target)
		if !ok {
			continue
		}
		next, _ := t.Next.Get(m.Target)
		if next.Dead() {
			continue
		}
		switch m.Kind {
		case component.MutationClash:
			s.clash(t, next, m)
		case component.MutationParried:
			ApplyStagger(t, next, m.Source, m.Stagger, m.Ticks, true)
		case component.MutationBlocked:
			next.Stamina.Spend(m.Amount)
			if m.Stagger != component.StaggerNone {
				ApplyStagger(t, next, m.Source, m.Stagger, t.Rules.StaggerTicks(m.Stagger), false)
			}
		case component.MutationHit:
			s.hit(t, prev, next, m, consumed)
		}
	}
}

func (s *MutationSystem) clash(t *ecs.Tick, next *component.Combatant, m component.Mutation) {
	next.Pos = next.Pos.Add(m.Push)
	next.Stamina.Spend(m.Amount)
	a := &next.Action
	if a.Phase == component.PhaseKnockedOut || a.Phase == component.PhaseGuardBroken || a.Phase == component.PhaseStaggered {
		return
	}
	a.Enter(component.PhaseRecovery, m.Ticks)
	a.Heavy = false
	a.Held = 0
	a.ResetChain()
}

// hit applies a landed strike. A guard-break vulnerability recorded in the
// previous snapshot doubles only the first hit applied to the target.
func (s *MutationSystem) hit(t *ecs.Tick, prev, next *component.Combatant, m component.Mutation, consumed map[Entity]bool) {
	dmg := m.Amount
	if prev.Status.Vulnerable && !consumed[next.ID] {
		consumed[next.ID] = true
		next.Status.Vulnerable = false
		dmg *= t.Rules.GuardBreak.DamageMultiplier
	}

	next.Health -= dmg
	if next.Health < 0 {
		next.Health = 0
	}
	next.Status.HitFlash = t.Rules.Ticks(t.Rules.Status.HitFlash)
	next.LastAttacker = m.Source
	next.LastHitTick = t.Now
	t.Emit(ecs.Event{Type: ecs.EventHit, Source: m.Source, Target: next.ID, Amount: dmg, Flank: m.Flank})

	if next.Health <= 0 {
		Kill(t, next, m.Source, "hit")
		return
	}

	if m.Bleed {
		next.Status.Bleed++
		t.Emit(ecs.Event{Type: ecs.EventBleed, Source: m.Source, Target: next.ID, Amount: float64(next.Status.Bleed)})
	}

	a := &next.Action
	if a.Phase.Interruptible() {
		a.Enter(component.PhaseHitStun, t.Rules.Ticks(t.Rules.HitStun))
		a.Heavy = false
		a.Held = 0
		a.ResetChain()
	}

	if m.Stagger != component.StaggerNone {
		ApplyStagger(t, next, m.Source, m.Stagger, t.Rules.StaggerTicks(m.Stagger), false)
	}

	if m.Concuss > 0 || m.Knockout {
		c := &next.Status.Concuss
		c.Meter += m.Concuss
		if c.Meter > t.Rules.Status.ConcussThreshold {
			c.Meter = t.Rules.Status.ConcussThreshold
		}
		c.LastHit = t.Now
		if m.Knockout || c.Meter >= t.Rules.Status.ConcussThreshold {
			Knockout(t, next, m.Source)
		}
	}
}

// ApplyStagger refreshes the stagger status (highest level, longest remaining;
// never additive) and locks the phase where the level allows. Forced staggers
// come from parries and cancel committed swings too.
func ApplyStagger(t *ecs.Tick, next *component.Combatant, source Entity, level component.StaggerLevel, ticks int, force bool) {
	st := &next.Status.Stagger
	if st.Remaining <= 0 || level > st.Level {
		st.Level = level
	}
	if ticks > st.Remaining {
		st.Remaining = ticks
	}
	st.Applied = t.Now

	a := &next.Action
	lock := t.Rules.StaggerLockTicks(level)
	if force {
		lock = ticks
	}
	if staggerLocks(a.Phase, level, force) {
		if a.Phase != component.PhaseStaggered || lock > a.Remaining {
			a.Enter(component.PhaseStaggered, lock)
		}
		a.Heavy = false
		a.Held = 0
		a.ResetChain()
	}
	t.Emit(ecs.Event{
		Type:   ecs.EventStagger,
		Source: source,
		Target: next.ID,
		Amount: t.Rules.Seconds(ticks),
		Detail: level.String(),
	})
}

func staggerLocks(p component.Phase, level component.StaggerLevel, force bool) bool {
	switch p {
	case component.PhaseDead, component.PhaseKnockedOut, component.PhaseGuardBroken:
		return false
	case component.PhaseIdle, component.PhaseWindUp, component.PhaseChargingHeavy, component.PhaseCuring,
		component.PhaseHitStun, component.PhaseStaggered:
		return true
	case component.PhaseBlocking:
		return force || level >= component.StaggerMedium
	}
	return force
}

// Knockout renders the combatant unconscious and resets its concuss meter.
func Knockout(t *ecs.Tick, next *component.Combatant, source Entity) {
	next.Status.Concuss.Meter = 0
	if next.Action.Phase == component.PhaseKnockedOut {
		return
	}
	next.Status.KnockedOut = true
	a := &next.Action
	a.Enter(component.PhaseKnockedOut, t.Rules.Ticks(t.Rules.Status.Knockout))
	a.Heavy = false
	a.Held = 0
	a.Resolved = nil
	a.ResetChain()
	t.Emit(ecs.Event{Type: ecs.EventKnockout, Source: source, Target: next.ID, Amount: t.Rules.Status.Knockout})
	if t.Log != nil {
		t.Log.Info("knockout", zap.Uint64("tick", t.Now), zap.String("name", next.Name), zap.Stringer("by", source))
	}
}

// Kill marks the combatant dead. Death outranks every other phase.
func Kill(t *ecs.Tick, next *component.Combatant, source Entity, cause string) {
	next.Health = 0
	next.Status.KnockedOut = false
	next.Status.Vulnerable = false
	a := &next.Action
	a.Enter(component.PhaseDead, 0)
	a.Heavy = false
	a.Held = 0
	a.Resolved = nil
	a.ResetChain()
	t.Emit(ecs.Event{Type: ecs.EventDeath, Source: source, Target: next.ID, Detail: cause})
	if t.Log != nil {
		t.Log.Info("death", zap.Uint64("tick", t.Now), zap.String("name", next.Name), zap.Stringer("by", source), zap.String("cause", cause))
	}
}
