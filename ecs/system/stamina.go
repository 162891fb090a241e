package system

import (
	"github.com/milk9111/skirmish/ecs"
	"github.com/milk9111/skirmish/ecs/component"
	"go.uber.org/zap"
)

// StaminaSystem runs after every spend of the tick: it restarts or counts down
// the regen delay, regenerates, and turns an emptied active block into a
// guard break.
type StaminaSystem struct{}

func NewStaminaSystem() *StaminaSystem { return &StaminaSystem{} }

func (s *StaminaSystem) Update(t *ecs.Tick) {
	r := t.Rules.Stamina
	for _, id := range t.Next.Entities() {
		next, _ := t.Next.Get(id)
		prev, _ := t.Prev.Get(id)
		st := &next.Stamina
		if next.Dead() {
			st.Spent = false
			continue
		}

		switch {
		case st.Spent:
			st.RegenDelay = t.Rules.Ticks(r.RegenDelay)
		case st.RegenDelay > 0:
			st.RegenDelay--
		case st.Current < st.Max:
			st.Current += r.RegenPerSecond * t.Rules.Dt()
			if st.Current > st.Max {
				st.Current = st.Max
			}
		}

		if st.Current <= 0 && prev.Stamina.Current > 0 && blockActive(prev, next) {
			s.guardBreak(t, next)
		}

		if st.Current <= 0 {
			st.Depleted = true
		} else if st.Depleted && st.Current >= r.SprintThreshold {
			st.Depleted = false
		}
		st.Spent = false
	}
}

// blockActive reports whether the combatant is holding a block this tick.
func blockActive(prev, next *component.Combatant) bool {
	if next.Action.Phase == component.PhaseBlocking {
		return true
	}
	return prev.Action.Phase == component.PhaseBlocking && next.Intent.Block
}

func (s *StaminaSystem) guardBreak(t *ecs.Tick, next *component.Combatant) {
	a := &next.Action
	if a.Phase == component.PhaseKnockedOut {
		return
	}
	ticks := t.Rules.Ticks(t.Rules.GuardBreak.Stun)
	a.Enter(component.PhaseGuardBroken, ticks)
	a.Heavy = false
	a.Held = 0
	a.ResetChain()
	next.Status.Vulnerable = true
	t.Emit(ecs.Event{Type: ecs.EventGuardBreak, Target: next.ID, Source: next.LastAttacker, Amount: t.Rules.Seconds(ticks)})
	if t.Log != nil {
		t.Log.Debug("guard break", zap.Uint64("tick", t.Now), zap.String("name", next.Name))
	}
}
