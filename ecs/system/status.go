package system

import (
	"github.com/milk9111/skirmish/ecs"
	"github.com/milk9111/skirmish/ecs/component"
)

// StatusSystem ticks the stacking effects: bleed damage, stagger and daze
// timers, concuss decay, knockout expiry and hit flash.
type StatusSystem struct{}

func NewStatusSystem() *StatusSystem { return &StatusSystem{} }

func (s *StatusSystem) Update(t *ecs.Tick) {
	r := t.Rules.Status
	for _, id := range t.Next.Entities() {
		next, _ := t.Next.Get(id)
		prev, _ := t.Prev.Get(id)
		if next.Dead() {
			continue
		}
		st := &next.Status

		if st.Bleed > 0 {
			next.Health -= r.BleedPerStack * float64(st.Bleed) * t.Rules.Dt()
			if next.Health <= 0 {
				Kill(t, next, next.LastAttacker, "bleed")
				continue
			}
		}

		if st.Stagger.Remaining > 0 && st.Stagger.Applied != t.Now {
			st.Stagger.Remaining--
		}
		if st.Stagger.Remaining <= 0 {
			st.Stagger = component.Stagger{}
		}

		if st.Concuss.Meter > 0 && t.Now-st.Concuss.LastHit >= uint64(t.Rules.Ticks(r.ConcussDecay)) {
			st.Concuss.Meter = 0
		}

		if st.HitFlash > 0 && next.LastHitTick != t.Now {
			st.HitFlash--
		}

		a := &next.Action
		if a.Phase == component.PhaseKnockedOut && prev.Action.Phase == component.PhaseKnockedOut {
			a.Remaining--
			if a.Remaining <= 0 {
				a.Enter(component.PhaseIdle, 0)
				st.KnockedOut = false
				t.Emit(ecs.Event{Type: ecs.EventRevived, Target: next.ID})
			}
		}
	}
}
