package engine

import (
	"github.com/milk9111/skirmish/ecs"
	"github.com/milk9111/skirmish/ecs/component"
	"github.com/milk9111/skirmish/ecs/system"
	"go.uber.org/zap"
)

// enforce clamps the built snapshot back inside its invariants before it is
// committed. Any correction points at a resolver bug, so each one is logged.
func (e *Engine) enforce(t *ecs.Tick) {
	threshold := e.rules.Status.ConcussThreshold
	for _, id := range t.Next.Entities() {
		c, _ := t.Next.Get(id)
		warn := func(what string, got, want float64) {
			e.log.Warn("invariant violated, clamping",
				zap.Uint64("tick", t.Now),
				zap.String("name", c.Name),
				zap.String("field", what),
				zap.Float64("got", got),
				zap.Float64("clamped", want),
			)
		}

		if c.Action.Phase < component.PhaseIdle || c.Action.Phase > component.PhaseDead {
			warn("phase", float64(c.Action.Phase), float64(component.PhaseIdle))
			c.Action.Enter(component.PhaseIdle, 0)
		}
		if c.Action.Remaining < 0 {
			warn("remaining", float64(c.Action.Remaining), 0)
			c.Action.Remaining = 0
		}

		st := &c.Stamina
		switch {
		case st.Current < 0:
			warn("stamina", st.Current, 0)
			st.Current = 0
		case st.Current > st.Max:
			warn("stamina", st.Current, st.Max)
			st.Current = st.Max
		}

		switch {
		case c.Health > c.MaxHealth:
			warn("health", c.Health, c.MaxHealth)
			c.Health = c.MaxHealth
		case c.Health <= 0 && !c.Dead():
			warn("health", c.Health, 0)
			system.Kill(t, c, c.LastAttacker, "clamp")
		case c.Health < 0:
			c.Health = 0
		}

		m := &c.Status.Concuss.Meter
		switch {
		case *m < 0:
			warn("concuss", *m, 0)
			*m = 0
		case *m > threshold:
			warn("concuss", *m, threshold)
			*m = threshold
		}
		if c.Status.Bleed < 0 {
			warn("bleed", float64(c.Status.Bleed), 0)
			c.Status.Bleed = 0
		}
		if c.Status.KnockedOut != (c.Action.Phase == component.PhaseKnockedOut) {
			warn("knocked_out", boolFloat(c.Status.KnockedOut), boolFloat(c.Action.Phase == component.PhaseKnockedOut))
			c.Status.KnockedOut = c.Action.Phase == component.PhaseKnockedOut
		}
	}
}

func boolFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
