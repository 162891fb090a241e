package engine

import (
	"math"

	"github.com/milk9111/skirmish/common"
	"github.com/milk9111/skirmish/ecs"
	"github.com/milk9111/skirmish/ecs/component"
)

// Pilot supplies a player's intent from the committed state, standing in for
// an input device.
type Pilot interface {
	Intent(s *ecs.Snapshot, self ecs.Entity) component.Intent
}

type PilotFunc func(s *ecs.Snapshot, self ecs.Entity) component.Intent

func (f PilotFunc) Intent(s *ecs.Snapshot, self ecs.Entity) component.Intent {
	return f(s, self)
}

// ParryRiposte is a defensive player: it faces the nearest enemy, raises its
// guard on the last wind-up tick of any attack about to reach it, and strikes
// back only at enemies left open by a stagger, recovery or guard break.
type ParryRiposte struct{}

func (ParryRiposte) Intent(s *ecs.Snapshot, self ecs.Entity) component.Intent {
	var in component.Intent
	me, ok := s.Get(self)
	if !ok || !me.Active() || me.Weapon == nil {
		return in
	}

	var nearest *component.Combatant
	best := math.Inf(1)
	threatened := false
	for _, id := range s.Entities() {
		o, _ := s.Get(id)
		if !o.Active() || !me.Hostile(o) {
			continue
		}
		d := me.Pos.Distance(o.Pos)
		if d < best {
			best, nearest = d, o
		}
		if incoming(o, me) {
			threatened = true
		}
	}
	if nearest == nil {
		return in
	}

	in.Face(common.AngleTo(me.Pos, nearest.Pos))
	reach := me.Weapon.EffectiveReach()

	a := me.Action
	switch a.Phase {
	case component.PhaseWindUp:
		in.Attack = a.Remaining > 1
		return in
	case component.PhaseChargingHeavy:
		return in
	}

	if threatened && me.Weapon.CanBlock(me.Shield) && !me.Stamina.Depleted {
		in.Block = true
		return in
	}

	if best > reach*0.9 {
		in.Move = nearest.Pos.Sub(me.Pos).Normalize()
		return in
	}
	if opening(nearest) && !me.Intent.Attack && (a.Phase == component.PhaseIdle || a.Phase == component.PhaseBlocking) {
		in.Attack = true
	}
	return in
}

// incoming reports an attack from o that will land on me next tick or is
// landing now.
func incoming(o, me *component.Combatant) bool {
	if o.Weapon == nil {
		return false
	}
	if o.Pos.Distance(me.Pos) > o.Weapon.EffectiveReach()+0.3 {
		return false
	}
	if !common.InCone(o.Pos, o.Facing, me.Pos, o.Weapon.Cone+30) {
		return false
	}
	switch o.Action.Phase {
	case component.PhaseWindUp:
		return o.Action.Remaining == 1
	case component.PhaseSwing:
		return !o.Action.HasResolved(me.ID)
	}
	return false
}

func opening(o *component.Combatant) bool {
	switch o.Action.Phase {
	case component.PhaseStaggered, component.PhaseRecovery, component.PhaseGuardBroken, component.PhaseHitStun:
		return true
	}
	return false
}
