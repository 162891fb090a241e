package system

import (
	"github.com/milk9111/skirmish/common"
	"github.com/milk9111/skirmish/ecs"
	"github.com/milk9111/skirmish/ecs/component"
)

// ActionSystem advances every combatant's own action state machine from its
// intent, moves it, and registers the strikes of swings in progress.
type ActionSystem struct{}

func NewActionSystem() *ActionSystem { return &ActionSystem{} }

func (s *ActionSystem) Update(t *ecs.Tick) {
	for _, id := range t.Prev.Entities() {
		prev, _ := t.Prev.Get(id)
		next, ok := t.Next.Get(id)
		if !ok || !prev.Active() {
			// Knocked out and dead combatants accept no intents.
			if ok {
				next.Intent = component.Intent{}
			}
			continue
		}

		in := t.Intent(id)
		if prev.Action.Phase == component.PhaseSwing {
			s.detect(t, prev, next)
		}
		s.advance(t, prev, next, in)
		s.move(t, next, in)
		next.Intent = in
	}
}

// detect registers a strike against every hostile in reach and cone that the
// current swing has not resolved yet. Geometry is read from the snapshot.
func (s *ActionSystem) detect(t *ecs.Tick, prev, next *component.Combatant) {
	for _, oid := range t.Prev.Entities() {
		if oid == prev.ID || prev.Action.HasResolved(oid) {
			continue
		}
		other, _ := t.Prev.Get(oid)
		if !other.Active() || !prev.Hostile(other) || !InReach(prev, other) {
			continue
		}
		next.Action.Resolved = append(next.Action.Resolved, oid)
		next.Action.Connected = true
		t.Strikes = append(t.Strikes, component.Strike{
			Attacker: prev.ID,
			Target:   oid,
			Order:    prev.Action.Started,
		})
	}
}

func (s *ActionSystem) advance(t *ecs.Tick, prev, next *component.Combatant, in component.Intent) {
	a := &next.Action
	w := next.Weapon
	pressed := in.Attack && !prev.Intent.Attack

	switch a.Phase {
	case component.PhaseIdle:
		if pressed && w != nil {
			s.startWindUp(t, next, a.ComboWindow > 0 && a.Combo+1 < w.ComboHits())
			return
		}
		if a.ComboWindow > 0 {
			a.ComboWindow--
			if a.ComboWindow == 0 {
				a.ResetChain()
			}
		}
		s.fromIdle(t, next, in)

	case component.PhaseBlocking:
		if pressed && w != nil {
			s.startWindUp(t, next, false)
			return
		}
		if !in.Block || !w.CanBlock(next.Shield) {
			a.Enter(component.PhaseIdle, 0)
			return
		}
		next.Stamina.Spend(t.Rules.Stamina.BlockDrain)

	case component.PhaseWindUp:
		if !in.Attack {
			if a.Remaining > 1 {
				a.Enter(component.PhaseIdle, 0)
				a.ResetChain()
				t.Emit(ecs.Event{Type: ecs.EventFeint, Source: next.ID})
				return
			}
			s.startSwing(t, next, false)
			return
		}
		a.Held++
		if a.Remaining > 0 {
			a.Remaining--
		}
		if a.Remaining > 0 {
			return
		}
		if !w.HasHeavy() {
			s.startSwing(t, next, false)
			return
		}
		if a.Held >= t.Rules.Ticks(w.Heavy.ChargeTime) {
			a.Enter(component.PhaseChargingHeavy, 0)
			t.Emit(ecs.Event{Type: ecs.EventHeavyCharged, Source: next.ID, Detail: w.Name})
		}

	case component.PhaseChargingHeavy:
		if !in.Attack {
			s.startSwing(t, next, true)
			return
		}
		a.Held++

	case component.PhaseSwing:
		if pressed && a.Connected {
			a.ComboQueued = true
		}
		a.Remaining--
		if a.Remaining <= 0 {
			s.endSwing(t, next)
		}

	case component.PhaseRecovery:
		if pressed && a.ComboWindow > 0 && a.Combo+1 < w.ComboHits() {
			a.ComboQueued = true
		}
		if a.ComboWindow > 0 {
			a.ComboWindow--
		}
		a.Remaining--
		if a.Remaining > 0 {
			return
		}
		if a.ComboQueued {
			s.startWindUp(t, next, true)
			return
		}
		a.Enter(component.PhaseIdle, 0)
		if a.ComboWindow == 0 {
			a.ResetChain()
		}

	case component.PhaseHitStun, component.PhaseStaggered, component.PhaseGuardBroken:
		a.Remaining--
		if a.Remaining <= 0 {
			a.Enter(component.PhaseIdle, 0)
		}

	case component.PhaseCuring:
		if !in.Cure {
			a.Enter(component.PhaseIdle, 0)
			return
		}
		a.Remaining--
		if a.Remaining <= 0 {
			stacks := next.Status.Bleed
			next.Status.Bleed = 0
			a.Enter(component.PhaseIdle, 0)
			t.Emit(ecs.Event{Type: ecs.EventCured, Source: next.ID, Amount: float64(stacks)})
		}
	}
}

// fromIdle handles the non-attack actions available from a neutral stance.
func (s *ActionSystem) fromIdle(t *ecs.Tick, next *component.Combatant, in component.Intent) {
	a := &next.Action
	switch {
	case in.Cure && next.Status.Bleed > 0:
		a.Enter(component.PhaseCuring, t.Rules.Ticks(t.Rules.Status.CureTime))
	case in.Block && next.Weapon.CanBlock(next.Shield) && next.Stamina.Current > 0:
		a.Enter(component.PhaseBlocking, 0)
		a.BlockSince = t.Now
		next.Stamina.Spend(t.Rules.Stamina.BlockDrain)
	}
}

func (s *ActionSystem) startWindUp(t *ecs.Tick, next *component.Combatant, combo bool) {
	a := &next.Action
	w := next.Weapon
	if combo {
		a.Combo++
	} else {
		a.Combo = 0
	}
	ticks := WindUpTicks(t.Rules, w, combo)
	a.Enter(component.PhaseWindUp, ticks)
	a.Held = 0
	a.Heavy = false
	a.Connected = false
	a.Resolved = nil
	a.Started = t.Now
	a.ComboWindow = 0
	a.ComboQueued = false
	if t.Rules.Stamina.AttackCosts {
		next.Stamina.Spend(w.AttackStamina)
	}
	t.Emit(ecs.Event{
		Type:   ecs.EventAttackStarted,
		Source: next.ID,
		Amount: t.Rules.Seconds(ticks),
		Detail: w.Name,
	})
}

func (s *ActionSystem) startSwing(t *ecs.Tick, next *component.Combatant, heavy bool) {
	a := &next.Action
	a.Enter(component.PhaseSwing, t.Rules.Ticks(next.Weapon.Swing))
	a.Heavy = heavy
}

// endSwing moves into recovery and opens the combo window when the swing
// connected and the chain has hits left.
func (s *ActionSystem) endSwing(t *ecs.Tick, next *component.Combatant) {
	a := &next.Action
	w := next.Weapon
	rec := RecoveryTicks(t.Rules, w, next.Skills, a.Combo, a.Heavy)
	switch {
	case !a.Connected:
		a.ResetChain()
		t.Emit(ecs.Event{Type: ecs.EventWhiff, Source: next.ID, Detail: w.Name})
	case a.Combo+1 < w.ComboHits():
		a.ComboWindow = t.Rules.Ticks(t.Rules.ComboWindow)
	default:
		a.ResetChain()
	}
	a.Enter(component.PhaseRecovery, rec)
}

func (s *ActionSystem) move(t *ecs.Tick, next *component.Combatant, in component.Intent) {
	a := &next.Action
	if in.HasFacing && a.Phase != component.PhaseSwing && !a.Phase.Locked() {
		next.Facing = common.NormalizeAngle(in.Facing)
	}

	a.Sprinting = false
	dir := in.Move
	if dir.Length() == 0 {
		return
	}
	if dir.Length() > 1 {
		dir = dir.Normalize()
	}

	mult := 1.0
	if next.Weapon != nil {
		mult = next.Weapon.PhaseMovement(a.Phase)
	} else if a.Phase != component.PhaseIdle {
		mult = 0
	}
	if mult <= 0 {
		return
	}

	dazed := next.Status.Dazed()
	if dazed {
		mult *= t.Rules.Status.DazedMoveScale
	}
	if in.Sprint && a.Phase == component.PhaseIdle && !dazed && !next.Stamina.Depleted && next.Stamina.Current > 0 {
		a.Sprinting = true
		mult *= t.Rules.Movement.SprintScale
		next.Stamina.Spend(t.Rules.Stamina.SprintDrain)
	}

	step := t.Rules.Movement.Speed * mult * t.Rules.Dt()
	next.Pos = next.Pos.Add(dir.Mult(step))
}
