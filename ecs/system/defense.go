package system

import (
	"sort"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/skirmish/common"
	"github.com/milk9111/skirmish/ecs"
	"github.com/milk9111/skirmish/ecs/component"
	"go.uber.org/zap"
)

// DefenseSystem turns the tick's registered strikes into mutation requests:
// clashes first, then parry, block or landed hit for each remaining strike.
// Every decision is made against the previous snapshot.
type DefenseSystem struct{}

func NewDefenseSystem() *DefenseSystem { return &DefenseSystem{} }

type clashPair struct {
	lo, hi Entity
	order  uint64
}

// Entity is shorthand for the arena handle.
type Entity = component.Entity

func (s *DefenseSystem) Update(t *ecs.Tick) {
	strikes := t.Strikes
	t.Strikes = nil
	if len(strikes) == 0 {
		return
	}
	sort.SliceStable(strikes, func(i, j int) bool {
		if strikes[i].Attacker != strikes[j].Attacker {
			return strikes[i].Attacker < strikes[j].Attacker
		}
		return strikes[i].Target < strikes[j].Target
	})

	canceled := s.resolveClashes(t, strikes)
	for _, st := range strikes {
		if canceled[st.Attacker] {
			continue
		}
		s.resolve(t, st)
	}
}

// resolveClashes finds mutually connecting attacks and cancels them. When
// several clashes claim the same combatant the pair containing the earliest
// initiated attack wins, then the lowest ids; each combatant joins at most
// one clash per tick.
func (s *DefenseSystem) resolveClashes(t *ecs.Tick, strikes []component.Strike) map[Entity]bool {
	struck := make(map[[2]Entity]bool, len(strikes))
	for _, st := range strikes {
		struck[[2]Entity{st.Attacker, st.Target}] = true
	}

	seen := make(map[[2]Entity]bool)
	var pairs []clashPair
	for _, st := range strikes {
		a, _ := t.Prev.Get(st.Attacker)
		b, _ := t.Prev.Get(st.Target)
		if !s.answers(t, b, a, struck) {
			continue
		}
		lo, hi := a.ID, b.ID
		if hi < lo {
			lo, hi = hi, lo
		}
		key := [2]Entity{lo, hi}
		if seen[key] {
			continue
		}
		seen[key] = true
		order := a.Action.Started
		if b.Action.Started < order {
			order = b.Action.Started
		}
		pairs = append(pairs, clashPair{lo: lo, hi: hi, order: order})
	}
	if len(pairs) == 0 {
		return nil
	}

	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].order != pairs[j].order {
			return pairs[i].order < pairs[j].order
		}
		if pairs[i].lo != pairs[j].lo {
			return pairs[i].lo < pairs[j].lo
		}
		return pairs[i].hi < pairs[j].hi
	})

	canceled := make(map[Entity]bool)
	for _, p := range pairs {
		if canceled[p.lo] || canceled[p.hi] {
			continue
		}
		canceled[p.lo] = true
		canceled[p.hi] = true
		s.clash(t, p)
	}
	return canceled
}

// answers reports whether b's own attack would land on a within the clash
// window of a's damage instant: b swings at a this very tick, or b's wind-up
// is about to release into a swing that connects.
func (s *DefenseSystem) answers(t *ecs.Tick, b, a *component.Combatant, struck map[[2]Entity]bool) bool {
	switch b.Action.Phase {
	case component.PhaseSwing:
		return struck[[2]Entity{b.ID, a.ID}]
	case component.PhaseWindUp:
		rem := b.Action.Remaining
		if rem > t.Rules.Ticks(t.Rules.Clash.Window) {
			return false
		}
		held := t.Intent(b.ID).Attack
		if rem == 0 || b.Weapon.HasHeavy() {
			// A heavy-capable wind-up only swings next tick if released now.
			if held {
				return false
			}
		}
		return b.Hostile(a) && InReach(b, a)
	case component.PhaseChargingHeavy:
		return !t.Intent(b.ID).Attack && b.Hostile(a) && InReach(b, a)
	}
	return false
}

func (s *DefenseSystem) clash(t *ecs.Tick, p clashPair) {
	a, _ := t.Prev.Get(p.lo)
	b, _ := t.Prev.Get(p.hi)
	r := t.Rules.Clash
	ticks := t.Rules.Ticks(r.Recovery)
	for _, side := range [2][2]*component.Combatant{{a, b}, {b, a}} {
		self, other := side[0], side[1]
		away := self.Pos.Sub(other.Pos)
		if away.Length() == 0 {
			away = cp.ForAngle(self.Facing).Neg()
		}
		t.Mutations.Push(component.Mutation{
			Kind:   component.MutationClash,
			Target: self.ID,
			Source: other.ID,
			Order:  p.order,
			Amount: r.Stamina,
			Push:   away.Normalize().Mult(r.Pushback),
			Ticks:  ticks,
		})
	}
	t.Emit(ecs.Event{Type: ecs.EventClash, Source: p.lo, Target: p.hi, Amount: r.Stamina})
	if t.Log != nil {
		t.Log.Debug("clash",
			zap.Uint64("tick", t.Now),
			zap.Stringer("a", p.lo),
			zap.Stringer("b", p.hi),
		)
	}
}

func (s *DefenseSystem) resolve(t *ecs.Tick, st component.Strike) {
	atk, _ := t.Prev.Get(st.Attacker)
	def, _ := t.Prev.Get(st.Target)
	if !def.Active() {
		return
	}
	w := atk.Weapon

	deg := common.AngleDiffDegrees(def.Facing, common.AngleTo(def.Pos, atk.Pos))
	flank := t.Rules.ClassifyFlank(deg)

	if def.Action.Phase == component.PhaseBlocking && flank != component.FlankBehind {
		if stats, ok := def.Weapon.BlockStats(def.Shield); ok && deg <= stats.Arc/2 {
			if !def.Status.Dazed() && t.Now-def.Action.BlockSince <= uint64(ParryTicks(t.Rules, stats, def.Skills)) {
				s.parry(t, st, atk, def, stats)
				return
			}
			s.block(t, st, atk, def, stats, flank)
			return
		}
	}

	m := component.Mutation{
		Kind:    component.MutationHit,
		Target:  def.ID,
		Source:  atk.ID,
		Order:   st.Order,
		Amount:  StrikeDamage(t.Rand, t.Rules, atk, flank),
		Flank:   flank,
		Bleed:   w.CausesBleed(),
		Stagger: w.Effects.Stagger,
		Concuss: w.Effects.ConcussBuildup,
	}
	if w.Effects.KnockoutChance > 0 {
		m.Knockout = common.Chance(t.Rand, w.Effects.KnockoutChance)
	}
	t.Mutations.Push(m)
}

func (s *DefenseSystem) parry(t *ecs.Tick, st component.Strike, atk, def *component.Combatant, stats component.BlockStats) {
	ticks := t.Rules.Ticks(stats.ParryStagger)
	t.Mutations.Push(component.Mutation{
		Kind:    component.MutationParried,
		Target:  atk.ID,
		Source:  def.ID,
		Order:   st.Order,
		Ticks:   ticks,
		Stagger: component.StaggerMedium,
	})
	t.Emit(ecs.Event{Type: ecs.EventParry, Source: def.ID, Target: atk.ID, Amount: t.Rules.Seconds(ticks)})
}

func (s *DefenseSystem) block(t *ecs.Tick, st component.Strike, atk, def *component.Combatant, stats component.BlockStats, flank component.Flank) {
	cost := stats.StaminaCost * BlockCostScale(def.Skills)
	m := component.Mutation{
		Kind:   component.MutationBlocked,
		Target: def.ID,
		Source: atk.ID,
		Order:  st.Order,
		Amount: cost,
		Flank:  flank,
	}
	if atk.Weapon.Effects.StaggerThroughBlock {
		m.Stagger = atk.Weapon.Effects.Stagger
	}
	t.Mutations.Push(m)
	t.Emit(ecs.Event{Type: ecs.EventBlock, Source: atk.ID, Target: def.ID, Amount: cost, Flank: flank})
}
