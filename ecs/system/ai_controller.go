package system

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/skirmish/common"
	"github.com/milk9111/skirmish/ecs"
	"github.com/milk9111/skirmish/ecs/component"
	"go.uber.org/zap"
)

// View is what one NPC perceives of the previous snapshot.
type View struct {
	Self     *component.Combatant
	Target   *component.Combatant
	Distance float64
	Reach    float64
	Allies   int
	Terrain  component.Terrain
	Group    *component.Group
}

// AISystem produces an intent for every NPC from the previous snapshot and
// writes its brain into the next one.
type AISystem struct {
	scripts *scriptCache
	warned  map[Entity]bool
}

func NewAISystem() *AISystem {
	return &AISystem{
		scripts: newScriptCache(),
		warned:  map[Entity]bool{},
	}
}

// WithScriptLoader replaces where AI scripts are read from.
func (s *AISystem) WithScriptLoader(load func(name string) ([]byte, error)) *AISystem {
	s.scripts.load = load
	return s
}

func (s *AISystem) Update(t *ecs.Tick) {
	for _, id := range t.Prev.Entities() {
		self, _ := t.Prev.Get(id)
		if !self.IsNPC() || !self.Active() {
			continue
		}
		if _, supplied := t.Intents[id]; supplied {
			continue
		}
		next, _ := t.Next.Get(id)
		t.SetIntent(id, s.decide(t, self, next))
	}
}

func (s *AISystem) decide(t *ecs.Tick, self, next *component.Combatant) component.Intent {
	brain := &next.Brain
	if brain.Cooldown > 0 {
		brain.Cooldown--
	}
	if brain.Panic > 0 {
		brain.Panic--
	}

	// Hit while unaware: ambushed.
	if self.LastHitTick == t.Prev.Tick && self.LastHitTick > 0 && (self.Brain.State == component.AIIdle || self.Brain.State == "") {
		brain.Panic = t.Rules.Ticks(t.Rules.AI.Panic)
		t.Emit(ecs.Event{Type: ecs.EventAmbush, Source: self.LastAttacker, Target: self.ID})
	}
	if self.Action.Phase == component.PhaseGuardBroken && self.Brain.State != component.AIPanic {
		brain.Panic = t.Rules.Ticks(t.Rules.AI.Panic)
	}

	v := s.perceive(t, self)
	if v.Target == nil {
		brain.State = component.AIIdle
		brain.Target = 0
		brain.ParryPlan = component.ParryNone
		return component.Intent{}
	}
	brain.Target = v.Target.ID

	strategy, ok := StrategyFor(self)
	if !ok {
		if !s.warned[self.ID] && t.Log != nil {
			s.warned[self.ID] = true
			t.Log.Warn("no strategy for weapon class, retreating",
				zap.String("name", self.Name),
				zap.Stringer("class", weaponClass(self)),
			)
		}
		brain.State = component.AIRetreat
		return s.flee(v, false)
	}

	base := applyPersonality(strategy(v), v, self.AI.Personality)
	brain.State = s.transition(t, v, base, brain)
	in := s.plan(t, v, base, brain)

	if self.AI.Script != "" {
		in = s.scripted(t, v, base, brain, in)
	}
	return in
}

func weaponClass(c *component.Combatant) component.WeaponClass {
	if c.Weapon == nil {
		return component.WeaponClass(-1)
	}
	return c.Weapon.Class
}

// perceive picks the target: the last attacker if it struck recently, the
// current target while still perceivable, otherwise the nearest hostile.
func (s *AISystem) perceive(t *ecs.Tick, self *component.Combatant) View {
	v := View{Self: self, Terrain: t.Prev.Terrain}
	if self.Weapon != nil {
		v.Reach = self.Weapon.EffectiveReach()
	}
	perception := t.Rules.AI.Perception

	candidate := func(id Entity) *component.Combatant {
		if !id.Valid() {
			return nil
		}
		o, ok := t.Prev.Get(id)
		if !ok || !o.Active() || !self.Hostile(o) || self.Pos.Distance(o.Pos) > perception {
			return nil
		}
		return o
	}

	var target *component.Combatant
	memory := uint64(t.Rules.Ticks(t.Rules.AI.Memory))
	if self.LastAttacker.Valid() && t.Now-self.LastHitTick <= memory {
		target = candidate(self.LastAttacker)
	}
	if target == nil {
		target = candidate(self.Brain.Target)
	}
	if target == nil {
		best := math.Inf(1)
		for _, id := range t.Prev.Entities() {
			o := candidate(id)
			if o == nil {
				continue
			}
			if d := self.Pos.Distance(o.Pos); d < best {
				best = d
				target = o
			}
		}
	}
	if target == nil {
		return v
	}

	v.Target = target
	v.Distance = self.Pos.Distance(target.Pos)
	if g, ok := t.Prev.Group(target.ID); ok {
		v.Group = g
		v.Allies = len(g.Members) - 1
	}
	return v
}

func (s *AISystem) transition(t *ecs.Tick, v View, b Baseline, brain *component.Brain) component.AIState {
	self := v.Self
	switch {
	case brain.Panic > 0 || b.Panic:
		return component.AIPanic
	case wantsRetreat(self, self.AI.Personality, self.Brain.State == component.AIRetreat):
		return component.AIRetreat
	case brain.Role == component.RoleQueue:
		return component.AISurround
	}

	if v.Group != nil && v.Allies > 0 && brain.Role != component.RoleNone {
		switch v.Group.State {
		case component.GroupConverge, component.GroupSurround:
			return component.AISurround
		case component.GroupPursue:
			return component.AIApproach
		}
	}
	if v.Distance > v.Reach+t.Rules.AI.EngageMargin {
		return component.AIApproach
	}
	return component.AICombat
}

func (s *AISystem) plan(t *ecs.Tick, v View, b Baseline, brain *component.Brain) component.Intent {
	self, target := v.Self, v.Target
	toward := target.Pos.Sub(self.Pos)
	var in component.Intent
	in.Face(toward.ToAngle())
	tol := t.Rules.AI.RangeTolerance

	switch brain.State {
	case component.AIPanic:
		return s.flee(v, true)

	case component.AIRetreat:
		in.Move = toward.Normalize().Neg()
		s.defend(t, v, b, brain, &in)
		if self.Status.Bleed > 0 && v.Distance > reachOf(target)+2 {
			in.Cure = true
			in.Move = cp.Vector{}
		}
		return in

	case component.AIApproach:
		in.Move = toward.Normalize()
		in.Sprint = (b.Sprint || (v.Group != nil && v.Group.State == component.GroupPursue)) &&
			v.Distance > t.Rules.AI.SprintDistance && self.Stamina.Fraction() > 0.5
		s.defend(t, v, b, brain, &in)
		return in

	case component.AISurround:
		if brain.Role == component.RoleQueue {
			hold := math.Max(v.Reach, reachOf(target)) + t.Rules.AI.QueueGap
			in.Move = keepRange(toward, v.Distance, hold, tol)
			s.defend(t, v, b, brain, &in)
			return in
		}
		slot := common.PointOnCircle(target.Pos, target.Facing+brain.Slot, b.Range)
		if d := slot.Sub(self.Pos); d.Length() > t.Rules.AI.SlotTolerance {
			in.Move = d.Normalize()
		}

	case component.AICombat:
		in.Move = keepRange(toward, v.Distance, b.Range, tol)
		if !b.Danger && v.Distance < b.Range {
			in.Move = cp.Vector{}
		}
	}

	if !s.defend(t, v, b, brain, &in) && b.Engage {
		s.offend(t, v, b, brain, &in)
	}
	return in
}

// keepRange moves toward or away from the target to hold distance want.
func keepRange(toward cp.Vector, dist, want, tol float64) cp.Vector {
	switch {
	case dist > want+tol:
		return toward.Normalize()
	case dist < want-tol:
		return toward.Normalize().Neg()
	}
	return cp.Vector{}
}

func (s *AISystem) flee(v View, sprint bool) component.Intent {
	var in component.Intent
	if v.Target == nil {
		return in
	}
	away := v.Self.Pos.Sub(v.Target.Pos)
	if away.Length() == 0 {
		away = cp.ForAngle(v.Self.Facing)
	}
	in.Move = away.Normalize()
	in.Face(away.ToAngle())
	in.Sprint = sprint
	return in
}

// defend answers a wind-up aimed at the NPC. The decision is rolled once per
// enemy attack and acted on only after the difficulty's reaction delay has
// passed since the wind-up started; a timed parry drops guard and re-raises it
// on the last tick before the swing lands. It reports whether the NPC
// committed to defense.
func (s *AISystem) defend(t *ecs.Tick, v View, b Baseline, brain *component.Brain, in *component.Intent) bool {
	self, target := v.Self, v.Target
	phase := self.Action.Phase
	if phase != component.PhaseIdle && phase != component.PhaseBlocking {
		return false
	}
	if !self.Weapon.CanBlock(self.Shield) || self.Stamina.Current <= t.Rules.Stamina.BlockDrain {
		return false
	}
	ta := target.Action
	winding := ta.Phase == component.PhaseWindUp || ta.Phase == component.PhaseChargingHeavy
	if !winding || !threatens(target, self) {
		return false
	}

	if brain.ParryFor != ta.Started {
		brain.ParryFor = ta.Started
		brain.ParryPlan = parryPlan(t.Rand, b, self.AI)
		brain.ReactAt = ta.Started + uint64(reactionTicks(t.Rand, t.Rules, self.AI.Difficulty))
	}
	if t.Now < brain.ReactAt {
		return false
	}

	switch brain.ParryPlan {
	case component.ParryTimed:
		in.Block = ta.Phase == component.PhaseChargingHeavy || ta.Remaining <= 1
		return true
	case component.ParryEarly:
		in.Block = true
		return true
	}
	return false
}

// threatens reports whether a's attack is aimed at b closely enough to land.
func threatens(a, b *component.Combatant) bool {
	if a.Weapon == nil {
		return false
	}
	if a.Pos.Distance(b.Pos) > a.Weapon.EffectiveReach()+0.5 {
		return false
	}
	return common.InCone(a.Pos, a.Facing, b.Pos, a.Weapon.Cone+30)
}

// offend drives the attack input: press when ready, hold through the wind-up
// (through the charge when a heavy is planned) and release before the swing
// so the next press registers.
func (s *AISystem) offend(t *ecs.Tick, v View, b Baseline, brain *component.Brain, in *component.Intent) {
	self := v.Self
	a := self.Action
	prof := self.AI
	switch a.Phase {
	case component.PhaseWindUp:
		in.Attack = brain.HeavyPlan || a.Remaining > 1
		return
	case component.PhaseChargingHeavy:
		in.Attack = false
		return
	case component.PhaseRecovery:
		in.Attack = a.ComboWindow > 0 && prof.Personality.Aggression >= 0.5 && !self.Intent.Attack
		return
	case component.PhaseIdle, component.PhaseBlocking:
	default:
		return
	}

	if self.Intent.Attack {
		// Release first so the next press is a fresh one.
		return
	}
	if a.Phase == component.PhaseIdle && a.ComboWindow > 0 && prof.Personality.Aggression >= 0.5 {
		in.Attack = true
		return
	}
	if brain.Cooldown > 0 || !v.Target.Active() || !InReach(facingTarget(self, v.Target), v.Target) {
		return
	}
	if !common.Chance(t.Rand, prof.Personality.Aggression) {
		brain.Cooldown = reactionTicks(t.Rand, t.Rules, prof.Difficulty)
		return
	}
	in.Attack = true
	in.Block = false
	brain.HeavyPlan = self.Weapon.HasHeavy() && common.Chance(t.Rand, b.Heavy)
	brain.Cooldown = reactionTicks(t.Rand, t.Rules, prof.Difficulty)
}

func reachOf(c *component.Combatant) float64 {
	if c == nil || c.Weapon == nil {
		return 0
	}
	return c.Weapon.EffectiveReach()
}

// facingTarget returns a copy of self turned toward the target, which is how
// the combatant will be facing once this tick's intent is applied.
func facingTarget(self, target *component.Combatant) *component.Combatant {
	c := *self
	c.Facing = common.AngleTo(self.Pos, target.Pos)
	return &c
}
