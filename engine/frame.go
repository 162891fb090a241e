package engine

import (
	"github.com/google/uuid"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/skirmish/ecs"
	"github.com/milk9111/skirmish/ecs/component"
)

// Frame is the committed state of one tick as render and audio consumers see
// it, plus the events the tick produced.
type Frame struct {
	Encounter  uuid.UUID
	Tick       uint64
	Time       float64
	Terrain    component.Terrain
	Combatants []CombatantView
	Groups     []GroupView
	Events     []ecs.Event
}

// CombatantView is the read-only projection of one combatant.
type CombatantView struct {
	ID         ecs.Entity
	Name       string
	Team       int
	Player     bool
	Pos        cp.Vector
	Facing     float64
	Health     float64
	MaxHealth  float64
	Stamina    float64
	MaxStamina float64
	Weapon     string
	Shield     bool
	Reach      float64
	Cone       float64

	Phase     component.Phase
	Remaining int
	// Telegraph is the wind-up time left before the swing, in seconds. It is
	// non-zero for every attack still winding up.
	Telegraph float64
	Heavy     bool
	Combo     int

	Bleed      int
	Stagger    component.StaggerLevel
	Dazed      bool
	Concuss    float64
	KnockedOut bool
	Vulnerable bool
	Hit        bool
	Dead       bool

	AIState component.AIState
	Role    component.FlankRole
	Target  ecs.Entity
}

type GroupView struct {
	Target  ecs.Entity
	State   component.GroupState
	Members []ecs.Entity
}

func newFrame(e *Engine, s *ecs.Snapshot, events []ecs.Event) Frame {
	f := Frame{
		Encounter:  e.id,
		Tick:       s.Tick,
		Time:       e.rules.Seconds(int(s.Tick)),
		Terrain:    s.Terrain,
		Combatants: make([]CombatantView, 0, s.Len()),
		Events:     events,
	}
	for _, id := range s.Entities() {
		c, _ := s.Get(id)
		f.Combatants = append(f.Combatants, view(e.rules, c))
	}
	for _, target := range s.Groups() {
		g, _ := s.Group(target)
		f.Groups = append(f.Groups, GroupView{
			Target:  g.Target,
			State:   g.State,
			Members: append([]ecs.Entity(nil), g.Members...),
		})
	}
	return f
}

func view(r component.Rules, c *component.Combatant) CombatantView {
	v := CombatantView{
		ID:         c.ID,
		Name:       c.Name,
		Team:       c.Team,
		Player:     c.Player,
		Pos:        c.Pos,
		Facing:     c.Facing,
		Health:     c.Health,
		MaxHealth:  c.MaxHealth,
		Stamina:    c.Stamina.Current,
		MaxStamina: c.Stamina.Max,
		Shield:     c.Shield,
		Phase:      c.Action.Phase,
		Remaining:  c.Action.Remaining,
		Heavy:      c.Action.Heavy,
		Combo:      c.Action.Combo,
		Bleed:      c.Status.Bleed,
		Stagger:    c.Status.Stagger.Level,
		Dazed:      c.Status.Dazed(),
		Concuss:    c.Status.Concuss.Meter,
		KnockedOut: c.Status.KnockedOut,
		Vulnerable: c.Status.Vulnerable,
		Hit:        c.Status.HitFlash > 0,
		Dead:       c.Dead(),
	}
	if c.Status.Stagger.Remaining <= 0 {
		v.Stagger = component.StaggerNone
	}
	if c.Weapon != nil {
		v.Weapon = c.Weapon.Name
		v.Reach = c.Weapon.EffectiveReach()
		v.Cone = c.Weapon.Cone
	}
	switch c.Action.Phase {
	case component.PhaseWindUp:
		// A held heavy wind-up sits at zero until released.
		v.Telegraph = r.Seconds(max(c.Action.Remaining, 1))
	case component.PhaseChargingHeavy:
		v.Telegraph = r.Seconds(1)
	}
	if c.IsNPC() {
		v.AIState = c.Brain.State
		v.Role = c.Brain.Role
		v.Target = c.Brain.Target
	}
	return v
}

// Find returns the view of id.
func (f Frame) Find(id ecs.Entity) (CombatantView, bool) {
	for _, c := range f.Combatants {
		if c.ID == id {
			return c, true
		}
	}
	return CombatantView{}, false
}

// Active returns how many combatants of team can still fight.
func (f Frame) Active(team int) int {
	n := 0
	for _, c := range f.Combatants {
		if c.Team == team && !c.Dead && !c.KnockedOut {
			n++
		}
	}
	return n
}
