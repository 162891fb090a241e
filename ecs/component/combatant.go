package component

import "github.com/jakecoffman/cp"

// Combatant is the full record of one participant in an encounter.
type Combatant struct {
	ID        Entity
	Name      string
	Team      int
	Player    bool
	Pos       cp.Vector
	Facing    float64
	Health    float64
	MaxHealth float64
	Stamina   Stamina
	Skills    Skills
	Weapon    *Weapon
	Shield    bool
	Action    Action
	Status    Status
	// Intent is the input applied on the tick that produced this record.
	Intent       Intent
	LastAttacker Entity
	LastHitTick  uint64
	AI           *AIProfile
	Brain        Brain
}

// Clone returns a deep copy safe to mutate independently.
func (c *Combatant) Clone() *Combatant {
	out := *c
	if c.Action.Resolved != nil {
		out.Action.Resolved = append([]Entity(nil), c.Action.Resolved...)
	}
	return &out
}

func (c *Combatant) Dead() bool {
	return c.Action.Phase == PhaseDead
}

// Active reports whether the combatant can still take part in the fight.
func (c *Combatant) Active() bool {
	return c.Action.Phase != PhaseDead && c.Action.Phase != PhaseKnockedOut
}

func (c *Combatant) IsNPC() bool {
	return c.AI != nil && !c.Player
}

// Hostile reports whether o is on an opposing side. Team zero fights everyone.
func (c *Combatant) Hostile(o *Combatant) bool {
	if c.ID == o.ID {
		return false
	}
	return c.Team == 0 || c.Team != o.Team
}

func (c *Combatant) HealthFraction() float64 {
	if c.MaxHealth <= 0 {
		return 0
	}
	return c.Health / c.MaxHealth
}
