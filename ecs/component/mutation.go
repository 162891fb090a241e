package component

import "github.com/jakecoffman/cp"

// MutationKind orders the kinds of cross-combatant effect. Lower kinds are
// applied first to the same target.
type MutationKind int

const (
	MutationClash MutationKind = iota
	MutationParried
	MutationBlocked
	MutationHit
)

func (k MutationKind) String() string {
	switch k {
	case MutationClash:
		return "clash"
	case MutationParried:
		return "parried"
	case MutationBlocked:
		return "blocked"
	case MutationHit:
		return "hit"
	}
	return "unknown"
}

// Mutation is a buffered request from one combatant's resolution to change
// another combatant's state. It is applied centrally at tick end.
type Mutation struct {
	Kind   MutationKind
	Target Entity
	Source Entity
	// Order is the initiation tick of the source attack; lower resolves first.
	Order   uint64
	Amount  float64
	Push    cp.Vector
	Ticks   int
	Stagger StaggerLevel
	Flank   Flank
	Bleed   bool
	Concuss float64
	// Knockout records a successful instant-knockout roll.
	Knockout bool
}

// Strike is a hit registered by an attacker's swing against a target this tick.
type Strike struct {
	Attacker Entity
	Target   Entity
	Order    uint64
}
