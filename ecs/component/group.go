package component

// FlankRole is the position a group member is assigned around its target.
type FlankRole int

const (
	RoleNone FlankRole = iota
	RoleFront
	RoleSide
	RoleBehind
	RoleQueue
)

var roleNames = [...]string{
	RoleNone:   "none",
	RoleFront:  "front",
	RoleSide:   "side",
	RoleBehind: "behind",
	RoleQueue:  "queue",
}

func (r FlankRole) String() string {
	if r < 0 || int(r) >= len(roleNames) {
		return "unknown"
	}
	return roleNames[r]
}

type GroupState int

const (
	GroupConverge GroupState = iota
	GroupSurround
	GroupAssault
	GroupPursue
)

var groupStateNames = [...]string{
	GroupConverge: "converge",
	GroupSurround: "surround",
	GroupAssault:  "assault",
	GroupPursue:   "pursue",
}

func (s GroupState) String() string {
	if s < 0 || int(s) >= len(groupStateNames) {
		return "unknown"
	}
	return groupStateNames[s]
}

// Group is the coordination record of every NPC engaging one target.
type Group struct {
	Target  Entity
	State   GroupState
	Members []Entity
}

// Flank classifies where an attack lands relative to the target's facing.
type Flank int

const (
	FlankFront Flank = iota
	FlankSide
	FlankBehind
)

func (f Flank) String() string {
	switch f {
	case FlankFront:
		return "front"
	case FlankSide:
		return "side"
	case FlankBehind:
		return "behind"
	}
	return "unknown"
}

// Terrain flags supplied by the perception collaborator.
type Terrain struct {
	Chokepoint   bool `yaml:"chokepoint"`
	MaxAttackers int  `yaml:"max_attackers"`
	Cover        bool `yaml:"cover"`
}
