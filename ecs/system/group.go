package system

import (
	"math"
	"sort"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/skirmish/common"
	"github.com/milk9111/skirmish/ecs"
	"github.com/milk9111/skirmish/ecs/component"
	"go.uber.org/zap"
)

// slotAngles lists positions around a target relative to its facing, in the
// order they are filled: behind, both sides, front, then the diagonals.
var slotAngles = []float64{
	math.Pi,
	math.Pi / 2,
	-math.Pi / 2,
	0,
	3 * math.Pi / 4,
	-3 * math.Pi / 4,
	math.Pi / 4,
	-math.Pi / 4,
}

// frontAngles spreads attackers across the open side of a chokepoint.
var frontAngles = []float64{0, math.Pi / 4, -math.Pi / 4, math.Pi / 2, -math.Pi / 2}

// GroupSystem coordinates NPCs that share a target: it assigns flank roles
// and slots and runs the group state machine. There is no turn-taking;
// members attack whenever their own brain decides to.
type GroupSystem struct{}

func NewGroupSystem() *GroupSystem { return &GroupSystem{} }

func (s *GroupSystem) Update(t *ecs.Tick) {
	members := make(map[Entity][]Entity)
	var targets []Entity
	for _, id := range t.Prev.Entities() {
		c, _ := t.Prev.Get(id)
		if !c.IsNPC() || !c.Active() || !c.Brain.Target.Valid() {
			continue
		}
		target, ok := t.Prev.Get(c.Brain.Target)
		if !ok || !target.Active() {
			continue
		}
		if _, seen := members[target.ID]; !seen {
			targets = append(targets, target.ID)
		}
		members[target.ID] = append(members[target.ID], id)
	}

	grouped := make(map[Entity]bool)
	live := make(map[Entity]bool)
	for _, tid := range targets {
		ids := members[tid]
		if len(ids) < 2 {
			continue
		}
		live[tid] = true
		target, _ := t.Prev.Get(tid)
		roles := s.assign(t, target, ids)
		for _, id := range ids {
			grouped[id] = true
			next, _ := t.Next.Get(id)
			next.Brain.Role = roles[id].role
			next.Brain.Slot = roles[id].angle
		}
		s.advance(t, target, ids, roles)
	}

	for _, tid := range t.Prev.Groups() {
		if !live[tid] {
			t.Next.DeleteGroup(tid)
			if t.Log != nil {
				t.Log.Debug("group dissolved", zap.Uint64("tick", t.Now), zap.Stringer("target", tid))
			}
		}
	}
	for _, id := range t.Next.Entities() {
		if grouped[id] {
			continue
		}
		next, _ := t.Next.Get(id)
		next.Brain.Role = component.RoleNone
		next.Brain.Slot = 0
	}
}

type slotAssignment struct {
	role  component.FlankRole
	angle float64
}

// assign hands out slots in priority order, each to the nearest member not
// yet placed; ties go to the lower id. At a chokepoint only the nearest
// MaxAttackers members engage and the rest queue.
func (s *GroupSystem) assign(t *ecs.Tick, target *component.Combatant, ids []Entity) map[Entity]slotAssignment {
	out := make(map[Entity]slotAssignment, len(ids))

	if t.Prev.Terrain.Chokepoint {
		limit := t.Prev.Terrain.MaxAttackers
		if limit <= 0 {
			limit = 1
		}
		ordered := append([]Entity(nil), ids...)
		dist := func(id Entity) float64 {
			c, _ := t.Prev.Get(id)
			return c.Pos.Distance(target.Pos)
		}
		sort.Slice(ordered, func(i, j int) bool {
			di, dj := dist(ordered[i]), dist(ordered[j])
			if di != dj {
				return di < dj
			}
			return ordered[i] < ordered[j]
		})
		for i, id := range ordered {
			if i < limit && i < len(frontAngles) {
				out[id] = slotAssignment{role: component.RoleFront, angle: frontAngles[i]}
				continue
			}
			out[id] = slotAssignment{role: component.RoleQueue}
		}
		return out
	}

	for _, angle := range slotAngles {
		if len(out) == len(ids) {
			break
		}
		best := Entity(0)
		bestDist := math.Inf(1)
		for _, id := range ids {
			if _, taken := out[id]; taken {
				continue
			}
			c, _ := t.Prev.Get(id)
			d := c.Pos.Distance(slotPosition(target, angle, reachOf(c)))
			if d < bestDist {
				bestDist = d
				best = id
			}
		}
		deg := math.Abs(angle) * 180 / math.Pi
		out[best] = slotAssignment{role: flankRole(t.Rules.ClassifyFlank(deg)), angle: angle}
	}
	for _, id := range ids {
		if _, ok := out[id]; !ok {
			out[id] = slotAssignment{role: component.RoleQueue}
		}
	}
	return out
}

func flankRole(f component.Flank) component.FlankRole {
	switch f {
	case component.FlankBehind:
		return component.RoleBehind
	case component.FlankSide:
		return component.RoleSide
	}
	return component.RoleFront
}

func slotPosition(target *component.Combatant, angle, radius float64) cp.Vector {
	return common.PointOnCircle(target.Pos, target.Facing+angle, radius)
}

// advance runs the group state machine:
// Converge → Surround once a member arrives, Surround → Assault once every
// engaging member is in its slot or in reach, Surround/Assault → Pursue when
// the target breaks away, Pursue → Surround once it is caught again.
func (s *GroupSystem) advance(t *ecs.Tick, target *component.Combatant, ids []Entity, roles map[Entity]slotAssignment) {
	ai := t.Rules.AI
	prevGroup, existed := t.Prev.Group(target.ID)
	state := component.GroupConverge
	if existed {
		state = prevGroup.State
	}

	nearest := math.Inf(1)
	arrived, settled := false, true
	for _, id := range ids {
		c, _ := t.Prev.Get(id)
		d := c.Pos.Distance(target.Pos)
		if d < nearest {
			nearest = d
		}
		r := roles[id]
		reach := reachOf(c)
		inReach := d <= reach+ai.EngageMargin
		atSlot := r.role != component.RoleQueue &&
			c.Pos.Distance(slotPosition(target, r.angle, reach)) <= ai.SlotTolerance
		if inReach || atSlot {
			arrived = true
		}
		if r.role != component.RoleQueue && !inReach && !atSlot {
			settled = false
		}
	}

	next := state
	switch state {
	case component.GroupConverge:
		if arrived {
			next = component.GroupSurround
		}
	case component.GroupSurround:
		switch {
		case nearest > ai.PursueDistance:
			next = component.GroupPursue
		case settled:
			next = component.GroupAssault
		}
	case component.GroupAssault:
		if nearest > ai.PursueDistance {
			next = component.GroupPursue
		}
	case component.GroupPursue:
		if nearest <= ai.PursueDistance {
			next = component.GroupSurround
		}
	}

	t.Next.SetGroup(component.Group{Target: target.ID, State: next, Members: ids})
	if next != state || !existed {
		t.Emit(ecs.Event{Type: ecs.EventGroupState, Source: target.ID, Amount: float64(len(ids)), Detail: next.String()})
		if t.Log != nil {
			t.Log.Debug("group state",
				zap.Uint64("tick", t.Now),
				zap.Stringer("target", target.ID),
				zap.Stringer("state", next),
				zap.Int("members", len(ids)),
			)
		}
	}
}
