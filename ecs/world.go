package ecs

import (
	"sort"

	"github.com/milk9111/skirmish/ecs/component"
)

// Snapshot is the full committed state of an encounter at one tick. A
// snapshot handed out as the previous state of a tick must not be mutated.
type Snapshot struct {
	Tick       uint64
	Terrain    component.Terrain
	ids        []Entity
	combatants map[Entity]*component.Combatant
	groups     map[Entity]*component.Group
}

func newSnapshot() *Snapshot {
	return &Snapshot{
		combatants: make(map[Entity]*component.Combatant),
		groups:     make(map[Entity]*component.Group),
	}
}

// Entities returns combatant ids in ascending order. Callers must not modify it.
func (s *Snapshot) Entities() []Entity {
	if s == nil {
		return nil
	}
	return s.ids
}

// Get returns the combatant record for e. The record belongs to the snapshot.
func (s *Snapshot) Get(e Entity) (*component.Combatant, bool) {
	if s == nil {
		return nil, false
	}
	c, ok := s.combatants[e]
	return c, ok
}

func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.ids)
}

// Group returns the coordination record for target.
func (s *Snapshot) Group(target Entity) (*component.Group, bool) {
	if s == nil {
		return nil, false
	}
	g, ok := s.groups[target]
	return g, ok
}

// Groups returns group targets in ascending order.
func (s *Snapshot) Groups() []Entity {
	if s == nil {
		return nil
	}
	out := make([]Entity, 0, len(s.groups))
	for t := range s.groups {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (s *Snapshot) SetGroup(g component.Group) {
	g.Members = append([]Entity(nil), g.Members...)
	s.groups[g.Target] = &g
}

func (s *Snapshot) DeleteGroup(target Entity) {
	delete(s.groups, target)
}

func (s *Snapshot) insert(c *component.Combatant) {
	if _, ok := s.combatants[c.ID]; !ok {
		s.ids = append(s.ids, c.ID)
		sort.Slice(s.ids, func(i, j int) bool { return s.ids[i] < s.ids[j] })
	}
	s.combatants[c.ID] = c
}

// Clone returns a deep copy that can be built into the next tick.
func (s *Snapshot) Clone() *Snapshot {
	out := newSnapshot()
	out.Tick = s.Tick
	out.Terrain = s.Terrain
	out.ids = append([]Entity(nil), s.ids...)
	for id, c := range s.combatants {
		out.combatants[id] = c.Clone()
	}
	for t, g := range s.groups {
		gc := *g
		gc.Members = append([]Entity(nil), g.Members...)
		out.groups[t] = &gc
	}
	return out
}

// World is the arena of combatant records addressed by stable ids. It owns
// the committed snapshot and swaps it atomically at the end of every tick.
type World struct {
	entities  entityStore
	committed *Snapshot
}

func NewWorld() *World {
	return &World{committed: newSnapshot()}
}

// Spawn adds a combatant to the committed state and returns its id.
func (w *World) Spawn(c component.Combatant) Entity {
	c.ID = w.entities.create()
	w.committed.insert(c.Clone())
	return c.ID
}

// Snapshot returns the committed state.
func (w *World) Snapshot() *Snapshot {
	return w.committed
}

func (w *World) Tick() uint64 {
	return w.committed.Tick
}

func (w *World) SetTerrain(t component.Terrain) {
	w.committed.Terrain = t
}

// Begin opens a tick: the committed snapshot becomes read-only input and a
// copy is returned for the tick to build into.
func (w *World) Begin() (prev, next *Snapshot) {
	prev = w.committed
	next = prev.Clone()
	next.Tick = prev.Tick + 1
	return prev, next
}

// Commit replaces the committed state with next.
func (w *World) Commit(next *Snapshot) {
	if next == nil {
		return
	}
	w.committed = next
}
