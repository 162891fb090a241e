package ecs

import (
	"testing"

	"github.com/milk9111/skirmish/ecs/component"
)

func TestWorldSpawnAssignsStableIDs(t *testing.T) {
	cases := []struct {
		name  string
		spawn int
	}{
		{"single", 1},
		{"three", 3},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := NewWorld()
			for i := 0; i < c.spawn; i++ {
				id := w.Spawn(component.Combatant{Name: "c"})
				if int(id) != i+1 {
					t.Fatalf("spawn %d got id %d", i, id)
				}
			}
			ids := w.Snapshot().Entities()
			if len(ids) != c.spawn {
				t.Fatalf("expected %d entities, got %d", c.spawn, len(ids))
			}
			for i := 1; i < len(ids); i++ {
				if ids[i-1] >= ids[i] {
					t.Fatalf("ids not ascending: %v", ids)
				}
			}
		})
	}
}

func TestBeginCommitIsolatesPrevious(t *testing.T) {
	w := NewWorld()
	id := w.Spawn(component.Combatant{Health: 100, Action: component.Action{Resolved: []Entity{7}}})

	prev, next := w.Begin()
	c, _ := next.Get(id)
	c.Health = 40
	c.Action.Resolved[0] = 9
	next.SetGroup(component.Group{Target: id, Members: []Entity{1, 2}})

	old, _ := prev.Get(id)
	if old.Health != 100 {
		t.Fatalf("previous snapshot mutated: health %v", old.Health)
	}
	if old.Action.Resolved[0] != 7 {
		t.Fatalf("previous snapshot shares resolved slice")
	}
	if _, ok := prev.Group(id); ok {
		t.Fatalf("group leaked into previous snapshot")
	}

	w.Commit(next)
	if w.Tick() != 1 {
		t.Fatalf("tick = %d, want 1", w.Tick())
	}
	cur, _ := w.Snapshot().Get(id)
	if cur.Health != 40 {
		t.Fatalf("commit lost write: health %v", cur.Health)
	}
}

func TestMutationQueueSorted(t *testing.T) {
	var q MutationQueue
	q.Push(component.Mutation{Kind: component.MutationHit, Target: 2, Source: 3, Order: 5})
	q.Push(component.Mutation{Kind: component.MutationHit, Target: 2, Source: 1, Order: 5})
	q.Push(component.Mutation{Kind: component.MutationClash, Target: 2, Source: 4, Order: 9})
	q.Push(component.Mutation{Kind: component.MutationHit, Target: 1, Source: 2, Order: 7})
	q.Push(component.Mutation{Kind: component.MutationHit, Target: 2, Source: 5, Order: 1})

	got := q.Sorted()
	want := []struct {
		target, source Entity
	}{{1, 2}, {2, 4}, {2, 5}, {2, 1}, {2, 3}}
	if len(got) != len(want) {
		t.Fatalf("len = %d", len(got))
	}
	for i, w := range want {
		if got[i].Target != w.target || got[i].Source != w.source {
			t.Fatalf("order[%d] = %d<-%d, want %d<-%d", i, got[i].Target, got[i].Source, w.target, w.source)
		}
	}
	if q.Len() != 0 {
		t.Fatalf("queue not drained")
	}
}

func TestEventQueueDrain(t *testing.T) {
	var q EventQueue
	q.Push(Event{Type: EventHit})
	q.Push(Event{Type: EventParry})
	out := q.Drain()
	if len(out) != 2 || out[1].Type != EventParry {
		t.Fatalf("Drain = %v", out)
	}
	if q.Drain() != nil {
		t.Fatalf("second Drain should be empty")
	}
}
