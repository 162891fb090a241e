package ecs

import (
	"sort"

	"github.com/milk9111/skirmish/common"
	"github.com/milk9111/skirmish/ecs/component"
	"go.uber.org/zap"
)

// Tick is the context every system receives. Reads go to Prev, writes go to
// Next or into the buffered strike and mutation lists.
type Tick struct {
	Now       uint64
	Rules     component.Rules
	Prev      *Snapshot
	Next      *Snapshot
	Intents   map[Entity]component.Intent
	Strikes   []component.Strike
	Mutations MutationQueue
	Events    *EventQueue
	Rand      common.Rand
	Log       *zap.Logger
}

// Emit records an event stamped with the current tick.
func (t *Tick) Emit(evt Event) {
	evt.Tick = t.Now
	t.Events.Push(evt)
}

// Intent returns the intent submitted for e this tick.
func (t *Tick) Intent(e Entity) component.Intent {
	if t.Intents == nil {
		return component.Intent{}
	}
	return t.Intents[e]
}

// SetIntent records an intent for e unless one was already supplied.
func (t *Tick) SetIntent(e Entity, in component.Intent) {
	if t.Intents == nil {
		t.Intents = make(map[Entity]component.Intent)
	}
	t.Intents[e] = in
}

// MutationQueue buffers cross-combatant effects until they are resolved.
type MutationQueue struct {
	items []component.Mutation
}

func (q *MutationQueue) Push(m component.Mutation) {
	q.items = append(q.items, m)
}

func (q *MutationQueue) Len() int {
	return len(q.items)
}

// Sorted drains the queue in resolution order: target, kind, attack
// initiation tick, then source id.
func (q *MutationQueue) Sorted() []component.Mutation {
	out := q.items
	q.items = nil
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Target != b.Target {
			return a.Target < b.Target
		}
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}
		if a.Order != b.Order {
			return a.Order < b.Order
		}
		return a.Source < b.Source
	})
	return out
}
