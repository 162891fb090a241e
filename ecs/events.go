package ecs

import (
	"fmt"

	"github.com/milk9111/skirmish/ecs/component"
)

// EventType names a discrete outcome for render and audio consumers.
type EventType string

const (
	EventAttackStarted EventType = "attack_started"
	EventHeavyCharged  EventType = "heavy_charged"
	EventFeint         EventType = "feint"
	EventHit           EventType = "hit"
	EventWhiff         EventType = "whiff"
	EventBlock         EventType = "block"
	EventParry         EventType = "parry"
	EventClash         EventType = "clash"
	EventGuardBreak    EventType = "guard_break"
	EventStagger       EventType = "stagger"
	EventBleed         EventType = "bleed"
	EventCured         EventType = "cured"
	EventKnockout      EventType = "knockout"
	EventRevived       EventType = "revived"
	EventDeath         EventType = "death"
	EventAmbush        EventType = "ambush"
	EventGroupState    EventType = "group_state"
)

// Event is emitted during a tick and handed to consumers with the frame.
type Event struct {
	Type   EventType
	Tick   uint64
	Source Entity
	Target Entity
	Amount float64
	Flank  component.Flank
	Detail string
}

func (e Event) String() string {
	return fmt.Sprintf("%d %s %s->%s %.2f %s", e.Tick, e.Type, e.Source, e.Target, e.Amount, e.Detail)
}

// EventQueue is a simple FIFO queue.
type EventQueue struct {
	items []Event
}

// Push adds an event.
func (q *EventQueue) Push(evt Event) {
	if q == nil {
		return
	}
	q.items = append(q.items, evt)
}

// Drain returns all events and clears the queue.
func (q *EventQueue) Drain() []Event {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}

func (q *EventQueue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.items)
}
