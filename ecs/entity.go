package ecs

import "github.com/milk9111/skirmish/ecs/component"

// Entity is the stable handle of a combatant record.
type Entity = component.Entity

type entityStore struct {
	next Entity
}

func (s *entityStore) create() Entity {
	s.next++
	return s.next
}
