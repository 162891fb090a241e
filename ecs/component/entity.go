package component

import "strconv"

// Entity identifies a combatant for the lifetime of an encounter. Ids are
// never reused, so a zero value always means "none".
type Entity uint32

func (e Entity) String() string {
	return strconv.FormatUint(uint64(e), 10)
}

func (e Entity) Valid() bool {
	return e > 0
}
