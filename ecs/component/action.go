package component

// Action is the attack/defense state machine of one combatant.
type Action struct {
	Phase     Phase
	Remaining int
	// Held counts ticks the attack input has been held since the wind-up began.
	Held  int
	Heavy bool
	// Combo is the index of the current swing within its chain.
	Combo       int
	ComboWindow int
	ComboQueued bool
	Connected   bool
	Resolved    []Entity
	// Started is the tick the current attack's wind-up began. Lower wins
	// conflicting mutations.
	Started    uint64
	BlockSince uint64
	Sprinting  bool
}

// Enter switches to phase p for ticks remaining.
func (a *Action) Enter(p Phase, ticks int) {
	a.Phase = p
	a.Remaining = ticks
}

// ResetChain drops any combo in progress.
func (a *Action) ResetChain() {
	a.Combo = 0
	a.ComboWindow = 0
	a.ComboQueued = false
}

func (a *Action) HasResolved(e Entity) bool {
	for _, r := range a.Resolved {
		if r == e {
			return true
		}
	}
	return false
}
