package component

// Phase is the single action phase a combatant occupies at any tick.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseWindUp
	PhaseChargingHeavy
	PhaseSwing
	PhaseRecovery
	PhaseBlocking
	PhaseHitStun
	PhaseStaggered
	PhaseGuardBroken
	PhaseCuring
	PhaseKnockedOut
	PhaseDead
)

var phaseNames = [...]string{
	PhaseIdle:          "idle",
	PhaseWindUp:        "wind_up",
	PhaseChargingHeavy: "charging_heavy",
	PhaseSwing:         "swing",
	PhaseRecovery:      "recovery",
	PhaseBlocking:      "blocking",
	PhaseHitStun:       "hit_stun",
	PhaseStaggered:     "staggered",
	PhaseGuardBroken:   "guard_broken",
	PhaseCuring:        "curing",
	PhaseKnockedOut:    "knocked_out",
	PhaseDead:          "dead",
}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return "unknown"
	}
	return phaseNames[p]
}

// Attacking reports whether the phase belongs to an attack in progress.
func (p Phase) Attacking() bool {
	return p == PhaseWindUp || p == PhaseChargingHeavy || p == PhaseSwing || p == PhaseRecovery
}

// Committed reports whether the phase rides through incoming hits and staggers.
func (p Phase) Committed() bool {
	return p == PhaseSwing || p == PhaseRecovery
}

// Interruptible reports whether a landed hit knocks the combatant into hit stun.
func (p Phase) Interruptible() bool {
	return p == PhaseWindUp || p == PhaseChargingHeavy || p == PhaseCuring
}

// Locked reports whether the phase ignores intents until its timer runs out.
func (p Phase) Locked() bool {
	switch p {
	case PhaseHitStun, PhaseStaggered, PhaseGuardBroken, PhaseKnockedOut, PhaseDead:
		return true
	}
	return false
}
