package component

// AIState is the top-level per-NPC state.
type AIState string

const (
	AIIdle     AIState = "idle"
	AIApproach AIState = "approach"
	AICombat   AIState = "combat"
	AISurround AIState = "surround"
	AIRetreat  AIState = "retreat"
	AIPanic    AIState = "panic"
)

func ParseAIState(name string) (AIState, bool) {
	switch s := AIState(name); s {
	case AIIdle, AIApproach, AICombat, AISurround, AIRetreat, AIPanic:
		return s, true
	}
	return AIIdle, false
}

// Difficulty is a tier row of the AI tables.
type Difficulty struct {
	Name             string
	ReactionDelay    float64
	ReactionJitter   float64
	ParryAttemptRate float64
	ParrySuccessRate float64
}

// Personality biases decisions after the weapon strategy has run.
type Personality struct {
	Name           string
	Aggression     float64
	BlockFrequency float64
	RetreatHealth  float64
	RetreatStamina float64
}

// AIProfile is the static brain configuration of an NPC.
type AIProfile struct {
	Difficulty  Difficulty
	Personality Personality
	Script      string
}

// ParryPlan is the decision taken once per observed enemy wind-up.
type ParryPlan int

const (
	ParryNone ParryPlan = iota
	ParryTimed
	ParryEarly
)

// Brain is the mutable AI state carried in the combatant record.
type Brain struct {
	State    AIState
	Target   Entity
	Role     FlankRole
	Slot     float64
	Cooldown int
	Panic    int
	// ParryFor is the wind-up start tick of the enemy attack ParryPlan answers.
	ParryFor  uint64
	ParryPlan ParryPlan
	// ReactAt is the first tick the NPC can act on that wind-up.
	ReactAt   uint64
	HeavyPlan bool
}
