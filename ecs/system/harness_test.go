package system

import (
	"testing"

	"github.com/milk9111/skirmish/common"
	"github.com/milk9111/skirmish/ecs"
	"github.com/milk9111/skirmish/ecs/component"
	"go.uber.org/zap"
)

// harness runs the full tick pipeline over an ecs.World.
type harness struct {
	tb     testing.TB
	world  *ecs.World
	rules  component.Rules
	sched  *ecs.Scheduler
	ai     *AISystem
	rng    common.Rand
	log    *zap.Logger
	events []ecs.Event
	// inject runs between defense and mutation resolution.
	inject func(t *ecs.Tick)
}

type hookSystem struct{ h *harness }

func (s hookSystem) Update(t *ecs.Tick) {
	if s.h.inject != nil {
		s.h.inject(t)
	}
}

func newHarness(tb testing.TB) *harness {
	h := &harness{
		tb:    tb,
		world: ecs.NewWorld(),
		rules: component.DefaultRules(),
		ai:    NewAISystem(),
		rng:   common.NewRand(1),
		log:   zap.NewNop(),
	}
	h.sched = ecs.NewScheduler(
		h.ai,
		NewActionSystem(),
		NewDefenseSystem(),
		hookSystem{h},
		NewMutationSystem(),
		NewStaminaSystem(),
		NewStatusSystem(),
		NewGroupSystem(),
	)
	return h
}

func (h *harness) spawn(c component.Combatant) Entity {
	if c.MaxHealth == 0 {
		c.MaxHealth = 100
	}
	if c.Health == 0 {
		c.Health = c.MaxHealth
	}
	if c.Stamina.Max == 0 {
		full := MaxStamina(h.rules, c.Skills)
		c.Stamina = component.Stamina{Current: full, Max: full}
	}
	if c.AI != nil && c.Brain.State == "" {
		c.Brain.State = component.AIIdle
	}
	return h.world.Spawn(c)
}

func (h *harness) step(intents map[Entity]component.Intent) []ecs.Event {
	prev, next := h.world.Begin()
	tk := &ecs.Tick{
		Now:    next.Tick,
		Rules:  h.rules,
		Prev:   prev,
		Next:   next,
		Events: &ecs.EventQueue{},
		Rand:   h.rng,
		Log:    h.log,
	}
	for id, in := range intents {
		tk.SetIntent(id, in)
	}
	h.sched.Update(tk)
	h.world.Commit(next)
	evs := tk.Events.Drain()
	h.events = append(h.events, evs...)
	return evs
}

// run steps n ticks, asking intents for the input of each tick.
func (h *harness) run(n int, intents func(now uint64) map[Entity]component.Intent) {
	for i := 0; i < n; i++ {
		var in map[Entity]component.Intent
		if intents != nil {
			in = intents(h.world.Tick() + 1)
		}
		h.step(in)
	}
}

func (h *harness) get(id Entity) *component.Combatant {
	c, ok := h.world.Snapshot().Get(id)
	if !ok {
		h.tb.Fatalf("combatant %s missing", id)
	}
	return c
}

func (h *harness) count(typ ecs.EventType) int {
	n := 0
	for _, e := range h.events {
		if e.Type == typ {
			n++
		}
	}
	return n
}

func (h *harness) find(typ ecs.EventType) (ecs.Event, bool) {
	for _, e := range h.events {
		if e.Type == typ {
			return e, true
		}
	}
	return ecs.Event{}, false
}

// fixedRand returns the same roll every time.
type fixedRand float64

func (r fixedRand) Float64() float64 { return float64(r) }
func (r fixedRand) Int63() int64     { return 0 }

func npcProfile(aggression float64) *component.AIProfile {
	return &component.AIProfile{
		Difficulty:  component.Difficulty{Name: "test", ReactionDelay: 0.5},
		Personality: component.Personality{Name: "test", Aggression: aggression, BlockFrequency: 0.5},
	}
}

func testMovement() component.Movement {
	return component.Movement{Idle: 1, WindUp: 0.5, Charging: 0.3, Swing: 0.2, Recovery: 0.5, Blocking: 0.5}
}

func testSword() *component.Weapon {
	return &component.Weapon{
		Name: "sword", Class: component.ClassMediumMelee, Hands: 1, ShieldCompatible: true,
		Reach: 1.5, Cone: 90, WindUp: 0.4, Swing: 0.2, Recovery: 0.4,
		DamageMin: 10, DamageMax: 10,
		Combo:       component.Combo{Hits: 3, WindUpScale: 0.5},
		ShieldBlock: component.BlockStats{Enabled: true, Arc: 120, ParryWindow: 0.2, ParryStagger: 0.6, StaminaCost: 10},
		WeaponBlock: component.BlockStats{Enabled: true, Arc: 90, ParryWindow: 0.1, ParryStagger: 0.4, StaminaCost: 15},
		Movement:    testMovement(),
	}
}

func testGreatsword() *component.Weapon {
	return &component.Weapon{
		Name: "greatsword", Class: component.ClassHeavyMelee, Hands: 2,
		Reach: 2, Cone: 150, WindUp: 0.5, Swing: 0.3, Recovery: 0.6,
		DamageMin: 25, DamageMax: 25,
		Heavy:       component.HeavyAttack{Enabled: true, ChargeTime: 0.8, Multiplier: 2, RecoveryPenalty: 0.4},
		WeaponBlock: component.BlockStats{Enabled: true, Arc: 100, ParryWindow: 0.15, ParryStagger: 0.5, StaminaCost: 12},
		Movement:    testMovement(),
	}
}

func testDagger() *component.Weapon {
	return &component.Weapon{
		Name: "dagger", Class: component.ClassQuickMelee, Hands: 1,
		Reach: 1, Cone: 60, WindUp: 0.2, Swing: 0.1, Recovery: 0.2,
		DamageMin: 5, DamageMax: 5,
		Effects:  component.Effects{Bleed: true},
		Movement: testMovement(),
	}
}

func testWarhammer() *component.Weapon {
	return &component.Weapon{
		Name: "warhammer", Class: component.ClassHeavyMelee, Hands: 2,
		Reach: 1.8, Cone: 90, WindUp: 0.6, Swing: 0.3, Recovery: 0.8,
		DamageMin: 20, DamageMax: 20,
		Effects: component.Effects{
			Stagger:             component.StaggerHeavy,
			StaggerThroughBlock: true,
			ConcussBuildup:      20,
			KnockoutChance:      0.1,
		},
		Movement: testMovement(),
	}
}

func testBow() *component.Weapon {
	return &component.Weapon{
		Name: "bow", Class: component.ClassRanged, Hands: 2,
		Reach: 8, Cone: 10, WindUp: 0.8, Swing: 0.1, Recovery: 0.5,
		DamageMin: 8, DamageMax: 8,
		Movement: testMovement(),
	}
}

func testPitchfork() *component.Weapon {
	return &component.Weapon{
		Name: "pitchfork", Class: component.ClassTool, Hands: 2,
		Reach: 2, ThrustReachBonus: 0.2, Cone: 40, WindUp: 0.5, Swing: 0.2, Recovery: 0.5,
		DamageMin: 6, DamageMax: 9,
		Movement: testMovement(),
	}
}
