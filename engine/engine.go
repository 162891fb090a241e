package engine

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/milk9111/skirmish/common"
	"github.com/milk9111/skirmish/ecs"
	"github.com/milk9111/skirmish/ecs/component"
	"github.com/milk9111/skirmish/ecs/system"
	"github.com/milk9111/skirmish/prefabs"
	"go.uber.org/zap"
)

var (
	ErrInvalidRules     = errors.New("engine: invalid rules")
	ErrInvalidCombatant = errors.New("engine: invalid combatant")
)

// Option configures New. Later options override earlier ones.
type Option func(*config)

type config struct {
	rules   component.Rules
	seed    int64
	rng     common.Rand
	log     *zap.Logger
	scripts func(name string) ([]byte, error)
}

func WithRules(r component.Rules) Option {
	return func(c *config) { c.rules = r }
}

// WithSeed seeds the engine's random source.
func WithSeed(seed int64) Option {
	return func(c *config) { c.seed = seed }
}

// WithRand replaces the random source outright.
func WithRand(r common.Rand) Option {
	return func(c *config) { c.rng = r }
}

func WithLogger(log *zap.Logger) Option {
	return func(c *config) { c.log = log }
}

// WithScriptLoader changes where NPC scripts are read from.
func WithScriptLoader(load func(name string) ([]byte, error)) Option {
	return func(c *config) { c.scripts = load }
}

// Engine runs one encounter. It is not safe for concurrent use.
type Engine struct {
	id    uuid.UUID
	rules component.Rules
	world *ecs.World
	sched *ecs.Scheduler
	rng   common.Rand
	log   *zap.Logger
}

func New(opts ...Option) (*Engine, error) {
	cfg := config{rules: component.DefaultRules(), seed: 1}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if err := prefabs.ValidateRules(cfg.rules); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRules, err)
	}
	if cfg.rng == nil {
		cfg.rng = common.NewRand(cfg.seed)
	}
	if cfg.log == nil {
		cfg.log = zap.NewNop()
	}

	id, err := encounterID(cfg.rng)
	if err != nil {
		return nil, fmt.Errorf("engine: encounter id: %w", err)
	}

	ai := system.NewAISystem()
	if cfg.scripts != nil {
		ai.WithScriptLoader(cfg.scripts)
	}

	e := &Engine{
		id:    id,
		rules: cfg.rules,
		world: ecs.NewWorld(),
		rng:   cfg.rng,
		log:   cfg.log.With(zap.String("encounter", id.String())),
	}
	e.sched = ecs.NewScheduler(
		ai,
		system.NewActionSystem(),
		system.NewDefenseSystem(),
		system.NewMutationSystem(),
		system.NewStaminaSystem(),
		system.NewStatusSystem(),
		system.NewGroupSystem(),
	)
	return e, nil
}

func (e *Engine) ID() uuid.UUID {
	return e.id
}

func (e *Engine) Rules() component.Rules {
	return e.rules
}

func (e *Engine) Logger() *zap.Logger {
	return e.log
}

// Tick returns the number of committed ticks.
func (e *Engine) Tick() uint64 {
	return e.world.Tick()
}

// Time returns the simulated seconds elapsed.
func (e *Engine) Time() float64 {
	return float64(e.world.Tick()) / e.rules.TickRate
}

// Snapshot returns the committed state. Callers must not modify it.
func (e *Engine) Snapshot() *ecs.Snapshot {
	return e.world.Snapshot()
}

func (e *Engine) SetTerrain(t component.Terrain) {
	if t.Chokepoint && t.MaxAttackers < 1 {
		t.MaxAttackers = 1
	}
	e.world.SetTerrain(t)
}

// Spawn adds a combatant at full health and stamina with no status effects.
func (e *Engine) Spawn(c component.Combatant) (ecs.Entity, error) {
	if c.Weapon == nil {
		return 0, fmt.Errorf("%w: %q has no weapon", ErrInvalidCombatant, c.Name)
	}
	if c.Shield && !c.Weapon.ShieldCompatible {
		return 0, fmt.Errorf("%w: %q cannot carry a shield with %s", ErrInvalidCombatant, c.Name, c.Weapon.Name)
	}
	if !c.Player && c.AI == nil {
		return 0, fmt.Errorf("%w: %q is neither a player nor has an ai profile", ErrInvalidCombatant, c.Name)
	}

	c.Skills = c.Skills.Clamped()
	if c.MaxHealth <= 0 {
		c.MaxHealth = 100
	}
	c.Health = c.MaxHealth
	full := system.MaxStamina(e.rules, c.Skills)
	c.Stamina = component.Stamina{Current: full, Max: full}
	c.Action = component.Action{Phase: component.PhaseIdle}
	c.Status = component.Status{}
	c.Intent = component.Intent{}
	c.Brain = component.Brain{State: component.AIIdle}
	c.Facing = common.NormalizeAngle(c.Facing)

	id := e.world.Spawn(c)
	e.log.Debug("spawned",
		zap.Stringer("id", id),
		zap.String("name", c.Name),
		zap.Int("team", c.Team),
		zap.String("weapon", c.Weapon.Name),
		zap.Bool("shield", c.Shield),
	)
	return id, nil
}

// Load spawns every combatant of a scenario and applies its terrain.
func (e *Engine) Load(sc *prefabs.Scenario) ([]ecs.Entity, error) {
	e.SetTerrain(sc.Terrain)
	ids := make([]ecs.Entity, 0, len(sc.Combatants))
	for _, c := range sc.Combatants {
		id, err := e.Spawn(c)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// Step advances one tick. Intents for unknown, knocked out or dead
// combatants are dropped; NPCs without a supplied intent decide for
// themselves.
func (e *Engine) Step(intents map[ecs.Entity]component.Intent) Frame {
	prev, next := e.world.Begin()
	tk := &ecs.Tick{
		Now:    next.Tick,
		Rules:  e.rules,
		Prev:   prev,
		Next:   next,
		Events: &ecs.EventQueue{},
		Rand:   e.rng,
		Log:    e.log,
	}
	for id, in := range intents {
		c, ok := prev.Get(id)
		if !ok || !c.Active() {
			continue
		}
		tk.SetIntent(id, in)
	}

	e.sched.Update(tk)
	e.enforce(tk)
	e.world.Commit(next)

	events := tk.Events.Drain()
	e.logEvents(next, events)
	return newFrame(e, next, events)
}

// Frame returns the committed state without events.
func (e *Engine) Frame() Frame {
	return newFrame(e, e.world.Snapshot(), nil)
}

func (e *Engine) logEvents(s *ecs.Snapshot, events []ecs.Event) {
	name := func(id ecs.Entity) string {
		if c, ok := s.Get(id); ok {
			return c.Name
		}
		return id.String()
	}
	for _, evt := range events {
		switch evt.Type {
		case ecs.EventHit:
			e.log.Info("hit",
				zap.Uint64("tick", evt.Tick),
				zap.String("attacker", name(evt.Source)),
				zap.String("target", name(evt.Target)),
				zap.Float64("damage", evt.Amount),
				zap.Stringer("flank", evt.Flank),
			)
		case ecs.EventBlock, ecs.EventParry, ecs.EventClash, ecs.EventGuardBreak:
			e.log.Info(string(evt.Type),
				zap.Uint64("tick", evt.Tick),
				zap.String("source", name(evt.Source)),
				zap.String("target", name(evt.Target)),
				zap.String("detail", evt.Detail),
			)
		default:
			if ce := e.log.Check(zap.DebugLevel, string(evt.Type)); ce != nil {
				ce.Write(
					zap.Uint64("tick", evt.Tick),
					zap.String("source", name(evt.Source)),
					zap.String("target", name(evt.Target)),
					zap.Float64("amount", evt.Amount),
					zap.String("detail", evt.Detail),
				)
			}
		}
	}
}
