package engine

import (
	"context"
	"fmt"
	"sort"

	"github.com/milk9111/skirmish/ecs"
	"github.com/milk9111/skirmish/ecs/component"
	"github.com/milk9111/skirmish/prefabs"
	"go.uber.org/zap"
)

// Result summarizes a finished run.
type Result struct {
	Ticks    uint64
	Duration float64
	// Winner is the last team standing, or zero when the run timed out with
	// more than one team still fighting.
	Winner int
	Final  Frame
	Counts map[ecs.EventType]int
}

// RunConfig drives a run. Pilots supply player intents; players without a
// pilot stand idle.
type RunConfig struct {
	Duration float64
	Pilots   map[ecs.Entity]Pilot
	// OnFrame sees every frame. Returning false stops the run.
	OnFrame func(Frame) bool
}

// Run steps the engine until one team is left, the duration runs out, OnFrame
// asks to stop or ctx is done.
func (e *Engine) Run(ctx context.Context, cfg RunConfig) (Result, error) {
	res := Result{Counts: map[ecs.EventType]int{}}
	limit := uint64(e.rules.Ticks(cfg.Duration))

	frame := e.Frame()
	for limit == 0 || e.Tick() < limit {
		if err := ctx.Err(); err != nil {
			res.finish(e, frame)
			return res, err
		}
		if len(teamsStanding(frame)) <= 1 {
			break
		}

		intents := make(map[ecs.Entity]component.Intent, len(cfg.Pilots))
		snap := e.Snapshot()
		for id, p := range cfg.Pilots {
			intents[id] = p.Intent(snap, id)
		}
		frame = e.Step(intents)
		for _, evt := range frame.Events {
			res.Counts[evt.Type]++
		}
		if cfg.OnFrame != nil && !cfg.OnFrame(frame) {
			break
		}
	}

	res.finish(e, frame)
	e.log.Info("encounter finished",
		zap.Uint64("ticks", res.Ticks),
		zap.Float64("seconds", res.Duration),
		zap.Int("winner", res.Winner),
	)
	return res, nil
}

func (r *Result) finish(e *Engine, f Frame) {
	r.Ticks = e.Tick()
	r.Duration = e.Time()
	r.Final = f
	if teams := teamsStanding(f); len(teams) == 1 {
		r.Winner = teams[0]
	}
}

// teamsStanding lists the sides still able to fight. Team zero fights
// everyone, so each of its survivors counts as a side of its own.
func teamsStanding(f Frame) []int {
	seen := map[int]bool{}
	var teams []int
	for _, c := range f.Combatants {
		if c.Dead || c.KnockedOut {
			continue
		}
		if c.Team == 0 || !seen[c.Team] {
			seen[c.Team] = true
			teams = append(teams, c.Team)
		}
	}
	sort.Ints(teams)
	return teams
}

// RunScenario builds an engine for a scenario, puts every player under the
// parry-riposte pilot and runs it for the scenario's duration.
func RunScenario(ctx context.Context, sc *prefabs.Scenario, rules component.Rules, log *zap.Logger, onFrame func(Frame) bool) (*Engine, Result, error) {
	e, err := New(WithRules(rules), WithSeed(sc.Seed), WithLogger(log))
	if err != nil {
		return nil, Result{}, err
	}
	ids, err := e.Load(sc)
	if err != nil {
		return nil, Result{}, fmt.Errorf("engine: scenario %s: %w", sc.Name, err)
	}

	pilots := map[ecs.Entity]Pilot{}
	snap := e.Snapshot()
	for _, id := range ids {
		if c, _ := snap.Get(id); c.Player {
			pilots[id] = ParryRiposte{}
		}
	}
	e.log.Info("encounter started",
		zap.String("scenario", sc.Name),
		zap.Int("combatants", len(ids)),
		zap.Bool("chokepoint", sc.Terrain.Chokepoint),
	)

	res, err := e.Run(ctx, RunConfig{Duration: sc.Duration, Pilots: pilots, OnFrame: onFrame})
	return e, res, err
}
