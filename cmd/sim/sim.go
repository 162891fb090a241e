package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/caarlos0/env/v11"
	"github.com/milk9111/skirmish/ecs"
	"github.com/milk9111/skirmish/engine"
	"github.com/milk9111/skirmish/logging"
	"github.com/milk9111/skirmish/prefabs"
	"go.uber.org/zap"
)

// Config holds the sim command configuration. Flags override the environment.
type Config struct {
	Scenario  string  `env:"SKIRMISH_SCENARIO"    envDefault:"open_ground"`
	Prefabs   string  `env:"SKIRMISH_PREFABS_DIR" envDefault:"prefabs"`
	Seed      int64   `env:"SKIRMISH_SEED"`
	Duration  float64 `env:"SKIRMISH_DURATION"`
	Repeat    int     `env:"SKIRMISH_REPEAT"      envDefault:"1"`
	Watch     bool    `env:"SKIRMISH_WATCH"`
	List      bool    `env:"SKIRMISH_LIST"`
	LogLevel  string  `env:"SKIRMISH_LOG_LEVEL"   envDefault:"warn"`
	LogFormat string  `env:"SKIRMISH_LOG_FORMAT"  envDefault:"console"`
}

// ParseConfig parses the environment and then flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	fs.StringVar(&cfg.Scenario, "scenario", cfg.Scenario, "scenario name in prefabs/scenarios (basename, .yaml optional)")
	fs.StringVar(&cfg.Prefabs, "prefabs", cfg.Prefabs, "directory checked for data files before the built-in copies")
	fs.Int64Var(&cfg.Seed, "seed", cfg.Seed, "random seed (0 uses the scenario's)")
	fs.Float64Var(&cfg.Duration, "duration", cfg.Duration, "simulated seconds (0 uses the scenario's)")
	fs.IntVar(&cfg.Repeat, "repeat", cfg.Repeat, "encounters to run, each with the next seed")
	fs.BoolVar(&cfg.Watch, "watch", cfg.Watch, "rerun whenever a data file or script changes")
	fs.BoolVar(&cfg.List, "list", cfg.List, "list scenarios and exit")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "combat log level (debug, info, warn, error)")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "combat log encoding (console, json)")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	if cfg.Repeat < 1 {
		return Config{}, errors.New("repeat must be at least 1")
	}
	return cfg, nil
}

// Run executes the sim command.
func Run(ctx context.Context, cfg Config, out io.Writer) error {
	if out == nil {
		out = io.Discard
	}
	prefabs.Dir = cfg.Prefabs

	if cfg.List {
		return list(out)
	}

	log, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	lib, err := prefabs.LoadLibrary()
	if err != nil {
		return err
	}

	if err := runAll(ctx, cfg, lib, log, out); err != nil || !cfg.Watch {
		return err
	}

	w, err := prefabs.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch %s: %w", cfg.Prefabs, err)
	}
	defer func() { _ = w.Close() }()
	log.Info("watching for changes", zap.String("dir", cfg.Prefabs))

	for {
		select {
		case <-ctx.Done():
			return nil
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warn("watch error", zap.Error(err))
		case change, ok := <-w.Events:
			if !ok {
				return nil
			}
			// Reload revalidates scripts too, so a broken edit never reaches a run.
			if err := lib.Reload(); err != nil {
				log.Error("reload failed, keeping previous data", zap.String("path", change.Path), zap.Error(err))
				continue
			}
			log.Info("reloaded", zap.String("path", change.Path))
			if err := runAll(ctx, cfg, lib, log, out); err != nil {
				if errors.Is(err, context.Canceled) {
					return nil
				}
				log.Error("encounter failed", zap.Error(err))
			}
		}
	}
}

func list(out io.Writer) error {
	lib, err := prefabs.LoadLibrary()
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, name := range prefabs.ScenarioNames() {
		sc, err := lib.Scenario(name)
		if err != nil {
			fmt.Fprintf(tw, "%s\t(invalid: %v)\n", name, err)
			continue
		}
		fmt.Fprintf(tw, "%s\t%d combatants\t%s\n", name, len(sc.Combatants), sc.Description)
	}
	return tw.Flush()
}

func runAll(ctx context.Context, cfg Config, lib *prefabs.Library, log *zap.Logger, out io.Writer) error {
	for i := 0; i < cfg.Repeat; i++ {
		sc, err := lib.Scenario(cfg.Scenario)
		if err != nil {
			return err
		}
		if cfg.Seed != 0 {
			sc.Seed = cfg.Seed
		}
		sc.Seed += int64(i)
		if cfg.Duration > 0 {
			sc.Duration = cfg.Duration
		}

		e, res, err := engine.RunScenario(ctx, sc, lib.Rules(), log, nil)
		if err != nil {
			return err
		}
		if err := summarize(out, sc, e, res); err != nil {
			return err
		}
	}
	return nil
}

func summarize(out io.Writer, sc *prefabs.Scenario, e *engine.Engine, res engine.Result) error {
	winner := "none"
	if res.Winner != 0 {
		winner = fmt.Sprintf("team %d", res.Winner)
	}
	fmt.Fprintf(out, "%s seed=%d encounter=%s\n", sc.Name, sc.Seed, e.ID())
	fmt.Fprintf(out, "  %.1fs (%d ticks) winner: %s\n", res.Duration, res.Ticks, winner)
	fmt.Fprintf(out, "  hits=%d blocks=%d parries=%d clashes=%d guard_breaks=%d knockouts=%d deaths=%d\n",
		res.Counts[ecs.EventHit], res.Counts[ecs.EventBlock], res.Counts[ecs.EventParry],
		res.Counts[ecs.EventClash], res.Counts[ecs.EventGuardBreak], res.Counts[ecs.EventKnockout],
		res.Counts[ecs.EventDeath])

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "  name\tteam\tweapon\thealth\tstamina\tstate")
	for _, c := range res.Final.Combatants {
		state := c.Phase.String()
		if c.Bleed > 0 {
			state += fmt.Sprintf(" bleed=%d", c.Bleed)
		}
		if c.Dazed {
			state += " dazed"
		}
		fmt.Fprintf(tw, "  %s\t%d\t%s\t%.0f/%.0f\t%.0f\t%s\n", c.Name, c.Team, c.Weapon, c.Health, c.MaxHealth, c.Stamina, state)
	}
	return tw.Flush()
}
