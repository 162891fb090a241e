package main

import (
	"fmt"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/skirmish/ecs"
	"github.com/milk9111/skirmish/ecs/component"
	"github.com/milk9111/skirmish/engine"
	"github.com/milk9111/skirmish/prefabs"
	"go.uber.org/zap"
)

const (
	baseWidth  = 1280
	baseHeight = 720
	// pixelsPerMeter maps world units onto the screen.
	pixelsPerMeter = 48
	maxLogLines    = 12
)

// Arena owns one running encounter and redraws its latest frame.
type Arena struct {
	lib      *prefabs.Library
	scenario string
	seed     int64
	manual   bool
	log      *zap.Logger

	eng    *engine.Engine
	pilots map[ecs.Entity]engine.Pilot
	keys   *keyboardPilot
	frame  engine.Frame
	names  map[ecs.Entity]string
	lines  []string

	accum  float64
	paused bool
	single bool
}

func NewArena(lib *prefabs.Library, scenario string, seed int64, manual bool, log *zap.Logger) (*Arena, error) {
	a := &Arena{
		lib:      lib,
		scenario: scenario,
		seed:     seed,
		manual:   manual,
		log:      log,
		keys:     &keyboardPilot{},
	}
	if err := a.restart(); err != nil {
		return nil, err
	}
	return a, nil
}

func (a *Arena) restart() error {
	sc, err := a.lib.Scenario(a.scenario)
	if err != nil {
		return err
	}
	if a.seed != 0 {
		sc.Seed = a.seed
	}
	eng, err := engine.New(engine.WithRules(a.lib.Rules()), engine.WithSeed(sc.Seed), engine.WithLogger(a.log))
	if err != nil {
		return err
	}
	ids, err := eng.Load(sc)
	if err != nil {
		return err
	}

	a.eng = eng
	a.frame = eng.Frame()
	a.pilots = map[ecs.Entity]engine.Pilot{}
	a.names = map[ecs.Entity]string{}
	a.lines = nil
	a.accum = 0
	for _, id := range ids {
		v, _ := a.frame.Find(id)
		a.names[id] = v.Name
		if !v.Player {
			continue
		}
		if a.manual {
			a.pilots[id] = a.keys
		} else {
			a.pilots[id] = engine.ParryRiposte{}
		}
	}
	a.log.Info("arena ready", zap.String("scenario", sc.Name), zap.Int64("seed", sc.Seed))
	return nil
}

func (a *Arena) Update() error {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		if err := a.lib.Reload(); err != nil {
			a.log.Error("reload failed, keeping previous data", zap.Error(err))
		}
		if err := a.restart(); err != nil {
			a.log.Error("restart failed", zap.Error(err))
		}
		return nil
	case inpututil.IsKeyJustPressed(ebiten.KeyP):
		a.paused = !a.paused
	case inpututil.IsKeyJustPressed(ebiten.KeyN):
		a.single = true
	}
	a.keys.poll()

	if a.paused && !a.single {
		return nil
	}
	if a.single {
		a.single = false
		a.step()
		return nil
	}

	a.accum += 1 / float64(ebiten.TPS())
	dt := a.eng.Rules().Dt()
	for a.accum >= dt {
		a.accum -= dt
		a.step()
	}
	return nil
}

func (a *Arena) step() {
	intents := make(map[ecs.Entity]component.Intent, len(a.pilots))
	snap := a.eng.Snapshot()
	for id, p := range a.pilots {
		intents[id] = p.Intent(snap, id)
	}
	a.frame = a.eng.Step(intents)
	for _, evt := range a.frame.Events {
		if line, ok := a.describe(evt); ok {
			a.lines = append(a.lines, line)
		}
	}
	if n := len(a.lines); n > maxLogLines {
		a.lines = a.lines[n-maxLogLines:]
	}
}

func (a *Arena) describe(evt ecs.Event) (string, bool) {
	src, dst := a.names[evt.Source], a.names[evt.Target]
	switch evt.Type {
	case ecs.EventHit:
		return fmt.Sprintf("%5.1fs %s hits %s for %.0f (%s)", a.frame.Time, src, dst, evt.Amount, evt.Flank), true
	case ecs.EventBlock:
		return fmt.Sprintf("%5.1fs %s blocks %s", a.frame.Time, dst, src), true
	case ecs.EventParry:
		return fmt.Sprintf("%5.1fs %s parries %s", a.frame.Time, src, dst), true
	case ecs.EventClash:
		return fmt.Sprintf("%5.1fs %s and %s clash", a.frame.Time, src, dst), true
	case ecs.EventGuardBreak, ecs.EventKnockout, ecs.EventDeath:
		return fmt.Sprintf("%5.1fs %s: %s", a.frame.Time, evt.Type, dst), true
	}
	return "", false
}

func (a *Arena) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)
	drawTerrain(screen, a.frame.Terrain, a.toScreen)
	for _, c := range a.frame.Combatants {
		drawCombatant(screen, c, a.toScreen)
	}

	status := fmt.Sprintf("%s  t=%.1fs tick=%d  FPS: %.0f", a.scenario, a.frame.Time, a.frame.Tick, ebiten.ActualFPS())
	if a.paused {
		status += "  [paused: N steps, P resumes]"
	}
	status += "\nR reload+restart  P pause"
	if a.manual {
		status += "\nWASD move  mouse face  J/LMB attack  K/RMB block  Shift sprint  C cure"
	}
	ebitenutil.DebugPrint(screen, status)
	ebitenutil.DebugPrintAt(screen, strings.Join(a.lines, "\n"), 10, baseHeight-16*maxLogLines-10)
}

func (a *Arena) Layout(outsideWidth, outsideHeight int) (int, int) {
	return baseWidth, baseHeight
}

// toScreen maps world coordinates with the origin at the screen centre.
func (a *Arena) toScreen(x, y float64) (float32, float32) {
	return float32(baseWidth/2 + x*pixelsPerMeter), float32(baseHeight/2 + y*pixelsPerMeter)
}
