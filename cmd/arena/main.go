// Command arena steps a scenario in real time and draws each committed frame.
package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/skirmish/logging"
	"github.com/milk9111/skirmish/prefabs"
)

func main() {
	scenario := flag.String("scenario", "open_ground", "scenario name in prefabs/scenarios (basename, .yaml optional)")
	dir := flag.String("prefabs", prefabs.Dir, "directory checked for data files before the built-in copies")
	seed := flag.Int64("seed", 0, "random seed (0 uses the scenario's)")
	manual := flag.Bool("manual", false, "drive the player from the keyboard instead of the parry bot")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	level := flag.String("log-level", "info", "combat log level")
	flag.Parse()

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}
	prefabs.Dir = *dir

	logger, err := logging.New(*level, "console")
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	lib, err := prefabs.LoadLibrary()
	if err != nil {
		log.Fatal(err)
	}

	arena, err := NewArena(lib, *scenario, *seed, *manual, logger)
	if err != nil {
		log.Fatal(err)
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(baseWidth, baseHeight)
	ebiten.SetWindowTitle("skirmish: " + *scenario)

	if err := ebiten.RunGame(arena); err != nil {
		log.Fatal(err)
	}
}
