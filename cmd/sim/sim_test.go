package main

import (
	"bytes"
	"context"
	"flag"
	"strings"
	"testing"

	"github.com/milk9111/skirmish/prefabs"
)

func TestParseConfigDefaults(t *testing.T) {
	fs := flag.NewFlagSet("sim", flag.ContinueOnError)

	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Scenario != "open_ground" || cfg.Prefabs != "prefabs" {
		t.Fatalf("defaults = %+v", cfg)
	}
	if cfg.Repeat != 1 || cfg.Watch || cfg.LogLevel != "warn" {
		t.Fatalf("defaults = %+v", cfg)
	}
}

func TestParseConfigFlagsOverrideEnv(t *testing.T) {
	t.Setenv("SKIRMISH_SCENARIO", "warhammer")
	t.Setenv("SKIRMISH_SEED", "9")
	fs := flag.NewFlagSet("sim", flag.ContinueOnError)

	cfg, err := ParseConfig(fs, []string{"-scenario", "doorway", "-repeat", "3"})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Scenario != "doorway" || cfg.Seed != 9 || cfg.Repeat != 3 {
		t.Fatalf("cfg = %+v", cfg)
	}
}

func TestParseConfigRejectsRepeat(t *testing.T) {
	fs := flag.NewFlagSet("sim", flag.ContinueOnError)
	if _, err := ParseConfig(fs, []string{"-repeat", "0"}); err == nil {
		t.Fatalf("expected an error for zero repeats")
	}
}

func runSim(t *testing.T, cfg Config) string {
	t.Helper()
	old := prefabs.Dir
	t.Cleanup(func() { prefabs.Dir = old })
	cfg.Prefabs = t.TempDir()
	cfg.LogLevel = "error"

	var out bytes.Buffer
	if err := Run(context.Background(), cfg, &out); err != nil {
		t.Fatalf("run: %v", err)
	}
	return out.String()
}

func TestRunList(t *testing.T) {
	out := runSim(t, Config{List: true})
	for _, name := range []string{"doorway", "open_ground", "warhammer"} {
		if !strings.Contains(out, name) {
			t.Fatalf("listing misses %s:\n%s", name, out)
		}
	}
}

func TestRunSummary(t *testing.T) {
	out := runSim(t, Config{Scenario: "warhammer", Duration: 3, Repeat: 2})

	for _, want := range []string{"warhammer seed=3", "warhammer seed=4", "brute", "guard", "hits="} {
		if !strings.Contains(out, want) {
			t.Fatalf("summary misses %q:\n%s", want, out)
		}
	}
}

func TestRunUnknownScenario(t *testing.T) {
	old := prefabs.Dir
	t.Cleanup(func() { prefabs.Dir = old })

	err := Run(context.Background(), Config{Scenario: "nowhere", Prefabs: t.TempDir(), Repeat: 1, LogLevel: "error"}, nil)
	if err == nil {
		t.Fatalf("expected an error for a missing scenario")
	}
}
