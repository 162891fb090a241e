package prefabs

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/milk9111/skirmish/ecs/component"
)

// useDir points disk lookups at dir for the duration of the test.
func useDir(t *testing.T, dir string) {
	t.Helper()
	old := Dir
	Dir = dir
	t.Cleanup(func() { Dir = old })
}

func writeFile(t *testing.T, path, data string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestEmbeddedCatalog(t *testing.T) {
	useDir(t, t.TempDir())

	cat, err := LoadCatalog(WeaponsFile)
	if err != nil {
		t.Fatalf("LoadCatalog: %v", err)
	}
	for _, name := range []string{"dagger", "hatchet", "pitchfork", "sword", "spear", "mace", "greatsword", "warhammer", "bow", "throwing_knife"} {
		if _, ok := cat.Lookup(name); !ok {
			t.Fatalf("catalog missing %s", name)
		}
	}

	tests := []struct {
		weapon string
		check  func(w *component.Weapon) bool
	}{
		{"spear", func(w *component.Weapon) bool { return w.Cone == 30 && w.ThrustReachBonus == 0.3 }},
		{"greatsword", func(w *component.Weapon) bool { return w.Cone == 150 && w.HasHeavy() }},
		{"warhammer", func(w *component.Weapon) bool {
			return w.Effects.Stagger == component.StaggerHeavy && w.Effects.StaggerThroughBlock && w.Effects.KnockoutChance == 0.1
		}},
		{"dagger", func(w *component.Weapon) bool { return w.CausesBleed() && !w.CanBlock(true) }},
		{"sword", func(w *component.Weapon) bool {
			stats, ok := w.BlockStats(true)
			return ok && stats.ParryWindow == 0.25 && math.Abs(w.TotalAttackTime()-0.9) < 1e-9
		}},
	}
	for _, tt := range tests {
		t.Run(tt.weapon, func(t *testing.T) {
			w, err := Weapon(cat, tt.weapon)
			if err != nil {
				t.Fatalf("Weapon: %v", err)
			}
			if !tt.check(w) {
				t.Fatalf("%s = %+v", tt.weapon, w)
			}
		})
	}
}

func TestUnknownWeapon(t *testing.T) {
	_, err := Weapon(component.NewCatalog(), "halberd")
	if !errors.Is(err, ErrUnknownWeapon) {
		t.Fatalf("err = %v, want ErrUnknownWeapon", err)
	}
}

func TestBuildCatalogReportsEveryProblem(t *testing.T) {
	spec := WeaponCatalogSpec{Weapons: []WeaponSpec{
		{Name: "ok", Class: "tool", Hands: 1, Reach: 1, Cone: 90, WindUp: 0.2, Swing: 0.1, Recovery: 0.2, Damage: [2]float64{1, 2}},
		{Name: "bad_class", Class: "laser", Hands: 1, Reach: 1, Cone: 90, WindUp: 0.2, Swing: 0.1, Damage: [2]float64{1, 2}},
		{Name: "bad_reach", Class: "tool", Hands: 1, Reach: 0, Cone: 90, WindUp: 0.2, Swing: 0.1, Damage: [2]float64{1, 2}},
		{Name: "ok", Class: "tool", Hands: 1, Reach: 1, Cone: 90, WindUp: 0.2, Swing: 0.1, Damage: [2]float64{1, 2}},
		{Name: "shielded_greataxe", Class: "heavy_melee", Hands: 2, ShieldCompatible: true, Reach: 1, Cone: 90, WindUp: 0.2, Swing: 0.1, Damage: [2]float64{1, 2}},
	}}

	_, err := BuildCatalog(spec)
	if !errors.Is(err, ErrInvalidWeapon) {
		t.Fatalf("err = %v, want ErrInvalidWeapon", err)
	}
	var joined interface{ Unwrap() []error }
	if !errors.As(err, &joined) || len(joined.Unwrap()) != 4 {
		t.Fatalf("expected four problems, got %v", err)
	}
}

func TestWeaponDefaults(t *testing.T) {
	w, err := WeaponSpec{
		Name: "club", Class: "medium_melee", Hands: 1, Reach: 1.2, Cone: 90,
		WindUp: 0.3, Swing: 0.2, Recovery: 0.3, Damage: [2]float64{5, 8},
		WeaponBlock: &BlockSpec{Arc: 80, ParryWindow: 0.1, ParryStagger: 0.8, StaminaCost: 25},
	}.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if w.Movement.Idle != 1 || w.Movement.Swing == 0 {
		t.Fatalf("movement defaults not applied: %+v", w.Movement)
	}
	if w.ShieldBlock.Enabled || !w.WeaponBlock.Enabled {
		t.Fatalf("block setup = %+v / %+v", w.ShieldBlock, w.WeaponBlock)
	}
	if w.HasHeavy() {
		t.Fatalf("club has no heavy attack")
	}
}

func TestAITables(t *testing.T) {
	useDir(t, t.TempDir())

	tables, err := LoadAITables(AIFile)
	if err != nil {
		t.Fatalf("LoadAITables: %v", err)
	}

	tests := []struct {
		name        string
		difficulty  string
		personality string
		script      string
		wantScript  string
		err         error
	}{
		{"novice aggressive", "novice", "aggressive", "", "", nil},
		{"personality script", "veteran", "cowardly", "", "skirmisher", nil},
		{"explicit script wins", "veteran", "cowardly", "berserker", "berserker", nil},
		{"unknown difficulty", "legend", "aggressive", "", "", ErrUnknownProfile},
		{"unknown personality", "novice", "reckless", "", "", ErrUnknownProfile},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prof, err := tables.Profile(tt.difficulty, tt.personality, tt.script)
			if tt.err != nil {
				if !errors.Is(err, tt.err) {
					t.Fatalf("err = %v, want %v", err, tt.err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Profile: %v", err)
			}
			if prof.Difficulty.Name != tt.difficulty || prof.Personality.Name != tt.personality || prof.Script != tt.wantScript {
				t.Fatalf("profile = %+v", prof)
			}
		})
	}

	novice, _ := tables.Profile("novice", "aggressive", "")
	if novice.Difficulty.ReactionDelay != 0.5 || novice.Personality.RetreatHealth != 0 {
		t.Fatalf("novice aggressive = %+v", novice)
	}
}

func TestBuildAITablesRejectsBadRates(t *testing.T) {
	_, err := BuildAITables(AITablesSpec{
		Difficulties:  map[string]DifficultySpec{"odd": {ParryAttemptRate: 1.5}},
		Personalities: map[string]PersonalitySpec{"odd": {Aggression: -1}},
	})
	if err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestRulesOverlayDefaults(t *testing.T) {
	dir := t.TempDir()
	useDir(t, dir)
	writeFile(t, filepath.Join(dir, RulesFile), "tick_rate: 40\nstamina:\n  attack_costs: true\n")

	r, err := LoadRules(RulesFile)
	if err != nil {
		t.Fatalf("LoadRules: %v", err)
	}
	def := component.DefaultRules()
	if r.TickRate != 40 || !r.Stamina.AttackCosts {
		t.Fatalf("overrides not applied: %+v", r)
	}
	if r.Stamina.BlockDrain != def.Stamina.BlockDrain || r.Clash != def.Clash {
		t.Fatalf("defaults lost: %+v", r)
	}

	writeFile(t, filepath.Join(dir, RulesFile), "tick_rate: 0\n")
	if _, err := LoadRules(RulesFile); err == nil {
		t.Fatalf("expected zero tick rate to be rejected")
	}

	// 0.15s light stagger is a tick and a half at 10 Hz.
	writeFile(t, filepath.Join(dir, RulesFile), "tick_rate: 10\n")
	if _, err := LoadRules(RulesFile); err == nil || !strings.Contains(err.Error(), "light_stagger") {
		t.Fatalf("err = %v, want light_stagger rejected at 10 Hz", err)
	}
}

func TestValidateTiming(t *testing.T) {
	weapon := func(name string, windUp float64) WeaponSpec {
		return WeaponSpec{Name: name, Class: "tool", Hands: 1, Reach: 1, Cone: 90, WindUp: windUp, Swing: 0.1, Recovery: 0.2, Damage: [2]float64{1, 2}}
	}
	heavy := weapon("maul", 0.5)
	heavy.Class = "heavy_melee"
	heavy.Hands = 2
	heavy.Heavy = HeavySpec{ChargeTime: 0.33, Multiplier: 2, RecoveryPenalty: 0.4}

	tests := []struct {
		name    string
		weapons []WeaponSpec
		bad     string
	}{
		{name: "whole ticks", weapons: []WeaponSpec{weapon("stick", 0.2)}},
		{name: "wind-up between ticks", weapons: []WeaponSpec{weapon("stick", 0.12)}, bad: "stick wind_up"},
		{name: "charge between ticks", weapons: []WeaponSpec{heavy}, bad: "maul heavy.charge_time"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cat, err := BuildCatalog(WeaponCatalogSpec{Weapons: tt.weapons})
			if err != nil {
				t.Fatalf("BuildCatalog: %v", err)
			}
			err = ValidateTiming(component.DefaultRules(), cat)
			if tt.bad == "" {
				if err != nil {
					t.Fatalf("ValidateTiming: %v", err)
				}
				return
			}
			if !errors.Is(err, ErrInvalidWeapon) || !strings.Contains(err.Error(), tt.bad) {
				t.Fatalf("err = %v, want %s rejected", err, tt.bad)
			}
		})
	}

	useDir(t, t.TempDir())
	cat, err := LoadCatalog(WeaponsFile)
	if err != nil {
		t.Fatalf("LoadCatalog: %v", err)
	}
	if err := ValidateTiming(component.DefaultRules(), cat); err != nil {
		t.Fatalf("built-in weapons off the tick grid: %v", err)
	}
}

func TestBuildAITablesChecksScripts(t *testing.T) {
	dir := t.TempDir()
	useDir(t, dir)
	writeFile(t, filepath.Join(dir, "scripts", "broken.tengo"), "decide := func(")

	tests := []struct {
		name   string
		script string
		ok     bool
	}{
		{name: "built-in script", script: "skirmisher", ok: true},
		{name: "missing script", script: "does_not_exist"},
		{name: "script that does not compile", script: "broken"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildAITables(AITablesSpec{
				Difficulties:  map[string]DifficultySpec{"novice": {ReactionDelay: 0.5}},
				Personalities: map[string]PersonalitySpec{"sly": {Aggression: 0.5, Script: tt.script}},
			})
			if tt.ok {
				if err != nil {
					t.Fatalf("BuildAITables: %v", err)
				}
				return
			}
			if !errors.Is(err, ErrUnknownProfile) || !strings.Contains(err.Error(), tt.script) {
				t.Fatalf("err = %v, want %q rejected as an unknown profile", err, tt.script)
			}
		})
	}
}

func TestCombatantProfiles(t *testing.T) {
	useDir(t, t.TempDir())
	lib, err := LoadLibrary()
	if err != nil {
		t.Fatalf("LoadLibrary: %v", err)
	}

	tests := []struct {
		name string
		spec CombatantSpec
		ok   bool
	}{
		{name: "player needs no profile", spec: CombatantSpec{Name: "p", Player: true, Weapon: "sword"}, ok: true},
		{name: "npc with profile", spec: CombatantSpec{Name: "n", Weapon: "sword", Difficulty: "novice", Personality: "aggressive"}, ok: true},
		{name: "npc with explicit script", spec: CombatantSpec{Name: "n", Weapon: "sword", Difficulty: "novice", Personality: "aggressive", Script: "berserker"}, ok: true},
		{name: "npc without profile", spec: CombatantSpec{Name: "n", Weapon: "sword"}},
		{name: "npc without personality", spec: CombatantSpec{Name: "n", Weapon: "sword", Difficulty: "novice"}},
		{name: "npc with missing script", spec: CombatantSpec{Name: "n", Weapon: "sword", Difficulty: "novice", Personality: "aggressive", Script: "does_not_exist"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := ScenarioSpec{Name: "t", Combatants: []CombatantSpec{tt.spec}}
			sc, err := spec.Build(lib.Catalog(), lib.Tables())
			if tt.ok {
				if err != nil {
					t.Fatalf("Build: %v", err)
				}
				if c := sc.Combatants[0]; c.Player == (c.AI != nil) {
					t.Fatalf("player %v with ai %+v", c.Player, c.AI)
				}
				return
			}
			if !errors.Is(err, ErrUnknownProfile) {
				t.Fatalf("err = %v, want ErrUnknownProfile", err)
			}
		})
	}
}

func TestLibraryRejectsBrokenScriptOnReload(t *testing.T) {
	dir := t.TempDir()
	useDir(t, dir)
	lib, err := LoadLibrary()
	if err != nil {
		t.Fatalf("LoadLibrary: %v", err)
	}
	before := lib.Tables()

	writeFile(t, filepath.Join(dir, "scripts", "skirmisher.tengo"), "decide := func(")
	if err := lib.Reload(); !errors.Is(err, ErrUnknownProfile) {
		t.Fatalf("Reload err = %v, want ErrUnknownProfile", err)
	}
	if lib.Tables() != before {
		t.Fatalf("bad reload replaced the ai tables")
	}
}

func TestEmbeddedRulesMatchDefaults(t *testing.T) {
	useDir(t, t.TempDir())
	r, err := LoadRules(RulesFile)
	if err != nil {
		t.Fatalf("LoadRules: %v", err)
	}
	if r != component.DefaultRules() {
		t.Fatalf("engine.yaml drifted from the built-in defaults")
	}
}

func TestScenarios(t *testing.T) {
	useDir(t, t.TempDir())
	lib, err := LoadLibrary()
	if err != nil {
		t.Fatalf("LoadLibrary: %v", err)
	}

	names := ScenarioNames()
	for _, want := range []string{"doorway", "open_ground", "warhammer"} {
		found := false
		for _, n := range names {
			found = found || n == want
		}
		if !found {
			t.Fatalf("scenario %s not listed in %v", want, names)
		}
	}

	tests := []struct {
		name       string
		chokepoint bool
		attackers  int
	}{
		{"open_ground", false, 0},
		{"doorway", true, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc, err := lib.Scenario(tt.name)
			if err != nil {
				t.Fatalf("Scenario: %v", err)
			}
			if sc.Terrain.Chokepoint != tt.chokepoint || sc.Terrain.MaxAttackers != tt.attackers {
				t.Fatalf("terrain = %+v", sc.Terrain)
			}
			if len(sc.Combatants) != 4 {
				t.Fatalf("combatants = %d, want 4", len(sc.Combatants))
			}
			p := sc.Combatants[0]
			if !p.Player || !p.Shield || p.Weapon.Name != "sword" || p.AI != nil {
				t.Fatalf("player = %+v", p)
			}
			for _, n := range sc.Combatants[1:] {
				if n.AI == nil || n.AI.Difficulty.Name != "novice" || n.Weapon.Name != "sword" || n.Team != 2 {
					t.Fatalf("npc = %+v", n)
				}
				if math.Abs(n.Facing-math.Pi) > 1e-9 {
					t.Fatalf("npc facing = %v, want pi", n.Facing)
				}
			}
		})
	}
}

func TestScenarioRejectsShieldOnTwoHander(t *testing.T) {
	useDir(t, t.TempDir())
	lib, err := LoadLibrary()
	if err != nil {
		t.Fatalf("LoadLibrary: %v", err)
	}
	spec := ScenarioSpec{Combatants: []CombatantSpec{{Name: "x", Weapon: "warhammer", Shield: true}}}
	if _, err := spec.Build(lib.Catalog(), lib.Tables()); !errors.Is(err, ErrInvalidWeapon) {
		t.Fatalf("err = %v, want ErrInvalidWeapon", err)
	}
}

func TestLoadScriptPaths(t *testing.T) {
	useDir(t, t.TempDir())
	for _, name := range []string{"skirmisher", "skirmisher.tengo", "scripts/skirmisher.tengo", "prefabs/scripts/skirmisher.tengo"} {
		if _, err := LoadScript(name); err != nil {
			t.Fatalf("LoadScript(%q): %v", name, err)
		}
	}
}

func TestDiskOverridesEmbedded(t *testing.T) {
	dir := t.TempDir()
	useDir(t, dir)
	writeFile(t, filepath.Join(dir, "scripts", "skirmisher.tengo"), "decide := func(e, v) { return {} }")

	data, err := LoadScript("skirmisher")
	if err != nil {
		t.Fatalf("LoadScript: %v", err)
	}
	if string(data) != "decide := func(e, v) { return {} }" {
		t.Fatalf("disk copy not preferred: %q", data)
	}
	if _, ok := ModTime("scripts/skirmisher.tengo"); !ok {
		t.Fatalf("expected a mod time for the disk copy")
	}
}

func TestLibraryKeepsDataOnBadReload(t *testing.T) {
	dir := t.TempDir()
	useDir(t, dir)
	lib, err := LoadLibrary()
	if err != nil {
		t.Fatalf("LoadLibrary: %v", err)
	}
	before := lib.Catalog()

	writeFile(t, filepath.Join(dir, WeaponsFile), "weapons:\n  - name: stick\n    class: wand\n")
	if err := lib.Reload(); !errors.Is(err, ErrInvalidWeapon) {
		t.Fatalf("Reload err = %v, want ErrInvalidWeapon", err)
	}
	if lib.Catalog() != before {
		t.Fatalf("bad reload replaced the catalog")
	}
}

func TestWatcherReportsEdits(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcherFor(dir)
	if err != nil {
		t.Fatalf("NewWatcherFor: %v", err)
	}
	defer w.Close()

	writeFile(t, filepath.Join(dir, "notes.txt"), "ignored")
	writeFile(t, filepath.Join(dir, "brute.tengo"), "decide := func(e, v) { return {} }")

	select {
	case ch := <-w.Events:
		if filepath.Base(ch.Path) != "brute.tengo" || !ch.Script {
			t.Fatalf("change = %+v", ch)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("no change reported")
	}
}
