package system

import (
	"math"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/skirmish/ecs"
	"github.com/milk9111/skirmish/ecs/component"
)

func hold(id Entity) func(uint64) map[Entity]component.Intent {
	return func(uint64) map[Entity]component.Intent {
		return map[Entity]component.Intent{id: {Attack: true}}
	}
}

func TestAttackTimelinePerWeapon(t *testing.T) {
	tests := []struct {
		name   string
		weapon *component.Weapon
		windUp int
		swing  int
		rec    int
	}{
		{"sword", testSword(), 8, 4, 8},
		{"dagger", testDagger(), 4, 2, 4},
		{"warhammer", testWarhammer(), 12, 6, 16},
		{"pitchfork", testPitchfork(), 10, 4, 10},
		{"bow", testBow(), 16, 2, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			id := h.spawn(component.Combatant{Name: "a", Team: 1, Weapon: tt.weapon})

			counts := map[component.Phase]int{}
			total := tt.windUp + tt.swing + tt.rec
			for i := 0; i < total+3; i++ {
				h.step(map[Entity]component.Intent{id: {Attack: true}})
				counts[h.get(id).Action.Phase]++
			}

			if counts[component.PhaseWindUp] != tt.windUp {
				t.Fatalf("wind-up ticks = %d, want %d", counts[component.PhaseWindUp], tt.windUp)
			}
			if counts[component.PhaseSwing] != tt.swing {
				t.Fatalf("swing ticks = %d, want %d", counts[component.PhaseSwing], tt.swing)
			}
			if counts[component.PhaseRecovery] != tt.rec {
				t.Fatalf("recovery ticks = %d, want %d", counts[component.PhaseRecovery], tt.rec)
			}
			got := h.rules.Seconds(total)
			if math.Abs(got-tt.weapon.TotalAttackTime()) > 1e-9 {
				t.Fatalf("total attack time = %v, want %v", got, tt.weapon.TotalAttackTime())
			}
			if h.count(ecs.EventAttackStarted) != 1 {
				t.Fatalf("expected one attack, got %d", h.count(ecs.EventAttackStarted))
			}
			started, _ := h.find(ecs.EventAttackStarted)
			if started.Amount <= 0 {
				t.Fatalf("telegraph must be non-zero, got %v", started.Amount)
			}
			if h.count(ecs.EventWhiff) != 1 {
				t.Fatalf("expected a whiff")
			}
		})
	}
}

func TestAttackSequence(t *testing.T) {
	h := newHarness(t)
	id := h.spawn(component.Combatant{Name: "a", Team: 1, Weapon: testSword()})

	var want []component.Phase
	for _, seg := range []struct {
		phase component.Phase
		ticks int
	}{
		{component.PhaseWindUp, 8},
		{component.PhaseSwing, 4},
		{component.PhaseRecovery, 8},
		{component.PhaseIdle, 1},
	} {
		for i := 0; i < seg.ticks; i++ {
			want = append(want, seg.phase)
		}
	}
	for i, phase := range want {
		h.step(map[Entity]component.Intent{id: {Attack: true}})
		if got := h.get(id).Action.Phase; got != phase {
			t.Fatalf("tick %d: phase = %s, want %s", i+1, got, phase)
		}
	}
}

func TestFeint(t *testing.T) {
	tests := []struct {
		name    string
		release uint64
		phase   component.Phase
		feints  int
	}{
		{"early release cancels", 2, component.PhaseIdle, 1},
		{"release on last wind-up tick swings", 9, component.PhaseSwing, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			id := h.spawn(component.Combatant{Name: "a", Team: 1, Weapon: testSword()})
			h.run(int(tt.release), func(now uint64) map[Entity]component.Intent {
				return map[Entity]component.Intent{id: {Attack: now < tt.release}}
			})
			if got := h.get(id).Action.Phase; got != tt.phase {
				t.Fatalf("phase = %s, want %s", got, tt.phase)
			}
			if h.count(ecs.EventFeint) != tt.feints {
				t.Fatalf("feints = %d, want %d", h.count(ecs.EventFeint), tt.feints)
			}
		})
	}
}

func TestHeavyCharge(t *testing.T) {
	h := newHarness(t)
	id := h.spawn(component.Combatant{Name: "a", Team: 1, Weapon: testGreatsword()})

	h.run(16, hold(id))
	if got := h.get(id).Action.Phase; got != component.PhaseWindUp {
		t.Fatalf("still charging up, got %s", got)
	}
	h.run(1, hold(id))
	if got := h.get(id).Action.Phase; got != component.PhaseChargingHeavy {
		t.Fatalf("phase = %s, want charging", got)
	}
	if h.count(ecs.EventHeavyCharged) != 1 {
		t.Fatalf("expected heavy charged event")
	}

	h.step(nil)
	a := h.get(id).Action
	if a.Phase != component.PhaseSwing || !a.Heavy {
		t.Fatalf("release should swing heavy, got %s heavy=%v", a.Phase, a.Heavy)
	}

	h.run(6, nil)
	a = h.get(id).Action
	if a.Phase != component.PhaseRecovery || a.Remaining != 20 {
		t.Fatalf("heavy recovery = %s/%d, want recovery/20", a.Phase, a.Remaining)
	}
}

func TestHeavyWeaponEarlyReleaseSwingsNormally(t *testing.T) {
	h := newHarness(t)
	id := h.spawn(component.Combatant{Name: "a", Team: 1, Weapon: testGreatsword()})

	h.run(11, hold(id))
	if a := h.get(id).Action; a.Phase != component.PhaseWindUp || a.Remaining != 0 {
		t.Fatalf("expected held wind-up at 0, got %s/%d", a.Phase, a.Remaining)
	}
	h.step(nil)
	a := h.get(id).Action
	if a.Phase != component.PhaseSwing || a.Heavy {
		t.Fatalf("expected normal swing, got %s heavy=%v", a.Phase, a.Heavy)
	}
}

func TestCombo(t *testing.T) {
	h := newHarness(t)
	a := h.spawn(component.Combatant{Name: "a", Team: 1, Weapon: testSword()})
	b := h.spawn(component.Combatant{Name: "b", Team: 2, Pos: cp.Vector{X: 1}, Facing: math.Pi, MaxHealth: 1000})

	input := func(now uint64) map[Entity]component.Intent {
		return map[Entity]component.Intent{a: {Attack: now <= 13 || now >= 15}}
	}
	h.run(10, input)
	if got := h.get(b).Health; got != 990 {
		t.Fatalf("first hit: health = %v, want 990", got)
	}

	h.run(11, input)
	act := h.get(a).Action
	if act.Phase != component.PhaseWindUp || act.Combo != 1 || act.Remaining != 4 {
		t.Fatalf("chained wind-up = %s combo %d rem %d, want wind_up combo 1 rem 4", act.Phase, act.Combo, act.Remaining)
	}

	h.run(5, input)
	if got := h.get(b).Health; got != 980 {
		t.Fatalf("second hit: health = %v, want 980", got)
	}
}

func TestWhiffResetsCombo(t *testing.T) {
	h := newHarness(t)
	a := h.spawn(component.Combatant{Name: "a", Team: 1, Weapon: testSword()})

	h.run(21, func(now uint64) map[Entity]component.Intent {
		return map[Entity]component.Intent{a: {Attack: now <= 13 || now >= 15}}
	})
	act := h.get(a).Action
	if act.Phase != component.PhaseIdle || act.Combo != 0 || act.ComboQueued {
		t.Fatalf("after a whiff: %s combo %d queued %v", act.Phase, act.Combo, act.ComboQueued)
	}
}

func TestFacingLockedDuringSwing(t *testing.T) {
	h := newHarness(t)
	id := h.spawn(component.Combatant{Name: "a", Team: 1, Weapon: testSword()})

	turn := component.Intent{Attack: true}
	turn.Face(math.Pi / 2)

	h.run(8, hold(id))
	h.step(map[Entity]component.Intent{id: turn})
	if got := h.get(id); got.Action.Phase != component.PhaseSwing || got.Facing != 0 {
		t.Fatalf("swing turned to %v in %s", got.Facing, got.Action.Phase)
	}
	h.run(4, func(uint64) map[Entity]component.Intent { return map[Entity]component.Intent{id: turn} })
	if got := h.get(id); got.Action.Phase != component.PhaseRecovery || got.Facing != math.Pi/2 {
		t.Fatalf("recovery facing = %v in %s", got.Facing, got.Action.Phase)
	}
}

func TestMovementScalesByPhase(t *testing.T) {
	tests := []struct {
		name   string
		attack bool
		want   float64
	}{
		{"idle", false, 0.15},
		{"wind-up", true, 0.075},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			id := h.spawn(component.Combatant{Name: "a", Team: 1, Weapon: testSword()})
			h.step(map[Entity]component.Intent{id: {Attack: tt.attack, Move: cp.Vector{X: 1}}})
			if got := h.get(id).Pos.X; math.Abs(got-tt.want) > 1e-9 {
				t.Fatalf("moved %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSprintStopsWhenDepleted(t *testing.T) {
	h := newHarness(t)
	id := h.spawn(component.Combatant{
		Name: "a", Team: 1, Weapon: testSword(),
		Stamina: component.Stamina{Current: 3, Max: 100},
	})
	run := func(uint64) map[Entity]component.Intent {
		return map[Entity]component.Intent{id: {Move: cp.Vector{X: 1}, Sprint: true}}
	}

	want := []struct {
		sprinting bool
		depleted  bool
	}{
		{true, false},
		{true, true},
		{false, true},
	}
	for i, w := range want {
		h.run(1, run)
		c := h.get(id)
		if c.Action.Sprinting != w.sprinting || c.Stamina.Depleted != w.depleted {
			t.Fatalf("tick %d: sprinting=%v depleted=%v, want %v/%v", i+1, c.Action.Sprinting, c.Stamina.Depleted, w.sprinting, w.depleted)
		}
	}
	if got := h.get(id).Pos.X; math.Abs(got-0.63) > 1e-9 {
		t.Fatalf("distance = %v, want 0.63", got)
	}
}

func TestAttackStaminaCosts(t *testing.T) {
	tests := []struct {
		name    string
		costs   bool
		stamina float64
		delay   int
	}{
		{name: "costs on", costs: true, stamina: 92, delay: 16},
		{name: "costs off", costs: false, stamina: 100, delay: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			h.rules.Stamina.AttackCosts = tt.costs
			w := testSword()
			w.AttackStamina = 8
			id := h.spawn(component.Combatant{Name: "a", Team: 1, Weapon: w})

			h.step(map[Entity]component.Intent{id: {Attack: true}})
			c := h.get(id)
			if c.Action.Phase != component.PhaseWindUp {
				t.Fatalf("phase = %s, want wind_up", c.Action.Phase)
			}
			if math.Abs(c.Stamina.Current-tt.stamina) > 1e-9 {
				t.Fatalf("stamina = %v, want %v", c.Stamina.Current, tt.stamina)
			}
			if c.Stamina.RegenDelay != tt.delay {
				t.Fatalf("regen delay = %d, want %d", c.Stamina.RegenDelay, tt.delay)
			}
		})
	}
}
