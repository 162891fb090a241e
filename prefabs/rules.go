package prefabs

import (
	"errors"
	"fmt"

	"github.com/milk9111/skirmish/ecs/component"
)

const RulesFile = "engine.yaml"

// LoadRules overlays filename on the built-in defaults.
func LoadRules(filename string) (component.Rules, error) {
	r := component.DefaultRules()
	if err := LoadSpecInto(filename, &r); err != nil {
		return component.Rules{}, err
	}
	if err := ValidateRules(r); err != nil {
		return component.Rules{}, fmt.Errorf("prefabs: %s: %w", filename, err)
	}
	return r, nil
}

type namedDuration struct {
	name    string
	seconds float64
}

// timers lists the rules durations that are counted down in whole ticks.
func timers(r component.Rules) []namedDuration {
	return []namedDuration{
		{"hit_stun", r.HitStun},
		{"combo_window", r.ComboWindow},
		{"clash.window", r.Clash.Window},
		{"clash.recovery", r.Clash.Recovery},
		{"guard_break.stun", r.GuardBreak.Stun},
		{"stamina.regen_delay", r.Stamina.RegenDelay},
		{"status.light_stagger", r.Status.LightStagger},
		{"status.medium_stagger", r.Status.MediumStagger},
		{"status.heavy_stagger", r.Status.HeavyStagger},
		{"status.heavy_lock", r.Status.HeavyLock},
		{"status.concuss_decay", r.Status.ConcussDecay},
		{"status.knockout", r.Status.Knockout},
		{"status.cure_time", r.Status.CureTime},
		{"status.hit_flash", r.Status.HitFlash},
	}
}

func ValidateRules(r component.Rules) error {
	var errs []error
	if r.TickRate <= 0 {
		errs = append(errs, fmt.Errorf("tick_rate %v must be positive", r.TickRate))
	} else {
		for _, d := range timers(r) {
			if d.seconds < 0 || !r.WholeTicks(d.seconds) {
				errs = append(errs, fmt.Errorf("%s %vs is not a whole number of ticks at %v Hz", d.name, d.seconds, r.TickRate))
			}
		}
	}
	if r.Stamina.Base <= 0 {
		errs = append(errs, errors.New("stamina.base must be positive"))
	}
	if r.Status.ConcussThreshold <= 0 {
		errs = append(errs, errors.New("status.concuss_threshold must be positive"))
	}
	if r.Flank.FrontMax <= 0 || r.Flank.SideMax <= r.Flank.FrontMax || r.Flank.SideMax > 180 {
		errs = append(errs, fmt.Errorf("flank bounds %v/%v", r.Flank.FrontMax, r.Flank.SideMax))
	}
	if r.GuardBreak.DamageMultiplier < 1 {
		errs = append(errs, errors.New("guard_break.damage_multiplier below 1"))
	}
	return errors.Join(errs...)
}

// ValidateTiming checks that every weapon's catalog phases land on tick
// boundaries, so a swing lasts exactly its catalog time.
func ValidateTiming(r component.Rules, cat *component.Catalog) error {
	var errs []error
	for _, name := range cat.Names() {
		w, _ := cat.Lookup(name)
		phases := []namedDuration{
			{"wind_up", w.WindUp},
			{"swing", w.Swing},
			{"recovery", w.Recovery},
		}
		if w.HasHeavy() {
			phases = append(phases,
				namedDuration{"heavy.charge_time", w.Heavy.ChargeTime},
				namedDuration{"heavy.recovery_penalty", w.Heavy.RecoveryPenalty},
			)
		}
		for _, d := range phases {
			if !r.WholeTicks(d.seconds) {
				errs = append(errs, fmt.Errorf("%w: %s %s %vs is not a whole number of ticks at %v Hz", ErrInvalidWeapon, name, d.name, d.seconds, r.TickRate))
			}
		}
	}
	return errors.Join(errs...)
}
