package prefabs

import (
	"errors"
	"fmt"

	"github.com/milk9111/skirmish/ecs/component"
)

var (
	ErrUnknownWeapon = errors.New("unknown weapon")
	ErrInvalidWeapon = errors.New("invalid weapon")
)

const WeaponsFile = "weapons.yaml"

// LoadCatalog reads and validates the weapon catalog. Every problem found is
// reported, not only the first.
func LoadCatalog(filename string) (*component.Catalog, error) {
	spec, err := LoadSpec[WeaponCatalogSpec](filename)
	if err != nil {
		return nil, err
	}
	cat, err := BuildCatalog(spec)
	if err != nil {
		return nil, fmt.Errorf("prefabs: %s: %w", filename, err)
	}
	return cat, nil
}

func BuildCatalog(spec WeaponCatalogSpec) (*component.Catalog, error) {
	if len(spec.Weapons) == 0 {
		return nil, fmt.Errorf("%w: catalog is empty", ErrInvalidWeapon)
	}

	var errs []error
	seen := map[string]bool{}
	weapons := make([]*component.Weapon, 0, len(spec.Weapons))
	for i, ws := range spec.Weapons {
		w, err := ws.Build()
		if err != nil {
			errs = append(errs, fmt.Errorf("weapon %d (%q): %w", i, ws.Name, err))
			continue
		}
		if seen[w.Name] {
			errs = append(errs, fmt.Errorf("%w: duplicate name %q", ErrInvalidWeapon, w.Name))
			continue
		}
		seen[w.Name] = true
		weapons = append(weapons, w)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return component.NewCatalog(weapons...), nil
}

// Build converts one catalog row into an immutable weapon record.
func (s WeaponSpec) Build() (*component.Weapon, error) {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidWeapon}, args...)...))
	}

	if s.Name == "" {
		bad("missing name")
	}
	class, ok := component.ParseWeaponClass(s.Class)
	if !ok {
		bad("unknown class %q", s.Class)
	}
	stagger, ok := component.ParseStaggerLevel(s.Effects.Stagger)
	if !ok {
		bad("unknown stagger level %q", s.Effects.Stagger)
	}
	if s.Reach <= 0 {
		bad("reach must be positive")
	}
	if s.Cone <= 0 || s.Cone > 360 {
		bad("cone %v outside (0, 360]", s.Cone)
	}
	if s.WindUp <= 0 || s.Swing <= 0 || s.Recovery < 0 {
		bad("phase durations %v/%v/%v", s.WindUp, s.Swing, s.Recovery)
	}
	if s.Damage[0] < 0 || s.Damage[1] < s.Damage[0] {
		bad("damage range %v", s.Damage)
	}
	if s.Hands < 1 || s.Hands > 2 {
		bad("hands must be 1 or 2")
	}
	if s.Hands == 2 && s.ShieldCompatible {
		bad("two-handed weapons cannot take a shield")
	}
	if s.Combo.Hits > 1 && len(s.Combo.Steps) != s.Combo.Hits {
		bad("combo has %d hits but %d steps", s.Combo.Hits, len(s.Combo.Steps))
	}
	if s.Effects.KnockoutChance < 0 || s.Effects.KnockoutChance > 1 {
		bad("knockout chance %v outside [0, 1]", s.Effects.KnockoutChance)
	}
	if s.Heavy.ChargeTime > 0 && s.Heavy.Multiplier <= 1 {
		bad("heavy multiplier must exceed 1")
	}
	for _, b := range []*BlockSpec{s.ShieldBlock, s.WeaponBlock} {
		if b != nil && (b.Arc <= 0 || b.ParryWindow < 0 || b.ParryStagger < 0 || b.StaminaCost < 0) {
			bad("block stats %+v", *b)
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	w := &component.Weapon{
		Name:             s.Name,
		Class:            class,
		Hands:            s.Hands,
		ShieldCompatible: s.ShieldCompatible,
		Reach:            s.Reach,
		ThrustReachBonus: s.ThrustReachBonus,
		Cone:             s.Cone,
		WindUp:           s.WindUp,
		Swing:            s.Swing,
		Recovery:         s.Recovery,
		DamageMin:        s.Damage[0],
		DamageMax:        s.Damage[1],
		AttackStamina:    s.AttackStamina,
		Heavy: component.HeavyAttack{
			Enabled:         s.Heavy.ChargeTime > 0,
			ChargeTime:      s.Heavy.ChargeTime,
			Multiplier:      s.Heavy.Multiplier,
			RecoveryPenalty: s.Heavy.RecoveryPenalty,
		},
		Combo: component.Combo{
			Hits:        s.Combo.Hits,
			WindUpScale: s.Combo.WindUpScale,
		},
		ShieldBlock: s.ShieldBlock.stats(),
		WeaponBlock: s.WeaponBlock.stats(),
		Effects: component.Effects{
			Bleed:               s.Effects.Bleed,
			Stagger:             stagger,
			StaggerThroughBlock: s.Effects.StaggerThroughBlock,
			ConcussBuildup:      s.Effects.ConcussBuildup,
			KnockoutChance:      s.Effects.KnockoutChance,
		},
		Movement: component.Movement(s.Movement),
	}
	for _, step := range s.Combo.Steps {
		w.Combo.Steps = append(w.Combo.Steps, component.ComboStep(step))
	}
	if w.Movement == (component.Movement{}) {
		w.Movement = component.Movement{Idle: 1, WindUp: 0.5, Charging: 0.3, Swing: 0.2, Recovery: 0.5, Blocking: 0.5}
	}
	return w, nil
}

func (b *BlockSpec) stats() component.BlockStats {
	if b == nil {
		return component.BlockStats{}
	}
	return component.BlockStats{
		Enabled:      true,
		Arc:          b.Arc,
		ParryWindow:  b.ParryWindow,
		ParryStagger: b.ParryStagger,
		StaminaCost:  b.StaminaCost,
	}
}

// Weapon looks up name in cat, wrapping ErrUnknownWeapon.
func Weapon(cat *component.Catalog, name string) (*component.Weapon, error) {
	w, ok := cat.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownWeapon, name)
	}
	return w, nil
}
