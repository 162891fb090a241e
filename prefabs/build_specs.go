package prefabs

import (
	"fmt"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/skirmish/common"
	"github.com/milk9111/skirmish/ecs/component"
)

// CombatantSpec describes one participant of a scenario. NPCs must name an AI
// difficulty and personality; players leave both empty.
type CombatantSpec struct {
	Name        string           `yaml:"name"`
	Team        int              `yaml:"team"`
	Player      bool             `yaml:"player"`
	Position    [2]float64       `yaml:"position"`
	Facing      float64          `yaml:"facing"`
	Health      float64          `yaml:"health"`
	Weapon      string           `yaml:"weapon"`
	Shield      bool             `yaml:"shield"`
	Skills      component.Skills `yaml:"skills"`
	Difficulty  string           `yaml:"difficulty"`
	Personality string           `yaml:"personality"`
	Script      string           `yaml:"script"`
}

// Build resolves the weapon and AI profile references. Facing is given in
// degrees.
func (s CombatantSpec) Build(cat *component.Catalog, tables *AITables) (component.Combatant, error) {
	c := component.Combatant{
		Name:      s.Name,
		Team:      s.Team,
		Player:    s.Player,
		Pos:       cp.Vector{X: s.Position[0], Y: s.Position[1]},
		Facing:    common.NormalizeAngle(common.Radians(s.Facing)),
		MaxHealth: s.Health,
		Shield:    s.Shield,
		Skills:    s.Skills.Clamped(),
	}
	if c.MaxHealth <= 0 {
		c.MaxHealth = 100
	}

	if s.Weapon != "" {
		w, err := Weapon(cat, s.Weapon)
		if err != nil {
			return component.Combatant{}, fmt.Errorf("combatant %q: %w", s.Name, err)
		}
		if s.Shield && !w.ShieldCompatible {
			return component.Combatant{}, fmt.Errorf("combatant %q: %w: %s cannot be used with a shield", s.Name, ErrInvalidWeapon, w.Name)
		}
		c.Weapon = w
	}

	if s.Player {
		return c, nil
	}
	if s.Difficulty == "" || s.Personality == "" {
		return component.Combatant{}, fmt.Errorf("combatant %q: %w: an npc needs a difficulty and a personality", s.Name, ErrUnknownProfile)
	}
	if tables == nil {
		return component.Combatant{}, fmt.Errorf("combatant %q: %w: no ai tables loaded", s.Name, ErrUnknownProfile)
	}
	if s.Script != "" {
		if err := CheckScript(s.Script); err != nil {
			return component.Combatant{}, fmt.Errorf("combatant %q: %w", s.Name, err)
		}
	}
	prof, err := tables.Profile(s.Difficulty, s.Personality, s.Script)
	if err != nil {
		return component.Combatant{}, fmt.Errorf("combatant %q: %w", s.Name, err)
	}
	c.AI = prof
	return c, nil
}
