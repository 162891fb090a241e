package prefabs

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// LoadSpecInto decodes filename over an already populated value, so fields
// the file leaves out keep their defaults.
func LoadSpecInto[T any](filename string, into *T) error {
	data, err := Load(filename)
	if err != nil {
		return fmt.Errorf("prefabs: load %s: %w", filename, err)
	}
	if err := yaml.Unmarshal(data, into); err != nil {
		return fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}
	return nil
}

type WeaponCatalogSpec struct {
	Weapons []WeaponSpec `yaml:"weapons"`
}

type WeaponSpec struct {
	Name             string       `yaml:"name"`
	Class            string       `yaml:"class"`
	Hands            int          `yaml:"hands"`
	ShieldCompatible bool         `yaml:"shield_compatible"`
	Reach            float64      `yaml:"reach"`
	ThrustReachBonus float64      `yaml:"thrust_reach_bonus"`
	Cone             float64      `yaml:"cone"`
	WindUp           float64      `yaml:"wind_up"`
	Swing            float64      `yaml:"swing"`
	Recovery         float64      `yaml:"recovery"`
	Damage           [2]float64   `yaml:"damage"`
	AttackStamina    float64      `yaml:"attack_stamina"`
	Heavy            HeavySpec    `yaml:"heavy"`
	Combo            ComboSpec    `yaml:"combo"`
	ShieldBlock      *BlockSpec   `yaml:"shield_block"`
	WeaponBlock      *BlockSpec   `yaml:"weapon_block"`
	Effects          EffectsSpec  `yaml:"effects"`
	Movement         MovementSpec `yaml:"movement"`
}

type HeavySpec struct {
	ChargeTime      float64 `yaml:"charge_time"`
	Multiplier      float64 `yaml:"multiplier"`
	RecoveryPenalty float64 `yaml:"recovery_penalty"`
}

type ComboSpec struct {
	Hits        int             `yaml:"hits"`
	WindUpScale float64         `yaml:"wind_up_scale"`
	Steps       []ComboStepSpec `yaml:"steps"`
}

type ComboStepSpec struct {
	DamageBonus   float64 `yaml:"damage_bonus"`
	RecoveryBonus float64 `yaml:"recovery_bonus"`
}

type BlockSpec struct {
	Arc          float64 `yaml:"arc"`
	ParryWindow  float64 `yaml:"parry_window"`
	ParryStagger float64 `yaml:"parry_stagger"`
	StaminaCost  float64 `yaml:"stamina_cost"`
}

type EffectsSpec struct {
	Bleed               bool    `yaml:"bleed"`
	Stagger             string  `yaml:"stagger"`
	StaggerThroughBlock bool    `yaml:"stagger_through_block"`
	ConcussBuildup      float64 `yaml:"concuss_buildup"`
	KnockoutChance      float64 `yaml:"knockout_chance"`
}

type MovementSpec struct {
	Idle     float64 `yaml:"idle"`
	WindUp   float64 `yaml:"wind_up"`
	Charging float64 `yaml:"charging"`
	Swing    float64 `yaml:"swing"`
	Recovery float64 `yaml:"recovery"`
	Blocking float64 `yaml:"blocking"`
}

type AITablesSpec struct {
	Difficulties  map[string]DifficultySpec  `yaml:"difficulties"`
	Personalities map[string]PersonalitySpec `yaml:"personalities"`
}

type DifficultySpec struct {
	ReactionDelay    float64 `yaml:"reaction_delay"`
	ReactionJitter   float64 `yaml:"reaction_jitter"`
	ParryAttemptRate float64 `yaml:"parry_attempt_rate"`
	ParrySuccessRate float64 `yaml:"parry_success_rate"`
}

type PersonalitySpec struct {
	Aggression     float64 `yaml:"aggression"`
	BlockFrequency float64 `yaml:"block_frequency"`
	RetreatHealth  float64 `yaml:"retreat_health"`
	RetreatStamina float64 `yaml:"retreat_stamina"`
	Script         string  `yaml:"script"`
}

type ScenarioSpec struct {
	Name        string          `yaml:"name"`
	Description string          `yaml:"description"`
	Seed        int64           `yaml:"seed"`
	Duration    float64         `yaml:"duration"`
	Terrain     TerrainSpec     `yaml:"terrain"`
	Combatants  []CombatantSpec `yaml:"combatants"`
}

type TerrainSpec struct {
	Chokepoint   bool `yaml:"chokepoint"`
	MaxAttackers int  `yaml:"max_attackers"`
	Cover        bool `yaml:"cover"`
}
