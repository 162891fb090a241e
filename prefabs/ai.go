package prefabs

import (
	"errors"
	"fmt"
	"sort"

	"github.com/milk9111/skirmish/ecs/component"
)

var ErrUnknownProfile = errors.New("unknown ai profile")

const AIFile = "ai.yaml"

// AITables holds the difficulty tiers and personalities NPC profiles are
// assembled from.
type AITables struct {
	difficulties  map[string]component.Difficulty
	personalities map[string]component.Personality
	scripts       map[string]string
}

func LoadAITables(filename string) (*AITables, error) {
	spec, err := LoadSpec[AITablesSpec](filename)
	if err != nil {
		return nil, err
	}
	tables, err := BuildAITables(spec)
	if err != nil {
		return nil, fmt.Errorf("prefabs: %s: %w", filename, err)
	}
	return tables, nil
}

func BuildAITables(spec AITablesSpec) (*AITables, error) {
	var errs []error
	if len(spec.Difficulties) == 0 {
		errs = append(errs, errors.New("no difficulty tiers"))
	}
	if len(spec.Personalities) == 0 {
		errs = append(errs, errors.New("no personalities"))
	}

	t := &AITables{
		difficulties:  make(map[string]component.Difficulty, len(spec.Difficulties)),
		personalities: make(map[string]component.Personality, len(spec.Personalities)),
		scripts:       map[string]string{},
	}
	for _, name := range sortedKeys(spec.Difficulties) {
		d := spec.Difficulties[name]
		if d.ReactionDelay < 0 || d.ReactionJitter < 0 || !unit(d.ParryAttemptRate) || !unit(d.ParrySuccessRate) {
			errs = append(errs, fmt.Errorf("difficulty %q: rates must be in [0, 1] and delays non-negative", name))
			continue
		}
		t.difficulties[name] = component.Difficulty{
			Name:             name,
			ReactionDelay:    d.ReactionDelay,
			ReactionJitter:   d.ReactionJitter,
			ParryAttemptRate: d.ParryAttemptRate,
			ParrySuccessRate: d.ParrySuccessRate,
		}
	}
	for _, name := range sortedKeys(spec.Personalities) {
		p := spec.Personalities[name]
		if !unit(p.Aggression) || !unit(p.BlockFrequency) || !unit(p.RetreatHealth) || !unit(p.RetreatStamina) {
			errs = append(errs, fmt.Errorf("personality %q: values must be in [0, 1]", name))
			continue
		}
		t.personalities[name] = component.Personality{
			Name:           name,
			Aggression:     p.Aggression,
			BlockFrequency: p.BlockFrequency,
			RetreatHealth:  p.RetreatHealth,
			RetreatStamina: p.RetreatStamina,
		}
		if p.Script != "" {
			if err := CheckScript(p.Script); err != nil {
				errs = append(errs, fmt.Errorf("personality %q: %w", name, err))
				continue
			}
			t.scripts[name] = p.Script
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return t, nil
}

// Profile assembles an NPC profile. A script named here wins over one set on
// the personality.
func (t *AITables) Profile(difficulty, personality, script string) (*component.AIProfile, error) {
	d, ok := t.difficulties[difficulty]
	if !ok {
		return nil, fmt.Errorf("%w: difficulty %q", ErrUnknownProfile, difficulty)
	}
	p, ok := t.personalities[personality]
	if !ok {
		return nil, fmt.Errorf("%w: personality %q", ErrUnknownProfile, personality)
	}
	if script == "" {
		script = t.scripts[personality]
	}
	return &component.AIProfile{Difficulty: d, Personality: p, Script: script}, nil
}

func (t *AITables) Difficulties() []string {
	return sortedKeys(t.difficulties)
}

func (t *AITables) Personalities() []string {
	return sortedKeys(t.personalities)
}

func unit(v float64) bool {
	return v >= 0 && v <= 1
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
