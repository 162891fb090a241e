package prefabs

import (
	"errors"
	"fmt"

	"github.com/milk9111/skirmish/ecs/component"
)

// Scenario is a resolved encounter ready to be spawned.
type Scenario struct {
	Name        string
	Description string
	Seed        int64
	Duration    float64
	Terrain     component.Terrain
	Combatants  []component.Combatant
}

func LoadScenarioSpec(name string) (ScenarioSpec, error) {
	return LoadSpec[ScenarioSpec](scenarioPath(name))
}

// LoadScenario reads a scenario and resolves its weapons and AI profiles.
func LoadScenario(name string, cat *component.Catalog, tables *AITables) (*Scenario, error) {
	spec, err := LoadScenarioSpec(name)
	if err != nil {
		return nil, err
	}
	sc, err := spec.Build(cat, tables)
	if err != nil {
		return nil, fmt.Errorf("prefabs: scenario %s: %w", name, err)
	}
	return sc, nil
}

func (s ScenarioSpec) Build(cat *component.Catalog, tables *AITables) (*Scenario, error) {
	sc := &Scenario{
		Name:        s.Name,
		Description: s.Description,
		Seed:        s.Seed,
		Duration:    s.Duration,
		Terrain:     component.Terrain(s.Terrain),
	}
	if sc.Terrain.Chokepoint && sc.Terrain.MaxAttackers < 1 {
		sc.Terrain.MaxAttackers = 1
	}

	var errs []error
	if len(s.Combatants) == 0 {
		errs = append(errs, errors.New("no combatants"))
	}
	if s.Duration < 0 {
		errs = append(errs, fmt.Errorf("negative duration %v", s.Duration))
	}
	for _, cs := range s.Combatants {
		c, err := cs.Build(cat, tables)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		sc.Combatants = append(sc.Combatants, c)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return sc, nil
}
