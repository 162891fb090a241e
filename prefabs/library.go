package prefabs

import (
	"fmt"
	"sync"

	"github.com/milk9111/skirmish/ecs/component"
)

// Library is the loaded set of combat data. Reload swaps in a fresh copy only
// when every file validates, so a bad edit never replaces working data.
type Library struct {
	mu      sync.RWMutex
	rules   component.Rules
	catalog *component.Catalog
	tables  *AITables
}

func LoadLibrary() (*Library, error) {
	l := &Library{}
	if err := l.Reload(); err != nil {
		return nil, err
	}
	return l, nil
}

func (l *Library) Reload() error {
	rules, err := LoadRules(RulesFile)
	if err != nil {
		return err
	}
	cat, err := LoadCatalog(WeaponsFile)
	if err != nil {
		return err
	}
	if err := ValidateTiming(rules, cat); err != nil {
		return fmt.Errorf("prefabs: %s: %w", WeaponsFile, err)
	}
	tables, err := LoadAITables(AIFile)
	if err != nil {
		return err
	}

	l.mu.Lock()
	l.rules, l.catalog, l.tables = rules, cat, tables
	l.mu.Unlock()
	return nil
}

func (l *Library) Rules() component.Rules {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.rules
}

func (l *Library) Catalog() *component.Catalog {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.catalog
}

func (l *Library) Tables() *AITables {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.tables
}

// Scenario resolves a scenario against the current data.
func (l *Library) Scenario(name string) (*Scenario, error) {
	l.mu.RLock()
	cat, tables := l.catalog, l.tables
	l.mu.RUnlock()
	return LoadScenario(name, cat, tables)
}
