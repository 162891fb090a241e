package system

import (
	"fmt"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/skirmish/common"
	"github.com/milk9111/skirmish/ecs"
	"github.com/milk9111/skirmish/ecs/component"
	"github.com/milk9111/skirmish/prefabs"
	"go.uber.org/zap"
)

// scriptCache compiles each named script once. Scripts return a map that
// overrides parts of the computed intent: state, attack, block, sprint,
// advance (1 toward, -1 away, 0 hold).
type scriptCache struct {
	load     func(name string) ([]byte, error)
	compiled map[string]*tengo.Compiled
	failed   map[string]bool
}

func newScriptCache() *scriptCache {
	return &scriptCache{
		load:     prefabs.LoadScript,
		compiled: map[string]*tengo.Compiled{},
		failed:   map[string]bool{},
	}
}

func (c *scriptCache) get(name string) (*tengo.Compiled, error) {
	if compiled, ok := c.compiled[name]; ok {
		return compiled, nil
	}
	if c.failed[name] {
		return nil, fmt.Errorf("script %s failed to compile earlier", name)
	}

	src, err := c.load(name)
	if err != nil {
		c.failed[name] = true
		return nil, err
	}

	compiled, err := prefabs.CompileAIScript(src)
	if err != nil {
		c.failed[name] = true
		return nil, err
	}
	c.compiled[name] = compiled
	return compiled, nil
}

// scripted runs the NPC's decide script and merges its overrides into the
// intent. Script failures keep the computed intent.
func (s *AISystem) scripted(t *ecs.Tick, v View, b Baseline, brain *component.Brain, in component.Intent) component.Intent {
	name := v.Self.AI.Script
	compiled, err := s.scripts.get(name)
	if err != nil {
		s.warnScript(t, v.Self, "load", err)
		return in
	}

	if err := compiled.Set("__engine", buildAIScriptEngine(t, v.Self)); err != nil {
		s.warnScript(t, v.Self, "bind engine", err)
		return in
	}
	if err := compiled.Set("__view", scriptView(v, b, brain)); err != nil {
		s.warnScript(t, v.Self, "bind view", err)
		return in
	}
	if err := compiled.Run(); err != nil {
		s.warnScript(t, v.Self, "run", err)
		return in
	}

	result := compiled.Get("__result").Map()
	if result == nil {
		return in
	}

	if name, ok := result["state"].(string); ok {
		if state, ok := component.ParseAIState(strings.TrimSpace(name)); ok {
			brain.State = state
		}
	}
	if attack, ok := result["attack"].(bool); ok {
		in.Attack = attack
	}
	if block, ok := result["block"].(bool); ok {
		in.Block = block
	}
	if sprint, ok := result["sprint"].(bool); ok {
		in.Sprint = sprint
	}
	if adv, ok := numeric(result["advance"]); ok && v.Target != nil {
		toward := v.Target.Pos.Sub(v.Self.Pos).Normalize()
		switch {
		case adv > 0:
			in.Move = toward
		case adv < 0:
			in.Move = toward.Neg()
		default:
			in.Move = cp.Vector{}
		}
	}
	return in
}

func (s *AISystem) warnScript(t *ecs.Tick, self *component.Combatant, stage string, err error) {
	if t.Log == nil || s.warned[self.ID] {
		return
	}
	s.warned[self.ID] = true
	t.Log.Warn("ai script failed, using computed intent",
		zap.String("name", self.Name),
		zap.String("script", self.AI.Script),
		zap.String("stage", stage),
		zap.Error(err),
	)
}

func scriptView(v View, b Baseline, brain *component.Brain) map[string]any {
	self := v.Self
	view := map[string]any{
		"state":          string(brain.State),
		"role":           brain.Role.String(),
		"phase":          self.Action.Phase.String(),
		"distance":       v.Distance,
		"reach":          v.Reach,
		"range":          b.Range,
		"health":         self.HealthFraction(),
		"stamina":        self.Stamina.Fraction(),
		"bleed":          self.Status.Bleed,
		"dazed":          self.Status.Dazed(),
		"allies":         v.Allies,
		"chokepoint":     v.Terrain.Chokepoint,
		"target_phase":   "",
		"target_remains": 0,
		"target_health":  0.0,
	}
	if v.Target != nil {
		view["target_phase"] = v.Target.Action.Phase.String()
		view["target_remains"] = v.Target.Action.Remaining
		view["target_health"] = v.Target.HealthFraction()
	}
	return view
}

func buildAIScriptEngine(t *ecs.Tick, self *component.Combatant) *tengo.ImmutableMap {
	values := map[string]tengo.Object{}

	values["chance"] = &tengo.UserFunction{Name: "chance", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 1 {
			return tengo.FalseValue, nil
		}
		p, ok := numeric(objectToAny(args[0]))
		if !ok {
			return tengo.FalseValue, nil
		}
		if common.Chance(t.Rand, p) {
			return tengo.TrueValue, nil
		}
		return tengo.FalseValue, nil
	}}

	values["log"] = &tengo.UserFunction{Name: "log", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if t.Log == nil || len(args) < 1 {
			return tengo.UndefinedValue, nil
		}
		t.Log.Debug("ai script",
			zap.String("name", self.Name),
			zap.String("msg", objectAsString(args[0])),
		)
		return tengo.UndefinedValue, nil
	}}

	values["tick"] = &tengo.UserFunction{Name: "tick", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return &tengo.Int{Value: int64(t.Now)}, nil
	}}

	return &tengo.ImmutableMap{Value: values}
}

func numeric(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

func objectAsString(obj tengo.Object) string {
	if obj == nil {
		return ""
	}
	switch v := obj.(type) {
	case *tengo.String:
		return v.Value
	default:
		return strings.Trim(v.String(), "\"")
	}
}

func objectToAny(obj tengo.Object) any {
	if obj == nil {
		return nil
	}

	switch v := obj.(type) {
	case *tengo.String:
		return v.Value
	case *tengo.Int:
		return int(v.Value)
	case *tengo.Float:
		return v.Value
	case *tengo.Bool:
		return !v.IsFalsy()
	case *tengo.Undefined:
		return nil
	default:
		return v.String()
	}
}
