package prefabs

import (
	"fmt"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
)

// AI scripts define `decide := func(engine, view) { ... }`; the dispatch line
// calls it with the bound engine and view and stores what it returns.
const aiDecideDispatchScript = `
__result = decide(__engine, __view)
`

// CompileAIScript compiles an AI script together with its dispatch call.
func CompileAIScript(src []byte) (*tengo.Compiled, error) {
	script := tengo.NewScript([]byte(string(src) + "\n" + aiDecideDispatchScript))
	_ = script.Add("__engine", map[string]any{})
	_ = script.Add("__view", map[string]any{})
	_ = script.Add("__result", nil)
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))
	return script.Compile()
}

// CheckScript resolves a named AI script and compiles it once.
func CheckScript(name string) error {
	src, err := LoadScript(name)
	if err != nil {
		return fmt.Errorf("%w: script %q: %w", ErrUnknownProfile, name, err)
	}
	if _, err := CompileAIScript(src); err != nil {
		return fmt.Errorf("%w: script %q: %w", ErrUnknownProfile, name, err)
	}
	return nil
}
