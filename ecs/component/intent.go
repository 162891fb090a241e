package component

import "github.com/jakecoffman/cp"

// Intent is one tick of held inputs, produced by a player or by the AI.
// Press and release are detected against the previous tick's intent.
type Intent struct {
	Move      cp.Vector
	Facing    float64
	HasFacing bool
	Attack    bool
	Block     bool
	Sprint    bool
	Cure      bool
}

// Face sets the desired heading.
func (i *Intent) Face(heading float64) {
	i.Facing = heading
	i.HasFacing = true
}
