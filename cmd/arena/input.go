package main

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/skirmish/common"
	"github.com/milk9111/skirmish/ecs"
	"github.com/milk9111/skirmish/ecs/component"
)

// keyboardPilot turns the keys held during the last Update into an intent.
type keyboardPilot struct {
	move   cp.Vector
	cursor cp.Vector
	attack bool
	block  bool
	sprint bool
	cure   bool
}

func (k *keyboardPilot) poll() {
	k.move = cp.Vector{}
	if ebiten.IsKeyPressed(ebiten.KeyW) {
		k.move.Y--
	}
	if ebiten.IsKeyPressed(ebiten.KeyS) {
		k.move.Y++
	}
	if ebiten.IsKeyPressed(ebiten.KeyA) {
		k.move.X--
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) {
		k.move.X++
	}
	if k.move.LengthSq() > 0 {
		k.move = k.move.Normalize()
	}

	mx, my := ebiten.CursorPosition()
	k.cursor = cp.Vector{
		X: (float64(mx) - baseWidth/2) / pixelsPerMeter,
		Y: (float64(my) - baseHeight/2) / pixelsPerMeter,
	}
	k.attack = ebiten.IsKeyPressed(ebiten.KeyJ) || ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	k.block = ebiten.IsKeyPressed(ebiten.KeyK) || ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight)
	k.sprint = ebiten.IsKeyPressed(ebiten.KeyShift)
	k.cure = ebiten.IsKeyPressed(ebiten.KeyC)
}

func (k *keyboardPilot) Intent(s *ecs.Snapshot, self ecs.Entity) component.Intent {
	in := component.Intent{
		Move:   k.move,
		Attack: k.attack,
		Block:  k.block,
		Sprint: k.sprint,
		Cure:   k.cure,
	}
	if me, ok := s.Get(self); ok && me.Pos.Distance(k.cursor) > 0.1 {
		in.Face(common.AngleTo(me.Pos, k.cursor))
	}
	return in
}
