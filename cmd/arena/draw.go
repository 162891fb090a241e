package main

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/skirmish/ecs/component"
	"github.com/milk9111/skirmish/engine"
	"golang.org/x/image/colornames"
)

const (
	bodyRadius   = 0.35
	coneSegments = 12
	barWidth     = 40
	barHeight    = 4
)

var backgroundColor = color.RGBA{0x1c, 0x1c, 0x22, 0xff}

var teamColors = []color.RGBA{
	colornames.Lightgray,
	colornames.Cornflowerblue,
	colornames.Indianred,
	colornames.Mediumseagreen,
	colornames.Goldenrod,
}

func teamColor(team int) color.RGBA {
	if team < 0 || team >= len(teamColors) {
		return colornames.Plum
	}
	return teamColors[team]
}

// phaseColor tints the reach cone so telegraphs read at a glance.
func phaseColor(p component.Phase) (color.RGBA, bool) {
	switch p {
	case component.PhaseWindUp, component.PhaseChargingHeavy:
		return colornames.Orange, true
	case component.PhaseSwing:
		return colornames.Red, true
	case component.PhaseBlocking:
		return colornames.Steelblue, true
	}
	return color.RGBA{}, false
}

type projector func(x, y float64) (float32, float32)

func drawTerrain(screen *ebiten.Image, t component.Terrain, to projector) {
	if !t.Chokepoint {
		return
	}
	// The doorway sits just in front of the origin.
	x, _ := to(0.9, 0)
	gap := float32(0.8 * pixelsPerMeter)
	_, mid := to(0, 0)
	vector.DrawFilledRect(screen, x, 0, 8, mid-gap, colornames.Dimgray, false)
	vector.DrawFilledRect(screen, x, mid+gap, 8, baseHeight-mid-gap, colornames.Dimgray, false)
}

func drawCombatant(screen *ebiten.Image, c engine.CombatantView, to projector) {
	cx, cy := to(c.Pos.X, c.Pos.Y)
	r := float32(bodyRadius * pixelsPerMeter)

	body := teamColor(c.Team)
	switch {
	case c.Dead:
		vector.StrokeCircle(screen, cx, cy, r, 2, colornames.Dimgray, true)
		return
	case c.KnockedOut:
		body = colornames.Gray
	case c.Hit:
		body = colornames.White
	}

	if tint, ok := phaseColor(c.Phase); ok && c.Reach > 0 {
		drawCone(screen, c, to, tint)
	}
	vector.DrawFilledCircle(screen, cx, cy, r, body, true)
	if c.Dazed || c.Phase == component.PhaseStaggered || c.Phase == component.PhaseGuardBroken {
		vector.StrokeCircle(screen, cx, cy, r+3, 2, colornames.Yellow, true)
	}
	if c.Shield {
		sx, sy := to(c.Pos.X+math.Cos(c.Facing)*bodyRadius, c.Pos.Y+math.Sin(c.Facing)*bodyRadius)
		vector.DrawFilledCircle(screen, sx, sy, 5, colornames.Silver, true)
	}
	fx, fy := to(c.Pos.X+math.Cos(c.Facing)*bodyRadius*1.6, c.Pos.Y+math.Sin(c.Facing)*bodyRadius*1.6)
	vector.StrokeLine(screen, cx, cy, fx, fy, 2, colornames.Black, true)

	drawBar(screen, cx-barWidth/2, cy-r-12, c.Health/c.MaxHealth, colornames.Crimson)
	if c.MaxStamina > 0 {
		drawBar(screen, cx-barWidth/2, cy-r-7, c.Stamina/c.MaxStamina, colornames.Gold)
	}

	label := c.Name
	if c.Bleed > 0 {
		label += " +bleed"
	}
	if c.Telegraph > 0 {
		label += " !"
	}
	ebitenutil.DebugPrintAt(screen, label, int(cx-r), int(cy+r+2))
}

// drawCone outlines the weapon's reach as a fan around the facing.
func drawCone(screen *ebiten.Image, c engine.CombatantView, to projector, tint color.RGBA) {
	half := c.Cone * math.Pi / 360
	ox, oy := to(c.Pos.X, c.Pos.Y)
	var px, py float32
	for i := 0; i <= coneSegments; i++ {
		ang := c.Facing - half + 2*half*float64(i)/coneSegments
		x, y := to(c.Pos.X+math.Cos(ang)*c.Reach, c.Pos.Y+math.Sin(ang)*c.Reach)
		if i == 0 || i == coneSegments {
			vector.StrokeLine(screen, ox, oy, x, y, 1, tint, true)
		}
		if i > 0 {
			vector.StrokeLine(screen, px, py, x, y, 1, tint, true)
		}
		px, py = x, y
	}
}

func drawBar(screen *ebiten.Image, x, y float32, frac float64, fill color.RGBA) {
	frac = math.Max(0, math.Min(1, frac))
	vector.DrawFilledRect(screen, x, y, barWidth, barHeight, colornames.Darkslategray, false)
	vector.DrawFilledRect(screen, x, y, float32(barWidth*frac), barHeight, fill, false)
}
