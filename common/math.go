package common

import (
	"math"

	"github.com/jakecoffman/cp"
)

func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// NormalizeAngle wraps a radian angle into (-pi, pi].
func NormalizeAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a <= -math.Pi {
		a += 2 * math.Pi
	} else if a > math.Pi {
		a -= 2 * math.Pi
	}
	return a
}

// AngleTo returns the heading in radians from a towards b.
func AngleTo(from, to cp.Vector) float64 {
	return to.Sub(from).ToAngle()
}

// AngleDiffDegrees returns the absolute difference between two headings in degrees, in [0, 180].
func AngleDiffDegrees(a, b float64) float64 {
	return math.Abs(NormalizeAngle(a-b)) * 180 / math.Pi
}

// InCone reports whether target lies within a cone of arcDegrees centered on facing at origin.
func InCone(origin cp.Vector, facing float64, target cp.Vector, arcDegrees float64) bool {
	if target.Distance(origin) == 0 {
		return true
	}
	return AngleDiffDegrees(facing, AngleTo(origin, target)) <= arcDegrees/2
}

// PointOnCircle returns the point at radius r around center along heading.
func PointOnCircle(center cp.Vector, heading, r float64) cp.Vector {
	return center.Add(cp.ForAngle(heading).Mult(r))
}

func Radians(deg float64) float64 {
	return deg * math.Pi / 180
}
