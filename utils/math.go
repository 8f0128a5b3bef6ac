package utils

import (
	"math"
)

// DegToRad converts degrees to radians.
func DegToRad(degrees float64) float64 {
	return degrees * math.Pi / 180
}

// RadToDeg converts radians to degrees.
func RadToDeg(radians float64) float64 {
	return radians * 180 / math.Pi
}

// ModTwoPi wraps an angle in radians into [0, 2pi).
func ModTwoPi(ang float64) float64 {
	ang = math.Mod(ang, 2*math.Pi)
	if ang < 0 {
		ang += 2 * math.Pi
	}
	if ang >= 2*math.Pi {
		return 0
	}
	return ang
}

// WrapPi wraps an angle in radians into (-pi, pi].
func WrapPi(ang float64) float64 {
	ang = ModTwoPi(ang)
	if ang > math.Pi {
		ang -= 2 * math.Pi
	}
	return ang
}

// AngleDiff returns the smallest absolute difference between two angles in radians.
// The arguments are commutative.
func AngleDiff(a1, a2 float64) float64 {
	d := ModTwoPi(a1 - a2)
	return math.Min(d, 2*math.Pi-d)
}

// Float64AlmostEqual compares two float64s and returns if the difference between them is less than epsilon.
func Float64AlmostEqual(a, b, epsilon float64) bool {
	return math.Abs(a-b) <= epsilon
}

// Square returns n*n.
func Square(n float64) float64 {
	return n * n
}

// IsFinite reports whether every value is neither NaN nor infinite.
func IsFinite(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
