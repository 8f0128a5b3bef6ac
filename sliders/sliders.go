// Package sliders describes the slider controls of each rotation view and keeps unit-length
// groups of sliders (quaternion components, rotation axis) on the unit sphere while one of them
// is dragged.
package sliders

import (
	"math"

	"github.com/samber/lo"
)

// Kind identifies what a slider controls.
type Kind string

// The slider kinds.
const (
	KindQuaternion     Kind = "quaternion"
	KindAxis           Kind = "axis"
	KindAngle          Kind = "angle"
	KindRotationVector Kind = "rotation_vector"
	KindEuler          Kind = "euler"
	KindEulerMiddle    Kind = "euler_middle"
)

// Config is the range and resolution of a slider.
type Config struct {
	Min     float64   `json:"min"`
	Max     float64   `json:"max"`
	Step    float64   `json:"step"`
	Markers []float64 `json:"markers"`
}

// ConfigFor returns the slider configuration for a kind. Angular kinds are in degrees when
// degrees is set and radians otherwise.
func ConfigFor(kind Kind, degrees bool) Config {
	scale := 1.0
	step := 0.001
	if degrees {
		scale = 180 / math.Pi
		step = 0.1
	}
	angular := func(low, high float64, markers ...float64) Config {
		c := Config{Min: low * scale, Max: high * scale, Step: step}
		for _, m := range markers {
			c.Markers = append(c.Markers, m*scale)
		}
		return c
	}
	switch kind {
	case KindQuaternion, KindAxis:
		return Config{Min: -1, Max: 1, Step: 0.001, Markers: []float64{-1, 0, 1}}
	case KindAngle:
		return angular(0, 2*math.Pi, 0, math.Pi/2, math.Pi, 3*math.Pi/2, 2*math.Pi)
	case KindRotationVector:
		return angular(-2*math.Pi, 2*math.Pi, -2*math.Pi, -math.Pi, 0, math.Pi, 2*math.Pi)
	case KindEulerMiddle:
		return angular(-math.Pi/2, math.Pi/2, -math.Pi/2, 0, math.Pi/2)
	default:
		return angular(-math.Pi, math.Pi, -math.Pi, -math.Pi/2, 0, math.Pi/2, math.Pi)
	}
}

// Clamp constrains v to the slider range.
func (c Config) Clamp(v float64) float64 {
	return lo.Clamp(v, c.Min, c.Max)
}

// Contains reports whether v is within the slider range.
func (c Config) Contains(v float64) bool {
	return v >= c.Min && v <= c.Max
}
