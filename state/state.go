// Package state holds the rotation shown by the visualizer. One canonical quaternion is the
// source of truth; every view (quaternion, axis-angle, rotation vector, matrix, Euler angles) is
// derived from it, and an edit to any view replaces it.
package state

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/num/quat"

	"go.viam.com/rotviz/sliders"
	"go.viam.com/rotviz/spatialmath"
	"go.viam.com/rotviz/textformat"
	"go.viam.com/rotviz/utils"
)

// axisHintAngle is the angle below which the rotation axis is undefined and the last known axis
// is shown instead.
const axisHintAngle = 1e-9

// State is the rotation being edited together with how each view is written. It is not safe for
// concurrent use.
type State struct {
	q        quat.Number
	settings Settings

	vectorFormats map[Representation]textformat.VectorFormat
	matrixFormat  textformat.MatrixFormat

	// the view being edited keeps what the user typed or dragged until Blur
	active       Representation
	activeText   *string
	activeValues []float64
	lastErr      *InputError

	quatOrder []int
	axisOrder []int
	axis      r3.Vector
}

// New returns a state at the identity rotation.
func New(settings Settings) (*State, error) {
	settings, err := settings.Normalize()
	if err != nil {
		return nil, err
	}
	s := &State{settings: settings}
	s.resetFormats()
	s.quatOrder = sliders.NewOrder(4)
	s.axisOrder = sliders.NewOrder(3)
	s.axis = r3.Vector{X: 1}
	s.setCanonical(quat.Number{Real: 1})
	return s, nil
}

func (s *State) resetFormats() {
	s.vectorFormats = map[Representation]textformat.VectorFormat{}
	for _, r := range []Representation{ReprQuaternion, ReprAxisAngle, ReprRotationVector, ReprEuler} {
		s.vectorFormats[r] = textformat.DefaultVectorFormat()
	}
	s.matrixFormat = textformat.DefaultMatrixFormat()
}

// Settings returns the current display conventions.
func (s *State) Settings() Settings {
	return s.settings
}

// Quaternion returns the canonical unit quaternion.
func (s *State) Quaternion() quat.Number {
	return s.q
}

// Orientation returns the canonical rotation.
func (s *State) Orientation() spatialmath.Orientation {
	o, err := spatialmath.NewQuaternionFromNumber(s.q)
	if err != nil {
		return spatialmath.NewZeroOrientation()
	}
	return o
}

// Err returns the error of the last rejected edit, or nil.
func (s *State) Err() *InputError {
	return s.lastErr
}

// UpdateSettings replaces the display conventions. A view being edited is released since its
// values were entered under the old conventions.
func (s *State) UpdateSettings(settings Settings) error {
	settings, err := settings.Normalize()
	if err != nil {
		return err
	}
	s.settings = settings
	s.Blur()
	return nil
}

// SetText parses text typed into a view. On success the canonical rotation is replaced and the
// notation of the text is remembered for that view. On failure the rotation is left unchanged and
// the error is recorded against the view.
func (s *State) SetText(repr Representation, text string) error {
	parsed, err := ParseRepresentation(string(repr))
	if err != nil {
		return &InputError{Repr: repr, Err: err}
	}
	repr = parsed
	s.active = repr
	s.activeText = &text
	s.activeValues = nil

	o, err := s.parse(repr, text)
	if err != nil {
		s.lastErr = &InputError{Repr: repr, Err: err}
		return s.lastErr
	}
	s.lastErr = nil
	s.setCanonical(o.Quaternion())
	return nil
}

func (s *State) parse(repr Representation, text string) (spatialmath.Orientation, error) {
	unit := s.settings.AngleUnit
	switch repr {
	case ReprQuaternion:
		values, format, err := textformat.ParseVector(text, 4)
		if err != nil {
			return nil, err
		}
		n, err := s.settings.QuaternionOrder.Number(values)
		if err != nil {
			return nil, err
		}
		o, err := spatialmath.NewQuaternionFromNumber(n)
		if err != nil {
			return nil, err
		}
		s.vectorFormats[repr] = format
		return o, nil
	case ReprAxisAngle:
		values, format, err := textformat.ParseVector(text, 4)
		if err != nil {
			return nil, err
		}
		axis := r3.Vector{X: values[0], Y: values[1], Z: values[2]}
		aa, err := spatialmath.NewR4AAFromAxis(axis, unit.fromDisplay(values[3]))
		if err != nil {
			return nil, err
		}
		s.vectorFormats[repr] = format
		if axis.Norm() > 0 {
			s.axis = axis.Normalize()
		}
		return aa, nil
	case ReprRotationVector:
		values, format, err := textformat.ParseVector(text, 3)
		if err != nil {
			return nil, err
		}
		rv, err := spatialmath.NewRotationVector(values[0], values[1], values[2])
		if err != nil {
			return nil, err
		}
		s.vectorFormats[repr] = format
		return rv, nil
	case ReprMatrix:
		values, format, err := textformat.ParseMatrix(text)
		if err != nil {
			return nil, err
		}
		rm, err := spatialmath.NewRotationMatrix(values)
		if err != nil {
			return nil, err
		}
		s.matrixFormat = format
		return rm, nil
	case ReprEuler:
		values, format, err := textformat.ParseVector(text, 3)
		if err != nil {
			return nil, err
		}
		ea := &spatialmath.EulerAngles{Order: s.settings.EulerOrder}
		for i, v := range values {
			ea.Angles[i] = unit.fromDisplay(v)
		}
		if err := ea.Validate(); err != nil {
			return nil, err
		}
		s.vectorFormats[repr] = format
		return ea, nil
	default:
		return nil, utils.NewUnknownRepresentationError(string(repr))
	}
}

// SliderConfigs returns the sliders of a view under the current settings. The matrix view has
// none.
func (s *State) SliderConfigs(repr Representation) []sliders.Config {
	deg := s.settings.AngleUnit == Degrees
	switch repr {
	case ReprQuaternion:
		c := sliders.ConfigFor(sliders.KindQuaternion, deg)
		return []sliders.Config{c, c, c, c}
	case ReprAxisAngle:
		c := sliders.ConfigFor(sliders.KindAxis, deg)
		return []sliders.Config{c, c, c, sliders.ConfigFor(sliders.KindAngle, deg)}
	case ReprRotationVector:
		c := sliders.ConfigFor(sliders.KindRotationVector, false)
		return []sliders.Config{c, c, c}
	case ReprEuler:
		c := sliders.ConfigFor(sliders.KindEuler, deg)
		return []sliders.Config{c, sliders.ConfigFor(sliders.KindEulerMiddle, deg), c}
	default:
		return nil
	}
}

// SetSlider moves one slider of a view. The value is clamped to the slider range. Unit-length
// groups (quaternion components, rotation axis) are renormalized by changing the least recently
// moved components first.
func (s *State) SetSlider(repr Representation, index int, value float64) error {
	parsed, err := ParseRepresentation(string(repr))
	if err != nil {
		return &InputError{Repr: repr, Err: err}
	}
	repr = parsed
	configs := s.SliderConfigs(repr)
	if len(configs) == 0 {
		return &InputError{Repr: repr, Err: errors.Errorf("%s has no sliders", repr)}
	}
	if index < 0 || index >= len(configs) {
		return &InputError{Repr: repr, Err: utils.NewOutOfRangeError("slider index", index, 0, len(configs)-1)}
	}
	if !utils.IsFinite(value) {
		return &InputError{Repr: repr, Err: errors.New("slider value must be finite")}
	}
	value = configs[index].Clamp(value)
	current := s.sliderValues(repr)
	unit := s.settings.AngleUnit

	var q quat.Number
	var shown []float64
	switch repr {
	case ReprQuaternion:
		order := s.settings.QuaternionOrder
		wxyz, err := order.Number(current)
		if err != nil {
			return &InputError{Repr: repr, Err: err}
		}
		values := [4]float64{wxyz.Real, wxyz.Imag, wxyz.Jmag, wxyz.Kmag}
		ci := canonicalIndex(order, index)
		values[ci] = value
		var lru [4]int
		copy(lru[:], s.quatOrder)
		out := sliders.NormalizeLRU4(values, ci, lru)
		s.quatOrder = sliders.Touch(s.quatOrder, ci)
		q = quat.Number{Real: out[0], Imag: out[1], Jmag: out[2], Kmag: out[3]}
		shown = order.Components(q)
	case ReprAxisAngle:
		axis := [3]float64{current[0], current[1], current[2]}
		angle := current[3]
		if index < 3 {
			axis[index] = value
			var lru [3]int
			copy(lru[:], s.axisOrder)
			axis = sliders.NormalizeLRU3(axis, index, lru)
			s.axisOrder = sliders.Touch(s.axisOrder, index)
		} else {
			angle = value
		}
		aa := &spatialmath.R4AA{Theta: unit.fromDisplay(angle), RX: axis[0], RY: axis[1], RZ: axis[2]}
		q = aa.ToQuat()
		shown = []float64{axis[0], axis[1], axis[2], angle}
	case ReprRotationVector:
		current[index] = value
		rv := &spatialmath.RotationVector{X: current[0], Y: current[1], Z: current[2]}
		q = rv.Quaternion()
		shown = current
	case ReprEuler:
		current[index] = value
		ea := &spatialmath.EulerAngles{Order: s.settings.EulerOrder}
		for i, v := range current {
			ea.Angles[i] = unit.fromDisplay(v)
		}
		q = ea.Quaternion()
		shown = current
	}

	s.setCanonical(q)
	if repr == ReprAxisAngle {
		if a := (r3.Vector{X: shown[0], Y: shown[1], Z: shown[2]}); a.Norm() > 0 {
			s.axis = a.Normalize()
		}
	}
	s.active = repr
	s.activeText = nil
	s.activeValues = shown
	s.lastErr = nil
	return nil
}

// sliderValues returns the slider positions of a view, in display units.
func (s *State) sliderValues(repr Representation) []float64 {
	if s.active == repr && s.activeValues != nil {
		return append([]float64(nil), s.activeValues...)
	}
	return s.derivedValues(repr)
}

// derivedValues computes a view's values from the canonical rotation.
func (s *State) derivedValues(repr Representation) []float64 {
	unit := s.settings.AngleUnit
	switch repr {
	case ReprQuaternion:
		return s.settings.QuaternionOrder.Components(s.q)
	case ReprAxisAngle:
		aa := spatialmath.QuatToR4AA(s.q)
		axis := r3.Vector{X: aa.RX, Y: aa.RY, Z: aa.RZ}
		if aa.Theta < axisHintAngle {
			axis = s.axis
		}
		return []float64{axis.X, axis.Y, axis.Z, unit.toDisplay(aa.Theta)}
	case ReprRotationVector:
		rv := spatialmath.QuatToRotationVector(s.q)
		return []float64{rv.X, rv.Y, rv.Z}
	case ReprMatrix:
		vals := spatialmath.QuatToRotationMatrix(s.q).Values()
		return vals[:]
	case ReprEuler:
		ea := spatialmath.QuatToEulerAngles(s.q, s.settings.EulerOrder)
		return []float64{unit.toDisplay(ea.Angles[0]), unit.toDisplay(ea.Angles[1]), unit.toDisplay(ea.Angles[2])}
	default:
		return nil
	}
}

// canonicalIndex maps a displayed quaternion component to its w, x, y, z index.
func canonicalIndex(order spatialmath.QuaternionOrder, display int) int {
	if order == spatialmath.ScalarLast {
		return (display + 1) % 4
	}
	return display
}

// SetRotation replaces the canonical rotation and releases any view being edited.
func (s *State) SetRotation(o spatialmath.Orientation) {
	s.Blur()
	s.setCanonical(o.Quaternion())
}

// Apply rotates the current rotation by o, expressed in the fixed frame.
func (s *State) Apply(o spatialmath.Orientation) {
	s.SetRotation(spatialmath.Compose(o, s.Orientation()))
}

// Reset returns to the identity rotation and the default notations.
func (s *State) Reset() {
	s.resetFormats()
	s.quatOrder = sliders.NewOrder(4)
	s.axisOrder = sliders.NewOrder(3)
	s.axis = r3.Vector{X: 1}
	s.SetRotation(spatialmath.NewZeroOrientation())
}

// Blur releases the view being edited so that it is rewritten from the canonical rotation. Any
// pending input error is dropped along with the text that caused it.
func (s *State) Blur() {
	s.active = ""
	s.activeText = nil
	s.activeValues = nil
	s.lastErr = nil
}

func (s *State) setCanonical(q quat.Number) {
	norm := quat.Abs(q)
	if norm == 0 || math.IsNaN(norm) || math.IsInf(norm, 0) {
		return
	}
	s.q = quat.Scale(1/norm, q)
	aa := spatialmath.QuatToR4AA(s.q)
	if aa.Theta >= axisHintAngle {
		s.axis = r3.Vector{X: aa.RX, Y: aa.RY, Z: aa.RZ}
	}
}
