package state

import (
	"math"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"go.viam.com/rotviz/spatialmath"
	"go.viam.com/rotviz/textformat"
	"go.viam.com/rotviz/utils"
)

// Representation names one of the rotation views.
type Representation string

// The rotation views.
const (
	ReprQuaternion     Representation = "quaternion"
	ReprAxisAngle      Representation = "axis_angle"
	ReprRotationVector Representation = "rotation_vector"
	ReprMatrix         Representation = "matrix"
	ReprEuler          Representation = "euler"
)

// Representations lists every view in display order.
var Representations = []Representation{ReprQuaternion, ReprAxisAngle, ReprRotationVector, ReprMatrix, ReprEuler}

// ParseRepresentation validates a view name.
func ParseRepresentation(s string) (Representation, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, r := range Representations {
		if string(r) == s {
			return r, nil
		}
	}
	return "", utils.NewUnknownRepresentationError(s)
}

// AngleUnit is the unit angles are shown and typed in.
type AngleUnit string

// The angle units.
const (
	Radians AngleUnit = "rad"
	Degrees AngleUnit = "deg"
)

// ParseAngleUnit accepts "rad", "radians", "deg" or "degrees".
func ParseAngleUnit(s string) (AngleUnit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "rad", "radians":
		return Radians, nil
	case "deg", "degrees":
		return Degrees, nil
	default:
		return "", errors.Errorf("angle unit %q not recognized, expected rad or deg", s)
	}
}

func (u AngleUnit) toDisplay(rad float64) float64 {
	if u == Degrees {
		return utils.RadToDeg(rad)
	}
	return rad
}

func (u AngleUnit) fromDisplay(v float64) float64 {
	if u == Degrees {
		return utils.DegToRad(v)
	}
	return v
}

// Settings are the display conventions of a state.
type Settings struct {
	Representation  Representation              `json:"repr"`
	QuaternionOrder spatialmath.QuaternionOrder `json:"quat_order"`
	AngleUnit       AngleUnit                   `json:"angle_unit"`
	EulerOrder      spatialmath.EulerOrder      `json:"euler"`
	Precision       int                         `json:"precision"`
	GimbalTolerance float64                     `json:"gimbal_tol"`
}

// DefaultSettings returns scalar-first quaternions, radians, intrinsic XYZ Euler angles and four
// decimals.
func DefaultSettings() Settings {
	return Settings{
		Representation:  ReprQuaternion,
		QuaternionOrder: spatialmath.ScalarFirst,
		AngleUnit:       Radians,
		EulerOrder:      spatialmath.DefaultEulerOrder,
		Precision:       textformat.DefaultPrecision,
		GimbalTolerance: spatialmath.DefaultGimbalTolerance,
	}
}

// Normalize returns the settings with every name in canonical form, or every problem found.
func (s Settings) Normalize() (Settings, error) {
	var err error
	out := s
	if r, e := ParseRepresentation(string(s.Representation)); e != nil {
		err = multierr.Append(err, e)
	} else {
		out.Representation = r
	}
	if o, e := spatialmath.ParseQuaternionOrder(string(s.QuaternionOrder)); e != nil {
		err = multierr.Append(err, e)
	} else {
		out.QuaternionOrder = o
	}
	if u, e := ParseAngleUnit(string(s.AngleUnit)); e != nil {
		err = multierr.Append(err, e)
	} else {
		out.AngleUnit = u
	}
	if o, e := spatialmath.ParseEulerOrder(string(s.EulerOrder)); e != nil {
		err = multierr.Append(err, e)
	} else {
		out.EulerOrder = o
	}
	if s.Precision < 0 || s.Precision > textformat.MaxPrecision {
		err = multierr.Append(err, utils.NewOutOfRangeError("precision", s.Precision, 0, textformat.MaxPrecision))
	}
	if math.IsNaN(s.GimbalTolerance) || s.GimbalTolerance <= 0 || s.GimbalTolerance >= math.Pi/4 {
		err = multierr.Append(err, utils.NewOutOfRangeError("gimbal tolerance", s.GimbalTolerance, 0, "pi/4"))
	}
	return out, err
}

// Validate reports every invalid field.
func (s Settings) Validate() error {
	_, err := s.Normalize()
	return err
}
