package spatialmath

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// OrientationType defines what orientation representations are known.
type OrientationType string

// The set of allowed representations for orientation.
const (
	NoOrientationType      = OrientationType("")
	QuaternionType         = OrientationType("quaternion")
	AxisAnglesType         = OrientationType("axis_angle")
	RotationVectorType     = OrientationType("rotation_vector")
	RotationMatrixType     = OrientationType("rotation_matrix")
	EulerAnglesType        = OrientationType("euler_angles")
	EulerAnglesDegreesType = OrientationType("euler_angles_degrees")
)

// RawOrientation holds the underlying type of orientation, and the data.
type RawOrientation struct {
	Type  OrientationType `json:"type"`
	Value json.RawMessage `json:"value"`
}

type quaternionJSON struct {
	W float64 `json:"w"`
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

type rotationMatrixJSON struct {
	Mat [9]float64 `json:"mat"`
}

// ParseOrientation will use the Type in RawOrientation to unmarshal the Value into the correct struct
// that implements Orientation.
func ParseOrientation(ro RawOrientation) (Orientation, error) {
	switch ro.Type {
	case NoOrientationType:
		return NewZeroOrientation(), nil
	case QuaternionType:
		var q quaternionJSON
		if err := json.Unmarshal(ro.Value, &q); err != nil {
			return nil, err
		}
		return NewQuaternion(q.W, q.X, q.Y, q.Z)
	case AxisAnglesType:
		var aa R4AA
		if err := json.Unmarshal(ro.Value, &aa); err != nil {
			return nil, err
		}
		if err := aa.Validate(); err != nil {
			return nil, err
		}
		return &aa, nil
	case RotationVectorType:
		var rv RotationVector
		if err := json.Unmarshal(ro.Value, &rv); err != nil {
			return nil, err
		}
		return NewRotationVector(rv.X, rv.Y, rv.Z)
	case RotationMatrixType:
		var rm rotationMatrixJSON
		if err := json.Unmarshal(ro.Value, &rm); err != nil {
			return nil, err
		}
		return NewRotationMatrix(rm.Mat)
	case EulerAnglesType, EulerAnglesDegreesType:
		ea := EulerAngles{Order: DefaultEulerOrder}
		if err := json.Unmarshal(ro.Value, &ea); err != nil {
			return nil, err
		}
		if ro.Type == EulerAnglesDegreesType {
			ea = *NewEulerAnglesFromDegrees(ea.Order, ea.Angles[0], ea.Angles[1], ea.Angles[2])
		}
		if err := ea.Validate(); err != nil {
			return nil, err
		}
		return &ea, nil
	default:
		return nil, errors.Errorf("orientation type %s not recognized", ro.Type)
	}
}

// OrientationMap encodes the orientation interface to something serializable and human readable.
func OrientationMap(o Orientation) (map[string]interface{}, error) {
	switch v := o.(type) {
	case *R4AA:
		return map[string]interface{}{"type": string(AxisAnglesType), "value": v}, nil
	case *RotationVector:
		return map[string]interface{}{"type": string(RotationVectorType), "value": v}, nil
	case *RotationMatrix:
		return map[string]interface{}{"type": string(RotationMatrixType), "value": rotationMatrixJSON{Mat: v.mat}}, nil
	case *EulerAngles:
		return map[string]interface{}{"type": string(EulerAnglesType), "value": v}, nil
	case *quaternion:
		q := v.Quaternion()
		return map[string]interface{}{
			"type":  string(QuaternionType),
			"value": quaternionJSON{W: q.Real, X: q.Imag, Y: q.Jmag, Z: q.Kmag},
		}, nil
	default:
		return nil, errors.Errorf("do not know how to map Orientation type %T to json fields", o)
	}
}
