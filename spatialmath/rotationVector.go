package spatialmath

import (
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/num/quat"

	"go.viam.com/rotviz/utils"
)

// RotationVector is the three parameter form of an axis angle: the unit axis scaled by the angle.
type RotationVector struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// NewRotationVector returns a rotation vector after checking its components are finite.
func NewRotationVector(x, y, z float64) (*RotationVector, error) {
	if !utils.IsFinite(x, y, z) {
		return nil, errors.New("rotation vector values must be finite")
	}
	return &RotationVector{X: x, Y: y, Z: z}, nil
}

// Vector returns the rotation vector as an r3.Vector.
func (rv *RotationVector) Vector() r3.Vector {
	return r3.Vector{X: rv.X, Y: rv.Y, Z: rv.Z}
}

// Angle returns the rotation angle, the norm of the vector.
func (rv *RotationVector) Angle() float64 {
	return rv.Vector().Norm()
}

// Quaternion returns orientation in quaternion representation.
func (rv *RotationVector) Quaternion() quat.Number {
	return R3ToR4(rv.Vector()).ToQuat()
}

// AxisAngles returns the orientation in axis angle representation.
func (rv *RotationVector) AxisAngles() *R4AA {
	return QuatToR4AA(rv.Quaternion())
}

// RotationVector returns the canonical rotation vector, whose norm is in [0, 2pi].
func (rv *RotationVector) RotationVector() *RotationVector {
	return QuatToRotationVector(rv.Quaternion())
}

// RotationMatrix returns the orientation in rotation matrix representation.
func (rv *RotationVector) RotationMatrix() *RotationMatrix {
	return QuatToRotationMatrix(rv.Quaternion())
}

// EulerAngles returns orientation in Euler angle representation.
func (rv *RotationVector) EulerAngles(order EulerOrder) *EulerAngles {
	return QuatToEulerAngles(rv.Quaternion(), order)
}
