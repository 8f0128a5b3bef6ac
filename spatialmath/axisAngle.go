package spatialmath

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/num/quat"

	"go.viam.com/rotviz/utils"
)

// See here for a thorough explanation: https://en.wikipedia.org/wiki/Axis%E2%80%93angle_representation
// Basic explanation: Imagine a 3d cartesian grid centered at 0,0,0, and a sphere of radius 1 centered at
// that same point. An orientation can be expressed by first specifying an axis, i.e. a line from the origin
// to a point on that sphere, represented by (rx, ry, rz), and a rotation around that axis, theta.
// These four numbers can be used as-is (R4), or they can be converted to R3, where theta is multiplied by each of
// the unit sphere components to give a vector whose length is theta and whose direction is the original axis.

// axisEpsilon is the smallest vector norm that still carries a usable direction.
const axisEpsilon = 1e-12

// R4AA represents an R4 axis angle.
type R4AA struct {
	Theta float64 `json:"th"`
	RX    float64 `json:"x"`
	RY    float64 `json:"y"`
	RZ    float64 `json:"z"`
}

// NewR4AA creates an R4AA describing no rotation.
func NewR4AA() *R4AA {
	return &R4AA{Theta: 0, RX: 1, RY: 0, RZ: 0}
}

// NewR4AAFromAxis returns the axis angle with the given (not necessarily unit) axis and angle.
func NewR4AAFromAxis(axis r3.Vector, theta float64) (*R4AA, error) {
	r4 := &R4AA{Theta: theta, RX: axis.X, RY: axis.Y, RZ: axis.Z}
	if err := r4.Validate(); err != nil {
		return nil, err
	}
	return r4, nil
}

// Validate rejects non-finite values and a zero axis paired with a non-zero angle.
func (r4 *R4AA) Validate() error {
	if !utils.IsFinite(r4.Theta, r4.RX, r4.RY, r4.RZ) {
		return errors.New("axis angle values must be finite")
	}
	if r4.axis().Norm() < axisEpsilon && r4.Theta != 0 {
		return errors.New("axis angle with a non-zero angle needs a non-zero axis")
	}
	return nil
}

// Quaternion returns orientation in quaternion representation.
func (r4 *R4AA) Quaternion() quat.Number {
	return r4.ToQuat()
}

// AxisAngles returns the orientation in axis angle representation.
func (r4 *R4AA) AxisAngles() *R4AA {
	return QuatToR4AA(r4.Quaternion())
}

// RotationVector returns the orientation as a rotation vector.
func (r4 *R4AA) RotationVector() *RotationVector {
	return QuatToRotationVector(r4.Quaternion())
}

// EulerAngles returns orientation in Euler angle representation.
func (r4 *R4AA) EulerAngles(order EulerOrder) *EulerAngles {
	return QuatToEulerAngles(r4.Quaternion(), order)
}

// RotationMatrix returns the orientation in rotation matrix representation.
func (r4 *R4AA) RotationMatrix() *RotationMatrix {
	return QuatToRotationMatrix(r4.Quaternion())
}

// ToR3 converts an R4 angle axis to R3.
func (r4 *R4AA) ToR3() r3.Vector {
	return r4.axis().Normalize().Mul(r4.Theta)
}

// ToQuat converts an R4 axis angle to a unit quaternion. The axis does not have to be unit length;
// a zero axis yields the identity.
// See: https://www.euclideanspace.com/maths/geometry/rotations/conversions/angleToQuaternion/index.htm
func (r4 *R4AA) ToQuat() quat.Number {
	axis := r4.axis()
	if axis.Norm() < axisEpsilon {
		return quat.Number{Real: 1}
	}
	axis = axis.Normalize()
	sinA := math.Sin(r4.Theta / 2)
	return quat.Number{Real: math.Cos(r4.Theta / 2), Imag: axis.X * sinA, Jmag: axis.Y * sinA, Kmag: axis.Z * sinA}
}

// Normalize scales the x, y, and z components of a R4 axis angle to be on the unit sphere.
func (r4 *R4AA) Normalize() error {
	norm := r4.axis().Norm()
	if norm < axisEpsilon {
		return errors.New("cannot normalize R4AA with a zero axis")
	}
	r4.RX /= norm
	r4.RY /= norm
	r4.RZ /= norm
	return nil
}

// fixOrientation flips a negative angle to a positive one about the opposite axis.
func (r4 *R4AA) fixOrientation() {
	if r4.Theta < 0.0 {
		r4.Theta *= -1.
		r4.RX *= -1.
		r4.RY *= -1.
		r4.RZ *= -1.
	}
}

func (r4 *R4AA) axis() r3.Vector {
	return r3.Vector{X: r4.RX, Y: r4.RY, Z: r4.RZ}
}

// R4AAAlmostEqual reports whether two axis angles describe the same rotation. Angles are compared
// modulo 2pi, (axis, theta) matches (-axis, 2pi - theta), and any axis matches when the angle is zero.
func R4AAAlmostEqual(a, b *R4AA, tol float64) bool {
	ac, bc := *a, *b
	ac.fixOrientation()
	bc.fixOrientation()
	ta := utils.ModTwoPi(ac.Theta)
	tb := utils.ModTwoPi(bc.Theta)
	if utils.AngleDiff(ta, 0) <= tol && utils.AngleDiff(tb, 0) <= tol {
		return true
	}
	axA, axB := ac.axis(), bc.axis()
	if axA.Norm() < axisEpsilon || axB.Norm() < axisEpsilon {
		return false
	}
	axA, axB = axA.Normalize(), axB.Normalize()
	if utils.AngleDiff(ta, tb) <= tol && axA.Sub(axB).Norm() <= tol {
		return true
	}
	return utils.AngleDiff(ta, 2*math.Pi-tb) <= tol && axA.Add(axB).Norm() <= tol
}

// R3ToR4 converts an R3 angle axis to R4.
func R3ToR4(aa r3.Vector) *R4AA {
	theta := aa.Norm()
	if theta < axisEpsilon {
		return NewR4AA()
	}
	return &R4AA{theta, aa.X / theta, aa.Y / theta, aa.Z / theta}
}
