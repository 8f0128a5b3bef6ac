// Package spatialmath defines the rotation representations shown by the visualizer and the
// conversions between them. Every representation converts through a unit quaternion.
package spatialmath

import (
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"
)

// Orientation is an interface used to express the different parameterizations of the orientation
// of a rigid object or a frame of reference in 3D Euclidean space.
type Orientation interface {
	Quaternion() quat.Number
	AxisAngles() *R4AA
	RotationVector() *RotationVector
	RotationMatrix() *RotationMatrix
	EulerAngles(order EulerOrder) *EulerAngles
}

// defaultAngleTolerance is the tolerance used by the *AlmostEqual helpers that take none.
const defaultAngleTolerance = 1e-5

// NewZeroOrientation returns an orientatation which signifies no rotation.
func NewZeroOrientation() Orientation {
	return &quaternion{1, 0, 0, 0}
}

// OrientationAlmostEqual will return a bool describing whether 2 orientations are approximately the same.
// Quaternions are compared modulo sign, so q and -q are considered equal.
func OrientationAlmostEqual(o1, o2 Orientation) bool {
	return QuaternionEquivalent(o1.Quaternion(), o2.Quaternion(), defaultAngleTolerance)
}

// OrientationAlmostEqualEps is OrientationAlmostEqual with a caller supplied tolerance.
func OrientationAlmostEqualEps(o1, o2 Orientation, epsilon float64) bool {
	return QuaternionEquivalent(o1.Quaternion(), o2.Quaternion(), epsilon)
}

// OrientationBetween returns the orientation representing the difference between the two given Orientations.
func OrientationBetween(o1, o2 Orientation) Orientation {
	q := quaternion(normalizeQuat(quat.Mul(o2.Quaternion(), quat.Conj(o1.Quaternion()))))
	return &q
}

// AngleBetween returns the angle, in [0, pi], of the smallest rotation taking o1 to o2.
func AngleBetween(o1, o2 Orientation) float64 {
	a, b := normalizeQuat(o1.Quaternion()), normalizeQuat(o2.Quaternion())
	if a.Real*b.Real+a.Imag*b.Imag+a.Jmag*b.Jmag+a.Kmag*b.Kmag < 0 {
		b = Antipode(b)
	}
	// half the angle between the two unit 4-vectors, computed without acos so that tiny
	// differences are not lost
	half := math.Atan2(quat.Abs(quat.Sub(a, b)), quat.Abs(quat.Add(a, b)))
	return 4 * half
}

// Compose returns the orientation that applies b first and then a.
func Compose(a, b Orientation) Orientation {
	q := quaternion(normalizeQuat(quat.Mul(a.Quaternion(), b.Quaternion())))
	return &q
}

// Inverse returns the orientation that undoes o.
func Inverse(o Orientation) Orientation {
	q := quaternion(quat.Conj(o.Quaternion()))
	return &q
}

// RotateVector applies the rotation o to the vector v.
func RotateVector(o Orientation, v r3.Vector) r3.Vector {
	q := o.Quaternion()
	p := quat.Mul(quat.Mul(q, quat.Number{Imag: v.X, Jmag: v.Y, Kmag: v.Z}), quat.Conj(q))
	return r3.Vector{X: p.Imag, Y: p.Jmag, Z: p.Kmag}
}
