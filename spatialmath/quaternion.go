package spatialmath

import (
	"math"
	"strings"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/num/quat"
)

// quaternion is the canonical Orientation. It is always kept at unit length.
type quaternion quat.Number

// NewQuaternion returns the orientation described by the quaternion w + xi + yj + zk.
// The components are scaled to unit length; a zero quaternion is an error.
func NewQuaternion(w, x, y, z float64) (Orientation, error) {
	return NewQuaternionFromNumber(quat.Number{Real: w, Imag: x, Jmag: y, Kmag: z})
}

// NewQuaternionFromNumber is NewQuaternion for a gonum quaternion.
func NewQuaternionFromNumber(q quat.Number) (Orientation, error) {
	norm := quat.Abs(q)
	if norm == 0 || math.IsNaN(norm) || math.IsInf(norm, 0) {
		return nil, errors.New("quaternion must have a finite, non-zero norm")
	}
	nq := quaternion(quat.Scale(1/norm, q))
	return &nq, nil
}

// Quaternion returns orientation in quaternion representation.
func (q *quaternion) Quaternion() quat.Number {
	return quat.Number(*q)
}

// AxisAngles returns the orientation in axis angle representation.
func (q *quaternion) AxisAngles() *R4AA {
	return QuatToR4AA(q.Quaternion())
}

// RotationVector returns the orientation as a rotation vector.
func (q *quaternion) RotationVector() *RotationVector {
	return QuatToRotationVector(q.Quaternion())
}

// RotationMatrix returns the orientation in rotation matrix representation.
func (q *quaternion) RotationMatrix() *RotationMatrix {
	return QuatToRotationMatrix(q.Quaternion())
}

// EulerAngles returns orientation in Euler angle representation for the given axis order.
func (q *quaternion) EulerAngles(order EulerOrder) *EulerAngles {
	return QuatToEulerAngles(q.Quaternion(), order)
}

// Antipode returns -q, which describes the same rotation as q.
func Antipode(q quat.Number) quat.Number {
	return quat.Scale(-1, q)
}

// QuaternionAlmostEqual is an equality test for all the float components of a quaternion.
func QuaternionAlmostEqual(a, b quat.Number, tol float64) bool {
	return math.Abs(a.Real-b.Real) <= tol &&
		math.Abs(a.Imag-b.Imag) <= tol &&
		math.Abs(a.Jmag-b.Jmag) <= tol &&
		math.Abs(a.Kmag-b.Kmag) <= tol
}

// QuaternionEquivalent reports whether a and b describe the same rotation, i.e. whether
// a is approximately b or -b.
func QuaternionEquivalent(a, b quat.Number, tol float64) bool {
	return QuaternionAlmostEqual(a, b, tol) || QuaternionAlmostEqual(a, Antipode(b), tol)
}

// QuatToR4AA converts a quaternion to an axis angle with theta in [0, 2pi]. For a rotation
// too small to carry a direction the axis is (1, 0, 0).
func QuatToR4AA(q quat.Number) *R4AA {
	q = normalizeQuat(q)
	s := math.Sqrt(q.Imag*q.Imag + q.Jmag*q.Jmag + q.Kmag*q.Kmag)
	if s < axisEpsilon {
		return NewR4AA()
	}
	theta := 2 * math.Atan2(s, q.Real)
	return &R4AA{Theta: theta, RX: q.Imag / s, RY: q.Jmag / s, RZ: q.Kmag / s}
}

// QuatToRotationVector converts a quaternion to a rotation vector whose norm is in [0, 2pi].
func QuatToRotationVector(q quat.Number) *RotationVector {
	aa := QuatToR4AA(q)
	return &RotationVector{X: aa.RX * aa.Theta, Y: aa.RY * aa.Theta, Z: aa.RZ * aa.Theta}
}

// QuatToRotationMatrix converts a quaternion to a row-major rotation matrix.
func QuatToRotationMatrix(q quat.Number) *RotationMatrix {
	q = normalizeQuat(q)
	w, x, y, z := q.Real, q.Imag, q.Jmag, q.Kmag
	return &RotationMatrix{mat: [9]float64{
		1 - 2*(y*y+z*z), 2 * (x*y - w*z), 2 * (x*z + w*y),
		2 * (x*y + w*z), 1 - 2*(x*x+z*z), 2 * (y*z - w*x),
		2 * (x*z - w*y), 2 * (y*z + w*x), 1 - 2*(x*x+y*y),
	}}
}

func normalizeQuat(q quat.Number) quat.Number {
	norm := quat.Abs(q)
	if norm == 0 {
		return quat.Number{Real: 1}
	}
	return quat.Scale(1/norm, q)
}

// QuaternionOrder is the order in which quaternion components are listed.
type QuaternionOrder string

// The two component orders. Scalar first is what gonum, Eigen and MATLAB use; scalar last is
// what scipy and ROS use.
const (
	ScalarFirst QuaternionOrder = "wxyz"
	ScalarLast  QuaternionOrder = "xyzw"
)

// ParseQuaternionOrder parses "wxyz" or "xyzw" (case insensitive).
func ParseQuaternionOrder(s string) (QuaternionOrder, error) {
	switch QuaternionOrder(strings.ToLower(strings.TrimSpace(s))) {
	case ScalarFirst:
		return ScalarFirst, nil
	case ScalarLast:
		return ScalarLast, nil
	default:
		return "", errors.Errorf("quaternion order %q not recognized, expected wxyz or xyzw", s)
	}
}

// Labels returns the component names in this order.
func (o QuaternionOrder) Labels() []string {
	if o == ScalarLast {
		return []string{"x", "y", "z", "w"}
	}
	return []string{"w", "x", "y", "z"}
}

// Components lists the components of q in this order.
func (o QuaternionOrder) Components(q quat.Number) []float64 {
	if o == ScalarLast {
		return []float64{q.Imag, q.Jmag, q.Kmag, q.Real}
	}
	return []float64{q.Real, q.Imag, q.Jmag, q.Kmag}
}

// Number builds a quaternion from components listed in this order.
func (o QuaternionOrder) Number(c []float64) (quat.Number, error) {
	if len(c) != 4 {
		return quat.Number{}, errors.Errorf("quaternion needs 4 components, got %d", len(c))
	}
	if o == ScalarLast {
		return quat.Number{Real: c[3], Imag: c[0], Jmag: c[1], Kmag: c[2]}, nil
	}
	return quat.Number{Real: c[0], Imag: c[1], Jmag: c[2], Kmag: c[3]}, nil
}
