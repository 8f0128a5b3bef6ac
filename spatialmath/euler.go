package spatialmath

import (
	"math"
	"strings"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/num/quat"

	"go.viam.com/rotviz/utils"
)

// EulerOrder names a Tait-Bryan axis sequence. Uppercase letters denote intrinsic rotations
// (about the moving frame), lowercase letters extrinsic rotations (about the fixed frame), the
// same convention scipy uses. "XYZ" applies X first, then Y about the rotated frame, then Z.
type EulerOrder string

// The six axis orders, intrinsic and extrinsic.
const (
	EulerXYZ EulerOrder = "XYZ"
	EulerXZY EulerOrder = "XZY"
	EulerYXZ EulerOrder = "YXZ"
	EulerYZX EulerOrder = "YZX"
	EulerZXY EulerOrder = "ZXY"
	EulerZYX EulerOrder = "ZYX"

	EulerExtrinsicXYZ EulerOrder = "xyz"
	EulerExtrinsicXZY EulerOrder = "xzy"
	EulerExtrinsicYXZ EulerOrder = "yxz"
	EulerExtrinsicYZX EulerOrder = "yzx"
	EulerExtrinsicZXY EulerOrder = "zxy"
	EulerExtrinsicZYX EulerOrder = "zyx"
)

// DefaultEulerOrder is the order used when none is given.
const DefaultEulerOrder = EulerXYZ

// DefaultGimbalTolerance is how close, in radians, the middle angle may get to +/-90 degrees
// before the angles are reported as gimbal locked.
const DefaultGimbalTolerance = 1e-3

// singularCos is the cosine of the middle angle below which the decomposition treats the
// configuration as singular.
const singularCos = 1e-9

// EulerOrders lists every supported order.
var EulerOrders = []EulerOrder{
	EulerXYZ, EulerXZY, EulerYXZ, EulerYZX, EulerZXY, EulerZYX,
	EulerExtrinsicXYZ, EulerExtrinsicXZY, EulerExtrinsicYXZ, EulerExtrinsicYZX, EulerExtrinsicZXY, EulerExtrinsicZYX,
}

// ParseEulerOrder validates an order string such as "XYZ" or "zyx".
func ParseEulerOrder(s string) (EulerOrder, error) {
	s = strings.TrimSpace(s)
	for _, o := range EulerOrders {
		if string(o) == s {
			return o, nil
		}
	}
	return "", errors.Errorf("euler order %q not recognized, expected a permutation of XYZ (intrinsic) or xyz (extrinsic)", s)
}

// Extrinsic reports whether the rotations are about the fixed frame.
func (o EulerOrder) Extrinsic() bool {
	return strings.ToLower(string(o)) == string(o)
}

// Labels returns the axis letter for each of the three angles.
func (o EulerOrder) Labels() []string {
	return strings.Split(strings.ToLower(string(o)), "")
}

// axes returns the axis index of each angle in application order.
func (o EulerOrder) axes() [3]int {
	var out [3]int
	for i, c := range strings.ToLower(string(o)) {
		out[i] = int(c - 'x')
	}
	return out
}

// intrinsic returns the equivalent intrinsic order. An extrinsic sequence about a, b, c equals the
// intrinsic sequence about c, b, a with the angles reversed.
func (o EulerOrder) intrinsic() EulerOrder {
	if !o.Extrinsic() {
		return o
	}
	s := strings.ToUpper(string(o))
	return EulerOrder([]byte{s[2], s[1], s[0]})
}

// EulerAngles are three rotation angles in radians about the axes named by Order.
type EulerAngles struct {
	Order  EulerOrder `json:"order"`
	Angles [3]float64 `json:"angles"`
}

// NewEulerAngles returns zero rotation in the default order.
func NewEulerAngles() *EulerAngles {
	return &EulerAngles{Order: DefaultEulerOrder}
}

// NewEulerAnglesFromDegrees builds Euler angles from degrees.
func NewEulerAnglesFromDegrees(order EulerOrder, a, b, c float64) *EulerAngles {
	return &EulerAngles{Order: order, Angles: [3]float64{utils.DegToRad(a), utils.DegToRad(b), utils.DegToRad(c)}}
}

// Degrees returns the angles in degrees.
func (ea *EulerAngles) Degrees() [3]float64 {
	return [3]float64{utils.RadToDeg(ea.Angles[0]), utils.RadToDeg(ea.Angles[1]), utils.RadToDeg(ea.Angles[2])}
}

// Validate checks the order and that every angle is finite.
func (ea *EulerAngles) Validate() error {
	if _, err := ParseEulerOrder(string(ea.Order)); err != nil {
		return err
	}
	if !utils.IsFinite(ea.Angles[:]...) {
		return errors.New("euler angles must be finite")
	}
	return nil
}

// Quaternion returns orientation in quaternion representation.
func (ea *EulerAngles) Quaternion() quat.Number {
	order, angles := ea.Order.intrinsic(), ea.Angles
	if ea.Order.Extrinsic() {
		angles = [3]float64{angles[2], angles[1], angles[0]}
	}
	q := quat.Number{Real: 1}
	for i, axis := range order.axes() {
		q = quat.Mul(q, elementalQuat(axis, angles[i]))
	}
	return normalizeQuat(q)
}

// AxisAngles returns the orientation in axis angle representation.
func (ea *EulerAngles) AxisAngles() *R4AA {
	return QuatToR4AA(ea.Quaternion())
}

// RotationVector returns the orientation as a rotation vector.
func (ea *EulerAngles) RotationVector() *RotationVector {
	return QuatToRotationVector(ea.Quaternion())
}

// RotationMatrix returns the orientation in rotation matrix representation.
func (ea *EulerAngles) RotationMatrix() *RotationMatrix {
	return QuatToRotationMatrix(ea.Quaternion())
}

// EulerAngles re-expresses the orientation in another order.
func (ea *EulerAngles) EulerAngles(order EulerOrder) *EulerAngles {
	return QuatToEulerAngles(ea.Quaternion(), order)
}

// GimbalLocked reports whether the middle angle is within tol radians of +/-90 degrees, where the
// first and last rotation axes line up and one degree of freedom is lost.
func (ea *EulerAngles) GimbalLocked(tol float64) bool {
	return math.Abs(math.Abs(ea.Angles[1])-math.Pi/2) <= tol
}

// QuatToEulerAngles decomposes a quaternion into Euler angles of the given order.
func QuatToEulerAngles(q quat.Number, order EulerOrder) *EulerAngles {
	return matrixToEulerAngles(QuatToRotationMatrix(q), order)
}

// matrixToEulerAngles decomposes R = R_i(a) R_j(b) R_k(c) for intrinsic order (i, j, k). The middle
// angle is in [-pi/2, pi/2]; in the singular configuration the last intrinsic angle is pinned to 0.
func matrixToEulerAngles(rm *RotationMatrix, order EulerOrder) *EulerAngles {
	if _, err := ParseEulerOrder(string(order)); err != nil {
		order = DefaultEulerOrder
	}
	axes := order.intrinsic().axes()
	i, j, k := axes[0], axes[1], axes[2]
	sign := 1.0
	if (i+1)%3 != j {
		sign = -1.0
	}

	sb := sign * rm.At(i, k)
	sb = math.Max(-1, math.Min(1, sb))
	b := math.Asin(sb)

	var a, c float64
	if math.Hypot(rm.At(i, i), rm.At(i, j)) > singularCos {
		a = math.Atan2(-sign*rm.At(j, k), rm.At(k, k))
		c = math.Atan2(-sign*rm.At(i, j), rm.At(i, i))
	} else {
		a = math.Atan2(sign*rm.At(k, j), rm.At(j, j))
		c = 0
	}

	angles := [3]float64{a, b, c}
	if order.Extrinsic() {
		angles = [3]float64{c, b, a}
	}
	return &EulerAngles{Order: order, Angles: angles}
}

func elementalQuat(axis int, angle float64) quat.Number {
	s, c := math.Sincos(angle / 2)
	switch axis {
	case 0:
		return quat.Number{Real: c, Imag: s}
	case 1:
		return quat.Number{Real: c, Jmag: s}
	default:
		return quat.Number{Real: c, Kmag: s}
	}
}
