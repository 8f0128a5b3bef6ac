package spatialmath

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/num/quat"

	"go.viam.com/rotviz/utils"
)

// RotationMatrix is a 3x3 orthonormal matrix with determinant +1, stored row-major.
type RotationMatrix struct {
	mat [9]float64
}

// rankEpsilon is the smallest column norm Gram-Schmidt accepts.
const rankEpsilon = 1e-9

// DefaultColumnPriority keeps the first column's direction, then the second's plane.
var DefaultColumnPriority = [3]int{0, 1, 2}

// NewRotationMatrix builds a rotation matrix from nine row-major values. The values do not need to
// be orthonormal: they are orthonormalized with GramSchmidt using DefaultColumnPriority.
func NewRotationMatrix(m [9]float64) (*RotationMatrix, error) {
	return NewRotationMatrixWithPriority(m, DefaultColumnPriority)
}

// NewRotationMatrixWithPriority is NewRotationMatrix with an explicit Gram-Schmidt column priority.
func NewRotationMatrixWithPriority(m [9]float64, priority [3]int) (*RotationMatrix, error) {
	if !utils.IsFinite(m[:]...) {
		return nil, errors.New("rotation matrix values must be finite")
	}
	ortho, err := GramSchmidt(m, priority)
	if err != nil {
		return nil, err
	}
	return &RotationMatrix{mat: ortho}, nil
}

// At returns the value at row, col.
func (rm *RotationMatrix) At(row, col int) float64 {
	return rm.mat[row*3+col]
}

// Row returns a row of the matrix.
func (rm *RotationMatrix) Row(row int) r3.Vector {
	return r3.Vector{X: rm.mat[row*3], Y: rm.mat[row*3+1], Z: rm.mat[row*3+2]}
}

// Col returns a column of the matrix, the image of a basis vector.
func (rm *RotationMatrix) Col(col int) r3.Vector {
	return r3.Vector{X: rm.mat[col], Y: rm.mat[3+col], Z: rm.mat[6+col]}
}

// Values returns the nine row-major values.
func (rm *RotationMatrix) Values() [9]float64 {
	return rm.mat
}

// Rows returns the matrix as three rows.
func (rm *RotationMatrix) Rows() [][]float64 {
	return [][]float64{rm.mat[0:3:3], rm.mat[3:6:6], rm.mat[6:9:9]}
}

// Dense returns a copy of the matrix as a gonum Dense.
func (rm *RotationMatrix) Dense() *mat.Dense {
	vals := rm.mat
	return mat.NewDense(3, 3, vals[:])
}

// Det returns the determinant, which is +1 for any valid rotation.
func (rm *RotationMatrix) Det() float64 {
	return mat.Det(rm.Dense())
}

// Mul returns rm * other.
func (rm *RotationMatrix) Mul(other *RotationMatrix) *RotationMatrix {
	var prod mat.Dense
	prod.Mul(rm.Dense(), other.Dense())
	out := &RotationMatrix{}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out.mat[i*3+j] = prod.At(i, j)
		}
	}
	return out
}

// Transpose returns the transpose, which for a rotation is its inverse.
func (rm *RotationMatrix) Transpose() *RotationMatrix {
	m := rm.mat
	return &RotationMatrix{mat: [9]float64{
		m[0], m[3], m[6],
		m[1], m[4], m[7],
		m[2], m[5], m[8],
	}}
}

// Quaternion returns orientation in quaternion representation.
func (rm *RotationMatrix) Quaternion() quat.Number {
	return RotationMatrixToQuat(rm.mat)
}

// AxisAngles returns the orientation in axis angle representation.
func (rm *RotationMatrix) AxisAngles() *R4AA {
	return QuatToR4AA(rm.Quaternion())
}

// RotationVector returns the orientation as a rotation vector.
func (rm *RotationMatrix) RotationVector() *RotationVector {
	return QuatToRotationVector(rm.Quaternion())
}

// RotationMatrix returns the orientation in rotation matrix representation.
func (rm *RotationMatrix) RotationMatrix() *RotationMatrix {
	return rm
}

// EulerAngles returns orientation in Euler angle representation.
func (rm *RotationMatrix) EulerAngles(order EulerOrder) *EulerAngles {
	return matrixToEulerAngles(rm, order)
}

// RotationMatrixToQuat converts row-major rotation matrix values to a unit quaternion using
// Shepperd's method, which picks the numerically largest pivot.
func RotationMatrixToQuat(m [9]float64) quat.Number {
	m00, m01, m02 := m[0], m[1], m[2]
	m10, m11, m12 := m[3], m[4], m[5]
	m20, m21, m22 := m[6], m[7], m[8]

	var q quat.Number
	tr := m00 + m11 + m22
	switch {
	case tr > 0:
		s := math.Sqrt(tr+1) * 2
		q = quat.Number{Real: s / 4, Imag: (m21 - m12) / s, Jmag: (m02 - m20) / s, Kmag: (m10 - m01) / s}
	case m00 > m11 && m00 > m22:
		s := math.Sqrt(1+m00-m11-m22) * 2
		q = quat.Number{Real: (m21 - m12) / s, Imag: s / 4, Jmag: (m01 + m10) / s, Kmag: (m02 + m20) / s}
	case m11 > m22:
		s := math.Sqrt(1+m11-m00-m22) * 2
		q = quat.Number{Real: (m02 - m20) / s, Imag: (m01 + m10) / s, Jmag: s / 4, Kmag: (m12 + m21) / s}
	default:
		s := math.Sqrt(1+m22-m00-m11) * 2
		q = quat.Number{Real: (m10 - m01) / s, Imag: (m02 + m20) / s, Jmag: (m12 + m21) / s, Kmag: s / 4}
	}
	return normalizeQuat(q)
}

// GramSchmidt orthonormalizes the columns of a row-major 3x3 matrix. priority lists the column
// indices from most to least trusted: the first keeps its direction, the second keeps its plane
// with the first, and the last is rebuilt as a cross product so the result is a proper rotation
// (det +1) even if the input was a reflection.
func GramSchmidt(m [9]float64, priority [3]int) ([9]float64, error) {
	if !isPermutation(priority) {
		return [9]float64{}, errors.Errorf("column priority %v is not a permutation of 0, 1, 2", priority)
	}
	cols := [3]r3.Vector{
		{X: m[0], Y: m[3], Z: m[6]},
		{X: m[1], Y: m[4], Z: m[7]},
		{X: m[2], Y: m[5], Z: m[8]},
	}
	first, second, third := priority[0], priority[1], priority[2]

	u := cols[first]
	if u.Norm() < rankEpsilon {
		return [9]float64{}, errors.Errorf("matrix is rank deficient: column %d is zero", first)
	}
	u = u.Normalize()

	v := cols[second].Sub(u.Mul(cols[second].Dot(u)))
	if v.Norm() < rankEpsilon {
		return [9]float64{}, errors.Errorf("matrix is rank deficient: columns %d and %d are parallel", first, second)
	}
	v = v.Normalize()

	var w r3.Vector
	if isCyclic(priority) {
		w = u.Cross(v)
	} else {
		w = v.Cross(u)
	}

	var out [3]r3.Vector
	out[first], out[second], out[third] = u, v, w
	return [9]float64{
		out[0].X, out[1].X, out[2].X,
		out[0].Y, out[1].Y, out[2].Y,
		out[0].Z, out[1].Z, out[2].Z,
	}, nil
}

// IsRotationMatrix reports whether the values are orthonormal with determinant +1 within tol.
func IsRotationMatrix(m [9]float64, tol float64) bool {
	d := mat.NewDense(3, 3, append([]float64(nil), m[:]...))
	var mtm mat.Dense
	mtm.Mul(d.T(), d)
	if !mat.EqualApprox(&mtm, eye3(), tol) {
		return false
	}
	return math.Abs(mat.Det(d)-1) <= tol
}

// RotationMatrixAlmostEqual compares two rotation matrices element-wise.
func RotationMatrixAlmostEqual(a, b *RotationMatrix, tol float64) bool {
	for i := range a.mat {
		if math.Abs(a.mat[i]-b.mat[i]) > tol {
			return false
		}
	}
	return true
}

func eye3() *mat.Dense {
	return mat.NewDense(3, 3, []float64{1, 0, 0, 0, 1, 0, 0, 0, 1})
}

func isPermutation(p [3]int) bool {
	var seen [3]bool
	for _, i := range p {
		if i < 0 || i > 2 || seen[i] {
			return false
		}
		seen[i] = true
	}
	return true
}

// isCyclic reports whether p is an even permutation of (0, 1, 2).
func isCyclic(p [3]int) bool {
	return (p[0]+1)%3 == p[1]
}
