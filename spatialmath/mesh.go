package spatialmath

import (
	"github.com/golang/geo/r3"
)

// Mesh is a set of triangles describing the surface of an object centered on the origin. The
// visualizer draws one mesh unrotated and a copy transformed by the current orientation.
type Mesh struct {
	triangles []*Triangle
}

// NewMesh returns a mesh made of the given triangles.
func NewMesh(triangles []*Triangle) *Mesh {
	return &Mesh{triangles: triangles}
}

// Triangles returns the faces of the mesh.
func (m *Mesh) Triangles() []*Triangle {
	return m.triangles
}

// Transform returns a copy of the mesh rotated by o.
func (m *Mesh) Transform(o Orientation) *Mesh {
	tris := make([]*Triangle, 0, len(m.triangles))
	for _, t := range m.triangles {
		tris = append(tris, t.Transform(o))
	}
	return &Mesh{triangles: tris}
}

// Edges returns every distinct triangle edge once, with the diagonals of coplanar quads removed so
// that a box draws as a box.
func (m *Mesh) Edges() [][2]r3.Vector {
	type key struct{ a, b r3.Vector }
	count := map[key]int{}
	normals := map[key][]r3.Vector{}
	var order []key
	for _, t := range m.triangles {
		pts := t.Points()
		for i := 0; i < 3; i++ {
			a, b := pts[i], pts[(i+1)%3]
			if lessVec(b, a) {
				a, b = b, a
			}
			k := key{a, b}
			if count[k] == 0 {
				order = append(order, k)
			}
			count[k]++
			normals[k] = append(normals[k], t.Normal())
		}
	}
	edges := make([][2]r3.Vector, 0, len(order))
	for _, k := range order {
		ns := normals[k]
		if len(ns) == 2 && ns[0].Sub(ns[1]).Norm() < 1e-9 {
			continue
		}
		edges = append(edges, [2]r3.Vector{k.a, k.b})
	}
	return edges
}

// NewBoxMesh returns a box with the given side lengths, centered on the origin, with outward
// facing normals.
func NewBoxMesh(dims r3.Vector) *Mesh {
	h := dims.Mul(0.5)
	v := func(sx, sy, sz float64) r3.Vector { return r3.Vector{X: sx * h.X, Y: sy * h.Y, Z: sz * h.Z} }
	c := [8]r3.Vector{
		v(-1, -1, -1), v(1, -1, -1), v(1, 1, -1), v(-1, 1, -1),
		v(-1, -1, 1), v(1, -1, 1), v(1, 1, 1), v(-1, 1, 1),
	}
	quads := [6][4]int{
		{0, 3, 2, 1}, // -z
		{4, 5, 6, 7}, // +z
		{0, 1, 5, 4}, // -y
		{2, 3, 7, 6}, // +y
		{1, 2, 6, 5}, // +x
		{0, 4, 7, 3}, // -x
	}
	tris := make([]*Triangle, 0, 12)
	for _, q := range quads {
		tris = append(tris,
			NewTriangle(c[q[0]], c[q[1]], c[q[2]]),
			NewTriangle(c[q[0]], c[q[2]], c[q[3]]),
		)
	}
	return NewMesh(tris)
}

// BasisAxes returns the images of the x, y and z unit vectors under o, scaled to length.
func BasisAxes(o Orientation, length float64) [3]r3.Vector {
	rm := o.RotationMatrix()
	return [3]r3.Vector{rm.Col(0).Mul(length), rm.Col(1).Mul(length), rm.Col(2).Mul(length)}
}

func lessVec(a, b r3.Vector) bool {
	if a.X != b.X {
		return a.X < b.X
	}
	if a.Y != b.Y {
		return a.Y < b.Y
	}
	return a.Z < b.Z
}
