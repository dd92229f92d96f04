// Package geometry provides the spatial primitives shared by the planning
// pipeline: 3-vectors and points in a named patient coordinate system,
// row-major 4x4 affine transforms, and the RAS/LPS axis conventions.
package geometry

import (
	"math"
)

// CoordinateSystem identifies the anatomical labeling convention of a
// spatial value. The two supported systems differ only in the sign of the
// first two axes.
type CoordinateSystem int

const (
	// RAS labels the axes Right-Anterior-Superior (3D Slicer convention).
	RAS CoordinateSystem = iota

	// LPS labels the axes Left-Posterior-Superior (DICOM/ITK convention).
	LPS
)

// String returns the conventional name of the coordinate system.
func (s CoordinateSystem) String() string {
	switch s {
	case RAS:
		return "RAS"
	case LPS:
		return "LPS"
	default:
		return "unknown"
	}
}

// Vec3 is a 3-vector of physical coordinates in millimeters.
type Vec3 [3]float64

// Point3 is a physical location whose coordinate system is carried
// alongside the value so that RAS and LPS coordinates are never mixed
// silently.
type Point3 struct {
	// Vec holds the coordinate values in millimeters.
	Vec Vec3

	// System is the anatomical convention the coordinates are expressed in.
	System CoordinateSystem
}

// Vec3FromSlice converts a raw slice into a Vec3.
// It returns a ShapeError if the slice is not of length 3.
func Vec3FromSlice(v []float64) (Vec3, error) {
	if len(v) != 3 {
		return Vec3{}, &ShapeError{Want: "length-3 vector", Got: len(v)}
	}
	return Vec3{v[0], v[1], v[2]}, nil
}

// Add returns v + w.
func (v Vec3) Add(w Vec3) Vec3 {
	return Vec3{v[0] + w[0], v[1] + w[1], v[2] + w[2]}
}

// Sub returns v - w.
func (v Vec3) Sub(w Vec3) Vec3 {
	return Vec3{v[0] - w[0], v[1] - w[1], v[2] - w[2]}
}

// Scale returns v scaled by s.
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v[0] * s, v[1] * s, v[2] * s}
}

// Dot returns the dot product of v and w.
func (v Vec3) Dot(w Vec3) float64 {
	return v[0]*w[0] + v[1]*w[1] + v[2]*w[2]
}

// Cross returns the cross product v x w.
func (v Vec3) Cross(w Vec3) Vec3 {
	return Vec3{
		v[1]*w[2] - v[2]*w[1],
		v[2]*w[0] - v[0]*w[2],
		v[0]*w[1] - v[1]*w[0],
	}
}

// Norm returns the Euclidean length of v.
func (v Vec3) Norm() float64 {
	return math.Sqrt(v.Dot(v))
}

// Unit returns v normalized to unit length. The second return value is
// false when v is too short to define a direction.
func (v Vec3) Unit() (Vec3, bool) {
	n := v.Norm()
	if n < degenerateNorm {
		return Vec3{}, false
	}
	return v.Scale(1 / n), true
}

// Neg returns -v.
func (v Vec3) Neg() Vec3 {
	return Vec3{-v[0], -v[1], -v[2]}
}

// degenerateNorm is the length below which a vector cannot define a
// direction.
const degenerateNorm = 1e-12

// Rotation is a row-major 3x3 matrix. The pipeline uses it for
// direction-cosine matrices and for the shortest-arc rotations that align
// the device axis with a planned trajectory.
type Rotation [9]float64

// IdentityRotation returns the 3x3 identity matrix.
func IdentityRotation() Rotation {
	return Rotation{
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
	}
}

// MulVec returns r * v.
func (r Rotation) MulVec(v Vec3) Vec3 {
	return Vec3{
		r[0]*v[0] + r[1]*v[1] + r[2]*v[2],
		r[3]*v[0] + r[4]*v[1] + r[5]*v[2],
		r[6]*v[0] + r[7]*v[1] + r[8]*v[2],
	}
}

// Mul returns the matrix product r * s.
func (r Rotation) Mul(s Rotation) Rotation {
	var out Rotation
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			var acc float64
			for k := 0; k < 3; k++ {
				acc += r[3*i+k] * s[3*k+j]
			}
			out[3*i+j] = acc
		}
	}
	return out
}

// Transpose returns r transposed. For a proper rotation this is the
// inverse.
func (r Rotation) Transpose() Rotation {
	return Rotation{
		r[0], r[3], r[6],
		r[1], r[4], r[7],
		r[2], r[5], r[8],
	}
}

// Det returns the determinant of r.
func (r Rotation) Det() float64 {
	return r[0]*(r[4]*r[8]-r[5]*r[7]) -
		r[1]*(r[3]*r[8]-r[5]*r[6]) +
		r[2]*(r[3]*r[7]-r[4]*r[6])
}

// Col returns the j-th column of r.
func (r Rotation) Col(j int) Vec3 {
	return Vec3{r[j], r[3+j], r[6+j]}
}
