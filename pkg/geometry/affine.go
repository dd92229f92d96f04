package geometry

import (
	"gonum.org/v1/gonum/mat"
)

// Affine is a 4x4 homogeneous transform stored row-major. The top-left 3x3
// block holds the rotation, the fourth column the translation, and the
// bottom row is fixed to [0 0 0 1]. Composing two transforms is only
// meaningful within one coordinate system; cross-system composition must go
// through the conversions in coords.go.
type Affine [16]float64

// IdentityAffine returns the 4x4 identity transform.
func IdentityAffine() Affine {
	return Affine{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// AffineFromSlice converts a raw 16-element row-major slice into an Affine.
// It returns a ShapeError if the slice is not of length 16.
func AffineFromSlice(m []float64) (Affine, error) {
	if len(m) != 16 {
		return Affine{}, &ShapeError{Want: "4x4 matrix (16 elements row-major)", Got: len(m)}
	}
	var a Affine
	copy(a[:], m)
	return a, nil
}

// AffineFromParts assembles a transform from a rotation block and a
// translation vector.
func AffineFromParts(r Rotation, t Vec3) Affine {
	return Affine{
		r[0], r[1], r[2], t[0],
		r[3], r[4], r[5], t[1],
		r[6], r[7], r[8], t[2],
		0, 0, 0, 1,
	}
}

// Mul returns the composition a * b, applying b first.
func (a Affine) Mul(b Affine) Affine {
	var out Affine
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			var acc float64
			for k := 0; k < 4; k++ {
				acc += a[4*i+k] * b[4*k+j]
			}
			out[4*i+j] = acc
		}
	}
	return out
}

// Apply transforms the point v through a, treating v as homogeneous with
// weight 1.
func (a Affine) Apply(v Vec3) Vec3 {
	return Vec3{
		a[0]*v[0] + a[1]*v[1] + a[2]*v[2] + a[3],
		a[4]*v[0] + a[5]*v[1] + a[6]*v[2] + a[7],
		a[8]*v[0] + a[9]*v[1] + a[10]*v[2] + a[11],
	}
}

// Rotation returns the top-left 3x3 block of a.
func (a Affine) Rotation() Rotation {
	return Rotation{
		a[0], a[1], a[2],
		a[4], a[5], a[6],
		a[8], a[9], a[10],
	}
}

// Col returns the j-th column of the rotation block. Column 0 is the local
// X axis, column 1 the local Y axis, column 2 the local Z axis.
func (a Affine) Col(j int) Vec3 {
	return Vec3{a[j], a[4+j], a[8+j]}
}

// SetCol overwrites the j-th column of the rotation block.
func (a *Affine) SetCol(j int, v Vec3) {
	a[j] = v[0]
	a[4+j] = v[1]
	a[8+j] = v[2]
}

// Translation returns the translation column of a.
func (a Affine) Translation() Vec3 {
	return Vec3{a[3], a[7], a[11]}
}

// SetTranslation overwrites the translation column of a.
func (a *Affine) SetTranslation(v Vec3) {
	a[3] = v[0]
	a[7] = v[1]
	a[11] = v[2]
}

// Dense returns a gonum view of a for linear-algebra routines. The returned
// matrix is a copy; mutating it does not change a.
func (a Affine) Dense() *mat.Dense {
	return mat.NewDense(4, 4, append([]float64(nil), a[:]...))
}

// Slice returns the 16 row-major elements as a fresh slice, the shape the
// persisted JSON schema uses.
func (a Affine) Slice() []float64 {
	return append([]float64(nil), a[:]...)
}
