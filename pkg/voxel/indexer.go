// Package voxel recovers integer voxel slice indices from physical focal
// points by inverting the volume's voxel-to-physical affine.
package voxel

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"screwplanner/pkg/geometry"
)

// SingularMatrixError reports that the voxel-to-physical matrix admits no
// unique slice-index solution.
type SingularMatrixError struct {
	// Err is the underlying solver failure.
	Err error
}

func (e *SingularMatrixError) Error() string {
	return fmt.Sprintf("voxel: ijk-to-LPS matrix is singular, no unique slice index: %v", e.Err)
}

func (e *SingularMatrixError) Unwrap() error { return e.Err }

// SliceIndices recovers the (i, j, k) voxel indices whose physical
// location is the given focal point. The focal point is converted to LPS
// if needed, the combined ijk-to-LPS affine is formed by the RAS/LPS flip,
// and the 4x4 linear system ijkToLps * [i j k 1]^T = [focal 1]^T is solved
// directly (an LU solve, not an explicit inversion, for numerical
// stability).
//
// The solved coordinates are rounded half away from zero (math.Round), so
// a fractional index of exactly .5 moves to the slice further from the
// origin. A singular matrix fails with a SingularMatrixError.
func SliceIndices(focal geometry.Point3, ijkToRAS geometry.Affine) (i, j, k int, err error) {
	f := geometry.PointToLPS(focal).Vec
	ijkToLPS := geometry.AffineToLPS(ijkToRAS, geometry.RAS)

	b := mat.NewVecDense(4, []float64{f[0], f[1], f[2], 1})
	var x mat.VecDense
	if err := x.SolveVec(ijkToLPS.Dense(), b); err != nil {
		return 0, 0, 0, &SingularMatrixError{Err: err}
	}

	i = int(math.Round(x.AtVec(0)))
	j = int(math.Round(x.AtVec(1)))
	k = int(math.Round(x.AtVec(2)))
	return i, j, k, nil
}
