package geometry

// RAS and LPS differ by the sign of the first two axes, so converting
// between them is a fixed axis flip. The flip is an involution: applying it
// twice is the identity to machine precision.
//
// For a full affine transform the flip is LEFT-multiplied onto the matrix
// (T_lps = flip * T_ras). Left multiplication flips only the output (world)
// frame and leaves the transform's local axes intact, which is what lets a
// device pose computed in RAS be handed to an LPS viewer unchanged. The
// similarity form flip*T*flip would also rewrite the local axes and is
// wrong for pose reuse. A historical variant that flipped only the diagonal
// and translation entries diverges for matrices with off-diagonal rotation
// and is deliberately not implemented.

// FlipRASLPS returns the 4x4 matrix that converts between RAS and LPS by
// negating the X and Y axes. The matrix is its own inverse.
func FlipRASLPS() Affine {
	return Affine{
		-1, 0, 0, 0,
		0, -1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// AffineToLPS converts the transform t, expressed in the system from, to
// LPS. A transform already in LPS is returned unchanged.
func AffineToLPS(t Affine, from CoordinateSystem) Affine {
	if from == LPS {
		return t
	}
	return FlipRASLPS().Mul(t)
}

// AffineToRAS converts the transform t, expressed in the system from, to
// RAS. A transform already in RAS is returned unchanged.
func AffineToRAS(t Affine, from CoordinateSystem) Affine {
	if from == RAS {
		return t
	}
	return FlipRASLPS().Mul(t)
}

// PointToLPS converts p to LPS. Points already in LPS are returned
// unchanged.
func PointToLPS(p Point3) Point3 {
	if p.System == LPS {
		return p
	}
	return Point3{
		Vec:    Vec3{-p.Vec[0], -p.Vec[1], p.Vec[2]},
		System: LPS,
	}
}

// PointToRAS converts p to RAS. Points already in RAS are returned
// unchanged.
func PointToRAS(p Point3) Point3 {
	if p.System == RAS {
		return p
	}
	return Point3{
		Vec:    Vec3{-p.Vec[0], -p.Vec[1], p.Vec[2]},
		System: RAS,
	}
}
