package alignment

import (
	"screwplanner/internal/models"
	"screwplanner/pkg/geometry"
)

// CorrectAxes re-aligns the local axes of a coarse pose to the volume's
// native slice orientations so that the MPR viewports do not roll as the
// trajectory direction varies.
//
// A correction rotation is computed by minimally rotating the frame's
// coronal-plane normal onto the measured direction. The pose's in-plane
// axes are then overwritten: the new local X axis is the corrected
// (negated) axial-plane normal, and the new local Z axis is the cross
// product of the new X axis with the direction. Column 1 keeps the
// trajectory alignment produced by Align.
//
// The frame must be orthonormal and fixed for the session.
func CorrectAxes(pose geometry.Affine, frame models.AnatomicalFrame, direction geometry.Vec3) (geometry.Affine, error) {
	dir, ok := direction.Unit()
	if !ok {
		return geometry.Affine{}, &DegenerateGeometryError{Tip: direction}
	}

	fix, err := AlignAxis(frame.CoronalNormal(), dir)
	if err != nil {
		return geometry.Affine{}, err
	}

	x := fix.MulVec(frame.AxialNormal().Neg())
	pose.SetCol(0, x)
	pose.SetCol(2, x.Cross(dir))
	return pose, nil
}
