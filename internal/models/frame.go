package models

import (
	"screwplanner/pkg/geometry"
)

// AnatomicalFrame holds the three fixed direction-cosine matrices of the
// volume's native slice orientations. It is captured once per imaging
// session and must stay immutable while the volume is loaded; the axis
// correction step assumes the matrices are orthonormal, and violating that
// gives undefined (but non-crashing) viewport roll.
type AnatomicalFrame struct {
	// Axial is the direction-cosine matrix of the axial (red) plane.
	Axial geometry.Rotation

	// Coronal is the direction-cosine matrix of the coronal (green) plane.
	Coronal geometry.Rotation

	// Sagittal is the direction-cosine matrix of the sagittal (yellow)
	// plane.
	Sagittal geometry.Rotation
}

// AxialNormal returns the axial plane normal (third column).
func (f AnatomicalFrame) AxialNormal() geometry.Vec3 {
	return f.Axial.Col(2)
}

// CoronalNormal returns the coronal plane normal (third column).
func (f AnatomicalFrame) CoronalNormal() geometry.Vec3 {
	return f.Coronal.Col(2)
}

// SagittalNormal returns the sagittal plane normal (third column).
func (f AnatomicalFrame) SagittalNormal() geometry.Vec3 {
	return f.Sagittal.Col(2)
}

// DefaultFrame returns the viewer's native slice orientations in RAS:
// axial normal (0,0,1), sagittal normal (1,0,0), coronal normal (0,1,0).
// Sessions that reorient their slice planes must capture the matrices from
// the live views instead.
func DefaultFrame() AnatomicalFrame {
	return AnatomicalFrame{
		Axial: geometry.Rotation{
			-1, 0, 0,
			0, 1, 0,
			0, 0, 1,
		},
		Sagittal: geometry.Rotation{
			0, 0, 1,
			-1, 0, 0,
			0, 1, 0,
		},
		Coronal: geometry.Rotation{
			-1, 0, 0,
			0, 0, 1,
			0, 1, 0,
		},
	}
}
