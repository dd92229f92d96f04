// Package viewport assembles the three orthogonal MPR viewport
// descriptors an external volumetric viewer needs to reproduce the
// planned implant's slice views.
package viewport

import (
	"screwplanner/pkg/geometry"
)

// Plane identifiers. The serialized schema requires the viewports in
// exactly this order: axial, sagittal, coronal.
const (
	AxialID    = "mpr-axial"
	SagittalID = "mpr-sagittal"
	CoronalID  = "mpr-coronal"
)

// RenderingEngineID identifies the target viewer's rendering engine.
const RenderingEngineID = "OHIFCornerstoneRenderingEngine"

// ViewportType is the projection type shared by all three MPR views.
const ViewportType = "orthographic"

// Plane selects one of the three orthogonal MPR planes.
type Plane int

const (
	Axial Plane = iota
	Sagittal
	Coronal
)

// ID returns the viewport identifier of the plane.
func (p Plane) ID() string {
	switch p {
	case Axial:
		return AxialID
	case Sagittal:
		return SagittalID
	case Coronal:
		return CoronalID
	default:
		return "unknown"
	}
}

// Params carries the presentation constants the caller configures.
type Params struct {
	// ParallelScale is the viewer's parallel-projection scale.
	ParallelScale float64

	// CameraDistance is the camera's distance from the focal point in mm.
	CameraDistance float64
}

// Descriptor is one computed MPR viewport. All vectors and points are in
// LPS, matching the target viewer.
type Descriptor struct {
	// ID is one of mpr-axial, mpr-sagittal, mpr-coronal.
	ID string

	// ViewUp is the camera up direction.
	ViewUp geometry.Vec3

	// ViewPlaneNormal is the normal of the slice plane; the camera looks
	// toward the focal point along the negative normal.
	ViewPlaneNormal geometry.Vec3

	// Position is the camera position.
	Position geometry.Vec3

	// FocalPoint is the point all three views share.
	FocalPoint geometry.Vec3

	// SliceIndex is the voxel index of the displayed slice along the
	// plane's axis.
	SliceIndex int

	// InPlaneVector1 spans the slice plane together with InPlaneVector2;
	// it equals ViewUp.
	InPlaneVector1 geometry.Vec3

	// InPlaneVector2 is the unit vector orthogonal to both ViewUp and
	// ViewPlaneNormal.
	InPlaneVector2 geometry.Vec3
}

// CameraPosition places the camera so it looks toward the focal point
// along the negative view normal.
func CameraPosition(focal, viewNormal geometry.Vec3, distance float64) geometry.Vec3 {
	return focal.Add(viewNormal.Scale(distance))
}

// InPlaneVector2 returns the normalized second in-plane vector,
// perpendicular to both the view up and the view normal.
func InPlaneVector2(viewUp, viewNormal geometry.Vec3) geometry.Vec3 {
	v, _ := viewUp.Cross(viewNormal).Unit()
	return v
}

// Build computes the descriptor of one plane from the LPS pose. The view
// axes come from fixed pose columns per plane:
//
//	axial:    up = column 1, normal = column 0, slice index = K
//	sagittal: up = column 0, normal = column 2, slice index = I
//	coronal:  up = column 0, normal = column 1, slice index = J
func Build(plane Plane, poseLPS geometry.Affine, i, j, k int, params Params) Descriptor {
	var up, normal geometry.Vec3
	var index int
	switch plane {
	case Axial:
		up, normal, index = poseLPS.Col(1), poseLPS.Col(0), k
	case Sagittal:
		up, normal, index = poseLPS.Col(0), poseLPS.Col(2), i
	case Coronal:
		up, normal, index = poseLPS.Col(0), poseLPS.Col(1), j
	}

	focal := poseLPS.Translation()
	return Descriptor{
		ID:              plane.ID(),
		ViewUp:          up,
		ViewPlaneNormal: normal,
		Position:        CameraPosition(focal, normal, params.CameraDistance),
		FocalPoint:      focal,
		SliceIndex:      index,
		InPlaneVector1:  up,
		InPlaneVector2:  InPlaneVector2(up, normal),
	}
}

// BuildAll computes the three descriptors in the fixed schema order
// axial, sagittal, coronal.
func BuildAll(poseLPS geometry.Affine, i, j, k int, params Params) [3]Descriptor {
	return [3]Descriptor{
		Build(Axial, poseLPS, i, j, k, params),
		Build(Sagittal, poseLPS, i, j, k, params),
		Build(Coronal, poseLPS, i, j, k, params),
	}
}
