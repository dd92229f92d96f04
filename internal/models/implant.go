// Package models holds the shared data model for the planning pipeline:
// implant placements, the per-volume geometry, and the fixed anatomical
// reference frame.
package models

import (
	"screwplanner/pkg/geometry"
)

// ImplantPlacement describes one planned implant as the operator defined
// it: two control points in the patient RAS frame plus the physical device
// dimensions. A placement is recreated whole whenever either control point
// is edited; the pipeline never mutates it.
type ImplantPlacement struct {
	// Name is the implant identifier, e.g. "L1R".
	Name string

	// Entry is the user-placed entry control point in RAS.
	Entry geometry.Point3

	// Tip is the user-placed tip control point in RAS.
	Tip geometry.Point3

	// Radius is the device radius in mm.
	Radius float64

	// Length is the device body length in mm.
	Length float64
}

// Midpoint returns the midpoint of the entry-tip segment. The host system
// stores device positions at the segment midpoint, so exports use the same
// convention.
func (p ImplantPlacement) Midpoint() geometry.Point3 {
	return geometry.Point3{
		Vec:    p.Entry.Vec.Add(p.Tip.Vec).Scale(0.5),
		System: p.Entry.System,
	}
}

// VolumeGeometry describes the loaded volume. It is immutable for the
// lifetime of the volume.
type VolumeGeometry struct {
	// IJKToRAS maps voxel indices to physical RAS coordinates.
	IJKToRAS geometry.Affine

	// FrameOfReferenceUID is the DICOM identifier of the physical imaging
	// frame the volume was acquired in.
	FrameOfReferenceUID string

	// VolumeID identifies the volume to the external viewer.
	VolumeID string
}
