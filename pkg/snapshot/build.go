package snapshot

import (
	"fmt"
	"time"

	"screwplanner/internal/models"
	"screwplanner/pkg/alignment"
	"screwplanner/pkg/geometry"
	"screwplanner/pkg/viewport"
	"screwplanner/pkg/voxel"
)

// timestampLayout is ISO-8601 with millisecond precision and a literal
// "Z" suffix, the format the viewer expects.
const timestampLayout = "2006-01-02T15:04:05.000Z"

// Timestamp formats t for the persisted schema.
func Timestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

// BuildSnapshot runs the full transform pipeline for one implant: rigid
// alignment at the segment midpoint, axis correction against the
// anatomical frame, RAS-to-LPS conversion, slice-index recovery, and MPR
// viewport synthesis. The computation is pure apart from the supplied
// clock time; it is safe to call concurrently for different implants.
func BuildSnapshot(p models.ImplantPlacement, frame models.AnatomicalFrame, vol models.VolumeGeometry, params viewport.Params, now time.Time) (Snapshot, error) {
	entry := geometry.PointToRAS(p.Entry).Vec
	tip := geometry.PointToRAS(p.Tip).Vec

	dir, err := alignment.Direction(entry, tip)
	if err != nil {
		return Snapshot{}, err
	}

	pose, err := alignment.Align(p, alignment.AnchorMidpoint)
	if err != nil {
		return Snapshot{}, err
	}
	pose, err = alignment.CorrectAxes(pose, frame, dir)
	if err != nil {
		return Snapshot{}, err
	}

	poseLPS := geometry.AffineToLPS(pose, geometry.RAS)
	focal := geometry.Point3{Vec: poseLPS.Translation(), System: geometry.LPS}

	i, j, k, err := voxel.SliceIndices(focal, vol.IJKToRAS)
	if err != nil {
		return Snapshot{}, fmt.Errorf("implant %s: %w", p.Name, err)
	}

	descriptors := viewport.BuildAll(poseLPS, i, j, k, params)

	viewports := make([]Viewport, 0, len(descriptors))
	for _, d := range descriptors {
		viewports = append(viewports, fromDescriptor(d, vol, params))
	}

	return Snapshot{
		Name:      p.Name,
		Timestamp: Timestamp(now),
		Radius:    p.Radius,
		Length:    p.Length,
		Transform: poseLPS.Slice(),
		Viewports: viewports,
	}, nil
}

// BuildDocument builds the file-level aggregate for a batch of implants,
// preserving the given order.
func BuildDocument(placements []models.ImplantPlacement, frame models.AnatomicalFrame, vol models.VolumeGeometry, params viewport.Params, now time.Time) (Document, error) {
	doc := make(Document, 0, len(placements))
	for _, p := range placements {
		snap, err := BuildSnapshot(p, frame, vol, params, now)
		if err != nil {
			return nil, err
		}
		doc = append(doc, Entry{Name: p.Name, Snapshot: snap})
	}
	return doc, nil
}

// fromDescriptor converts a computed viewport descriptor into its wire
// form.
func fromDescriptor(d viewport.Descriptor, vol models.VolumeGeometry, params viewport.Params) Viewport {
	return Viewport{
		FrameOfReferenceUID: vol.FrameOfReferenceUID,
		Camera: Camera{
			ViewUp:             d.ViewUp,
			ViewPlaneNormal:    d.ViewPlaneNormal,
			Position:           d.Position,
			FocalPoint:         d.FocalPoint,
			ParallelProjection: true,
			ParallelScale:      params.ParallelScale,
			ViewAngle:          90,
			Rotation:           0,
		},
		ViewReference: ViewReference{
			FrameOfReferenceUID: vol.FrameOfReferenceUID,
			CameraFocalPoint:    d.FocalPoint,
			ViewPlaneNormal:     d.ViewPlaneNormal,
			ViewUp:              d.ViewUp,
			SliceIndex:          d.SliceIndex,
			PlaneRestriction: PlaneRestriction{
				FrameOfReferenceUID: vol.FrameOfReferenceUID,
				Point:               d.FocalPoint,
				InPlaneVector1:      d.InPlaneVector1,
				InPlaneVector2:      Indexed3(d.InPlaneVector2),
			},
			VolumeID: vol.VolumeID,
		},
		ViewPresentation: ViewPresentation{
			Rotation: 0,
			Zoom:     1,
			Pan:      [2]float64{0, 0},
		},
		Metadata: Metadata{
			ViewportID:        d.ID,
			ViewportType:      viewport.ViewportType,
			RenderingEngineID: viewport.RenderingEngineID,
			Zoom:              1,
			Pan:               [2]float64{0, 0},
		},
	}
}
