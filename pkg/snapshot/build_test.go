package snapshot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"screwplanner/internal/models"
	"screwplanner/pkg/alignment"
	"screwplanner/pkg/geometry"
	"screwplanner/pkg/viewport"
)

func testClock() time.Time {
	return time.Date(2025, 8, 25, 13, 5, 7, 123_000_000, time.UTC)
}

// TestBuildSnapshotReferenceScenario pins the whole pipeline on a
// hand-computed case: a straight inferior trajectory from the RAS origin
// through a flipped-axis volume. Every number below was derived on paper
// from the individual stage contracts.
func TestBuildSnapshotReferenceScenario(t *testing.T) {
	p := testPlacement("L1R", geometry.Vec3{0, 0, 0}, geometry.Vec3{0, -35, 0})
	params := viewport.Params{ParallelScale: 234.20727282007405, CameraDistance: 350}

	snap, err := BuildSnapshot(p, models.DefaultFrame(), testVolume(), params, testClock())
	require.NoError(t, err)

	assert.Equal(t, "L1R", snap.Name)
	assert.Equal(t, "2025-08-25T13:05:07.123Z", snap.Timestamp)
	assert.Equal(t, 6.5, snap.Radius)
	assert.Equal(t, 35.0, snap.Length)

	// Midpoint-anchored pose after axis correction, converted to LPS
	wantTransform := []float64{
		0, 0, 1, 0,
		0, -1, 0, 17.5,
		-1, 0, 0, 0,
		0, 0, 0, 1,
	}
	assert.InDeltaSlice(t, wantTransform, snap.Transform, 1e-12)

	require.Len(t, snap.Viewports, 3)
	focal := geometry.Vec3{0, 17.5, 0}

	axial := snap.Viewports[0]
	assert.Equal(t, geometry.Vec3{0, -1, 0}, axial.Camera.ViewUp)
	assert.Equal(t, geometry.Vec3{0, 0, -1}, axial.Camera.ViewPlaneNormal)
	assert.Equal(t, geometry.Vec3{0, 17.5, -350}, axial.Camera.Position)
	assert.Equal(t, focal, axial.Camera.FocalPoint)
	assert.Equal(t, 0, axial.ViewReference.SliceIndex)
	assert.Equal(t, Indexed3{1, 0, 0}, axial.ViewReference.PlaneRestriction.InPlaneVector2)

	sagittal := snap.Viewports[1]
	assert.Equal(t, geometry.Vec3{0, 0, -1}, sagittal.Camera.ViewUp)
	assert.Equal(t, geometry.Vec3{1, 0, 0}, sagittal.Camera.ViewPlaneNormal)
	assert.Equal(t, geometry.Vec3{350, 17.5, 0}, sagittal.Camera.Position)
	assert.Equal(t, 100, sagittal.ViewReference.SliceIndex)
	assert.Equal(t, Indexed3{0, -1, 0}, sagittal.ViewReference.PlaneRestriction.InPlaneVector2)

	coronal := snap.Viewports[2]
	assert.Equal(t, geometry.Vec3{0, 0, -1}, coronal.Camera.ViewUp)
	assert.Equal(t, geometry.Vec3{0, -1, 0}, coronal.Camera.ViewPlaneNormal)
	assert.Equal(t, geometry.Vec3{0, -332.5, 0}, coronal.Camera.Position)
	assert.Equal(t, 118, coronal.ViewReference.SliceIndex)
	assert.Equal(t, Indexed3{-1, 0, 0}, coronal.ViewReference.PlaneRestriction.InPlaneVector2)
}

// TestBuildSnapshotWireConstants checks the fixed presentation fields and
// identifier plumbing shared by all three viewports
func TestBuildSnapshotWireConstants(t *testing.T) {
	p := testPlacement("L1R", geometry.Vec3{2, 1, -3}, geometry.Vec3{10, -30, 4})
	vol := testVolume()
	params := viewport.Params{ParallelScale: 200, CameraDistance: 350}

	snap, err := BuildSnapshot(p, models.DefaultFrame(), vol, params, testClock())
	require.NoError(t, err)

	wantIDs := []string{viewport.AxialID, viewport.SagittalID, viewport.CoronalID}
	for i, vp := range snap.Viewports {
		assert.Equal(t, wantIDs[i], vp.Metadata.ViewportID)
		assert.Equal(t, viewport.ViewportType, vp.Metadata.ViewportType)
		assert.Equal(t, viewport.RenderingEngineID, vp.Metadata.RenderingEngineID)
		assert.Equal(t, 1.0, vp.Metadata.Zoom)
		assert.Equal(t, [2]float64{0, 0}, vp.Metadata.Pan)

		assert.True(t, vp.Camera.ParallelProjection)
		assert.Equal(t, 200.0, vp.Camera.ParallelScale)
		assert.Equal(t, 90.0, vp.Camera.ViewAngle)
		assert.Equal(t, 0.0, vp.Camera.Rotation)

		assert.Equal(t, vol.FrameOfReferenceUID, vp.FrameOfReferenceUID)
		assert.Equal(t, vol.FrameOfReferenceUID, vp.ViewReference.FrameOfReferenceUID)
		assert.Equal(t, vol.FrameOfReferenceUID, vp.ViewReference.PlaneRestriction.FrameOfReferenceUID)
		assert.Equal(t, vol.VolumeID, vp.ViewReference.VolumeID)

		assert.Equal(t, vp.Camera.FocalPoint, vp.ViewReference.CameraFocalPoint)
		assert.Equal(t, vp.Camera.FocalPoint, vp.ViewReference.PlaneRestriction.Point)
		assert.Equal(t, vp.Camera.ViewUp, vp.ViewReference.PlaneRestriction.InPlaneVector1)

		assert.Equal(t, 1.0, vp.ViewPresentation.Zoom)
		assert.Equal(t, 0.0, vp.ViewPresentation.Rotation)
	}
}

// TestBuildSnapshotAcceptsLPSControlPoints verifies control points tagged
// LPS are converted before alignment rather than misread as RAS
func TestBuildSnapshotAcceptsLPSControlPoints(t *testing.T) {
	ras := testPlacement("L1R", geometry.Vec3{0, 0, 0}, geometry.Vec3{0, -35, 0})

	lps := ras
	lps.Entry = geometry.PointToLPS(ras.Entry)
	lps.Tip = geometry.PointToLPS(ras.Tip)

	params := viewport.Params{ParallelScale: 200, CameraDistance: 350}
	want, err := BuildSnapshot(ras, models.DefaultFrame(), testVolume(), params, testClock())
	require.NoError(t, err)
	got, err := BuildSnapshot(lps, models.DefaultFrame(), testVolume(), params, testClock())
	require.NoError(t, err)

	assert.Equal(t, want.Transform, got.Transform)
	assert.Equal(t, want.Viewports, got.Viewports)
}

// TestBuildSnapshotDegenerate verifies a zero-length trajectory surfaces
// the alignment error
func TestBuildSnapshotDegenerate(t *testing.T) {
	p := testPlacement("L1R", geometry.Vec3{1, 2, 3}, geometry.Vec3{1, 2, 3})

	_, err := BuildSnapshot(p, models.DefaultFrame(), testVolume(), viewport.Params{}, testClock())
	require.Error(t, err)

	var degenerate *alignment.DegenerateGeometryError
	assert.ErrorAs(t, err, &degenerate)
}

// TestBuildDocumentOrderAndErrors verifies input order is preserved and
// that one bad implant fails the whole batch
func TestBuildDocumentOrderAndErrors(t *testing.T) {
	good := []models.ImplantPlacement{
		testPlacement("L2L", geometry.Vec3{-2, 1, -3}, geometry.Vec3{-10, -30, 4}),
		testPlacement("L1R", geometry.Vec3{2, 1, -3}, geometry.Vec3{10, -30, 4}),
	}
	params := viewport.Params{ParallelScale: 200, CameraDistance: 350}

	doc, err := BuildDocument(good, models.DefaultFrame(), testVolume(), params, testClock())
	require.NoError(t, err)
	require.Len(t, doc, 2)
	assert.Equal(t, "L2L", doc[0].Name)
	assert.Equal(t, "L1R", doc[1].Name)

	bad := append(good, testPlacement("L3R", geometry.Vec3{1, 1, 1}, geometry.Vec3{1, 1, 1}))
	_, err = BuildDocument(bad, models.DefaultFrame(), testVolume(), params, testClock())
	require.Error(t, err)
}

// TestTimestampFormatsUTC verifies non-UTC times are normalized before
// formatting
func TestTimestampFormatsUTC(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	local := time.Date(2025, 8, 25, 15, 5, 7, 123_000_000, loc)

	assert.Equal(t, "2025-08-25T13:05:07.123Z", Timestamp(local))
}
