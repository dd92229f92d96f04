// Package alignment computes the rigid pose of an implant from its two
// planned control points: a shortest-arc rotation taking the device's
// canonical long axis onto the measured trajectory, an explicit translation
// anchoring policy, and the axis correction that keeps the MPR views
// aligned with the volume's native slice orientations.
package alignment

import (
	"screwplanner/internal/models"
	"screwplanner/pkg/geometry"
)

// ScrewAxis is the canonical long axis of the device in its local frame,
// pointing from tip toward entry. Every exporting call site aligns this
// axis; callers that model the device the other way around must pass their
// own reference axis to AlignAxis rather than negating results.
var ScrewAxis = geometry.Vec3{0, -1, 0}

// ThreadMargin is the unthreaded shank allowance in mm added to the device
// length when placing the body in the 3D scene.
const ThreadMargin = 4.0

// CapOffset is the distance in mm behind the entry point at which the
// screw cap sits.
const CapOffset = 7.5

// TranslationPolicy selects where the assembled pose is anchored.
type TranslationPolicy int

const (
	// AnchorStart places the pose at the entry control point. Used by the
	// legacy transformation-file exporter.
	AnchorStart TranslationPolicy = iota

	// AnchorMidpoint places the pose at the midpoint of the entry-tip
	// segment. This is the canonical policy: the host system stores device
	// positions at the segment midpoint, and the viewport exporter follows
	// the same convention.
	AnchorMidpoint

	// AnchorBodyCenter places the pose at the center of the device body:
	// the entry point advanced along the trajectory by half the device
	// length plus half the thread margin. Used for 3D-scene body
	// placement, not for export.
	AnchorBodyCenter
)

// String returns the policy name.
func (p TranslationPolicy) String() string {
	switch p {
	case AnchorStart:
		return "anchor-at-start"
	case AnchorMidpoint:
		return "anchor-at-midpoint"
	case AnchorBodyCenter:
		return "anchor-at-body-center"
	default:
		return "unknown"
	}
}

// Direction returns the unit trajectory direction from entry to tip.
// It fails with a DegenerateGeometryError when the two points coincide.
func Direction(entry, tip geometry.Vec3) (geometry.Vec3, error) {
	dir, ok := tip.Sub(entry).Unit()
	if !ok {
		return geometry.Vec3{}, &DegenerateGeometryError{Entry: entry, Tip: tip}
	}
	return dir, nil
}

// AlignAxis computes the minimal rotation taking the unit vector from onto
// the unit vector to (the single-pair Procrustes solution). Inputs are
// normalized first; a zero-length input fails with a
// DegenerateGeometryError.
//
// When the vectors are antiparallel the rotation axis is ambiguous; the
// implementation picks a fixed perpendicular of from, so repeated calls
// agree.
func AlignAxis(from, to geometry.Vec3) (geometry.Rotation, error) {
	f, ok := from.Unit()
	if !ok {
		return geometry.Rotation{}, &DegenerateGeometryError{Tip: from}
	}
	t, ok := to.Unit()
	if !ok {
		return geometry.Rotation{}, &DegenerateGeometryError{Tip: to}
	}

	v := f.Cross(t)
	c := f.Dot(t)

	// Antiparallel inputs: rotate half a turn about any axis perpendicular
	// to f. R = 2*a*a^T - I is that rotation for unit axis a.
	if c < antiparallelCos {
		a := perpendicular(f)
		return geometry.Rotation{
			2*a[0]*a[0] - 1, 2 * a[0] * a[1], 2 * a[0] * a[2],
			2 * a[1] * a[0], 2*a[1]*a[1] - 1, 2 * a[1] * a[2],
			2 * a[2] * a[0], 2 * a[2] * a[1], 2*a[2]*a[2] - 1,
		}, nil
	}

	// Rodrigues shortest arc: R = I + [v]x + [v]x^2 / (1+c).
	k := 1 / (1 + c)
	return geometry.Rotation{
		1 + k*(-v[2]*v[2]-v[1]*v[1]), -v[2] + k*v[0]*v[1], v[1] + k*v[0]*v[2],
		v[2] + k*v[0]*v[1], 1 + k*(-v[2]*v[2]-v[0]*v[0]), -v[0] + k*v[1]*v[2],
		-v[1] + k*v[0]*v[2], v[0] + k*v[1]*v[2], 1 + k*(-v[1]*v[1]-v[0]*v[0]),
	}, nil
}

const antiparallelCos = -1 + 1e-9

// perpendicular returns a unit vector orthogonal to the unit vector f,
// built by crossing f with the coordinate axis it is least aligned with.
func perpendicular(f geometry.Vec3) geometry.Vec3 {
	basis := geometry.Vec3{1, 0, 0}
	min := abs(f[0])
	if abs(f[1]) < min {
		basis = geometry.Vec3{0, 1, 0}
		min = abs(f[1])
	}
	if abs(f[2]) < min {
		basis = geometry.Vec3{0, 0, 1}
	}
	a, _ := f.Cross(basis).Unit()
	return a
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

// Align assembles the 4x4 pose of a placement in RAS: the shortest-arc
// rotation taking ScrewAxis onto the trajectory direction, anchored
// according to policy. It fails with a DegenerateGeometryError when entry
// and tip coincide.
func Align(p models.ImplantPlacement, policy TranslationPolicy) (geometry.Affine, error) {
	entry := geometry.PointToRAS(p.Entry).Vec
	tip := geometry.PointToRAS(p.Tip).Vec

	dir, err := Direction(entry, tip)
	if err != nil {
		return geometry.Affine{}, err
	}
	rot, err := AlignAxis(ScrewAxis, dir)
	if err != nil {
		return geometry.Affine{}, err
	}

	var anchor geometry.Vec3
	switch policy {
	case AnchorStart:
		anchor = entry
	case AnchorMidpoint:
		anchor = entry.Add(tip).Scale(0.5)
	case AnchorBodyCenter:
		anchor = entry.Add(dir.Scale((p.Length + ThreadMargin) / 2))
	default:
		anchor = entry.Add(tip).Scale(0.5)
	}

	return geometry.AffineFromParts(rot, anchor), nil
}

// CapAnchor returns the cap placement point: CapOffset mm behind the entry
// point, away from the tip.
func CapAnchor(entry, tip geometry.Vec3) (geometry.Vec3, error) {
	dir, err := Direction(entry, tip)
	if err != nil {
		return geometry.Vec3{}, err
	}
	return entry.Sub(dir.Scale(CapOffset)), nil
}
