// Package snapshot serializes planned implants into the viewer's
// persisted JSON schema and reads them back, along with the companion
// transformation-file input schema.
//
// The wire format reproduces the external viewer's contract exactly,
// including its historical quirks: the viewport-level key is
// "frameOfReferenceUID" while viewReference and planeRestriction use
// "FrameOfReferenceUID", and inPlaneVector2 is an object keyed "0"/"1"/"2"
// rather than an array.
package snapshot

import (
	"encoding/json"
	"fmt"

	"screwplanner/pkg/geometry"
)

// SchemaError reports malformed persisted JSON, naming the offending
// field.
type SchemaError struct {
	// Field is the JSON path of the offending field.
	Field string

	// Reason describes what is wrong with it.
	Reason string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("snapshot: schema error at %q: %s", e.Field, e.Reason)
}

// Indexed3 is a 3-vector that marshals as an object keyed "0", "1", "2".
// The target viewer persists inPlaneVector2 in this shape.
type Indexed3 [3]float64

// MarshalJSON encodes the vector as {"0": x, "1": y, "2": z}.
func (v Indexed3) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		X float64 `json:"0"`
		Y float64 `json:"1"`
		Z float64 `json:"2"`
	}{v[0], v[1], v[2]})
}

// UnmarshalJSON decodes the {"0","1","2"} object form, failing with a
// SchemaError when a component is missing.
func (v *Indexed3) UnmarshalJSON(data []byte) error {
	var raw map[string]*float64
	if err := json.Unmarshal(data, &raw); err != nil {
		return &SchemaError{Field: "inPlaneVector2", Reason: err.Error()}
	}
	for i, key := range []string{"0", "1", "2"} {
		c, ok := raw[key]
		if !ok || c == nil {
			return &SchemaError{Field: "inPlaneVector2." + key, Reason: "missing component"}
		}
		v[i] = *c
	}
	return nil
}

// Camera is the camera block of one persisted viewport.
type Camera struct {
	ViewUp             geometry.Vec3 `json:"viewUp"`
	ViewPlaneNormal    geometry.Vec3 `json:"viewPlaneNormal"`
	Position           geometry.Vec3 `json:"position"`
	FocalPoint         geometry.Vec3 `json:"focalPoint"`
	ParallelProjection bool          `json:"parallelProjection"`
	ParallelScale      float64       `json:"parallelScale"`
	ViewAngle          float64       `json:"viewAngle"`
	FlipHorizontal     bool          `json:"flipHorizontal"`
	FlipVertical       bool          `json:"flipVertical"`
	Rotation           float64       `json:"rotation"`
}

// PlaneRestriction bounds volume queries to the slice plane.
type PlaneRestriction struct {
	FrameOfReferenceUID string        `json:"FrameOfReferenceUID"`
	Point               geometry.Vec3 `json:"point"`
	InPlaneVector1      geometry.Vec3 `json:"inPlaneVector1"`
	InPlaneVector2      Indexed3      `json:"inPlaneVector2"`
}

// ViewReference is the view-reference block of one persisted viewport.
type ViewReference struct {
	FrameOfReferenceUID string           `json:"FrameOfReferenceUID"`
	CameraFocalPoint    geometry.Vec3    `json:"cameraFocalPoint"`
	ViewPlaneNormal     geometry.Vec3    `json:"viewPlaneNormal"`
	ViewUp              geometry.Vec3    `json:"viewUp"`
	SliceIndex          int              `json:"sliceIndex"`
	PlaneRestriction    PlaneRestriction `json:"planeRestriction"`
	VolumeID            string           `json:"volumeId"`
}

// ViewPresentation is the presentation block of one persisted viewport.
type ViewPresentation struct {
	Rotation       float64    `json:"rotation"`
	Zoom           float64    `json:"zoom"`
	Pan            [2]float64 `json:"pan"`
	FlipHorizontal bool       `json:"flipHorizontal"`
	FlipVertical   bool       `json:"flipVertical"`
}

// Metadata is the metadata block of one persisted viewport.
type Metadata struct {
	ViewportID        string     `json:"viewportId"`
	ViewportType      string     `json:"viewportType"`
	RenderingEngineID string     `json:"renderingEngineId"`
	Zoom              float64    `json:"zoom"`
	Pan               [2]float64 `json:"pan"`
}

// Viewport is one persisted MPR viewport.
type Viewport struct {
	FrameOfReferenceUID string           `json:"frameOfReferenceUID"`
	Camera              Camera           `json:"camera"`
	ViewReference       ViewReference    `json:"viewReference"`
	ViewPresentation    ViewPresentation `json:"viewPresentation"`
	Metadata            Metadata         `json:"metadata"`
}

// Snapshot is the persisted record of one implant: its pose in LPS, the
// device dimensions, and the three MPR viewports in the fixed order
// axial, sagittal, coronal.
type Snapshot struct {
	Name      string     `json:"name"`
	Timestamp string     `json:"timestamp"`
	Radius    float64    `json:"radius"`
	Length    float64    `json:"length"`
	Transform []float64  `json:"transform"`
	Viewports []Viewport `json:"viewports"`
}

// Entry is one [name, snapshot] pair of the file-level aggregate. The
// aggregate is a sequence of pairs rather than a mapping: duplicate names
// are preserved positionally so repeated saves of the same implant within
// one batch keep their history.
type Entry struct {
	Name     string
	Snapshot Snapshot
}

// Document is the whole snapshot file: an ordered sequence of entries,
// overwritten wholesale on each save.
type Document []Entry

// MarshalJSON encodes the entry as the two-element array [name, snapshot].
func (e Entry) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{e.Name, e.Snapshot})
}

// UnmarshalJSON decodes the [name, snapshot] pair form, failing with a
// SchemaError on wrong arity or element types.
func (e *Entry) UnmarshalJSON(data []byte) error {
	var parts []json.RawMessage
	if err := json.Unmarshal(data, &parts); err != nil {
		return &SchemaError{Field: "entry", Reason: "not a [name, snapshot] pair: " + err.Error()}
	}
	if len(parts) != 2 {
		return &SchemaError{Field: "entry", Reason: fmt.Sprintf("pair has %d elements, want 2", len(parts))}
	}
	if err := json.Unmarshal(parts[0], &e.Name); err != nil {
		return &SchemaError{Field: "entry[0]", Reason: "name is not a string"}
	}
	snap, err := decodeSnapshot(parts[1])
	if err != nil {
		return err
	}
	e.Snapshot = snap
	return nil
}
