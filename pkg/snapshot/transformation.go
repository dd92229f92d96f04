package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"screwplanner/internal/models"
	"screwplanner/pkg/alignment"
	"screwplanner/pkg/geometry"
)

// TransformationFileName is the conventional name of the companion
// transformation file.
const TransformationFileName = "transformation.json"

// TransformationEntry is one implant in the companion transformation
// file: a stored pose plus the device dimensions.
type TransformationEntry struct {
	// Matrix is the implant pose in RAS, anchored at the entry point.
	Matrix geometry.Affine

	// Radius is the device radius in mm.
	Radius float64

	// Length is the device body length in mm.
	Length float64
}

// TransformationFile is the companion input schema: a mapping of implant
// name to pose entry plus the volume's ijkToRas matrix.
type TransformationFile struct {
	// IJKToRAS is the volume's voxel-to-RAS matrix.
	IJKToRAS geometry.Affine

	// Implants maps implant names to their stored entries.
	Implants map[string]TransformationEntry
}

// rawTransformationEntry is the wire shape of one implant entry.
type rawTransformationEntry struct {
	Matrix []float64 `json:"matrix"`
	Radius *float64  `json:"radius"`
	Length *float64  `json:"length"`
}

// ijkToRasKey is the one top-level key that is not an implant name.
const ijkToRasKey = "ijkToRas"

// ParseTransformationFile decodes the companion schema. Malformed entries
// fail with a SchemaError naming the offending field.
func ParseTransformationFile(data []byte) (TransformationFile, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return TransformationFile{}, &SchemaError{Field: "document", Reason: "not an object: " + err.Error()}
	}

	ijkRaw, ok := raw[ijkToRasKey]
	if !ok {
		return TransformationFile{}, &SchemaError{Field: ijkToRasKey, Reason: "missing required key"}
	}
	var ijkElements []float64
	if err := json.Unmarshal(ijkRaw, &ijkElements); err != nil {
		return TransformationFile{}, &SchemaError{Field: ijkToRasKey, Reason: "not a flat number list: " + err.Error()}
	}
	ijk, err := decodeMatrix(ijkToRasKey, ijkElements)
	if err != nil {
		return TransformationFile{}, err
	}

	tf := TransformationFile{
		IJKToRAS: ijk,
		Implants: make(map[string]TransformationEntry, len(raw)-1),
	}
	for name, entryRaw := range raw {
		if name == ijkToRasKey {
			continue
		}
		var entry rawTransformationEntry
		if err := json.Unmarshal(entryRaw, &entry); err != nil {
			return TransformationFile{}, &SchemaError{Field: name, Reason: "not an implant entry: " + err.Error()}
		}
		if entry.Radius == nil {
			return TransformationFile{}, &SchemaError{Field: name + ".radius", Reason: "missing required key"}
		}
		if entry.Length == nil {
			return TransformationFile{}, &SchemaError{Field: name + ".length", Reason: "missing required key"}
		}
		if entry.Matrix == nil {
			return TransformationFile{}, &SchemaError{Field: name + ".matrix", Reason: "missing required key"}
		}
		matrix, err := decodeMatrix(name+".matrix", entry.Matrix)
		if err != nil {
			return TransformationFile{}, err
		}
		tf.Implants[name] = TransformationEntry{
			Matrix: matrix,
			Radius: *entry.Radius,
			Length: *entry.Length,
		}
	}
	return tf, nil
}

// decodeMatrix validates a 16-element row-major matrix field.
func decodeMatrix(field string, elements []float64) (geometry.Affine, error) {
	a, err := geometry.AffineFromSlice(elements)
	if err != nil {
		return geometry.Affine{}, &SchemaError{Field: field, Reason: fmt.Sprintf("has %d elements, want 16", len(elements))}
	}
	return a, nil
}

// LoadTransformationFile reads and parses a transformation file from disk.
func LoadTransformationFile(path string) (TransformationFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return TransformationFile{}, fmt.Errorf("reading transformation file: %w", err)
	}
	return ParseTransformationFile(data)
}

// ControlPoints recovers the entry and tip control points from a stored
// pose. The pose anchors the device at the entry point and rotates the
// canonical axis onto the trajectory, so the entry is the image of the
// local origin and the tip is the image of the axis scaled by the device
// length.
func (e TransformationEntry) ControlPoints() (entry, tip geometry.Point3) {
	p1 := e.Matrix.Apply(geometry.Vec3{0, 0, 0})
	p2 := e.Matrix.Apply(alignment.ScrewAxis.Scale(e.Length))
	return geometry.Point3{Vec: p1, System: geometry.RAS},
		geometry.Point3{Vec: p2, System: geometry.RAS}
}

// Placements converts the parsed file into implant placements, sorted by
// name for deterministic processing.
func (tf TransformationFile) Placements() []models.ImplantPlacement {
	names := make([]string, 0, len(tf.Implants))
	for name := range tf.Implants {
		names = append(names, name)
	}
	sort.Strings(names)

	placements := make([]models.ImplantPlacement, 0, len(names))
	for _, name := range names {
		e := tf.Implants[name]
		entry, tip := e.ControlPoints()
		placements = append(placements, models.ImplantPlacement{
			Name:   name,
			Entry:  entry,
			Tip:    tip,
			Radius: e.Radius,
			Length: e.Length,
		})
	}
	return placements
}

// WriteTransformations writes the legacy transformation file for a set of
// placements: one entry-anchored pose per implant plus the volume's
// ijkToRas with its direction cosines collapsed to their signs, as the
// downstream consumer expects.
func WriteTransformations(path string, placements []models.ImplantPlacement, ijkToRAS geometry.Affine) error {
	out := make(map[string]any, len(placements)+1)
	for _, p := range placements {
		pose, err := alignment.Align(p, alignment.AnchorStart)
		if err != nil {
			return fmt.Errorf("implant %s: %w", p.Name, err)
		}
		out[p.Name] = map[string]any{
			"matrix": pose.Slice(),
			"radius": p.Radius,
			"length": p.Length,
		}
	}
	out[ijkToRasKey] = signNormalizedDirections(ijkToRAS).Slice()

	data, err := json.Marshal(out)
	if err != nil {
		return fmt.Errorf("encoding transformation file: %w", err)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".transformation-*.json")
	if err != nil {
		return fmt.Errorf("creating temporary transformation file: %w", err)
	}
	defer func() {
		tmp.Close()
		os.Remove(tmp.Name())
	}()
	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("writing transformation file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing transformation file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replacing transformation file: %w", err)
	}
	return nil
}

// signNormalizedDirections replaces each element of the rotation block
// with its sign, keeping spacing out of the exported matrix.
func signNormalizedDirections(a geometry.Affine) geometry.Affine {
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			switch v := a[4*i+j]; {
			case v > 0:
				a[4*i+j] = 1
			case v < 0:
				a[4*i+j] = -1
			default:
				a[4*i+j] = 0
			}
		}
	}
	return a
}
