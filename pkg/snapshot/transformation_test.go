package snapshot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"screwplanner/internal/models"
	"screwplanner/pkg/geometry"
)

const sampleTransformationFile = `{
  "L1R": {
    "matrix": [1,0,0,0, 0,1,0,0, 0,0,1,0, 0,0,0,1],
    "radius": 6.5,
    "length": 35
  },
  "L1L": {
    "matrix": [1,0,0,-12.5, 0,1,0,40, 0,0,1,-650, 0,0,0,1],
    "radius": 7.0,
    "length": 40
  },
  "ijkToRas": [-1,0,0,100, 0,-1,0,100, 0,0,1,0, 0,0,0,1]
}`

func TestParseTransformationFile(t *testing.T) {
	tf, err := ParseTransformationFile([]byte(sampleTransformationFile))
	require.NoError(t, err)

	require.Len(t, tf.Implants, 2)
	assert.Equal(t, 6.5, tf.Implants["L1R"].Radius)
	assert.Equal(t, 40.0, tf.Implants["L1L"].Length)
	assert.Equal(t, geometry.Vec3{100, 100, 0}, tf.IJKToRAS.Translation())
}

func TestControlPointRecovery(t *testing.T) {
	tf, err := ParseTransformationFile([]byte(sampleTransformationFile))
	require.NoError(t, err)

	// An identity pose anchors the entry at the origin; the tip is the
	// canonical axis scaled by the device length
	entry, tip := tf.Implants["L1R"].ControlPoints()
	assert.Equal(t, geometry.RAS, entry.System)
	assert.Equal(t, geometry.Vec3{0, 0, 0}, entry.Vec)
	assert.Equal(t, geometry.Vec3{0, -35, 0}, tip.Vec)

	// A translated pose shifts both control points
	entry, tip = tf.Implants["L1L"].ControlPoints()
	assert.Equal(t, geometry.Vec3{-12.5, 40, -650}, entry.Vec)
	assert.Equal(t, geometry.Vec3{-12.5, 0, -650}, tip.Vec)
}

func TestPlacementsSortedByName(t *testing.T) {
	tf, err := ParseTransformationFile([]byte(sampleTransformationFile))
	require.NoError(t, err)

	placements := tf.Placements()
	require.Len(t, placements, 2)
	assert.Equal(t, "L1L", placements[0].Name)
	assert.Equal(t, "L1R", placements[1].Name)
	assert.Equal(t, 35.0, placements[1].Length)
}

func TestParseTransformationFileSchemaErrors(t *testing.T) {
	cases := []struct {
		name      string
		input     string
		wantField string
	}{
		{"not an object", `[1,2,3]`, "document"},
		{"missing ijkToRas", `{"L1R": {"matrix": [], "radius": 1, "length": 2}}`, "ijkToRas"},
		{"ijkToRas not flat", `{"ijkToRas": [[1,0],[0,1]]}`, "ijkToRas"},
		{"ijkToRas wrong length", `{"ijkToRas": [1,2,3]}`, "ijkToRas"},
		{"missing radius", `{"ijkToRas": [1,0,0,0,0,1,0,0,0,0,1,0,0,0,0,1],` +
			`"L1R": {"matrix": [1,0,0,0,0,1,0,0,0,0,1,0,0,0,0,1], "length": 2}}`, "L1R.radius"},
		{"missing matrix", `{"ijkToRas": [1,0,0,0,0,1,0,0,0,0,1,0,0,0,0,1],` +
			`"L1R": {"radius": 1, "length": 2}}`, "L1R.matrix"},
		{"short matrix", `{"ijkToRas": [1,0,0,0,0,1,0,0,0,0,1,0,0,0,0,1],` +
			`"L1R": {"matrix": [1,2,3], "radius": 1, "length": 2}}`, "L1R.matrix"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseTransformationFile([]byte(tc.input))
			require.Error(t, err)

			var schemaErr *SchemaError
			require.ErrorAs(t, err, &schemaErr)
			assert.Equal(t, tc.wantField, schemaErr.Field)
		})
	}
}

func TestWriteTransformationsRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/" + TransformationFileName

	// Control-point distance equals device length so the recovery is exact
	placements := []models.ImplantPlacement{
		testPlacement("T12L", geometry.Vec3{5, 10, -20}, geometry.Vec3{5, -25, -20}),
		testPlacement("T12R", geometry.Vec3{-5, 10, -20}, geometry.Vec3{-5, -25, -20}),
	}
	ijkToRAS := geometry.Affine{
		-0.313, 0, 0, 79.9715,
		0, 0.313, 0, -79.9715,
		0, 0, -0.312389, 79.9715,
		0, 0, 0, 1,
	}

	require.NoError(t, WriteTransformations(path, placements, ijkToRAS))

	tf, err := LoadTransformationFile(path)
	require.NoError(t, err)
	require.Len(t, tf.Implants, 2)

	// Direction cosines are collapsed to their signs, translation kept
	assert.Equal(t, -1.0, tf.IJKToRAS[0])
	assert.Equal(t, 1.0, tf.IJKToRAS[5])
	assert.Equal(t, -1.0, tf.IJKToRAS[10])
	assert.Equal(t, 79.9715, tf.IJKToRAS[3])

	got := tf.Placements()
	for i, p := range got {
		want := placements[0]
		if p.Name == "T12R" {
			want = placements[1]
		}
		assert.Equal(t, want.Radius, p.Radius, "placement %d", i)
		assert.InDeltaSlice(t, want.Entry.Vec[:], p.Entry.Vec[:], 1e-9, "entry of %s", p.Name)
		assert.InDeltaSlice(t, want.Tip.Vec[:], p.Tip.Vec[:], 1e-9, "tip of %s", p.Name)
	}
}
