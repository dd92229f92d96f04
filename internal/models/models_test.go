package models

import (
	"reflect"
	"testing"

	"screwplanner/pkg/geometry"
)

func placement(name string, entry, tip geometry.Vec3) ImplantPlacement {
	return ImplantPlacement{
		Name:   name,
		Entry:  geometry.Point3{Vec: entry, System: geometry.RAS},
		Tip:    geometry.Point3{Vec: tip, System: geometry.RAS},
		Radius: 6.5,
		Length: 35,
	}
}

// TestMidpoint verifies the midpoint convention and that the coordinate
// system tag is carried through
func TestMidpoint(t *testing.T) {
	p := placement("L1R", geometry.Vec3{2, 10, -4}, geometry.Vec3{4, -20, 6})

	mid := p.Midpoint()
	if mid.Vec != (geometry.Vec3{3, -5, 1}) {
		t.Errorf("midpoint = %v, want (3,-5,1)", mid.Vec)
	}
	if mid.System != geometry.RAS {
		t.Errorf("midpoint system = %v, want RAS", mid.System)
	}
}

// TestDefaultFrameNormals checks the plane normals of the default viewer
// orientation
func TestDefaultFrameNormals(t *testing.T) {
	f := DefaultFrame()

	if got := f.AxialNormal(); got != (geometry.Vec3{0, 0, 1}) {
		t.Errorf("axial normal = %v, want (0,0,1)", got)
	}
	if got := f.SagittalNormal(); got != (geometry.Vec3{1, 0, 0}) {
		t.Errorf("sagittal normal = %v, want (1,0,0)", got)
	}
	if got := f.CoronalNormal(); got != (geometry.Vec3{0, 1, 0}) {
		t.Errorf("coronal normal = %v, want (0,1,0)", got)
	}
}

// TestDefaultFrameOrthonormal verifies each direction-cosine matrix is a
// proper rotation
func TestDefaultFrameOrthonormal(t *testing.T) {
	f := DefaultFrame()

	for name, r := range map[string]geometry.Rotation{
		"axial":    f.Axial,
		"coronal":  f.Coronal,
		"sagittal": f.Sagittal,
	} {
		det := r.Det()
		if det < 0.999999 || det > 1.000001 {
			t.Errorf("%s matrix has det %f, want 1", name, det)
		}
	}
}

func TestDiffPlacements(t *testing.T) {
	base := map[string]ImplantPlacement{
		"L1R": placement("L1R", geometry.Vec3{2, 1, -3}, geometry.Vec3{10, -30, 4}),
		"L1L": placement("L1L", geometry.Vec3{-2, 1, -3}, geometry.Vec3{-10, -30, 4}),
	}

	moved := placement("L1R", geometry.Vec3{2, 2, -3}, geometry.Vec3{10, -30, 4})

	cases := []struct {
		name string
		next map[string]ImplantPlacement
		want []string
	}{
		{"no changes", map[string]ImplantPlacement{"L1R": base["L1R"], "L1L": base["L1L"]}, nil},
		{"one moved", map[string]ImplantPlacement{"L1R": moved, "L1L": base["L1L"]}, []string{"L1R"}},
		{"one removed", map[string]ImplantPlacement{"L1L": base["L1L"]}, []string{"L1R"}},
		{"one added", map[string]ImplantPlacement{
			"L1R": base["L1R"], "L1L": base["L1L"],
			"L2R": placement("L2R", geometry.Vec3{3, 1, -30}, geometry.Vec3{11, -30, -25}),
		}, []string{"L2R"}},
		{"everything", map[string]ImplantPlacement{
			"L1R": moved,
			"L2R": placement("L2R", geometry.Vec3{3, 1, -30}, geometry.Vec3{11, -30, -25}),
		}, []string{"L1L", "L1R", "L2R"}},
	}
	for _, tc := range cases {
		got := DiffPlacements(base, tc.next)
		if !reflect.DeepEqual(got, tc.want) {
			t.Errorf("%s: diff = %v, want %v", tc.name, got, tc.want)
		}
	}
}

// TestDiffPlacementsEmpty covers both directions of a wholly new or
// wholly cleared plan
func TestDiffPlacementsEmpty(t *testing.T) {
	one := map[string]ImplantPlacement{
		"L1R": placement("L1R", geometry.Vec3{2, 1, -3}, geometry.Vec3{10, -30, 4}),
	}

	if got := DiffPlacements(nil, one); !reflect.DeepEqual(got, []string{"L1R"}) {
		t.Errorf("diff(nil, one) = %v", got)
	}
	if got := DiffPlacements(one, nil); !reflect.DeepEqual(got, []string{"L1R"}) {
		t.Errorf("diff(one, nil) = %v", got)
	}
	if got := DiffPlacements(nil, nil); got != nil {
		t.Errorf("diff(nil, nil) = %v, want nil", got)
	}
}
