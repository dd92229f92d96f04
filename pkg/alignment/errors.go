package alignment

import (
	"fmt"

	"screwplanner/pkg/geometry"
)

// DegenerateGeometryError reports a trajectory whose direction is
// undefined because its control points coincide (or a reference axis of
// zero length). No rotation can be determined from it.
type DegenerateGeometryError struct {
	// Entry and Tip are the offending control points.
	Entry geometry.Vec3
	Tip   geometry.Vec3
}

func (e *DegenerateGeometryError) Error() string {
	return fmt.Sprintf("alignment: zero-length direction between %v and %v, rotation undefined", e.Entry, e.Tip)
}
