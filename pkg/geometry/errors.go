package geometry

import "fmt"

// ShapeError reports a matrix or vector of the wrong dimensionality.
type ShapeError struct {
	// Want describes the expected shape.
	Want string

	// Got is the element count that was supplied.
	Got int
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("geometry: expected %s, got %d elements", e.Want, e.Got)
}
