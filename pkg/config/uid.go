package config

import (
	"math/big"

	"github.com/google/uuid"
)

// GenerateFrameOfReferenceUID returns a fresh DICOM UID in the UUID-derived
// "2.25." form (PS3.5 B.2): the 128-bit UUID rendered as a decimal integer
// under the 2.25 root. Sessions that cannot discover the Frame of Reference
// UID from the volume can use this instead of the shared placeholder so
// that unrelated exports never collide.
func GenerateFrameOfReferenceUID() string {
	id := uuid.New()
	n := new(big.Int).SetBytes(id[:])
	return "2.25." + n.String()
}
