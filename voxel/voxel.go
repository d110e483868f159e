// Package voxel defines the voxel identity type and the process-wide
// registry of per-id properties.
package voxel

// Voxel is one 8-bit cell of the world. ID zero is AIR.
type Voxel uint8

// Type is an alias for Voxel used where the id is being treated as a
// registry key rather than storage payload.
type Type = Voxel

// Air is the empty, non-solid, transparent voxel id. Segments read this
// for any out-of-range coordinate and columns read it for any
// out-of-range segment.
const Air Voxel = 0

// IsAir reports whether v is the empty voxel.
func (v Voxel) IsAir() bool {
	return v == Air
}
