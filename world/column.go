package world

import "github.com/dantero/voxelcore/voxel"

// Column is a fixed vertical stack of C segments spanning world Y in
// [0, C*S) above the column's base, keyed by its (X,Z) base world
// coordinate (spec §4.C). Generalized from the teacher's lazily-nil
// Chunk.sections to eager AIR-fill: the spec requires every segment to
// exist from construction, which also simplifies cross-segment
// neighbour sampling at the world's vertical extremes.
type Column struct {
	Key Key

	segments [C]*Segment
}

// Key identifies a column by its base (X,Z) world coordinate. It is an
// alias of ColumnKey (coord.go), so the two names denote the same type.
type Key = ColumnKey

// NewColumn returns a column with all C segments pre-materialised to
// AIR (spec §4.C).
func NewColumn(key Key) *Column {
	c := &Column{Key: key}
	for i := range c.segments {
		c.segments[i] = NewSegment()
	}
	return c
}

// Segment returns the segment at vertical index segY, or nil if segY is
// outside [0, C).
func (c *Column) Segment(segY int64) *Segment {
	if segY < 0 || segY >= C {
		return nil
	}
	return c.segments[segY]
}

// GetVoxel resolves world coordinates to a local segment lookup,
// returning AIR if worldY falls outside the column's vertical extent
// (spec §4.C).
func (c *Column) GetVoxel(wx, wy, wz int64) voxel.Voxel {
	segY := segmentIndexFor(wy)
	seg := c.Segment(segY)
	if seg == nil {
		return voxel.Air
	}
	lx := Local(floorMod(wx, S))
	ly := Local(floorMod(wy, S))
	lz := Local(floorMod(wz, S))
	return seg.Get(lx, ly, lz)
}

// SetVoxel is a silent no-op when worldY falls outside the column's
// vertical extent (spec §4.C).
func (c *Column) SetVoxel(wx, wy, wz int64, v voxel.Voxel) {
	segY := segmentIndexFor(wy)
	seg := c.Segment(segY)
	if seg == nil {
		return
	}
	lx := Local(floorMod(wx, S))
	ly := Local(floorMod(wy, S))
	lz := Local(floorMod(wz, S))
	seg.Set(lx, ly, lz, v)
}

// ForEachSegment calls fn for every vertical segment index and its
// segment, in order from 0 to C-1.
func (c *Column) ForEachSegment(fn func(segY int64, seg *Segment)) {
	for i, seg := range c.segments {
		fn(int64(i), seg)
	}
}
