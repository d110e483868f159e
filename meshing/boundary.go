package meshing

import "github.com/dantero/voxelcore/voxel"

// neighborVoxel returns the voxel adjacent to local (x,y,z) along sweep
// axis d in direction dir, crossing into the neighbouring segment via
// sample when the neighbour falls outside [0,S) (spec §4.E: "a boundary
// face is any face whose neighbour lies in a different segment; it is
// resolved through the cross-segment sampler, never assumed solid or
// assumed air").
func neighborVoxel(seg VoxelSource, sample SampleFunc, origin SegmentOrigin, x, y, z, d, dir int) voxel.Voxel {
	nx, ny, nz := x, y, z
	switch d {
	case 0:
		nx += dir
	case 1:
		ny += dir
	case 2:
		nz += dir
	}
	if nx >= 0 && nx < S && ny >= 0 && ny < S && nz >= 0 && nz < S {
		return seg.Get(Local(nx), Local(ny), Local(nz))
	}
	return sample(origin.X+int64(nx), origin.Y+int64(ny), origin.Z+int64(nz))
}

// faceVisible reports whether a face between a solid voxel and its
// neighbour should be emitted: the neighbour must be non-solid.
func faceVisible(neighbor voxel.Voxel) bool {
	return !voxel.PropertiesOf(neighbor).Solid
}
