package meshing

import "github.com/dantero/voxelcore/voxel"

// naiveAlgorithm emits all six faces of every solid voxel unconditionally
// (spec §4.E): no neighbour test, no merging. It is kept as the
// unoptimised reference algorithm.
type naiveAlgorithm struct{}

func (naiveAlgorithm) Name() string { return "naive" }

func (naiveAlgorithm) Build(seg VoxelSource, atlas AtlasProvider, sample SampleFunc, origin SegmentOrigin) *Mesh {
	mesh := &Mesh{}
	for x := 0; x < S; x++ {
		for y := 0; y < S; y++ {
			for z := 0; z < S; z++ {
				v := seg.Get(Local(x), Local(y), Local(z))
				if v.IsAir() {
					continue
				}
				emitVoxelFaces(mesh, atlas, v, x, y, z)
			}
		}
	}
	return mesh
}

// emitVoxelFaces appends all six unit faces of the voxel at local (x,y,z)
// without any visibility test.
func emitVoxelFaces(mesh *Mesh, atlas AtlasProvider, v voxel.Voxel, x, y, z int) {
	for d := 0; d < 3; d++ {
		for _, dir := range [2]int{1, -1} {
			face := faceFromAxisDir(d, dir)
			u0, v0 := localUV(d, x, y, z)
			var dPlane float32
			if dir > 0 {
				dPlane = float32(componentFor(d, x, y, z) + 1)
			} else {
				dPlane = float32(componentFor(d, x, y, z))
			}
			emitQuad(mesh, atlas, v, face, d, dir, dPlane, u0, v0, 1, 1)
		}
	}
}

// componentFor returns the x, y or z coordinate selected by axis index d.
func componentFor(d, x, y, z int) int {
	switch d {
	case 0:
		return x
	case 1:
		return y
	default:
		return z
	}
}

// localUV returns the (u,v) coordinates of local position (x,y,z)
// projected onto the plane perpendicular to sweep axis d, in the same
// cyclic order axisUV uses.
func localUV(d, x, y, z int) (float32, float32) {
	u, v := axisUV(d)
	return float32(componentFor(u, x, y, z)), float32(componentFor(v, x, y, z))
}
