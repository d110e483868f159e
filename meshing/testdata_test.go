package meshing

import (
	"github.com/dantero/voxelcore/voxel"
	"github.com/go-gl/mathgl/mgl32"
)

// fakeSegment is a minimal VoxelSource double so meshing's tests never
// need to import world (which itself imports meshing).
type fakeSegment struct {
	data [S * S * S]voxel.Voxel
}

func (f *fakeSegment) idx(x, y, z Local) int {
	return int(x)*S*S + int(y)*S + int(z)
}

func (f *fakeSegment) Get(x, y, z Local) voxel.Voxel {
	if int(x) >= S || int(y) >= S || int(z) >= S {
		return voxel.Air
	}
	return f.data[f.idx(x, y, z)]
}

func (f *fakeSegment) Set(x, y, z Local, v voxel.Voxel) {
	f.data[f.idx(x, y, z)] = v
}

func (f *fakeSegment) fillBox(x0, y0, z0, x1, y1, z1 int, v voxel.Voxel) {
	for x := x0; x < x1; x++ {
		for y := y0; y < y1; y++ {
			for z := z0; z < z1; z++ {
				f.Set(Local(x), Local(y), Local(z), v)
			}
		}
	}
}

// fakeAtlas is an AtlasProvider double that always selects the Main
// atlas and places every voxel type's tile at the origin, sufficient for
// geometry/count assertions that don't care about UV placement.
type fakeAtlas struct{}

func (fakeAtlas) Lookup(v voxel.Voxel, face Face) (AtlasID, mgl32.Vec2) {
	return Main, mgl32.Vec2{}
}

// emptySample always reports AIR outside the segment under test,
// simulating an isolated segment with no loaded neighbours.
func emptySample(wx, wy, wz int64) voxel.Voxel { return voxel.Air }

// solidSample simulates every neighbouring coordinate being occupied by
// the given solid voxel id, used to test cross-segment face suppression.
func solidSample(id voxel.Voxel) SampleFunc {
	return func(wx, wy, wz int64) voxel.Voxel { return id }
}
