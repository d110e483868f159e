package meshing

// culledFaceAlgorithm emits exactly one quad per visible face: a face is
// visible when its neighbour (possibly in an adjacent segment, resolved
// through sample) is non-solid (spec §4.E). No merging across adjacent
// voxels — each visible face is its own 1x1 quad, grounding the vertex
// count reduction testable property relative to naiveAlgorithm.
type culledFaceAlgorithm struct{}

func (culledFaceAlgorithm) Name() string { return "culled_face" }

func (culledFaceAlgorithm) Build(seg VoxelSource, atlas AtlasProvider, sample SampleFunc, origin SegmentOrigin) *Mesh {
	mesh := &Mesh{}
	for x := 0; x < S; x++ {
		for y := 0; y < S; y++ {
			for z := 0; z < S; z++ {
				v := seg.Get(Local(x), Local(y), Local(z))
				if v.IsAir() {
					continue
				}
				for d := 0; d < 3; d++ {
					for _, dir := range [2]int{1, -1} {
						neighbor := neighborVoxel(seg, sample, origin, x, y, z, d, dir)
						if !faceVisible(neighbor) {
							continue
						}
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
		}
	}
	return mesh
}
