package meshing

// twoPhaseGreedyAlgorithm separates visibility detection from merging
// into two named phases (spec §4.E, grounded on
// original_source/engine/include/rendering/meshing/two_phase_greedy_meshing_algorithm.h):
// buildVisibilityMask first materialises the full per-layer maskCell
// mask, then processVisibleFaces merges and emits it. Splitting the
// phases makes the mask inspectable on its own, which the legacy
// single-pass mesher does not allow.
type twoPhaseGreedyAlgorithm struct{}

func (twoPhaseGreedyAlgorithm) Name() string { return "greedy_two_phase" }

func (a twoPhaseGreedyAlgorithm) Build(seg VoxelSource, atlas AtlasProvider, sample SampleFunc, origin SegmentOrigin) *Mesh {
	mesh := &Mesh{}
	for d := 0; d < 3; d++ {
		for _, dir := range [2]int{1, -1} {
			face := faceFromAxisDir(d, dir)
			for pos := 0; pos < S; pos++ {
				mask := a.buildVisibilityMask(seg, sample, origin, d, dir, pos)
				a.processVisibleFaces(mesh, atlas, mask, face, d, dir, pos)
			}
		}
	}
	return mesh
}

// buildVisibilityMask populates a full S x S maskCell mask for one layer
// of sweep axis d, direction dir, without merging anything yet.
func (twoPhaseGreedyAlgorithm) buildVisibilityMask(seg VoxelSource, sample SampleFunc, origin SegmentOrigin, d, dir, pos int) [][]maskCell {
	mask := newMask(S)
	for u := 0; u < S; u++ {
		for v := 0; v < S; v++ {
			x, y, z := localXYZ(d, pos, u, v)
			id := seg.Get(Local(x), Local(y), Local(z))
			if id.IsAir() {
				continue
			}
			neighbor := neighborVoxel(seg, sample, origin, x, y, z, d, dir)
			if !faceVisible(neighbor) {
				continue
			}
			mask[v][u] = maskCell{id: id, visible: true}
		}
	}
	return mask
}

// processVisibleFaces merges the already-built mask into rectangular
// runs and emits one quad per run.
func (twoPhaseGreedyAlgorithm) processVisibleFaces(mesh *Mesh, atlas AtlasProvider, mask [][]maskCell, face Face, d, dir, pos int) {
	runs := mergeMask(mask, S)
	var dPlane float32
	if dir > 0 {
		dPlane = float32(pos + 1)
	} else {
		dPlane = float32(pos)
	}
	for _, r := range runs {
		emitQuad(mesh, atlas, r.id, face, d, dir, dPlane,
			float32(r.u0), float32(r.v0), float32(r.w), float32(r.h))
	}
}
