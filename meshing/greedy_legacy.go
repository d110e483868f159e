package meshing

// greedyLegacyAlgorithm is the single-pass greedy mesher (spec §4.E,
// grounded on the teacher's internal/meshing/greedy.go): for every layer
// of every sweep axis and direction, a visibility mask is built inline
// in Build, merged with mergeMask, and emitted. Unlike
// twoPhaseGreedyAlgorithm it also keeps a consumed grid per (axis,
// direction) that carries over from one layer to the next (see below).
type greedyLegacyAlgorithm struct{}

func (greedyLegacyAlgorithm) Name() string { return "greedy_legacy" }

func (greedyLegacyAlgorithm) Build(seg VoxelSource, atlas AtlasProvider, sample SampleFunc, origin SegmentOrigin) *Mesh {
	mesh := &Mesh{}
	for d := 0; d < 3; d++ {
		for _, dir := range [2]int{1, -1} {
			face := faceFromAxisDir(d, dir)
			// Bug, kept deliberately: consumed is allocated once per (d,dir)
			// and never cleared between slices, so a (u,v) position merged
			// into a quad on one slice along d reads as already-handled on
			// every later slice at that same (u,v) — the position is never
			// even re-examined, silently dropping faces whenever a later
			// slice actually needed one there. Flat convex shapes never
			// trigger it (each (u,v) column is visible on at most one
			// slice); a cavity or concave topology is where two different
			// slices disagree on what's visible at the same (u,v), which is
			// when this shows up. Two-phase fixes this by rebuilding both
			// the visibility mask and the processed-marker fresh per slice
			// (greedy_twophase.go).
			consumed := make([][]bool, S)
			for i := range consumed {
				consumed[i] = make([]bool, S)
			}
			for pos := 0; pos < S; pos++ {
				mask := newMask(S)
				for u := 0; u < S; u++ {
					for v := 0; v < S; v++ {
						if consumed[v][u] {
							continue
						}
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
					for dv := 0; dv < r.h; dv++ {
						for du := 0; du < r.w; du++ {
							consumed[r.v0+dv][r.u0+du] = true
						}
					}
				}
			}
		}
	}
	return mesh
}
