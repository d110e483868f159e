package meshing

import "github.com/dantero/voxelcore/voxel"

// maskCell is one cell of a 2D visibility mask over a single sweep-axis
// layer: which voxel type would show there, and whether that face is
// actually visible (neighbour non-solid).
type maskCell struct {
	id      voxel.Voxel
	visible bool
}

// quadRun is one merged rectangle found in a mask, in mask-local (u,v)
// coordinates with extents (w along u, h along v).
type quadRun struct {
	u0, v0 int
	w, h   int
	id     voxel.Voxel
}

// mergeMask runs the greedy rectangle merge over a size x size mask,
// consuming cells as it goes (spec §4.E's "greedy" family): scan in
// row-major order, skip invisible/already-consumed cells, grow a run
// along u while the id matches, then grow it along v while the whole
// row of that width matches, clearing every cell the run covers.
func mergeMask(mask [][]maskCell, size int) []quadRun {
	var runs []quadRun
	for v0 := 0; v0 < size; v0++ {
		for u0 := 0; u0 < size; u0++ {
			cell := mask[v0][u0]
			if !cell.visible {
				continue
			}
			w := 1
			for u0+w < size && mask[v0][u0+w].visible && mask[v0][u0+w].id == cell.id {
				w++
			}
			h := 1
		rows:
			for v0+h < size {
				for k := 0; k < w; k++ {
					c := mask[v0+h][u0+k]
					if !c.visible || c.id != cell.id {
						break rows
					}
				}
				h++
			}
			for dv := 0; dv < h; dv++ {
				for du := 0; du < w; du++ {
					mask[v0+dv][u0+du].visible = false
				}
			}
			runs = append(runs, quadRun{u0: u0, v0: v0, w: w, h: h, id: cell.id})
		}
	}
	return runs
}

func newMask(size int) [][]maskCell {
	mask := make([][]maskCell, size)
	for i := range mask {
		mask[i] = make([]maskCell, size)
	}
	return mask
}
