// Package meshing converts dirty voxel segments into triangle meshes
// (component E) and runs that conversion on a background worker pool
// (component F).
package meshing

import "github.com/go-gl/mathgl/mgl32"

// AtlasID selects which of the three texture atlases a face samples.
type AtlasID uint8

const (
	Main AtlasID = iota
	Side
	Bottom
)

// Face identifies one of the six axis-aligned cardinal directions a quad
// can face.
type Face uint8

const (
	Top Face = iota
	Bottom_
	North
	South
	East
	West
)

// Vertex is the fixed vertex layout described in spec §4.E: position in
// segment-local coordinates, a unit axis-aligned normal, a quad-relative
// UV that runs (0,0)-(W,H) across a merged quad for shader-side tiling,
// the chosen tile's origin in atlas space, a scalar light value, and the
// atlas selector.
type Vertex struct {
	Position         mgl32.Vec3
	Normal           mgl32.Vec3
	QuadUV           mgl32.Vec2
	AtlasTileOriginU mgl32.Vec2
	Light            float32
	AtlasID          AtlasID
}

// Mesh is a triangle list: 32-bit indices into Vertices, two triangles
// (six indices) per emitted quad, counter-clockwise winding as seen from
// the normal (spec §4.E).
type Mesh struct {
	Vertices []Vertex
	Indices  []uint32
}

// QuadCount returns the number of quads represented by the index buffer
// (two triangles, six indices, per quad).
func (m *Mesh) QuadCount() int {
	if m == nil {
		return 0
	}
	return len(m.Indices) / 6
}

// appendQuad appends four vertices and the two triangles connecting them
// in the CCW order spec §4.E specifies for a "+dir" face: (BL, TL, TR,
// BR). Callers supplying a "-dir" face pass corners already reordered to
// (BL, BR, TR, TL) so the two triangles still wind CCW as seen from the
// (outward) normal.
func (m *Mesh) appendQuad(corners [4]mgl32.Vec3, normal mgl32.Vec3, quadW, quadH float32, origin mgl32.Vec2, light float32, atlas AtlasID) {
	base := uint32(len(m.Vertices))
	quadUVs := [4]mgl32.Vec2{
		{0, 0},
		{0, quadH},
		{quadW, quadH},
		{quadW, 0},
	}
	for i, c := range corners {
		m.Vertices = append(m.Vertices, Vertex{
			Position:         c,
			Normal:           normal,
			QuadUV:           quadUVs[i],
			AtlasTileOriginU: origin,
			Light:            light,
			AtlasID:          atlas,
		})
	}
	m.Indices = append(m.Indices,
		base, base+1, base+2,
		base+2, base+3, base,
	)
}
