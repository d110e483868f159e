package meshing

import (
	"github.com/dantero/voxelcore/voxel"
	"github.com/go-gl/mathgl/mgl32"
)

// axisUV returns the two axes perpendicular to sweep axis d, in the
// cyclic order spec §4.E requires: u = (d+1) mod 3, v = (d+2) mod 3.
func axisUV(d int) (u, v int) {
	return (d + 1) % 3, (d + 2) % 3
}

// axisNormal returns the unit outward normal for sweeping axis d in
// direction dir (+1 or -1).
func axisNormal(d, dir int) mgl32.Vec3 {
	var n mgl32.Vec3
	n[d] = float32(dir)
	return n
}

// setComponent returns a zero vector with its d-th component set to val.
func setComponent(d int, val float32) mgl32.Vec3 {
	var v mgl32.Vec3
	v[d] = val
	return v
}

// quadCorners builds the four corner positions of a merged quad (spec
// §4.E): the sweep axis d sits at dPlane (pos+1 for a +dir face, pos for
// a -dir face), the quad spans [u0, u0+hQuad) along axis u and
// [v0, v0+wQuad) along axis v, and the corners are ordered (BL, TL, TR,
// BR) for dir>0 or (BL, BR, TR, TL) for dir<0 so the triangle winding in
// appendQuad stays CCW as seen from the normal.
func quadCorners(d, dir int, dPlane float32, u0, v0, hQuad, wQuad float32) [4]mgl32.Vec3 {
	u, v := axisUV(d)

	base := setComponent(d, dPlane)
	base = base.Add(setComponent(u, u0)).Add(setComponent(v, v0))

	duVec := setComponent(u, hQuad)
	dvVec := setComponent(v, wQuad)

	bl := base
	tl := base.Add(duVec)
	tr := base.Add(duVec).Add(dvVec)
	br := base.Add(dvVec)

	if dir > 0 {
		return [4]mgl32.Vec3{bl, tl, tr, br}
	}
	return [4]mgl32.Vec3{bl, br, tr, tl}
}

// localXYZ is the inverse of axisUV: given sweep axis d, its layer
// position pos, and (u,v) coordinates in the plane perpendicular to d,
// returns the local (x,y,z) triple.
func localXYZ(d, pos, uCoord, vCoord int) (x, y, z int) {
	u, v := axisUV(d)
	var coords [3]int
	coords[d] = pos
	coords[u] = uCoord
	coords[v] = vCoord
	return coords[0], coords[1], coords[2]
}

// emitQuad appends one merged quad spanning axes u,v of sweep axis d to
// mesh, resolving the atlas tile and light level for the given voxel
// and face.
func emitQuad(mesh *Mesh, atlas AtlasProvider, vox voxel.Voxel, face Face, d, dir int, dPlane, u0, v0, hQuad, wQuad float32) {
	atlasID, origin := atlas.Lookup(vox, face)
	corners := quadCorners(d, dir, dPlane, u0, v0, hQuad, wQuad)
	normal := axisNormal(d, dir)
	mesh.appendQuad(corners, normal, wQuad, hQuad, origin, lightForFace(face), atlasID)
}
