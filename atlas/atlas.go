// Package atlas resolves voxel face textures to UV rectangles in a
// fixed-grid texture atlas, implementing the meshing.AtlasProvider
// contract consumed by every meshing algorithm (spec §4.A, §6).
package atlas

import (
	"sync"

	"github.com/dantero/voxelcore/meshing"
	"github.com/dantero/voxelcore/voxel"
	"github.com/go-gl/mathgl/mgl32"
)

// FaceTextures names the (up to three) distinct texture tiles a voxel
// type uses, mirroring the teacher's BlockDefinition.TextureTop/Side/Bot
// trio. Callers always fill all three explicitly, duplicating names
// where a voxel's FacePattern doesn't distinguish faces (e.g. a UNIFORM
// block sets Top == Side == Bottom).
type FaceTextures struct {
	Top, Side, Bottom string
}

// Atlas is a single fixed-grid texture sheet: every tile is the same
// pixel size, tiles are addressed row-major, and a voxel's registered
// texture name resolves to a tile index the same way the teacher's
// registerTexture/TextureMap pair assigns layer indices (internal/registry/blocks.go).
type Atlas struct {
	mu sync.RWMutex

	tilesPerRow int
	tileUVW     float32
	tileUVH     float32

	names map[string]int
	order []string

	faces map[voxel.Voxel]FaceTextures
}

// New builds an atlas describing a sheet atlasWidthPx x atlasHeightPx of
// tileWidthPx x tileHeightPx tiles (spec's reference texture_atlas.h
// uses a 256x256 sheet of 16x16 tiles, i.e. a 16x16 grid).
func New(atlasWidthPx, atlasHeightPx, tileWidthPx, tileHeightPx float32) *Atlas {
	return &Atlas{
		tilesPerRow: int(atlasWidthPx / tileWidthPx),
		tileUVW:     tileWidthPx / atlasWidthPx,
		tileUVH:     tileHeightPx / atlasHeightPx,
		names:       make(map[string]int),
		faces:       make(map[voxel.Voxel]FaceTextures),
	}
}

// registerTexture assigns name the next free tile index if it hasn't
// already been seen, exactly as the teacher's registerTexture does.
func (a *Atlas) registerTexture(name string) {
	if name == "" {
		return
	}
	if _, ok := a.names[name]; ok {
		return
	}
	a.names[name] = len(a.order)
	a.order = append(a.order, name)
}

// Register installs the face textures for a voxel id, reserving tile
// slots for any texture names not already known.
func (a *Atlas) Register(id voxel.Voxel, ft FaceTextures) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.registerTexture(ft.Top)
	a.registerTexture(ft.Side)
	a.registerTexture(ft.Bottom)
	a.faces[id] = ft
}

// tileUV returns the bottom-left UV origin of the tile assigned to name,
// or the atlas's first tile if name was never registered (matching
// texture_atlas.h's getTextureCoordinates fallback).
func (a *Atlas) tileUV(name string) mgl32.Vec2 {
	idx, ok := a.names[name]
	if !ok {
		idx = 0
	}
	row := idx / a.tilesPerRow
	col := idx % a.tilesPerRow
	return mgl32.Vec2{float32(col) * a.tileUVW, float32(row) * a.tileUVH}
}

// Lookup implements meshing.AtlasProvider. Faces resolve to the Side or
// Bottom atlas only when the voxel's FacePattern actually distinguishes
// that face (voxel.RequiresSideAtlas/RequiresBottomAtlas); otherwise
// every face samples the Main atlas's top tile, matching spec §4.A.
func (a *Atlas) Lookup(v voxel.Voxel, face meshing.Face) (meshing.AtlasID, mgl32.Vec2) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	ft := a.faces[v]
	pattern := voxel.PropertiesOf(v).Pattern

	var name string
	var id meshing.AtlasID
	switch face {
	case meshing.Top:
		name, id = ft.Top, meshing.Main
	case meshing.Bottom_:
		if voxel.RequiresBottomAtlas(pattern) {
			name, id = ft.Bottom, meshing.Bottom
		} else {
			name, id = ft.Top, meshing.Main
		}
	default:
		if voxel.RequiresSideAtlas(pattern) {
			name, id = ft.Side, meshing.Side
		} else {
			name, id = ft.Top, meshing.Main
		}
	}
	return id, a.tileUV(name)
}

// TileCount returns how many distinct texture tiles have been reserved,
// useful for sizing the backing GPU texture array.
func (a *Atlas) TileCount() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.order)
}
