package atlas

import "github.com/dantero/voxelcore/voxel"

// NewReferenceAtlas builds a 256x256 sheet of 16x16 tiles (the sheet
// texture_atlas.h assumes) pre-registered for voxel.RegisterDefaults'
// eight reference block ids, grounded on the teacher's InitRegistry
// texture-name table (internal/registry/blocks.go).
func NewReferenceAtlas() *Atlas {
	a := New(256, 256, 16, 16)

	a.Register(voxel.Stone, FaceTextures{Top: "stone.png", Side: "stone.png", Bottom: "stone.png"})
	a.Register(voxel.Dirt, FaceTextures{Top: "dirt.png", Side: "dirt.png", Bottom: "dirt.png"})
	a.Register(voxel.Grass, FaceTextures{Top: "grass_top.png", Side: "grass_side.png", Bottom: "dirt.png"})
	a.Register(voxel.Bedrock, FaceTextures{Top: "bedrock.png", Side: "bedrock.png", Bottom: "bedrock.png"})
	a.Register(voxel.Water, FaceTextures{Top: "water.png", Side: "water.png", Bottom: "water.png"})
	a.Register(voxel.Sand, FaceTextures{Top: "sand.png", Side: "sand.png", Bottom: "sand.png"})
	a.Register(voxel.Wood, FaceTextures{Top: "log_top.png", Side: "log_side.png", Bottom: "log_top.png"})
	a.Register(voxel.Leaves, FaceTextures{Top: "leaves.png", Side: "leaves.png", Bottom: "leaves.png"})

	return a
}
