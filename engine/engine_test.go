package engine

import (
	"testing"

	"github.com/dantero/voxelcore/atlas"
	"github.com/dantero/voxelcore/gen"
	"github.com/dantero/voxelcore/save"
	"github.com/dantero/voxelcore/voxel"
	"github.com/dantero/voxelcore/world"
)

func setupVoxels() {
	voxel.Reset()
	voxel.RegisterDefaults()
}

func testAtlas() *atlas.Atlas {
	a := atlas.New(256, 256, 16, 16)
	a.Register(voxel.Stone, atlas.FaceTextures{Top: "stone", Side: "stone", Bottom: "stone"})
	a.Register(voxel.Dirt, atlas.FaceTextures{Top: "dirt", Side: "dirt", Bottom: "dirt"})
	a.Register(voxel.Grass, atlas.FaceTextures{Top: "grass_top", Side: "grass_side", Bottom: "dirt"})
	a.Register(voxel.Bedrock, atlas.FaceTextures{Top: "bedrock", Side: "bedrock", Bottom: "bedrock"})
	return a
}

func TestEngineTickGeneratesMeshesAroundCenter(t *testing.T) {
	setupVoxels()
	bounds := world.AABB2D{XMin: -100000, ZMin: -100000, XMax: 100000, ZMax: 100000}
	generator := gen.NewNoiseGenerator(1)
	cfg := DefaultConfig()
	cfg.ActiveSetRadius = 1

	e := New(cfg, bounds, generator, testAtlas(), t.TempDir())
	defer e.Shutdown()

	enqueued, _ := e.Tick(world.Center{X: 0, Y: 64, Z: 0}, true)
	if enqueued == 0 {
		t.Fatal("first tick around a freshly generated area should enqueue at least one dirty segment")
	}

	installed := 0
	for i := 0; i < 50 && installed == 0; i++ {
		_, n := e.Tick(world.Center{X: 0, Y: 64, Z: 0}, true)
		installed += n
	}
	if installed == 0 {
		t.Fatal("meshes should install within a bounded number of ticks")
	}
}

func TestEngineSaveAndLoadRoundTrip(t *testing.T) {
	setupVoxels()
	bounds := world.AABB2D{XMin: -100000, ZMin: -100000, XMax: 100000, ZMax: 100000}
	dir := t.TempDir()

	e := New(DefaultConfig(), bounds, nil, testAtlas(), dir)
	defer e.Shutdown()

	e.World.SetVoxel(5, 70, 5, voxel.Stone)
	if !e.Save.SaveGame("default", save.Metadata{WorldName: "Engine Test"}, nil) {
		t.Fatal("SaveGame should succeed")
	}

	e.World.Reset()
	if _, ok := e.Save.LoadGame("default"); !ok {
		t.Fatal("LoadGame should succeed")
	}
	if got := e.World.GetVoxel(5, 70, 5); got != voxel.Stone {
		t.Fatalf("loaded voxel = %v, want Stone", got)
	}
}
