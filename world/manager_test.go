package world

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/dantero/voxelcore/meshing"
	"github.com/dantero/voxelcore/voxel"
)

func setupManagerVoxels() {
	voxel.Reset()
	voxel.RegisterDefaults()
}

// stampGenerator writes a single marker voxel at local (0,0,0) of every
// segment it's asked to generate, so tests can observe whether
// generation actually ran.
type stampGenerator struct{ calls int }

func (g *stampGenerator) GenerateSegment(seg *Segment, xb, segY, zb int64) {
	g.calls++
	seg.Set(0, 0, 0, voxel.Stone)
}

func wideBounds() AABB2D {
	return AABB2D{XMin: -100000, ZMin: -100000, XMax: 100000, ZMax: 100000}
}

func TestGetOrCreateColumnGeneratesWhenPermitted(t *testing.T) {
	setupManagerVoxels()
	gen := &stampGenerator{}
	m := NewManager(wideBounds(), gen)
	col := m.GetOrCreateColumn(0, 0)
	if gen.calls != C {
		t.Fatalf("generator should run once per segment (%d), ran %d times", C, gen.calls)
	}
	if got := col.GetVoxel(0, 0, 0); got != voxel.Stone {
		t.Fatalf("segment 0 should carry the generator's marker voxel, got %v", got)
	}
}

func TestGetOrCreateColumnSkipsGenerationWhenLoaded(t *testing.T) {
	setupManagerVoxels()
	gen := &stampGenerator{}
	m := NewManager(wideBounds(), gen)
	m.MarkChunkLoaded(0, 0)
	col := m.GetOrCreateColumn(0, 0)
	if gen.calls != 0 {
		t.Fatalf("generator should not run for a column marked loaded, ran %d times", gen.calls)
	}
	if got := col.GetVoxel(0, 0, 0); got != voxel.Air {
		t.Fatalf("a skip-gen column should stay AIR until populated from disk, got %v", got)
	}
}

func TestGetOrCreateColumnSkipsGenerationDuringLoadingGate(t *testing.T) {
	setupManagerVoxels()
	gen := &stampGenerator{}
	m := NewManager(wideBounds(), gen)
	m.SetLoading(true)
	m.GetOrCreateColumn(0, 0)
	if gen.calls != 0 {
		t.Fatalf("generator should not run while the loading gate is active, ran %d times", gen.calls)
	}
}

func TestGetOrCreateEmptyColumnAlwaysSkipsGenerationAndMarksLoaded(t *testing.T) {
	setupManagerVoxels()
	gen := &stampGenerator{}
	m := NewManager(wideBounds(), gen)
	m.GetOrCreateEmptyColumn(0, 0)
	if gen.calls != 0 {
		t.Fatal("GetOrCreateEmptyColumn must never invoke the generator")
	}
	// A later GetOrCreateColumn call for the same key must not regenerate:
	// it's the same column (idempotent), and it's already in the loaded set.
	m2 := NewManager(wideBounds(), gen)
	m2.GetOrCreateEmptyColumn(5, 5)
	m2.GetOrCreateColumn(5, 5)
	if gen.calls != 0 {
		t.Fatalf("a column created empty must stay loaded and never generate, generator ran %d times", gen.calls)
	}
}

func TestSetVoxelMarksSaveDirtyAndMeshDirty(t *testing.T) {
	setupManagerVoxels()
	m := NewManager(wideBounds(), nil)
	m.SetVoxel(1, 1, 1, voxel.Stone)

	key := ColumnKeyFor(1, 1)
	modified := m.TakeModified()
	if len(modified) != 1 || modified[0] != key {
		t.Fatalf("TakeModified = %v, want exactly [%v]", modified, key)
	}
	col := m.Column(key)
	seg := col.Segment(0)
	if !seg.IsDirtyMesh() {
		t.Fatal("the touched segment should be mesh-dirty after SetVoxel")
	}
}

func TestContinuousAutoSaveInvokesCallbackSynchronously(t *testing.T) {
	setupManagerVoxels()
	m := NewManager(wideBounds(), nil)
	var gotX, gotZ int64
	calls := 0
	m.SetContinuousAutoSave(true, func(xb, zb int64) {
		calls++
		gotX, gotZ = xb, zb
	})
	m.SetVoxel(5, 5, 5, voxel.Stone)
	if calls != 1 {
		t.Fatalf("continuous auto-save callback should fire exactly once, fired %d times", calls)
	}
	if gotX != 0 || gotZ != 0 {
		t.Fatalf("callback should receive the column base (0,0), got (%d,%d)", gotX, gotZ)
	}
}

func TestUpdateActiveSetCreatesColumnsInRadiusAndEvictsOthers(t *testing.T) {
	setupManagerVoxels()
	gen := &stampGenerator{}
	m := NewManager(wideBounds(), gen)

	// A far-away column that should be evicted once it's out of radius.
	m.GetOrCreateColumn(10000, 10000)

	m.UpdateActiveSet(Center{X: 0, Y: 0, Z: 0}, 1, gen, true)

	for dx := -1; dx <= 1; dx++ {
		for dz := -1; dz <= 1; dz++ {
			key := ColumnKey{X: int64(dx) * S, Z: int64(dz) * S}
			if m.Column(key) == nil {
				t.Fatalf("column %v should be active after UpdateActiveSet", key)
			}
		}
	}
	if m.Column(ColumnKey{X: 10000, Z: 10000}) != nil {
		t.Fatal("the far-away column should have been evicted once the pool is idle")
	}
}

func TestUpdateActiveSetDoesNotEvictWhenPoolBusy(t *testing.T) {
	setupManagerVoxels()
	gen := &stampGenerator{}
	m := NewManager(wideBounds(), gen)
	m.GetOrCreateColumn(10000, 10000)

	m.UpdateActiveSet(Center{X: 0, Y: 0, Z: 0}, 0, gen, false)

	if m.Column(ColumnKey{X: 10000, Z: 10000}) == nil {
		t.Fatal("eviction must not happen while the mesh pool has outstanding work")
	}
}

func TestUpdateActiveSetDoesNotEvictDuringLoadingGate(t *testing.T) {
	setupManagerVoxels()
	gen := &stampGenerator{}
	m := NewManager(wideBounds(), gen)
	m.GetOrCreateColumn(10000, 10000)
	m.SetLoading(true)

	m.UpdateActiveSet(Center{X: 0, Y: 0, Z: 0}, 0, gen, true)

	if m.Column(ColumnKey{X: 10000, Z: 10000}) == nil {
		t.Fatal("eviction must not happen while the loading gate is active")
	}
}

func TestEnqueueDirtyMeshJobsMarksRebuildingAndDrainInstalls(t *testing.T) {
	setupManagerVoxels()
	m := NewManager(wideBounds(), nil)
	m.SetVoxel(0, 0, 0, voxel.Stone)

	pool := meshing.NewPool(2, 8)
	defer pool.Close()
	atlasRef := fakeAtlasProvider{}

	enqueued, _ := m.UpdateDirtyMeshes(pool, atlasRef, meshing.CulledFace)
	if enqueued != 1 {
		t.Fatalf("expected exactly one dirty segment enqueued, got %d", enqueued)
	}

	seg := m.Column(ColumnKeyFor(0, 0)).Segment(0)
	if !seg.IsRebuilding() {
		t.Fatal("segment should be marked rebuilding immediately after enqueue")
	}

	installed := 0
	for installed == 0 {
		installed += pool.DrainAndInstall()
	}
	if seg.IsRebuilding() {
		t.Fatal("segment should no longer be rebuilding once its mesh is installed")
	}
	if seg.IsDirtyMesh() {
		t.Fatal("segment should no longer be mesh-dirty once its mesh is installed")
	}
}

func TestResetClearsEverything(t *testing.T) {
	setupManagerVoxels()
	m := NewManager(wideBounds(), nil)
	m.SetVoxel(0, 0, 0, voxel.Stone)
	m.Reset()

	if len(m.TakeModified()) != 0 {
		t.Fatal("Reset should clear the save-dirty set")
	}
	if m.Column(ColumnKeyFor(0, 0)) != nil {
		t.Fatal("Reset should clear loaded columns")
	}
	if got := m.GetVoxel(0, 0, 0); got != voxel.Air {
		t.Fatalf("after Reset the world should read back as empty, got %v", got)
	}
}

// fakeAtlasProvider is a minimal meshing.AtlasProvider for manager-level
// tests that don't care about texture placement.
type fakeAtlasProvider struct{}

func (fakeAtlasProvider) Lookup(v voxel.Voxel, face meshing.Face) (meshing.AtlasID, mgl32.Vec2) {
	return meshing.Main, mgl32.Vec2{}
}
