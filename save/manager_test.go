package save

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/dantero/voxelcore/voxel"
	"github.com/dantero/voxelcore/world"
)

// countingGenerator counts how many times it's invoked, so tests can
// assert the load path never regenerates a persisted segment (S6).
type countingGenerator struct{ calls int }

func (g *countingGenerator) GenerateSegment(seg *world.Segment, xb, segY, zb int64) {
	g.calls++
}

func wideBounds() world.AABB2D {
	return world.AABB2D{XMin: -1 << 30, ZMin: -1 << 30, XMax: 1 << 30, ZMax: 1 << 30}
}

func setupVoxels() {
	voxel.Reset()
	voxel.RegisterDefaults()
}

func samplePlayerBlob() json.RawMessage {
	return json.RawMessage(`{"inventory":["pick"]}`)
}

func sampleMeta() Metadata {
	return Metadata{
		WorldName:       "Test World",
		PlayerPosition:  mgl32.Vec3{1, 70, 5},
		PlayTimeSeconds: 42,
		CameraMode:      "FREE_FLYING",
		CameraYaw:       -90,
		CameraPitch:     0,
	}
}

// TestSaveLoadRoundTrip covers S7: scattered writes across several
// columns, save, reset, load, every voxel and every manifest key
// reappear exactly once.
func TestSaveLoadRoundTrip(t *testing.T) {
	setupVoxels()
	dir := t.TempDir()
	gen := &countingGenerator{}
	wm := world.NewManager(wideBounds(), gen)
	mgr := NewManager(dir, wm)

	writes := []struct{ x, y, z int64 }{
		{5, 70, 5}, {40, 10, -20}, {-100, 200, 300}, {0, 0, 0},
	}
	for _, w := range writes {
		wm.SetVoxel(w.x, w.y, w.z, voxel.Stone)
	}

	if !mgr.SaveGame("default", sampleMeta(), samplePlayerBlob()) {
		t.Fatal("SaveGame should succeed")
	}

	wm.Reset()
	for _, w := range writes {
		if got := wm.GetVoxel(w.x, w.y, w.z); got != voxel.Air {
			t.Fatalf("after Reset, (%d,%d,%d) should read Air, got %v", w.x, w.y, w.z, got)
		}
	}

	meta, ok := mgr.LoadGame("default")
	if !ok {
		t.Fatal("LoadGame should succeed")
	}
	if meta.WorldName != "Test World" || meta.PlayTimeSeconds != 42 {
		t.Fatalf("loaded metadata mismatch: %+v", meta)
	}

	for _, w := range writes {
		if got := wm.GetVoxel(w.x, w.y, w.z); got != voxel.Stone {
			t.Fatalf("after load, (%d,%d,%d) should read Stone, got %v", w.x, w.y, w.z, got)
		}
	}

	manifest, err := loadManifest(filepath.Join(dir, "default", "chunks", "manifest.json"))
	if err != nil {
		t.Fatalf("loadManifest: %v", err)
	}
	seen := make(map[world.ColumnKey]int)
	for _, e := range manifest.Chunks {
		seen[world.ColumnKey{X: e.X, Z: e.Z}]++
	}
	wantKeys := []world.ColumnKey{
		world.ColumnKeyFor(5, 5),
		world.ColumnKeyFor(40, -20),
		world.ColumnKeyFor(-100, 300),
		world.ColumnKeyFor(0, 0),
	}
	for _, key := range wantKeys {
		if seen[key] != 1 {
			t.Fatalf("column %v should appear exactly once in manifest, appeared %d times", key, seen[key])
		}
	}
}

// TestLoadDoesNotRegenerate covers S6: the generator must not run for a
// column the load path materialises from disk.
func TestLoadDoesNotRegenerate(t *testing.T) {
	setupVoxels()
	dir := t.TempDir()
	gen := &countingGenerator{}
	wm := world.NewManager(wideBounds(), gen)
	mgr := NewManager(dir, wm)

	wm.SetVoxel(5, 70, 5, voxel.Stone)
	if !mgr.SaveGame("default", sampleMeta(), samplePlayerBlob()) {
		t.Fatal("SaveGame should succeed")
	}

	wm2 := world.NewManager(wideBounds(), gen)
	mgr2 := NewManager(dir, wm2)
	gen.calls = 0
	if _, ok := mgr2.LoadGame("default"); !ok {
		t.Fatal("LoadGame should succeed")
	}
	if gen.calls != 0 {
		t.Fatalf("generator should not run for a persisted column during load, ran %d times", gen.calls)
	}
	if got := wm2.GetVoxel(5, 70, 5); got != voxel.Stone {
		t.Fatalf("loaded voxel = %v, want Stone", got)
	}
}

// TestIncrementalSaveWritesOnlyDirtyChunks covers S8: a second save after
// editing only one (new) column writes just that column's chunk file,
// but the manifest still lists every previously persisted column.
func TestIncrementalSaveWritesOnlyDirtyChunks(t *testing.T) {
	setupVoxels()
	dir := t.TempDir()
	wm := world.NewManager(wideBounds(), nil)
	mgr := NewManager(dir, wm)

	wm.SetVoxel(0, 0, 0, voxel.Stone)
	wm.SetVoxel(1000, 0, 0, voxel.Stone)
	if !mgr.SaveGame("default", sampleMeta(), samplePlayerBlob()) {
		t.Fatal("first SaveGame should succeed")
	}

	wm.SetVoxel(2000, 0, 0, voxel.Stone)
	if !mgr.SaveGame("default", sampleMeta(), samplePlayerBlob()) {
		t.Fatal("second SaveGame should succeed")
	}

	chunksDir := filepath.Join(dir, "default", "chunks")
	keyNew := world.ColumnKeyFor(2000, 0)
	if _, err := os.Stat(filepath.Join(chunksDir, chunkFileName(keyNew))); err != nil {
		t.Fatalf("chunk file for newly-dirtied column should exist: %v", err)
	}

	manifest, err := loadManifest(filepath.Join(chunksDir, "manifest.json"))
	if err != nil {
		t.Fatalf("loadManifest: %v", err)
	}
	if len(manifest.Chunks) != 3 {
		t.Fatalf("manifest should enumerate all 3 previously persisted columns, has %d", len(manifest.Chunks))
	}

	// Every manifest-listed column, including the two untouched by the
	// second save, must still have a backing chunk file and survive a
	// fresh load (regression: the second save must not drop chunk files
	// for columns it didn't re-dirty).
	wm2 := world.NewManager(wideBounds(), nil)
	mgr2 := NewManager(dir, wm2)
	if _, ok := mgr2.LoadGame("default"); !ok {
		t.Fatal("LoadGame after incremental save should succeed")
	}
	for _, v := range []struct {
		x, z int64
		want voxel.Voxel
	}{
		{0, 0, voxel.Stone},
		{1000, 0, voxel.Stone},
		{2000, 0, voxel.Stone},
	} {
		if got := wm2.GetVoxel(v.x, 0, v.z); got != v.want {
			t.Fatalf("after reload, (%d,0,%d) = %v, want %v", v.x, v.z, got, v.want)
		}
	}
}

func TestEmptyWorldSaveRoundTrips(t *testing.T) {
	setupVoxels()
	dir := t.TempDir()
	wm := world.NewManager(wideBounds(), nil)
	mgr := NewManager(dir, wm)

	if !mgr.SaveGame("empty", sampleMeta(), nil) {
		t.Fatal("SaveGame of an empty world should succeed")
	}
	meta, ok := mgr.LoadGame("empty")
	if !ok {
		t.Fatal("LoadGame of an empty save should succeed")
	}
	if meta.WorldName != "Test World" {
		t.Fatalf("metadata should round-trip, got %+v", meta)
	}
	if got := wm.GetVoxel(5, 70, 5); got != voxel.Air {
		t.Fatalf("empty world should read back Air everywhere, got %v", got)
	}
}

func TestSecondOperationRejectedWhileOneInFlight(t *testing.T) {
	setupVoxels()
	dir := t.TempDir()
	wm := world.NewManager(wideBounds(), nil)
	mgr := NewManager(dir, wm)

	mgr.mu.Lock()
	defer mgr.mu.Unlock()

	if mgr.SaveGame("default", sampleMeta(), nil) {
		t.Fatal("SaveGame should be rejected while the mutex is already held")
	}
	if !mgr.IsOperationInProgress() {
		t.Fatal("IsOperationInProgress should report true while the mutex is held")
	}
}

// TestAtomicCommitPreservesPriorSaveOnCrash simulates a process dying
// between temp-write and rename (S9): a stale _temp directory left
// behind must not disturb a prior successful save, and the next save
// attempt must tolerate (clean up) the garbage.
func TestAtomicCommitPreservesPriorSaveOnCrash(t *testing.T) {
	setupVoxels()
	dir := t.TempDir()
	wm := world.NewManager(wideBounds(), nil)
	mgr := NewManager(dir, wm)

	wm.SetVoxel(0, 0, 0, voxel.Stone)
	if !mgr.SaveGame("default", sampleMeta(), nil) {
		t.Fatal("first SaveGame should succeed")
	}

	// Simulate a crash mid-commit: leave behind a garbage temp dir.
	tempPath := filepath.Join(dir, "default_temp")
	if err := os.MkdirAll(tempPath, 0o755); err != nil {
		t.Fatalf("os.MkdirAll: %v", err)
	}
	if err := os.WriteFile(filepath.Join(tempPath, "garbage.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("os.WriteFile: %v", err)
	}

	meta, ok := mgr.LoadGame("default")
	if !ok || meta.WorldName != "Test World" {
		t.Fatal("the prior save should still be intact and loadable")
	}

	wm.SetVoxel(1, 1, 1, voxel.Dirt)
	if !mgr.SaveGame("default", sampleMeta(), nil) {
		t.Fatal("a later save should tolerate and clean up the stale temp dir")
	}
}

func TestContinuousSaveWritesChunkAndMergesManifest(t *testing.T) {
	setupVoxels()
	dir := t.TempDir()
	wm := world.NewManager(wideBounds(), nil)
	mgr := NewManager(dir, wm)

	// Continuous saves target the current save slot; create one first.
	if !mgr.SaveGame("default", sampleMeta(), nil) {
		t.Fatal("SaveGame should succeed")
	}

	wm.SetContinuousAutoSave(true, mgr.SaveColumnImmediately)
	wm.SetVoxel(5, 70, 5, voxel.Stone)

	key := world.ColumnKeyFor(5, 5)
	path := filepath.Join(dir, "default", "chunks", chunkFileName(key))
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("continuous save should have written a chunk file: %v", err)
	}

	manifest, err := loadManifest(filepath.Join(dir, "default", "chunks", "manifest.json"))
	if err != nil {
		t.Fatalf("loadManifest: %v", err)
	}
	found := false
	for _, e := range manifest.Chunks {
		if e.X == key.X && e.Z == key.Z {
			found = true
		}
	}
	if !found {
		t.Fatal("continuous save should merge its column into the manifest")
	}
}
