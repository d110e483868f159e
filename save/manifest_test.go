package save

import (
	"testing"
	"time"

	"github.com/dantero/voxelcore/world"
)

func TestManifestMergeUnionsAndRestamps(t *testing.T) {
	existing := Manifest{
		ChunksVersion: 1,
		Chunks: []ManifestEntry{
			{X: 0, Z: 0, LastModified: "2020-01-01T00:00:00Z"},
			{X: 32, Z: 0, LastModified: "2020-01-01T00:00:00Z"},
		},
	}
	now := time.Date(2026, 7, 31, 12, 0, 0, 0, time.UTC)
	merged := existing.merge([]world.ColumnKey{{X: 32, Z: 0}, {X: 64, Z: 0}}, now)

	if len(merged.Chunks) != 3 {
		t.Fatalf("merged manifest should have 3 entries (union), has %d", len(merged.Chunks))
	}
	stamp := now.Format(time.RFC3339)
	for _, e := range merged.Chunks {
		if e.LastModified != stamp {
			t.Fatalf("entry %v should be restamped to %s, got %s", e, stamp, e.LastModified)
		}
	}
}

func TestManifestLoadMissingFileIsEmptyVersion1(t *testing.T) {
	m, err := loadManifest(t.TempDir() + "/does-not-exist.json")
	if err != nil {
		t.Fatalf("loadManifest on a missing file should not error, got %v", err)
	}
	if m.ChunksVersion != 1 || len(m.Chunks) != 0 {
		t.Fatalf("missing manifest should report empty v1, got %+v", m)
	}
}

func TestManifestSaveLoadRoundTrip(t *testing.T) {
	path := t.TempDir() + "/manifest.json"
	m := Manifest{ChunksVersion: 1, LastSaved: "now", Chunks: []ManifestEntry{{X: 1, Z: 2, LastModified: "now"}}}
	if err := m.save(path); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := loadManifest(path)
	if err != nil {
		t.Fatalf("loadManifest: %v", err)
	}
	if len(loaded.Chunks) != 1 || loaded.Chunks[0].X != 1 || loaded.Chunks[0].Z != 2 {
		t.Fatalf("round-tripped manifest mismatch: %+v", loaded)
	}
}
