package save

import (
	"encoding/json"
	"os"
	"sort"
	"time"

	"github.com/dantero/voxelcore/world"
)

// ManifestEntry records one persisted column key and when it was last
// written (spec §6 chunks/manifest.json).
type ManifestEntry struct {
	X            int64  `json:"x"`
	Z            int64  `json:"z"`
	LastModified string `json:"lastModified"`
}

// Manifest is the decoded form of chunks/manifest.json (spec §6).
type Manifest struct {
	ChunksVersion int             `json:"chunksVersion"`
	LastSaved     string          `json:"lastSaved"`
	Chunks        []ManifestEntry `json:"chunks"`
}

// loadManifest reads and decodes the manifest at path. A missing file is
// reported as an empty, version-1 manifest rather than an error — the
// first save into a fresh save directory has nothing to merge against.
func loadManifest(path string) (Manifest, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Manifest{ChunksVersion: 1}, nil
	}
	if err != nil {
		return Manifest{}, err
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return Manifest{}, err
	}
	return m, nil
}

func (m Manifest) save(path string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// merge folds keys into the manifest's existing entries (union, keyed on
// (X,Z)) and restamps every resulting entry with now — grounded directly
// on original_source's SaveManager::updateChunkManifest, which rebuilds
// the whole entries list from the union of old and new chunks and writes
// the current timestamp against every one of them rather than preserving
// each entry's own history (see DESIGN.md open question #3). keys may be
// empty, in which case merge adds nothing but still restamps every
// existing entry and lastSaved.
func (m Manifest) merge(keys []world.ColumnKey, now time.Time) Manifest {
	stamp := now.UTC().Format(time.RFC3339)
	union := make(map[world.ColumnKey]struct{}, len(m.Chunks)+len(keys))
	for _, e := range m.Chunks {
		union[world.ColumnKey{X: e.X, Z: e.Z}] = struct{}{}
	}
	for _, k := range keys {
		union[k] = struct{}{}
	}

	entries := make([]ManifestEntry, 0, len(union))
	for k := range union {
		entries = append(entries, ManifestEntry{X: k.X, Z: k.Z, LastModified: stamp})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].X != entries[j].X {
			return entries[i].X < entries[j].X
		}
		return entries[i].Z < entries[j].Z
	})

	return Manifest{ChunksVersion: 1, LastSaved: stamp, Chunks: entries}
}
