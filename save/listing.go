package save

import (
	"os"
	"path/filepath"
)

// SaveInfo describes one save directory discovered under the base
// directory, enough to populate a save-select screen without loading
// the full world (spec §6 "SaveInfo"-shaped metadata summary).
type SaveInfo struct {
	Name     string
	Metadata Metadata
}

// ListSaves scans the base directory for save folders, returning
// whichever ones have a readable metadata.json. Unreadable entries are
// skipped rather than failing the whole listing.
func (m *Manager) ListSaves() []SaveInfo {
	entries, err := os.ReadDir(m.baseDir)
	if err != nil {
		return nil
	}
	var saves []SaveInfo
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		meta, err := readMetadata(filepath.Join(m.baseDir, e.Name(), "metadata.json"))
		if err != nil {
			continue
		}
		saves = append(saves, SaveInfo{Name: e.Name(), Metadata: meta})
	}
	return saves
}

// DeleteSave removes a save directory entirely. Returns false if the
// save does not exist or could not be removed.
func (m *Manager) DeleteSave(name string) bool {
	path := m.savePath(name)
	if _, err := os.Stat(path); err != nil {
		return false
	}
	return os.RemoveAll(path) == nil
}
