package save

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestMetadataRoundTripPreservesExtraFields(t *testing.T) {
	m := Metadata{
		WorldName:       "Hollow",
		PlayerPosition:  mgl32.Vec3{1, 2, 3},
		PlayTimeSeconds: 99,
		CameraMode:      "FIRST_PERSON",
		CameraYaw:       12.5,
		CameraPitch:     -4,
		Extra:           map[string]any{"difficulty": "hard"},
	}

	path := t.TempDir() + "/metadata.json"
	if err := writeMetadata(path, m); err != nil {
		t.Fatalf("writeMetadata: %v", err)
	}
	loaded, err := readMetadata(path)
	if err != nil {
		t.Fatalf("readMetadata: %v", err)
	}

	if loaded.WorldName != m.WorldName || loaded.PlayTimeSeconds != m.PlayTimeSeconds {
		t.Fatalf("typed fields should round-trip, got %+v", loaded)
	}
	if loaded.PlayerPosition != m.PlayerPosition {
		t.Fatalf("player position should round-trip, got %v want %v", loaded.PlayerPosition, m.PlayerPosition)
	}
	if loaded.Extra["difficulty"] != "hard" {
		t.Fatalf("owner-supplied extra fields should round-trip, got %+v", loaded.Extra)
	}
}
