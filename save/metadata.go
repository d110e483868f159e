package save

import (
	"encoding/json"
	"os"

	"github.com/go-gl/mathgl/mgl32"
)

// metadataVersion is the version string stamped into every metadata.json
// written by this package (spec §6). It is unrelated to the per-column
// binary format version in chunkfile.go.
const metadataVersion = "1.0.0"

// Metadata is world-level save metadata (spec §6 metadata.json). Extra
// carries any owner-supplied fields beyond the ones this package knows
// about, round-tripped verbatim (spec §4.H step 3: "owner-supplied
// fields plus version, timestamp, player pose").
type Metadata struct {
	WorldName       string     `json:"worldName"`
	PlayerPosition  mgl32.Vec3 `json:"playerPosition"`
	PlayTimeSeconds uint64     `json:"playTimeSeconds"`
	CameraMode      string     `json:"cameraMode"`
	CameraYaw       float32    `json:"cameraYaw"`
	CameraPitch     float32    `json:"cameraPitch"`
	Extra           map[string]any
}

// knownMetadataFields lists the JSON keys Metadata owns explicitly, so
// MarshalJSON/UnmarshalJSON know which keys belong in Extra instead.
var knownMetadataFields = map[string]struct{}{
	"version": {}, "worldName": {}, "playerPosition": {},
	"playTimeSeconds": {}, "cameraMode": {}, "cameraYaw": {}, "cameraPitch": {},
}

// MarshalJSON folds Extra's keys alongside the typed fields into one
// flat object, the way the original's JsonUtils::createMetadataJson
// wrote a single object with both fixed and free-form fields.
func (m Metadata) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(m.Extra)+7)
	for k, v := range m.Extra {
		out[k] = v
	}
	out["version"] = metadataVersion
	out["worldName"] = m.WorldName
	out["playerPosition"] = m.PlayerPosition
	out["playTimeSeconds"] = m.PlayTimeSeconds
	out["cameraMode"] = m.CameraMode
	out["cameraYaw"] = m.CameraYaw
	out["cameraPitch"] = m.CameraPitch
	return json.Marshal(out)
}

// UnmarshalJSON splits the flat object back into typed fields plus
// whatever is left over in Extra.
func (m *Metadata) UnmarshalJSON(data []byte) error {
	raw := make(map[string]any)
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	type alias struct {
		WorldName       string     `json:"worldName"`
		PlayerPosition  mgl32.Vec3 `json:"playerPosition"`
		PlayTimeSeconds uint64     `json:"playTimeSeconds"`
		CameraMode      string     `json:"cameraMode"`
		CameraYaw       float32    `json:"cameraYaw"`
		CameraPitch     float32    `json:"cameraPitch"`
	}
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	m.WorldName = a.WorldName
	m.PlayerPosition = a.PlayerPosition
	m.PlayTimeSeconds = a.PlayTimeSeconds
	m.CameraMode = a.CameraMode
	m.CameraYaw = a.CameraYaw
	m.CameraPitch = a.CameraPitch

	m.Extra = make(map[string]any)
	for k, v := range raw {
		if _, known := knownMetadataFields[k]; known {
			continue
		}
		m.Extra[k] = v
	}
	return nil
}

func writeMetadata(path string, m Metadata) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func readMetadata(path string) (Metadata, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Metadata{}, err
	}
	var m Metadata
	if err := json.Unmarshal(data, &m); err != nil {
		return Metadata{}, err
	}
	return m, nil
}
