package world

import (
	"sync"

	"github.com/dantero/voxelcore/meshing"
	"github.com/dantero/voxelcore/voxel"
)

// Local is a segment-local coordinate in [0, S). Spec §9's "mixed
// coordinate types" redesign note picks one narrow unsigned width for
// local coordinates; S=32 fits comfortably in a byte.
type Local = uint8

// Segment is a fixed 32x32x32 voxel volume (spec §3, component B). The
// storage order (X-major, then Y, then Z) is an internal invariant, not
// an external contract.
type Segment struct {
	mu sync.RWMutex

	voxels [S * S * S]voxel.Voxel

	isDirtyMesh  bool
	isGenerated  bool
	isRebuilding bool

	mesh *meshing.Mesh
}

// NewSegment returns a segment pre-filled with AIR, matching spec §4.C's
// "all C segments are pre-materialised to AIR" invariant at the column
// level (segments themselves start this way too, simplifying both
// column construction and neighbour sampling at world boundaries).
func NewSegment() *Segment {
	return &Segment{}
}

func segIndex(x, y, z Local) int {
	return int(x)*S*S + int(y)*S + int(z)
}

func inRange(x, y, z Local) bool {
	return x < S && y < S && z < S
}

// Get returns the voxel at segment-local (x,y,z). Any coordinate outside
// [0,S) yields AIR (spec §4.B) — meshing algorithms rely on this at
// segment-interior boundaries; cross-segment sampling goes through the
// world manager instead.
func (s *Segment) Get(x, y, z Local) voxel.Voxel {
	if !inRange(x, y, z) {
		return voxel.Air
	}
	s.mu.RLock()
	v := s.voxels[segIndex(x, y, z)]
	s.mu.RUnlock()
	return v
}

// Set writes the voxel at segment-local (x,y,z). Out-of-range coordinates
// are a silent no-op. Writing the id already present is a no-op too —
// only an actual change marks the segment mesh-dirty (spec §4.B).
func (s *Segment) Set(x, y, z Local, v voxel.Voxel) {
	if !inRange(x, y, z) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := segIndex(x, y, z)
	if s.voxels[idx] == v {
		return
	}
	s.voxels[idx] = v
	s.isDirtyMesh = true
}

// MarkDirty forces the segment's mesh-dirty flag regardless of content,
// used to force a full remesh (e.g. after an atlas or lighting change).
func (s *Segment) MarkDirty() {
	s.mu.Lock()
	s.isDirtyMesh = true
	s.mu.Unlock()
}

// IsDirtyMesh reports whether the segment has changed since its mesh was
// last installed.
func (s *Segment) IsDirtyMesh() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isDirtyMesh
}

// IsGenerated reports whether a generator (or loader) has already
// populated this segment.
func (s *Segment) IsGenerated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isGenerated
}

// SetGenerated marks the segment as populated, so the world manager will
// not invoke the generator for it again.
func (s *Segment) SetGenerated(v bool) {
	s.mu.Lock()
	s.isGenerated = v
	s.mu.Unlock()
}

// IsRebuilding reports whether a mesh job currently holds this segment.
func (s *Segment) IsRebuilding() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRebuilding
}

// MarkRebuilding sets the rebuilding flag. Called only by the owning
// thread at job enqueue time (spec §4.F).
func (s *Segment) MarkRebuilding() {
	s.mu.Lock()
	s.isRebuilding = true
	s.mu.Unlock()
}

// Mesh returns the currently installed mesh, if any.
func (s *Segment) Mesh() *meshing.Mesh {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mesh
}

// TakeMesh removes and returns the installed mesh, leaving the segment
// without one.
func (s *Segment) TakeMesh() *meshing.Mesh {
	s.mu.Lock()
	defer s.mu.Unlock()
	m := s.mesh
	s.mesh = nil
	return m
}

// InstallMesh swaps in a freshly built mesh and atomically clears both
// isDirtyMesh and isRebuilding — the only way those flags clear in normal
// operation (spec §3 invariant: "a finished mesh swap clears both flags
// atomically").
func (s *Segment) InstallMesh(m *meshing.Mesh) {
	s.mu.Lock()
	s.mesh = m
	s.isDirtyMesh = false
	s.isRebuilding = false
	s.mu.Unlock()
}

// ForEach calls fn for every voxel in the segment in storage order,
// holding the read lock for the whole scan.
func (s *Segment) ForEach(fn func(x, y, z Local, v voxel.Voxel)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for x := 0; x < S; x++ {
		for y := 0; y < S; y++ {
			for z := 0; z < S; z++ {
				fn(Local(x), Local(y), Local(z), s.voxels[segIndex(Local(x), Local(y), Local(z))])
			}
		}
	}
}

// SnapshotVoxels copies the raw voxel array out under the read lock, used
// by the save codec (component H) to avoid holding the lock across file
// I/O.
func (s *Segment) SnapshotVoxels() [S * S * S]voxel.Voxel {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.voxels
}

// LoadVoxels overwrites the raw voxel array, used by the load path (spec
// §4.H step 6: "mark the segment generated and mesh-dirty").
func (s *Segment) LoadVoxels(data [S * S * S]voxel.Voxel) {
	s.mu.Lock()
	s.voxels = data
	s.isGenerated = true
	s.isDirtyMesh = true
	s.mu.Unlock()
}
