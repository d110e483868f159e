package meshing

import (
	"github.com/dantero/voxelcore/voxel"
	"github.com/go-gl/mathgl/mgl32"
)

// S is the edge length of a segment in voxels. Duplicated from world.S
// (rather than imported) to keep this package free of a dependency on
// world; the two constants must stay equal by construction (spec §3).
const S = 32

// Local is a segment-local coordinate in [0, S). Defined here (rather
// than imported from the world package) to avoid a meshing<->world
// import cycle: world.Local is a plain alias of the same underlying
// type, so *world.Segment satisfies VoxelSource without either package
// importing the other.
type Local = uint8

// VoxelSource is anything that can answer a bounds-checked, AIR-default
// local voxel query — the contract a *world.Segment satisfies.
type VoxelSource interface {
	Get(x, y, z Local) voxel.Voxel
}

// SampleFunc samples a voxel at world coordinates, crossing segment and
// column boundaries as needed. It must return AIR for any coordinate
// outside the loaded world (spec §4.E) — this is the single mechanism
// by which boundary faces between adjacent segments are suppressed.
type SampleFunc func(wx, wy, wz int64) voxel.Voxel

// SegmentOrigin is the world-space base coordinate (Xb,Yb,Zb) of a
// segment, i.e. the "chunk_coord" parameter of spec §4.E.
type SegmentOrigin struct {
	X, Y, Z int64
}

// AtlasProvider is the read-only atlas contract consumed during meshing
// (spec §6 and §4.A): for a voxel type and the face being emitted,
// resolve which of the three atlas images to sample and the bottom-left
// UV origin of that tile. Keying on face (not just atlas) is what lets
// ALL_FACES_DIFFERENT voxels place up to six distinct tiles despite only
// three backing atlas images.
type AtlasProvider interface {
	Lookup(v voxel.Voxel, face Face) (AtlasID, mgl32.Vec2)
}

// Algorithm is the common meshing interface every algorithm in this
// package implements (spec §4.E): consume a segment plus a cross-segment
// aware sampler, produce a finished Mesh.
type Algorithm interface {
	Build(seg VoxelSource, atlas AtlasProvider, sample SampleFunc, origin SegmentOrigin) *Mesh
	Name() string
}

// AlgorithmKind enumerates the four interchangeable algorithms (spec
// §9: "The factory-of-algorithms pattern collapses to a closed enum of
// four algorithms plus a dispatch function").
type AlgorithmKind uint8

const (
	Naive AlgorithmKind = iota
	CulledFace
	GreedyLegacy
	TwoPhaseGreedy
)

// Dispatch returns the Algorithm implementation for kind.
func Dispatch(kind AlgorithmKind) Algorithm {
	switch kind {
	case Naive:
		return naiveAlgorithm{}
	case CulledFace:
		return culledFaceAlgorithm{}
	case GreedyLegacy:
		return greedyLegacyAlgorithm{}
	case TwoPhaseGreedy:
		return twoPhaseGreedyAlgorithm{}
	default:
		panic("meshing: unknown algorithm kind")
	}
}

// faceFromAxisDir maps a sweep axis (0=x,1=y,2=z) and sign to the
// direction-keyed Face spec §4.E's atlas_for_face expects.
func faceFromAxisDir(axis int, dir int) Face {
	switch axis {
	case 0:
		if dir > 0 {
			return East
		}
		return West
	case 1:
		if dir > 0 {
			return Top
		}
		return Bottom_
	case 2:
		if dir > 0 {
			return North
		}
		return South
	}
	panic("meshing: invalid axis")
}

// lightForFace is a simple directional-lighting stand-in consistent with
// the teacher's brightness-by-normal scheme (top brightest, bottom
// darkest, sides in between), expressed in the spec's [0,1] light scalar
// instead of the teacher's packed byte.
func lightForFace(face Face) float32 {
	switch face {
	case Top:
		return 1.0
	case Bottom_:
		return 0.5
	default:
		return 0.8
	}
}
