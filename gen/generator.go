// Package gen provides the external generation contract a world.Manager
// is wired against, plus a small reference implementation so the rest of
// the module has something concrete to generate and test with.
package gen

import (
	"math"

	"github.com/dantero/voxelcore/voxel"
	"github.com/dantero/voxelcore/world"
)

// NoiseGenerator is a reference world.Generator: a single fractal value-
// noise heightmap with bedrock/dirt/grass banding, ported from the
// teacher's world/generator.go + world/noise.go. It exists to exercise
// the generation contract end to end, not to reproduce any particular
// game's terrain.
type NoiseGenerator struct {
	seed        int64
	scale       float64
	baseHeight  float64
	amp         float64
	octaves     int
	persistence float64
	lacunarity  float64
}

// NewNoiseGenerator returns a reference generator seeded with seed.
func NewNoiseGenerator(seed int64) *NoiseGenerator {
	return &NoiseGenerator{
		seed:        seed,
		scale:       1.0 / 64.0,
		baseHeight:  32,
		amp:         32,
		octaves:     4,
		persistence: 0.5,
		lacunarity:  2.0,
	}
}

// HeightAt computes the world surface height (block Y) at world (X,Z).
func (g *NoiseGenerator) HeightAt(worldX, worldZ int64) int64 {
	x := float64(worldX) * g.scale
	z := float64(worldZ) * g.scale
	n := octaveNoise2D(x, z, g.seed, g.octaves, g.persistence, g.lacunarity)
	height := g.baseHeight + n*g.amp
	if height < 0 {
		height = 0
	}
	return int64(math.Floor(height))
}

// GenerateSegment implements world.Generator. It fills the segment at
// column base (xb, zb), vertical slot segY, purely from HeightAt — no
// segment-to-segment state, so segments generate independently and in
// any order (spec §4.D's per-segment generator contract).
func (g *NoiseGenerator) GenerateSegment(seg *world.Segment, xb, segY, zb int64) {
	segBaseY := segY * world.S
	for lx := int64(0); lx < world.S; lx++ {
		worldX := xb + lx
		for lz := int64(0); lz < world.S; lz++ {
			worldZ := zb + lz
			height := g.HeightAt(worldX, worldZ)
			for ly := int64(0); ly < world.S; ly++ {
				worldY := segBaseY + ly
				id := g.voxelAt(worldY, height)
				if id == voxel.Air {
					continue
				}
				seg.Set(world.Local(lx), world.Local(ly), world.Local(lz), id)
			}
		}
	}
}

func (g *NoiseGenerator) voxelAt(worldY, surfaceHeight int64) voxel.Voxel {
	switch {
	case worldY > surfaceHeight:
		return voxel.Air
	case worldY == 0:
		return voxel.Bedrock
	case worldY == surfaceHeight:
		return voxel.Grass
	default:
		return voxel.Dirt
	}
}
