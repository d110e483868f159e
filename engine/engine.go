// Package engine wires components D (world.Manager), E/F (meshing.Pool)
// and G/H (save.Manager) together the way internal/game/app.go wired the
// teacher's subsystems, trimmed to library scope: no window, no input,
// no render loop, no GL context — callers drive Tick from whatever frame
// loop or test harness they have (spec §1 out-of-scope list).
package engine

import (
	"time"

	"github.com/dantero/voxelcore/internal/profiling"
	"github.com/dantero/voxelcore/meshing"
	"github.com/dantero/voxelcore/save"
	"github.com/dantero/voxelcore/world"
)

// Config collects the tunables spec §9's "global mutable debug-mode
// toggle" redesign note asks to fold into an explicit, passed-around
// struct rather than package-level state: worker count, active-set
// radius, and autosave cadence. Segment size (world.S) and column height
// (world.C) are compile-time constants per spec §3, not configured here.
type Config struct {
	// Workers is the mesh pool's goroutine count; <=0 selects
	// runtime.NumCPU() (meshing.NewPool's own default).
	Workers int
	// MeshQueueCapacity bounds the job/result channels (spec §4.F).
	MeshQueueCapacity int
	// ActiveSetRadius is the default radius (in segments) passed to
	// UpdateActiveSet by Tick.
	ActiveSetRadius int
	// Algorithm selects which of the four meshing algorithms Tick uses.
	Algorithm meshing.AlgorithmKind
	// AutoSaveInterval, if positive, is the cadence StartAutoSave uses.
	AutoSaveInterval time.Duration
	// ContinuousSave enables write-through single-column saves on every
	// SetVoxel (spec §4.H "continuous single-column save").
	ContinuousSave bool
}

// DefaultConfig returns reasonable defaults: one-worker-per-core mesh
// pool sizing deferred to meshing.NewPool, an 8-segment active-set
// radius, the production two-phase-greedy algorithm, and a five-minute
// autosave interval (matching original_source's SaveManager default of
// 5 minutes).
func DefaultConfig() Config {
	return Config{
		MeshQueueCapacity: 4096,
		ActiveSetRadius:   8,
		Algorithm:         meshing.TwoPhaseGreedy,
		AutoSaveInterval:  5 * time.Minute,
		ContinuousSave:    false,
	}
}

// Engine owns the one set of objects a frame loop needs each tick: the
// world, its mesh pool, and its save manager.
type Engine struct {
	Config Config

	World *world.Manager
	Pool  *meshing.Pool
	Save  *save.Manager

	atlas     meshing.AtlasProvider
	generator world.Generator
	autosaver *save.AutoSaver
}

// New constructs an Engine: a world.Manager over worldBounds driven by
// generator, a meshing pool sized per cfg, and a save.Manager rooted at
// baseSaveDir. If cfg.ContinuousSave is set, every SetVoxel synchronously
// write-throughs via the save manager (spec §4.D/§4.H).
func New(cfg Config, worldBounds world.AABB2D, generator world.Generator, atlas meshing.AtlasProvider, baseSaveDir string) *Engine {
	wm := world.NewManager(worldBounds, generator)
	pool := meshing.NewPool(cfg.Workers, cfg.MeshQueueCapacity)
	saveMgr := save.NewManager(baseSaveDir, wm)

	e := &Engine{
		Config:    cfg,
		World:     wm,
		Pool:      pool,
		Save:      saveMgr,
		atlas:     atlas,
		generator: generator,
	}
	if cfg.ContinuousSave {
		wm.SetContinuousAutoSave(true, saveMgr.SaveColumnImmediately)
	}
	return e
}

// Tick runs one frame's worth of world maintenance around center: the
// active-set update (creating/evicting columns), then both phases of the
// dirty-mesh pass (spec §4.D update_dirty_meshes). poolIdle tells the
// active-set update whether eviction is currently safe (spec §4.D: never
// evict while jobs are outstanding); callers that don't track this
// themselves can pass e.Pool.QueueLength() == 0 as a reasonable proxy.
// profiling.ResetFrame is called first, exactly where the teacher's own
// app.tick() calls it, so every world.Manager/meshing.Pool span recorded
// during the tick (internal/profiling) reflects this frame only.
func (e *Engine) Tick(center world.Center, poolIdle bool) (enqueued, installed int) {
	profiling.ResetFrame()
	e.World.UpdateActiveSet(center, e.Config.ActiveSetRadius, e.generator, poolIdle)
	return e.World.UpdateDirtyMeshes(e.Pool, e.atlas, e.Config.Algorithm)
}

// StartAutoSave begins the background autosave loop using cfg's
// interval, if positive. Starts nothing if AutoSaveInterval <= 0.
func (e *Engine) StartAutoSave(source save.StateSource) {
	if e.Config.AutoSaveInterval <= 0 {
		return
	}
	e.autosaver = e.Save.StartAutoSave(e.Config.AutoSaveInterval, source)
}

// Shutdown stops the autosave loop (if running) and tears down the mesh
// pool: stop accepting jobs, join workers, drain remaining results
// without installing (spec §5 shutdown sequence).
func (e *Engine) Shutdown() {
	if e.autosaver != nil {
		e.autosaver.Stop()
	}
	e.Pool.Close()
}
