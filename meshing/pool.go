package meshing

import (
	"context"
	"runtime"
	"sync"

	"github.com/dantero/voxelcore/internal/profiling"
)

// MeshTarget is anything a mesh job can build a mesh for and then hand
// the finished mesh back to. *world.Segment satisfies this structurally
// (its InstallMesh takes a *meshing.Mesh) without meshing importing
// world.
type MeshTarget interface {
	VoxelSource
	InstallMesh(m *Mesh)
}

// Job describes one unit of mesh work (component F, generalized from the
// teacher's per-chunk MeshJob to one job per segment — spec §4.F).
type Job struct {
	Target MeshTarget
	Atlas  AtlasProvider
	Sample SampleFunc
	Origin SegmentOrigin
	Kind   AlgorithmKind
}

// Result pairs a finished mesh with the job that produced it. The
// worker never calls Target.InstallMesh itself — installation happens on
// whichever goroutine drains Results, preserving the invariant that a
// segment's mesh slot is only ever touched by its owning thread (spec
// §7).
type Result struct {
	Job  Job
	Mesh *Mesh
}

// Pool is a fixed-size worker pool over a buffered job queue, grounded on
// the teacher's internal/meshing/pool.go WorkerPool and on
// original_source's enqueueDirtyMeshJobs/processFinishedMeshJobs split.
type Pool struct {
	jobs    chan Job
	results chan Result

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewPool starts a pool of numWorkers goroutines (runtime.NumCPU() if
// numWorkers <= 0) draining a queue of the given capacity.
func NewPool(numWorkers, queueCapacity int) *Pool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	ctx, cancel := context.WithCancel(context.Background())
	p := &Pool{
		jobs:    make(chan Job, queueCapacity),
		results: make(chan Result, queueCapacity),
		ctx:     ctx,
		cancel:  cancel,
	}
	p.wg.Add(numWorkers)
	for i := 0; i < numWorkers; i++ {
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for {
		select {
		case <-p.ctx.Done():
			return
		case job, ok := <-p.jobs:
			if !ok {
				return
			}
			mesh := p.build(job)
			select {
			case p.results <- Result{Job: job, Mesh: mesh}:
			case <-p.ctx.Done():
				return
			}
		}
	}
}

// build runs one job's algorithm on the calling worker goroutine, timed
// under the same per-frame profiler the teacher's session.go tracks its
// own per-system costs with.
func (p *Pool) build(job Job) *Mesh {
	defer profiling.Track("meshing.Build")()
	return Dispatch(job.Kind).Build(job.Target, job.Atlas, job.Sample, job.Origin)
}

// Enqueue submits a job without blocking. It returns false if the queue
// is full; the caller (the world manager) is expected to retry on a
// later tick rather than block the thread driving the active-set update
// (spec §4.F).
func (p *Pool) Enqueue(job Job) bool {
	select {
	case p.jobs <- job:
		return true
	default:
		return false
	}
}

// Results exposes the result channel for callers that want to drain it
// themselves (e.g. to interleave installation with other per-frame work).
func (p *Pool) Results() <-chan Result {
	return p.results
}

// DrainAndInstall installs every result currently available without
// blocking, returning how many meshes were installed. Safe to call
// repeatedly until it returns 0 (spec's "drain to completion" property).
func (p *Pool) DrainAndInstall() int {
	n := 0
	for {
		select {
		case r := <-p.results:
			r.Job.Target.InstallMesh(r.Mesh)
			n++
		default:
			return n
		}
	}
}

// QueueLength returns the current number of jobs waiting to be picked up
// by a worker.
func (p *Pool) QueueLength() int {
	return len(p.jobs)
}

// Close stops accepting new work and tears down the worker goroutines.
// Jobs already queued are abandoned; in-flight builds run to completion.
func (p *Pool) Close() {
	p.cancel()
	close(p.jobs)
	p.wg.Wait()
}
