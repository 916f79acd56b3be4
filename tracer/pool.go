package tracer

import (
	"sync"

	"github.com/achilleasa/goray/log"
	"github.com/achilleasa/goray/scene"
)

// A pool of tracers answering ray batches against a shared immutable BVH.
// Each tracer runs on its own goroutine and queries a disjoint block of
// the batch; the tree itself is never mutated so no locking is needed.
type Pool struct {
	logger    log.Logger
	tracers   []Tracer
	scheduler BlockScheduler
}

// Create a new pool with the given number of cpu tracers.
func NewPool(workers int, accel *scene.BVH) *Pool {
	if workers < 1 {
		workers = 1
	}

	pool := &Pool{
		logger:    log.New("tracer"),
		scheduler: NewPerfectScheduler(),
	}
	for i := 0; i < workers; i++ {
		pool.tracers = append(pool.tracers, NewCpuTracer(i, accel))
	}
	return pool
}

// Get the pool tracer list.
func (p *Pool) Tracers() []Tracer {
	return p.tracers
}

// Trace a batch of rays, writing the result for rays[i] into traces[i].
// Blocks until the whole batch is processed. The batch is split across
// the pool tracers using block scheduling feedback from prior batches.
func (p *Pool) Trace(rays []scene.Ray, traces []scene.Trace) {
	if len(rays) == 0 {
		return
	}

	// Small batches skip scheduling and run on the first tracer.
	if len(rays) < len(p.tracers) {
		p.tracers[0].Trace(rays, traces, 0, uint32(len(rays)))
		return
	}

	assignment := p.scheduler.Schedule(p.tracers, uint32(len(rays)))

	var wg sync.WaitGroup
	var start uint32 = 0
	for idx, tr := range p.tracers {
		count := assignment[idx]
		if count == 0 {
			continue
		}

		wg.Add(1)
		go func(tr Tracer, start, count uint32) {
			defer wg.Done()
			tr.Trace(rays, traces, start, count)
		}(tr, start, count)

		start += count
	}
	wg.Wait()

	for _, tr := range p.tracers {
		stats := tr.Stats()
		p.logger.Debugf("%s: traced %d rays in %d ms", tr.Id(), stats.BlockSize, stats.BlockTime/1e6)
	}
}
