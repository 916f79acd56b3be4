package tracer

import (
	"fmt"
	"time"

	"github.com/achilleasa/goray/scene"
)

// Tracer statistics.
type Stats struct {
	// The number of rays in the last traced block.
	BlockSize uint32

	// The time for tracing the last block (in nanoseconds).
	BlockTime int64
}

// The Tracer interface is implemented by all tracing backends. A tracer
// answers nearest-hit queries for a contiguous block of rays out of a
// larger batch.
type Tracer interface {
	// Get tracer id.
	Id() string

	// Get the tracer's computation speed estimate compared to a
	// baseline implementation.
	SpeedEstimate() float32

	// Trace rays[start : start+count] writing the results into the
	// matching positions of the traces slice.
	Trace(rays []scene.Ray, traces []scene.Trace, start, count uint32)

	// Retrieve last block statistics.
	Stats() *Stats
}

// An in-process tracer that walks a shared read-only BVH. Queries never
// mutate the tree so any number of cpu tracers can share one instance.
type cpuTracer struct {
	id    string
	accel *scene.BVH
	stats Stats
}

// Create a new cpu tracer querying the given tree.
func NewCpuTracer(index int, accel *scene.BVH) Tracer {
	return &cpuTracer{
		id:    fmt.Sprintf("cpu-%d", index),
		accel: accel,
	}
}

// Get tracer id.
func (t *cpuTracer) Id() string {
	return t.id
}

// All cpu tracers run the same code on symmetric cores.
func (t *cpuTracer) SpeedEstimate() float32 {
	return 1.0
}

// Trace a block of rays. Each ray is copied before the query since the
// tree traversal narrows the ray distance bounds in place.
func (t *cpuTracer) Trace(rays []scene.Ray, traces []scene.Trace, start, count uint32) {
	begin := time.Now()
	for i := start; i < start+count; i++ {
		ray := rays[i]
		traces[i] = t.accel.Hit(&ray)
	}

	// Clamp to 1ns so the scheduler feedback ratio stays finite on
	// coarse clocks
	elapsed := time.Since(begin).Nanoseconds()
	if elapsed == 0 {
		elapsed = 1
	}
	t.stats = Stats{
		BlockSize: count,
		BlockTime: elapsed,
	}
}

// Retrieve last block statistics.
func (t *cpuTracer) Stats() *Stats {
	return &t.stats
}
