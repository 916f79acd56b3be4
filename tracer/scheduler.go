package tracer

import "math"

// The BlockScheduler interface is implemented by all block scheduling
// algorithms. Schedulers split a batch of rays into blocks of variable
// size and assign them to a pool of tracers using feedback collected from
// previous batches.
type BlockScheduler interface {
	// Split batchSize rays among the given tracers. Returns the block
	// size assignment for each tracer in the input list.
	Schedule(tracers []Tracer, batchSize uint32) []uint32
}

// The perfect scheduler assumes that the volume of tracing work between
// two subsequent batches is approximately the same.
type perfectScheduler struct {
	blockAssignment []uint32
}

// Create a new perfect scheduler instance.
func NewPerfectScheduler() BlockScheduler {
	return &perfectScheduler{}
}

// Split a ray batch into blocks of variable size and assign to the pool
// of tracers using feedback collected from previous batches.
//
// This function returns the block size assignment for each tracer in the
// input list. When previous batch information is available the scheduler
// estimates the workload share for tracer w and batch i+1 as:
// w_i, b_i+1 = (blockSize,w_i / time,w_i) / Σ(blockSize_i-1 / time,i-1)
func (sch *perfectScheduler) Schedule(tracers []Tracer, batchSize uint32) []uint32 {
	var total float64 = 0.0
	var scaler float64

	// If this is the first time we try to schedule or the number of
	// tracers has changed we need to reset the block assignments
	if len(sch.blockAssignment) != len(tracers) {
		sch.blockAssignment = make([]uint32, len(tracers))

		// Get speed estimate for each tracer and distribute rays accordingly
		for _, tr := range tracers {
			total += float64(tr.SpeedEstimate())
		}
		scaler := float64(batchSize) / total

		var scheduledRays uint32 = 0
		for idx, tr := range tracers {
			sch.blockAssignment[idx] = uint32(math.Max(1.0, math.Floor(float64(tr.SpeedEstimate())*scaler)))
			scheduledRays += sch.blockAssignment[idx]
		}
		sch.blockAssignment[0] += batchSize - scheduledRays

		return sch.blockAssignment
	}

	// Use last batch statistics
	var stats *Stats
	for _, tr := range tracers {
		stats = tr.Stats()
		total += float64(stats.BlockSize) / float64(stats.BlockTime)
	}

	scaler = float64(batchSize) / total
	var scheduledRays uint32 = 0
	for idx, tr := range tracers {
		stats = tr.Stats()
		sch.blockAssignment[idx] = uint32(math.Max(1.0, math.Floor(float64(stats.BlockSize)/float64(stats.BlockTime)*scaler)))
		scheduledRays += sch.blockAssignment[idx]
	}

	// In case blocks don't add up to the batch size append the missing
	// rays to the first tracer
	sch.blockAssignment[0] += batchSize - scheduledRays

	return sch.blockAssignment
}
