package sim

import (
	"fmt"
	"hash/fnv"
	"math/rand"
)

// Stream names one process field drawn by the workload generator. Each field has
// its own source, so widening one range never shifts the values drawn for another.
type Stream int

const (
	StreamArrival Stream = iota
	StreamCPUBurst
	StreamIOBurst
	StreamIORequest
	StreamPriority
	numStreams
)

var streamNames = [numStreams]string{"arrival", "cpu_burst", "io_burst", "io_request", "priority"}

func (s Stream) String() string {
	if s < 0 || s >= numStreams {
		return fmt.Sprintf("stream(%d)", int(s))
	}
	return streamNames[s]
}

// WorkloadRNG derives one deterministic source per Stream from a single seed.
// Arrivals use the seed as is; every other stream uses seed XOR fnv1a64(name).
//
// Not safe for concurrent use.
type WorkloadRNG struct {
	seed    int64
	streams [numStreams]*rand.Rand
}

// NewWorkloadRNG seeds every stream up front.
func NewWorkloadRNG(seed int64) *WorkloadRNG {
	r := &WorkloadRNG{seed: seed}
	for s := Stream(0); s < numStreams; s++ {
		r.streams[s] = rand.New(rand.NewSource(deriveSeed(seed, s)))
	}
	return r
}

// Seed returns the seed the streams were derived from.
func (r *WorkloadRNG) Seed() int64 {
	return r.seed
}

// Draw returns a uniform integer in [lo, hi] from stream s.
func (r *WorkloadRNG) Draw(s Stream, lo, hi int64) int64 {
	if lo > hi {
		panic(fmt.Sprintf("Draw(%s): empty range [%d, %d]", s, lo, hi))
	}
	return lo + r.streams[s].Int63n(hi-lo+1)
}

func deriveSeed(seed int64, s Stream) int64 {
	if s == StreamArrival {
		return seed
	}
	h := fnv.New64a()
	h.Write([]byte(s.String()))
	return seed ^ int64(h.Sum64())
}
