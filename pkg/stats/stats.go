// Package stats keeps per-query counters and a bounded history of recent
// query durations, for the CLI/REPL to report back to the user. It is
// adapted from the counters/time-series pattern a web dashboard would use
// for the same purpose, repurposed here for a synchronous command-line tool
// rather than concurrent HTTP handlers.
package stats

import (
	"sync"
	"time"
)

// Sample is one completed query's recorded duration.
type Sample struct {
	Kind     string
	Duration time.Duration
	At       time.Time
}

// Collector accumulates per-kind counters and a bounded ring of recent
// samples. The core model checker is single-threaded, but the REPL and
// batch runner share one Collector across the lifetime of a CLI invocation,
// so access is still guarded by a mutex rather than assumed uncontended.
type Collector struct {
	mu       sync.Mutex
	counters map[string]int64
	recent   []Sample
	maxKeep  int
	total    time.Duration
}

// New creates a Collector that retains up to maxKeep recent samples. A
// non-positive maxKeep defaults to 1000.
func New(maxKeep int) *Collector {
	if maxKeep <= 0 {
		maxKeep = 1000
	}
	return &Collector{
		counters: make(map[string]int64),
		maxKeep:  maxKeep,
	}
}

// Record logs one completed query of the given kind (the CLI uses "formula",
// "batch-test" and "repl-query") and its duration.
func (c *Collector) Record(kind string, d time.Duration, at time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counters[kind]++
	c.total += d
	c.recent = append(c.recent, Sample{Kind: kind, Duration: d, At: at})
	if len(c.recent) > c.maxKeep {
		c.recent = c.recent[len(c.recent)-c.maxKeep:]
	}
}

// Counts returns a snapshot of the per-kind query counts.
func (c *Collector) Counts() map[string]int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]int64, len(c.counters))
	for k, v := range c.counters {
		out[k] = v
	}
	return out
}

// Recent returns a snapshot of the retained samples, oldest first.
func (c *Collector) Recent() []Sample {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Sample, len(c.recent))
	copy(out, c.recent)
	return out
}

// Total returns the total number of recorded queries and the sum of their
// durations, for an end-of-run summary.
func (c *Collector) Total() (count int64, elapsed time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, v := range c.counters {
		count += v
	}
	return count, c.total
}
