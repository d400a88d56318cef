// Package metrics tracks the per-process paging counters spec.md leaves
// out of its core contract but which a complete kernel module always
// carries alongside it, grounded on the teacher's metricasPorProceso family.
package metrics

import "sync"

// Counters holds one process's paging statistics.
type Counters struct {
	mu sync.Mutex

	Evictions  uint64
	SwapIns    uint64
	SwapOuts   uint64
	TableWalks uint64
	PageFaults uint64
}

// Snapshot is a point-in-time, lock-free copy of Counters.
type Snapshot struct {
	Evictions  uint64
	SwapIns    uint64
	SwapOuts   uint64
	TableWalks uint64
	PageFaults uint64
}

// New returns a zeroed Counters.
func New() *Counters {
	return &Counters{}
}

func (c *Counters) IncEviction() {
	c.mu.Lock()
	c.Evictions++
	c.mu.Unlock()
}

func (c *Counters) IncSwapIn() {
	c.mu.Lock()
	c.SwapIns++
	c.mu.Unlock()
}

func (c *Counters) IncSwapOut() {
	c.mu.Lock()
	c.SwapOuts++
	c.mu.Unlock()
}

func (c *Counters) IncTableWalk() {
	c.mu.Lock()
	c.TableWalks++
	c.mu.Unlock()
}

func (c *Counters) IncPageFault() {
	c.mu.Lock()
	c.PageFaults++
	c.mu.Unlock()
}

// Snapshot returns a copy safe to read without holding the lock further.
func (c *Counters) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{
		Evictions:  c.Evictions,
		SwapIns:    c.SwapIns,
		SwapOuts:   c.SwapOuts,
		TableWalks: c.TableWalks,
		PageFaults: c.PageFaults,
	}
}
