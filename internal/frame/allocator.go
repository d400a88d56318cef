// Package frame simulates the physical frame allocator that spec.md §6
// names as an external collaborator (alloc_frame/free_frame). It owns a
// fixed arena of page-sized frames and hands out zero-initialized frames
// on demand, synchronized so it is safe to share across processes.
package frame

import (
	"fmt"
	"sync"

	"github.com/go-osdev/sv39paging/internal/sync2"
)

// Allocator is a global, internally synchronized pool of physical frames.
// It is the frame_addr | null contract from spec.md §6, made concrete: a
// frame "address" here is just its index into the arena.
type Allocator struct {
	mu       sync.Mutex
	sem      *sync2.Semaphore
	pageSize int
	free     []bool
	arena    []byte
}

// NewAllocator builds an arena of capacity frames, each pageSize bytes.
func NewAllocator(capacity, pageSize int) *Allocator {
	free := make([]bool, capacity)
	for i := range free {
		free[i] = true
	}
	return &Allocator{
		sem:      sync2.NewSemaphore(capacity),
		pageSize: pageSize,
		free:     free,
		arena:    make([]byte, capacity*pageSize),
	}
}

// ErrOutOfFrames is returned when the arena has no free frame left. The
// allocator itself never panics on it: call sites that treat exhaustion
// as fatal (SwapIn) panic themselves, and the others roll back.
var ErrOutOfFrames = fmt.Errorf("frame: out of frames")

// Alloc reserves a free frame, zeroes it, and returns its index.
func (a *Allocator) Alloc() (int, error) {
	if !a.sem.TryAcquire() {
		return 0, ErrOutOfFrames
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	for i, isFree := range a.free {
		if isFree {
			a.free[i] = false
			a.zero(i)
			return i, nil
		}
	}
	// Semaphore and free list disagreed; should not happen if Free is
	// always paired with the semaphore release below.
	a.sem.Release()
	return 0, ErrOutOfFrames
}

// Free releases a frame back to the pool. Freeing an already-free frame
// is a programming bug and panics, matching spec.md §7's treatment of
// internal-invariant violations as fatal.
func (a *Allocator) Free(idx int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if idx < 0 || idx >= len(a.free) {
		panic(fmt.Sprintf("frame: Free out of range index %d", idx))
	}
	if a.free[idx] {
		panic(fmt.Sprintf("frame: double free of frame %d", idx))
	}
	a.free[idx] = true
	a.sem.Release()
}

// Bytes returns the byte slice backing a resident frame, for PageOut and
// SwapIn to read/write through to the swap file.
func (a *Allocator) Bytes(idx int) []byte {
	start := idx * a.pageSize
	return a.arena[start : start+a.pageSize]
}

// PageSize returns the page size each frame holds.
func (a *Allocator) PageSize() int { return a.pageSize }

// Free frames, for metrics/tests.
func (a *Allocator) FreeCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	n := 0
	for _, f := range a.free {
		if f {
			n++
		}
	}
	return n
}

func (a *Allocator) zero(idx int) {
	start := idx * a.pageSize
	clear(a.arena[start : start+a.pageSize])
}
