// Package sync2 holds small concurrency primitives shared by the paging
// subsystem, beyond what sync provides directly.
package sync2

// Semaphore is a counting semaphore backed by a buffered channel, used to
// gate access to the global frame arena the way a real allocator would
// gate access to its free list.
type Semaphore struct {
	c chan struct{}
}

// NewSemaphore creates a semaphore with the given capacity (at least 1).
func NewSemaphore(capacity int) *Semaphore {
	if capacity <= 0 {
		capacity = 1
	}
	return &Semaphore{c: make(chan struct{}, capacity)}
}

// Acquire blocks until a slot is available.
func (s *Semaphore) Acquire() {
	s.c <- struct{}{}
}

// Release frees a slot. Releasing more times than acquired is a
// programming bug and is silently ignored rather than panicking, matching
// the teacher's Signal().
func (s *Semaphore) Release() {
	select {
	case <-s.c:
	default:
	}
}

// TryAcquire attempts to acquire without blocking.
func (s *Semaphore) TryAcquire() bool {
	select {
	case s.c <- struct{}{}:
		return true
	default:
		return false
	}
}
