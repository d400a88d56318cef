package sync2

import "testing"

func TestTryAcquireRespectsCapacity(t *testing.T) {
	s := NewSemaphore(2)
	if !s.TryAcquire() {
		t.Fatalf("first TryAcquire should succeed")
	}
	if !s.TryAcquire() {
		t.Fatalf("second TryAcquire should succeed")
	}
	if s.TryAcquire() {
		t.Fatalf("third TryAcquire should fail, capacity is 2")
	}
}

func TestReleaseFreesASlot(t *testing.T) {
	s := NewSemaphore(1)
	s.Acquire()
	if s.TryAcquire() {
		t.Fatalf("semaphore should be full after Acquire")
	}
	s.Release()
	if !s.TryAcquire() {
		t.Fatalf("TryAcquire should succeed after Release")
	}
}

func TestReleaseWithoutAcquireIsNoop(t *testing.T) {
	s := NewSemaphore(1)
	s.Release()
	if !s.TryAcquire() {
		t.Fatalf("spurious Release should not have consumed capacity")
	}
}

func TestNewSemaphoreClampsNonPositiveCapacity(t *testing.T) {
	s := NewSemaphore(0)
	if !s.TryAcquire() {
		t.Fatalf("capacity 0 should be clamped to at least 1")
	}
	if s.TryAcquire() {
		t.Fatalf("capacity should be exactly 1")
	}
}
