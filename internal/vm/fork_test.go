package vm

import (
	"testing"

	"github.com/go-osdev/sv39paging/internal/config"
	"github.com/go-osdev/sv39paging/internal/frame"
)

// Frame exhaustion during Fork (spec.md: "fork frame-allocation failure
// — newly mapped child pages are unmapped"): the parent has one
// paged-out page (page 0, evicted by the 4-page cap) ahead of four
// resident pages (1-4) in address order. The child's frame pool has room
// for only one resident copy, so the second resident page (page 2) fails
// to allocate
// and Fork must roll back both the paged-out PTE it already installed
// and the one resident PTE/frame, leaving child.Table exactly as empty
// as before the call.
func TestForkFrameExhaustionRollsBackPagedOutAndResidentPages(t *testing.T) {
	parentFrames := frame.NewAllocator(64, 4096)
	parent := newTestProcess(t, parentFrames, config.SCFIFO, 4, 8)

	if _, err := parent.UvmAlloc(0, 5*4096, false); err != nil {
		t.Fatalf("UvmAlloc: %v", err)
	}
	if parent.Meta.Get(0).InUse {
		t.Fatalf("page 0 should have been evicted by the 4-page cap")
	}
	for i := 1; i <= 4; i++ {
		if !parent.Meta.Get(i).InUse {
			t.Fatalf("page %d should still be resident", i)
		}
	}

	childFrames := frame.NewAllocator(1, 4096)
	child := newTestProcess(t, childFrames, config.SCFIFO, 4, 8)

	err := parent.Fork(child)
	if err == nil {
		t.Fatalf("expected Fork to fail when the child's frame pool is exhausted")
	}

	if slot := child.Table.Walk(0, false); slot != nil && (slot.IsValid() || slot.IsPagedOut()) {
		t.Fatalf("rollback should have cleared the paged-out PTE for page 0, got %v", *slot)
	}
	if slot := child.Table.Walk(4096, false); slot != nil && (slot.IsValid() || slot.IsPagedOut()) {
		t.Fatalf("rollback should have cleared the resident PTE for page 1, got %v", *slot)
	}
	if got := childFrames.FreeCount(); got != 1 {
		t.Fatalf("rollback should have returned the one frame it allocated, FreeCount=%d, want 1", got)
	}
	if child.Size != 0 {
		t.Fatalf("child.Size should be untouched on rollback, got %d", child.Size)
	}
}
