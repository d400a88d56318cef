package vm

import (
	"fmt"

	"github.com/go-osdev/sv39paging/internal/pte"
)

// Fork implements spec.md §4.7's uvm_copy: walk the parent's address
// space up to size p.Size, allocating a new frame and copying contents
// for every valid PTE, carrying over the paged-out PTE state as-is for
// every page still on disk, then deep-copy the PageMeta table and
// resident queue into child, and (resolving spec.md Open Question 3)
// copy the parent's on-disk swap bytes into the child's own swap file
// so faulting in a forked page that is still on disk reads back the
// parent's pre-fork contents.
func (p *ProcessPagingState) Fork(child *ProcessPagingState) error {
	var mapped int64
	for a := int64(0); a < p.Size; a += p.PageSize {
		slot := p.Table.Walk(uint64(a), false)
		if slot == nil {
			continue
		}

		if slot.IsPagedOut() {
			child.Table.MapPages(uint64(a), pte.AsPagedOut(slot.Perm()))
			mapped = a + p.PageSize
			continue
		}
		if !slot.IsValid() {
			continue
		}

		frameIdx, err := child.Frames.Alloc()
		if err != nil {
			child.UvmUnmap(0, mapped/p.PageSize, true)
			return fmt.Errorf("vm: fork: %w", err)
		}
		copy(child.Frames.Bytes(frameIdx), p.Frames.Bytes(slot.Frame()))
		child.Table.MapPages(uint64(a), pte.AsResident(frameIdx, slot.Perm()))
		mapped = a + p.PageSize
	}

	child.Meta = p.Meta.Clone()
	child.Queue = p.Queue.Clone()
	child.PagesInMemory = p.PagesInMemory
	child.Size = p.Size

	if p.Swap != nil && child.Swap != nil {
		if err := p.copySwapTo(child); err != nil {
			return fmt.Errorf("vm: fork: %w", err)
		}
	}

	p.Log.Info("process forked", "pid", p.PID, "child_pid", child.PID, "size", p.Size)
	return nil
}

// copySwapTo copies every on-disk page's bytes from p's swap file to
// child's swap file at the identical offset.
func (p *ProcessPagingState) copySwapTo(child *ProcessPagingState) error {
	buf := make([]byte, p.PageSize)
	for i := 0; i < p.Meta.Len(); i++ {
		m := p.Meta.Get(i)
		if m.InUse || m.Offset < 0 {
			continue
		}
		if err := p.Swap.ReadAt(buf, m.Offset); err != nil {
			return fmt.Errorf("reading parent swap offset %d: %w", m.Offset, err)
		}
		if err := child.Swap.WriteAt(buf, m.Offset); err != nil {
			return fmt.Errorf("writing child swap offset %d: %w", m.Offset, err)
		}
	}
	return nil
}
