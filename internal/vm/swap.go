package vm

import (
	"fmt"

	"github.com/go-osdev/sv39paging/internal/pte"
	"github.com/go-osdev/sv39paging/internal/replacement"
)

// PageOut implements spec.md §4.4: pick a victim via the process's
// policy, write it to the swap file at offset, free its frame, and flip
// its PTE to paged-out. A write failure is fatal (the process cannot
// safely continue with a half-evicted page), matching vm.c's
// panic("write to file failed").
func (p *ProcessPagingState) PageOut(offset int64) error {
	victim, err := p.Policy.SelectVictim(p.Meta, p.Queue, p)
	if err != nil {
		return fmt.Errorf("vm: page_out: %w", err)
	}

	slot := p.Table.Walk(uint64(victim)*uint64(p.PageSize), false)
	if slot == nil || !slot.IsValid() {
		panic(fmt.Sprintf("vm: page_out: victim page %d has no valid PTE", victim))
	}
	frameIdx := slot.Frame()

	if err := p.Swap.WriteAt(p.Frames.Bytes(frameIdx), offset); err != nil {
		panic(fmt.Sprintf("vm: page_out: swap write failed: %v", err))
	}

	p.Frames.Free(frameIdx)
	*slot = pte.AsPagedOut(slot.Perm())
	p.TLBShootdown(uint64(victim) * uint64(p.PageSize))

	m := p.Meta.Get(victim)
	m.InUse = false
	m.Offset = offset
	p.PagesInMemory--

	p.Metrics.IncEviction()
	p.Metrics.IncSwapOut()
	p.Log.Info("page evicted", "pid", p.PID, "page", victim, "offset", offset, "policy", p.Policy.Name())
	return nil
}

// SwapIn implements spec.md §4.5: fault the page at faultVA back into a
// fresh physical frame, evicting another resident page first if the
// process is already at its physical cap. Frame-allocation failure here
// is fatal, matching vm.c's panic("Fail in kalloc while handling page
// fault").
func (p *ProcessPagingState) SwapIn(faultVA uint64) error {
	i := int(faultVA / uint64(p.PageSize))
	m := p.Meta.Get(i)
	if m.Offset < 0 {
		panic(fmt.Sprintf("vm: swap_in: page %d has no swap offset", i))
	}
	offset := m.Offset

	frameIdx, err := p.Frames.Alloc()
	if err != nil {
		panic(fmt.Sprintf("vm: swap_in: frame allocation failed: %v", err))
	}

	if err := p.Swap.ReadAt(p.Frames.Bytes(frameIdx), offset); err != nil {
		panic(fmt.Sprintf("vm: swap_in: swap read failed: %v", err))
	}

	slot := p.Table.Walk(faultVA, false)
	perm := slot.Perm()

	if p.PagesInMemory >= p.MaxPsycPages {
		if err := p.PageOut(offset); err != nil {
			return fmt.Errorf("vm: swap_in: evicting to make room: %w", err)
		}
	}
	*slot = pte.AsResident(frameIdx, perm)

	m.AgingCounter = p.Policy.InitAging(i, p.Queue)
	m.Offset = replacement.OffsetNone
	m.InUse = true
	p.PagesInMemory++

	p.Metrics.IncSwapIn()
	p.TLBShootdown(faultVA)
	p.Log.Info("page swapped in", "pid", p.PID, "page", i, "frame", frameIdx, "policy", p.Policy.Name())
	return nil
}
