package vm

import (
	"errors"
	"fmt"

	"github.com/go-osdev/sv39paging/internal/pte"
	"github.com/go-osdev/sv39paging/internal/replacement"
)

// ErrGrowthFailed is wrapped into UvmAlloc's error when growth would
// exceed MaxTotalPages or no swap offset is free; frame-allocation and
// eviction failures wrap their own cause instead. On every failure the
// caller's address space has already been rolled back to oldSz via
// UvmDealloc (spec.md §7).
var ErrGrowthFailed = errors.New("vm: growth failed")

const userPerm = pte.Read | pte.Write | pte.Exec | pte.User

// UvmAlloc implements spec.md §4.6: grow the process from oldSz to
// newSz, page by page. isSystem marks the initial/system process
// (pid ≤ 1 in the source): its pages are always permanently resident,
// bypassing the swap cap entirely. Under the NONE policy every process
// takes this unconditional path (spec.md §4.3).
func (p *ProcessPagingState) UvmAlloc(oldSz, newSz int64, isSystem bool) (int64, error) {
	if p.Policy.Name() == "NONE" {
		return p.noneUvmAlloc(oldSz, newSz)
	}
	if newSz < oldSz {
		p.Size = oldSz
		return oldSz, nil
	}

	aligned := roundUp(oldSz, p.PageSize)
	for a := aligned; a < newSz; a += p.PageSize {
		if isSystem {
			if err := p.mapFreshFrame(a); err != nil {
				p.UvmDealloc(a, oldSz)
				return 0, fmt.Errorf("vm: uvm_alloc: %w", err)
			}
			continue
		}

		pageIdx := int(a / p.PageSize)
		if pageIdx >= p.MaxTotalPages {
			p.UvmDealloc(a, oldSz)
			return 0, fmt.Errorf("vm: uvm_alloc: page %d exceeds MaxTotalPages: %w", pageIdx, ErrGrowthFailed)
		}

		if p.PagesInMemory >= p.MaxPsycPages {
			offset, ok := p.Meta.NextFreeOffset(newSz, p.PageSize)
			if !ok {
				p.UvmDealloc(a, oldSz)
				return 0, fmt.Errorf("vm: uvm_alloc: no free swap offset: %w", ErrGrowthFailed)
			}
			if err := p.PageOut(offset); err != nil {
				p.UvmDealloc(a, oldSz)
				return 0, fmt.Errorf("vm: uvm_alloc: eviction failed: %w", err)
			}
		}

		if err := p.mapFreshFrame(a); err != nil {
			p.UvmDealloc(a, oldSz)
			return 0, fmt.Errorf("vm: uvm_alloc: %w", err)
		}

		m := p.Meta.Get(pageIdx)
		m.InUse = true
		m.Offset = replacement.OffsetNone
		m.AgingCounter = p.Policy.InitAging(pageIdx, p.Queue)
		p.PagesInMemory++
	}

	p.Size = newSz
	return newSz, nil
}

// noneUvmAlloc is spec.md §4.3's NONE path: allocate and map, no swap
// bookkeeping at all, regardless of process identity.
func (p *ProcessPagingState) noneUvmAlloc(oldSz, newSz int64) (int64, error) {
	if newSz < oldSz {
		p.Size = oldSz
		return oldSz, nil
	}
	aligned := roundUp(oldSz, p.PageSize)
	for a := aligned; a < newSz; a += p.PageSize {
		if err := p.mapFreshFrame(a); err != nil {
			p.UvmDealloc(a, oldSz)
			return 0, fmt.Errorf("vm: uvm_alloc: %w", err)
		}
	}
	p.Size = newSz
	return newSz, nil
}

func (p *ProcessPagingState) mapFreshFrame(va int64) error {
	frameIdx, err := p.Frames.Alloc()
	if err != nil {
		return fmt.Errorf("frame allocation: %w", err)
	}
	p.Table.MapPages(uint64(va), pte.AsResident(frameIdx, userPerm))
	return nil
}

// UvmDealloc implements spec.md §4.6's rollback path and the general
// heap-shrink contract: unmap whatever lies between newSz and oldSz,
// freeing frames, and return newSz.
func (p *ProcessPagingState) UvmDealloc(oldSz, newSz int64) int64 {
	if newSz >= oldSz {
		p.Size = oldSz
		return oldSz
	}

	roundedNew := roundUp(newSz, p.PageSize)
	roundedOld := roundUp(oldSz, p.PageSize)
	if roundedNew < roundedOld {
		npages := (roundedOld - roundedNew) / p.PageSize
		p.UvmUnmap(uint64(roundedNew), npages, true)
	}
	p.Size = newSz
	return newSz
}
