package vm

import (
	"fmt"

	"github.com/go-osdev/sv39paging/internal/replacement"
)

// UvmUnmap implements spec.md §4.7's unmap: remove npages of mappings
// starting at va, which must be page-aligned. A PTE that isn't present
// is silently skipped (spec.md §7), allowing sparse ranges to be torn
// down idempotently.
func (p *ProcessPagingState) UvmUnmap(va uint64, npages int64, doFree bool) {
	if va%uint64(p.PageSize) != 0 {
		panic(fmt.Sprintf("vm: uvm_unmap: va %#x not page-aligned", va))
	}

	for a := va; a < va+uint64(npages)*uint64(p.PageSize); a += uint64(p.PageSize) {
		slot := p.Table.Walk(a, false)
		if slot == nil {
			continue
		}

		pageIdx := int(a / uint64(p.PageSize))
		switch {
		case slot.IsValid():
			if doFree {
				p.Frames.Free(slot.Frame())
				if pageIdx < p.Meta.Len() {
					m := p.Meta.Get(pageIdx)
					m.InUse = false
					m.Offset = replacement.OffsetNone
					if p.PagesInMemory > 0 {
						p.PagesInMemory--
					}
					p.Queue.Remove(pageIdx)
				}
			}
		case slot.IsPagedOut():
			if pageIdx < p.Meta.Len() {
				p.Meta.Get(pageIdx).Offset = replacement.OffsetNone
			}
		}

		p.Table.Clear(a)
	}
}
