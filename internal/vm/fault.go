package vm

import "fmt"

// HandlePageFault implements spec.md §6's handle_page_fault: the trap
// dispatcher calls this once it has determined the fault is on a
// paged-out page. Anything else reaching here is a dispatcher bug, not
// this subsystem's concern, so it is reported as an ordinary error
// rather than panicking.
func (p *ProcessPagingState) HandlePageFault(faultVA uint64) error {
	p.Metrics.IncPageFault()

	slot := p.Table.Walk(faultVA, false)
	if slot == nil || !slot.IsPagedOut() {
		return fmt.Errorf("vm: page fault at %#x is not a paging fault", faultVA)
	}
	return p.SwapIn(faultVA)
}

// AgeTick implements spec.md §6's age_tick: the scheduler calls this
// immediately before resuming the process, once per entry. It is a
// no-op under SCFIFO/NONE.
func (p *ProcessPagingState) AgeTick() {
	p.Policy.AgeTick(p.Meta, p)
}
