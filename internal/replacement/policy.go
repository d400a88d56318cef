package replacement

import (
	"fmt"
	"math/bits"

	"github.com/go-osdev/sv39paging/internal/pte"
)

// PTESource lets a Policy reach the hardware-format PTE for a page index,
// without the policy package needing to know about page tables or
// virtual addresses. Callers (internal/vm) implement this over their
// pagetable.Table.
type PTESource interface {
	PTE(pageIndex int) *pte.PTE
}

// Policy is the runtime-selected strategy spec.md §4.3 and Design Note 1
// describe in place of the original's build-time SELECTION switch.
type Policy interface {
	// Name identifies the policy, for logging.
	Name() string

	// InitAging is called whenever a page becomes resident (heap growth
	// or swap-in). It returns the aging counter to seed, and for SCFIFO
	// also enqueues the page onto q.
	InitAging(pageIndex int, q *Queue) uint32

	// AgeTick runs once per scheduler entry, before the process resumes,
	// updating aging history for every currently resident page. A no-op
	// for SCFIFO/NONE.
	AgeTick(meta *Table, pt PTESource)

	// SelectVictim picks the resident page to evict. For SCFIFO the
	// returned page index has already been removed from q; for
	// NFUA/LAPA, q is left untouched (the caller removes v from meta
	// itself when evicting).
	SelectVictim(meta *Table, q *Queue, pt PTESource) (int, error)
}

// ErrNoVictim is returned when no eligible resident page exists to evict
// (should not happen if the caller respects spec.md §3's invariants).
var ErrNoVictim = fmt.Errorf("replacement: no eligible victim")

// New constructs the Policy named by sel ("NONE", "NFUA", "LAPA",
// "SCFIFO").
func New(sel string) (Policy, error) {
	switch sel {
	case "NONE", "":
		return noneStrategy{}, nil
	case "NFUA":
		return nfua{}, nil
	case "LAPA":
		return lapa{}, nil
	case "SCFIFO":
		return scfifo{}, nil
	default:
		return nil, fmt.Errorf("replacement: unknown selection %q", sel)
	}
}

// --- NONE: paging subsystem disabled ---

type noneStrategy struct{}

func (noneStrategy) Name() string { return "NONE" }
func (noneStrategy) InitAging(int, *Queue) uint32 { return 0 }
func (noneStrategy) AgeTick(*Table, PTESource)    {}
func (noneStrategy) SelectVictim(*Table, *Queue, PTESource) (int, error) {
	return 0, fmt.Errorf("replacement: SelectVictim called under NONE policy")
}

// --- NFUA: Not Frequently Used - Aging ---

type nfua struct{}

func (nfua) Name() string { return "NFUA" }

func (nfua) InitAging(int, *Queue) uint32 { return 0 }

func (nfua) AgeTick(meta *Table, pt PTESource) {
	ageTickShiftAndCredit(meta, pt)
}

func (nfua) SelectVictim(meta *Table, _ *Queue, _ PTESource) (int, error) {
	victim := -1
	var min uint32
	found := false
	for i := ReservedPages; i < meta.Len(); i++ {
		p := meta.Get(i)
		if !p.InUse {
			continue
		}
		if !found || p.AgingCounter < min {
			min = p.AgingCounter
			victim = i
			found = true
		}
	}
	if !found {
		return 0, ErrNoVictim
	}
	return victim, nil
}

// --- LAPA: Least Accessed Page Aging ---

type lapa struct{}

func (lapa) Name() string { return "LAPA" }

func (lapa) InitAging(int, *Queue) uint32 { return 0xFFFFFFFF }

func (lapa) AgeTick(meta *Table, pt PTESource) {
	ageTickShiftAndCredit(meta, pt)
}

func (lapa) SelectVictim(meta *Table, _ *Queue, _ PTESource) (int, error) {
	victim := -1
	var minOnes int = -1
	var minAge uint32
	for i := ReservedPages; i < meta.Len(); i++ {
		p := meta.Get(i)
		if !p.InUse {
			continue
		}
		ones := bits.OnesCount32(p.AgingCounter)
		switch {
		case minOnes == -1:
			minOnes, minAge, victim = ones, p.AgingCounter, i
		case ones < minOnes:
			minOnes, minAge, victim = ones, p.AgingCounter, i
		case ones == minOnes && p.AgingCounter < minAge:
			minAge, victim = p.AgingCounter, i
		}
	}
	if victim == -1 {
		return 0, ErrNoVictim
	}
	return victim, nil
}

// ageTickShiftAndCredit implements the aging tick shared by NFUA/LAPA
// (spec.md §4.3): for every resident page, shift the aging counter right
// by one; if the PTE's accessed bit is set, OR in bit 31 and clear the
// accessed bit in the same step, so a page is never credited twice.
//
// This walks the PageMeta table and resolves PTEs lazily per in_use
// entry (Design Note 3) rather than scanning the whole VA range.
func ageTickShiftAndCredit(meta *Table, pt PTESource) {
	for i := 0; i < meta.Len(); i++ {
		p := meta.Get(i)
		if !p.InUse {
			continue
		}
		slot := pt.PTE(i)
		if slot == nil || !slot.IsValid() {
			continue
		}
		p.AgingCounter >>= 1
		if slot.IsAccessed() {
			p.AgingCounter |= 1 << 31
			*slot = slot.WithAccessedCleared()
		}
	}
}

// --- SCFIFO: Second-Chance FIFO ---

type scfifo struct{}

func (scfifo) Name() string { return "SCFIFO" }

func (scfifo) InitAging(pageIndex int, q *Queue) uint32 {
	q.Enqueue(pageIndex)
	return 0
}

func (scfifo) AgeTick(*Table, PTESource) {}

func (scfifo) SelectVictim(_ *Table, q *Queue, pt PTESource) (int, error) {
	n := q.Len()
	if n == 0 {
		return 0, ErrNoVictim
	}
	for i := 0; i < n; i++ {
		page := q.Peek()
		slot := pt.PTE(page)
		if slot != nil && slot.IsAccessed() {
			*slot = slot.WithAccessedCleared()
			q.Dequeue()
			q.Enqueue(page)
			continue
		}
		q.Dequeue()
		return page, nil
	}
	// Every page in the queue had its accessed bit set; one full
	// rotation cleared them all and gave each a second chance. Evict
	// the page now at head, matching vm.c's fallthrough behavior.
	return q.Dequeue(), nil
}
