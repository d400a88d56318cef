// Package vm implements the swap-in/swap-out protocol and the
// address-space growth, fault, fork, and unmap hooks that coordinate the
// frame allocator, page table, and per-process PageMeta/ResidentQueue,
// grounded on original_source/OS-Assignment3/kernel/vm.c and the
// teacher's cmd/memoria/procesos.go batching-with-rollback idiom.
//
// Every exported method takes the process handle explicitly; there is no
// ambient myproc() lookup.
package vm

import (
	"fmt"
	"log/slog"

	"github.com/go-osdev/sv39paging/internal/config"
	"github.com/go-osdev/sv39paging/internal/frame"
	"github.com/go-osdev/sv39paging/internal/metrics"
	"github.com/go-osdev/sv39paging/internal/pagetable"
	"github.com/go-osdev/sv39paging/internal/pte"
	"github.com/go-osdev/sv39paging/internal/replacement"
	"github.com/go-osdev/sv39paging/internal/swapfile"
)

// ProcessPagingState aggregates everything spec.md §3 names as one
// process's paging state: frame allocator handle, page table, PageMeta
// table, resident queue, swap file, and the selected replacement policy.
type ProcessPagingState struct {
	PID           int64
	PageSize      int64
	MaxPsycPages  int
	MaxTotalPages int

	// Size is the process's address-space size in bytes, maintained by
	// every UvmAlloc/UvmDealloc call. It equals their returned size,
	// except after a failed UvmAlloc, which returns 0 and leaves Size at
	// the old size.
	Size          int64
	PagesInMemory int

	// DumpDir is where Dump writes post-mortem paging-state dumps, per
	// spec.md's dump_dir tunable. When it is empty, Dump returns an error.
	DumpDir string

	Frames  *frame.Allocator
	Table   *pagetable.Table
	Meta    *replacement.Table
	Queue   *replacement.Queue
	Swap    *swapfile.File
	Policy  replacement.Policy
	Metrics *metrics.Counters
	Log     *slog.Logger

	// TLBShootdown fires after every PTE mutation that must be visible
	// before the faulting thread resumes (spec.md §6's tlb_flush).
	// Defaults to a no-op; tests substitute a hook to observe ordering.
	TLBShootdown func(va uint64)
}

// New builds a process's paging state: a fresh page table, PageMeta
// table, resident queue, and (unless the policy is NONE) a backing swap
// file at swapPath.
func New(pid int64, frames *frame.Allocator, cfg config.Config, swapPath string, log *slog.Logger) (*ProcessPagingState, error) {
	policy, err := replacement.New(string(cfg.Selection))
	if err != nil {
		return nil, fmt.Errorf("vm: new process %d: %w", pid, err)
	}

	p := &ProcessPagingState{
		PID:           pid,
		PageSize:      int64(cfg.PageSize),
		MaxPsycPages:  cfg.MaxPsycPages,
		MaxTotalPages: cfg.MaxTotalPages,
		DumpDir:       cfg.DumpDir,
		Frames:        frames,
		Table:         pagetable.New(),
		Meta:          replacement.NewTable(cfg.MaxTotalPages),
		Queue:         replacement.NewQueue(cfg.MaxPsycPages),
		Policy:        policy,
		Metrics:       metrics.New(),
		Log:           log,
		TLBShootdown:  func(uint64) {},
	}

	if policy.Name() != "NONE" {
		sf, err := swapfile.Open(swapPath, int64(cfg.MaxTotalPages)*int64(cfg.PageSize))
		if err != nil {
			return nil, fmt.Errorf("vm: new process %d: %w", pid, err)
		}
		p.Swap = sf
	}

	return p, nil
}

// Close releases the process's swap file, if it has one.
func (p *ProcessPagingState) Close() error {
	if p.Swap == nil {
		return nil
	}
	return p.Swap.Close()
}

// PTE implements replacement.PTESource: it resolves the leaf PTE slot
// for a page index through this process's page table, lazily, without
// the replacement package needing to know about virtual addresses
// (Design Note 3).
func (p *ProcessPagingState) PTE(pageIndex int) *pte.PTE {
	p.Metrics.IncTableWalk()
	return p.Table.Walk(uint64(pageIndex)*uint64(p.PageSize), false)
}

func roundUp(size, pageSize int64) int64 {
	return (size + pageSize - 1) / pageSize * pageSize
}
