// Command pagingdemo loads a paging configuration, builds a single
// process's paging state, and drives the sanity scenario end to end:
// allocate 20 pages, write a distinct byte to each, read them all back,
// and report how many evictions the physical cap forced.
//
// Usage: pagingdemo <config.json>
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-osdev/sv39paging/internal/config"
	"github.com/go-osdev/sv39paging/internal/frame"
	"github.com/go-osdev/sv39paging/internal/logging"
	"github.com/go-osdev/sv39paging/internal/vm"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "usage: %s <config.json>\n", os.Args[0])
		os.Exit(1)
	}

	cfg, err := config.Load[config.Config](os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading config: %v\n", err)
		os.Exit(1)
	}

	log := logging.Init(cfg.LogLevel, "pagingdemo")
	log.Info("starting demo", "selection", cfg.Selection, "page_size", cfg.PageSize,
		"max_psyc_pages", cfg.MaxPsycPages, "max_total_pages", cfg.MaxTotalPages)

	if err := os.MkdirAll(cfg.SwapDir, 0o755); err != nil {
		log.Error("creating swap directory", "error", err)
		os.Exit(1)
	}

	frames := frame.NewAllocator(cfg.MaxPsycPages*4, cfg.PageSize)
	proc, err := vm.New(1, frames, *cfg, filepath.Join(cfg.SwapDir, "1.swap"), log)
	if err != nil {
		log.Error("creating process", "error", err)
		os.Exit(1)
	}
	defer proc.Close()

	const numPages = 20
	if _, err := proc.UvmAlloc(0, int64(numPages*cfg.PageSize), false); err != nil {
		log.Error("growing address space", "error", err)
		os.Exit(1)
	}

	for i := 0; i < numPages; i++ {
		va := uint64(i) * uint64(cfg.PageSize)
		slot := proc.Table.Walk(va, false)
		if slot.IsPagedOut() {
			if err := proc.HandlePageFault(va); err != nil {
				log.Error("fault-in before write", "page", i, "error", err)
				os.Exit(1)
			}
			slot = proc.Table.Walk(va, false)
		}
		proc.Frames.Bytes(slot.Frame())[0] = byte(i)
	}

	mismatches := 0
	for i := 0; i < numPages; i++ {
		va := uint64(i) * uint64(cfg.PageSize)
		slot := proc.Table.Walk(va, false)
		if slot.IsPagedOut() {
			if err := proc.HandlePageFault(va); err != nil {
				log.Error("fault-in before read", "page", i, "error", err)
				os.Exit(1)
			}
			slot = proc.Table.Walk(va, false)
		}
		got := proc.Frames.Bytes(slot.Frame())[0]
		if got != byte(i) {
			mismatches++
			log.Warn("page content mismatch", "page", i, "got", got, "want", i)
		}
	}

	snap := proc.Metrics.Snapshot()
	log.Info("demo complete", "mismatches", mismatches, "evictions", snap.Evictions,
		"swap_ins", snap.SwapIns, "swap_outs", snap.SwapOuts, "page_faults", snap.PageFaults)

	if path, err := proc.Dump(); err != nil {
		log.Error("writing paging-state dump", "error", err)
	} else {
		log.Info("wrote paging-state dump", "path", path)
	}

	if mismatches > 0 {
		os.Exit(1)
	}
}
