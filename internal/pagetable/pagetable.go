// Package pagetable simulates the Sv39-style three-level page-table
// walker spec.md §6 names as an external collaborator (walk/mappages).
// Only the contract is implemented: level-2/level-1/level-0 descent,
// 512 entries per level, allocate-on-demand intermediate tables, panic on
// remap of an already-valid leaf.
package pagetable

import (
	"fmt"

	"github.com/go-osdev/sv39paging/internal/pte"
)

const (
	entriesPerLevel = 512
	levels          = 3
	pageShift       = 12
)

type entry struct {
	leaf  pte.PTE
	child *level
}

type level struct {
	entries [entriesPerLevel]entry
}

// Table is one process's page table.
type Table struct {
	root *level
}

// New returns an empty page table.
func New() *Table {
	return &Table{root: &level{}}
}

// index returns the 9-bit index into the table at the given level
// (level 2 is the root, level 0 is the leaf) for virtual page number vpn.
func index(vpn uint64, lvl int) int {
	return int((vpn >> uint(9*lvl)) % entriesPerLevel)
}

// Walk returns a pointer to the leaf PTE slot for va, creating the
// level-1 and level-0 tables below the root along the way if alloc is true.
// Returns nil if the slot doesn't exist and alloc is false, matching
// vm.c's walk(pagetable, va, alloc).
func (t *Table) Walk(va uint64, alloc bool) *pte.PTE {
	vpn := va >> pageShift
	cur := t.root
	for lvl := levels - 1; lvl > 0; lvl-- {
		idx := index(vpn, lvl)
		e := &cur.entries[idx]
		if e.child == nil {
			if !alloc {
				return nil
			}
			e.child = &level{}
		}
		cur = e.child
	}
	return &cur.entries[index(vpn, 0)].leaf
}

// MapPages installs a single PTE at va. It panics on remap of an
// already-valid leaf, matching vm.c's mappages/panic("remap").
func (t *Table) MapPages(va uint64, entryPTE pte.PTE) {
	slot := t.Walk(va, true)
	if slot.IsValid() {
		panic(fmt.Sprintf("pagetable: remap at va=%#x", va))
	}
	*slot = entryPTE
}

// Clear zeroes the PTE at va (if the slot exists), matching vm.c's
// uvmunmap's final "*pte = 0". Missing slots are silently ignored.
func (t *Table) Clear(va uint64) {
	if slot := t.Walk(va, false); slot != nil {
		*slot = 0
	}
}
