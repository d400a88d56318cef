// Package replacement holds the per-page aging/residency metadata, the
// resident-page queue, and the selectable eviction policies (spec.md
// §4.1-§4.3): NFUA, LAPA, SCFIFO, and NONE.
package replacement

// OffsetNone is the sentinel meaning "this page has no swap-file offset",
// spec.md §3's "-1 means not on disk".
const OffsetNone = -1

// ReservedPages is the count of low page indices (text/data/guard of the
// initial process image) that NFUA and LAPA victim selection never
// consider, per spec.md §4.3. SCFIFO does not apply this restriction.
const ReservedPages = 3

// PageMeta is one page's residency/aging record, spec.md §3.
type PageMeta struct {
	InUse        bool
	Offset       int64
	AgingCounter uint32
}

// Table is the fixed-size PageMeta array, one per process, indexed by
// va/PAGE_SIZE.
type Table struct {
	pages []PageMeta
}

// NewTable allocates a Table with size slots, all Unallocated
// (InUse=false, Offset=OffsetNone).
func NewTable(size int) *Table {
	t := &Table{pages: make([]PageMeta, size)}
	for i := range t.pages {
		t.pages[i].Offset = OffsetNone
	}
	return t
}

// Len returns the number of page slots.
func (t *Table) Len() int { return len(t.pages) }

// Get returns a pointer to the PageMeta for page index i, for callers
// that need to mutate it in place.
func (t *Table) Get(i int) *PageMeta {
	return &t.pages[i]
}

// InUseCount counts pages currently marked resident, for invariant
// checking (spec.md §8 invariant 1).
func (t *Table) InUseCount() int {
	n := 0
	for _, p := range t.pages {
		if p.InUse {
			n++
		}
	}
	return n
}

// NextFreeOffset implements spec.md §4.2's next_free_offset(): the first
// offset in [0, processSize) stepping by pageSize not equal to any
// PageMeta offset currently in use. It is an O(n^2) linear scan,
// performed only on eviction, matching the source's documented cost.
//
// Unlike the original getOffset (spec.md Open Question 2), this returns
// an explicit "no slot" signal instead of overloading 0.
func (t *Table) NextFreeOffset(processSize int64, pageSize int64) (int64, bool) {
	for candidate := int64(0); candidate < processSize; candidate += pageSize {
		inUse := false
		for i := range t.pages {
			if t.pages[i].Offset == candidate {
				inUse = true
				break
			}
		}
		if !inUse {
			return candidate, true
		}
	}
	return 0, false
}

// Clone deep-copies the table, for fork (spec.md §4.7).
func (t *Table) Clone() *Table {
	clone := &Table{pages: make([]PageMeta, len(t.pages))}
	copy(clone.pages, t.pages)
	return clone
}
