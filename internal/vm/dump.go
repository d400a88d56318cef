package vm

import (
	"fmt"

	"github.com/go-osdev/sv39paging/internal/pdump"
)

// Dump writes a post-mortem snapshot of this process's resident pages
// and PageMeta table to DumpDir, the way the teacher's crearMemoryDump
// is invoked on process teardown.
func (p *ProcessPagingState) Dump() (string, error) {
	frameOf := func(pageIndex int) (int, bool) {
		slot := p.Table.Walk(uint64(pageIndex)*uint64(p.PageSize), false)
		if slot == nil || !slot.IsValid() {
			return 0, false
		}
		return slot.Frame(), true
	}

	path, err := pdump.Write(p.DumpDir, p.PID, p.Meta, p.Frames, frameOf)
	if err != nil {
		return "", fmt.Errorf("vm: dump: %w", err)
	}
	return path, nil
}
