// Package pdump writes a post-mortem dump of a process's resident pages
// and PageMeta table, grounded on the teacher's crearMemoryDump. Not on
// any hot path.
package pdump

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-osdev/sv39paging/internal/replacement"
)

// FrameReader supplies the bytes backing a resident frame index, so this
// package doesn't need to know about the frame allocator's internals.
type FrameReader interface {
	Bytes(frameIndex int) []byte
}

// FrameOf resolves a page index to its resident frame index, or ok=false
// if the page isn't currently resident.
type FrameOf func(pageIndex int) (frameIndex int, ok bool)

// Write dumps pid's resident pages (in page-index order) and its PageMeta
// table to dir/<pid>-<timestamp>.dmp.
func Write(dir string, pid int64, meta *replacement.Table, frames FrameReader, frameOf FrameOf) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("pdump: mkdir %s: %w", dir, err)
	}

	name := fmt.Sprintf("%d-%s.dmp", pid, time.Now().Format("20060102-150405"))
	path := filepath.Join(dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("pdump: create %s: %w", path, err)
	}
	defer f.Close()

	for i := 0; i < meta.Len(); i++ {
		m := meta.Get(i)
		if err := binary.Write(f, binary.LittleEndian, uint8(boolToByte(m.InUse))); err != nil {
			return "", fmt.Errorf("pdump: write metadata for page %d: %w", i, err)
		}
		if err := binary.Write(f, binary.LittleEndian, m.Offset); err != nil {
			return "", fmt.Errorf("pdump: write offset for page %d: %w", i, err)
		}
		if !m.InUse {
			continue
		}
		frameIdx, ok := frameOf(i)
		if !ok {
			continue
		}
		if _, err := f.Write(frames.Bytes(frameIdx)); err != nil {
			return "", fmt.Errorf("pdump: write frame for page %d: %w", i, err)
		}
	}

	return path, nil
}

func boolToByte(b bool) int {
	if b {
		return 1
	}
	return 0
}
