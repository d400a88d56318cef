//go:build unix

// Package swapfile implements the per-process backing store spec.md §6
// names swap_read/swap_write against. The file is memory-mapped with
// golang.org/x/sys/unix instead of ReadAt/WriteAt, grounded on the
// bptree2/bmmap mmap wrapper in the example pack.
package swapfile

import (
	"fmt"
	"os"
	"time"

	"golang.org/x/sys/unix"
)

// File is a process's swap file, backed by an mmap'd region.
type File struct {
	f     *os.File
	data  []byte
	size  int64
	delay time.Duration
}

// Open creates or opens path, sized to at least size bytes, and maps it.
func Open(path string, size int64) (*File, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("swapfile: open %s: %w", path, err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("swapfile: stat %s: %w", path, err)
	}
	if info.Size() < size {
		if err := f.Truncate(size); err != nil {
			f.Close()
			return nil, fmt.Errorf("swapfile: truncate %s: %w", path, err)
		}
	} else {
		size = info.Size()
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("swapfile: mmap %s: %w", path, err)
	}

	return &File{f: f, data: data, size: size}, nil
}

// SetDelay sets an artificial latency applied before every Read/Write, to
// simulate disk-backed swap I/O the way spec.md §5 describes ("swap file
// I/O...may sleep"). Grounded on the teacher's AplicarRetardo.
func (sf *File) SetDelay(d time.Duration) {
	sf.delay = d
}

// WriteAt writes buf at offset. Failure here is always fatal to the
// caller per spec.md §4.4 step 3 ("Failure to write is fatal"); this
// function still returns an ordinary error and lets the caller decide
// whether to panic, keeping the package itself free of policy.
func (sf *File) WriteAt(buf []byte, offset int64) error {
	sf.sleep()
	if offset < 0 || offset+int64(len(buf)) > sf.size {
		if err := sf.grow(offset + int64(len(buf))); err != nil {
			return err
		}
	}
	copy(sf.data[offset:offset+int64(len(buf))], buf)
	return nil
}

// ReadAt reads len(buf) bytes from offset into buf.
func (sf *File) ReadAt(buf []byte, offset int64) error {
	sf.sleep()
	if offset < 0 || offset+int64(len(buf)) > sf.size {
		return fmt.Errorf("swapfile: read at %d len %d out of range (size %d)", offset, len(buf), sf.size)
	}
	copy(buf, sf.data[offset:offset+int64(len(buf))])
	return nil
}

// Sync flushes the mapping to disk.
func (sf *File) Sync() error {
	return unix.Msync(sf.data, unix.MS_SYNC)
}

// Close unmaps and closes the underlying file.
func (sf *File) Close() error {
	if err := unix.Munmap(sf.data); err != nil {
		return fmt.Errorf("swapfile: munmap: %w", err)
	}
	return sf.f.Close()
}

// Size reports the current mapped size in bytes.
func (sf *File) Size() int64 { return sf.size }

func (sf *File) sleep() {
	if sf.delay > 0 {
		time.Sleep(sf.delay)
	}
}

func (sf *File) grow(minSize int64) error {
	newSize := sf.size
	if newSize == 0 {
		newSize = 4096
	}
	for newSize < minSize {
		newSize *= 2
	}

	if err := unix.Munmap(sf.data); err != nil {
		return fmt.Errorf("swapfile: munmap before grow: %w", err)
	}
	if err := sf.f.Truncate(newSize); err != nil {
		return fmt.Errorf("swapfile: truncate: %w", err)
	}
	data, err := unix.Mmap(int(sf.f.Fd()), 0, int(newSize), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return fmt.Errorf("swapfile: remap after grow: %w", err)
	}
	sf.data = data
	sf.size = newSize
	return nil
}
