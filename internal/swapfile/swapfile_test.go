package swapfile

import (
	"bytes"
	"path/filepath"
	"testing"
)

func TestWriteReadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "swap.dat")
	sf, err := Open(path, 4096)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer sf.Close()

	want := bytes.Repeat([]byte{0x42}, 4096)
	if err := sf.WriteAt(want, 0); err != nil {
		t.Fatalf("WriteAt: %v", err)
	}

	got := make([]byte, 4096)
	if err := sf.ReadAt(got, 0); err != nil {
		t.Fatalf("ReadAt: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("round trip mismatch")
	}
}

func TestWriteBeyondSizeGrows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "swap.dat")
	sf, err := Open(path, 4096)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer sf.Close()

	want := bytes.Repeat([]byte{0x7}, 4096)
	if err := sf.WriteAt(want, 3*4096); err != nil {
		t.Fatalf("WriteAt beyond size: %v", err)
	}
	if sf.Size() < 4*4096 {
		t.Fatalf("expected swap file to grow, size=%d", sf.Size())
	}

	got := make([]byte, 4096)
	if err := sf.ReadAt(got, 3*4096); err != nil {
		t.Fatalf("ReadAt: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("data at grown offset mismatch")
	}
}

func TestReadOutOfRangeErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "swap.dat")
	sf, err := Open(path, 4096)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer sf.Close()

	buf := make([]byte, 4096)
	if err := sf.ReadAt(buf, 1_000_000); err == nil {
		t.Fatalf("expected out-of-range read to error")
	}
}
