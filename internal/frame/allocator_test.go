package frame

import "testing"

func TestAllocFreeRoundTrip(t *testing.T) {
	a := NewAllocator(2, 16)

	f0, err := a.Alloc()
	if err != nil {
		t.Fatalf("Alloc: %v", err)
	}
	f1, err := a.Alloc()
	if err != nil {
		t.Fatalf("Alloc: %v", err)
	}
	if f0 == f1 {
		t.Fatalf("expected distinct frames, got %d twice", f0)
	}

	if _, err := a.Alloc(); err != ErrOutOfFrames {
		t.Fatalf("expected ErrOutOfFrames, got %v", err)
	}

	a.Free(f0)
	f2, err := a.Alloc()
	if err != nil {
		t.Fatalf("Alloc after Free: %v", err)
	}
	if f2 != f0 {
		t.Fatalf("expected reused frame %d, got %d", f0, f2)
	}
}

func TestAllocZeroesFrame(t *testing.T) {
	a := NewAllocator(1, 8)
	f, err := a.Alloc()
	if err != nil {
		t.Fatalf("Alloc: %v", err)
	}
	buf := a.Bytes(f)
	for i := range buf {
		buf[i] = 0xFF
	}
	a.Free(f)
	f2, err := a.Alloc()
	if err != nil {
		t.Fatalf("Alloc: %v", err)
	}
	for i, b := range a.Bytes(f2) {
		if b != 0 {
			t.Fatalf("byte %d not zeroed: %x", i, b)
		}
	}
}

func TestDoubleFreePanics(t *testing.T) {
	a := NewAllocator(1, 8)
	f, _ := a.Alloc()
	a.Free(f)
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on double free")
		}
	}()
	a.Free(f)
}
