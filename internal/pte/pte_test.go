package pte

import "testing"

func TestPackAndFrame(t *testing.T) {
	p := Pack(7, Valid|Read|Write|User)
	if p.Frame() != 7 {
		t.Fatalf("Frame() = %d, want 7", p.Frame())
	}
	if !p.IsValid() {
		t.Fatalf("expected valid bit set")
	}
	if p.IsPagedOut() {
		t.Fatalf("expected paged-out bit clear")
	}
}

func TestAccessedRoundTrip(t *testing.T) {
	p := Pack(3, Valid|Read|Accessed)
	if !p.IsAccessed() {
		t.Fatalf("expected accessed bit set")
	}
	cleared := p.WithAccessedCleared()
	if cleared.IsAccessed() {
		t.Fatalf("accessed bit should be cleared")
	}
	if cleared.Frame() != p.Frame() {
		t.Fatalf("clearing accessed must not disturb frame field")
	}
}

func TestResidentAndPagedOutTransition(t *testing.T) {
	perm := Read | Write | User
	resident := AsResident(5, perm)
	if !resident.IsValid() || resident.IsPagedOut() {
		t.Fatalf("resident PTE should be valid, not paged-out: %x", resident)
	}
	if resident.Perm() != perm {
		t.Fatalf("Perm() = %x, want %x", resident.Perm(), perm)
	}

	onDisk := AsPagedOut(resident.Perm())
	if onDisk.IsValid() {
		t.Fatalf("paged-out PTE must not be valid")
	}
	if !onDisk.IsPagedOut() {
		t.Fatalf("expected paged-out bit set")
	}
	if onDisk.Perm() != perm {
		t.Fatalf("permissions must survive eviction: got %x want %x", onDisk.Perm(), perm)
	}
}

func TestUnallocatedIsZero(t *testing.T) {
	var p PTE
	if p.IsValid() || p.IsPagedOut() {
		t.Fatalf("zero PTE must be neither valid nor paged-out")
	}
}
