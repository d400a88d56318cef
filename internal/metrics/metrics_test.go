package metrics

import "testing"

func TestCountersIncrementIndependently(t *testing.T) {
	c := New()
	c.IncEviction()
	c.IncEviction()
	c.IncSwapIn()
	c.IncSwapOut()
	c.IncTableWalk()
	c.IncPageFault()

	snap := c.Snapshot()
	if snap.Evictions != 2 {
		t.Fatalf("Evictions = %d, want 2", snap.Evictions)
	}
	if snap.SwapIns != 1 || snap.SwapOuts != 1 || snap.TableWalks != 1 || snap.PageFaults != 1 {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
}
