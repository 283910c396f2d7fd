package heap

import (
	"runtime"
	"testing"
	"unsafe"
)

// Scenario 8: fragmentation ratio over three same-sized, non-coalesced free
// blocks. They are wired directly as a white-box fixture (never through
// Free) precisely because the spec calls out that distinct-region free
// list-neighbours are legal and must not be merged or otherwise treated
// specially by FragmentationRate.
func TestScenarioFragmentationRatio(t *testing.T) {
	resetHeap(t)

	a := newPinnedBlock(t, 100, true)
	b := newPinnedBlock(t, 100, true)
	c := newPinnedBlock(t, 100, true)
	state.head = linkChain(a, b, c)

	got := FragmentationRate()
	want := 1.0 - 100.0/300.0

	const eps = 1e-9
	if diff := got - want; diff > eps || diff < -eps {
		t.Errorf("FragmentationRate() = %v, want %v", got, want)
	}
}

func TestFragmentationRateEmptyHeapIsZero(t *testing.T) {
	resetHeap(t)

	if got := FragmentationRate(); got != 0 {
		t.Errorf("FragmentationRate() on empty heap = %v, want 0", got)
	}
}

func TestFragmentationRateSingleFreeBlockIsZero(t *testing.T) {
	resetHeap(t)

	state.head = newPinnedBlock(t, 256, true)

	if got := FragmentationRate(); got != 0 {
		t.Errorf("FragmentationRate() with one free block = %v, want exactly 0", got)
	}
}

func TestUsageStatsCountsBothSides(t *testing.T) {
	resetHeap(t)

	a := newPinnedBlock(t, 64, false)
	b := newPinnedBlock(t, 128, true)
	c := newPinnedBlock(t, 32, false)
	state.head = linkChain(a, b, c)

	totalAlloc, totalFree, allocBlocks, freeBlocks := UsageStats()

	if totalAlloc != 96 {
		t.Errorf("totalAlloc = %d, want 96", totalAlloc)
	}

	if totalFree != 128 {
		t.Errorf("totalFree = %d, want 128", totalFree)
	}

	if allocBlocks != 2 {
		t.Errorf("allocBlocks = %d, want 2", allocBlocks)
	}

	if freeBlocks != 1 {
		t.Errorf("freeBlocks = %d, want 1", freeBlocks)
	}
}

func TestCheckConsistencyDetectsBackLinkMismatch(t *testing.T) {
	resetHeap(t)

	a := newPinnedBlock(t, 64, false)
	b := newPinnedBlock(t, 64, false)
	state.head = linkChain(a, b)

	b.prev = nil // corrupt I1/I2

	violations := CheckConsistency()
	if len(violations) != 1 {
		t.Fatalf("got %d violations, want 1", len(violations))
	}

	if violations[0].Kind != "I1/I2" {
		t.Errorf("violation kind = %q, want I1/I2", violations[0].Kind)
	}
}

func TestCheckConsistencyDetectsUncoalescedContiguousFreeNeighbours(t *testing.T) {
	resetHeap(t)

	buf := make([]byte, headerSize*2+200)
	base := (*blockHeader)(unsafe.Pointer(unsafe.SliceData(buf)))
	*base = blockHeader{size: uintptr(len(buf)) - headerSize, isFree: true}

	split(base, 100)
	base.isFree, base.next.isFree = true, true
	state.head = base

	violations := CheckConsistency()

	found := false

	for _, v := range violations {
		if v.Kind == "I3" {
			found = true
		}
	}

	if !found {
		t.Error("expected an I3 violation for two contiguous free list-neighbours")
	}

	runtime.KeepAlive(buf)
}

func TestCheckConsistencyIgnoresNonContiguousFreeNeighbours(t *testing.T) {
	resetHeap(t)

	a := newPinnedBlock(t, 64, true)
	b := newPinnedBlock(t, 64, true)
	state.head = linkChain(a, b)

	violations := CheckConsistency()
	for _, v := range violations {
		if v.Kind == "I3" {
			t.Error("non-contiguous free neighbours from separate regions must not be flagged")
		}
	}
}

func TestCheckConsistencyCleanHeapHasNoViolations(t *testing.T) {
	resetHeap(t)

	p1 := Allocate(64)
	p2 := Allocate(128)

	if p1 == nil || p2 == nil {
		t.Fatal("allocation failed")
	}

	if v := CheckConsistency(); len(v) != 0 {
		t.Errorf("clean heap reported violations: %v", v)
	}
}
