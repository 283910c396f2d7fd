package heap

import (
	"runtime"
	"testing"
	"unsafe"
)

// newPinnedBlock builds a standalone blockHeader backed by its own pinned Go
// slice, for white-box tests that need to hand-construct a list without
// going through the region supplier. The backing slice is kept alive for the
// remainder of t via t.Cleanup. It carries alignment bytes of slack past the
// payload, so two blocks built here are never physically contiguous even
// when the Go allocator places their slices in adjacent slots.
func newPinnedBlock(t *testing.T, size uintptr, free bool) *blockHeader {
	t.Helper()

	buf := make([]byte, headerSize+size+alignment)
	b := (*blockHeader)(unsafe.Pointer(unsafe.SliceData(buf)))
	*b = blockHeader{size: size, isFree: free}

	t.Cleanup(func() { runtime.KeepAlive(buf) })

	return b
}

// linkChain wires blocks into a doubly linked list in the given order and
// returns the head.
func linkChain(blocks ...*blockHeader) *blockHeader {
	for i, b := range blocks {
		if i > 0 {
			b.prev = blocks[i-1]
		} else {
			b.prev = nil
		}

		if i < len(blocks)-1 {
			b.next = blocks[i+1]
		} else {
			b.next = nil
		}
	}

	return blocks[0]
}

// resetHeap clears all process-wide heap state so each test starts from a
// known-empty heap regardless of execution order.
func resetHeap(t *testing.T) {
	t.Helper()
	ResetForTesting()
	SetPolicy(FirstFit)
	t.Cleanup(func() {
		ResetForTesting()
		SetPolicy(FirstFit)
	})
}

// primeRegion allocates and immediately frees a single block of payload
// bytes, guaranteeing one real region exists whose free space can host
// subsequent smaller allocations as physically contiguous splits of that
// same mapping. Tests use this to get deterministic contiguity without
// depending on the layout the OS happens to hand back across separate mmap
// calls.
func primeRegion(t *testing.T, payload uintptr) {
	t.Helper()

	p := Allocate(payload)
	if p == nil {
		t.Fatalf("primeRegion: Allocate(%d) failed", payload)
	}

	Free(p)
}
