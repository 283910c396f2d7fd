package heap

import (
	"fmt"
	"unsafe"

	herrors "github.com/orizon-lang/uheap/internal/errors"
	"github.com/orizon-lang/uheap/internal/region"
)

// backingRegions retains a reference to every backing slice ever handed back
// by the region supplier. Real mmap'd memory does not need this (it lives
// outside the Go heap and the GC never touches it), but the portable
// fallback used on platforms without an anonymous-mmap binding allocates an
// ordinary Go slice, which the garbage collector would otherwise be free to
// reclaim once the last blockHeader-shaped unsafe.Pointer into it looks
// unreachable to the collector's type-unaware view of raw pointers.
var backingRegions [][]byte

// extendHeap obtains a fresh OS mapping of exactly headerSize+alignedSize
// bytes and wraps it as a single block, linked after tail (or standing
// alone if tail is nil). On failure it returns a nil block and emits an
// out-of-memory event; no existing list state is touched.
func extendHeap(tail *blockHeader, alignedSize uintptr) *blockHeader {
	total := headerSize + alignedSize

	base, mem, err := region.MapAnon(total)
	if err != nil {
		emitEvent(herrors.OOM("extend %d bytes failed: %v", alignedSize, err))

		return nil
	}

	backingRegions = append(backingRegions, mem)

	b := (*blockHeader)(unsafe.Pointer(base))
	*b = blockHeader{
		size:   alignedSize,
		isFree: false,
		next:   nil,
		prev:   tail,
	}

	if tail != nil {
		tail.next = b
	}

	return b
}

// newRegionDebugString is a tiny helper used by the consistency auditor and
// the allocator's log events to describe a block's address range; kept here
// since it is purely a region-layer concern.
func newRegionDebugString(b *blockHeader) string {
	return fmt.Sprintf("[0x%x..0x%x)", uintptr(b.dataPtr()), b.end())
}
