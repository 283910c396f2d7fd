// Package heap implements a user-space heap layered directly on anonymous
// page-grained OS mappings, in the style of a C allocator's malloc/free/
// calloc/realloc quartet, with a runtime-selectable placement policy.
package heap

import "unsafe"

// alignment is the byte boundary every block payload size is rounded up to.
const alignment = 8

// blockHeader is prepended to every region/block. The user payload begins
// immediately after it. There is no flexible trailing array and no redundant
// data pointer field: the user address is always computed as
// headerAddr + headerSize.
type blockHeader struct {
	next   *blockHeader
	prev   *blockHeader
	size   uintptr // payload size in bytes, always a multiple of alignment
	isFree bool
}

// headerSize is sizeof(blockHeader) rounded up to a multiple of alignment.
var headerSize = alignUp(unsafe.Sizeof(blockHeader{}), alignment)

// alignUp implements ALIGN(n) = (n + alignment - 1) & ^(alignment - 1).
func alignUp(n, align uintptr) uintptr {
	return (n + align - 1) &^ (align - 1)
}

// maxAlignableSize is the largest n for which alignUp(n, alignment) does not
// overflow uintptr. Requests above it are rejected before reaching alignUp:
// no region supplier could satisfy them, and the addition inside ALIGN would
// otherwise wrap around to a small value.
const maxAlignableSize = ^uintptr(0) - (alignment - 1)

// dataPtr returns the user-visible address for a block: base + headerSize.
func (b *blockHeader) dataPtr() unsafe.Pointer {
	return unsafe.Add(unsafe.Pointer(b), headerSize)
}

// end returns the address one past the last payload byte of the block.
func (b *blockHeader) end() uintptr {
	return uintptr(b.dataPtr()) + b.size
}

// headerFromData recovers the block whose payload begins at p.
func headerFromData(p unsafe.Pointer) *blockHeader {
	return (*blockHeader)(unsafe.Add(p, -int(headerSize)))
}
