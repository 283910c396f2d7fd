package heap

import "unsafe"

// minSplitRemainder is the smallest payload split() will give a carved-off
// fragment. The fragment also needs its own header, so split() only carves
// when the remainder is at least headerSize + minSplitRemainder; anything
// smaller is left as internal fragmentation of the original block.
const minSplitRemainder = alignment

// split carves a tail fragment off block when its remainder can host a
// header plus at least one minimal payload. block.size must already be >=
// alignedSize. It modifies block in place: if a split occurred, block is now
// sized exactly alignedSize and block.next is the new free fragment;
// otherwise block is left unchanged.
func split(block *blockHeader, alignedSize uintptr) {
	if block.size < alignedSize+headerSize+minSplitRemainder {
		return
	}

	fragAddr := unsafe.Add(unsafe.Pointer(block), headerSize+alignedSize)
	frag := (*blockHeader)(fragAddr)
	*frag = blockHeader{
		size:   block.size - alignedSize - headerSize,
		isFree: true,
		prev:   block,
		next:   block.next,
	}

	if block.next != nil {
		block.next.prev = frag
	}

	block.size = alignedSize
	block.next = frag
}

// contiguous reports whether a ends exactly where b begins.
func contiguous(a, b *blockHeader) bool {
	return a.end() == uintptr(unsafe.Pointer(b))
}

// coalesce merges block with physically-contiguous, list-adjacent free
// neighbours on both sides. It must check physical contiguity in addition
// to list adjacency: distinct OS mappings can be list-neighbours without
// being adjacent in the address space, and merging those would silently
// corrupt an unrelated mapping's header. Returns the surviving block (which
// may be block.prev if a backward merge occurred).
func coalesce(block *blockHeader) *blockHeader {
	if block.prev != nil && block.prev.isFree && contiguous(block.prev, block) {
		prev := block.prev
		prev.size += headerSize + block.size
		prev.next = block.next

		if block.next != nil {
			block.next.prev = prev
		}

		block = prev
	}

	if block.next != nil && block.next.isFree && contiguous(block, block.next) {
		next := block.next
		block.size += headerSize + next.size
		block.next = next.next

		if next.next != nil {
			next.next.prev = block
		}
	}

	return block
}

// blockFromPointer recovers the block whose user area begins at p. It does
// not validate p; callers must check isValidAddress first.
func blockFromPointer(p unsafe.Pointer) *blockHeader {
	return headerFromData(p)
}

// isValidAddress reports whether p is the live (non-free) user address of
// some block reachable from head. It walks the list rather than trusting a
// would-be header at p-headerSize, because p may be a wild pointer the
// caller never received from this allocator.
func isValidAddress(head *blockHeader, p unsafe.Pointer) bool {
	if head == nil || p == nil {
		return false
	}

	for cur := head; cur != nil; cur = cur.next {
		if !cur.isFree && cur.dataPtr() == p {
			return true
		}
	}

	return false
}
