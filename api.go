package heap

import (
	"sync/atomic"
	"unsafe"

	herrors "github.com/orizon-lang/uheap/internal/errors"
)

// state is the process-wide heap state described in spec.md §3. It is not
// protected by an internal lock; a multi-threaded embedder must serialize
// all public API entries with an external mutex (spec.md §5).
var state struct {
	head   *blockHeader
	policy Policy
}

// inAllocator is the recursion guard. spec.md §9 resolves the "per thread"
// requirement down to a plain boolean given a single-threaded core and an
// externally-serialized multi-threaded one; atomic.Bool is used so the flag
// itself is race-detector-clean even though the contract never promises two
// goroutines run it concurrently without a wrapping lock.
var inAllocator atomic.Bool

// fallbackAllocator is invoked by Allocate when the recursion guard is
// already set. It is injected rather than hard-coded (spec.md §9): this
// module runs hosted in a Go process with no dynamic-symbol resolver to
// reach a "next level" allocator, so the default stub simply fails
// re-entrant requests. Embedders with a real fallback (e.g. a wrapped
// system allocator) can install one with SetFallbackAllocator.
var fallbackAllocator = func(size uintptr) unsafe.Pointer { return nil }

// SetFallbackAllocator installs the allocator used for calls that arrive
// while the recursion guard is already held.
func SetFallbackAllocator(f func(size uintptr) unsafe.Pointer) {
	if f == nil {
		f = func(uintptr) unsafe.Pointer { return nil }
	}

	fallbackAllocator = f
}

// enterAllocator sets the recursion guard and returns whether it was
// already held on entry. Callers must always pair it with leaveAllocator
// via defer, so the guard clears on every exit path including panics.
func enterAllocator() (reentrant bool) {
	return inAllocator.Swap(true)
}

func leaveAllocator(wasReentrant bool) {
	if !wasReentrant {
		inAllocator.Store(false)
	}
}

// Allocate reserves size bytes and returns the address of the payload, or
// nil on failure (zero size, or the region supplier refusing).
func Allocate(size uintptr) unsafe.Pointer {
	if size == 0 {
		return nil
	}

	reentrant := enterAllocator()
	defer leaveAllocator(reentrant)

	if reentrant {
		return fallbackAllocator(size)
	}

	return allocateLocked(size)
}

// allocateLocked performs the actual placement/split/extend sequence. It
// assumes the recursion guard is already held by the caller.
func allocateLocked(size uintptr) unsafe.Pointer {
	if size > maxAlignableSize {
		return nil
	}

	aligned := alignUp(size, alignment)

	if state.head == nil {
		b := extendHeap(nil, aligned)
		if b == nil {
			return nil
		}

		state.head = b
		emitf("malloc %d bytes at %s (new heap)", aligned, newRegionDebugString(b))

		return b.dataPtr()
	}

	chosen, tail := findFreeBlock(state.head, state.policy, aligned)
	if chosen != nil {
		split(chosen, aligned)
		chosen.isFree = false
		emitf("malloc %d bytes at %s (reused)", aligned, newRegionDebugString(chosen))

		return chosen.dataPtr()
	}

	b := extendHeap(tail, aligned)
	if b == nil {
		return nil
	}

	emitf("malloc %d bytes at %s (extended)", aligned, newRegionDebugString(b))

	return b.dataPtr()
}

// Free releases the block whose payload begins at p. A nil pointer or one
// not recognised by isValidAddress is a no-op (after, for the latter case,
// emitting an invalid-pointer event); the core never aborts.
func Free(p unsafe.Pointer) {
	if p == nil {
		return
	}

	reentrant := enterAllocator()
	defer leaveAllocator(reentrant)

	if reentrant {
		return
	}

	freeLocked(p)
}

func freeLocked(p unsafe.Pointer) {
	if !isValidAddress(state.head, p) {
		emitEvent(herrors.InvalidPointer("invalid free at %p", p))

		return
	}

	b := blockFromPointer(p)
	b.isFree = true
	emitf("free %d bytes at %s", b.size, newRegionDebugString(b))
	coalesce(b)
}

// Calloc allocates space for count objects of size bytes each, zeroed. It
// returns nil (with no side effects) on zero total size or on overflow of
// count*size.
func Calloc(count, size uintptr) unsafe.Pointer {
	if count == 0 || size == 0 {
		return nil
	}

	total := count * size
	if total/count != size {
		return nil
	}

	p := Allocate(total)
	if p == nil {
		return nil
	}

	b := blockFromPointer(p)
	clearBytes(p, b.size)
	emitf("calloc %dx%d bytes at %p", count, size, p)

	return p
}

// clearBytes zeroes the n bytes starting at p.
func clearBytes(p unsafe.Pointer, n uintptr) {
	buf := unsafe.Slice((*byte)(p), n)
	for i := range buf {
		buf[i] = 0
	}
}

// copyBytes copies n bytes from src to dst. The two ranges must not overlap
// (reallocate's copy step always moves to a fresh region).
func copyBytes(dst, src unsafe.Pointer, n uintptr) {
	dstBuf := unsafe.Slice((*byte)(dst), n)
	srcBuf := unsafe.Slice((*byte)(src), n)
	copy(dstBuf, srcBuf)
}

// Realloc resizes the allocation at p to size bytes, preserving its
// contents up to the smaller of the old and new sizes. p==nil behaves as
// Allocate(size); size==0 behaves as Free(p) followed by returning nil.
func Realloc(p unsafe.Pointer, size uintptr) unsafe.Pointer {
	if p == nil {
		return Allocate(size)
	}

	if size == 0 {
		Free(p)

		return nil
	}

	reentrant := enterAllocator()
	defer leaveAllocator(reentrant)

	if reentrant {
		// The guard was already held, so this is a re-entrant call: the
		// block list is left untouched and the request is served by the
		// fallback allocator, copying the old contents when p is a live
		// block of this heap.
		return reallocViaFallback(p, size)
	}

	return reallocLocked(p, size)
}

func reallocViaFallback(p unsafe.Pointer, size uintptr) unsafe.Pointer {
	newPtr := fallbackAllocator(size)
	if newPtr == nil {
		return nil
	}

	if isValidAddress(state.head, p) {
		old := blockFromPointer(p)
		n := old.size
		if size < n {
			n = size
		}

		copyBytes(newPtr, p, n)
	}

	return newPtr
}

func reallocLocked(p unsafe.Pointer, size uintptr) unsafe.Pointer {
	if !isValidAddress(state.head, p) {
		emitEvent(herrors.InvalidPointer("invalid realloc at %p", p))

		return nil
	}

	if size > maxAlignableSize {
		emitEvent(herrors.InvalidArgument("realloc size %d overflows alignment", size))

		return nil
	}

	block := blockFromPointer(p)
	aligned := alignUp(size, alignment)

	if block.size >= aligned {
		split(block, aligned)
		emitf("realloc shrink to %d bytes at %p", aligned, p)

		return p
	}

	if block.next != nil && block.next.isFree && contiguous(block, block.next) &&
		block.size+headerSize+block.next.size >= aligned {
		next := block.next
		block.size += headerSize + next.size
		block.next = next.next

		if next.next != nil {
			next.next.prev = block
		}

		split(block, aligned)
		emitf("realloc forward-coalesce to %d bytes at %p", aligned, p)

		return p
	}

	newPtr := allocateLocked(size)
	if newPtr == nil {
		return nil
	}

	copyBytes(newPtr, p, block.size)
	freeLocked(p)
	emitf("realloc relocate %d -> %d bytes, %p -> %p", block.size, aligned, p, newPtr)

	return newPtr
}
