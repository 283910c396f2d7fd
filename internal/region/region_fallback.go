//go:build !(linux || darwin || freebsd || netbsd || openbsd)

package region

import (
	"fmt"
	"unsafe"
)

// MapAnon is a portable stand-in for platforms without an anonymous mmap
// binding in this module's dependency set. It pins a Go-allocated byte
// slice of exactly n bytes in place of a real OS mapping; the slice itself is the
// only thing keeping the memory alive, so callers must retain it exactly as
// they would retain an mmap'd region.
func MapAnon(n uintptr) (uintptr, []byte, error) {
	if n == 0 {
		return 0, nil, fmt.Errorf("region: MapAnon(0) is invalid")
	}

	mem := make([]byte, n)

	return uintptr(unsafe.Pointer(unsafe.SliceData(mem))), mem, nil
}

// Unmap is a no-op on this fallback path: the backing slice is released to
// the garbage collector once the caller drops its reference.
func Unmap(mem []byte) error {
	return nil
}
