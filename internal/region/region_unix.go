//go:build linux || darwin || freebsd || netbsd || openbsd

package region

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
)

// MapAnon requests a single anonymous, readable/writable mapping of exactly
// n bytes from the OS via mmap(MAP_ANON|MAP_PRIVATE).
func MapAnon(n uintptr) (uintptr, []byte, error) {
	if n == 0 {
		return 0, nil, fmt.Errorf("region: MapAnon(0) is invalid")
	}

	mem, err := unix.Mmap(-1, 0, int(n), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return 0, nil, fmt.Errorf("region: mmap %d bytes: %w", n, err)
	}

	return uintptr(unsafe.Pointer(unsafe.SliceData(mem))), mem, nil
}

// Unmap releases a mapping previously returned by MapAnon.
func Unmap(mem []byte) error {
	if len(mem) == 0 {
		return nil
	}

	if err := unix.Munmap(mem); err != nil {
		return fmt.Errorf("region: munmap: %w", err)
	}

	return nil
}
