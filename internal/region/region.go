// Package region obtains fresh backing memory from the operating system for
// the heap package's region supplier. It is the one place in this module
// that talks to the kernel directly, in the style of the teacher's
// platform-specific syscall files (internal/runtime/asyncio's unix/bsd
// splits), adapted from network zero-copy syscalls to anonymous memory
// mappings.
//
// MapAnon and Unmap are implemented per-platform in region_unix.go (real
// mmap/munmap via golang.org/x/sys/unix) and region_fallback.go (a pure-Go
// pinned-slice stand-in for platforms without an anonymous mmap syscall
// binding in this module's dependency set).
package region
