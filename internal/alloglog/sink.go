// Package alloglog is the heap core's log event emitter (spec.md §4.8): it
// formats short records into a fixed-size buffer and hands them to an
// injected sink, without building an intermediate formatted string for
// records that fit (≤256 bytes), and never calling back into the allocator
// under test.
//
// The optional file sink additionally watches its own path with fsnotify,
// adapted from the teacher's internal/runtime/vfs.FSNotifyWatcher (a
// directory-watch-with-a-channel reader) down to the narrower case of a
// single file: if the bound log file is removed or renamed out from under
// the process (external log rotation), the next Emit transparently reopens
// it at the same path instead of silently going dark.
package alloglog

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// maxRecordSize bounds every formatted record, matching spec.md §4.8's
// "fixed-size stack buffer (≤ 256 bytes)".
const maxRecordSize = 256

// Sink is a bound log sink: a byte-oriented writer, bookkeeping for
// rotation-aware file sinks, and a mutex since Emit may be called
// concurrently with Bind/Unbind under an embedder's external serialization.
type Sink struct {
	mu      sync.Mutex
	w       io.Writer
	path    string
	file    *os.File
	watcher *fsnotify.Watcher
}

// global is the process-wide sink bound by InitLog/CloseLog (spec.md §3:
// the log sink is process-wide state).
var global Sink

// Bind opens path for write-truncate and binds it as the sink. Binding an
// empty path disables logging (spec.md §6: "binding null disables
// logging").
func Bind(path string) error {
	global.mu.Lock()
	defer global.mu.Unlock()

	closeLocked(&global)

	if path == "" {
		return nil
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("alloglog: open %s: %w", path, err)
	}

	global.w = f
	global.path = path
	global.file = f

	// Best-effort: a platform or resource-limit failure to start the
	// watcher should not prevent logging to the now-open file.
	if w, werr := fsnotify.NewWatcher(); werr == nil {
		if addErr := w.Add(path); addErr == nil {
			global.watcher = w
		} else {
			_ = w.Close()
		}
	}

	return nil
}

// Unbind closes the current sink, if any. Safe to call when no sink is
// bound.
func Unbind() error {
	global.mu.Lock()
	defer global.mu.Unlock()

	return closeLocked(&global)
}

func closeLocked(s *Sink) error {
	var err error

	if s.watcher != nil {
		_ = s.watcher.Close()
		s.watcher = nil
	}

	if s.file != nil {
		err = s.file.Close()
		s.file = nil
	}

	s.w = nil
	s.path = ""

	return err
}

// SetWriter binds an arbitrary io.Writer as the sink, bypassing file
// lifecycle management (used by tests and by embedders who already have a
// log destination). Passing nil disables logging.
func SetWriter(w io.Writer) {
	global.mu.Lock()
	defer global.mu.Unlock()

	closeLocked(&global)

	global.w = w
}

// reopenIfRotated checks whether the bound file sink's path was removed or
// replaced out from under the process and, if so, reopens it at the same
// path (preserving the rotation tool's expectation that a fresh file
// appears there).
func reopenIfRotated(s *Sink) {
	if s.watcher == nil || s.path == "" {
		return
	}

	select {
	case ev, ok := <-s.watcher.Events:
		if !ok {
			return
		}

		if ev.Op&(fsnotify.Remove|fsnotify.Rename) == 0 {
			return
		}

		_ = s.watcher.Remove(s.path)

		if s.file != nil {
			_ = s.file.Close()
		}

		f, err := os.OpenFile(s.path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
		if err != nil {
			s.w, s.file = nil, nil

			return
		}

		s.w, s.file = f, f

		if addErr := s.watcher.Add(s.path); addErr != nil {
			_ = s.watcher.Close()
			s.watcher = nil
		}
	default:
	}
}

// Emit formats a record (sprintf-style, like the teacher's StandardError
// messages) into a fixed buffer, appends a newline, and writes it to the
// bound sink. It silently drops the record if no sink is bound; it never
// returns an error and never touches allocator state.
func Emit(format string, args ...interface{}) {
	global.mu.Lock()
	defer global.mu.Unlock()

	reopenIfRotated(&global)

	if global.w == nil {
		return
	}

	var buf [maxRecordSize]byte

	n := formatInto(buf[:], format, args...)
	_, _ = global.w.Write(buf[:n])
}

// formatInto renders format/args into buf, truncating to fit, and appends a
// trailing newline. It returns the number of bytes written.
//
// fmt.Appendf is given buf[:0] as its destination, so it appends the
// formatted bytes into buf's backing array instead of returning a separate
// string (as fmt.Sprintf would) whenever the record fits within cap(buf);
// it only allocates a new backing array for a record that overflows buf,
// which the trailing copy then truncates to fit.
func formatInto(buf []byte, format string, args ...interface{}) int {
	out := fmt.Appendf(buf[:0], format, args...)

	n := copy(buf, out)
	if n == len(buf) {
		n = len(buf) - 1
	}

	buf[n] = '\n'

	return n + 1
}
