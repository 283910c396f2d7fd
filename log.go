package heap

import (
	"github.com/orizon-lang/uheap/internal/alloglog"
	herrors "github.com/orizon-lang/uheap/internal/errors"
)

// emitf formats and writes a log record via the bound sink. It never calls
// back into Allocate/Free/Calloc/Realloc: per spec.md §4.8 the emitter is
// "safe to call before/after reset" and must never touch the block list it
// is reporting on.
func emitf(format string, args ...interface{}) {
	alloglog.Emit(format, args...)
}

// emitEvent writes a categorized event (spec.md §7's OOM/invalid-argument/
// invalid-pointer/inconsistency kinds) through the same sink as emitf.
func emitEvent(e herrors.Event) {
	alloglog.Emit("%s", e.String())
}

// InitLog opens path for write-truncate and binds it as the log sink.
// Binding an empty path disables logging.
func InitLog(path string) error {
	return alloglog.Bind(path)
}

// CloseLog releases the currently bound log sink, if any.
func CloseLog() error {
	return alloglog.Unbind()
}
