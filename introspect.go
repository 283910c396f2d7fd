package heap

import (
	"fmt"
	"os"

	herrors "github.com/orizon-lang/uheap/internal/errors"
)

// UsageStats walks the block list once and reports total bytes and block
// counts on each side of the free/allocated split.
func UsageStats() (totalAlloc, totalFree uintptr, allocBlocks, freeBlocks int) {
	for cur := state.head; cur != nil; cur = cur.next {
		if cur.isFree {
			totalFree += cur.size
			freeBlocks++
		} else {
			totalAlloc += cur.size
			allocBlocks++
		}
	}

	return totalAlloc, totalFree, allocBlocks, freeBlocks
}

// FragmentationRate is 1 - largestFree/totalFree, a scalar in [0, 1). It is
// exactly 0 when there is no free memory or a single free block.
func FragmentationRate() float64 {
	var totalFree, largestFree uintptr

	for cur := state.head; cur != nil; cur = cur.next {
		if cur.isFree {
			totalFree += cur.size

			if cur.size > largestFree {
				largestFree = cur.size
			}
		}
	}

	if totalFree == 0 {
		return 0.0
	}

	return 1.0 - float64(largestFree)/float64(totalFree)
}

// Violation describes a single structural-invariant breach found by
// CheckConsistency.
type Violation struct {
	Kind    string
	Message string
}

// CheckConsistency walks the block list once, checking I1/I2 (back-link
// agreement) and I3 (no two physically-contiguous free list-neighbours),
// and reports each violation found. Two free list-neighbours from
// different, non-contiguous regions are legal and must not be flagged;
// only the contiguity-qualified case is a real I3 breach (spec.md §4.6,
// §9).
func CheckConsistency() []Violation {
	var violations []Violation

	for cur := state.head; cur != nil; cur = cur.next {
		if cur.next != nil && cur.next.prev != cur {
			v := Violation{Kind: "I1/I2", Message: "back-link mismatch at " + newRegionDebugString(cur)}
			violations = append(violations, v)
			reportViolation(v)
		}

		if cur.next != nil && cur.isFree && cur.next.isFree && contiguous(cur, cur.next) {
			v := Violation{Kind: "I3", Message: "uncoalesced contiguous free neighbours at " + newRegionDebugString(cur)}
			violations = append(violations, v)
			reportViolation(v)
		}
	}

	return violations
}

// reportViolation writes v to both channels spec.md §6 names for
// consistency-check diagnostics: the injectable log sink (dropped when no
// sink is bound, per spec.md §4.8) and the host's error stream, which is
// always on regardless of InitLog.
func reportViolation(v Violation) {
	emitEvent(herrors.Inconsistency("%s: %s", v.Kind, v.Message))
	fmt.Fprintf(os.Stderr, "uheap: inconsistency %s: %s\n", v.Kind, v.Message)
}
