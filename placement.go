package heap

// Policy selects how findFreeBlock chooses among candidate free blocks.
type Policy int

const (
	FirstFit Policy = iota
	BestFit
	WorstFit
)

// findFreeBlock walks the block list from head applying policy, returning
// the chosen candidate (or nil if none fits) and the true tail of the list
// (needed by the caller as an append anchor regardless of which candidate,
// if any, was chosen).
func findFreeBlock(head *blockHeader, policy Policy, alignedSize uintptr) (chosen, tail *blockHeader) {
	switch policy {
	case BestFit:
		return findBestFit(head, alignedSize)
	case WorstFit:
		return findWorstFit(head, alignedSize)
	default:
		return findFirstFit(head, alignedSize)
	}
}

func isCandidate(b *blockHeader, alignedSize uintptr) bool {
	return b.isFree && b.size >= alignedSize
}

// findFirstFit returns the first candidate encountered, but still walks the
// rest of the list to find the true tail.
func findFirstFit(head *blockHeader, alignedSize uintptr) (chosen, tail *blockHeader) {
	for cur := head; cur != nil; cur = cur.next {
		if chosen == nil && isCandidate(cur, alignedSize) {
			chosen = cur
		}

		tail = cur
	}

	return chosen, tail
}

// findBestFit visits every candidate and returns the one with the smallest
// size - alignedSize. An exact match has zero waste and so is never
// displaced, though the walk still continues to find the true tail. Ties go
// to the earliest candidate in list order.
func findBestFit(head *blockHeader, alignedSize uintptr) (chosen, tail *blockHeader) {
	var bestWaste uintptr

	haveBest := false

	for cur := head; cur != nil; cur = cur.next {
		if isCandidate(cur, alignedSize) {
			waste := cur.size - alignedSize
			if !haveBest || waste < bestWaste {
				chosen = cur
				bestWaste = waste
				haveBest = true
			}

		}

		tail = cur
	}

	return chosen, tail
}

// findWorstFit visits every candidate and returns the one with the largest
// size. Ties go to the earliest candidate in list order.
func findWorstFit(head *blockHeader, alignedSize uintptr) (chosen, tail *blockHeader) {
	var worstSize uintptr

	haveWorst := false

	for cur := head; cur != nil; cur = cur.next {
		if isCandidate(cur, alignedSize) {
			if !haveWorst || cur.size > worstSize {
				chosen = cur
				worstSize = cur.size
				haveWorst = true
			}
		}

		tail = cur
	}

	return chosen, tail
}
