package heap

// SetPolicy selects the active placement policy. Any value outside the
// three enumerated constants is ignored; the current policy is left
// unchanged.
func SetPolicy(p Policy) {
	switch p {
	case FirstFit, BestFit, WorstFit:
		state.policy = p
	default:
		// Unrecognized value: ignored, per spec.md §4.7.
	}
}

// CurrentPolicy returns the active placement policy.
func CurrentPolicy() Policy {
	return state.policy
}

// ResetForTesting drops the block list root, abandoning every backing
// region mapped so far (a documented, test-only leak per spec.md §3). It
// does not reset the active policy or the bound log sink.
func ResetForTesting() {
	state.head = nil
	backingRegions = nil
	emitf("reset_heap_for_testing")
}
