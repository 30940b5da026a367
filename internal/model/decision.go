package model

// Verdict is the infinite-loop filter's classification of a mutant.
type Verdict int

const (
	// Keep passes the mutant on to the pipeline.
	Keep Verdict = iota
	// Reject drops a mutant that removed or weakened a loop guard.
	Reject
)

func (v Verdict) String() string {
	if v == Reject {
		return "REJECT"
	}

	return "KEEP"
}

// FilterDecision is the verdict for one mutant. Pattern names the loop-exit
// pattern that no longer matched when the verdict is Reject.
type FilterDecision struct {
	Mutant  *Mutant
	Verdict Verdict
	Pattern string
}

// Kept reports whether the mutant survives the filter.
func (d FilterDecision) Kept() bool {
	return d.Verdict == Keep
}
