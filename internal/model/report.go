package model

// MutantReport is the outcome of one mutant.
type MutantReport struct {
	ID          string     `yaml:"id"`
	Operator    OperatorID `yaml:"operator"`
	Index       int        `yaml:"index"`
	Description string     `yaml:"description"`
	Verdict     string     `yaml:"verdict"`
	Pattern     string     `yaml:"pattern,omitempty"`
	// Path is where the mutant class was written, when it was.
	Path string `yaml:"path,omitempty"`
}

// NewMutantReport summarizes a filter decision.
func NewMutantReport(d FilterDecision) MutantReport {
	return MutantReport{
		ID:          d.Mutant.ID(),
		Operator:    d.Mutant.Operator,
		Index:       d.Mutant.Index,
		Description: d.Mutant.Description,
		Verdict:     d.Verdict.String(),
		Pattern:     d.Pattern,
	}
}

// LoopReport describes one loop region and the exit patterns recognized in it.
type LoopReport struct {
	Start    int      `yaml:"start"`
	End      int      `yaml:"end"`
	Patterns []string `yaml:"patterns,omitempty"`
}

// Guarded reports whether any exit pattern was recognized.
func (l LoopReport) Guarded() bool {
	return len(l.Patterns) > 0
}

// MethodReport holds the results for one method.
type MethodReport struct {
	Name       string         `yaml:"name"`
	Descriptor string         `yaml:"descriptor"`
	Loops      []LoopReport   `yaml:"loops,omitempty"`
	Mutants    []MutantReport `yaml:"mutants,omitempty"`
}

// ClassReport holds the results for one class. Error is set when the class
// could not be parsed.
type ClassReport struct {
	Class   string         `yaml:"class"`
	Error   string         `yaml:"error,omitempty"`
	Methods []MethodReport `yaml:"methods,omitempty"`
}

// Report is the result of one analysis run.
type Report struct {
	Classes   []ClassReport `yaml:"classes"`
	Kept      int           `yaml:"kept"`
	Rejected  int           `yaml:"rejected"`
	Malformed int           `yaml:"malformed"`
}

// Tally recomputes the summary counters from the class reports.
func (r *Report) Tally() {
	r.Kept, r.Rejected, r.Malformed = 0, 0, 0

	for _, c := range r.Classes {
		if c.Error != "" {
			r.Malformed++
		}

		for _, mr := range c.Methods {
			for _, mu := range mr.Mutants {
				if mu.Verdict == Reject.String() {
					r.Rejected++
				} else {
					r.Kept++
				}
			}
		}
	}
}
