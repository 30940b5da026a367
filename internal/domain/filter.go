package domain

import (
	"fmt"

	"gooze.dev/pkg/classmut/internal/match"
	m "gooze.dev/pkg/classmut/internal/model"
)

// Loop-exit pattern ids.
const (
	PatternArrayLengthBound    = "array-length-bound"
	PatternCounterIncrement    = "counter-increment"
	PatternObservableCondition = "observable-condition"
)

// Capture slots seeded or bound by the loop-exit patterns.
const (
	SlotLoopStart match.Slot = "loop.start"
	SlotLoopEnd   match.Slot = "loop.end"
	SlotCounter   match.Slot = "counter"
)

// FilterConfig tunes the windows of the loop-exit patterns.
type FilterConfig struct {
	// GuardWindow bounds the operand instructions between the loaded loop
	// variable and the comparison that exits or closes the loop.
	GuardWindow int
	// HeadWindow bounds the instructions skipped between the loop start and
	// a head-of-loop guard.
	HeadWindow int
}

// DefaultFilterConfig returns the windows that recognize both javac and
// ecj loop shapes.
func DefaultFilterConfig() FilterConfig {
	return FilterConfig{GuardWindow: 4, HeadWindow: 6}
}

// Validate rejects negative windows.
func (c FilterConfig) Validate() error {
	if c.GuardWindow < 0 || c.HeadWindow < 0 {
		return fmt.Errorf("filter windows must not be negative: guard=%d head=%d", c.GuardWindow, c.HeadWindow)
	}

	return nil
}

// LoopPattern recognizes one shape of guarded loop. Every part must match
// somewhere inside the loop region; captures flow from part to part.
type LoopPattern struct {
	ID    string
	Parts []match.Spec
}

// LoopExitPatterns builds the pattern library in reporting order.
func LoopExitPatterns(cfg FilterConfig) []LoopPattern {
	operand := match.AnyOf(
		match.Load(""),
		match.PushConstant(),
		match.FieldRead(),
		match.ArrayLength(),
		match.Invoke(),
		match.Op(m.LCMP, m.FCMPL, m.FCMPG, m.DCMPL, m.DCMPG),
		match.Nop(),
	)

	// guard wraps a guard body ending in the controlling jump. A head guard
	// starts within HeadWindow of the loop start and jumps past the loop end;
	// a tail guard is the back-edge itself. The head body may start at any
	// position in the window so the counter can bind to a later load, as in
	// `while (n > i)` where the bound is loaded first.
	guard := func(body ...match.Spec) match.Spec {
		head := append([]match.Spec{match.Near(SlotLoopStart, cfg.HeadWindow)}, body...)
		head = append(head, match.ConditionalJumpPast(SlotLoopEnd))
		tail := append(append([]match.Spec{}, body...), match.ConditionalJumpAt(SlotLoopEnd))

		return match.AnyOf(match.Sequence(head...), match.Sequence(tail...))
	}

	step := match.AnyOf(
		match.Increment(SlotCounter),
		match.Sequence(
			match.Load(SlotCounter),
			match.PushConstant(),
			match.Op(m.IADD, m.ISUB),
			match.Store(SlotCounter),
		),
	)

	return []LoopPattern{
		{
			ID: PatternArrayLengthBound,
			Parts: []match.Spec{
				guard(
					match.Load(SlotCounter),
					match.Within(match.ArrayLength(), cfg.GuardWindow),
				),
				step,
			},
		},
		{
			ID: PatternCounterIncrement,
			Parts: []match.Spec{
				guard(
					match.Load(SlotCounter),
					match.Repeat(operand, 0, cfg.GuardWindow),
				),
				step,
			},
		},
		{
			ID: PatternObservableCondition,
			Parts: []match.Spec{
				guard(
					match.Repeat(match.AnyOf(match.Load(""), match.Nop()), 0, cfg.GuardWindow),
					match.AnyOf(match.FieldRead(), match.Invoke(), match.ArrayLength()),
					match.Repeat(operand, 0, cfg.GuardWindow),
				),
			},
		},
	}
}

// Match reports whether the pattern matches inside loop.
func (p LoopPattern) Match(insns []m.Instruction, loop Loop) ([]match.Span, bool) {
	seed := match.NewCaptures(map[match.Slot]int{
		SlotLoopStart: loop.Start,
		SlotLoopEnd:   loop.End,
	})

	return match.FindEach(p.Parts, insns, loop.Start, loop.End+1, seed)
}

// GuardedLoop is a loop with the patterns that recognize its exit.
type GuardedLoop struct {
	Loop
	Patterns []string
}

// Filter classifies mutants by whether they removed or weakened a loop guard.
type Filter interface {
	// Decide returns one decision per mutant, in input order.
	Decide(original *m.Method, mutants []*m.Mutant) []m.FilterDecision
	// GuardedLoops returns the loops with at least one recognized exit.
	GuardedLoops(method *m.Method) []GuardedLoop
	// UnguardedLoops returns the loops without a recognized exit.
	UnguardedLoops(method *m.Method) []Loop
}

type filter struct {
	patterns []LoopPattern
}

// NewFilter creates a Filter over the default pattern library.
func NewFilter(cfg FilterConfig) (Filter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &filter{patterns: LoopExitPatterns(cfg)}, nil
}

// NewFilterWithPatterns creates a Filter over a custom pattern library.
func NewFilterWithPatterns(patterns ...LoopPattern) Filter {
	return &filter{patterns: patterns}
}

type guardMatch struct {
	loop    Loop
	pattern LoopPattern
}

func (f *filter) guards(insns []m.Instruction) []guardMatch {
	var out []guardMatch

	for _, loop := range FindLoops(insns) {
		for _, p := range f.patterns {
			if _, ok := p.Match(insns, loop); ok {
				out = append(out, guardMatch{loop: loop, pattern: p})
			}
		}
	}

	return out
}

func (f *filter) Decide(original *m.Method, mutants []*m.Mutant) []m.FilterDecision {
	decisions := make([]m.FilterDecision, 0, len(mutants))

	var guards []guardMatch
	if original != nil {
		guards = f.guards(original.Instructions)
	}

	for _, mu := range mutants {
		decisions = append(decisions, f.decide(original, guards, mu))
	}

	return decisions
}

func (f *filter) decide(original *m.Method, guards []guardMatch, mu *m.Mutant) m.FilterDecision {
	for _, g := range guards {
		if !touches(original.Instructions, mu.Edit, g.loop) {
			continue
		}

		mapped := Loop{Start: mu.MapIndex(g.loop.Start), End: mu.MapIndex(g.loop.End)}

		// Without its back-edge the region no longer loops.
		if !closesLoop(mu.Instructions, mapped) {
			continue
		}

		if _, ok := g.pattern.Match(mu.Instructions, mapped); !ok {
			return m.FilterDecision{Mutant: mu, Verdict: m.Reject, Pattern: g.pattern.ID}
		}
	}

	return m.FilterDecision{Mutant: mu, Verdict: m.Keep}
}

// touches reports whether the edited instructions lie inside the loop or
// branch into it.
func touches(insns []m.Instruction, edit m.Edit, loop Loop) bool {
	last := edit.At + max(edit.Remove, 1) - 1

	for i := edit.At; i <= last && i < len(insns); i++ {
		if loop.Contains(i) {
			return true
		}

		for _, t := range insns[i].Successors() {
			if loop.Contains(t) {
				return true
			}
		}
	}

	return false
}

func (f *filter) GuardedLoops(method *m.Method) []GuardedLoop {
	if method == nil {
		return nil
	}

	var out []GuardedLoop

	for _, g := range f.guards(method.Instructions) {
		if n := len(out); n > 0 && out[n-1].Loop == g.loop {
			out[n-1].Patterns = append(out[n-1].Patterns, g.pattern.ID)
			continue
		}

		out = append(out, GuardedLoop{Loop: g.loop, Patterns: []string{g.pattern.ID}})
	}

	return out
}

func (f *filter) UnguardedLoops(method *m.Method) []Loop {
	if method == nil {
		return nil
	}

	guarded := make(map[Loop]bool)
	for _, g := range f.guards(method.Instructions) {
		guarded[g.loop] = true
	}

	var out []Loop

	for _, loop := range FindLoops(method.Instructions) {
		if !guarded[loop] {
			out = append(out, loop)
		}
	}

	return out
}
