// Package match is a small combinator language for recognizing shapes in
// ordered instruction sequences.
//
// A Spec is matched at a position and either fails or consumes a run of
// instructions. Matching is a pure function of the sequence, the position
// and the incoming captures. Repetition is greedy and never backtracks, and
// gaps are only allowed through Within with a finite window, so a scan over
// a method is linear in its length for a fixed Spec.
package match

import (
	"fmt"

	"gooze.dev/pkg/classmut/internal/model"
)

// Spec is a composable matcher over instruction sequences.
type Spec interface {
	// match tries the spec at pos. It returns the position after the match
	// and the captures extended by the match.
	match(insns []model.Instruction, pos int, caps Captures) (int, Captures, bool)
}

// Predicate tests one instruction and may extend the captures.
type Predicate func(in model.Instruction, caps Captures) (Captures, bool)

type atom struct {
	pred Predicate
}

// Atom matches exactly one instruction accepted by pred.
func Atom(pred Predicate) Spec {
	return atom{pred: pred}
}

// Is matches exactly one instruction satisfying test.
func Is(test func(model.Instruction) bool) Spec {
	return atom{pred: func(in model.Instruction, caps Captures) (Captures, bool) {
		return caps, test(in)
	}}
}

func (a atom) match(insns []model.Instruction, pos int, caps Captures) (int, Captures, bool) {
	if pos < 0 || pos >= len(insns) {
		return pos, caps, false
	}

	next, ok := a.pred(insns[pos], caps)
	if !ok {
		return pos, caps, false
	}

	return pos + 1, next, true
}

type sequence struct {
	parts []Spec
}

// Sequence matches each part immediately after the previous one.
func Sequence(parts ...Spec) Spec {
	return sequence{parts: parts}
}

func (s sequence) match(insns []model.Instruction, pos int, caps Captures) (int, Captures, bool) {
	cur := pos

	for _, part := range s.parts {
		end, next, ok := part.match(insns, cur, caps)
		if !ok {
			return pos, caps, false
		}

		cur, caps = end, next
	}

	return cur, caps, true
}

type anyOf struct {
	alternatives []Spec
}

// AnyOf matches the first alternative, in argument order, that matches.
func AnyOf(alternatives ...Spec) Spec {
	return anyOf{alternatives: alternatives}
}

func (a anyOf) match(insns []model.Instruction, pos int, caps Captures) (int, Captures, bool) {
	for _, alt := range a.alternatives {
		if end, next, ok := alt.match(insns, pos, caps); ok {
			return end, next, true
		}
	}

	return pos, caps, false
}

type repeat struct {
	spec     Spec
	min, max int
}

// Repeat matches spec between min and max times, as many as possible. Once
// the run is taken it is never shortened to let a following spec match.
func Repeat(spec Spec, min, max int) Spec {
	if min < 0 || max < min {
		panic(fmt.Sprintf("match: invalid repeat bounds [%d,%d]", min, max))
	}

	return repeat{spec: spec, min: min, max: max}
}

// Optional matches spec zero or one time.
func Optional(spec Spec) Spec {
	return Repeat(spec, 0, 1)
}

func (r repeat) match(insns []model.Instruction, pos int, caps Captures) (int, Captures, bool) {
	cur := pos
	count := 0

	for count < r.max {
		end, next, ok := r.spec.match(insns, cur, caps)
		if !ok {
			break
		}

		count++
		progressed := end != cur
		cur, caps = end, next

		// A zero-width match would repeat forever without progress.
		if !progressed {
			if count < r.min {
				count = r.min
			}

			break
		}
	}

	if count < r.min {
		return pos, caps, false
	}

	return cur, caps, true
}

type within struct {
	spec   Spec
	window int
}

// Within matches spec starting anywhere from the current position up to
// window instructions later. The skipped instructions are consumed. The
// nearest start wins.
func Within(spec Spec, window int) Spec {
	if window < 0 {
		panic(fmt.Sprintf("match: negative window %d", window))
	}

	return within{spec: spec, window: window}
}

func (w within) match(insns []model.Instruction, pos int, caps Captures) (int, Captures, bool) {
	for skip := 0; skip <= w.window && pos+skip <= len(insns); skip++ {
		if end, next, ok := w.spec.match(insns, pos+skip, caps); ok {
			return end, next, true
		}
	}

	return pos, caps, false
}

type negate struct {
	spec Spec
}

// Negate succeeds without consuming input where spec does not match.
func Negate(spec Spec) Spec {
	return negate{spec: spec}
}

func (n negate) match(insns []model.Instruction, pos int, caps Captures) (int, Captures, bool) {
	if _, _, ok := n.spec.match(insns, pos, caps); ok {
		return pos, caps, false
	}

	return pos, caps, true
}
