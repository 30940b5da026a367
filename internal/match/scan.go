package match

import "gooze.dev/pkg/classmut/internal/model"

// Span is one match: positions [Start, End) of the scanned sequence and the
// captures the match produced.
type Span struct {
	Start    int
	End      int
	Captures Captures
}

// Len returns the number of instructions the match consumed.
func (s Span) Len() int {
	return s.End - s.Start
}

// Matches reports whether spec matches anywhere in insns.
func Matches(spec Spec, insns []model.Instruction) bool {
	_, ok := Find(spec, insns)
	return ok
}

// Find returns the leftmost match of spec in insns.
func Find(spec Spec, insns []model.Instruction) (Span, bool) {
	return FindWith(spec, insns, Captures{})
}

// FindWith is Find with seeded captures.
func FindWith(spec Spec, insns []model.Instruction, seed Captures) (Span, bool) {
	for start := 0; start <= len(insns); start++ {
		if end, caps, ok := spec.match(insns, start, seed); ok {
			return Span{Start: start, End: end, Captures: caps}, true
		}
	}

	return Span{}, false
}

// FindAll returns one match of spec per start position in insns, leftmost
// first. Matches may overlap, so a trigger spanning several instructions
// still yields every site.
func FindAll(spec Spec, insns []model.Instruction) []Span {
	return FindAllWith(spec, insns, Captures{})
}

// FindAllWith is FindAll with seeded captures. Each match starts from seed.
func FindAllWith(spec Spec, insns []model.Instruction, seed Captures) []Span {
	var spans []Span

	for start := 0; start < len(insns); start++ {
		if end, caps, ok := spec.match(insns, start, seed); ok {
			spans = append(spans, Span{Start: start, End: end, Captures: caps})
		}
	}

	return spans
}

// MatchAt reports whether spec matches starting exactly at pos.
func MatchAt(spec Spec, insns []model.Instruction, pos int, seed Captures) (Span, bool) {
	end, caps, ok := spec.match(insns, pos, seed)
	if !ok {
		return Span{}, false
	}

	return Span{Start: pos, End: end, Captures: caps}, true
}

// FindAllIn is FindAllWith restricted to positions [from, to). Matches may
// not extend past to.
func FindAllIn(spec Spec, insns []model.Instruction, from, to int, seed Captures) []Span {
	from, to = clampRange(from, to, len(insns))

	spans := FindAllWith(spec, insns[:to], seed)
	out := spans[:0]

	for _, s := range spans {
		if s.Start >= from {
			out = append(out, s)
		}
	}

	return out
}

// FindEach finds one span per spec inside [from, to), in spec order but at
// any positions, threading the captures of each span into the next spec. The
// first combination in position order wins. Earlier specs are retried at
// later positions when a later spec cannot be satisfied.
func FindEach(specs []Spec, insns []model.Instruction, from, to int, seed Captures) ([]Span, bool) {
	from, to = clampRange(from, to, len(insns))

	return findEach(specs, insns[:to], from, seed, nil)
}

func findEach(specs []Spec, insns []model.Instruction, from int, caps Captures, found []Span) ([]Span, bool) {
	if len(specs) == 0 {
		return found, true
	}

	for pos := from; pos < len(insns); pos++ {
		end, next, ok := specs[0].match(insns, pos, caps)
		if !ok {
			continue
		}

		span := Span{Start: pos, End: end, Captures: next}
		if all, ok := findEach(specs[1:], insns, from, next, append(found[:len(found):len(found)], span)); ok {
			return all, true
		}
	}

	return nil, false
}

func clampRange(from, to, n int) (int, int) {
	if from < 0 {
		from = 0
	}

	to = max(0, min(to, n))

	if from > to {
		from = to
	}

	return from, to
}
