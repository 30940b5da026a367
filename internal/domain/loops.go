package domain

import (
	"cmp"
	"fmt"
	"slices"

	m "gooze.dev/pkg/classmut/internal/model"
)

// Loop is the instruction region [Start, End] closed by the back-edge at End,
// which branches to Start.
type Loop struct {
	Start int
	End   int
}

// Contains reports whether index i lies inside the loop region.
func (l Loop) Contains(i int) bool {
	return i >= l.Start && i <= l.End
}

func (l Loop) String() string {
	return fmt.Sprintf("[%d,%d]", l.Start, l.End)
}

// FindLoops returns one loop per back-edge, ordered by start then end.
func FindLoops(insns []m.Instruction) []Loop {
	var loops []Loop

	for i, in := range insns {
		for _, t := range in.Successors() {
			if t <= i && t >= 0 {
				loops = append(loops, Loop{Start: t, End: i})
			}
		}
	}

	slices.SortFunc(loops, func(a, b Loop) int {
		if c := cmp.Compare(a.Start, b.Start); c != 0 {
			return c
		}

		return cmp.Compare(a.End, b.End)
	})

	return slices.Compact(loops)
}

// closesLoop reports whether the instruction at end still branches back to start.
func closesLoop(insns []m.Instruction, l Loop) bool {
	if l.End < 0 || l.End >= len(insns) {
		return false
	}

	return slices.Contains(insns[l.End].Successors(), l.Start)
}
