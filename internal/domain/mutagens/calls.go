package mutagens

import (
	"slices"

	"gooze.dev/pkg/classmut/internal/match"
	m "gooze.dev/pkg/classmut/internal/model"
)

// NewVoidMethodCalls removes calls to void methods, popping the arguments
// and receiver instead. Constructor calls are left alone.
func NewVoidMethodCalls() Operator {
	trigger := match.Sequence(
		match.Negate(match.Is(func(in m.Instruction) bool {
			return in.Ref != nil && in.Ref.Name == "<init>"
		})),
		match.Negate(match.Op(m.INVOKEDYNAMIC)),
		match.InvokeVoid(),
	)

	return New(VoidMethodCalls, "removed call to void method", trigger,
		func(method *m.Method, site match.Span) (m.Edit, bool) {
			in := method.Instructions[site.Start]

			sizes, err := m.ArgumentSizes(in.Ref.Descriptor)
			if err != nil {
				return m.Edit{}, false
			}

			if in.Op != m.INVOKESTATIC {
				sizes = append([]int{1}, sizes...)
			}

			// The last argument is on top of the stack.
			slices.Reverse(sizes)

			insert := pops(sizes)
			if len(insert) == 0 {
				insert = []m.Instruction{m.NewInstruction(m.NOP)}
			}

			return m.Edit{At: site.Start, Remove: 1, Insert: insert}, true
		})
}
