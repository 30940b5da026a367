package mutagens

import (
	"gooze.dev/pkg/classmut/internal/match"
	m "gooze.dev/pkg/classmut/internal/model"
)

// NewRemoveConditionals replaces a conditional jump with pops of its
// operands, so the jump is never taken.
func NewRemoveConditionals() Operator {
	return New(RemoveConditionals, "removed conditional", match.ConditionalJump(),
		func(method *m.Method, site match.Span) (m.Edit, bool) {
			in := method.Instructions[site.Start]

			pop, _ := in.Op.StackEffect()
			if pop <= 0 {
				return m.Edit{}, false
			}

			// Two compared operands are both single words, so one pop2 drops them.
			replacement := m.NewInstruction(m.POP)
			if pop == 2 {
				replacement = m.NewInstruction(m.POP2)
			}

			return replaceOne(site.Start, replacement), true
		})
}
