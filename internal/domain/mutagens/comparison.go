package mutagens

import (
	"gooze.dev/pkg/classmut/internal/match"
	m "gooze.dev/pkg/classmut/internal/model"
)

var boundaryAlternatives = map[m.Opcode]m.Opcode{
	m.IFLT:      m.IFLE,
	m.IFLE:      m.IFLT,
	m.IFGT:      m.IFGE,
	m.IFGE:      m.IFGT,
	m.IF_ICMPLT: m.IF_ICMPLE,
	m.IF_ICMPLE: m.IF_ICMPLT,
	m.IF_ICMPGT: m.IF_ICMPGE,
	m.IF_ICMPGE: m.IF_ICMPGT,
}

// NewNegateConditionals inverts every conditional jump.
func NewNegateConditionals() Operator {
	return New(NegateConditionals, "negated conditional", match.ConditionalJump(),
		func(method *m.Method, site match.Span) (m.Edit, bool) {
			in := method.Instructions[site.Start]

			negated, ok := in.Op.Negated()
			if !ok {
				return m.Edit{}, false
			}

			in.Op = negated

			return replaceOne(site.Start, in), true
		})
}

// NewConditionalsBoundary moves the boundary of relational jumps (< to <=,
// > to >= and back).
func NewConditionalsBoundary() Operator {
	trigger := match.Is(func(in m.Instruction) bool {
		_, ok := boundaryAlternatives[in.Op]
		return ok
	})

	return New(ConditionalsBoundary, "changed conditional boundary", trigger,
		func(method *m.Method, site match.Span) (m.Edit, bool) {
			in := method.Instructions[site.Start]
			in.Op = boundaryAlternatives[in.Op]

			return replaceOne(site.Start, in), true
		})
}
