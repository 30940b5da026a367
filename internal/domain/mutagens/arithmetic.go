package mutagens

import (
	"gooze.dev/pkg/classmut/internal/match"
	m "gooze.dev/pkg/classmut/internal/model"
)

var mathAlternatives = map[m.Opcode]m.Opcode{
	m.IADD: m.ISUB, m.ISUB: m.IADD, m.IMUL: m.IDIV, m.IDIV: m.IMUL, m.IREM: m.IMUL,
	m.IAND: m.IOR, m.IOR: m.IAND, m.IXOR: m.IAND,
	m.ISHL: m.ISHR, m.ISHR: m.ISHL, m.IUSHR: m.ISHL,

	m.LADD: m.LSUB, m.LSUB: m.LADD, m.LMUL: m.LDIV, m.LDIV: m.LMUL, m.LREM: m.LMUL,
	m.LAND: m.LOR, m.LOR: m.LAND, m.LXOR: m.LAND,
	m.LSHL: m.LSHR, m.LSHR: m.LSHL, m.LUSHR: m.LSHL,

	m.FADD: m.FSUB, m.FSUB: m.FADD, m.FMUL: m.FDIV, m.FDIV: m.FMUL, m.FREM: m.FMUL,
	m.DADD: m.DSUB, m.DSUB: m.DADD, m.DMUL: m.DDIV, m.DDIV: m.DMUL, m.DREM: m.DMUL,
}

// NewMath swaps binary arithmetic operators for a counterpart of the same type.
func NewMath() Operator {
	trigger := match.Is(func(in m.Instruction) bool {
		_, ok := mathAlternatives[in.Op]
		return ok
	})

	return New(Math, "replaced arithmetic operator", trigger,
		func(method *m.Method, site match.Span) (m.Edit, bool) {
			in := method.Instructions[site.Start]
			in.Op = mathAlternatives[in.Op]

			return replaceOne(site.Start, in), true
		})
}
