package match

import (
	"fmt"

	"gooze.dev/pkg/classmut/internal/model"
)

// Extractor reads a value from an instruction. ok is false when the
// instruction does not carry one.
type Extractor func(in model.Instruction) (v int, ok bool)

// Capture matches one instruction whose extracted value unifies with slot:
// an unbound slot is bound, a bound slot must hold the same value.
func Capture(slot Slot, extract Extractor) Spec {
	return Atom(func(in model.Instruction, caps Captures) (Captures, bool) {
		v, ok := extract(in)
		if !ok {
			return caps, false
		}

		if slot == "" {
			return caps, true
		}

		return caps.Bind(slot, v)
	})
}

// Same matches one instruction whose extracted value equals the value
// already bound to slot. It fails when slot is unbound.
func Same(slot Slot, extract Extractor) Spec {
	return Atom(func(in model.Instruction, caps Captures) (Captures, bool) {
		want, bound := caps.Get(slot)
		if !bound {
			return caps, false
		}

		v, ok := extract(in)

		return caps, ok && v == want
	})
}

// At succeeds without consuming input when the current instruction's index
// equals the value bound to slot.
func At(slot Slot) Spec {
	return at{slot: slot}
}

type at struct {
	slot Slot
}

func (a at) match(insns []model.Instruction, pos int, caps Captures) (int, Captures, bool) {
	want, bound := caps.Get(a.slot)
	if !bound || pos < 0 || pos >= len(insns) {
		return pos, caps, false
	}

	return pos, caps, insns[pos].Index == want
}

// Near succeeds without consuming input when the current instruction's
// index lies between the value bound to slot and window instructions past
// it. Unlike At followed by Within, every position in the window stays a
// separate candidate, so a scan can retry a later one with other captures.
func Near(slot Slot, window int) Spec {
	if window < 0 {
		panic(fmt.Sprintf("match: negative window %d", window))
	}

	return near{slot: slot, window: window}
}

type near struct {
	slot   Slot
	window int
}

func (n near) match(insns []model.Instruction, pos int, caps Captures) (int, Captures, bool) {
	from, bound := caps.Get(n.slot)
	if !bound || pos < 0 || pos >= len(insns) {
		return pos, caps, false
	}

	idx := insns[pos].Index

	return pos, caps, idx >= from && idx <= from+n.window
}

// Any matches any single instruction.
func Any() Spec {
	return Is(func(model.Instruction) bool { return true })
}

// Op matches one instruction with any of the given opcodes.
func Op(ops ...model.Opcode) Spec {
	return Is(func(in model.Instruction) bool {
		for _, op := range ops {
			if in.Op == op {
				return true
			}
		}

		return false
	})
}

// Nop matches a nop.
func Nop() Spec {
	return Op(model.NOP)
}

// Load matches a local variable load and unifies its slot with slot. An
// empty slot name matches any load.
func Load(slot Slot) Spec {
	return Capture(slot, func(in model.Instruction) (int, bool) {
		return in.Local, in.Op.IsLoad()
	})
}

// Store matches a local variable store and unifies its slot with slot.
func Store(slot Slot) Spec {
	return Capture(slot, func(in model.Instruction) (int, bool) {
		return in.Local, in.Op.IsStore()
	})
}

// Increment matches a non-zero iinc and unifies its slot with slot.
func Increment(slot Slot) Spec {
	return Capture(slot, func(in model.Instruction) (int, bool) {
		return in.Local, in.Op == model.IINC && in.Const != 0
	})
}

// ConditionalJump matches any two-way branch.
func ConditionalJump() Spec {
	return Is(func(in model.Instruction) bool { return in.Op.IsConditionalJump() })
}

// Goto matches an unconditional jump.
func Goto() Spec {
	return Is(func(in model.Instruction) bool { return in.Op.IsUnconditionalJump() })
}

// BackwardJump matches a branch targeting itself or an earlier instruction.
func BackwardJump() Spec {
	return Is(func(in model.Instruction) bool { return in.HasTarget() && in.IsBackEdge() })
}

// JumpTo matches a branch whose target index equals the value bound to slot.
func JumpTo(slot Slot) Spec {
	return Same(slot, func(in model.Instruction) (int, bool) {
		return in.Target, in.HasTarget()
	})
}

// ConditionalJumpPast matches a conditional branch whose target lies after
// the index bound to slot.
func ConditionalJumpPast(slot Slot) Spec {
	return Atom(func(in model.Instruction, caps Captures) (Captures, bool) {
		bound, ok := caps.Get(slot)
		return caps, ok && in.Op.IsConditionalJump() && in.Target > bound
	})
}

// ConditionalJumpAt matches a conditional branch located at the index bound
// to slot.
func ConditionalJumpAt(slot Slot) Spec {
	return Atom(func(in model.Instruction, caps Captures) (Captures, bool) {
		want, ok := caps.Get(slot)
		return caps, ok && in.Op.IsConditionalJump() && in.Index == want
	})
}

// FieldRead matches getfield or getstatic.
func FieldRead() Spec {
	return Is(func(in model.Instruction) bool { return in.Op.IsFieldRead() })
}

// Invoke matches any method invocation.
func Invoke() Spec {
	return Is(func(in model.Instruction) bool { return in.Op.IsInvoke() })
}

// InvokeVoid matches an invocation of a method returning void.
func InvokeVoid() Spec {
	return Is(func(in model.Instruction) bool {
		if !in.Op.IsInvoke() {
			return false
		}

		switch {
		case in.Ref != nil:
			return model.ReturnsVoid(in.Ref.Descriptor)
		case in.Dyn != nil:
			return model.ReturnsVoid(in.Dyn.Descriptor)
		}

		return false
	})
}

// ArrayLength matches arraylength.
func ArrayLength() Spec {
	return Op(model.ARRAYLENGTH)
}

// PushConstant matches any instruction that pushes a constant.
func PushConstant() Spec {
	return Is(func(in model.Instruction) bool {
		switch {
		case in.Op >= model.ACONST_NULL && in.Op <= model.SIPUSH:
			return true
		case in.Op == model.LDC || in.Op == model.LDC_W || in.Op == model.LDC2_W:
			return true
		}

		return false
	})
}
