package model

import (
	"fmt"
	"strings"
)

// NoTarget marks an instruction without a branch target.
const NoTarget = -1

// NoLocal marks an instruction without a local slot operand.
const NoLocal = -1

// MemberRef is a resolved field or method reference.
type MemberRef struct {
	Owner      string
	Name       string
	Descriptor string
	// Interface is set for methods resolved through an InterfaceMethodref.
	Interface bool
}

func (r MemberRef) String() string {
	return r.Owner + "." + r.Name + ":" + r.Descriptor
}

// ConstantKind tags a loadable constant.
type ConstantKind uint8

// Loadable constant kinds.
const (
	ConstInt ConstantKind = iota + 1
	ConstFloat
	ConstLong
	ConstDouble
	ConstString
	ConstClass
	ConstMethodType
	ConstMethodHandle
	ConstDynamic
)

// Constant is a value pushed by ldc, ldc_w or ldc2_w.
type Constant struct {
	Kind ConstantKind
	// Int holds ints and longs, and the raw bits of floats and doubles.
	Int int64
	// Text holds strings, class names, method type descriptors and, for
	// method handles and dynamic constants, a printable reference.
	Text string
	// Handle is set for ConstMethodHandle.
	Handle *MethodHandle
	// Dynamic is set for ConstDynamic.
	Dynamic *DynamicRef
}

// Wide reports whether the constant occupies two stack words.
func (c Constant) Wide() bool {
	if c.Kind == ConstLong || c.Kind == ConstDouble {
		return true
	}

	if c.Kind == ConstDynamic && c.Dynamic != nil {
		return isWideDescriptor(c.Dynamic.Descriptor)
	}

	return false
}

func (c Constant) String() string {
	switch c.Kind {
	case ConstInt, ConstLong:
		return fmt.Sprintf("%d", c.Int)
	case ConstString:
		return fmt.Sprintf("%q", c.Text)
	case ConstFloat, ConstDouble:
		return fmt.Sprintf("bits:0x%x", uint64(c.Int))
	default:
		return c.Text
	}
}

// MethodHandle is a CONSTANT_MethodHandle value.
type MethodHandle struct {
	RefKind uint8
	Ref     MemberRef
}

// DynamicRef is the payload of invokedynamic and CONSTANT_Dynamic.
type DynamicRef struct {
	BootstrapIndex int
	Name           string
	Descriptor     string
}

// Switch is the jump table of a tableswitch or lookupswitch.
// Keys[i] jumps to Targets[i]; targets are instruction indices.
type Switch struct {
	Default int
	Low     int32
	High    int32
	Keys    []int32
	Targets []int
}

// Instruction is a decoded instruction. Branch targets are instruction
// indices, not byte offsets.
type Instruction struct {
	Index  int
	Offset int
	Op     Opcode
	Local  int
	Const  int64
	Target int
	Ref    *MemberRef
	Class  string
	LDC    *Constant
	Dyn    *DynamicRef
	Table  *Switch
}

// NewInstruction returns an operand-less instruction, with the implicit
// local slot filled in for the short load/store forms.
func NewInstruction(op Opcode) Instruction {
	return Instruction{
		Index:  -1,
		Offset: -1,
		Op:     op,
		Local:  op.ImplicitLocal(),
		Target: NoTarget,
	}
}

// HasTarget reports whether the instruction carries a single branch target.
func (in Instruction) HasTarget() bool {
	return in.Op.IsJump() && in.Target != NoTarget
}

// IsBackEdge reports whether the instruction branches to itself or an earlier instruction.
func (in Instruction) IsBackEdge() bool {
	if in.HasTarget() {
		return in.Target <= in.Index
	}

	for _, t := range in.Successors() {
		if t <= in.Index && t != in.Index+1 {
			return true
		}
	}

	return false
}

// Successors returns the branch targets of the instruction: the jump target
// or every switch target. The fall-through successor is not included.
func (in Instruction) Successors() []int {
	switch {
	case in.HasTarget():
		return []int{in.Target}
	case in.Table != nil:
		targets := make([]int, 0, len(in.Table.Targets)+1)
		targets = append(targets, in.Table.Default)
		targets = append(targets, in.Table.Targets...)

		return targets
	}

	return nil
}

// StackEffect returns the words popped and pushed, resolving descriptors for
// field and invoke instructions.
func (in Instruction) StackEffect() (pop, push int, err error) {
	switch in.Op {
	case LDC, LDC_W:
		if in.LDC != nil && in.LDC.Wide() {
			return 0, 2, nil
		}

		return 0, 1, nil
	case GETSTATIC, PUTSTATIC, GETFIELD, PUTFIELD:
		return fieldEffect(in)
	case INVOKEVIRTUAL, INVOKESPECIAL, INVOKESTATIC, INVOKEINTERFACE, INVOKEDYNAMIC:
		return invokeEffect(in)
	case MULTIANEWARRAY:
		return int(in.Const), 1, nil
	}

	pop, push = in.Op.StackEffect()

	return pop, push, nil
}

func fieldEffect(in Instruction) (int, int, error) {
	if in.Ref == nil {
		return 0, 0, fmt.Errorf("%s without field reference", in.Op)
	}

	size := ValueSize(in.Ref.Descriptor)
	if size == 0 {
		return 0, 0, fmt.Errorf("bad field descriptor %q", in.Ref.Descriptor)
	}

	switch in.Op {
	case GETSTATIC:
		return 0, size, nil
	case PUTSTATIC:
		return size, 0, nil
	case GETFIELD:
		return 1, size, nil
	default:
		return 1 + size, 0, nil
	}
}

func invokeEffect(in Instruction) (int, int, error) {
	var desc string

	switch {
	case in.Op == INVOKEDYNAMIC && in.Dyn != nil:
		desc = in.Dyn.Descriptor
	case in.Ref != nil:
		desc = in.Ref.Descriptor
	default:
		return 0, 0, fmt.Errorf("%s without method reference", in.Op)
	}

	args, ret, err := MethodSlots(desc)
	if err != nil {
		return 0, 0, err
	}

	if in.Op != INVOKESTATIC && in.Op != INVOKEDYNAMIC {
		args++
	}

	return args, ret, nil
}

func (in Instruction) String() string {
	var b strings.Builder

	b.WriteString(in.Op.String())

	switch in.Op.Format() {
	case FormatLocal:
		fmt.Fprintf(&b, " %d", in.Local)
	case FormatByte, FormatShort, FormatNewArray:
		fmt.Fprintf(&b, " %d", in.Const)
	case FormatIinc:
		fmt.Fprintf(&b, " %d %d", in.Local, in.Const)
	case FormatBranch, FormatBranchWide:
		fmt.Fprintf(&b, " L%d", in.Target)
	case FormatConstU1, FormatConstU2:
		if in.LDC != nil {
			fmt.Fprintf(&b, " %s", in.LDC)
		}
	case FormatField, FormatMethod, FormatInterfaceMethod:
		if in.Ref != nil {
			fmt.Fprintf(&b, " %s", in.Ref)
		}
	case FormatDynamic:
		if in.Dyn != nil {
			fmt.Fprintf(&b, " %s%s", in.Dyn.Name, in.Dyn.Descriptor)
		}
	case FormatClass:
		fmt.Fprintf(&b, " %s", in.Class)
	case FormatMultiANewArray:
		fmt.Fprintf(&b, " %s %d", in.Class, in.Const)
	case FormatTableSwitch, FormatLookupSwitch:
		if in.Table != nil {
			for i, key := range in.Table.Keys {
				fmt.Fprintf(&b, " %d:L%d", key, in.Table.Targets[i])
			}

			fmt.Fprintf(&b, " default:L%d", in.Table.Default)
		}
	}

	return b.String()
}
