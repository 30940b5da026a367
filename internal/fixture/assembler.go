// Package fixture builds compiled loop samples and sweeps them across
// producers.
package fixture

import (
	"fmt"

	"gooze.dev/pkg/classmut/internal/classfile"
	m "gooze.dev/pkg/classmut/internal/model"
)

// Assembler builds an instruction sequence with symbolic branch labels.
type Assembler struct {
	insns  []m.Instruction
	labels map[string]int
	jumps  map[int]string
	err    error
}

// NewAssembler returns an empty assembler.
func NewAssembler() *Assembler {
	return &Assembler{labels: make(map[string]int), jumps: make(map[int]string)}
}

func (a *Assembler) emit(in m.Instruction) *Assembler {
	a.insns = append(a.insns, in)
	return a
}

// Label binds name to the next instruction.
func (a *Assembler) Label(name string) *Assembler {
	if _, dup := a.labels[name]; dup && a.err == nil {
		a.err = fmt.Errorf("label %q defined twice", name)
	}

	a.labels[name] = len(a.insns)

	return a
}

// Op emits an instruction without operands.
func (a *Assembler) Op(op m.Opcode) *Assembler {
	return a.emit(m.NewInstruction(op))
}

// Var emits a load or store of a local slot.
func (a *Assembler) Var(op m.Opcode, slot int) *Assembler {
	in := m.NewInstruction(op)
	in.Local = slot

	return a.emit(in)
}

// Push emits bipush or sipush.
func (a *Assembler) Push(op m.Opcode, v int) *Assembler {
	in := m.NewInstruction(op)
	in.Const = int64(v)

	return a.emit(in)
}

// Iinc emits an increment of slot by delta.
func (a *Assembler) Iinc(slot, delta int) *Assembler {
	in := m.NewInstruction(m.IINC)
	in.Local = slot
	in.Const = int64(delta)

	return a.emit(in)
}

// Jump emits a branch to label.
func (a *Assembler) Jump(op m.Opcode, label string) *Assembler {
	a.jumps[len(a.insns)] = label
	return a.emit(m.NewInstruction(op))
}

// Field emits a field access.
func (a *Assembler) Field(op m.Opcode, owner, name, desc string) *Assembler {
	in := m.NewInstruction(op)
	in.Ref = &m.MemberRef{Owner: owner, Name: name, Descriptor: desc}

	return a.emit(in)
}

// Invoke emits a method call.
func (a *Assembler) Invoke(op m.Opcode, owner, name, desc string) *Assembler {
	in := m.NewInstruction(op)
	in.Ref = &m.MemberRef{Owner: owner, Name: name, Descriptor: desc, Interface: op == m.INVOKEINTERFACE}

	return a.emit(in)
}

// Ldc emits a constant load.
func (a *Assembler) Ldc(c m.Constant) *Assembler {
	op := m.LDC
	if c.Wide() {
		op = m.LDC2_W
	}

	in := m.NewInstruction(op)
	in.LDC = &c

	return a.emit(in)
}

// Build resolves labels and assigns indices and byte offsets.
func (a *Assembler) Build() ([]m.Instruction, error) {
	if a.err != nil {
		return nil, a.err
	}

	out := make([]m.Instruction, len(a.insns))
	copy(out, a.insns)

	for i := range out {
		out[i].Index = i

		label, ok := a.jumps[i]
		if !ok {
			continue
		}

		target, ok := a.labels[label]
		if !ok || target >= len(out) {
			return nil, fmt.Errorf("instruction %d: undefined label %q", i, label)
		}

		out[i].Target = target
	}

	offsets, err := classfile.Layout(out)
	if err != nil {
		return nil, err
	}

	for i := range out {
		out[i].Offset = offsets[i]
	}

	return out, nil
}

// Method builds a method around the assembled body.
func (a *Assembler) Method(owner, name, desc string, access uint16, maxStack, maxLocals int) (*m.Method, error) {
	insns, err := a.Build()
	if err != nil {
		return nil, fmt.Errorf("assemble %s.%s: %w", owner, name, err)
	}

	return &m.Method{
		Owner:        owner,
		Name:         name,
		Descriptor:   desc,
		Access:       access,
		MaxStack:     maxStack,
		MaxLocals:    maxLocals,
		Instructions: insns,
	}, nil
}
