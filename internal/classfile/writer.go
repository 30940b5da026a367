package classfile

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"gooze.dev/pkg/classmut/internal/model"
)

// Write encodes unit as a class file. The constant pool is rebuilt from the
// operands; only Code and ConstantValue attributes are emitted, so stack map
// frames and debug attributes are not carried over. Classes using invokedynamic or dynamic
// constants cannot be written because bootstrap methods are not retained.
func Write(unit *model.ClassUnit) ([]byte, error) {
	pool := newPoolBuilder()

	this := pool.class(unit.Name)

	var super uint16
	if unit.SuperName != "" {
		super = pool.class(unit.SuperName)
	}

	var body bytes.Buffer

	put := func(v any) {
		_ = binary.Write(&body, binary.BigEndian, v)
	}

	put(unit.Access)
	put(this)
	put(super)
	put(uint16(len(unit.Interfaces)))

	for _, iface := range unit.Interfaces {
		put(pool.class(iface))
	}

	put(uint16(len(unit.Fields)))

	for _, f := range unit.Fields {
		put(f.Access)
		put(pool.utf8(f.Name))
		put(pool.utf8(f.Descriptor))

		if f.Value == nil {
			put(uint16(0))
			continue
		}

		idx, err := pool.constant(*f.Value)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", f.Name, err)
		}

		put(uint16(1))
		put(pool.utf8("ConstantValue"))
		put(uint32(2))
		put(idx)
	}

	methods := unit.AllMethods()
	put(uint16(len(methods)))

	for _, m := range methods {
		if err := writeMethod(&body, pool, m); err != nil {
			return nil, fmt.Errorf("method %s: %w", m.Key(), err)
		}
	}

	put(uint16(0))

	if len(pool.entries) > math.MaxUint16 {
		return nil, fmt.Errorf("constant pool overflow: %d entries", len(pool.entries))
	}

	var out bytes.Buffer

	_ = binary.Write(&out, binary.BigEndian, uint32(magic))
	_ = binary.Write(&out, binary.BigEndian, unit.MinorVersion)
	_ = binary.Write(&out, binary.BigEndian, unit.MajorVersion)
	pool.writeTo(&out)
	out.Write(body.Bytes())

	return out.Bytes(), nil
}

// framelessMajor is the last class-file version the JVM verifies without
// stack map frames.
const framelessMajor = 49

// ErrNeedsFrames is returned for mutants of classes that use features newer
// than framelessMajor, which cannot be written without stack map frames.
var ErrNeedsFrames = errors.New("class needs stack map frames")

// WriteMutant encodes unit with the mutant's body in place of the method it
// was derived from. Newer classes are written as version 49 so the JVM
// verifies them without the stack map frames Write does not produce.
func WriteMutant(unit *model.ClassUnit, mutant *model.Mutant) ([]byte, error) {
	mutated, err := unit.WithMethod(mutant.Body())
	if err != nil {
		return nil, fmt.Errorf("mutant %s: %w", mutant.ID(), err)
	}

	if mutated.MajorVersion > framelessMajor {
		if err := checkFrameless(mutated); err != nil {
			return nil, fmt.Errorf("mutant %s: %w", mutant.ID(), err)
		}

		mutated.MajorVersion = framelessMajor
		mutated.MinorVersion = 0
	}

	return Write(mutated)
}

// checkFrameless rejects classes relying on features introduced after
// framelessMajor.
func checkFrameless(unit *model.ClassUnit) error {
	isInterface := unit.Access&model.AccInterface != 0

	for _, method := range unit.AllMethods() {
		if isInterface && method.HasCode() && method.Name != "<clinit>" {
			return fmt.Errorf("%w: interface method %s has a body", ErrNeedsFrames, method.Key())
		}

		for _, in := range method.Instructions {
			switch {
			case in.Op == model.INVOKEDYNAMIC:
				return fmt.Errorf("%w: %s uses invokedynamic", ErrNeedsFrames, method.Key())
			case in.LDC != nil && in.LDC.Kind >= model.ConstMethodType:
				return fmt.Errorf("%w: %s loads a %s constant", ErrNeedsFrames, method.Key(), in.Op)
			case (in.Op == model.INVOKESTATIC || in.Op == model.INVOKESPECIAL) && in.Ref != nil && in.Ref.Interface:
				return fmt.Errorf("%w: %s calls interface method %s", ErrNeedsFrames, method.Key(), in.Ref)
			}
		}
	}

	return nil
}

func writeMethod(w *bytes.Buffer, pool *poolBuilder, m *model.Method) error {
	put := func(v any) {
		_ = binary.Write(w, binary.BigEndian, v)
	}

	put(m.Access)
	put(pool.utf8(m.Name))
	put(pool.utf8(m.Descriptor))

	if !m.HasCode() {
		put(uint16(0))
		return nil
	}

	code, err := encodeCode(m.Instructions, pool)
	if err != nil {
		return err
	}

	offsets := code.offsets

	var attr bytes.Buffer

	_ = binary.Write(&attr, binary.BigEndian, uint16(m.MaxStack))
	_ = binary.Write(&attr, binary.BigEndian, uint16(m.MaxLocals))
	_ = binary.Write(&attr, binary.BigEndian, uint32(len(code.bytes)))
	attr.Write(code.bytes)
	_ = binary.Write(&attr, binary.BigEndian, uint16(len(m.Handlers)))

	for _, h := range m.Handlers {
		if h.Start < 0 || h.End > len(code.insns) || h.Start >= h.End || h.Handler < 0 || h.Handler >= len(code.insns) {
			return fmt.Errorf("exception handler [%d,%d)->%d out of range", h.Start, h.End, h.Handler)
		}

		var catchType uint16
		if h.CatchType != "" {
			catchType = pool.class(h.CatchType)
		}

		_ = binary.Write(&attr, binary.BigEndian, uint16(offsets[h.Start]))
		_ = binary.Write(&attr, binary.BigEndian, uint16(offsets[h.End]))
		_ = binary.Write(&attr, binary.BigEndian, uint16(offsets[h.Handler]))
		_ = binary.Write(&attr, binary.BigEndian, catchType)
	}

	_ = binary.Write(&attr, binary.BigEndian, uint16(0))

	put(uint16(1))
	put(pool.utf8("Code"))
	put(uint32(attr.Len()))
	w.Write(attr.Bytes())

	return nil
}

type encodedCode struct {
	insns   []model.Instruction
	offsets []int
	bytes   []byte
}

// encodeCode interns the operands of insns into pool and encodes the code
// array. ldc is widened to ldc_w when its constant lands above index 255.
func encodeCode(insns []model.Instruction, pool *poolBuilder) (encodedCode, error) {
	work := make([]model.Instruction, len(insns))
	copy(work, insns)

	indices := make([]uint16, len(work))

	for i := range work {
		idx, err := pool.operand(work[i])
		if err != nil {
			return encodedCode{}, fmt.Errorf("instruction %d (%s): %w", i, work[i].Op, err)
		}

		indices[i] = idx

		if work[i].Op == model.LDC && idx > math.MaxUint8 {
			work[i].Op = model.LDC_W
		}
	}

	offsets, err := Layout(work)
	if err != nil {
		return encodedCode{}, err
	}

	var buf bytes.Buffer

	for i, in := range work {
		emit(&buf, in, indices[i], offsets, i)
	}

	return encodedCode{insns: work, offsets: offsets, bytes: buf.Bytes()}, nil
}

func emit(buf *bytes.Buffer, in model.Instruction, cpIndex uint16, offsets []int, i int) {
	u1 := func(v uint8) { buf.WriteByte(v) }
	u2 := func(v uint16) { _ = binary.Write(buf, binary.BigEndian, v) }
	s4 := func(v int32) { _ = binary.Write(buf, binary.BigEndian, v) }
	rel := func(target int) int { return offsets[target] - offsets[i] }

	if needsWide(in) {
		u1(uint8(model.WIDE))
		u1(uint8(in.Op))
		u2(uint16(in.Local))

		if in.Op == model.IINC {
			u2(uint16(int16(in.Const)))
		}

		return
	}

	u1(uint8(in.Op))

	switch in.Op.Format() {
	case model.FormatByte, model.FormatNewArray:
		u1(uint8(in.Const))
	case model.FormatShort:
		u2(uint16(int16(in.Const)))
	case model.FormatLocal:
		u1(uint8(in.Local))
	case model.FormatIinc:
		u1(uint8(in.Local))
		u1(uint8(int8(in.Const)))
	case model.FormatConstU1:
		u1(uint8(cpIndex))
	case model.FormatConstU2, model.FormatField, model.FormatMethod, model.FormatClass:
		u2(cpIndex)
	case model.FormatBranch:
		u2(uint16(int16(rel(in.Target))))
	case model.FormatBranchWide:
		s4(int32(rel(in.Target)))
	case model.FormatInterfaceMethod:
		u2(cpIndex)

		count := in.Const
		if count == 0 && in.Ref != nil {
			args, _, _ := model.MethodSlots(in.Ref.Descriptor)
			count = int64(args + 1)
		}

		u1(uint8(count))
		u1(0)
	case model.FormatDynamic:
		u2(cpIndex)
		u2(0)
	case model.FormatMultiANewArray:
		u2(cpIndex)
		u1(uint8(in.Const))
	case model.FormatTableSwitch, model.FormatLookupSwitch:
		for buf.Len()%4 != 0 {
			u1(0)
		}

		s4(int32(rel(in.Table.Default)))

		if in.Op == model.TABLESWITCH {
			s4(in.Table.Low)
			s4(in.Table.High)

			for _, t := range in.Table.Targets {
				s4(int32(rel(t)))
			}

			return
		}

		s4(int32(len(in.Table.Keys)))

		for k, key := range in.Table.Keys {
			s4(key)
			s4(int32(rel(in.Table.Targets[k])))
		}
	}
}
