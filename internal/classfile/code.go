package classfile

import (
	"encoding/binary"
	"fmt"

	"gooze.dev/pkg/classmut/internal/model"
)

// rawBranch holds a decoded instruction's byte-offset targets until every
// instruction boundary is known.
type rawBranch struct {
	target  int
	dflt    int
	targets []int
}

type codeDecoder struct {
	code []byte
	pool constantPool
	pos  int
}

func (d *codeDecoder) need(n int) error {
	if d.pos+n > len(d.code) {
		return fmt.Errorf("instruction at %d truncated", d.pos)
	}

	return nil
}

func (d *codeDecoder) u1() uint8 {
	v := d.code[d.pos]
	d.pos++

	return v
}

func (d *codeDecoder) u2() uint16 {
	v := binary.BigEndian.Uint16(d.code[d.pos:])
	d.pos += 2

	return v
}

func (d *codeDecoder) s4() int32 {
	v := int32(binary.BigEndian.Uint32(d.code[d.pos:]))
	d.pos += 4

	return v
}

// decodeCode turns a code array into instructions with branch targets
// resolved to instruction indices. It also returns the byte offset to
// instruction index table, with len(code) mapped to len(instructions).
func decodeCode(code []byte, pool constantPool) ([]model.Instruction, map[int]int, error) {
	d := &codeDecoder{code: code, pool: pool}

	var (
		insns []model.Instruction
		raws  []rawBranch
	)

	offsets := make(map[int]int)

	for d.pos < len(code) {
		start := d.pos

		in, raw, err := d.decodeOne()
		if err != nil {
			return nil, nil, malformed(-1, "code offset %d: %v", start, err)
		}

		in.Index = len(insns)
		in.Offset = start
		offsets[start] = in.Index
		insns = append(insns, in)
		raws = append(raws, raw)
	}

	offsets[len(code)] = len(insns)

	resolve := func(from, byteTarget int) (int, error) {
		idx, ok := offsets[byteTarget]
		if !ok || idx == len(insns) {
			return 0, malformed(-1, "branch at code offset %d targets %d, not an instruction boundary", from, byteTarget)
		}

		return idx, nil
	}

	for i := range insns {
		in := &insns[i]
		raw := raws[i]

		switch {
		case in.Op.IsJump():
			t, err := resolve(in.Offset, raw.target)
			if err != nil {
				return nil, nil, err
			}

			in.Target = t
		case in.Op.IsSwitch():
			dflt, err := resolve(in.Offset, raw.dflt)
			if err != nil {
				return nil, nil, err
			}

			in.Table.Default = dflt

			for j, bt := range raw.targets {
				t, err := resolve(in.Offset, bt)
				if err != nil {
					return nil, nil, err
				}

				in.Table.Targets[j] = t
			}
		}
	}

	return insns, offsets, nil
}

func (d *codeDecoder) decodeOne() (model.Instruction, rawBranch, error) {
	start := d.pos
	op := model.Opcode(d.u1())

	if !op.Valid() {
		return model.Instruction{}, rawBranch{}, fmt.Errorf("unknown opcode 0x%02x", uint8(op))
	}

	in := model.NewInstruction(op)

	var raw rawBranch

	var err error

	switch op.Format() {
	case model.FormatNone:
	case model.FormatByte, model.FormatNewArray:
		if err = d.need(1); err == nil {
			v := d.u1()
			if op == model.BIPUSH {
				in.Const = int64(int8(v))
			} else {
				in.Const = int64(v)
			}
		}
	case model.FormatShort:
		if err = d.need(2); err == nil {
			in.Const = int64(int16(d.u2()))
		}
	case model.FormatLocal:
		if err = d.need(1); err == nil {
			in.Local = int(d.u1())
		}
	case model.FormatIinc:
		if err = d.need(2); err == nil {
			in.Local = int(d.u1())
			in.Const = int64(int8(d.u1()))
		}
	case model.FormatConstU1:
		if err = d.need(1); err == nil {
			in.LDC, err = d.pool.loadable(uint16(d.u1()), false)
		}
	case model.FormatConstU2:
		if err = d.need(2); err == nil {
			in.LDC, err = d.pool.loadable(d.u2(), op == model.LDC2_W)
		}
	case model.FormatBranch:
		if err = d.need(2); err == nil {
			raw.target = start + int(int16(d.u2()))
		}
	case model.FormatBranchWide:
		if err = d.need(4); err == nil {
			raw.target = start + int(d.s4())
		}
	case model.FormatTableSwitch, model.FormatLookupSwitch:
		err = d.decodeSwitch(start, &in, &raw)
	case model.FormatField:
		if err = d.need(2); err == nil {
			in.Ref, err = d.pool.memberRef(d.u2(), tagFieldref)
		}
	case model.FormatMethod:
		if err = d.need(2); err == nil {
			in.Ref, err = d.pool.memberRef(d.u2(), tagMethodref, tagInterfaceMethodref)
		}
	case model.FormatInterfaceMethod:
		if err = d.need(4); err == nil {
			in.Ref, err = d.pool.memberRef(d.u2(), tagInterfaceMethodref)
			in.Const = int64(d.u1())
			d.pos++
		}
	case model.FormatDynamic:
		if err = d.need(4); err == nil {
			in.Dyn, err = d.pool.dynamic(d.u2(), tagInvokeDynamic)
			d.pos += 2
		}
	case model.FormatClass:
		if err = d.need(2); err == nil {
			in.Class, err = d.pool.className(d.u2())
		}
	case model.FormatMultiANewArray:
		if err = d.need(3); err == nil {
			in.Class, err = d.pool.className(d.u2())
			in.Const = int64(d.u1())

			if err == nil && in.Const == 0 {
				err = fmt.Errorf("multianewarray with zero dimensions")
			}
		}
	case model.FormatWide:
		in, err = d.decodeWide()
	}

	return in, raw, err
}

func (d *codeDecoder) decodeWide() (model.Instruction, error) {
	if err := d.need(1); err != nil {
		return model.Instruction{}, err
	}

	op := model.Opcode(d.u1())
	in := model.NewInstruction(op)

	switch {
	case op == model.IINC:
		if err := d.need(4); err != nil {
			return in, err
		}

		in.Local = int(d.u2())
		in.Const = int64(int16(d.u2()))
	case op.Format() == model.FormatLocal:
		if err := d.need(2); err != nil {
			return in, err
		}

		in.Local = int(d.u2())
	default:
		return in, fmt.Errorf("wide applied to %s", op)
	}

	return in, nil
}

func (d *codeDecoder) decodeSwitch(start int, in *model.Instruction, raw *rawBranch) error {
	d.pos += (4 - d.pos%4) % 4

	if err := d.need(8); err != nil {
		return err
	}

	table := &model.Switch{}
	raw.dflt = start + int(d.s4())

	if in.Op == model.TABLESWITCH {
		if err := d.need(8); err != nil {
			return err
		}

		table.Low = d.s4()
		table.High = d.s4()

		if table.High < table.Low {
			return fmt.Errorf("tableswitch high %d below low %d", table.High, table.Low)
		}

		n := int(int64(table.High) - int64(table.Low) + 1)
		if n > (len(d.code)-d.pos)/4 {
			return fmt.Errorf("tableswitch with %d entries overruns code", n)
		}

		for i := 0; i < n; i++ {
			table.Keys = append(table.Keys, table.Low+int32(i))
			raw.targets = append(raw.targets, start+int(d.s4()))
		}
	} else {
		n := int(d.s4())
		if n < 0 || n > (len(d.code)-d.pos)/8 {
			return fmt.Errorf("lookupswitch with %d pairs overruns code", n)
		}

		for i := 0; i < n; i++ {
			key := d.s4()
			if i > 0 && key <= table.Keys[i-1] {
				return fmt.Errorf("lookupswitch keys not sorted")
			}

			table.Keys = append(table.Keys, key)
			raw.targets = append(raw.targets, start+int(d.s4()))
		}
	}

	table.Targets = make([]int, len(raw.targets))
	in.Table = table

	return nil
}
