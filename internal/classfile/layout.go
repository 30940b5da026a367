package classfile

import (
	"fmt"
	"math"

	"gooze.dev/pkg/classmut/internal/model"
)

// MaxCodeLength is the largest code array a method may carry.
const MaxCodeLength = 65535

// Layout assigns byte offsets to insns and checks that every branch target
// is a valid instruction index whose relative offset fits the instruction's
// encoding. The returned slice has len(insns)+1 entries; the last is the
// code length.
func Layout(insns []model.Instruction) ([]int, error) {
	offsets := make([]int, len(insns)+1)
	pos := 0

	for i, in := range insns {
		offsets[i] = pos

		size, err := instructionSize(in, pos)
		if err != nil {
			return nil, fmt.Errorf("instruction %d (%s): %w", i, in.Op, err)
		}

		pos += size
	}

	offsets[len(insns)] = pos

	if pos == 0 || pos > MaxCodeLength {
		return nil, fmt.Errorf("code length %d out of range", pos)
	}

	for i, in := range insns {
		if err := checkTargets(in, i, offsets, len(insns)); err != nil {
			return nil, err
		}
	}

	return offsets, nil
}

func checkTargets(in model.Instruction, i int, offsets []int, n int) error {
	check := func(target int, limit int64) error {
		if target < 0 || target >= n {
			return fmt.Errorf("instruction %d (%s): target %d outside [0,%d)", i, in.Op, target, n)
		}

		delta := int64(offsets[target] - offsets[i])
		if delta < -limit-1 || delta > limit {
			return fmt.Errorf("instruction %d (%s): branch offset %d does not fit", i, in.Op, delta)
		}

		return nil
	}

	switch in.Op.Format() {
	case model.FormatBranch:
		return check(in.Target, math.MaxInt16)
	case model.FormatBranchWide:
		return check(in.Target, math.MaxInt32)
	case model.FormatTableSwitch, model.FormatLookupSwitch:
		if in.Table == nil {
			return fmt.Errorf("instruction %d (%s): missing jump table", i, in.Op)
		}

		if err := check(in.Table.Default, math.MaxInt32); err != nil {
			return err
		}

		for _, t := range in.Table.Targets {
			if err := check(t, math.MaxInt32); err != nil {
				return err
			}
		}
	}

	return nil
}

func needsWide(in model.Instruction) bool {
	switch in.Op.Format() {
	case model.FormatLocal:
		return in.Local > math.MaxUint8
	case model.FormatIinc:
		return in.Local > math.MaxUint8 || in.Const < math.MinInt8 || in.Const > math.MaxInt8
	}

	return false
}

func instructionSize(in model.Instruction, pos int) (int, error) {
	switch in.Op.Format() {
	case model.FormatNone:
		return 1, nil
	case model.FormatByte, model.FormatNewArray, model.FormatConstU1:
		return 2, nil
	case model.FormatShort, model.FormatConstU2, model.FormatBranch, model.FormatField,
		model.FormatMethod, model.FormatClass:
		return 3, nil
	case model.FormatLocal:
		if in.Local < 0 || in.Local > math.MaxUint16 {
			return 0, fmt.Errorf("local slot %d out of range", in.Local)
		}

		if needsWide(in) {
			return 4, nil
		}

		return 2, nil
	case model.FormatIinc:
		if in.Local < 0 || in.Local > math.MaxUint16 || in.Const < math.MinInt16 || in.Const > math.MaxInt16 {
			return 0, fmt.Errorf("iinc %d %d out of range", in.Local, in.Const)
		}

		if needsWide(in) {
			return 6, nil
		}

		return 3, nil
	case model.FormatMultiANewArray:
		return 4, nil
	case model.FormatBranchWide, model.FormatInterfaceMethod, model.FormatDynamic:
		return 5, nil
	case model.FormatTableSwitch, model.FormatLookupSwitch:
		if in.Table == nil || len(in.Table.Keys) != len(in.Table.Targets) {
			return 0, fmt.Errorf("inconsistent jump table")
		}

		pad := (4 - (pos+1)%4) % 4
		if in.Op == model.TABLESWITCH {
			return 1 + pad + 12 + 4*len(in.Table.Targets), nil
		}

		return 1 + pad + 8 + 8*len(in.Table.Targets), nil
	}

	return 0, fmt.Errorf("cannot encode %s", in.Op)
}
