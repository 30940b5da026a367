package domain

import (
	"fmt"

	"gooze.dev/pkg/classmut/internal/classfile"
	m "gooze.dev/pkg/classmut/internal/model"
)

// Verify checks that a method body is structurally valid: every branch
// target and handler lies inside the sequence and its offset fits the
// encoding, and along every path the operand stack depth stays within
// [0, maxStack] and agrees wherever paths merge. Handlers start with one
// word on the stack.
func Verify(insns []m.Instruction, handlers []m.ExceptionHandler, maxStack int) error {
	n := len(insns)
	if n == 0 {
		return fmt.Errorf("empty method body")
	}

	if _, err := classfile.Layout(insns); err != nil {
		return err
	}

	depth := make([]int, n)
	for i := range depth {
		depth[i] = -1
	}

	var work []int

	enter := func(from, at, d int) error {
		if at < 0 || at >= n {
			return fmt.Errorf("instruction %d: control flows to %d outside [0,%d)", from, at, n)
		}

		switch depth[at] {
		case -1:
			depth[at] = d
			work = append(work, at)
		case d:
		default:
			return fmt.Errorf("instruction %d: stack depth %d at merge, want %d", at, d, depth[at])
		}

		return nil
	}

	if err := enter(0, 0, 0); err != nil {
		return err
	}

	for i, h := range handlers {
		if h.Start < 0 || h.End > n || h.Start >= h.End {
			return fmt.Errorf("handler %d: range [%d,%d) outside [0,%d]", i, h.Start, h.End, n)
		}

		if err := enter(h.Start, h.Handler, 1); err != nil {
			return fmt.Errorf("handler %d: %w", i, err)
		}
	}

	for len(work) > 0 {
		i := work[len(work)-1]
		work = work[:len(work)-1]
		in := insns[i]

		pop, push, err := in.StackEffect()
		if err != nil {
			return fmt.Errorf("instruction %d: %w", i, err)
		}

		if pop < 0 || push < 0 {
			return fmt.Errorf("instruction %d (%s): unresolved stack effect", i, in.Op)
		}

		d := depth[i]
		if d < pop {
			return fmt.Errorf("instruction %d (%s): stack underflow, depth %d pops %d", i, in.Op, d, pop)
		}

		next := d - pop + push
		if next > maxStack {
			return fmt.Errorf("instruction %d (%s): stack depth %d exceeds max %d", i, in.Op, next, maxStack)
		}

		for _, t := range in.Successors() {
			if err := enter(i, t, next); err != nil {
				return err
			}
		}

		switch {
		case in.Op.IsSubroutineJump():
			// Execution resumes after the jsr once the subroutine returns.
			err = enter(i, i+1, d)
		case in.Op.FallsThrough():
			err = enter(i, i+1, next)
		}

		if err != nil {
			return err
		}
	}

	return nil
}
