// Package domain contains the mutation engine, the infinite-loop filter and
// the analysis workflow that drives them over classes.
package domain

import (
	"cmp"
	"fmt"
	"log/slog"
	"slices"

	"gooze.dev/pkg/classmut/internal/classfile"
	"gooze.dev/pkg/classmut/internal/domain/mutagens"
	"gooze.dev/pkg/classmut/internal/match"
	m "gooze.dev/pkg/classmut/internal/model"
)

// Engine produces verified mutants of a method.
type Engine interface {
	// Mutate applies every operator at every trigger site. Mutants are
	// ordered by site, then by operator order. Mutants that fail
	// verification are dropped.
	Mutate(method *m.Method, operators ...mutagens.Operator) []*m.Mutant
}

// DropFunc observes a mutant that failed verification.
type DropFunc func(method *m.Method, operator m.OperatorID, site int, err error)

type engine struct {
	onDrop DropFunc
}

// NewEngine creates an Engine. onDrop may be nil.
func NewEngine(onDrop DropFunc) Engine {
	return &engine{onDrop: onDrop}
}

type candidate struct {
	site  int
	order int
	op    mutagens.Operator
	edit  m.Edit
}

func (e *engine) Mutate(method *m.Method, operators ...mutagens.Operator) []*m.Mutant {
	if method == nil || !method.HasCode() {
		return nil
	}

	var candidates []candidate

	for order, op := range operators {
		for _, span := range match.FindAll(op.Trigger(), method.Instructions) {
			edit, ok := op.Apply(method, span)
			if !ok {
				continue
			}

			candidates = append(candidates, candidate{site: span.Start, order: order, op: op, edit: edit})
		}
	}

	slices.SortStableFunc(candidates, func(a, b candidate) int {
		if c := cmp.Compare(a.site, b.site); c != 0 {
			return c
		}

		return cmp.Compare(a.order, b.order)
	})

	mutants := make([]*m.Mutant, 0, len(candidates))

	for _, c := range candidates {
		mutant, err := buildMutant(method, c)
		if err != nil {
			slog.Debug("Dropped invalid mutant", "method", method.String(), "operator", c.op.ID(), "site", c.site, "error", err)

			if e.onDrop != nil {
				e.onDrop(method, c.op.ID(), c.site, err)
			}

			continue
		}

		mutants = append(mutants, mutant)
	}

	return mutants
}

func buildMutant(method *m.Method, c candidate) (*m.Mutant, error) {
	insns, handlers, err := ApplyEdit(method.Instructions, method.Handlers, c.edit)
	if err != nil {
		return nil, err
	}

	if err := Verify(insns, handlers, method.MaxStack); err != nil {
		return nil, err
	}

	return &m.Mutant{
		Method:       method,
		Operator:     c.op.ID(),
		Index:        c.site,
		Description:  fmt.Sprintf("%s: %s", c.op.Description(), method.Instructions[c.site]),
		Edit:         c.edit,
		Instructions: insns,
		Handlers:     handlers,
	}, nil
}

// ApplyEdit returns a copy of insns with edit applied. Every branch target,
// including those of inserted instructions, is an original index and is
// relinked through the edit's index map. Handlers whose range disappears are
// dropped. Indices and byte offsets of the result are recomputed.
func ApplyEdit(insns []m.Instruction, handlers []m.ExceptionHandler, edit m.Edit) ([]m.Instruction, []m.ExceptionHandler, error) {
	if edit.At < 0 || edit.Remove < 0 || edit.At+edit.Remove > len(insns) {
		return nil, nil, fmt.Errorf("edit [%d,+%d) outside [0,%d)", edit.At, edit.Remove, len(insns))
	}

	out := make([]m.Instruction, 0, len(insns)+edit.Delta())
	out = append(out, insns[:edit.At]...)
	out = append(out, edit.Insert...)
	out = append(out, insns[edit.At+edit.Remove:]...)

	for i := range out {
		relink(&out[i], edit)
		out[i].Index = i
	}

	offsets, err := classfile.Layout(out)
	if err != nil {
		return nil, nil, err
	}

	for i := range out {
		out[i].Offset = offsets[i]
	}

	relinked := make([]m.ExceptionHandler, 0, len(handlers))

	for _, h := range handlers {
		start, end := edit.MapIndex(h.Start), edit.MapIndex(h.End)
		if start >= end {
			continue
		}

		relinked = append(relinked, m.ExceptionHandler{
			Start:     start,
			End:       end,
			Handler:   edit.MapIndex(h.Handler),
			CatchType: h.CatchType,
		})
	}

	return out, relinked, nil
}

func relink(in *m.Instruction, edit m.Edit) {
	if in.HasTarget() {
		in.Target = edit.MapIndex(in.Target)
	}

	if in.Table == nil {
		return
	}

	table := *in.Table
	table.Default = edit.MapIndex(table.Default)
	table.Targets = make([]int, len(in.Table.Targets))

	for i, t := range in.Table.Targets {
		table.Targets[i] = edit.MapIndex(t)
	}

	in.Table = &table
}
