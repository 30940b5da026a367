// Package mutagens holds the bytecode mutation operators.
package mutagens

import (
	"fmt"

	"gooze.dev/pkg/classmut/internal/match"
	m "gooze.dev/pkg/classmut/internal/model"
)

// Operator identifies trigger sites in a method body and produces one edit
// per site.
type Operator interface {
	ID() m.OperatorID
	Description() string
	Trigger() match.Spec
	// Apply returns the edit for the matched site. ok is false when the
	// site cannot be mutated after all.
	Apply(method *m.Method, site match.Span) (edit m.Edit, ok bool)
}

// Operator ids.
const (
	RemoveIncrements     m.OperatorID = "REMOVE_INCREMENTS"
	NegateConditionals   m.OperatorID = "NEGATE_CONDITIONALS"
	ConditionalsBoundary m.OperatorID = "CONDITIONALS_BOUNDARY"
	Math                 m.OperatorID = "MATH"
	RemoveConditionals   m.OperatorID = "REMOVE_CONDITIONALS"
	VoidMethodCalls      m.OperatorID = "VOID_METHOD_CALLS"
)

type operator struct {
	id      m.OperatorID
	desc    string
	trigger match.Spec
	apply   func(method *m.Method, site match.Span) (m.Edit, bool)
}

// New builds an operator from its parts.
func New(id m.OperatorID, desc string, trigger match.Spec, apply func(*m.Method, match.Span) (m.Edit, bool)) Operator {
	return &operator{id: id, desc: desc, trigger: trigger, apply: apply}
}

func (o *operator) ID() m.OperatorID { return o.id }

func (o *operator) Description() string { return o.desc }

func (o *operator) Trigger() match.Spec { return o.trigger }

func (o *operator) Apply(method *m.Method, site match.Span) (m.Edit, bool) {
	if method == nil || site.Start < 0 || site.Start >= len(method.Instructions) {
		return m.Edit{}, false
	}

	return o.apply(method, site)
}

// Registry holds operators in registration order.
type Registry struct {
	ops  []Operator
	byID map[m.OperatorID]int
}

// NewRegistry registers ops in the given order. Ids must be unique.
func NewRegistry(ops ...Operator) (*Registry, error) {
	r := &Registry{byID: make(map[m.OperatorID]int, len(ops))}

	for _, op := range ops {
		if _, dup := r.byID[op.ID()]; dup {
			return nil, fmt.Errorf("duplicate operator %s", op.ID())
		}

		r.byID[op.ID()] = len(r.ops)
		r.ops = append(r.ops, op)
	}

	return r, nil
}

// DefaultRegistry returns every built-in operator.
func DefaultRegistry() *Registry {
	r, err := NewRegistry(
		NewRemoveIncrements(),
		NewNegateConditionals(),
		NewConditionalsBoundary(),
		NewMath(),
		NewRemoveConditionals(),
		NewVoidMethodCalls(),
	)
	if err != nil {
		panic(err)
	}

	return r
}

// All returns the registered operators in registration order.
func (r *Registry) All() []Operator {
	out := make([]Operator, len(r.ops))
	copy(out, r.ops)

	return out
}

// IDs returns the registered operator ids in registration order.
func (r *Registry) IDs() []m.OperatorID {
	ids := make([]m.OperatorID, len(r.ops))
	for i, op := range r.ops {
		ids[i] = op.ID()
	}

	return ids
}

// Resolve returns the operators named by ids, in registration order. No ids
// selects every operator.
func (r *Registry) Resolve(ids ...m.OperatorID) ([]Operator, error) {
	if len(ids) == 0 {
		return r.All(), nil
	}

	selected := make([]bool, len(r.ops))

	for _, id := range ids {
		idx, ok := r.byID[id]
		if !ok {
			return nil, fmt.Errorf("unsupported operator: %s", id)
		}

		selected[idx] = true
	}

	var out []Operator

	for i, op := range r.ops {
		if selected[i] {
			out = append(out, op)
		}
	}

	return out, nil
}

func replaceOne(site int, in m.Instruction) m.Edit {
	return m.Edit{At: site, Remove: 1, Insert: []m.Instruction{in}}
}

func pops(words []int) []m.Instruction {
	out := make([]m.Instruction, 0, len(words))

	for _, w := range words {
		if w == 2 {
			out = append(out, m.NewInstruction(m.POP2))
		} else {
			out = append(out, m.NewInstruction(m.POP))
		}
	}

	return out
}
