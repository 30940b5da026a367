package model

import "fmt"

// OperatorID names a mutation operator.
type OperatorID string

// Edit replaces Remove instructions starting at At with Insert. Branch
// targets inside Insert refer to indices of the original sequence.
type Edit struct {
	At     int
	Remove int
	Insert []Instruction
}

// MapIndex translates an index of the original sequence into the edited one.
// Removed positions map to the first instruction that replaced them.
func (e Edit) MapIndex(orig int) int {
	switch {
	case orig < e.At:
		return orig
	case orig < e.At+e.Remove:
		return e.At
	default:
		return orig - e.Remove + len(e.Insert)
	}
}

// Delta returns the change in sequence length.
func (e Edit) Delta() int {
	return len(e.Insert) - e.Remove
}

// Mutant is a method body after exactly one edit. The original method is
// never modified.
type Mutant struct {
	Method       *Method
	Operator     OperatorID
	Index        int
	Description  string
	Edit         Edit
	Instructions []Instruction
	Handlers     []ExceptionHandler
}

// ID returns a stable identifier for the mutant.
func (mu *Mutant) ID() string {
	return fmt.Sprintf("%s@%d:%s", mu.Method, mu.Index, mu.Operator)
}

// MapIndex translates an original instruction index into the mutant.
func (mu *Mutant) MapIndex(orig int) int {
	return mu.Edit.MapIndex(orig)
}

// Body returns the mutant as a standalone method sharing the original's
// identity and bounds.
func (mu *Mutant) Body() *Method {
	body := *mu.Method
	body.Instructions = mu.Instructions
	body.Handlers = mu.Handlers

	return &body
}
