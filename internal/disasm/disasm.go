// Package disasm formats method bodies for humans. Nothing in the analysis
// depends on its output.
package disasm

import (
	"fmt"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
	m "gooze.dev/pkg/classmut/internal/model"
)

// Method renders a method header, its instructions and its handlers.
func Method(method *m.Method) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s  stack=%d locals=%d\n", method, method.MaxStack, method.MaxLocals)
	b.WriteString(Instructions(method.Instructions, method.Handlers))

	return b.String()
}

// Instructions renders one instruction per line, prefixed by its index.
func Instructions(insns []m.Instruction, handlers []m.ExceptionHandler) string {
	var b strings.Builder

	for i, in := range insns {
		fmt.Fprintf(&b, "  L%-4d %s\n", i, in)
	}

	for _, h := range handlers {
		catch := h.CatchType
		if catch == "" {
			catch = "any"
		}

		fmt.Fprintf(&b, "  try L%d-L%d catch %s -> L%d\n", h.Start, h.End, catch, h.Handler)
	}

	return b.String()
}

// Diff returns a unified diff between a method and one of its mutants.
func Diff(original *m.Method, mutant *m.Mutant) (string, error) {
	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(Instructions(original.Instructions, original.Handlers)),
		B:        difflib.SplitLines(Instructions(mutant.Instructions, mutant.Handlers)),
		FromFile: original.String(),
		ToFile:   mutant.ID(),
		Context:  2,
	}

	text, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return "", fmt.Errorf("diff %s: %w", mutant.ID(), err)
	}

	return text, nil
}
