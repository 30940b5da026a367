package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gooze.dev/pkg/classmut/internal/domain"
	"gooze.dev/pkg/classmut/internal/domain/mutagens"
	"gooze.dev/pkg/classmut/internal/fixture"
	"gooze.dev/pkg/classmut/internal/match"
	m "gooze.dev/pkg/classmut/internal/model"
)

// clampMethod is `if (a < b) { a++; a = a + b; }` without the loop.
func clampMethod(t *testing.T) *m.Method {
	t.Helper()

	method, err := fixture.NewAssembler().
		Var(m.ILOAD, 0).Var(m.ILOAD, 1).Jump(m.IF_ICMPGE, "end").
		Iinc(0, 1).
		Var(m.ILOAD, 0).Var(m.ILOAD, 1).Op(m.IADD).Var(m.ISTORE, 0).
		Label("end").Op(m.RETURN).
		Method("Clamp", "clamp", "(II)V", m.AccStatic, 2, 2)
	require.NoError(t, err)

	return method
}

func operators(t *testing.T, ids ...m.OperatorID) []mutagens.Operator {
	t.Helper()

	ops, err := mutagens.DefaultRegistry().Resolve(ids...)
	require.NoError(t, err)

	return ops
}

func TestEngine_Mutate(t *testing.T) {
	t.Run("orders by site then operator order", func(t *testing.T) {
		// Arrange
		method := clampMethod(t)
		ops := operators(t, mutagens.Math, mutagens.NegateConditionals, mutagens.RemoveIncrements, mutagens.ConditionalsBoundary)

		// Act
		mutants := domain.NewEngine(nil).Mutate(method, ops...)

		// Assert
		type site struct {
			index    int
			operator m.OperatorID
		}

		var got []site
		for _, mu := range mutants {
			got = append(got, site{mu.Index, mu.Operator})
		}

		assert.Equal(t, []site{
			{2, mutagens.NegateConditionals},
			{2, mutagens.ConditionalsBoundary},
			{3, mutagens.RemoveIncrements},
			{6, mutagens.Math},
		}, got)
	})

	t.Run("is deterministic", func(t *testing.T) {
		method := clampMethod(t)
		ops := mutagens.DefaultRegistry().All()
		engine := domain.NewEngine(nil)

		first := engine.Mutate(method, ops...)
		second := engine.Mutate(method, ops...)

		require.Len(t, second, len(first))

		for i := range first {
			assert.Equal(t, first[i].ID(), second[i].ID())
			assert.Equal(t, first[i].Instructions, second[i].Instructions)
		}
	})

	t.Run("relinks branches after a removal", func(t *testing.T) {
		method := clampMethod(t)

		mutants := domain.NewEngine(nil).Mutate(method, operators(t, mutagens.RemoveIncrements)...)

		require.Len(t, mutants, 1)
		mu := mutants[0]

		require.Len(t, mu.Instructions, len(method.Instructions)-1)
		assert.Equal(t, m.IF_ICMPGE, mu.Instructions[2].Op)
		assert.Equal(t, 7, mu.Instructions[2].Target)
		assert.Equal(t, m.RETURN, mu.Instructions[7].Op)

		for i, in := range mu.Instructions {
			assert.Equal(t, i, in.Index)

			if i > 0 {
				assert.Greater(t, in.Offset, mu.Instructions[i-1].Offset)
			}
		}
	})

	t.Run("leaves the original untouched", func(t *testing.T) {
		method := clampMethod(t)
		before := append([]m.Instruction(nil), method.Instructions...)

		_ = domain.NewEngine(nil).Mutate(method, mutagens.DefaultRegistry().All()...)

		assert.Equal(t, before, method.Instructions)
	})

	t.Run("drops mutants that fail verification", func(t *testing.T) {
		// Arrange
		method := clampMethod(t)
		push := mutagens.New("PUSH_CONSTANTS", "pushed constants", match.Op(m.RETURN),
			func(_ *m.Method, site match.Span) (m.Edit, bool) {
				insert := []m.Instruction{m.NewInstruction(m.ICONST_0), m.NewInstruction(m.ICONST_0), m.NewInstruction(m.ICONST_0)}
				return m.Edit{At: site.Start, Insert: insert}, true
			})

		var dropped []m.OperatorID
		var sites []int

		engine := domain.NewEngine(func(_ *m.Method, operator m.OperatorID, site int, err error) {
			assert.ErrorContains(t, err, "exceeds max")

			dropped = append(dropped, operator)
			sites = append(sites, site)
		})

		// Act
		mutants := engine.Mutate(method, push)

		// Assert
		assert.Empty(t, mutants)
		assert.Equal(t, []m.OperatorID{"PUSH_CONSTANTS"}, dropped)
		assert.Equal(t, []int{8}, sites)
	})

	t.Run("describes the mutated instruction", func(t *testing.T) {
		method := clampMethod(t)

		mutants := domain.NewEngine(nil).Mutate(method, operators(t, mutagens.Math)...)

		require.Len(t, mutants, 1)
		assert.Contains(t, mutants[0].Description, "iadd")
		assert.Equal(t, m.ISUB, mutants[0].Instructions[6].Op)
		assert.Equal(t, "Clamp::clamp(II)V@6:MATH", mutants[0].ID())
	})

	t.Run("ignores methods without code", func(t *testing.T) {
		engine := domain.NewEngine(nil)

		assert.Nil(t, engine.Mutate(nil, mutagens.DefaultRegistry().All()...))
		assert.Nil(t, engine.Mutate(&m.Method{Name: "abstract"}, mutagens.DefaultRegistry().All()...))
	})
}

func TestApplyEdit(t *testing.T) {
	t.Run("drops handlers whose range disappears", func(t *testing.T) {
		method := clampMethod(t)
		handlers := []m.ExceptionHandler{
			{Start: 3, End: 4, Handler: 8},
			{Start: 0, End: 8, Handler: 8},
		}

		insns, relinked, err := domain.ApplyEdit(method.Instructions, handlers, m.Edit{At: 3, Remove: 1})

		require.NoError(t, err)
		assert.Len(t, insns, 8)
		assert.Equal(t, []m.ExceptionHandler{{Start: 0, End: 7, Handler: 7}}, relinked)
	})

	t.Run("relinks inserted branches through the index map", func(t *testing.T) {
		method := clampMethod(t)
		jump := m.NewInstruction(m.GOTO)
		jump.Target = 8

		insns, _, err := domain.ApplyEdit(method.Instructions, nil, m.Edit{At: 3, Remove: 1, Insert: []m.Instruction{jump, m.NewInstruction(m.NOP)}})

		require.NoError(t, err)
		require.Len(t, insns, 10)
		assert.Equal(t, 9, insns[3].Target)
		assert.Equal(t, 9, insns[2].Target)
	})

	t.Run("rejects an edit outside the body", func(t *testing.T) {
		method := clampMethod(t)

		_, _, err := domain.ApplyEdit(method.Instructions, nil, m.Edit{At: 8, Remove: 2})

		assert.ErrorContains(t, err, "outside")
	})
}
