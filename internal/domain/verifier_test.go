package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gooze.dev/pkg/classmut/internal/domain"
	"gooze.dev/pkg/classmut/internal/fixture"
	m "gooze.dev/pkg/classmut/internal/model"
)

func build(t *testing.T, a *fixture.Assembler) []m.Instruction {
	t.Helper()

	insns, err := a.Build()
	require.NoError(t, err)

	return insns
}

func TestVerify(t *testing.T) {
	t.Run("accepts a counted loop", func(t *testing.T) {
		sample, ok := fixture.Lookup("CountedLoop")
		require.True(t, ok)

		for _, p := range m.Producers() {
			unit, err := sample.Unit(p)
			require.NoError(t, err)

			method, ok := unit.FirstMethod(m.Named(sample.Method))
			require.True(t, ok)

			assert.NoError(t, domain.Verify(method.Instructions, nil, method.MaxStack), p.String())
		}
	})

	t.Run("rejects an empty body", func(t *testing.T) {
		assert.ErrorContains(t, domain.Verify(nil, nil, 1), "empty method body")
	})

	t.Run("rejects stack underflow", func(t *testing.T) {
		insns := build(t, fixture.NewAssembler().Op(m.IADD).Op(m.RETURN))

		assert.ErrorContains(t, domain.Verify(insns, nil, 2), "underflow")
	})

	t.Run("rejects exceeding max stack", func(t *testing.T) {
		insns := build(t, fixture.NewAssembler().Op(m.ICONST_0).Op(m.ICONST_0).Op(m.POP2).Op(m.RETURN))

		assert.ErrorContains(t, domain.Verify(insns, nil, 1), "exceeds max")
		assert.NoError(t, domain.Verify(insns, nil, 2))
	})

	t.Run("rejects mismatched depth at merge", func(t *testing.T) {
		insns := build(t, fixture.NewAssembler().
			Var(m.ILOAD, 0).Jump(m.IFEQ, "join").
			Op(m.ICONST_1).
			Label("join").Op(m.RETURN))

		assert.ErrorContains(t, domain.Verify(insns, nil, 1), "at merge")
	})

	t.Run("rejects falling off the end", func(t *testing.T) {
		insns := build(t, fixture.NewAssembler().Op(m.ICONST_0).Op(m.POP))

		assert.ErrorContains(t, domain.Verify(insns, nil, 1), "outside")
	})

	t.Run("rejects a branch past the end", func(t *testing.T) {
		insns := build(t, fixture.NewAssembler().Label("top").Jump(m.GOTO, "top"))
		insns[0].Target = 3

		assert.Error(t, domain.Verify(insns, nil, 0))
	})

	t.Run("handlers start with one word", func(t *testing.T) {
		insns := build(t, fixture.NewAssembler().
			Op(m.ICONST_0).Op(m.POP).Op(m.RETURN).
			Op(m.POP).Op(m.RETURN))
		handlers := []m.ExceptionHandler{{Start: 0, End: 2, Handler: 3}}

		assert.NoError(t, domain.Verify(insns, handlers, 1))
	})

	t.Run("rejects handler range outside the body", func(t *testing.T) {
		insns := build(t, fixture.NewAssembler().Op(m.RETURN).Op(m.POP).Op(m.RETURN))
		handlers := []m.ExceptionHandler{{Start: 0, End: 7, Handler: 1}}

		assert.ErrorContains(t, domain.Verify(insns, handlers, 1), "handler 0")
	})
}
