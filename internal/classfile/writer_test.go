package classfile_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gooze.dev/pkg/classmut/internal/classfile"
	"gooze.dev/pkg/classmut/internal/domain"
	"gooze.dev/pkg/classmut/internal/domain/mutagens"
	"gooze.dev/pkg/classmut/internal/fixture"
	m "gooze.dev/pkg/classmut/internal/model"
)

func TestWriteMutant(t *testing.T) {
	sample, ok := fixture.Lookup("CountedLoop")
	require.True(t, ok)

	unit, err := sample.Unit(m.Javac)
	require.NoError(t, err)

	method, ok := unit.FirstMethod(m.Named("count"))
	require.True(t, ok)

	ops, err := mutagens.DefaultRegistry().Resolve(mutagens.RemoveIncrements)
	require.NoError(t, err)

	mutants := domain.NewEngine(nil).Mutate(method, ops...)
	require.Len(t, mutants, 1)

	t.Run("swaps in the mutated body", func(t *testing.T) {
		// Act
		data, err := classfile.WriteMutant(unit, mutants[0])

		// Assert
		require.NoError(t, err)

		got, err := classfile.Parse(data)
		require.NoError(t, err)

		parsed, ok := got.Method(method.Key())
		require.True(t, ok)
		assert.Equal(t, listing(mutants[0].Instructions), listing(parsed.Instructions))
		assert.NotEqual(t, listing(method.Instructions), listing(parsed.Instructions))

		sink, ok := got.FirstMethod(m.Named("sink"))
		require.True(t, ok)
		assert.Len(t, sink.Instructions, 1)
	})

	t.Run("writes a version verified without stack map frames", func(t *testing.T) {
		require.Equal(t, uint16(52), unit.MajorVersion)

		data, err := classfile.WriteMutant(unit, mutants[0])
		require.NoError(t, err)

		got, err := classfile.Parse(data)
		require.NoError(t, err)
		assert.Equal(t, uint16(49), got.MajorVersion)
		assert.Equal(t, uint16(52), unit.MajorVersion)
	})

	t.Run("leaves the original unit alone", func(t *testing.T) {
		_, err := classfile.WriteMutant(unit, mutants[0])
		require.NoError(t, err)

		current, ok := unit.Method(method.Key())
		require.True(t, ok)
		assert.Same(t, method, current)
	})

	t.Run("rejects a mutant of another class", func(t *testing.T) {
		other, err := m.NewClassUnit(m.ClassHeader{Name: "Other", SuperName: "java/lang/Object", MajorVersion: 52}, nil, nil)
		require.NoError(t, err)

		_, err = classfile.WriteMutant(other, mutants[0])
		assert.ErrorContains(t, err, "no method count()V in Other")
	})
}

func TestWriteMutant_NeedsFrames(t *testing.T) {
	loop := func() *fixture.Assembler {
		return fixture.NewAssembler().Var(m.ILOAD, 0).Jump(m.IFEQ, "out").Iinc(0, 1).Label("out")
	}

	tests := []struct {
		name   string
		access uint16
		insns  *fixture.Assembler
		tweak  func(*m.Method)
		reason string
	}{
		{
			name:   "interface method with a body",
			access: m.AccPublic | m.AccInterface | m.AccAbstract,
			insns:  loop().Op(m.RETURN),
			reason: "interface method run(I)V has a body",
		},
		{
			name:   "method type constant",
			access: m.AccPublic,
			insns:  loop().Ldc(m.Constant{Kind: m.ConstMethodType, Text: "()V"}).Op(m.POP).Op(m.RETURN),
			reason: "run(I)V loads a ldc constant",
		},
		{
			name:   "static interface call",
			access: m.AccPublic,
			insns:  loop().Invoke(m.INVOKESTATIC, "a/Api", "ping", "()V").Op(m.RETURN),
			tweak: func(method *m.Method) {
				method.Instructions[3].Ref.Interface = true
			},
			reason: "calls interface method",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			method, err := tt.insns.Method("a/Owner", "run", "(I)V", m.AccPublic, 2, 2)
			require.NoError(t, err)

			if tt.tweak != nil {
				tt.tweak(method)
			}

			unit, err := m.NewClassUnit(m.ClassHeader{Name: "a/Owner", SuperName: "java/lang/Object", MajorVersion: 52, Access: tt.access}, nil, []*m.Method{method})
			require.NoError(t, err)

			mutant := &m.Mutant{Method: method, Operator: "NOOP", Instructions: method.Instructions}

			// Act
			_, err = classfile.WriteMutant(unit, mutant)

			// Assert
			require.Error(t, err)
			assert.True(t, errors.Is(err, classfile.ErrNeedsFrames))
			assert.ErrorContains(t, err, tt.reason)
		})
	}

	t.Run("older classes keep their version", func(t *testing.T) {
		method, err := loop().Op(m.RETURN).Method("a/Old", "run", "(I)V", m.AccStatic, 1, 1)
		require.NoError(t, err)

		unit, err := m.NewClassUnit(m.ClassHeader{Name: "a/Old", SuperName: "java/lang/Object", MajorVersion: 48}, nil, []*m.Method{method})
		require.NoError(t, err)

		data, err := classfile.WriteMutant(unit, &m.Mutant{Method: method, Operator: "NOOP", Instructions: method.Instructions})
		require.NoError(t, err)

		got, err := classfile.Parse(data)
		require.NoError(t, err)
		assert.Equal(t, uint16(48), got.MajorVersion)
	})
}

const accFinal = 0x0010

func TestWrite_ConstantValue(t *testing.T) {
	// Arrange
	method, err := fixture.NewAssembler().Op(m.RETURN).Method("Limits", "run", "()V", m.AccStatic, 0, 0)
	require.NoError(t, err)

	fields := []m.Field{
		{Access: m.AccStatic | accFinal, Name: "LIMIT", Descriptor: "I", Value: &m.Constant{Kind: m.ConstInt, Int: 10}},
		{Access: m.AccStatic | accFinal, Name: "BIG", Descriptor: "J", Value: &m.Constant{Kind: m.ConstLong, Int: 1 << 40}},
		{Access: m.AccStatic | accFinal, Name: "NAME", Descriptor: "Ljava/lang/String;", Value: &m.Constant{Kind: m.ConstString, Text: "loop"}},
		{Access: 0, Name: "count", Descriptor: "I"},
	}

	unit, err := m.NewClassUnit(m.ClassHeader{Name: "Limits", SuperName: "java/lang/Object", MajorVersion: 52}, fields, []*m.Method{method})
	require.NoError(t, err)

	mutant := &m.Mutant{Method: method, Operator: "NOOP", Instructions: method.Instructions}

	for name, write := range map[string]func() ([]byte, error){
		"write":        func() ([]byte, error) { return classfile.Write(unit) },
		"write mutant": func() ([]byte, error) { return classfile.WriteMutant(unit, mutant) },
	} {
		t.Run(name, func(t *testing.T) {
			// Act
			data, err := write()
			require.NoError(t, err)

			got, err := classfile.Parse(data)

			// Assert
			require.NoError(t, err)
			assert.Equal(t, fields, got.Fields)
		})
	}
}
