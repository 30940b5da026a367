package classfile_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gooze.dev/pkg/classmut/internal/adapter"
	"gooze.dev/pkg/classmut/internal/classfile"
	"gooze.dev/pkg/classmut/internal/fixture"
	m "gooze.dev/pkg/classmut/internal/model"
)

func listing(insns []m.Instruction) []string {
	out := make([]string, len(insns))
	for i, in := range insns {
		out[i] = in.String()
	}

	return out
}

func TestParse_RoundTripsSamples(t *testing.T) {
	for _, sample := range fixture.Samples() {
		for _, producer := range m.Producers() {
			t.Run(sample.Class+"/"+producer.String(), func(t *testing.T) {
				// Arrange
				want, err := sample.Unit(producer)
				require.NoError(t, err)

				data, err := classfile.Write(want)
				require.NoError(t, err)

				// Act
				got, err := classfile.Parse(data)

				// Assert
				require.NoError(t, err)
				assert.Equal(t, want.Name, got.Name)
				assert.Equal(t, want.SuperName, got.SuperName)
				assert.ElementsMatch(t, want.Fields, got.Fields)
				require.Len(t, got.AllMethods(), len(want.AllMethods()))

				for i, wm := range want.AllMethods() {
					gm := got.AllMethods()[i]
					assert.Equal(t, wm.Key(), gm.Key())
					assert.Equal(t, wm.MaxStack, gm.MaxStack)
					assert.Equal(t, wm.MaxLocals, gm.MaxLocals)
					assert.Equal(t, listing(wm.Instructions), listing(gm.Instructions))

					for j, in := range gm.Instructions {
						assert.Equal(t, j, in.Index)
						assert.Equal(t, wm.Instructions[j].Offset, in.Offset)
					}
				}
			})
		}
	}
}

func newInsn(op m.Opcode, set func(*m.Instruction)) m.Instruction {
	in := m.NewInstruction(op)
	if set != nil {
		set(&in)
	}

	return in
}

func TestParse_RoundTripsOperandForms(t *testing.T) {
	// Arrange
	insns := []m.Instruction{
		newInsn(m.ILOAD, func(in *m.Instruction) { in.Local = 300 }),
		newInsn(m.TABLESWITCH, func(in *m.Instruction) {
			in.Table = &m.Switch{Default: 4, Low: 1, High: 2, Keys: []int32{1, 2}, Targets: []int{3, 4}}
		}),
		newInsn(m.ILOAD, func(in *m.Instruction) { in.Local = 0 }),
		newInsn(m.LOOKUPSWITCH, func(in *m.Instruction) {
			in.Table = &m.Switch{Default: 4, Keys: []int32{-5, 70000}, Targets: []int{4, 5}}
		}),
		newInsn(m.IINC, func(in *m.Instruction) { in.Local = 2; in.Const = 1000 }),
		newInsn(m.LDC, func(in *m.Instruction) { in.LDC = &m.Constant{Kind: m.ConstString, Text: "loop"} }),
		newInsn(m.POP, nil),
		newInsn(m.LDC2_W, func(in *m.Instruction) { in.LDC = &m.Constant{Kind: m.ConstLong, Int: 1 << 40} }),
		newInsn(m.POP2, nil),
		newInsn(m.SIPUSH, func(in *m.Instruction) { in.Const = -1234 }),
		newInsn(m.POP, nil),
		newInsn(m.GETSTATIC, func(in *m.Instruction) {
			in.Ref = &m.MemberRef{Owner: "a/B", Name: "flag", Descriptor: "Z"}
		}),
		newInsn(m.IRETURN, nil),
	}

	method := &m.Method{
		Owner: "a/B", Name: "forms", Descriptor: "()I", Access: m.AccStatic,
		MaxStack: 2, MaxLocals: 301, Instructions: insns,
		Handlers: []m.ExceptionHandler{{Start: 0, End: 13, Handler: 12, CatchType: "java/lang/Throwable"}},
	}

	unit, err := m.NewClassUnit(m.ClassHeader{Name: "a/B", SuperName: "java/lang/Object", MajorVersion: 52}, nil, []*m.Method{method})
	require.NoError(t, err)

	data, err := classfile.Write(unit)
	require.NoError(t, err)

	// Act
	got, err := classfile.Parse(data)

	// Assert
	require.NoError(t, err)

	parsed, ok := got.Method(method.Key())
	require.True(t, ok)
	assert.Equal(t, listing(insns), listing(parsed.Instructions))
	assert.Equal(t, method.Handlers, parsed.Handlers)
	assert.Equal(t, 300, parsed.Instructions[0].Local)
	assert.Equal(t, int64(1000), parsed.Instructions[4].Const)
}

func TestParse_Malformed(t *testing.T) {
	sample, ok := fixture.Lookup("CountedLoop")
	require.True(t, ok)

	valid, err := sample.Bytes(m.Javac)
	require.NoError(t, err)

	patch := func(find, replace []byte) []byte {
		i := bytes.Index(valid, find)
		require.GreaterOrEqual(t, i, 0, "pattern % x not found", find)

		out := bytes.Clone(valid)
		copy(out[i:], replace)

		return out
	}

	tests := []struct {
		name   string
		data   []byte
		reason string
	}{
		{"empty", nil, ""},
		{"bad magic", append([]byte{0xDE, 0xAD, 0xBE, 0xEF}, valid[4:]...), "bad magic"},
		{"truncated", valid[:len(valid)/2], ""},
		{"trailing bytes", append(bytes.Clone(valid), 0), "trailing"},
		// iconst_0; istore 0: replace iconst_0 with a reserved opcode.
		{"unknown opcode", patch([]byte{0x03, 0x36, 0x00}, []byte{0xcb}), "unknown opcode"},
		// bipush 10; if_icmpge +1 lands inside the branch itself.
		{"branch into instruction", patch([]byte{0x10, 0x0a, 0xa2}, []byte{0x10, 0x0a, 0xa2, 0x00, 0x01}), "instruction boundary"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Act
			unit, err := classfile.Parse(tt.data)

			// Assert
			require.Error(t, err)
			assert.Nil(t, unit)

			var mce *classfile.MalformedClassError
			require.ErrorAs(t, err, &mce)
			assert.Contains(t, err.Error(), tt.reason)
		})
	}
}

func TestParseFrom(t *testing.T) {
	ctx := context.Background()
	source := adapter.NewMapByteSource()

	sample, ok := fixture.Lookup("FlagLoop")
	require.True(t, ok)

	data, err := sample.Bytes(m.Eclipse)
	require.NoError(t, err)

	source.Put("FlagLoop", data)
	source.Put("Broken", []byte{0xCA, 0xFE})

	t.Run("found", func(t *testing.T) {
		unit, err := classfile.ParseFrom(ctx, source, "FlagLoop")
		require.NoError(t, err)
		assert.Equal(t, "FlagLoop", unit.Name)
	})

	t.Run("not found passes through", func(t *testing.T) {
		_, err := classfile.ParseFrom(ctx, source, "Missing")
		require.ErrorIs(t, err, adapter.ErrClassNotFound)

		var mce *classfile.MalformedClassError
		assert.False(t, errors.As(err, &mce))
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := classfile.ParseFrom(ctx, source, "Broken")

		var mce *classfile.MalformedClassError
		require.ErrorAs(t, err, &mce)
		assert.Contains(t, err.Error(), "parse Broken")
	})
}
