package classfile

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"gooze.dev/pkg/classmut/internal/model"
)

// poolBuilder interns constants while a class is being written.
type poolBuilder struct {
	entries []cpEntry
	index   map[string]uint16
}

func newPoolBuilder() *poolBuilder {
	return &poolBuilder{
		entries: []cpEntry{{}},
		index:   make(map[string]uint16),
	}
}

func (p *poolBuilder) intern(key string, e cpEntry) uint16 {
	if idx, ok := p.index[key]; ok {
		return idx
	}

	idx := uint16(len(p.entries))
	p.entries = append(p.entries, e)

	if e.tag == tagLong || e.tag == tagDouble {
		p.entries = append(p.entries, cpEntry{})
	}

	p.index[key] = idx

	return idx
}

func (p *poolBuilder) utf8(s string) uint16 {
	return p.intern("u:"+s, cpEntry{tag: tagUtf8, text: s})
}

func (p *poolBuilder) class(name string) uint16 {
	n := p.utf8(name)
	return p.intern("c:"+name, cpEntry{tag: tagClass, a: n})
}

func (p *poolBuilder) nameAndType(name, desc string) uint16 {
	n, d := p.utf8(name), p.utf8(desc)
	return p.intern("nt:"+name+":"+desc, cpEntry{tag: tagNameAndType, a: n, b: d})
}

func (p *poolBuilder) member(tag uint8, ref model.MemberRef) uint16 {
	owner := p.class(ref.Owner)
	nt := p.nameAndType(ref.Name, ref.Descriptor)

	return p.intern(fmt.Sprintf("m%d:%s", tag, ref), cpEntry{tag: tag, a: owner, b: nt})
}

func (p *poolBuilder) methodTag(op model.Opcode, ref model.MemberRef) uint8 {
	if op == model.INVOKEINTERFACE || ref.Interface {
		return tagInterfaceMethodref
	}

	return tagMethodref
}

func (p *poolBuilder) constant(c model.Constant) (uint16, error) {
	switch c.Kind {
	case model.ConstInt:
		return p.intern(fmt.Sprintf("i:%d", int32(c.Int)), cpEntry{tag: tagInteger, num: uint64(uint32(int32(c.Int)))}), nil
	case model.ConstFloat:
		return p.intern(fmt.Sprintf("f:%d", uint32(c.Int)), cpEntry{tag: tagFloat, num: uint64(uint32(c.Int))}), nil
	case model.ConstLong:
		return p.intern(fmt.Sprintf("l:%d", c.Int), cpEntry{tag: tagLong, num: uint64(c.Int)}), nil
	case model.ConstDouble:
		return p.intern(fmt.Sprintf("d:%d", c.Int), cpEntry{tag: tagDouble, num: uint64(c.Int)}), nil
	case model.ConstString:
		s := p.utf8(c.Text)
		return p.intern("s:"+c.Text, cpEntry{tag: tagString, a: s}), nil
	case model.ConstClass:
		return p.class(c.Text), nil
	case model.ConstMethodType:
		d := p.utf8(c.Text)
		return p.intern("mt:"+c.Text, cpEntry{tag: tagMethodType, a: d}), nil
	case model.ConstMethodHandle:
		if c.Handle == nil {
			return 0, fmt.Errorf("method handle constant without reference")
		}

		tag := uint8(tagMethodref)

		switch {
		case c.Handle.RefKind <= 4:
			tag = tagFieldref
		case c.Handle.Ref.Interface:
			tag = tagInterfaceMethodref
		}

		ref := p.member(tag, c.Handle.Ref)

		return p.intern(fmt.Sprintf("mh:%d:%d", c.Handle.RefKind, ref), cpEntry{tag: tagMethodHandle, a: uint16(c.Handle.RefKind), b: ref}), nil
	}

	return 0, fmt.Errorf("constant kind %d cannot be written without bootstrap methods", c.Kind)
}

// operand interns the constant pool operand of in, returning 0 for
// instructions that have none.
func (p *poolBuilder) operand(in model.Instruction) (uint16, error) {
	switch in.Op.Format() {
	case model.FormatConstU1, model.FormatConstU2:
		if in.LDC == nil {
			return 0, fmt.Errorf("missing constant")
		}

		return p.constant(*in.LDC)
	case model.FormatField:
		if in.Ref == nil {
			return 0, fmt.Errorf("missing field reference")
		}

		return p.member(tagFieldref, *in.Ref), nil
	case model.FormatMethod, model.FormatInterfaceMethod:
		if in.Ref == nil {
			return 0, fmt.Errorf("missing method reference")
		}

		return p.member(p.methodTag(in.Op, *in.Ref), *in.Ref), nil
	case model.FormatClass, model.FormatMultiANewArray:
		if in.Class == "" {
			return 0, fmt.Errorf("missing class operand")
		}

		return p.class(in.Class), nil
	case model.FormatDynamic:
		return 0, fmt.Errorf("invokedynamic cannot be written without bootstrap methods")
	}

	return 0, nil
}

func (p *poolBuilder) writeTo(w *bytes.Buffer) {
	put := func(v any) {
		_ = binary.Write(w, binary.BigEndian, v)
	}

	put(uint16(len(p.entries)))

	for i := 1; i < len(p.entries); i++ {
		e := p.entries[i]
		put(e.tag)

		switch e.tag {
		case tagUtf8:
			raw := encodeModifiedUTF8(e.text)
			put(uint16(len(raw)))
			w.Write(raw)
		case tagInteger, tagFloat:
			put(uint32(e.num))
		case tagLong, tagDouble:
			put(e.num)
			i++
		case tagClass, tagString, tagMethodType:
			put(e.a)
		case tagMethodHandle:
			put(uint8(e.a))
			put(e.b)
		default:
			put(e.a)
			put(e.b)
		}
	}
}
