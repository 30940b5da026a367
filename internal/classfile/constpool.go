package classfile

import (
	"fmt"
	"unicode/utf16"

	"gooze.dev/pkg/classmut/internal/model"
)

// Constant pool tags.
const (
	tagUtf8               = 1
	tagInteger            = 3
	tagFloat              = 4
	tagLong               = 5
	tagDouble             = 6
	tagClass              = 7
	tagString             = 8
	tagFieldref           = 9
	tagMethodref          = 10
	tagInterfaceMethodref = 11
	tagNameAndType        = 12
	tagMethodHandle       = 15
	tagMethodType         = 16
	tagDynamic            = 17
	tagInvokeDynamic      = 18
	tagModule             = 19
	tagPackage            = 20
)

type cpEntry struct {
	tag  uint8
	a, b uint16
	num  uint64
	text string
}

type constantPool []cpEntry

func readConstantPool(r *reader) constantPool {
	count := int(r.u2("constant pool count"))
	if count == 0 {
		r.fail("constant pool count is zero")
		return nil
	}

	pool := make(constantPool, count)

	for i := 1; i < count; i++ {
		start := r.pos
		tag := r.u1("constant tag")
		entry := cpEntry{tag: tag}

		switch tag {
		case tagUtf8:
			n := int(r.u2("utf8 length"))

			raw := r.take(n, "utf8 bytes")
			if raw != nil {
				text, err := decodeModifiedUTF8(raw)
				if err != nil {
					r.fail("constant %d: %v", i, err)
				}

				entry.text = text
			}
		case tagInteger, tagFloat:
			entry.num = uint64(r.u4("int constant"))
		case tagLong, tagDouble:
			entry.num = r.u8("long constant")
		case tagClass, tagString, tagMethodType, tagModule, tagPackage:
			entry.a = r.u2("constant index")
		case tagFieldref, tagMethodref, tagInterfaceMethodref, tagNameAndType, tagDynamic, tagInvokeDynamic:
			entry.a = r.u2("constant index")
			entry.b = r.u2("constant index")
		case tagMethodHandle:
			entry.a = uint16(r.u1("reference kind"))
			entry.b = r.u2("reference index")
		default:
			if r.err == nil {
				r.err = malformed(start, "unknown constant tag %d at index %d", tag, i)
			}
		}

		if r.err != nil {
			return nil
		}

		pool[i] = entry

		if tag == tagLong || tag == tagDouble {
			i++
			if i >= count {
				r.err = malformed(start, "8-byte constant at index %d overruns pool", i-1)
				return nil
			}
		}
	}

	return pool
}

func (p constantPool) entry(index uint16, tags ...uint8) (cpEntry, error) {
	if int(index) == 0 || int(index) >= len(p) {
		return cpEntry{}, fmt.Errorf("constant index %d out of range", index)
	}

	e := p[index]
	for _, tag := range tags {
		if e.tag == tag {
			return e, nil
		}
	}

	return cpEntry{}, fmt.Errorf("constant %d has tag %d, want one of %v", index, e.tag, tags)
}

func (p constantPool) utf8(index uint16) (string, error) {
	e, err := p.entry(index, tagUtf8)
	if err != nil {
		return "", err
	}

	return e.text, nil
}

func (p constantPool) className(index uint16) (string, error) {
	e, err := p.entry(index, tagClass)
	if err != nil {
		return "", err
	}

	return p.utf8(e.a)
}

func (p constantPool) nameAndType(index uint16) (string, string, error) {
	e, err := p.entry(index, tagNameAndType)
	if err != nil {
		return "", "", err
	}

	name, err := p.utf8(e.a)
	if err != nil {
		return "", "", err
	}

	desc, err := p.utf8(e.b)
	if err != nil {
		return "", "", err
	}

	return name, desc, nil
}

func (p constantPool) memberRef(index uint16, tags ...uint8) (*model.MemberRef, error) {
	e, err := p.entry(index, tags...)
	if err != nil {
		return nil, err
	}

	owner, err := p.className(e.a)
	if err != nil {
		return nil, err
	}

	name, desc, err := p.nameAndType(e.b)
	if err != nil {
		return nil, err
	}

	return &model.MemberRef{
		Owner:      owner,
		Name:       name,
		Descriptor: desc,
		Interface:  e.tag == tagInterfaceMethodref,
	}, nil
}

func (p constantPool) dynamic(index uint16, tag uint8) (*model.DynamicRef, error) {
	e, err := p.entry(index, tag)
	if err != nil {
		return nil, err
	}

	name, desc, err := p.nameAndType(e.b)
	if err != nil {
		return nil, err
	}

	return &model.DynamicRef{BootstrapIndex: int(e.a), Name: name, Descriptor: desc}, nil
}

func (p constantPool) loadable(index uint16, wide bool) (*model.Constant, error) {
	tags := []uint8{tagInteger, tagFloat, tagString, tagClass, tagMethodType, tagMethodHandle, tagDynamic}
	if wide {
		tags = []uint8{tagLong, tagDouble, tagDynamic}
	}

	e, err := p.entry(index, tags...)
	if err != nil {
		return nil, err
	}

	switch e.tag {
	case tagInteger:
		return &model.Constant{Kind: model.ConstInt, Int: int64(int32(uint32(e.num)))}, nil
	case tagFloat:
		return &model.Constant{Kind: model.ConstFloat, Int: int64(e.num)}, nil
	case tagLong:
		return &model.Constant{Kind: model.ConstLong, Int: int64(e.num)}, nil
	case tagDouble:
		return &model.Constant{Kind: model.ConstDouble, Int: int64(e.num)}, nil
	case tagString:
		text, err := p.utf8(e.a)
		return &model.Constant{Kind: model.ConstString, Text: text}, err
	case tagClass:
		name, err := p.utf8(e.a)
		return &model.Constant{Kind: model.ConstClass, Text: name}, err
	case tagMethodType:
		desc, err := p.utf8(e.a)
		return &model.Constant{Kind: model.ConstMethodType, Text: desc}, err
	case tagMethodHandle:
		ref, err := p.memberRef(e.b, tagFieldref, tagMethodref, tagInterfaceMethodref)
		if err != nil {
			return nil, err
		}

		return &model.Constant{
			Kind:   model.ConstMethodHandle,
			Text:   ref.String(),
			Handle: &model.MethodHandle{RefKind: uint8(e.a), Ref: *ref},
		}, nil
	default:
		dyn, err := p.dynamic(index, tagDynamic)
		if err != nil {
			return nil, err
		}

		c := &model.Constant{Kind: model.ConstDynamic, Text: dyn.Name + ":" + dyn.Descriptor, Dynamic: dyn}
		if c.Wide() != wide {
			return nil, fmt.Errorf("dynamic constant %d has size mismatch for ldc form", index)
		}

		return c, nil
	}
}

// decodeModifiedUTF8 decodes the JVM's modified UTF-8: NUL is two bytes and
// supplementary characters are encoded as surrogate pairs.
func decodeModifiedUTF8(b []byte) (string, error) {
	units := make([]uint16, 0, len(b))

	for i := 0; i < len(b); {
		c := b[i]

		switch {
		case c&0x80 == 0:
			if c == 0 {
				return "", fmt.Errorf("raw NUL in utf8 constant")
			}

			units = append(units, uint16(c))
			i++
		case c&0xE0 == 0xC0:
			if i+1 >= len(b) || b[i+1]&0xC0 != 0x80 {
				return "", fmt.Errorf("bad utf8 sequence at %d", i)
			}

			units = append(units, uint16(c&0x1F)<<6|uint16(b[i+1]&0x3F))
			i += 2
		case c&0xF0 == 0xE0:
			if i+2 >= len(b) || b[i+1]&0xC0 != 0x80 || b[i+2]&0xC0 != 0x80 {
				return "", fmt.Errorf("bad utf8 sequence at %d", i)
			}

			units = append(units, uint16(c&0x0F)<<12|uint16(b[i+1]&0x3F)<<6|uint16(b[i+2]&0x3F))
			i += 3
		default:
			return "", fmt.Errorf("bad utf8 lead byte 0x%02x at %d", c, i)
		}
	}

	return string(utf16.Decode(units)), nil
}

func encodeModifiedUTF8(s string) []byte {
	units := utf16.Encode([]rune(s))
	out := make([]byte, 0, len(units))

	for _, u := range units {
		switch {
		case u != 0 && u < 0x80:
			out = append(out, byte(u))
		case u < 0x800:
			out = append(out, byte(0xC0|u>>6), byte(0x80|u&0x3F))
		default:
			out = append(out, byte(0xE0|u>>12), byte(0x80|(u>>6)&0x3F), byte(0x80|u&0x3F))
		}
	}

	return out
}
