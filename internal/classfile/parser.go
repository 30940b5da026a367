// Package classfile decodes and encodes JVM class files.
package classfile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"gooze.dev/pkg/classmut/internal/model"
)

const magic = 0xCAFEBABE

// ByteSource supplies raw class bytes by fully qualified class name.
type ByteSource interface {
	Bytes(ctx context.Context, className string) ([]byte, error)
}

// ParseFrom reads className from source and parses it. Lookup errors from
// the source are returned unchanged.
func ParseFrom(ctx context.Context, source ByteSource, className string) (*model.ClassUnit, error) {
	data, err := source.Bytes(ctx, className)
	if err != nil {
		return nil, err
	}

	unit, err := Parse(data)
	if err != nil {
		slog.Error("Failed to parse class", "class", className, "error", err)
		return nil, fmt.Errorf("parse %s: %w", className, err)
	}

	return unit, nil
}

// Parse decodes a class file. Any failure is a *MalformedClassError and no
// partial result is returned.
func Parse(data []byte) (*model.ClassUnit, error) {
	unit, err := parse(data)
	if err != nil {
		var mce *MalformedClassError
		if !errors.As(err, &mce) {
			err = &MalformedClassError{Offset: -1, Reason: "invalid class", Err: err}
		}

		return nil, err
	}

	return unit, nil
}

func parse(data []byte) (*model.ClassUnit, error) {
	r := newReader(data)

	if m := r.u4("magic"); r.err == nil && m != magic {
		return nil, malformed(0, "bad magic 0x%08X", m)
	}

	minor := r.u2("minor version")
	major := r.u2("major version")

	pool := readConstantPool(r)
	if r.err != nil {
		return nil, r.err
	}

	access := r.u2("access flags")
	thisIndex := r.u2("this class")
	superIndex := r.u2("super class")

	if r.err != nil {
		return nil, r.err
	}

	name, err := pool.className(thisIndex)
	if err != nil {
		return nil, malformed(r.pos, "this class: %v", err)
	}

	var superName string
	if superIndex != 0 {
		if superName, err = pool.className(superIndex); err != nil {
			return nil, malformed(r.pos, "super class: %v", err)
		}
	}

	interfaces, err := readInterfaces(r, pool)
	if err != nil {
		return nil, err
	}

	fields, err := readFields(r, pool)
	if err != nil {
		return nil, err
	}

	methods, err := readMethods(r, pool, name)
	if err != nil {
		return nil, err
	}

	if err := skipAttributes(r); err != nil {
		return nil, err
	}

	if r.remaining() != 0 {
		return nil, malformed(r.pos, "%d trailing bytes", r.remaining())
	}

	header := model.ClassHeader{
		Name:         name,
		SuperName:    superName,
		Interfaces:   interfaces,
		MajorVersion: major,
		MinorVersion: minor,
		Access:       access,
	}

	unit, err := model.NewClassUnit(header, fields, methods)
	if err != nil {
		return nil, malformed(-1, "%v", err)
	}

	return unit, nil
}

func readInterfaces(r *reader, pool constantPool) ([]string, error) {
	count := int(r.u2("interfaces count"))
	interfaces := make([]string, 0, count)

	for i := 0; i < count; i++ {
		idx := r.u2("interface index")
		if r.err != nil {
			return nil, r.err
		}

		iface, err := pool.className(idx)
		if err != nil {
			return nil, malformed(r.pos, "interface %d: %v", i, err)
		}

		interfaces = append(interfaces, iface)
	}

	return interfaces, r.errOrNil()
}

func readFields(r *reader, pool constantPool) ([]model.Field, error) {
	count := int(r.u2("fields count"))
	fields := make([]model.Field, 0, count)

	for i := 0; i < count; i++ {
		access := r.u2("field access")
		name, desc, err := readNameAndDescriptor(r, pool)

		if err != nil {
			return nil, err
		}

		value, err := readFieldAttributes(r, pool, desc)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", name, err)
		}

		fields = append(fields, model.Field{Access: access, Name: name, Descriptor: desc, Value: value})
	}

	return fields, r.errOrNil()
}

// readFieldAttributes keeps the ConstantValue attribute and skips the rest.
func readFieldAttributes(r *reader, pool constantPool, desc string) (*model.Constant, error) {
	count := int(r.u2("attributes count"))

	var value *model.Constant

	for i := 0; i < count; i++ {
		nameIdx := r.u2("attribute name")
		length := int(r.u4("attribute length"))
		body := r.take(length, "attribute body")

		if r.err != nil {
			return nil, r.err
		}

		attrName, err := pool.utf8(nameIdx)
		if err != nil {
			return nil, malformed(r.pos, "attribute name: %v", err)
		}

		if attrName != "ConstantValue" {
			continue
		}

		if length != 2 || value != nil {
			return nil, malformed(r.pos, "bad ConstantValue attribute")
		}

		idx := newReader(body).u2("constant value index")

		value, err = pool.loadable(idx, desc == "J" || desc == "D")
		if err != nil {
			return nil, malformed(r.pos, "constant value: %v", err)
		}
	}

	return value, r.errOrNil()
}

func readNameAndDescriptor(r *reader, pool constantPool) (string, string, error) {
	nameIdx := r.u2("name index")
	descIdx := r.u2("descriptor index")

	if r.err != nil {
		return "", "", r.err
	}

	name, err := pool.utf8(nameIdx)
	if err != nil {
		return "", "", malformed(r.pos, "member name: %v", err)
	}

	desc, err := pool.utf8(descIdx)
	if err != nil {
		return "", "", malformed(r.pos, "member descriptor: %v", err)
	}

	return name, desc, nil
}

func readMethods(r *reader, pool constantPool, owner string) ([]*model.Method, error) {
	count := int(r.u2("methods count"))
	methods := make([]*model.Method, 0, count)

	for i := 0; i < count; i++ {
		access := r.u2("method access")

		name, desc, err := readNameAndDescriptor(r, pool)
		if err != nil {
			return nil, err
		}

		if _, _, err := model.MethodSlots(desc); err != nil {
			return nil, malformed(r.pos, "method %s: %v", name, err)
		}

		method := &model.Method{Owner: owner, Name: name, Descriptor: desc, Access: access}

		if err := readMethodAttributes(r, pool, method); err != nil {
			return nil, err
		}

		methods = append(methods, method)
	}

	return methods, r.errOrNil()
}

func readMethodAttributes(r *reader, pool constantPool, method *model.Method) error {
	count := int(r.u2("attributes count"))

	for i := 0; i < count; i++ {
		nameIdx := r.u2("attribute name")
		length := int(r.u4("attribute length"))
		body := r.take(length, "attribute body")

		if r.err != nil {
			return r.err
		}

		attrName, err := pool.utf8(nameIdx)
		if err != nil {
			return malformed(r.pos, "attribute name: %v", err)
		}

		if attrName != "Code" {
			continue
		}

		if method.HasCode() {
			return malformed(r.pos, "method %s has two Code attributes", method.Key())
		}

		if err := readCode(body, pool, method); err != nil {
			var mce *MalformedClassError
			if errors.As(err, &mce) && mce.Offset >= 0 {
				mce.Offset += r.pos - length
			}

			return fmt.Errorf("method %s: %w", method.Key(), err)
		}
	}

	return r.errOrNil()
}

func readCode(body []byte, pool constantPool, method *model.Method) error {
	r := newReader(body)

	method.MaxStack = int(r.u2("max stack"))
	method.MaxLocals = int(r.u2("max locals"))
	codeLen := int(r.u4("code length"))

	if r.err == nil && (codeLen == 0 || codeLen > 65535) {
		return malformed(r.pos, "code length %d out of range", codeLen)
	}

	code := r.take(codeLen, "code")
	if r.err != nil {
		return r.err
	}

	insns, offsets, err := decodeCode(code, pool)
	if err != nil {
		return err
	}

	handlerCount := int(r.u2("exception table length"))
	handlers := make([]model.ExceptionHandler, 0, handlerCount)

	for i := 0; i < handlerCount; i++ {
		startPC := int(r.u2("handler start"))
		endPC := int(r.u2("handler end"))
		handlerPC := int(r.u2("handler pc"))
		catchIdx := r.u2("catch type")

		if r.err != nil {
			return r.err
		}

		h, err := resolveHandler(offsets, len(insns), startPC, endPC, handlerPC)
		if err != nil {
			return malformed(r.pos, "exception handler %d: %v", i, err)
		}

		if catchIdx != 0 {
			if h.CatchType, err = pool.className(catchIdx); err != nil {
				return malformed(r.pos, "exception handler %d: %v", i, err)
			}
		}

		handlers = append(handlers, h)
	}

	if err := skipAttributes(r); err != nil {
		return err
	}

	if r.remaining() != 0 {
		return malformed(r.pos, "Code attribute has %d trailing bytes", r.remaining())
	}

	method.Instructions = insns
	method.Handlers = handlers

	return nil
}

func resolveHandler(offsets map[int]int, n, startPC, endPC, handlerPC int) (model.ExceptionHandler, error) {
	start, ok1 := offsets[startPC]
	end, ok2 := offsets[endPC]
	handler, ok3 := offsets[handlerPC]

	if !ok1 || !ok2 || !ok3 || start >= end || start == n || handler == n {
		return model.ExceptionHandler{}, fmt.Errorf("range [%d,%d) -> %d does not align with instructions", startPC, endPC, handlerPC)
	}

	return model.ExceptionHandler{Start: start, End: end, Handler: handler}, nil
}

func skipAttributes(r *reader) error {
	count := int(r.u2("attributes count"))

	for i := 0; i < count; i++ {
		r.u2("attribute name")
		length := int(r.u4("attribute length"))
		r.take(length, "attribute body")
	}

	return r.errOrNil()
}

func (r *reader) errOrNil() error {
	if r.err != nil {
		return r.err
	}

	return nil
}
